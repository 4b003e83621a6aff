package service

import (
	"context"
	"io"

	"github.com/alexanderramin/dealflow/internal/domain"
)

type DealService interface {
	Create(ctx context.Context, in CreateDealInput) (*domain.Deal, error)
	Get(ctx context.Context, id string) (*domain.Deal, error)
	List(ctx context.Context, filter DealFilter) ([]*domain.Deal, error)
	Search(ctx context.Context, query string) ([]*domain.Deal, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.Deal, error)
	Advance(ctx context.Context, id string, target domain.Stage, analyst string) (*domain.Deal, error)
	Reject(ctx context.Context, id string, rationale string) (*domain.Deal, error)
	Exit(ctx context.Context, id string, rationale string) (*domain.Deal, error)
	SetStatus(ctx context.Context, id string, status domain.StageStatus) (*domain.Deal, error)
	Decide(ctx context.Context, id string, decision domain.Decision, rationale string) (*domain.Deal, error)
	Comment(ctx context.Context, id string, text, author string) (*domain.Deal, error)
	AddCondition(ctx context.Context, id string, condition string) (*domain.Deal, error)
	// RecordAnalysis stores generated analysis text on the current stage and
	// returns the text it replaced.
	RecordAnalysis(ctx context.Context, id string, text string) (string, error)
	Delete(ctx context.Context, id string) error
}

type ActionPlanService interface {
	AddItem(ctx context.Context, dealID string, item domain.ActionItem) (domain.ActionItem, error)
	UpdateStatus(ctx context.Context, dealID, itemID string, status domain.ActionStatus, note string) error
	RemoveItem(ctx context.Context, dealID, itemID string) error
	Plan(ctx context.Context, dealID string) (*ActionPlan, error)
	RecordKPIs(ctx context.Context, dealID string, data map[string]float64) (*domain.Deal, error)
	KPIHistory(ctx context.Context, dealID string) (*KPIReport, error)
}

type ChecklistService interface {
	ForDeal(ctx context.Context, dealID string) (*DealChecklist, error)
	Mark(ctx context.Context, dealID, itemID string, mark domain.ChecklistMark) (*DealChecklist, error)
}

type PortfolioService interface {
	Stats(ctx context.Context) (*PortfolioStats, error)
	Recent(ctx context.Context, limit int) ([]*domain.Deal, error)
	Export(ctx context.Context, w io.Writer) error
}

type DocumentService interface {
	Upload(ctx context.Context, dealID string, files []Upload) ([]UploadResult, error)
}
