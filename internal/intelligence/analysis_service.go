package intelligence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/llm"
)

// ErrNotCurrentStage is returned when asking to store an analysis for a
// stage the deal is not in.
var ErrNotCurrentStage = errors.New("stage is not the deal's current stage")

// DealStore is the slice of the deal service the analysis needs.
type DealStore interface {
	Get(ctx context.Context, id string) (*domain.Deal, error)
	RecordAnalysis(ctx context.Context, id string, text string) (string, error)
}

// Analysis is a generated stage analysis.
type Analysis struct {
	DealID   string           `json:"deal_id"`
	Stage    domain.Stage     `json:"stage"`
	Text     string           `json:"text"`
	Report   Report           `json:"report"`
	Provider llm.ProviderName `json:"provider"`
	Model    string           `json:"model"`
	// Patch is a unified patch from the replaced analysis, empty on the first draft.
	Patch string `json:"patch,omitempty"`
}

// AnalysisService drafts the AI analysis for a deal's stage.
type AnalysisService interface {
	// Draft generates the analysis for stage and stores it on the deal.
	// An empty stage means the current one.
	Draft(ctx context.Context, dealID string, stage domain.Stage) (*Analysis, error)

	// Preview generates the analysis for any stage without storing it.
	Preview(ctx context.Context, dealID string, stage domain.Stage) (*Analysis, error)
}

type analysisService struct {
	deals DealStore
	gen   llm.Generator
	now   func() time.Time
}

// NewAnalysisService creates an AnalysisService over deals and gen.
func NewAnalysisService(deals DealStore, gen llm.Generator) AnalysisService {
	return &analysisService{
		deals: deals,
		gen:   gen,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *analysisService) Draft(ctx context.Context, dealID string, stage domain.Stage) (*Analysis, error) {
	d, err := s.deals.Get(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d.CurrentStage.IsTerminal() {
		return nil, domain.ErrNoCurrentStage
	}
	if stage == "" {
		stage = d.CurrentStage
	}
	if stage != d.CurrentStage {
		return nil, fmt.Errorf("%w: %s (deal is in %s)", ErrNotCurrentStage, stage, d.CurrentStage)
	}

	a, err := s.generate(ctx, d, stage)
	if err != nil {
		return nil, err
	}

	previous, err := s.deals.RecordAnalysis(ctx, dealID, a.Text)
	if err != nil {
		return nil, fmt.Errorf("storing analysis: %w", err)
	}
	if previous != "" && previous != a.Text {
		a.Patch = analysisPatch(previous, a.Text)
	}
	return a, nil
}

func (s *analysisService) Preview(ctx context.Context, dealID string, stage domain.Stage) (*Analysis, error) {
	d, err := s.deals.Get(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if stage == "" {
		stage = d.CurrentStage
	}
	if _, err := domain.ParseStage(string(stage)); err != nil {
		return nil, err
	}
	if stage.IsTerminal() {
		return nil, domain.ErrNoCurrentStage
	}
	return s.generate(ctx, d, stage)
}

func (s *analysisService) generate(ctx context.Context, d *domain.Deal, stage domain.Stage) (*Analysis, error) {
	system, user := BuildAnalysisPrompt(NewPromptContext(d, stage, s.now()))

	task := llm.TaskAnalysis
	if stage == domain.StageMonitoring {
		task = llm.TaskReport
	}
	resp, err := s.gen.Generate(ctx, llm.GenerateRequest{
		Task:         task,
		SystemPrompt: system,
		UserPrompt:   user,
	})
	if err != nil {
		return nil, fmt.Errorf("generating %s analysis: %w", stage, err)
	}

	return &Analysis{
		DealID:   d.ID,
		Stage:    stage,
		Text:     resp.Text,
		Report:   ParseReport(resp.Text),
		Provider: resp.Provider,
		Model:    resp.Model,
	}, nil
}

func analysisPatch(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(before, diffs))
}
