package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/dealflow/internal/domain"
)

var (
	// ErrNotFound is returned when no deal has the requested id.
	ErrNotFound = errors.New("deal not found")
	// ErrVersionConflict is returned by Save when the stored deal was changed
	// since the caller loaded it.
	ErrVersionConflict = errors.New("deal was modified concurrently")
)

// DealRepo persists deals. Save inserts a deal whose Version is zero and
// otherwise updates it only if the stored version still matches; on success
// the deal's Version is incremented.
type DealRepo interface {
	Save(ctx context.Context, d *domain.Deal) error
	Get(ctx context.Context, id string) (*domain.Deal, error)
	List(ctx context.Context) ([]*domain.Deal, error)
	ListByStage(ctx context.Context, stage domain.Stage) ([]*domain.Deal, error)
	ListByStatus(ctx context.Context, stage domain.Stage, status domain.StageStatus) ([]*domain.Deal, error)
	ListActive(ctx context.Context) ([]*domain.Deal, error)
	Search(ctx context.Context, query string) ([]*domain.Deal, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Deal, error)
	Delete(ctx context.Context, id string) error
}
