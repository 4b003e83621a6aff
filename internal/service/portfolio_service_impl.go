package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// PortfolioStats aggregates the pipeline. Gender-lens figures cover active
// deals only; action-plan figures cover deals in monitoring.
type PortfolioStats struct {
	Total        int                         `json:"total"`
	Active       int                         `json:"active"`
	ByStage      map[domain.Stage]int        `json:"by_stage"`
	BySector     map[string]int              `json:"by_sector"`
	ByCountry    map[string]int              `json:"by_country"`
	ByRisk       map[domain.RiskCategory]int `json:"by_risk"`
	TwoXEligible int                         `json:"two_x_eligible"`
	TwoXRate     float64                     `json:"two_x_rate"`
	ESAP         domain.ESAPSummary          `json:"esap"`
}

// PortfolioExport is the document written by Export.
type PortfolioExport struct {
	ExportedAt time.Time      `json:"exported_at"`
	Stats      PortfolioStats `json:"stats"`
	Deals      []*domain.Deal `json:"deals"`
}

// DefaultRecentLimit is used when Recent is asked for a non-positive count.
const DefaultRecentLimit = 5

type portfolioService struct {
	store    Store
	observer UseCaseObserver
	now      clock
}

func NewPortfolioService(store Store, observers ...UseCaseObserver) PortfolioService {
	return &portfolioService{
		store:    store,
		observer: useCaseObserverOrNoop(observers),
		now:      systemClock,
	}
}

func (s *portfolioService) Stats(ctx context.Context) (*PortfolioStats, error) {
	deals, err := s.store.Deals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	stats := computeStats(deals, s.now())
	return &stats, nil
}

func (s *portfolioService) Recent(ctx context.Context, limit int) ([]*domain.Deal, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.store.Deals.ListRecent(ctx, limit)
}

func (s *portfolioService) Export(ctx context.Context, w io.Writer) (err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "export-portfolio", startedAt, fields, err) }()

	deals, err := s.store.Deals.List(ctx)
	if err != nil {
		return fmt.Errorf("listing deals: %w", err)
	}
	if deals == nil {
		deals = []*domain.Deal{}
	}
	now := s.now()
	doc := PortfolioExport{
		ExportedAt: now,
		Stats:      computeStats(deals, now),
		Deals:      deals,
	}
	fields["deals"] = len(deals)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err = enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding portfolio: %w", err)
	}
	return nil
}

func computeStats(deals []*domain.Deal, now time.Time) PortfolioStats {
	stats := PortfolioStats{
		Total:     len(deals),
		ByStage:   make(map[domain.Stage]int),
		BySector:  make(map[string]int),
		ByCountry: make(map[string]int),
		ByRisk:    make(map[domain.RiskCategory]int),
	}
	for _, st := range domain.AllStages() {
		stats.ByStage[st] = 0
	}

	for _, d := range deals {
		stats.ByStage[d.CurrentStage]++
		stats.BySector[d.Sector]++
		stats.ByCountry[d.Country]++
		if d.RiskCategory != "" {
			stats.ByRisk[d.RiskCategory]++
		}
		if d.IsActive() {
			stats.Active++
			if d.TwoXEligible {
				stats.TwoXEligible++
			}
		}
		if d.CurrentStage == domain.StageMonitoring {
			sum := d.ActionPlanSummary(now)
			stats.ESAP.Total += sum.Total
			stats.ESAP.Completed += sum.Completed
			stats.ESAP.InProgress += sum.InProgress
			stats.ESAP.NotStarted += sum.NotStarted
			stats.ESAP.Overdue += sum.Overdue
		}
	}

	if stats.Active > 0 {
		stats.TwoXRate = roundTenth(float64(stats.TwoXEligible) / float64(stats.Active) * 100)
	}
	if stats.ESAP.Total > 0 {
		stats.ESAP.CompletionRate = roundTenth(float64(stats.ESAP.Completed) / float64(stats.ESAP.Total) * 100)
	}
	return stats
}

func roundTenth(v float64) float64 { return math.Round(v*10) / 10 }
