package service

import (
	"context"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
)

// ActionPlan is a deal's environmental and social action plan with its
// completion summary.
type ActionPlan struct {
	DealID  string              `json:"deal_id"`
	Items   []domain.ActionItem `json:"items"`
	Summary domain.ESAPSummary  `json:"summary"`
}

// KPIReport is a deal's monitoring history.
type KPIReport struct {
	DealID    string               `json:"deal_id"`
	Snapshots []domain.KPISnapshot `json:"snapshots"`
	Deltas    []domain.KPIDelta    `json:"deltas"`
	TwoX      eligibility.Result   `json:"two_x"`
}

type actionPlanService struct {
	store    Store
	observer UseCaseObserver
	now      clock
}

func NewActionPlanService(store Store, observers ...UseCaseObserver) ActionPlanService {
	return &actionPlanService{
		store:    store,
		observer: useCaseObserverOrNoop(observers),
		now:      systemClock,
	}
}

func (s *actionPlanService) AddItem(ctx context.Context, dealID string, item domain.ActionItem) (added domain.ActionItem, err error) {
	startedAt := time.Now()
	fields := map[string]any{"deal_id": dealID, "category": string(item.Category)}
	defer func() { observe(ctx, s.observer, "add-action-item", startedAt, fields, err) }()

	now := s.now()
	_, err = s.store.update(ctx, dealID, func(d *domain.Deal) error {
		var addErr error
		added, addErr = d.AddActionItem(item, now)
		return addErr
	})
	if err != nil {
		return domain.ActionItem{}, err
	}
	fields["item_id"] = added.ID
	return added, nil
}

func (s *actionPlanService) UpdateStatus(ctx context.Context, dealID, itemID string, status domain.ActionStatus, note string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"deal_id": dealID, "item_id": itemID, "status": string(status)}
	defer func() { observe(ctx, s.observer, "update-action-status", startedAt, fields, err) }()

	now := s.now()
	_, err = s.store.update(ctx, dealID, func(d *domain.Deal) error {
		return d.UpdateActionStatus(itemID, status, note, now)
	})
	return err
}

func (s *actionPlanService) RemoveItem(ctx context.Context, dealID, itemID string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"deal_id": dealID, "item_id": itemID}
	defer func() { observe(ctx, s.observer, "remove-action-item", startedAt, fields, err) }()

	now := s.now()
	_, err = s.store.update(ctx, dealID, func(d *domain.Deal) error {
		return d.RemoveActionItem(itemID, now)
	})
	return err
}

func (s *actionPlanService) Plan(ctx context.Context, dealID string) (*ActionPlan, error) {
	d, err := s.store.Deals.Get(ctx, dealID)
	if err != nil {
		return nil, err
	}
	items := d.ActionItems
	if items == nil {
		items = []domain.ActionItem{}
	}
	return &ActionPlan{
		DealID:  d.ID,
		Items:   items,
		Summary: d.ActionPlanSummary(s.now()),
	}, nil
}

func (s *actionPlanService) RecordKPIs(ctx context.Context, dealID string, data map[string]float64) (deal *domain.Deal, err error) {
	startedAt := time.Now()
	fields := map[string]any{"deal_id": dealID, "metrics": len(data)}
	defer func() { observe(ctx, s.observer, "record-kpis", startedAt, fields, err) }()

	if len(data) == 0 {
		return nil, &domain.ValidationError{Field: "kpis", Message: "at least one metric is required"}
	}
	now := s.now()
	deal, err = s.store.update(ctx, dealID, func(d *domain.Deal) error {
		d.AddKPISnapshot(data, eligibility.Score, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["two_x_eligible"] = deal.TwoXEligible
	return deal, nil
}

func (s *actionPlanService) KPIHistory(ctx context.Context, dealID string) (*KPIReport, error) {
	d, err := s.store.Deals.Get(ctx, dealID)
	if err != nil {
		return nil, err
	}
	snaps := d.KPIHistory
	if snaps == nil {
		snaps = []domain.KPISnapshot{}
	}
	return &KPIReport{
		DealID:    d.ID,
		Snapshots: snaps,
		Deltas:    d.KPIDeltas(),
		TwoX:      eligibility.Evaluate(d.TwoX, d.Sector),
	}, nil
}
