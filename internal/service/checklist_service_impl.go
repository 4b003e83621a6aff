package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/dealflow/internal/checklist"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
	"github.com/alexanderramin/dealflow/internal/reference"
)

// ErrUnknownChecklistItem is returned when a mark names an item that is not
// part of the deal's generated checklist.
var ErrUnknownChecklistItem = errors.New("unknown checklist item")

// DealChecklist is the checklist generated for a deal together with the review
// marks recorded on the stage it applies to.
type DealChecklist struct {
	DealID   string                          `json:"deal_id"`
	Stage    domain.Stage                    `json:"stage"`
	Country  reference.CountryContext        `json:"-"`
	Items    []checklist.Item                `json:"items"`
	Summary  checklist.Summary               `json:"summary"`
	Marks    map[string]domain.ChecklistMark `json:"marks"`
	Progress map[domain.ChecklistMark]int    `json:"progress"`
}

// ChecklistInput derives the generator input from a deal: its stored risk
// category, the country flags from the reference tables and the gender-lens
// gaps from a fresh eligibility evaluation.
func ChecklistInput(d *domain.Deal) checklist.Input {
	country := reference.LookupCountry(d.Country)
	return checklist.Input{
		Sector:  d.Sector,
		Risk:    d.RiskCategory,
		Fragile: country.Fragile,
		LDC:     country.LDC,
		Gaps:    eligibility.Evaluate(d.TwoX, d.Sector).Recommendations,
	}
}

type checklistService struct {
	store    Store
	observer UseCaseObserver
	now      clock
}

func NewChecklistService(store Store, observers ...UseCaseObserver) ChecklistService {
	return &checklistService{
		store:    store,
		observer: useCaseObserverOrNoop(observers),
		now:      systemClock,
	}
}

func (s *checklistService) ForDeal(ctx context.Context, dealID string) (*DealChecklist, error) {
	d, err := s.store.Deals.Get(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return buildDealChecklist(d), nil
}

func (s *checklistService) Mark(ctx context.Context, dealID, itemID string, mark domain.ChecklistMark) (out *DealChecklist, err error) {
	startedAt := time.Now()
	fields := map[string]any{"deal_id": dealID, "item_id": itemID, "mark": string(mark)}
	defer func() { observe(ctx, s.observer, "mark-checklist-item", startedAt, fields, err) }()

	now := s.now()
	d, err := s.store.update(ctx, dealID, func(d *domain.Deal) error {
		if !containsItem(checklist.Generate(ChecklistInput(d)), itemID) {
			return fmt.Errorf("%w: %s", ErrUnknownChecklistItem, itemID)
		}
		return d.SetChecklistMark(itemID, mark, now)
	})
	if err != nil {
		return nil, err
	}
	return buildDealChecklist(d), nil
}

func buildDealChecklist(d *domain.Deal) *DealChecklist {
	items := checklist.Generate(ChecklistInput(d))

	stage := d.CurrentStage
	sd, ok := d.CurrentStageData()
	if !ok {
		stage, sd = d.LastActiveStage()
	}
	marks := map[string]domain.ChecklistMark{}
	if sd != nil {
		for k, v := range sd.ChecklistStatus {
			marks[k] = v
		}
	}

	return &DealChecklist{
		DealID:   d.ID,
		Stage:    stage,
		Country:  reference.LookupCountry(d.Country),
		Items:    items,
		Summary:  checklist.Summarize(items),
		Marks:    marks,
		Progress: checklist.Progress(items, marks),
	}
}

func containsItem(items []checklist.Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
