package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// CreateDealInput carries the screening profile of a new deal.
type CreateDealInput struct {
	CompanyName     string           `json:"company_name"`
	Country         string           `json:"country"`
	Sector          string           `json:"sector"`
	Subsector       string           `json:"subsector"`
	Description     string           `json:"description"`
	Employees       *int             `json:"employees,omitempty"`
	Revenue         string           `json:"revenue"`
	YearFounded     *int             `json:"year_founded,omitempty"`
	TargetMarket    string           `json:"target_market"`
	GeographicScope []string         `json:"geographic_scope"`
	TwoX            domain.TwoXInput `json:"two_x"`
	Tags            []string         `json:"tags"`
	Analyst         string           `json:"analyst"`
}

// ProfileUpdate changes profile fields of an existing deal. Nil fields are
// left as they are.
type ProfileUpdate struct {
	Sector          *string           `json:"sector,omitempty"`
	Subsector       *string           `json:"subsector,omitempty"`
	Description     *string           `json:"description,omitempty"`
	Employees       *int              `json:"employees,omitempty"`
	Revenue         *string           `json:"revenue,omitempty"`
	YearFounded     *int              `json:"year_founded,omitempty"`
	TargetMarket    *string           `json:"target_market,omitempty"`
	GeographicScope []string          `json:"geographic_scope,omitempty"`
	TwoX            *domain.TwoXInput `json:"two_x,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
}

// DealFilter narrows List. Zero values match everything.
type DealFilter struct {
	Stage      domain.Stage
	Status     domain.StageStatus
	ActiveOnly bool
}

type dealService struct {
	store    Store
	observer UseCaseObserver
	now      clock
}

func NewDealService(store Store, observers ...UseCaseObserver) DealService {
	return &dealService{
		store:    store,
		observer: useCaseObserverOrNoop(observers),
		now:      systemClock,
	}
}

func (s *dealService) Create(ctx context.Context, in CreateDealInput) (deal *domain.Deal, err error) {
	startedAt := time.Now()
	fields := map[string]any{"company": in.CompanyName, "sector": in.Sector}
	defer func() { observe(ctx, s.observer, "create-deal", startedAt, fields, err) }()

	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, &domain.ValidationError{Field: "company_name", Message: "is required"}
	}
	country := strings.TrimSpace(in.Country)
	if country == "" {
		return nil, &domain.ValidationError{Field: "country", Message: "is required"}
	}
	sector := strings.TrimSpace(in.Sector)
	if sector == "" {
		return nil, &domain.ValidationError{Field: "sector", Message: "is required"}
	}

	d := domain.NewDeal(name, country, sector, s.now())
	d.Subsector = strings.TrimSpace(in.Subsector)
	d.Description = in.Description
	d.Employees = in.Employees
	d.Revenue = in.Revenue
	d.YearFounded = in.YearFounded
	d.TargetMarket = in.TargetMarket
	d.GeographicScope = in.GeographicScope
	d.TwoX = in.TwoX
	d.Tags = in.Tags
	if sd, ok := d.CurrentStageData(); ok {
		sd.Analyst = in.Analyst
	}
	deriveAssessment(d)

	if err = s.store.Deals.Save(ctx, d); err != nil {
		return nil, err
	}
	fields["deal_id"] = d.ID
	fields["risk_category"] = string(d.RiskCategory)
	fields["two_x_eligible"] = d.TwoXEligible
	return d, nil
}

func (s *dealService) Get(ctx context.Context, id string) (*domain.Deal, error) {
	return s.store.Deals.Get(ctx, id)
}

func (s *dealService) List(ctx context.Context, filter DealFilter) ([]*domain.Deal, error) {
	switch {
	case filter.Stage != "" && filter.Status != "":
		return s.store.Deals.ListByStatus(ctx, filter.Stage, filter.Status)
	case filter.Stage != "":
		return s.store.Deals.ListByStage(ctx, filter.Stage)
	case filter.ActiveOnly:
		return s.store.Deals.ListActive(ctx)
	default:
		return s.store.Deals.List(ctx)
	}
}

func (s *dealService) Search(ctx context.Context, query string) ([]*domain.Deal, error) {
	return s.store.Deals.Search(ctx, strings.TrimSpace(query))
}

func (s *dealService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (deal *domain.Deal, err error) {
	return s.mutate(ctx, "update-profile", id, nil, func(d *domain.Deal, now time.Time) error {
		if upd.Sector != nil {
			sector := strings.TrimSpace(*upd.Sector)
			if sector == "" {
				return &domain.ValidationError{Field: "sector", Message: "must not be empty"}
			}
			d.Sector = sector
		}
		if upd.Subsector != nil {
			d.Subsector = strings.TrimSpace(*upd.Subsector)
		}
		if upd.Description != nil {
			d.Description = *upd.Description
		}
		if upd.Employees != nil {
			d.Employees = upd.Employees
		}
		if upd.Revenue != nil {
			d.Revenue = *upd.Revenue
		}
		if upd.YearFounded != nil {
			d.YearFounded = upd.YearFounded
		}
		if upd.TargetMarket != nil {
			d.TargetMarket = *upd.TargetMarket
		}
		if upd.GeographicScope != nil {
			d.GeographicScope = upd.GeographicScope
		}
		if upd.TwoX != nil {
			d.TwoX = *upd.TwoX
		}
		if upd.Tags != nil {
			d.Tags = upd.Tags
		}
		deriveAssessment(d)
		d.UpdatedAt = now
		return nil
	})
}

func (s *dealService) Advance(ctx context.Context, id string, target domain.Stage, analyst string) (*domain.Deal, error) {
	fields := map[string]any{"target": string(target)}
	return s.mutate(ctx, "advance-stage", id, fields, func(d *domain.Deal, now time.Time) error {
		fields["from"] = string(d.CurrentStage)
		return d.Advance(target, analyst, now)
	})
}

func (s *dealService) Reject(ctx context.Context, id string, rationale string) (*domain.Deal, error) {
	fields := map[string]any{}
	return s.mutate(ctx, "reject-deal", id, fields, func(d *domain.Deal, now time.Time) error {
		fields["from"] = string(d.CurrentStage)
		return d.Reject(rationale, now)
	})
}

func (s *dealService) Exit(ctx context.Context, id string, rationale string) (*domain.Deal, error) {
	fields := map[string]any{}
	return s.mutate(ctx, "exit-deal", id, fields, func(d *domain.Deal, now time.Time) error {
		fields["from"] = string(d.CurrentStage)
		return d.Exit(rationale, now)
	})
}

func (s *dealService) SetStatus(ctx context.Context, id string, status domain.StageStatus) (*domain.Deal, error) {
	return s.mutate(ctx, "set-stage-status", id, map[string]any{"status": string(status)}, func(d *domain.Deal, now time.Time) error {
		return d.SetStageStatus(status, now)
	})
}

func (s *dealService) Decide(ctx context.Context, id string, decision domain.Decision, rationale string) (*domain.Deal, error) {
	return s.mutate(ctx, "record-decision", id, map[string]any{"decision": string(decision)}, func(d *domain.Deal, now time.Time) error {
		return d.RecordDecision(decision, rationale, now)
	})
}

func (s *dealService) Comment(ctx context.Context, id string, text, author string) (*domain.Deal, error) {
	return s.mutate(ctx, "add-comment", id, nil, func(d *domain.Deal, now time.Time) error {
		return d.AddComment(text, author, now)
	})
}

func (s *dealService) AddCondition(ctx context.Context, id string, condition string) (*domain.Deal, error) {
	return s.mutate(ctx, "add-condition", id, nil, func(d *domain.Deal, now time.Time) error {
		return d.AddCondition(condition, now)
	})
}

func (s *dealService) RecordAnalysis(ctx context.Context, id string, text string) (string, error) {
	var previous string
	fields := map[string]any{"chars": len(text)}
	_, err := s.mutate(ctx, "record-analysis", id, fields, func(d *domain.Deal, now time.Time) error {
		var err error
		previous, err = d.SetAnalysis(text, now)
		return err
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}

func (s *dealService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "delete-deal", startedAt, map[string]any{"deal_id": id}, err) }()
	return s.store.Deals.Delete(ctx, id)
}

// mutate runs fn against a freshly loaded deal in a transaction and reports
// the use case under name.
func (s *dealService) mutate(ctx context.Context, name, id string, fields map[string]any, fn func(d *domain.Deal, now time.Time) error) (deal *domain.Deal, err error) {
	startedAt := time.Now()
	if fields == nil {
		fields = map[string]any{}
	}
	fields["deal_id"] = id
	defer func() { observe(ctx, s.observer, name, startedAt, fields, err) }()

	now := s.now()
	return s.store.update(ctx, id, func(d *domain.Deal) error {
		return fn(d, now)
	})
}
