package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// Epoch is the default creation time for fixture deals.
var Epoch = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

type DealOption func(*domain.Deal)

func WithCountry(c string) DealOption {
	return func(d *domain.Deal) { d.Country = c }
}

func WithSector(sector, subsector string) DealOption {
	return func(d *domain.Deal) {
		d.Sector = sector
		d.Subsector = subsector
	}
}

func WithRisk(r domain.RiskCategory) DealOption {
	return func(d *domain.Deal) { d.RiskCategory = r }
}

func WithTwoX(in domain.TwoXInput) DealOption {
	return func(d *domain.Deal) { d.TwoX = in }
}

func WithCreatedAt(t time.Time) DealOption {
	return func(d *domain.Deal) {
		d.CreatedAt = t.UTC()
		d.UpdatedAt = t.UTC()
		for _, sd := range d.StageHistory {
			sd.StartedAt = t.UTC()
		}
	}
}

// AtStage walks the deal through approvals until it reaches stage. Terminal
// stages reject or exit from the stage reached last.
func AtStage(stage domain.Stage) DealOption {
	return func(d *domain.Deal) {
		now := d.UpdatedAt
		for d.CurrentStage != stage {
			if stage.IsTerminal() {
				break
			}
			next, ok := d.CurrentStage.Next()
			if !ok {
				panic(fmt.Sprintf("testutil: cannot reach %s from %s", stage, d.CurrentStage))
			}
			mustDo(d.SetStageStatus(domain.StatusApproved, now))
			mustDo(d.Advance(next, "fixture", now))
		}
		switch stage {
		case domain.StageRejected:
			mustDo(d.Reject("fixture rejection", now))
		case domain.StageExited:
			mustDo(d.Exit("fixture exit", now))
		}
	}
}

// WithStatus sets the status of the current stage record.
func WithStatus(s domain.StageStatus) DealOption {
	return func(d *domain.Deal) { mustDo(d.SetStageStatus(s, d.UpdatedAt)) }
}

// NewTestDeal builds an agribusiness deal in Senegal, in screening, created at Epoch.
func NewTestDeal(name string, opts ...DealOption) *domain.Deal {
	d := domain.NewDeal(name, "Senegal", "Agribusiness", Epoch)
	d.RiskCategory = domain.RiskBPlus
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func mustDo(err error) {
	if err != nil {
		panic("testutil: " + err.Error())
	}
}
