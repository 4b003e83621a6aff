package domain

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Beneficiary records whether the company's product or service specifically
// benefits women. It decodes from a JSON bool and also from the legacy string
// tokens "yes" and "Oui"; every other value, including null, decodes as false.
type Beneficiary bool

func (b *Beneficiary) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Beneficiary(IsBeneficiaryToken(raw))
	return nil
}

// IsBeneficiaryToken reports whether v is one of the accepted "true" forms.
func IsBeneficiaryToken(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case Beneficiary:
		return bool(t)
	case string:
		return t == "yes" || t == "Oui"
	default:
		return false
	}
}

// TwoXInput holds the four raw metrics the gender-lens criteria are scored on.
// Percentages may be given as fractions (0.35) or as percent values (35).
type TwoXInput struct {
	WomenOwnershipPct  float64     `json:"women_ownership_pct"`
	WomenManagementPct float64     `json:"women_management_pct"`
	WomenEmployeesPct  float64     `json:"women_employees_pct"`
	BenefitsWomen      Beneficiary `json:"benefits_women"`
}

// KPI keys that also feed the gender-lens metrics when recorded in a snapshot.
const (
	KPIWomenOwnership  = "women_ownership_pct"
	KPIWomenManagement = "women_management_pct"
	KPIWomenEmployees  = "women_employees_pct"
)

type Deal struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyName     string   `json:"company_name"`
	Country         string   `json:"country"`
	Sector          string   `json:"sector"`
	Subsector       string   `json:"subsector"`
	Description     string   `json:"description"`
	Employees       *int     `json:"employees,omitempty"`
	Revenue         string   `json:"revenue"`
	YearFounded     *int     `json:"year_founded,omitempty"`
	TargetMarket    string   `json:"target_market"`
	GeographicScope []string `json:"geographic_scope"`

	RiskCategory        RiskCategory `json:"risk_category"`
	ApplicableStandards []string     `json:"applicable_standards"`

	TwoX            TwoXInput `json:"two_x"`
	TwoXEligible    bool      `json:"two_x_eligible"`
	TwoXCriteriaMet int       `json:"two_x_criteria_met"`

	CurrentStage Stage                `json:"current_stage"`
	StageHistory map[Stage]*StageData `json:"stage_history"`

	Documents   []DocumentMeta `json:"documents"`
	ActionItems []ActionItem   `json:"action_items"`
	KPIHistory  []KPISnapshot  `json:"kpi_history"`
	Tags        []string       `json:"tags"`
}

// GenerateDealID derives a 12-character upper-case identifier from the company
// name and creation instant. A random component keeps two deals created for the
// same company in the same instant distinct.
func GenerateDealID(companyName string, now time.Time) string {
	sum := md5.Sum([]byte(companyName + "|" + now.UTC().Format(time.RFC3339Nano) + "|" + uuid.NewString()))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:12])
}

// NewDeal creates a deal in the screening stage with an in-progress screening record.
func NewDeal(companyName, country, sector string, now time.Time) *Deal {
	now = now.UTC()
	return &Deal{
		ID:           GenerateDealID(companyName, now),
		CreatedAt:    now,
		UpdatedAt:    now,
		CompanyName:  companyName,
		Country:      country,
		Sector:       sector,
		CurrentStage: StageScreening,
		StageHistory: map[Stage]*StageData{
			StageScreening: newStageData(StageScreening, "", now),
		},
	}
}

// CurrentStageData returns the record of the stage the deal is in.
// Terminal deals have no current record.
func (d *Deal) CurrentStageData() (*StageData, bool) {
	sd, ok := d.StageHistory[d.CurrentStage]
	return sd, ok && sd != nil
}

// LastActiveStage returns the most recently entered pipeline stage. For a
// terminal deal this is the stage it was rejected or exited from.
func (d *Deal) LastActiveStage() (Stage, *StageData) {
	var last Stage
	var data *StageData
	for _, st := range PipelineStages {
		if sd, ok := d.StageHistory[st]; ok && sd != nil {
			last, data = st, sd
		}
	}
	return last, data
}

func (d *Deal) IsActive() bool { return !d.CurrentStage.IsTerminal() }

func (d *Deal) touch(now time.Time) { d.UpdatedAt = now.UTC() }

// RecordTwoXResult stores the derived gender-lens outcome.
func (d *Deal) RecordTwoXResult(eligible bool, criteriaMet int) {
	d.TwoXEligible = eligible
	d.TwoXCriteriaMet = criteriaMet
}
