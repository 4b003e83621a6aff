// Package eligibility scores a company against the four 2X Challenge
// gender-lens criteria. A company is eligible when at least one criterion is met.
package eligibility

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/reference"
)

type Criterion string

const (
	Ownership   Criterion = "Ownership"
	Leadership  Criterion = "Leadership"
	Employment  Criterion = "Employment"
	Beneficiary Criterion = "Beneficiary"
)

// Criteria lists the criteria in declaration order, which is also the
// tie-break order for recommendations with equal gaps.
var Criteria = []Criterion{Ownership, Leadership, Employment, Beneficiary}

// OwnershipThreshold applies to every sector.
const OwnershipThreshold = 0.51

// Thresholds are the sector-dependent fractions for the leadership and
// employment criteria.
type Thresholds struct {
	Leadership float64
	Employment float64
}

var DefaultThresholds = Thresholds{Leadership: 0.30, Employment: 0.30}

var sectorThresholds = map[string]Thresholds{
	reference.SectorIndustry:     {Leadership: 0.25, Employment: 0.25},
	reference.SectorTech:         {Leadership: 0.25, Employment: 0.20},
	reference.SectorAgribusiness: {Leadership: 0.25, Employment: 0.30},
	reference.SectorEnergy:       {Leadership: 0.25, Employment: 0.25},
	reference.SectorFinancial:    {Leadership: 0.30, Employment: 0.40},
}

// ThresholdsFor returns the sector override, or DefaultThresholds.
func ThresholdsFor(sector string) Thresholds {
	if t, ok := sectorThresholds[sector]; ok {
		return t
	}
	return DefaultThresholds
}

// Threshold returns the fractional threshold for a quantitative criterion.
// The second result is false for Beneficiary, which has no numeric bar.
func Threshold(c Criterion, sector string) (float64, bool) {
	switch c {
	case Ownership:
		return OwnershipThreshold, true
	case Leadership:
		return ThresholdsFor(sector).Leadership, true
	case Employment:
		return ThresholdsFor(sector).Employment, true
	default:
		return 0, false
	}
}

// Normalize converts a percentage (35) to a fraction (0.35). Values at or
// below 1 are already fractions.
func Normalize(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// Progress is the fraction of the way a normalised value is toward its
// threshold, clamped to [0, 1]. A threshold at or below zero counts as satisfied.
func Progress(value, threshold float64) float64 {
	if threshold <= 0 {
		return 1
	}
	p := Normalize(value) / threshold
	return math.Max(0, math.Min(1, p))
}

// CriterionResult reports one criterion. Value, Threshold and Gap are in
// percentage points and are zero for Beneficiary.
type CriterionResult struct {
	Criterion    Criterion `json:"criterion"`
	Met          bool      `json:"met"`
	Quantitative bool      `json:"quantitative"`
	Value        float64   `json:"value"`
	Threshold    float64   `json:"threshold"`
	Gap          float64   `json:"gap"`
}

type Recommendation struct {
	Criterion Criterion       `json:"criterion"`
	Action    string          `json:"action"`
	Current   float64         `json:"current"`
	Target    float64         `json:"target"`
	Gap       float64         `json:"gap"`
	Priority  domain.Priority `json:"priority"`
}

type Result struct {
	Eligible        bool              `json:"eligible"`
	CriteriaMet     int               `json:"criteria_met"`
	CriteriaTotal   int               `json:"criteria_total"`
	MetNames        []Criterion       `json:"met_names"`
	Criteria        []CriterionResult `json:"criteria"`
	Recommendations []Recommendation  `json:"recommendations"`
	Summary         string            `json:"summary"`
}

// Criterion returns the result for c.
func (r Result) Criterion(c Criterion) (CriterionResult, bool) {
	for _, cr := range r.Criteria {
		if cr.Criterion == c {
			return cr, true
		}
	}
	return CriterionResult{}, false
}

// MaxRecommendations caps the ranked recommendation list.
const MaxRecommendations = 3

// highPriorityGap is the gap, in points, below which a recommendation is high priority.
const highPriorityGap = 10

var recommendationActions = map[Criterion]string{
	Ownership:  "Increase women's share of ownership",
	Leadership: "Increase the share of women in senior management",
	Employment: "Increase the share of women in the workforce",
}

// Evaluate scores in against the thresholds for sector.
func Evaluate(in domain.TwoXInput, sector string) Result {
	res := Result{CriteriaTotal: len(Criteria)}
	var recs []Recommendation

	for _, c := range Criteria {
		cr := CriterionResult{Criterion: c}
		threshold, quantitative := Threshold(c, sector)
		if quantitative {
			value := Normalize(rawValue(in, c))
			gap := math.Max(0, threshold-value)
			cr.Quantitative = true
			cr.Met = value >= threshold
			cr.Value = points(value)
			cr.Threshold = points(threshold)
			cr.Gap = points(gap)
			if !cr.Met && gap > 0 {
				recs = append(recs, newRecommendation(cr))
			}
		} else {
			cr.Met = bool(in.BenefitsWomen)
		}

		if cr.Met {
			res.CriteriaMet++
			res.MetNames = append(res.MetNames, c)
		}
		res.Criteria = append(res.Criteria, cr)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Gap < recs[j].Gap })
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	res.Recommendations = recs
	res.Eligible = res.CriteriaMet >= 1
	res.Summary = summarize(res)
	return res
}

// Score adapts Evaluate to domain.TwoXEvaluator.
func Score(in domain.TwoXInput, sector string) (bool, int) {
	r := Evaluate(in, sector)
	return r.Eligible, r.CriteriaMet
}

var _ domain.TwoXEvaluator = Score

func rawValue(in domain.TwoXInput, c Criterion) float64 {
	switch c {
	case Ownership:
		return in.WomenOwnershipPct
	case Leadership:
		return in.WomenManagementPct
	case Employment:
		return in.WomenEmployeesPct
	default:
		return 0
	}
}

func newRecommendation(cr CriterionResult) Recommendation {
	priority := domain.PriorityMedium
	if cr.Gap < highPriorityGap {
		priority = domain.PriorityHigh
	}
	return Recommendation{
		Criterion: cr.Criterion,
		Action:    recommendationActions[cr.Criterion],
		Current:   cr.Value,
		Target:    cr.Threshold,
		Gap:       cr.Gap,
		Priority:  priority,
	}
}

// points converts a fraction to percentage points, trimming float noise.
func points(f float64) float64 {
	return math.Round(f*1e8) / 1e6
}

func summarize(r Result) string {
	if r.Eligible {
		names := make([]string, len(r.MetNames))
		for i, n := range r.MetNames {
			names[i] = string(n)
		}
		return fmt.Sprintf("Eligible for 2X Challenge (%d/%d criteria met: %s)",
			r.CriteriaMet, r.CriteriaTotal, strings.Join(names, ", "))
	}
	if len(r.Recommendations) > 0 {
		top := r.Recommendations[0]
		return fmt.Sprintf("Not 2X eligible. Priority action: %s (+%.0f points)", top.Action, top.Gap)
	}
	return fmt.Sprintf("Not 2X eligible (0/%d criteria met)", r.CriteriaTotal)
}

// ActionPlan turns a result into short action lines for reports.
func ActionPlan(r Result) []string {
	if r.Eligible {
		return []string{
			"Maintain current practices",
			"Document the indicators for 2X reporting",
		}
	}
	if len(r.Recommendations) == 0 {
		return []string{"Assess improvement opportunities across the four 2X criteria"}
	}
	lines := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		lines = append(lines, fmt.Sprintf("%s: move from %.0f%% to %.0f%% (+%.0f points)",
			rec.Action, rec.Current, rec.Target, rec.Gap))
	}
	return lines
}
