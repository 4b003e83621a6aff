// Package classification maps a sector and subsector to an E&S risk category
// and the due-diligence depth and performance standards that follow from it.
package classification

import (
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/reference"
)

// DefaultCategory is assigned to sectors outside the hierarchy.
const DefaultCategory = domain.RiskBMinus

// Source tells where a category came from so callers can flag generic defaults.
type Source string

const (
	SourceSubsector Source = "subsector"
	SourceSector    Source = "sector"
	SourceDefault   Source = "default"
)

type Classification struct {
	Category domain.RiskCategory `json:"category"`
	Source   Source              `json:"source"`
}

// Classify returns the subsector category when subsector belongs to sector,
// the sector default otherwise, and DefaultCategory for unknown sectors.
func Classify(sector, subsector string) Classification {
	s, ok := reference.LookupSector(sector)
	if !ok {
		return Classification{Category: DefaultCategory, Source: SourceDefault}
	}
	if subsector != "" {
		for _, sub := range s.Subsectors {
			if sub.Name == subsector {
				return Classification{Category: sub.Risk, Source: SourceSubsector}
			}
		}
	}
	return Classification{Category: s.Risk, Source: SourceSector}
}

// CategoryProfile describes what a risk category means for the investment process.
type CategoryProfile struct {
	Category          domain.RiskCategory `json:"category"`
	Name              string              `json:"name"`
	DueDiligence      string              `json:"due_diligence"`
	InvestmentAllowed bool                `json:"investment_allowed"`
	Color             string              `json:"color"`
}

var profiles = map[domain.RiskCategory]CategoryProfile{
	domain.RiskA: {
		Category:          domain.RiskA,
		Name:              "High Risk",
		DueDiligence:      "Not eligible: significant, irreversible E&S risks",
		InvestmentAllowed: false,
		Color:             "#FF0000",
	},
	domain.RiskBPlus: {
		Category:          domain.RiskBPlus,
		Name:              "Medium-High Risk",
		DueDiligence:      "External E&S due diligence required",
		InvestmentAllowed: true,
		Color:             "#FF8C00",
	},
	domain.RiskBMinus: {
		Category:          domain.RiskBMinus,
		Name:              "Medium-Low Risk",
		DueDiligence:      "Internal E&S due diligence",
		InvestmentAllowed: true,
		Color:             "#FFD700",
	},
	domain.RiskC: {
		Category:          domain.RiskC,
		Name:              "Low Risk",
		DueDiligence:      "Basic ESG screening",
		InvestmentAllowed: true,
		Color:             "#32CD32",
	},
}

// Profile returns the profile for category, falling back to the B- profile.
func Profile(category domain.RiskCategory) CategoryProfile {
	if p, ok := profiles[category]; ok {
		return p
	}
	return profiles[DefaultCategory]
}

// ApplicableStandards returns the IFC Performance Standards tagged for sector.
// Unknown sectors get the baseline PS1 and PS2.
func ApplicableStandards(sector string) []reference.Standard {
	numbers := reference.BaselineStandards
	if s, ok := reference.LookupSector(sector); ok {
		numbers = s.Standards
	}
	out := make([]reference.Standard, 0, len(numbers))
	for _, n := range numbers {
		if st, ok := reference.LookupStandard(n); ok {
			out = append(out, st)
		}
	}
	return out
}

// StandardCodes returns the "PSn" codes for sector.
func StandardCodes(sector string) []string {
	stds := ApplicableStandards(sector)
	codes := make([]string, len(stds))
	for i, s := range stds {
		codes[i] = s.Code()
	}
	return codes
}

func Sectors() []string {
	all := reference.Sectors()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

// Subsectors lists the subsectors of sector, or nil when it is unknown.
func Subsectors(sector string) []string {
	s, ok := reference.LookupSector(sector)
	if !ok {
		return nil
	}
	names := make([]string, len(s.Subsectors))
	for i, sub := range s.Subsectors {
		names[i] = sub.Name
	}
	return names
}
