package reference

import "github.com/alexanderramin/dealflow/internal/domain"

const (
	SectorAgribusiness = "Agribusiness"
	SectorIndustry     = "Industry & Manufacturing"
	SectorFinancial    = "Financial Services"
	SectorHealth       = "Health"
	SectorEducation    = "Education & Training"
	SectorEnergy       = "Energy"
	SectorTech         = "Tech & Digital"
	SectorDistribution = "Distribution & Retail"
	SectorTourism      = "Tourism & Hospitality"
)

type Subsector struct {
	Name string
	Risk domain.RiskCategory
}

// Sector is a top-level industry with its default risk category and the
// subsectors that may override it.
type Sector struct {
	Name       string
	Risk       domain.RiskCategory
	Subsectors []Subsector
	Standards  []int
}

var sectors = []Sector{
	{
		Name: SectorAgribusiness, Risk: domain.RiskBPlus, Standards: []int{1, 2, 3, 4, 5, 6},
		Subsectors: []Subsector{
			{"Agricultural production", domain.RiskBPlus},
			{"Agri-food processing", domain.RiskBPlus},
			{"Livestock", domain.RiskBPlus},
			{"Aquaculture", domain.RiskBPlus},
			{"Agricultural inputs", domain.RiskBMinus},
			{"Food distribution", domain.RiskC},
		},
	},
	{
		Name: SectorIndustry, Risk: domain.RiskBPlus, Standards: []int{1, 2, 3, 4},
		Subsectors: []Subsector{
			{"Construction materials", domain.RiskBPlus},
			{"Textile & Apparel", domain.RiskBPlus},
			{"Plastics & Packaging", domain.RiskBPlus},
			{"Wood & Furniture", domain.RiskBMinus},
			{"Industrial food processing", domain.RiskBPlus},
			{"Light chemicals & Cosmetics", domain.RiskBPlus},
		},
	},
	{
		Name: SectorFinancial, Risk: domain.RiskC, Standards: []int{1, 2},
		Subsectors: []Subsector{
			{"Microfinance", domain.RiskC},
			{"Banking", domain.RiskC},
			{"Insurance", domain.RiskC},
			{"Fintech", domain.RiskC},
			{"Mobile Money", domain.RiskC},
		},
	},
	{
		Name: SectorHealth, Risk: domain.RiskBMinus, Standards: []int{1, 2, 3, 4},
		Subsectors: []Subsector{
			{"Clinics & Hospitals", domain.RiskBMinus},
			{"Pharmacy & Distribution", domain.RiskC},
			{"Laboratories", domain.RiskBMinus},
			{"E-health", domain.RiskC},
		},
	},
	{
		Name: SectorEducation, Risk: domain.RiskC, Standards: []int{1, 2},
		Subsectors: []Subsector{
			{"Schools & Universities", domain.RiskC},
			{"Vocational training", domain.RiskC},
			{"EdTech", domain.RiskC},
		},
	},
	{
		Name: SectorEnergy, Risk: domain.RiskBPlus, Standards: []int{1, 2, 3, 4, 6},
		Subsectors: []Subsector{
			{"Solar", domain.RiskBMinus},
			{"Mini-grid", domain.RiskBMinus},
			{"Power distribution", domain.RiskBPlus},
			{"Energy efficiency", domain.RiskC},
		},
	},
	{
		Name: SectorTech, Risk: domain.RiskC, Standards: []int{1, 2},
		Subsectors: []Subsector{
			{"Software & SaaS", domain.RiskC},
			{"E-commerce", domain.RiskC},
			{"IT services", domain.RiskC},
			{"Telecom & Connectivity", domain.RiskBMinus},
		},
	},
	{
		Name: SectorDistribution, Risk: domain.RiskC, Standards: []int{1, 2, 3},
		Subsectors: []Subsector{
			{"Mass retail", domain.RiskC},
			{"Specialized distribution", domain.RiskC},
			{"Logistics & Transport", domain.RiskBMinus},
		},
	},
	{
		Name: SectorTourism, Risk: domain.RiskBMinus, Standards: []int{1, 2, 3, 4, 6},
		Subsectors: []Subsector{
			{"Hotels", domain.RiskBMinus},
			{"Restaurants", domain.RiskC},
			{"Sustainable tourism", domain.RiskBMinus},
		},
	},
}

// LookupSector returns the sector with exactly this name.
func LookupSector(name string) (Sector, bool) {
	for _, s := range sectors {
		if s.Name == name {
			return s, true
		}
	}
	return Sector{}, false
}

// Sectors returns all sectors in display order.
func Sectors() []Sector {
	return append([]Sector(nil), sectors...)
}
