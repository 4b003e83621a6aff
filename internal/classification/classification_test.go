package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/reference"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		sector    string
		subsector string
		want      Classification
	}{
		{"sector default", reference.SectorEnergy, "", Classification{domain.RiskBPlus, SourceSector}},
		{"subsector lowers", reference.SectorEnergy, "Solar", Classification{domain.RiskBMinus, SourceSubsector}},
		{"subsector raises", reference.SectorTech, "Telecom & Connectivity", Classification{domain.RiskBMinus, SourceSubsector}},
		{"subsector of another sector ignored", reference.SectorTech, "Solar", Classification{domain.RiskC, SourceSector}},
		{"unknown subsector", reference.SectorHealth, "Veterinary", Classification{domain.RiskBMinus, SourceSector}},
		{"unknown sector", "Mining", "", Classification{domain.RiskBMinus, SourceDefault}},
		{"unknown sector with subsector", "Mining", "Solar", Classification{domain.RiskBMinus, SourceDefault}},
		{"empty sector", "", "", Classification{domain.RiskBMinus, SourceDefault}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sector, tt.subsector))
		})
	}
}

func TestClassify_SubsectorAlwaysWins(t *testing.T) {
	for _, sector := range reference.Sectors() {
		for _, sub := range sector.Subsectors {
			got := Classify(sector.Name, sub.Name)
			assert.Equal(t, sub.Risk, got.Category, "%s / %s", sector.Name, sub.Name)
			assert.Equal(t, SourceSubsector, got.Source)
		}
	}
}

func TestProfile(t *testing.T) {
	a := Profile(domain.RiskA)
	assert.False(t, a.InvestmentAllowed)
	assert.Equal(t, "#FF0000", a.Color)

	for _, c := range []domain.RiskCategory{domain.RiskBPlus, domain.RiskBMinus, domain.RiskC} {
		assert.True(t, Profile(c).InvestmentAllowed, c)
	}
	assert.Equal(t, Profile(domain.RiskBMinus), Profile("Z"))
}

func TestApplicableStandards(t *testing.T) {
	assert.Equal(t, []string{"PS1", "PS2", "PS3", "PS4", "PS5", "PS6"}, StandardCodes(reference.SectorAgribusiness))
	assert.Equal(t, []string{"PS1", "PS2", "PS3", "PS4", "PS6"}, StandardCodes(reference.SectorTourism))
	assert.Equal(t, []string{"PS1", "PS2"}, StandardCodes("Mining"))

	stds := ApplicableStandards(reference.SectorFinancial)
	if assert.Len(t, stds, 2) {
		assert.Equal(t, "Labor and Working Conditions", stds[1].Title)
	}
}

func TestSectorsAndSubsectors(t *testing.T) {
	assert.Len(t, Sectors(), 9)
	assert.Equal(t, reference.SectorAgribusiness, Sectors()[0])
	assert.Contains(t, Subsectors(reference.SectorFinancial), "Mobile Money")
	assert.Nil(t, Subsectors("Mining"))
}
