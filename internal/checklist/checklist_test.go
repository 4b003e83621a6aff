package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
	"github.com/alexanderramin/dealflow/internal/reference"
)

func ids(items []Item) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		out[it.ID] = true
	}
	return out
}

func TestGenerate_BaseItemsAlwaysPresent(t *testing.T) {
	for _, risk := range domain.AllRiskCategories() {
		got := ids(Generate(Input{Risk: risk}))
		for _, b := range baseItems {
			assert.True(t, got[b.ID], "risk %s missing %s", risk, b.ID)
		}
	}
}

func TestGenerate_BPlusIncludesBMinus(t *testing.T) {
	sectors := append([]string{"", "Mining"}, reference.SectorAgribusiness, reference.SectorEnergy, reference.SectorTech)
	for _, sector := range sectors {
		for _, fragile := range []bool{false, true} {
			plus := ids(Generate(Input{Sector: sector, Risk: domain.RiskBPlus, Fragile: fragile, LDC: true}))
			minus := Generate(Input{Sector: sector, Risk: domain.RiskBMinus, Fragile: fragile, LDC: true})
			for _, it := range minus {
				assert.True(t, plus[it.ID], "sector=%q fragile=%v: B+ missing %s", sector, fragile, it.ID)
			}
			for _, it := range riskCategoryItems[domain.RiskBPlus] {
				assert.True(t, plus[it.ID])
			}
		}
	}
}

func TestGenerate_NoOtherInheritance(t *testing.T) {
	a := Generate(Input{Risk: domain.RiskA})
	assert.Len(t, a, len(baseItems), "A has no item set of its own")

	c := ids(Generate(Input{Risk: domain.RiskC}))
	assert.True(t, c["gen_c_1"])
	assert.False(t, c["hse_b-_1"])

	minus := ids(Generate(Input{Risk: domain.RiskBMinus}))
	assert.False(t, minus["env_b+_1"])
	assert.False(t, minus["gen_c_1"])
}

func TestGenerate_SectorAndCountryItems(t *testing.T) {
	got := ids(Generate(Input{Sector: reference.SectorHealth, Risk: domain.RiskBMinus, Fragile: true, LDC: true}))
	for _, id := range []string{"san_1", "san_4", "frag_1", "frag_4", "ldc_1"} {
		assert.True(t, got[id], id)
	}
	assert.False(t, got["agri_1"])

	plain := ids(Generate(Input{Sector: reference.SectorHealth, Risk: domain.RiskBMinus}))
	assert.False(t, plain["frag_1"])
	assert.False(t, plain["ldc_1"])
}

func TestGenerate_GenderItemsFromGaps(t *testing.T) {
	res := eligibility.Evaluate(domain.TwoXInput{WomenManagementPct: 10, WomenEmployeesPct: 30}, reference.SectorFinancial)
	items := Generate(Input{Sector: reference.SectorFinancial, Risk: domain.RiskC, Gaps: res.Recommendations})

	byID := make(map[string]Item)
	for _, it := range items {
		byID[it.ID] = it
	}
	lead, ok := byID["2x_leadership"]
	require.True(t, ok)
	assert.Equal(t, "Action plan to increase the share of women in management (target: 30%)", lead.Question)
	emp, ok := byID["2x_employment"]
	require.True(t, ok)
	assert.Contains(t, emp.Question, "(target: 40%)")
	own, ok := byID["2x_entrepreneurship"]
	require.True(t, ok)
	assert.Contains(t, own.Question, "(target: 51%)")

	assert.Equal(t, "Action plan to increase the share of women in management", genderItems[eligibility.Leadership].Question,
		"templates are not mutated")
}

func TestGenerate_DedupKeepsFirstAndNumbersSequentially(t *testing.T) {
	gaps := []eligibility.Recommendation{
		{Criterion: eligibility.Leadership, Target: 30},
		{Criterion: eligibility.Leadership, Target: 25},
		{Criterion: eligibility.Beneficiary, Target: 0},
	}
	in := Input{Sector: reference.SectorAgribusiness, Risk: domain.RiskBPlus, Fragile: true, LDC: true, Gaps: gaps}

	first := Generate(in)
	second := Generate(in)
	assert.Equal(t, first, second, "generation is deterministic")

	seen := map[string]int{}
	for i, it := range first {
		seen[it.ID]++
		assert.Equal(t, i+1, it.Number)
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
	for _, it := range first {
		if it.ID == "2x_leadership" {
			assert.Contains(t, it.Question, "(target: 30%)")
		}
	}
}

func TestGenerate_SortedByPriorityThenCategory(t *testing.T) {
	items := Generate(Input{Sector: reference.SectorIndustry, Risk: domain.RiskBPlus, Fragile: true})
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		if prev.Priority.Rank() == cur.Priority.Rank() {
			assert.LessOrEqual(t, prev.Category, cur.Category, "%s before %s", prev.ID, cur.ID)
		} else {
			assert.Less(t, prev.Priority.Rank(), cur.Priority.Rank())
		}
	}
	// Equal keys keep their insertion order.
	assert.Equal(t, "env_b+_1", items[0].ID)
}

func TestGenerate_ResultDoesNotAliasTables(t *testing.T) {
	items := Generate(Input{Risk: domain.RiskC})
	items[0].Documents[0] = "changed"
	again := Generate(Input{Risk: domain.RiskC})
	assert.NotEqual(t, "changed", again[0].Documents[0])
}

func TestSummarize(t *testing.T) {
	items := Generate(Input{Risk: domain.RiskC})
	s := Summarize(items)

	assert.Equal(t, len(baseItems)+2, s.Total)
	assert.Equal(t, 4, s.HighPriorityCount)
	assert.Equal(t, 4, s.ByPriority[domain.PriorityMedium])
	assert.Equal(t, 1, s.ByPriority[domain.PriorityLow])
	assert.Equal(t, 3, s.ByCategory[catGovernance])
	assert.Equal(t, 2, s.ByCategory[catGeneral])

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.Contains(t, empty.ByPriority, domain.PriorityLow)
}

func TestProgress(t *testing.T) {
	items := Generate(Input{Risk: domain.RiskC})
	marks := map[string]domain.ChecklistMark{"gov_1": domain.MarkCompliant, "gov_2": domain.MarkPartial, "unknown": domain.MarkCompliant}
	p := Progress(items, marks)
	assert.Equal(t, 1, p[domain.MarkCompliant])
	assert.Equal(t, 1, p[domain.MarkPartial])
	assert.Equal(t, len(items)-2, p[domain.MarkPending])
}
