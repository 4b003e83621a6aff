package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/dealflow/internal/checklist"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
	"github.com/alexanderramin/dealflow/internal/intelligence"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/alexanderramin/dealflow/internal/testutil"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestRenderProgressClamps(t *testing.T) {
	assert.Equal(t, "[░░░░]   0%", stripANSI(RenderProgress(-1, 4)))
	assert.Equal(t, "[██░░]  50%", stripANSI(RenderProgress(0.5, 4)))
	assert.Equal(t, "[████] 100%", stripANSI(RenderProgress(3, 4)))
	assert.Equal(t, "[█░]  50%", stripANSI(RenderProgress(0.5, 1)), "width clamps to 2")
}

func TestRenderTableAligns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "LONGER"}, [][]string{{"wide cell", "x"}, {"y"}}))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "A          LONGER", lines[0])
	assert.Equal(t, "wide cell  x", lines[2])
	assert.Equal(t, "y          ", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "Cashew P…", TruncateText("Cashew Processing", 9))
}

func TestFormatDealDetail(t *testing.T) {
	d := testutil.NewTestDeal("Acme Agro",
		testutil.WithCountry("Mali"),
		testutil.WithTwoX(domain.TwoXInput{WomenOwnershipPct: 60}))
	out := stripANSI(FormatDealDetail(d))

	assert.Contains(t, out, "ACME AGRO")
	assert.Contains(t, out, "Fragile state")
	assert.Contains(t, out, "● B+")
	assert.Contains(t, out, "1 of 4 criteria met")
	assert.Contains(t, out, "● Screening")
}

func TestFormatDealList(t *testing.T) {
	out := stripANSI(FormatDealList([]*domain.Deal{
		testutil.NewTestDeal("Acme Agro"),
		testutil.NewTestDeal("Solar Co", testutil.AtStage(domain.StageMonitoring)),
	}))
	assert.Contains(t, out, "COMPANY")
	assert.Contains(t, out, "Acme Agro")
	assert.Contains(t, out, "Monitoring")
}

func TestFormatChecklist(t *testing.T) {
	items := checklist.Generate(checklist.Input{Sector: "Agribusiness", Risk: domain.RiskBPlus})
	marks := map[string]domain.ChecklistMark{items[0].ID: domain.MarkCompliant}
	cl := &service.DealChecklist{
		Stage:    domain.StageDueDiligence,
		Items:    items,
		Summary:  checklist.Summarize(items),
		Marks:    marks,
		Progress: checklist.Progress(items, marks),
	}
	out := stripANSI(FormatChecklist(cl))
	assert.Contains(t, out, "CHECKLIST: DUE DILIGENCE")
	assert.Contains(t, out, "✔ compliant")
	assert.Contains(t, out, "○ pending")
}

func TestFormatActionPlanFlagsOverdue(t *testing.T) {
	now := testutil.Epoch
	past := now.Add(-48 * time.Hour)
	plan := &service.ActionPlan{
		Items: []domain.ActionItem{
			{ID: "ESAP_001", Category: domain.CategoryHSE, Action: "Fire drill", Deadline: &past, Status: domain.ActionInProgress, Priority: domain.PriorityHigh},
		},
		Summary: domain.ESAPSummary{Total: 1, InProgress: 1, Overdue: 1},
	}
	out := stripANSI(FormatActionPlan(plan, now))
	assert.Contains(t, out, "ESAP_001")
	assert.Contains(t, out, "▲ overdue")
	assert.Contains(t, out, "2d ago")

	assert.Contains(t, stripANSI(FormatActionPlan(&service.ActionPlan{}, now)), "No action items.")
}

func TestFormatKPIReport(t *testing.T) {
	report := &service.KPIReport{
		Snapshots: []domain.KPISnapshot{{At: testutil.Epoch}, {At: testutil.Epoch.AddDate(0, 3, 0)}},
		Deltas:    []domain.KPIDelta{{Metric: "jobs", Latest: 130, SinceFirst: 30, SincePrevious: -5, HasPrevious: true}},
		TwoX:      eligibility.Evaluate(domain.TwoXInput{}, "Agribusiness"),
	}
	out := stripANSI(FormatKPIReport(report))
	assert.Contains(t, out, "2 snapshot(s)")
	assert.Contains(t, out, "+30")
	assert.Contains(t, out, "-5")
	assert.Contains(t, out, "not eligible")
}

func TestFormatPortfolioStats(t *testing.T) {
	stats := &service.PortfolioStats{
		Total: 3, Active: 2, TwoXEligible: 1, TwoXRate: 50,
		ByStage:   map[domain.Stage]int{domain.StageScreening: 2, domain.StageRejected: 1},
		BySector:  map[string]int{"Energy": 1, "Agribusiness": 2},
		ByCountry: map[string]int{"Kenya": 3},
		ByRisk:    map[domain.RiskCategory]int{domain.RiskBPlus: 3},
	}
	out := stripANSI(FormatPortfolioStats(stats))
	assert.Contains(t, out, "3 total, 2 active")
	assert.Contains(t, out, "50.0% of active deals")
	assert.Less(t, strings.Index(out, "Agribusiness"), strings.Index(out, "Energy"), "largest sector first")
	assert.NotContains(t, out, "Action plans")
}

func TestFormatAnalysis(t *testing.T) {
	text := "## Executive Summary\nSolid.\n\n## Recommendations\n### Priority Due Diligence Actions\n1. Visit site\n"
	out := stripANSI(FormatAnalysis(&intelligence.Analysis{
		Stage: domain.StageScreening, Text: text, Report: intelligence.ParseReport(text),
		Provider: "anthropic", Model: "m",
	}))
	assert.Contains(t, out, "SCREENING ANALYSIS")
	assert.Contains(t, out, "Solid.")
	assert.Contains(t, out, "1. Visit site")

	raw := stripANSI(FormatAnalysis(&intelligence.Analysis{Stage: domain.StageScreening, Text: "free text", Report: intelligence.ParseReport("free text")}))
	assert.Contains(t, raw, "free text")
}

func TestFormatExtractedProfile(t *testing.T) {
	name, pctOwned := "Acme Agro", 55.0
	out := stripANSI(FormatExtractedProfile(&intelligence.ExtractedProfile{
		CompanyName: &name, WomenOwnershipPct: &pctOwned, Confidence: 80, Notes: []string{"revenue missing"},
	}))
	assert.Contains(t, out, "80% confidence (good)")
	assert.Contains(t, out, "Acme Agro")
	assert.Contains(t, out, "55%")
	assert.Contains(t, out, "note: revenue missing")
}
