package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/intelligence"
)

// FormatAnalysis renders a generated analysis from its parsed report. The raw
// text is shown when nothing could be parsed out of it.
func FormatAnalysis(a *intelligence.Analysis) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s analysis", a.Stage.Label())) + "\n")
	b.WriteString(Dim(fmt.Sprintf("generated by %s (%s)", a.Provider, a.Model)) + "\n\n")

	r := a.Report
	if r.ExecutiveSummary == "" && r.EnvironmentalAnalysis == "" && r.SocialAnalysis == "" && r.GovernanceAnalysis == "" {
		b.WriteString(a.Text + "\n")
		return b.String()
	}

	section(&b, "Executive summary", r.ExecutiveSummary)
	if len(r.BusinessActivities) > 0 {
		rows := make([][]string, 0, len(r.BusinessActivities))
		for _, act := range r.BusinessActivities {
			rows = append(rows, []string{act.Activity, act.RevenueShare, TruncateText(act.KeyESGFactors, 40), act.ImpactAlignment})
		}
		b.WriteString(Bold("Business activities") + "\n")
		b.WriteString(RenderTable([]string{"ACTIVITY", "REVENUE", "ESG FACTORS", "IMPACT"}, rows) + "\n")
	}
	section(&b, "Environmental", r.EnvironmentalAnalysis)
	section(&b, "Social", r.SocialAnalysis)
	section(&b, "Governance", r.GovernanceAnalysis)

	b.WriteString(Bold("Climate") + "\n")
	b.WriteString(field("Solutions", r.ClimateImpact.ClimateSolutions))
	b.WriteString(field("Vulnerability", r.ClimateImpact.Vulnerability))
	b.WriteString(field("Adaptation", r.ClimateImpact.Adaptation))
	b.WriteString(field("Carbon", r.ClimateImpact.CarbonFootprint))
	b.WriteString(field("Decoupling", r.ClimateImpact.Decoupling))

	b.WriteString("\n" + Bold("Impact thesis") + "\n")
	b.WriteString(field("Entrepreneurs", r.ImpactAlignment.LocalEntrepreneurship))
	b.WriteString(field("Decent jobs", r.ImpactAlignment.DecentJobs))
	b.WriteString(field("Climate", r.ImpactAlignment.ClimateAction))
	b.WriteString(field("Gender", r.ImpactAlignment.GenderEmpowerment))
	b.WriteString(field("Resilience", r.ImpactAlignment.Resilience))
	b.WriteString(field("Overall", Bold(r.ImpactAlignment.OverallImpact)))

	list(&b, "Priority due-diligence actions", r.Recommendations.DueDiligence)
	list(&b, "Suggested ESG clauses", r.Recommendations.ESGClauses)
	if len(r.Recommendations.KPIs) > 0 {
		rows := make([][]string, 0, len(r.Recommendations.KPIs))
		for _, k := range r.Recommendations.KPIs {
			rows = append(rows, []string{k.Name, k.Target, k.Frequency})
		}
		b.WriteString("\n" + Bold("KPIs") + "\n")
		b.WriteString(RenderTable([]string{"KPI", "TARGET", "FREQUENCY"}, rows))
	}
	return b.String()
}

// FormatExtractedProfile renders what extraction found in a document.
func FormatExtractedProfile(p *intelligence.ExtractedProfile) string {
	var b strings.Builder
	b.WriteString(Header("Extracted profile") + "\n")
	conf := fmt.Sprintf("%.0f%% confidence (%s), %d fields", p.Confidence, p.Band(), p.FilledFields())
	switch p.Band() {
	case "good":
		b.WriteString(StyleGreen.Render(conf) + "\n")
	case "partial":
		b.WriteString(StyleYellow.Render(conf) + "\n")
	default:
		b.WriteString(StyleRed.Render(conf) + "\n")
	}
	str := func(label string, v *string) {
		if v != nil && *v != "" {
			b.WriteString(field(label, *v))
		}
	}
	num := func(label string, v *float64) {
		if v != nil {
			b.WriteString(field(label, fmt.Sprintf("%g%%", *v)))
		}
	}
	str("Company", p.CompanyName)
	str("Country", p.Country)
	str("Sector", p.Sector)
	str("Subsector", p.Subsector)
	if p.Employees != nil {
		b.WriteString(field("Employees", fmt.Sprint(*p.Employees)))
	}
	str("Revenue", p.Revenue)
	if p.YearFounded != nil {
		b.WriteString(field("Founded", fmt.Sprint(*p.YearFounded)))
	}
	str("Market", p.TargetMarket)
	num("Women owners", p.WomenOwnershipPct)
	num("Women leaders", p.WomenManagementPct)
	num("Women staff", p.WomenEmployeesPct)
	if p.BenefitsWomen != nil {
		b.WriteString(field("Serves women", fmt.Sprint(*p.BenefitsWomen)))
	}
	for _, n := range p.Notes {
		b.WriteString("  " + Dim("note: "+n) + "\n")
	}
	return b.String()
}

func section(b *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	b.WriteString(Bold(title) + "\n" + body + "\n\n")
}

func list(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + Bold(title) + "\n")
	for i, it := range items {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, it))
	}
}
