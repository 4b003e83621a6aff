package intelligence

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/checklist"
	"github.com/alexanderramin/dealflow/internal/classification"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
	"github.com/alexanderramin/dealflow/internal/reference"
	"github.com/alexanderramin/dealflow/internal/service"
)

// analystSystemPrompt frames every stage analysis.
const analystSystemPrompt = `You are a senior ESG analyst at an impact investment fund backing small and
medium enterprises in sub-Saharan Africa. You know the
IFC Performance Standards (PS1-PS8), the 2X Challenge gender-lens
criteria and the E&S regulation of African countries.

Be factual and specific to the company, its sector and its country. Flag
assumptions explicitly. Write in English, in markdown, using exactly the
section headings you are given.`

// reportFormat is the heading layout ParseReport understands.
const reportFormat = `Structure the answer with these headings:

## Executive Summary
## Business Activities Breakdown
A markdown table with columns: Activity | Revenue Share | Key ESG Factors | Impact Alignment
## Environmental Analysis
## Climate Impact Assessment
One line each: Climate Solutions:, Vulnerability:, Adaptation:, Carbon Footprint:, Decoupling Potential:
## Social Analysis
## Governance Analysis
## Impact Thesis Alignment
One line each: Local Entrepreneurship:, Decent Jobs:, Climate Action:, Gender Empowerment:, Resilience:, Overall Impact:
## Recommendations
### Priority Due Diligence Actions
A bulleted list.
### Suggested ESG Clauses
A bulleted list.
### Key Performance Indicators
A markdown table with columns: KPI | Target | Frequency`

var stageFocus = map[domain.Stage]string{
	domain.StageScreening: `This is a first screening. Decide whether the opportunity deserves a full
due diligence. State the main strengths, the points to investigate and the
2-3 major E&S risks for this sector and country. Close the executive summary
with "Recommendation: GO", "Recommendation: NO-GO" or "Recommendation: GO WITH
CONDITIONS" and a two-sentence justification.`,
	domain.StageDueDiligence: `This is the field due diligence. Identify the five priority E&S risks with
the Performance Standard concerned, a risk level and mitigations. List what
to verify on site. Analyse the 2X gaps with concrete actions and propose 3-5
preliminary ESAP actions and the conditions precedent to investment.`,
	domain.StageInvestmentCommittee: `This is the investment committee memo. Summarise the impact thesis, the
2X eligibility, the residual E&S risks after due diligence and the conditions
attached to the decision. State whether the committee should approve, approve
with conditions or reject.`,
	domain.StageMonitoring: `This is a post-investment monitoring report. Assess the KPI trends, the
progress of the ESAP, any new risks and the improvement opportunities. Give an
overall rating from A (excellent) to D (insufficient).`,
}

// PromptContext gathers what a stage analysis prompt draws on.
type PromptContext struct {
	Deal           *domain.Deal
	Stage          domain.Stage
	Country        reference.CountryContext
	Classification classification.Classification
	Profile        classification.CategoryProfile
	TwoX           eligibility.Result
	Checklist      []checklist.Item
	Marks          map[string]domain.ChecklistMark
	StageData      *domain.StageData
	ESAP           domain.ESAPSummary
	KPIs           []domain.KPIDelta
}

// NewPromptContext derives the prompt context of d for stage.
func NewPromptContext(d *domain.Deal, stage domain.Stage, now time.Time) PromptContext {
	cls := classification.Classify(d.Sector, d.Subsector)
	pc := PromptContext{
		Deal:           d,
		Stage:          stage,
		Country:        reference.LookupCountry(d.Country),
		Classification: cls,
		Profile:        classification.Profile(cls.Category),
		TwoX:           eligibility.Evaluate(d.TwoX, d.Sector),
		Checklist:      checklist.Generate(service.ChecklistInput(d)),
		ESAP:           d.ActionPlanSummary(now),
		KPIs:           d.KPIDeltas(),
	}
	if sd, ok := d.StageHistory[stage]; ok {
		pc.StageData = sd
		pc.Marks = sd.ChecklistStatus
	}
	return pc
}

// BuildAnalysisPrompt renders the system and user prompts for pc.
func BuildAnalysisPrompt(pc PromptContext) (system, user string) {
	d := pc.Deal
	var b strings.Builder

	fmt.Fprintf(&b, "# %s analysis: %s\n\n", pc.Stage.Label(), d.CompanyName)

	b.WriteString("## Company\n")
	fmt.Fprintf(&b, "- Company: %s\n", d.CompanyName)
	fmt.Fprintf(&b, "- Country: %s\n", d.Country)
	fmt.Fprintf(&b, "- Sector: %s\n", sectorLine(d))
	fmt.Fprintf(&b, "- Description: %s\n", orNotProvided(d.Description))
	fmt.Fprintf(&b, "- Employees: %s\n", intOrNotProvided(d.Employees))
	fmt.Fprintf(&b, "- Revenue: %s\n", orNotProvided(d.Revenue))
	fmt.Fprintf(&b, "- Year founded: %s\n", intOrNotProvided(d.YearFounded))
	fmt.Fprintf(&b, "- Target market: %s\n", orNotProvided(d.TargetMarket))
	if len(d.GeographicScope) > 0 {
		fmt.Fprintf(&b, "- Geographic scope: %s\n", strings.Join(d.GeographicScope, ", "))
	}

	b.WriteString("\n## Country context\n")
	b.WriteString(strings.TrimSpace(reference.PromptText(d.Country)))
	b.WriteString("\n")
	if !pc.Country.Known {
		b.WriteString("No country profile is on file; use general regional knowledge and say so.\n")
	}

	b.WriteString("\n## E&S classification\n")
	fmt.Fprintf(&b, "- Risk category: %s (%s)\n", pc.Classification.Category, pc.Profile.Name)
	fmt.Fprintf(&b, "- Due diligence level: %s\n", pc.Profile.DueDiligence)
	if pc.Classification.Source == classification.SourceDefault {
		b.WriteString("- The sector is outside the reference hierarchy; the category is a generic default.\n")
	}
	if len(d.ApplicableStandards) > 0 {
		fmt.Fprintf(&b, "- Applicable standards: %s\n", strings.Join(d.ApplicableStandards, ", "))
	}

	b.WriteString("\n## 2X Challenge\n")
	fmt.Fprintf(&b, "- %s\n", pc.TwoX.Summary)
	for _, cr := range pc.TwoX.Criteria {
		fmt.Fprintf(&b, "- %s: %s\n", cr.Criterion, criterionLine(cr))
	}

	if pc.Stage != domain.StageScreening {
		writeChecklist(&b, pc)
	}
	if sd := pc.StageData; sd != nil && pc.Stage == domain.StageInvestmentCommittee {
		writeDecision(&b, sd)
	}
	if pc.Stage == domain.StageMonitoring {
		writeMonitoring(&b, pc)
	}
	if sd := pc.StageData; sd != nil && len(sd.Comments) > 0 {
		b.WriteString("\n## Analyst notes\n")
		comments := sd.Comments
		if len(comments) > 5 {
			comments = comments[len(comments)-5:]
		}
		for _, c := range comments {
			fmt.Fprintf(&b, "- %s\n", c.Text)
		}
	}

	b.WriteString("\n## Task\n")
	if focus, ok := stageFocus[pc.Stage]; ok {
		b.WriteString(focus)
		b.WriteString("\n\n")
	}
	b.WriteString(reportFormat)
	b.WriteString("\n")

	return analystSystemPrompt, b.String()
}

func writeChecklist(b *strings.Builder, pc PromptContext) {
	counts := checklist.Progress(pc.Checklist, pc.Marks)
	fmt.Fprintf(b, "\n## Due diligence checklist (%d items)\n", len(pc.Checklist))
	for _, m := range []domain.ChecklistMark{domain.MarkCompliant, domain.MarkPartial, domain.MarkNonCompliant, domain.MarkNotApplicable, domain.MarkPending} {
		fmt.Fprintf(b, "- %s: %d\n", m, counts[m])
	}

	var open []string
	for _, it := range pc.Checklist {
		switch pc.Marks[it.ID] {
		case domain.MarkNonCompliant, domain.MarkPartial:
			open = append(open, fmt.Sprintf("- [%s] %s (%s)", pc.Marks[it.ID], it.Question, it.Standard))
		}
	}
	if len(open) > 0 {
		b.WriteString("Open findings:\n")
		b.WriteString(strings.Join(open, "\n"))
		b.WriteString("\n")
	}
}

func writeDecision(b *strings.Builder, sd *domain.StageData) {
	b.WriteString("\n## Decision record\n")
	if sd.Decision != nil {
		fmt.Fprintf(b, "- Decision: %s\n", *sd.Decision)
	}
	if sd.DecisionRationale != "" {
		fmt.Fprintf(b, "- Rationale: %s\n", sd.DecisionRationale)
	}
	for _, c := range sd.Conditions {
		fmt.Fprintf(b, "- Condition: %s\n", c)
	}
}

func writeMonitoring(b *strings.Builder, pc PromptContext) {
	e := pc.ESAP
	b.WriteString("\n## ESAP progress\n")
	fmt.Fprintf(b, "- Actions: %d (completed %d, in progress %d, not started %d, overdue %d)\n",
		e.Total, e.Completed, e.InProgress, e.NotStarted, e.Overdue)
	fmt.Fprintf(b, "- Completion rate: %.1f%%\n", e.CompletionRate)
	for _, it := range pc.Deal.ActionItems {
		fmt.Fprintf(b, "- %s [%s] %s: %s\n", it.ID, it.Category, it.Action, it.Status)
	}

	if len(pc.KPIs) == 0 {
		return
	}
	b.WriteString("\n## KPI trends\n")
	kpis := append([]domain.KPIDelta(nil), pc.KPIs...)
	sort.Slice(kpis, func(i, j int) bool { return kpis[i].Metric < kpis[j].Metric })
	for _, k := range kpis {
		line := fmt.Sprintf("- %s: %g (%+g since first", k.Metric, k.Latest, k.SinceFirst)
		if k.HasPrevious {
			line += fmt.Sprintf(", %+g since previous", k.SincePrevious)
		}
		b.WriteString(line + ")\n")
	}
}

func criterionLine(cr eligibility.CriterionResult) string {
	status := "not met"
	if cr.Met {
		status = "met"
	}
	if !cr.Quantitative {
		return status
	}
	return fmt.Sprintf("%.0f%% (threshold %.0f%%), %s", cr.Value, cr.Threshold, status)
}

func sectorLine(d *domain.Deal) string {
	if d.Subsector == "" {
		return d.Sector
	}
	return d.Sector + " / " + d.Subsector
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not provided"
	}
	return s
}

func intOrNotProvided(v *int) string {
	if v == nil {
		return "not provided"
	}
	return fmt.Sprintf("%d", *v)
}
