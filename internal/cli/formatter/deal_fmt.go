package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/classification"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
	"github.com/alexanderramin/dealflow/internal/reference"
)

// FormatDealList renders deals as a table, one row per deal.
func FormatDealList(deals []*domain.Deal) string {
	headers := []string{"ID", "COMPANY", "COUNTRY", "SECTOR", "STAGE", "STATUS", "RISK", "2X"}
	rows := make([][]string, 0, len(deals))
	for _, d := range deals {
		status := "-"
		if sd, ok := d.CurrentStageData(); ok {
			status = StatusPill(sd.Status)
		}
		twoX := Dim("no")
		if d.TwoXEligible {
			twoX = StyleGreen.Render(fmt.Sprintf("yes (%d)", d.TwoXCriteriaMet))
		}
		rows = append(rows, []string{
			Dim(d.ID),
			Bold(TruncateText(d.CompanyName, 28)),
			d.Country,
			TruncateText(d.Sector, 22),
			StageStyle(d.CurrentStage).Render(d.CurrentStage.Label()),
			status,
			RiskBadge(d.RiskCategory),
			twoX,
		})
	}
	return RenderTable(headers, rows)
}

// FormatDealDetail renders the full deal view: profile, classification,
// gender-lens eligibility and the stage timeline.
func FormatDealDetail(d *domain.Deal) string {
	var b strings.Builder

	b.WriteString(Header(d.CompanyName) + "\n")
	b.WriteString(field("ID", d.ID))
	country := d.Country
	if desc := reference.ShortDescription(d.Country); desc != "" {
		country += Dim("  " + desc)
	}
	b.WriteString(field("Country", country))
	sector := d.Sector
	if d.Subsector != "" {
		sector += " / " + d.Subsector
	}
	b.WriteString(field("Sector", sector))
	if d.Employees != nil {
		b.WriteString(field("Employees", strconv.Itoa(*d.Employees)))
	}
	if d.Revenue != "" {
		b.WriteString(field("Revenue", d.Revenue))
	}
	if d.YearFounded != nil {
		b.WriteString(field("Founded", strconv.Itoa(*d.YearFounded)))
	}
	if d.TargetMarket != "" {
		b.WriteString(field("Market", d.TargetMarket))
	}
	if len(d.GeographicScope) > 0 {
		b.WriteString(field("Scope", strings.Join(d.GeographicScope, ", ")))
	}
	if len(d.Tags) > 0 {
		b.WriteString(field("Tags", strings.Join(d.Tags, ", ")))
	}
	if d.Description != "" {
		b.WriteString("\n" + d.Description + "\n")
	}

	b.WriteString("\n" + Header("E&S classification") + "\n")
	profile := classification.Profile(d.RiskCategory)
	b.WriteString(field("Category", RiskBadge(d.RiskCategory)+" "+profile.Name))
	b.WriteString(field("Due diligence", profile.DueDiligence))
	if len(d.ApplicableStandards) > 0 {
		b.WriteString(field("Standards", strings.Join(d.ApplicableStandards, ", ")))
	}

	b.WriteString("\n" + FormatEligibility(eligibility.Evaluate(d.TwoX, d.Sector)))

	b.WriteString("\n" + Header("Pipeline") + "\n")
	b.WriteString(FormatTimeline(d))

	if sd, ok := d.CurrentStageData(); ok {
		b.WriteString("\n" + FormatStageData(sd))
	}

	if n := len(d.Documents); n > 0 {
		b.WriteString("\n" + Dim(fmt.Sprintf("%d document(s) attached", n)) + "\n")
	}
	return b.String()
}

// FormatEligibility renders the 2X criteria with progress toward each threshold.
func FormatEligibility(r eligibility.Result) string {
	var b strings.Builder
	b.WriteString(Header("2X Challenge") + "\n")
	verdict := StyleRed.Render("not eligible")
	if r.Eligible {
		verdict = StyleGreen.Render("eligible")
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", verdict, Dim(fmt.Sprintf("%d of %d criteria met", r.CriteriaMet, r.CriteriaTotal))))
	for _, c := range r.Criteria {
		mark := StyleRed.Render("✖")
		if c.Met {
			mark = StyleGreen.Render("✔")
		}
		if !c.Quantitative {
			b.WriteString(fmt.Sprintf("  %s %-12s\n", mark, c.Criterion))
			continue
		}
		frac := 0.0
		if c.Threshold > 0 {
			frac = c.Value / c.Threshold
		}
		b.WriteString(fmt.Sprintf("  %s %-12s %s  %s\n", mark, c.Criterion, RenderProgress(frac, 16),
			Dim(fmt.Sprintf("%.0f%% of %.0f%%", c.Value, c.Threshold))))
	}
	return b.String()
}

// FormatTimeline renders one line per stage the deal has entered, in pipeline order.
func FormatTimeline(d *domain.Deal) string {
	var b strings.Builder
	for _, st := range domain.AllStages() {
		sd, ok := d.StageHistory[st]
		if !ok {
			continue
		}
		marker := "○"
		if st == d.CurrentStage {
			marker = "●"
		}
		line := fmt.Sprintf("  %s %-22s %s", StageStyle(st).Render(marker), st.Label(), Dim(sd.StartedAt.Format("2006-01-02")))
		if sd.CompletedAt != nil {
			line += Dim(" → " + sd.CompletedAt.Format("2006-01-02"))
		}
		if sd.Decision != nil {
			line += "  " + Bold(string(*sd.Decision))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatStageData renders the working record of one stage.
func FormatStageData(sd *domain.StageData) string {
	var b strings.Builder
	b.WriteString(Header(sd.Stage.Label()) + "\n")
	b.WriteString(field("Status", StatusPill(sd.Status)))
	if sd.Analyst != "" {
		b.WriteString(field("Analyst", sd.Analyst))
	}
	if sd.Decision != nil {
		b.WriteString(field("Decision", Bold(string(*sd.Decision))))
		if sd.DecisionRationale != "" {
			b.WriteString(field("Rationale", sd.DecisionRationale))
		}
	}
	for i, c := range sd.Conditions {
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim(fmt.Sprintf("condition %d:", i+1)), c))
	}
	if sd.AnalysisResult != "" {
		b.WriteString(field("Analysis", Dim(fmt.Sprintf("%d characters on file", len([]rune(sd.AnalysisResult))))))
	}
	for _, c := range sd.Comments {
		author := c.Author
		if author == "" {
			author = "anonymous"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim(c.At.Format(time.DateOnly)+" "+author+":"), c.Text))
	}
	return b.String()
}

func field(label, value string) string {
	return fmt.Sprintf("  %s %s\n", Dim(fmt.Sprintf("%-14s", label+":")), value)
}
