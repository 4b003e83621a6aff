package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/service"
)

// FormatActionPlan renders the ESAP items and the completion summary.
func FormatActionPlan(plan *service.ActionPlan, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Action plan") + "\n")
	if len(plan.Items) == 0 {
		b.WriteString(Dim("No action items.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(plan.Items))
	for _, it := range plan.Items {
		rows = append(rows, []string{
			Dim(it.ID),
			string(it.Category),
			TruncateText(it.Action, 40),
			it.Responsible,
			DeadlineStyled(it.Deadline, it.Status == domain.ActionCompleted, now),
			ActionStatusPill(it.Status, it.IsOverdue(now)),
			PriorityLabel(it.Priority),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "CATEGORY", "ACTION", "OWNER", "DEADLINE", "STATUS", "PRIORITY"}, rows))

	s := plan.Summary
	b.WriteString(fmt.Sprintf("\n%s  %s\n", RenderProgress(s.CompletionRate/100, 20),
		Dim(fmt.Sprintf("%d completed, %d in progress, %d not started, %d overdue",
			s.Completed, s.InProgress, s.NotStarted, s.Overdue))))
	return b.String()
}

// FormatKPIReport renders the latest KPI values with their movement.
func FormatKPIReport(report *service.KPIReport) string {
	var b strings.Builder
	b.WriteString(Header("KPI history") + "\n")
	if len(report.Snapshots) == 0 {
		b.WriteString(Dim("No KPI snapshots recorded.") + "\n")
		return b.String()
	}
	first, last := report.Snapshots[0].At, report.Snapshots[len(report.Snapshots)-1].At
	b.WriteString(Dim(fmt.Sprintf("%d snapshot(s), %s to %s", len(report.Snapshots),
		first.Format(time.DateOnly), last.Format(time.DateOnly))) + "\n\n")

	rows := make([][]string, 0, len(report.Deltas))
	for _, d := range report.Deltas {
		prev := Dim("-")
		if d.HasPrevious {
			prev = signed(d.SincePrevious)
		}
		rows = append(rows, []string{d.Metric, fmt.Sprintf("%g", d.Latest), signed(d.SinceFirst), prev})
	}
	b.WriteString(RenderTable([]string{"METRIC", "LATEST", "SINCE FIRST", "SINCE PREVIOUS"}, rows))
	b.WriteString("\n" + FormatEligibility(report.TwoX))
	return b.String()
}

func signed(v float64) string {
	switch {
	case v > 0:
		return StyleGreen.Render(fmt.Sprintf("+%g", v))
	case v < 0:
		return StyleRed.Render(fmt.Sprintf("%g", v))
	default:
		return Dim("0")
	}
}
