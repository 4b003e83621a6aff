package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DeadlineStyled renders an ESAP deadline relative to now: red when overdue
// or due within two days, yellow within a week.
func DeadlineStyled(deadline *time.Time, done bool, now time.Time) string {
	if deadline == nil {
		return Dim("no deadline")
	}
	text := deadline.Format("2006-01-02") + " (" + RelativeDateFrom(*deadline, now) + ")"
	if done {
		return Dim(text)
	}
	days := deadline.Sub(now).Hours() / 24
	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// StatusPill returns a colored indicator for a stage workflow status.
func StatusPill(status domain.StageStatus) string {
	switch status {
	case domain.StatusApproved:
		return StyleGreen.Render("✔ approved")
	case domain.StatusInProgress:
		return StyleBlue.Render("● in progress")
	case domain.StatusPendingReview:
		return StyleYellow.Render("◐ pending review")
	case domain.StatusOnHold:
		return StyleYellow.Render("○ on hold")
	case domain.StatusRejected:
		return StyleRed.Render("✖ rejected")
	case domain.StatusDraft:
		return StyleDim.Render("○ draft")
	default:
		return StyleDim.Render(string(status))
	}
}

// MarkPill returns a colored indicator for a checklist review mark.
func MarkPill(mark domain.ChecklistMark) string {
	switch mark {
	case domain.MarkCompliant:
		return StyleGreen.Render("✔ compliant")
	case domain.MarkPartial:
		return StyleYellow.Render("◐ partial")
	case domain.MarkNonCompliant:
		return StyleRed.Render("✖ non-compliant")
	case domain.MarkNotApplicable:
		return StyleDim.Render("– n/a")
	default:
		return StyleDim.Render("○ pending")
	}
}

// ActionStatusPill returns a colored indicator for an ESAP item status.
func ActionStatusPill(status domain.ActionStatus, overdue bool) string {
	if overdue {
		return StyleRed.Render("▲ overdue")
	}
	switch status {
	case domain.ActionCompleted:
		return StyleGreen.Render("✔ completed")
	case domain.ActionInProgress:
		return StyleBlue.Render("● in progress")
	default:
		return StyleDim.Render("○ not started")
	}
}

// PriorityLabel colors high priority red and medium yellow.
func PriorityLabel(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render(string(p))
	case domain.PriorityMedium:
		return StyleYellow.Render(string(p))
	default:
		return StyleDim.Render(string(p))
	}
}

// TruncateText shortens s to at most max runes, marking the cut with an ellipsis.
func TruncateText(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
