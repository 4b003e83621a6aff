package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/service"
)

// FormatChecklist renders the due-diligence checklist grouped by category,
// with the review mark recorded for each item.
func FormatChecklist(cl *service.DealChecklist) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Checklist: %s", cl.Stage.Label())) + "\n")

	reviewed := cl.Summary.Total - cl.Progress[domain.MarkPending]
	frac := 0.0
	if cl.Summary.Total > 0 {
		frac = float64(reviewed) / float64(cl.Summary.Total)
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", RenderProgress(frac, 20),
		Dim(fmt.Sprintf("%d of %d reviewed, %d high priority", reviewed, cl.Summary.Total, cl.Summary.HighPriorityCount))))

	category := ""
	for _, it := range cl.Items {
		if it.Category != category {
			category = it.Category
			b.WriteString("\n" + Bold(category) + "\n")
		}
		mark, ok := cl.Marks[it.ID]
		if !ok {
			mark = domain.MarkPending
		}
		line := fmt.Sprintf("  %3d. %-9s %s", it.Number, Dim(it.ID), it.Question)
		if it.Standard != "" {
			line += Dim(" [" + it.Standard + "]")
		}
		b.WriteString(line + "\n")
		b.WriteString(fmt.Sprintf("       %s  %s\n", MarkPill(mark), PriorityLabel(it.Priority)))
		if len(it.Documents) > 0 {
			b.WriteString("       " + Dim("documents: "+strings.Join(it.Documents, ", ")) + "\n")
		}
	}
	return b.String()
}
