package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/service"
)

// FormatPortfolioStats renders the pipeline dashboard.
func FormatPortfolioStats(s *service.PortfolioStats) string {
	var b strings.Builder
	b.WriteString(Header("Portfolio") + "\n")
	b.WriteString(field("Deals", fmt.Sprintf("%d total, %d active", s.Total, s.Active)))
	b.WriteString(field("2X eligible", fmt.Sprintf("%d (%s of active deals)", s.TwoXEligible, pct(s.TwoXRate))))

	b.WriteString("\n" + Bold("By stage") + "\n")
	for _, st := range domain.AllStages() {
		b.WriteString(fmt.Sprintf("  %-22s %s\n", StageStyle(st).Render(st.Label()), bar(s.ByStage[st], s.Total)))
	}

	b.WriteString("\n" + Bold("By E&S category") + "\n")
	for _, r := range domain.AllRiskCategories() {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", RiskBadge(r), bar(s.ByRisk[r], s.Total)))
	}

	b.WriteString("\n" + Bold("By sector") + "\n")
	b.WriteString(counts(s.BySector, s.Total))
	b.WriteString("\n" + Bold("By country") + "\n")
	b.WriteString(counts(s.ByCountry, s.Total))

	if s.ESAP.Total > 0 {
		b.WriteString("\n" + Bold("Action plans (monitoring)") + "\n")
		b.WriteString(fmt.Sprintf("  %s  %s\n", RenderProgress(s.ESAP.CompletionRate/100, 20),
			Dim(fmt.Sprintf("%d of %d completed, %d overdue", s.ESAP.Completed, s.ESAP.Total, s.ESAP.Overdue))))
	}
	return b.String()
}

// counts lists a breakdown largest first, ties by name.
func counts(m map[string]int, total int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %-22s %s\n", TruncateText(k, 22), bar(m[k], total)))
	}
	return b.String()
}

func bar(n, total int) string {
	width := 0
	if total > 0 {
		width = n * 20 / total
	}
	return StyleBlue.Render(strings.Repeat(filledBlock, width)) + " " + fmt.Sprint(n)
}
