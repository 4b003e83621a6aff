// Package checklist builds the due-diligence checklist for a deal from its
// risk category, sector, country flags and gender-lens gaps.
package checklist

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
)

// Item is one due-diligence question. Number is its 1-based position in the
// generated list.
type Item struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Question  string          `json:"question"`
	Documents []string        `json:"documents"`
	Priority  domain.Priority `json:"priority"`
	Standard  string          `json:"standard"`
	Number    int             `json:"number"`
}

// Input drives Generate. Gaps are typically the recommendations of an
// eligibility result; only Ownership, Leadership and Employment produce items.
type Input struct {
	Sector  string
	Risk    domain.RiskCategory
	Fragile bool
	LDC     bool
	Gaps    []eligibility.Recommendation
}

// Generate assembles, deduplicates, sorts and numbers the checklist.
func Generate(in Input) []Item {
	var items []Item
	items = append(items, baseItems...)
	items = append(items, riskItems(in.Risk)...)
	items = append(items, sectorItems[in.Sector]...)
	if in.Fragile {
		items = append(items, fragileStateItems...)
	}
	if in.LDC {
		items = append(items, ldcItems...)
	}
	for _, gap := range in.Gaps {
		tmpl, ok := genderItems[gap.Criterion]
		if !ok {
			continue
		}
		tmpl.Question = fmt.Sprintf("%s (target: %.0f%%)", tmpl.Question, gap.Target)
		items = append(items, tmpl)
	}

	out := dedupe(items)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Category < out[j].Category
	})
	for i := range out {
		out[i].Number = i + 1
	}
	return out
}

// riskItems returns the category's own items. B+ also carries the B- items;
// no other category inherits.
func riskItems(risk domain.RiskCategory) []Item {
	items := riskCategoryItems[risk]
	if risk == domain.RiskBPlus {
		items = append(append([]Item(nil), items...), riskCategoryItems[domain.RiskBMinus]...)
	}
	return items
}

// dedupe keeps the first occurrence of each id and copies every item so the
// rule tables are never aliased by callers.
func dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		it.Documents = append([]string(nil), it.Documents...)
		out = append(out, it)
	}
	return out
}

type Summary struct {
	Total             int                     `json:"total"`
	ByCategory        map[string]int          `json:"by_category"`
	ByPriority        map[domain.Priority]int `json:"by_priority"`
	HighPriorityCount int                     `json:"high_priority_count"`
}

func Summarize(items []Item) Summary {
	s := Summary{
		Total:      len(items),
		ByCategory: make(map[string]int),
		ByPriority: map[domain.Priority]int{domain.PriorityHigh: 0, domain.PriorityMedium: 0, domain.PriorityLow: 0},
	}
	for _, it := range items {
		s.ByCategory[it.Category]++
		s.ByPriority[it.Priority]++
	}
	s.HighPriorityCount = s.ByPriority[domain.PriorityHigh]
	return s
}

// Progress counts the items of a checklist by their recorded review mark.
// Items without a mark count as pending.
func Progress(items []Item, marks map[string]domain.ChecklistMark) map[domain.ChecklistMark]int {
	out := make(map[domain.ChecklistMark]int)
	for _, it := range items {
		m, ok := marks[it.ID]
		if !ok {
			m = domain.MarkPending
		}
		out[m]++
	}
	return out
}
