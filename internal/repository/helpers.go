package repository

import (
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// timestampLayout is fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// searchText is the value of the search_text column: the searchable fields
// lower-cased, one per line, so a pattern cannot match across two of them.
func searchText(d *domain.Deal) string {
	return strings.ToLower(strings.Join([]string{d.CompanyName, d.Country, d.Sector}, "\n"))
}

// likePattern builds a case-insensitive substring pattern for search_text,
// escaping the LIKE wildcards in q with a backslash.
func likePattern(q string) string {
	q = strings.ReplaceAll(q, "\n", " ")
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}
