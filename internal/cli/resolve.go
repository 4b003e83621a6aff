package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveDealID accepts a full deal ID, a unique ID prefix or an exact
// company name, all case-insensitive.
func resolveDealID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("deal ID is required")
	}

	deals, err := app.Deals.List(ctx, listAll)
	if err != nil {
		return "", err
	}

	// 1. Exact ID match
	for _, d := range deals {
		if strings.EqualFold(d.ID, input) {
			return d.ID, nil
		}
	}

	// 2. ID prefix match
	upper := strings.ToUpper(input)
	var matches []string
	for _, d := range deals {
		if strings.HasPrefix(d.ID, upper) {
			matches = append(matches, d.ID)
		}
	}
	// 3. Company name
	if len(matches) == 0 {
		for _, d := range deals {
			if strings.EqualFold(d.CompanyName, input) {
				matches = append(matches, d.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("deal not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("deal reference %q is ambiguous (%d matches)", input, len(matches))
	}
}
