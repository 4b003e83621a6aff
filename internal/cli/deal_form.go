package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/dealflow/internal/classification"
	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/reference"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// dealflowHuhTheme returns a huh theme using the formatter palette.
func dealflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// dealFormValues holds the raw strings a deal form edits before they are
// parsed into a CreateDealInput.
type dealFormValues struct {
	company, country, sector, subsector string
	description, revenue, market        string
	employees, founded                  string
	ownership, management, workforce    string
	benefitsWomen                       bool
	analyst                             string
}

func (v *dealFormValues) input() (service.CreateDealInput, error) {
	in := service.CreateDealInput{
		CompanyName:  strings.TrimSpace(v.company),
		Country:      v.country,
		Sector:       v.sector,
		Subsector:    v.subsector,
		Description:  strings.TrimSpace(v.description),
		Revenue:      strings.TrimSpace(v.revenue),
		TargetMarket: strings.TrimSpace(v.market),
		Analyst:      strings.TrimSpace(v.analyst),
	}
	var err error
	if in.Employees, err = optionalInt(v.employees); err != nil {
		return in, fmt.Errorf("employees: %w", err)
	}
	if in.YearFounded, err = optionalInt(v.founded); err != nil {
		return in, fmt.Errorf("year founded: %w", err)
	}
	for _, p := range []struct {
		raw string
		dst *float64
	}{
		{v.ownership, &in.TwoX.WomenOwnershipPct},
		{v.management, &in.TwoX.WomenManagementPct},
		{v.workforce, &in.TwoX.WomenEmployeesPct},
	} {
		if *p.dst, err = optionalFloat(p.raw); err != nil {
			return in, err
		}
	}
	in.TwoX.BenefitsWomen = domain.Beneficiary(v.benefitsWomen)
	return in, nil
}

func newDealForm(v *dealFormValues) *huh.Form {
	countries := huh.NewOptions(reference.Countries()...)
	sectors := huh.NewOptions(classification.Sectors()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Company").Value(&v.company).Validate(requireText),
			huh.NewSelect[string]().Title("Country").Options(countries...).Value(&v.country).Height(8),
			huh.NewSelect[string]().Title("Sector").Options(sectors...).Value(&v.sector).Height(8),
			huh.NewSelect[string]().Title("Subsector").
				OptionsFunc(func() []huh.Option[string] {
					return huh.NewOptions(append([]string{""}, classification.Subsectors(v.sector)...)...)
				}, &v.sector).
				Value(&v.subsector),
		),
		huh.NewGroup(
			huh.NewText().Title("Business description").Value(&v.description),
			huh.NewInput().Title("Employees").Placeholder("optional").Value(&v.employees).Validate(validateOptionalInt),
			huh.NewInput().Title("Revenue").Placeholder("optional").Value(&v.revenue),
			huh.NewInput().Title("Year founded").Placeholder("optional").Value(&v.founded).Validate(validateOptionalInt),
			huh.NewInput().Title("Target market").Placeholder("optional").Value(&v.market),
		),
		huh.NewGroup(
			huh.NewInput().Title("Women ownership %").Placeholder("0").Value(&v.ownership).Validate(validateOptionalPct),
			huh.NewInput().Title("Women in senior management %").Placeholder("0").Value(&v.management).Validate(validateOptionalPct),
			huh.NewInput().Title("Women in workforce %").Placeholder("0").Value(&v.workforce).Validate(validateOptionalPct),
			huh.NewConfirm().Title("Do products or services benefit women?").Value(&v.benefitsWomen),
			huh.NewInput().Title("Analyst").Placeholder("optional").Value(&v.analyst),
		),
	).WithTheme(dealflowHuhTheme()).WithShowHelp(false)
}

func runDealForm(in *service.CreateDealInput) error {
	var v dealFormValues
	if err := newDealForm(&v).Run(); err != nil {
		return err
	}
	parsed, err := v.input()
	if err != nil {
		return err
	}
	*in = parsed
	return nil
}

// confirmForm creates a huh form for a yes/no confirmation.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(dealflowHuhTheme()).WithShowHelp(false)
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateOptionalInt(s string) error {
	_, err := optionalInt(s)
	return err
}

func validateOptionalPct(s string) error {
	v, err := optionalFloat(s)
	if err != nil {
		return err
	}
	if v < 0 || v > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}

func optionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("must be a non-negative whole number")
	}
	return &n, nil
}

func optionalFloat(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	return v, nil
}
