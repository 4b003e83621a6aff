package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// RiskStyle maps an E&S category to its color: A red, B+ yellow, B- blue, C green.
func RiskStyle(risk domain.RiskCategory) lipgloss.Style {
	switch risk {
	case domain.RiskA:
		return StyleRed
	case domain.RiskBPlus:
		return StyleYellow
	case domain.RiskBMinus:
		return StyleBlue
	case domain.RiskC:
		return StyleGreen
	default:
		return StyleDim
	}
}

// RiskBadge renders a category such as "● B+".
func RiskBadge(risk domain.RiskCategory) string {
	if risk == "" {
		return StyleDim.Render("● -")
	}
	return RiskStyle(risk).Render("● " + string(risk))
}

// StageStyle colors live stages by how far along the pipeline they are.
func StageStyle(stage domain.Stage) lipgloss.Style {
	switch stage {
	case domain.StageScreening:
		return StyleBlue
	case domain.StageDueDiligence:
		return StylePurple
	case domain.StageInvestmentCommittee:
		return StyleYellow
	case domain.StageMonitoring:
		return StyleGreen
	case domain.StageRejected:
		return StyleRed
	default:
		return StyleDim
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
