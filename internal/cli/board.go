package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Browse live deals by stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("board needs an interactive terminal; use list instead")
			}
			_, err := tea.NewProgram(newBoardModel(cmd.Context(), app), tea.WithAltScreen()).Run()
			return err
		},
	}
}

type boardKeys struct {
	Left, Right, Up, Down key.Binding
	Open, Back, Refresh   key.Binding
	Quit                  key.Binding
}

func defaultBoardKeys() boardKeys {
	return boardKeys{
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "stage")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "stage")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "deal")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "deal")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// boardLoadedMsg carries the live deals fetched for the board.
type boardLoadedMsg struct {
	deals []*domain.Deal
	err   error
}

// boardModel shows one column per pipeline stage with a detail pane for the
// selected deal.
type boardModel struct {
	ctx     context.Context
	app     *App
	keys    boardKeys
	columns [][]*domain.Deal
	col     int
	row     int
	loading bool
	err     error

	width, height int
	detail        viewport.Model
	showDetail    bool
}

func newBoardModel(ctx context.Context, app *App) *boardModel {
	return &boardModel{
		ctx:     ctx,
		app:     app,
		keys:    defaultBoardKeys(),
		columns: make([][]*domain.Deal, len(domain.PipelineStages)),
		loading: true,
		width:   100,
		height:  30,
		detail:  viewport.New(100, 26),
	}
}

func (m *boardModel) Init() tea.Cmd {
	return m.load()
}

func (m *boardModel) load() tea.Cmd {
	ctx, deals := m.ctx, m.app.Deals
	return func() tea.Msg {
		list, err := deals.List(ctx, service.DealFilter{ActiveOnly: true})
		return boardLoadedMsg{deals: list, err: err}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.group(msg.deals)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-4, 1)
		return m, nil

	case tea.KeyMsg:
		if m.showDetail {
			switch {
			case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
				m.showDetail = false
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.moveColumn(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveColumn(1)
		case key.Matches(msg, m.keys.Up):
			if m.row > 0 {
				m.row--
			}
		case key.Matches(msg, m.keys.Down):
			if m.row < len(m.columns[m.col])-1 {
				m.row++
			}
		case key.Matches(msg, m.keys.Open):
			if d := m.selected(); d != nil {
				m.detail.SetContent(formatter.FormatDealDetail(d))
				m.detail.GotoTop()
				m.showDetail = true
			}
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m *boardModel) group(deals []*domain.Deal) {
	for i := range m.columns {
		m.columns[i] = m.columns[i][:0]
	}
	for _, d := range deals {
		for i, st := range domain.PipelineStages {
			if d.CurrentStage == st {
				m.columns[i] = append(m.columns[i], d)
			}
		}
	}
	m.row = min(m.row, max(len(m.columns[m.col])-1, 0))
}

func (m *boardModel) moveColumn(delta int) {
	m.col = (m.col + delta + len(m.columns)) % len(m.columns)
	m.row = min(m.row, max(len(m.columns[m.col])-1, 0))
}

func (m *boardModel) selected() *domain.Deal {
	if m.row < len(m.columns[m.col]) {
		return m.columns[m.col][m.row]
	}
	return nil
}

func (m *boardModel) View() string {
	if m.showDetail {
		return m.detail.View() + "\n" + formatter.Dim("↑/↓ scroll • esc back")
	}
	if m.err != nil {
		return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.loading {
		return formatter.Dim("Loading deals...") + "\n"
	}

	colWidth := max(m.width/len(m.columns)-2, 18)
	cols := make([]string, len(m.columns))
	for i, st := range domain.PipelineStages {
		var b strings.Builder
		title := fmt.Sprintf("%s (%d)", st.Label(), len(m.columns[i]))
		b.WriteString(formatter.StageStyle(st).Bold(true).Render(title) + "\n")
		b.WriteString(formatter.Dim(strings.Repeat("─", colWidth)) + "\n")
		for j, d := range m.columns[i] {
			name := formatter.TruncateText(d.CompanyName, colWidth-6)
			line := "  " + name
			if i == m.col && j == m.row {
				line = formatter.StyleHeader.Render("▸ " + name)
			}
			b.WriteString(line + " " + formatter.RiskStyle(d.RiskCategory).Render(string(d.RiskCategory)) + "\n")
		}
		if len(m.columns[i]) == 0 {
			b.WriteString(formatter.Dim("  none") + "\n")
		}
		cols[i] = lipgloss.NewStyle().Width(colWidth).MarginRight(2).Render(b.String())
	}

	help := []string{}
	for _, k := range []key.Binding{m.keys.Left, m.keys.Up, m.keys.Open, m.keys.Refresh, m.keys.Quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...) + "\n" + formatter.Dim(strings.Join(help, " • ")) + "\n"
}
