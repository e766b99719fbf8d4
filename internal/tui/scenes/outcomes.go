package scenes

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

// OutcomesModel shows one scenario family in a scrollable table
type OutcomesModel struct {
	title    string
	outcomes []domain.ScenarioOutcome
	table    table.Model
}

// NewOutcomesModel creates an empty outcome table
func NewOutcomesModel(title string) *OutcomesModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Scenario", Width: 44},
			{Title: "Pension", Width: 12},
			{Title: "Increase", Width: 11},
			{Title: "%", Width: 8},
			{Title: "Effort", Width: 7},
			{Title: "Goal", Width: 4},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(tuistyles.ColorBorder)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(tuistyles.ColorPrimary)
	t.SetStyles(styles)
	return &OutcomesModel{title: title, table: t}
}

// SetOutcomes replaces the table rows
func (m *OutcomesModel) SetOutcomes(outcomes []domain.ScenarioOutcome) {
	m.outcomes = outcomes
	rows := make([]table.Row, 0, len(outcomes))
	for _, o := range outcomes {
		goal := ""
		if o.MeetsGoal {
			goal = "✓"
		}
		rows = append(rows, table.Row{
			o.Description,
			tuistyles.FormatCurrency(o.ResultingPension),
			"+" + tuistyles.FormatCurrency(o.AbsoluteIncrease),
			o.PercentageIncrease.StringFixed(2),
			string(o.EffortTier),
			goal,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// Len returns the number of outcomes shown
func (m *OutcomesModel) Len() int {
	return len(m.outcomes)
}

// SetSize fits the table to the terminal height
func (m *OutcomesModel) SetSize(width, height int) {
	if h := height - 8; h > 3 {
		m.table.SetHeight(h)
	}
}

// Update forwards navigation keys to the table
func (m *OutcomesModel) Update(msg tea.Msg) (*OutcomesModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the title, the count and the table
func (m *OutcomesModel) View() string {
	header := tuistyles.TitleStyle.Render(m.title) + tuistyles.SubtitleStyle.Render(fmt.Sprintf("  %d scenarios", len(m.outcomes)))
	if len(m.outcomes) == 0 {
		return header + "\n" + tuistyles.SubtitleStyle.Render("Nothing to show.")
	}
	return header + "\n" + m.table.View()
}
