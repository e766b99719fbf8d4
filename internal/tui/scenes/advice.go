package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/tui/components"
	"github.com/rgehrsitz/pengo/internal/tui/tuimsg"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

type adviceKeys struct {
	Edit   key.Binding
	Submit key.Binding
	Cancel key.Binding
	Up     key.Binding
	Down   key.Binding
}

var defaultAdviceKeys = adviceKeys{
	Edit:   key.NewBinding(key.WithKeys("g", "e"), key.WithHelp("g", "edit goal")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
}

// AdviceModel shows the advisor result and lets the user edit the goal
type AdviceModel struct {
	result   *domain.AdvisorResult
	goal     *decimal.Decimal
	selected int
	input    textinput.Model
	editing  bool
	inputErr string
	keys     adviceKeys
}

// NewAdviceModel creates the advice scene
func NewAdviceModel() *AdviceModel {
	ti := textinput.New()
	ti.Placeholder = "desired monthly pension, empty to clear"
	ti.Prompt = "Goal: "
	ti.CharLimit = 12
	return &AdviceModel{input: ti, keys: defaultAdviceKeys}
}

// SetResult replaces the advisor result and the current goal
func (m *AdviceModel) SetResult(result *domain.AdvisorResult, goal *decimal.Decimal) {
	m.result = result
	m.goal = goal
	if result == nil || m.selected >= len(result.Suggestions) {
		m.selected = 0
	}
}

// Editing reports whether the goal input owns the keyboard
func (m *AdviceModel) Editing() bool {
	return m.editing
}

// Update handles goal editing and path selection
func (m *AdviceModel) Update(msg tea.Msg) (*AdviceModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.editing {
		switch {
		case key.Matches(keyMsg, m.keys.Submit):
			goal, err := parseGoal(m.input.Value())
			if err != nil {
				m.inputErr = err.Error()
				return m, nil
			}
			m.stopEditing()
			return m, tea.Batch(
				func() tea.Msg { return tuimsg.EditingMsg{Editing: false} },
				func() tea.Msg { return tuimsg.GoalChangedMsg{Goal: goal} },
			)
		case key.Matches(keyMsg, m.keys.Cancel):
			m.stopEditing()
			return m, func() tea.Msg { return tuimsg.EditingMsg{Editing: false} }
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Edit):
		m.editing = true
		m.inputErr = ""
		if m.goal != nil {
			m.input.SetValue(m.goal.String())
		} else {
			m.input.SetValue("")
		}
		return m, tea.Batch(m.input.Focus(), func() tea.Msg { return tuimsg.EditingMsg{Editing: true} })
	case key.Matches(keyMsg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.result != nil && m.selected < len(m.result.Suggestions)-1 {
			m.selected++
		}
	}
	return m, nil
}

func (m *AdviceModel) stopEditing() {
	m.editing = false
	m.inputErr = ""
	m.input.Blur()
}

func parseGoal(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	goal, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", raw)
	}
	if !goal.IsPositive() {
		return nil, fmt.Errorf("goal must be positive")
	}
	return &goal, nil
}

// View renders the gap, the suggestions and the goal input
func (m *AdviceModel) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Goal advisor") + "\n")

	if m.editing {
		b.WriteString(m.input.View() + "\n")
		if m.inputErr != "" {
			b.WriteString(tuistyles.ErrorStyle.Render(m.inputErr) + "\n")
		}
	} else if m.goal == nil {
		b.WriteString(tuistyles.SubtitleStyle.Render("No goal set. Press g to set a desired monthly pension.") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("Goal: %s  ", tuistyles.FormatCurrency(*m.goal)) +
			tuistyles.SubtitleStyle.Render("(g to edit)") + "\n")
	}

	if m.result == nil {
		return b.String()
	}
	if gap := m.result.Gap; gap != nil {
		if gap.MeetsGoal {
			b.WriteString(tuistyles.MetricPositiveStyle.Render("Goal met, no gap.") + "\n")
		} else {
			b.WriteString(tuistyles.MetricNegativeStyle.Render(fmt.Sprintf("Gap: %s (%s%% of target)",
				tuistyles.FormatCurrency(gap.Gap), gap.GapPercentage.StringFixed(2))) + "\n")
		}
	}
	if m.result.Message != "" {
		b.WriteString(m.result.Message + "\n")
	}
	for i, p := range m.result.Suggestions {
		card := components.NewPathCard(p)
		card.Selected = i == m.selected
		b.WriteString(card.Render() + "\n")
	}
	return b.String()
}
