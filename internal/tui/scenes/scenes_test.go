package scenes

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/tui/tuimsg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestParseGoal(t *testing.T) {
	goal, err := parseGoal(" 4500.50 ")
	require.NoError(t, err)
	assert.True(t, goal.Equal(decimal.NewFromFloat(4500.5)))

	goal, err = parseGoal("")
	assert.NoError(t, err)
	assert.Nil(t, goal)

	_, err = parseGoal("abc")
	assert.Error(t, err)
	_, err = parseGoal("-5")
	assert.Error(t, err)
}

func TestAdviceModel_EditGoal(t *testing.T) {
	m := NewAdviceModel()
	current := decimal.NewFromInt(6000)
	m.SetResult(&domain.AdvisorResult{NeedsSuggestions: true}, &current)

	m, cmd := m.Update(runes("g"))
	require.True(t, m.Editing())
	assert.Contains(t, collect(cmd), tuimsg.EditingMsg{Editing: true})

	m.input.SetValue("7000")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Editing())

	var changed *tuimsg.GoalChangedMsg
	for _, msg := range collect(cmd) {
		if g, ok := msg.(tuimsg.GoalChangedMsg); ok {
			changed = &g
		}
	}
	require.NotNil(t, changed)
	require.NotNil(t, changed.Goal)
	assert.True(t, changed.Goal.Equal(decimal.NewFromInt(7000)))
}

func TestAdviceModel_InvalidGoalKeepsEditing(t *testing.T) {
	m := NewAdviceModel()
	m, _ = m.Update(runes("g"))
	m.input.SetValue("lots")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, m.Editing())
	assert.Contains(t, m.View(), "not a number")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Editing())
}

func TestOutcomesModel(t *testing.T) {
	m := NewOutcomesModel("Work longer")
	assert.Contains(t, m.View(), "Nothing to show.")

	m.SetOutcomes([]domain.ScenarioOutcome{
		{Description: "Work 1 more year", ResultingPension: decimal.NewFromInt(4100), AbsoluteIncrease: decimal.NewFromInt(100), MeetsGoal: true},
		{Description: "Work 2 more years", ResultingPension: decimal.NewFromInt(4200), AbsoluteIncrease: decimal.NewFromInt(200)},
	})
	assert.Equal(t, 2, m.Len())
	view := m.View()
	assert.Contains(t, view, "2 scenarios")
	assert.Contains(t, view, "Work 1 more year")
}

func TestBenefitModel(t *testing.T) {
	m := NewBenefitModel()
	assert.Contains(t, m.View(), "No projection yet.")

	goal := decimal.NewFromInt(5000)
	m.SetReport(&domain.PlanReport{Benefit: &domain.BenefitReport{
		RetirementYear:        2060,
		NominalMonthlyPension: decimal.NewFromInt(4000),
		RealMonthlyPension:    decimal.NewFromInt(2000),
		ReplacementRate:       decimal.NewFromFloat(0.4),
		DesiredMonthlyPension: &goal,
	}})
	view := m.View()
	assert.Contains(t, view, "4000.00")
	assert.Contains(t, view, "40.0%")
	assert.Contains(t, view, "1000.00 short")
}
