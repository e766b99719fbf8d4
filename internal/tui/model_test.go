package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/pengo/internal/tui/tuimsg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const careerYAML = `
career:
  age: 30
  sex: male
  gross_salary: 8000
  work_start_year: 2015
  work_end_year: 2055
  desired_monthly_pension: 6000
as_of:
  year: 2025
  quarter: III
`

func loadedModel(t *testing.T) Model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "career.yaml")
	require.NoError(t, os.WriteFile(path, []byte(careerYAML), 0644))

	m := NewModel(Options{ConfigPath: path})
	msg := m.Init()()
	loaded, ok := msg.(ConfigLoadedMsg)
	require.True(t, ok, "expected ConfigLoadedMsg, got %T", msg)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), loaded.AsOf)

	next, cmd := m.Update(loaded)
	require.NotNil(t, cmd)
	next, _ = next.Update(cmd())
	return next.(Model)
}

func TestModel_LoadsAndBuildsPlan(t *testing.T) {
	m := loadedModel(t)

	require.NotNil(t, m.Report())
	assert.False(t, m.loading)
	assert.Equal(t, 2060, m.Report().Benefit.RetirementYear)
	assert.Contains(t, m.View(), "Nominal pension")
}

func TestModel_LoadError(t *testing.T) {
	m := NewModel(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	next, _ := m.Update(m.Init()())
	model := next.(Model)

	require.Error(t, model.err)
	assert.Contains(t, model.View(), "Error:")

	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.NoError(t, next.(Model).err, "any key dismisses the error")
}

func TestModel_TabNavigation(t *testing.T) {
	m := loadedModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateMsg{Scene: SceneWorkLonger}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, NavigateMsg{Scene: SceneAdvice}, cmd(), "shift+tab wraps around")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	assert.Equal(t, NavigateMsg{Scene: SceneExtraIncome}, cmd())

	next, _ := m.Update(NavigateMsg{Scene: SceneExtraIncome})
	view := next.(Model).View()
	assert.Contains(t, view, "36 scenarios")
}

func TestModel_GoalEditRerunsAdvisor(t *testing.T) {
	m := loadedModel(t)
	require.NotNil(t, m.Report().Advice)

	next, _ := m.Update(tuimsg.EditingMsg{Editing: true})
	editing := next.(Model)
	_, cmd := editing.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Nil(t, cmd, "q does not quit while the goal is being edited")

	next, _ = editing.Update(tuimsg.EditingMsg{Editing: false})
	next, cmd = next.Update(tuimsg.GoalChangedMsg{Goal: nil})
	require.NotNil(t, cmd)
	next, _ = next.Update(cmd())
	assert.Nil(t, next.(Model).Report().Advice, "clearing the goal drops the advisor result")

	low := decimal.NewFromInt(100)
	next, cmd = next.Update(tuimsg.GoalChangedMsg{Goal: &low})
	next, _ = next.Update(cmd())
	advice := next.(Model).Report().Advice
	require.NotNil(t, advice)
	assert.False(t, advice.NeedsSuggestions)
}

func TestModel_StalePlanDropped(t *testing.T) {
	m := loadedModel(t)
	before := m.config
	original := m.Report()

	low := decimal.NewFromInt(100)
	next, first := m.Update(tuimsg.GoalChangedMsg{Goal: &low})
	require.NotNil(t, first)
	assert.True(t, before.Career.DesiredMonthlyPension.Equal(decimal.NewFromInt(6000)),
		"the config handed to earlier builds is not mutated")

	high := decimal.NewFromInt(9000)
	next, second := next.Update(tuimsg.GoalChangedMsg{Goal: &high})
	require.NotNil(t, second)

	latest := second()
	stale := first()

	next, _ = next.Update(latest)
	applied := next.(Model).Report()
	require.NotSame(t, original, applied)

	next, _ = next.Update(stale)
	model := next.(Model)
	assert.Same(t, applied, model.Report(), "an older build does not overwrite a newer one")
	assert.True(t, model.Report().Career.DesiredMonthlyPension.Equal(high))
	assert.False(t, model.loading)
}

func TestModel_ReferenceDataUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "career.yaml")
	content := careerYAML + "reference_data:\n  lifespan_file: " + filepath.Join(t.TempDir(), "missing.csv") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m := NewModel(Options{ConfigPath: path})
	loaded, ok := m.Init()().(ConfigLoadedMsg)
	require.True(t, ok)
	assert.Nil(t, loaded.Reference)
	assert.Contains(t, loaded.Warning, "reference data unavailable")

	next, cmd := m.Update(loaded)
	next, _ = next.Update(cmd())
	model := next.(Model)
	require.NoError(t, model.err)
	require.NotNil(t, model.Report())
	assert.Nil(t, model.Report().Benefit.Valorization)
	assert.Contains(t, model.View(), "Warning: reference data unavailable")
}

func TestModel_Quit(t *testing.T) {
	m := loadedModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
