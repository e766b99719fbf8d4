package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/pengo/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.benefitModel.SetSize(msg.Width, msg.Height)
		m.workLongerModel.SetSize(msg.Width, msg.Height)
		m.extraIncomeModel.SetSize(msg.Width, msg.Height)
		m.raisesModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		m.config = msg.Config
		m.reference = msg.Reference
		m.asOf = msg.AsOf
		m.warning = msg.Warning
		m.loadingMessage = "Projecting..."
		cmd := m.startBuild()
		return m, cmd

	case PlanCompleteMsg:
		if msg.Seq != m.buildSeq {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.setReport(msg)
		return m, nil

	case tuimsg.EditingMsg:
		m.editing = msg.Editing
		return m, nil

	case tuimsg.GoalChangedMsg:
		if m.config == nil {
			return m, nil
		}
		// copy on write: an earlier build may still be reading the old config
		cfg := *m.config
		cfg.Career.DesiredMonthlyPension = msg.Goal
		m.config = &cfg
		m.loading = true
		m.loadingMessage = "Re-running the advisor..."
		cmd := m.startBuild()
		return m, cmd
	}

	return m.updateCurrentScene(msg)
}

func (m *Model) setReport(msg PlanCompleteMsg) {
	r := msg.Report
	m.report = r
	m.err = nil
	m.benefitModel.SetReport(r)
	m.workLongerModel.SetOutcomes(r.WorkLonger)
	m.extraIncomeModel.SetOutcomes(r.ExtraIncome)
	m.raisesModel.SetOutcomes(r.Raises)
	m.adviceModel.SetResult(r.Advice, r.Career.DesiredMonthlyPension)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.updateCurrentScene(msg)
	}

	if m.err != nil && !key.Matches(msg, keys.Quit) {
		// Any key dismisses the error
		m.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		if m.currentScene == SceneHelp {
			return m, navigate(m.previousScene)
		}
		return m, navigate(SceneHelp)

	case key.Matches(msg, keys.Next):
		return m, navigate(m.stepTab(1))

	case key.Matches(msg, keys.Prev):
		return m, navigate(m.stepTab(-1))

	case key.Matches(msg, keys.Jump):
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(tabs) {
			return m, navigate(tabs[idx])
		}

	case key.Matches(msg, keys.Reload):
		m.loading = true
		m.loadingMessage = "Reloading configuration..."
		return m, loadConfigCmd(m.opts)
	}

	return m.updateCurrentScene(msg)
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: s} }
}

// stepTab returns the tab delta positions away from the current one, wrapping
func (m Model) stepTab(delta int) Scene {
	current := 0
	for i, s := range tabs {
		if s == m.currentScene {
			current = i
		}
	}
	next := (current + delta + len(tabs)) % len(tabs)
	return tabs[next]
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneWorkLonger:
		m.workLongerModel, cmd = m.workLongerModel.Update(msg)
	case SceneExtraIncome:
		m.extraIncomeModel, cmd = m.extraIncomeModel.Update(msg)
	case SceneRaises:
		m.raisesModel, cmd = m.raisesModel.Update(msg)
	case SceneAdvice:
		m.adviceModel, cmd = m.adviceModel.Update(msg)
	}
	return m, cmd
}
