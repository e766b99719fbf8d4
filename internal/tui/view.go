package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render("⠋ " + m.loadingMessage))
	}
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue, q to quit.", m.err)))
	}

	var content string
	switch m.currentScene {
	case SceneBenefit:
		content = m.benefitModel.View()
	case SceneWorkLonger:
		content = m.workLongerModel.View()
	case SceneExtraIncome:
		content = m.extraIncomeModel.View()
	case SceneRaises:
		content = m.raisesModel.View()
	case SceneAdvice:
		content = m.adviceModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with the title bar, tabs and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 5
	if contentHeight < 1 {
		contentHeight = 1
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		m.renderTabs(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("pengo - pension projection")
	if m.report != nil {
		title += SubtitleStyle.Render(fmt.Sprintf("  as of %s", m.report.AsOf))
	}
	return title
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, len(tabs))
	for i, s := range tabs {
		label := fmt.Sprintf("%d %s", i+1, s)
		if s == m.currentScene {
			rendered = append(rendered, ActiveTabStyle.Render(label))
		} else {
			rendered = append(rendered, InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderStatusBar() string {
	if m.editing {
		return StatusBarStyle.Render(formatShortcut("enter", "apply") + " • " + formatShortcut("esc", "cancel"))
	}
	shortcuts := []string{
		formatShortcut("tab", "next"),
		formatShortcut("1-5", "jump"),
		formatShortcut("↑/↓", "scroll"),
		formatShortcut("r", "reload"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	if m.currentScene == SceneAdvice {
		shortcuts = append([]string{formatShortcut("g", "edit goal")}, shortcuts...)
	}
	bar := StatusBarStyle.Render(strings.Join(shortcuts, " • "))
	if m.warning != "" {
		return ErrorStyle.Render("Warning: "+m.warning) + "\n" + bar
	}
	return bar
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Keyboard shortcuts") + "\n\n")
	for _, row := range [][2]string{
		{"tab / shift+tab", "next / previous tab"},
		{"1-5", "jump to a tab"},
		{"↑ / ↓", "scroll scenario tables, pick a suggestion"},
		{"g", "edit the desired pension (Advice tab)"},
		{"r", "reload the input file"},
		{"?", "toggle this help"},
		{"q / ctrl+c", "quit"},
	} {
		b.WriteString(fmt.Sprintf("  %-18s %s\n", HelpKeyStyle.Render(row[0]), HelpDescStyle.Render(row[1])))
	}
	return BorderStyle.Render(b.String())
}
