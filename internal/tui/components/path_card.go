package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

// PathCard renders one advisor suggestion
type PathCard struct {
	Path     domain.SuggestedPath
	Selected bool
	Width    int
}

// NewPathCard creates a card for path
func NewPathCard(path domain.SuggestedPath) *PathCard {
	return &PathCard{Path: path, Width: 60}
}

func effortStyle(tier domain.EffortTier) lipgloss.Style {
	switch tier {
	case domain.EffortHigh:
		return tuistyles.MetricNegativeStyle
	case domain.EffortMedium:
		return lipgloss.NewStyle().Foreground(tuistyles.ColorAccent)
	default:
		return tuistyles.MetricPositiveStyle
	}
}

// Render returns the bordered card
func (c *PathCard) Render() string {
	p := c.Path
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render(p.Title))
	b.WriteString("  ")
	b.WriteString(effortStyle(p.EffortTier).Render(fmt.Sprintf("%s effort", p.EffortTier)))
	b.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("  %d years", p.TimeframeYears)))
	b.WriteString("\n")
	b.WriteString(p.Description)
	for _, pro := range p.Pros {
		b.WriteString("\n" + tuistyles.MetricPositiveStyle.Render("+ ") + pro)
	}
	for _, con := range p.Cons {
		b.WriteString("\n" + tuistyles.MetricNegativeStyle.Render("- ") + con)
	}

	border := tuistyles.ColorBorder
	if c.Selected {
		border = tuistyles.ColorPrimary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(c.Width).
		Render(b.String())
}
