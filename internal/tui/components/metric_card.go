package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

// MetricCard displays one benefit figure with an optional change and note
type MetricCard struct {
	Label string
	Value string
	Trend *Trend
	Note  string
	Width int
}

// Trend is a signed change shown below the value
type Trend struct {
	IsPositive bool
	Change     string
}

// NewMetricCard creates a metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 26}
}

// WithTrend adds a change indicator
func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{IsPositive: isPositive, Change: change}
	return m
}

// WithNote adds a muted line under the value
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// Render returns the bordered card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)
	if m.Trend != nil {
		style := tuistyles.MetricTrendStyle(m.Trend.IsPositive)
		content += "\n" + style.Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Trend.IsPositive), m.Trend.Change))
	}
	if m.Note != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid lays cards out in rows of columns
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns <= 0 {
		return ""
	}
	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
