// Package tuistyles holds the lipgloss palette shared by the TUI packages. It is a
// leaf package so scenes and components can import it without a cycle.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	ColorPrimary   = lipgloss.Color("39")
	ColorSecondary = lipgloss.Color("141")
	ColorAccent    = lipgloss.Color("214")
	ColorSuccess   = lipgloss.Color("42")
	ColorDanger    = lipgloss.Color("203")
	ColorMuted     = lipgloss.Color("245")
	ColorBorder    = lipgloss.Color("240")
)

var (
	AppStyle       = lipgloss.NewStyle().Padding(0, 1)
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)
	StatusKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	BorderStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(0, 1)

	ActiveTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Underline(true).Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)

	MetricLabelStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricValueStyle    = lipgloss.NewStyle().Bold(true)
	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)

	HelpKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	InfoStyle     = lipgloss.NewStyle().Foreground(ColorSecondary)
)

// MetricTrendStyle colors a change by its direction
func MetricTrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return MetricPositiveStyle
	}
	return MetricNegativeStyle
}

// TrendIndicator returns an arrow for the change direction
func TrendIndicator(isPositive bool) string {
	if isPositive {
		return "▲"
	}
	return "▼"
}

// FormatCurrency renders an amount with two decimals
func FormatCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
