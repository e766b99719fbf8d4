package tui

import "github.com/rgehrsitz/pengo/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	TitleStyle       = tuistyles.TitleStyle
	SubtitleStyle    = tuistyles.SubtitleStyle
	StatusBarStyle   = tuistyles.StatusBarStyle
	StatusKeyStyle   = tuistyles.StatusKeyStyle
	BorderStyle      = tuistyles.BorderStyle
	ActiveTabStyle   = tuistyles.ActiveTabStyle
	InactiveTabStyle = tuistyles.InactiveTabStyle
	HelpKeyStyle     = tuistyles.HelpKeyStyle
	HelpDescStyle    = tuistyles.HelpDescStyle
	ErrorStyle       = tuistyles.ErrorStyle
	InfoStyle        = tuistyles.InfoStyle
)
