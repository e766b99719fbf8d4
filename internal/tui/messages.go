package tui

import (
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/refdata"
)

// Scene represents the tabs of the TUI
type Scene int

const (
	SceneBenefit Scene = iota
	SceneWorkLonger
	SceneExtraIncome
	SceneRaises
	SceneAdvice
	SceneHelp
)

// tabs are the scenes reachable with tab/shift+tab, in order
var tabs = []Scene{SceneBenefit, SceneWorkLonger, SceneExtraIncome, SceneRaises, SceneAdvice}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ConfigLoadedMsg signals configuration and reference data have been loaded
type ConfigLoadedMsg struct {
	Config    *domain.Configuration
	Reference *refdata.ReferenceData // nil when the tables could not be loaded
	AsOf      time.Time
	Warning   string
}

// PlanCompleteMsg carries a freshly built plan report
type PlanCompleteMsg struct {
	Seq    int
	Report *domain.PlanReport
	Err    error
}

func (s Scene) String() string {
	switch s {
	case SceneBenefit:
		return "Benefit"
	case SceneWorkLonger:
		return "Work longer"
	case SceneExtraIncome:
		return "Extra income"
	case SceneRaises:
		return "Raises"
	case SceneAdvice:
		return "Advice"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
