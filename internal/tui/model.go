package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/pengo/internal/config"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/plan"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/tui/scenes"
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Jump   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev")),
	Jump:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "jump")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Options configures where the TUI reads its input from
type Options struct {
	ConfigPath string
	AsOf       string // Overrides the file's as_of when set
	Clock      func() time.Time
}

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	opts      Options
	config    *domain.Configuration
	reference *refdata.ReferenceData
	asOf      time.Time
	report    *domain.PlanReport

	// Each plan build is numbered; only the latest one is applied
	buildSeq int
	warning  string

	benefitModel     *scenes.BenefitModel
	workLongerModel  *scenes.OutcomesModel
	extraIncomeModel *scenes.OutcomesModel
	raisesModel      *scenes.OutcomesModel
	adviceModel      *scenes.AdviceModel

	// A scene is capturing text input; global keys are suspended
	editing bool

	err            error
	loading        bool
	loadingMessage string
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return Model{
		currentScene:     SceneBenefit,
		opts:             opts,
		benefitModel:     scenes.NewBenefitModel(),
		workLongerModel:  scenes.NewOutcomesModel("Work longer"),
		extraIncomeModel: scenes.NewOutcomesModel("Extra income (sorted by increase)"),
		raisesModel:      scenes.NewOutcomesModel("Salary raises"),
		adviceModel:      scenes.NewAdviceModel(),
		width:            80,
		height:           24,
		loading:          true,
		loadingMessage:   "Loading configuration...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.opts)
}

// loadConfigCmd loads the input file and its reference tables
func loadConfigCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(opts.ConfigPath)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		asOf, err := config.ResolveAsOf(opts.AsOf, cfg, opts.Clock)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		msg := ConfigLoadedMsg{Config: cfg, AsOf: asOf}
		ref, err := refdata.NewConfiguredProvider(cfg.ReferenceData).Get()
		if err != nil {
			msg.Warning = fmt.Sprintf("reference data unavailable: %v", err)
		} else {
			msg.Reference = ref
		}
		return msg
	}
}

// buildPlanCmd runs the full pipeline off the update loop on a copy of cfg
func buildPlanCmd(cfg *domain.Configuration, ref *refdata.ReferenceData, asOf time.Time, seq int) tea.Cmd {
	snapshot := *cfg
	return func() tea.Msg {
		report, err := plan.Build(&snapshot, ref, plan.Options{AsOf: asOf}, nil)
		return PlanCompleteMsg{Seq: seq, Report: report, Err: err}
	}
}

// startBuild numbers a new plan build; results of earlier builds are dropped
func (m *Model) startBuild() tea.Cmd {
	m.buildSeq++
	return buildPlanCmd(m.config, m.reference, m.asOf, m.buildSeq)
}

// Report returns the most recent plan report, nil before the first build
func (m Model) Report() *domain.PlanReport {
	return m.report
}

// CurrentScene returns the visible scene
func (m Model) CurrentScene() Scene {
	return m.currentScene
}
