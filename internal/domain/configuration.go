package domain

import (
	"time"
)

// ReferenceDataConfig points at the raw life-expectancy and indexation tables.
// Empty paths fall back to the embedded illustrative tables.
type ReferenceDataConfig struct {
	LifespanFile   string `yaml:"lifespan_file,omitempty" json:"lifespanFile,omitempty"`
	IndexationFile string `yaml:"indexation_file,omitempty" json:"indexationFile,omitempty"`
	Delimiter      string `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
}

// AsOf is the explicit reference date of a projection
type AsOf struct {
	Year    int     `yaml:"year" json:"year"`
	Quarter Quarter `yaml:"quarter,omitempty" json:"quarter,omitempty"`
}

// Time converts the reference date to the first day of its quarter
func (a AsOf) Time() time.Time {
	q := a.Quarter
	if !q.Valid() {
		q = QuarterI
	}
	month := time.Month((int(q)-1)*3 + 1)
	return time.Date(a.Year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Configuration represents a complete input file
type Configuration struct {
	Career        CareerRecord         `yaml:"career" json:"career"`
	Assumptions   *EconomicAssumptions `yaml:"assumptions,omitempty" json:"assumptions,omitempty"`
	AdvisorPolicy *AdvisorPolicy       `yaml:"advisor_policy,omitempty" json:"advisorPolicy,omitempty"`
	ReferenceData ReferenceDataConfig  `yaml:"reference_data,omitempty" json:"referenceData,omitempty"`
	AsOf          *AsOf                `yaml:"as_of,omitempty" json:"asOf,omitempty"`
}

// EffectiveAssumptions merges the file's overrides onto the defaults
func (c *Configuration) EffectiveAssumptions() EconomicAssumptions {
	return DefaultEconomicAssumptions().WithOverrides(c.Assumptions)
}

// EffectivePolicy merges the file's advisor overrides onto the defaults
func (c *Configuration) EffectivePolicy() AdvisorPolicy {
	return DefaultAdvisorPolicy().WithOverrides(c.AdvisorPolicy)
}

// PlanReport is the complete decision-support report for one career record
type PlanReport struct {
	RunID       string              `yaml:"run_id" json:"runId"`
	AsOf        YearQuarter         `yaml:"as_of" json:"asOf"`
	GeneratedAt time.Time           `yaml:"generated_at" json:"generatedAt"`
	Career      CareerRecord        `yaml:"career" json:"career"`
	Assumptions EconomicAssumptions `yaml:"assumptions" json:"assumptions"`

	Benefit     *BenefitReport    `yaml:"benefit" json:"benefit"`
	WorkLonger  []ScenarioOutcome `yaml:"work_longer" json:"workLonger"`
	ExtraIncome []ScenarioOutcome `yaml:"extra_income" json:"extraIncome"`
	Raises      []ScenarioOutcome `yaml:"raises" json:"raises"`
	Custom      []ScenarioOutcome `yaml:"custom,omitempty" json:"custom,omitempty"`
	Advice      *AdvisorResult    `yaml:"advice,omitempty" json:"advice,omitempty"`
}
