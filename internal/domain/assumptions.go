package domain

import (
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SexDecimals holds a sex-dependent numeric parameter
type SexDecimals struct {
	Male   decimal.Decimal `yaml:"male" json:"male"`
	Female decimal.Decimal `yaml:"female" json:"female"`
}

// For returns the value for the given sex; ok is false for an unknown sex
func (s SexDecimals) For(sex Sex) (decimal.Decimal, bool) {
	switch sex {
	case SexMale:
		return s.Male, true
	case SexFemale:
		return s.Female, true
	}
	return decimal.Zero, false
}

// RetirementAges holds the statutory retirement age per sex
type RetirementAges struct {
	Male   int `yaml:"male" json:"male"`
	Female int `yaml:"female" json:"female"`
}

// For returns the retirement age for the given sex; ok is false for an unknown sex
func (r RetirementAges) For(sex Sex) (int, bool) {
	switch sex {
	case SexMale:
		return r.Male, true
	case SexFemale:
		return r.Female, true
	}
	return 0, false
}

// EconomicAssumptions contains the fixed parameters of the projection model.
// Defaults come from DefaultEconomicAssumptions and can be overridden from the
// assumptions section of an input file.
type EconomicAssumptions struct {
	ContributionRate       decimal.Decimal `yaml:"contribution_rate" json:"contributionRate"`
	WageGrowthRate         decimal.Decimal `yaml:"wage_growth_rate" json:"wageGrowthRate"`
	InflationRate          decimal.Decimal `yaml:"inflation_rate" json:"inflationRate"`
	NationalAverageBenefit decimal.Decimal `yaml:"national_average_benefit" json:"nationalAverageBenefit"`
	RetirementAge          RetirementAges  `yaml:"retirement_age" json:"retirementAge"`
	AverageSickDays        SexDecimals     `yaml:"average_sick_days" json:"averageSickDays"` // Per year

	// Post-retirement payout horizons in months
	PayoutMonths         SexDecimals     `yaml:"payout_months" json:"payoutMonths"`
	StandardPayoutMonths decimal.Decimal `yaml:"standard_payout_months" json:"standardPayoutMonths"`

	SickLeaveContributionFactor decimal.Decimal `yaml:"sick_leave_contribution_factor" json:"sickLeaveContributionFactor"`
	DaysPerMonth                decimal.Decimal `yaml:"days_per_month" json:"daysPerMonth"`

	// Input bounds used by config validation
	MinimumGrossSalary decimal.Decimal `yaml:"minimum_gross_salary" json:"minimumGrossSalary"`
	MinAge             int             `yaml:"min_age" json:"minAge"`
	MaxAge             int             `yaml:"max_age" json:"maxAge"`
	MinYear            int             `yaml:"min_year" json:"minYear"`
	MaxYear            int             `yaml:"max_year" json:"maxYear"`

	// Rate keys present in the decoded input; a zero there is a real value
	explicit map[string]bool
}

// zeroableRates maps the YAML key of each rate for which zero is a valid
// setting to its JSON key. Every other zero field means "use the default".
var zeroableRates = map[string]string{
	"contribution_rate":              "contributionRate",
	"wage_growth_rate":               "wageGrowthRate",
	"inflation_rate":                 "inflationRate",
	"sick_leave_contribution_factor": "sickLeaveContributionFactor",
}

// plainAssumptions decodes without the custom unmarshalers
type plainAssumptions EconomicAssumptions

// UnmarshalYAML decodes the assumptions and records which rates were given
func (a *EconomicAssumptions) UnmarshalYAML(node *yaml.Node) error {
	if err := node.Decode((*plainAssumptions)(a)); err != nil {
		return err
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, ok := zeroableRates[key]; ok {
			a.MarkSet(key)
		}
	}
	return nil
}

// UnmarshalJSON decodes the assumptions and records which rates were given
func (a *EconomicAssumptions) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*plainAssumptions)(a)); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	for yamlKey, jsonKey := range zeroableRates {
		if _, ok := keys[jsonKey]; ok {
			a.MarkSet(yamlKey)
		}
	}
	return nil
}

// MarkSet flags rates (by YAML key) as explicitly set, so WithOverrides applies
// them even when zero
func (a *EconomicAssumptions) MarkSet(keys ...string) {
	if a.explicit == nil {
		a.explicit = make(map[string]bool, len(keys))
	}
	for _, k := range keys {
		a.explicit[k] = true
	}
}

// IsSet reports whether the rate with the given YAML key was explicitly set
func (a *EconomicAssumptions) IsSet(key string) bool {
	return a.explicit[key]
}

// DefaultEconomicAssumptions returns the built-in model parameters
func DefaultEconomicAssumptions() EconomicAssumptions {
	return EconomicAssumptions{
		ContributionRate:       decimal.NewFromFloat(0.1952),
		WageGrowthRate:         decimal.NewFromFloat(0.03),
		InflationRate:          decimal.NewFromFloat(0.025),
		NationalAverageBenefit: decimal.NewFromInt(3700),
		RetirementAge:          RetirementAges{Male: 65, Female: 60},
		AverageSickDays: SexDecimals{
			Male:   decimal.NewFromInt(12),
			Female: decimal.NewFromInt(16),
		},
		PayoutMonths: SexDecimals{
			Male:   decimal.NewFromInt(210),
			Female: decimal.NewFromInt(260),
		},
		StandardPayoutMonths:        decimal.NewFromInt(240),
		SickLeaveContributionFactor: decimal.NewFromFloat(0.8),
		DaysPerMonth:                decimal.NewFromInt(30),
		MinimumGrossSalary:          decimal.NewFromInt(4666),
		MinAge:                      18,
		MaxAge:                      67,
		MinYear:                     1960,
		MaxYear:                     2100,
	}
}

// WithOverrides returns a copy of a where every non-zero field of o replaces the
// default. Rates marked as set in o replace it even when zero.
func (a EconomicAssumptions) WithOverrides(o *EconomicAssumptions) EconomicAssumptions {
	if o == nil {
		return a
	}
	pick := func(base, override decimal.Decimal) decimal.Decimal {
		if override.IsZero() {
			return base
		}
		return override
	}
	rate := func(key string, base, override decimal.Decimal) decimal.Decimal {
		if o.IsSet(key) {
			return override
		}
		return pick(base, override)
	}
	pickInt := func(base, override int) int {
		if override == 0 {
			return base
		}
		return override
	}

	merged := a
	merged.ContributionRate = rate("contribution_rate", a.ContributionRate, o.ContributionRate)
	merged.WageGrowthRate = rate("wage_growth_rate", a.WageGrowthRate, o.WageGrowthRate)
	merged.InflationRate = rate("inflation_rate", a.InflationRate, o.InflationRate)
	merged.NationalAverageBenefit = pick(a.NationalAverageBenefit, o.NationalAverageBenefit)
	merged.RetirementAge.Male = pickInt(a.RetirementAge.Male, o.RetirementAge.Male)
	merged.RetirementAge.Female = pickInt(a.RetirementAge.Female, o.RetirementAge.Female)
	merged.AverageSickDays.Male = pick(a.AverageSickDays.Male, o.AverageSickDays.Male)
	merged.AverageSickDays.Female = pick(a.AverageSickDays.Female, o.AverageSickDays.Female)
	merged.PayoutMonths.Male = pick(a.PayoutMonths.Male, o.PayoutMonths.Male)
	merged.PayoutMonths.Female = pick(a.PayoutMonths.Female, o.PayoutMonths.Female)
	merged.StandardPayoutMonths = pick(a.StandardPayoutMonths, o.StandardPayoutMonths)
	merged.SickLeaveContributionFactor = rate("sick_leave_contribution_factor", a.SickLeaveContributionFactor, o.SickLeaveContributionFactor)
	merged.DaysPerMonth = pick(a.DaysPerMonth, o.DaysPerMonth)
	merged.MinimumGrossSalary = pick(a.MinimumGrossSalary, o.MinimumGrossSalary)
	merged.MinAge = pickInt(a.MinAge, o.MinAge)
	merged.MaxAge = pickInt(a.MaxAge, o.MaxAge)
	merged.MinYear = pickInt(a.MinYear, o.MinYear)
	merged.MaxYear = pickInt(a.MaxYear, o.MaxYear)
	return merged
}
