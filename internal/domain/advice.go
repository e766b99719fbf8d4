package domain

import (
	"github.com/shopspring/decimal"
)

// ScenarioKind tags the variant a ScenarioOutcome was produced by
type ScenarioKind string

const (
	KindWorkLonger  ScenarioKind = "work_longer"
	KindExtraIncome ScenarioKind = "extra_income"
	KindRaise       ScenarioKind = "raise"
	KindCombined    ScenarioKind = "combined"
)

// EffortTier is a qualitative cost classification of a strategy
type EffortTier string

const (
	EffortLow    EffortTier = "low"
	EffortMedium EffortTier = "medium"
	EffortHigh   EffortTier = "high"
)

// StrategyTag identifies a goal-advisor strategy
type StrategyTag string

const (
	StrategyFastest    StrategyTag = "fastest"
	StrategyBalanced   StrategyTag = "balanced"
	StrategyEffortless StrategyTag = "effortless"
	StrategyInvestment StrategyTag = "investment"
	StrategyRealistic  StrategyTag = "realistic"
)

// ScenarioOutcome is the evaluated result of one scenario variant
type ScenarioOutcome struct {
	Kind        ScenarioKind `yaml:"kind" json:"kind"`
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description" json:"description"`

	// Variant parameters; only those relevant to Kind are set
	Years         int              `yaml:"years,omitempty" json:"years,omitempty"`
	MonthlyAmount *decimal.Decimal `yaml:"monthly_amount,omitempty" json:"monthlyAmount,omitempty"`
	DurationYears int              `yaml:"duration_years,omitempty" json:"durationYears,omitempty"`
	AnnualRate    *decimal.Decimal `yaml:"annual_rate,omitempty" json:"annualRate,omitempty"`

	ResultingPension   decimal.Decimal `yaml:"resulting_pension" json:"resultingPension"`
	AbsoluteIncrease   decimal.Decimal `yaml:"absolute_increase" json:"absoluteIncrease"`
	PercentageIncrease decimal.Decimal `yaml:"percentage_increase" json:"percentageIncrease"`
	MeetsGoal          bool            `yaml:"meets_goal" json:"meetsGoal"`
	EffortTier         EffortTier      `yaml:"effort_tier,omitempty" json:"effortTier,omitempty"`
}

// GapAnalysis quantifies the distance between a pension and a target
type GapAnalysis struct {
	Current       decimal.Decimal `yaml:"current" json:"current"`
	Target        decimal.Decimal `yaml:"target" json:"target"`
	Gap           decimal.Decimal `yaml:"gap" json:"gap"`
	GapPercentage decimal.Decimal `yaml:"gap_percentage" json:"gapPercentage"`
	HasGap        bool            `yaml:"has_gap" json:"hasGap"`
	MeetsGoal     bool            `yaml:"meets_goal" json:"meetsGoal"`
}

// SuggestedPath is one feasible strategy proposed by the goal advisor
type SuggestedPath struct {
	ID             string                     `yaml:"id" json:"id"`
	Strategy       StrategyTag                `yaml:"strategy" json:"strategy"`
	Title          string                     `yaml:"title" json:"title"`
	Description    string                     `yaml:"description" json:"description"`
	EffortTier     EffortTier                 `yaml:"effort_tier" json:"effortTier"`
	TimeframeYears int                        `yaml:"timeframe_years" json:"timeframeYears"`
	Details        map[string]decimal.Decimal `yaml:"details" json:"details"`
	Pros           []string                   `yaml:"pros" json:"pros"`
	Cons           []string                   `yaml:"cons" json:"cons"`
}

// AdvisorResult is the output of the goal advisor
type AdvisorResult struct {
	NeedsSuggestions bool            `yaml:"needs_suggestions" json:"needsSuggestions"`
	Message          string          `yaml:"message,omitempty" json:"message,omitempty"`
	Gap              *GapAnalysis    `yaml:"gap,omitempty" json:"gap,omitempty"`
	Suggestions      []SuggestedPath `yaml:"suggestions" json:"suggestions"`
}

// AdvisorPolicy is the single table of thresholds used by the goal advisor and the
// scenario generator. Keeping them together makes the heuristics auditable.
type AdvisorPolicy struct {
	// Extra-income grid used by the scenario generator
	IncomeGrid   []decimal.Decimal `yaml:"income_grid" json:"incomeGrid"`
	DurationGrid []int             `yaml:"duration_grid" json:"durationGrid"`
	RaiseRates   []decimal.Decimal `yaml:"raise_rates" json:"raiseRates"`
	MaxWorkYears int               `yaml:"max_work_years" json:"maxWorkYears"`

	// Effort tiers by monthly income
	HighEffortIncome   decimal.Decimal `yaml:"high_effort_income" json:"highEffortIncome"`
	MediumEffortIncome decimal.Decimal `yaml:"medium_effort_income" json:"mediumEffortIncome"`

	// Fastest
	FastShortWindowYears int             `yaml:"fast_short_window_years" json:"fastShortWindowYears"`
	FastLongWindowYears  int             `yaml:"fast_long_window_years" json:"fastLongWindowYears"`
	FastGapThreshold     decimal.Decimal `yaml:"fast_gap_threshold" json:"fastGapThreshold"`
	MaxExtraIncome       decimal.Decimal `yaml:"max_extra_income" json:"maxExtraIncome"`

	// Balanced
	BalancedWorkFraction      decimal.Decimal `yaml:"balanced_work_fraction" json:"balancedWorkFraction"`
	BalancedShortWindowYears  int             `yaml:"balanced_short_window_years" json:"balancedShortWindowYears"`
	BalancedLongWindowYears   int             `yaml:"balanced_long_window_years" json:"balancedLongWindowYears"`
	BalancedResidualThreshold decimal.Decimal `yaml:"balanced_residual_threshold" json:"balancedResidualThreshold"`

	// Effortless
	MaxEffortlessYears int `yaml:"max_effortless_years" json:"maxEffortlessYears"`

	// Investment
	InvestmentAnnualReturn decimal.Decimal `yaml:"investment_annual_return" json:"investmentAnnualReturn"`
	MaxInvestmentMonthly   decimal.Decimal `yaml:"max_investment_monthly" json:"maxInvestmentMonthly"`
	HighEffortInvestment   decimal.Decimal `yaml:"high_effort_investment" json:"highEffortInvestment"`
	MediumEffortInvestment decimal.Decimal `yaml:"medium_effort_investment" json:"mediumEffortInvestment"`

	// Realistic modification fallback
	FallbackMinQualifying int             `yaml:"fallback_min_qualifying" json:"fallbackMinQualifying"`
	FallbackGapThreshold  decimal.Decimal `yaml:"fallback_gap_threshold" json:"fallbackGapThreshold"`
	FallbackTargetUplift  decimal.Decimal `yaml:"fallback_target_uplift" json:"fallbackTargetUplift"`
	FallbackPlanYears     int             `yaml:"fallback_plan_years" json:"fallbackPlanYears"`

	MaxSuggestions int `yaml:"max_suggestions" json:"maxSuggestions"`
}

// DefaultAdvisorPolicy returns the built-in advisor thresholds
func DefaultAdvisorPolicy() AdvisorPolicy {
	return AdvisorPolicy{
		IncomeGrid: []decimal.Decimal{
			decimal.NewFromInt(300),
			decimal.NewFromInt(500),
			decimal.NewFromInt(800),
			decimal.NewFromInt(1000),
			decimal.NewFromInt(1500),
			decimal.NewFromInt(2000),
		},
		DurationGrid: []int{1, 2, 3, 5, 7, 10},
		RaiseRates: []decimal.Decimal{
			decimal.NewFromFloat(0.02),
			decimal.NewFromFloat(0.03),
			decimal.NewFromFloat(0.05),
			decimal.NewFromFloat(0.07),
		},
		MaxWorkYears: 10,

		HighEffortIncome:   decimal.NewFromInt(1500),
		MediumEffortIncome: decimal.NewFromInt(800),

		FastShortWindowYears: 3,
		FastLongWindowYears:  5,
		FastGapThreshold:     decimal.NewFromInt(1000),
		MaxExtraIncome:       decimal.NewFromInt(3000),

		BalancedWorkFraction:      decimal.NewFromFloat(0.2),
		BalancedShortWindowYears:  5,
		BalancedLongWindowYears:   10,
		BalancedResidualThreshold: decimal.NewFromInt(500),

		MaxEffortlessYears: 10,

		InvestmentAnnualReturn: decimal.NewFromFloat(0.06),
		MaxInvestmentMonthly:   decimal.NewFromInt(1500),
		HighEffortInvestment:   decimal.NewFromInt(1000),
		MediumEffortInvestment: decimal.NewFromInt(500),

		FallbackMinQualifying: 2,
		FallbackGapThreshold:  decimal.NewFromInt(1000),
		FallbackTargetUplift:  decimal.NewFromFloat(0.3),
		FallbackPlanYears:     7,

		MaxSuggestions: 4,
	}
}

// WithOverrides returns a copy of p with every non-zero field of o applied
func (p AdvisorPolicy) WithOverrides(o *AdvisorPolicy) AdvisorPolicy {
	if o == nil {
		return p
	}
	dec := func(base, override decimal.Decimal) decimal.Decimal {
		if override.IsZero() {
			return base
		}
		return override
	}
	num := func(base, override int) int {
		if override == 0 {
			return base
		}
		return override
	}

	m := p
	if len(o.IncomeGrid) > 0 {
		m.IncomeGrid = append([]decimal.Decimal(nil), o.IncomeGrid...)
	}
	if len(o.DurationGrid) > 0 {
		m.DurationGrid = append([]int(nil), o.DurationGrid...)
	}
	if len(o.RaiseRates) > 0 {
		m.RaiseRates = append([]decimal.Decimal(nil), o.RaiseRates...)
	}
	m.MaxWorkYears = num(p.MaxWorkYears, o.MaxWorkYears)
	m.HighEffortIncome = dec(p.HighEffortIncome, o.HighEffortIncome)
	m.MediumEffortIncome = dec(p.MediumEffortIncome, o.MediumEffortIncome)
	m.FastShortWindowYears = num(p.FastShortWindowYears, o.FastShortWindowYears)
	m.FastLongWindowYears = num(p.FastLongWindowYears, o.FastLongWindowYears)
	m.FastGapThreshold = dec(p.FastGapThreshold, o.FastGapThreshold)
	m.MaxExtraIncome = dec(p.MaxExtraIncome, o.MaxExtraIncome)
	m.BalancedWorkFraction = dec(p.BalancedWorkFraction, o.BalancedWorkFraction)
	m.BalancedShortWindowYears = num(p.BalancedShortWindowYears, o.BalancedShortWindowYears)
	m.BalancedLongWindowYears = num(p.BalancedLongWindowYears, o.BalancedLongWindowYears)
	m.BalancedResidualThreshold = dec(p.BalancedResidualThreshold, o.BalancedResidualThreshold)
	m.MaxEffortlessYears = num(p.MaxEffortlessYears, o.MaxEffortlessYears)
	m.InvestmentAnnualReturn = dec(p.InvestmentAnnualReturn, o.InvestmentAnnualReturn)
	m.MaxInvestmentMonthly = dec(p.MaxInvestmentMonthly, o.MaxInvestmentMonthly)
	m.HighEffortInvestment = dec(p.HighEffortInvestment, o.HighEffortInvestment)
	m.MediumEffortInvestment = dec(p.MediumEffortInvestment, o.MediumEffortInvestment)
	m.FallbackMinQualifying = num(p.FallbackMinQualifying, o.FallbackMinQualifying)
	m.FallbackGapThreshold = dec(p.FallbackGapThreshold, o.FallbackGapThreshold)
	m.FallbackTargetUplift = dec(p.FallbackTargetUplift, o.FallbackTargetUplift)
	m.FallbackPlanYears = num(p.FallbackPlanYears, o.FallbackPlanYears)
	m.MaxSuggestions = num(p.MaxSuggestions, o.MaxSuggestions)
	return m
}

// EffortForIncome classifies a monthly extra-income amount
func (p AdvisorPolicy) EffortForIncome(monthly decimal.Decimal) EffortTier {
	switch {
	case monthly.GreaterThanOrEqual(p.HighEffortIncome):
		return EffortHigh
	case monthly.GreaterThanOrEqual(p.MediumEffortIncome):
		return EffortMedium
	default:
		return EffortLow
	}
}
