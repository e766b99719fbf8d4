package scenario

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Generator enumerates and scores scenario variants. Enumeration is pure; the
// generator holds only configuration.
type Generator struct {
	Engine *calculation.Engine
	Policy domain.AdvisorPolicy
}

// NewGenerator creates a generator with the default advisor policy
func NewGenerator(engine *calculation.Engine) *Generator {
	return NewGeneratorWithPolicy(engine, domain.DefaultAdvisorPolicy())
}

// NewGeneratorWithPolicy creates a generator with the given grids and thresholds
func NewGeneratorWithPolicy(engine *calculation.Engine, policy domain.AdvisorPolicy) *Generator {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	return &Generator{Engine: engine, Policy: policy}
}

// Evaluate validates and applies one variant, producing its scored outcome
func (g *Generator) Evaluate(v Variant, b Baseline) (domain.ScenarioOutcome, error) {
	if v == nil {
		return domain.ScenarioOutcome{}, fmt.Errorf("variant cannot be nil")
	}
	if err := v.Validate(b); err != nil {
		return domain.ScenarioOutcome{}, fmt.Errorf("variant %s validation failed: %w", v.Name(), err)
	}

	pension, err := v.Apply(g, b)
	if err != nil {
		return domain.ScenarioOutcome{}, fmt.Errorf("variant %s failed: %w", v.Name(), err)
	}

	o := domain.ScenarioOutcome{
		Kind:               v.kind(),
		Name:               v.Name(),
		Description:        v.Description(),
		ResultingPension:   pension,
		AbsoluteIncrease:   pension.Sub(b.Pension),
		PercentageIncrease: percentageIncrease(b.Pension, pension),
		MeetsGoal:          b.Target != nil && pension.GreaterThanOrEqual(*b.Target),
	}
	v.annotate(g, &o)
	return o, nil
}

// EvaluateAll evaluates variants in order, stopping at the first error
func (g *Generator) EvaluateAll(variants []Variant, b Baseline) ([]domain.ScenarioOutcome, error) {
	out := make([]domain.ScenarioOutcome, 0, len(variants))
	for i, v := range variants {
		o, err := g.Evaluate(v, b)
		if err != nil {
			return nil, fmt.Errorf("variant at index %d: %w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// WorkLonger enumerates working 1..MaxWorkYears additional years
func (g *Generator) WorkLonger(b Baseline) []domain.ScenarioOutcome {
	out := make([]domain.ScenarioOutcome, 0, g.Policy.MaxWorkYears)
	for years := 1; years <= g.Policy.MaxWorkYears; years++ {
		out = g.appendOutcome(out, &WorkLonger{Years: years}, b)
	}
	return out
}

// ExtraIncome enumerates the income grid crossed with the duration grid, sorted by
// percentage increase (highest first). Ties keep grid order.
func (g *Generator) ExtraIncome(b Baseline) []domain.ScenarioOutcome {
	out := make([]domain.ScenarioOutcome, 0, len(g.Policy.IncomeGrid)*len(g.Policy.DurationGrid))
	for _, amount := range g.Policy.IncomeGrid {
		for _, years := range g.Policy.DurationGrid {
			out = g.appendOutcome(out, &ExtraIncome{MonthlyAmount: amount, DurationYears: years}, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PercentageIncrease.GreaterThan(out[j].PercentageIncrease)
	})
	return out
}

// Raises enumerates the configured annual raise rates over the remaining horizon
func (g *Generator) Raises(b Baseline) []domain.ScenarioOutcome {
	out := make([]domain.ScenarioOutcome, 0, len(g.Policy.RaiseRates))
	for _, rate := range g.Policy.RaiseRates {
		out = g.appendOutcome(out, &Raise{AnnualRate: rate}, b)
	}
	return out
}

// appendOutcome evaluates v and appends it; variants that fail validation for this
// baseline (e.g. raises with no remaining years) are left out of the enumeration
func (g *Generator) appendOutcome(out []domain.ScenarioOutcome, v Variant, b Baseline) []domain.ScenarioOutcome {
	o, err := g.Evaluate(v, b)
	if err != nil {
		g.Engine.Logger.Debugf("skipping %s: %v", v.Description(), err)
		return out
	}
	return append(out, o)
}

// GenerateWorkLongerScenarios scores working 1..10 more years against pension
func GenerateWorkLongerScenarios(engine *calculation.Engine, pension, salary decimal.Decimal, target *decimal.Decimal) []domain.ScenarioOutcome {
	return NewGenerator(engine).WorkLonger(Baseline{Pension: pension, Salary: salary, Target: target})
}

// GenerateExtraIncomeScenarios scores the default income and duration grids against pension
func GenerateExtraIncomeScenarios(engine *calculation.Engine, pension, salary decimal.Decimal, target *decimal.Decimal) []domain.ScenarioOutcome {
	return NewGenerator(engine).ExtraIncome(Baseline{Pension: pension, Salary: salary, Target: target})
}

// GenerateRaiseScenarios scores the default raise rates over horizonYears
func GenerateRaiseScenarios(engine *calculation.Engine, pension, salary decimal.Decimal, horizonYears int, target *decimal.Decimal) []domain.ScenarioOutcome {
	return NewGenerator(engine).Raises(Baseline{Pension: pension, Salary: salary, HorizonYears: horizonYears, Target: target})
}

// percentageIncrease is (after-before)/before*100 rounded to two decimals; zero
// when before is zero
func percentageIncrease(before, after decimal.Decimal) decimal.Decimal {
	if before.IsZero() {
		return decimal.Zero
	}
	return after.Sub(before).Div(before).Mul(hundred).Round(2)
}
