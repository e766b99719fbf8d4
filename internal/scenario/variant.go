package scenario

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// Baseline is the projection a variant is evaluated against
type Baseline struct {
	Pension      decimal.Decimal  // Current monthly nominal pension
	Salary       decimal.Decimal  // Monthly salary at retirement, used for extra working years
	HorizonYears int              // Remaining working years, used by raise trajectories
	Target       *decimal.Decimal // Optional desired monthly pension

	// Salary today; raise trajectories compound from here. Salary is used when zero.
	CurrentSalary decimal.Decimal
}

func (b Baseline) startingSalary() decimal.Decimal {
	if b.CurrentSalary.IsZero() {
		return b.Salary
	}
	return b.CurrentSalary
}

// Variant is one parameterized "what if" applied to a baseline. The set of variants
// is closed: WorkLonger, ExtraIncome, Raise and Combined.
type Variant interface {
	// Name returns a short identifier for the variant kind (e.g., "work_longer")
	Name() string

	// Description returns a human-readable description including the parameters
	Description() string

	// Validate checks the variant parameters without evaluating it
	Validate(b Baseline) error

	// Apply returns the resulting monthly pension
	Apply(g *Generator, b Baseline) (decimal.Decimal, error)

	kind() domain.ScenarioKind
	annotate(g *Generator, o *domain.ScenarioOutcome)
}

// WorkLonger postpones retirement by Years
type WorkLonger struct {
	Years int
}

func (v *WorkLonger) Name() string { return string(domain.KindWorkLonger) }

func (v *WorkLonger) Description() string {
	if v.Years == 1 {
		return "Work 1 more year"
	}
	return fmt.Sprintf("Work %d more years", v.Years)
}

func (v *WorkLonger) Validate(b Baseline) error {
	if v.Years <= 0 {
		return NewVariantError(v.Name(), "validate", "years must be positive", nil)
	}
	return nil
}

func (v *WorkLonger) Apply(g *Generator, b Baseline) (decimal.Decimal, error) {
	return g.Engine.LaterRetirementBonus(b.Pension, v.Years, b.Salary), nil
}

func (v *WorkLonger) kind() domain.ScenarioKind { return domain.KindWorkLonger }

func (v *WorkLonger) annotate(_ *Generator, o *domain.ScenarioOutcome) {
	o.Years = v.Years
}

// ExtraIncome adds MonthlyAmount of contributable income for DurationYears
type ExtraIncome struct {
	MonthlyAmount decimal.Decimal
	DurationYears int
}

func (v *ExtraIncome) Name() string { return string(domain.KindExtraIncome) }

func (v *ExtraIncome) Description() string {
	return fmt.Sprintf("Earn an extra %s/month for %d years", v.MonthlyAmount.StringFixed(0), v.DurationYears)
}

func (v *ExtraIncome) Validate(b Baseline) error {
	if !v.MonthlyAmount.IsPositive() {
		return NewVariantError(v.Name(), "validate", "monthly amount must be positive", nil)
	}
	if v.DurationYears <= 0 {
		return NewVariantError(v.Name(), "validate", "duration must be positive", nil)
	}
	return nil
}

func (v *ExtraIncome) Apply(g *Generator, b Baseline) (decimal.Decimal, error) {
	return b.Pension.Add(g.Engine.ExtraIncomeUplift(v.MonthlyAmount, v.DurationYears)), nil
}

func (v *ExtraIncome) kind() domain.ScenarioKind { return domain.KindExtraIncome }

func (v *ExtraIncome) annotate(g *Generator, o *domain.ScenarioOutcome) {
	amount := v.MonthlyAmount
	o.MonthlyAmount = &amount
	o.DurationYears = v.DurationYears
	o.EffortTier = g.Policy.EffortForIncome(v.MonthlyAmount)
}

// Raise compounds the salary by AnnualRate each remaining working year
type Raise struct {
	AnnualRate decimal.Decimal
}

func (v *Raise) Name() string { return string(domain.KindRaise) }

func (v *Raise) Description() string {
	return fmt.Sprintf("Annual raise of %s%%", v.AnnualRate.Shift(2).StringFixed(1))
}

func (v *Raise) Validate(b Baseline) error {
	if !v.AnnualRate.IsPositive() || v.AnnualRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return NewVariantError(v.Name(), "validate", "annual rate must be between 0 and 1", nil)
	}
	if b.HorizonYears <= 0 {
		return NewVariantError(v.Name(), "validate", "no remaining working years", nil)
	}
	return nil
}

func (v *Raise) Apply(g *Generator, b Baseline) (decimal.Decimal, error) {
	return b.Pension.Add(g.Engine.RaiseUplift(b.startingSalary(), v.AnnualRate, b.HorizonYears)), nil
}

func (v *Raise) kind() domain.ScenarioKind { return domain.KindRaise }

func (v *Raise) annotate(_ *Generator, o *domain.ScenarioOutcome) {
	rate := v.AnnualRate
	o.AnnualRate = &rate
}

// Combined works longer and earns extra income. The two uplifts are additive.
type Combined struct {
	WorkLonger  WorkLonger
	ExtraIncome ExtraIncome
}

func (v *Combined) Name() string { return string(domain.KindCombined) }

func (v *Combined) Description() string {
	return v.WorkLonger.Description() + " and " + lowerFirst(v.ExtraIncome.Description())
}

func (v *Combined) Validate(b Baseline) error {
	if err := v.WorkLonger.Validate(b); err != nil {
		return NewVariantError(v.Name(), "validate", "work-longer part", err)
	}
	if err := v.ExtraIncome.Validate(b); err != nil {
		return NewVariantError(v.Name(), "validate", "extra-income part", err)
	}
	return nil
}

func (v *Combined) Apply(g *Generator, b Baseline) (decimal.Decimal, error) {
	longer, err := v.WorkLonger.Apply(g, b)
	if err != nil {
		return decimal.Zero, err
	}
	return longer.Add(g.Engine.ExtraIncomeUplift(v.ExtraIncome.MonthlyAmount, v.ExtraIncome.DurationYears)), nil
}

func (v *Combined) kind() domain.ScenarioKind { return domain.KindCombined }

func (v *Combined) annotate(g *Generator, o *domain.ScenarioOutcome) {
	v.WorkLonger.annotate(g, o)
	v.ExtraIncome.annotate(g, o)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

// VariantError represents an error validating or evaluating a variant
type VariantError struct {
	VariantName string
	Operation   string
	Reason      string
	Err         error
}

func (e *VariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("variant %s (%s): %s: %v", e.VariantName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("variant %s (%s): %s", e.VariantName, e.Operation, e.Reason)
}

func (e *VariantError) Unwrap() error {
	return e.Err
}

// NewVariantError creates a new VariantError
func NewVariantError(variantName, operation, reason string, err error) error {
	return &VariantError{
		VariantName: variantName,
		Operation:   operation,
		Reason:      reason,
		Err:         err,
	}
}
