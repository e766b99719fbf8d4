package advisor

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Advisor searches a bounded strategy space for feasible paths to a pension goal
type Advisor struct {
	Engine *calculation.Engine
	Policy domain.AdvisorPolicy
}

// NewAdvisor creates an advisor with the given policy
func NewAdvisor(engine *calculation.Engine, policy domain.AdvisorPolicy) *Advisor {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	return &Advisor{Engine: engine, Policy: policy}
}

// NewDefaultAdvisor creates an advisor with the default policy
func NewDefaultAdvisor(engine *calculation.Engine) *Advisor {
	return NewAdvisor(engine, domain.DefaultAdvisorPolicy())
}

// ComputeGap quantifies how far current is from target. The gap is never negative.
func ComputeGap(current, target decimal.Decimal) domain.GapAnalysis {
	gap := target.Sub(current)
	if gap.IsNegative() {
		gap = decimal.Zero
	}
	pct := decimal.Zero
	if target.IsPositive() {
		pct = gap.Div(target).Mul(hundred).Round(2)
	}
	return domain.GapAnalysis{
		Current:       current,
		Target:        target,
		Gap:           gap,
		GapPercentage: pct,
		HasGap:        gap.IsPositive(),
		MeetsGoal:     current.GreaterThanOrEqual(target),
	}
}

// SuggestPaths proposes up to Policy.MaxSuggestions strategies, in fixed priority
// order, that close the gap between current and target. Strategies that exceed the
// affordability ceilings are dropped. salary is the monthly salary used for
// work-longer contributions.
func (a *Advisor) SuggestPaths(current, target, salary decimal.Decimal, yearsUntilRetirement int) (domain.AdvisorResult, error) {
	if !target.IsPositive() {
		return domain.AdvisorResult{}, &AdvisorError{
			Operation: "suggest_paths",
			Message:   fmt.Sprintf("target pension must be positive, got %s", target.String()),
		}
	}
	if yearsUntilRetirement < 0 {
		yearsUntilRetirement = 0
	}

	gap := ComputeGap(current, target)
	if gap.MeetsGoal {
		return domain.AdvisorResult{
			NeedsSuggestions: false,
			Message:          "Goal already met: the projected pension reaches the target.",
			Gap:              &gap,
			Suggestions:      []domain.SuggestedPath{},
		}, nil
	}

	in := searchInput{
		current:     current,
		target:      target,
		gap:         gap.Gap,
		salary:      salary,
		yearsToWork: yearsUntilRetirement,
	}

	var paths []domain.SuggestedPath
	for _, strategy := range []func(searchInput) (domain.SuggestedPath, bool){
		a.fastest,
		a.balanced,
		a.effortless,
		a.investment,
	} {
		if p, ok := strategy(in); ok {
			paths = append(paths, p)
		}
	}

	if len(paths) < a.Policy.FallbackMinQualifying && gap.Gap.GreaterThan(a.Policy.FallbackGapThreshold) {
		if p, ok := a.realistic(in); ok {
			paths = append(paths, p)
		}
	}

	if limit := a.Policy.MaxSuggestions; limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	if paths == nil {
		paths = []domain.SuggestedPath{}
	}

	a.Engine.Logger.Debugf("advisor: gap %s, %d feasible strategies", gap.Gap.StringFixed(2), len(paths))

	return domain.AdvisorResult{
		NeedsSuggestions: true,
		Message:          summaryMessage(gap, len(paths)),
		Gap:              &gap,
		Suggestions:      paths,
	}, nil
}

func summaryMessage(gap domain.GapAnalysis, n int) string {
	switch n {
	case 0:
		return fmt.Sprintf("No strategy closes the gap of %s/month within the affordability limits; consider revising the target.",
			gap.Gap.StringFixed(2))
	case 1:
		return fmt.Sprintf("Found 1 way to close the gap of %s/month.", gap.Gap.StringFixed(2))
	default:
		return fmt.Sprintf("Found %d ways to close the gap of %s/month.", n, gap.Gap.StringFixed(2))
	}
}

// AdvisorError reports invalid advisor input
type AdvisorError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *AdvisorError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *AdvisorError) Unwrap() error {
	return e.Cause
}

// SuggestPaths runs the default advisor
func SuggestPaths(current, target, salary decimal.Decimal, yearsUntilRetirement int) (domain.AdvisorResult, error) {
	return NewDefaultAdvisor(nil).SuggestPaths(current, target, salary, yearsUntilRetirement)
}
