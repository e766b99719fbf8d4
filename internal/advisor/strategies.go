package advisor

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// compoundPrecision bounds the digits carried while compounding monthly returns
const compoundPrecision = 18

type searchInput struct {
	current     decimal.Decimal
	target      decimal.Decimal
	gap         decimal.Decimal
	salary      decimal.Decimal
	yearsToWork int
}

// Fixed pros and cons per strategy
var (
	strategyPros = map[domain.StrategyTag][]string{
		domain.StrategyFastest: {
			"Closes the gap in the shortest time",
			"Retirement date stays unchanged",
		},
		domain.StrategyBalanced: {
			"Spreads the effort between working longer and extra income",
			"Lower monthly commitment than the fastest path",
		},
		domain.StrategyEffortless: {
			"No additional income required",
			"Longer career also shortens the payout period",
		},
		domain.StrategyInvestment: {
			"Compounding does much of the work",
			"Flexible contributions that can be paused",
		},
		domain.StrategyRealistic: {
			"Achievable with a moderate commitment",
			"Leaves room to raise the target later",
		},
	}
	strategyCons = map[domain.StrategyTag][]string{
		domain.StrategyFastest: {
			"Requires a significant additional monthly income",
			"Demanding workload over the window",
		},
		domain.StrategyBalanced: {
			"Delays retirement",
			"Still requires some additional income",
		},
		domain.StrategyEffortless: {
			"Delays retirement by several years",
			"Depends on staying employed",
		},
		domain.StrategyInvestment: {
			"Returns are not guaranteed",
			"Requires discipline over the whole horizon",
		},
		domain.StrategyRealistic: {
			"Does not reach the original target",
		},
	}
)

func newPath(tag domain.StrategyTag, title, description string, effort domain.EffortTier, years int, details map[string]decimal.Decimal) domain.SuggestedPath {
	return domain.SuggestedPath{
		ID:             string(tag),
		Strategy:       tag,
		Title:          title,
		Description:    description,
		EffortTier:     effort,
		TimeframeYears: years,
		Details:        details,
		Pros:           append([]string(nil), strategyPros[tag]...),
		Cons:           append([]string(nil), strategyCons[tag]...),
	}
}

// requiredIncome is the extra monthly income whose contributions over years,
// spread over the standard horizon, add gap to the monthly pension. Rounded up to
// whole currency units.
func (a *Advisor) requiredIncome(gap decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return decimal.Zero
	}
	perUnit := twelve.Mul(decimal.NewFromInt(int64(years))).Mul(a.Engine.ContributionRate())
	if !perUnit.IsPositive() {
		return decimal.Zero
	}
	return gap.Mul(a.Engine.Assumptions.StandardPayoutMonths).Div(perUnit).Ceil()
}

func (a *Advisor) affordable(income decimal.Decimal) bool {
	return income.IsPositive() && income.LessThanOrEqual(a.Policy.MaxExtraIncome)
}

// fastest closes the whole gap with extra income over a short window
func (a *Advisor) fastest(in searchInput) (domain.SuggestedPath, bool) {
	window := a.Policy.FastShortWindowYears
	if in.gap.GreaterThan(a.Policy.FastGapThreshold) {
		window = a.Policy.FastLongWindowYears
	}
	income := a.requiredIncome(in.gap, window)
	if !a.affordable(income) {
		return domain.SuggestedPath{}, false
	}

	return newPath(domain.StrategyFastest,
		fmt.Sprintf("Extra income for %d years", window),
		fmt.Sprintf("Earn an extra %s/month for %d years to add %s/month to your pension.",
			income.StringFixed(0), window, in.gap.StringFixed(2)),
		a.Policy.EffortForIncome(income),
		window,
		map[string]decimal.Decimal{
			"monthlyIncome":  income,
			"years":          decimal.NewFromInt(int64(window)),
			"gap":            in.gap,
			"targetPension":  in.target,
			"currentPension": in.current,
		},
	), true
}

// balanced works a fraction longer and sizes an extra-income plan for what remains
func (a *Advisor) balanced(in searchInput) (domain.SuggestedPath, bool) {
	extraYears := int(a.Policy.BalancedWorkFraction.Mul(decimal.NewFromInt(int64(in.yearsToWork))).Ceil().IntPart())
	if extraYears < 1 {
		extraYears = 1
	}
	withBonus := a.Engine.LaterRetirementBonus(in.current, extraYears, in.salary)
	residual := in.target.Sub(withBonus)

	if !residual.IsPositive() {
		return newPath(domain.StrategyBalanced,
			fmt.Sprintf("Work %d more years", extraYears),
			fmt.Sprintf("Working %d more years raises your pension to %s/month, which reaches the target on its own.",
				extraYears, withBonus.StringFixed(2)),
			domain.EffortLow,
			extraYears,
			map[string]decimal.Decimal{
				"extraWorkYears":   decimal.NewFromInt(int64(extraYears)),
				"pensionAfterWork": withBonus,
				"residualGap":      decimal.Zero,
				"monthlyIncome":    decimal.Zero,
			},
		), true
	}

	window := a.Policy.BalancedShortWindowYears
	if residual.GreaterThan(a.Policy.BalancedResidualThreshold) {
		window = a.Policy.BalancedLongWindowYears
	}
	income := a.requiredIncome(residual, window)
	if !a.affordable(income) {
		return domain.SuggestedPath{}, false
	}

	timeframe := window
	if extraYears > timeframe {
		timeframe = extraYears
	}
	return newPath(domain.StrategyBalanced,
		fmt.Sprintf("Work %d more years plus extra income", extraYears),
		fmt.Sprintf("Work %d more years and earn an extra %s/month for %d years to cover the remaining %s/month.",
			extraYears, income.StringFixed(0), window, residual.StringFixed(2)),
		a.Policy.EffortForIncome(income),
		timeframe,
		map[string]decimal.Decimal{
			"extraWorkYears":   decimal.NewFromInt(int64(extraYears)),
			"pensionAfterWork": withBonus,
			"residualGap":      residual,
			"monthlyIncome":    income,
			"incomeYears":      decimal.NewFromInt(int64(window)),
		},
	), true
}

// effortless closes the gap only by working longer
func (a *Advisor) effortless(in searchInput) (domain.SuggestedPath, bool) {
	years := a.Engine.YearsNeededForGoal(in.current, in.target, in.salary)
	if years <= 0 || years > a.Policy.MaxEffortlessYears {
		return domain.SuggestedPath{}, false
	}

	return newPath(domain.StrategyEffortless,
		fmt.Sprintf("Work %d more years", years),
		fmt.Sprintf("Postpone retirement by %d years; the extra contributions close the gap of %s/month.",
			years, in.gap.StringFixed(2)),
		domain.EffortLow,
		years,
		map[string]decimal.Decimal{
			"extraWorkYears": decimal.NewFromInt(int64(years)),
			"gap":            in.gap,
		},
	), true
}

// investment sizes a monthly contribution to a compounding vehicle whose value at
// retirement funds the gap over the standard horizon (annuity future-value inversion)
func (a *Advisor) investment(in searchInput) (domain.SuggestedPath, bool) {
	months := in.yearsToWork * 12
	if months <= 0 {
		return domain.SuggestedPath{}, false
	}
	targetCapital := in.gap.Mul(a.Engine.Assumptions.StandardPayoutMonths)
	payment := monthlyPaymentForFutureValue(targetCapital, a.Policy.InvestmentAnnualReturn, months)
	if !payment.IsPositive() || payment.GreaterThan(a.Policy.MaxInvestmentMonthly) {
		return domain.SuggestedPath{}, false
	}

	effort := domain.EffortLow
	switch {
	case payment.GreaterThanOrEqual(a.Policy.HighEffortInvestment):
		effort = domain.EffortHigh
	case payment.GreaterThanOrEqual(a.Policy.MediumEffortInvestment):
		effort = domain.EffortMedium
	}

	return newPath(domain.StrategyInvestment,
		"Tax-advantaged investment plan",
		fmt.Sprintf("Invest %s/month until retirement (%d years at an assumed %s%% a year) to build %s of extra capital.",
			payment.StringFixed(2), in.yearsToWork, a.Policy.InvestmentAnnualReturn.Shift(2).StringFixed(1), targetCapital.StringFixed(0)),
		effort,
		in.yearsToWork,
		map[string]decimal.Decimal{
			"monthlyContribution": payment,
			"years":               decimal.NewFromInt(int64(in.yearsToWork)),
			"targetCapital":       targetCapital,
			"annualReturn":        a.Policy.InvestmentAnnualReturn,
		},
	), true
}

// realistic proposes a reduced target reachable with a fixed-length income plan
func (a *Advisor) realistic(in searchInput) (domain.SuggestedPath, bool) {
	reduced := in.current.Mul(one.Add(a.Policy.FallbackTargetUplift)).Round(2)
	if reduced.GreaterThanOrEqual(in.target) {
		return domain.SuggestedPath{}, false
	}
	income := a.requiredIncome(reduced.Sub(in.current), a.Policy.FallbackPlanYears)
	if !a.affordable(income) {
		return domain.SuggestedPath{}, false
	}

	return newPath(domain.StrategyRealistic,
		fmt.Sprintf("Aim for %s/month instead", reduced.StringFixed(0)),
		fmt.Sprintf("The full target is out of reach within the limits. Earning an extra %s/month for %d years lifts your pension to %s/month.",
			income.StringFixed(0), a.Policy.FallbackPlanYears, reduced.StringFixed(2)),
		a.Policy.EffortForIncome(income),
		a.Policy.FallbackPlanYears,
		map[string]decimal.Decimal{
			"reducedTarget":  reduced,
			"originalTarget": in.target,
			"monthlyIncome":  income,
			"years":          decimal.NewFromInt(int64(a.Policy.FallbackPlanYears)),
		},
	), true
}

// monthlyPaymentForFutureValue solves FV = P * ((1+r)^n - 1) / r for P, with r the
// monthly rate. A zero return degenerates to FV / n.
func monthlyPaymentForFutureValue(fv, annualReturn decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	r := annualReturn.Div(twelve)
	if r.IsZero() {
		return fv.Div(decimal.NewFromInt(int64(months))).Round(2)
	}
	growth := one
	factor := one.Add(r)
	for i := 0; i < months; i++ {
		growth = growth.Mul(factor).Round(compoundPrecision)
	}
	return fv.Mul(r).Div(growth.Sub(one)).Round(2)
}
