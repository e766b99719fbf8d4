package calculation

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one          = decimal.NewFromInt(1)
	monthsInYear = decimal.NewFromInt(12)
)

// CapitalBreakdown shows how the accumulated capital was derived
type CapitalBreakdown struct {
	Historical decimal.Decimal `json:"historical"` // Supplied primary balance or backward estimate
	Forward    decimal.Decimal `json:"forward"`
	Sub        decimal.Decimal `json:"sub"`
	Total      decimal.Decimal `json:"total"`
}

// AccumulateCapital sums the primary-account estimate, the forward projection of
// remaining contributions and the sub-account balance.
func (e *Engine) AccumulateCapital(career *domain.CareerRecord, asOfYear int) CapitalBreakdown {
	var b CapitalBreakdown

	if career.PrimaryAccount != nil {
		b.Historical = *career.PrimaryAccount
	} else {
		b.Historical = e.historicalContributions(career.GrossSalary, career.ElapsedWorkYears(asOfYear))
	}

	if career.WorkEndYear > asOfYear {
		b.Forward = e.forwardContributions(career.GrossSalary, career.RemainingWorkYears(asOfYear))
	}

	b.Sub = career.SubAccountBalance()
	b.Total = b.Historical.Add(b.Forward).Add(b.Sub)
	return b
}

// ProjectNominalPension converts the accumulated capital into a flat monthly
// benefit over the sex-dependent payout horizon, rounded to cents
func (e *Engine) ProjectNominalPension(career *domain.CareerRecord, asOfYear int) (decimal.Decimal, error) {
	months, err := e.payoutMonths(career.Sex)
	if err != nil {
		return decimal.Zero, err
	}
	return e.AccumulateCapital(career, asOfYear).Total.Div(months).Round(2), nil
}

// annualContribution is one year of contributions at the given monthly salary
func (e *Engine) annualContribution(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(monthsInYear).Mul(e.Assumptions.ContributionRate)
}

// historicalContributions estimates past accumulation by discounting the current
// salary backward one year at a time
func (e *Engine) historicalContributions(salary decimal.Decimal, elapsedYears int) decimal.Decimal {
	growth := one.Add(e.Assumptions.WageGrowthRate)
	total := decimal.Zero
	for i := 1; i <= elapsedYears; i++ {
		past := salary.Div(growth.Pow(decimal.NewFromInt(int64(i))))
		total = total.Add(e.annualContribution(past))
	}
	return total
}

// forwardContributions projects contributions for the remaining working years
func (e *Engine) forwardContributions(salary decimal.Decimal, remainingYears int) decimal.Decimal {
	growth := one.Add(e.Assumptions.WageGrowthRate)
	total := decimal.Zero
	for i := 1; i <= remainingYears; i++ {
		future := salary.Mul(growth.Pow(decimal.NewFromInt(int64(i))))
		total = total.Add(e.annualContribution(future))
	}
	return total
}

// ProjectedSalary grows a monthly salary by the wage-growth rate for n years
func (e *Engine) ProjectedSalary(salary decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return salary
	}
	return salary.Mul(one.Add(e.Assumptions.WageGrowthRate).Pow(decimal.NewFromInt(int64(years))))
}

// ProjectRealPension discounts a nominal benefit to today's money. A retirement
// year that is not in the future returns the nominal value unchanged.
func ProjectRealPension(nominal decimal.Decimal, retirementYear, asOfYear int, inflationRate decimal.Decimal) decimal.Decimal {
	years := retirementYear - asOfYear
	if years <= 0 {
		return nominal
	}
	discount := one.Add(inflationRate).Pow(decimal.NewFromInt(int64(years)))
	return nominal.Div(discount).Round(2)
}

// ReplacementRate is pension / final salary, rounded to three decimals; zero when
// the final salary is zero
func ReplacementRate(pension, finalSalary decimal.Decimal) decimal.Decimal {
	if finalSalary.IsZero() {
		return decimal.Zero
	}
	return pension.Div(finalSalary).Round(3)
}

// SickLeaveImpact estimates the monthly benefit lost to average sick leave over
// yearsWorked. Sick days accrue contributions at a reduced factor; the shortfall in
// daily salary is taken at the contribution rate and spread over the payout horizon.
func (e *Engine) SickLeaveImpact(yearsWorked int, sex domain.Sex, grossSalary decimal.Decimal) (*domain.SickLeaveImpact, error) {
	days, ok := e.Assumptions.AverageSickDays.For(sex)
	if !ok {
		return nil, fmt.Errorf("cannot determine sick days: %w %q", ErrUnknownSex, sex)
	}
	months, err := e.payoutMonths(sex)
	if err != nil {
		return nil, err
	}
	if yearsWorked < 0 {
		yearsWorked = 0
	}

	totalDays := days.Mul(decimal.NewFromInt(int64(yearsWorked)))
	dailySalary := grossSalary.Div(e.Assumptions.DaysPerMonth)
	shortfall := one.Sub(e.Assumptions.SickLeaveContributionFactor)
	lostContribution := totalDays.Mul(dailySalary).Mul(shortfall).Mul(e.Assumptions.ContributionRate)

	return &domain.SickLeaveImpact{
		TotalSickDays:    totalDays,
		BenefitReduction: lostContribution.Div(months).Round(2),
	}, nil
}

// LaterRetirementBonus returns the benefit when retiring extraYears later: the base
// benefit plus the extra years' contributions over the standard horizon plus the
// uplift from a shorter payout period.
func (e *Engine) LaterRetirementBonus(basePension decimal.Decimal, extraYears int, finalSalary decimal.Decimal) decimal.Decimal {
	if extraYears <= 0 {
		return basePension
	}
	years := decimal.NewFromInt(int64(extraYears))
	horizon := e.Assumptions.StandardPayoutMonths

	contributions := years.Mul(e.annualContribution(finalSalary)).Div(horizon)
	shorterPayout := basePension.Mul(years.Div(horizon)).Mul(monthsInYear)

	return basePension.Add(contributions).Add(shorterPayout).Round(2)
}

// YearsNeededForGoal returns how many extra working years at finalSalary fund the
// difference between current and target over the standard horizon, rounded up.
// Zero when the goal is already met.
func (e *Engine) YearsNeededForGoal(current, target, finalSalary decimal.Decimal) int {
	if current.GreaterThanOrEqual(target) {
		return 0
	}
	perYear := e.annualContribution(finalSalary)
	if !perYear.IsPositive() {
		return 0
	}
	deficit := target.Sub(current).Mul(e.Assumptions.StandardPayoutMonths)
	return int(deficit.Div(perYear).Ceil().IntPart())
}

// ExtraIncomeUplift is the monthly benefit added by monthlyAmount of extra
// contributable income over durationYears, spread over the standard horizon
func (e *Engine) ExtraIncomeUplift(monthlyAmount decimal.Decimal, durationYears int) decimal.Decimal {
	if durationYears <= 0 {
		return decimal.Zero
	}
	years := decimal.NewFromInt(int64(durationYears))
	return e.annualContribution(monthlyAmount).Mul(years).Div(e.Assumptions.StandardPayoutMonths).Round(2)
}

// RaiseUplift is the monthly benefit added when the salary rises by annualRate each
// year over the horizon instead of staying flat
func (e *Engine) RaiseUplift(salary, annualRate decimal.Decimal, horizonYears int) decimal.Decimal {
	if horizonYears <= 0 {
		return decimal.Zero
	}
	growth := one.Add(annualRate)
	raised := decimal.Zero
	current := salary
	for i := 1; i <= horizonYears; i++ {
		current = current.Mul(growth)
		raised = raised.Add(e.annualContribution(current))
	}
	flat := e.annualContribution(salary).Mul(decimal.NewFromInt(int64(horizonYears)))
	return raised.Sub(flat).Div(e.Assumptions.StandardPayoutMonths).Round(2)
}

// ContributionRate exposes the configured contribution rate
func (e *Engine) ContributionRate() decimal.Decimal {
	return e.Assumptions.ContributionRate
}
