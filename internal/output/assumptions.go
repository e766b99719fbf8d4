package output

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// AssumptionLines lists the key modeling assumptions rendered in detailed outputs
func AssumptionLines(a domain.EconomicAssumptions) []string {
	return []string{
		fmt.Sprintf("Contribution rate: %s of gross salary", FormatRatio(a.ContributionRate)),
		fmt.Sprintf("Wage growth: %s annually", FormatRatio(a.WageGrowthRate)),
		fmt.Sprintf("Inflation: %s annually (real pension discount)", FormatRatio(a.InflationRate)),
		fmt.Sprintf("Retirement age: %d (male), %d (female)", a.RetirementAge.Male, a.RetirementAge.Female),
		fmt.Sprintf("Payout horizon: %s months (male), %s months (female)", a.PayoutMonths.Male.String(), a.PayoutMonths.Female.String()),
		fmt.Sprintf("Scenario uplifts amortized over %s months", a.StandardPayoutMonths.String()),
		fmt.Sprintf("Sick periods accrue contributions at %s", FormatRatio(a.SickLeaveContributionFactor)),
	}
}
