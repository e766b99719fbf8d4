package domain

import (
	"github.com/shopspring/decimal"
)

// SickLeaveImpact is the benefit reduction attributed to average sick leave.
// Sick periods accrue contributions at a reduced factor; the shortfall is expressed
// as a single monthly benefit reduction.
type SickLeaveImpact struct {
	TotalSickDays    decimal.Decimal `yaml:"total_sick_days" json:"totalSickDays"`
	BenefitReduction decimal.Decimal `yaml:"benefit_reduction" json:"benefitReduction"`
}

// LaterRetirementScenarios holds the benefit when retiring 1, 2 or 5 years later
type LaterRetirementScenarios struct {
	PlusOneYear   decimal.Decimal `yaml:"plus_one_year" json:"plusOneYear"`
	PlusTwoYears  decimal.Decimal `yaml:"plus_two_years" json:"plusTwoYears"`
	PlusFiveYears decimal.Decimal `yaml:"plus_five_years" json:"plusFiveYears"`
}

// Valorization describes one capital valorization against the indexation series.
// Found is false when the series had no entry for the mapped quarter; in that case
// the "after" balances equal the "before" balances.
type Valorization struct {
	Determination YearQuarter     `yaml:"determination" json:"determination"`
	Indexation    YearQuarter     `yaml:"indexation" json:"indexation"`
	Found         bool            `yaml:"found" json:"found"`
	PrimaryFactor decimal.Decimal `yaml:"primary_factor" json:"primaryFactor"`
	SubFactor     decimal.Decimal `yaml:"sub_factor" json:"subFactor"`
	PrimaryBefore decimal.Decimal `yaml:"primary_before" json:"primaryBefore"`
	PrimaryAfter  decimal.Decimal `yaml:"primary_after" json:"primaryAfter"`
	SubBefore     decimal.Decimal `yaml:"sub_before" json:"subBefore"`
	SubAfter      decimal.Decimal `yaml:"sub_after" json:"subAfter"`
}

// BenefitReport is the result of one full projection
type BenefitReport struct {
	AsOfYear             int `yaml:"as_of_year" json:"asOfYear"`
	BirthYear            int `yaml:"birth_year" json:"birthYear"`
	RetirementYear       int `yaml:"retirement_year" json:"retirementYear"`
	YearsUntilRetirement int `yaml:"years_until_retirement" json:"yearsUntilRetirement"`

	TotalCapital           decimal.Decimal `yaml:"total_capital" json:"totalCapital"`
	PayoutMonths           decimal.Decimal `yaml:"payout_months" json:"payoutMonths"`
	NominalMonthlyPension  decimal.Decimal `yaml:"nominal_monthly_pension" json:"nominalMonthlyPension"`
	RealMonthlyPension     decimal.Decimal `yaml:"real_monthly_pension" json:"realMonthlyPension"`
	ProjectedFinalSalary   decimal.Decimal `yaml:"projected_final_salary" json:"projectedFinalSalary"`
	ReplacementRate        decimal.Decimal `yaml:"replacement_rate" json:"replacementRate"`
	NationalAverageBenefit decimal.Decimal `yaml:"national_average_benefit" json:"nationalAverageBenefit"`

	SickLeaveImpact *SickLeaveImpact         `yaml:"sick_leave_impact,omitempty" json:"sickLeaveImpact,omitempty"`
	LaterRetirement LaterRetirementScenarios `yaml:"later_retirement" json:"laterRetirement"`

	DesiredMonthlyPension *decimal.Decimal `yaml:"desired_monthly_pension,omitempty" json:"desiredMonthlyPension,omitempty"`
	YearsNeededForGoal    *int             `yaml:"years_needed_for_goal,omitempty" json:"yearsNeededForGoal,omitempty"`

	// Informational only; the nominal formula does not consume these
	Valorization              *Valorization    `yaml:"valorization,omitempty" json:"valorization,omitempty"`
	TableLifeExpectancyMonths *decimal.Decimal `yaml:"table_life_expectancy_months,omitempty" json:"tableLifeExpectancyMonths,omitempty"`
}

// IsFutureRetirement reports whether retirement lies after the reference year
func (r *BenefitReport) IsFutureRetirement() bool {
	return r.YearsUntilRetirement > 0
}

// MeetsGoal reports whether the nominal benefit reaches the desired pension
func (r *BenefitReport) MeetsGoal() bool {
	if r.DesiredMonthlyPension == nil {
		return true
	}
	return r.NominalMonthlyPension.GreaterThanOrEqual(*r.DesiredMonthlyPension)
}
