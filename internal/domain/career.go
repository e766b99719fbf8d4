package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sex selects the statutory retirement age, sick-leave average and payout horizon
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex accepts "male"/"female" (and the single-letter forms) case-insensitively
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return SexMale, nil
	case "female", "f":
		return SexFemale, nil
	default:
		return "", fmt.Errorf("unknown sex %q (expected male or female)", s)
	}
}

// Valid reports whether s is one of the known values
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// CareerRecord holds the career facts a projection is computed from.
// It is supplied by the caller and treated as immutable for one projection call.
type CareerRecord struct {
	Age           int             `yaml:"age" json:"age"`
	Sex           Sex             `yaml:"sex" json:"sex"`
	GrossSalary   decimal.Decimal `yaml:"gross_salary" json:"grossSalary"` // Monthly
	WorkStartYear int             `yaml:"work_start_year" json:"workStartYear"`
	WorkEndYear   int             `yaml:"work_end_year" json:"workEndYear"`

	// Optional pre-existing balances
	PrimaryAccount      *decimal.Decimal `yaml:"primary_account,omitempty" json:"primaryAccount,omitempty"`
	SubAccount          *decimal.Decimal `yaml:"sub_account,omitempty" json:"subAccount,omitempty"`
	PriorSystemCapital  *decimal.Decimal `yaml:"prior_system_capital,omitempty" json:"priorSystemCapital,omitempty"`
	ExternalFundAccount *decimal.Decimal `yaml:"external_fund_account,omitempty" json:"externalFundAccount,omitempty"`

	IncludeSickLeave      bool             `yaml:"include_sick_leave" json:"includeSickLeave"`
	DesiredMonthlyPension *decimal.Decimal `yaml:"desired_monthly_pension,omitempty" json:"desiredMonthlyPension,omitempty"`

	// Birth month (0-11) used for life-table lookups; defaults to January
	BirthMonth int `yaml:"birth_month,omitempty" json:"birthMonth,omitempty"`
}

// BirthYear derives the birth year from the age at the given reference year
func (c *CareerRecord) BirthYear(asOfYear int) int {
	return asOfYear - c.Age
}

// ElapsedWorkYears returns the number of working years already completed at asOfYear,
// bounded by the career length
func (c *CareerRecord) ElapsedWorkYears(asOfYear int) int {
	elapsed := asOfYear - c.WorkStartYear
	if elapsed < 0 {
		return 0
	}
	if total := c.WorkEndYear - c.WorkStartYear; elapsed > total {
		if total < 0 {
			return 0
		}
		return total
	}
	return elapsed
}

// RemainingWorkYears returns the number of working years left after asOfYear
func (c *CareerRecord) RemainingWorkYears(asOfYear int) int {
	remaining := c.WorkEndYear - asOfYear
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TotalWorkYears returns the full career length in years
func (c *CareerRecord) TotalWorkYears() int {
	if c.WorkEndYear < c.WorkStartYear {
		return 0
	}
	return c.WorkEndYear - c.WorkStartYear
}

// HasGoal reports whether a desired monthly pension was supplied
func (c *CareerRecord) HasGoal() bool {
	return c.DesiredMonthlyPension != nil && c.DesiredMonthlyPension.GreaterThan(decimal.Zero)
}

// balanceOrZero dereferences an optional balance
func balanceOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// SubAccountBalance returns the sub-account balance, zero when absent
func (c *CareerRecord) SubAccountBalance() decimal.Decimal {
	return balanceOrZero(c.SubAccount)
}

// PriorSystemCapitalBalance returns the prior-system capital, zero when absent
func (c *CareerRecord) PriorSystemCapitalBalance() decimal.Decimal {
	return balanceOrZero(c.PriorSystemCapital)
}
