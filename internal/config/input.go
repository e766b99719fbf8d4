package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file. Relative reference
// table paths are resolved against the file's directory.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(filename)
	config.ReferenceData.LifespanFile = resolvePath(dir, config.ReferenceData.LifespanFile)
	config.ReferenceData.IndexationFile = resolvePath(dir, config.ReferenceData.IndexationFile)

	return config, nil
}

// Parse decodes and validates configuration bytes
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateAssumptions(config.Assumptions); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}
	assumptions := config.EffectiveAssumptions()

	if err := ip.ValidateCareer(&config.Career, assumptions); err != nil {
		return fmt.Errorf("career validation failed: %w", err)
	}
	if err := ip.validatePolicy(config.AdvisorPolicy); err != nil {
		return fmt.Errorf("advisor policy validation failed: %w", err)
	}
	if err := ip.validateReferenceData(config.ReferenceData); err != nil {
		return fmt.Errorf("reference data validation failed: %w", err)
	}
	if config.AsOf != nil {
		if config.AsOf.Year < assumptions.MinYear || config.AsOf.Year > assumptions.MaxYear {
			return fmt.Errorf("as_of year must be between %d and %d, got %d", assumptions.MinYear, assumptions.MaxYear, config.AsOf.Year)
		}
		if config.AsOf.Quarter != 0 && !config.AsOf.Quarter.Valid() {
			return fmt.Errorf("as_of quarter is invalid")
		}
	}
	return nil
}

// ValidateCareer enforces the career record bounds before the record reaches the engine
func (ip *InputParser) ValidateCareer(career *domain.CareerRecord, assumptions domain.EconomicAssumptions) error {
	if career.Age < assumptions.MinAge || career.Age > assumptions.MaxAge {
		return fmt.Errorf("age must be between %d and %d, got %d", assumptions.MinAge, assumptions.MaxAge, career.Age)
	}
	sex, err := domain.ParseSex(string(career.Sex))
	if err != nil {
		return fmt.Errorf("sex must be male or female, got %q", career.Sex)
	}
	career.Sex = sex
	if career.GrossSalary.LessThan(assumptions.MinimumGrossSalary) {
		return fmt.Errorf("gross_salary must be at least %s, got %s",
			assumptions.MinimumGrossSalary.StringFixed(2), career.GrossSalary.StringFixed(2))
	}

	for _, y := range []struct {
		field string
		value int
	}{
		{"work_start_year", career.WorkStartYear},
		{"work_end_year", career.WorkEndYear},
	} {
		if y.value < assumptions.MinYear || y.value > assumptions.MaxYear {
			return fmt.Errorf("%s must be between %d and %d, got %d", y.field, assumptions.MinYear, assumptions.MaxYear, y.value)
		}
	}
	if career.WorkEndYear < career.WorkStartYear {
		return fmt.Errorf("work_end_year (%d) cannot be before work_start_year (%d)", career.WorkEndYear, career.WorkStartYear)
	}

	for _, m := range []struct {
		field string
		value *decimal.Decimal
	}{
		{"primary_account", career.PrimaryAccount},
		{"sub_account", career.SubAccount},
		{"prior_system_capital", career.PriorSystemCapital},
		{"external_fund_account", career.ExternalFundAccount},
		{"desired_monthly_pension", career.DesiredMonthlyPension},
	} {
		if m.value != nil && m.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", m.field)
		}
	}

	if career.BirthMonth < 0 || career.BirthMonth > 11 {
		return fmt.Errorf("birth_month must be between 0 and 11, got %d", career.BirthMonth)
	}
	return nil
}

// validateAssumptions checks overrides only. Zero fields fall back to the defaults,
// except rates written explicitly in the file, which may be zero.
func (ip *InputParser) validateAssumptions(a *domain.EconomicAssumptions) error {
	if a == nil {
		return nil
	}
	one := decimal.NewFromInt(1)
	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"contribution_rate", a.ContributionRate},
		{"wage_growth_rate", a.WageGrowthRate},
		{"inflation_rate", a.InflationRate},
		{"sick_leave_contribution_factor", a.SickLeaveContributionFactor},
	}
	for _, r := range rates {
		if r.value.IsNegative() || r.value.GreaterThan(one) {
			return fmt.Errorf("%s must be between 0 and 1, got %s", r.field, r.value.String())
		}
	}

	positives := []struct {
		field string
		value decimal.Decimal
	}{
		{"national_average_benefit", a.NationalAverageBenefit},
		{"payout_months.male", a.PayoutMonths.Male},
		{"payout_months.female", a.PayoutMonths.Female},
		{"standard_payout_months", a.StandardPayoutMonths},
		{"average_sick_days.male", a.AverageSickDays.Male},
		{"average_sick_days.female", a.AverageSickDays.Female},
		{"days_per_month", a.DaysPerMonth},
		{"minimum_gross_salary", a.MinimumGrossSalary},
	}
	for _, p := range positives {
		if p.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", p.field)
		}
	}

	if a.MinAge != 0 && a.MaxAge != 0 && a.MinAge > a.MaxAge {
		return fmt.Errorf("min_age cannot be greater than max_age")
	}
	if a.MinYear != 0 && a.MaxYear != 0 && a.MinYear > a.MaxYear {
		return fmt.Errorf("min_year cannot be greater than max_year")
	}
	return nil
}

func (ip *InputParser) validatePolicy(p *domain.AdvisorPolicy) error {
	if p == nil {
		return nil
	}
	for i, amount := range p.IncomeGrid {
		if !amount.IsPositive() {
			return fmt.Errorf("income_grid[%d] must be positive", i)
		}
	}
	for i, years := range p.DurationGrid {
		if years <= 0 {
			return fmt.Errorf("duration_grid[%d] must be positive", i)
		}
	}
	for i, rate := range p.RaiseRates {
		if !rate.IsPositive() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("raise_rates[%d] must be between 0 and 1", i)
		}
	}
	if p.MaxWorkYears < 0 || p.MaxEffortlessYears < 0 || p.MaxSuggestions < 0 {
		return fmt.Errorf("year and suggestion limits cannot be negative")
	}
	if p.BalancedWorkFraction.IsNegative() || p.InvestmentAnnualReturn.IsNegative() {
		return fmt.Errorf("balanced_work_fraction and investment_annual_return cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateReferenceData(rd domain.ReferenceDataConfig) error {
	switch rd.Delimiter {
	case "", `\t`, "tab":
		return nil
	}
	if utf8.RuneCountInString(rd.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", rd.Delimiter)
	}
	return nil
}

// ResolveAsOf picks the reference date: an explicit override, then the file's
// as_of, then the clock
func ResolveAsOf(override string, config *domain.Configuration, clock func() time.Time) (time.Time, error) {
	if override != "" {
		return ParseAsOf(override)
	}
	if config != nil && config.AsOf != nil {
		return config.AsOf.Time(), nil
	}
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC(), nil
}

// ParseAsOf parses "2025", "2025-Q3", "2025/III" or a full date "2025-07-01"
func ParseAsOf(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	yearPart, quarterPart, hasQuarter := strings.Cut(strings.ReplaceAll(s, "/", "-"), "-")
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of date %q", s)
	}
	if !hasQuarter {
		return domain.AsOf{Year: year}.Time(), nil
	}
	q, ok := domain.ParseQuarter(quarterPart)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid as-of quarter in %q", s)
	}
	return domain.AsOf{Year: year, Quarter: q}.Time(), nil
}
