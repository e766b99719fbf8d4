package calculation

import (
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/shopspring/decimal"
)

// ErrUnknownSex is returned when no sex-dependent parameter can be chosen
var ErrUnknownSex = errors.New("unknown sex")

// Logger is the minimal logging interface used by the engine
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards all log output
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// Engine projects retirement benefits from a career record. It holds no mutable
// state beyond its configuration and is safe for concurrent use.
type Engine struct {
	Assumptions domain.EconomicAssumptions
	Logger      Logger
}

// NewEngine creates an engine with the built-in economic assumptions
func NewEngine() *Engine {
	return NewEngineWithAssumptions(domain.DefaultEconomicAssumptions())
}

// NewEngineWithAssumptions creates an engine with the given economic assumptions
func NewEngineWithAssumptions(assumptions domain.EconomicAssumptions) *Engine {
	return &Engine{
		Assumptions: assumptions,
		Logger:      NopLogger{},
	}
}

// SetLogger replaces the engine logger; nil installs a no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Project runs the full simulation for one career record at the reference date asOf.
// ref may be nil; it only feeds the informational valorization and life-table fields.
func (e *Engine) Project(career *domain.CareerRecord, ref *refdata.ReferenceData, asOf time.Time) (*domain.BenefitReport, error) {
	if career == nil {
		return nil, fmt.Errorf("career record is required")
	}

	asOfYear := asOf.Year()
	retirementAge, ok := e.Assumptions.RetirementAge.For(career.Sex)
	if !ok {
		return nil, fmt.Errorf("cannot determine retirement age: %w %q", ErrUnknownSex, career.Sex)
	}
	payoutMonths, err := e.payoutMonths(career.Sex)
	if err != nil {
		return nil, err
	}

	birthYear := career.BirthYear(asOfYear)
	retirementYear := birthYear + retirementAge
	yearsUntil := retirementYear - asOfYear
	if yearsUntil < 0 {
		yearsUntil = 0
	}

	capital := e.AccumulateCapital(career, asOfYear)
	nominal := capital.Total.Div(payoutMonths).Round(2)
	finalSalary := e.ProjectedSalary(career.GrossSalary, yearsUntil)

	e.Logger.Debugf("capital: historical=%s forward=%s sub=%s total=%s",
		capital.Historical.StringFixed(2), capital.Forward.StringFixed(2), capital.Sub.StringFixed(2), capital.Total.StringFixed(2))

	report := &domain.BenefitReport{
		AsOfYear:               asOfYear,
		BirthYear:              birthYear,
		RetirementYear:         retirementYear,
		YearsUntilRetirement:   yearsUntil,
		TotalCapital:           capital.Total.Round(2),
		PayoutMonths:           payoutMonths,
		NominalMonthlyPension:  nominal,
		RealMonthlyPension:     ProjectRealPension(nominal, retirementYear, asOfYear, e.Assumptions.InflationRate),
		ProjectedFinalSalary:   finalSalary.Round(2),
		ReplacementRate:        ReplacementRate(nominal, finalSalary),
		NationalAverageBenefit: e.Assumptions.NationalAverageBenefit,
		LaterRetirement: domain.LaterRetirementScenarios{
			PlusOneYear:   e.LaterRetirementBonus(nominal, 1, finalSalary),
			PlusTwoYears:  e.LaterRetirementBonus(nominal, 2, finalSalary),
			PlusFiveYears: e.LaterRetirementBonus(nominal, 5, finalSalary),
		},
	}

	if career.IncludeSickLeave {
		impact, err := e.SickLeaveImpact(career.TotalWorkYears(), career.Sex, career.GrossSalary)
		if err != nil {
			return nil, err
		}
		report.SickLeaveImpact = impact
	}

	if career.HasGoal() {
		target := *career.DesiredMonthlyPension
		years := e.YearsNeededForGoal(nominal, target, finalSalary)
		report.DesiredMonthlyPension = &target
		report.YearsNeededForGoal = &years
	}

	if ref != nil {
		e.attachReferenceData(report, career, ref, asOf, retirementAge)
	}

	e.Logger.Infof("projected nominal pension %s (real %s) for retirement in %d",
		report.NominalMonthlyPension.StringFixed(2), report.RealMonthlyPension.StringFixed(2), retirementYear)
	return report, nil
}

// attachReferenceData fills the informational fields derived from the reference tables
func (e *Engine) attachReferenceData(report *domain.BenefitReport, career *domain.CareerRecord, ref *refdata.ReferenceData, asOf time.Time, retirementAge int) {
	if ref.Lifespan.Len() > 0 {
		months := ref.RemainingLifeMonths(retirementAge, career.BirthMonth)
		report.TableLifeExpectancyMonths = &months
	}

	if career.PrimaryAccount == nil && career.SubAccount == nil {
		return
	}
	determination := domain.YearQuarterOf(asOf)
	v := ref.Valorize(balanceOrZero(career.PrimaryAccount), career.SubAccountBalance(), determination)
	if !v.Found {
		e.Logger.Warnf("no indexation entry for %s (determination %s); capital left unchanged",
			v.Indexation, determination)
	}
	report.Valorization = &v
}

// payoutMonths returns the sex-dependent post-retirement horizon
func (e *Engine) payoutMonths(sex domain.Sex) (decimal.Decimal, error) {
	months, ok := e.Assumptions.PayoutMonths.For(sex)
	if !ok {
		return decimal.Zero, fmt.Errorf("cannot determine payout horizon: %w %q", ErrUnknownSex, sex)
	}
	return months, nil
}

func balanceOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
