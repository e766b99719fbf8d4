// Package plan composes the projection, scenario and advisor stages into one
// decision-support report.
package plan

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/pengo/internal/advisor"
	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/scenario"
)

// Options controls one Build call
type Options struct {
	AsOf  time.Time
	Now   func() time.Time // Clock for GeneratedAt; time.Now when nil
	NewID func() string    // Run ID source; random UUIDs when nil

	// Extra named or spec'd variants evaluated in addition to the grids
	With []scenario.Variant
}

// Planner wires the engine, scenario generator and advisor for one configuration
type Planner struct {
	Engine    *calculation.Engine
	Generator *scenario.Generator
	Advisor   *advisor.Advisor
}

// NewPlanner builds a planner from an input configuration
func NewPlanner(config *domain.Configuration, logger calculation.Logger) *Planner {
	engine := calculation.NewEngineWithAssumptions(config.EffectiveAssumptions())
	engine.SetLogger(logger)
	policy := config.EffectivePolicy()
	return &Planner{
		Engine:    engine,
		Generator: scenario.NewGeneratorWithPolicy(engine, policy),
		Advisor:   advisor.NewAdvisor(engine, policy),
	}
}

// Build runs the full pipeline for career at opts.AsOf. ref may be nil.
func (p *Planner) Build(career *domain.CareerRecord, ref *refdata.ReferenceData, opts Options) (*domain.PlanReport, error) {
	benefit, err := p.Engine.Project(career, ref, opts.AsOf)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}

	target := benefit.DesiredMonthlyPension
	b := scenario.Baseline{
		Pension:       benefit.NominalMonthlyPension,
		Salary:        benefit.ProjectedFinalSalary,
		CurrentSalary: career.GrossSalary,
		HorizonYears:  career.RemainingWorkYears(opts.AsOf.Year()),
		Target:        target,
	}

	report := &domain.PlanReport{
		RunID:       newID(opts),
		AsOf:        domain.YearQuarterOf(opts.AsOf),
		GeneratedAt: now(opts),
		Career:      *career,
		Assumptions: p.Engine.Assumptions,
		Benefit:     benefit,
		WorkLonger:  p.Generator.WorkLonger(b),
		ExtraIncome: p.Generator.ExtraIncome(b),
		Raises:      p.Generator.Raises(b),
	}

	if len(opts.With) > 0 {
		custom, err := p.Generator.EvaluateAll(opts.With, b)
		if err != nil {
			return nil, fmt.Errorf("custom scenarios failed: %w", err)
		}
		report.Custom = custom
	}

	if target != nil {
		advice, err := p.Advisor.SuggestPaths(benefit.NominalMonthlyPension, *target, benefit.ProjectedFinalSalary, benefit.YearsUntilRetirement)
		if err != nil {
			return nil, fmt.Errorf("advisor failed: %w", err)
		}
		report.Advice = &advice
	}

	return report, nil
}

// Build is a convenience wrapper that builds a planner for config and runs it
func Build(config *domain.Configuration, ref *refdata.ReferenceData, opts Options, logger calculation.Logger) (*domain.PlanReport, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewPlanner(config, logger).Build(&config.Career, ref, opts)
}

func newID(opts Options) string {
	if opts.NewID != nil {
		return opts.NewID()
	}
	return uuid.NewString()
}

func now(opts Options) time.Time {
	if opts.Now != nil {
		return opts.Now()
	}
	return time.Now().UTC()
}
