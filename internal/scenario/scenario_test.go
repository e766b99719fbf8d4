package scenario

import (
	"testing"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func baseline() Baseline {
	return Baseline{
		Pension:      decimal.NewFromInt(3000),
		Salary:       decimal.NewFromInt(8000),
		HorizonYears: 20,
		Target:       decimalPtr(decimal.NewFromInt(3500)),
	}
}

func TestGenerateWorkLongerScenarios(t *testing.T) {
	engine := calculation.NewEngine()
	b := baseline()

	outcomes := GenerateWorkLongerScenarios(engine, b.Pension, b.Salary, b.Target)
	require.Len(t, outcomes, 10)

	for i, o := range outcomes {
		assert.Equal(t, domain.KindWorkLonger, o.Kind)
		assert.Equal(t, i+1, o.Years)
		assert.True(t, o.ResultingPension.Equal(engine.LaterRetirementBonus(b.Pension, i+1, b.Salary)))
		assert.True(t, o.AbsoluteIncrease.Equal(o.ResultingPension.Sub(b.Pension)))
		assert.Equal(t, o.ResultingPension.GreaterThanOrEqual(*b.Target), o.MeetsGoal)
		if i > 0 {
			assert.True(t, o.PercentageIncrease.GreaterThan(outcomes[i-1].PercentageIncrease))
		}
	}
}

func TestGenerateWorkLongerScenarios_NoTarget(t *testing.T) {
	outcomes := GenerateWorkLongerScenarios(calculation.NewEngine(), decimal.NewFromInt(3000), decimal.NewFromInt(8000), nil)
	for _, o := range outcomes {
		assert.False(t, o.MeetsGoal, "no target means no goal can be met")
	}
}

func TestGenerateExtraIncomeScenarios(t *testing.T) {
	b := baseline()
	outcomes := GenerateExtraIncomeScenarios(calculation.NewEngine(), b.Pension, b.Salary, b.Target)

	policy := domain.DefaultAdvisorPolicy()
	require.Len(t, outcomes, len(policy.IncomeGrid)*len(policy.DurationGrid))

	for i := 1; i < len(outcomes); i++ {
		assert.True(t, outcomes[i-1].PercentageIncrease.GreaterThanOrEqual(outcomes[i].PercentageIncrease),
			"outcomes must be sorted by percentage increase")
	}

	top := outcomes[0]
	require.NotNil(t, top.MonthlyAmount)
	assert.True(t, top.MonthlyAmount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 10, top.DurationYears)
	assert.Equal(t, domain.EffortHigh, top.EffortTier)
}

func TestExtraIncome_EffortTiers(t *testing.T) {
	g := NewGenerator(calculation.NewEngine())
	tests := []struct {
		amount int64
		want   domain.EffortTier
	}{
		{300, domain.EffortLow},
		{799, domain.EffortLow},
		{800, domain.EffortMedium},
		{1499, domain.EffortMedium},
		{1500, domain.EffortHigh},
		{2000, domain.EffortHigh},
	}
	for _, tt := range tests {
		o, err := g.Evaluate(&ExtraIncome{MonthlyAmount: decimal.NewFromInt(tt.amount), DurationYears: 5}, baseline())
		require.NoError(t, err)
		assert.Equal(t, tt.want, o.EffortTier, "amount %d", tt.amount)
	}
}

func TestGenerateRaiseScenarios(t *testing.T) {
	b := baseline()
	outcomes := GenerateRaiseScenarios(calculation.NewEngine(), b.Pension, b.Salary, b.HorizonYears, b.Target)
	require.Len(t, outcomes, 4)
	for i := 1; i < len(outcomes); i++ {
		assert.True(t, outcomes[i].ResultingPension.GreaterThan(outcomes[i-1].ResultingPension))
		require.NotNil(t, outcomes[i].AnnualRate)
	}

	none := GenerateRaiseScenarios(calculation.NewEngine(), b.Pension, b.Salary, 0, b.Target)
	assert.Empty(t, none, "no remaining years leaves nothing to raise")
}

func TestCombined_IsAdditive(t *testing.T) {
	g := NewGenerator(calculation.NewEngine())
	b := baseline()

	work, err := g.Evaluate(&WorkLonger{Years: 2}, b)
	require.NoError(t, err)
	extra, err := g.Evaluate(&ExtraIncome{MonthlyAmount: decimal.NewFromInt(500), DurationYears: 5}, b)
	require.NoError(t, err)
	combined, err := g.Evaluate(&Combined{
		WorkLonger:  WorkLonger{Years: 2},
		ExtraIncome: ExtraIncome{MonthlyAmount: decimal.NewFromInt(500), DurationYears: 5},
	}, b)
	require.NoError(t, err)

	assert.Equal(t, domain.KindCombined, combined.Kind)
	assert.True(t, combined.AbsoluteIncrease.Equal(work.AbsoluteIncrease.Add(extra.AbsoluteIncrease)))
	assert.Equal(t, "Work 2 more years and earn an extra 500/month for 5 years", combined.Description)
}

func TestEvaluate_Validation(t *testing.T) {
	g := NewGenerator(calculation.NewEngine())

	tests := []struct {
		name    string
		variant Variant
	}{
		{"zero years", &WorkLonger{}},
		{"negative amount", &ExtraIncome{MonthlyAmount: decimal.NewFromInt(-5), DurationYears: 2}},
		{"zero duration", &ExtraIncome{MonthlyAmount: decimal.NewFromInt(500)}},
		{"rate above one", &Raise{AnnualRate: decimal.NewFromInt(2)}},
		{"bad combined part", &Combined{WorkLonger: WorkLonger{Years: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Evaluate(tt.variant, baseline())
			require.Error(t, err)
			var verr *VariantError
			assert.ErrorAs(t, err, &verr)
		})
	}

	_, err := g.Evaluate(nil, baseline())
	assert.Error(t, err)
}

func TestPercentageIncrease_ZeroBase(t *testing.T) {
	o, err := NewGenerator(calculation.NewEngine()).Evaluate(&WorkLonger{Years: 3}, Baseline{Salary: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	assert.True(t, o.PercentageIncrease.IsZero())
	assert.True(t, o.AbsoluteIncrease.IsPositive())
}

func TestParseVariantSpec(t *testing.T) {
	r := NewVariantRegistry()

	tests := []struct {
		spec    string
		want    Variant
		wantErr bool
	}{
		{spec: "work_longer:years=3", want: &WorkLonger{Years: 3}},
		{spec: "extra_income:amount=800, years=5", want: &ExtraIncome{MonthlyAmount: decimal.NewFromInt(800), DurationYears: 5}},
		{spec: "raise:rate=3%", want: &Raise{AnnualRate: decimal.RequireFromString("0.03")}},
		{spec: "raise:rate=0.05", want: &Raise{AnnualRate: decimal.RequireFromString("0.05")}},
		{spec: "work_longer", wantErr: true},
		{spec: "work_longer:years", wantErr: true},
		{spec: "work_longer:years=abc", wantErr: true},
		{spec: "teleport:years=1", wantErr: true},
		{spec: "combined:work_years=2,amount=500", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := r.ParseVariantSpec(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name(), got.Name())
			assert.Equal(t, tt.want.Description(), got.Description())
		})
	}

	assert.Equal(t, []string{"combined", "extra_income", "raise", "work_longer"}, r.List())
}

func TestBuiltInTemplates(t *testing.T) {
	templates := BuiltInTemplates()
	names := templates.List()
	assert.Contains(t, names, "work_1yr")
	assert.Contains(t, names, "raise_3pct")
	assert.Contains(t, names, "work_2yr_plus_side_income")

	tmpl, ok := templates.Get("WORK_5YR")
	require.True(t, ok)
	assert.Equal(t, "Work 5 more years", tmpl.Description)

	g := NewGenerator(calculation.NewEngine())
	for _, name := range names {
		tmpl, _ := templates.Get(name)
		_, err := g.Evaluate(tmpl.Variant, baseline())
		assert.NoError(t, err, "template %s", name)
	}
}

func TestResolve(t *testing.T) {
	v, err := Resolve("side_income_small")
	require.NoError(t, err)
	assert.Equal(t, "extra_income", v.Name())

	v, err = Resolve("work_longer:years=4")
	require.NoError(t, err)
	assert.Equal(t, "Work 4 more years", v.Description())

	_, err = Resolve("nonsense")
	assert.Error(t, err)
}
