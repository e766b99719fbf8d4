package output

import (
	"bytes"
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// ConsoleFormatter renders a short summary: the benefit, the best option of each
// scenario family and the top suggestion
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	if report == nil || report.Benefit == nil {
		return nil, fmt.Errorf("report has no benefit projection")
	}
	b := report.Benefit
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render("PENSION SUMMARY"))
	fmt.Fprintf(&buf, "Monthly pension: %s nominal, %s real (%s of final salary)\n",
		FormatCurrency(b.NominalMonthlyPension), FormatCurrency(b.RealMonthlyPension), FormatRatio(b.ReplacementRate))
	fmt.Fprintf(&buf, "Retirement: %d\n", b.RetirementYear)

	for _, family := range []struct {
		label    string
		outcomes []domain.ScenarioOutcome
	}{
		{"work longer", report.WorkLonger},
		{"extra income", report.ExtraIncome},
		{"raise", report.Raises},
	} {
		if best, ok := bestOutcome(family.outcomes); ok {
			fmt.Fprintf(&buf, "Best %s: %s -> %s (Δ %s)\n", family.label, best.Description,
				FormatCurrency(best.ResultingPension), FormatCurrency(best.AbsoluteIncrease))
		}
	}

	if report.Advice != nil {
		if !report.Advice.NeedsSuggestions {
			fmt.Fprintln(&buf, goodStyle.Render("Goal met."))
		} else if len(report.Advice.Suggestions) > 0 {
			fmt.Fprintf(&buf, "Recommended: %s\n", report.Advice.Suggestions[0].Title)
		} else {
			fmt.Fprintln(&buf, badStyle.Render(report.Advice.Message))
		}
	}
	return buf.Bytes(), nil
}

func bestOutcome(outcomes []domain.ScenarioOutcome) (domain.ScenarioOutcome, bool) {
	if len(outcomes) == 0 {
		return domain.ScenarioOutcome{}, false
	}
	best := outcomes[0]
	for _, o := range outcomes[1:] {
		if o.ResultingPension.GreaterThan(best.ResultingPension) {
			best = o
		}
	}
	return best, true
}
