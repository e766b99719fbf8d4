package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/pengo/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const rule = "================================================================"

// ConsoleVerboseFormatter renders the detailed console report
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	if report == nil || report.Benefit == nil {
		return nil, fmt.Errorf("report has no benefit projection")
	}
	var buf bytes.Buffer

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, titleStyle.Render("PENSION PROJECTION"))
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, mutedStyle.Render(fmt.Sprintf("Run %s, as of %s", report.RunID, report.AsOf)))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("KEY ASSUMPTIONS:"))
	for _, a := range AssumptionLines(report.Assumptions) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	WriteBenefit(&buf, report.Benefit)
	fmt.Fprintln(&buf)

	WriteOutcomes(&buf, "WORK LONGER", report.WorkLonger, len(report.WorkLonger))
	WriteOutcomes(&buf, "EXTRA INCOME (top 10 by increase)", report.ExtraIncome, 10)
	WriteOutcomes(&buf, "SALARY RAISES", report.Raises, len(report.Raises))
	if len(report.Custom) > 0 {
		WriteOutcomes(&buf, "SELECTED SCENARIOS", report.Custom, len(report.Custom))
	}

	if report.Advice != nil {
		WriteAdvice(&buf, *report.Advice)
	}
	return buf.Bytes(), nil
}

// WriteBenefit renders the projection block
func WriteBenefit(w io.Writer, b *domain.BenefitReport) {
	fmt.Fprintln(w, sectionStyle.Render("BENEFIT"))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Retirement year:          %d (in %d years)\n", b.RetirementYear, b.YearsUntilRetirement)
	fmt.Fprintf(w, "Accumulated capital:      %s\n", FormatCurrency(b.TotalCapital))
	fmt.Fprintf(w, "Nominal monthly pension:  %s\n", FormatCurrency(b.NominalMonthlyPension))
	fmt.Fprintf(w, "Real monthly pension:     %s\n", FormatCurrency(b.RealMonthlyPension))
	fmt.Fprintf(w, "Projected final salary:   %s\n", FormatCurrency(b.ProjectedFinalSalary))
	fmt.Fprintf(w, "Replacement rate:         %s\n", FormatRatio(b.ReplacementRate))
	fmt.Fprintf(w, "National average benefit: %s\n", FormatCurrency(b.NationalAverageBenefit))
	fmt.Fprintf(w, "Payout horizon:           %s months\n", b.PayoutMonths.String())
	if b.TableLifeExpectancyMonths != nil {
		fmt.Fprintf(w, "Life table at retirement: %s months\n", b.TableLifeExpectancyMonths.StringFixed(1))
	}

	if b.SickLeaveImpact != nil {
		fmt.Fprintf(w, "Sick leave:               -%s (%s days over the career)\n",
			FormatCurrency(b.SickLeaveImpact.BenefitReduction), b.SickLeaveImpact.TotalSickDays.String())
	}

	fmt.Fprintln(w, "Later retirement:")
	fmt.Fprintf(w, "  +1 year:  %s\n", FormatCurrency(b.LaterRetirement.PlusOneYear))
	fmt.Fprintf(w, "  +2 years: %s\n", FormatCurrency(b.LaterRetirement.PlusTwoYears))
	fmt.Fprintf(w, "  +5 years: %s\n", FormatCurrency(b.LaterRetirement.PlusFiveYears))

	if v := b.Valorization; v != nil {
		status := goodStyle.Render("applied")
		if !v.Found {
			status = badStyle.Render("no entry, balances unchanged")
		}
		fmt.Fprintf(w, "Valorization %s (index %s): %s\n", v.Determination, v.Indexation, status)
		fmt.Fprintf(w, "  primary: %s -> %s\n", FormatCurrency(v.PrimaryBefore), FormatCurrency(v.PrimaryAfter))
		fmt.Fprintf(w, "  sub:     %s -> %s\n", FormatCurrency(v.SubBefore), FormatCurrency(v.SubAfter))
	}

	if b.DesiredMonthlyPension != nil {
		fmt.Fprintf(w, "Goal:                     %s ", FormatCurrency(*b.DesiredMonthlyPension))
		if b.MeetsGoal() {
			fmt.Fprintln(w, goodStyle.Render("(met)"))
		} else {
			fmt.Fprintln(w, badStyle.Render("(not met)"))
		}
		if b.YearsNeededForGoal != nil {
			fmt.Fprintf(w, "Extra years for goal:     %d\n", *b.YearsNeededForGoal)
		}
	}
}

// WriteOutcomes renders up to limit outcomes under a section title
func WriteOutcomes(w io.Writer, title string, outcomes []domain.ScenarioOutcome, limit int) {
	if len(outcomes) == 0 {
		return
	}
	fmt.Fprintln(w, sectionStyle.Render(title))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for i, o := range outcomes {
		if i >= limit {
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  ... %d more", len(outcomes)-limit)))
			break
		}
		marker := " "
		if o.MeetsGoal {
			marker = goodStyle.Render("✓")
		}
		fmt.Fprintf(w, "%s %-48s %12s  +%s (%s)", marker, o.Description,
			FormatCurrency(o.ResultingPension), o.AbsoluteIncrease.StringFixed(2), FormatPercentage(o.PercentageIncrease))
		if o.EffortTier != "" {
			fmt.Fprintf(w, " [%s]", o.EffortTier)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// WriteGap renders a gap analysis
func WriteGap(w io.Writer, gap domain.GapAnalysis) {
	fmt.Fprintf(w, "Current pension: %s\n", FormatCurrency(gap.Current))
	fmt.Fprintf(w, "Target pension:  %s\n", FormatCurrency(gap.Target))
	if gap.MeetsGoal {
		fmt.Fprintln(w, goodStyle.Render("Goal met, no gap."))
		return
	}
	fmt.Fprintf(w, "Gap:             %s (%s of target)\n", badStyle.Render(FormatCurrency(gap.Gap)), FormatPercentage(gap.GapPercentage))
}

// WriteAdvice renders the advisor result
func WriteAdvice(w io.Writer, result domain.AdvisorResult) {
	fmt.Fprintln(w, sectionStyle.Render("SUGGESTED PATHS"))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	if result.Gap != nil {
		WriteGap(w, *result.Gap)
	}
	if result.Message != "" {
		fmt.Fprintln(w, result.Message)
	}
	for i, p := range result.Suggestions {
		fmt.Fprintf(w, "\n%d. %s [%s, %s effort, %d years]\n", i+1, sectionStyle.Render(p.Title), p.Strategy, p.EffortTier, p.TimeframeYears)
		fmt.Fprintf(w, "   %s\n", p.Description)
		for _, pro := range p.Pros {
			fmt.Fprintf(w, "   %s %s\n", goodStyle.Render("+"), pro)
		}
		for _, con := range p.Cons {
			fmt.Fprintf(w, "   %s %s\n", badStyle.Render("-"), con)
		}
	}
	fmt.Fprintln(w)
}
