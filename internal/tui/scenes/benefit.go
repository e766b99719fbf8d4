package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/tui/components"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

// BenefitModel renders the projection summary
type BenefitModel struct {
	report *domain.PlanReport
	width  int
}

// NewBenefitModel creates the benefit scene
func NewBenefitModel() *BenefitModel {
	return &BenefitModel{width: 80}
}

// SetReport replaces the rendered report
func (m *BenefitModel) SetReport(report *domain.PlanReport) {
	m.report = report
}

// SetSize updates the scene width
func (m *BenefitModel) SetSize(width, height int) {
	m.width = width
}

// View renders metric cards followed by the later-retirement table
func (m *BenefitModel) View() string {
	if m.report == nil || m.report.Benefit == nil {
		return tuistyles.SubtitleStyle.Render("No projection yet.")
	}
	b := m.report.Benefit
	cur := tuistyles.FormatCurrency

	realLoss := b.NominalMonthlyPension.Sub(b.RealMonthlyPension)
	cards := []*components.MetricCard{
		components.NewMetricCard("Nominal pension", cur(b.NominalMonthlyPension)).
			WithNote(fmt.Sprintf("retire in %d (%d yrs)", b.RetirementYear, b.YearsUntilRetirement)),
		components.NewMetricCard("Real pension", cur(b.RealMonthlyPension)).
			WithTrend(false, cur(realLoss)+" inflation"),
		components.NewMetricCard("Replacement rate", b.ReplacementRate.Shift(2).StringFixed(1)+"%").
			WithNote("of " + cur(b.ProjectedFinalSalary)),
		components.NewMetricCard("National average", cur(b.NationalAverageBenefit)).
			WithTrend(b.NominalMonthlyPension.GreaterThanOrEqual(b.NationalAverageBenefit),
				cur(b.NominalMonthlyPension.Sub(b.NationalAverageBenefit).Abs())),
	}
	if b.SickLeaveImpact != nil {
		cards = append(cards, components.NewMetricCard("Sick leave", "-"+cur(b.SickLeaveImpact.BenefitReduction)).
			WithNote(b.SickLeaveImpact.TotalSickDays.String()+" days"))
	}
	if b.DesiredMonthlyPension != nil {
		card := components.NewMetricCard("Goal", cur(*b.DesiredMonthlyPension))
		if b.MeetsGoal() {
			card.WithTrend(true, "met")
		} else {
			card.WithTrend(false, cur(b.DesiredMonthlyPension.Sub(b.NominalMonthlyPension))+" short")
		}
		if b.YearsNeededForGoal != nil {
			card.WithNote(fmt.Sprintf("%d extra years needed", *b.YearsNeededForGoal))
		}
		cards = append(cards, card)
	}

	columns := m.width / 28
	if columns < 1 {
		columns = 1
	}

	var later strings.Builder
	later.WriteString(tuistyles.TitleStyle.Render("Later retirement") + "\n")
	fmt.Fprintf(&later, "+1 year   %s\n", cur(b.LaterRetirement.PlusOneYear))
	fmt.Fprintf(&later, "+2 years  %s\n", cur(b.LaterRetirement.PlusTwoYears))
	fmt.Fprintf(&later, "+5 years  %s", cur(b.LaterRetirement.PlusFiveYears))
	if b.TableLifeExpectancyMonths != nil {
		fmt.Fprintf(&later, "\n%s", tuistyles.SubtitleStyle.Render(fmt.Sprintf(
			"life table: %s months, payout horizon: %s months", b.TableLifeExpectancyMonths.StringFixed(1), b.PayoutMonths)))
	}
	if v := b.Valorization; v != nil && !v.Found {
		later.WriteString("\n" + tuistyles.ErrorStyle.Render(fmt.Sprintf("no indexation entry for %s", v.Indexation)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, components.MetricGrid(cards, columns), "", later.String())
}
