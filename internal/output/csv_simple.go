package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVSummarizer writes one row per evaluated scenario
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Kind", "Name", "Years", "MonthlyAmount", "DurationYears", "AnnualRate",
		"ResultingPension", "AbsoluteIncrease", "PercentageIncrease", "MeetsGoal", "EffortTier"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	groups := [][]domain.ScenarioOutcome{report.WorkLonger, report.ExtraIncome, report.Raises, report.Custom}
	for _, group := range groups {
		for _, o := range group {
			row := []string{
				string(o.Kind),
				o.Name,
				intOrEmpty(o.Years),
				decimalOrEmpty(o.MonthlyAmount),
				intOrEmpty(o.DurationYears),
				decimalOrEmpty(o.AnnualRate),
				o.ResultingPension.StringFixed(2),
				o.AbsoluteIncrease.StringFixed(2),
				o.PercentageIncrease.StringFixed(2),
				strconv.FormatBool(o.MeetsGoal),
				string(o.EffortTier),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func intOrEmpty(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func decimalOrEmpty(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
