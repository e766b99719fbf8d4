package output

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FormatCurrency formats a decimal as a currency amount
func FormatCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatPercentage formats an already-scaled percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRatio formats a ratio such as 0.333 as a percentage
func FormatRatio(ratio decimal.Decimal) string {
	return ratio.Shift(2).StringFixed(1) + "%"
}

// Encode renders any value as indented JSON or YAML
func Encode(format string, v any) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported structured format: %s", format)
	}
}

// JSONFormatter renders the full report as JSON
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	return Encode("json", report)
}

// YAMLFormatter renders the full report as YAML
type YAMLFormatter struct{}

func (YAMLFormatter) Name() string { return "yaml" }

func (YAMLFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	return Encode("yaml", report)
}
