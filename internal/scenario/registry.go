package scenario

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// VariantRegistry creates variants from string parameters, for CLI and API use
type VariantRegistry struct {
	factories map[string]VariantFactory
}

// VariantFactory creates a variant from parameters
type VariantFactory func(params map[string]string) (Variant, error)

// NewVariantRegistry creates a registry with all built-in variant kinds
func NewVariantRegistry() *VariantRegistry {
	r := &VariantRegistry{factories: make(map[string]VariantFactory)}
	r.Register("work_longer", createWorkLonger)
	r.Register("extra_income", createExtraIncome)
	r.Register("raise", createRaise)
	r.Register("combined", createCombined)
	return r
}

// Register adds a variant factory
func (r *VariantRegistry) Register(name string, factory VariantFactory) {
	r.factories[name] = factory
}

// Create builds a variant by name
func (r *VariantRegistry) Create(name string, params map[string]string) (Variant, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown variant: %s", name)
	}
	return factory(params)
}

// List returns the registered variant names in sorted order
func (r *VariantRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseVariantSpec parses "name:key=value,key=value",
// e.g. "extra_income:amount=800,years=5"
func (r *VariantRegistry) ParseVariantSpec(spec string) (Variant, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid variant spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	params := make(map[string]string)
	for _, pair := range strings.Split(parts[1], ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", pair)
		}
		params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return r.Create(name, params)
}

func createWorkLonger(params map[string]string) (Variant, error) {
	years, err := intParam(params, "years")
	if err != nil {
		return nil, err
	}
	return &WorkLonger{Years: years}, nil
}

func createExtraIncome(params map[string]string) (Variant, error) {
	amount, err := decimalParam(params, "amount")
	if err != nil {
		return nil, err
	}
	years, err := intParam(params, "years")
	if err != nil {
		return nil, err
	}
	return &ExtraIncome{MonthlyAmount: amount, DurationYears: years}, nil
}

// createRaise accepts rate as a fraction (0.03) or a percentage (3%)
func createRaise(params map[string]string) (Variant, error) {
	raw, ok := params["rate"]
	if !ok {
		return nil, fmt.Errorf("missing required parameter: rate")
	}
	rate, err := parseRate(raw)
	if err != nil {
		return nil, err
	}
	return &Raise{AnnualRate: rate}, nil
}

func createCombined(params map[string]string) (Variant, error) {
	work, err := intParam(params, "work_years")
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam(params, "amount")
	if err != nil {
		return nil, err
	}
	years, err := intParam(params, "years")
	if err != nil {
		return nil, err
	}
	return &Combined{
		WorkLonger:  WorkLonger{Years: work},
		ExtraIncome: ExtraIncome{MonthlyAmount: amount, DurationYears: years},
	}, nil
}

func intParam(params map[string]string, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing required parameter: %s", key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func decimalParam(params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("missing required parameter: %s", key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func parseRate(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	percent := strings.HasSuffix(s, "%")
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate value: %w", err)
	}
	if percent {
		d = d.Shift(-2)
	}
	return d, nil
}
