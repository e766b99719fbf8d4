package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Template is a named, ready-made variant
type Template struct {
	Name        string
	Description string
	Variant     Variant
}

// TemplateRegistry manages built-in variant templates
type TemplateRegistry struct {
	templates map[string]Template
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[string]Template)}
}

// Register adds a template
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltInTemplates returns the common "what if" variants
func BuiltInTemplates() *TemplateRegistry {
	r := NewTemplateRegistry()

	for _, years := range []int{1, 2, 5} {
		v := &WorkLonger{Years: years}
		r.Register(Template{Name: fmt.Sprintf("work_%dyr", years), Description: v.Description(), Variant: v})
	}

	sideJobs := []struct {
		name   string
		amount int64
		years  int
	}{
		{"side_income_small", 500, 5},
		{"side_income_medium", 1000, 5},
		{"side_income_large", 2000, 3},
	}
	for _, sj := range sideJobs {
		v := &ExtraIncome{MonthlyAmount: decimal.NewFromInt(sj.amount), DurationYears: sj.years}
		r.Register(Template{Name: sj.name, Description: v.Description(), Variant: v})
	}

	for _, pct := range []int64{3, 5} {
		v := &Raise{AnnualRate: decimal.New(pct, -2)}
		r.Register(Template{Name: fmt.Sprintf("raise_%dpct", pct), Description: v.Description(), Variant: v})
	}

	combined := &Combined{
		WorkLonger:  WorkLonger{Years: 2},
		ExtraIncome: ExtraIncome{MonthlyAmount: decimal.NewFromInt(500), DurationYears: 5},
	}
	r.Register(Template{Name: "work_2yr_plus_side_income", Description: combined.Description(), Variant: combined})

	return r
}

// Resolve returns a template's variant, or parses name as a variant spec
func Resolve(name string) (Variant, error) {
	if t, ok := BuiltInTemplates().Get(name); ok {
		return t.Variant, nil
	}
	return NewVariantRegistry().ParseVariantSpec(name)
}
