package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// Formatter renders a plan report into bytes
type Formatter interface {
	Name() string
	Format(report *domain.PlanReport) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *domain.PlanReport) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *domain.PlanReport) ([]byte, error) {
	return f.F(report)
}

var formatters = map[string]Formatter{}

var aliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"summary":         "console-lite",
	"yml":             "yaml",
}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleVerboseFormatter{})
	register(ConsoleFormatter{})
	register(CSVSummarizer{})
	register(JSONFormatter{})
	register(YAMLFormatter{})
}

// GetFormatterByName returns the formatter for name or alias, nil when unknown
func GetFormatterByName(name string) Formatter {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[key]; ok {
		key = target
	}
	return formatters[key]
}

// AvailableFormatterNames lists the registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted alias names, sorted
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write formats report with the named formatter and writes it to w
func Write(w io.Writer, format string, report *domain.PlanReport) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter failed: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}
