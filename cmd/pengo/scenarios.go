package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/output"
	"github.com/rgehrsitz/pengo/internal/scenario"
	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios [input-file]",
	Short: "Evaluate work-longer, extra-income and raise scenarios",
	Long: `Evaluate the scenario grids against the projected pension, plus any
scenarios named with --with.

Examples:
  # Every grid
  pengo scenarios career.yaml

  # Only the extra-income grid, as JSON
  pengo scenarios career.yaml --kind extra-income --format json

  # Built-in templates and ad hoc specs
  pengo scenarios career.yaml --with work_2yr --with raise:rate=4%

  # List the built-in templates
  pengo scenarios --list-templates`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScenarios,
}

// scenarioSections is the outcome subset selected by --kind
type scenarioSections struct {
	WorkLonger  []domain.ScenarioOutcome `yaml:"work_longer,omitempty" json:"workLonger,omitempty"`
	ExtraIncome []domain.ScenarioOutcome `yaml:"extra_income,omitempty" json:"extraIncome,omitempty"`
	Raises      []domain.ScenarioOutcome `yaml:"raises,omitempty" json:"raises,omitempty"`
	Custom      []domain.ScenarioOutcome `yaml:"custom,omitempty" json:"custom,omitempty"`
}

func selectSections(report *domain.PlanReport, kind string) (scenarioSections, error) {
	sections := scenarioSections{Custom: report.Custom}
	switch strings.ToLower(kind) {
	case "", "all":
		sections.WorkLonger = report.WorkLonger
		sections.ExtraIncome = report.ExtraIncome
		sections.Raises = report.Raises
	case "work-longer", "work_longer":
		sections.WorkLonger = report.WorkLonger
	case "extra-income", "extra_income":
		sections.ExtraIncome = report.ExtraIncome
	case "raises", "raise":
		sections.Raises = report.Raises
	case "custom":
	default:
		return scenarioSections{}, fmt.Errorf("unknown scenario kind %q (all, work-longer, extra-income, raises, custom)", kind)
	}
	return sections, nil
}

func runScenarios(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("list-templates"); list {
		templates := scenario.BuiltInTemplates()
		fmt.Fprintln(out, "Available scenario templates:")
		for _, name := range templates.List() {
			t, _ := templates.Get(name)
			fmt.Fprintf(out, "  %-28s %s\n", name, t.Description)
		}
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("an input file is required unless --list-templates is set")
	}

	s, err := loadSession(cmd, args[0])
	if err != nil {
		return err
	}
	specs, _ := cmd.Flags().GetStringArray("with")
	variants, err := resolveVariants(specs)
	if err != nil {
		return err
	}
	report, err := s.buildReport(variants)
	if err != nil {
		return err
	}

	kind, _ := cmd.Flags().GetString("kind")
	sections, err := selectSections(report, kind)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return writeStructuredOr(out, format, sections, func(w io.Writer) {
		fmt.Fprintf(w, "Baseline pension: %s/month\n\n", output.FormatCurrency(report.Benefit.NominalMonthlyPension))
		output.WriteOutcomes(w, "WORK LONGER", sections.WorkLonger, len(sections.WorkLonger))
		output.WriteOutcomes(w, "EXTRA INCOME (sorted by increase)", sections.ExtraIncome, len(sections.ExtraIncome))
		output.WriteOutcomes(w, "SALARY RAISES", sections.Raises, len(sections.Raises))
		output.WriteOutcomes(w, "SELECTED SCENARIOS", sections.Custom, len(sections.Custom))
	})
}

func init() {
	scenariosCmd.Flags().String("kind", "all", "Scenario grid to show (all, work-longer, extra-income, raises, custom)")
	scenariosCmd.Flags().StringArray("with", nil, "Extra scenario (repeatable): a template name or a spec like raise:rate=4%")
	scenariosCmd.Flags().StringP("format", "f", "console", "Output format (console, json, yaml)")
	scenariosCmd.Flags().Bool("list-templates", false, "List the built-in scenario templates")
	addFileFlags(scenariosCmd)

	rootCmd.AddCommand(scenariosCmd)
}
