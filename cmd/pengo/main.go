package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/config"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/output"
	"github.com/rgehrsitz/pengo/internal/plan"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/scenario"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// clock is swapped in tests so reports are reproducible
var clock = time.Now

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pengo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "pengo",
	Short: "Pension projection and planning CLI",
	Long: `Projects a monthly retirement pension from a career record, evaluates
work-longer, extra-income and raise scenarios, and suggests paths to a
desired pension.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loggerFor returns the CLI logger when --debug is set
func loggerFor(cmd *cobra.Command) calculation.Logger {
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		return simpleCLILogger{}
	}
	return calculation.NopLogger{}
}

// session is everything a file-driven command needs
type session struct {
	config    *domain.Configuration
	reference *refdata.ReferenceData
	asOf      time.Time
	logger    calculation.Logger
}

// loadSession parses and validates the input file, applies the reference table
// flags and loads the tables
func loadSession(cmd *cobra.Command, inputFile string) (*session, error) {
	cfg, err := config.NewInputParser().LoadFromFile(inputFile)
	if err != nil {
		return nil, err
	}

	asOfFlag, _ := cmd.Flags().GetString("as-of")
	asOf, err := config.ResolveAsOf(asOfFlag, cfg, clock)
	if err != nil {
		return nil, err
	}

	applyReferenceFlags(cmd, &cfg.ReferenceData)
	logger := loggerFor(cmd)
	// The projection does not need the tables; without them the report just
	// omits valorization and the life-table horizon.
	ref, err := refdata.NewConfiguredProvider(cfg.ReferenceData).Get()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Could not load reference data: %v\n", err)
		ref = nil
	} else {
		logSkipped(logger, ref)
	}

	return &session{config: cfg, reference: ref, asOf: asOf, logger: logger}, nil
}

func applyReferenceFlags(cmd *cobra.Command, rd *domain.ReferenceDataConfig) {
	if path, _ := cmd.Flags().GetString("lifespan"); path != "" {
		rd.LifespanFile = path
	}
	if path, _ := cmd.Flags().GetString("indexation"); path != "" {
		rd.IndexationFile = path
	}
	if delim, _ := cmd.Flags().GetString("delimiter"); delim != "" {
		rd.Delimiter = delim
	}
}

func logSkipped(logger calculation.Logger, ref *refdata.ReferenceData) {
	for _, s := range ref.LifespanStats.Skipped {
		logger.Debugf("lifespan line %d skipped: %s", s.Line, s.Reason)
	}
	for _, s := range ref.IndexationStats.Skipped {
		logger.Debugf("indexation line %d skipped: %s", s.Line, s.Reason)
	}
}

// buildReport runs the full plan pipeline for the session
func (s *session) buildReport(with []scenario.Variant) (*domain.PlanReport, error) {
	return plan.Build(s.config, s.reference, plan.Options{
		AsOf: s.asOf,
		Now:  clock,
		With: with,
	}, s.logger)
}

// resolveVariants turns --with entries (template names or "kind:key=value,..."
// specs) into variants
func resolveVariants(specs []string) ([]scenario.Variant, error) {
	variants := make([]scenario.Variant, 0, len(specs))
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		v, err := scenario.Resolve(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid --with entry %q: %w", spec, err)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

var projectCmd = &cobra.Command{
	Use:   "project [input-file]",
	Short: "Project the pension and evaluate all scenarios",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		format, _ := cmd.Flags().GetString("format")
		return output.Write(cmd.OutOrStdout(), format, report)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		if _, err := config.NewInputParser().LoadFromFile(inputFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid\n", inputFile)
		return nil
	},
}

func addFileFlags(cmd *cobra.Command) {
	cmd.Flags().String("as-of", "", "Reference date: 2025, 2025-Q3, 2025/III or 2025-07-01 (default: file as_of, then today)")
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")
	rootCmd.PersistentFlags().String("lifespan", "", "Path to a life-expectancy table (overrides the input file)")
	rootCmd.PersistentFlags().String("indexation", "", "Path to a quarterly indexation table (overrides the input file)")
	rootCmd.PersistentFlags().String("delimiter", "", `Reference table delimiter ("," by default, "tab" for tab-separated)`)

	projectCmd.Flags().StringP("format", "f", "console",
		fmt.Sprintf("Output format (%s)", strings.Join(output.AvailableFormatterNames(), ", ")))
	projectCmd.Flags().StringArray("with", nil, "Extra scenario (repeatable): a template name or a spec like extra_income:amount=800,years=5")
	addFileFlags(projectCmd)

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
