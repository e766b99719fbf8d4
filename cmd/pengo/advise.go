package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/pengo/internal/advisor"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/output"
	"github.com/rgehrsitz/pengo/internal/plan"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var adviseCmd = &cobra.Command{
	Use:   "advise [input-file]",
	Short: "Suggest paths that close the gap to the desired pension",
	Long: `Project the pension and suggest up to four strategies that reach the
desired monthly pension. The goal comes from the input file's
desired_monthly_pension unless --goal is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd, args[0])
		if err != nil {
			return err
		}
		if err := applyGoalFlag(cmd, &s.config.Career); err != nil {
			return err
		}
		if s.config.Career.DesiredMonthlyPension == nil {
			return fmt.Errorf("no desired_monthly_pension in %s; pass --goal", args[0])
		}

		report, err := s.buildReport(nil)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		return writeStructuredOr(cmd.OutOrStdout(), format, report.Advice, func(w io.Writer) {
			output.WriteBenefit(w, report.Benefit)
			fmt.Fprintln(w)
			output.WriteAdvice(w, *report.Advice)
		})
	},
}

var gapCmd = &cobra.Command{
	Use:   "gap [input-file]",
	Short: "Quantify the gap between a pension and a target",
	Long: `Quantify the gap between a current and a target monthly pension.

With an input file the current pension is the projection and the target is
desired_monthly_pension (or --target). Without one, pass --current and --target.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, target, err := gapInputs(cmd, args)
		if err != nil {
			return err
		}

		gap := advisor.ComputeGap(current, target)
		format, _ := cmd.Flags().GetString("format")
		return writeStructuredOr(cmd.OutOrStdout(), format, gap, func(w io.Writer) {
			output.WriteGap(w, gap)
		})
	},
}

func gapInputs(cmd *cobra.Command, args []string) (decimal.Decimal, decimal.Decimal, error) {
	target, err := decimalFlag(cmd, "target")
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if len(args) == 0 {
		current, err := decimalFlag(cmd, "current")
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if current == nil || target == nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("--current and --target are required without an input file")
		}
		return *current, *target, nil
	}

	s, err := loadSession(cmd, args[0])
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if target != nil {
		s.config.Career.DesiredMonthlyPension = target
	}
	if s.config.Career.DesiredMonthlyPension == nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("no desired_monthly_pension in %s; pass --target", args[0])
	}
	benefit, err := s.project()
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return benefit.NominalMonthlyPension, *s.config.Career.DesiredMonthlyPension, nil
}

// project runs only the benefit projection
func (s *session) project() (*domain.BenefitReport, error) {
	planner := plan.NewPlanner(s.config, s.logger)
	return planner.Engine.Project(&s.config.Career, s.reference, s.asOf)
}

func applyGoalFlag(cmd *cobra.Command, career *domain.CareerRecord) error {
	goal, err := decimalFlag(cmd, "goal")
	if err != nil {
		return err
	}
	if goal == nil {
		return nil
	}
	if !goal.IsPositive() {
		return fmt.Errorf("--goal must be positive, got %s", goal.String())
	}
	career.DesiredMonthlyPension = goal
	return nil
}

// decimalFlag returns nil when the flag was not set
func decimalFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value %q: %w", name, raw, err)
	}
	return &d, nil
}

// writeStructuredOr encodes v for json/yaml and falls back to the console writer
func writeStructuredOr(w io.Writer, format string, v any, console func(io.Writer)) error {
	switch format = strings.ToLower(format); format {
	case "json", "yaml", "yml":
		data, err := output.Encode(format, v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "console", "":
		console(w)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (available: console, json, yaml)", format)
	}
}

func init() {
	adviseCmd.Flags().String("goal", "", "Desired monthly pension (overrides the input file)")
	adviseCmd.Flags().StringP("format", "f", "console", "Output format (console, json, yaml)")
	addFileFlags(adviseCmd)

	gapCmd.Flags().String("current", "", "Current monthly pension (without an input file)")
	gapCmd.Flags().String("target", "", "Target monthly pension")
	gapCmd.Flags().StringP("format", "f", "console", "Output format (console, json, yaml)")
	addFileFlags(gapCmd)

	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(gapCmd)
}
