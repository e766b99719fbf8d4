package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/pengo/internal/config"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/output"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Inspect the life-expectancy and indexation tables",
	Long: `Inspect the reference tables. The embedded illustrative tables are used
unless --lifespan or --indexation point at other files.`,
}

// loadReference loads the tables named by the persistent flags
func loadReference(cmd *cobra.Command) (*refdata.ReferenceData, error) {
	var rd domain.ReferenceDataConfig
	applyReferenceFlags(cmd, &rd)
	ref, err := refdata.NewConfiguredProvider(rd).Get()
	if err != nil {
		return nil, err
	}
	logSkipped(loggerFor(cmd), ref)
	return ref, nil
}

// lifespanView is the structured form of the lifespan command
type lifespanView struct {
	Age        int                  `yaml:"age,omitempty" json:"age,omitempty"`
	BirthMonth int                  `yaml:"birth_month,omitempty" json:"birthMonth,omitempty"`
	Months     *decimal.Decimal     `yaml:"months,omitempty" json:"months,omitempty"`
	Ages       []int                `yaml:"ages,omitempty" json:"ages,omitempty"`
	Accepted   int                  `yaml:"accepted_rows" json:"acceptedRows"`
	Skipped    []refdata.SkippedRow `yaml:"skipped,omitempty" json:"skipped,omitempty"`
}

var lifespanCmd = &cobra.Command{
	Use:   "lifespan",
	Short: "Show the life table or look up remaining life months for an age",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := loadReference(cmd)
		if err != nil {
			return err
		}

		age, _ := cmd.Flags().GetInt("age")
		birthMonth, _ := cmd.Flags().GetInt("birth-month")
		if birthMonth < 0 || birthMonth > refdata.MonthsPerAge-1 {
			return fmt.Errorf("--birth-month must be between 0 and %d, got %d", refdata.MonthsPerAge-1, birthMonth)
		}

		view := lifespanView{Skipped: ref.LifespanStats.Skipped, Accepted: ref.LifespanStats.Accepted}
		if age > 0 {
			months := ref.RemainingLifeMonths(age, birthMonth)
			view.Age, view.BirthMonth, view.Months = age, birthMonth, &months
		} else {
			view.Ages = ref.Lifespan.Ages()
		}

		format, _ := cmd.Flags().GetString("format")
		return writeStructuredOr(cmd.OutOrStdout(), format, view, func(w io.Writer) {
			if view.Months != nil {
				resolved, ok := ref.Lifespan.ResolveAge(age)
				fmt.Fprintf(w, "Age %d, birth month %d: %s months remaining", age, birthMonth, view.Months.StringFixed(1))
				if ok && resolved != age {
					fmt.Fprintf(w, " (table row %d)", resolved)
				}
				fmt.Fprintln(w)
			} else {
				writeLifespanTable(w, ref.Lifespan)
			}
			writeSkipped(w, "lifespan", ref.LifespanStats)
		})
	},
}

func writeLifespanTable(w io.Writer, table *refdata.LifespanTable) {
	if table.Len() == 0 {
		fmt.Fprintln(w, "Life table is empty.")
		return
	}
	fmt.Fprintf(w, "%-5s %10s %10s\n", "Age", "Month 0", "Month 11")
	for _, age := range table.Ages() {
		row, _ := table.Row(age)
		fmt.Fprintf(w, "%-5d %10s %10s\n", age, row[0].StringFixed(1), row[len(row)-1].StringFixed(1))
	}
}

var indexationCmd = &cobra.Command{
	Use:   "indexation",
	Short: "Show the quarterly indexation series",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := loadReference(cmd)
		if err != nil {
			return err
		}
		records := ref.Indexation.Records()

		format, _ := cmd.Flags().GetString("format")
		return writeStructuredOr(cmd.OutOrStdout(), format, records, func(w io.Writer) {
			if len(records) == 0 {
				fmt.Fprintln(w, "Indexation series is empty.")
			} else {
				fmt.Fprintf(w, "%-10s %10s %10s\n", "Quarter", "Primary", "Sub")
				for _, r := range records {
					fmt.Fprintf(w, "%-10s %10s %10s\n", r.Key(), output.FormatRatio(r.PrimaryFactor.Sub(decimal.NewFromInt(1))),
						output.FormatRatio(r.SubFactor.Sub(decimal.NewFromInt(1))))
				}
			}
			writeSkipped(w, "indexation", ref.IndexationStats)
		})
	},
}

var valorizeCmd = &cobra.Command{
	Use:   "valorize",
	Short: "Valorize account balances for a determination quarter",
	Long: `Apply the indexation factors for the quarter mapped from the determination
date to the primary and sub-account balances. A missing entry leaves the
capital unchanged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		primary, err := decimalFlag(cmd, "primary")
		if err != nil {
			return err
		}
		sub, err := decimalFlag(cmd, "sub")
		if err != nil {
			return err
		}
		if primary == nil && sub == nil {
			return fmt.Errorf("at least one of --primary and --sub is required")
		}

		asOfFlag, _ := cmd.Flags().GetString("as-of")
		asOf, err := config.ResolveAsOf(asOfFlag, nil, clock)
		if err != nil {
			return err
		}

		ref, err := loadReference(cmd)
		if err != nil {
			return err
		}
		v := ref.Valorize(orZero(primary), orZero(sub), domain.YearQuarterOf(asOf))
		if !v.Found {
			loggerFor(cmd).Warnf("no indexation entry for %s; capital left unchanged", v.Indexation)
		}

		format, _ := cmd.Flags().GetString("format")
		return writeStructuredOr(cmd.OutOrStdout(), format, v, func(w io.Writer) {
			fmt.Fprintf(w, "Determination %s, indexation quarter %s\n", v.Determination, v.Indexation)
			if !v.Found {
				fmt.Fprintln(w, "No indexation entry; capital unchanged.")
			}
			fmt.Fprintf(w, "Primary account: %s -> %s (x%s)\n", formatOrDash(v.PrimaryBefore), formatOrDash(v.PrimaryAfter), v.PrimaryFactor.String())
			fmt.Fprintf(w, "Sub-account:     %s -> %s (x%s)\n", formatOrDash(v.SubBefore), formatOrDash(v.SubAfter), v.SubFactor.String())
		})
	},
}

// formatOrDash renders zero balances as a dash
func formatOrDash(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return output.FormatCurrency(d)
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func writeSkipped(w io.Writer, table string, stats refdata.ParseStats) {
	if len(stats.Skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d %s rows skipped:\n", len(stats.Skipped), table)
	for _, s := range stats.Skipped {
		fmt.Fprintf(w, "  line %d: %s\n", s.Line, strings.TrimSpace(s.Reason))
	}
}

func init() {
	lifespanCmd.Flags().Int("age", 0, "Age to look up (shows the whole table when zero)")
	lifespanCmd.Flags().Int("birth-month", 0, "Birth month column, 0-11")

	valorizeCmd.Flags().String("primary", "", "Primary account balance")
	valorizeCmd.Flags().String("sub", "", "Sub-account balance")
	addFileFlags(valorizeCmd)

	for _, c := range []*cobra.Command{lifespanCmd, indexationCmd, valorizeCmd} {
		c.Flags().StringP("format", "f", "console", "Output format (console, json, yaml)")
		refdataCmd.AddCommand(c)
	}
	rootCmd.AddCommand(refdataCmd)
}
