package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const careerFile = "testdata/career.yaml"

// execute runs the root command with fresh flag values and captures its output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := executeTo(t, &buf, &buf, args...)
	return buf.String(), err
}

// executeSplit keeps stdout and stderr apart
func executeSplit(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := executeTo(t, &stdout, &stderr, args...)
	return stdout.String(), stderr.String(), err
}

func executeTo(t *testing.T, stdout, stderr *bytes.Buffer, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)

	fixed := time.Date(2025, time.August, 2, 12, 0, 0, 0, time.UTC)
	clock = func() time.Time { return fixed }
	t.Cleanup(func() { clock = time.Now })

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// resetFlags restores defaults; cobra keeps flag state between Execute calls
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func decodeJSON(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	return m
}

func TestRootCommand(t *testing.T) {
	require.NotNil(t, rootCmd)
	assert.Equal(t, "pengo", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("debug"))
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "pengo")
	assert.Contains(t, out, "scenarios")
}

func TestRootCommand_Invalid(t *testing.T) {
	_, err := execute(t, "invalid-command")
	assert.Error(t, err)

	_, err = execute(t, "--invalid-flag")
	assert.Error(t, err)
}

func TestCommandSubcommands(t *testing.T) {
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range []string{"project", "scenarios", "advise", "gap", "refdata", "validate", "serve", "version"} {
		assert.True(t, registered[name], "command %q should be registered", name)
	}

	sub := map[string]bool{}
	for _, c := range refdataCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.Equal(t, map[string]bool{"lifespan": true, "indexation": true, "valorize": true}, sub)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pengo dev (commit none, built unknown)")
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", careerFile)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("career:\n  age: 12\n  sex: male\n"), 0o644))
	_, err = execute(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age must be between")

	_, err = execute(t, "validate", "testdata/missing.yaml")
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{"console", []string{"project", careerFile}, []string{"PENSION PROJECTION", "WORK LONGER", "SUGGESTED PATHS"}},
		{"console lite", []string{"project", careerFile, "--format", "console-lite"}, []string{"PENSION SUMMARY", "Best raise:"}},
		{"csv", []string{"project", careerFile, "-f", "csv"}, []string{"Kind,Name,Years"}},
		{"yaml", []string{"project", careerFile, "-f", "yaml"}, []string{"run_id:", "work_longer:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestProject_JSON(t *testing.T) {
	out, err := execute(t, "project", careerFile, "--format", "json", "--with", "raise_3pct", "--with", "extra_income:amount=800,years=5")
	require.NoError(t, err)

	report := decodeJSON(t, out)
	_, err = uuid.Parse(report["runId"].(string))
	assert.NoError(t, err)

	asOf := report["asOf"].(map[string]any)
	assert.Equal(t, float64(2025), asOf["year"])
	assert.Equal(t, "III", asOf["quarter"])

	assert.Len(t, report["workLonger"], 10)
	assert.Len(t, report["extraIncome"], 36)
	assert.Len(t, report["custom"], 2)
	assert.Contains(t, report, "advice")
}

func TestProject_AsOfOverride(t *testing.T) {
	out, err := execute(t, "project", careerFile, "-f", "json", "--as-of", "2026-Q1")
	require.NoError(t, err)
	asOf := decodeJSON(t, out)["asOf"].(map[string]any)
	assert.Equal(t, float64(2026), asOf["year"])
	assert.Equal(t, "I", asOf["quarter"])

	_, err = execute(t, "project", careerFile, "--as-of", "soon")
	assert.Error(t, err)
}

func TestProject_Errors(t *testing.T) {
	_, err := execute(t, "project", careerFile, "-f", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	_, err = execute(t, "project", careerFile, "--with", "no_such_template")
	assert.Error(t, err)
}

func TestProject_ReferenceDataUnavailable(t *testing.T) {
	out, _, err := executeSplit(t, "project", careerFile, "-f", "json")
	require.NoError(t, err)
	withTables := decodeJSON(t, out)["benefit"].(map[string]any)
	require.Contains(t, withTables, "tableLifeExpectancyMonths")

	out, stderr, err := executeSplit(t, "project", careerFile, "-f", "json", "--lifespan", "testdata/missing.csv")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: Could not load reference data")

	benefit := decodeJSON(t, out)["benefit"].(map[string]any)
	assert.Equal(t, withTables["nominalMonthlyPension"], benefit["nominalMonthlyPension"])
	assert.NotContains(t, benefit, "valorization")
	assert.NotContains(t, benefit, "tableLifeExpectancyMonths")

	// the reference commands still need the tables
	_, err = execute(t, "refdata", "lifespan", "--lifespan", "testdata/missing.csv")
	assert.Error(t, err)
}

func TestScenarios(t *testing.T) {
	out, err := execute(t, "scenarios", careerFile, "--kind", "extra-income", "-f", "json")
	require.NoError(t, err)
	sections := decodeJSON(t, out)
	assert.Len(t, sections["extraIncome"], 36)
	assert.NotContains(t, sections, "workLonger")

	out, err = execute(t, "scenarios", careerFile, "--kind", "custom", "--with", "work_2yr", "-f", "json")
	require.NoError(t, err)
	assert.Len(t, decodeJSON(t, out)["custom"], 1)

	out, err = execute(t, "scenarios", careerFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Baseline pension:")
	assert.Contains(t, out, "SALARY RAISES")

	_, err = execute(t, "scenarios", careerFile, "--kind", "lottery")
	assert.Error(t, err)
}

func TestScenarios_ListTemplates(t *testing.T) {
	out, err := execute(t, "scenarios", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, out, "raise_3pct")
	assert.Contains(t, out, "work_2yr_plus_side_income")

	_, err = execute(t, "scenarios")
	assert.Error(t, err, "an input file is required without --list-templates")
}

func TestAdvise(t *testing.T) {
	out, err := execute(t, "advise", careerFile, "-f", "json")
	require.NoError(t, err)
	advice := decodeJSON(t, out)
	assert.Contains(t, advice, "needsSuggestions")
	suggestions, _ := advice["suggestions"].([]any)
	assert.LessOrEqual(t, len(suggestions), 4)

	out, err = execute(t, "advise", careerFile)
	require.NoError(t, err)
	assert.Contains(t, out, "SUGGESTED PATHS")
}

func TestAdvise_Goal(t *testing.T) {
	_, err := execute(t, "advise", "testdata/no_goal.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--goal")

	out, err := execute(t, "advise", "testdata/no_goal.yaml", "--goal", "100", "-f", "json")
	require.NoError(t, err)
	advice := decodeJSON(t, out)
	assert.Equal(t, false, advice["needsSuggestions"], "a tiny goal is already met")

	_, err = execute(t, "advise", "testdata/no_goal.yaml", "--goal", "-5")
	assert.Error(t, err)
}

func TestGap(t *testing.T) {
	out, err := execute(t, "gap", "--current", "3000", "--target", "5000", "-f", "json")
	require.NoError(t, err)
	gap := decodeJSON(t, out)
	assert.Equal(t, "2000", gap["gap"])
	assert.Equal(t, "40", gap["gapPercentage"])
	assert.Equal(t, true, gap["hasGap"])

	out, err = execute(t, "gap", "--current", "6000", "--target", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "Goal met")

	_, err = execute(t, "gap", "--current", "3000")
	assert.Error(t, err)

	_, err = execute(t, "gap", "--current", "abc", "--target", "5000")
	assert.Error(t, err)
}

func TestGap_FromFile(t *testing.T) {
	out, err := execute(t, "gap", careerFile, "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, "6000", decodeJSON(t, out)["target"])

	out, err = execute(t, "gap", careerFile, "--target", "7000", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, "7000", decodeJSON(t, out)["target"])
}

func TestRefdata(t *testing.T) {
	out, err := execute(t, "refdata", "lifespan", "--age", "65", "--birth-month", "3", "-f", "json")
	require.NoError(t, err)
	view := decodeJSON(t, out)
	assert.Equal(t, float64(65), view["age"])
	assert.NotEmpty(t, view["months"])

	out, err = execute(t, "refdata", "lifespan")
	require.NoError(t, err)
	assert.Contains(t, out, "Month 11")

	_, err = execute(t, "refdata", "lifespan", "--birth-month", "12")
	assert.Error(t, err)

	out, err = execute(t, "refdata", "indexation")
	require.NoError(t, err)
	assert.Contains(t, out, "Primary")

	out, err = execute(t, "refdata", "valorize", "--primary", "1000", "--as-of", "2025-Q3", "-f", "json")
	require.NoError(t, err)
	v := decodeJSON(t, out)
	determination := v["determination"].(map[string]any)
	assert.Equal(t, "III", determination["quarter"])
	assert.Equal(t, "1000", v["primaryBefore"])

	_, err = execute(t, "refdata", "valorize")
	assert.Error(t, err)
}

func TestRefdata_CustomTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "indexation.tsv")
	data := "Indexation\nYear\tQuarter\tPrimary\tSub\n2024\tIV\t112.02%\t109.50%\n2024\tV\t1\t1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	out, err := execute(t, "refdata", "indexation", "--indexation", path, "--delimiter", "tab", "-f", "json")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records), out)
	require.Len(t, records, 1)
	assert.Equal(t, float64(2024), records[0]["year"])
}

func TestResolveServeSettings(t *testing.T) {
	env := map[string]string{
		"PENGO_ADDR":         ":9090",
		"PENGO_DATA_DIR":     "/srv/pengo",
		"PENGO_CORS_ORIGINS": "https://a.example, https://b.example",
	}
	getenv := func(k string) string { return env[k] }

	resetFlags(rootCmd)
	s := resolveServeSettings(serveCmd, getenv)
	assert.Equal(t, ":9090", s.Addr)
	assert.Equal(t, filepath.Join("/srv/pengo", "lifespan.csv"), s.Reference.LifespanFile)
	assert.Equal(t, filepath.Join("/srv/pengo", "indexation.csv"), s.Reference.IndexationFile)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.AllowedOrigins)

	require.NoError(t, serveCmd.Flags().Set("addr", ":7070"))
	require.NoError(t, serveCmd.Flags().Set("cors-origins", ""))
	s = resolveServeSettings(serveCmd, getenv)
	assert.Equal(t, ":7070", s.Addr, "flags override the environment")
	assert.Empty(t, s.AllowedOrigins)

	resetFlags(rootCmd)
	s = resolveServeSettings(serveCmd, func(string) string { return "" })
	assert.Equal(t, defaultAddr, s.Addr)
	assert.Empty(t, s.Reference.LifespanFile)
}
