package main

import (
	"bytes"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantPath string
		wantAsOf string
		wantErr  error
	}{
		{name: "file only", args: []string{"career.yaml"}, wantPath: "career.yaml"},
		{name: "as-of before file", args: []string{"--as-of", "2025-Q3", "career.yaml"}, wantPath: "career.yaml", wantAsOf: "2025-Q3"},
		{name: "as-of after file", args: []string{"career.yaml", "--as-of=2026"}, wantPath: "career.yaml", wantAsOf: "2026"},
		{name: "missing file", args: nil, wantErr: errUsage},
		{name: "two files", args: []string{"a.yaml", "b.yaml"}, wantErr: errUsage},
		{name: "help", args: []string{"--help"}, wantErr: flag.ErrHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			opts, err := parseArgs(tt.args, &stderr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, stderr.String(), "Usage: pengo-tui")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, opts.ConfigPath)
			assert.Equal(t, tt.wantAsOf, opts.AsOf)
		})
	}
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseArgs([]string{"--bogus", "career.yaml"}, &stderr)
	assert.Error(t, err)
}
