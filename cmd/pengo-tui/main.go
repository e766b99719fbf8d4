package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/rgehrsitz/pengo/internal/tui"
)

const usage = "Usage: pengo-tui [--as-of DATE] <config-file>"

var errUsage = errors.New(usage)

// parseArgs turns the command line into TUI options
func parseArgs(args []string, stderr io.Writer) (tui.Options, error) {
	fs := flag.NewFlagSet("pengo-tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asOf := fs.String("as-of", "", "Reference date: 2025, 2025-Q3 or 2025-07-01 (default: file as_of, then today)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return tui.Options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return tui.Options{}, errUsage
	}
	return tui.Options{ConfigPath: fs.Arg(0), AsOf: *asOf}, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Check if config file exists
	if _, err := os.Stat(opts.ConfigPath); os.IsNotExist(err) {
		fmt.Printf("Error: Config file not found: %s\n", opts.ConfigPath)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
