// ABOUTME: CLI entry point for the org-xlatex terminal demo
// ABOUTME: Parses flags, loads config with CLI overrides, runs the demo host

package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/ksqsf/org-xlatex/internal/config"
	xlog "github.com/ksqsf/org-xlatex/internal/log"
	"github.com/ksqsf/org-xlatex/internal/termhost"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("org-xlatex %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	if args.verbose {
		xlog.SetLevel(xlog.LevelDebug)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the demo needs an interactive terminal")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.Load(cwd, buildCLIOverrides(args))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	return termhost.Run(cfg)
}

// buildCLIOverrides maps set flags onto a config overlay; zero values
// leave the file-configured settings in place.
func buildCLIOverrides(args cliArgs) *config.Options {
	o := &config.Options{
		Width:          args.width,
		Height:         args.height,
		PollIntervalMS: args.intervalMS,
	}
	if args.noAdaptive {
		adaptive := false
		o.AdaptiveSize = &adaptive
	}
	if args.indicator {
		indicator := true
		o.PositionIndicator = &indicator
	}
	return o
}
