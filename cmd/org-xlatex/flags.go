// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --width, --height, --no-adaptive, --indicator, --interval, --verbose, --version

package main

import "flag"

type cliArgs struct {
	verbose    bool
	version    bool
	width      int
	height     int
	noAdaptive bool
	indicator  bool
	intervalMS int
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")
	flag.IntVar(&args.width, "width", 0, "Default preview width in cells (0 = configured default)")
	flag.IntVar(&args.height, "height", 0, "Default preview height in cells (0 = configured default)")
	flag.BoolVar(&args.noAdaptive, "no-adaptive", false, "Keep the preview at the default size instead of fitting the content")
	flag.BoolVar(&args.indicator, "indicator", false, "Mark the cursor position inside the rendered formula")
	flag.IntVar(&args.intervalMS, "interval", 0, "Cursor poll interval in milliseconds (0 = configured default)")

	flag.Parse()
	return args
}
