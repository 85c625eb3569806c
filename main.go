// ABOUTME: Entry point for the tickruler application
// ABOUTME: Builds the cobra command tree and routes to the TUI or the dump command

// Package main provides the entry point for tickruler, a scrollable ruler and timeline picker.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("Error: %v", err)

		return 1
	}

	return 0
}

// newRootCmd builds the root command with its persistent flags and subcommands
func newRootCmd() *cobra.Command {
	return buildRootCmd(&RunOptions{})
}

// buildRootCmd builds the root command with flags bound to opts
func buildRootCmd(opts *RunOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tickruler [flags]",
		Short: "Scrollable ruler and timeline picker for the terminal",
		Long: `tickruler draws a horizontal or vertical ruler in the terminal and lets you
drag, fling and snap it to pick a value, or a wall-clock instant in timeline mode.

Examples:
  tickruler                                  # Pick a value on the configured ruler
  tickruler --timeline                       # Pick a time around now, ticking in seconds
  tickruler --timeline --span days           # Pick a day
  tickruler --timeline --timezone UTC        # Label ticks in UTC
  tickruler dump --timeline --format json    # Print the timeline ticks as JSON`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "",
		"Config file path (default: ./tickruler.toml or the XDG config dir)")
	flags.BoolVar(&opts.DebugLog, "debug", false,
		"Enable debug logging to "+debugLogFile)
	flags.BoolVar(&opts.Timeline, "timeline", false,
		"Pick wall-clock time instead of a plain value")
	flags.StringVar(&opts.Span, "span", "seconds",
		"Timeline span (seconds, minutes, days)")
	flags.StringVar(&opts.Timezone, "timezone", "Local",
		"Timezone for timeline labels (e.g., Europe/Stockholm, UTC)")
	rootCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false,
		"Don't save the config on quit")

	rootCmd.AddCommand(newDumpCmd(opts))

	return rootCmd
}
