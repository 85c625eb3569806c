// ABOUTME: TUI mode configuration and command-line options
// ABOUTME: Defines input parameters and injected dependencies for running the TUI

package tui

import (
	"time"

	"tickruler/config"
	"tickruler/timeline"
)

// Options contains configuration for running the TUI
type Options struct {
	Timeline bool            // Wall-clock timeline instead of a plain value ruler
	Span     timeline.Span   // Initial timeline span
	Location *time.Location  // Display timezone for timeline labels
	Start    time.Time       // Timeline anchor
	Bounds   timeline.Bounds // Absolute pagination limits
	DryRun   bool            // If true, don't save config on quit
	DebugLog bool            // Enable debug logging to file
}

// Dependencies holds all external dependencies for the TUI
// This allows for clean dependency injection and easy testing
type Dependencies struct {
	ConfigProvider ConfigProvider
	SaveConfig     func(path string, cfg config.Config) error
	Watcher        ConfigWatcher // Optional live reload source
	Debugf         func(format string, args ...interface{})
	ConfigPath     string
}
