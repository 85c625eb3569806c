// ABOUTME: Shared initialization code for the TUI and dump modes
// ABOUTME: Merges flags over the config file, builds the ruler source and sets up debug logging

package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tickruler/config"
	"tickruler/ruler"
	"tickruler/timeline"
)

const debugLogFile = "tickruler-debug.log"

var debugLog *log.Logger

// RunOptions contains command-line options for all modes
type RunOptions struct {
	ConfigPath string
	DebugLog   bool
	Timeline   bool
	Span       string
	Timezone   string
	DryRun     bool
}

// Settings is the effective configuration after flags are applied.
// File keeps the config as read from disk; flag overrides never reach it, so it
// is the one to save back.
type Settings struct {
	Config     config.Config
	File       config.Config
	ConfigPath string
	Timeline   bool
	Span       timeline.Span
	Location   *time.Location
	Start      time.Time
	Bounds     timeline.Bounds
}

// LoadSettings loads the config file and applies flags the user set explicitly
func LoadSettings(cmd *cobra.Command, opts *RunOptions, now time.Time) (Settings, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		// Malformed file: keep going on defaults, but say so
		debugf("[CONFIG] Failed to load %s, using defaults: %v", path, err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
	}

	file := cfg

	flags := cmd.Flags()
	if flags.Changed("timeline") {
		cfg.Timeline.Enabled = opts.Timeline
	}

	if flags.Changed("span") {
		cfg.Timeline.Span = opts.Span
	}

	if flags.Changed("timezone") {
		cfg.Timeline.Timezone = opts.Timezone
	}

	if err := cfg.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}

	span, err := timeline.ParseSpan(cfg.Timeline.Span)
	if err != nil {
		return Settings{}, err
	}

	loc, err := timeline.LoadLocation(cfg.Timeline.Timezone)
	if err != nil {
		return Settings{}, err
	}

	start, err := cfg.Timeline.StartTime(now)
	if err != nil {
		return Settings{}, err
	}

	bounds, err := cfg.Timeline.Bounds()
	if err != nil {
		return Settings{}, err
	}

	debugf("[CONFIG] Loaded %s: timeline=%v span=%s tz=%s", path, cfg.Timeline.Enabled, span, loc)

	return Settings{
		Config:     cfg,
		File:       file,
		ConfigPath: path,
		Timeline:   cfg.Timeline.Enabled,
		Span:       span,
		Location:   loc,
		Start:      start,
		Bounds:     bounds,
	}, nil
}

// NewController builds a renderer-less controller for the effective settings.
// Timeline settings get a timeline source as formatter and paginator.
func NewController(s Settings) (*ruler.Controller, *timeline.Source, error) {
	rc, err := s.Config.ToRuler()
	if err != nil {
		return nil, nil, err
	}

	if !s.Timeline {
		ctrl, err := ruler.NewController(rc, nil, nil, ruler.Callbacks{})
		if err != nil {
			return nil, nil, err
		}

		ctrl.SetFormatter(ruler.PlainFormatter{Titles: ruler.ValueLabels(ctrl.Metrics)})

		return ctrl, nil, nil
	}

	src, index, err := timeline.NewSource(s.Start, s.Span, timeline.DefaultUnitTable(), s.Location, s.Bounds)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build timeline: %w", err)
	}

	rc.Metrics = src.Metrics(rc.Metrics, index)

	ctrl, err := ruler.NewController(rc, nil, src, ruler.Callbacks{})
	if err != nil {
		return nil, nil, err
	}

	ctrl.SetPaginator(src)

	return ctrl, src, nil
}

// SetupDebugLog initializes debug logging
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	if isTTY(os.Stdout) {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return nil
}

// InitDebugLog initializes debug logging
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// debugf logs debug messages if enabled
func debugf(format string, args ...interface{}) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
