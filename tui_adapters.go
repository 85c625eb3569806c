// ABOUTME: Adapter wiring for the TUI dependencies
// ABOUTME: Bridges the config package and the debug log to the TUI interface contracts

package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tickruler/config"
	"tickruler/tui"
)

// startConfigWatcher watches the config file for live reload.
// When create is set a missing file is written with the current config first so there
// is something to watch. Returns nil and a no-op stop when watching is not possible.
func startConfigWatcher(path string, cfg config.Config, create bool) (tui.ConfigWatcher, func()) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if !create {
			return nil, func() {}
		}

		if err := config.SaveConfig(path, cfg); err != nil {
			debugf("[WATCHER] Cannot create %s, live reload disabled: %v", path, err)
			return nil, func() {}
		}
	}

	w, err := config.NewWatcher(path, debugf)
	if err != nil {
		debugf("[WATCHER] Live reload disabled: %v", err)
		return nil, func() {}
	}

	debugf("[WATCHER] Watching %s", w.Path())

	return w, func() {
		if err := w.Close(); err != nil {
			debugf("[WATCHER] Close failed: %v", err)
		}
	}
}

// runTUI runs the interactive ruler
func runTUI(cmd *cobra.Command, opts *RunOptions) error {
	if opts.DebugLog {
		if err := SetupDebugLog(debugLogFile); err != nil {
			return err
		}
	}

	settings, err := LoadSettings(cmd, opts, time.Now())
	if err != nil {
		return err
	}

	// Flags apply to this run only, the saved file keeps its own timeline section
	sharedCfg := config.NewSharedConfig(settings.File)

	watcher, stop := startConfigWatcher(settings.ConfigPath, settings.File, !opts.DryRun)
	defer stop()

	deps := tui.Dependencies{
		ConfigProvider: sharedCfg,
		SaveConfig:     config.SaveConfig,
		Watcher:        watcher,
		Debugf:         debugf,
		ConfigPath:     settings.ConfigPath,
	}

	return tui.Run(tui.Options{
		Timeline: settings.Timeline,
		Span:     settings.Span,
		Location: settings.Location,
		Start:    settings.Start,
		Bounds:   settings.Bounds,
		DryRun:   opts.DryRun,
		DebugLog: opts.DebugLog,
	}, deps)
}
