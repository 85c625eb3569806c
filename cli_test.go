// ABOUTME: Tests for the command tree, settings merge and dump output
// ABOUTME: Runs the cobra commands against temporary config files and checks rows

package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"tickruler/config"
	"tickruler/timeline"
)

// executeDump runs the root command with args and returns stdout
func executeDump(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// writeTimelineConfig saves a config anchored at a fixed instant in UTC
func writeTimelineConfig(t *testing.T) string {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Timeline.Start = "2023-01-02T15:04:05Z"
	cfg.Timeline.Timezone = "UTC"

	path := filepath.Join(t.TempDir(), "tickruler.toml")
	if err := config.SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	return path
}

func TestDumpJSONPlainRuler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	out, err := executeDump(t, "dump", "--config", path, "--format", "json", "--from", "40", "--to", "50")
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	var rows []TickRow
	if err := sonic.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, out)
	}

	if len(rows) != 11 {
		t.Fatalf("Got %d rows, want 11", len(rows))
	}

	first := rows[0]
	if first.Index != 40 || first.Value != 50 || first.Tier != "full" || first.Label != "50" {
		t.Errorf("First row = %+v", first)
	}

	// Value 55 sits on a mid tick without a label
	mid := rows[5]
	if mid.Value != 55 || mid.Tier != "mid" || mid.Label != "" || mid.LineSize != 28 {
		t.Errorf("Mid row = %+v", mid)
	}

	if rows[1].Tier != "small" {
		t.Errorf("rows[1].Tier = %q, want small", rows[1].Tier)
	}
}

func TestDumpTimelineTable(t *testing.T) {
	path := writeTimelineConfig(t)

	out, err := executeDump(t, "dump", "--config", path, "--timeline", "--span", "days", "--from", "360", "--to", "362")
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("Got %d lines, want header, separator and 3 rows:\n%s", len(lines), out)
	}

	// Index 360 is the anchor day, one window of 2h ticks after the range start
	if !strings.Contains(lines[2], "January 2nd 2023 - 00:00:00 AM") {
		t.Errorf("Anchor row = %q", lines[2])
	}

	if !strings.Contains(lines[4], "04:00:00") {
		t.Errorf("Last row = %q", lines[4])
	}
}

func TestDumpRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	_, err := executeDump(t, "dump", "--config", path, "--format", "xml")
	if !errors.Is(err, errUnknownFormat) {
		t.Errorf("Expected errUnknownFormat, got %v", err)
	}

	_, err = executeDump(t, "dump", "--config", path, "--from", "100", "--to", "10")
	if err == nil {
		t.Error("Expected error for --from past --to")
	}

	_, err = executeDump(t, "dump", "--config", path, "--timeline", "--span", "weeks")
	if !errors.Is(err, timeline.ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange for bad span, got %v", err)
	}
}

func TestDumpBounds(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		wantFrom int
		wantTo   int
		wantErr  bool
	}{
		{"whole range", 0, -1, 0, 140, false},
		{"clamped to", 10, 500, 10, 140, false},
		{"negative from", -5, 20, 0, 20, false},
		{"inverted", 50, 10, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := dumpBounds(tt.from, tt.to, 140)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && (from != tt.wantFrom || to != tt.wantTo) {
				t.Errorf("dumpBounds = %d..%d, want %d..%d", from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestLoadSettingsFlagsOverrideConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timeline.Span = "days"
	cfg.Timeline.Timezone = "UTC"

	path := filepath.Join(t.TempDir(), "tickruler.toml")
	if err := config.SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}

	opts := &RunOptions{}
	cmd := buildRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--config", path, "--timeline", "--span", "minutes"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	s, err := LoadSettings(cmd, opts, now)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if !s.Timeline {
		t.Error("--timeline should enable the timeline")
	}

	if s.Span != timeline.Minutes {
		t.Errorf("Span = %v, want minutes from the flag", s.Span)
	}

	// Unset flags keep the file value
	if s.Location.String() != "UTC" {
		t.Errorf("Location = %v, want UTC from the config", s.Location)
	}

	if !s.Start.Equal(now) {
		t.Errorf("Start = %v, want now", s.Start)
	}

	if s.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", s.ConfigPath, path)
	}
}

func TestFlagOverridesAreNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.toml")

	opts := &RunOptions{}
	cmd := buildRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--config", path, "--timeline", "--span", "days", "--timezone", "UTC"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	s, err := LoadSettings(cmd, opts, time.Now())
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if !s.Timeline || s.Config.Timeline.Span != "days" {
		t.Errorf("Effective timeline = %+v, want enabled days", s.Config.Timeline)
	}

	// Creating the missing file for the watcher writes the on-disk config
	_, stop := startConfigWatcher(path, s.File, true)
	stop()

	saved, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := config.DefaultConfig().Timeline
	if saved.Timeline != want {
		t.Errorf("Persisted timeline = %+v, want %+v", saved.Timeline, want)
	}
}

func TestNewController(t *testing.T) {
	plain, src, err := NewController(Settings{Config: config.DefaultConfig()})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}

	if src != nil || plain.HighlightedText() != "55" {
		t.Errorf("Plain controller: source %v highlight %q", src, plain.HighlightedText())
	}

	tl, src, err := NewController(Settings{
		Config:   config.DefaultConfig(),
		Timeline: true,
		Span:     timeline.Seconds,
		Location: time.UTC,
		Start:    time.Date(2023, 1, 2, 15, 4, 5, 678_000_000, time.UTC),
	})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}

	if src == nil || tl.HighlightedIndex() != 300 {
		t.Errorf("Timeline controller: source %v index %d, want 300", src, tl.HighlightedIndex())
	}
}
