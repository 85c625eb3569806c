// ABOUTME: Tests for configuration load/save functionality
// ABOUTME: Validates TOML parsing, default fallback and conversion to ruler settings

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tickruler/ruler"
	"tickruler/timeline"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Ruler.Metrics.Default != 55 {
		t.Errorf("Expected default value 55, got %d", cfg.Ruler.Metrics.Default)
	}

	if !cfg.Ruler.Haptics || !cfg.Ruler.PrecisionScroll {
		t.Error("Expected haptics and precision scroll enabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got: %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tickruler.toml")

	cfg := DefaultConfig()
	cfg.Ruler.LineSpacing = 7.456
	cfg.Ruler.Direction = "vertical"
	cfg.Timeline.Enabled = true
	cfg.Timeline.Span = "days"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Ruler.LineSpacing != 7.46 {
		t.Errorf("LineSpacing = %.3f, want 7.46", loaded.Ruler.LineSpacing)
	}

	if loaded.Ruler.Direction != "vertical" {
		t.Errorf("Direction = %q, want vertical", loaded.Ruler.Direction)
	}

	if !loaded.Timeline.Enabled || loaded.Timeline.Span != "days" {
		t.Errorf("Timeline = %+v, want enabled days", loaded.Timeline)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	// Loading non-existent file should return defaults without error
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Ruler.Metrics.Maximum != defaults.Ruler.Metrics.Maximum {
		t.Errorf("Expected default maximum %d, got %d", defaults.Ruler.Metrics.Maximum, cfg.Ruler.Metrics.Maximum)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	data := "[ruler.metrics]\nmaximum = 300\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Ruler.Metrics.Maximum != 300 {
		t.Errorf("Maximum = %d, want 300", cfg.Ruler.Metrics.Maximum)
	}

	if cfg.Ruler.Metrics.Divisions != 10 || !cfg.Ruler.Haptics {
		t.Errorf("Expected defaults for missing keys, got %+v", cfg.Ruler)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[ruler\nline_spacing = "), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected parse error")
	}

	if cfg.Ruler.LineSpacing != DefaultConfig().Ruler.LineSpacing {
		t.Errorf("Expected defaults on parse error, got LineSpacing %.2f", cfg.Ruler.LineSpacing)
	}
}

func TestToRuler(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ruler.Direction = "vertical"
	cfg.Ruler.Alignment = "start"
	cfg.Ruler.Metrics.Default = 999

	rc, err := cfg.ToRuler()
	if err != nil {
		t.Fatalf("ToRuler failed: %v", err)
	}

	if rc.Direction != ruler.Vertical || rc.Alignment != ruler.AlignStart {
		t.Errorf("Direction/Alignment = %v/%v, want vertical/start", rc.Direction, rc.Alignment)
	}

	if rc.Metrics.DefaultValue != 150 {
		t.Errorf("DefaultValue = %d, want clamped 150", rc.Metrics.DefaultValue)
	}

	back := FromRuler(rc)
	if back.Direction != "vertical" || back.Metrics.Default != 150 {
		t.Errorf("FromRuler = %+v", back)
	}
}

func TestValidateRejectsBadSections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"divisions", func(c *Config) { c.Ruler.Metrics.Divisions = 1 }},
		{"direction", func(c *Config) { c.Ruler.Direction = "sideways" }},
		{"span", func(c *Config) { c.Timeline.Span = "fortnights" }},
		{"timezone", func(c *Config) { c.Timeline.Timezone = "Nowhere/Atlantis" }},
		{"start", func(c *Config) { c.Timeline.Start = "yesterday" }},
		{"epoch min_start", func(c *Config) { c.Timeline.MinStart = "1970-01-01T00:00:00Z" }},
		{"epoch max_end", func(c *Config) { c.Timeline.MaxEnd = "1970-01-01T01:00:00+01:00" }},
		{"bounds", func(c *Config) {
			c.Timeline.MinStart = "2024-01-02T00:00:00Z"
			c.Timeline.MaxEnd = "2024-01-01T00:00:00Z"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestTimelineBoundsAndStart(t *testing.T) {
	tc := TimelineConfig{
		Start:    "2023-01-02T15:04:05Z",
		MinStart: "2023-01-01T00:00:00Z",
	}

	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	start, err := tc.StartTime(now)
	if err != nil {
		t.Fatalf("StartTime failed: %v", err)
	}

	if start.Year() != 2023 {
		t.Errorf("StartTime year = %d, want 2023", start.Year())
	}

	b, err := tc.Bounds()
	if err != nil {
		t.Fatalf("Bounds failed: %v", err)
	}

	want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if b.MinStartMs != want || b.MaxEndMs != 0 {
		t.Errorf("Bounds = %+v, want min %d and no max", b, want)
	}

	unset, _ := TimelineConfig{}.StartTime(now)
	if !unset.Equal(now) {
		t.Errorf("StartTime without start = %v, want now", unset)
	}

	if _, err := (TimelineConfig{MinStart: "1970-01-01T00:00:00Z"}).Bounds(); !errors.Is(err, timeline.ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange for an epoch bound, got %v", err)
	}

	bad := TimelineConfig{MinStart: "2024-01-02T00:00:00Z", MaxEnd: "2024-01-01T00:00:00Z"}
	if _, err := bad.Bounds(); !errors.Is(err, timeline.ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange, got %v", err)
	}
}

func TestSharedConfig(t *testing.T) {
	sc := NewSharedConfig(DefaultConfig())

	cfg := sc.Get()
	cfg.Ruler.LineSpacing = 20
	sc.Update(cfg)

	if sc.Get().Ruler.LineSpacing != 20 {
		t.Errorf("LineSpacing = %.2f, want 20", sc.Get().Ruler.LineSpacing)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.toml")
	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, t.Logf)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	cfg := DefaultConfig()
	cfg.Ruler.LineSpacing = 14
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}

	done := make(chan Config, 1)
	go func() {
		loaded, _ := w.Next()
		done <- loaded
	}()

	select {
	case loaded := <-done:
		if loaded.Ruler.LineSpacing != 14 {
			t.Errorf("Reloaded LineSpacing = %.2f, want 14", loaded.Ruler.LineSpacing)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}
}

func TestWatcherClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.toml")
	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := w.Next(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Next after Close = %v, want ErrWatcherClosed", err)
	}
}
