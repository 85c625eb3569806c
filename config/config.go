// ABOUTME: Configuration management for ruler geometry, metrics and timeline settings
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"tickruler/ruler"
	"tickruler/timeline"
)

const (
	localConfigFile = "./tickruler.toml"
	xdgConfigFile   = "tickruler/config.toml"
)

// MetricsConfig holds the value range and tick line sizes
type MetricsConfig struct {
	Minimum   int `toml:"minimum"`
	Default   int `toml:"default"`
	Maximum   int `toml:"maximum"`
	Divisions int `toml:"divisions"`

	FullLineSize  float64 `toml:"full_line_size"`
	MidLineSize   float64 `toml:"mid_line_size"`
	SmallLineSize float64 `toml:"small_line_size"`
}

// RulerConfig holds the ruler geometry and behavior switches
type RulerConfig struct {
	Direction           string        `toml:"direction"` // horizontal or vertical
	Alignment           string        `toml:"alignment"` // start or end
	TickSize            float64       `toml:"tick_size"`
	LineSpacing         float64       `toml:"line_spacing"`
	LineAndLabelSpacing float64       `toml:"line_and_label_spacing"`
	Haptics             bool          `toml:"haptics"`
	PrecisionScroll     bool          `toml:"precision_scroll"`
	Metrics             MetricsConfig `toml:"metrics"`
}

// TimelineConfig switches the ruler to wall-clock time
type TimelineConfig struct {
	Enabled  bool   `toml:"enabled"`
	Span     string `toml:"span"`      // seconds, minutes or days
	Timezone string `toml:"timezone"`  // IANA name, empty or "Local" for the system zone
	Start    string `toml:"start"`     // RFC3339 anchor, empty for now
	MinStart string `toml:"min_start"` // RFC3339 pagination limits, empty for none; the Unix epoch itself is rejected
	MaxEnd   string `toml:"max_end"`
}

// Config is the persisted application configuration
type Config struct {
	Ruler    RulerConfig    `toml:"ruler"`
	Timeline TimelineConfig `toml:"timeline"`
}

// DefaultConfig returns the stock horizontal ruler
func DefaultConfig() Config {
	rc := ruler.DefaultConfiguration()

	return Config{
		Ruler:    FromRuler(rc),
		Timeline: TimelineConfig{Span: timeline.Seconds.String(), Timezone: "Local"},
	}
}

// FromRuler converts a ruler configuration into its persisted form
func FromRuler(rc ruler.Configuration) RulerConfig {
	m := rc.Metrics

	return RulerConfig{
		Direction:           rc.Direction.String(),
		Alignment:           rc.Alignment.String(),
		TickSize:            rc.TickSize,
		LineSpacing:         rc.LineSpacing,
		LineAndLabelSpacing: rc.LineAndLabelSpacing,
		Haptics:             rc.HapticsEnabled,
		PrecisionScroll:     rc.PrecisionScrollEnabled,
		Metrics: MetricsConfig{
			Minimum:       m.MinimumValue,
			Default:       m.DefaultValue,
			Maximum:       m.MaximumValue,
			Divisions:     m.Divisions,
			FullLineSize:  m.FullLineSize,
			MidLineSize:   m.MidLineSize,
			SmallLineSize: m.SmallLineSize,
		},
	}
}

// ToRuler converts the persisted ruler section into a validated ruler configuration
func (c Config) ToRuler() (ruler.Configuration, error) {
	direction, err := ruler.ParseDirection(c.Ruler.Direction)
	if err != nil {
		return ruler.Configuration{}, err
	}

	alignment, err := ruler.ParseAlignment(c.Ruler.Alignment)
	if err != nil {
		return ruler.Configuration{}, err
	}

	m := c.Ruler.Metrics
	rc := ruler.Configuration{
		Direction:              direction,
		Alignment:              alignment,
		TickSize:               c.Ruler.TickSize,
		LineSpacing:            c.Ruler.LineSpacing,
		LineAndLabelSpacing:    c.Ruler.LineAndLabelSpacing,
		HapticsEnabled:         c.Ruler.Haptics,
		PrecisionScrollEnabled: c.Ruler.PrecisionScroll,
		Metrics: ruler.Metrics{
			MinimumValue:  m.Minimum,
			DefaultValue:  m.Default,
			MaximumValue:  m.Maximum,
			Divisions:     m.Divisions,
			FullLineSize:  m.FullLineSize,
			MidLineSize:   m.MidLineSize,
			SmallLineSize: m.SmallLineSize,
		},
	}

	return rc.Validate()
}

// Validate checks both sections without applying them
func (c Config) Validate() error {
	if _, err := c.ToRuler(); err != nil {
		return fmt.Errorf("invalid [ruler] section: %w", err)
	}

	if _, err := timeline.ParseSpan(c.Timeline.Span); err != nil {
		return fmt.Errorf("invalid [timeline] section: %w", err)
	}

	if _, err := timeline.LoadLocation(c.Timeline.Timezone); err != nil {
		return fmt.Errorf("invalid [timeline] section: %w", err)
	}

	if _, err := c.Timeline.Bounds(); err != nil {
		return fmt.Errorf("invalid [timeline] section: %w", err)
	}

	if _, err := c.Timeline.StartTime(time.Now()); err != nil {
		return fmt.Errorf("invalid [timeline] section: %w", err)
	}

	return nil
}

// StartTime returns the configured anchor, or now when unset
func (t TimelineConfig) StartTime(now time.Time) (time.Time, error) {
	if t.Start == "" {
		return now, nil
	}

	start, err := time.Parse(time.RFC3339, t.Start)
	if err != nil {
		return now, fmt.Errorf("failed to parse start %q: %w", t.Start, err)
	}

	return start, nil
}

// Bounds returns the pagination limits.
// timeline.Bounds reads 0 as unbounded, so a limit at the Unix epoch is an error.
func (t TimelineConfig) Bounds() (timeline.Bounds, error) {
	var b timeline.Bounds

	if t.MinStart != "" {
		ms, err := parseBound("min_start", t.MinStart)
		if err != nil {
			return b, err
		}
		b.MinStartMs = ms
	}

	if t.MaxEnd != "" {
		ms, err := parseBound("max_end", t.MaxEnd)
		if err != nil {
			return b, err
		}
		b.MaxEndMs = ms
	}

	if b.MinStartMs != 0 && b.MaxEndMs != 0 && b.MaxEndMs < b.MinStartMs {
		return b, fmt.Errorf("%w: max_end is before min_start", timeline.ErrInvalidRange)
	}

	return b, nil
}

func parseBound(name, value string) (int64, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s %q: %w", name, value, err)
	}

	if ts.UnixMilli() == 0 {
		return 0, fmt.Errorf("%w: %s at the Unix epoch would disable the limit", timeline.ErrInvalidRange, name)
	}

	return ts.UnixMilli(), nil
}

// GetConfigPath returns the default config file path
// First tries current directory, then the XDG config directory
func GetConfigPath() string {
	if _, err := os.Stat(localConfigFile); err == nil {
		return localConfigFile
	}

	if path, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return path
	}

	path, err := xdg.ConfigFile(xdgConfigFile)
	if err != nil {
		return localConfigFile
	}

	return path
}

// LoadConfig loads configuration from a TOML file
// Keys missing from the file keep their defaults; a missing file returns defaults without error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Round sizes to the precision the params panel edits in
	config = roundConfigPrecision(config)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// roundConfigPrecision rounds all float64 fields to 2 decimal places
func roundConfigPrecision(config Config) Config {
	round := func(x float64) float64 {
		return math.Round(x*100) / 100
	}

	r := &config.Ruler
	r.TickSize = round(r.TickSize)
	r.LineSpacing = round(r.LineSpacing)
	r.LineAndLabelSpacing = round(r.LineAndLabelSpacing)
	r.Metrics.FullLineSize = round(r.Metrics.FullLineSize)
	r.Metrics.MidLineSize = round(r.Metrics.MidLineSize)
	r.Metrics.SmallLineSize = round(r.Metrics.SmallLineSize)

	return config
}

// SharedConfig wraps Config with a mutex for access from the watcher goroutine and the UI
type SharedConfig struct {
	mu     sync.RWMutex
	config Config
}

// NewSharedConfig returns a SharedConfig holding config
func NewSharedConfig(config Config) *SharedConfig {
	return &SharedConfig{config: config}
}

// Get returns a copy of the current config (thread-safe read)
func (sc *SharedConfig) Get() Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// Update updates the config (thread-safe write)
func (sc *SharedConfig) Update(config Config) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.config = config
}
