// ABOUTME: Ruler metrics and configuration value types
// ABOUTME: Validates tick ranges, divisions and stride before they reach the controller

// Package ruler maps scroll offsets to tick indices and drives a scrollable ruler control.
package ruler

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when metrics or configuration cannot produce a usable ruler
var ErrInvalidConfiguration = errors.New("invalid ruler configuration")

// MaxTickCount caps the number of ticks one ruler may hold
const MaxTickCount = 10_000_000

// Direction is the scroll axis of the ruler
type Direction int

// Scroll directions
const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}

	return "horizontal"
}

// ParseDirection converts a config string into a Direction
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	}

	return Horizontal, fmt.Errorf("%w: unknown direction %q", ErrInvalidConfiguration, s)
}

// Alignment places tick lines against the start or the end edge of the cross axis
type Alignment int

// Tick alignments
const (
	AlignEnd Alignment = iota
	AlignStart
)

func (a Alignment) String() string {
	if a == AlignStart {
		return "start"
	}

	return "end"
}

// ParseAlignment converts a config string into an Alignment
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "", "end":
		return AlignEnd, nil
	case "start":
		return AlignStart, nil
	}

	return AlignEnd, fmt.Errorf("%w: unknown alignment %q", ErrInvalidConfiguration, s)
}

// Metrics defines the value range and tick tiers of a ruler
type Metrics struct {
	MinimumValue int
	DefaultValue int
	MaximumValue int
	Divisions    int // Ticks between two full lines

	FullLineSize  float64
	MidLineSize   float64
	SmallLineSize float64
}

// DefaultMetrics returns the metrics a ruler starts with when none are configured
func DefaultMetrics() Metrics {
	return Metrics{
		MinimumValue:  10,
		DefaultValue:  55,
		MaximumValue:  150,
		Divisions:     10,
		FullLineSize:  40,
		MidLineSize:   28,
		SmallLineSize: 18,
	}
}

// Normalize validates the metrics and clamps DefaultValue into [MinimumValue, MaximumValue]
func (m Metrics) Normalize() (Metrics, error) {
	if m.MaximumValue < m.MinimumValue {
		return m, fmt.Errorf("%w: maximum %d is below minimum %d", ErrInvalidConfiguration, m.MaximumValue, m.MinimumValue)
	}

	if m.Divisions < 2 {
		return m, fmt.Errorf("%w: divisions must be at least 2, got %d", ErrInvalidConfiguration, m.Divisions)
	}

	// Wraps negative when the range is wider than an int
	width := m.MaximumValue - m.MinimumValue
	if width < 0 || width >= MaxTickCount {
		return m, fmt.Errorf("%w: range %d..%d exceeds %d ticks", ErrInvalidConfiguration, m.MinimumValue, m.MaximumValue, MaxTickCount)
	}

	m.DefaultValue = m.Clamp(m.DefaultValue)

	return m, nil
}

// Clamp limits a value to the metrics range
func (m Metrics) Clamp(value int) int {
	if value < m.MinimumValue {
		return m.MinimumValue
	}

	if value > m.MaximumValue {
		return m.MaximumValue
	}

	return value
}

// TickCount returns the number of ticks, one per integer value in range
func (m Metrics) TickCount() int {
	if m.MaximumValue < m.MinimumValue {
		return 0
	}

	return m.MaximumValue - m.MinimumValue + 1
}

// MaxIndex returns the last valid tick index
func (m Metrics) MaxIndex() int {
	return m.MaximumValue - m.MinimumValue
}

// ValueAt converts a tick index into its logical value
func (m Metrics) ValueAt(index int) int {
	return m.MinimumValue + index
}

// IndexOf converts a logical value into its tick index
func (m Metrics) IndexOf(value int) int {
	return value - m.MinimumValue
}

// MidDivision is the tick interval of mid-height lines
func (m Metrics) MidDivision() int {
	return m.Divisions / 2
}

// LineSize returns the configured line length for a tier
func (m Metrics) LineSize(t Tier) float64 {
	switch t {
	case TierFull:
		return m.FullLineSize
	case TierMid:
		return m.MidLineSize
	default:
		return m.SmallLineSize
	}
}

// Configuration is the complete, replace-only setup of a ruler
type Configuration struct {
	Direction           Direction
	Alignment           Alignment
	TickSize            float64 // Extent of one tick along the scroll axis
	LineSpacing         float64 // Gap between consecutive ticks
	LineAndLabelSpacing float64
	Metrics             Metrics

	HapticsEnabled         bool
	PrecisionScrollEnabled bool
}

// DefaultConfiguration returns a horizontal, end-aligned ruler with haptics and snapping on
func DefaultConfiguration() Configuration {
	return Configuration{
		Direction:              Horizontal,
		Alignment:              AlignEnd,
		TickSize:               1,
		LineSpacing:            10,
		LineAndLabelSpacing:    6,
		Metrics:                DefaultMetrics(),
		HapticsEnabled:         true,
		PrecisionScrollEnabled: true,
	}
}

// Stride is the distance between the centers of two consecutive ticks
func (c Configuration) Stride() float64 {
	return c.TickSize + c.LineSpacing
}

// IsHorizontal reports whether the ruler scrolls along the x axis
func (c Configuration) IsHorizontal() bool {
	return c.Direction == Horizontal
}

// Validate checks the configuration and returns it with normalized metrics
func (c Configuration) Validate() (Configuration, error) {
	if c.TickSize < 0 || c.LineSpacing < 0 {
		return c, fmt.Errorf("%w: negative tick size or line spacing", ErrInvalidConfiguration)
	}

	if c.Stride() <= 0 {
		return c, fmt.Errorf("%w: stride must be positive, got %.2f", ErrInvalidConfiguration, c.Stride())
	}

	metrics, err := c.Metrics.Normalize()
	if err != nil {
		return c, err
	}

	c.Metrics = metrics

	return c, nil
}
