// ABOUTME: Millisecond time range addressed by tick index
// ABOUTME: Converts between indices, instants, scroll offsets and ruler metrics

package timeline

import (
	"errors"
	"fmt"
	"math"

	"tickruler/ruler"
)

var (
	// ErrInvalidRange is returned for malformed ranges, spans and unit tables
	ErrInvalidRange = errors.New("invalid timeline range")

	// ErrRangeTooLarge is returned when a range would overflow or hold more than MaxTickCount ticks
	ErrRangeTooLarge = errors.New("timeline range too large")
)

// MaxTickCount caps the number of ticks a range may hold, matching the ruler's cap
const MaxTickCount = ruler.MaxTickCount

// Range is the time domain of a timeline ruler. Index 0 is StartMs;
// the last index is the final whole tick at or before EndMs.
type Range struct {
	StartMs   int64
	EndMs     int64
	TickMs    int64
	Divisions int
}

// Validate checks tick size, ordering, divisions and size limits
func (r Range) Validate() error {
	if r.TickMs <= 0 {
		return fmt.Errorf("%w: tick must be positive, got %dms", ErrInvalidRange, r.TickMs)
	}

	if r.EndMs < r.StartMs {
		return fmt.Errorf("%w: end %d is before start %d", ErrInvalidRange, r.EndMs, r.StartMs)
	}

	if r.Divisions < 2 {
		return fmt.Errorf("%w: divisions must be at least 2, got %d", ErrInvalidRange, r.Divisions)
	}

	width := r.EndMs - r.StartMs
	if width < 0 {
		return fmt.Errorf("%w: span from %d to %d overflows", ErrRangeTooLarge, r.StartMs, r.EndMs)
	}

	if width/r.TickMs+1 > MaxTickCount {
		return fmt.Errorf("%w: %d ticks exceeds %d", ErrRangeTooLarge, width/r.TickMs+1, MaxTickCount)
	}

	return nil
}

// MaxIndex returns the last tick index
func (r Range) MaxIndex() int {
	if r.TickMs <= 0 || r.EndMs < r.StartMs {
		return 0
	}

	return int((r.EndMs - r.StartMs) / r.TickMs)
}

// TickCount returns the number of ticks in the range
func (r Range) TickCount() int {
	return r.MaxIndex() + 1
}

// TimeAt returns the instant of a tick
func (r Range) TimeAt(index int) int64 {
	return r.StartMs + int64(index)*r.TickMs
}

// IndexAt returns the tick at or before ms, clamped to the range
func (r Range) IndexAt(ms int64) int {
	if r.TickMs <= 0 || ms <= r.StartMs {
		return 0
	}

	index := (ms - r.StartMs) / r.TickMs
	if index > int64(r.MaxIndex()) {
		return r.MaxIndex()
	}

	return int(index)
}

// TimeAtOffset returns the continuous instant under the indicator for a raw
// scroll offset, between ticks when the ruler rests off-grid
func (r Range) TimeAtOffset(offset, inset, stride float64) int64 {
	if stride <= 0 {
		return r.StartMs
	}

	position := (offset + inset) / stride
	if math.IsNaN(position) || position <= 0 {
		return r.StartMs
	}

	if position >= float64(r.MaxIndex()) {
		return r.TimeAt(r.MaxIndex())
	}

	return r.StartMs + int64(math.Round(position*float64(r.TickMs)))
}

// Metrics builds ruler metrics over the range, copying line sizes from template
func (r Range) Metrics(template ruler.Metrics, defaultIndex int) ruler.Metrics {
	m := template
	m.MinimumValue = 0
	m.MaximumValue = r.MaxIndex()
	m.DefaultValue = defaultIndex
	m.Divisions = r.Divisions

	return m
}
