// ABOUTME: Timeline spans and the unit table that sizes ticks, windows and pagination chunks
// ABOUTME: Calendar truncation of instants to the resolution of a span

// Package timeline maps ruler ticks to wall-clock time and paginates the time range.
package timeline

import (
	"fmt"
	"strings"
	"time"
)

// Span is the zoom level of a timeline
type Span int

// Timeline spans, finest first
const (
	Seconds Span = iota
	Minutes
	Days
)

func (s Span) String() string {
	switch s {
	case Minutes:
		return "minutes"
	case Days:
		return "days"
	default:
		return "seconds"
	}
}

// ParseSpan converts a flag or config value into a Span
func ParseSpan(s string) (Span, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "seconds", "second", "sec":
		return Seconds, nil
	case "minutes", "minute", "min":
		return Minutes, nil
	case "days", "day":
		return Days, nil
	}

	return Seconds, fmt.Errorf("%w: unknown span %q", ErrInvalidRange, s)
}

// Next cycles seconds, minutes, days and back to seconds
func (s Span) Next() Span {
	switch s {
	case Seconds:
		return Minutes
	case Minutes:
		return Days
	default:
		return Seconds
	}
}

// SpanSpec sizes one span: the time between ticks, ticks between full lines,
// the visible window after the anchor and the amount added per pagination
type SpanSpec struct {
	Tick      time.Duration
	Divisions int
	Window    time.Duration
	Chunk     time.Duration
}

// UnitTable holds the SpanSpec of every span
type UnitTable struct {
	Seconds SpanSpec
	Minutes SpanSpec
	Days    SpanSpec
}

// DefaultUnitTable returns the stock table used by the timeline ruler.
// Days ticks are fixed 2h steps from a local midnight, so across a DST change
// the full ticks sit at 23:00 or 01:00; Source labels them with the nearest day.
func DefaultUnitTable() UnitTable {
	return UnitTable{
		Seconds: SpanSpec{Tick: time.Second, Divisions: 10, Window: 30 * time.Minute, Chunk: 5 * time.Minute},
		Minutes: SpanSpec{Tick: 6 * time.Second, Divisions: 10, Window: 3 * time.Hour, Chunk: 3 * time.Hour},
		Days:    SpanSpec{Tick: 2 * time.Hour, Divisions: 12, Window: 30 * 24 * time.Hour, Chunk: 30 * 24 * time.Hour},
	}
}

// Spec returns the SpanSpec for a span
func (t UnitTable) Spec(s Span) SpanSpec {
	switch s {
	case Minutes:
		return t.Minutes
	case Days:
		return t.Days
	default:
		return t.Seconds
	}
}

// Validate checks that every span has a positive tick and tick-aligned window and chunk
func (t UnitTable) Validate() error {
	for _, s := range []Span{Seconds, Minutes, Days} {
		spec := t.Spec(s)

		if spec.Tick < time.Millisecond {
			return fmt.Errorf("%w: %s tick must be at least 1ms", ErrInvalidRange, s)
		}

		if spec.Divisions < 2 {
			return fmt.Errorf("%w: %s divisions must be at least 2", ErrInvalidRange, s)
		}

		if spec.Chunk < spec.Tick || spec.Chunk%spec.Tick != 0 {
			return fmt.Errorf("%w: %s chunk %v is not a multiple of tick %v", ErrInvalidRange, s, spec.Chunk, spec.Tick)
		}

		if spec.Window < spec.Tick || spec.Window%spec.Tick != 0 {
			return fmt.Errorf("%w: %s window %v is not a multiple of tick %v", ErrInvalidRange, s, spec.Window, spec.Tick)
		}
	}

	return nil
}

// Truncate rounds an instant down to the resolution of a span in loc.
// Days truncate to local midnight through the calendar, so DST days stay correct.
func Truncate(ms int64, span Span, loc *time.Location) int64 {
	t := time.UnixMilli(ms).In(location(loc))

	switch span {
	case Minutes:
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	case Days:
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	default:
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	}

	return t.UnixMilli()
}

// LoadLocation resolves a timezone name; empty and "Local" mean the system zone
func LoadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local", "local":
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	return loc, nil
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}

	return loc
}
