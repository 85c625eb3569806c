// ABOUTME: Builds a timeline range around an anchor instant
// ABOUTME: Used at startup and on every span switch so the anchor stays under the indicator

package timeline

import (
	"fmt"
	"time"
)

// AnchorRange truncates t to the span and opens a range one chunk before it and
// one window after it. It returns the range and the index of the anchor.
func AnchorRange(t time.Time, span Span, table UnitTable, loc *time.Location) (Range, int, error) {
	spec := table.Spec(span)
	if spec.Tick < time.Millisecond {
		return Range{}, 0, fmt.Errorf("%w: %s tick must be at least 1ms", ErrInvalidRange, span)
	}

	anchor := Truncate(t.UnixMilli(), span, loc)

	r := Range{
		StartMs:   anchor - spec.Chunk.Milliseconds(),
		EndMs:     anchor + spec.Window.Milliseconds(),
		TickMs:    spec.Tick.Milliseconds(),
		Divisions: spec.Divisions,
	}

	if err := r.Validate(); err != nil {
		return Range{}, 0, fmt.Errorf("failed to anchor %s range: %w", span, err)
	}

	return r, r.IndexAt(anchor), nil
}

// Clamp limits a range to the bounds. The start moves by whole ticks so
// tick instants are preserved.
func (b Bounds) Clamp(r Range) Range {
	if b.MinStartMs != 0 && r.StartMs < b.MinStartMs && r.TickMs > 0 {
		steps := (b.MinStartMs - r.StartMs + r.TickMs - 1) / r.TickMs
		r.StartMs += steps * r.TickMs
	}

	if b.MaxEndMs != 0 && r.EndMs > b.MaxEndMs {
		r.EndMs = b.MaxEndMs
	}

	return r
}

// Contains reports whether ms lies within the bounds
func (b Bounds) Contains(ms int64) bool {
	if b.MinStartMs != 0 && ms < b.MinStartMs {
		return false
	}

	if b.MaxEndMs != 0 && ms > b.MaxEndMs {
		return false
	}

	return true
}
