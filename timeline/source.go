// ABOUTME: Timeline data source plugged into the ruler controller
// ABOUTME: Formats ticks as wall-clock time and paginates the range through an Extender

package timeline

import (
	"fmt"
	"time"

	"tickruler/ruler"
)

// Source is the timeline formatter and paginator for a ruler.Controller
type Source struct {
	rng    Range
	span   Span
	table  UnitTable
	loc    *time.Location
	bounds Bounds
	ext    *Extender
}

// NewSource anchors a timeline at t and returns it with the anchor's tick index
func NewSource(t time.Time, span Span, table UnitTable, loc *time.Location, bounds Bounds) (*Source, int, error) {
	if err := table.Validate(); err != nil {
		return nil, 0, err
	}

	s := &Source{
		table:  table,
		loc:    location(loc),
		bounds: bounds,
	}

	index, err := s.anchor(t, span)
	if err != nil {
		return nil, 0, err
	}

	return s, index, nil
}

// anchor checks the truncated instant, which becomes the highlighted tick, against the bounds
func (s *Source) anchor(t time.Time, span Span) (int, error) {
	anchorMs := Truncate(t.UnixMilli(), span, s.loc)
	if !s.bounds.Contains(anchorMs) {
		return 0, fmt.Errorf("%w: %s tick of %s lies outside the configured bounds", ErrInvalidRange, span, t.In(s.loc).Format(time.RFC3339))
	}

	r, _, err := AnchorRange(t, span, s.table, s.loc)
	if err != nil {
		return 0, err
	}

	r = s.bounds.Clamp(r)
	if err := r.Validate(); err != nil {
		return 0, fmt.Errorf("failed to clamp %s range: %w", span, err)
	}

	s.rng = r
	s.span = span
	s.ext = NewExtender(&s.rng, s.table, span, s.bounds)

	return r.IndexAt(anchorMs), nil
}

// SwitchSpan re-anchors the timeline at ms under a new span and returns the anchor index.
// The current range is kept when re-anchoring fails.
func (s *Source) SwitchSpan(span Span, ms int64) (int, error) {
	prev, prevSpan, prevExt := s.rng, s.span, s.ext

	index, err := s.anchor(time.UnixMilli(ms), span)
	if err != nil {
		s.rng, s.span, s.ext = prev, prevSpan, prevExt
		return 0, err
	}

	return index, nil
}

// DisplayText labels full ticks with their time in the current span
func (s *Source) DisplayText(index int) (string, bool) {
	if ruler.Classify(index, s.rng.Divisions) != ruler.TierFull {
		return "", false
	}

	ms := s.rng.TimeAt(index)
	if s.span == Days {
		ms += s.dayLabelShift()
	}

	return TickLabel(ms, s.span, s.loc), true
}

// dayLabelShift moves a full day tick half a full interval forward before
// labeling. Day ticks are a fixed number of milliseconds apart, so after a DST
// change they land an hour before or after local midnight; the shift names the
// day they belong to either way.
func (s *Source) dayLabelShift() int64 {
	half := s.rng.TickMs * int64(s.rng.Divisions) / 2

	return min(half, (12 * time.Hour).Milliseconds())
}

// HighlightText returns the full date and time of a tick
func (s *Source) HighlightText(index int) string {
	return CurrentTimeLabel(s.rng.TimeAt(index), s.loc)
}

// Paginate extends the range at its edges and returns metrics for the grown range
func (s *Source) Paginate(index int, current ruler.Metrics) (ruler.Metrics, bool, error) {
	ext, err := s.ext.Check(index)
	if err != nil {
		return current, false, err
	}

	if ext.Direction == ExtendNone {
		return current, false, nil
	}

	return s.rng.Metrics(current, ext.DefaultIndex), true, nil
}

// Metrics builds ruler metrics for the current range
func (s *Source) Metrics(template ruler.Metrics, defaultIndex int) ruler.Metrics {
	return s.rng.Metrics(template, defaultIndex)
}

// Range returns a copy of the current range
func (s *Source) Range() Range {
	return s.rng
}

// Span returns the current span
func (s *Source) Span() Span {
	return s.span
}

// Location returns the display timezone
func (s *Source) Location() *time.Location {
	return s.loc
}

// TimeAt returns the instant of a tick
func (s *Source) TimeAt(index int) int64 {
	return s.rng.TimeAt(index)
}

// TimeAtOffset returns the continuous instant under the indicator
func (s *Source) TimeAtOffset(offset, inset, stride float64) int64 {
	return s.rng.TimeAtOffset(offset, inset, stride)
}
