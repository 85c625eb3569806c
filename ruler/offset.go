// ABOUTME: Conversions between continuous scroll offsets and discrete tick indices
// ABOUTME: Snap targets and scroll-to-value offsets for the renderer

package ruler

import "math"

// Mapper converts scroll offsets to tick indices and back.
// InsetLeading is the content inset before the first tick, normally half the visible extent,
// which places the tick at the returned offset under the center indicator.
type Mapper struct {
	Stride       float64
	InsetLeading float64
	MinimumValue int
	ItemCount    int
}

// NewMapper builds a mapper for a configuration and a leading inset
func NewMapper(cfg Configuration, inset float64) Mapper {
	return Mapper{
		Stride:       cfg.Stride(),
		InsetLeading: inset,
		MinimumValue: cfg.Metrics.MinimumValue,
		ItemCount:    cfg.Metrics.TickCount(),
	}
}

// Index returns the tick nearest to offset, clamped to [0, ItemCount-1]
func (m Mapper) Index(offset float64) int {
	if m.ItemCount <= 0 || m.Stride <= 0 {
		return 0
	}

	raw := math.Round((offset + m.InsetLeading) / m.Stride)

	last := m.ItemCount - 1
	switch {
	case raw <= 0 || math.IsNaN(raw):
		return 0
	case raw >= float64(last):
		return last
	}

	return int(raw)
}

// Offset returns the scroll offset that centers the tick at index
func (m Mapper) Offset(index int) float64 {
	return float64(index)*m.Stride - m.InsetLeading
}

// OffsetForValue returns the scroll offset that centers the tick holding value
func (m Mapper) OffsetForValue(value int) float64 {
	return float64(value-m.MinimumValue)*m.Stride - m.InsetLeading
}

// Snap returns the offset of the valid tick nearest to a proposed resting offset
func (m Mapper) Snap(proposed float64) float64 {
	return m.Offset(m.Index(proposed))
}

// Position returns the continuous, unrounded tick position under the indicator.
// Hosts that keep raw offsets when precision scroll is off read sub-tick values from it.
func (m Mapper) Position(offset float64) float64 {
	if m.Stride <= 0 {
		return 0
	}

	return (offset + m.InsetLeading) / m.Stride
}
