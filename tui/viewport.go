// ABOUTME: Viewport that maps point-based ruler offsets onto terminal cells
// ABOUTME: Keeps the indicator at the middle cell and lists the ticks visible around it

package tui

import "math"

// Viewport converts between the ruler's point space and terminal cells along the scroll axis.
// The indicator always sits at the middle cell, so the leading inset is the
// distance in points from the first cell to the middle.
type Viewport struct {
	extent        int     // Cells along the scroll axis
	pointsPerCell float64 // Ruler points covered by one cell
}

// PlacedTick is a tick index drawn at a cell
type PlacedTick struct {
	Index int
	Cell  int
}

// NewViewport creates a viewport of extent cells
func NewViewport(extent int, pointsPerCell float64) *Viewport {
	return &Viewport{
		extent:        extent,
		pointsPerCell: pointsPerCell,
	}
}

// SetExtent updates the number of cells along the scroll axis
func (v *Viewport) SetExtent(extent int) {
	v.extent = extent
}

// Extent returns the number of cells along the scroll axis
func (v *Viewport) Extent() int {
	return v.extent
}

// Middle returns the indicator cell
func (v *Viewport) Middle() int {
	return v.extent / 2
}

// Inset returns the leading content inset in points
func (v *Viewport) Inset() float64 {
	return float64(v.Middle()) * v.pointsPerCell
}

// Step returns the number of points one cell covers
func (v *Viewport) Step() float64 {
	return v.pointsPerCell
}

// CellOf returns the cell a tick is drawn at for a scroll offset
func (v *Viewport) CellOf(index int, stride, offset float64) int {
	return int(math.Round((float64(index)*stride - offset) / v.pointsPerCell))
}

// Visible returns the ticks that land inside the viewport, in index order
//
// Ticks that round onto the same cell are all returned; the later one wins when drawn.
func (v *Viewport) Visible(offset, stride float64, count int) []PlacedTick {
	if count <= 0 || stride <= 0 || v.extent <= 0 || v.pointsPerCell <= 0 {
		return nil
	}

	span := float64(v.extent) * v.pointsPerCell

	first := int(math.Floor(offset / stride))
	if first < 0 {
		first = 0
	}

	last := int(math.Ceil((offset + span) / stride))
	if last > count-1 {
		last = count - 1
	}

	if last < first {
		return nil
	}

	ticks := make([]PlacedTick, 0, last-first+1)
	for i := first; i <= last; i++ {
		cell := v.CellOf(i, stride, offset)
		if cell < 0 || cell >= v.extent {
			continue
		}

		ticks = append(ticks, PlacedTick{Index: i, Cell: cell})
	}

	return ticks
}

// lineCells converts a line size in points into whole cells, at least one for any positive size
func lineCells(size, unit float64) int {
	if size <= 0 || unit <= 0 {
		return 0
	}

	n := int(math.Ceil(size / unit))
	if n < 1 {
		return 1
	}

	return n
}

// gapCells converts a spacing in points into whole cells, rounding to nearest
func gapCells(size, unit float64) int {
	if size <= 0 || unit <= 0 {
		return 0
	}

	return int(math.Round(size / unit))
}
