// ABOUTME: Cell grid drawing of the ruler for horizontal and vertical layouts
// ABOUTME: Places tick lines by tier, centers labels with display widths and marks the indicator

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tickruler/ruler"
)

// Tick glyphs by tier and axis
var (
	verticalGlyphs   = map[ruler.Tier]string{ruler.TierFull: "┃", ruler.TierMid: "│", ruler.TierSmall: "╎"}
	horizontalGlyphs = map[ruler.Tier]string{ruler.TierFull: "━", ruler.TierMid: "─", ruler.TierSmall: "╌"}
	tierStyles       = map[ruler.Tier]lipgloss.Style{
		ruler.TierFull:  fullTickStyle,
		ruler.TierMid:   midTickStyle,
		ruler.TierSmall: smallTickStyle,
	}
)

// gridCell is one terminal cell. An empty text marks the second half of a wide rune.
type gridCell struct {
	text   string
	style  lipgloss.Style
	styled bool
}

// grid is a fixed-size block of cells
type grid struct {
	rows  [][]gridCell
	width int
}

func newGrid(height, width int) *grid {
	rows := make([][]gridCell, height)
	for r := range rows {
		rows[r] = make([]gridCell, width)
		for c := range rows[r] {
			rows[r][c] = gridCell{text: " "}
		}
	}

	return &grid{rows: rows, width: width}
}

// set places a single-width glyph, ignoring out of range cells
func (g *grid) set(row, col int, text string, style lipgloss.Style) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= g.width {
		return
	}

	g.rows[row][col] = gridCell{text: text, style: style, styled: true}
}

// restyle changes the style of a cell without touching its text
func (g *grid) restyle(row, col int, style lipgloss.Style) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= g.width {
		return
	}

	g.rows[row][col].style = style
	g.rows[row][col].styled = true
}

// writeText writes text starting at col and reports false, writing nothing,
// when it would leave the row or cover another non-blank cell
func (g *grid) writeText(row, col int, text string) bool {
	if row < 0 || row >= len(g.rows) || col < 0 {
		return false
	}

	end := col + runewidth.StringWidth(text)
	if end > g.width {
		return false
	}

	for c := col; c < end; c++ {
		if g.rows[row][c].text != " " {
			return false
		}
	}

	c := col
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}

		g.rows[row][c] = gridCell{text: string(r)}
		for i := 1; i < w; i++ {
			g.rows[row][c+i] = gridCell{}
		}

		c += w
	}

	return true
}

// String joins the rows, styling cells that carry a style
func (g *grid) String() string {
	var b strings.Builder

	for r, row := range g.rows {
		for _, cell := range row {
			if cell.styled {
				b.WriteString(cell.style.Render(cell.text))
			} else {
				b.WriteString(cell.text)
			}
		}

		if r < len(g.rows)-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// indicatorCellStyle returns the indicator style, lit while a haptic tick flashes
func (m model) indicatorCellStyle() lipgloss.Style {
	if m.view.flashing() {
		return hapticStyle
	}

	return indicatorStyle
}

// renderHorizontal draws a ruler scrolling along x: highlight text, marker, then the tick grid
func (m model) renderHorizontal() string {
	cfg := m.ctrl.Configuration()
	extent := m.viewport.Extent()
	middle := m.viewport.Middle()

	lineRows := lineCells(cfg.Metrics.FullLineSize, pointsPerRow)
	gap := gapCells(cfg.LineAndLabelSpacing, pointsPerRow)
	height := lineRows + gap + 1

	// AlignEnd hangs lines from the bottom edge with labels on top
	labelRow := 0
	lineBase := height - 1
	lineDir := -1
	if cfg.Alignment == ruler.AlignStart {
		labelRow = height - 1
		lineBase = 0
		lineDir = 1
	}

	g := newGrid(height, extent)
	ticks := m.viewport.Visible(m.view.offset, cfg.Stride(), m.ctrl.TickCount())

	for _, t := range ticks {
		tier := m.ctrl.TickTier(t.Index)
		length := min(lineCells(m.ctrl.LineSize(t.Index), pointsPerRow), lineRows)

		for i := 0; i < length; i++ {
			g.set(lineBase+lineDir*i, t.Cell, verticalGlyphs[tier], tierStyles[tier])
		}
	}

	for _, t := range ticks {
		label, ok := m.ctrl.DisplayText(t.Index)
		if !ok || label == "" {
			continue
		}

		// Overlapping labels are skipped, the earlier one stays
		g.writeText(labelRow, t.Cell-runewidth.StringWidth(label)/2, label)
	}

	for r := 0; r < height; r++ {
		g.restyle(r, middle, m.indicatorCellStyle())
	}

	highlight := lipgloss.PlaceHorizontal(extent, lipgloss.Center, highlightStyle.Render(m.ctrl.HighlightedText()))
	marker := strings.Repeat(" ", middle) + m.indicatorCellStyle().Render("▼")

	return highlight + "\n" + marker + "\n" + g.String()
}

// renderVertical draws a ruler scrolling along y with labels beside the lines
// and the highlight text next to the indicator row
func (m model) renderVertical() string {
	cfg := m.ctrl.Configuration()
	extent := m.viewport.Extent()
	middle := m.viewport.Middle()

	lineCols := lineCells(cfg.Metrics.FullLineSize, pointsPerColumn)
	gap := gapCells(cfg.LineAndLabelSpacing, pointsPerColumn)
	width := verticalLabelWidth + gap + lineCols

	// AlignEnd anchors lines on the right edge with labels on the left
	labelCol := 0
	lineBase := width - 1
	lineDir := -1
	if cfg.Alignment == ruler.AlignStart {
		labelCol = lineCols + gap
		lineBase = 0
		lineDir = 1
	}

	g := newGrid(extent, width)
	ticks := m.viewport.Visible(m.view.offset, cfg.Stride(), m.ctrl.TickCount())

	for _, t := range ticks {
		tier := m.ctrl.TickTier(t.Index)
		length := min(lineCells(m.ctrl.LineSize(t.Index), pointsPerColumn), lineCols)

		for i := 0; i < length; i++ {
			g.set(t.Cell, lineBase+lineDir*i, horizontalGlyphs[tier], tierStyles[tier])
		}

		label, ok := m.ctrl.DisplayText(t.Index)
		if !ok || label == "" {
			continue
		}

		label = runewidth.Truncate(label, verticalLabelWidth, "…")
		if cfg.Alignment == ruler.AlignStart {
			g.writeText(t.Cell, labelCol, label)
		} else {
			g.writeText(t.Cell, labelCol+verticalLabelWidth-runewidth.StringWidth(label), label)
		}
	}

	for c := 0; c < width; c++ {
		g.restyle(middle, c, m.indicatorCellStyle())
	}

	rows := strings.Split(g.String(), "\n")
	if middle < len(rows) {
		rows[middle] += " " + m.indicatorCellStyle().Render("◀") + " " + highlightStyle.Render(m.ctrl.HighlightedText())
	}

	return strings.Join(rows, "\n")
}
