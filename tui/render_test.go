// ABOUTME: Tests for the cell grid used to draw rulers
// ABOUTME: Verifies label placement, overlap rejection and wide rune handling

package tui

import (
	"strings"
	"testing"
)

func TestGridWriteText(t *testing.T) {
	g := newGrid(1, 10)

	if !g.writeText(0, 0, "12") {
		t.Fatal("First label should fit")
	}

	if g.writeText(0, 1, "34") {
		t.Error("Overlapping label should be rejected")
	}

	if g.writeText(0, 9, "56") {
		t.Error("Label past the edge should be rejected")
	}

	if !g.writeText(0, 3, "日本") {
		t.Error("Wide label should fit in four cells")
	}

	if got := g.String(); got != "12 日本   " {
		t.Errorf("String = %q", got)
	}
}

func TestGridSetIgnoresOutOfRange(t *testing.T) {
	g := newGrid(2, 3)
	g.set(5, 0, "x", fullTickStyle)
	g.set(0, -1, "x", fullTickStyle)
	g.restyle(9, 9, indicatorStyle)

	if got := g.String(); got != "   \n   " {
		t.Errorf("String = %q", got)
	}

	g.set(1, 1, "┃", fullTickStyle)
	if !strings.Contains(g.String(), "┃") {
		t.Error("Expected tick glyph")
	}
}
