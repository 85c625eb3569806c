// ABOUTME: Tests for boundary-triggered range extension
// ABOUTME: Monotonic growth, preserved instants, edge disarm, bounds and overflow

package timeline

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStart = int64(1_672_671_845_000) // 2023-01-02 15:04:05 UTC

func secondsRange() Range {
	return Range{
		StartMs:   testStart,
		EndMs:     testStart + (30 * time.Minute).Milliseconds(),
		TickMs:    1000,
		Divisions: 10,
	}
}

func TestExtendForward(t *testing.T) {
	r := secondsRange()
	e := NewExtender(&r, DefaultUnitTable(), Seconds, Bounds{})

	before := r.TimeAt(1800)

	ext, err := e.Check(1800)
	require.NoError(t, err)

	assert.Equal(t, ExtendForward, ext.Direction)
	assert.Equal(t, 1800, ext.DefaultIndex)
	assert.Equal(t, 0, ext.Shift)
	assert.Equal(t, testStart, r.StartMs)
	assert.Equal(t, 2100, r.MaxIndex())
	assert.Equal(t, before, r.TimeAt(ext.DefaultIndex))
}

func TestExtendForwardMonotonic(t *testing.T) {
	r := secondsRange()
	e := NewExtender(&r, DefaultUnitTable(), Seconds, Bounds{})

	prev := r.MaxIndex()
	for i := 0; i < 20; i++ {
		ext, err := e.Check(r.MaxIndex())
		require.NoError(t, err)
		require.Equal(t, ExtendForward, ext.Direction)

		assert.Greater(t, r.MaxIndex(), prev)
		assert.Equal(t, testStart, r.StartMs)
		assert.Equal(t, int64(1000), r.TickMs)
		assert.Equal(t, 10, r.Divisions)

		prev = r.MaxIndex()

		// Moving off the edge re-arms it
		_, err = e.Check(1)
		require.NoError(t, err)
	}
}

func TestExtendBackwardPreservesInstant(t *testing.T) {
	r := secondsRange()
	e := NewExtender(&r, DefaultUnitTable(), Seconds, Bounds{})

	oldMax := r.MaxIndex()

	ext, err := e.Check(0)
	require.NoError(t, err)

	assert.Equal(t, ExtendBackward, ext.Direction)
	assert.Equal(t, 300, ext.Shift)
	assert.Equal(t, 300, ext.DefaultIndex)
	assert.Equal(t, testStart, r.TimeAt(ext.DefaultIndex))
	assert.Equal(t, oldMax+300, r.MaxIndex())
}

func TestExtendEdgeDisarm(t *testing.T) {
	r := secondsRange()
	e := NewExtender(&r, DefaultUnitTable(), Seconds, Bounds{})

	ext, err := e.Check(0)
	require.NoError(t, err)
	require.Equal(t, ExtendBackward, ext.Direction)
	start := r.StartMs

	ext, err = e.Check(0)
	require.NoError(t, err)
	assert.Equal(t, ExtendNone, ext.Direction)
	assert.Equal(t, start, r.StartMs)

	ext, err = e.Check(5)
	require.NoError(t, err)
	assert.Equal(t, ExtendNone, ext.Direction)

	ext, err = e.Check(0)
	require.NoError(t, err)
	assert.Equal(t, ExtendBackward, ext.Direction)
}

func TestExtendRespectsBounds(t *testing.T) {
	r := secondsRange()
	bounds := Bounds{
		MinStartMs: testStart - 2500,
		MaxEndMs:   r.EndMs + (2 * time.Minute).Milliseconds(),
	}
	e := NewExtender(&r, DefaultUnitTable(), Seconds, bounds)

	ext, err := e.Check(r.MaxIndex())
	require.NoError(t, err)
	assert.Equal(t, ExtendForward, ext.Direction)
	assert.Equal(t, 1920, r.MaxIndex())

	_, _ = e.Check(10)
	ext, err = e.Check(r.MaxIndex())
	require.NoError(t, err)
	assert.Equal(t, ExtendNone, ext.Direction)
	assert.Equal(t, 1920, r.MaxIndex())

	ext, err = e.Check(0)
	require.NoError(t, err)
	assert.Equal(t, ExtendBackward, ext.Direction)
	assert.Equal(t, 2, ext.Shift)
	assert.Equal(t, testStart-2000, r.StartMs)

	// Pinned at the bound, repeated edge hits never loop
	for i := 0; i < 3; i++ {
		_, _ = e.Check(10)
		ext, err = e.Check(0)
		require.NoError(t, err)
		assert.Equal(t, ExtendNone, ext.Direction)
	}
	assert.Equal(t, testStart-2000, r.StartMs)
}

func TestExtendTooLarge(t *testing.T) {
	r := Range{StartMs: 1000, EndMs: 1000 + (MaxTickCount-100)*1000, TickMs: 1000, Divisions: 10}
	require.NoError(t, r.Validate())
	before := r

	e := NewExtender(&r, DefaultUnitTable(), Seconds, Bounds{})

	_, err := e.Check(r.MaxIndex())
	require.ErrorIs(t, err, ErrRangeTooLarge)
	assert.Equal(t, before, r)
}

func TestExtendOverflow(t *testing.T) {
	r := Range{StartMs: math.MaxInt64 - 10_000, EndMs: math.MaxInt64 - 1000, TickMs: 1000, Divisions: 10}
	before := r

	e := NewExtender(&r, DefaultUnitTable(), Seconds, Bounds{})

	_, err := e.Check(r.MaxIndex())
	require.ErrorIs(t, err, ErrRangeTooLarge)
	assert.Equal(t, before, r)
}

func TestExtendDirectionString(t *testing.T) {
	assert.Equal(t, "forward", ExtendForward.String())
	assert.Equal(t, "backward", ExtendBackward.String())
	assert.Equal(t, "none", ExtendNone.String())
}
