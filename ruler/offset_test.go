// ABOUTME: Tests for offset to index mapping
// ABOUTME: Checks round trips, clamping, rounding and snap targets

package ruler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMapper() Mapper {
	return NewMapper(DefaultConfiguration(), 40)
}

func TestMapperRoundTrip(t *testing.T) {
	m := testMapper()

	for i := 0; i < m.ItemCount; i++ {
		assert.Equal(t, i, m.Index(m.Offset(i)), "index %d", i)
	}
}

func TestMapperOffsetForValue(t *testing.T) {
	m := testMapper()

	// 55 sits 45 ticks above the minimum of 10
	assert.Equal(t, 45*11.0-40, m.OffsetForValue(55))
	assert.Equal(t, m.Offset(45), m.OffsetForValue(55))
	assert.Equal(t, 45, m.Index(m.OffsetForValue(55)))
}

func TestMapperIndexRounding(t *testing.T) {
	m := testMapper()
	base := m.Offset(10)

	assert.Equal(t, 10, m.Index(base+5.4))
	assert.Equal(t, 11, m.Index(base+5.5))
	assert.Equal(t, 10, m.Index(base-5.4))
	assert.Equal(t, 9, m.Index(base-5.6))
}

func TestMapperIndexClamps(t *testing.T) {
	m := testMapper()

	assert.Equal(t, 0, m.Index(-10000))
	assert.Equal(t, m.ItemCount-1, m.Index(1e9))
	assert.Equal(t, 0, m.Index(math.NaN()))

	empty := Mapper{Stride: 11}
	assert.Equal(t, 0, empty.Index(500))

	flat := Mapper{Stride: 0, ItemCount: 10}
	assert.Equal(t, 0, flat.Index(500))
}

func TestMapperSnap(t *testing.T) {
	m := testMapper()

	assert.Equal(t, m.Offset(12), m.Snap(m.Offset(12)+3))
	assert.Equal(t, m.Offset(13), m.Snap(m.Offset(12)+7))
	assert.Equal(t, m.Offset(0), m.Snap(-5000))
	assert.Equal(t, m.Offset(m.ItemCount-1), m.Snap(5e6))
}

func TestMapperPosition(t *testing.T) {
	m := testMapper()

	assert.InDelta(t, 12.5, m.Position(m.Offset(12)+5.5), 1e-9)
	assert.Equal(t, 0.0, Mapper{}.Position(100))
}
