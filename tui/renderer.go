// ABOUTME: Terminal side of the ruler renderer contract
// ABOUTME: Holds the displayed offset, eases animated scrolls and flashes the indicator on haptic ticks

package tui

import (
	"math"
	"time"
)

const (
	easeFactor    = 0.35                   // Fraction of the remaining distance covered per frame
	settleEpsilon = 0.25                   // Points from target at which an animation lands
	hapticFlash   = 120 * time.Millisecond // How long the indicator stays lit after a tick
)

// termRenderer implements ruler.Renderer for the terminal
type termRenderer struct {
	tickCount  int
	offset     float64
	target     float64
	animating  bool
	haptics    int
	flashUntil time.Time
	now        func() time.Time
}

func newTermRenderer() *termRenderer {
	return &termRenderer{now: time.Now}
}

// SetTickCount records the number of ticks to lay out
func (r *termRenderer) SetTickCount(n int) {
	r.tickCount = n
}

// ScrollTo moves the displayed offset. A jump during an animation shifts the
// animation target by the same distance so a fling survives pagination.
func (r *termRenderer) ScrollTo(offset float64, animated bool) {
	if animated {
		r.target = offset
		r.animating = true

		return
	}

	if r.animating {
		r.target += offset - r.offset
	} else {
		r.target = offset
	}

	r.offset = offset
}

// TriggerHapticTick lights the indicator briefly
func (r *termRenderer) TriggerHapticTick() {
	r.haptics++
	r.flashUntil = r.now().Add(hapticFlash)
}

// flashing reports whether the indicator is lit
func (r *termRenderer) flashing() bool {
	return r.now().Before(r.flashUntil)
}

// animateTo starts an eased scroll towards target
func (r *termRenderer) animateTo(target float64) {
	r.target = target
	r.animating = true
}

// moveBy shifts the displayed offset directly, as a finger drag does
func (r *termRenderer) moveBy(delta float64) {
	r.offset += delta
	r.target = r.offset
}

// stop cancels any running animation where it is
func (r *termRenderer) stop() {
	r.animating = false
	r.target = r.offset
}

// advance moves one frame towards the target and reports whether the animation landed
func (r *termRenderer) advance() bool {
	if !r.animating {
		return true
	}

	diff := r.target - r.offset
	if math.Abs(diff) <= settleEpsilon {
		r.offset = r.target
		r.animating = false

		return true
	}

	r.offset += diff * easeFactor

	return false
}
