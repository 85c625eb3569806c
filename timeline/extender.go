// ABOUTME: Boundary-triggered pagination of a timeline range
// ABOUTME: Grows the range by one chunk per edge hit and reports how indices moved

package timeline

import "fmt"

// ExtendDirection tells which edge of the range grew
type ExtendDirection int

// Extension directions
const (
	ExtendNone ExtendDirection = iota
	ExtendForward
	ExtendBackward
)

func (d ExtendDirection) String() string {
	switch d {
	case ExtendForward:
		return "forward"
	case ExtendBackward:
		return "backward"
	default:
		return "none"
	}
}

// Bounds pins absolute limits on pagination. Zero fields are unbounded, so a
// limit exactly at the Unix epoch cannot be expressed.
type Bounds struct {
	MinStartMs int64
	MaxEndMs   int64
}

// Extension describes one growth step. Shift is how far every existing index
// moved up; DefaultIndex is the new index of the tick that triggered it.
type Extension struct {
	Direction    ExtendDirection
	Shift        int
	DefaultIndex int
}

// Extender grows a Range when the live index reaches either edge.
// An edge fires once and stays disarmed until an interior index is observed.
type Extender struct {
	Range  *Range
	Table  UnitTable
	Span   Span
	Bounds Bounds

	startFired bool
	endFired   bool
}

// NewExtender returns an armed extender over r
func NewExtender(r *Range, table UnitTable, span Span, bounds Bounds) *Extender {
	return &Extender{Range: r, Table: table, Span: span, Bounds: bounds}
}

// Check inspects the live index and extends the range when it sits on an armed edge.
// On error the range is left unchanged.
func (e *Extender) Check(index int) (Extension, error) {
	last := e.Range.MaxIndex()

	if index > 0 && index < last {
		e.startFired = false
		e.endFired = false

		return Extension{}, nil
	}

	chunk := e.Table.Spec(e.Span).Chunk.Milliseconds()

	if index >= last && !e.endFired {
		e.endFired = true
		return e.forward(last, chunk)
	}

	if index <= 0 && !e.startFired {
		e.startFired = true
		return e.backward(chunk)
	}

	return Extension{}, nil
}

func (e *Extender) forward(last int, chunk int64) (Extension, error) {
	end := e.Range.EndMs + chunk
	if end < e.Range.EndMs {
		return Extension{}, fmt.Errorf("failed to extend forward: %w", ErrRangeTooLarge)
	}

	if e.Bounds.MaxEndMs != 0 && end > e.Bounds.MaxEndMs {
		end = e.Bounds.MaxEndMs
	}

	next := *e.Range
	next.EndMs = end

	if next.MaxIndex() <= last {
		return Extension{}, nil
	}

	if err := next.Validate(); err != nil {
		return Extension{}, fmt.Errorf("failed to extend forward: %w", err)
	}

	*e.Range = next

	return Extension{Direction: ExtendForward, DefaultIndex: last}, nil
}

func (e *Extender) backward(chunk int64) (Extension, error) {
	tick := e.Range.TickMs
	if tick <= 0 {
		return Extension{}, fmt.Errorf("failed to extend backward: %w", ErrInvalidRange)
	}

	steps := chunk / tick
	start := e.Range.StartMs - steps*tick
	if start > e.Range.StartMs {
		return Extension{}, fmt.Errorf("failed to extend backward: %w", ErrRangeTooLarge)
	}

	if e.Bounds.MinStartMs != 0 && start < e.Bounds.MinStartMs {
		// Whole ticks only, so existing ticks keep their instants
		steps = (e.Range.StartMs - e.Bounds.MinStartMs) / tick
		if steps < 0 {
			steps = 0
		}

		start = e.Range.StartMs - steps*tick
	}

	if steps == 0 {
		return Extension{}, nil
	}

	next := *e.Range
	next.StartMs = start

	if err := next.Validate(); err != nil {
		return Extension{}, fmt.Errorf("failed to extend backward: %w", err)
	}

	*e.Range = next

	return Extension{Direction: ExtendBackward, Shift: int(steps), DefaultIndex: int(steps)}, nil
}
