// ABOUTME: Ruler controller state machine fed by renderer scroll and drag events
// ABOUTME: Tracks the highlighted tick, fires haptics, snaps drags and paginates through a Paginator

package ruler

import "fmt"

// State is the gesture state of the controller
type State int

// Controller states. Snapped is the resting state after a programmatic scroll.
const (
	StateIdle State = iota
	StateDragging
	StateDecelerating
	StateSnapped
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateDecelerating:
		return "decelerating"
	case StateSnapped:
		return "snapped"
	default:
		return "idle"
	}
}

// Renderer is the drawing side of the ruler. The controller pushes layout
// changes to it; the renderer pulls tiers and labels through the query methods.
type Renderer interface {
	SetTickCount(n int)
	ScrollTo(offset float64, animated bool)
	TriggerHapticTick()
}

// Callbacks are the host's event sink. Nil fields are skipped.
type Callbacks struct {
	OnSelect func(index int)      // After a gesture settles
	OnScroll func(offset float64) // On every reported scroll offset
	OnError  func(err error)      // Pagination failures during scrolling
}

type nopRenderer struct{}

func (nopRenderer) SetTickCount(int)       {}
func (nopRenderer) ScrollTo(float64, bool) {}
func (nopRenderer) TriggerHapticTick()     {}

// Controller orchestrates offset mapping, formatting and pagination for one ruler
type Controller struct {
	cfg       Configuration
	inset     float64
	mapper    Mapper
	renderer  Renderer
	formatter ValueFormatter
	paginator Paginator
	callbacks Callbacks

	state         State
	offset        float64
	highlighted   int
	highlightText string
	hapticsArmed  bool
}

// NewController validates cfg, lays out the renderer and snaps to the default value.
// A nil renderer or formatter is replaced by a no-op.
func NewController(cfg Configuration, renderer Renderer, formatter ValueFormatter, callbacks Callbacks) (*Controller, error) {
	if renderer == nil {
		renderer = nopRenderer{}
	}

	if formatter == nil {
		formatter = PlainFormatter{}
	}

	c := &Controller{
		renderer:    renderer,
		formatter:   formatter,
		callbacks:   callbacks,
		highlighted: -1,
	}

	if err := c.SetConfiguration(cfg); err != nil {
		return nil, err
	}

	return c, nil
}

// SetConfiguration replaces the whole configuration, re-lays out and re-snaps to DefaultValue.
// An invalid configuration is rejected and the previous one stays active.
func (c *Controller) SetConfiguration(cfg Configuration) error {
	valid, err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("failed to apply configuration: %w", err)
	}

	c.cfg = valid
	c.mapper = NewMapper(valid, c.inset)
	c.renderer.SetTickCount(valid.Metrics.TickCount())

	// Force a fresh highlight even when the default index did not move
	c.highlighted = -1
	c.ScrollToValue(valid.Metrics.DefaultValue, false)

	return nil
}

// SetMetrics replaces only the metrics part of the configuration
func (c *Controller) SetMetrics(m Metrics) error {
	cfg := c.cfg
	cfg.Metrics = m

	return c.SetConfiguration(cfg)
}

// SetFormatter swaps the value formatter and refreshes the highlight text
func (c *Controller) SetFormatter(f ValueFormatter) {
	if f == nil {
		f = PlainFormatter{}
	}

	c.formatter = f
	c.highlightText = f.HighlightText(c.highlighted)
}

// SetPaginator installs or removes (nil) range pagination
func (c *Controller) SetPaginator(p Paginator) {
	c.paginator = p
}

// SetCallbacks replaces the host event sink
func (c *Controller) SetCallbacks(cb Callbacks) {
	c.callbacks = cb
}

// SetInset updates the leading content inset after a renderer resize
// and keeps the highlighted tick under the indicator
func (c *Controller) SetInset(inset float64) {
	c.inset = inset
	c.mapper.InsetLeading = inset

	if c.highlighted >= 0 {
		c.offset = c.mapper.Offset(c.highlighted)
		c.renderer.ScrollTo(c.offset, false)
	}
}

// BeginDrag starts a user gesture and arms haptic feedback
func (c *Controller) BeginDrag() {
	c.state = StateDragging
	c.hapticsArmed = c.cfg.HapticsEnabled
}

// Scroll handles a raw offset reported by the renderer during any scroll
func (c *Controller) Scroll(offset, inset float64) {
	if inset != c.inset {
		c.inset = inset
		c.mapper.InsetLeading = inset
	}

	c.offset = offset

	index := c.mapper.Index(offset)
	if index != c.highlighted {
		if c.hapticsArmed && c.cfg.HapticsEnabled {
			c.renderer.TriggerHapticTick()
		}

		c.setHighlight(index)
		c.paginate(index)
	}

	if c.callbacks.OnScroll != nil {
		c.callbacks.OnScroll(c.offset)
	}
}

// EndDrag converts a proposed resting offset into the nearest tick offset.
// The boolean is false when precision scroll is disabled and the renderer should keep its own target.
func (c *Controller) EndDrag(proposed float64) (float64, bool) {
	c.state = StateDecelerating

	if !c.cfg.PrecisionScrollEnabled {
		return proposed, false
	}

	return c.mapper.Snap(proposed), true
}

// DecelerationEnded settles the gesture and commits the highlighted tick
func (c *Controller) DecelerationEnded() {
	c.state = StateIdle
	c.hapticsArmed = false

	if c.callbacks.OnSelect != nil && c.highlighted >= 0 {
		c.callbacks.OnSelect(c.highlighted)
	}
}

// ScrollToValue moves the ruler to a logical value without a gesture
func (c *Controller) ScrollToValue(value int, animated bool) {
	value = c.cfg.Metrics.Clamp(value)

	c.state = StateSnapped
	c.offset = c.mapper.OffsetForValue(value)
	c.renderer.ScrollTo(c.offset, animated)
	c.setHighlight(c.cfg.Metrics.IndexOf(value))
}

// ScrollToIndex moves the ruler to a tick index without a gesture
func (c *Controller) ScrollToIndex(index int, animated bool) {
	c.ScrollToValue(c.cfg.Metrics.ValueAt(index), animated)
}

func (c *Controller) setHighlight(index int) {
	c.highlighted = index
	c.highlightText = c.formatter.HighlightText(index)
}

// paginate lets the paginator grow the domain and re-anchors the renderer
// on the default it picked, which keeps the same tick under the indicator
func (c *Controller) paginate(index int) {
	if c.paginator == nil {
		return
	}

	next, changed, err := c.paginator.Paginate(index, c.cfg.Metrics)
	if err != nil {
		if c.callbacks.OnError != nil {
			c.callbacks.OnError(err)
		}

		return
	}

	if !changed {
		return
	}

	next, err = next.Normalize()
	if err != nil {
		if c.callbacks.OnError != nil {
			c.callbacks.OnError(err)
		}

		return
	}

	c.cfg.Metrics = next
	c.mapper = NewMapper(c.cfg, c.inset)
	c.renderer.SetTickCount(next.TickCount())

	c.offset = c.mapper.OffsetForValue(next.DefaultValue)
	c.renderer.ScrollTo(c.offset, false)
	c.setHighlight(next.IndexOf(next.DefaultValue))
}

// Configuration returns the active configuration
func (c *Controller) Configuration() Configuration {
	return c.cfg
}

// Metrics returns the active metrics
func (c *Controller) Metrics() Metrics {
	return c.cfg.Metrics
}

// Mapper returns the offset mapper for the current layout
func (c *Controller) Mapper() Mapper {
	return c.mapper
}

// State returns the gesture state
func (c *Controller) State() State {
	return c.state
}

// Offset returns the last known scroll offset
func (c *Controller) Offset() float64 {
	return c.offset
}

// TickCount returns the number of ticks the renderer should lay out
func (c *Controller) TickCount() int {
	return c.cfg.Metrics.TickCount()
}

// TickTier returns the height tier of a tick
func (c *Controller) TickTier(index int) Tier {
	return Classify(index, c.cfg.Metrics.Divisions)
}

// LineSize returns the line length the renderer should draw for a tick
func (c *Controller) LineSize(index int) float64 {
	return c.cfg.Metrics.LineSize(c.TickTier(index))
}

// DisplayText returns the label under a tick, false for unlabeled ticks
func (c *Controller) DisplayText(index int) (string, bool) {
	return c.formatter.DisplayText(index)
}

// HighlightText returns the indicator text for any tick
func (c *Controller) HighlightText(index int) string {
	return c.formatter.HighlightText(index)
}

// HighlightedIndex returns the tick currently under the indicator
func (c *Controller) HighlightedIndex() int {
	return c.highlighted
}

// HighlightedValue returns the logical value under the indicator
func (c *Controller) HighlightedValue() int {
	return c.cfg.Metrics.ValueAt(c.highlighted)
}

// HighlightedText returns the cached indicator text
func (c *Controller) HighlightedText() string {
	return c.highlightText
}
