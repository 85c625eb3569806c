// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model that drives a ruler controller as its renderer

// Package tui provides an interactive terminal ruler and timeline picker.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tickruler/config"
	"tickruler/ruler"
	"tickruler/timeline"
)

// Panel identifiers
const (
	panelParams = "params"
	panelRuler  = "ruler"
)

// Layout constants for UI dimensions
const (
	paramPanelWidth = 36 // Left panel width for parameter controls
	panelPadding    = 2  // Horizontal spacing between panels

	// UI chrome heights (elements that reduce available ruler space)
	titleHeight     = 2 // Panel title bars
	highlightHeight = 2 // Highlight text and indicator marker
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	spacingHeight   = 1 // Vertical spacing between elements
	totalUIChrome   = titleHeight + highlightHeight + statusBarHeight + helpHeight + spacingHeight

	// Minimum cells along the scroll axis
	minRulerExtent = 10
)

// Terminal geometry: ruler sizes are in points, the terminal draws in cells
const (
	pointsPerCell      = 5.5  // Along the scroll axis, two cells per tick at the default stride
	pointsPerRow       = 10.0 // Line length across a horizontal ruler
	pointsPerColumn    = 4.0  // Line length across a vertical ruler
	verticalLabelWidth = 14
)

// Gesture and interaction constants
const (
	dragIdleTimeout       = 250 * time.Millisecond // Key drag ends when no step arrives for this long
	frameInterval         = 16 * time.Millisecond  // Deceleration frame rate
	flingTicks            = 12                     // Ticks a fling travels before snapping
	wheelCells            = 3                      // Cells per mouse wheel notch
	statusMessageDuration = 5 * time.Second        // How long to show transient status messages
	maxUndoStackSize      = 50                     // Maximum undo/redo history items
)

// dragIdleMsg releases a key drag unless a newer step arrived
type dragIdleMsg struct{ gen int }

// frameMsg advances a deceleration or programmatic scroll
type frameMsg struct{ gen int }

// flashDoneMsg redraws after the haptic flash expires
type flashDoneMsg struct{}

// configReloadMsg carries a config reloaded from disk
type configReloadMsg struct {
	cfg config.Config
	err error
}

// rulerEvents collects controller callbacks between model copies
type rulerEvents struct {
	selected []int
	errs     []error
}

// model holds the TUI state
type model struct {
	// Dependencies
	sharedConfig ConfigProvider
	saveConfig   func(string, config.Config) error
	watcher      ConfigWatcher
	debugf       func(string, ...interface{})
	configPath   string
	dryRun       bool

	// Configuration
	localConfig *config.Config // Local config that params point to (pointer so addresses stay valid)
	paramMgr    *ParamManager

	// Ruler
	ctrl     *ruler.Controller
	view     *termRenderer
	viewport *Viewport
	source   *timeline.Source // Nil for plain value rulers
	events   *rulerEvents

	// Selection history
	undoMgr   *UndoManager
	committed Selection

	// Gesture generations, stale timer messages are dropped
	dragGen int
	animGen int

	// UI state
	help         help.Model
	width        int
	height       int
	quitting     bool
	statusMsg    string    // Temporary status message (e.g., "Span: minutes")
	statusMsgAge time.Time // When status message was set
	focusedPanel string    // "params" or "ruler" - which panel has focus
}

// Key bindings
type keyMap struct {
	Left         key.Binding
	Right        key.Binding
	Up           key.Binding
	Down         key.Binding
	FlingBack    key.Binding
	FlingForward key.Binding
	Home         key.Binding
	End          key.Binding
	Default      key.Binding
	Span         key.Binding
	Undo         key.Binding
	Redo         key.Binding
	Reset        key.Binding
	Tab          key.Binding
	Help         key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "drag back"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "drag forward"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "select param"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "select param"),
	),
	FlingBack: key.NewBinding(
		key.WithKeys("shift+left", "shift+up", "pgup"),
		key.WithHelp("shift+←/pgup", "fling back"),
	),
	FlingForward: key.NewBinding(
		key.WithKeys("shift+right", "shift+down", "pgdown"),
		key.WithHelp("shift+→/pgdn", "fling forward"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home/g", "minimum"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end/G", "maximum"),
	),
	Default: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "default"),
	),
	Span: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "switch span"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset params"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch panel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns the bindings shown in the collapsed help line
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.FlingForward, k.Span, k.Tab, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.FlingBack, k.FlingForward, k.Home, k.End, k.Default},
		{k.Span, k.Undo, k.Redo, k.Reset},
		{k.Tab, k.Help, k.Quit},
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	paramStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedParamStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("15")).
				Bold(true).
				Padding(0, 1)

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	indicatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	hapticStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("9")).
			Foreground(lipgloss.Color("15")).
			Bold(true)

	fullTickStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	midTickStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	smallTickStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)
)

// Run starts the TUI with injected dependencies and prints the final selection
func Run(opts Options, deps Dependencies) error {
	m, err := newModel(opts, deps)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if fm, ok := finalModel.(model); ok {
		fmt.Printf("\nSelected: %s\n", fm.selectionText(fm.committed))

		if fm.dryRun {
			fmt.Println("--dry-run mode: config not saved")
		}
	}

	return nil
}

// newModel creates the initial model with injected dependencies
func newModel(opts Options, deps Dependencies) (model, error) {
	cfg := deps.ConfigProvider.Get()

	// Allocate localConfig on heap so pointers remain valid
	localConfig := &cfg

	rc, err := localConfig.ToRuler()
	if err != nil {
		return model{}, fmt.Errorf("invalid ruler config: %w", err)
	}

	debugf := deps.Debugf
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	saveConfig := deps.SaveConfig
	if saveConfig == nil {
		saveConfig = config.SaveConfig
	}

	m := model{
		sharedConfig: deps.ConfigProvider,
		saveConfig:   saveConfig,
		watcher:      deps.Watcher,
		debugf:       debugf,
		configPath:   deps.ConfigPath,
		dryRun:       opts.DryRun,

		localConfig: localConfig,
		paramMgr:    NewParamManager(newParameters(localConfig, opts.Timeline)),

		view:     newTermRenderer(),
		viewport: NewViewport(0, pointsPerCell),
		events:   &rulerEvents{},
		undoMgr:  NewUndoManager(maxUndoStackSize),

		help:         help.New(),
		focusedPanel: panelRuler,
	}

	events := m.events
	callbacks := ruler.Callbacks{
		OnSelect: func(index int) { events.selected = append(events.selected, index) },
		OnError:  func(err error) { events.errs = append(events.errs, err) },
	}

	if opts.Timeline {
		start := opts.Start
		if start.IsZero() {
			start = time.Now()
		}

		src, index, err := timeline.NewSource(start, opts.Span, timeline.DefaultUnitTable(), opts.Location, opts.Bounds)
		if err != nil {
			return model{}, fmt.Errorf("failed to build timeline: %w", err)
		}

		rc.Metrics = src.Metrics(rc.Metrics, index)

		ctrl, err := ruler.NewController(rc, m.view, src, callbacks)
		if err != nil {
			return model{}, err
		}

		ctrl.SetPaginator(src)
		m.ctrl = ctrl
		m.source = src
	} else {
		ctrl, err := ruler.NewController(rc, m.view, nil, callbacks)
		if err != nil {
			return model{}, err
		}

		ctrl.SetFormatter(ruler.PlainFormatter{Titles: ruler.ValueLabels(ctrl.Metrics)})
		m.ctrl = ctrl
	}

	m.committed = m.currentSelection()
	m.debugf("[TUI] Ruler ready: %d ticks, highlighted %d, timeline=%v", m.ctrl.TickCount(), m.ctrl.HighlightedIndex(), opts.Timeline)

	return m, nil
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if m.watcher != nil {
		cmds = append(cmds, waitForConfigChange(m.watcher))
	}

	return tea.Batch(cmds...)
}

// waitForConfigChange waits for the next config reload and returns it as a message
func waitForConfigChange(w ConfigWatcher) tea.Cmd {
	return func() tea.Msg {
		cfg, err := w.Next()
		return configReloadMsg{cfg: cfg, err: err}
	}
}

// frameTick schedules the next animation frame for generation gen
func frameTick(gen int) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

// dragIdleTick schedules the release of the key drag with generation gen
func dragIdleTick(gen int) tea.Cmd {
	return tea.Tick(dragIdleTimeout, func(time.Time) tea.Msg {
		return dragIdleMsg{gen: gen}
	})
}

// currentSelection snapshots the highlighted position
func (m *model) currentSelection() Selection {
	s := Selection{Value: m.ctrl.HighlightedValue()}
	if m.source != nil {
		s.TimeMs = m.source.TimeAt(m.ctrl.HighlightedIndex())
		s.Span = m.source.Span()
	}

	return s
}

// selectionText formats a selection for the status bar and exit message
func (m *model) selectionText(s Selection) string {
	if m.source != nil {
		return timeline.CurrentTimeLabel(s.TimeMs, m.source.Location())
	}

	return fmt.Sprintf("%d", s.Value)
}

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// isHorizontal reports whether the ruler scrolls along x
func (m *model) isHorizontal() bool {
	return m.ctrl.Configuration().IsHorizontal()
}

// resize recomputes the scroll extent and keeps the highlighted tick under the indicator
func (m *model) resize() {
	extent := m.height - totalUIChrome
	if m.isHorizontal() {
		extent = m.width - paramPanelWidth - panelPadding*2
	}

	if extent < minRulerExtent {
		extent = minRulerExtent
	}

	m.viewport.SetExtent(extent)
	m.ctrl.SetInset(m.viewport.Inset())
}

// offsetBounds returns the offsets of the first and last tick
func (m *model) offsetBounds() (float64, float64) {
	mapper := m.ctrl.Mapper()
	return mapper.Offset(0), mapper.Offset(m.ctrl.TickCount() - 1)
}

// clampOffset keeps an offset within the tick range
func (m *model) clampOffset(offset float64) float64 {
	lo, hi := m.offsetBounds()
	if offset < lo {
		return lo
	}

	if offset > hi {
		return hi
	}

	return offset
}

// cancelAnimation stops a running deceleration and invalidates its frames
func (m *model) cancelAnimation() {
	m.view.stop()
	m.animGen++
}

// startAnimation begins a new frame loop towards the renderer target
func (m *model) startAnimation() tea.Cmd {
	m.animGen++
	return frameTick(m.animGen)
}

// drainEvents applies controller callbacks collected since the last call
func (m *model) drainEvents() {
	for range m.events.selected {
		m.commit()
	}

	for _, err := range m.events.errs {
		m.debugf("[RULER] Error: %v", err)
		m.setStatusMsg(fmt.Sprintf("Error: %v", err))
	}

	m.events.selected = m.events.selected[:0]
	m.events.errs = m.events.errs[:0]
}

// commit records the highlighted position as the new selection
func (m *model) commit() {
	cur := m.currentSelection()
	if cur == m.committed {
		return
	}

	m.undoMgr.Push(m.committed)
	m.committed = cur
	m.debugf("[TUI] Selected %s (Undo: %d)", m.selectionText(cur), m.undoMgr.UndoSize())
}
