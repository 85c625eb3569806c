// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tickruler/config"
	"tickruler/ruler"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

		return m, nil

	case dragIdleMsg:
		// A newer step restarted the idle timer
		if msg.gen != m.dragGen || m.ctrl.State() != ruler.StateDragging {
			return m, nil
		}

		return m, m.release(m.view.offset)

	case frameMsg:
		if msg.gen != m.animGen {
			return m, nil
		}

		return m, m.handleFrame()

	case flashDoneMsg:
		return m, nil

	case configReloadMsg:
		return m, m.handleConfigReload(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m.handleQuitKey()

		case key.Matches(msg, keys.Tab):
			m.handleTabKey()

		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, keys.FlingBack):
			return m, m.fling(-1)

		case key.Matches(msg, keys.FlingForward):
			return m, m.fling(1)

		case key.Matches(msg, keys.Left):
			return m, m.handleLeftKey()

		case key.Matches(msg, keys.Right):
			return m, m.handleRightKey()

		case key.Matches(msg, keys.Up):
			return m, m.handleUpKey()

		case key.Matches(msg, keys.Down):
			return m, m.handleDownKey()

		case key.Matches(msg, keys.Home):
			return m, m.scrollToValue(m.ctrl.Metrics().MinimumValue)

		case key.Matches(msg, keys.End):
			return m, m.scrollToValue(m.ctrl.Metrics().MaximumValue)

		case key.Matches(msg, keys.Default):
			return m, m.scrollToValue(m.ctrl.Metrics().DefaultValue)

		case key.Matches(msg, keys.Span):
			m.switchSpan()

		case key.Matches(msg, keys.Reset):
			m.resetToDefaults()

		case key.Matches(msg, keys.Undo):
			return m, m.undo()

		case key.Matches(msg, keys.Redo):
			return m, m.redo()
		}
	}

	return m, nil
}

// handleQuitKey handles the quit key press
func (m *model) handleQuitKey() (model, tea.Cmd) {
	m.quitting = true

	if m.dryRun {
		m.debugf("[TUI] Dry run, config not saved")
		return *m, tea.Quit
	}

	// Save config on quit
	if err := m.saveConfig(m.configPath, m.sharedConfig.Get()); err != nil {
		m.debugf("[TUI] Failed to save config on quit: %v", err)
		// Continue anyway - don't block quit on config save failure
	}

	return *m, tea.Quit
}

// handleTabKey handles panel switching
func (m *model) handleTabKey() {
	if m.focusedPanel == panelParams {
		m.focusedPanel = panelRuler
	} else {
		m.focusedPanel = panelParams
	}
}

// handleLeftKey adjusts the selected param or drags a horizontal ruler back
func (m *model) handleLeftKey() tea.Cmd {
	if m.focusedPanel == panelParams {
		return m.adjustSelectedParam(false)
	}

	if m.isHorizontal() {
		return m.dragStep(-1)
	}

	return nil
}

// handleRightKey adjusts the selected param or drags a horizontal ruler forward
func (m *model) handleRightKey() tea.Cmd {
	if m.focusedPanel == panelParams {
		return m.adjustSelectedParam(true)
	}

	if m.isHorizontal() {
		return m.dragStep(1)
	}

	return nil
}

// handleUpKey selects the previous param or drags a vertical ruler back
func (m *model) handleUpKey() tea.Cmd {
	if m.focusedPanel == panelParams {
		m.paramMgr.SelectPrevious()
		return nil
	}

	if !m.isHorizontal() {
		return m.dragStep(-1)
	}

	return nil
}

// handleDownKey selects the next param or drags a vertical ruler forward
func (m *model) handleDownKey() tea.Cmd {
	if m.focusedPanel == panelParams {
		m.paramMgr.SelectNext()
		return nil
	}

	if !m.isHorizontal() {
		return m.dragStep(1)
	}

	return nil
}

// handleMouse maps wheel notches onto drag steps
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		return m.dragStep(-wheelCells)
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		return m.dragStep(wheelCells)
	}

	return nil
}

// dragStep moves the ruler by cells as one step of a drag gesture.
// The drag is released once no step arrives for dragIdleTimeout.
func (m *model) dragStep(cells int) tea.Cmd {
	if m.ctrl.State() != ruler.StateDragging {
		m.cancelAnimation()
		m.ctrl.BeginDrag()
	}

	before := m.view.haptics

	m.view.moveBy(float64(cells) * m.viewport.Step())
	m.view.offset = m.clampOffset(m.view.offset)
	m.view.target = m.view.offset
	m.ctrl.Scroll(m.view.offset, m.viewport.Inset())
	m.drainEvents()

	m.dragGen++
	cmds := []tea.Cmd{dragIdleTick(m.dragGen)}

	if m.view.haptics != before {
		cmds = append(cmds, tea.Tick(hapticFlash, func(time.Time) tea.Msg {
			return flashDoneMsg{}
		}))
	}

	return tea.Batch(cmds...)
}

// fling releases the ruler with momentum towards a tick flingTicks away
func (m *model) fling(dir int) tea.Cmd {
	if m.focusedPanel == panelParams {
		return nil
	}

	if m.ctrl.State() != ruler.StateDragging {
		m.cancelAnimation()
		m.ctrl.BeginDrag()
	}

	// Any pending idle release belongs to the gesture being flung
	m.dragGen++

	stride := m.ctrl.Configuration().Stride()

	return m.release(m.view.offset + float64(dir*flingTicks)*stride)
}

// release ends a drag and decelerates towards the resting offset
func (m *model) release(proposed float64) tea.Cmd {
	target, snapped := m.ctrl.EndDrag(proposed)
	if !snapped {
		target = m.clampOffset(proposed)
	}

	m.debugf("[TUI] Drag released at %.1f, resting at %.1f (snapped=%v)", proposed, target, snapped)
	m.view.animateTo(target)

	return m.startAnimation()
}

// handleFrame advances the animation one frame and reports the new offset.
// A landed deceleration ends the gesture.
func (m *model) handleFrame() tea.Cmd {
	landed := m.view.advance()
	m.ctrl.Scroll(m.view.offset, m.viewport.Inset())

	if !landed {
		m.drainEvents()
		return frameTick(m.animGen)
	}

	if m.ctrl.State() == ruler.StateDecelerating {
		m.ctrl.DecelerationEnded()
	}

	m.drainEvents()

	return nil
}

// scrollToValue animates to a value without a gesture and commits it
func (m *model) scrollToValue(value int) tea.Cmd {
	if m.focusedPanel == panelParams {
		return nil
	}

	m.dragGen++
	m.ctrl.ScrollToValue(value, true)
	m.commit()

	return m.startAnimation()
}

// switchSpan re-anchors a timeline on the next span at the highlighted instant
func (m *model) switchSpan() {
	if m.source == nil {
		m.setStatusMsg("Span switching needs --timeline")
		return
	}

	at := m.source.TimeAt(m.ctrl.HighlightedIndex())
	next := m.source.Span().Next()

	index, err := m.source.SwitchSpan(next, at)
	if err != nil {
		m.debugf("[TUI] Span switch to %s failed: %v", next, err)
		m.setStatusMsg(fmt.Sprintf("Cannot switch to %s: %v", next, err))

		return
	}

	if err := m.reanchor(index); err != nil {
		m.setStatusMsg(fmt.Sprintf("Error: %v", err))
		return
	}

	m.commit()
	m.setStatusMsg(fmt.Sprintf("Span: %s", next))
	m.debugf("[TUI] Switched span to %s at index %d", next, index)
}

// reanchor applies the timeline's current range with index under the indicator
func (m *model) reanchor(index int) error {
	m.cancelAnimation()
	m.dragGen++

	rc := m.ctrl.Configuration()
	rc.Metrics = m.source.Metrics(rc.Metrics, index)

	return m.ctrl.SetConfiguration(rc)
}

// undo restores the previous committed selection
func (m *model) undo() tea.Cmd {
	prev, ok := m.undoMgr.Undo(m.committed)
	if !ok {
		m.setStatusMsg("Nothing to undo")
		return nil
	}

	m.debugf("[TUI] Undo to %s (Undo: %d, Redo: %d)", m.selectionText(prev), m.undoMgr.UndoSize(), m.undoMgr.RedoSize())

	return m.applySelection(prev)
}

// redo reapplies the next committed selection
func (m *model) redo() tea.Cmd {
	next, ok := m.undoMgr.Redo(m.committed)
	if !ok {
		m.setStatusMsg("Nothing to redo")
		return nil
	}

	m.debugf("[TUI] Redo to %s (Undo: %d, Redo: %d)", m.selectionText(next), m.undoMgr.UndoSize(), m.undoMgr.RedoSize())

	return m.applySelection(next)
}

// applySelection moves the ruler to s without recording history
func (m *model) applySelection(s Selection) tea.Cmd {
	m.committed = s
	m.dragGen++

	if m.source == nil {
		m.ctrl.ScrollToValue(s.Value, true)
		return m.startAnimation()
	}

	r := m.source.Range()
	if s.Span == m.source.Span() && s.TimeMs >= r.StartMs && s.TimeMs <= r.EndMs {
		m.ctrl.ScrollToIndex(r.IndexAt(s.TimeMs), true)
		return m.startAnimation()
	}

	// Outside the loaded range or in another span: rebuild around the instant
	index, err := m.source.SwitchSpan(s.Span, s.TimeMs)
	if err != nil {
		m.setStatusMsg(fmt.Sprintf("Cannot restore %s: %v", m.selectionText(s), err))
		return nil
	}

	if err := m.reanchor(index); err != nil {
		m.setStatusMsg(fmt.Sprintf("Error: %v", err))
	}

	return nil
}

// adjustSelectedParam steps the selected param and applies it, reverting on rejection
func (m *model) adjustSelectedParam(increase bool) tea.Cmd {
	step := m.paramMgr.Decrease
	revert := m.paramMgr.Increase
	if increase {
		step, revert = revert, step
	}

	if !step() {
		return nil
	}

	param := m.paramMgr.GetSelected()
	keepPosition := param.Name != "Default"

	if err := m.applyParams(keepPosition); err != nil {
		revert()
		m.debugf("[TUI] Rejected %s change: %v", param.Name, err)
		m.setStatusMsg(fmt.Sprintf("%s rejected: %v", param.Name, err))

		return nil
	}

	m.debugf("[TUI] Parameter changed - %s: %s", param.Name, formatParamValue(*param))

	return nil
}

// resetToDefaults restores the default ruler params
func (m *model) resetToDefaults() {
	previous := *m.localConfig

	m.paramMgr.ResetToDefaults(config.DefaultConfig().Ruler)

	if err := m.applyParams(true); err != nil {
		*m.localConfig = previous
		m.setStatusMsg(fmt.Sprintf("Reset rejected: %v", err))

		return
	}

	m.setStatusMsg("Parameters reset to defaults")
	m.debugf("[TUI] Parameters reset to defaults")
}

// applyParams pushes the local config into the controller and the shared config.
// keepPosition re-snaps to the highlighted value instead of the configured default.
func (m *model) applyParams(keepPosition bool) error {
	rc, err := m.localConfig.ToRuler()
	if err != nil {
		return err
	}

	switch {
	case m.source != nil:
		// The timeline range owns the metrics, only geometry comes from config
		rc.Metrics = m.source.Metrics(rc.Metrics, m.ctrl.HighlightedIndex())
	case keepPosition:
		rc.Metrics.DefaultValue = rc.Metrics.Clamp(m.ctrl.HighlightedValue())
	}

	m.cancelAnimation()
	m.dragGen++

	if err := m.ctrl.SetConfiguration(rc); err != nil {
		return err
	}

	// Direction may have changed the scroll axis
	m.resize()
	m.sharedConfig.Update(*m.localConfig)

	return nil
}

// handleConfigReload applies a config edited on disk and keeps watching
func (m *model) handleConfigReload(msg configReloadMsg) tea.Cmd {
	if errors.Is(msg.err, config.ErrWatcherClosed) {
		m.debugf("[WATCHER] Closed, live reload stopped")
		return nil
	}

	if msg.err != nil {
		m.setStatusMsg(fmt.Sprintf("Config reload failed: %v", msg.err))
	} else {
		previous := *m.localConfig
		*m.localConfig = msg.cfg

		if err := m.applyParams(true); err != nil {
			*m.localConfig = previous
			m.setStatusMsg(fmt.Sprintf("Reloaded config rejected: %v", err))
		} else {
			m.setStatusMsg("Config reloaded")
			m.debugf("[WATCHER] Applied reloaded config")
		}
	}

	if m.watcher == nil {
		return nil
	}

	return waitForConfigChange(m.watcher)
}
