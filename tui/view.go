// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function and the panel, status and help renderers

package tui

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tickruler/timeline"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		if m.dryRun {
			return "Exiting...\n"
		}

		return "Saving config and exiting...\n"
	}

	if m.width == 0 {
		return "Initializing..."
	}

	// Build the UI in two columns
	leftPanel := m.renderParameters()
	rightPanel := m.renderRuler()

	// Leave room for status bar and help
	panelHeight := m.height - (statusBarHeight + helpHeight + spacingHeight)

	leftPanelStyle := lipgloss.NewStyle().
		Width(paramPanelWidth).
		Height(panelHeight).
		Padding(0, 1)

	rightPanelWidth := m.width - paramPanelWidth - panelPadding
	if rightPanelWidth < minRulerExtent+panelPadding {
		rightPanelWidth = minRulerExtent + panelPadding
	}

	rightPanelStyle := lipgloss.NewStyle().
		Width(rightPanelWidth).
		Height(panelHeight).
		Padding(0, 1)

	// Combine panels horizontally
	combined := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanelStyle.Render(leftPanel),
		rightPanelStyle.Render(rightPanel),
	)

	return combined + "\n" + m.renderStatus() + "\n" + m.renderHelp()
}

// renderParameters renders the parameter control panel
func (m model) renderParameters() string {
	var s strings.Builder

	title := "Ruler parameters"
	if m.focusedPanel == panelParams {
		title = "► " + title + " [FOCUSED]"
	}

	s.WriteString(titleStyle.Render(title) + "\n\n")

	for i, param := range m.paramMgr.All() {
		// Fixed width formatting to prevent column misalignment
		prefix := "  "
		if i == m.paramMgr.Selected() {
			prefix = "► "
		}

		line := fmt.Sprintf("%s%-18s %8s", prefix, param.Name, formatParamValue(param))

		if i == m.paramMgr.Selected() {
			s.WriteString(selectedParamStyle.Render(line) + "\n")
		} else {
			s.WriteString(paramStyle.Render(line) + "\n")
		}
	}

	cfg := m.ctrl.Configuration()
	s.WriteString(fmt.Sprintf("\n  %-18s %8s\n", "Direction", cfg.Direction))
	s.WriteString(fmt.Sprintf("  %-18s %8s\n", "Alignment", cfg.Alignment))
	s.WriteString(fmt.Sprintf("  %-18s %8v\n", "Haptics", cfg.HapticsEnabled))
	s.WriteString(fmt.Sprintf("  %-18s %8v\n", "Precision Scroll", cfg.PrecisionScrollEnabled))

	return s.String()
}

// formatParamValue renders a parameter value for the params panel
func formatParamValue(p Parameter) string {
	switch {
	case p.IsInt && p.IntValue != nil:
		return strconv.Itoa(*p.IntValue)
	case !p.IsInt && p.Value != nil:
		return fmt.Sprintf("%.2f", *p.Value)
	default:
		return "N/A"
	}
}

// renderRuler renders the ruler panel with its title
func (m model) renderRuler() string {
	title := "Ruler"
	if m.source != nil {
		title = fmt.Sprintf("Timeline (%s)", m.source.Span())
	}

	if m.focusedPanel == panelRuler {
		title = "► " + title + " [FOCUSED]"
	}

	body := m.renderVertical()
	if m.isHorizontal() {
		body = m.renderHorizontal()
	}

	return titleStyle.Render(title) + "\n\n" + body
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	// Show status message if recent
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	metrics := m.ctrl.Metrics()
	tickInfo := fmt.Sprintf("Tick %d/%d", m.ctrl.HighlightedIndex(), metrics.MaxIndex())
	undoInfo := fmt.Sprintf("U:%d R:%d", m.undoMgr.UndoSize(), m.undoMgr.RedoSize())

	var status string
	if m.source != nil {
		// Continuous instant under the indicator, between ticks while scrolling
		at := m.source.TimeAtOffset(m.view.offset, m.viewport.Inset(), m.ctrl.Configuration().Stride())
		status = fmt.Sprintf("%s | %s | %s | %s | %s",
			timeline.CurrentTimeLabel(at, m.source.Location()),
			m.source.Span(),
			tickInfo,
			m.ctrl.State(),
			undoInfo,
		)
	} else {
		position := m.ctrl.Mapper().Position(m.view.offset) + float64(metrics.MinimumValue)
		status = fmt.Sprintf("Value: %d (%.1f) | Range: %d..%d | %s | %s | %s",
			m.ctrl.HighlightedValue(),
			position,
			metrics.MinimumValue,
			metrics.MaximumValue,
			tickInfo,
			m.ctrl.State(),
			undoInfo,
		)
	}

	if m.dryRun {
		status += " | DRY RUN"
	}

	return statusStyle.Width(m.width).Render(status)
}

// renderHelp renders the key help line
func (m model) renderHelp() string {
	return m.help.View(keys)
}
