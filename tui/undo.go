// ABOUTME: Undo/redo history of committed ruler selections
// ABOUTME: Manages selection history with maximum stack size limit

package tui

import "tickruler/timeline"

// Selection captures a committed ruler position for undo/redo.
// Timeline selections are keyed by instant because indices move when the range grows.
type Selection struct {
	Value  int           // Ruler value (plain rulers)
	TimeMs int64         // Instant under the indicator (timelines)
	Span   timeline.Span // Span the instant was picked in
}

// UndoManager manages undo/redo stacks with maximum size limit
type UndoManager struct {
	undoStack []Selection
	redoStack []Selection
	maxSize   int
}

// NewUndoManager creates a new undo manager with the specified max stack size
func NewUndoManager(maxSize int) *UndoManager {
	return &UndoManager{
		undoStack: []Selection{},
		redoStack: []Selection{},
		maxSize:   maxSize,
	}
}

// Push saves the selection that is being replaced
// Clears the redo stack (you can't redo after a new selection)
func (um *UndoManager) Push(prev Selection) {
	um.undoStack = pushBounded(um.undoStack, prev, um.maxSize)
	um.redoStack = []Selection{}
}

// Undo returns the previous selection and remembers current for redo
// Returns the selection and true if undo was successful, or zero value and false if nothing to undo
func (um *UndoManager) Undo(current Selection) (Selection, bool) {
	if len(um.undoStack) == 0 {
		return Selection{}, false
	}

	um.redoStack = pushBounded(um.redoStack, current, um.maxSize)

	prev := um.undoStack[len(um.undoStack)-1]
	um.undoStack = um.undoStack[:len(um.undoStack)-1]

	return prev, true
}

// Redo returns the next selection and remembers current for undo
// Returns the selection and true if redo was successful, or zero value and false if nothing to redo
func (um *UndoManager) Redo(current Selection) (Selection, bool) {
	if len(um.redoStack) == 0 {
		return Selection{}, false
	}

	um.undoStack = pushBounded(um.undoStack, current, um.maxSize)

	next := um.redoStack[len(um.redoStack)-1]
	um.redoStack = um.redoStack[:len(um.redoStack)-1]

	return next, true
}

// UndoSize returns the number of items in the undo stack
func (um *UndoManager) UndoSize() int {
	return len(um.undoStack)
}

// RedoSize returns the number of items in the redo stack
func (um *UndoManager) RedoSize() int {
	return len(um.redoStack)
}

// Clear clears both stacks
func (um *UndoManager) Clear() {
	um.undoStack = []Selection{}
	um.redoStack = []Selection{}
}

// pushBounded appends s and drops the oldest entry past maxSize
func pushBounded(stack []Selection, s Selection, maxSize int) []Selection {
	stack = append(stack, s)
	if maxSize > 0 && len(stack) > maxSize {
		stack = stack[1:]
	}

	return stack
}
