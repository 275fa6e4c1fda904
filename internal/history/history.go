// Package history keeps a linear undo/redo stack of graph snapshots.
//
// The stack holds snapshots and a cursor pointing at the current one. Pushing
// after an undo discards every snapshot beyond the cursor, so the redo branch
// is lost as soon as a new edit is committed. Undo at the oldest snapshot and
// redo at the newest are no-ops reported through the boolean result.
package history

import "logicsim/internal/domain"

// Manager is a branch-truncating snapshot stack.
// It is not safe for concurrent use.
type Manager struct {
	snapshots []*domain.Snapshot
	cursor    int
}

// New creates an empty manager whose cursor is -1
func New() *Manager {
	return &Manager{cursor: -1}
}

// Push truncates everything after the cursor, appends snap and moves the cursor onto it
func (m *Manager) Push(snap *domain.Snapshot) {
	clear(m.snapshots[m.cursor+1:])
	m.snapshots = append(m.snapshots[:m.cursor+1], snap)
	m.cursor = len(m.snapshots) - 1
}

// Undo steps the cursor back and returns the snapshot now current
func (m *Manager) Undo() (*domain.Snapshot, bool) {
	if m.cursor <= 0 {
		return nil, false
	}
	m.cursor--
	return m.snapshots[m.cursor], true
}

// Redo steps the cursor forward and returns the snapshot now current
func (m *Manager) Redo() (*domain.Snapshot, bool) {
	if m.cursor >= len(m.snapshots)-1 {
		return nil, false
	}
	m.cursor++
	return m.snapshots[m.cursor], true
}

// Current returns the snapshot under the cursor, or nil when empty
func (m *Manager) Current() *domain.Snapshot {
	if m.cursor < 0 {
		return nil
	}
	return m.snapshots[m.cursor]
}

// CanUndo reports whether Undo would move the cursor
func (m *Manager) CanUndo() bool {
	return m.cursor > 0
}

// CanRedo reports whether Redo would move the cursor
func (m *Manager) CanRedo() bool {
	return m.cursor < len(m.snapshots)-1
}

// Cursor returns the index of the current snapshot, or -1 when empty
func (m *Manager) Cursor() int {
	return m.cursor
}

// Len returns the number of stored snapshots, including redo states
func (m *Manager) Len() int {
	return len(m.snapshots)
}

// Reset drops every snapshot
func (m *Manager) Reset() {
	m.snapshots = nil
	m.cursor = -1
}
