package tui

import "pvm/internal/progress"

// SnapshotMsg carries a task-tree snapshot from the fetch worker.
type SnapshotMsg struct {
	Snapshot progress.Snapshot
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
