// Package progress carries fetch progress from a background worker to the
// foreground caller as whole task snapshots.
package progress

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
)

// LogLine is one descriptive line attached to a task. Seq numbers are unique
// and increasing across every task of one tracker, starting at 1.
type LogLine struct {
	Seq  int
	Text string
}

// Task is a trackable unit of progress.
type Task struct {
	ID        string
	ParentID  string
	Name      string
	Target    int
	Completed int
	Logs      []LogLine
}

// Done reports whether the task reached its target.
func (t Task) Done() bool {
	return t.Completed >= t.Target
}

func (t Task) clone() Task {
	out := t
	if t.Logs != nil {
		out.Logs = make([]LogLine, len(t.Logs))
		copy(out.Logs, t.Logs)
	}
	return out
}

// Snapshot is a deep copy of every task known to a tracker.
type Snapshot struct {
	Tasks map[string]Task
	// Order lists task ids in creation order.
	Order    []string
	RootID   string
	ActiveID string
}

// Root returns the root task.
func (s Snapshot) Root() (Task, bool) {
	t, ok := s.Tasks[s.RootID]
	return t, ok && s.RootID != ""
}

// Active returns the most recently created task.
func (s Snapshot) Active() (Task, bool) {
	t, ok := s.Tasks[s.ActiveID]
	return t, ok && s.ActiveID != ""
}

// Lines returns every log line across all tasks ordered by sequence number.
func (s Snapshot) Lines() []LogLine {
	var total int
	for _, t := range s.Tasks {
		total += len(t.Logs)
	}
	lines := make([]LogLine, 0, total)
	for _, id := range s.Order {
		lines = append(lines, s.Tasks[id].Logs...)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Seq < lines[j].Seq })
	return lines
}

// Tracker is the producer side of the pipeline. Every mutation sends a
// TaskUpdate with a full snapshot to its channel. A Tracker is owned by a
// single goroutine.
type Tracker struct {
	ch       *Channel
	tasks    map[string]*Task
	order    []string
	rootID   string
	activeID string
	seq      int
}

// NewTracker returns a tracker publishing to ch. A nil channel discards updates.
func NewTracker(ch *Channel) *Tracker {
	return &Tracker{ch: ch, tasks: make(map[string]*Task)}
}

// Discard returns a tracker that records tasks without publishing them.
func Discard() *Tracker {
	return NewTracker(nil)
}

var idCounter atomic.Uint64

func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("task-%d", idCounter.Add(1))
	}
	return id.String()
}

// NewRoot creates the root task and returns its id.
func (t *Tracker) NewRoot(name string, target int) string {
	id := t.create("", name, target)
	t.rootID = id
	t.publish()
	return id
}

// NewChild creates a task under the root and makes it the active task.
func (t *Tracker) NewChild(name string, target int) string {
	id := t.create(t.rootID, name, target)
	t.publish()
	return id
}

func (t *Tracker) create(parent, name string, target int) string {
	if target < 0 {
		target = 0
	}
	id := newTaskID()
	t.tasks[id] = &Task{ID: id, ParentID: parent, Name: name, Target: target}
	t.order = append(t.order, id)
	t.activeID = id
	return id
}

// Advance adds n to the completed count of task id.
func (t *Tracker) Advance(id string, n int) {
	task, ok := t.tasks[id]
	if !ok {
		return
	}
	task.Completed += n
	t.publish()
}

// Log appends a formatted line to task id.
func (t *Tracker) Log(id, format string, args ...any) {
	task, ok := t.tasks[id]
	if !ok {
		return
	}
	t.seq++
	task.Logs = append(task.Logs, LogLine{Seq: t.seq, Text: fmt.Sprintf(format, args...)})
	t.publish()
}

// Snapshot returns a deep copy of the current task tree.
func (t *Tracker) Snapshot() Snapshot {
	snap := Snapshot{
		Tasks:    make(map[string]Task, len(t.tasks)),
		Order:    make([]string, len(t.order)),
		RootID:   t.rootID,
		ActiveID: t.activeID,
	}
	copy(snap.Order, t.order)
	for id, task := range t.tasks {
		snap.Tasks[id] = task.clone()
	}
	return snap
}

func (t *Tracker) publish() {
	if t.ch == nil {
		return
	}
	t.ch.Send(TaskUpdate{Snapshot: t.Snapshot()})
}
