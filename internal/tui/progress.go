package tui

import (
	"fmt"
	"strings"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"pvm/internal/progress"
)

const (
	tickInterval = 150 * time.Millisecond
	barWidth     = 40
	labelWidth   = 48
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner and flushes buffered log lines.
type tickMsg time.Time

// ProgressModel renders a fetch: the root task as a progress bar, the most
// recently created task as the label, and log lines printed above the bar.
type ProgressModel struct {
	title    string
	consumer *progress.Consumer
	bar      bprogress.Model
	view     progress.View

	// pending holds log lines not yet printed. They are flushed on ticks so
	// that at most one print command is in flight at a time.
	pending []string

	done        bool
	interrupted bool
	err         error
	tick        int
}

// NewProgressModel creates a progress model with the given title.
func NewProgressModel(title string) ProgressModel {
	return ProgressModel{
		title:    title,
		consumer: &progress.Consumer{},
		bar: bprogress.New(
			bprogress.WithDefaultGradient(),
			bprogress.WithWidth(barWidth),
		),
	}
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m ProgressModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, tea.Batch(m.flush(), scheduleTick())

	case SnapshotMsg:
		m.view = m.consumer.Consume(msg.Snapshot)
		m.pending = append(m.pending, m.view.NewLines...)
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Sequence(m.flush(), tea.Quit)

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Sequence(m.flush(), tea.Quit)

	case tea.WindowSizeMsg:
		width := msg.Width - labelWidth/2
		if width > barWidth {
			width = barWidth
		}
		if width < 10 {
			width = 10
		}
		m.bar.Width = width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			m.interrupted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// flush returns a command printing all pending lines, or nil.
func (m *ProgressModel) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	text := strings.Join(m.pending, "\n")
	m.pending = nil
	return tea.Println(text)
}

// View satisfies the tea.Model interface.
func (m ProgressModel) View() string {
	// The caller reports a failure, so the final frame stays empty.
	if m.done {
		return ""
	}

	label := m.view.Label
	if label == "" {
		label = m.title
	}
	spinner := spinnerFrames[m.tick%len(spinnerFrames)]

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", spinner, TruncateWithEllipsis(label, labelWidth))
	fmt.Fprintf(&b, "%s %d/%d\n", m.bar.ViewAs(m.view.Fraction()), m.view.RootCompleted, m.view.RootTarget)
	return b.String()
}

// Done returns whether the model has finished (work done or error).
func (m ProgressModel) Done() bool {
	return m.done
}

// Interrupted reports whether the user quit before the work finished.
func (m ProgressModel) Interrupted() bool {
	return m.interrupted
}

// Err returns any fatal error that occurred.
func (m ProgressModel) Err() error {
	return m.err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// NonEmptyOrDash returns "-" for empty/whitespace strings.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}

// TruncateWithEllipsis truncates a string and adds "..." if it exceeds max length.
func TruncateWithEllipsis(value string, max int) string {
	if max <= 0 {
		return ""
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
