package tui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"pvm/internal/catalog"
	"pvm/internal/progress"
)

// ErrInterrupted is returned when the user quits the progress display.
var ErrInterrupted = errors.New("interrupted")

type fetchOutcome struct {
	catalog *catalog.Catalog
	err     error
}

// RunFetch creates a bubbletea program, runs work through progress.Run in a
// goroutine, and blocks until both the program and the worker have finished.
// Snapshots reach the program via Program.Send.
func RunFetch(out io.Writer, title string, work progress.Work) (*catalog.Catalog, error) {
	p := tea.NewProgram(NewProgressModel(title), tea.WithOutput(out))

	results := make(chan fetchOutcome, 1)
	go func() {
		cat, err := progress.Run(work, func(s progress.Snapshot) {
			p.Send(SnapshotMsg{Snapshot: s})
		})
		if err != nil {
			p.Send(ErrorMsg{Err: err})
		} else {
			p.Send(WorkDoneMsg{})
		}
		results <- fetchOutcome{catalog: cat, err: err}
	}()

	finalModel, runErr := p.Run()
	// The worker is never abandoned; an interrupted display still waits for it.
	res := <-results
	if runErr != nil {
		return nil, fmt.Errorf("progress display: %w", runErr)
	}
	if m, ok := finalModel.(ProgressModel); ok && m.Interrupted() {
		return nil, ErrInterrupted
	}
	return res.catalog, res.err
}

// PlainPrinter prints each log line once, with no redrawing. It is used when
// stdout is not a terminal or --no-progress is set.
type PlainPrinter struct {
	w        io.Writer
	consumer progress.Consumer
}

// NewPlainPrinter returns a printer writing to w.
func NewPlainPrinter(w io.Writer) *PlainPrinter {
	return &PlainPrinter{w: w}
}

// Update prints the lines of s not printed before.
func (p *PlainPrinter) Update(s progress.Snapshot) {
	view := p.consumer.Consume(s)
	for _, line := range view.NewLines {
		fmt.Fprintln(p.w, line)
	}
}

// RunPlain runs work through progress.Run, printing lines as they arrive.
func RunPlain(out io.Writer, title string, work progress.Work) (*catalog.Catalog, error) {
	if title != "" {
		fmt.Fprintln(out, title)
	}
	printer := NewPlainPrinter(out)
	return progress.Run(work, printer.Update)
}
