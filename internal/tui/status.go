package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StatusWriter shows a spinner with a message and elapsed time while a
// single blocking step runs, such as pulling or removing an image.
type StatusWriter struct {
	w       io.Writer
	mu      sync.Mutex
	message string
	start   time.Time
	done    chan struct{}
	exited  chan struct{}
	stopped bool
}

// NewStatusWriter starts a background spinner rendering message to w.
func NewStatusWriter(w io.Writer, message string) *StatusWriter {
	sw := &StatusWriter{
		w:       w,
		message: message,
		start:   time.Now(),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	go sw.loop()
	return sw
}

// Update changes the message and restarts the elapsed timer.
func (sw *StatusWriter) Update(message string) {
	sw.mu.Lock()
	sw.message = message
	sw.start = time.Now()
	sw.mu.Unlock()
}

// Stop clears the spinner line. It is safe to call more than once.
func (sw *StatusWriter) Stop() {
	sw.mu.Lock()
	if sw.stopped {
		sw.mu.Unlock()
		return
	}
	sw.stopped = true
	sw.mu.Unlock()
	close(sw.done)
	<-sw.exited
	fmt.Fprint(sw.w, "\r\033[K")
}

// Finish stops the spinner and leaves a final outcome line with the elapsed time.
func (sw *StatusWriter) Finish(ok bool, message string) {
	sw.mu.Lock()
	elapsed := time.Since(sw.start)
	sw.mu.Unlock()
	sw.Stop()

	mark := OKStyle.Render("✓")
	if !ok {
		mark = ErrorStyle.Render("✗")
	}
	fmt.Fprintf(sw.w, "%s %s (%s)\n", mark, message, formatElapsed(elapsed))
}

func (sw *StatusWriter) loop() {
	defer close(sw.exited)
	tick := 0
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sw.done:
			return
		case <-ticker.C:
			sw.mu.Lock()
			msg := sw.message
			start := sw.start
			sw.mu.Unlock()

			spinner := spinnerFrames[tick%len(spinnerFrames)]
			tick++
			fmt.Fprintf(sw.w, "\r\033[K%s %s (%s)", spinner, msg, formatElapsed(time.Since(start)))
		}
	}
}

// formatElapsed formats a duration for display in the status line.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
