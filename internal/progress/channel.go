package progress

import (
	"sync"

	"pvm/internal/catalog"
)

// Message is either a TaskUpdate or a Result.
type Message interface {
	message()
}

// TaskUpdate carries the full task tree after a change.
type TaskUpdate struct {
	Snapshot Snapshot
}

// Result is the final message of a run.
type Result struct {
	Catalog *catalog.Catalog
	Err     error
}

func (TaskUpdate) message() {}
func (Result) message()     {}

// Channel is an unbounded FIFO. Send never blocks; Receive blocks while the
// queue is empty.
type Channel struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue []Message
}

// NewChannel returns an empty channel.
func NewChannel() *Channel {
	c := &Channel{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Send enqueues msg.
func (c *Channel) Send(msg Message) {
	c.mu.Lock()
	c.queue = append(c.queue, msg)
	c.mu.Unlock()
	c.cond.Signal()
}

// Receive dequeues the oldest message, waiting for one if necessary.
func (c *Channel) Receive() Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.queue) == 0 {
		c.cond.Wait()
	}
	msg := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	return msg
}

// Len returns the number of queued messages.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Work produces a catalog while reporting progress through the tracker.
type Work func(*Tracker) (*catalog.Catalog, error)

// Run executes work on a single background goroutine and consumes its
// messages on the calling goroutine, invoking onUpdate for every snapshot.
// It returns only after the worker has exited.
func Run(work Work, onUpdate func(Snapshot)) (*catalog.Catalog, error) {
	ch := NewChannel()
	tracker := NewTracker(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cat, err := work(tracker)
		ch.Send(Result{Catalog: cat, Err: err})
	}()

	var result Result
	for {
		msg := ch.Receive()
		if update, ok := msg.(TaskUpdate); ok {
			if onUpdate != nil {
				onUpdate(update.Snapshot)
			}
			continue
		}
		result = msg.(Result)
		break
	}
	wg.Wait()

	if result.Err != nil {
		return nil, result.Err
	}
	return result.Catalog, nil
}
