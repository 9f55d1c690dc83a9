package progress

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"pvm/internal/catalog"
)

func TestChannelFIFO(t *testing.T) {
	ch := NewChannel()
	for i := 0; i < 100; i++ {
		ch.Send(TaskUpdate{Snapshot: Snapshot{RootID: string(rune('a' + i%26))}})
	}
	if ch.Len() != 100 {
		t.Fatalf("expected 100 queued messages, got %d", ch.Len())
	}
	for i := 0; i < 100; i++ {
		msg := ch.Receive().(TaskUpdate)
		if want := string(rune('a' + i%26)); msg.Snapshot.RootID != want {
			t.Fatalf("message %d: got %q, want %q", i, msg.Snapshot.RootID, want)
		}
	}
}

func TestChannelReceiveBlocksUntilSend(t *testing.T) {
	ch := NewChannel()
	got := make(chan Message, 1)
	go func() {
		got <- ch.Receive()
	}()

	select {
	case <-got:
		t.Fatal("Receive returned on an empty channel")
	case <-time.After(20 * time.Millisecond):
	}

	ch.Send(Result{})
	select {
	case msg := <-got:
		if _, ok := msg.(Result); !ok {
			t.Fatalf("expected Result, got %T", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Receive did not wake after Send")
	}
}

func TestTrackerSnapshotsAreDeepCopies(t *testing.T) {
	ch := NewChannel()
	tr := NewTracker(ch)
	root := tr.NewRoot("Fetching", 2)
	tr.Log(root, "first %d", 1)

	first := ch.Receive().(TaskUpdate).Snapshot
	second := ch.Receive().(TaskUpdate).Snapshot

	tr.Log(root, "second")
	tr.Advance(root, 1)

	if len(first.Tasks[root].Logs) != 0 {
		t.Fatalf("creation snapshot changed: %+v", first.Tasks[root])
	}
	if logs := second.Tasks[root].Logs; len(logs) != 1 || logs[0].Text != "first 1" {
		t.Fatalf("log snapshot changed: %+v", logs)
	}
	if second.Tasks[root].Completed != 0 {
		t.Fatal("snapshot completed count changed after Advance")
	}
	if ch.Len() != 2 {
		t.Fatalf("expected one update per mutation, got %d queued", ch.Len())
	}
}

func TestTrackerRootAndActive(t *testing.T) {
	tr := Discard()
	root := tr.NewRoot("Fetching PHP versions", 3)
	child := tr.NewChild("PHP 8.3 releases", 5)

	snap := tr.Snapshot()
	if snap.RootID != root || snap.ActiveID != child {
		t.Fatalf("root/active = %s/%s, want %s/%s", snap.RootID, snap.ActiveID, root, child)
	}
	if snap.Tasks[child].ParentID != root {
		t.Fatalf("child parent = %q, want %q", snap.Tasks[child].ParentID, root)
	}
	if root == child {
		t.Fatal("task ids must be unique")
	}

	next := tr.NewChild("PHP 8.2 releases", 0)
	snap = tr.Snapshot()
	if snap.ActiveID != next {
		t.Fatal("latest child must become active")
	}
	if len(snap.Order) != 3 || snap.Order[0] != root {
		t.Fatalf("unexpected creation order %v", snap.Order)
	}
}

func TestConsumerNeverReprintsLines(t *testing.T) {
	tr := Discard()
	var c Consumer
	root := tr.NewRoot("Fetching PHP versions", 2)

	tr.Log(root, "8.3")
	v := c.Consume(tr.Snapshot())
	if strings.Join(v.NewLines, "|") != "8.3" {
		t.Fatalf("first view lines = %v", v.NewLines)
	}

	child := tr.NewChild("PHP 8.3 releases", 2)
	tr.Log(child, "8.3.1")
	tr.Log(root, "8.2")
	tr.Log(child, "8.3.0")
	v = c.Consume(tr.Snapshot())
	if strings.Join(v.NewLines, "|") != "8.3.1|8.2|8.3.0" {
		t.Fatalf("second view lines = %v", v.NewLines)
	}
	if v.Label != "PHP 8.3 releases" || v.RootName != "Fetching PHP versions" {
		t.Fatalf("unexpected labels %+v", v)
	}

	v = c.Consume(tr.Snapshot())
	if len(v.NewLines) != 0 {
		t.Fatalf("repeated snapshot re-printed %v", v.NewLines)
	}
	if c.Seen() != 4 {
		t.Fatalf("seen = %d, want 4", c.Seen())
	}
}

func TestViewFraction(t *testing.T) {
	tests := []struct {
		view View
		want float64
	}{
		{View{}, 0},
		{View{RootCompleted: 1, RootTarget: 4}, 0.25},
		{View{RootCompleted: 5, RootTarget: 4}, 1},
	}
	for _, tt := range tests {
		if got := tt.view.Fraction(); got != tt.want {
			t.Errorf("Fraction(%+v) = %v, want %v", tt.view, got, tt.want)
		}
	}
}

func TestRunDeliversUpdatesThenResult(t *testing.T) {
	want := catalog.New()
	want.Add(catalog.Release{Name: "8.3"})

	var (
		mu      sync.Mutex
		updates int
		last    Snapshot
	)
	got, err := Run(func(tr *Tracker) (*catalog.Catalog, error) {
		root := tr.NewRoot("Fetching", 1)
		tr.Log(root, "8.3")
		tr.Advance(root, 1)
		return want, nil
	}, func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		updates++
		last = s
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != want {
		t.Fatal("Run returned a different catalog")
	}
	if updates != 3 {
		t.Fatalf("expected 3 updates, got %d", updates)
	}
	root, _ := last.Root()
	if !root.Done() {
		t.Fatalf("final snapshot root not done: %+v", root)
	}
}

func TestRunReturnsWorkerError(t *testing.T) {
	boom := errors.New("boom")
	finished := false
	cat, err := Run(func(tr *Tracker) (*catalog.Catalog, error) {
		tr.NewRoot("Fetching", 1)
		defer func() { finished = true }()
		return catalog.New(), boom
	}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if cat != nil {
		t.Fatal("expected no catalog on error")
	}
	if !finished {
		t.Fatal("Run returned before the worker finished")
	}
}
