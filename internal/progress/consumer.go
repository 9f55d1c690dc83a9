package progress

// View is what a renderer needs from one snapshot.
type View struct {
	RootName      string
	RootCompleted int
	RootTarget    int
	// Label is the name of the most recently created task.
	Label    string
	NewLines []string
}

// Fraction returns root progress in [0, 1].
func (v View) Fraction() float64 {
	if v.RootTarget <= 0 {
		return 0
	}
	f := float64(v.RootCompleted) / float64(v.RootTarget)
	if f > 1 {
		return 1
	}
	return f
}

// Consumer turns successive snapshots into views, handing out each log line
// exactly once.
type Consumer struct {
	seen int
}

// Seen returns how many log lines have been handed out.
func (c *Consumer) Seen() int {
	return c.seen
}

// Consume builds the view for s and advances the seen counter.
func (c *Consumer) Consume(s Snapshot) View {
	var v View
	if root, ok := s.Root(); ok {
		v.RootName = root.Name
		v.RootCompleted = root.Completed
		v.RootTarget = root.Target
	}
	if active, ok := s.Active(); ok {
		v.Label = active.Name
	}
	for _, line := range s.Lines() {
		if line.Seq <= c.seen {
			continue
		}
		v.NewLines = append(v.NewLines, line.Text)
		c.seen = line.Seq
	}
	return v
}
