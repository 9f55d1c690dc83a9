package tui

import (
	"bytes"
	"strings"
	"testing"

	"pvm/internal/catalog"
)

func TestRenderReleaseTable(t *testing.T) {
	latest := catalog.StatusLatest
	rows := []ReleaseRow{
		{Version: "8.3", Status: &latest, Label: "Supported (Latest)", Released: "2023-11-23", Latest: "8.3.1", State: []string{"installed", "global"}},
		{Version: "8.5"},
	}

	out := RenderReleaseTable(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d:\n%s", len(lines), out)
	}
	for _, h := range releaseColumns {
		if !strings.Contains(lines[0], h) {
			t.Errorf("header missing %s: %q", h, lines[0])
		}
	}
	if !strings.Contains(lines[1], "installed,global") || !strings.Contains(lines[1], "8.3.1") {
		t.Errorf("unexpected row: %q", lines[1])
	}
	if fields := strings.Fields(lines[2]); len(fields) != 5 || fields[1] != "-" {
		t.Errorf("expected dashes for empty cells: %q", lines[2])
	}
}

func TestStatusWriterFinish(t *testing.T) {
	var out bytes.Buffer
	sw := NewStatusWriter(&out, "Pulling php:8.3.1-cli")
	sw.Finish(true, "Installed 8.3.1")
	sw.Stop()

	if !strings.Contains(out.String(), "Installed 8.3.1") {
		t.Fatalf("missing final line: %q", out.String())
	}
	if strings.Count(out.String(), "Installed 8.3.1") != 1 {
		t.Fatalf("final line written more than once: %q", out.String())
	}
}
