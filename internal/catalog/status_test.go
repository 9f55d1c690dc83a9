package catalog

import "testing"

func TestDefaultStatusTableIsBijection(t *testing.T) {
	table := DefaultStatusTable()
	for label, want := range DefaultStatusLabels() {
		got, ok := table.Lookup(label)
		if !ok || got != want {
			t.Errorf("Lookup(%q) = %v, %v; want %v", label, got, ok, want)
		}
		if back := table.Label(want); back != label {
			t.Errorf("Label(%v) = %q, want %q", want, back, label)
		}
	}
	if len(table.Labels()) != len(Statuses()) {
		t.Fatalf("expected %d labels, got %d", len(Statuses()), len(table.Labels()))
	}
	if table.Labels()[0] != "Unsupported" {
		t.Fatalf("expected labels sorted by code, got %v", table.Labels())
	}
}

func TestLookupIsExact(t *testing.T) {
	table := DefaultStatusTable()
	for _, label := range []string{"supported", "Supported ", "Latest", ""} {
		if _, ok := table.Lookup(label); ok {
			t.Errorf("Lookup(%q) unexpectedly matched", label)
		}
	}
}

func TestNewStatusTableRejectsBadTables(t *testing.T) {
	tests := []struct {
		name   string
		labels map[string]Status
	}{
		{"missing status", map[string]Status{"Unsupported": StatusUnsupported}},
		{"unknown code", func() map[string]Status {
			m := DefaultStatusLabels()
			m["Legacy"] = Status(42)
			return m
		}()},
		{"duplicate status", func() map[string]Status {
			m := DefaultStatusLabels()
			m["End of life"] = StatusUnsupported
			return m
		}()},
		{"empty label", func() map[string]Status {
			m := DefaultStatusLabels()
			delete(m, "Supported")
			m[""] = StatusSupported
			return m
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStatusTable(tt.labels); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestStatusFromCode(t *testing.T) {
	for _, s := range Statuses() {
		got, err := StatusFromCode(s.Code())
		if err != nil || got != s {
			t.Errorf("StatusFromCode(%d) = %v, %v", s.Code(), got, err)
		}
	}
	for _, code := range []int{0, 999, 1006} {
		if _, err := StatusFromCode(code); err == nil {
			t.Errorf("StatusFromCode(%d) expected error", code)
		}
	}
}

func TestSortedMinors(t *testing.T) {
	r := Release{Name: "8.3", Releases: []MinorRelease{
		{Name: "8.3.2"}, {Name: "8.3.10"}, {Name: "8.3.0"}, {Name: "nightly"},
	}}
	got := SortedMinors(r)
	want := []string{"8.3.10", "8.3.2", "8.3.0", "nightly"}
	for i, m := range got {
		if m.Name != want[i] {
			t.Fatalf("SortedMinors = %v, want %v", got, want)
		}
	}
	if r.Releases[0].Name != "8.3.2" {
		t.Fatal("SortedMinors must not reorder the release in place")
	}
}
