package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return &d
}

func statusPtr(s Status) *Status {
	return &s
}

func sampleCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat := New()
	cat.Add(Release{
		Name:   "8.3",
		Date:   mustDate(t, "2023-11-23"),
		Status: statusPtr(StatusLatest),
		Latest: "8.3.1",
		Releases: []MinorRelease{
			{Name: "8.3.1", Date: mustDate(t, "2023-12-21")},
			{Name: "8.3.0", Date: mustDate(t, "2023-11-23")},
		},
	})
	cat.Add(Release{Name: "8.5"})
	cat.Add(Release{
		Name:     "5.6",
		Date:     mustDate(t, "2014-08-28"),
		Status:   statusPtr(StatusUnsupported),
		Latest:   "5.6.40",
		Releases: []MinorRelease{{Name: "5.6.40"}},
	})
	return cat
}

func TestSaveParseRoundtrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "versions.json"))
	want := sampleCatalog(t)

	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if strings.Join(got.Names(), ",") != "8.3,8.5,5.6" {
		t.Fatalf("expected discovery order preserved, got %v", got.Names())
	}
	for _, w := range want.Majors() {
		g, ok := got.Major(w.Name)
		if !ok {
			t.Fatalf("major %s missing after roundtrip", w.Name)
		}
		if !sameDate(g.Date, w.Date) {
			t.Errorf("major %s: date %v, want %v", w.Name, g.Date, w.Date)
		}
		if (g.Status == nil) != (w.Status == nil) || (g.Status != nil && *g.Status != *w.Status) {
			t.Errorf("major %s: status %v, want %v", w.Name, g.Status, w.Status)
		}
		if g.Latest != w.Latest {
			t.Errorf("major %s: latest %q, want %q", w.Name, g.Latest, w.Latest)
		}
		if len(g.Releases) != len(w.Releases) {
			t.Fatalf("major %s: %d releases, want %d", w.Name, len(g.Releases), len(w.Releases))
		}
		for i := range w.Releases {
			if g.Releases[i].Name != w.Releases[i].Name || !sameDate(g.Releases[i].Date, w.Releases[i].Date) {
				t.Errorf("major %s release %d: got %+v, want %+v", w.Name, i, g.Releases[i], w.Releases[i])
			}
		}
	}
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func TestSaveWritesNullsAndCodes(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "versions.json"))
	if err := store.Save(sampleCatalog(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"status": 1003`, `"status": null`, `"latest": null`, `"date": "2023-12-21"`} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %s in cache file:\n%s", want, text)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	raw, err := store.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected empty raw catalog, got %d entries", len(raw))
	}
	cat, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cat.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d majors", cat.Len())
	}
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing key", `{"8.3": {"name": "8.3", "date": null, "status": null, "releases": {}}}`},
		{"bad date", `{"8.3": {"name": "8.3", "date": "23/11/2023", "status": null, "latest": null, "releases": {}}}`},
		{"unknown status code", `{"8.3": {"name": "8.3", "date": null, "status": 999, "latest": null, "releases": {}}}`},
		{"status as string", `{"8.3": {"name": "8.3", "date": null, "status": "1003", "latest": null, "releases": {}}}`},
		{"minor missing date", `{"8.3": {"name": "8.3", "date": null, "status": null, "latest": null, "releases": {"8.3.0": {"name": "8.3.0"}}}}`},
		{"releases not object", `{"8.3": {"name": "8.3", "date": null, "status": null, "latest": null, "releases": []}}`},
		{"null name", `{"8.3": {"name": null, "date": null, "status": null, "latest": null, "releases": {}}}`},
		{"major name differs from key", `{"8": {"name": "7.4", "date": null, "status": null, "latest": null, "releases": {}}}`},
		{"minor name differs from key", `{"8.3": {"name": "8.3", "date": null, "status": null, "latest": null, "releases": {"8.3.0": {"name": "8.3.1", "date": null}}}}`},
		{"top level array", `[]`},
		{"truncated", `{"8.3": {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "versions.json")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := NewStore(path).Read()
			if err == nil {
				t.Fatal("expected parse error")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestParseKeepsDuplicateMinorOnce(t *testing.T) {
	body := `{"8.3": {"name": "8.3", "date": null, "status": 1002, "latest": "8.3.1", "releases": {
		"8.3.1": {"name": "8.3.1", "date": null},
		"8.3.0": {"name": "8.3.0", "date": "2023-11-23"}
	}}}`
	path := filepath.Join(t.TempDir(), "versions.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cat, err := NewStore(path).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	r, _ := cat.Major("8.3")
	if len(r.Releases) != 2 || r.Releases[0].Name != "8.3.1" {
		t.Fatalf("unexpected releases %+v", r.Releases)
	}
	if !cat.HasMinor("8.3.0") || cat.HasMinor("8.2.0") {
		t.Fatal("HasMinor mismatch")
	}
}
