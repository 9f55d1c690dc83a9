package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ParseError reports cached catalog data that failed structural validation.
type ParseError struct {
	Path string
	Key  string
	Err  error
}

func (e *ParseError) Error() string {
	where := e.Path
	if e.Key != "" {
		if where != "" {
			where += ": "
		}
		where += e.Key
	}
	if where == "" {
		return fmt.Sprintf("invalid catalog: %v", e.Err)
	}
	return fmt.Sprintf("invalid catalog (%s): %v", where, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RawEntry is one top-level object member of the cache file, in file order.
type RawEntry struct {
	Key   string
	Value json.RawMessage
}

// Raw is the undecoded content of the cache file.
type Raw []RawEntry

// Store reads and writes the catalog cache file.
type Store struct {
	path string
}

// NewStore returns a store bound to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the cache file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// ModTime returns when the cache was last written.
func (s *Store) ModTime() (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Save overwrites the cache file with cat, creating parent directories.
func (s *Store) Save(cat *Catalog) error {
	data, err := Encode(cat)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prepare catalog directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Load returns the raw cache content, or an empty Raw when the file is missing.
func (s *Store) Load() (Raw, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Raw{}, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	raw, err := decodeObject(data)
	if err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}
	return Raw(raw), nil
}

// Read loads and parses the cache file.
func (s *Store) Read() (*Catalog, error) {
	raw, err := s.Load()
	if err != nil {
		return nil, err
	}
	cat, err := Parse(raw)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) && perr.Path == "" {
			perr.Path = s.path
		}
		return nil, err
	}
	return cat, nil
}

type minorDoc struct {
	Name string  `json:"name"`
	Date *string `json:"date"`
}

type releaseDoc struct {
	Name     string          `json:"name"`
	Date     *string         `json:"date"`
	Status   *int            `json:"status"`
	Latest   *string         `json:"latest"`
	Releases json.RawMessage `json:"releases"`
}

// Encode renders cat in the cache file format, preserving catalog order.
func Encode(cat *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range cat.Majors() {
		if i > 0 {
			buf.WriteByte(',')
		}
		minors, err := encodeMinors(r.Releases)
		if err != nil {
			return nil, err
		}
		doc := releaseDoc{
			Name:     r.Name,
			Date:     formatDate(r.Date),
			Releases: minors,
		}
		if r.Status != nil {
			code := r.Status.Code()
			doc.Status = &code
		}
		if r.Latest != "" {
			latest := r.Latest
			doc.Latest = &latest
		}
		if err := writeMember(&buf, r.Name, doc); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeMinors(minors []MinorRelease) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range minors {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, m.Name, minorDoc{Name: m.Name, Date: formatDate(m.Date)}); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("encode catalog key %q: %w", key, err)
	}
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode catalog entry %q: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// Parse validates raw and builds a catalog. Any structural problem fails the
// whole parse.
func Parse(raw Raw) (*Catalog, error) {
	cat := New()
	for _, entry := range raw {
		r, err := parseRelease(entry.Value)
		if err == nil && r.Name != entry.Key {
			err = fmt.Errorf("name %q does not match key", r.Name)
		}
		if err != nil {
			return nil, &ParseError{Key: entry.Key, Err: err}
		}
		cat.Add(r)
	}
	return cat, nil
}

func parseRelease(data json.RawMessage) (Release, error) {
	fields, err := requireFields(data, "name", "date", "status", "latest", "releases")
	if err != nil {
		return Release{}, err
	}

	var r Release
	if err := json.Unmarshal(fields["name"], &r.Name); err != nil || isNull(fields["name"]) {
		return Release{}, fmt.Errorf("name: expected string")
	}
	if r.Date, err = parseDate(fields["date"]); err != nil {
		return Release{}, err
	}
	if !isNull(fields["status"]) {
		var code int
		if err := json.Unmarshal(fields["status"], &code); err != nil {
			return Release{}, fmt.Errorf("status: expected integer code")
		}
		status, err := StatusFromCode(code)
		if err != nil {
			return Release{}, fmt.Errorf("status: %w", err)
		}
		r.Status = &status
	}
	if !isNull(fields["latest"]) {
		if err := json.Unmarshal(fields["latest"], &r.Latest); err != nil {
			return Release{}, fmt.Errorf("latest: expected string")
		}
	}

	minors, err := decodeObject(fields["releases"])
	if err != nil {
		return Release{}, fmt.Errorf("releases: %w", err)
	}
	for _, entry := range minors {
		m, err := parseMinor(entry.Value)
		if err == nil && m.Name != entry.Key {
			err = fmt.Errorf("name %q does not match key", m.Name)
		}
		if err != nil {
			return Release{}, fmt.Errorf("release %s: %w", entry.Key, err)
		}
		r.AddMinor(m)
	}
	return r, nil
}

func parseMinor(data json.RawMessage) (MinorRelease, error) {
	fields, err := requireFields(data, "name", "date")
	if err != nil {
		return MinorRelease{}, err
	}
	var m MinorRelease
	if err := json.Unmarshal(fields["name"], &m.Name); err != nil || isNull(fields["name"]) {
		return MinorRelease{}, fmt.Errorf("name: expected string")
	}
	if m.Date, err = parseDate(fields["date"]); err != nil {
		return MinorRelease{}, err
	}
	return m, nil
}

func requireFields(data json.RawMessage, keys ...string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("expected object")
	}
	for _, key := range keys {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("missing key %q", key)
		}
	}
	return fields, nil
}

func parseDate(data json.RawMessage) (*time.Time, error) {
	if isNull(data) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("date: expected string")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", s, err)
	}
	return &t, nil
}

func isNull(data json.RawMessage) bool {
	return len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null"
}

// decodeObject splits a JSON object into its members, keeping their order.
func decodeObject(data []byte) ([]RawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object")
	}

	var entries []RawEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode object key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		entries = append(entries, RawEntry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode object end: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after object")
	}
	return entries, nil
}
