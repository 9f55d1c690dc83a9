package catalog

import (
	"fmt"
	"sort"
)

// Status is the support status of a major release line. The numeric values are
// the codes persisted in the catalog cache.
type Status int

const (
	StatusUnsupported   Status = 1000
	StatusSecurityFixes Status = 1001
	StatusSupported     Status = 1002
	StatusLatest        Status = 1003
	StatusUpcoming      Status = 1004
	StatusFutureRelease Status = 1005
)

var allStatuses = []Status{
	StatusUnsupported,
	StatusSecurityFixes,
	StatusSupported,
	StatusLatest,
	StatusUpcoming,
	StatusFutureRelease,
}

// Statuses returns every known status in code order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// StatusFromCode converts a persisted integer code to a Status.
func StatusFromCode(code int) (Status, error) {
	s := Status(code)
	if !s.Valid() {
		return 0, fmt.Errorf("unknown status code %d", code)
	}
	return s, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s >= StatusUnsupported && s <= StatusFutureRelease
}

// Code returns the persisted integer code.
func (s Status) Code() int {
	return int(s)
}

func (s Status) String() string {
	switch s {
	case StatusUnsupported:
		return "unsupported"
	case StatusSecurityFixes:
		return "security-fixes"
	case StatusSupported:
		return "supported"
	case StatusLatest:
		return "latest"
	case StatusUpcoming:
		return "upcoming"
	case StatusFutureRelease:
		return "future"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// StatusTable maps the labels published by the documentation source to
// statuses. It is a bijection over the six known statuses.
type StatusTable struct {
	byLabel  map[string]Status
	byStatus map[Status]string
}

// DefaultStatusLabels returns the labels used by php.watch.
func DefaultStatusLabels() map[string]Status {
	return map[string]Status{
		"Unsupported":         StatusUnsupported,
		"Security-Fixes Only": StatusSecurityFixes,
		"Supported":           StatusSupported,
		"Supported (Latest)":  StatusLatest,
		"Upcoming Release":    StatusUpcoming,
		"Future Release":      StatusFutureRelease,
	}
}

// DefaultStatusTable returns the table built from DefaultStatusLabels.
func DefaultStatusTable() StatusTable {
	table, err := NewStatusTable(DefaultStatusLabels())
	if err != nil {
		panic(err)
	}
	return table
}

// NewStatusTable validates labels and builds a table. Every known status must be
// covered by exactly one non-empty label.
func NewStatusTable(labels map[string]Status) (StatusTable, error) {
	table := StatusTable{
		byLabel:  make(map[string]Status, len(labels)),
		byStatus: make(map[Status]string, len(labels)),
	}
	for label, status := range labels {
		if label == "" {
			return StatusTable{}, fmt.Errorf("status table: empty label for %s", status)
		}
		if !status.Valid() {
			return StatusTable{}, fmt.Errorf("status table: label %q maps to unknown code %d", label, int(status))
		}
		if other, dup := table.byStatus[status]; dup {
			return StatusTable{}, fmt.Errorf("status table: %s labelled both %q and %q", status, other, label)
		}
		table.byLabel[label] = status
		table.byStatus[status] = label
	}
	for _, s := range allStatuses {
		if _, ok := table.byStatus[s]; !ok {
			return StatusTable{}, fmt.Errorf("status table: no label for %s", s)
		}
	}
	return table, nil
}

// Lookup returns the status for an exact label match.
func (t StatusTable) Lookup(label string) (Status, bool) {
	s, ok := t.byLabel[label]
	return s, ok
}

// Label returns the published label for s, or "" when s is unknown.
func (t StatusTable) Label(s Status) string {
	return t.byStatus[s]
}

// Labels returns all labels sorted by status code.
func (t StatusTable) Labels() []string {
	labels := make([]string, 0, len(t.byLabel))
	for label := range t.byLabel {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return t.byLabel[labels[i]] < t.byLabel[labels[j]]
	})
	return labels
}
