package versiondb

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVersionSet is returned when neither a local nor a global version applies.
	ErrNoVersionSet = errors.New("no version set")
	// ErrAborted is returned when the user declines a destructive operation.
	ErrAborted = errors.New("aborted")
)

// ResolutionError reports a requested version that is neither a known major
// nor a known minor release.
type ResolutionError struct {
	Requested string
	Resolved  string
	// Suggestions lists known versions that look like Requested.
	Suggestions []string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("unknown PHP version %q", e.Requested)
	if e.Resolved != "" && e.Resolved != e.Requested {
		msg += fmt.Sprintf(" (resolved to %q)", e.Resolved)
	}
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg + "; run `pvm update` to refresh the catalog"
}

// StateError reports a mutation that would violate the database invariants.
type StateError struct {
	Op      string
	Version string
	Reason  string
}

func (e *StateError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Version, e.Reason)
}
