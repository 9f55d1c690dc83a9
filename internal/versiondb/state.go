// Package versiondb records installed PHP versions and the global and
// per-directory selections, and resolves requested version strings against
// the release catalog.
package versiondb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// State is the persisted database. Global and every Local value must be
// members of Installed.
type State struct {
	Installed []string          `json:"installed_versions"`
	Global    *string           `json:"global_version"`
	Local     map[string]string `json:"local_versions"`
}

// Empty returns the state of a fresh database.
func Empty() State {
	return State{Installed: []string{}, Local: map[string]string{}}
}

func (s *State) normalize() {
	if s.Installed == nil {
		s.Installed = []string{}
	}
	if s.Local == nil {
		s.Local = map[string]string{}
	}
}

// IsInstalled reports whether version is in the installed set.
func (s State) IsInstalled(version string) bool {
	for _, v := range s.Installed {
		if v == version {
			return true
		}
	}
	return false
}

// GlobalVersion returns the global selection, or "" when unset.
func (s State) GlobalVersion() string {
	if s.Global == nil {
		return ""
	}
	return *s.Global
}

func (s *State) addInstalled(version string) bool {
	if s.IsInstalled(version) {
		return false
	}
	s.Installed = append(s.Installed, version)
	return true
}

// removeInstalled drops version and every selection that refers to it.
func (s *State) removeInstalled(version string) {
	kept := s.Installed[:0]
	for _, v := range s.Installed {
		if v != version {
			kept = append(kept, v)
		}
	}
	s.Installed = kept
	if s.Global != nil && *s.Global == version {
		s.Global = nil
	}
	for dir, v := range s.Local {
		if v == version {
			delete(s.Local, dir)
		}
	}
}

// Load reads the database at path. A missing file yields Empty.
func Load(path string) (State, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Empty(), nil
		}
		return State{}, fmt.Errorf("read database: %w", err)
	}

	var state State
	if err := json.Unmarshal(contents, &state); err != nil {
		return State{}, fmt.Errorf("unmarshal database %s: %w", path, err)
	}
	state.normalize()
	return state, nil
}

// Write replaces the database at path with state.
func Write(path string, state State) error {
	state.normalize()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare database directory: %w", err)
	}

	buf, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal database: %w", err)
	}
	buf = append(buf, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "database-*.json")
	if err != nil {
		return fmt.Errorf("create temp database: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("write database temp: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod database temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close database temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}
