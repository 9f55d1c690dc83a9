package versiondb

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"pvm/internal/catalog"
	"pvm/internal/engine"
	"pvm/internal/logx"
)

// Delegate performs backend work for a resolved version.
type Delegate interface {
	Pull(ctx context.Context, version string) error
	Inspect(ctx context.Context, version string) error
	Remove(ctx context.Context, version string) error
	Command(version string, opts engine.CommandOptions) []string
}

// CatalogSource supplies the cached release catalog.
type CatalogSource interface {
	Read() (*catalog.Catalog, error)
}

// Confirmer asks the user before destructive operations.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// Scope tells where an effective version came from.
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
)

// Selection is the version that applies in a directory. Version is empty when
// nothing is set.
type Selection struct {
	Scope   Scope
	Version string
}

// IsSet reports whether a version applies.
func (s Selection) IsSet() bool {
	return s.Version != ""
}

// Options wires a Manager.
type Options struct {
	DatabasePath string
	Catalog      CatalogSource
	Delegate     Delegate
	// Confirmer may be nil, in which case removals are not confirmed.
	Confirmer Confirmer
	Logger    *log.Logger
}

// Manager applies version operations to the database. Every mutating
// operation writes the database once, after all validation and backend calls
// have succeeded.
type Manager struct {
	dbPath   string
	catalogs CatalogSource
	delegate Delegate
	confirm  Confirmer
	logger   *log.Logger

	cat *catalog.Catalog
}

// NewManager returns a manager for opts.
func NewManager(opts Options) *Manager {
	return &Manager{
		dbPath:   opts.DatabasePath,
		catalogs: opts.Catalog,
		delegate: opts.Delegate,
		confirm:  opts.Confirmer,
		logger:   logx.OrDiscard(opts.Logger),
	}
}

// Resolve maps a major name to its recorded latest release. Anything else,
// including a major without a recorded latest, is returned unchanged. The
// result is not checked against the catalog.
func Resolve(requested string, cat *catalog.Catalog) string {
	if r, ok := cat.Major(requested); ok && r.Latest != "" {
		return r.Latest
	}
	return requested
}

func (m *Manager) catalog() (*catalog.Catalog, error) {
	if m.cat != nil {
		return m.cat, nil
	}
	if m.catalogs == nil {
		m.cat = catalog.New()
		return m.cat, nil
	}
	cat, err := m.catalogs.Read()
	if err != nil {
		return nil, err
	}
	m.cat = cat
	return cat, nil
}

// Resolve resolves requested against the cached catalog.
func (m *Manager) Resolve(requested string) (string, error) {
	cat, err := m.catalog()
	if err != nil {
		return "", err
	}
	return Resolve(requested, cat), nil
}

// State loads the current database.
func (m *Manager) State() (State, error) {
	return Load(m.dbPath)
}

// Install pulls the image for version and records it as installed. It returns
// the resolved version.
func (m *Manager) Install(ctx context.Context, version string) (string, error) {
	cat, err := m.catalog()
	if err != nil {
		return "", err
	}
	resolved := Resolve(version, cat)
	if !cat.HasMajor(resolved) && !cat.HasMinor(resolved) {
		return "", &ResolutionError{Requested: version, Resolved: resolved, Suggestions: suggest(resolved, cat)}
	}

	state, err := m.State()
	if err != nil {
		return "", err
	}

	m.logger.Info("installing", "requested", version, "version", resolved)
	if err := m.delegate.Pull(ctx, resolved); err != nil {
		return "", err
	}
	if err := m.delegate.Inspect(ctx, resolved); err != nil {
		return "", err
	}

	if !state.addInstalled(resolved) {
		m.logger.Info("already installed", "version", resolved)
	}
	if err := Write(m.dbPath, state); err != nil {
		return "", err
	}
	return resolved, nil
}

// Remove deletes an installed version after confirmation, clearing the global
// and every local selection that refers to it.
func (m *Manager) Remove(ctx context.Context, version string) (string, error) {
	resolved, err := m.Resolve(version)
	if err != nil {
		return "", err
	}
	state, err := m.State()
	if err != nil {
		return "", err
	}
	if !state.IsInstalled(resolved) {
		return "", &StateError{Op: "remove", Version: resolved, Reason: "version is not installed"}
	}

	if m.confirm != nil {
		ok, err := m.confirm.Confirm(m.removePrompt(state, resolved))
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrAborted
		}
	}

	if err := m.delegate.Remove(ctx, resolved); err != nil {
		return "", err
	}
	state.removeInstalled(resolved)
	if err := Write(m.dbPath, state); err != nil {
		return "", err
	}
	m.logger.Info("removed", "version", resolved)
	return resolved, nil
}

func (m *Manager) removePrompt(state State, version string) string {
	var refs int
	for _, v := range state.Local {
		if v == version {
			refs++
		}
	}
	prompt := fmt.Sprintf("Remove PHP %s?", version)
	switch {
	case state.GlobalVersion() == version && refs > 0:
		prompt = fmt.Sprintf("Remove PHP %s? It is the global version and used by %d local setting(s).", version, refs)
	case state.GlobalVersion() == version:
		prompt = fmt.Sprintf("Remove PHP %s? It is the global version.", version)
	case refs > 0:
		prompt = fmt.Sprintf("Remove PHP %s? It is used by %d local setting(s).", version, refs)
	}
	return prompt
}

// SetGlobal selects an installed version as the global default.
func (m *Manager) SetGlobal(version string) (string, error) {
	resolved, state, err := m.installedState("use", version)
	if err != nil {
		return "", err
	}
	state.Global = &resolved
	if err := Write(m.dbPath, state); err != nil {
		return "", err
	}
	m.logger.Info("global version set", "version", resolved)
	return resolved, nil
}

// SetLocal selects an installed version for dir.
func (m *Manager) SetLocal(version, dir string) (string, error) {
	key, err := NormalizeDir(dir)
	if err != nil {
		return "", err
	}
	resolved, state, err := m.installedState("local", version)
	if err != nil {
		return "", err
	}
	state.Local[key] = resolved
	if err := Write(m.dbPath, state); err != nil {
		return "", err
	}
	m.logger.Info("local version set", "version", resolved, "dir", key)
	return resolved, nil
}

func (m *Manager) installedState(op, version string) (string, State, error) {
	resolved, err := m.Resolve(version)
	if err != nil {
		return "", State{}, err
	}
	state, err := m.State()
	if err != nil {
		return "", State{}, err
	}
	if !state.IsInstalled(resolved) {
		return "", State{}, &StateError{Op: op, Version: resolved, Reason: "version is not installed; run `pvm install " + version + "` first"}
	}
	return resolved, state, nil
}

// UnsetLocal removes the local selection for dir and returns the version it held.
func (m *Manager) UnsetLocal(dir string) (string, error) {
	key, err := NormalizeDir(dir)
	if err != nil {
		return "", err
	}
	state, err := m.State()
	if err != nil {
		return "", err
	}
	version, ok := state.Local[key]
	if !ok {
		return "", &StateError{Op: "nolocal", Reason: "no local version set for " + key}
	}
	delete(state.Local, key)
	if err := Write(m.dbPath, state); err != nil {
		return "", err
	}
	m.logger.Info("local version unset", "version", version, "dir", key)
	return version, nil
}

// Effective returns the local selection for dir unless forceGlobal is set or
// no local selection exists, in which case it returns the global selection.
func (m *Manager) Effective(dir string, forceGlobal bool) (Selection, error) {
	state, err := m.State()
	if err != nil {
		return Selection{}, err
	}
	if !forceGlobal {
		key, err := NormalizeDir(dir)
		if err != nil {
			return Selection{}, err
		}
		if v, ok := state.Local[key]; ok {
			return Selection{Scope: ScopeLocal, Version: v}, nil
		}
	}
	return Selection{Scope: ScopeGlobal, Version: state.GlobalVersion()}, nil
}

// Local returns only the local selection for dir.
func (m *Manager) Local(dir string) (Selection, error) {
	key, err := NormalizeDir(dir)
	if err != nil {
		return Selection{}, err
	}
	state, err := m.State()
	if err != nil {
		return Selection{}, err
	}
	return Selection{Scope: ScopeLocal, Version: state.Local[key]}, nil
}

// BuildCommand returns the invocation template for the version that applies
// in dir. Passthrough arguments are appended by the caller.
func (m *Manager) BuildCommand(dir string, forceGlobal bool, opts engine.CommandOptions) ([]string, Selection, error) {
	sel, err := m.Effective(dir, forceGlobal)
	if err != nil {
		return nil, Selection{}, err
	}
	if !sel.IsSet() {
		return nil, sel, ErrNoVersionSet
	}
	if opts.Dir == "" {
		if opts.Dir, err = NormalizeDir(dir); err != nil {
			return nil, sel, err
		}
	}
	return m.delegate.Command(sel.Version, opts), sel, nil
}

// NormalizeDir returns the absolute, cleaned form of dir used as a local key.
func NormalizeDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory %q: %w", dir, err)
	}
	return filepath.Clean(abs), nil
}
