package engine

import (
	"context"
	"errors"
	"os/exec"
)

// ToolInfo captures availability and version details for the container CLI.
type ToolInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// Probe reports whether the configured CLI is installed and which version it is.
func (d *Docker) Probe(ctx context.Context) ToolInfo {
	name := d.cfg.Binary
	path, err := d.lookPath(name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ToolInfo{Name: name, Available: false, Error: "not found"}
		}
		return ToolInfo{Name: name, Available: false, Error: err.Error()}
	}

	version, err := d.Version(ctx)
	if err != nil {
		return ToolInfo{Name: name, Path: path, Available: true, Error: err.Error()}
	}
	return ToolInfo{Name: name, Path: path, Version: version, Available: true}
}
