package config

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"pvm/internal/engine"
	"pvm/internal/logx"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// ValidateStrict runs every check and returns all findings.
func (c Config) ValidateStrict() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateEndpoint()...)
	results = append(results, c.validateEngine()...)
	results = append(results, c.validateLogging()...)
	results = append(results, c.validateStatusLabels()...)
	return results
}

// Validate returns the first error-level finding.
func (c Config) Validate() error {
	for _, r := range c.ValidateStrict() {
		if r.Level == "error" {
			return fmt.Errorf("invalid config: %s", r.Message)
		}
	}
	return nil
}

func (c Config) validateEndpoint() []ValidationResult {
	u, err := url.Parse(c.DocsEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("docs_endpoint %q must be an http(s) URL", c.DocsEndpoint),
		}}
	}
	if u.Scheme == "http" {
		return []ValidationResult{{
			Level:   "warning",
			Message: fmt.Sprintf("docs_endpoint %q is not using https", c.DocsEndpoint),
		}}
	}
	return nil
}

func (c Config) validateEngine() []ValidationResult {
	var results []ValidationResult
	if strings.TrimSpace(c.Engine.Binary) == "" {
		results = append(results, ValidationResult{Level: "error", Message: "engine.binary must not be empty"})
	}
	if strings.TrimSpace(c.Engine.Repository) == "" {
		results = append(results, ValidationResult{Level: "error", Message: "engine.repository must not be empty"})
	}
	if !strings.Contains(c.Engine.TagTemplate, engine.VersionPlaceholder) {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("engine.tag_template %q must contain %s", c.Engine.TagTemplate, engine.VersionPlaceholder),
		})
	}
	if !path.IsAbs(c.Engine.Workdir) {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("engine.workdir %q must be an absolute container path", c.Engine.Workdir),
		})
	}
	return results
}

func (c Config) validateLogging() []ValidationResult {
	if _, err := logx.ParseLevel(c.Logging.Level); err != nil {
		return []ValidationResult{{Level: "error", Message: "logging.level: " + err.Error()}}
	}
	return nil
}

func (c Config) validateStatusLabels() []ValidationResult {
	if _, err := c.StatusTable(); err != nil {
		return []ValidationResult{{Level: "error", Message: "status_labels: " + err.Error()}}
	}
	return nil
}
