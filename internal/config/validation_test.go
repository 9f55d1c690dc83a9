package config

import (
	"strings"
	"testing"
)

func errorsOf(results []ValidationResult) []ValidationResult {
	var errs []ValidationResult
	for _, r := range results {
		if r.Level == "error" {
			errs = append(errs, r)
		}
	}
	return errs
}

func TestValidateStrict(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		want    string
		warning bool
	}{
		{name: "bad endpoint", mutate: func(c *Config) { c.DocsEndpoint = "ftp://php.watch" }, want: "docs_endpoint"},
		{name: "plain http", mutate: func(c *Config) { c.DocsEndpoint = "http://php.watch" }, want: "https", warning: true},
		{name: "empty binary", mutate: func(c *Config) { c.Engine.Binary = " " }, want: "engine.binary"},
		{name: "empty repository", mutate: func(c *Config) { c.Engine.Repository = "" }, want: "engine.repository"},
		{name: "template without placeholder", mutate: func(c *Config) { c.Engine.TagTemplate = "latest" }, want: "tag_template"},
		{name: "relative workdir", mutate: func(c *Config) { c.Engine.Workdir = "app" }, want: "workdir"},
		{name: "unknown level", mutate: func(c *Config) { c.Logging.Level = "loud" }, want: "logging.level"},
		{name: "unknown code", mutate: func(c *Config) { c.StatusLabels[0].Code = 42 }, want: "status_labels"},
		{name: "missing status", mutate: func(c *Config) { c.StatusLabels = c.StatusLabels[1:] }, want: "status_labels"},
		{
			name: "duplicate label",
			mutate: func(c *Config) {
				c.StatusLabels[1].Label = c.StatusLabels[0].Label
			},
			want: "status_labels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			results := cfg.ValidateStrict()
			if len(results) != 1 {
				t.Fatalf("expected 1 finding, got %d: %v", len(results), results)
			}
			if !strings.Contains(results[0].Message, tt.want) {
				t.Fatalf("message %q does not mention %q", results[0].Message, tt.want)
			}
			err := cfg.Validate()
			if tt.warning {
				if results[0].Level != "warning" || err != nil {
					t.Fatalf("expected warning only, got %v / %v", results[0], err)
				}
				return
			}
			if len(errorsOf(results)) != 1 || err == nil {
				t.Fatalf("expected error, got %v / %v", results, err)
			}
		})
	}
}

func TestValidateDefaultsClean(t *testing.T) {
	if results := Default().ValidateStrict(); len(results) != 0 {
		t.Fatalf("expected no findings, got %v", results)
	}
}
