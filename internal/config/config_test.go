package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"pvm/internal/catalog"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.DocsEndpoint != def.DocsEndpoint {
		t.Fatalf("docs endpoint = %q", cfg.DocsEndpoint)
	}
	if cfg.EngineConfig() != def.EngineConfig() {
		t.Fatalf("engine = %+v", cfg.Engine)
	}
	if len(cfg.StatusLabels) != len(catalog.Statuses()) {
		t.Fatalf("expected %d status labels, got %d", len(catalog.Statuses()), len(cfg.StatusLabels))
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `docs_endpoint: https://mirror.example.test/
engine:
  binary: podman
  tag_template: "{version}-fpm"
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DocsEndpoint != "https://mirror.example.test/" {
		t.Fatalf("docs endpoint = %q", cfg.DocsEndpoint)
	}
	if cfg.Engine.Binary != "podman" || cfg.Engine.TagTemplate != "{version}-fpm" {
		t.Fatalf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.Repository != "php" || cfg.Engine.Workdir != "/app" {
		t.Fatalf("unset engine keys should keep defaults: %+v", cfg.Engine)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PVM_ENGINE_BINARY", "nerdctl")
	t.Setenv("PVM_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Binary != "nerdctl" {
		t.Fatalf("binary = %q", cfg.Engine.Binary)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("engine: [unterminated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestCustomStatusLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `status_labels:
  - {label: "EOL", code: 1000}
  - {label: "Security", code: 1001}
  - {label: "Active", code: 1002}
  - {label: "Current", code: 1003}
  - {label: "Upcoming", code: 1004}
  - {label: "Planned", code: 1005}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	table, err := cfg.StatusTable()
	if err != nil {
		t.Fatalf("StatusTable: %v", err)
	}
	status, ok := table.Lookup("Security")
	if !ok || status != catalog.StatusSecurityFixes {
		t.Fatalf("Lookup(Security) = %v, %v", status, ok)
	}
	if _, ok := table.Lookup("Security-Fixes Only"); ok {
		t.Fatal("default label should not survive a custom table")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Engine.Binary = "podman"

	buf, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(buf), "tag_template:") || !strings.Contains(string(buf), "{version}-cli") {
		t.Fatalf("unexpected yaml:\n%s", buf)
	}

	var back Config
	if err := yaml.Unmarshal(buf, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Engine.Binary != "podman" || len(back.StatusLabels) != len(cfg.StatusLabels) {
		t.Fatalf("round trip lost data: %+v", back)
	}
}

func TestApplyDefaultsFillsBlanks(t *testing.T) {
	cfg := Config{Engine: EngineConfig{Binary: "podman"}}
	cfg.ApplyDefaults()
	if cfg.Engine.Binary != "podman" {
		t.Fatalf("binary overwritten: %q", cfg.Engine.Binary)
	}
	if cfg.Engine.Repository == "" || cfg.DocsEndpoint == "" || cfg.Logging.Level == "" {
		t.Fatalf("blanks not filled: %+v", cfg)
	}
}
