package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pvm/internal/catalog"
	"pvm/internal/engine"
	"pvm/internal/fetch"
)

// EnvPrefix prefixes environment overrides, e.g. PVM_ENGINE_BINARY.
const EnvPrefix = "PVM"

// Config captures user settings for pvm.
type Config struct {
	DocsEndpoint string        `mapstructure:"docs_endpoint" yaml:"docs_endpoint"`
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent"`
	Engine       EngineConfig  `mapstructure:"engine" yaml:"engine"`
	Logging      LoggingConfig `mapstructure:"logging" yaml:"logging"`
	// StatusLabels maps the labels published by the documentation source to
	// status codes. It is a list because viper folds map keys to lower case.
	StatusLabels []StatusLabel `mapstructure:"status_labels" yaml:"status_labels"`
}

// EngineConfig selects the container CLI and image naming.
type EngineConfig struct {
	Binary      string `mapstructure:"binary" yaml:"binary"`
	Repository  string `mapstructure:"repository" yaml:"repository"`
	TagTemplate string `mapstructure:"tag_template" yaml:"tag_template"`
	Workdir     string `mapstructure:"workdir" yaml:"workdir"`
}

// LoggingConfig controls the per-run log file.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// StatusLabel pairs a published label with a status code.
type StatusLabel struct {
	Label string `mapstructure:"label" yaml:"label"`
	Code  int    `mapstructure:"code" yaml:"code"`
}

// Default returns the baseline configuration.
func Default() Config {
	eng := engine.DefaultConfig()
	return Config{
		DocsEndpoint: fetch.DefaultEndpoint,
		UserAgent:    fetch.DefaultUserAgent,
		Engine: EngineConfig{
			Binary:      eng.Binary,
			Repository:  eng.Repository,
			TagTemplate: eng.TagTemplate,
			Workdir:     eng.Workdir,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		StatusLabels: defaultStatusLabels(),
	}
}

func defaultStatusLabels() []StatusLabel {
	table := catalog.DefaultStatusTable()
	var labels []StatusLabel
	for _, status := range catalog.Statuses() {
		labels = append(labels, StatusLabel{Label: table.Label(status), Code: status.Code()})
	}
	return labels
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("docs_endpoint", def.DocsEndpoint)
	v.SetDefault("user_agent", def.UserAgent)
	v.SetDefault("engine.binary", def.Engine.Binary)
	v.SetDefault("engine.repository", def.Engine.Repository)
	v.SetDefault("engine.tag_template", def.Engine.TagTemplate)
	v.SetDefault("engine.workdir", def.Engine.Workdir)
	v.SetDefault("logging.level", def.Logging.Level)

	labels := make([]map[string]any, 0, len(def.StatusLabels))
	for _, l := range def.StatusLabels {
		labels = append(labels, map[string]any{"label": l.Label, "code": l.Code})
	}
	v.SetDefault("status_labels", labels)
}

// Load reads the YAML configuration at path when it exists, applies PVM_*
// environment overrides, and fills in defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures fields fall back to defaults when the YAML blanks them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if strings.TrimSpace(c.DocsEndpoint) == "" {
		c.DocsEndpoint = defaults.DocsEndpoint
	}
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}
	if c.Engine.Binary == "" {
		c.Engine.Binary = defaults.Engine.Binary
	}
	if c.Engine.Repository == "" {
		c.Engine.Repository = defaults.Engine.Repository
	}
	if c.Engine.TagTemplate == "" {
		c.Engine.TagTemplate = defaults.Engine.TagTemplate
	}
	if c.Engine.Workdir == "" {
		c.Engine.Workdir = defaults.Engine.Workdir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if len(c.StatusLabels) == 0 {
		c.StatusLabels = defaults.StatusLabels
	}
}

// StatusTable builds the label table from StatusLabels.
func (c Config) StatusTable() (catalog.StatusTable, error) {
	labels := make(map[string]catalog.Status, len(c.StatusLabels))
	for _, l := range c.StatusLabels {
		status, err := catalog.StatusFromCode(l.Code)
		if err != nil {
			return catalog.StatusTable{}, fmt.Errorf("status label %q: %w", l.Label, err)
		}
		if _, dup := labels[l.Label]; dup {
			return catalog.StatusTable{}, fmt.Errorf("status label %q listed twice", l.Label)
		}
		labels[l.Label] = status
	}
	return catalog.NewStatusTable(labels)
}

// EngineConfig converts the engine section for the execution delegate.
func (c Config) EngineConfig() engine.Config {
	return engine.Config{
		Binary:      c.Engine.Binary,
		Repository:  c.Engine.Repository,
		TagTemplate: c.Engine.TagTemplate,
		Workdir:     c.Engine.Workdir,
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
