// Package engine drives the Docker CLI that runs installed PHP versions.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"pvm/internal/logx"
)

// VersionPlaceholder is replaced with the PHP version in Config.TagTemplate.
const VersionPlaceholder = "{version}"

// Config selects the container CLI and image naming.
type Config struct {
	Binary      string
	Repository  string
	TagTemplate string
	// Workdir is where the caller's directory is mounted inside the container.
	Workdir string
}

// DefaultConfig runs the official php CLI images through docker.
func DefaultConfig() Config {
	return Config{
		Binary:      "docker",
		Repository:  "php",
		TagTemplate: VersionPlaceholder + "-cli",
		Workdir:     "/app",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Binary == "" {
		c.Binary = def.Binary
	}
	if c.Repository == "" {
		c.Repository = def.Repository
	}
	if c.TagTemplate == "" {
		c.TagTemplate = def.TagTemplate
	}
	if c.Workdir == "" {
		c.Workdir = def.Workdir
	}
	return c
}

// CommandOptions tunes the invocation template.
type CommandOptions struct {
	// Dir is the host directory mounted as the container working directory.
	Dir string
	// TTY allocates a pseudo terminal.
	TTY bool
}

// Stdio wires a passthrough invocation to the caller's streams.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Docker is the execution delegate.
type Docker struct {
	cfg      Config
	runner   Runner
	lookPath func(string) (string, error)
	logger   *log.Logger
}

// Option configures a Docker delegate.
type Option func(*Docker)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(d *Docker) {
		if r != nil {
			d.runner = r
		}
	}
}

// WithLookPath replaces binary discovery.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(d *Docker) {
		if fn != nil {
			d.lookPath = fn
		}
	}
}

// WithLogger sets the delegate logger.
func WithLogger(logger *log.Logger) Option {
	return func(d *Docker) {
		d.logger = logx.OrDiscard(logger)
	}
}

// NewDocker returns a delegate for cfg. Empty fields fall back to DefaultConfig.
func NewDocker(cfg Config, opts ...Option) *Docker {
	d := &Docker{
		cfg:      cfg.withDefaults(),
		runner:   CmdRunner{},
		lookPath: exec.LookPath,
		logger:   logx.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Check verifies the container CLI can be started.
func (d *Docker) Check(ctx context.Context) error {
	if _, err := d.lookPath(d.cfg.Binary); err != nil {
		return &DependencyError{Binary: d.cfg.Binary, Err: err}
	}
	if _, err := d.runner.Run(ctx, d.cfg.Binary, []string{"--version"}, RunOptions{}); err != nil {
		return &DependencyError{Binary: d.cfg.Binary, Err: err}
	}
	return nil
}

// Version returns the CLI version string, e.g. "24.0.7".
func (d *Docker) Version(ctx context.Context) (string, error) {
	res, err := d.runner.Run(ctx, d.cfg.Binary, []string{"--version"}, RunOptions{})
	if err != nil {
		return "", &DependencyError{Binary: d.cfg.Binary, Err: err}
	}
	return normalizeVersionLine(firstLine(strings.TrimSpace(string(res.Stdout)))), nil
}

// Image returns the image reference for version.
func (d *Docker) Image(version string) string {
	tag := strings.ReplaceAll(d.cfg.TagTemplate, VersionPlaceholder, version)
	return d.cfg.Repository + ":" + tag
}

// Pull downloads the image for version.
func (d *Docker) Pull(ctx context.Context, version string) error {
	return d.imageOp(ctx, "pull", version, "pull")
}

// Inspect verifies the image for version is present locally.
func (d *Docker) Inspect(ctx context.Context, version string) error {
	return d.imageOp(ctx, "inspect", version, "image", "inspect")
}

// Remove deletes the image for version.
func (d *Docker) Remove(ctx context.Context, version string) error {
	return d.imageOp(ctx, "remove", version, "image", "rm")
}

func (d *Docker) imageOp(ctx context.Context, op, version string, args ...string) error {
	image := d.Image(version)
	args = append(args, image)
	d.logger.Debug("docker", "op", op, "image", image)

	res, err := d.runner.Run(ctx, d.cfg.Binary, args, RunOptions{})
	if err != nil {
		d.logger.Error("docker failed", "op", op, "image", image, "err", err)
		return &ExecutionError{Op: op, Image: image, Stderr: string(res.Stderr), Err: err}
	}
	d.logger.Info("docker", "op", op, "image", image, "status", "ok")
	return nil
}

// Command returns the invocation template for version. Passthrough arguments
// are appended by the caller.
func (d *Docker) Command(version string, opts CommandOptions) []string {
	argv := []string{d.cfg.Binary, "run", "--rm", "-i"}
	if opts.TTY {
		argv = append(argv, "-t")
	}
	if opts.Dir != "" {
		argv = append(argv, "-v", opts.Dir+":"+d.cfg.Workdir, "-w", d.cfg.Workdir)
	}
	return append(argv, d.Image(version), "php")
}

// Exec runs argv with the caller's streams and returns the child's exit code.
// The error is non-nil only when the child could not be started.
func (d *Docker) Exec(ctx context.Context, argv []string, stdio Stdio) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("exec: empty command")
	}
	d.logger.Debug("exec", "argv", strings.Join(argv, " "))

	_, err := d.runner.Run(ctx, argv[0], argv[1:], RunOptions{
		Stdin:  stdio.Stdin,
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,
	})
	if err == nil {
		return 0, nil
	}
	if code, ok := ExitCode(err); ok && code >= 0 {
		d.logger.Debug("exec finished", "code", code)
		return code, nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return 0, &DependencyError{Binary: argv[0], Err: err}
	}
	return 0, fmt.Errorf("exec %s: %w", argv[0], err)
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

// normalizeVersionLine turns "Docker version 24.0.7, build afdd53b" into "24.0.7".
func normalizeVersionLine(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if strings.EqualFold(f, "version") && i+1 < len(fields) {
			return strings.TrimSuffix(fields[i+1], ",")
		}
	}
	return line
}
