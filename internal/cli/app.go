package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pvm/internal/catalog"
	"pvm/internal/config"
	"pvm/internal/engine"
	"pvm/internal/logx"
	"pvm/internal/paths"
	"pvm/internal/tui"
	"pvm/internal/versiondb"
)

// engineOptions are appended when the Docker delegate is built. Tests use it
// to swap in a fake runner.
var engineOptions []engine.Option

// Commands that work without a container engine.
var skipDependencyCheck = map[string]bool{
	"doctor":     true,
	"config":     true,
	"help":       true,
	"completion": true,
}

// Commands that report a broken config instead of failing on it.
var toleratesBadConfig = map[string]bool{
	"doctor": true,
	"config": true,
}

// Commands that keep a run log. Everything else, the php shim included, logs
// nowhere so frequent calls leave no files behind.
var runLogged = map[string]bool{
	"update":  true,
	"install": true,
	"remove":  true,
}

// app holds what commands share once global flags are parsed.
type app struct {
	paths     paths.DataPaths
	config    config.Config
	configErr error
	logger    *log.Logger
	logFile   io.Closer
	docker    *engine.Docker
	store     *catalog.Store
}

func (a *app) open(cmd *cobra.Command) error {
	name := topLevelName(cmd)
	if name == "help" || name == "completion" {
		return nil
	}

	pp, err := paths.Resolve(dataDir)
	if err != nil {
		return err
	}
	a.paths = pp

	cfgFile := configPath
	if cfgFile == "" {
		cfgFile = pp.ConfigFile
	}
	cfg, err := config.Load(cfgFile)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		if !toleratesBadConfig[name] {
			return err
		}
		a.configErr = err
		cfg = config.Default()
	}
	a.config = cfg

	levelName := cfg.Logging.Level
	if logLevel != "" {
		levelName = logLevel
	}
	level, err := logx.ParseLevel(levelName)
	if err != nil {
		return err
	}
	if runLogged[name] {
		logger, closer, err := logx.New(pp.LogsDir, cmd.CommandPath(), level)
		if err != nil {
			return err
		}
		a.logger, a.logFile = logger, closer
	} else {
		a.logger = logx.Discard()
	}
	a.logger.Debug("starting", "command", cmd.CommandPath(), "data_dir", pp.Root)

	opts := append([]engine.Option{engine.WithLogger(a.logger)}, engineOptions...)
	a.docker = engine.NewDocker(cfg.EngineConfig(), opts...)
	a.store = catalog.NewStore(pp.CatalogFile)

	if skipDependencyCheck[name] {
		return nil
	}
	return a.docker.Check(commandContext(cmd))
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *app) logError(err error) {
	if a.logger != nil {
		a.logger.Error("command failed", "err", err)
	}
}

func (a *app) manager(confirm versiondb.Confirmer) *versiondb.Manager {
	return a.managerWith(a.docker, confirm)
}

func (a *app) managerWith(delegate versiondb.Delegate, confirm versiondb.Confirmer) *versiondb.Manager {
	return versiondb.NewManager(versiondb.Options{
		DatabasePath: a.paths.DatabaseFile,
		Catalog:      a.store,
		Delegate:     delegate,
		Confirmer:    confirm,
		Logger:       a.logger,
	})
}

func (a *app) statusTable() (catalog.StatusTable, error) {
	return a.config.StatusTable()
}

func outputMode(cmd *cobra.Command) tui.OutputMode {
	return tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)
}

// topLevelName returns the name of the root's child that cmd belongs to.
func topLevelName(cmd *cobra.Command) string {
	c := cmd
	for c.HasParent() && c.Parent().HasParent() {
		c = c.Parent()
	}
	return c.Name()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
