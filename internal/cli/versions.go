package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pvm/internal/tui"
	"pvm/internal/versiondb"
)

var (
	removeYes   bool
	whichGlobal bool
	whichLocal  bool
)

type versionResult struct {
	Version string `json:"version"`
	Scope   string `json:"scope,omitempty"`
	Dir     string `json:"dir,omitempty"`
}

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install <version>",
		Short: "Pull the image for a PHP version (a major installs its latest release)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, a, args[0])
		},
	}
}

// statusDelegate reports each backend step on a status line.
type statusDelegate struct {
	versiondb.Delegate
	image  func(version string) string
	status interface{ Update(message string) }
}

func (d statusDelegate) Pull(ctx context.Context, version string) error {
	d.status.Update("Pulling " + d.image(version))
	return d.Delegate.Pull(ctx, version)
}

func (d statusDelegate) Inspect(ctx context.Context, version string) error {
	d.status.Update("Verifying " + d.image(version))
	return d.Delegate.Inspect(ctx, version)
}

func runInstall(cmd *cobra.Command, a *app, version string) error {
	ctx := commandContext(cmd)

	var (
		resolved string
		err      error
	)
	if outputMode(cmd) == tui.ModeTUI {
		sw := tui.NewStatusWriter(cmd.OutOrStdout(), "Installing PHP "+version)
		m := a.managerWith(statusDelegate{Delegate: a.docker, image: a.docker.Image, status: sw}, nil)
		resolved, err = m.Install(ctx, version)
		if err != nil {
			sw.Finish(false, "Install of PHP "+version+" failed")
			return err
		}
		sw.Finish(true, "Installed PHP "+resolved)
		return nil
	}

	resolved, err = a.manager(nil).Install(ctx, version)
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(cmd, versionResult{Version: resolved})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed PHP %s\n", resolved)
	return nil
}

func newRemoveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <version>",
		Aliases: []string{"uninstall", "rm"},
		Short:   "Remove an installed PHP version and every selection using it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, a, args[0])
		},
	}
	cmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func runRemove(cmd *cobra.Command, a *app, version string) error {
	var confirm versiondb.Confirmer
	if !removeYes {
		confirm = tui.Prompter{
			In:          cmd.InOrStdin(),
			Out:         cmd.ErrOrStderr(),
			Interactive: outputMode(cmd) == tui.ModeTUI && tui.IsTerminal(cmd.InOrStdin()),
		}
	}

	resolved, err := a.manager(confirm).Remove(commandContext(cmd), version)
	if errors.Is(err, versiondb.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
		return nil
	}
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(cmd, versionResult{Version: resolved})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed PHP %s\n", resolved)
	return nil
}

func newUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "use <version>",
		Aliases: []string{"global"},
		Short:   "Set the global PHP version",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := a.manager(nil).SetGlobal(args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd, versionResult{Version: resolved, Scope: string(versiondb.ScopeGlobal)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Global PHP version set to %s\n", resolved)
			return nil
		},
	}
}

func newLocalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "local <version>",
		Short: "Set the PHP version for the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := workingDir()
			if err != nil {
				return err
			}
			resolved, err := a.manager(nil).SetLocal(args[0], dir)
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd, versionResult{Version: resolved, Scope: string(versiondb.ScopeLocal), Dir: dir})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Local PHP version for %s set to %s\n", dir, resolved)
			return nil
		},
	}
}

func newNoLocalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nolocal",
		Short: "Clear the PHP version set for the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := workingDir()
			if err != nil {
				return err
			}
			version, err := a.manager(nil).UnsetLocal(dir)
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd, versionResult{Version: version, Scope: string(versiondb.ScopeLocal), Dir: dir})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared local PHP version %s for %s\n", version, dir)
			return nil
		},
	}
}

func newWhichCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "which",
		Short: "Print the PHP version that applies in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWhich(cmd, a)
		},
	}
	cmd.Flags().BoolVar(&whichGlobal, "global", false, "Ignore the local version")
	cmd.Flags().BoolVar(&whichLocal, "local", false, "Only consider the local version")
	cmd.MarkFlagsMutuallyExclusive("global", "local")
	return cmd
}

func runWhich(cmd *cobra.Command, a *app) error {
	dir, err := workingDir()
	if err != nil {
		return err
	}
	m := a.manager(nil)

	var sel versiondb.Selection
	if whichLocal {
		sel, err = m.Local(dir)
	} else {
		sel, err = m.Effective(dir, whichGlobal)
	}
	if err != nil {
		return err
	}
	if !sel.IsSet() {
		return versiondb.ErrNoVersionSet
	}

	if outputJSON {
		return writeJSON(cmd, versionResult{Version: sel.Version, Scope: string(sel.Scope)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), sel.Version)
	return nil
}

func workingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}
