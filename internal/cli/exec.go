package cli

import (
	"os"

	"github.com/spf13/cobra"

	"pvm/internal/engine"
	"pvm/internal/tui"
)

var execGlobal bool

func newExecCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [--global] -- [php args...]",
		Short: "Run php with the version that applies in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, a, args)
		},
	}
	cmd.Flags().BoolVar(&execGlobal, "global", false, "Ignore the local version")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runExec(cmd *cobra.Command, a *app, args []string) error {
	dir, err := workingDir()
	if err != nil {
		return err
	}

	opts := engine.CommandOptions{
		TTY: tui.IsTerminal(cmd.InOrStdin()) && tui.IsTerminal(os.Stdout),
	}
	argv, sel, err := a.manager(nil).BuildCommand(dir, execGlobal, opts)
	if err != nil {
		return err
	}
	argv = append(argv, args...)
	a.logger.Info("exec", "version", sel.Version, "scope", sel.Scope, "argv", argv)

	code, err := a.docker.Exec(commandContext(cmd), argv, engine.Stdio{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
