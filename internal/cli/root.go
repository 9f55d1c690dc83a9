package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configPath string
	outputJSON bool
	noProgress bool
	logLevel   string
)

// ExitError carries a child process exit code out of a command. Err may be
// nil when the child already reported its own failure.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Execute runs the root cobra command.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// ExecutePHP runs args against the PHP version that applies in the working
// directory, exactly like `pvm exec -- args`.
func ExecutePHP() {
	args := append([]string{"exec", "--"}, os.Args[1:]...)
	os.Exit(run(args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	a.logError(err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pvm",
		Short:         "Install and switch between containerized PHP versions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding pvm's config, catalog and database")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default <data-dir>/config.yaml)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable interactive progress rendering")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log file level (debug, info, warn, error)")

	cmd.AddCommand(newUpdateCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newInstallCmd(a))
	cmd.AddCommand(newRemoveCmd(a))
	cmd.AddCommand(newUseCmd(a))
	cmd.AddCommand(newLocalCmd(a))
	cmd.AddCommand(newNoLocalCmd(a))
	cmd.AddCommand(newWhichCmd(a))
	cmd.AddCommand(newExecCmd(a))
	cmd.AddCommand(newDoctorCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}
