// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"guidance/internal/config"
	"guidance/internal/report"
	"guidance/internal/version"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailed      = 1 // internal task failures or an I/O error
	ExitUsage       = 2 // bad flags, arguments or configuration
	ExitInterrupted = 130
)

// exitError carries the exit code a command resolved to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, err error) error { return &exitError{code: code, err: err} }

// failed maps an error raised while a command runs: configuration errors are
// usage errors, everything else is a failure.
func failed(err error) error {
	if err == nil {
		return nil
	}
	var ce *config.ConfigurationError
	if errors.As(err, &ce) {
		return fail(ExitUsage, err)
	}
	return fail(ExitFailed, err)
}

// env is the per-invocation state shared by the subcommands.
type env struct {
	stdout, stderr io.Writer
	v              *viper.Viper
	cfgFile        string
	logLevel       string
	logJSON        bool
	quiet          bool
}

func newRoot(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "guidance",
		Short:         "Genome-wide association workflow over chunked imputation",
		Long:          "guidance plans and dispatches the phasing, imputation, association and summary stages of a GWAS run.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	root.SetVersionTemplate("guidance version {{.Version}}\n")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fail(ExitUsage, fmt.Errorf("%w\n\n%s", err, cmd.UsageString()))
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&e.cfgFile, "config", "c", "", "config file (default: ./guidance.yaml)")
	pf.StringVar(&e.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVar(&e.logJSON, "log-json", false, "JSON log lines")
	pf.BoolVarP(&e.quiet, "quiet", "q", false, "only log errors")

	root.AddCommand(
		newRunCmd(e),
		newPlanCmd(e),
		newStagesCmd(e),
		newStatusCmd(e),
		newMergeCmd(e),
		newCombineCmd(e),
		newVersionCmd(e),
	)
	return root
}

// RunContext executes argv and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	e := &env{stdout: stdout, stderr: stderr, v: viper.New()}
	root := newRoot(e)
	root.SetArgs(argv)

	err := root.ExecuteContext(parent)
	if err == nil {
		return ExitOK
	}
	if parent.Err() != nil {
		return ExitInterrupted
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		// cobra's own argument and command errors
		ee = &exitError{code: ExitUsage, err: err}
	}
	if report.IsBrokenPipe(ee.err) {
		return ExitOK
	}
	_, _ = fmt.Fprintln(stderr, "guidance:", ee.err)
	return ee.code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(e.stdout, "guidance version %s\n", version.Version)
			return failed(err)
		},
	}
}
