// internal/app/inspect.go
package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"guidance/core/stage"
	"guidance/internal/config"
	"guidance/internal/ledger"
	"guidance/internal/naming"
	"guidance/internal/report"
)

func newStagesCmd(e *env) *cobra.Command {
	var wfDeep, tool, format string
	var list bool
	cmd := &cobra.Command{
		Use:   "stages",
		Short: "Print which stages a run-depth selector enables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				for _, s := range stage.Selectors() {
					if _, err := fmt.Fprintln(e.stdout, s); err != nil {
						return failed(err)
					}
				}
				return nil
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return fail(ExitUsage, err)
			}
			g, err := stage.NewGate(wfDeep, stage.Tool(tool))
			if err != nil {
				return fail(ExitUsage, err)
			}
			return failed(report.WriteStages(e.stdout, f, report.StagesView(g)))
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&wfDeep, "wf-deep", "whole_workflow", "run-depth selector")
	fs.StringVar(&tool, "imputation-tool", string(stage.Impute), "impute or minimac")
	fs.StringVarP(&format, "format", "f", "table", "table, markdown, yaml or json")
	fs.BoolVar(&list, "list", false, "list the selector names")
	return cmd
}

func newStatusCmd(e *env) *cobra.Command {
	var path, runID, stageName, format string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the recorded task outcomes of a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return fail(ExitUsage, err)
			}
			if stageName != "" {
				if _, err := stage.Parse(stageName); err != nil {
					return fail(ExitUsage, err)
				}
			}
			if path == "" {
				if path, err = e.ledgerPath(cmd); err != nil {
					return failed(err)
				}
			}
			lg, err := ledger.Open(path)
			if err != nil {
				return failed(err)
			}
			defer func() { _ = lg.Close() }()

			ctx := cmd.Context()
			var run ledger.Run
			if runID == "" {
				run, err = lg.Latest(ctx)
			} else {
				run, err = findRun(lg, cmd, runID)
			}
			if err != nil {
				return failed(err)
			}
			tasks, err := lg.Status(ctx, run.ID, stageName)
			if err != nil {
				return failed(err)
			}
			return failed(report.WriteStatus(e.stdout, f, report.StatusView(run, tasks)))
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&path, "ledger", "", "sqlite ledger path (default: from the config)")
	fs.StringVar(&runID, "run", "", "run id (default: the latest run)")
	fs.StringVar(&stageName, "stage", "", "only tasks of this stage")
	fs.StringVarP(&format, "format", "f", "table", "table, markdown, yaml or json")
	fs.String("out-dir", "", "output root")
	return cmd
}

// ledgerPath resolves the ledger of the configured run without validating
// the rest of the configuration.
func (e *env) ledgerPath(cmd *cobra.Command) (string, error) {
	if f := cmd.Flags().Lookup("out-dir"); f != nil && f.Changed {
		if err := e.v.BindPFlag("out_dir", f); err != nil {
			return "", err
		}
	}
	cfg, err := config.Load(e.v, e.cfgFile)
	if err != nil {
		return "", err
	}
	if cfg.Ledger != "" {
		return cfg.Ledger, nil
	}
	return naming.New(cfg.OutDir).Ledger(), nil
}

var errNoSuchRun = errors.New("no such run")

func findRun(lg *ledger.Ledger, cmd *cobra.Command, id string) (ledger.Run, error) {
	runs, err := lg.Runs(cmd.Context())
	if err != nil {
		return ledger.Run{}, err
	}
	for _, r := range runs {
		if r.ID == id {
			return r, nil
		}
	}
	return ledger.Run{}, fmt.Errorf("%w: %s", errNoSuchRun, id)
}
