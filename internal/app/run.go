// internal/app/run.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"guidance/core/stage"
	"guidance/internal/artifact"
	"guidance/internal/config"
	"guidance/internal/dispatch"
	"guidance/internal/ledger"
	"guidance/internal/logging"
	"guidance/internal/manifest"
	"guidance/internal/naming"
	"guidance/internal/report"
	"guidance/internal/tracing"
	"guidance/internal/workflow"
)

// planned is a validated configuration and the task graph built from it.
type planned struct {
	cfg   *config.Config
	names *naming.Namer
	store *artifact.Store
	plan  *workflow.Plan
}

func (e *env) build(cmd *cobra.Command, bindings []binding, log *zap.Logger) (*planned, error) {
	cfg, warns, err := e.load(cmd, bindings)
	logging.Warnings(log, warns)
	if err != nil {
		return nil, err
	}
	gate, err := stage.NewGate(cfg.WfDeep, stage.Tool(cfg.ImputationTool))
	if err != nil {
		return nil, err
	}
	store := artifact.NewStore()
	wf := workflow.New(cfg, gate, store).WithLogger(log)
	p, err := wf.Build()
	if err != nil {
		return nil, err
	}
	if err := dispatch.Validate(p.Tasks); err != nil {
		return nil, err
	}
	return &planned{cfg: cfg, names: wf.Names(), store: store, plan: p}, nil
}

func newPlanCmd(e *env) *cobra.Command {
	var format string
	var commands bool
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the task graph of a configuration without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return fail(ExitUsage, err)
			}
			log, err := e.logger()
			if err != nil {
				return fail(ExitUsage, err)
			}
			defer func() { _ = log.Sync() }()
			pl, err := e.build(cmd, planBindings, log)
			if err != nil {
				return failed(err)
			}
			if commands {
				for _, t := range pl.plan.Tasks {
					if _, err := fmt.Fprintln(e.stdout, t.Line()); err != nil {
						return failed(err)
					}
				}
				return nil
			}
			return failed(report.WritePlan(e.stdout, f, report.PlanView(pl.cfg, pl.plan)))
		},
	}
	addPlanFlags(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "table", "table, markdown, yaml or json")
	cmd.Flags().BoolVar(&commands, "commands", false, "print one command line per task instead")
	return cmd
}

func newRunCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Plan, then dispatch every enabled stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := e.logger()
			if err != nil {
				return fail(ExitUsage, err)
			}
			defer func() { _ = log.Sync() }()
			pl, err := e.build(cmd, runBindings, log)
			if err != nil {
				return failed(err)
			}
			return e.execute(cmd.Context(), pl, log)
		},
	}
	addRunFlags(cmd.Flags())
	return cmd
}

// execute writes the manifest, dispatches the plan, then writes the report
// and closes the ledger run.
func (e *env) execute(ctx context.Context, pl *planned, log *zap.Logger) error {
	cfg, names := pl.cfg, pl.names
	runID := uuid.NewString()
	started := time.Now()
	log = log.With(zap.String("run", runID))

	stagesPath := names.Manifest(cfg.ListOfStages)
	if err := manifest.WriteStages(pl.store, stagesPath, manifest.Banner{RunID: runID, Started: started, Config: cfg}, pl.plan.Tasks); err != nil {
		return failed(err)
	}
	log.Info("plan written", zap.String("stages", stagesPath), zap.Int("tasks", len(pl.plan.Tasks)))

	tcfg := cfg.Tracing
	if tcfg.Enabled && tcfg.Exporter == "file" && tcfg.FilePath == "" {
		tcfg.FilePath = names.Traces()
	}
	tp, err := tracing.NewProvider(tcfg)
	if err != nil {
		return failed(err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	ledgerPath := cfg.Ledger
	if ledgerPath == "" {
		ledgerPath = names.Ledger()
	}
	lg, err := ledger.Open(ledgerPath)
	if err != nil {
		return failed(err)
	}
	defer func() { _ = lg.Close() }()
	run := ledger.Run{ID: runID, Started: started, WfDeep: cfg.WfDeep, ImputationTool: cfg.ImputationTool, OutDir: cfg.OutDir}
	if err := lg.BeginRun(ctx, run); err != nil {
		return failed(err)
	}

	status, _ := artifact.ParseFinalStatus(cfg.TempFiles)
	d := dispatch.New(dispatch.Local{}, dispatch.Options{
		Parallel: cfg.Parallel,
		Logger:   log,
		Tracer:   tp.Tracer(),
		Recorder: lg.Recorder(runID),
		Store:    pl.store,
	})
	rep, runErr := workflow.Run(ctx, d, pl.plan, status, log)

	// The run context may be cancelled; bookkeeping still has to land.
	finished := time.Now()
	bg := context.WithoutCancel(ctx)
	if err := lg.FinishRun(bg, runID, finished); err != nil {
		log.Warn("ledger finish", zap.Error(err))
	}
	doc := manifest.NewReport(manifest.Run{
		RunID:          runID,
		Started:        started,
		Finished:       finished,
		WfDeep:         cfg.WfDeep,
		ImputationTool: cfg.ImputationTool,
		OutDir:         cfg.OutDir,
		Interrupted:    ctx.Err() != nil,
	}, rep)
	if err := manifest.WriteReport(names.Report(), doc); err != nil {
		log.Warn("run report", zap.Error(err))
	}

	if runErr != nil {
		return failed(runErr)
	}
	log.Info("run finished",
		zap.Int("completed", doc.Counts.Completed),
		zap.Int("warned", doc.Counts.Warned),
		zap.Int("failed", doc.Counts.Failed),
		zap.Int("skipped", doc.Counts.Skipped),
		zap.Duration("elapsed", finished.Sub(started)))
	if ctx.Err() != nil {
		return fail(ExitInterrupted, ctx.Err())
	}
	if err := rep.Err(); err != nil {
		return fail(ExitFailed, fmt.Errorf("%d task(s) failed:\n%w", doc.Counts.Failed, err))
	}
	return nil
}
