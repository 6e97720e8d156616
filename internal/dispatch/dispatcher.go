// internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"guidance/core/stage"
	"guidance/internal/artifact"
)

// Recorder persists task results as they happen.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// Options tune a Dispatcher. Zero values are usable.
type Options struct {
	Parallel int
	Logger   *zap.Logger
	Tracer   trace.Tracer
	Recorder Recorder
	Store    *artifact.Store
}

// Dispatcher releases tasks to an Executor once all their inputs exist,
// running at most Parallel of them at a time.
type Dispatcher struct {
	exec     Executor
	parallel int
	log      *zap.Logger
	tracer   trace.Tracer
	rec      Recorder
	store    *artifact.Store
}

func New(exec Executor, opts Options) *Dispatcher {
	d := &Dispatcher{exec: exec, parallel: opts.Parallel, log: opts.Logger, tracer: opts.Tracer, rec: opts.Recorder, store: opts.Store}
	if d.parallel < 1 {
		d.parallel = 1
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.tracer == nil {
		d.tracer = noop.NewTracerProvider().Tracer("dispatch")
	}
	if d.store == nil {
		d.store = artifact.NewStore()
	}
	return d
}

type graph struct {
	tasks []*Task
	deps  [][]int
}

// plan checks that every artifact has one producer and the graph is acyclic.
// Inputs without a producer are treated as pre-existing.
func plan(tasks []*Task) (*graph, error) {
	ids := make(map[string]struct{}, len(tasks))
	producer := make(map[artifact.ID]int)
	for i, t := range tasks {
		if _, dup := ids[t.ID]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateTask, t.ID)
		}
		ids[t.ID] = struct{}{}
		for _, o := range t.Outputs {
			if j, dup := producer[o.ID]; dup {
				return nil, fmt.Errorf("%w: %s by %s and %s", ErrDuplicateProducer, o.ID, tasks[j].ID, t.ID)
			}
			producer[o.ID] = i
		}
	}
	g := &graph{tasks: tasks, deps: make([][]int, len(tasks))}
	indeg := make([]int, len(tasks))
	users := make([][]int, len(tasks))
	for i, t := range tasks {
		seen := make(map[int]bool)
		for _, in := range t.Inputs {
			j, ok := producer[in]
			if !ok || seen[j] {
				continue
			}
			seen[j] = true
			g.deps[i] = append(g.deps[i], j)
			users[j] = append(users[j], i)
			indeg[i]++
		}
	}
	queue := make([]int, 0, len(tasks))
	for i, n := range indeg {
		if n == 0 {
			queue = append(queue, i)
		}
	}
	visited := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		visited++
		for _, u := range users[i] {
			if indeg[u]--; indeg[u] == 0 {
				queue = append(queue, u)
			}
		}
	}
	if visited != len(tasks) {
		for i, n := range indeg {
			if n > 0 {
				return nil, fmt.Errorf("%w through %s", ErrCycle, tasks[i].ID)
			}
		}
	}
	return g, nil
}

// Validate reports graph errors without running anything.
func Validate(tasks []*Task) error {
	_, err := plan(tasks)
	return err
}

// Run executes tasks and returns once every task has a result. The error is
// non-nil only when the graph itself is invalid; task failures are in the
// Report.
func (d *Dispatcher) Run(ctx context.Context, tasks []*Task) (*Report, error) {
	g, err := plan(tasks)
	if err != nil {
		return nil, err
	}
	n := len(tasks)
	done := make([]chan struct{}, n)
	for i := range done {
		done[i] = make(chan struct{})
	}
	results := make([]Result, n)
	sem := semaphore.NewWeighted(int64(d.parallel))

	var eg errgroup.Group
	for i := range tasks {
		eg.Go(func() error {
			defer close(done[i])
			results[i] = d.runOne(ctx, g, i, done, results, sem)
			if d.rec != nil {
				if err := d.rec.Record(ctx, results[i]); err != nil {
					d.log.Warn("ledger write failed", zap.String("task", tasks[i].ID), zap.Error(err))
				}
			}
			return nil
		})
	}
	_ = eg.Wait()
	return &Report{Results: results}, nil
}

func (d *Dispatcher) runOne(ctx context.Context, g *graph, i int, done []chan struct{}, results []Result, sem *semaphore.Weighted) Result {
	t := g.tasks[i]
	res := Result{TaskID: t.ID, Stage: t.Stage, Class: t.Class(), Outputs: artifact.IDs(t.Outputs...)}

	// Inputs first, then a slot: waiting tasks must not hold the semaphore.
	for _, j := range g.deps[i] {
		select {
		case <-done[j]:
		case <-ctx.Done():
			return d.skip(res, ctx.Err())
		}
		if o := results[j].Outcome; o == Failed || o == Skipped {
			return d.skip(res, fmt.Errorf("%w: %s", ErrUpstream, g.tasks[j].ID))
		}
	}
	if err := sem.Acquire(ctx, 1); err != nil {
		return d.skip(res, err)
	}
	defer sem.Release(1)

	spanCtx, span := d.tracer.Start(ctx, t.Stage.String(), trace.WithAttributes(
		attribute.String("task", t.ID),
		attribute.String("class", t.Class().String()),
	))
	defer span.End()

	res.Started = time.Now()
	err := prepareDirs(t)
	if err == nil {
		err = d.exec.Submit(spanCtx, t)
	}
	res.Duration = time.Since(res.Started)

	switch {
	case err == nil && t.Class() == stage.Internal:
		if missing := missingOutputs(t); len(missing) > 0 {
			err = fmt.Errorf("%w: %s", ErrMissingOutput, missing[0])
			res = d.fail(res, t, err)
		} else {
			res.Outcome = Completed
		}
	case err == nil:
		res.Outcome = Completed
		res.Placeholders, err = d.placeholders(t)
		if len(res.Placeholders) > 0 {
			res.Outcome = Warned
			res.Err = fmt.Errorf("%s exited 0 without %d output(s)", t.Command.Tool, len(res.Placeholders))
		}
		if err != nil {
			res = d.fail(res, t, err)
		}
	case ctx.Err() != nil:
		res.Outcome = Failed
		res.Err = ctx.Err()
	case t.Class() == stage.External:
		var tf *ExternalToolFailure
		if !errors.As(err, &tf) {
			err = &ExternalToolFailure{Tool: t.Command.Tool, ExitCode: -1, Err: err}
		}
		res.Outcome = Warned
		res.Err = err
		var perr error
		res.Placeholders, perr = d.placeholders(t)
		if perr != nil {
			res = d.fail(res, t, perr)
		}
	default:
		res = d.fail(res, t, err)
	}

	if res.Err != nil {
		span.RecordError(res.Err)
	}
	fields := []zap.Field{
		zap.String("stage", t.Stage.String()),
		zap.String("task", t.ID),
		zap.Duration("took", res.Duration),
	}
	switch res.Outcome {
	case Completed:
		span.SetStatus(codes.Ok, "")
		d.log.Debug("task completed", append(fields, zap.Int("outputs", len(t.Outputs)))...)
	case Warned:
		span.SetStatus(codes.Ok, "placeholder outputs")
		d.log.Warn("external tool failed; continuing with placeholders",
			append(fields, zap.Int("placeholders", len(res.Placeholders)), zap.Error(res.Err))...)
	default:
		span.SetStatus(codes.Error, res.Err.Error())
		d.log.Error("task failed", append(fields, zap.Error(res.Err))...)
	}
	return res
}

func (d *Dispatcher) skip(res Result, cause error) Result {
	res.Outcome = Skipped
	res.Err = cause
	d.log.Debug("task skipped", zap.String("task", res.TaskID), zap.Error(cause))
	return res
}

func (d *Dispatcher) fail(res Result, t *Task, err error) Result {
	var inf *InternalFailure
	if !errors.As(err, &inf) {
		err = &InternalFailure{Stage: t.Stage.String(), Task: t.ID, Err: err}
	}
	res.Outcome = Failed
	res.Err = err
	return res
}

// placeholders creates empty files for every output t left missing.
func (d *Dispatcher) placeholders(t *Task) ([]artifact.ID, error) {
	var made []artifact.ID
	for _, o := range t.Outputs {
		ok, err := d.store.Placeholder(o.Path())
		if err != nil {
			return made, err
		}
		if ok {
			made = append(made, o.ID)
		}
	}
	return made, nil
}

func prepareDirs(t *Task) error {
	for _, o := range t.Outputs {
		if err := os.MkdirAll(filepath.Dir(o.Path()), 0o755); err != nil {
			return err
		}
	}
	return nil
}

func missingOutputs(t *Task) []artifact.ID {
	var out []artifact.ID
	for _, o := range t.Outputs {
		if !artifact.Exists(o.Path()) {
			out = append(out, o.ID)
		}
	}
	return out
}

// Report collects the results of one Run, in task order.
type Report struct {
	Results []Result
}

// Count returns how many tasks ended with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Warnings returns the errors of warned tasks.
func (r *Report) Warnings() []error {
	var out []error
	for _, res := range r.Results {
		if res.Outcome == Warned {
			out = append(out, res.Err)
		}
	}
	return out
}

// Err joins the errors of failed tasks; skipped tasks are consequences
// and are not repeated.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Outcome == Failed {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the result for a task ID.
func (r *Report) Lookup(id string) (Result, bool) {
	for _, res := range r.Results {
		if res.TaskID == id {
			return res, true
		}
	}
	return Result{}, false
}
