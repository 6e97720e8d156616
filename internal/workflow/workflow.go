// internal/workflow/workflow.go
package workflow

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"guidance/core/genome"
	"guidance/core/reduce"
	"guidance/core/stage"
	"guidance/internal/artifact"
	"guidance/internal/config"
	"guidance/internal/dispatch"
	"guidance/internal/filter"
	"guidance/internal/merge"
	"guidance/internal/naming"
	"guidance/internal/phenome"
	"guidance/internal/reconcile"
	"guidance/internal/summary"
	"guidance/internal/tophits"
	"guidance/internal/toolcmd"
)

// Workflow turns a validated configuration into the task graph of one run.
// Stages switched off by the gate emit no tasks; their artifacts are then
// expected to exist from an earlier run.
type Workflow struct {
	cfg   *config.Config
	gate  stage.Gate
	names *naming.Namer
	tools toolcmd.Builder

	merge   *merge.Merger
	recon   *reconcile.Reconciler
	filter  *filter.Filter
	summary *summary.Collector
	top     *tophits.Generator
	pheno   *phenome.Builder

	log     *zap.Logger
	format  filter.InputFormat
	tasks   []*dispatch.Task
	results map[phenome.Pair]results
}

// New wires the text operations to store. cfg must have passed
// config.Validate.
func New(cfg *config.Config, gate stage.Gate, store *artifact.Store) *Workflow {
	format, _ := filter.ParseInputFormat(cfg.InputFormat)
	return &Workflow{
		cfg:     cfg,
		gate:    gate,
		names:   naming.New(cfg.OutDir),
		tools:   toolcmd.New(cfg.Tools),
		merge:   merge.New(store),
		recon:   reconcile.New(store),
		filter:  filter.New(store),
		summary: summary.New(store),
		top:     tophits.New(store),
		pheno:   phenome.New(store),
		log:     zap.NewNop(),
		format:  format,
	}
}

// WithLogger sets the logger in-process tasks report to.
func (w *Workflow) WithLogger(log *zap.Logger) *Workflow {
	w.log = log
	return w
}

func (w *Workflow) Names() *naming.Namer { return w.names }

// Plan is the full set of tasks of one run, in planning order.
type Plan struct {
	Gate  stage.Gate
	Tasks []*dispatch.Task
}

// Artifacts returns every planned output, optionally only intermediates.
func (p *Plan) Artifacts(intermediateOnly bool) []artifact.Artifact {
	var out []artifact.Artifact
	for _, t := range p.Tasks {
		for _, o := range t.Outputs {
			if !intermediateOnly || o.Intermediate {
				out = append(out, o)
			}
		}
	}
	return out
}

// Counts returns the number of tasks per stage.
func (p *Plan) Counts() map[stage.Stage]int {
	out := make(map[stage.Stage]int)
	for _, t := range p.Tasks {
		out[t.Stage]++
	}
	return out
}

// Build plans every enabled stage.
func (w *Workflow) Build() (*Plan, error) {
	w.tasks = nil
	w.results = make(map[phenome.Pair]results)
	p := w.cfg.Planner()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	chrs := p.Chromosomes()
	windows := make(map[genome.Chromosome][]genome.Window, len(chrs))
	for _, c := range chrs {
		ws, err := p.Windows(c)
		if err != nil {
			return nil, err
		}
		windows[c] = ws
	}

	for _, c := range chrs {
		w.planCommon(c)
	}
	for _, panel := range w.cfg.Panels {
		for _, c := range chrs {
			for _, win := range windows[c] {
				w.planImputation(panel, win)
			}
		}
	}
	groups, err := p.Groups(w.cfg.TestTypeNames(), w.cfg.PanelNames())
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		tt, _ := w.cfg.TestType(g.TestType)
		for _, u := range g.Units {
			w.planAssociation(tt, u)
		}
	}
	autosomes, withX := p.Passes()
	for _, tt := range w.cfg.TestTypes {
		for _, panel := range w.cfg.Panels {
			w.results[phenome.Pair{TestType: tt.Name, Panel: panel.Name}] = w.planResults(tt.Name, panel.Name, autosomes, withX, windows)
		}
	}
	if w.cfg.Combining() {
		for _, tt := range w.cfg.TestTypes {
			w.planCombine(tt.Name, chrs, windows)
		}
	}
	if len(w.cfg.TestTypes) > 1 {
		w.planPhenome()
	}
	return &Plan{Gate: w.gate, Tasks: w.tasks}, nil
}

func (w *Workflow) taskID(s stage.Stage, out artifact.Artifact) string {
	rel, err := filepath.Rel(w.names.Root, out.Path())
	if err != nil {
		rel = out.Path()
	}
	return s.String() + ":" + filepath.ToSlash(rel)
}

func (w *Workflow) add(t *dispatch.Task) {
	if !w.gate.Enabled(t.Stage) {
		return
	}
	t.ID = w.taskID(t.Stage, t.Outputs[0])
	w.tasks = append(w.tasks, t)
}

// external adds a third-party binary task.
func (w *Workflow) external(s stage.Stage, cmd *dispatch.Command, ins []artifact.ID, outs ...artifact.Artifact) {
	w.add(&dispatch.Task{Stage: s, Command: cmd, Inputs: ins, Outputs: outs})
}

// internal adds an in-process task; args render its manifest line.
func (w *Workflow) internal(s stage.Stage, op string, args []string, run func(ctx context.Context) error, ins []artifact.ID, outs ...artifact.Artifact) {
	w.add(&dispatch.Task{
		Stage:    s,
		Run:      run,
		Describe: describe(op, args),
		Inputs:   ins,
		Outputs:  outs,
	})
}

// describe renders an internal task as a CLI-like line, skipping absent
// optional paths.
func describe(op string, args []string) string {
	parts := []string{"guidance", op}
	for _, a := range args {
		if a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

func ids(as ...artifact.Artifact) []artifact.ID {
	var out []artifact.ID
	for _, a := range as {
		if a.ID != "" {
			out = append(out, a.ID)
		}
	}
	return out
}

func paths(as ...artifact.Artifact) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Path()
	}
	return out
}

// count drops the row count of a text operation.
func count(_ int, err error) error { return err }

type mergeFunc func(ctx context.Context, a, b, out string) error

// reduceTree schedules a pairwise reduction of leaves into final. A single
// leaf is returned untouched unless selfMerge asks for it to be merged with
// itself into final, which gives single-chromosome runs their named result.
func (w *Workflow) reduceTree(s stage.Stage, op string, leaves []artifact.Artifact, final artifact.Artifact,
	inter func(int) artifact.Artifact, selfMerge bool, fn mergeFunc) artifact.Artifact {
	if len(leaves) == 1 && selfMerge {
		leaves = []artifact.Artifact{leaves[0], leaves[0]}
	}
	out, nodes, err := reduce.Tree(leaves, naming.TreeNamer(final, inter))
	if err != nil {
		return artifact.Artifact{}
	}
	w.mergeNodes(s, op, nodes, fn)
	return out
}

// reduceChain schedules a left fold over items.
func (w *Workflow) reduceChain(s stage.Stage, op string, items []artifact.Artifact, name reduce.Namer[artifact.Artifact], fn mergeFunc) artifact.Artifact {
	out, nodes, err := reduce.Chain(items, name)
	if err != nil {
		return artifact.Artifact{}
	}
	w.mergeNodes(s, op, nodes, fn)
	return out
}

func (w *Workflow) mergeNodes(s stage.Stage, op string, nodes []reduce.Node[artifact.Artifact], fn mergeFunc) {
	for _, n := range nodes {
		a, b, out := n.A.Path(), n.B.Path(), n.Out.Path()
		w.internal(s, op, []string{a, b, out},
			func(ctx context.Context) error { return fn(ctx, a, b, out) },
			ids(n.A, n.B), n.Out)
	}
}
