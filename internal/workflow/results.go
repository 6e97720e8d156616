// internal/workflow/results.go
package workflow

import (
	"context"
	"strconv"

	"guidance/core/genome"
	"guidance/core/stage"
	"guidance/internal/artifact"
)

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// results carries the per (test type, panel) artifacts later phases read.
type results struct {
	filtered, filteredX artifact.Artifact
	condensed           artifact.Artifact
	topHits             artifact.Artifact
}

// planResults schedules the per-chromosome reductions, the joint
// reductions across chromosomes with X kept apart, top hits and plots.
func (w *Workflow) planResults(tt, panel string, autosomes []genome.Chromosome, withX bool, windows map[genome.Chromosome][]genome.Window) results {
	n := w.names
	twoChunks := func(ctx context.Context, a, b, out string) error { return count(w.merge.TwoChunks(ctx, a, b, out)) }

	chrResult := func(c genome.Chromosome) (filtered, condensed artifact.Artifact) {
		var fl, cl []artifact.Artifact
		for _, win := range windows[c] {
			fl = append(fl, n.SummaryFiltered(tt, panel, win))
			cl = append(cl, n.SummaryCondensed(tt, panel, win))
		}
		filtered = w.reduceTree(stage.MergeTwoChunks, "mergeTwoChunks", fl, n.ChrFiltered(tt, panel, c),
			func(i int) artifact.Artifact { return n.ReducedFiltered(tt, panel, c, i) }, false, twoChunks)
		condensed = w.reduceTree(stage.MergeTwoChunks, "mergeTwoChunks", cl, n.ChrCondensed(tt, panel, c),
			func(i int) artifact.Artifact { return n.ReducedCondensed(tt, panel, c, i) }, false, twoChunks)
		return filtered, condensed
	}

	var autoFiltered, allCondensed []artifact.Artifact
	for _, c := range autosomes {
		f, cd := chrResult(c)
		autoFiltered = append(autoFiltered, f)
		allCondensed = append(allCondensed, cd)
	}
	var res results
	joint := func(ctx context.Context, a, b, out string) error {
		return count(w.merge.JointFilteredByAll(ctx, a, b, out, panel))
	}
	if withX {
		f, cd := chrResult(genome.X)
		allCondensed = append(allCondensed, cd)
		res.filteredX = w.reduceTree(stage.JointFilteredByAll, "jointFilteredByAllFiles", []artifact.Artifact{f},
			n.FinalFilteredX(tt, panel), func(int) artifact.Artifact { return n.FinalFilteredX(tt, panel) }, true, joint)
	}

	res.condensed = w.reduceTree(stage.JointCondensed, "jointCondensedFiles", allCondensed, n.FinalCondensed(tt, panel),
		func(i int) artifact.Artifact { return n.JointCondensedStep(tt, panel, i) }, true,
		func(ctx context.Context, a, b, out string) error { return count(w.merge.JointCondensed(ctx, a, b, out)) })
	if len(autoFiltered) > 0 {
		res.filtered = w.reduceTree(stage.JointFilteredByAll, "jointFilteredByAllFiles", autoFiltered, n.FinalFiltered(tt, panel),
			func(i int) artifact.Artifact { return n.JointFilteredStep(tt, panel, i) }, true, joint)
	}

	res.topHits = n.TopHits(tt, panel)
	w.topHits(stage.GenerateTopHits, res.filtered, res.filteredX, res.topHits)

	plots := n.Plots(tt, panel)
	w.external(stage.GenerateQQManhattan, w.tools.QQManhattan(res.condensed.Path(), paths(plots...)), ids(res.condensed), plots...)
	return res
}

// topHits schedules a top-hit scan over the autosome result and the X
// result. Either may be missing from the run.
func (w *Workflow) topHits(s stage.Stage, autos, x, out artifact.Artifact) {
	if autos.ID == "" {
		autos = x
	}
	if autos.ID == "" {
		return
	}
	a, xp, pva := autos.Path(), x.Path(), w.cfg.PvaThreshold
	w.internal(s, "generateTopHits", []string{a, xp, out.Path(), fmtFloat(pva)},
		func(ctx context.Context) error { return count(w.top.Generate(ctx, a, xp, out.Path(), pva)) },
		ids(autos, x), out)
}
