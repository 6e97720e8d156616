// internal/workflow/combine.go
package workflow

import (
	"context"

	"go.uber.org/zap"

	"guidance/core/genome"
	"guidance/core/stage"
	"guidance/core/variant"
	"guidance/internal/artifact"
	"guidance/internal/reconcile"
)

// planCombine folds every window across panels with the reconciler, then
// reduces the combined windows: autosomes and X apart for the filtered kind,
// all together for the condensed kind.
func (w *Workflow) planCombine(tt string, chrs []genome.Chromosome, windows map[genome.Chromosome][]genome.Window) {
	n := w.names
	panels := w.cfg.PanelNames()
	combine := func(ctx context.Context, a, b, out string) error {
		st, err := w.recon.Combine(ctx, a, b, out)
		if err != nil {
			return err
		}
		w.log.Debug("panels combined", statsFields(out, st)...)
		return nil
	}
	twoChunks := func(ctx context.Context, a, b, out string) error { return count(w.merge.TwoChunks(ctx, a, b, out)) }

	var autoFiltered, xFiltered, condensed []artifact.Artifact
	for _, c := range chrs {
		for _, win := range windows[c] {
			var fl, cl []artifact.Artifact
			for _, p := range panels {
				fl = append(fl, n.SummaryFiltered(tt, p, win))
				cl = append(cl, n.SummaryCondensed(tt, p, win))
			}
			f := w.reduceChain(stage.CombinePanels, "combinePanelsComplex", fl,
				func(i int, _ bool) artifact.Artifact { return n.CombinedChunkFiltered(tt, win, i) }, combine)
			cd := w.reduceChain(stage.CombinePanels, "combinePanelsComplex", cl,
				func(i int, _ bool) artifact.Artifact { return n.CombinedChunkCondensed(tt, win, i) }, combine)
			if c.IsX() {
				xFiltered = append(xFiltered, f)
			} else {
				autoFiltered = append(autoFiltered, f)
			}
			condensed = append(condensed, cd)
		}
	}

	var filtered, filteredX artifact.Artifact
	if len(autoFiltered) > 0 {
		filtered = w.reduceTree(stage.CombinePanels, "mergeTwoChunks", autoFiltered, n.CombinedFiltered(tt),
			func(i int) artifact.Artifact { return n.CombinedReducedFiltered(tt, i) }, true, twoChunks)
	}
	if len(xFiltered) > 0 {
		filteredX = w.reduceTree(stage.CombinePanels, "mergeTwoChunks", xFiltered, n.CombinedFilteredX(tt),
			func(i int) artifact.Artifact { return n.CombinedReducedFilteredX(tt, i) }, true, twoChunks)
	}
	all := w.reduceTree(stage.CombinePanels, "mergeTwoChunks", condensed, n.CombinedCondensed(tt),
		func(i int) artifact.Artifact { return n.CombinedReducedCondensed(tt, i) }, true, twoChunks)

	w.topHits(stage.CombineGenerateManhattanTop, filtered, filteredX, n.CombinedTopHits(tt))
	plots := n.CombinedPlots(tt)
	w.external(stage.CombineGenerateManhattanTop, w.tools.QQManhattan(all.Path(), paths(plots...)), ids(all), plots...)
}

func statsFields(out string, st reconcile.Stats) []zap.Field {
	fields := []zap.Field{
		zap.String("output", out),
		zap.Int("rows", st.Rows()),
		zap.Int("kept_a", st.KeptA),
		zap.Int("kept_b", st.KeptB),
		zap.Int("only_a", st.OnlyA),
		zap.Int("only_b", st.OnlyB),
	}
	for _, m := range []variant.Match{variant.Exact, variant.Reverse, variant.Complemented, variant.ComplementReverse} {
		fields = append(fields, zap.Int(m.String(), st.Matches[m]))
	}
	return fields
}
