// internal/workflow/phenome.go
package workflow

import (
	"context"

	"guidance/core/reduce"
	"guidance/core/stage"
	"guidance/internal/artifact"
	"guidance/internal/phenome"
)

// planPhenome builds the cross test type matrix: INIT on the first pair,
// ADD on the rest, FILLOUT per pair against the final key set, then a left
// FINALIZE fold over the filled-out matrices.
func (w *Workflow) planPhenome() {
	n := w.names
	var pairs []phenome.Pair
	for _, tt := range w.cfg.TestTypes {
		for _, p := range w.cfg.Panels {
			pairs = append(pairs, phenome.Pair{TestType: tt.Name, Panel: p.Name})
		}
	}
	if len(pairs) == 0 {
		return
	}

	keys := n.PhenomeInit()
	first := w.results[pairs[0]].topHits
	w.internal(stage.InitPhenotypeMatrix, "initPhenoMatrix", []string{first.Path(), keys.Path()},
		func(ctx context.Context) error { return count(w.pheno.Init(ctx, first.Path(), keys.Path())) },
		ids(first), keys)
	for i, pr := range pairs[1:] {
		acc, hits, out := keys, w.results[pr].topHits, n.PhenomeAdd(i+1)
		w.internal(stage.AddToPhenotypeMatrix, "addToPhenoMatrix", []string{acc.Path(), hits.Path(), out.Path()},
			func(ctx context.Context) error { return count(w.pheno.Add(ctx, acc.Path(), hits.Path(), out.Path())) },
			ids(acc, hits), out)
		keys = out
	}

	var filled []artifact.Artifact
	for i, pr := range pairs {
		res := w.results[pr]
		auto, x := res.filtered, res.filteredX
		out, matrix := n.PhenomeFillout(i), keys
		w.internal(stage.FilloutPhenotypeMatrix, "filloutPhenoMatrix",
			[]string{matrix.Path(), auto.Path(), x.Path(), pr.TestType, pr.Panel, out.Path()},
			func(ctx context.Context) error {
				return count(w.pheno.Fillout(ctx, matrix.Path(), auto.Path(), x.Path(), pr, out.Path()))
			},
			ids(matrix, auto, x), out)
		filled = append(filled, out)
	}

	final := n.PhenomeFinal()
	name := func(i int, last bool) artifact.Artifact {
		if last {
			return final
		}
		return n.PhenomeFinalStep(i)
	}
	w.reduceChain(stage.FinalizePhenotypeMatrix, "finalizePhenoMatrix", filled, reduce.Namer[artifact.Artifact](name),
		func(ctx context.Context, acc, inc, out string) error { return count(w.pheno.Finalize(ctx, acc, inc, out)) })
}
