// internal/workflow/chunks.go
package workflow

import (
	"context"

	"guidance/core/genome"
	"guidance/core/stage"
	"guidance/internal/artifact"
	"guidance/internal/config"
	"guidance/internal/toolcmd"
)

// imputed returns the genotype and info artifacts of one imputed window.
func (w *Workflow) imputed(panel string, win genome.Window) (gen, info artifact.Artifact) {
	if w.gate.Tool() == stage.Minimac {
		return w.names.MinimacDose(panel, win), w.names.MinimacInfo(panel, win)
	}
	return w.names.Imputed(panel, win), w.names.ImputedInfo(panel, win)
}

// planImputation schedules imputation, the info filter and the qctool pass
// of one (panel, window).
func (w *Workflow) planImputation(panel config.Panel, win genome.Window) {
	n := w.names
	c := win.Chromosome
	haps, sample := w.phased(c)
	gen, info := w.imputed(panel.Name, win)

	if w.gate.Tool() == stage.Minimac {
		snps := n.ListOfSnps(c)
		w.external(stage.ImputeWithMinimac,
			w.tools.Minimac(toolcmd.MinimacRun{
				Hap: panel.Hap(c), Snps: snps.Path(), Haps: haps.Path(), Sample: sample.Path(),
				Window: win, Prefix: n.MinimacPrefix(panel.Name, win),
			}),
			ids(haps, sample, snps), gen, info)
	} else {
		pairs := n.Pairs(c)
		summ, warn := n.ImputedSummary(panel.Name, win), n.ImputedWarnings(panel.Name, win)
		w.external(stage.ImputeWithImpute,
			w.tools.Impute2(toolcmd.Impute{
				Gmap: config.Expand(w.cfg.GmapFile, c), Hap: panel.Hap(c), Legend: panel.Legend(c),
				Haps: haps.Path(), HapsSample: sample.Path(), Pairs: pairs.Path(), Window: win,
				Out: gen.Path(), Info: info.Path(), Summary: summ.Path(), Warnings: warn.Path(),
			}),
			ids(haps, sample, pairs), gen, info, summ, warn)
	}

	rsids := n.FilteredRsIDs(panel.Name, win)
	threshold := w.cfg.InfoThreshold()
	w.internal(stage.FilterByInfo, "filterByInfo", []string{info.Path(), rsids.Path(), fmtFloat(threshold)},
		func(ctx context.Context) error {
			return count(w.filter.ByInfo(ctx, info.Path(), rsids.Path(), threshold))
		},
		ids(info), rsids)

	qc, qcLog := n.QCFiltered(panel.Name, win), n.QCLog(panel.Name, win)
	w.external(stage.QctoolS,
		w.tools.QctoolS(gen.Path(), rsids.Path(), qc.Path(), qcLog.Path(), w.cfg.MAFThreshold),
		ids(gen, rsids), qc, qcLog)
}

// planAssociation schedules snptest, the summary join and filter-by-all of
// one (test type, panel, window).
func (w *Workflow) planAssociation(tt config.TestType, u genome.WorkUnit) {
	n := w.names
	win := u.Window
	c := win.Chromosome
	_, sample := w.phased(c)
	_, info := w.imputed(u.Panel, win)
	qc := n.QCFiltered(u.Panel, win)

	out, log := n.SnptestOut(tt.Name, u.Panel, win), n.SnptestLog(tt.Name, u.Panel, win)
	w.external(stage.Snptest,
		w.tools.Snptest(toolcmd.Association{
			Gen: qc.Path(), Sample: sample.Path(), Out: out.Path(), Log: log.Path(),
			ResponseVar: tt.ResponseVar, Covariates: tt.Covariates(), Chromosome: c,
		}),
		ids(qc, sample), out, log)

	summ := n.Summary(tt.Name, u.Panel, win)
	chr := c.String()
	w.internal(stage.CollectSummary, "collectSummary", []string{chr, info.Path(), out.Path(), summ.Path()},
		func(ctx context.Context) error {
			return count(w.summary.Collect(ctx, chr, info.Path(), out.Path(), summ.Path()))
		},
		ids(info, out), summ)

	filtered, condensed := n.SummaryFiltered(tt.Name, u.Panel, win), n.SummaryCondensed(tt.Name, u.Panel, win)
	th, panel := w.cfg.Thresholds(), u.Panel
	w.internal(stage.FilterByAll, "filterByAll",
		[]string{summ.Path(), filtered.Path(), condensed.Path(), panel,
			fmtFloat(th.MAF), fmtFloat(th.Info), fmtFloat(th.HWECohort), fmtFloat(th.HWECases), fmtFloat(th.HWEControls)},
		func(ctx context.Context) error {
			_, err := w.filter.ByAll(ctx, summ.Path(), filtered.Path(), condensed.Path(), panel, th)
			return err
		},
		ids(summ), filtered, condensed)
}
