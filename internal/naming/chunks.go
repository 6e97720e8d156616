// internal/naming/chunks.go
package naming

import (
	"guidance/core/genome"
	"guidance/internal/artifact"
)

// Per-window imputation outputs (panel x window).

func (n *Namer) impute(kind artifact.Kind, panel string, w genome.Window, suffix string) artifact.Artifact {
	return n.at(kind, winCoords("", panel, w), true, "imputation", panel, chrDir(w.Chromosome), winTag(w)+suffix)
}

func (n *Namer) Imputed(panel string, w genome.Window) artifact.Artifact {
	return n.impute(artifact.Imputed, panel, w, ".impute.gz")
}

func (n *Namer) ImputedInfo(panel string, w genome.Window) artifact.Artifact {
	return n.impute(artifact.ImputedInfo, panel, w, ".impute_info")
}

func (n *Namer) ImputedSummary(panel string, w genome.Window) artifact.Artifact {
	return n.impute(artifact.Log, panel, w, ".impute_summary")
}

func (n *Namer) ImputedWarnings(panel string, w genome.Window) artifact.Artifact {
	return n.impute(artifact.Log, panel, w, ".impute_warnings")
}

// MinimacPrefix is the --prefix of a minimac run; minimac appends its own
// suffixes (".dose.gz", ".info.gz", ...).
func (n *Namer) MinimacPrefix(panel string, w genome.Window) string {
	return n.impute(artifact.Imputed, panel, w, ".minimac").Path()
}

func (n *Namer) MinimacDose(panel string, w genome.Window) artifact.Artifact {
	return n.impute(artifact.Imputed, panel, w, ".minimac.dose.gz")
}

func (n *Namer) MinimacInfo(panel string, w genome.Window) artifact.Artifact {
	return n.impute(artifact.ImputedInfo, panel, w, ".minimac.info.gz")
}

func (n *Namer) FilteredRsIDs(panel string, w genome.Window) artifact.Artifact {
	return n.impute(artifact.RsIDList, panel, w, ".filtered_rsids")
}

func (n *Namer) QCFiltered(panel string, w genome.Window) artifact.Artifact {
	return n.impute(artifact.QCFiltered, panel, w, ".filtered.gen.gz")
}

func (n *Namer) QCLog(panel string, w genome.Window) artifact.Artifact {
	return n.impute(artifact.Log, panel, w, ".filtered.log")
}

// Per-window association outputs (testType x panel x window).

func (n *Namer) assoc(kind artifact.Kind, tt, panel string, w genome.Window, suffix string) artifact.Artifact {
	return n.at(kind, winCoords(tt, panel, w), true, "associations", tt, panel, chrDir(w.Chromosome), winTag(w)+suffix)
}

func (n *Namer) SnptestOut(tt, panel string, w genome.Window) artifact.Artifact {
	return n.assoc(artifact.Association, tt, panel, w, ".snptest.gz")
}

func (n *Namer) SnptestLog(tt, panel string, w genome.Window) artifact.Artifact {
	return n.assoc(artifact.Log, tt, panel, w, ".snptest.log")
}

func (n *Namer) Summary(tt, panel string, w genome.Window) artifact.Artifact {
	return n.assoc(artifact.Summary, tt, panel, w, ".summary.txt.gz")
}

func (n *Namer) SummaryFiltered(tt, panel string, w genome.Window) artifact.Artifact {
	return n.assoc(artifact.Filtered, tt, panel, w, ".filteredByAll.txt.gz")
}

func (n *Namer) SummaryCondensed(tt, panel string, w genome.Window) artifact.Artifact {
	return n.assoc(artifact.Condensed, tt, panel, w, ".condensed.txt.gz")
}
