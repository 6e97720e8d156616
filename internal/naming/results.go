// internal/naming/results.go
package naming

import (
	"fmt"

	"guidance/core/genome"
	"guidance/internal/artifact"
)

// Per-chromosome reductions (testType x panel x chromosome).

func (n *Namer) merged(kind artifact.Kind, tt, panel string, c genome.Chromosome, idx int, name string, inter bool) artifact.Artifact {
	co := artifact.Coords{TestType: tt, Panel: panel, Chromosome: c, Index: idx}
	return n.at(kind, co, inter, "associations", tt, panel, chrDir(c), name)
}

func (n *Namer) ReducedFiltered(tt, panel string, c genome.Chromosome, idx int) artifact.Artifact {
	return n.merged(artifact.Filtered, tt, panel, c, idx, fmt.Sprintf("%s_reduce_filtered_file_%d.txt.gz", chrDir(c), idx), true)
}

func (n *Namer) ReducedCondensed(tt, panel string, c genome.Chromosome, idx int) artifact.Artifact {
	return n.merged(artifact.Condensed, tt, panel, c, idx, fmt.Sprintf("%s_reduce_condensed_file_%d.txt.gz", chrDir(c), idx), true)
}

// ChrFiltered is the reduction root of one chromosome's filtered chunks.
func (n *Namer) ChrFiltered(tt, panel string, c genome.Chromosome) artifact.Artifact {
	return n.merged(artifact.Filtered, tt, panel, c, 0, chrDir(c)+"_filteredByAll.txt.gz", true)
}

func (n *Namer) ChrCondensed(tt, panel string, c genome.Chromosome) artifact.Artifact {
	return n.merged(artifact.Condensed, tt, panel, c, 0, chrDir(c)+"_condensed.txt.gz", true)
}

// Cross-chromosome joins and results (testType x panel).

func (n *Namer) result(kind artifact.Kind, tt, panel string, idx int, name string, inter bool) artifact.Artifact {
	co := artifact.Coords{TestType: tt, Panel: panel, Index: idx}
	return n.at(kind, co, inter, "associations", tt, panel, name)
}

func (n *Namer) JointCondensedStep(tt, panel string, idx int) artifact.Artifact {
	return n.result(artifact.Condensed, tt, panel, idx, fmt.Sprintf("additional_condensed_%d.txt.gz", idx), true)
}

func (n *Namer) JointFilteredStep(tt, panel string, idx int) artifact.Artifact {
	return n.result(artifact.Filtered, tt, panel, idx, fmt.Sprintf("additional_filteredByAll_%d.txt.gz", idx), true)
}

func (n *Namer) FinalCondensed(tt, panel string) artifact.Artifact {
	return n.result(artifact.Condensed, tt, panel, 0, fmt.Sprintf("%s_%s_condensed.txt.gz", tt, panel), false)
}

func (n *Namer) FinalFiltered(tt, panel string) artifact.Artifact {
	return n.result(artifact.Filtered, tt, panel, 0, fmt.Sprintf("%s_%s_filteredByAll.txt.gz", tt, panel), false)
}

func (n *Namer) FinalFilteredX(tt, panel string) artifact.Artifact {
	return n.result(artifact.Filtered, tt, panel, 0, fmt.Sprintf("%s_%s_filteredByAll_chrX.txt.gz", tt, panel), false)
}

func (n *Namer) TopHits(tt, panel string) artifact.Artifact {
	return n.result(artifact.TopHits, tt, panel, 0, fmt.Sprintf("%s_%s_tophits.txt.gz", tt, panel), false)
}

// Plots returns the qq and manhattan outputs (pdf then tiff of each) and the
// corrected p-value table written by the plotting script.
func (n *Namer) Plots(tt, panel string) []artifact.Artifact {
	base := tt + "_" + panel
	return []artifact.Artifact{
		n.result(artifact.Plot, tt, panel, 0, base+"_QQplot.pdf", false),
		n.result(artifact.Plot, tt, panel, 0, base+"_manhattan.pdf", false),
		n.result(artifact.Plot, tt, panel, 0, base+"_QQplot.tiff", false),
		n.result(artifact.Plot, tt, panel, 0, base+"_manhattan.tiff", false),
		n.result(artifact.Condensed, tt, panel, 0, base+"_corrected_pvalues.txt", false),
	}
}

// Combined-panel outputs (testType).

func (n *Namer) combined(kind artifact.Kind, tt string, co artifact.Coords, name string, inter bool) artifact.Artifact {
	co.TestType = tt
	return n.at(kind, co, inter, "associations", tt, "combined", name)
}

// CombinedChunkFiltered is fold step k over the panels of window w.
func (n *Namer) CombinedChunkFiltered(tt string, w genome.Window, k int) artifact.Artifact {
	co := artifact.Coords{Chromosome: w.Chromosome, Start: w.Start, End: w.End, Index: k}
	return n.combined(artifact.Filtered, tt, co, fmt.Sprintf("%s_combined_filteredByAll_%d.txt.gz", winTag(w), k), true)
}

func (n *Namer) CombinedChunkCondensed(tt string, w genome.Window, k int) artifact.Artifact {
	co := artifact.Coords{Chromosome: w.Chromosome, Start: w.Start, End: w.End, Index: k}
	return n.combined(artifact.Condensed, tt, co, fmt.Sprintf("%s_combined_condensed_%d.txt.gz", winTag(w), k), true)
}

func (n *Namer) CombinedReducedFiltered(tt string, idx int) artifact.Artifact {
	return n.combined(artifact.Filtered, tt, artifact.Coords{Index: idx}, fmt.Sprintf("reduce_combined_filteredByAll_%d.txt.gz", idx), true)
}

func (n *Namer) CombinedReducedFilteredX(tt string, idx int) artifact.Artifact {
	return n.combined(artifact.Filtered, tt, artifact.Coords{Chromosome: genome.X, Index: idx}, fmt.Sprintf("reduce_combined_filteredByAll_chrX_%d.txt.gz", idx), true)
}

func (n *Namer) CombinedReducedCondensed(tt string, idx int) artifact.Artifact {
	return n.combined(artifact.Condensed, tt, artifact.Coords{Index: idx}, fmt.Sprintf("reduce_combined_condensed_%d.txt.gz", idx), true)
}

func (n *Namer) CombinedFiltered(tt string) artifact.Artifact {
	return n.combined(artifact.Filtered, tt, artifact.Coords{}, tt+"_combined_filteredByAll.txt.gz", false)
}

func (n *Namer) CombinedFilteredX(tt string) artifact.Artifact {
	return n.combined(artifact.Filtered, tt, artifact.Coords{Chromosome: genome.X}, tt+"_combined_filteredByAll_chrX.txt.gz", false)
}

func (n *Namer) CombinedCondensed(tt string) artifact.Artifact {
	return n.combined(artifact.Condensed, tt, artifact.Coords{}, tt+"_combined_condensed.txt.gz", false)
}

func (n *Namer) CombinedTopHits(tt string) artifact.Artifact {
	return n.combined(artifact.TopHits, tt, artifact.Coords{}, tt+"_combined_tophits.txt.gz", false)
}

func (n *Namer) CombinedPlots(tt string) []artifact.Artifact {
	base := tt + "_combined"
	return []artifact.Artifact{
		n.combined(artifact.Plot, tt, artifact.Coords{}, base+"_QQplot.pdf", false),
		n.combined(artifact.Plot, tt, artifact.Coords{}, base+"_manhattan.pdf", false),
		n.combined(artifact.Plot, tt, artifact.Coords{}, base+"_QQplot.tiff", false),
		n.combined(artifact.Plot, tt, artifact.Coords{}, base+"_manhattan.tiff", false),
		n.combined(artifact.Condensed, tt, artifact.Coords{}, base+"_corrected_pvalues.txt", false),
	}
}

// Phenome matrix (across test types).

func (n *Namer) phenome(idx int, name string, inter bool) artifact.Artifact {
	return n.at(artifact.Phenome, artifact.Coords{Index: idx}, inter, "associations", "phenome", name)
}

func (n *Namer) PhenomeInit() artifact.Artifact {
	return n.phenome(0, "phenome_intermediate_0.txt.gz", true)
}

// PhenomeAdd numbers from 1; index 0 belongs to PhenomeInit.
func (n *Namer) PhenomeAdd(idx int) artifact.Artifact {
	return n.phenome(idx, fmt.Sprintf("phenome_intermediate_%d.txt.gz", idx), true)
}

func (n *Namer) PhenomeFillout(idx int) artifact.Artifact {
	return n.phenome(idx, fmt.Sprintf("phenome_fillout_%d.txt.gz", idx), true)
}

func (n *Namer) PhenomeFinalStep(idx int) artifact.Artifact {
	return n.phenome(idx, fmt.Sprintf("phenome_finalize_%d.txt.gz", idx), true)
}

func (n *Namer) PhenomeFinal() artifact.Artifact {
	return n.phenome(0, "phenome_matrix.txt.gz", false)
}
