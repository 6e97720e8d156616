// internal/naming/common.go
package naming

import (
	"guidance/core/genome"
	"guidance/internal/artifact"
)

// Per-chromosome cohort files, shared by every panel and test type.

// BedPrefix is the plink --out prefix of the per-chromosome split.
func (n *Namer) BedPrefix(c genome.Chromosome) string {
	return n.at(artifact.Genotype, chrCoords(c), true, "common", chrDir(c), "mixed_"+chrDir(c)).Path()
}

func (n *Namer) ByChrBed(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Genotype, chrCoords(c), true, "common", chrDir(c), "mixed_"+chrDir(c)+".bed")
}

func (n *Namer) ByChrBim(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Genotype, chrCoords(c), true, "common", chrDir(c), "mixed_"+chrDir(c)+".bim")
}

func (n *Namer) ByChrFam(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Sample, chrCoords(c), true, "common", chrDir(c), "mixed_"+chrDir(c)+".fam")
}

func (n *Namer) BedToBedLog(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Log, chrCoords(c), true, "common", chrDir(c), "mixed_"+chrDir(c)+".log")
}

func (n *Namer) Pairs(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Pairs, chrCoords(c), true, "common", chrDir(c), "mixed_"+chrDir(c)+".pairs")
}

func (n *Namer) PhasedHaps(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Haplotypes, chrCoords(c), true, "common", chrDir(c), "mixed_phasing_"+chrDir(c)+".haps.gz")
}

func (n *Namer) PhasedSample(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Sample, chrCoords(c), true, "common", chrDir(c), "mixed_phasing_"+chrDir(c)+".sample")
}

func (n *Namer) PhasingLog(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Log, chrCoords(c), true, "common", chrDir(c), "mixed_phasing_"+chrDir(c)+".log")
}

func (n *Namer) ExcludedSnps(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Excluded, chrCoords(c), true, "common", chrDir(c), "mixed_excluded_snps_"+chrDir(c)+".txt")
}

func (n *Namer) FilteredHaps(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Haplotypes, chrCoords(c), true, "common", chrDir(c), "mixed_filtered_haplotypes_"+chrDir(c)+".haps.gz")
}

func (n *Namer) FilteredHapsSample(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Sample, chrCoords(c), true, "common", chrDir(c), "mixed_filtered_haplotypes_"+chrDir(c)+".sample")
}

func (n *Namer) FilteredHapsLog(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Log, chrCoords(c), true, "common", chrDir(c), "mixed_filtered_haplotypes_"+chrDir(c)+".log")
}

func (n *Namer) FilteredHapsVcf(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.Haplotypes, chrCoords(c), true, "common", chrDir(c), "mixed_filtered_haplotypes_"+chrDir(c)+".vcf.gz")
}

func (n *Namer) ListOfSnps(c genome.Chromosome) artifact.Artifact {
	return n.at(artifact.RsIDList, chrCoords(c), true, "common", chrDir(c), "mixed_list_of_snps_"+chrDir(c)+".txt")
}
