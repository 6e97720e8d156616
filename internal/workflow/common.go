// internal/workflow/common.go
package workflow

import (
	"context"

	"guidance/core/genome"
	"guidance/core/stage"
	"guidance/internal/artifact"
	"guidance/internal/config"
	"guidance/internal/filter"
	"guidance/internal/toolcmd"
)

// cohortFile is an input that no task produces.
func cohortFile(path string, kind artifact.Kind) artifact.Artifact {
	return artifact.Artifact{ID: artifact.ID(path), Kind: kind}
}

// planCommon schedules the per-chromosome steps shared by every panel and
// test type: split, ambiguous-pair list, phasing, and for minimac the
// haplotype filtering.
func (w *Workflow) planCommon(c genome.Chromosome) {
	n := w.names
	gmap := config.Expand(w.cfg.GmapFile, c)
	haps, sample, log := n.PhasedHaps(c), n.PhasedSample(c), n.PhasingLog(c)

	if w.format == filter.FormatBED {
		co := w.cfg.Cohort
		bed := cohortFile(config.Expand(co.BedFile, c), artifact.Genotype)
		bim := cohortFile(config.Expand(co.BimFile, c), artifact.Genotype)
		fam := cohortFile(config.Expand(co.FamFile, c), artifact.Sample)
		w.external(stage.ConvertInputFormat,
			w.tools.ConvertBed(bed.Path(), bim.Path(), fam.Path(), n.BedPrefix(c), c),
			ids(bed, bim, fam), n.ByChrBed(c), n.ByChrBim(c), n.ByChrFam(c), n.BedToBedLog(c))

		byBed, byBim, byFam := n.ByChrBed(c), n.ByChrBim(c), n.ByChrFam(c)
		w.rsIDList(c, byBim)
		w.external(stage.PhasingBed,
			w.tools.Phase(toolcmd.Phasing{
				Bed: byBed.Path(), Bim: byBim.Path(), Fam: byFam.Path(), Gmap: gmap,
				Haps: haps.Path(), HapsSample: sample.Path(), Log: log.Path(), Chromosome: c,
			}),
			ids(byBed, byBim, byFam), haps, sample, log)
	} else {
		gen := cohortFile(config.Expand(w.cfg.Cohort.GenFile, c), artifact.Genotype)
		smp := cohortFile(config.Expand(w.cfg.Cohort.SampleFile, c), artifact.Sample)
		w.rsIDList(c, gen)
		w.external(stage.Phasing,
			w.tools.Phase(toolcmd.Phasing{
				Gen: gen.Path(), Sample: smp.Path(), Gmap: gmap,
				Haps: haps.Path(), HapsSample: sample.Path(), Log: log.Path(), Chromosome: c,
			}),
			ids(gen, smp), haps, sample, log)
	}

	if w.gate.Tool() != stage.Minimac {
		return
	}
	excluded := n.ExcludedSnps(c)
	cgat, sv := w.cfg.ExcludeCGATSnps, w.cfg.ExcludeSVSnps
	w.internal(stage.CreateExcludedSnps, "createListOfExcludedSnps", []string{haps.Path(), excluded.Path()},
		func(ctx context.Context) error {
			return count(w.filter.ExcludedSnps(ctx, haps.Path(), excluded.Path(), cgat, sv))
		},
		ids(haps), excluded)

	fHaps, fSample, fList := n.FilteredHaps(c), n.FilteredHapsSample(c), n.ListOfSnps(c)
	w.external(stage.FilterHaplotypes,
		w.tools.FilterHaplotypes(toolcmd.HaplotypeFilter{
			Haps: haps.Path(), Sample: sample.Path(), Excluded: excluded.Path(),
			OutHaps: fHaps.Path(), OutSample: fSample.Path(),
			Log: n.FilteredHapsLog(c).Path(), Vcf: n.FilteredHapsVcf(c).Path(),
		}),
		ids(haps, sample, excluded), fHaps, fSample, n.FilteredHapsLog(c), n.FilteredHapsVcf(c))
	w.internal(stage.FilterHaplotypes, "createListOfSnps", []string{fHaps.Path(), fList.Path()},
		func(ctx context.Context) error { return count(w.filter.SnpList(ctx, fHaps.Path(), fList.Path())) },
		ids(fHaps), fList)
}

func (w *Workflow) rsIDList(c genome.Chromosome, input artifact.Artifact) {
	pairs := w.names.Pairs(c)
	format, cgat := w.format, w.cfg.ExcludeCGATSnps
	w.internal(stage.CreateRsIDList, "createRsIdList", []string{input.Path(), pairs.Path()},
		func(ctx context.Context) error {
			return count(w.filter.RsIDList(ctx, input.Path(), format, cgat, pairs.Path()))
		},
		ids(input), pairs)
}

// phased returns the haplotypes and sample file imputation and association
// read for c.
func (w *Workflow) phased(c genome.Chromosome) (haps, sample artifact.Artifact) {
	if w.gate.Tool() == stage.Minimac {
		return w.names.FilteredHaps(c), w.names.FilteredHapsSample(c)
	}
	return w.names.PhasedHaps(c), w.names.PhasedSample(c)
}
