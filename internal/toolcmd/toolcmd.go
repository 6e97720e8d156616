// internal/toolcmd/toolcmd.go
package toolcmd

import (
	"path"
	"strconv"
	"strings"

	"guidance/core/genome"
	"guidance/internal/config"
	"guidance/internal/dispatch"
)

// Tool names as they appear in logs and failures.
const (
	Plink   = "plink"
	Shapeit = "shapeit"
	Impute2 = "impute2"
	Minimac = "minimac"
	Qctool  = "qctool"
	Snptest = "snptest"
	Rscript = "Rscript"
)

// Fixed tuning of the imputation tools.
const (
	effectiveSize  = "20000"
	minimacWindow  = "250000"
	minimacRounds  = "5"
	minimacStates  = "200"
	plotScriptName = "qqplot_manhattan.R"
)

// Builder renders command descriptors for the configured binaries.
type Builder struct {
	Tools config.Tools
	// Threads is passed to shapeit; zero leaves shapeit's default.
	Threads int
}

func New(tools config.Tools) Builder { return Builder{Tools: tools} }

func (b Builder) cmd(tool, bin string, args ...string) *dispatch.Command {
	if bin == "" {
		bin = tool
	}
	return &dispatch.Command{Tool: tool, Path: bin, Args: args}
}

// ConvertBed splits the cohort BED fileset into one chromosome.
func (b Builder) ConvertBed(bed, bim, fam, outPrefix string, c genome.Chromosome) *dispatch.Command {
	return b.cmd(Plink, b.Tools.Plink,
		"--noweb", "--bed", bed, "--bim", bim, "--fam", fam,
		"--chr", c.String(), "--recode", "--out", outPrefix, "--make-bed")
}

// Phasing is one shapeit run. Exactly one of Bed or Gen input is used.
type Phasing struct {
	Bed, Bim, Fam    string
	Gen, Sample      string
	Gmap             string
	Haps, HapsSample string
	Log              string
	Chromosome       genome.Chromosome
}

// Phase renders shapeit for BED input when p.Bed is set, GEN input otherwise.
func (b Builder) Phase(p Phasing) *dispatch.Command {
	var args []string
	if p.Bed != "" {
		args = append(args, "--input-bed", p.Bed, p.Bim, p.Fam)
	} else {
		args = append(args, "--input-gen", p.Gen, p.Sample)
	}
	args = append(args, "--input-map", p.Gmap)
	if p.Chromosome.IsX() {
		args = append(args, "--chrX")
	}
	args = append(args, "--output-max", p.Haps, p.HapsSample)
	if b.Threads > 0 {
		args = append(args, "--thread", strconv.Itoa(b.Threads))
	}
	args = append(args, "--effective-size", effectiveSize, "--output-log", p.Log)
	return b.cmd(Shapeit, b.Tools.Shapeit, args...)
}

// HaplotypeFilter drops the excluded variants from phased haplotypes.
type HaplotypeFilter struct {
	Haps, Sample       string
	Excluded           string
	OutHaps, OutSample string
	Log, Vcf           string
}

func (b Builder) FilterHaplotypes(f HaplotypeFilter) *dispatch.Command {
	return b.cmd(Shapeit, b.Tools.Shapeit,
		"-convert", "--input-haps", f.Haps, f.Sample,
		"--exclude-snp", f.Excluded,
		"--output-haps", f.OutHaps, f.OutSample,
		"--output-log", f.Log, "--output-vcf", f.Vcf)
}

// Impute is one impute2 window.
type Impute struct {
	Gmap, Hap, Legend string
	Haps, HapsSample  string
	Pairs             string
	Window            genome.Window
	Out, Info         string
	Summary, Warnings string
}

// Impute2 renders impute2 with gzip output. Out names the compressed file;
// impute2 appends ".gz" itself.
func (b Builder) Impute2(p Impute) *dispatch.Command {
	args := []string{
		"-use_prephased_g", "-m", p.Gmap, "-h", p.Hap, "-l", p.Legend,
		"-known_haps_g", p.Haps,
	}
	if p.Window.Chromosome.IsX() {
		args = append(args, "-sample_g", p.HapsSample)
	}
	args = append(args, "-int", strconv.Itoa(p.Window.Start), strconv.Itoa(p.Window.End))
	if p.Window.Chromosome.IsX() {
		args = append(args, "-chrX")
	}
	args = append(args,
		"-exclude_snps_g", p.Pairs, "-impute_excluded", "-Ne", effectiveSize,
		"-o", strings.TrimSuffix(p.Out, ".gz"), "-i", p.Info, "-r", p.Summary, "-w", p.Warnings,
		"-no_sample_qc_info", "-o_gz")
	return b.cmd(Impute2, b.Tools.Impute2, args...)
}

// MinimacRun is one minimac window.
type MinimacRun struct {
	Hap          string
	Snps         string
	Haps, Sample string
	Window       genome.Window
	Prefix       string
}

func (b Builder) Minimac(p MinimacRun) *dispatch.Command {
	return b.cmd(Minimac, b.Tools.Minimac,
		"--vcfReference", "--refHaps", p.Hap, "--snps", p.Snps,
		"--shape_haps", p.Haps, "--sample", p.Sample,
		"--vcfstart", strconv.Itoa(p.Window.Start), "--vcfend", strconv.Itoa(p.Window.End),
		"--chr", p.Window.Chromosome.String(),
		"--vcfwindow", minimacWindow, "--rounds", minimacRounds, "--states", minimacStates,
		"--prefix", p.Prefix, "--gzip")
}

// QctoolS keeps the listed rsIds with MAF in [maf, 1].
func (b Builder) QctoolS(in, rsids, out, log string, maf float64) *dispatch.Command {
	return b.cmd(Qctool, b.Tools.Qctool,
		"-g", in, "-og", out, "-incl-rsids", rsids,
		"-omit-chromosome", "-force", "-log", log,
		"-maf", strconv.FormatFloat(maf, 'g', -1, 64), "1")
}

// Association is one snptest window.
type Association struct {
	Gen, Sample string
	Out, Log    string
	ResponseVar string
	Covariates  []string
	Chromosome  genome.Chromosome
}

func (b Builder) Snptest(a Association) *dispatch.Command {
	args := []string{"-data", a.Gen, a.Sample, "-o", a.Out, "-pheno", a.ResponseVar}
	if len(a.Covariates) > 0 {
		args = append(args, "-cov_names")
		args = append(args, a.Covariates...)
	}
	args = append(args, "-hwe", "-log", a.Log)
	if a.Chromosome.IsX() {
		args = append(args, "-method", "newml", "-assume_chromosome", "X", "-stratify_on", "sex", "-frequentist", "1")
	} else {
		args = append(args, "-method", "em", "-frequentist", "1", "2", "3", "4", "5")
	}
	return b.cmd(Snptest, b.Tools.Snptest, args...)
}

// QQManhattan runs the plotting script over a condensed result. outs are the
// QQ and manhattan pdfs, the same as tiffs, then the corrected p-values.
func (b Builder) QQManhattan(condensed string, outs []string) *dispatch.Command {
	bin := Rscript
	if b.Tools.RscriptBinDir != "" {
		bin = path.Join(b.Tools.RscriptBinDir, Rscript)
	}
	script := plotScriptName
	if b.Tools.RscriptDir != "" {
		script = path.Join(b.Tools.RscriptDir, plotScriptName)
	}
	return b.cmd(Rscript, bin, append([]string{script, condensed}, outs...)...)
}
