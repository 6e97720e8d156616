// internal/config/config.go
package config

import (
	"strings"

	"guidance/core/genome"
	"guidance/internal/filter"
	"guidance/internal/tracing"
)

// Cohort locates the input genotypes. Paths may contain {chr}.
type Cohort struct {
	BedFile    string `mapstructure:"bed_file" yaml:"bed_file"`
	BimFile    string `mapstructure:"bim_file" yaml:"bim_file"`
	FamFile    string `mapstructure:"fam_file" yaml:"fam_file"`
	GenFile    string `mapstructure:"gen_file" yaml:"gen_file"`
	SampleFile string `mapstructure:"sample_file" yaml:"sample_file"`
}

// Panel is one reference panel. HapFile and LegendFile are relative to Dir
// and may contain {chr}.
type Panel struct {
	Name       string `mapstructure:"name" yaml:"name"`
	Dir        string `mapstructure:"dir" yaml:"dir"`
	HapFile    string `mapstructure:"hap_file" yaml:"hap_file"`
	LegendFile string `mapstructure:"legend_file" yaml:"legend_file"`
}

func (p Panel) Hap(c genome.Chromosome) string    { return joinDir(p.Dir, Expand(p.HapFile, c)) }
func (p Panel) Legend(c genome.Chromosome) string { return joinDir(p.Dir, Expand(p.LegendFile, c)) }

// TestType is one association model. Covariables is comma separated, or
// "none".
type TestType struct {
	Name        string `mapstructure:"name" yaml:"name"`
	ResponseVar string `mapstructure:"response_var" yaml:"response_var"`
	Covariables string `mapstructure:"covariables" yaml:"covariables"`
}

// Covariates splits Covariables; "none" and "" give nil.
func (t TestType) Covariates() []string {
	if t.Covariables == "" || t.Covariables == "none" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(t.Covariables, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Tools holds binary locations. Bare names are looked up on PATH.
type Tools struct {
	Plink         string `mapstructure:"plink" yaml:"plink"`
	Shapeit       string `mapstructure:"shapeit" yaml:"shapeit"`
	Impute2       string `mapstructure:"impute2" yaml:"impute2"`
	Minimac       string `mapstructure:"minimac" yaml:"minimac"`
	Qctool        string `mapstructure:"qctool" yaml:"qctool"`
	Snptest       string `mapstructure:"snptest" yaml:"snptest"`
	RscriptBinDir string `mapstructure:"rscript_bin_dir" yaml:"rscript_bin_dir"`
	RscriptDir    string `mapstructure:"rscript_dir" yaml:"rscript_dir"`
}

// Config is the full run configuration.
type Config struct {
	WfDeep         string                  `mapstructure:"wf_deep" yaml:"wf_deep"`
	InitChromosome int                     `mapstructure:"init_chromosome" yaml:"init_chromosome"`
	EndChromosome  int                     `mapstructure:"end_chromosome" yaml:"end_chromosome"`
	ChunkSize      int                     `mapstructure:"chunk_size_analysis" yaml:"chunk_size_analysis"`
	Positions      map[string]genome.Range `mapstructure:"positions" yaml:"positions,omitempty"`
	InputFormat    string                  `mapstructure:"input_format" yaml:"input_format"`
	Cohort         Cohort                  `mapstructure:"cohort" yaml:"cohort"`
	GmapFile       string                  `mapstructure:"gmap_file" yaml:"gmap_file"`
	Panels         []Panel                 `mapstructure:"panels" yaml:"panels"`
	TestTypes      []TestType              `mapstructure:"test_types" yaml:"test_types"`
	ImputationTool string                  `mapstructure:"imputation_tool" yaml:"imputation_tool"`

	MAFThreshold         float64 `mapstructure:"maf_threshold" yaml:"maf_threshold"`
	ImputeThreshold      float64 `mapstructure:"impute_threshold" yaml:"impute_threshold"`
	MinimacThreshold     float64 `mapstructure:"minimac_threshold" yaml:"minimac_threshold"`
	PvaThreshold         float64 `mapstructure:"pva_threshold" yaml:"pva_threshold"`
	HWECohortThreshold   float64 `mapstructure:"hwe_cohort_threshold" yaml:"hwe_cohort_threshold"`
	HWECasesThreshold    float64 `mapstructure:"hwe_cases_threshold" yaml:"hwe_cases_threshold"`
	HWEControlsThreshold float64 `mapstructure:"hwe_controls_threshold" yaml:"hwe_controls_threshold"`
	ExcludeCGATSnps      bool    `mapstructure:"exclude_cgat_snps" yaml:"exclude_cgat_snps"`
	ExcludeSVSnps        bool    `mapstructure:"exclude_sv_snps" yaml:"exclude_sv_snps"`
	RefpanelCombine      bool    `mapstructure:"refpanel_combine" yaml:"refpanel_combine"`

	OutDir       string `mapstructure:"out_dir" yaml:"out_dir"`
	ListOfStages string `mapstructure:"file_name_for_list_of_stages" yaml:"file_name_for_list_of_stages"`
	TempFiles    string `mapstructure:"temp_files" yaml:"temp_files"`
	Parallel     int    `mapstructure:"parallel" yaml:"parallel"`
	Ledger       string `mapstructure:"ledger" yaml:"ledger"`

	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing"`
	Tools   Tools          `mapstructure:"tools" yaml:"tools"`
}

// Defaults mirrors the values Load registers with viper.
func Defaults() Config {
	return Config{
		WfDeep:               "whole_workflow",
		InitChromosome:       1,
		EndChromosome:        23,
		ChunkSize:            1000000,
		InputFormat:          "BED",
		ImputationTool:       "impute",
		MAFThreshold:         0.001,
		ImputeThreshold:      0.7,
		MinimacThreshold:     0.3,
		PvaThreshold:         5e-8,
		HWECohortThreshold:   1e-6,
		HWECasesThreshold:    1e-6,
		HWEControlsThreshold: 1e-6,
		ExcludeCGATSnps:      true,
		OutDir:               "guidance_out",
		ListOfStages:         "list_of_stages.txt",
		TempFiles:            "keep",
		Parallel:             1,
		Tracing:              tracing.DefaultConfig(),
		Tools: Tools{
			Plink:   "plink",
			Shapeit: "shapeit",
			Impute2: "impute2",
			Minimac: "minimac",
			Qctool:  "qctool",
			Snptest: "snptest",
		},
	}
}

// Planner derives the chunk planner. Call Validate first.
func (c *Config) Planner() genome.Planner {
	return genome.Planner{
		Start:     genome.Chromosome(c.InitChromosome),
		End:       genome.Chromosome(c.EndChromosome),
		ChunkSize: c.ChunkSize,
		Ranges:    c.ranges(),
	}
}

func (c *Config) ranges() genome.Ranges {
	rs := make(genome.Ranges, len(c.Positions))
	for k, r := range c.Positions {
		if ch, err := genome.ParseChromosome(k); err == nil {
			rs[ch] = r
		}
	}
	return rs
}

// InfoThreshold is the info cutoff of the configured imputation tool.
func (c *Config) InfoThreshold() float64 {
	if c.ImputationTool == "minimac" {
		return c.MinimacThreshold
	}
	return c.ImputeThreshold
}

func (c *Config) Thresholds() filter.Thresholds {
	return filter.Thresholds{
		MAF:         c.MAFThreshold,
		Info:        c.InfoThreshold(),
		HWECohort:   c.HWECohortThreshold,
		HWECases:    c.HWECasesThreshold,
		HWEControls: c.HWEControlsThreshold,
	}
}

func (c *Config) PanelNames() []string {
	out := make([]string, len(c.Panels))
	for i, p := range c.Panels {
		out[i] = p.Name
	}
	return out
}

func (c *Config) TestTypeNames() []string {
	out := make([]string, len(c.TestTypes))
	for i, t := range c.TestTypes {
		out[i] = t.Name
	}
	return out
}

// TestType looks a test type up by name.
func (c *Config) TestType(name string) (TestType, bool) {
	for _, t := range c.TestTypes {
		if t.Name == name {
			return t, true
		}
	}
	return TestType{}, false
}

// Combining reports whether panel combination applies.
func (c *Config) Combining() bool { return c.RefpanelCombine && len(c.Panels) > 1 }

// Expand substitutes {chr} in a path template.
func Expand(tmpl string, c genome.Chromosome) string {
	return strings.ReplaceAll(tmpl, "{chr}", c.String())
}

func joinDir(dir, name string) string {
	if dir == "" || strings.HasPrefix(name, "/") {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}
