// internal/config/validate.go
package config

import (
	"errors"
	"fmt"

	"guidance/core/genome"
	"guidance/core/stage"
	"guidance/internal/artifact"
	"guidance/internal/filter"
)

// Validate checks c and returns warnings for settings that are legal but
// probably unintended. Every error is a *ConfigurationError.
func Validate(c *Config) ([]string, error) {
	var errs []error
	var warns []string
	bad := func(field, format string, a ...any) { errs = append(errs, cfgErr(field, format, a...)) }

	if _, err := stage.NewGate(c.WfDeep, stage.Tool(c.ImputationTool)); err != nil {
		field := "wf_deep"
		if errors.Is(err, stage.ErrUnknownTool) {
			field = "imputation_tool"
		}
		bad(field, "%v", err)
	}

	for k, r := range c.Positions {
		if _, err := genome.ParseChromosome(k); err != nil {
			bad("positions", "%v", err)
		} else if r.Min >= r.Max {
			bad("positions", "chr %s: min %d must be below max %d", k, r.Min, r.Max)
		}
	}
	p := c.Planner()
	if err := p.Validate(); err != nil {
		field := "init_chromosome"
		if errors.Is(err, genome.ErrChunkSize) {
			field = "chunk_size_analysis"
		}
		bad(field, "%v", err)
	} else {
		for _, ch := range p.Chromosomes() {
			r := p.Ranges.For(ch)
			if c.ChunkSize > r.Max-r.Min+1 {
				warns = append(warns, fmt.Sprintf("chunk_size_analysis %d exceeds chromosome %s (%s): one window", c.ChunkSize, ch.Label(), r))
			}
		}
	}

	switch f, err := filter.ParseInputFormat(c.InputFormat); {
	case err != nil:
		bad("input_format", "%v", err)
	case f == filter.FormatBED:
		if c.Cohort.BedFile == "" || c.Cohort.BimFile == "" || c.Cohort.FamFile == "" {
			bad("cohort", "BED input needs bed_file, bim_file and fam_file")
		}
	default:
		if c.Cohort.GenFile == "" || c.Cohort.SampleFile == "" {
			bad("cohort", "GEN input needs gen_file and sample_file")
		}
	}
	if c.GmapFile == "" {
		bad("gmap_file", "required")
	}

	if len(c.Panels) == 0 {
		bad("panels", "at least one reference panel is required")
	}
	seen := map[string]bool{}
	for i, pn := range c.Panels {
		switch {
		case pn.Name == "":
			bad("panels", "panel %d has no name", i)
		case seen[pn.Name]:
			bad("panels", "duplicate panel %q", pn.Name)
		case pn.HapFile == "":
			bad("panels", "panel %q has no hap_file", pn.Name)
		case pn.LegendFile == "" && c.ImputationTool == string(stage.Impute):
			bad("panels", "panel %q has no legend_file", pn.Name)
		}
		seen[pn.Name] = true
	}
	if len(c.TestTypes) == 0 {
		bad("test_types", "at least one test type is required")
	}
	seen = map[string]bool{}
	for i, tt := range c.TestTypes {
		switch {
		case tt.Name == "":
			bad("test_types", "test type %d has no name", i)
		case seen[tt.Name]:
			bad("test_types", "duplicate test type %q", tt.Name)
		case tt.ResponseVar == "":
			bad("test_types", "test type %q has no response_var", tt.Name)
		}
		seen[tt.Name] = true
	}

	for _, th := range []struct {
		field string
		v     float64
	}{
		{"maf_threshold", c.MAFThreshold},
		{"impute_threshold", c.ImputeThreshold},
		{"minimac_threshold", c.MinimacThreshold},
		{"hwe_cohort_threshold", c.HWECohortThreshold},
		{"hwe_cases_threshold", c.HWECasesThreshold},
		{"hwe_controls_threshold", c.HWEControlsThreshold},
	} {
		if th.v < 0 || th.v > 1 {
			bad(th.field, "%g is outside [0,1]", th.v)
		}
	}
	if c.PvaThreshold <= 0 || c.PvaThreshold > 1 {
		bad("pva_threshold", "%g is outside (0,1]", c.PvaThreshold)
	}

	if _, err := artifact.ParseFinalStatus(c.TempFiles); err != nil {
		bad("temp_files", "%v", err)
	}
	if c.OutDir == "" {
		bad("out_dir", "required")
	}
	if c.ListOfStages == "" {
		bad("file_name_for_list_of_stages", "required")
	}
	if c.Parallel < 1 {
		bad("parallel", "must be at least 1, got %d", c.Parallel)
	}

	if c.RefpanelCombine && len(c.Panels) == 1 {
		warns = append(warns, "refpanel_combine is set with a single panel: nothing to combine")
	}
	if len(c.TestTypes) == 1 && c.WfDeep == "whole_workflow" {
		warns = append(warns, "one test type: the phenotype matrix stages will not run")
	}
	if c.ExcludeSVSnps && c.ImputationTool == string(stage.Impute) {
		warns = append(warns, "exclude_sv_snps only applies to minimac")
	}
	return warns, errors.Join(errs...)
}
