// internal/config/load.go
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GUIDANCE_OUT_DIR.
const EnvPrefix = "GUIDANCE"

// Legacy variables still honoured for binary locations.
var legacyEnv = map[string]string{
	"tools.plink":           "PLINKBINARY",
	"tools.shapeit":         "SHAPEITBINARY",
	"tools.impute2":         "IMPUTE2BINARY",
	"tools.minimac":         "MINIMACBINARY",
	"tools.qctool":          "QCTOOLBINARY",
	"tools.snptest":         "SNPTESTBINARY",
	"tools.rscript_bin_dir": "RSCRIPTBINDIR",
	"tools.rscript_dir":     "RSCRIPTDIR",
}

// SetDefaults registers Defaults() with v so env and flag overrides reach
// every key.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("wf_deep", d.WfDeep)
	v.SetDefault("init_chromosome", d.InitChromosome)
	v.SetDefault("end_chromosome", d.EndChromosome)
	v.SetDefault("chunk_size_analysis", d.ChunkSize)
	v.SetDefault("input_format", d.InputFormat)
	v.SetDefault("cohort.bed_file", "")
	v.SetDefault("cohort.bim_file", "")
	v.SetDefault("cohort.fam_file", "")
	v.SetDefault("cohort.gen_file", "")
	v.SetDefault("cohort.sample_file", "")
	v.SetDefault("gmap_file", "")
	v.SetDefault("imputation_tool", d.ImputationTool)
	v.SetDefault("maf_threshold", d.MAFThreshold)
	v.SetDefault("impute_threshold", d.ImputeThreshold)
	v.SetDefault("minimac_threshold", d.MinimacThreshold)
	v.SetDefault("pva_threshold", d.PvaThreshold)
	v.SetDefault("hwe_cohort_threshold", d.HWECohortThreshold)
	v.SetDefault("hwe_cases_threshold", d.HWECasesThreshold)
	v.SetDefault("hwe_controls_threshold", d.HWEControlsThreshold)
	v.SetDefault("exclude_cgat_snps", d.ExcludeCGATSnps)
	v.SetDefault("exclude_sv_snps", d.ExcludeSVSnps)
	v.SetDefault("refpanel_combine", d.RefpanelCombine)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("file_name_for_list_of_stages", d.ListOfStages)
	v.SetDefault("temp_files", d.TempFiles)
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("ledger", d.Ledger)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tools.plink", d.Tools.Plink)
	v.SetDefault("tools.shapeit", d.Tools.Shapeit)
	v.SetDefault("tools.impute2", d.Tools.Impute2)
	v.SetDefault("tools.minimac", d.Tools.Minimac)
	v.SetDefault("tools.qctool", d.Tools.Qctool)
	v.SetDefault("tools.snptest", d.Tools.Snptest)
	v.SetDefault("tools.rscript_bin_dir", d.Tools.RscriptBinDir)
	v.SetDefault("tools.rscript_dir", d.Tools.RscriptDir)
}

// BindEnv wires GUIDANCE_* overrides and the legacy binary variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env, legacy)
	}
}

// Load reads file (or ./guidance.yaml when file is empty and it exists)
// into a Config. Flags must already be bound to v.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	BindEnv(v)
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, cfgErr("config", "read %s: %v", file, err)
		}
	} else {
		v.SetConfigName("guidance")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, cfgErr("config", "%v", err)
			}
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, cfgErr("config", "decode: %v", err)
	}
	return &cfg, nil
}
