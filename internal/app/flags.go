// internal/app/flags.go
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"guidance/internal/config"
	"guidance/internal/logging"
)

// binding ties a flag to the config key it overrides.
type binding struct {
	flag, key string
}

var planBindings = []binding{
	{"wf-deep", "wf_deep"},
	{"imputation-tool", "imputation_tool"},
	{"init-chromosome", "init_chromosome"},
	{"end-chromosome", "end_chromosome"},
	{"chunk-size", "chunk_size_analysis"},
	{"out-dir", "out_dir"},
}

var runBindings = append([]binding{
	{"parallel", "parallel"},
	{"temp-files", "temp_files"},
	{"ledger", "ledger"},
	{"trace", "tracing.enabled"},
}, planBindings...)

func addPlanFlags(fs *pflag.FlagSet) {
	fs.String("wf-deep", "", "run-depth selector (see `guidance stages`)")
	fs.String("imputation-tool", "", "impute or minimac")
	fs.Int("init-chromosome", 0, "first chromosome (1..23)")
	fs.Int("end-chromosome", 0, "last chromosome (1..23, 23 is X)")
	fs.Int("chunk-size", 0, "window size in base pairs")
	fs.String("out-dir", "", "output root")
}

func addRunFlags(fs *pflag.FlagSet) {
	addPlanFlags(fs)
	fs.IntP("parallel", "j", 0, "tasks executing at once")
	fs.String("temp-files", "", "intermediates after success: keep, compress or delete")
	fs.String("ledger", "", "sqlite ledger path (default: <out_dir>/ledger.db)")
	fs.Bool("trace", false, "record one span per task")
}

// load binds the command's changed flags, reads the configuration and
// validates it. Only flags the user set override the file.
func (e *env) load(cmd *cobra.Command, bindings []binding) (*config.Config, []string, error) {
	for _, b := range bindings {
		if f := cmd.Flags().Lookup(b.flag); f != nil && f.Changed {
			if err := e.v.BindPFlag(b.key, f); err != nil {
				return nil, nil, err
			}
		}
	}
	cfg, err := config.Load(e.v, e.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	warns, err := config.Validate(cfg)
	if err != nil {
		return nil, warns, err
	}
	return cfg, warns, nil
}

func (e *env) logger() (*zap.Logger, error) {
	return logging.New(logging.Options{Level: e.logLevel, JSON: e.logJSON, Quiet: e.quiet, Output: e.stderr})
}
