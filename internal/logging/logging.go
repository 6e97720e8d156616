// internal/logging/logging.go
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select the level and encoding of the run log.
type Options struct {
	Level string // debug, info, warn, error
	JSON  bool
	// Quiet drops everything below error.
	Quiet  bool
	Output io.Writer
}

// New builds the run logger. Output defaults to stderr.
func New(o Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if o.Level != "" {
		if err := level.UnmarshalText([]byte(o.Level)); err != nil {
			return nil, fmt.Errorf("logging: bad level %q", o.Level)
		}
	}
	if o.Quiet && level < zapcore.ErrorLevel {
		level = zapcore.ErrorLevel
	}

	cfg := zap.NewProductionConfig()
	if !o.JSON {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if o.JSON {
		enc = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	} else {
		enc = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	}
	out := o.Output
	if out == nil {
		out = os.Stderr
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(out), zap.NewAtomicLevelAt(level))
	return zap.New(core), nil
}

// Warnings logs configuration warnings, one entry each.
func Warnings(log *zap.Logger, warns []string) {
	for _, w := range warns {
		log.Warn(w)
	}
}
