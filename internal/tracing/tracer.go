// internal/tracing/tracer.go
package tracing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const DefaultServiceName = "guidance"

// Config selects the span exporter. Tracing is off unless Enabled.
type Config struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Exporter is "file", "stdout" or "none".
	Exporter    string `mapstructure:"exporter" yaml:"exporter"`
	FilePath    string `mapstructure:"file_path" yaml:"file_path"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

func DefaultConfig() Config {
	return Config{Exporter: "file", ServiceName: DefaultServiceName}
}

// Provider owns the tracer provider of one run.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	file     *os.File
}

// NewProvider builds a provider for cfg. A disabled config yields a noop
// tracer.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer("noop")}, nil
	}
	p := &Provider{}
	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("tracing: file_path required for file exporter")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("tracing: %w", err)
		}
		p.file, err = os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("tracing: open %s: %w", cfg.FilePath, err)
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(p.file))
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none", "":
	default:
		return nil, fmt.Errorf("tracing: unsupported exporter %q", cfg.Exporter)
	}
	if err != nil {
		p.closeFile()
		return nil, fmt.Errorf("tracing: create %s exporter: %w", cfg.Exporter, err)
	}

	name := cfg.ServiceName
	if name == "" {
		name = DefaultServiceName
	}
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	p.provider = sdktrace.NewTracerProvider(opts...)
	p.tracer = p.provider.Tracer(name)
	otel.SetTracerProvider(p.provider)
	return p, nil
}

func (p *Provider) Tracer() trace.Tracer { return p.tracer }

func (p *Provider) Enabled() bool { return p.provider != nil }

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	defer p.closeFile()
	if p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}

func (p *Provider) closeFile() {
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
}
