// Package braintrust wires the tracing SDK into an OTel tracer
// provider: parent resolution, span filtering, and export to the
// Braintrust backend.
package braintrust

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/braintrustdata/braintrust-go/pkg/config"
	btrace "github.com/braintrustdata/braintrust-go/pkg/trace"
)

// Config holds the resolved SDK configuration: environment values from
// pkg/config overlaid with programmatic options.
type Config struct {
	APIKey           string
	APIURL           string
	AppURL           string
	DefaultProject   string
	DefaultProjectID string
	Parent           string

	FilterAISpans   bool
	SpanFilterFuncs []btrace.SpanFilterFunc

	// SpanProcessor overrides the default OTLP export chain. Used by
	// tests to capture spans in memory.
	SpanProcessor sdktrace.SpanProcessor
}

func newConfig(ctx context.Context, opts ...Option) (*Config, error) {
	env, err := config.FromEnv(ctx)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		APIKey:           env.APIKey,
		APIURL:           env.APIURL,
		AppURL:           env.AppURL,
		DefaultProject:   env.DefaultProject,
		DefaultProjectID: env.DefaultProjectID,
		Parent:           env.Parent,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := validateURL(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("api url: %w", err)
	}
	return cfg, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) url", raw)
	}
	return nil
}

// defaultParent resolves the logical parent applied to spans that name
// no parent of their own: an explicit parent string wins, then the
// default project id, then the default project name.
func (c *Config) defaultParent() (btrace.Parent, error) {
	if c.Parent != "" {
		return btrace.ParseParent(c.Parent)
	}
	if c.DefaultProjectID != "" {
		return btrace.Parent{Type: btrace.ParentTypeProjectID, ID: c.DefaultProjectID}, nil
	}
	return btrace.Parent{Type: btrace.ParentTypeProjectName, ID: c.DefaultProject}, nil
}

// Enable registers the Braintrust span processor on tp. Spans flow
// through parent resolution on start and the configured filters on end,
// then to the export chain: by default an OTLP/HTTP exporter pointed at
// the Braintrust API, wrapped in the standard batch processor.
func Enable(tp *sdktrace.TracerProvider, opts ...Option) error {
	ctx := context.Background()
	cfg, err := newConfig(ctx, opts...)
	if err != nil {
		return err
	}

	parent, err := cfg.defaultParent()
	if err != nil {
		return fmt.Errorf("default parent: %w", err)
	}

	inner := cfg.SpanProcessor
	if inner == nil {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(cfg.APIURL+"/otel/v1/traces"),
			otlptracehttp.WithHeaders(map[string]string{
				"Authorization": "Bearer " + cfg.APIKey,
				"x-bt-parent":   parent.String(),
			}),
		)
		if err != nil {
			return fmt.Errorf("creating otlp exporter: %w", err)
		}
		inner = sdktrace.NewBatchSpanProcessor(exporter)
	}

	procOpts := []btrace.ProcessorOption{btrace.WithDefaultParent(parent)}
	filters := cfg.SpanFilterFuncs
	if cfg.FilterAISpans {
		filters = append(filters, btrace.AISpanFilter)
	}
	if len(filters) > 0 {
		procOpts = append(procOpts, btrace.WithFilters(filters...))
	}

	tp.RegisterSpanProcessor(btrace.NewProcessor(inner, procOpts...))
	return nil
}

// Permalink returns the app URL for viewing a span's trace.
func Permalink(span oteltrace.Span, opts ...Option) (string, error) {
	cfg, err := newConfig(context.Background(), opts...)
	if err != nil {
		return "", err
	}
	sc := span.SpanContext()
	if !sc.IsValid() {
		return "", fmt.Errorf("span has no valid span context")
	}
	return fmt.Sprintf("%s/app/trace/%s?span=%s", cfg.AppURL, sc.TraceID(), sc.SpanID()), nil
}
