// Functional options layered over the environment configuration
package braintrust

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	btrace "github.com/braintrustdata/braintrust-go/pkg/trace"
)

// Option adjusts the SDK configuration.
type Option func(*Config)

// WithAPIKey sets the API key used for backend export.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithAPIURL sets the backend API base URL.
func WithAPIURL(u string) Option {
	return func(c *Config) { c.APIURL = u }
}

// WithProject sets the default project name spans log into when no
// other parent applies.
func WithProject(name string) Option {
	return func(c *Config) {
		c.DefaultProject = name
		c.DefaultProjectID = ""
	}
}

// WithProjectID sets the default project id, taking precedence over the
// default project name.
func WithProjectID(id string) Option {
	return func(c *Config) { c.DefaultProjectID = id }
}

// WithParent sets an explicit "type:id" parent string, taking
// precedence over both project defaults.
func WithParent(parent string) Option {
	return func(c *Config) { c.Parent = parent }
}

// WithFilterAISpans enables the built-in AI-namespace span filter:
// non-root spans outside recognised AI instrumentation namespaces are
// not exported.
func WithFilterAISpans(enabled bool) Option {
	return func(c *Config) { c.FilterAISpans = enabled }
}

// WithSpanFilterFuncs appends custom span filters, consulted before the
// AI-namespace filter.
func WithSpanFilterFuncs(filters ...btrace.SpanFilterFunc) Option {
	return func(c *Config) { c.SpanFilterFuncs = append(c.SpanFilterFuncs, filters...) }
}

// WithSpanProcessor overrides the default export chain. Primarily a
// test seam.
func WithSpanProcessor(p sdktrace.SpanProcessor) Option {
	return func(c *Config) { c.SpanProcessor = p }
}
