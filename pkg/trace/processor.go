// Span processor that resolves and pins the logical parent on every
// span start, then filters and forwards ended spans to the exporter
package trace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Processor resolves the braintrust.parent attribute for spans as they
// start and gates which spans reach the inner exporter chain when they
// end. Shutdown and ForceFlush delegate untouched.
type Processor struct {
	inner         sdktrace.SpanProcessor
	defaultParent *Parent
	filters       []SpanFilterFunc
}

var _ sdktrace.SpanProcessor = (*Processor)(nil)

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithDefaultParent sets the parent applied when nothing in context,
// baggage, or the ancestor chain names one.
func WithDefaultParent(p Parent) ProcessorOption {
	return func(proc *Processor) { proc.defaultParent = &p }
}

// WithFilters appends span filter funcs, consulted in order on span end.
func WithFilters(filters ...SpanFilterFunc) ProcessorOption {
	return func(proc *Processor) { proc.filters = append(proc.filters, filters...) }
}

// NewProcessor wraps inner with parent resolution and span filtering.
func NewProcessor(inner sdktrace.SpanProcessor, opts ...ProcessorOption) *Processor {
	p := &Processor{inner: inner}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnStart stamps the resolved logical parent onto the new span so both
// the baggage-copy path and future ancestor walks keep working. Parent
// resolution is best-effort and never blocks the span from starting.
func (p *Processor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if !hasParentAttr(s) {
		if resolved, ok := p.resolveParent(parent); ok {
			s.SetAttributes(attribute.String(ParentOtelAttrKey, resolved.String()))
		}
	}
	p.inner.OnStart(parent, s)
}

// resolveParent finds the logical parent for a starting span. Priority:
// the explicit context value, then the braintrust.parent baggage entry,
// then the OtelParent seeded by RunInContext, then the nearest ancestor
// span's attribute, then the configured default.
func (p *Processor) resolveParent(ctx context.Context) (Parent, bool) {
	if parent, ok := ParentFromContext(ctx); ok {
		return parent, true
	}
	if value := baggage.FromContext(ctx).Member(ParentOtelAttrKey).Value(); value != "" {
		if parent, err := ParseParent(value); err == nil {
			return parent, true
		}
	}
	if value, ok := OtelParentFromContext(ctx); ok {
		if parent, err := ParseParent(value); err == nil {
			return parent, true
		}
	}
	if value, ok := parentAttrValue(oteltrace.SpanFromContext(ctx)); ok {
		if parent, err := ParseParent(value); err == nil {
			return parent, true
		}
	}
	if p.defaultParent != nil {
		return *p.defaultParent, true
	}
	return Parent{}, false
}

// OnEnd forwards the span to the inner chain unless the filters drop it.
func (p *Processor) OnEnd(s sdktrace.ReadOnlySpan) {
	if keepSpan(s, p.filters) {
		p.inner.OnEnd(s)
	}
}

func (p *Processor) Shutdown(ctx context.Context) error {
	return p.inner.Shutdown(ctx)
}

func (p *Processor) ForceFlush(ctx context.Context) error {
	return p.inner.ForceFlush(ctx)
}

// parentAttrValue reads the braintrust.parent attribute off a live OTel
// span. Only SDK-recorded spans expose attributes; anything else
// reports absent.
func parentAttrValue(span oteltrace.Span) (string, bool) {
	ro, ok := span.(sdktrace.ReadOnlySpan)
	if !ok {
		return "", false
	}
	for _, attr := range ro.Attributes() {
		if string(attr.Key) == ParentOtelAttrKey && attr.Value.Type() == attribute.STRING {
			value := attr.Value.AsString()
			return value, value != ""
		}
	}
	return "", false
}

// hasParentAttr reports whether the span already carries an explicit
// braintrust.parent attribute, which always wins over resolution.
func hasParentAttr(s sdktrace.ReadOnlySpan) bool {
	for _, attr := range s.Attributes() {
		if string(attr.Key) == ParentOtelAttrKey {
			return true
		}
	}
	return false
}
