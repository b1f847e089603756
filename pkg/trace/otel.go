// OTel-backed context manager: projects native span identity onto the
// OTel context so spans from unrelated instrumentation share ancestry
package trace

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/braintrustdata/braintrust-go/pkg/spanid"
)

type (
	otelCurrentSpanKey struct{}
	otelParentKey      struct{}
	// otelInstalledKey holds the SpanContext this manager's own
	// RunInContext synthesized, so ParentSpanIDs can prefer exact native
	// identity over the hex projection without inspecting the OTel span
	// type. Comparing against the active span context keeps the
	// preference from going stale once unrelated instrumentation starts
	// children inside the scope.
	otelInstalledKey struct{}
)

// OtelContextManager implements ContextManager on top of OTel context
// propagation. Spans installed through it appear as non-recording OTel
// ancestors to any instrumentation wired into the same pipeline, and
// OTel spans started elsewhere are visible as parents here.
type OtelContextManager struct{}

var _ ContextManager = OtelContextManager{}

func (m OtelContextManager) ParentSpanIDs(ctx context.Context) (ParentSpanIDs, bool) {
	sc := oteltrace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		// Covers both the no-span case and the all-zero sentinel ids.
		return ParentSpanIDs{}, false
	}

	// When the active OTel span is still the one this manager installed,
	// the native identity is present and exact; the hex projection would
	// only round-trip it lossily. A context derived deeper in the scope
	// may carry a newer active span (unrelated instrumentation starting
	// its own children), in which case the stored identity is shadowed
	// and the projection below is the truth.
	if installed, ok := ctx.Value(otelInstalledKey{}).(oteltrace.SpanContext); ok && installed.Equal(sc) {
		if span, ok := ctx.Value(otelCurrentSpanKey{}).(Span); ok {
			return ParentSpanIDs{
				RootSpanID:  span.RootSpanID(),
				SpanParents: []string{span.SpanID()},
			}, true
		}
	}

	return ParentSpanIDs{
		RootSpanID:  sc.TraceID().String(),
		SpanParents: []string{sc.SpanID().String()},
	}, true
}

func (m OtelContextManager) RunInContext(ctx context.Context, span Span, fn func(context.Context) error) error {
	derived, err := m.contextWithSpan(ctx, span)
	if err != nil {
		// Tracing is a side effect; it must never break the wrapped
		// business logic. Run the callback with the context unchanged.
		clog.FromContext(ctx).Warnf("installing span in otel context: %v", err)
		return fn(ctx)
	}
	return fn(derived)
}

// contextWithSpan derives a context with span installed as the active
// OTel span, plus the private keys that let this manager recover exact
// native identity later.
func (m OtelContextManager) contextWithSpan(ctx context.Context, span Span) (context.Context, error) {
	traceHex, err := spanid.NormalizeTraceID(span.RootSpanID())
	if err != nil {
		return nil, fmt.Errorf("root span id: %w", err)
	}
	spanHex, err := spanid.NormalizeSpanID(span.SpanID())
	if err != nil {
		return nil, fmt.Errorf("span id: %w", err)
	}
	traceID, err := oteltrace.TraceIDFromHex(traceHex)
	if err != nil {
		return nil, fmt.Errorf("root span id: %w", err)
	}
	spanID, err := oteltrace.SpanIDFromHex(spanHex)
	if err != nil {
		return nil, fmt.Errorf("span id: %w", err)
	}

	sc := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: oteltrace.FlagsSampled,
	})

	// ContextWithSpanContext wraps sc in a non-recording span and makes
	// it the OTel-active span for the derived context.
	derived := oteltrace.ContextWithSpanContext(ctx, sc)
	derived = context.WithValue(derived, otelCurrentSpanKey{}, span)
	derived = context.WithValue(derived, otelInstalledKey{}, sc)
	if provider, ok := span.(OtelParentProvider); ok {
		if parent, ok := provider.OtelParent(); ok {
			derived = context.WithValue(derived, otelParentKey{}, parent)
		}
	}
	return derived, nil
}

func (m OtelContextManager) CurrentSpan(ctx context.Context) (Span, bool) {
	// Only spans installed through this manager qualify; spans created
	// purely by unrelated OTel instrumentation are not native spans.
	span, ok := ctx.Value(otelCurrentSpanKey{}).(Span)
	if !ok || span.SpanID() == "" || span.RootSpanID() == "" {
		return nil, false
	}
	return span, true
}

// OtelParentFromContext returns the logical parent string seeded by a
// span's OtelParent accessor during RunInContext.
func OtelParentFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(otelParentKey{}).(string)
	return s, ok && s != ""
}
