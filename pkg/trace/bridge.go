// Cross-boundary bridge between encoded span identities, OTel contexts,
// and W3C trace-context/baggage headers
package trace

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/braintrustdata/braintrust-go/pkg/spanid"
)

// ContextFromIdentity turns an encoded span identity from an upstream
// service into an OTel context for downstream work. The installed span
// context is marked remote, distinguishing it from spans installed by
// RunInContext in-process. The identity's logical parent is injected
// into baggage best-effort; the remote span context alone is still
// useful without it.
func ContextFromIdentity(ctx context.Context, encoded string) (context.Context, error) {
	c, err := spanid.Decode(encoded)
	if err != nil {
		return nil, err
	}
	if c.SpanID == "" || c.RootSpanID == "" {
		return nil, fmt.Errorf("span identity has no span and root span ids to propagate")
	}

	traceHex, err := spanid.NormalizeTraceID(c.RootSpanID)
	if err != nil {
		return nil, fmt.Errorf("root span id: %w", err)
	}
	spanHex, err := spanid.NormalizeSpanID(c.SpanID)
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
		Remote:     true,
	})
	out := oteltrace.ContextWithRemoteSpanContext(ctx, sc)

	if p, ok := ParentFromComponents(c); ok {
		out = SetParentBaggage(out, p)
	}
	return out, nil
}

// SetParentBaggage merges the logical parent into the context's baggage
// under the braintrust.parent key, creating baggage if none exists.
// Failures are logged and the input context comes back unchanged; this
// never disrupts the caller.
func SetParentBaggage(ctx context.Context, p Parent) context.Context {
	member, err := baggage.NewMemberRaw(ParentOtelAttrKey, p.String())
	if err != nil {
		clog.FromContext(ctx).Warnf("building parent baggage member: %v", err)
		return ctx
	}
	bag, err := baggage.FromContext(ctx).SetMember(member)
	if err != nil {
		clog.FromContext(ctx).Warnf("setting parent baggage: %v", err)
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bag)
}

// CopyParentAttrToBaggage re-homes a span's braintrust.parent attribute
// into baggage so it survives an outbound HTTP call. Spans created
// outside this SDK's processor have no such attribute; that is an
// expected condition reported as absent, not an error.
func CopyParentAttrToBaggage(ctx context.Context, span oteltrace.Span) (context.Context, bool) {
	value, ok := parentAttrValue(span)
	if !ok {
		clog.FromContext(ctx).Warnf("span has no %s attribute to copy to baggage", ParentOtelAttrKey)
		return ctx, false
	}
	p, err := ParseParent(value)
	if err != nil {
		clog.FromContext(ctx).Warnf("copying parent attribute to baggage: %v", err)
		return ctx, false
	}
	return SetParentBaggage(ctx, p), true
}

// HeaderOption adjusts ParentFromHeaders behaviour.
type HeaderOption func(*headerOptions)

type headerOptions struct {
	useV4 bool
}

// WithV4Encoding re-encodes the extracted parent in the V4 wire format.
// The default stays V3 because the SDK at the other end of the header
// may predate V4; decoding accepts both regardless.
func WithV4Encoding() HeaderOption {
	return func(o *headerOptions) { o.useV4 = true }
}

// ParentFromHeaders extracts W3C traceparent/baggage headers into an
// encoded span identity usable as a span parent. Returns false, with a
// logged warning, when the headers carry no usable trace context or no
// braintrust.parent baggage entry; raw trace ids alone cannot identify
// which collection to log into.
func ParentFromHeaders(ctx context.Context, h http.Header, opts ...HeaderOption) (string, bool) {
	var options headerOptions
	for _, opt := range opts {
		opt(&options)
	}
	log := clog.FromContext(ctx)

	prop := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	extracted := prop.Extract(ctx, propagation.HeaderCarrier(h))

	sc := oteltrace.SpanContextFromContext(extracted)
	if !sc.IsValid() {
		log.Warnf("headers carry no usable trace context")
		return "", false
	}

	value := baggage.FromContext(extracted).Member(ParentOtelAttrKey).Value()
	if value == "" {
		log.Warnf("headers carry no %s baggage entry", ParentOtelAttrKey)
		return "", false
	}
	p, err := ParseParent(value)
	if err != nil {
		log.Warnf("parsing %s baggage entry: %v", ParentOtelAttrKey, err)
		return "", false
	}

	// The identity never came from a logged row, so the row id is a
	// named placeholder rather than a real reference.
	c := p.components()
	c.RowID = spanid.PlaceholderRowID
	c.SpanID = sc.SpanID().String()
	c.RootSpanID = sc.TraceID().String()

	version := spanid.VersionV3
	if options.useV4 {
		version = spanid.VersionV4
	}
	encoded, err := c.Encode(version)
	if err != nil {
		log.Warnf("encoding extracted parent identity: %v", err)
		return "", false
	}
	return encoded, true
}
