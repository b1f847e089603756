// Unit tests for the cross-boundary bridge
// Covers identity-to-context installation, baggage plumbing, and the
// W3C header round trip
package trace

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/braintrustdata/braintrust-go/pkg/spanid"
)

func w3cPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

func TestContextFromIdentity(t *testing.T) {
	c := &spanid.SpanComponents{
		ObjectType: spanid.ObjectTypeProjectLogs,
		ObjectID:   "proj-1",
		RowID:      "5f2b0f06-32ba-4f3c-9c1a-47c2f7f0a9d1",
		SpanID:     "84834e2917631e82",
		RootSpanID: "ad941a390c5c6d4d0f878eec73bdc478",
	}

	for _, v := range []spanid.Version{spanid.VersionV3, spanid.VersionV4} {
		encoded, err := c.Encode(v)
		require.NoError(t, err)

		ctx, err := ContextFromIdentity(context.Background(), encoded)
		require.NoError(t, err)

		sc := oteltrace.SpanContextFromContext(ctx)
		require.True(t, sc.IsValid())
		assert.Equal(t, c.RootSpanID, sc.TraceID().String())
		assert.Equal(t, c.SpanID, sc.SpanID().String())
		// The identity came from another service.
		assert.True(t, sc.IsRemote())
		assert.True(t, sc.IsSampled())

		got := baggage.FromContext(ctx).Member(ParentOtelAttrKey).Value()
		assert.Equal(t, "project_id:proj-1", got)
	}
}

func TestContextFromIdentity_NoParentStillUsable(t *testing.T) {
	// Playground identities derive no logical parent; the remote span
	// context is still installed.
	c := &spanid.SpanComponents{
		ObjectType: spanid.ObjectTypePlaygroundLogs,
		ObjectID:   "pg-1",
		RowID:      "r",
		SpanID:     "84834e2917631e82",
		RootSpanID: "ad941a390c5c6d4d0f878eec73bdc478",
	}
	encoded, err := c.Encode(spanid.VersionV4)
	require.NoError(t, err)

	ctx, err := ContextFromIdentity(context.Background(), encoded)
	require.NoError(t, err)
	assert.True(t, oteltrace.SpanContextFromContext(ctx).IsValid())
	assert.Empty(t, baggage.FromContext(ctx).Member(ParentOtelAttrKey).Value())
}

func TestContextFromIdentity_Errors(t *testing.T) {
	_, err := ContextFromIdentity(context.Background(), "!!!")
	assert.Error(t, err)

	// Propagation is meaningless without span and root span ids.
	noIDs := &spanid.SpanComponents{
		ObjectType: spanid.ObjectTypeProjectLogs,
		ObjectID:   "proj-1",
		RowID:      "r",
	}
	encoded, err := noIDs.Encode(spanid.VersionV4)
	require.NoError(t, err)
	_, err = ContextFromIdentity(context.Background(), encoded)
	assert.Error(t, err)
}

func TestSetParentBaggage_MergesWithExisting(t *testing.T) {
	member, err := baggage.NewMemberRaw("tenant", "acme")
	require.NoError(t, err)
	bag, err := baggage.New(member)
	require.NoError(t, err)
	ctx := baggage.ContextWithBaggage(context.Background(), bag)

	out := SetParentBaggage(ctx, Parent{Type: ParentTypeProjectName, ID: "demo"})

	got := baggage.FromContext(out)
	assert.Equal(t, "acme", got.Member("tenant").Value())
	assert.Equal(t, "project_name:demo", got.Member(ParentOtelAttrKey).Value())

	// The input context's baggage is unchanged.
	assert.Empty(t, baggage.FromContext(ctx).Member(ParentOtelAttrKey).Value())
}

func TestCopyParentAttrToBaggage(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op",
		oteltrace.WithAttributes(attributeParent("experiment_id:exp-9")))
	defer span.End()

	out, ok := CopyParentAttrToBaggage(ctx, span)
	require.True(t, ok)
	assert.Equal(t, "experiment_id:exp-9", baggage.FromContext(out).Member(ParentOtelAttrKey).Value())
}

func TestCopyParentAttrToBaggage_AbsentCases(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	// Span without the attribute.
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	out, ok := CopyParentAttrToBaggage(ctx, span)
	assert.False(t, ok)
	assert.Equal(t, ctx, out)

	// Non-SDK span exposes no attributes at all.
	noop := oteltrace.SpanFromContext(context.Background())
	_, ok = CopyParentAttrToBaggage(context.Background(), noop)
	assert.False(t, ok)

	// Malformed attribute value.
	ctx2, span2 := tp.Tracer("test").Start(context.Background(), "op",
		oteltrace.WithAttributes(attributeParent("bogus")))
	defer span2.End()
	_, ok = CopyParentAttrToBaggage(ctx2, span2)
	assert.False(t, ok)
}

func TestParentFromHeaders_RoundTrip(t *testing.T) {
	// Outbound side: active span plus parent baggage, injected into
	// W3C headers.
	sc := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    mustTraceID(t, "ad941a390c5c6d4d0f878eec73bdc478"),
		SpanID:     mustSpanID(t, "84834e2917631e82"),
		TraceFlags: oteltrace.FlagsSampled,
	})
	ctx := oteltrace.ContextWithSpanContext(context.Background(), sc)
	ctx = SetParentBaggage(ctx, Parent{Type: ParentTypeProjectName, ID: "test-project"})

	headers := http.Header{}
	w3cPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
	require.NotEmpty(t, headers.Get("traceparent"))
	require.NotEmpty(t, headers.Get("baggage"))

	// Inbound side: headers back to an encoded identity.
	encoded, ok := ParentFromHeaders(context.Background(), headers)
	require.True(t, ok)

	c, err := spanid.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, spanid.PlaceholderRowID, c.RowID)
	assert.Equal(t, "84834e2917631e82", c.SpanID)
	assert.Equal(t, "ad941a390c5c6d4d0f878eec73bdc478", c.RootSpanID)

	p, ok := ParentFromComponents(c)
	require.True(t, ok)
	assert.Equal(t, "project_name:test-project", p.String())
}

func TestParentFromHeaders_VersionSelection(t *testing.T) {
	headers := validHeaders(t)

	// Default stays the conservative V3 wire format.
	encoded, ok := ParentFromHeaders(context.Background(), headers)
	require.True(t, ok)
	assert.Equal(t, spanid.VersionV3, encodedVersion(t, encoded))

	encoded, ok = ParentFromHeaders(context.Background(), headers, WithV4Encoding())
	require.True(t, ok)
	assert.Equal(t, spanid.VersionV4, encodedVersion(t, encoded))
}

func TestParentFromHeaders_Rejections(t *testing.T) {
	valid := validHeaders(t)

	tests := []struct {
		name    string
		headers http.Header
	}{
		{"empty headers", http.Header{}},
		{"no braintrust.parent baggage", http.Header{
			"Traceparent": valid["Traceparent"],
			"Baggage":     []string{"unrelated=1"},
		}},
		{"unrecognized parent prefix", http.Header{
			"Traceparent": valid["Traceparent"],
			"Baggage":     []string{"braintrust.parent=dataset_id%3Aabc"},
		}},
		{"empty parent id", http.Header{
			"Traceparent": valid["Traceparent"],
			"Baggage":     []string{"braintrust.parent=project_name%3A"},
		}},
		{"zeroed trace id", http.Header{
			"Traceparent": []string{"00-00000000000000000000000000000000-0000000000000000-01"},
			"Baggage":     valid["Baggage"],
		}},
		{"baggage without traceparent", http.Header{
			"Baggage": valid["Baggage"],
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParentFromHeaders(context.Background(), tt.headers)
			assert.False(t, ok)
		})
	}
}

func validHeaders(t *testing.T) http.Header {
	t.Helper()
	sc := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    mustTraceID(t, "ad941a390c5c6d4d0f878eec73bdc478"),
		SpanID:     mustSpanID(t, "84834e2917631e82"),
		TraceFlags: oteltrace.FlagsSampled,
	})
	ctx := oteltrace.ContextWithSpanContext(context.Background(), sc)
	ctx = SetParentBaggage(ctx, Parent{Type: ParentTypeProjectID, ID: "proj-1"})

	headers := http.Header{}
	w3cPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
	return headers
}

func encodedVersion(t *testing.T, encoded string) spanid.Version {
	t.Helper()
	c, err := spanid.Decode(encoded)
	require.NoError(t, err)
	require.NotNil(t, c)

	raw := decodeBase64(t, encoded)
	return spanid.Version(raw[0])
}
