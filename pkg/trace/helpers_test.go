// Shared test helpers for the trace package
package trace

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func attributeParent(value string) attribute.KeyValue {
	return attribute.String(ParentOtelAttrKey, value)
}

func mustTraceID(t *testing.T, hex string) oteltrace.TraceID {
	t.Helper()
	id, err := oteltrace.TraceIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func mustSpanID(t *testing.T, hex string) oteltrace.SpanID {
	t.Helper()
	id, err := oteltrace.SpanIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func decodeBase64(t *testing.T, s string) []byte {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(s)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	return raw
}
