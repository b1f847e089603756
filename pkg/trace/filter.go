// Span filtering for export: root spans always ship, the rest are
// voted on by filter funcs with the AI-namespace filter as the default
package trace

import (
	"strings"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Filter votes returned by a SpanFilterFunc. The first non-zero vote
// across the configured filters decides; zero defers to later filters,
// and a span nobody votes on is kept.
const (
	FilterKeep      = 1
	FilterNoOpinion = 0
	FilterDrop      = -1
)

// SpanFilterFunc votes on whether an ended span should be exported.
type SpanFilterFunc func(sdktrace.ReadOnlySpan) int

// aiNamespacePrefixes are the instrumentation namespaces recognised as
// AI-related, matched against span names and attribute keys.
var aiNamespacePrefixes = []string{"gen_ai.", "braintrust.", "llm.", "ai.", "traceloop."}

// AISpanFilter keeps spans whose name or any attribute key starts with
// a recognised AI instrumentation namespace prefix, and drops the rest.
// Combine it with custom filters via WithFilters; custom filters run
// first and can override either direction.
func AISpanFilter(s sdktrace.ReadOnlySpan) int {
	if hasAIPrefix(s.Name()) {
		return FilterKeep
	}
	for _, attr := range s.Attributes() {
		// The parent attribute is resolution metadata stamped on every
		// span, not an instrumentation signal.
		if string(attr.Key) == ParentOtelAttrKey {
			continue
		}
		if hasAIPrefix(string(attr.Key)) {
			return FilterKeep
		}
	}
	return FilterDrop
}

func hasAIPrefix(s string) bool {
	for _, prefix := range aiNamespacePrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// keepSpan applies the export decision table: root spans are always
// kept, then the first decisive filter vote wins, then keep.
func keepSpan(s sdktrace.ReadOnlySpan, filters []SpanFilterFunc) bool {
	if !s.Parent().IsValid() {
		return true
	}
	for _, filter := range filters {
		switch vote := filter(s); {
		case vote > 0:
			return true
		case vote < 0:
			return false
		}
	}
	return true
}
