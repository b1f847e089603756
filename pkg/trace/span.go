// Package trace carries Braintrust span identity through native and
// OTel execution contexts and across process boundaries.
package trace

// Span is the identity surface the native logger exposes to this
// package. Anything that can name its own span id and the root span id
// of its trace can participate in context propagation.
type Span interface {
	SpanID() string
	RootSpanID() string
}

// OtelParentProvider is an optional Span capability: a logical parent
// reference to seed into OTel baggage for children of this span.
type OtelParentProvider interface {
	OtelParent() (string, bool)
}

// ParentSpanIDs is the parent linkage visible at a point in execution,
// derived on demand from whichever context substrate is active.
type ParentSpanIDs struct {
	RootSpanID  string
	SpanParents []string
}
