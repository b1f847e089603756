// Native context manager backed by plain context values
// Derived contexts give snapshot/restore and sibling isolation for free
package trace

import "context"

type nativeSpanKey struct{}

// NativeContextManager tracks the current span in a private context
// value, independent of any OTel machinery.
type NativeContextManager struct{}

var _ ContextManager = NativeContextManager{}

func (NativeContextManager) ParentSpanIDs(ctx context.Context) (ParentSpanIDs, bool) {
	span, ok := ctx.Value(nativeSpanKey{}).(Span)
	if !ok || span.SpanID() == "" || span.RootSpanID() == "" {
		return ParentSpanIDs{}, false
	}
	return ParentSpanIDs{
		RootSpanID:  span.RootSpanID(),
		SpanParents: []string{span.SpanID()},
	}, true
}

func (NativeContextManager) RunInContext(ctx context.Context, span Span, fn func(context.Context) error) error {
	return fn(context.WithValue(ctx, nativeSpanKey{}, span))
}

func (NativeContextManager) CurrentSpan(ctx context.Context) (Span, bool) {
	span, ok := ctx.Value(nativeSpanKey{}).(Span)
	if !ok || span.SpanID() == "" || span.RootSpanID() == "" {
		return nil, false
	}
	return span, true
}
