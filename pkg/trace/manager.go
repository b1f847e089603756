// Process-wide selection of the active context manager
// Chosen once at configuration time; resettable for test isolation
package trace

import (
	"context"
	"sync"
)

// ContextManager decides what the current span and its parents are for
// a given execution context. Two implementations exist: the native one
// backed by plain context values, and the OTel-backed one that shares
// ancestry with unrelated OTel instrumentation.
type ContextManager interface {
	// ParentSpanIDs reports the parent linkage visible in ctx, or
	// false when no span is active.
	ParentSpanIDs(ctx context.Context) (ParentSpanIDs, bool)

	// RunInContext executes fn with span installed as current. The
	// installation is scoped to the derived context fn receives;
	// sibling and outer contexts are unaffected. Installation is
	// best-effort: if it fails, fn still runs with ctx unchanged.
	RunInContext(ctx context.Context, span Span, fn func(context.Context) error) error

	// CurrentSpan returns the native span installed by RunInContext,
	// or false when none is active in ctx.
	CurrentSpan(ctx context.Context) (Span, bool)
}

var (
	managerMu     sync.Mutex
	activeManager ContextManager = NativeContextManager{}
)

// SetContextManager installs the process-wide context manager.
func SetContextManager(m ContextManager) {
	managerMu.Lock()
	defer managerMu.Unlock()
	activeManager = m
}

// CurrentContextManager returns the process-wide context manager.
func CurrentContextManager() ContextManager {
	managerMu.Lock()
	defer managerMu.Unlock()
	return activeManager
}

// ResetContextManager restores the native default. Intended for tests.
func ResetContextManager() {
	SetContextManager(NativeContextManager{})
}
