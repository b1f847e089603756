// One-call setup: tracer provider, W3C propagation, and Braintrust
// export wired into the OTel globals
package braintrust

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	btrace "github.com/braintrustdata/braintrust-go/pkg/trace"
)

// Quickstart builds a tracer provider with the Braintrust processor,
// installs it and the W3C composite propagator (trace context plus
// baggage, required for distributed parent propagation) as the OTel
// globals, and selects the OTel-backed context manager. The returned
// teardown restores the previous globals and shuts the provider down.
func Quickstart(opts ...Option) (func(), error) {
	tp := sdktrace.NewTracerProvider()
	if err := Enable(tp, opts...); err != nil {
		return nil, err
	}

	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	btrace.SetContextManager(btrace.OtelContextManager{})

	teardown := func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
		btrace.ResetContextManager()
	}
	return teardown, nil
}
