/*
Package tracing provides lightweight request tracing.

Each inbound HTTP or gRPC call opens a root span; the trace id is propagated
through context.Context so controller logs and nested spans share it.
Finished spans are handed to a buffered collector that writes them through
zap. There is no external exporter.

	tracer := tracing.New("browserctl", logger)
	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "controller.launch")
	defer tracer.End(span)
	span.SetTag("kind", "chrome")

Propagation headers: X-Trace-ID, X-Span-ID (metadata keys x-trace-id,
x-span-id for gRPC).
*/
package tracing
