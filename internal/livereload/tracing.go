package livereload

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "htmldiff/livereload"

// traceDiff wraps a route diff in a span recording the route, the result
// kind, and the patch count, mirroring pkg/middleware's OpenTelemetry
// event wrapper but scoped to a single collaborator instead of a whole
// request pipeline.
func traceDiff(ctx context.Context, route string, fn func(context.Context) Result) Result {
	tracer := otel.Tracer(tracerName)
	spanCtx, span := tracer.Start(ctx, "livereload.diff",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("htmldiff.route", route)),
	)
	defer span.End()

	result := fn(spanCtx)

	span.SetAttributes(
		attribute.Int("htmldiff.result_kind", int(result.Kind)),
		attribute.Int("htmldiff.patch_count", len(result.Patches)),
	)
	span.SetStatus(codes.Ok, "")
	return result
}
