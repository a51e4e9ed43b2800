package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vk/netgraph"

// StartPhase opens the span covering one lifecycle phase run.
func StartPhase(ctx context.Context, phase, passID string, layers int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "network.phase",
		trace.WithAttributes(
			attribute.String("phase.name", phase),
			attribute.String("phase.pass_id", passID),
			attribute.Int("network.layers", layers),
		),
	)
}

// StartNode opens the span covering one layer method call.
func StartNode(ctx context.Context, phase string, index int, layerType string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "network.layer",
		trace.WithAttributes(
			attribute.String("phase.name", phase),
			attribute.Int("layer.index", index),
			attribute.String("layer.type", layerType),
		),
	)
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
