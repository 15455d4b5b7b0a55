package chat

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/varsilias/portfolio-relay/internal/chat"

// TracingEngine wraps an Engine with an OpenTelemetry span per call. With
// no tracer provider installed the global no-op provider is used.
type TracingEngine struct {
	next   Engine
	tracer trace.Tracer
}

func NewTracingEngine(next Engine) *TracingEngine {
	return &TracingEngine{next: next, tracer: otel.Tracer(tracerName)}
}

func (t *TracingEngine) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	ctx, span := t.tracer.Start(ctx, "chat.Engine.Complete", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.message_count", len(req.Messages)),
		attribute.Float64("llm.temperature", req.Temperature),
		attribute.Float64("llm.top_p", req.TopP),
		attribute.Int64("llm.max_tokens", req.MaxTokens),
	)

	res, err := t.next.Complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	span.SetAttributes(
		attribute.Int("llm.choices", res.Choices),
		attribute.Int("llm.input_tokens", res.InputTokens),
		attribute.Int("llm.output_tokens", res.OutputTokens),
		attribute.Int64("llm.latency_ms", res.Latency.Milliseconds()),
	)
	return res, nil
}
