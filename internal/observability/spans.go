package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogSpanProcessor writes every completed span to a slog logger.
// It is meant for local runs where no collector is available.
type LogSpanProcessor struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogSpanProcessor creates a processor logging at level
func NewLogSpanProcessor(logger *slog.Logger, level slog.Level) *LogSpanProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSpanProcessor{logger: logger, level: level}
}

// OnStart is a no-op; spans are reported on completion
func (p *LogSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration, status and attributes
func (p *LogSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if s == nil {
		return
	}

	args := []any{
		"span", s.Name(),
		"trace_id", s.SpanContext().TraceID().String(),
		"duration", s.EndTime().Sub(s.StartTime()),
	}
	if s.Status().Code == codes.Error {
		args = append(args, "status", "error", "status_message", s.Status().Description)
	}
	for _, kv := range s.Attributes() {
		args = append(args, string(kv.Key), kv.Value.Emit())
	}

	p.logger.Log(context.Background(), p.level, "span ended", args...)
}

// Shutdown implements sdktrace.SpanProcessor
func (p *LogSpanProcessor) Shutdown(context.Context) error { return nil }

// ForceFlush implements sdktrace.SpanProcessor
func (p *LogSpanProcessor) ForceFlush(context.Context) error { return nil }

// NewLoggingTracerProvider returns a provider whose spans are logged through logger.
// Callers must Shutdown the provider when done.
func NewLoggingTracerProvider(logger *slog.Logger, level slog.Level) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewLogSpanProcessor(logger, level)),
	)
}
