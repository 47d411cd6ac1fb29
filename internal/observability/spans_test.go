package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestLoggingTracerProvider(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tp := NewLoggingTracerProvider(logger, slog.LevelDebug)
	defer func() { require.NoError(t, tp.Shutdown(t.Context())) }()

	_, span := Tracer(tp).Start(t.Context(), "pipeline.research")
	span.SetAttributes(
		attribute.String(AttrAgent, "Researcher"),
		attribute.Int(AttrPromptLength, 120),
	)
	span.End()

	out := buf.String()
	assert.Contains(t, out, "span ended")
	assert.Contains(t, out, "span=pipeline.research")
	assert.Contains(t, out, "pipeline.agent=Researcher")
	assert.Contains(t, out, "pipeline.prompt.length=120")
	assert.NotContains(t, out, "status=error")
}

func TestLogSpanProcessor_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	tp := NewLoggingTracerProvider(logger, slog.LevelInfo)
	defer func() { require.NoError(t, tp.Shutdown(t.Context())) }()

	_, span := Tracer(tp).Start(t.Context(), "pipeline.draft")
	span.RecordError(errors.New("boom"))
	span.SetStatus(codes.Error, "boom")
	span.End()

	assert.Contains(t, buf.String(), "status=error")
	assert.Contains(t, buf.String(), "status_message=boom")
}

func TestLogSpanProcessor_BelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	tp := NewLoggingTracerProvider(logger, slog.LevelDebug)
	defer func() { require.NoError(t, tp.Shutdown(t.Context())) }()

	_, span := Tracer(tp).Start(t.Context(), "pipeline.polish")
	span.End()

	assert.Empty(t, buf.String())
}

func TestLogSpanProcessor_NilSpan(t *testing.T) {
	p := NewLogSpanProcessor(nil, slog.LevelInfo)
	assert.NotPanics(t, func() { p.OnEnd(nil) })
	assert.NoError(t, p.ForceFlush(t.Context()))
	assert.NoError(t, p.Shutdown(t.Context()))
}
