package oteladapters_test

import (
	"bytes"
	"log/slog"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore/oteladapters"
)

func givenJSONLogger(t *testing.T) (*oteladapters.SlogBridgeLogger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	return oteladapters.NewSlogBridgeLoggerWithHandler(handler), &buf
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	line := map[string]any{}
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &line))

	return line
}

func Test_SlogBridgeLogger_WithoutSpan(t *testing.T) {
	// arrange
	logger, buf := givenJSONLogger(t)

	// act
	logger.InfoContext(t.Context(), "command handler completed", "command_type", "BorrowBookCopy")

	// assert
	line := decodeLogLine(t, buf)
	assert.Equal(t, "command handler completed", line["msg"])
	assert.Equal(t, "BorrowBookCopy", line["command_type"])
	assert.NotContains(t, line, "trace_id")
}

func Test_SlogBridgeLogger_AddsTraceCorrelation(t *testing.T) {
	// arrange
	logger, buf := givenJSONLogger(t)
	provider := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })
	ctx, span := provider.Tracer("test").Start(t.Context(), "commandhandler.handle")
	defer span.End()

	// act
	logger.WarnContext(ctx, "eventstore operation: concurrency conflict detected")

	// assert
	line := decodeLogLine(t, buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), line["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), line["span_id"])
}

func Test_SlogBridgeLogger_RespectsTheHandlerLevel(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// act
	logger.DebugContext(t.Context(), "executed sql for: query")

	// assert
	assert.Empty(t, buf.String())
}

func Test_NewSlogBridgeLogger_UsesTheGlobalProvider(t *testing.T) {
	// arrange
	logger := oteladapters.NewSlogBridgeLogger("lending")

	// act + assert
	assert.NotPanics(t, func() {
		logger.ErrorContext(t.Context(), "command handler failed", "error", "boom")
	})
	assert.NotNil(t, logger.Logger())
}
