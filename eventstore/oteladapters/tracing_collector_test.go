package oteladapters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore/oteladapters"
)

func givenTracingCollector(t *testing.T) (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// arrange
	collector, exporter := givenTracingCollector(t)

	// act
	_, span := collector.StartSpan(t.Context(), "eventstore.query", map[string]string{"engine": "memory"})
	span.AddAttribute("event_count", "3")
	collector.FinishSpan(span, "success", map[string]string{"max_sequence": "7"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "eventstore.query", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.String("engine", "memory"))
	assert.Contains(t, spans[0].Attributes, attribute.String("event_count", "3"))
	assert.Contains(t, spans[0].Attributes, attribute.String("max_sequence", "7"))
	assert.Contains(t, spans[0].Attributes, attribute.String("status", "success"))
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	tests := []struct {
		status   string
		expected codes.Code
	}{
		{status: "success", expected: codes.Ok},
		{status: "idempotent", expected: codes.Ok},
		{status: "error", expected: codes.Error},
		{status: "canceled", expected: codes.Error},
		{status: "timeout", expected: codes.Error},
		{status: "concurrency_conflict", expected: codes.Error},
		{status: "rejected", expected: codes.Unset},
		{status: "something_else", expected: codes.Unset},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			collector, exporter := givenTracingCollector(t)

			// act
			_, span := collector.StartSpan(t.Context(), "commandhandler.handle", nil)
			collector.FinishSpan(span, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expected, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_NestedSpansShareTheTrace(t *testing.T) {
	// arrange
	collector, exporter := givenTracingCollector(t)

	// act
	ctx, outer := collector.StartSpan(t.Context(), "commandhandler.handle", nil)
	_, inner := collector.StartSpan(ctx, "eventstore.append", nil)
	collector.FinishSpan(inner, "success", nil)
	collector.FinishSpan(outer, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[0].SpanContext.TraceID(), spans[1].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}
