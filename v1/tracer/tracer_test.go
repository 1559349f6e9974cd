package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, err error, fields ...map[string]interface{})  {}
func (noopLogger) Debug(msg string, err error, fields ...map[string]interface{}) {}
func (noopLogger) Warn(msg string, err error, fields ...map[string]interface{})  {}
func (noopLogger) Error(msg string, err error, fields ...map[string]interface{}) {}
func (noopLogger) Fatal(msg string, err error, fields ...map[string]interface{}) {}

// newRecordingTracer builds a Tracer whose spans are captured in memory.
func newRecordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	return &Tracer{tracer: tp, logger: noopLogger{}}, recorder
}

func TestEndSpan_RecordsErrorOutcome(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), "ingest")
	tr.EndSpan(span, errors.New("store unreachable"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	got := ended[0]
	assert.Equal(t, "ingest", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "store unreachable", got.Status().Description)

	require.Len(t, got.Events(), 1)
	assert.Equal(t, semconv.ExceptionEventName, got.Events()[0].Name)
}

func TestEndSpan_SuccessLeavesStatusUnset(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), "query")
	tr.EndSpan(span, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	got := ended[0]
	assert.Equal(t, codes.Unset, got.Status().Code)
	assert.Empty(t, got.Events())
}

func TestSetAttributes_ConvertsSupportedTypes(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), "op")
	tr.SetAttributes(span, map[string]interface{}{
		"project_id": "p-1",
		"batch_size": 8,
		"weight":     0.7,
		"cached":     true,
	})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Len(t, ended[0].Attributes(), 4)
}
