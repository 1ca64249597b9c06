package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/rodrigodemos/microsoft-agents-starterkit/model"
)

func withRecordedSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestInstrumentModelRecordsSpan(t *testing.T) {
	recorder := withRecordedSpans(t)

	mock := model.NewMockModel("gpt-test", "mock")
	instrumented := InstrumentModel(mock)

	resp, err := instrumented.Generate(context.Background(), model.Request{
		Messages: []model.Message{model.UserMessage("hello")},
	})
	require.NoError(t, err)
	assert.NotNil(t, resp)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "chat gpt-test", spans[0].Name())
}

func TestInstrumentModelRecordsError(t *testing.T) {
	recorder := withRecordedSpans(t)

	mock := model.NewMockModel("gpt-test", "mock")
	instrumented := InstrumentModel(mock)

	_, err := instrumented.Generate(context.Background(), model.Request{})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.NotEmpty(t, spans[0].Events())
}

func TestInstrumentModelPassesThroughInfo(t *testing.T) {
	mock := model.NewMockModel("gpt-test", "mock")
	assert.Equal(t, mock.Info(), InstrumentModel(mock).Info())
}
