package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/rodrigodemos/microsoft-agents-starterkit/model"
)

const tracerName = "github.com/rodrigodemos/microsoft-agents-starterkit"

// Configure installs a global tracer provider exporting OTLP over HTTP.
// Endpoint and auth headers follow the standard OTEL_EXPORTER_OTLP_*
// environment variables. The returned shutdown function flushes pending
// spans; call it once at process exit.
func Configure(ctx context.Context, serviceName, serviceNamespace string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	res := sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceNamespace(serviceNamespace),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return provider.Shutdown(ctx)
	}, nil
}

// InstrumentModel wraps a model so every Generate call is recorded as a span
// carrying provider, model name and token usage attributes.
func InstrumentModel(m model.Model) model.Model {
	return &instrumentedModel{inner: m}
}

type instrumentedModel struct {
	inner model.Model
}

func (im *instrumentedModel) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	info := im.inner.Info()
	tracer := otel.GetTracerProvider().Tracer(tracerName)

	ctx, span := tracer.Start(ctx, "chat "+info.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.system", info.Provider),
			attribute.String("gen_ai.request.model", info.Name),
			attribute.Int("gen_ai.request.tool_count", len(req.Tools)),
		),
	)
	defer span.End()

	resp, err := im.inner.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("gen_ai.response.finish_reason", resp.FinishReason))
	if resp.Usage != nil {
		span.SetAttributes(
			attribute.Int("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
			attribute.Int("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		)
	}
	return resp, nil
}

func (im *instrumentedModel) Info() model.Info { return im.inner.Info() }
