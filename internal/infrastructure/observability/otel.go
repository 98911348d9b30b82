package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Yong0-sa/weconnect-sub000"

// Metrics holds the client metrics
type Metrics struct {
	APIRequestCount    metric.Int64Counter
	APIRequestDuration metric.Float64Histogram
	APIErrorCount      metric.Int64Counter
	StoreHitCount      metric.Int64Counter
	StoreMissCount     metric.Int64Counter
}

// Setup initializes OpenTelemetry tracing
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

// InitMetrics initializes the client metrics on the global meter provider
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"api.client.request.count",
		metric.WithDescription("Number of REST API calls"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"api.client.request.duration",
		metric.WithDescription("REST API call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"api.client.request.errors",
		metric.WithDescription("Number of failed REST API calls"),
	)
	if err != nil {
		return nil, err
	}

	hitCount, err := meter.Int64Counter(
		"local_store.hit.count",
		metric.WithDescription("Number of local store reads that found a value"),
	)
	if err != nil {
		return nil, err
	}

	missCount, err := meter.Int64Counter(
		"local_store.miss.count",
		metric.WithDescription("Number of local store reads that found nothing"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		APIRequestCount:    requestCount,
		APIRequestDuration: requestDuration,
		APIErrorCount:      errorCount,
		StoreHitCount:      hitCount,
		StoreMissCount:     missCount,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

// StartServerSpan starts a span for a request served by the development API
func StartServerSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindServer), trace.WithAttributes(attrs...))
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// RecordAPIMetric records one REST API call. A nil Metrics is a no-op.
func RecordAPIMetric(ctx context.Context, metrics *Metrics, method, route string, statusCode int, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.APIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.APIRequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		metrics.APIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordStoreHit records a local store hit
func RecordStoreHit(ctx context.Context, metrics *Metrics, key string) {
	if metrics == nil {
		return
	}
	metrics.StoreHitCount.Add(ctx, 1, metric.WithAttributes(attribute.String("store.key", key)))
}

// RecordStoreMiss records a local store miss
func RecordStoreMiss(ctx context.Context, metrics *Metrics, key string) {
	if metrics == nil {
		return
	}
	metrics.StoreMissCount.Add(ctx, 1, metric.WithAttributes(attribute.String("store.key", key)))
}
