package internal

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	envvar "github.com/sanLimbu/taskplanner-api/internal/envar"
)

// NewOTExporter instantiates the OpenTelemetry exporters using configuration
// defined in environment variables. The returned registry backs the /metrics
// endpoint.
func NewOTExporter(conf *envvar.Configuration) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()

	// Set up prometheus exporter
	promExporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithoutUnits(),
	)
	if err != nil {
		return nil, fmt.Errorf("prometheus.New: %w", err)
	}

	metricProvider := metric.NewMeterProvider(
		metric.WithReader(promExporter),
	)

	otel.SetMeterProvider(metricProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		return nil, fmt.Errorf("runtime.Start: %w", err)
	}

	// Set up Jaeger exporter
	jaegerEndpoint, _ := conf.Get("JAEGER_ENDPOINT")
	jaegerExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("jaeger.New: %w", err)
	}

	// Set up the trace provider with the Jaeger exporter
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(jaegerExporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("taskplanner-rest-server"),
		)),
	)

	otel.SetTracerProvider(traceProvider)

	// Set global propagator
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return registry, nil
}
