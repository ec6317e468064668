package otel

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
)

var (
	tracer          trace.Tracer
	exporterFailed  bool
	exporterFailMux sync.Mutex
)

// ShutdownFunc flushes and stops the tracer and meter providers.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Setup installs OTLP/HTTP tracer and meter providers. An empty collectorURL
// leaves both disabled: GetTracer returns a noop tracer and meters from
// GetMeter record nothing.
func Setup(ctx context.Context, serviceName, collectorURL string) (ShutdownFunc, error) {
	if collectorURL == "" {
		logger.Info(log_messages.TracingDisabled)
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	exporterCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	traceExporter, err := otlptracehttp.New(exporterCtx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(collectorURL),
	)
	if err != nil {
		handleExporterError(err)
		return noopShutdown, nil
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	tracer = tracerProvider.Tracer(serviceName)

	logger.Info(log_messages.TracingEnabled, zap.String("collector", collectorURL))

	meterProvider := newMeterProvider(exporterCtx, res, collectorURL)

	return func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err := tracerProvider.Shutdown(shutdownCtx)
		if meterProvider != nil {
			err = errors.Join(err, meterProvider.Shutdown(shutdownCtx))
		}
		return err
	}, nil
}

// newMeterProvider returns nil when the metric exporter cannot be built;
// tracing still runs in that case.
func newMeterProvider(ctx context.Context, res *resource.Resource, collectorURL string) *sdkmetric.MeterProvider {
	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithInsecure(),
		otlpmetrichttp.WithEndpoint(collectorURL),
	)
	if err != nil {
		logger.Error(log_messages.MetricsExporterFailure, err)
		return nil
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)
	otel.SetMeterProvider(meterProvider)
	return meterProvider
}

// GetMeter reads from the global provider, so meters taken before Setup
// start exporting once it runs.
func GetMeter(name string) metric.Meter {
	return otel.Meter(name)
}

func GetTracer() trace.Tracer {
	if tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return tracer
}

func handleExporterError(err error) {
	exporterFailMux.Lock()
	defer exporterFailMux.Unlock()
	if !exporterFailed {
		logger.Error(log_messages.TracingExporterFailure, err)
		exporterFailed = true
	}
}
