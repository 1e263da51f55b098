// Package telemetry wires OpenTelemetry providers and the process logger.
package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Telemetry struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	shutdownFuncs []func(context.Context) error
}

// Setup always installs the W3C trace-context and baggage propagator. OTLP
// exporters are started only when an endpoint is configured through the
// standard OTEL_EXPORTER_OTLP_* variables; otherwise logs go to stderr as text
// and traces and metrics use the global no-op providers.
func Setup(ctx context.Context, serviceName string, level slog.Level, stderr io.Writer) (*Telemetry, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !exportEnabled() {
		return &Telemetry{
			Logger:         slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
			TracerProvider: otel.GetTracerProvider(),
			MeterProvider:  otel.GetMeterProvider(),
		}, nil
	}

	res, err := newResource(serviceName)
	if err != nil {
		return nil, err
	}

	t := &Telemetry{}
	fail := func(err error) (*Telemetry, error) {
		return nil, errors.Join(err, t.Shutdown(ctx))
	}

	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return fail(err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	t.shutdownFuncs = append(t.shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)
	t.TracerProvider = tracerProvider

	metricExporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return fail(err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	t.shutdownFuncs = append(t.shutdownFuncs, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)
	t.MeterProvider = meterProvider

	logExporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return fail(err)
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	t.shutdownFuncs = append(t.shutdownFuncs, loggerProvider.Shutdown)
	global.SetLoggerProvider(loggerProvider)

	handler := otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(loggerProvider))
	t.Logger = slog.New(&levelHandler{Handler: handler, level: level})

	return t, nil
}

// Shutdown flushes and stops every provider started by Setup.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var err error
	for _, fn := range t.shutdownFuncs {
		err = errors.Join(err, fn(ctx))
	}
	t.shutdownFuncs = nil
	return err
}

func exportEnabled() bool {
	for _, key := range []string{
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT",
		"OTEL_EXPORTER_OTLP_LOGS_ENDPOINT",
	} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// newResource uses serviceName unless OTEL_SERVICE_NAME already names the service.
func newResource(serviceName string) (*resource.Resource, error) {
	if os.Getenv("OTEL_SERVICE_NAME") != "" || serviceName == "" {
		return resource.Default(), nil
	}
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", serviceName)),
	)
}

// levelHandler drops records below level before they reach the OTel bridge.
type levelHandler struct {
	slog.Handler
	level slog.Leveler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.Handler.Enabled(ctx, level)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}
