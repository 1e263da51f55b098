package http

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/freekieb7/pebble/http"

type Middleware func(next Handler) Handler

// RecoverMiddleware turns a panicking handler into a 500 response so the
// connection keeps serving.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next Handler) Handler {
		return func(req *Request) (res *Response) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.ErrorContext(req.Context(), "handler panicked",
						"panic", recovered,
						"method", req.Method,
						"target", req.Target,
					)
					res = NewResponse(StatusInternalServerError, []byte("something went wrong"))
				}
			}()

			return next(req)
		}
	}
}

// TelemetryMiddleware opens a server span per request, continuing any trace
// propagated in the request headers, and records request count and duration.
func TelemetryMiddleware(tracerProvider trace.TracerProvider, meterProvider metric.MeterProvider) (Middleware, error) {
	tracer := tracerProvider.Tracer(instrumentationName)
	meter := meterProvider.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Number of requests served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time spent producing a response"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return func(next Handler) Handler {
		return func(req *Request) *Response {
			start := time.Now()
			ctx := otel.GetTextMapPropagator().Extract(req.Context(), req.Headers)

			spanName := req.Method
			if req.Pattern != "" {
				spanName += " " + req.Pattern
			}

			ctx, span := tracer.Start(ctx, spanName,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", req.Method),
					attribute.String("url.path", req.Target),
					attribute.Int("http.request.body.size", len(req.Body)),
				))
			defer span.End()

			res := next(req.WithContext(ctx))
			if res == nil {
				res = NewResponse(StatusInternalServerError, nil)
			}

			attrs := []attribute.KeyValue{
				attribute.String("http.request.method", req.Method),
				attribute.String("http.route", req.Pattern),
				attribute.Int("http.response.status_code", int(res.Status)),
			}
			span.SetAttributes(attrs[1:]...)
			if res.Status >= StatusInternalServerError {
				span.SetStatus(codes.Error, StatusText(res.Status))
			}

			requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
			requestDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))

			return res
		}
	}, nil
}
