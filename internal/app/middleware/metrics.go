package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const (
	metricRequestLatency  = "http.server.latency"
	metricRequestsTotal   = "http.server.requests_total"
	metricRequestFailures = "http.server.error_requests_total"
)

// RecordMetrics counts requests per route and records their latency.
// Instrument creation errors leave the middleware a pass-through.
func RecordMetrics(meter metric.Meter) gin.HandlerFunc {
	latency, latencyErr := meter.Int64Histogram(metricRequestLatency,
		metric.WithUnit("ms"),
		metric.WithDescription("Latency of HTTP requests."),
	)
	requests, requestsErr := meter.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Number of HTTP requests."),
	)
	failures, failuresErr := meter.Int64Counter(metricRequestFailures,
		metric.WithDescription("Number of HTTP requests answered with a 4xx or 5xx status."),
	)
	if latencyErr != nil || requestsErr != nil || failuresErr != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := metric.WithAttributes(
			semconv.HTTPRouteKey.String(c.FullPath()),
			semconv.HTTPMethodKey.String(c.Request.Method),
			semconv.HTTPStatusCodeKey.Int(status),
		)
		ctx := c.Request.Context()
		latency.Record(ctx, time.Since(start).Milliseconds(), attrs)
		requests.Add(ctx, 1, attrs)
		if status >= 400 {
			failures.Add(ctx, 1, attrs)
		}
	}
}
