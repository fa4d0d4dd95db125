package transport

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	monitoringmetrics "github.com/fieldnet/fieldnet/engine/infra/monitoring/metrics"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

const (
	meterName          = "fieldnet.transport"
	subsystemTransport = "http_client"
	statusNetworkError = "network_error"
)

var (
	metricsOnce     sync.Once
	metricsInitErr  error
	errorLogOnce    sync.Once
	requestDuration metric.Float64Histogram
)

// recordRequest records one backend round trip. status is 0 when no
// response arrived.
func recordRequest(ctx context.Context, method string, status int, duration time.Duration) {
	if !ensureInstruments(ctx) {
		return
	}
	label := statusNetworkError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", label),
	))
}

func ensureInstruments(ctx context.Context) bool {
	metricsOnce.Do(func() {
		histogram, err := otel.GetMeterProvider().Meter(meterName).Float64Histogram(
			monitoringmetrics.MetricNameWithSubsystem(subsystemTransport, "request_seconds"),
			metric.WithDescription("Latency of backend API requests"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(monitoringmetrics.HTTPDurationBuckets...),
		)
		if err != nil {
			metricsInitErr = fmt.Errorf("create request duration histogram: %w", err)
			return
		}
		requestDuration = histogram
	})
	if metricsInitErr != nil {
		errorLogOnce.Do(func() {
			logger.FromContext(ctx).Error("transport metrics disabled", "error", metricsInitErr)
		})
		return false
	}
	return true
}

// resetMetrics is intended for tests.
func resetMetrics() {
	metricsOnce = sync.Once{}
	errorLogOnce = sync.Once{}
	metricsInitErr = nil
	requestDuration = nil
}
