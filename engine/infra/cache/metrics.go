package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	monitoringmetrics "github.com/fieldnet/fieldnet/engine/infra/monitoring/metrics"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

const (
	meterName       = "fieldnet.cache"
	subsystemCache  = "cache"
	labelCollection = "collection"
	labelOutcome    = "outcome"
	labelOrigin     = "origin"
	outcomeSuccess  = "success"
	outcomeError    = "error"
	originLocal     = "local"
	originRemote    = "remote"
)

var (
	metricsOnce       sync.Once
	metricsInitErr    error
	errorLogOnce      sync.Once
	metricInstruments instruments
)

type instruments struct {
	hitsTotal          metric.Int64Counter
	missesTotal        metric.Int64Counter
	fetchLatency       metric.Float64Histogram
	invalidationsTotal metric.Int64Counter
}

func recordCacheHit(ctx context.Context, collection string) {
	if !ensureInstruments(ctx) {
		return
	}
	metricInstruments.hitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(labelCollection, collection)))
}

func recordCacheMiss(ctx context.Context, collection string) {
	if !ensureInstruments(ctx) {
		return
	}
	metricInstruments.missesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(labelCollection, collection)))
}

func recordFetch(ctx context.Context, collection string, duration time.Duration, err error) {
	if !ensureInstruments(ctx) {
		return
	}
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}
	metricInstruments.fetchLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(labelCollection, collection),
		attribute.String(labelOutcome, outcome),
	))
}

func recordInvalidation(ctx context.Context, collection string, origin string) {
	if !ensureInstruments(ctx) {
		return
	}
	metricInstruments.invalidationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(labelCollection, collection),
		attribute.String(labelOrigin, origin),
	))
}

func newInstruments(meter metric.Meter) (instruments, error) {
	hits, err := meter.Int64Counter(
		monitoringmetrics.MetricNameWithSubsystem(subsystemCache, "hits_total"),
		metric.WithDescription("Query cache hits"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return instruments{}, fmt.Errorf("create cache hits counter: %w", err)
	}
	misses, err := meter.Int64Counter(
		monitoringmetrics.MetricNameWithSubsystem(subsystemCache, "misses_total"),
		metric.WithDescription("Query cache misses"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return instruments{}, fmt.Errorf("create cache misses counter: %w", err)
	}
	latency, err := meter.Float64Histogram(
		monitoringmetrics.MetricNameWithSubsystem(subsystemCache, "fetch_seconds"),
		metric.WithDescription("Latency of fetches run on cache misses"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(monitoringmetrics.FetchDurationBuckets...),
	)
	if err != nil {
		return instruments{}, fmt.Errorf("create cache fetch histogram: %w", err)
	}
	invalidations, err := meter.Int64Counter(
		monitoringmetrics.MetricNameWithSubsystem(subsystemCache, "invalidations_total"),
		metric.WithDescription("Collection invalidations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return instruments{}, fmt.Errorf("create cache invalidations counter: %w", err)
	}
	return instruments{
		hitsTotal:          hits,
		missesTotal:        misses,
		fetchLatency:       latency,
		invalidationsTotal: invalidations,
	}, nil
}

func ensureInstruments(ctx context.Context) bool {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		ins, err := newInstruments(meter)
		if err != nil {
			metricsInitErr = err
			return
		}
		metricInstruments = ins
	})
	if metricsInitErr != nil {
		errorLogOnce.Do(func() {
			logger.FromContext(ctx).Error("cache metrics disabled", "error", metricsInitErr)
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
	metricInstruments = instruments{}
}
