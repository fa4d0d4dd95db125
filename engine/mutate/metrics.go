package mutate

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	monitoringmetrics "github.com/fieldnet/fieldnet/engine/infra/monitoring/metrics"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

const (
	meterName         = "fieldnet.mutate"
	subsystemMutation = "mutation"
)

var (
	metricsOnce    sync.Once
	metricsInitErr error
	errorLogOnce   sync.Once
	errorsCounter  metric.Int64Counter
)

func recordMutationError(ctx context.Context, collection string, kind string) {
	if !ensureInstruments(ctx) {
		return
	}
	errorsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("collection", collection),
		attribute.String("error_type", kind),
	))
}

func ensureInstruments(ctx context.Context) bool {
	metricsOnce.Do(func() {
		counter, err := otel.GetMeterProvider().Meter(meterName).Int64Counter(
			monitoringmetrics.MetricNameWithSubsystem(subsystemMutation, "errors_total"),
			metric.WithDescription("Failed mutations by error type"),
			metric.WithUnit("1"),
		)
		if err != nil {
			metricsInitErr = fmt.Errorf("create mutation errors counter: %w", err)
			return
		}
		errorsCounter = counter
	})
	if metricsInitErr != nil {
		errorLogOnce.Do(func() {
			logger.FromContext(ctx).Error("mutation metrics disabled", "error", metricsInitErr)
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
	errorsCounter = nil
}
