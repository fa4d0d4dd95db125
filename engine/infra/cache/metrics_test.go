package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func installReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	previous := otel.GetMeterProvider()
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	resetMetrics()
	t.Cleanup(func() {
		otel.SetMeterProvider(previous)
		resetMetrics()
	})
	return reader
}

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) (map[string]int64, map[string]uint64) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))
	sums := map[string]int64{}
	histograms := map[string]uint64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					histograms[m.Name] += dp.Count
				}
			}
		}
	}
	return sums, histograms
}

func TestCacheMetrics(t *testing.T) {
	t.Run("Should count hits misses fetches and invalidations", func(t *testing.T) {
		reader := installReader(t)
		m := newTestMemory(t, ResolutionIssued)
		key := Key{Collection: "deployments", Target: "/deployments/"}
		var calls atomic.Int32
		for range 3 {
			_, err := m.ReadOrFetch(t.Context(), key, constFetch(&calls, "v"))
			require.NoError(t, err)
		}
		require.NoError(t, m.Invalidate(t.Context(), "deployments"))
		_, err := m.ReadOrFetch(t.Context(), key, func(context.Context) (any, error) {
			return nil, errors.New("offline")
		})
		require.Error(t, err)

		sums, histograms := collectSums(t, reader)
		assert.Equal(t, int64(2), sums["fieldnet_cache_hits_total"])
		assert.Equal(t, int64(2), sums["fieldnet_cache_misses_total"])
		assert.Equal(t, int64(1), sums["fieldnet_cache_invalidations_total"])
		assert.Equal(t, uint64(2), histograms["fieldnet_cache_fetch_seconds"])
	})
}
