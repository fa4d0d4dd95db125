package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRequestMetrics(t *testing.T) {
	t.Run("Should record request latency by method and status", func(t *testing.T) {
		previous := otel.GetMeterProvider()
		reader := sdkmetric.NewManualReader()
		otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
		resetMetrics()
		t.Cleanup(func() {
			otel.SetMeterProvider(previous)
			resetMetrics()
		})

		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v2/missing/" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		})
		_, err := c.Do(t.Context(), &Request{Method: http.MethodGet, Path: "/jobs/"})
		require.NoError(t, err)
		_, err = c.Do(t.Context(), &Request{Method: http.MethodGet, Path: "/jobs/"})
		require.NoError(t, err)
		_, err = c.Do(t.Context(), &Request{Method: http.MethodGet, Path: "/missing/"})
		require.Error(t, err)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(t.Context(), &rm))
		counts := map[string]uint64{}
		var bounds []float64
		for _, scope := range rm.ScopeMetrics {
			for _, m := range scope.Metrics {
				if m.Name != "fieldnet_http_client_request_seconds" {
					continue
				}
				data, ok := m.Data.(metricdata.Histogram[float64])
				require.True(t, ok)
				for _, dp := range data.DataPoints {
					status, _ := dp.Attributes.Value(attribute.Key("status"))
					counts[status.AsString()] += dp.Count
					bounds = dp.Bounds
				}
			}
		}
		assert.Equal(t, map[string]uint64{"200": 2, "404": 1}, counts)
		assert.Equal(t, []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}, bounds)
	})
}
