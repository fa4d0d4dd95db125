package metrics

// HTTPDurationBuckets defines latency buckets for backend request duration metrics.
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// FetchDurationBuckets defines latency buckets for cache-miss fetches, which include decoding.
var FetchDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}
