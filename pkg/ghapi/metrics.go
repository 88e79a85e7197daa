package ghapi

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsStartKey = "metrics_start_time"

// Metrics records API call counts, latencies and the remaining rate-limit
// allowance.
type Metrics struct {
	Requests           *prometheus.CounterVec
	Duration           *prometheus.HistogramVec
	RateLimitRemaining prometheus.Gauge
}

// NewMetrics registers the gateway collectors with reg. A nil reg uses the
// default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ghapi",
				Name:      "requests_total",
				Help:      "API calls by method and response status code.",
			},
			[]string{"method", "code"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ghapi",
				Name:      "request_duration_seconds",
				Help:      "API call latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		RateLimitRemaining: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "ghapi",
				Name:      "rate_limit_remaining",
				Help:      "Last observed X-RateLimit-Remaining value.",
			},
		),
	}
}

// MetricsRequestInterceptor records the request start time.
func MetricsRequestInterceptor(metrics *Metrics) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[metricsStartKey] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records the outcome of a call. Failed exchanges
// are counted under code "error".
func MetricsResponseInterceptor(metrics *Metrics) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		code := "error"
		if resp.Error == nil {
			code = strconv.Itoa(resp.StatusCode)
		}

		metrics.Requests.WithLabelValues(req.Method, code).Inc()

		if start, ok := req.Metadata[metricsStartKey].(time.Time); ok {
			metrics.Duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
		}

		if remaining, ok := headerInt(resp.Headers, "X-RateLimit-Remaining"); ok {
			metrics.RateLimitRemaining.Set(float64(remaining))
		}

		return nil
	}
}
