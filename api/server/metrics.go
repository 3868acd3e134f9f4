package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	results  prometheus.Histogram
	catalog  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipa_archive",
			Name:      "http_requests_total",
			Help:      "Number of http requests by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ipa_archive",
			Name:      "http_request_duration_seconds",
			Help:      "Http request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ipa_archive",
			Name:      "search_results",
			Help:      "Number of records matched per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		catalog: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ipa_archive",
			Name:      "catalog_records",
			Help:      "Number of records in the loaded catalog.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.results, m.catalog)
	return m
}

func (m *metrics) observe(results int) {
	m.results.Observe(float64(results))
}

func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
