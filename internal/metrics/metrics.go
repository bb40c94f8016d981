// Package metrics collects Prometheus metrics for HTTP traffic and ledger activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	// HTTP metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	ledgerContributions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_contributions_total",
			Help: "Total number of contributions appended to account ledgers",
		},
		[]string{"type"},
	)

	ledgerWithdrawalsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_withdrawals_rejected_total",
			Help: "Total number of withdrawals refused for insufficient funds",
		},
	)

	quoteLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_lookups_total",
			Help: "Total number of market quote lookups",
		},
		[]string{"status"},
	)
)

func init() {
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registry.MustRegister(httpRequestsTotal)
	registry.MustRegister(httpRequestDuration)

	registry.MustRegister(ledgerContributions)
	registry.MustRegister(ledgerWithdrawalsRejected)
	registry.MustRegister(quoteLookups)
}

// Handler returns the /metrics endpoint for the private registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Middleware returns Gin middleware that records request counts and latency
// labelled by route template, skipping the given paths.
func Middleware(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordContribution counts a contribution of the given type.
func RecordContribution(contributionType string) {
	ledgerContributions.WithLabelValues(contributionType).Inc()
}

// RecordRejectedWithdrawal counts a withdrawal refused for insufficient funds.
func RecordRejectedWithdrawal() {
	ledgerWithdrawalsRejected.Inc()
}

// RecordQuoteLookup counts a quote lookup by outcome ("ok" or "error").
func RecordQuoteLookup(status string) {
	quoteLookups.WithLabelValues(status).Inc()
}
