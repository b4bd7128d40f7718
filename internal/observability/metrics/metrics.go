package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "realty_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "realty_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	authDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "realty_auth_decisions_total",
		Help: "Guard pipeline outcomes by stage",
	}, []string{"stage", "result"})

	storeQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "realty_store_query_duration_seconds",
		Help:    "Duration of store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "result"})

	listingMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "realty_listing_mutations_total",
		Help: "Completed listing writes per tenant",
	}, []string{"tenant", "operation"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveAuthDecision counts one guard outcome
func ObserveAuthDecision(stage, result string) {
	authDecisions.WithLabelValues(stage, result).Inc()
}

// ObserveStoreQuery records the duration of a store operation
func ObserveStoreQuery(operation string, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeQueryDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
}

// ObserveListingMutation counts a listing create, update or delete
func ObserveListingMutation(tenantID, operation string) {
	listingMutations.WithLabelValues(tenantID, operation).Inc()
}
