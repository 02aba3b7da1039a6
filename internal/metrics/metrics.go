package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outbound TMDB API metrics
var (
	TMDBRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Requests sent to the TMDB API, by endpoint and outcome.",
		},
		[]string{"endpoint", "status"},
	)

	TMDBRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tmdb_request_duration_seconds",
			Help:    "Latency of TMDB API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// User activity metrics
var (
	FavoritesOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorites_operations_total",
			Help: "Favorites list mutations, by operation and result.",
		},
		[]string{"operation", "result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts, by result.",
		},
		[]string{"result"},
	)
)

// Inbound HTTP API metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by method, route pattern and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests, by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Status label values shared by the counters above
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusNotFound    = "not_found"
	StatusUnavailable = "unavailable"
)

func init() {
	prometheus.MustRegister(
		TMDBRequestsTotal,
		TMDBRequestDuration,
		FavoritesOperationsTotal,
		LoginsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
