package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/campusnest/campusnest-api/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campusnest",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusnest",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Record store metrics

	StoreRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campusnest",
		Name:      "store_request_duration_seconds",
		Help:      "Latency of calls to the record store.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	}, []string{"method", "collection", "status"})

	// Auth metrics

	SessionResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusnest",
		Name:      "session_resolutions_total",
		Help:      "Session credential resolutions, by outcome.",
	}, []string{"outcome"})

	VerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusnest",
		Name:      "verifications_total",
		Help:      "Verification token consume attempts, by outcome.",
	}, []string{"outcome"})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		StoreRequestDuration,
		SessionResolutionsTotal,
		VerificationsTotal,
	)
}

// NewServer serves /metrics plus the health endpoints on its own listener.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
