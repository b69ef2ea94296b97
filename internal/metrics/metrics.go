package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/abylaikhan/upcheck/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "upcheck",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "upcheck",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Record store metrics

	StoreOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "upcheck",
		Name:      "store_operations_total",
		Help:      "Total record store operations, by collection and outcome.",
	}, []string{"collection", "operation", "outcome"})

	// Notification metrics

	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "upcheck",
		Name:      "notifications_total",
		Help:      "Total outbound SMS notifications, by outcome.",
	}, []string{"outcome"})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		StoreOperationsTotal,
		NotificationsTotal,
	)
}

// NewServer returns the ops server: Prometheus metrics plus liveness and
// readiness probes.
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
	json.NewEncoder(w).Encode(result)
}
