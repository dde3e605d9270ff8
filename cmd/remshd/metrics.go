package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Evryon/Operating-Systems-Remsh/internal/metrics"
	"github.com/Evryon/Operating-Systems-Remsh/util"
)

// serveMetrics exposes Prometheus metrics plus lightweight stats and
// health endpoints.  It runs for the life of the process; listen
// failures are reported but never take the server down.
func serveMetrics(addr string, stats *metrics.Collector, logger *util.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(stats.JSON()))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener on %s: %v", addr, err)
	}
}
