// Package obs exposes the in-process metrics collector as Prometheus
// series.  The collector stays the single source of truth; Prometheus
// reads it through GaugeFunc/CounterFunc views at scrape time.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Evryon/Operating-Systems-Remsh/internal/metrics"
)

// Register installs read-through views over c onto reg.  Call once per
// registry; registering the same registry twice is an error surfaced
// by the returned value.
func Register(reg prometheus.Registerer, c *metrics.Collector) error {
	views := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "remsh_active_connections",
			Help: "Connections currently owned by a live worker",
		}, func() float64 { return float64(c.ActiveConnections()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "remsh_connections_total",
			Help: "Connections accepted since startup",
		}, func() float64 { return float64(c.TotalConnections()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "remsh_commands_total",
			Help: "Commands executed since startup",
		}, func() float64 { return float64(c.CommandsExecuted()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "remsh_bytes_in_total",
			Help: "Request bytes received",
		}, func() float64 { return float64(c.TotalBytesIn()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "remsh_bytes_out_total",
			Help: "Response bytes sent, sentinels included",
		}, func() float64 { return float64(c.TotalBytesOut()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "remsh_errors_total",
			Help: "Per-connection errors recorded",
		}, func() float64 { return float64(c.ErrorCount()) }),
	}

	for _, v := range views {
		if err := reg.Register(v); err != nil {
			return err
		}
	}
	return nil
}
