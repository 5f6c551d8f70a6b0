// Package metrics exposes prometheus collectors for the session tick
// loop and network layer, served over a /metrics HTTP handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arcade_tick_duration_seconds",
		Help:    "Time spent advancing every active session one tick (pool batch through barrier).",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.031, 0.05, 0.1},
	})

	PoolBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arcade_pool_batch_duration_seconds",
		Help:    "Wall-clock time from ScheduleBatch to WaitForCompletion returning.",
		Buckets: prometheus.DefBuckets,
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arcade_active_sessions",
		Help: "Number of sessions currently owned by the server.",
	})

	ActivePlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arcade_active_players",
		Help: "Number of players currently connected across all sessions.",
	})

	SnapshotsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcade_snapshots_sent_total",
		Help: "Total SERVER_SNAPSHOT payloads queued for transmission.",
	})

	PacketsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arcade_packets_dropped_total",
		Help: "Inbound packets dropped at the network boundary.",
	}, []string{"reason"}) // bounded: "rate_limit", "decode_error"

	OutboundQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arcade_outbound_queue_depth",
		Help: "Total frames queued across all sessions' outbound buffers at last drain.",
	})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
