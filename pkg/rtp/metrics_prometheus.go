//go:build prometheus

package rtp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// engineMetrics exposes the engine's own bookkeeping counters —
// sessions running, packets sent/received, and foreign SSRC collisions —
// as Prometheus instruments. These are not the reception statistics
// (fraction lost, jitter) the report builder leaves zero-filled; they
// are state this package already owns regardless of metrics.
//
// Grounded on the teacher's build-tag-gated pkg/dialog/metrics.go, which
// gates its own Prometheus collector behind the same `prometheus` tag.
type engineMetrics struct {
	sessionsRunning prometheus.Gauge
	packetsSent     prometheus.Counter
	packetsReceived prometheus.Counter
	collisions      prometheus.Counter
	ssrcRotations   prometheus.Counter
}

func newEngineMetrics() *engineMetrics {
	return &engineMetrics{
		sessionsRunning: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "efflux",
			Subsystem: "rtp",
			Name:      "sessions_running",
			Help:      "Number of SessionEngine instances currently running.",
		}),
		packetsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "efflux",
			Subsystem: "rtp",
			Name:      "packets_sent_total",
			Help:      "Outbound RTP data packets sent across all fanout recipients.",
		}),
		packetsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "efflux",
			Subsystem: "rtp",
			Name:      "packets_received_total",
			Help:      "Inbound RTP data packets accepted past filtering.",
		}),
		collisions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "efflux",
			Subsystem: "rtp",
			Name:      "ssrc_collisions_total",
			Help:      "Foreign-origin SSRC collisions observed.",
		}),
		ssrcRotations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "efflux",
			Subsystem: "rtp",
			Name:      "ssrc_rotations_total",
			Help:      "Local SSRC rotations performed in response to a collision.",
		}),
	}
}
