// Package metrics exposes the Prometheus counters and gauges the
// connection pipeline updates as it frames, decodes, and dispatches
// traffic. Grounded verbatim on the teacher's pkg/metrics/metrics.go
// promauto pattern, relabeled for frame-level rather than
// gateway-level observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesTotal counts frames crossing a connection, by framing
	// mode, direction, and outcome.
	FramesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protoframe_frames_total",
		Help: "The total number of frames decoded or encoded, by mode, direction and status",
	}, []string{"mode", "direction", "status"})

	// FramingErrors counts framing-layer failures, by mode and error kind.
	FramingErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protoframe_framing_errors_total",
		Help: "The total number of framing errors, by mode and kind",
	}, []string{"mode", "kind"})

	// ConnectionsTotal counts every accepted connection over the
	// server's lifetime.
	ConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "protoframe_connections_total",
		Help: "The total number of TCP connections accepted",
	})

	// ConnectionsOpen is the current number of live connections.
	ConnectionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "protoframe_connections_open",
		Help: "The current number of open TCP connections",
	})
)

// Direction constants for FramesTotal.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Status constants for FramesTotal.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// IncFrame increments the frame counter.
func IncFrame(mode, direction, status string) {
	FramesTotal.WithLabelValues(mode, direction, status).Inc()
}

// IncFramingError increments the framing error counter.
func IncFramingError(mode, kind string) {
	FramingErrors.WithLabelValues(mode, kind).Inc()
}

// ConnectionOpened records a newly accepted connection.
func ConnectionOpened() {
	ConnectionsTotal.Inc()
	ConnectionsOpen.Inc()
}

// ConnectionClosed records a connection's end of life.
func ConnectionClosed() {
	ConnectionsOpen.Dec()
}
