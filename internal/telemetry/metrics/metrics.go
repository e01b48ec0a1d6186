// Package metrics exposes Prometheus counters and gauges for the framer
// pipeline, modeled on the teacher's internal/metrics package.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aimms_frames_decoded_total",
		Help: "Total telemetry frames decoded, by packet type.",
	}, []string{"type"})
	ResyncBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aimms_resync_bytes_total",
		Help: "Total bytes dropped while resynchronising on misaligned or corrupt frames.",
	})
	ChecksumMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aimms_checksum_mismatch_total",
		Help: "Total frames rejected due to a failed footer checksum.",
	})
	BufferDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aimms_buffer_depth_bytes",
		Help: "Bytes currently buffered awaiting framing.",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
)

// local mirrored counters for cheap periodic logging, mirroring the
// teacher's Snap()/local atomics split.
var (
	localFrames   uint64
	localResync   uint64
	localChecksum uint64
)

// Snapshot is a cheap copy of the local counters for periodic log lines.
type Snapshot struct {
	FramesDecoded      uint64
	ResyncBytes        uint64
	ChecksumMismatches uint64
}

func Snap() Snapshot {
	return Snapshot{
		FramesDecoded:      atomic.LoadUint64(&localFrames),
		ResyncBytes:        atomic.LoadUint64(&localResync),
		ChecksumMismatches: atomic.LoadUint64(&localChecksum),
	}
}

// IncFrameDecoded increments the per-type decode counter.
func IncFrameDecoded(packetType string) {
	FramesDecoded.WithLabelValues(packetType).Inc()
	atomic.AddUint64(&localFrames, 1)
}

// IncResyncByte counts one byte dropped during resync.
func IncResyncByte() {
	ResyncBytes.Inc()
	atomic.AddUint64(&localResync, 1)
}

// IncChecksumMismatch counts one rejected frame with a bad footer.
func IncChecksumMismatch() {
	ChecksumMismatches.Inc()
	atomic.AddUint64(&localChecksum, 1)
}

// SetBufferDepth records the current buffered byte count.
func SetBufferDepth(n int) {
	BufferDepth.Set(float64(n))
}

// InitBuildInfo sets the build info gauge once at startup.
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
}

// StartHTTP serves Prometheus metrics at /metrics on addr.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
