// Package metrics wires Prometheus instrumentation for the ring
// transport, the UDP ingestor, and the indicator engines, grounded on
// arcentrix-arcentra's pkg/http/middleware registry-and-vector pattern:
// callers supply their own *prometheus.Registry rather than reaching for
// the global default, so multiple producers in one process don't collide.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fluxquant/mdcore/ring"
)

// RingMetrics instruments ring.Writer via the callbacks installed with
// Writer.OnMetrics.
type RingMetrics struct {
	Published       prometheus.Counter
	PacketTooLarge  prometheus.Counter
	BatchOverflow   prometheus.Counter
	SlowConsumerLag prometheus.Gauge
}

// NewRingMetrics creates and registers the ring transport's metrics
// against reg.
func NewRingMetrics(reg *prometheus.Registry) (*RingMetrics, error) {
	m := &RingMetrics{
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ring_published_total",
			Help: "Total number of slots published (single publish counts as 1, a batch commit counts as its size).",
		}),
		PacketTooLarge: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ring_packet_too_large_total",
			Help: "Total number of publish/write_batch calls rejected for exceeding slot payload capacity.",
		}),
		BatchOverflow: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ring_batch_overflow_total",
			Help: "Total number of reserve/commit/write_batch calls rejected for exceeding ring capacity.",
		}),
		SlowConsumerLag: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ring_slow_consumer_lag",
			Help: "Last-observed lag between write_cursor and the slowest reported reader cursor.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Published, m.PacketTooLarge, m.BatchOverflow, m.SlowConsumerLag} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AttachRing wires w's publish/reject callbacks into m, so every
// Publish, Reserve, Commit, and WriteBatch call is observed without
// the ring package importing this one.
func AttachRing(w *ring.Writer, m *RingMetrics) {
	w.OnMetrics(
		func(n int) { m.Published.Add(float64(n)) },
		func() { m.PacketTooLarge.Inc() },
		func() { m.BatchOverflow.Inc() },
	)
}

// ObserveSlowConsumerLag records the gap between w's write cursor and
// the slowest reported reader cursor, saturating at zero if the reader
// is ahead.
func ObserveSlowConsumerLag(w *ring.Writer, m *RingMetrics, slowestReaderCursor uint64) {
	cursor := w.Cursor()
	if slowestReaderCursor >= cursor {
		m.SlowConsumerLag.Set(0)
		return
	}
	m.SlowConsumerLag.Set(float64(cursor - slowestReaderCursor))
}

// IngestOutcome labels the result of one UDP ingestor poll cycle that
// consumed a datagram.
type IngestOutcome string

const (
	IngestOutcomeForwarded IngestOutcome = "forwarded"
	IngestOutcomeHeartbeat IngestOutcome = "heartbeat"
	IngestOutcomeTruncated IngestOutcome = "truncated"
	IngestOutcomeMalformed IngestOutcome = "malformed"
)

// IngestMetrics instruments the UDP ingestor.
type IngestMetrics struct {
	Packets *prometheus.CounterVec
}

// NewIngestMetrics creates and registers the ingestor's metrics against
// reg.
func NewIngestMetrics(reg *prometheus.Registry) (*IngestMetrics, error) {
	m := &IngestMetrics{
		Packets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_packets_total",
			Help: "Total number of UDP datagrams consumed by poll_cycle, labeled by outcome.",
		}, []string{"outcome"}),
	}
	if err := reg.Register(m.Packets); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe increments the counter for outcome.
func (m *IngestMetrics) Observe(outcome IngestOutcome) {
	m.Packets.WithLabelValues(string(outcome)).Inc()
}

// IndicatorMetrics instruments the VPIN/Hawkes/OFI engines.
type IndicatorMetrics struct {
	Updates *prometheus.CounterVec
}

// NewIndicatorMetrics creates and registers the indicator engines'
// metrics against reg.
func NewIndicatorMetrics(reg *prometheus.Registry) (*IndicatorMetrics, error) {
	m := &IndicatorMetrics{
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "indicator_updates_total",
			Help: "Total number of accepted updates per indicator engine.",
		}, []string{"engine"}),
	}
	if err := reg.Register(m.Updates); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe increments the counter for the named engine ("vpin", "hawkes",
// or "ofi").
func (m *IndicatorMetrics) Observe(engine string) {
	m.Updates.WithLabelValues(engine).Inc()
}
