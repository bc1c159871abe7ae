package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/fluxquant/mdcore/ring"
)

func newTestWriter(t *testing.T) *ring.Writer {
	t.Helper()
	layout := ring.CursorOnlyHeaderLayout
	header := ring.NewHeader(make([]byte, layout.Size), layout)
	w, err := ring.NewWriter(header, make([]byte, 8*16), 8, 16, ring.ModeRaw)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	return w
}

func TestAttachRing_CountsPublishAndRejections(t *testing.T) {
	reg := prometheus.NewRegistry()
	rm, err := NewRingMetrics(reg)
	if err != nil {
		t.Fatalf("NewRingMetrics: %v", err)
	}
	w := newTestWriter(t)
	AttachRing(w, rm)

	if _, err := w.Publish([]byte("hello")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := w.Publish(make([]byte, 100)); err == nil {
		t.Fatal("expected oversize rejection")
	}
	if _, err := w.Reserve(100); err == nil {
		t.Fatal("expected batch overflow rejection")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if got := counterValue(t, families, "ring_published_total"); got != 1 {
		t.Fatalf("expected published=1, got %v", got)
	}
	if got := counterValue(t, families, "ring_packet_too_large_total"); got != 1 {
		t.Fatalf("expected packet_too_large=1, got %v", got)
	}
	if got := counterValue(t, families, "ring_batch_overflow_total"); got != 1 {
		t.Fatalf("expected batch_overflow=1, got %v", got)
	}
}

func TestObserveSlowConsumerLag_SaturatesAtZero(t *testing.T) {
	reg := prometheus.NewRegistry()
	rm, err := NewRingMetrics(reg)
	if err != nil {
		t.Fatalf("NewRingMetrics: %v", err)
	}
	w := newTestWriter(t)
	if _, err := w.Publish([]byte("a")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	ObserveSlowConsumerLag(w, rm, 0)
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if got := gaugeValue(t, families, "ring_slow_consumer_lag"); got != 1 {
		t.Fatalf("expected lag=1, got %v", got)
	}

	ObserveSlowConsumerLag(w, rm, 999)
	families, err = reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if got := gaugeValue(t, families, "ring_slow_consumer_lag"); got != 0 {
		t.Fatalf("expected lag saturated to 0, got %v", got)
	}
}

func gaugeValue(t *testing.T, families []*dto.MetricFamily, name string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() == name {
			return fam.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric family %q not found", name)
	return 0
}
