// Package vpin implements the Volume-synchronized Probability of Informed
// trading indicator: a rolling mean of |buy-sell| imbalance over
// equal-volume buckets.
//
// Adapted from the ring package's "fixed capacity, explicit overwrite"
// discipline: the rolling window here is a plain FIFO slice rather than a
// ring buffer, since window_size is small relative to the tick rate and
// clarity matters more than the allocation this costs on resize.
package vpin

import (
	"fmt"
	"math"
)

// bucketEpsilon absorbs float drift when deciding a bucket is full.
const bucketEpsilon = 1e-9

// Engine is not safe for concurrent use; it is driven by a single decoder
// goroutine per spec.
type Engine struct {
	bucketVolume float64
	windowSize   int

	filledVolume float64
	buyVolume    float64
	sellVolume   float64

	imbalances   []float64
	imbalanceSum float64

	onUpdate func()
}

// New validates bucketVolume (positive, finite) and windowSize (>= 1)
// before constructing an Engine with empty state.
func New(bucketVolume float64, windowSize int) (*Engine, error) {
	if !isFinite(bucketVolume) || bucketVolume <= 0 {
		return nil, fmt.Errorf("vpin: bucket_volume must be a positive, finite number, got %v", bucketVolume)
	}
	if windowSize < 1 {
		return nil, fmt.Errorf("vpin: window_size must be >= 1, got %d", windowSize)
	}
	return &Engine{
		bucketVolume: bucketVolume,
		windowSize:   windowSize,
		imbalances:   make([]float64, 0, windowSize),
	}, nil
}

// OnUpdate wires a metrics callback invoked once per accepted
// UpdateSignedVolume call (whether or not it finalizes a bucket).
func (e *Engine) OnUpdate(fn func()) { e.onUpdate = fn }

// BucketVolume returns the fixed per-bucket volume.
func (e *Engine) BucketVolume() float64 { return e.bucketVolume }

// BucketsReady returns the number of completed buckets currently held in
// the rolling window (capped at windowSize).
func (e *Engine) BucketsReady() int { return len(e.imbalances) }

// UpdateSignedVolume consumes one signed trade (positive = buy, negative
// = sell), splitting it across bucket boundaries as needed, and returns
// the current VPIN value once windowSize buckets have been finalized.
// Non-finite input is rejected; an exact zero is a no-op.
func (e *Engine) UpdateSignedVolume(v float64) (float64, bool, error) {
	if !isFinite(v) {
		return 0, false, fmt.Errorf("vpin: signed_volume must be a finite float, got %v", v)
	}
	if v != 0 {
		e.consumeTrade(v)
	}
	if e.onUpdate != nil {
		e.onUpdate()
	}
	return e.current()
}

func (e *Engine) consumeTrade(v float64) {
	isBuy := v > 0
	remaining := math.Abs(v)

	for remaining > 0 {
		if e.bucketIsFull() {
			e.finalizeBucket()
			continue
		}
		space := math.Max(e.bucketVolume-e.filledVolume, 0)
		take := math.Min(remaining, space)
		if take <= 0 {
			e.finalizeBucket()
			continue
		}
		if isBuy {
			e.buyVolume += take
		} else {
			e.sellVolume += take
		}
		e.filledVolume += take
		remaining -= take

		if e.bucketIsFull() {
			e.finalizeBucket()
		}
	}
}

func (e *Engine) bucketIsFull() bool {
	return e.bucketVolume-e.filledVolume <= bucketEpsilon
}

func (e *Engine) finalizeBucket() {
	if e.filledVolume <= 0 {
		return
	}
	imbalance := math.Abs(e.buyVolume - e.sellVolume)
	e.imbalances = append(e.imbalances, imbalance)
	e.imbalanceSum += imbalance
	if len(e.imbalances) > e.windowSize {
		old := e.imbalances[0]
		e.imbalances = e.imbalances[1:]
		e.imbalanceSum -= old
	}
	e.buyVolume = 0
	e.sellVolume = 0
	e.filledVolume = 0
}

func (e *Engine) current() (float64, bool, error) {
	if len(e.imbalances) < e.windowSize {
		return 0, false, nil
	}
	denom := e.bucketVolume * float64(e.windowSize)
	return e.imbalanceSum / denom, true, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
