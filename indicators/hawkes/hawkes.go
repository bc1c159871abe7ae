// Package hawkes implements a self-exciting point-process intensity
// lambda(t) = mu + sum_i alpha*exp(-beta*(t-t_i)) for past events t_i < t,
// tracked incrementally via exponential decay rather than by replaying
// the full event history.
package hawkes

import (
	"fmt"
	"math"
)

// minTimeEps is the tolerance below which a timestamp regression is
// treated as float drift rather than an ordering violation.
const minTimeEps = 1e-12

// Engine is not safe for concurrent use.
type Engine struct {
	baseline float64
	alpha    float64
	beta     float64

	lastIntensity float64
	lastTimestamp float64
	hasLast       bool
}

// New validates baseline (finite, >= 0), alpha (finite, >= 0), and beta
// (finite, > 0) before constructing an Engine with last_intensity seeded
// to baseline.
func New(baseline, alpha, beta float64) (*Engine, error) {
	if !isFinite(baseline) || baseline < 0 {
		return nil, fmt.Errorf("hawkes: baseline intensity must be finite and >= 0, got %v", baseline)
	}
	if !isFinite(alpha) || alpha < 0 {
		return nil, fmt.Errorf("hawkes: alpha must be finite and >= 0, got %v", alpha)
	}
	if !isFinite(beta) || beta <= 0 {
		return nil, fmt.Errorf("hawkes: beta must be finite and > 0, got %v", beta)
	}
	return &Engine{
		baseline:      baseline,
		alpha:         alpha,
		beta:          beta,
		lastIntensity: baseline,
	}, nil
}

// Reset clears event memory, returning the engine to its constructed
// state.
func (e *Engine) Reset() {
	e.lastIntensity = e.baseline
	e.hasLast = false
}

// CurrentIntensity returns the last computed intensity without any decay
// applied (i.e. as of the last Update call).
func (e *Engine) CurrentIntensity() float64 { return e.lastIntensity }

// Update records an event at timestamp t, decaying the prior intensity
// toward baseline over the elapsed time and then adding one jump of
// size alpha. t must be finite and non-decreasing (within minTimeEps) with
// respect to the previous call.
func (e *Engine) Update(t float64) (float64, error) {
	if err := validateTimestamp(t); err != nil {
		return 0, err
	}
	if e.hasLast {
		if t+minTimeEps < e.lastTimestamp {
			return 0, fmt.Errorf("hawkes: timestamps must be non-decreasing for updates (got %v after %v)", t, e.lastTimestamp)
		}
		dt := math.Max(t-e.lastTimestamp, 0)
		e.lastIntensity = e.decayedIntensity(dt) + e.alpha
	} else {
		e.lastIntensity = e.baseline + e.alpha
	}
	e.lastTimestamp = t
	e.hasLast = true
	return e.lastIntensity, nil
}

// IntensityAt is a pure query: it returns the decayed intensity at t
// (without adding alpha) and does not mutate engine state. The same
// monotonicity requirement as Update applies.
func (e *Engine) IntensityAt(t float64) (float64, error) {
	if err := validateTimestamp(t); err != nil {
		return 0, err
	}
	if !e.hasLast {
		return e.baseline, nil
	}
	if t+minTimeEps < e.lastTimestamp {
		return 0, fmt.Errorf("hawkes: query timestamp must be >= last processed event (got %v after %v)", t, e.lastTimestamp)
	}
	dt := math.Max(t-e.lastTimestamp, 0)
	return e.decayedIntensity(dt), nil
}

func (e *Engine) decayedIntensity(dt float64) float64 {
	if dt <= 0 {
		return e.lastIntensity
	}
	decay := math.Exp(-e.beta * dt)
	return e.baseline + (e.lastIntensity-e.baseline)*decay
}

func validateTimestamp(t float64) error {
	if !isFinite(t) {
		return fmt.Errorf("hawkes: timestamps must be finite, got %v", t)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
