// Package config holds validated, in-process configuration structs for
// each component. It deliberately does not read files or environment
// variables: config-file/CLI parsing and persistence are out of scope
// for this module, matching go-arcade-arcade's Conf.Validate() pattern
// (see logging.Conf) without that package's file/env loaders.
package config

import (
	"fmt"
	"math"

	"github.com/fluxquant/mdcore/ring"
)

// RingConfig describes one ring transport instance.
type RingConfig struct {
	Capacity uint64
	SlotSize int
	Mode     ring.Mode
	Layout   ring.HeaderLayout
}

// Validate checks that Capacity is a positive power of two and
// SlotSize is positive.
func (c RingConfig) Validate() error {
	if c.Capacity == 0 || c.Capacity&(c.Capacity-1) != 0 {
		return fmt.Errorf("config: ring capacity must be a power of two, got %d", c.Capacity)
	}
	if c.SlotSize <= 0 {
		return fmt.Errorf("config: ring slot size must be positive, got %d", c.SlotSize)
	}
	return nil
}

// UDPConfig describes one multicast ingestor instance.
type UDPConfig struct {
	MulticastAddr string
	Interface     string
	RecvBufSize   int
}

// Validate checks that the required fields are set.
func (c UDPConfig) Validate() error {
	if c.MulticastAddr == "" {
		return fmt.Errorf("config: multicast address must be set")
	}
	if c.RecvBufSize <= 0 {
		return fmt.Errorf("config: recv buffer size must be positive, got %d", c.RecvBufSize)
	}
	return nil
}

// VPINConfig describes a volume-bucketed VPIN engine.
type VPINConfig struct {
	BucketVolume float64
	WindowSize   int
}

// Validate checks that both parameters are positive.
func (c VPINConfig) Validate() error {
	if c.BucketVolume <= 0 {
		return fmt.Errorf("config: vpin bucket volume must be positive, got %v", c.BucketVolume)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("config: vpin window size must be positive, got %d", c.WindowSize)
	}
	return nil
}

// HawkesConfig describes a self-exciting intensity engine.
type HawkesConfig struct {
	Baseline float64
	Alpha    float64
	Beta     float64
}

// Validate checks the parameter constraints the engine itself
// enforces, so misconfiguration is caught at wiring time rather than
// when hawkes.New is called.
func (c HawkesConfig) Validate() error {
	for _, v := range []float64{c.Baseline, c.Alpha, c.Beta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("config: hawkes parameters must be finite, got %v", v)
		}
	}
	if c.Baseline < 0 {
		return fmt.Errorf("config: hawkes baseline must be non-negative, got %v", c.Baseline)
	}
	if c.Alpha < 0 {
		return fmt.Errorf("config: hawkes alpha must be non-negative, got %v", c.Alpha)
	}
	if c.Beta <= 0 {
		return fmt.Errorf("config: hawkes beta must be positive, got %v", c.Beta)
	}
	return nil
}

// PipelineConfig binds one ingestor to one ring transport.
type PipelineConfig struct {
	Ring RingConfig
	UDP  UDPConfig
}

// Validate validates both embedded configs.
func (c PipelineConfig) Validate() error {
	if err := c.Ring.Validate(); err != nil {
		return err
	}
	if err := c.UDP.Validate(); err != nil {
		return err
	}
	return nil
}
