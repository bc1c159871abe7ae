//go:build !linux

package shm

import "github.com/fluxquant/mdcore/ring"

// OpenRegion always fails on non-Linux platforms: this module's
// shared-memory transport assumes /dev/shm and golang.org/x/sys/unix
// mmap semantics.
func OpenRegion(name string, layout ring.HeaderLayout, capacity uint64, slotSize int) (*Region, error) {
	return nil, ErrUnsupportedPlatform
}
