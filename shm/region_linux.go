//go:build linux

package shm

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/fluxquant/mdcore/ring"
)

// OpenRegion creates (or reuses, if already correctly sized) the
// /dev/shm/<name> backing file for a ring region with the given header
// layout, slot capacity, and slot size, then mmaps it MAP_SHARED so
// every process mapping the same name observes the same bytes.
//
// A freshly created (zero-length) backing file has its header
// initialized via ring.Header.InitMetadata; a pre-existing, correctly
// sized file is reused as-is so a reader process can reopen a region a
// writer already populated.
func OpenRegion(name string, layout ring.HeaderLayout, capacity uint64, slotSize int) (*Region, error) {
	size, err := Size(layout, capacity, slotSize)
	if err != nil {
		return nil, err
	}

	path := shmPath(name)
	f, fresh, err := openBackingFile(path, size)
	if err != nil {
		return nil, err
	}

	mapping, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shm: mmap %s: %w", path, err)
	}
	// The fd is no longer needed once mapped; the mapping keeps the
	// pages alive independent of the descriptor.
	if err := f.Close(); err != nil {
		unix.Munmap(mapping)
		return nil, fmt.Errorf("shm: close %s after mmap: %w", path, err)
	}

	r := &Region{
		path:    path,
		mapping: mapping,
		header:  mapping[:layout.Size],
		slots:   mapping[layout.Size:],
		closer: func() error {
			return unix.Munmap(mapping)
		},
	}
	if fresh {
		ring.NewHeader(r.header, layout).InitMetadata(uint16(capacity))
	}
	return r, nil
}
