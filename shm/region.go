// Package shm backs a ring.Writer with a memory-mapped file under
// /dev/shm, adapted from AlephTX's feeder/shm ring buffer (which opens
// the backing file with os.OpenFile+Truncate and maps it with
// syscall.Mmap) onto golang.org/x/sys/unix and the header/slot layout
// defined by package ring.
package shm

import (
	"errors"
	"fmt"
	"os"

	"github.com/fluxquant/mdcore/ring"
)

// ErrUnsupportedPlatform is returned by OpenRegion on platforms without
// a POSIX shared-memory mapping (everything this package builds for
// except linux).
var ErrUnsupportedPlatform = errors.New("shm: shared-memory regions are only supported on linux")

// Region owns a memory-mapped backing file split into a fixed-size
// header and a slot area, sized for the given ring.HeaderLayout,
// capacity, and per-slot size.
type Region struct {
	path    string
	mapping []byte
	header  []byte
	slots   []byte
	closer  func() error
}

// Size computes the total backing-file size for a region with the
// given header layout, slot capacity, and slot size.
func Size(layout ring.HeaderLayout, capacity uint64, slotSize int) (int64, error) {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		return 0, fmt.Errorf("shm: capacity must be a power of two, got %d", capacity)
	}
	if slotSize <= 0 {
		return 0, fmt.Errorf("shm: slot size must be positive, got %d", slotSize)
	}
	return int64(layout.Size) + int64(capacity)*int64(slotSize), nil
}

// Header returns the region's header bytes, sized per the
// ring.HeaderLayout it was opened with.
func (r *Region) Header() []byte { return r.header }

// Slots returns the region's slot-area bytes, sized capacity*slotSize.
func (r *Region) Slots() []byte { return r.slots }

// Path returns the backing file path this region was opened from.
func (r *Region) Path() string { return r.path }

// Close unmaps the region. The backing file descriptor was already
// closed by OpenRegion right after mapping.
func (r *Region) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

func shmPath(name string) string {
	return "/dev/shm/" + name
}

// openBackingFile opens (creating if necessary) the file at path and
// ensures it is exactly size bytes long. It reports whether the file
// was empty before this call, meaning its header still needs
// initializing.
func openBackingFile(path string, size int64) (f *os.File, fresh bool, err error) {
	f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, false, fmt.Errorf("shm: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, false, fmt.Errorf("shm: stat %s: %w", path, err)
	}
	fresh = info.Size() == 0
	if info.Size() != size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, false, fmt.Errorf("shm: truncate %s to %d: %w", path, size, err)
		}
	}
	return f, fresh, nil
}
