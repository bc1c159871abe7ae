//go:build linux

package shm

import (
	"fmt"
	"os"
	"testing"

	"github.com/fluxquant/mdcore/ring"
)

func TestOpenRegion_CreatesInitializesAndReopens(t *testing.T) {
	name := fmt.Sprintf("mdcore-test-%d", os.Getpid())
	defer os.Remove(shmPath(name))

	r1, err := OpenRegion(name, ring.FramedHeaderLayout, 8, 64)
	if err != nil {
		t.Fatalf("OpenRegion: %v", err)
	}
	header := ring.NewHeader(r1.Header(), ring.FramedHeaderLayout)
	if got := header.MetadataVersion(); got != ring.FramedHeaderLayout.MetadataVersion {
		t.Fatalf("expected metadata_version %d, got %d", ring.FramedHeaderLayout.MetadataVersion, got)
	}
	header.StoreCursor(42)
	if err := r1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r2, err := OpenRegion(name, ring.FramedHeaderLayout, 8, 64)
	if err != nil {
		t.Fatalf("reopen OpenRegion: %v", err)
	}
	defer r2.Close()
	header2 := ring.NewHeader(r2.Header(), ring.FramedHeaderLayout)
	if got := header2.LoadCursor(); got != 42 {
		t.Fatalf("expected reopened region to preserve cursor 42, got %d", got)
	}
	if len(r2.Slots()) != 8*64 {
		t.Fatalf("expected slot area of 512 bytes, got %d", len(r2.Slots()))
	}
}
