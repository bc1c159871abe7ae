// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

// Package ring implements the single-producer / multi-consumer shared-memory
// ring transport: a fixed-capacity, power-of-two slot array with a single
// atomic write cursor as the sole producer/consumer synchronization point.
//
// Adapted from a generic in-process SPSC ring buffer into a byte-oriented
// transport over a caller-supplied (possibly mmap'd) region: slots are raw
// bytes of a fixed SLOT_SIZE, the header lives at a frozen byte offset, and
// readers outside this process observe the cursor directly rather than
// through a Go channel or mutex.
package ring

import (
	"sync/atomic"
	"unsafe"
)

// HeaderLayout describes where the atomic write cursor lives within a
// header region of a given total size. Two variants are frozen by
// metadata_version; an implementer must pick one per ring and never mix
// them within a single region.
type HeaderLayout struct {
	// Size is the total header size in bytes; always a multiple of 64.
	Size int
	// CursorOffset is the byte offset of the 8-byte atomic write_cursor
	// within the header.
	CursorOffset int
	// MetadataVersion identifies this layout to readers.
	MetadataVersion uint16
}

// FramedHeaderLayout is the reference 128-byte header: metadata_version,
// buffer_capacity, padding, then the cursor on its own cache line.
var FramedHeaderLayout = HeaderLayout{Size: 128, CursorOffset: 8, MetadataVersion: 1}

// CursorOnlyHeaderLayout is the standalone-transport variant: 64 bytes,
// cursor at offset 0, no metadata fields.
var CursorOnlyHeaderLayout = HeaderLayout{Size: 64, CursorOffset: 0, MetadataVersion: 0}

// MetadataVersionTruncationFlag is reserved for a future header revision
// that lets readers detect ingestor-side truncation via a status bit.
// No code path emits this version yet.
const MetadataVersionTruncationFlag = 2

// Header is a view over a header-sized byte region. The cursor lives on
// its own cache line (the layout guarantees this for the framed variant)
// and is the only field touched after construction.
type Header struct {
	raw    []byte
	layout HeaderLayout
}

// NewHeader wraps raw (which must be exactly layout.Size bytes long) as a
// Header view. It does not initialize the bytes; callers that own the
// region (shm.OpenRegion, or a test harness) are responsible for that.
func NewHeader(raw []byte, layout HeaderLayout) *Header {
	if len(raw) != layout.Size {
		panic("ring: header buffer size does not match layout")
	}
	return &Header{raw: raw, layout: layout}
}

func (h *Header) cursorPtr() *uint64 {
	return (*uint64)(unsafe.Pointer(&h.raw[h.layout.CursorOffset]))
}

// LoadCursor performs an atomic load of write_cursor. Go's atomic package
// provides sequentially-consistent semantics on every architecture this
// module targets, which is strictly stronger than the Acquire/Release
// pairing the wire contract requires.
func (h *Header) LoadCursor() uint64 {
	return atomic.LoadUint64(h.cursorPtr())
}

// StoreCursor performs an atomic, Release-equivalent store of write_cursor.
// This is the single publication point: every payload byte write must be
// ordered before this call returns.
func (h *Header) StoreCursor(v uint64) {
	atomic.StoreUint64(h.cursorPtr(), v)
}

// InitMetadata writes metadata_version and buffer_capacity for the framed
// layout. It is a no-op field-wise for the cursor-only layout, which
// carries no metadata fields.
func (h *Header) InitMetadata(capacity uint16) {
	if h.layout.CursorOffset < 4 {
		return
	}
	littleEndianPutUint16(h.raw[0:2], h.layout.MetadataVersion)
	littleEndianPutUint16(h.raw[2:4], capacity)
}

// MetadataVersion reads back the stamped metadata_version, or 0 for the
// cursor-only layout.
func (h *Header) MetadataVersion() uint16 {
	if h.layout.CursorOffset < 4 {
		return 0
	}
	return littleEndianUint16(h.raw[0:2])
}

func littleEndianPutUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func littleEndianUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
