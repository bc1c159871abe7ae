// Package codec implements the SBE-style binary encoder: a pure
// byte-layout tool that writes typed fields into a caller-owned slice and
// advances an internal cursor, with no allocation.
//
// Adapted from the ring package's cursor-and-mask discipline: here the
// "index" is a byte cursor into an arbitrary payload slice rather than a
// slot index into a ring, but the same "bounds-check before every write"
// contract applies.
package codec

import "fmt"

// BufferOverflowError reports that a write would exceed the destination
// slice.
type BufferOverflowError struct {
	Cursor, Want, Len int
}

func (e *BufferOverflowError) Error() string {
	return fmt.Sprintf("codec: buffer overflow: cursor %d + %d > len %d", e.Cursor, e.Want, e.Len)
}

// Encoder writes little-endian scalar and composite fields into buf,
// advancing an internal byte cursor. The zero value is not usable; build
// one with NewEncoder.
type Encoder struct {
	buf    []byte
	cursor int
	// Strict, when true, makes write_group verify that each entry
	// writer emitted exactly block_size bytes, failing with a non-nil
	// error if not. Off by default: SBE readers that walk fields
	// sequentially don't require it, and the design explicitly treats
	// per-entry size as a caller obligation.
	Strict bool
}

// NewEncoder wraps buf for writing, starting at cursor 0.
func NewEncoder(buf []byte) *Encoder {
	return &Encoder{buf: buf}
}

// Cursor returns the number of bytes written so far.
func (e *Encoder) Cursor() int { return e.cursor }

// Remaining returns the number of bytes still available to write.
func (e *Encoder) Remaining() int { return len(e.buf) - e.cursor }

func (e *Encoder) checkBounds(size int) error {
	if e.cursor+size > len(e.buf) {
		return &BufferOverflowError{Cursor: e.cursor, Want: size, Len: len(e.buf)}
	}
	return nil
}

// WriteHeader writes the 8-byte SBE message header.
func (e *Encoder) WriteHeader(blockLength, templateID, schemaID, version uint16) error {
	if err := e.checkBounds(8); err != nil {
		return err
	}
	putU16(e.buf[e.cursor:], blockLength)
	putU16(e.buf[e.cursor+2:], templateID)
	putU16(e.buf[e.cursor+4:], schemaID)
	putU16(e.buf[e.cursor+6:], version)
	e.cursor += 8
	return nil
}

// WriteU8 writes a single byte.
func (e *Encoder) WriteU8(v uint8) error {
	if err := e.checkBounds(1); err != nil {
		return err
	}
	e.buf[e.cursor] = v
	e.cursor++
	return nil
}

// WriteU16 writes a little-endian uint16.
func (e *Encoder) WriteU16(v uint16) error {
	if err := e.checkBounds(2); err != nil {
		return err
	}
	putU16(e.buf[e.cursor:], v)
	e.cursor += 2
	return nil
}

// WriteU32 writes a little-endian uint32.
func (e *Encoder) WriteU32(v uint32) error {
	if err := e.checkBounds(4); err != nil {
		return err
	}
	putU32(e.buf[e.cursor:], v)
	e.cursor += 4
	return nil
}

// WriteU64 writes a little-endian uint64.
func (e *Encoder) WriteU64(v uint64) error {
	if err := e.checkBounds(8); err != nil {
		return err
	}
	putU64(e.buf[e.cursor:], v)
	e.cursor += 8
	return nil
}

// WriteI32 writes a little-endian int32.
func (e *Encoder) WriteI32(v int32) error {
	return e.WriteU32(uint32(v))
}

// WriteDecimal64Raw writes an exact (mantissa, exponent) pair without any
// floating-point conversion: 9 bytes.
func (e *Encoder) WriteDecimal64Raw(mantissa int64, exponent int8) error {
	if err := e.checkBounds(9); err != nil {
		return err
	}
	putU64(e.buf[e.cursor:], uint64(mantissa))
	e.buf[e.cursor+8] = byte(exponent)
	e.cursor += 9
	return nil
}

// WriteGroupHeader writes the 4-byte repeating-group header after
// verifying the full group (header + blockSize*numInGroup entry bytes)
// fits in the remaining buffer.
func (e *Encoder) WriteGroupHeader(blockSize, numInGroup uint16) error {
	total := 4 + int(blockSize)*int(numInGroup)
	if err := e.checkBounds(total); err != nil {
		return err
	}
	putU16(e.buf[e.cursor:], blockSize)
	putU16(e.buf[e.cursor+2:], numInGroup)
	e.cursor += 4
	return nil
}

// EntryWriter writes the body of one repeating-group entry. It is
// expected (but, outside Strict mode, not enforced) to emit exactly
// blockSize bytes.
type EntryWriter func(index int, enc *Encoder) error

// WriteGroup writes the group header, then invokes entryWriter once per
// entry in declaration order. The encoder does not allocate: entryWriter
// receives the same Encoder, mutated in place.
func (e *Encoder) WriteGroup(blockSize, numInGroup uint16, entryWriter EntryWriter) error {
	if err := e.WriteGroupHeader(blockSize, numInGroup); err != nil {
		return err
	}
	for i := 0; i < int(numInGroup); i++ {
		start := e.cursor
		if err := entryWriter(i, e); err != nil {
			return err
		}
		if e.Strict {
			if written := e.cursor - start; written != int(blockSize) {
				return fmt.Errorf("codec: entry %d wrote %d bytes, want block_size %d", i, written, blockSize)
			}
		}
	}
	return nil
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
