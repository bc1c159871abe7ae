package codec

import (
	"errors"
	"math"
	"testing"
)

func TestWriteHeader(t *testing.T) {
	buf := make([]byte, 64)
	enc := NewEncoder(buf)
	if err := enc.WriteHeader(16, 2, 1, 0); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if enc.Cursor() != 8 {
		t.Fatalf("expected cursor 8, got %d", enc.Cursor())
	}
	want := []byte{0x10, 0x00, 0x02, 0x00, 0x01, 0x00, 0x00, 0x00}
	for i, b := range want {
		if buf[i] != b {
			t.Fatalf("byte %d: want %#x got %#x", i, b, buf[i])
		}
	}
}

// S5 (decimal round-trip): write_decimal64(2330.5) writes
// mantissa = 23305, exponent = -1; re-reading and multiplying yields
// 2330.5 exactly.
func TestWriteDecimal64_ReferenceValue(t *testing.T) {
	buf := make([]byte, 16)
	enc := NewEncoder(buf)
	if err := enc.WriteDecimal64(2330.5); err != nil {
		t.Fatalf("WriteDecimal64: %v", err)
	}
	mantissa := int64(leUint64(buf[0:8]))
	exponent := int8(buf[8])
	if mantissa != 23305 {
		t.Fatalf("expected mantissa 23305, got %d", mantissa)
	}
	if exponent != -1 {
		t.Fatalf("expected exponent -1, got %d", exponent)
	}
	got := DecodeDecimal64(mantissa, exponent)
	if math.Abs(got-2330.5) > 1e-9 {
		t.Fatalf("round-trip mismatch: got %v", got)
	}
}

func TestWriteDecimal64_RoundTripProperty(t *testing.T) {
	values := []float64{0, 1, -1, 100, 0.1, 123.456, -9999.99, 42, 3.0001}
	for _, v := range values {
		buf := make([]byte, 9)
		enc := NewEncoder(buf)
		if err := enc.WriteDecimal64(v); err != nil {
			t.Fatalf("WriteDecimal64(%v): %v", v, err)
		}
		mantissa := int64(leUint64(buf[0:8]))
		exponent := int8(buf[8])
		got := DecodeDecimal64(mantissa, exponent)
		if math.Abs(got-v) > 1e-9 {
			t.Fatalf("value %v: round-trip got %v (mantissa=%d exponent=%d)", v, got, mantissa, exponent)
		}
	}
}

func TestWriteDecimal64Raw_ExactBytes(t *testing.T) {
	buf := make([]byte, 9)
	enc := NewEncoder(buf)
	if err := enc.WriteDecimal64Raw(23305, -1); err != nil {
		t.Fatalf("WriteDecimal64Raw: %v", err)
	}
	if int64(leUint64(buf[0:8])) != 23305 {
		t.Fatalf("mantissa mismatch")
	}
	if int8(buf[8]) != -1 {
		t.Fatalf("exponent mismatch")
	}
}

func TestBufferOverflow(t *testing.T) {
	buf := make([]byte, 4)
	enc := NewEncoder(buf)
	err := enc.WriteU64(123)
	var overflow *BufferOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected BufferOverflowError, got %v", err)
	}
}

func TestWriteGroup(t *testing.T) {
	buf := make([]byte, 128)
	enc := NewEncoder(buf)

	if err := enc.WriteHeader(16, 2, 1, 0); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	err := enc.WriteGroup(14, 2, func(i int, e *Encoder) error {
		if err := e.WriteU8(uint8(i)); err != nil {
			return err
		}
		if err := e.WriteDecimal64(2330.5 + float64(i)); err != nil {
			return err
		}
		return e.WriteI32(int32(10 * (i + 1)))
	})
	if err != nil {
		t.Fatalf("WriteGroup: %v", err)
	}

	if enc.Cursor() != 40 {
		t.Fatalf("expected cursor 40, got %d", enc.Cursor())
	}

	if buf[8] != 0x0E || buf[9] != 0x00 || buf[10] != 0x02 || buf[11] != 0x00 {
		t.Fatalf("unexpected group header bytes: % x", buf[8:12])
	}
	if buf[12] != 0 {
		t.Fatalf("expected entry 0 type byte 0, got %d", buf[12])
	}
}

func TestWriteGroup_Overflow(t *testing.T) {
	buf := make([]byte, 20) // too small for 2*14+4 = 32
	enc := NewEncoder(buf)
	err := enc.WriteGroup(14, 2, func(i int, e *Encoder) error { return nil })
	var overflow *BufferOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected BufferOverflowError, got %v", err)
	}
}

func TestWriteGroup_StrictModeCatchesShortEntry(t *testing.T) {
	buf := make([]byte, 64)
	enc := NewEncoder(buf)
	enc.Strict = true
	err := enc.WriteGroup(8, 1, func(i int, e *Encoder) error {
		return e.WriteU32(1) // only 4 of 8 declared bytes
	})
	if err == nil {
		t.Fatal("expected strict-mode error for short entry")
	}
}

func TestMessages_QuoteV1RoundTripsGroupSizes(t *testing.T) {
	buf := make([]byte, 256)
	enc := NewEncoder(buf)
	msg := QuoteV1{
		SecID:       7,
		TimestampNs: 42,
		Bids:        []QuoteLevel{{Price: 100.5, Qty: 10}, {Price: 100.25, Qty: 5}},
		Asks:        []QuoteLevel{{Price: 101, Qty: 8}},
	}
	if err := WriteQuoteV1(enc, msg); err != nil {
		t.Fatalf("WriteQuoteV1: %v", err)
	}
	// header(8) + body(16) + bid group(4 + 2*13) + ask group(4 + 1*13)
	want := 8 + 16 + (4 + 2*13) + (4 + 1*13)
	if enc.Cursor() != want {
		t.Fatalf("expected cursor %d, got %d", want, enc.Cursor())
	}
}

// Each template's BlockLength constant is the schema's published
// root-block length, not a recount of the writer's field bytes (see the
// doc comment on the BlockLength constants in messages.go). This pins
// the five reference-schema constants to their literal wire values so a
// future edit doesn't silently "correct" them back to a field byte sum.
func TestMessages_BlockLengthsMatchSchemaConstants(t *testing.T) {
	cases := []struct {
		name        string
		got         uint16
		wantLiteral uint16
	}{
		{"LegacyTick", BlockLengthLegacyTick, 16},
		{"TickV1", BlockLengthTickV1, 24},
		{"QuoteV1", BlockLengthQuoteV1, 16},
		{"SnapshotV1", BlockLengthSnapshotV1, 32},
		{"SystemEvent", BlockLengthSystemEvent, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.wantLiteral {
				t.Fatalf("expected schema block_length %d, got %d", tc.wantLiteral, tc.got)
			}
		})
	}
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
