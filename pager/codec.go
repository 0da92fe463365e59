package pager

import (
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"
)

// KeyCodec is the encode/decode/ordering contract a type must supply to be
// used as a tree key, per §9's design note: encoding must be a total,
// injective function, and comparison must operate on the logical value, not
// the byte encoding.
type KeyCodec[K any] interface {
	Encode(K) []byte
	Decode([]byte) K
	Compare(a, b K) int
}

// ValueCodec is the encode/decode contract for values. Values are never
// compared, only stored and retrieved.
type ValueCodec[V any] interface {
	Encode(V) []byte
	Decode([]byte) V
}

// Uint16Codec encodes keys or values as little-endian u16, matching the
// concrete scenarios in §8 (PAGE_SIZE = 64, key codec = little-endian u16).
type Uint16Codec struct{}

func (Uint16Codec) Encode(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func (Uint16Codec) Decode(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

func (Uint16Codec) Compare(a, b uint16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Uint8Codec encodes keys or values as a single byte.
type Uint8Codec struct{}

func (Uint8Codec) Encode(v uint8) []byte { return []byte{v} }
func (Uint8Codec) Decode(b []byte) uint8 { return b[0] }
func (Uint8Codec) Compare(a, b uint8) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Uint32Codec encodes keys or values as little-endian u32.
type Uint32Codec struct{}

func (Uint32Codec) Encode(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func (Uint32Codec) Decode(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func (Uint32Codec) Compare(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Uint64Codec encodes keys or values as little-endian u64.
type Uint64Codec struct{}

func (Uint64Codec) Encode(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func (Uint64Codec) Decode(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func (Uint64Codec) Compare(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// BytesCodec stores values verbatim. Per §9, the length is recovered from
// the pointer rather than stored inline, so encode/decode are identity.
type BytesCodec struct{}

func (BytesCodec) Encode(v []byte) []byte { return v }
func (BytesCodec) Decode(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// StringCodec stores strings as raw UTF-8 bytes, matching §8's "value codec
// = raw UTF-8 bytes". It can also serve as a KeyCodec, ordering by the
// decoded string's natural lexical order.
type StringCodec struct{}

func (StringCodec) Encode(v string) []byte { return []byte(v) }
func (StringCodec) Decode(b []byte) string { return string(b) }
func (StringCodec) Compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// UUIDCodec stores a uuid.UUID as its 16-byte canonical form, grounded in
// tinySQL's ParseUUID/UUIDToBytes helpers but generalized into a full
// KeyCodec/ValueCodec pair. Ordering compares the 16 bytes directly, which
// matches uuid.UUID's own byte layout.
type UUIDCodec struct{}

func (UUIDCodec) Encode(v uuid.UUID) []byte {
	b := make([]byte, 16)
	copy(b, v[:])
	return b
}

func (UUIDCodec) Decode(b []byte) uuid.UUID {
	var u uuid.UUID
	copy(u[:], b)
	return u
}

func (UUIDCodec) Compare(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
