// Package keys implements the harness's key provider: deterministic,
// injective encodings from a sample index to a backend key, and the
// dispatch-order sequencing (sequential or dense pseudo-random) that
// decides which sample index a given dispatch position visits.
package keys

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Type identifies one of the wire encodings a sample index can be mapped to.
type Type string

const (
	TypeInteger   Type = "integer"
	TypeString26  Type = "string26"
	TypeString90  Type = "string90"
	TypeString250 Type = "string250"
	TypeString506 Type = "string506"
	TypeUUID      Type = "uuid"
)

// widths holds the target byte width of each fixed-width string encoding.
var widths = map[Type]int{
	TypeString26:  26,
	TypeString90:  90,
	TypeString250: 250,
	TypeString506: 506,
}

// All lists every key type the CLI accepts, in the order they should be
// presented in usage/help text.
var All = []Type{TypeInteger, TypeString26, TypeString90, TypeString250, TypeString506, TypeUUID}

// Valid reports whether t names a supported key type.
func Valid(t string) bool {
	for _, k := range All {
		if string(k) == t {
			return true
		}
	}
	return false
}

// fillerAlphabet is the deterministic printable padding used to widen the
// 26-byte string encoding out to 90/250/506 bytes.
const fillerAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Key is a fully-encoded sample identifier: its logical sample index plus
// the wire bytes a backend adapter should use as the record's primary key.
type Key struct {
	Index int
	Type  Type
	Bytes []byte
}

// String renders the key in the form an adapter would use as a column value
// or document id: decimal for integer keys, the raw ASCII text for string
// keys, and the canonical textual form for UUIDs.
func (k Key) String() string {
	switch k.Type {
	case TypeInteger:
		return strconv.FormatInt(int64(int32(binary.BigEndian.Uint32(k.Bytes))), 10)
	case TypeUUID:
		u, err := uuid.FromBytes(k.Bytes)
		if err != nil {
			return fmt.Sprintf("%x", k.Bytes)
		}
		return u.String()
	default:
		return string(k.Bytes)
	}
}

// Encode maps a sample index to its wire encoding for the given key type.
// Encode is total, pure, and injective over index in [0, N) for any N, as
// required by the harness's key invariant.
func Encode(t Type, index int) (Key, error) {
	switch t {
	case TypeInteger:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(int32(index)))
		return Key{Index: index, Type: t, Bytes: b}, nil
	case TypeString26, TypeString90, TypeString250, TypeString506:
		width := widths[t]
		return Key{Index: index, Type: t, Bytes: encodeString(index, width)}, nil
	case TypeUUID:
		return Key{Index: index, Type: t, Bytes: encodeUUID(index)}, nil
	default:
		return Key{}, fmt.Errorf("keys: unsupported key type %q", t)
	}
}

// encodeString produces a deterministic, injective (over index), width-byte
// printable-ASCII encoding: the decimal sample index, left-padded with
// zeroes to 26 bytes, then widened with a fixed filler alphabet.
func encodeString(index, width int) []byte {
	const baseWidth = 26
	base := fmt.Sprintf("%0*d", baseWidth, index)
	if width <= baseWidth {
		return []byte(base[len(base)-width:])
	}
	out := make([]byte, 0, width)
	out = append(out, base...)
	for len(out) < width {
		need := width - len(out)
		if need >= len(fillerAlphabet) {
			out = append(out, fillerAlphabet...)
		} else {
			out = append(out, fillerAlphabet[:need]...)
		}
	}
	return out
}

// encodeUUID derives a UUIDv7-shaped 128-bit identifier from index: the
// first 6 bytes (the 48-bit field a clock-derived UUIDv7 uses for its
// timestamp) carry the low 48 bits of the index itself, which the
// version/variant bits never touch (guaranteeing injectivity across all
// indices below 2^48), the low 8 bytes are a deterministic hash-derived
// filler, and the version/variant nibbles are set per RFC 9562 so the
// result is a well-formed (if not clock-derived) UUIDv7.
func encodeUUID(index int) []byte {
	b := make([]byte, 16)
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], uint64(index))
	copy(b[0:6], idx[2:8])
	binary.BigEndian.PutUint64(b[8:16], mix(uint64(index)))
	b[6] = (b[6] & 0x0F) | 0x70 // version 7
	b[8] = (b[8] & 0x3F) | 0x80 // RFC 4122 variant
	return b
}

// mix is a small, fast, non-cryptographic avalanche mix used only to fill
// the non-identifying bytes of a derived UUID; it need not resist analysis,
// only avoid an obviously degenerate (e.g. all-zero) filler.
func mix(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
