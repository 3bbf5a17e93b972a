package bftcrdt

import "encoding/binary"

// Encodable is implemented by any value that contributes to a node's
// canonical byte encoding. Section 4.1 fixes these encodings bit-for-bit so
// that digest computation is reproducible across independent
// implementations: little-endian integers, single-byte booleans, raw byte
// strings with no length prefix.
type Encodable interface {
	Encode() []byte
}

// encodeUint64 renders n as 8 little-endian bytes.
func encodeUint64(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}

// encodeBool renders b as a single byte, 1 or 0.
func encodeBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

// encodeString renders s as its raw UTF-8 bytes, unprefixed. Used for
// element values and user identifiers, which are opaque byte strings to the
// hash graph.
func encodeString(s string) []byte {
	return []byte(s)
}

// encodeDigest renders d as its raw hex-string bytes (64 bytes), unprefixed.
func encodeDigest(d Digest) []byte {
	return []byte(d)
}

// concatBytes concatenates a sequence of byte slices without any length
// prefixing, matching the "no length prefixes are inserted" rule of 4.1.
func concatBytes(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
