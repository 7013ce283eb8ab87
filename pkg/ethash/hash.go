// Package ethash implements the Ethash epoch/seed resolver and the
// light (verification-only) proof-of-work routine that the stratum
// client uses to self-check submitted solutions.
package ethash

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Hash256 is an opaque 32-byte big-endian value: a seed hash, header
// hash, boundary, job id, mix hash, or PoW result.
type Hash256 [32]byte

// Hash64 is an opaque 8-byte big-endian value, used for the pool
// extranonce prefix.
type Hash64 [8]byte

// Bytes returns a copy of the hash's bytes.
func (h Hash256) Bytes() []byte {
	out := make([]byte, len(h))
	copy(out, h[:])
	return out
}

// Hex returns the "0x"-prefixed lowercase hex encoding of h.
func (h Hash256) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// String implements fmt.Stringer.
func (h Hash256) String() string {
	return h.Hex()
}

// IsZero reports whether h is the all-zero hash.
func (h Hash256) IsZero() bool {
	return h == Hash256{}
}

// Reverse returns a copy of h with its bytes in reverse order, used to
// convert between the little-endian target buffer used internally by
// diffToTarget and the big-endian Hash256 boundary on the wire.
func (h Hash256) Reverse() Hash256 {
	var out Hash256
	for i := range h {
		out[i] = h[len(h)-1-i]
	}
	return out
}

// LessOrEqual reports whether h, read as a big-endian unsigned integer,
// is less than or equal to other. This is the share-validity test:
// result <= boundary.
func (h Hash256) LessOrEqual(other Hash256) bool {
	for i := range h {
		if h[i] != other[i] {
			return h[i] < other[i]
		}
	}
	return true
}

// HexToHash256 decodes a "0x"-prefixed or bare hex string into a
// Hash256, left-padding with zeros on the left if the input is
// shorter than 64 hex chars (matching ethminer's h256(string)
// constructor behavior for short job ids).
func HexToHash256(s string) (Hash256, error) {
	s = trimHexPrefix(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash256{}, fmt.Errorf("decode hash: %w", err)
	}
	if len(b) > 32 {
		return Hash256{}, fmt.Errorf("hash too long: %d bytes", len(b))
	}
	var out Hash256
	copy(out[32-len(b):], b)
	return out, nil
}

// Bytes returns a copy of h's bytes.
func (h Hash64) Bytes() []byte {
	out := make([]byte, len(h))
	copy(out, h[:])
	return out
}

// Hex returns the "0x"-prefixed lowercase hex encoding of h.
func (h Hash64) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Uint64 interprets h as a big-endian uint64.
func (h Hash64) Uint64() uint64 {
	var v uint64
	for _, b := range h {
		v = v<<8 | uint64(b)
	}
	return v
}

// HexToHash64 decodes a hex string (right-padded with '0' to 16 chars
// by the caller already, per the extranonce contract) into a Hash64.
func HexToHash64(s string) (Hash64, error) {
	s = trimHexPrefix(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash64{}, fmt.Errorf("decode hash64: %w", err)
	}
	if len(b) != 8 {
		return Hash64{}, fmt.Errorf("hash64 must be 8 bytes, got %d", len(b))
	}
	var out Hash64
	copy(out[:], b)
	return out, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// keccak256 computes the Keccak-256 (pre-SHA3 "legacy" variant,
// matching Ethereum's sha3) digest of data.
func keccak256(data ...[]byte) Hash256 {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out Hash256
	h.Sum(out[:0])
	return out
}
