// Package objects defines gnew's content-addressed object model: Blob, Tree,
// and Commit, plus the Hash type that names them and the codec that turns
// them into the bytes stamped with that hash.
package objects

import (
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

// Size is the width of a Hash in bytes (160 bits).
const Size = 20

// Hash is the 160-bit digest that names every object and is used verbatim
// as its filename in the object store.
type Hash [Size]byte

// ZeroHash is the all-zero Hash; never a valid object hash in practice.
// A missing commit parent is a nil *Hash, not ZeroHash.
var ZeroHash Hash

// Sum computes the Hash of data. The concrete digest is the first 20 bytes
// of BLAKE3-256; gnew treats hashing as an opaque function over bytes and
// this is simply the pack's chosen implementation of it.
func Sum(data []byte) Hash {
	full := blake3.Sum256(data)
	var h Hash
	copy(h[:], full[:Size])
	return h
}

// String renders the hash as 40 lowercase hex characters.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero sentinel.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// ParseHash parses a 40-character lowercase hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != Size*2 {
		return h, fmt.Errorf("objects: invalid hash length %d, want %d", len(s), Size*2)
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("objects: invalid hash %q: %w", s, err)
	}
	copy(h[:], decoded)
	return h, nil
}
