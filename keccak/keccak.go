// Package keccak provides the fixed-width hash value type used for entity
// identifiers and scoped sub-record keys.
package keccak

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/AryanGodara/Paprika/nibble"
)

// Bytes is the fixed width of all hashes used by the slotted map structures.
const Bytes = 32

// Hash is a Keccak-256 digest.
type Hash [Bytes]byte

// Sum computes the Keccak-256 digest of data.
func Sum(data []byte) Hash {
	var h Hash
	d := sha3.NewLegacyKeccak256()
	_, _ = d.Write(data)
	copy(h[:], d.Sum(nil))
	return h
}

// Path expands the hash to its full 64-nibble path form.
func (h Hash) Path() nibble.Path {
	return nibble.FromBytes(h[:])
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}
