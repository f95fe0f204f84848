package slotted

import (
	"fmt"

	"github.com/AryanGodara/Paprika/keccak"
	"github.com/AryanGodara/Paprika/nibble"
)

// Key is the tagged key value stored by an Array.
//
// Two keys are equal iff they have the same kind, identical nibble paths
// and, for KindScoped, identical secondary hashes. The entity path fully
// participates in identity, so two scoped keys with the same hash under
// different entities never collide.
type Key struct {
	Kind Kind
	Path nibble.Path
	Hash keccak.Hash // zero unless Kind is KindScoped
}

// EntityKey returns the key for a top-level entity path.
func EntityKey(p nibble.Path) Key {
	return Key{Kind: KindEntity, Path: p}
}

// ScopedKey returns the key for a sub-record owned by the entity at p.
func ScopedKey(p nibble.Path, h keccak.Hash) Key {
	return Key{Kind: KindScoped, Path: p, Hash: h}
}

// Equal reports full key identity.
func (k Key) Equal(o Key) bool {
	if k.Kind != o.Kind || !k.Path.Equal(o.Path) {
		return false
	}
	return k.Kind != KindScoped || k.Hash == o.Hash
}

// First returns the first nibble of the key's path, used for
// prefix-bucketed enumeration.
func (k Key) First() uint8 {
	return k.Path.First()
}

// EncodedLen returns the wire size of the key: a kind byte, the path wire
// form, and the 32-byte hash for scoped keys.
func (k Key) EncodedLen() int {
	n := 1 + k.Path.EncodedLen()
	if k.Kind == KindScoped {
		n += keccak.Bytes
	}
	return n
}

// Encode writes the wire form into dst and returns the bytes written.
// Caller must ensure dst is large enough.
func (k Key) Encode(dst []byte) int {
	dst[0] = byte(k.Kind)
	n := 1 + k.Path.Encode(dst[1:])
	if k.Kind == KindScoped {
		n += copy(dst[n:], k.Hash[:])
	}
	return n
}

// DecodeKey reads a wire-form key from src, returning the key and the
// bytes consumed. The decoded key reconstructs the original path and hash
// exactly; enumeration recovers true keys, not fingerprints.
func DecodeKey(src []byte) (Key, int, error) {
	if len(src) < 1 {
		return Key{}, 0, ErrKeyBadEncoding
	}
	kind := Kind(src[0])
	if kind != KindEntity && kind != KindScoped {
		return Key{}, 0, fmt.Errorf("%w: kind=%d", ErrKeyBadKind, src[0])
	}
	p, n, err := nibble.DecodePath(src[1:])
	if err != nil {
		return Key{}, 0, err
	}
	n++
	k := Key{Kind: kind, Path: p}
	if kind == KindScoped {
		if len(src) < n+keccak.Bytes {
			return Key{}, 0, fmt.Errorf("%w: truncated hash", ErrKeyBadEncoding)
		}
		n += copy(k.Hash[:], src[n:n+keccak.Bytes])
	}
	return k, n, nil
}

// fingerprint derives the 15-bit slot filter value from a key.
//
// It is cheap and deterministic; collisions are resolved by a full key
// comparison, false negatives cannot occur because equal keys always map
// to the same value. Layout: kind(1) | pathLen mod 64 (6) | first two
// nibbles (8).
func fingerprint(k Key) uint16 {
	var fp uint16
	if k.Kind == KindScoped {
		fp |= 1 << 14
	}
	fp |= uint16(k.Path.Len()&0x3F) << 8
	fp |= uint16(k.First()) << 4
	if k.Path.Len() > 1 {
		fp |= uint16(k.Path.Nibble(1))
	}
	return fp
}
