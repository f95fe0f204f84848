package nibble

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// MaxNibbles is the maximum path length. It matches a full 32-byte
// identifier expanded to one nibble per 4 bits.
const MaxNibbles = 64

// packedBytes is the backing array width for a maximal path.
const packedBytes = MaxNibbles / 2

var (
	ErrPathTooLong     = errors.New("nibble: path exceeds 64 nibbles")
	ErrPathBadEncoding = errors.New("nibble: path encoding invalid")
)

// Path is a packed sequence of up to MaxNibbles 4-bit values.
//
// Paths are immutable value types. The zero value is the empty path.
// Unused nibbles in the backing array are zero, so == on the struct is a
// valid equality check; Equal is provided for symmetry with Key.
type Path struct {
	n uint8
	b [packedBytes]byte
}

// FromBytes builds a path of 2*len(src) nibbles from src, MSB nibble first.
//
// len(src) must be <= 32; primitives panic on impossible inputs.
func FromBytes(src []byte) Path {
	if len(src) > packedBytes {
		panic("nibble: path source exceeds 32 bytes")
	}
	var p Path
	p.n = uint8(2 * len(src))
	copy(p.b[:], src)
	return p
}

// Len returns the number of nibbles in the path.
func (p Path) Len() int {
	return int(p.n)
}

// Nibble returns the 4-bit value at index i. Index 0 is the most
// significant nibble of the first source byte.
func (p Path) Nibble(i int) uint8 {
	if i < 0 || i >= int(p.n) {
		panic("nibble: index out of range")
	}
	by := p.b[i/2]
	if i%2 == 0 {
		return by >> 4
	}
	return by & 0x0F
}

// First returns the first nibble, or 0 for the empty path.
func (p Path) First() uint8 {
	if p.n == 0 {
		return 0
	}
	return p.b[0] >> 4
}

// SliceFrom returns the suffix path starting at nibble index i.
func (p Path) SliceFrom(i int) Path {
	if i < 0 || i > int(p.n) {
		panic("nibble: slice index out of range")
	}
	var out Path
	out.n = p.n - uint8(i)
	for j := 0; j < int(out.n); j++ {
		out.setNibble(j, p.Nibble(i+j))
	}
	return out
}

// SliceTo returns the prefix path of the first i nibbles.
func (p Path) SliceTo(i int) Path {
	if i < 0 || i > int(p.n) {
		panic("nibble: slice index out of range")
	}
	var out Path
	out.n = uint8(i)
	copy(out.b[:], p.b[:(i+1)/2])
	if i%2 == 1 {
		// Clear the trailing half byte so the packed form stays canonical.
		out.b[i/2] &= 0xF0
	}
	return out
}

// Equal reports whether two paths have identical length and nibbles.
func (p Path) Equal(o Path) bool {
	return p == o
}

// String renders the path as one hex digit per nibble.
func (p Path) String() string {
	s := hex.EncodeToString(p.b[:(p.n+1)/2])
	return s[:p.n]
}

func (p *Path) setNibble(i int, v uint8) {
	if i%2 == 0 {
		p.b[i/2] = (p.b[i/2] & 0x0F) | (v << 4)
	} else {
		p.b[i/2] = (p.b[i/2] & 0xF0) | (v & 0x0F)
	}
}

// EncodedLen returns the wire size of the path: a length byte plus the
// packed nibble bytes.
func (p Path) EncodedLen() int {
	return 1 + (int(p.n)+1)/2
}

// Encode writes the wire form into dst and returns the bytes written.
// Caller must ensure dst is large enough.
func (p Path) Encode(dst []byte) int {
	dst[0] = p.n
	n := copy(dst[1:], p.b[:(p.n+1)/2])
	return 1 + n
}

// DecodePath reads a wire-form path from src, returning the path and the
// bytes consumed.
func DecodePath(src []byte) (Path, int, error) {
	if len(src) < 1 {
		return Path{}, 0, ErrPathBadEncoding
	}
	n := src[0]
	if n > MaxNibbles {
		return Path{}, 0, fmt.Errorf("%w: length=%d", ErrPathTooLong, n)
	}
	packed := (int(n) + 1) / 2
	if len(src) < 1+packed {
		return Path{}, 0, fmt.Errorf("%w: want %d bytes, have %d", ErrPathBadEncoding, 1+packed, len(src))
	}
	var p Path
	p.n = n
	copy(p.b[:], src[1:1+packed])
	if n%2 == 1 {
		p.b[packed-1] &= 0xF0
	}
	return p, 1 + packed, nil
}
