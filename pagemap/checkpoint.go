package pagemap

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

var (
	ErrCheckpointBadDigest = errors.New("pagemap: checkpoint digest mismatch")
	ErrCheckpointDecode    = errors.New("pagemap: checkpoint decoding failed")
)

// Checkpoint is the manifest recorded when a page's contents are handed
// to another storage tier. The digest covers the raw page bytes, so a
// checkpoint pins the exact state that was drained.
type Checkpoint struct {
	PageID  uuid.UUID `cbor:"1,keyasint"`
	Entries int       `cbor:"2,keyasint"`
	Free    int       `cbor:"3,keyasint"`
	Digest  uint64    `cbor:"4,keyasint"`
}

var cborEnc cbor.EncMode
var cborDec cbor.DecMode

func init() {
	var err error
	// Deterministic encoding: the checkpoint bytes for a given page state
	// must be reproducible.
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborDec, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
}

// NewCheckpoint captures the current state of m under the given page ID.
func NewCheckpoint(id uuid.UUID, m Map) Checkpoint {
	a := m.array()
	s := a.Stats()
	return Checkpoint{
		PageID:  id,
		Entries: s.Live,
		Free:    s.FreeBytes + s.TombBytes,
		Digest:  xxhash.Sum64(m.page[:]),
	}
}

// EncodeCheckpoint serializes c with deterministic CBOR.
func EncodeCheckpoint(c Checkpoint) ([]byte, error) {
	return cborEnc.Marshal(c)
}

// DecodeCheckpoint deserializes a checkpoint produced by EncodeCheckpoint.
func DecodeCheckpoint(data []byte) (Checkpoint, error) {
	var c Checkpoint
	if err := cborDec.Unmarshal(data, &c); err != nil {
		return Checkpoint{}, fmt.Errorf("%w: %v", ErrCheckpointDecode, err)
	}
	return c, nil
}

// Verify reports whether m's page bytes still match the checkpointed
// digest.
func (c Checkpoint) Verify(m Map) error {
	got := xxhash.Sum64(m.page[:])
	if got != c.Digest {
		return fmt.Errorf("%w: page=%s want=%x got=%x", ErrCheckpointBadDigest, c.PageID, c.Digest, got)
	}
	return nil
}
