package slotted

import "errors"

const (
	// headerBytes is the fixed header at the start of every buffer:
	//   [0:2] slot count (live + tombstoned)
	//   [2:4] data frontier (lowest used payload byte; 0 means untouched)
	//   [4:6] tombstoned payload bytes
	//   [6:8] reserved
	headerBytes = 8

	// slotRecordBytes is the fixed width of one directory slot:
	//   [0:2] payload offset
	//   [2:4] payload length
	//   [4:6] fingerprint word (bit 15 = tombstone)
	slotRecordBytes = 6

	// tombstoneFlag marks a slot as deleted but not yet reclaimed.
	tombstoneFlag = uint16(1) << 15

	// MaxBytes is the largest supported buffer; offsets are 16 bit.
	MaxBytes = 1<<16 - 1

	// MinSize is the smallest buffer that can hold one entry: the header,
	// one slot record and the 2-byte payload of an empty-path entity key
	// with an empty value.
	MinSize = headerBytes + slotRecordBytes + 2
)

// Kind discriminates the two key shapes.
type Kind uint8

const (
	// KindEntity identifies one top-level entity by its nibble path.
	KindEntity Kind = 1
	// KindScoped identifies a sub-record owned by an entity: the entity
	// path together with a fixed-width secondary hash.
	KindScoped Kind = 2
)

var (
	ErrBufferBadSize  = errors.New("slotted: buffer size invalid")
	ErrKeyBadKind     = errors.New("slotted: invalid key kind")
	ErrKeyBadEncoding = errors.New("slotted: key encoding invalid")
)
