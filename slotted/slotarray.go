package slotted

import "fmt"

// Array is a view over one caller-owned buffer. It holds no state of its
// own: every operation reconstructs the layout from the header bytes, so
// discarding and re-wrapping a buffer is free.
//
// The buffer is borrowed for the duration of each call. Values returned
// by TryGet and the enumerators alias the buffer and are invalidated by
// the next mutating call.
type Array struct {
	b []byte
}

// NewArray wraps buf. A zero-filled buf is a valid empty array.
//
// buf must be at least headerBytes long and no longer than MaxBytes; a
// buffer shorter than MinSize is accepted but every TrySet on it fails.
func NewArray(buf []byte) (Array, error) {
	if len(buf) < headerBytes || len(buf) > MaxBytes {
		return Array{}, fmt.Errorf("%w: len=%d", ErrBufferBadSize, len(buf))
	}
	return Array{b: buf}, nil
}

func (a Array) slotCount() int {
	return int(readU16BE(a.b[0:2]))
}

func (a Array) setSlotCount(n int) {
	writeU16BE(a.b[0:2], uint16(n))
}

// dataLow returns the lowest used payload byte. A stored zero means the
// payload area is untouched; the header occupies [0,8) so a real frontier
// can never be zero.
func (a Array) dataLow() int {
	v := int(readU16BE(a.b[2:4]))
	if v == 0 {
		return len(a.b)
	}
	return v
}

func (a Array) setDataLow(v int) {
	writeU16BE(a.b[2:4], uint16(v))
}

func (a Array) tombBytes() int {
	return int(readU16BE(a.b[4:6]))
}

func (a Array) setTombBytes(v int) {
	writeU16BE(a.b[4:6], uint16(v))
}

// dirEnd returns the first byte after the slot directory.
func (a Array) dirEnd() int {
	return headerBytes + a.slotCount()*slotRecordBytes
}

// gap returns the contiguous free bytes between the directory frontier
// and the data frontier.
func (a Array) gap() int {
	g := a.dataLow() - a.dirEnd()
	if g < 0 {
		panic("slotted: corrupt header: frontiers crossed")
	}
	return g
}

func (a Array) slotBase(i int) int {
	return headerBytes + i*slotRecordBytes
}

func (a Array) slotOffset(i int) int {
	return int(readU16BE(a.b[a.slotBase(i):]))
}

func (a Array) slotLength(i int) int {
	return int(readU16BE(a.b[a.slotBase(i)+2:]))
}

func (a Array) slotWord(i int) uint16 {
	return readU16BE(a.b[a.slotBase(i)+4:])
}

func (a Array) slotDead(i int) bool {
	return a.slotWord(i)&tombstoneFlag != 0
}

func (a Array) writeSlot(i, off, length int, fp uint16) {
	base := a.slotBase(i)
	writeU16BE(a.b[base:], uint16(off))
	writeU16BE(a.b[base+2:], uint16(length))
	writeU16BE(a.b[base+4:], fp)
}

func (a Array) killSlot(i int) {
	base := a.slotBase(i)
	writeU16BE(a.b[base+4:], a.slotWord(i)|tombstoneFlag)
}

// payload returns the payload bytes of slot i. A slot whose payload
// escapes the buffer is an impossible layout; the structure cannot
// continue safely on corrupted state, so this is a fatal assertion.
func (a Array) payload(i int) []byte {
	off := a.slotOffset(i)
	l := a.slotLength(i)
	if off < headerBytes || off+l > len(a.b) {
		panic(fmt.Sprintf("slotted: corrupt slot %d: payload [%d,%d) escapes buffer", i, off, off+l))
	}
	return a.b[off : off+l]
}

// entry decodes slot i into its true key and value bytes.
func (a Array) entry(i int) (Key, []byte) {
	pl := a.payload(i)
	k, n, err := DecodeKey(pl)
	if err != nil {
		panic(fmt.Sprintf("slotted: corrupt slot %d: %v", i, err))
	}
	return k, pl[n:]
}

// find scans live slots for key, using the fingerprint as a pre-filter
// before the full comparison.
func (a Array) find(key Key, fp uint16) (int, bool) {
	n := a.slotCount()
	for i := 0; i < n; i++ {
		if a.slotWord(i) != fp {
			// Tombstoned slots never match: the flag bit is never set
			// in a computed fingerprint.
			continue
		}
		k, _ := a.entry(i)
		if k.Equal(key) {
			return i, true
		}
	}
	return 0, false
}

// deadSlotBytes returns the directory bytes held by tombstoned slots,
// reclaimable by defragmentation.
func (a Array) deadSlotBytes() int {
	n := a.slotCount()
	dead := 0
	for i := 0; i < n; i++ {
		if a.slotDead(i) {
			dead++
		}
	}
	return dead * slotRecordBytes
}

// roomFor reports whether payloadLen bytes plus one slot record can be
// placed, counting space that a defragmentation would reclaim. freed and
// freedSlot account for an existing entry about to be tombstoned by a
// resizing update.
func (a Array) roomFor(payloadLen, freed, freedSlot int) bool {
	need := slotRecordBytes + payloadLen
	gap := a.gap()
	if gap >= need {
		return true
	}
	return gap+a.tombBytes()+a.deadSlotBytes()+freed+freedSlot >= need
}

// append places a fresh entry. Caller must have established that the
// contiguous gap is sufficient.
func (a Array) append(key Key, value []byte, fp uint16) {
	payloadLen := key.EncodedLen() + len(value)
	low := a.dataLow() - payloadLen
	n := a.slotCount()
	if low < a.slotBase(n)+slotRecordBytes {
		panic("slotted: append without room")
	}
	kl := key.Encode(a.b[low:])
	copy(a.b[low+kl:], value)
	a.writeSlot(n, low, payloadLen, fp)
	a.setSlotCount(n + 1)
	a.setDataLow(low)
}

// TrySet inserts or updates key -> value. It returns false when the
// buffer cannot hold the entry even after defragmentation; in that case
// the buffer is left byte-for-byte unchanged and the caller must supply
// more capacity.
func (a Array) TrySet(key Key, value []byte) bool {
	payloadLen := key.EncodedLen() + len(value)
	fp := fingerprint(key)

	if i, ok := a.find(key, fp); ok {
		pl := a.payload(i)
		kl := key.EncodedLen()
		if len(pl)-kl == len(value) {
			// In-situ update: no relocation, no directory change.
			copy(pl[kl:], value)
			return true
		}
		// Resizing update: prove the space exists before tombstoning so
		// failure cannot lose the old entry.
		if !a.roomFor(payloadLen, len(pl), slotRecordBytes) {
			return false
		}
		a.setTombBytes(a.tombBytes() + len(pl))
		a.killSlot(i)
	} else if !a.roomFor(payloadLen, 0, 0) {
		return false
	}

	if a.gap() < slotRecordBytes+payloadLen {
		a.defragment()
	}
	a.append(key, value, fp)
	return true
}

// TryGet returns the value stored for key. The returned slice aliases
// the buffer and is valid only until the buffer is next mutated.
func (a Array) TryGet(key Key) ([]byte, bool) {
	i, ok := a.find(key, fingerprint(key))
	if !ok {
		return nil, false
	}
	return a.payload(i)[key.EncodedLen():], true
}

// Delete tombstones the live slot for key, if any. The payload bytes
// remain in the data area until a later TrySet reclaims them by
// defragmentation.
func (a Array) Delete(key Key) bool {
	i, ok := a.find(key, fingerprint(key))
	if !ok {
		return false
	}
	a.setTombBytes(a.tombBytes() + a.slotLength(i))
	a.killSlot(i)
	return true
}

// Count returns the number of live entries.
func (a Array) Count() int {
	n := a.slotCount()
	live := 0
	for i := 0; i < n; i++ {
		if !a.slotDead(i) {
			live++
		}
	}
	return live
}
