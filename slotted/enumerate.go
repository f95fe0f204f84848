package slotted

import "iter"

// All returns a one-shot iterator over every live entry in directory
// order (insertion/compaction order, not key order).
//
// The yielded key is fully decoded; the value aliases the buffer. The
// buffer must not be mutated while the iteration is in progress.
func (a Array) All() iter.Seq2[Key, []byte] {
	return func(yield func(Key, []byte) bool) {
		n := a.slotCount()
		for i := 0; i < n; i++ {
			if a.slotDead(i) {
				continue
			}
			k, v := a.entry(i)
			if !yield(k, v) {
				return
			}
		}
	}
}

// Bucket returns a one-shot iterator over the live entries whose key's
// first path nibble equals nib, in directory order.
func (a Array) Bucket(nib uint8) iter.Seq2[Key, []byte] {
	nib &= 0x0F
	return func(yield func(Key, []byte) bool) {
		n := a.slotCount()
		for i := 0; i < n; i++ {
			if a.slotDead(i) {
				continue
			}
			k, v := a.entry(i)
			if k.First() != nib {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}
