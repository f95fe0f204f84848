package slotted

import "sort"

// defragment compacts the data area by sliding every live payload toward
// the top of the buffer, reclaiming the space held by tombstoned payloads
// and tombstoned directory slots. Live entries keep their directory order;
// only payload positions and the free-space accounting change.
//
// This is the only operation that relocates payloads. It is invoked by
// TrySet alone, and always followed by exactly one retry of the
// triggering insert.
func (a Array) defragment() {
	n := a.slotCount()

	// Order live slots by descending payload offset. Moving the topmost
	// payload first means every move is upward into space that is either
	// free or already vacated, so an overlapping copy is safe.
	live := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !a.slotDead(i) {
			live = append(live, i)
		}
	}
	sort.Slice(live, func(x, y int) bool {
		return a.slotOffset(live[x]) > a.slotOffset(live[y])
	})

	moved := make([]int, n)
	writeTop := len(a.b)
	for _, i := range live {
		l := a.slotLength(i)
		src := a.payload(i)
		newOff := writeTop - l
		if newOff != a.slotOffset(i) {
			copy(a.b[newOff:newOff+l], src)
		}
		moved[i] = newOff
		writeTop = newOff
	}

	// Compact the directory, dropping tombstoned slots and rewriting the
	// surviving offsets. Directory order of live entries is preserved.
	w := 0
	for i := 0; i < n; i++ {
		if a.slotDead(i) {
			continue
		}
		a.writeSlot(w, moved[i], a.slotLength(i), a.slotWord(i))
		w++
	}

	a.setSlotCount(w)
	a.setDataLow(writeTop)
	a.setTombBytes(0)

	// Zero the single contiguous free region so a defragmented buffer is
	// indistinguishable from one built by inserts alone.
	clear(a.b[a.slotBase(w):writeTop])
}
