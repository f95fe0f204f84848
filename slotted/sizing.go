package slotted

// EntryBytes returns the buffer bytes consumed by one entry: its
// directory slot plus the wire-encoded key and the value payload. Useful
// for sizing buffers ahead of time.
func EntryBytes(key Key, valueLen int) int {
	return slotRecordBytes + key.EncodedLen() + valueLen
}

// Stats is a point-in-time accounting of a buffer. The conservation
// invariant holds after every operation:
//
//	DirectoryBytes + LiveBytes + FreeBytes + TombBytes == buffer length
//
// DirectoryBytes includes the header and the records of tombstoned slots;
// those records are reclaimed, with TombBytes, by defragmentation.
type Stats struct {
	Live           int
	Dead           int
	DirectoryBytes int
	LiveBytes      int
	TombBytes      int
	FreeBytes      int
}

// Stats computes the current accounting by one pass over the directory.
func (a Array) Stats() Stats {
	s := Stats{
		DirectoryBytes: a.dirEnd(),
		TombBytes:      a.tombBytes(),
		FreeBytes:      a.gap(),
	}
	n := a.slotCount()
	for i := 0; i < n; i++ {
		if a.slotDead(i) {
			s.Dead++
			continue
		}
		s.Live++
		s.LiveBytes += a.slotLength(i)
	}
	return s
}
