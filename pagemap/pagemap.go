package pagemap

import (
	"iter"

	"github.com/AryanGodara/Paprika/slotted"
)

// Batch is the external write-batch collaborator. RawSet records one
// wire-encoded key and its raw value bytes for eventual durable
// application; the batch's own ordering and durability semantics are out
// of scope here.
type Batch interface {
	RawSet(key, value []byte) error
}

// Map binds the slotted array operations to one externally-owned page.
type Map struct {
	page *Page
}

// NewMap wraps p. The map holds no state beside the page pointer.
func NewMap(p *Page) Map {
	return Map{page: p}
}

func (m Map) array() slotted.Array {
	a, err := slotted.NewArray(m.page[:])
	if err != nil {
		// PageSize is a compile-time valid buffer size.
		panic(err)
	}
	return a
}

// TrySet inserts or updates key -> value in the page.
func (m Map) TrySet(key slotted.Key, value []byte) bool {
	return m.array().TrySet(key, value)
}

// TryGet returns the value stored for key. The returned slice aliases
// the page and is invalidated by the next mutation.
func (m Map) TryGet(key slotted.Key) ([]byte, bool) {
	return m.array().TryGet(key)
}

// Delete tombstones the entry for key, if present.
func (m Map) Delete(key slotted.Key) bool {
	return m.array().Delete(key)
}

// Count returns the number of live entries in the page.
func (m Map) Count() int {
	return m.array().Count()
}

// All returns a one-shot iterator over every live entry in the page, in
// directory order.
func (m Map) All() iter.Seq2[slotted.Key, []byte] {
	return m.array().All()
}

// Apply drains every live entry into b in enumeration order, forwarding
// the wire-encoded key. The page itself is not mutated; clearing or
// recycling it afterwards is the caller's choice.
func (m Map) Apply(b Batch) error {
	var kbuf [70]byte // worst-case encoded key: kind + path + 32-byte hash
	for k, v := range m.All() {
		n := k.Encode(kbuf[:])
		if err := b.RawSet(kbuf[:n], v); err != nil {
			return err
		}
	}
	return nil
}
