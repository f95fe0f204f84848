package pagemap

import "sync"

// PageSize is the fixed byte width of all pooled pages.
const PageSize = 4096

// Page is one fixed-size buffer. All backing storage is preallocated and
// zero-filled; a fresh page is a valid empty slotted array.
type Page [PageSize]byte

var pagePool = sync.Pool{
	New: func() any { return new(Page) },
}

// GetPage returns a zero-filled page from the pool.
func GetPage() *Page {
	return pagePool.Get().(*Page)
}

// PutPage returns p to the pool. The page is zeroed here so every page
// handed out by GetPage satisfies the zero-filled invariant.
func PutPage(p *Page) {
	if p == nil {
		return
	}
	clear(p[:])
	pagePool.Put(p)
}
