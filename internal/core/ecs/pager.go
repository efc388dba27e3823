package ecs

// DefaultPageSize is the number of trampolines per sparse page.
const DefaultPageSize = 1024

// pager is the paged trampoline table shared by SparseSet and SparseMap.
// Each entry maps an entity index to a dense position, stored as an
// identifier whose index is the position, or the tombstone when absent.
// Pages are allocated only up to the highest index ever inserted.
type pager[E Identifier[E]] struct {
	pages    [][]E
	pageSize uint32
	mask     uint32 // pageSize-1 when pageSize is a power of two
	pow2     bool
}

func newPager[E Identifier[E]](pageSize int) pager[E] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	size := uint32(pageSize)
	pow2 := size&(size-1) == 0
	p := pager[E]{pageSize: size, pow2: pow2}
	if pow2 {
		p.mask = size - 1
	}
	return p
}

func (p *pager[E]) page(e E) uint32 {
	return e.Index() / p.pageSize
}

func (p *pager[E]) offset(e E) uint32 {
	if p.pow2 {
		return e.Index() & p.mask
	}
	return e.Index() % p.pageSize
}

// grow allocates tombstone-filled pages up to and including page.
func (p *pager[E]) grow(page uint32) {
	tomb := Tombstone[E]()
	for uint32(len(p.pages)) <= page {
		pg := make([]E, p.pageSize)
		for i := range pg {
			pg[i] = tomb
		}
		p.pages = append(p.pages, pg)
	}
}

// lookup returns the dense position recorded for e's index.
func (p *pager[E]) lookup(e E) (uint32, bool) {
	page := p.page(e)
	if page >= uint32(len(p.pages)) {
		return 0, false
	}
	t := p.pages[page][p.offset(e)]
	if t == Tombstone[E]() {
		return 0, false
	}
	return t.Index(), true
}

// occupied reports whether any key with e's index holds the slot.
func (p *pager[E]) occupied(e E) bool {
	_, ok := p.lookup(e)
	return ok
}

// point records dense position pos for e's index, growing pages as needed.
func (p *pager[E]) point(e E, pos uint32) {
	page := p.page(e)
	p.grow(page)
	var zero E
	p.pages[page][p.offset(e)] = zero.With(pos, 0)
}

func (p *pager[E]) reset(e E) {
	page := p.page(e)
	if page < uint32(len(p.pages)) {
		p.pages[page][p.offset(e)] = Tombstone[E]()
	}
}

// reserve pre-allocates pages for indices [0, count).
func (p *pager[E]) reserve(count int) {
	if count <= 0 {
		return
	}
	p.grow(uint32(count-1) / p.pageSize)
}

func (p *pager[E]) clear() {
	p.pages = nil
}

func (p *pager[E]) pageCount() int {
	return len(p.pages)
}
