package ecs

// The hierarchy is stored in Relationship components: each parent points
// at its first child and children are chained through NextSibling.

func (r *Registry[E]) relationship(e E) (*Relationship[E], bool) {
	p, ok := findPool[Relationship[E]](r)
	if !ok {
		return nil, false
	}
	return p.data.Lookup(e)
}

// ensureRelationship gives h an unlinked Relationship if it has none.
func (r *Registry[E]) ensureRelationship(h Handle[E]) {
	if !Contains[Relationship[E]](h) {
		Assign(h, NewRelationship[E]())
	}
}

// SetParent makes child the first child of parent, detaching it from any
// previous parent. It refuses invalid handles, self-parenting and cycles.
func SetParent[E Identifier[E]](child, parent Handle[E]) bool {
	r := child.reg
	if !r.Valid(child) || !r.Valid(parent) || child.id == parent.id {
		return false
	}
	tomb := Tombstone[E]()
	for cur := parent.id; cur != tomb; {
		if cur == child.id {
			return false
		}
		rel, ok := r.relationship(cur)
		if !ok {
			break
		}
		cur = rel.Parent
	}

	r.ensureRelationship(child)
	r.ensureRelationship(parent)
	r.detach(child.id)

	crel, _ := r.relationship(child.id)
	prel, _ := r.relationship(parent.id)
	crel.Parent = parent.id
	crel.NextSibling = prel.FirstChild
	prel.FirstChild = child.id
	return true
}

// Detach removes child from its parent's child list.
func Detach[E Identifier[E]](child Handle[E]) bool {
	if !child.reg.Valid(child) {
		return false
	}
	return child.reg.detach(child.id)
}

// Parent returns h's parent, or a tombstone handle.
func Parent[E Identifier[E]](h Handle[E]) Handle[E] {
	if rel, ok := h.reg.relationship(h.id); ok {
		return Handle[E]{id: rel.Parent, reg: h.reg}
	}
	return Handle[E]{id: Tombstone[E](), reg: h.reg}
}

// Children returns h's children, most recently attached first.
func Children[E Identifier[E]](h Handle[E]) []Handle[E] {
	r := h.reg
	rel, ok := r.relationship(h.id)
	if !ok {
		return nil
	}
	var out []Handle[E]
	tomb := Tombstone[E]()
	for cur := rel.FirstChild; cur != tomb; {
		out = append(out, Handle[E]{id: cur, reg: r})
		next, ok := r.relationship(cur)
		if !ok {
			break
		}
		cur = next.NextSibling
	}
	return out
}

func (r *Registry[E]) detach(child E) bool {
	tomb := Tombstone[E]()
	rel, ok := r.relationship(child)
	if !ok || rel.Parent == tomb {
		return false
	}
	if prel, ok := r.relationship(rel.Parent); ok {
		if prel.FirstChild == child {
			prel.FirstChild = rel.NextSibling
		} else {
			for cur := prel.FirstChild; cur != tomb; {
				crel, ok := r.relationship(cur)
				if !ok {
					break
				}
				if crel.NextSibling == child {
					crel.NextSibling = rel.NextSibling
					break
				}
				cur = crel.NextSibling
			}
		}
	}
	rel.Parent = tomb
	rel.NextSibling = tomb
	return true
}

// unlink detaches h from its parent and orphans its children. Called by
// Deallocate before components are removed.
func (r *Registry[E]) unlink(h Handle[E]) {
	rel, ok := r.relationship(h.id)
	if !ok {
		return
	}
	r.detach(h.id)
	tomb := Tombstone[E]()
	for cur := rel.FirstChild; cur != tomb; {
		crel, ok := r.relationship(cur)
		if !ok {
			break
		}
		next := crel.NextSibling
		crel.Parent = tomb
		crel.NextSibling = tomb
		cur = next
	}
	rel.FirstChild = tomb
}
