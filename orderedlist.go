package bftcrdt

// listElement is one entry of the tombstone-ordered list: an identity, a
// value, and a deletion flag. Deletion never removes an element — it only
// flips Deleted, so the element survives as an anchor for later inserts
// that reference it by id.
type listElement struct {
	ID      ElementID
	Value   string
	Deleted bool
}

// orderedList is the tombstone list of section 4.3: ordered insertion keyed
// by ElementID comparison, with deletion marked by flag rather than
// structural removal. It underlies the RGA interpreter but has no
// RGA-specific knowledge of its own — it only needs a total order on
// ElementID.
//
// The list is backed by a slice of element pointers in this
// implementation, with insertion shifting later elements in place; it is
// not a linked list.
type orderedList struct {
	elements []*listElement
}

func newOrderedList() *orderedList {
	return &orderedList{}
}

// InsertByID applies the rule of section 4.3: when after is nil, splice
// before the first existing element whose id is strictly less than id (or
// append at the tail if none qualifies). When after names a reference
// element, first walk past it — the operation is a no-op if the reference
// is absent — then apply the same less-than rule among the elements that
// follow it. Returns false when after is non-nil and not found.
func (l *orderedList) InsertByID(id ElementID, value string, after *ElementID) bool {
	toInsert := &listElement{ID: id, Value: value}

	start := 0
	if after != nil {
		idx := l.indexOfID(*after)
		if idx < 0 {
			return false
		}
		start = idx + 1
	}

	for i := start; i < len(l.elements); i++ {
		if l.elements[i].ID.Less(id) {
			l.elements = append(l.elements, nil)
			copy(l.elements[i+1:], l.elements[i:])
			l.elements[i] = toInsert
			return true
		}
	}
	l.elements = append(l.elements, toInsert)
	return true
}

// DeleteByID marks the element matching id as deleted. No-op if absent.
func (l *orderedList) DeleteByID(id ElementID) bool {
	idx := l.indexOfID(id)
	if idx < 0 {
		return false
	}
	l.elements[idx].Deleted = true
	return true
}

// GetByVisibleIndex returns the k-th non-deleted element, if any.
func (l *orderedList) GetByVisibleIndex(k int) (listElement, bool) {
	count := 0
	for _, e := range l.elements {
		if e.Deleted {
			continue
		}
		if count == k {
			return *e, true
		}
		count++
	}
	return listElement{}, false
}

// DeleteByVisibleIndex marks the k-th non-deleted element as deleted.
// No-op if k is out of range.
func (l *orderedList) DeleteByVisibleIndex(k int) bool {
	count := 0
	for _, e := range l.elements {
		if e.Deleted {
			continue
		}
		if count == k {
			e.Deleted = true
			return true
		}
		count++
	}
	return false
}

// Values returns the values of all non-deleted elements in list order.
func (l *orderedList) Values() []string {
	out := make([]string, 0, len(l.elements))
	for _, e := range l.elements {
		if !e.Deleted {
			out = append(out, e.Value)
		}
	}
	return out
}

func (l *orderedList) indexOfID(id ElementID) int {
	for i, e := range l.elements {
		if e.ID.Equal(id) {
			return i
		}
	}
	return -1
}
