package bftcrdt

// ORSet is the state of an Observed-Remove Set: a mapping from element to
// the set of add-node digests currently observed for it. An element is
// present iff its digest set is non-empty — the set grows with every
// admitted Add and shrinks only when an admitted, semantically-valid
// Remove names one of its digests.
type ORSet struct {
	elements map[string]map[Digest]bool
}

// NewORSet returns an empty ORSet.
func NewORSet() *ORSet {
	return &ORSet{elements: make(map[string]map[Digest]bool)}
}

// Add returns the operation value for adding e. It performs no state
// mutation itself — the mutation happens when the resulting node is
// admitted and interpreted.
func (s *ORSet) Add(e string) AddOp {
	return AddOp{Elem: e}
}

// Remove returns the operation value for removing exactly the supplied
// add-digests of e. The caller is responsible for supplying digests that
// are ancestrally valid Add(e) nodes; an invalid set will simply fail
// semantic validation when submitted.
func (s *ORSet) Remove(e string, ids []Digest) RemoveOp {
	return RemoveOp{Elem: e, IDs: ids}
}

// RemoveAll is a convenience that removes every digest currently observed
// for e.
func (s *ORSet) RemoveAll(e string) RemoveOp {
	return RemoveOp{Elem: e, IDs: s.DigestsOf(e)}
}

// Contains reports whether e is currently present (has a non-empty digest
// set).
func (s *ORSet) Contains(e string) bool {
	ids, ok := s.elements[e]
	return ok && len(ids) > 0
}

// DigestsOf returns the current add-digests observed for e, in no
// particular order.
func (s *ORSet) DigestsOf(e string) []Digest {
	ids, ok := s.elements[e]
	if !ok {
		return nil
	}
	out := make([]Digest, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}

// Snapshot returns the set of currently-present elements.
func (s *ORSet) Snapshot() map[string]bool {
	out := make(map[string]bool)
	for e, ids := range s.elements {
		if len(ids) > 0 {
			out[e] = true
		}
	}
	return out
}

// orsetInterpreter adapts ORSet to the Interpreter capability.
type orsetInterpreter struct {
	set *ORSet
}

// NewORSetInterpreter returns an Interpreter over set.
func NewORSetInterpreter(set *ORSet) Interpreter {
	return &orsetInterpreter{set: set}
}

func (i *orsetInterpreter) Interpret(node Node, graph *HashGraph) {
	switch op := node.Payload.(type) {
	case AddOp:
		d := node.Digest()
		ids, ok := i.set.elements[op.Elem]
		if !ok {
			ids = make(map[Digest]bool)
			i.set.elements[op.Elem] = ids
		}
		ids[d] = true
	case RemoveOp:
		ids, ok := i.set.elements[op.Elem]
		if !ok {
			return
		}
		for _, id := range op.IDs {
			delete(ids, id)
		}
	}
}

// IsSemanticallyValid implements section 4.4: Add is always valid; Remove
// requires every named digest to resolve to an ancestral Add of the same
// element.
func (i *orsetInterpreter) IsSemanticallyValid(node Node, graph *HashGraph) bool {
	switch op := node.Payload.(type) {
	case AddOp:
		return true
	case RemoveOp:
		for _, id := range op.IDs {
			addNode, ok := graph.Lookup(id)
			if !ok {
				return false
			}
			add, ok := addNode.Payload.(AddOp)
			if !ok || add.Elem != op.Elem {
				return false
			}
			if !graph.IsAncestor(id, node) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
