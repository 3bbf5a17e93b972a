package bftcrdt

// RGA is the state of a Replicated Growable Array: an ordered list of
// (ElementID, value, deleted) triples. It is logically the linearization
// of a DAG of concurrent inserts; deletion is always a tombstone flag,
// never a structural removal, so that a deleted element can still anchor a
// later concurrent insert-after.
type RGA struct {
	list *orderedList
}

// NewRGA returns an empty RGA.
func NewRGA() *RGA {
	return &RGA{list: newOrderedList()}
}

// Insert builds the operation value for inserting value at visible index
// under the given user id. Index 0 inserts at the head (After == nil);
// any other index inserts after the visible element currently at
// index-1. Returns ErrNotApplicable if index-1 is out of range.
func (r *RGA) Insert(index int, value string, userID UserID) (InsertOp, error) {
	if index == 0 {
		return InsertOp{Value: value, UserID: userID, After: nil}, nil
	}
	prev, ok := r.list.GetByVisibleIndex(index - 1)
	if !ok {
		return InsertOp{}, ErrNotApplicable
	}
	ref := prev.ID
	return InsertOp{Value: value, UserID: userID, After: &ref}, nil
}

// Delete builds the operation value for deleting the visible element at
// index. Returns ErrNotApplicable if index is out of range.
func (r *RGA) Delete(index int) (DeleteOp, error) {
	elem, ok := r.list.GetByVisibleIndex(index)
	if !ok {
		return DeleteOp{}, ErrNotApplicable
	}
	return DeleteOp{Elem: elem.ID}, nil
}

// Get returns the value of the visible element at index.
func (r *RGA) Get(index int) (string, bool) {
	elem, ok := r.list.GetByVisibleIndex(index)
	if !ok {
		return "", false
	}
	return elem.Value, true
}

// Snapshot returns the visible values of the list in order.
func (r *RGA) Snapshot() []string {
	return r.list.Values()
}

// rgaInterpreter adapts RGA to the Interpreter capability.
type rgaInterpreter struct {
	rga *RGA
}

// NewRGAInterpreter returns an Interpreter over rga.
func NewRGAInterpreter(rga *RGA) Interpreter {
	return &rgaInterpreter{rga: rga}
}

func (i *rgaInterpreter) Interpret(node Node, graph *HashGraph) {
	switch op := node.Payload.(type) {
	case InsertOp:
		id := ElementID{UserID: op.UserID, Node: node.Digest()}
		i.rga.list.InsertByID(id, op.Value, op.After)
	case DeleteOp:
		i.rga.list.DeleteByID(op.Elem)
	}
}

// IsSemanticallyValid implements section 4.5: a reference-free Insert is
// always valid; an Insert or Delete naming a reference requires that
// reference to resolve to an ancestral Insert node whose own user id
// matches the reference's user id component.
func (i *rgaInterpreter) IsSemanticallyValid(node Node, graph *HashGraph) bool {
	switch op := node.Payload.(type) {
	case InsertOp:
		if op.After == nil {
			return true
		}
		return i.validateReference(*op.After, node, graph)
	case DeleteOp:
		return i.validateReference(op.Elem, node, graph)
	default:
		return false
	}
}

// validateReference checks that ref names a node in graph whose payload is
// an Insert with ref's user id, and that node is an ancestor of node.
func (i *rgaInterpreter) validateReference(ref ElementID, node Node, graph *HashGraph) bool {
	refNode, ok := graph.Lookup(ref.Node)
	if !ok {
		return false
	}
	refInsert, ok := refNode.Payload.(InsertOp)
	if !ok || refInsert.UserID != ref.UserID {
		return false
	}
	return graph.IsAncestor(ref.Node, node)
}
