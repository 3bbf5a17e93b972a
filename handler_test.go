package bftcrdt

import "testing"

func TestHandler_SubmitLocalAlwaysValid(t *testing.T) {
	set := NewORSet()
	h := NewHandler(NewORSetInterpreter(set), nil)

	d := h.SubmitLocal(AddOp{Elem: "x"})

	if !h.Contains(d) {
		t.Fatalf("expected locally submitted node to be admitted")
	}
	if !set.Contains("x") {
		t.Errorf("expected local add to be interpreted immediately")
	}
}

func TestHandler_StructurallyInvalidNodeIsBuffered(t *testing.T) {
	set := NewORSet()
	h := NewHandler(NewORSetInterpreter(set), nil)

	node := Node{Predecessors: []Digest{ZeroDigest}, Payload: AddOp{Elem: "x"}}
	h.SubmitRemote(node)

	if h.Contains(node.Digest()) {
		t.Errorf("expected structurally invalid node to not be admitted")
	}
	if h.PendingLen() != 1 {
		t.Errorf("expected node to be buffered, pending=%d", h.PendingLen())
	}
	if set.Contains("x") {
		t.Errorf("expected unadmitted node to never be interpreted")
	}
}

func TestHandler_ReevaluationIsFixedPoint(t *testing.T) {
	// A chain of three out-of-order remote nodes: none can admit until
	// its entire ancestry has arrived, and a single re-evaluation call
	// must keep iterating until every admittable node is admitted.
	set := NewORSet()
	h := NewHandler(NewORSetInterpreter(set), nil)

	n0 := Node{Payload: AddOp{Elem: "x"}}
	d0 := n0.Digest()
	n1 := Node{Predecessors: []Digest{d0}, Payload: AddOp{Elem: "x"}}
	d1 := n1.Digest()
	n2 := Node{Predecessors: []Digest{d1}, Payload: AddOp{Elem: "x"}}
	d2 := n2.Digest()

	// Deliver in reverse causal order.
	h.SubmitRemote(n2)
	h.SubmitRemote(n1)
	if h.PendingLen() != 2 {
		t.Fatalf("expected both n1 and n2 buffered, pending=%d", h.PendingLen())
	}

	h.SubmitRemote(n0)
	if h.PendingLen() != 0 {
		t.Errorf("expected full chain to drain once the root arrives, pending=%d", h.PendingLen())
	}
	if !h.Contains(d0) || !h.Contains(d1) || !h.Contains(d2) {
		t.Errorf("expected entire chain admitted")
	}
	if len(set.DigestsOf("x")) != 3 {
		t.Errorf("expected three observed adds of x, got %d", len(set.DigestsOf("x")))
	}
}

func TestHandler_BoundedPendingEvictsOldest(t *testing.T) {
	set := NewORSet()
	h := NewBoundedHandler(NewORSetInterpreter(set), 2, nil)

	// Three structurally invalid nodes that will never become valid
	// (their named predecessor never arrives) pressure the bound.
	var digests []Digest
	for i := 0; i < 3; i++ {
		node := Node{
			Predecessors: []Digest{Digest(string(rune('a' + i)))},
			Payload:      AddOp{Elem: "x"},
		}
		digests = append(digests, node.Digest())
		h.SubmitRemote(node)
	}

	if h.PendingLen() > 2 {
		t.Errorf("expected bounded pending buffer to cap at 2, got %d", h.PendingLen())
	}
	kept := make(map[Digest]bool)
	for _, n := range h.pending.values() {
		kept[n.Digest()] = true
	}
	if kept[digests[0]] || !kept[digests[1]] || !kept[digests[2]] {
		t.Errorf("expected the oldest pending node to be evicted and the two newest kept")
	}
}

func TestHandler_HeadsAfterConcurrentAdmission(t *testing.T) {
	set := NewORSet()
	h := NewHandler(NewORSetInterpreter(set), nil)

	root := h.SubmitLocal(AddOp{Elem: "root"})

	left := Node{Predecessors: []Digest{root}, Payload: AddOp{Elem: "left"}}
	right := Node{Predecessors: []Digest{root}, Payload: AddOp{Elem: "right"}}
	h.SubmitRemote(left)
	h.SubmitRemote(right)

	heads := h.Heads()
	if len(heads) != 2 {
		t.Fatalf("expected two concurrent heads, got %v", heads)
	}
}

func TestHandler_Convergence_OrderIndependent(t *testing.T) {
	buildAndSubmit := func(nodes []Node) map[string]bool {
		set := NewORSet()
		h := NewHandler(NewORSetInterpreter(set), nil)
		for _, n := range nodes {
			h.SubmitRemote(n)
		}
		return set.Snapshot()
	}

	root := Node{Payload: AddOp{Elem: "x"}}
	rootDigest := root.Digest()
	addAgain := Node{Predecessors: []Digest{rootDigest}, Payload: AddOp{Elem: "x"}}
	remove := Node{Predecessors: []Digest{rootDigest}, Payload: RemoveOp{Elem: "x", IDs: []Digest{rootDigest}}}

	orderA := buildAndSubmit([]Node{root, addAgain, remove})
	orderB := buildAndSubmit([]Node{remove, root, addAgain})
	orderC := buildAndSubmit([]Node{addAgain, root, remove})

	if !orderA["x"] || !orderB["x"] || !orderC["x"] {
		t.Errorf("expected x present via the surviving add-again in every admission order: %v %v %v", orderA, orderB, orderC)
	}
}
