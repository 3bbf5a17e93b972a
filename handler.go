package bftcrdt

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// pendingBuffer holds nodes that have failed structural or semantic
// validity and are waiting on a later admission to make them valid. The
// default buffer never evicts; NewBoundedHandler swaps in an
// eviction-bounded implementation instead.
type pendingBuffer interface {
	add(d Digest, n Node)
	remove(d Digest)
	values() []Node
	len() int
}

// unboundedPending is a plain, order-preserving map-backed buffer. It is
// the default: spec section 7 treats pending-size bounding as a caller
// policy decision, not a core correctness requirement.
type unboundedPending struct {
	order []Digest
	byID  map[Digest]Node
}

func newUnboundedPending() *unboundedPending {
	return &unboundedPending{byID: make(map[Digest]Node)}
}

func (p *unboundedPending) add(d Digest, n Node) {
	if _, ok := p.byID[d]; ok {
		return
	}
	p.byID[d] = n
	p.order = append(p.order, d)
}

func (p *unboundedPending) remove(d Digest) {
	if _, ok := p.byID[d]; !ok {
		return
	}
	delete(p.byID, d)
	for i, existing := range p.order {
		if existing == d {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *unboundedPending) values() []Node {
	out := make([]Node, 0, len(p.order))
	for _, d := range p.order {
		out = append(out, p.byID[d])
	}
	return out
}

func (p *unboundedPending) len() int { return len(p.byID) }

// lruPending bounds the pending buffer to a fixed capacity, evicting the
// least-recently-added entry once full. This is the policy layer spec
// section 7 explicitly leaves to implementers ("Implementations may bound
// pending size and evict stale entries by policy — that policy is not part
// of core correctness"), grounded on the pack's common use of
// github.com/hashicorp/golang-lru for exactly this kind of bounded working
// set.
type lruPending struct {
	cache *lru.Cache[Digest, Node]
}

func newLRUPending(capacity int) *lruPending {
	cache, _ := lru.New[Digest, Node](capacity)
	return &lruPending{cache: cache}
}

func (p *lruPending) add(d Digest, n Node) {
	p.cache.ContainsOrAdd(d, n)
}

func (p *lruPending) remove(d Digest) {
	p.cache.Remove(d)
}

func (p *lruPending) values() []Node {
	out := make([]Node, 0, p.cache.Len())
	for _, d := range p.cache.Keys() {
		if n, ok := p.cache.Peek(d); ok {
			out = append(out, n)
		}
	}
	return out
}

func (p *lruPending) len() int { return p.cache.Len() }

// BFTHandler combines a HashGraph and an Interpreter, gating admission on
// structural and semantic validity and buffering anything that does not
// yet pass both (section 4.6).
type BFTHandler struct {
	graph   *HashGraph
	interp  Interpreter
	pending pendingBuffer
	log     *zap.SugaredLogger
}

// NewHandler returns a handler with an unbounded pending buffer. A nil
// logger is replaced with a no-op logger.
func NewHandler(interp Interpreter, log *zap.SugaredLogger) *BFTHandler {
	return newHandler(interp, newUnboundedPending(), log)
}

// NewBoundedHandler returns a handler whose pending buffer never holds more
// than capacity nodes, evicting the oldest once full. Use this when a peer
// expects sustained exposure to Byzantine or merely slow senders and wants
// to bound memory rather than buffer forever.
func NewBoundedHandler(interp Interpreter, capacity int, log *zap.SugaredLogger) *BFTHandler {
	return newHandler(interp, newLRUPending(capacity), log)
}

func newHandler(interp Interpreter, buf pendingBuffer, log *zap.SugaredLogger) *BFTHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &BFTHandler{
		graph:   NewHashGraph(),
		interp:  interp,
		pending: buf,
		log:     log,
	}
}

// SubmitLocal appends payload to the graph using the current heads as
// predecessors, interprets the new node, and returns its digest. Local
// operations always descend from everything the handler locally knows, so
// they bypass the semantic-validity predicate entirely.
func (h *BFTHandler) SubmitLocal(payload Operation) Digest {
	d := h.graph.AppendLocal(payload)
	node, _ := h.graph.Lookup(d)
	h.interp.Interpret(node, h.graph)
	h.log.Debugw("admitted local node", "digest", d, "kind", payload.Kind())
	return d
}

// SubmitRemote runs the admission protocol of section 4.6 on a node
// received from a peer: buffer if structurally invalid, buffer if
// semantically invalid, otherwise admit, interpret, and run re-evaluation
// over the pending buffer. Invalid nodes never mutate state and never
// produce an error — they are silently buffered, per section 7's failure
// semantics.
func (h *BFTHandler) SubmitRemote(node Node) {
	d := node.Digest()
	if h.graph.Contains(d) {
		return
	}

	if !h.graph.IsStructurallyValid(node) {
		h.pending.add(d, node)
		h.log.Debugw("buffered structurally invalid node", "digest", d)
		return
	}
	if !h.interp.IsSemanticallyValid(node, h.graph) {
		h.pending.add(d, node)
		h.log.Debugw("buffered semantically invalid node", "digest", d)
		return
	}

	h.admit(node)
	h.reevaluatePending()
}

func (h *BFTHandler) admit(node Node) {
	h.graph.Admit(node)
	h.interp.Interpret(node, h.graph)
}

// reevaluatePending repeats a pass over the pending buffer until a pass
// admits nothing, implementing the fixed-point re-evaluation of section
// 4.6: a node that was structurally invalid, or structurally valid but
// semantically invalid, stays buffered; the loop retries because a
// sibling's admission in this same pass may be exactly what it was
// waiting on.
func (h *BFTHandler) reevaluatePending() {
	for {
		progressed := false
		for _, node := range h.pending.values() {
			d := node.Digest()
			if !h.graph.IsStructurallyValid(node) {
				continue
			}
			if !h.interp.IsSemanticallyValid(node, h.graph) {
				continue
			}
			h.admit(node)
			h.pending.remove(d)
			progressed = true
			h.log.Debugw("admitted previously pending node", "digest", d)
		}
		if !progressed {
			return
		}
	}
}

// Heads returns the current frontier of the handler's graph.
func (h *BFTHandler) Heads() []Digest {
	return h.graph.Heads()
}

// Contains reports whether d has been admitted.
func (h *BFTHandler) Contains(d Digest) bool {
	return h.graph.Contains(d)
}

// PendingLen reports how many nodes are currently buffered awaiting
// structural or semantic validity.
func (h *BFTHandler) PendingLen() int {
	return h.pending.len()
}

// Graph exposes the underlying HashGraph for read access through its
// Lookup, Contains, Heads and Len methods. HashGraph has no method that
// enumerates every admitted node, and the pending buffer is not exposed.
func (h *BFTHandler) Graph() *HashGraph {
	return h.graph
}
