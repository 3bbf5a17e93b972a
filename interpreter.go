// Package bftcrdt provides a Byzantine-fault-tolerant framework for
// operation-based Conflict-free Replicated Data Types exchanged between
// mutually distrusting peers.
//
// Each peer keeps a content-addressed causal history — a hash DAG of
// operation nodes (HashGraph) — and interprets admitted nodes through a
// CRDT-specific Interpreter. Two concrete interpreters are provided: an
// Observed-Remove Set (ORSet) and a Replicated Growable Array (RGA) for
// ordered sequences. A BFTHandler ties a graph and an interpreter together,
// gating interpretation on structural and semantic validity so that a
// dishonest peer cannot fabricate references, reorder history, or omit
// dependencies and still have its operations take effect.
package bftcrdt

// Interpreter is the capability a concrete BFT CRDT exposes to a
// BFTHandler: it can turn an admitted Node into a state mutation, and it
// can judge whether a not-yet-admitted Node is semantically valid given the
// current graph.
//
// Implementations must ensure that, for any two handlers that admit the
// same set of semantically-valid nodes (in any order consistent with the
// admission protocol — predecessors before descendants), the resulting
// state is identical. That is the convergence guarantee the rest of this
// package exists to provide:
//
//  1. Interpret must be order-independent across concurrent (non-causally
//     related) nodes: applying a concurrent Add and a concurrent Insert in
//     either order must leave the same state.
//  2. IsSemanticallyValid must depend only on the admitted subgraph, never
//     on wall-clock time or on anything the node's predecessors do not
//     already establish — otherwise two honest peers could disagree about
//     whether the same node is valid.
//
// Unlike a state-based CRDT's Merge, there is no direct replica-to-replica
// join here: convergence is achieved by every replica admitting the same
// nodes through the same two gates.
type Interpreter interface {
	// Interpret applies the effect of an already-admitted node to the
	// interpreter's state. The handler calls it for remote nodes only
	// after they pass both validity checks, and for local nodes
	// (SubmitLocal) without a semantic check, since those descend from
	// everything the handler already knows.
	Interpret(node Node, graph *HashGraph)

	// IsSemanticallyValid reports whether node's payload is consistent
	// with the causal history captured by graph: for an ORSet Remove,
	// every named digest must be an ancestral Add of the same element;
	// for an RGA Insert/Delete with a reference, the reference must be
	// an ancestral Insert. Add and reference-free Insert are always
	// valid. graph is guaranteed to already contain every predecessor
	// of node (structural validity is checked first by the handler),
	// but node itself need not yet be admitted.
	IsSemanticallyValid(node Node, graph *HashGraph) bool
}
