package bftcrdt

// Node is a single entry in the causal hash graph: a payload operation plus
// the digests of the nodes it causally depends on. Nodes are immutable once
// constructed — their digest is a pure function of their content.
type Node struct {
	Predecessors []Digest
	Payload      Operation
}

// Digest computes the node's content address: the SHA-256 of the
// ascending-sorted predecessor digests concatenated as raw bytes, followed
// by the canonical encoding of the payload. Sorting predecessors first
// makes the digest invariant under the order predecessors happen to be
// listed in, so two honest peers deriving the same node from the same
// causal history always agree on its digest.
func (n Node) Digest() Digest {
	sorted := sortDigests(n.Predecessors)
	parts := make([][]byte, 0, len(sorted)+1)
	for _, p := range sorted {
		parts = append(parts, encodeDigest(p))
	}
	parts = append(parts, n.Payload.Encode())
	return sum256Hex(parts...)
}

// HasPredecessor reports whether d appears among n's direct predecessors.
func (n Node) HasPredecessor(d Digest) bool {
	for _, p := range n.Predecessors {
		if p == d {
			return true
		}
	}
	return false
}
