package bftcrdt

// OpKind discriminates the concrete Operation variants carried by a Node's
// payload. It is not part of the wire envelope's hashed bytes by accident:
// each Operation's Encode prefixes its own kind byte, so that two different
// variants can never hash to the same bytes for the same logical arguments
// (spec 4.1/9: "implementers must audit that Add(e) and Remove(e, []) cannot
// produce identical byte strings").
type OpKind byte

const (
	OpKindAdd OpKind = iota + 1
	OpKindRemove
	OpKindInsert
	OpKindDelete
)

// Operation is the payload carried by a Node. Concrete CRDTs (ORSet, RGA)
// define their own operation variants; the hash graph and BFT handler only
// ever need the canonical encoding of whichever variant they are holding.
type Operation interface {
	Encode() []byte
	Kind() OpKind
}

// UserID is an application-chosen identifier attached to an RGA insert. It
// is compared lexicographically as a plain string — it is never hashed or
// treated as a digest, just the tiebreaker a generating peer controls to
// place its insert relative to concurrent siblings.
type UserID string

// ElementID identifies a single RGA element: the user-chosen id plus the
// digest of the node whose Insert introduced it. Ordering is lexicographic,
// user id first, digest as tiebreaker — the user id is what lets an honest
// generator control its position relative to concurrent siblings; the
// digest guarantees global uniqueness.
type ElementID struct {
	UserID UserID
	Node   Digest
}

// Less reports whether id is ordered strictly before other under the
// lexicographic (UserID, Node) order RGA uses to break sibling ties.
func (id ElementID) Less(other ElementID) bool {
	if id.UserID != other.UserID {
		return id.UserID < other.UserID
	}
	return id.Node < other.Node
}

// Equal reports whether id and other name the same element.
func (id ElementID) Equal(other ElementID) bool {
	return id.UserID == other.UserID && id.Node == other.Node
}

func (id ElementID) encode() []byte {
	return concatBytes(encodeString(string(id.UserID)), encodeDigest(id.Node))
}

// AddOp is the ORSet "Add(e)" operation: contributes a present digest-tagged
// instance of e. It is always semantically valid.
type AddOp struct {
	Elem string
}

func (o AddOp) Kind() OpKind { return OpKindAdd }

func (o AddOp) Encode() []byte {
	return concatBytes([]byte{byte(OpKindAdd)}, encodeString(o.Elem))
}

// RemoveOp is the ORSet "Remove(e, ids)" operation: names the exact set of
// add-digests being removed. Semantic validity requires each id to resolve
// to an ancestral Add(e) of the same element.
type RemoveOp struct {
	Elem string
	IDs  []Digest
}

func (o RemoveOp) Kind() OpKind { return OpKindRemove }

func (o RemoveOp) Encode() []byte {
	sorted := sortDigests(o.IDs)
	parts := make([][]byte, 0, len(sorted)+2)
	parts = append(parts, []byte{byte(OpKindRemove)})
	for _, id := range sorted {
		parts = append(parts, encodeDigest(id))
	}
	parts = append(parts, encodeString(o.Elem))
	return concatBytes(parts...)
}

// InsertOp is the RGA "Insert(value, userID, after)" operation. A nil After
// means "insert at the head of the list"; otherwise After names the
// ElementID this insert is positioned relative to.
type InsertOp struct {
	Value  string
	UserID UserID
	After  *ElementID
}

func (o InsertOp) Kind() OpKind { return OpKindInsert }

func (o InsertOp) Encode() []byte {
	parts := [][]byte{{byte(OpKindInsert)}, encodeString(o.Value), encodeString(string(o.UserID))}
	if o.After != nil {
		parts = append(parts, o.After.encode())
	}
	return concatBytes(parts...)
}

// DeleteOp is the RGA "Delete(elementID)" operation: marks the referenced
// element a tombstone. Semantic validity requires the referenced insert to
// be an ancestor.
type DeleteOp struct {
	Elem ElementID
}

func (o DeleteOp) Kind() OpKind { return OpKindDelete }

func (o DeleteOp) Encode() []byte {
	return concatBytes([]byte{byte(OpKindDelete)}, o.Elem.encode())
}
