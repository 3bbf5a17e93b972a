package bftcrdt

import "errors"

// ErrNotApplicable is returned by a local operation generator (RGA insert
// or delete) when the requested index does not resolve to a visible
// element. It never mutates state.
var ErrNotApplicable = errors.New("bftcrdt: operation not applicable to current state")
