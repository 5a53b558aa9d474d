// Package tensor defines the external tensor-engine collaborator the
// core holds a reference to (one engine per compiled Function) plus a
// dependency-free reference implementation.
//
// The real backend - creation from a specification and reduction along
// named dimensions - is deliberately abstract: the actual tensor
// engine is an external collaborator, out of scope for this module.
// No third-party tensor/ndarray library appears anywhere in the
// retrieved corpus, so the reference engine below is built on the
// standard library alone; see DESIGN.md.
package tensor

import (
	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/stash"
)

// ReduceOp names a reduction applied along a set of dimensions.
type ReduceOp int

// The reductions the core's opcodes require.
const (
	Add ReduceOp = iota
)

// Cell is one addressed element of a tensor literal: a coordinate on
// each dimension named by the enclosing Spec, plus its value.
type Cell struct {
	// Coords maps dimension name to the coordinate label for this
	// cell, e.g. {"x": "a"}.
	Coords map[string]string

	// Value is the scalar stored at this address.
	Value float64
}

// Spec describes a tensor literal as the builder assembles it: the
// union of dimension names used by any cell, and the cells themselves.
type Spec struct {
	Dims  []string
	Cells []Cell
}

// Engine is the external collaborator: it materializes tensors from a
// Spec and reduces existing tensors along named dimensions. A single
// Engine is shared by every Function compiled against it and must be
// safe for concurrent Create/Reduce calls; the core performs no
// locking of its own.
type Engine interface {
	// Create materializes a new tensor from spec, returning a handle
	// owned by the engine (or, for engines that choose to, by the
	// caller's Stash).
	Create(spec Spec) (object.TensorHandle, error)

	// Reduce sums (or otherwise combines, per op) the cells of h
	// along dims. An empty dims reduces every dimension to a single
	// scalar Double; a non-empty dims leaves a tensor over whatever
	// dimensions were not named. The result is created inside s so
	// its lifetime matches the evaluation that requested it.
	Reduce(h object.TensorHandle, op ReduceOp, dims []string, s *stash.Stash) (object.Value, error)
}
