// Package stash implements the bump-style arena that owns every value
// materialized during compilation and evaluation.
//
// Two lifetimes exist, both backed by the same type: a compile stash,
// owned by a compiled Function and living as long as it does, and an
// eval stash, owned by a Context and cleared at the start of every
// evaluation. Values are handed out as stable pointers - Go's garbage
// collector does not move heap objects, so a *object.Double handed
// out by Create survives exactly as long as the Stash keeps a
// reference to it, regardless of how many more values get appended
// afterwards.
package stash

import "github.com/skx/rankexpr/object"

// Releasable is implemented by values that hold a resource - such as a
// tensor handle borrowed from an engine-level pool - which must be
// released when the stash that owns them is cleared. Plain scalar
// values need not implement it.
type Releasable interface {
	Release()
}

// Stash is an append-only arena of object.Value.
type Stash struct {
	values []object.Value
}

// New constructs an empty Stash.
func New() *Stash {
	return &Stash{}
}

// create appends v to the arena and returns it, so that the typed
// constructors below can each return their own concrete pointer type
// instead of the Value interface.
func create[T object.Value](s *Stash, v T) T {
	s.values = append(s.values, v)
	return v
}

// Double constructs a Double inside the arena.
func (s *Stash) Double(v float64) *object.Double {
	return create(s, &object.Double{Value: v})
}

// String constructs a String (numeric hash) inside the arena.
func (s *Stash) String(hash float64) *object.String {
	return create(s, &object.String{Hash: hash})
}

// Tensor constructs a Tensor wrapping an engine-owned handle inside
// the arena.
func (s *Stash) Tensor(h object.TensorHandle) *object.Tensor {
	return create(s, &object.Tensor{Handle: h})
}

// Error constructs an Error inside the arena.
func (s *Stash) Error(message string) *object.Error {
	return create(s, &object.Error{Message: message})
}

// Len reports how many values the arena currently holds.
func (s *Stash) Len() int {
	return len(s.values)
}

// Clear destroys all contents in reverse insertion order, releasing
// any that hold an external resource, then empties the arena. No
// operation may require pointer stability across a Clear - every
// reference taken before a Clear must not be used afterwards.
func (s *Stash) Clear() {
	for i := len(s.values) - 1; i >= 0; i-- {
		if r, ok := s.values[i].(Releasable); ok {
			r.Release()
		}
	}
	s.values = s.values[:0]
}
