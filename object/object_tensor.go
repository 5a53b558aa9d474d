package object

// Tensor wraps an opaque handle owned by the tensor engine or a
// Stash. The core never inspects a tensor's cells directly - every
// numeric reduction and the element-wise "tensor match" primitive are
// delegated to the handle, which the tensor engine constructed.
type Tensor struct {
	// Handle is the engine-owned reference this value carries.
	Handle TensorHandle
}

// Inspect returns a string-representation of the given value.
func (t *Tensor) Inspect() string {
	if t.Handle == nil {
		return "tensor()"
	}
	return t.Handle.Inspect()
}

// Type returns the variant of this value.
func (t *Tensor) Type() Type {
	return TENSOR
}
