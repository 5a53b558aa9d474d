// Package object contains our core-definitions for the values the
// virtual machine operates upon.
//
// Our language supports four variants, kept deliberately uniform so
// that every opcode can move them around without caring which one it
// has:
//
// * Double  - a numeric scalar, also the only variant with a notion
//             of truthiness.
// * String  - collapsed to a numeric hash; no string payload survives
//             into the VM.
// * Tensor  - an opaque handle owned by the tensor engine or a stash.
// * Error   - a propagation marker for undefined operations.
package object

// Type describes the variant of a Value.
type Type string

// The variants a Value may hold.
const (
	DOUBLE Type = "DOUBLE"
	STRING Type = "STRING"
	TENSOR Type = "TENSOR"
	ERROR  Type = "ERROR"
)

// Value is the interface every variant implements.
//
// Values are handed around by reference: once created inside a Stash
// they live at a fixed address until that Stash is cleared.
type Value interface {
	// Type returns the variant of this value.
	Type() Type

	// Inspect returns a human-readable representation, used for
	// diagnostics and bytecode disassembly - never for hashing or
	// equality.
	Inspect() string
}

// TensorHandle is the minimal contract a tensor engine's handle must
// satisfy so that a *Tensor value can be inspected and used as the
// left or right operand of the tensor-match ("*") primitive without
// the object package depending on the tensor package that implements
// handles and reductions.
type TensorHandle interface {
	// Dims returns the dimension names this tensor ranges over.
	Dims() []string

	// Inspect returns a short human-readable summary.
	Inspect() string

	// Multiply performs the element-wise "tensor match" primitive
	// against another handle from the same engine.
	Multiply(other TensorHandle) (TensorHandle, error)
}

// Truthy implements the single truthiness rule of the language: only
// a Double is ever true, and then only when it is strictly positive
// and finite. Every other variant - String, Tensor, Error - is false
// as a branch condition.
func Truthy(v Value) bool {
	d, ok := v.(*Double)
	if !ok {
		return false
	}
	return d.True()
}

// Equal implements variant-aware equality: Double compares by IEEE
// equality, String compares by hash, and any other pairing - including
// two Errors - is false. Tensor equality is never required by any
// opcode, so it is intentionally omitted.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *Double:
		bv, ok := b.(*Double)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Hash == bv.Hash
	default:
		return false
	}
}

// IsError reports whether v is the Error variant.
func IsError(v Value) bool {
	_, ok := v.(*Error)
	return ok
}

// FirstError returns the first operand which is an Error value, so
// that callers can absorb it before running an operation's real logic.
func FirstError(vals ...Value) (Value, bool) {
	for _, v := range vals {
		if IsError(v) {
			return v, true
		}
	}
	return nil, false
}
