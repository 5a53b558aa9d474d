package object

// Error is the propagation marker for undefined operations: a type
// mismatch in arithmetic, a reduction on a non-tensor operand, or a
// malformed program that leaves the wrong number of values on the
// operand stack. Errors are first-class values, not exceptions - they
// flow through the stack like any other Value and every operation
// absorbs one instead of signalling.
type Error struct {
	// Message contains the error-message we're wrapping
	Message string
}

// Type returns the variant of this value.
func (e *Error) Type() Type {
	return ERROR
}

// Inspect returns a string-representation of the given value.
func (e *Error) Inspect() string {
	return "ERROR: " + e.Message
}
