// Package stack implements the operand stack used by the virtual
// machine, and is reused for the let-binding stack too.
package stack

import (
	"errors"

	"github.com/skx/rankexpr/object"
)

// Stack is a LIFO of object.Value.
type Stack struct {
	entries []object.Value
}

// New creates a new, empty Stack.
func New() *Stack {
	return &Stack{}
}

// Empty returns true if the stack holds no values.
func (s *Stack) Empty() bool {
	return len(s.entries) == 0
}

// Size retrieves the length of the stack.
func (s *Stack) Size() int {
	return len(s.entries)
}

// Push adds a value to the stack.
func (s *Stack) Push(value object.Value) {
	s.entries = append(s.entries, value)
}

// Pop removes and returns the top value on the stack.
func (s *Stack) Pop() (object.Value, error) {
	if s.Empty() {
		return nil, errors.New("pop from an empty stack")
	}

	result := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return result, nil
}

// Peek returns the value n levels up from the top of the stack
// without removing it (0 = the top value).
func (s *Stack) Peek(n int) (object.Value, error) {
	idx := len(s.entries) - 1 - n
	if idx < 0 || idx >= len(s.entries) {
		return nil, errors.New("peek out of range")
	}
	return s.entries[idx], nil
}
