package stack

import (
	"testing"

	"github.com/skx/rankexpr/object"
)

func TestStackStartsEmpty(t *testing.T) {
	s := New()
	if !s.Empty() {
		t.Errorf("new stack is non-empty")
	}
	if s.Size() != 0 {
		t.Errorf("new stack has a size-mismatch")
	}
}

func TestStackPushPop(t *testing.T) {
	s := New()

	s.Push(&object.Double{Value: 3})
	if s.Empty() {
		t.Errorf("stack should not be empty after a push")
	}
	if s.Size() != 1 {
		t.Errorf("stack has a size-mismatch")
	}

	val, err := s.Pop()
	if err != nil {
		t.Errorf("unexpected error popping from the stack: %s", err)
	}
	if s.Empty() != true {
		t.Errorf("stack should be empty now")
	}
	if val.(*object.Double).Value != 3 {
		t.Errorf("push/pop mismatch")
	}
}

func TestStackOrder(t *testing.T) {
	s := New()

	s.Push(&object.Double{Value: 1})
	s.Push(&object.Double{Value: 2})

	if s.Size() != 2 {
		t.Errorf("stack has a size-mismatch")
	}

	val, err := s.Pop()
	if err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	if val.(*object.Double).Value != 2 {
		t.Errorf("pop should return the most recently pushed value first")
	}

	val, err = s.Pop()
	if err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	if val.(*object.Double).Value != 1 {
		t.Errorf("pop should return values in LIFO order")
	}
}

func TestEmptyStackPop(t *testing.T) {
	s := New()

	_, err := s.Pop()
	if err == nil {
		t.Errorf("should receive an error popping an empty stack")
	}
}

func TestPeek(t *testing.T) {
	s := New()
	s.Push(&object.Double{Value: 10})
	s.Push(&object.Double{Value: 20})

	top, err := s.Peek(0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if top.(*object.Double).Value != 20 {
		t.Errorf("Peek(0) should return the top value")
	}

	below, err := s.Peek(1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if below.(*object.Double).Value != 10 {
		t.Errorf("Peek(1) should return the value below the top")
	}

	if s.Size() != 2 {
		t.Errorf("Peek must not remove values")
	}

	if _, err := s.Peek(2); err == nil {
		t.Errorf("Peek out of range should report an error")
	}
}
