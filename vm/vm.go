// Package vm implements the stack-based virtual machine that executes
// a compiled program against a parameter vector.
//
// The machine itself holds no state between runs beyond what a State
// carries; Run is a pure function of (instructions, constants, State).
// Fatal preconditions - an empty-stack pop, a jump outside the
// program, a missing dimension-name constant - panic with a *Fault,
// recovered at the top of Run and reported as a Go error, since they
// signal a bug in the compiler or the caller, not a value the
// expression language itself can produce.
package vm

import (
	"fmt"

	"github.com/skx/rankexpr/code"
	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/ops"
	"github.com/skx/rankexpr/stack"
	"github.com/skx/rankexpr/stash"
	"github.com/skx/rankexpr/tensor"
)

// Fault is a fatal precondition failure: a violation of an invariant
// the compiler is supposed to guarantee, such as popping an empty
// stack or jumping outside the instruction stream. It is never a
// value the expression language itself can produce (contrast
// *object.Error, which is).
type Fault struct {
	Message string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return f.Message
}

func fault(format string, args ...interface{}) {
	panic(&Fault{Message: fmt.Sprintf(format, args...)})
}

// State is the per-evaluation execution state a Context owns: the
// operand stack, the let-binding stack, the program counter, and the
// bound parameter vector. A State may be reused across evaluations of
// the same compiled program; Run resets the stacks and program
// counter at the start of every call.
type State struct {
	Stack   *stack.Stack
	Lets    *stack.Stack
	PC      int
	IfCount int
	Params  []object.Value
	Stash   *stash.Stash
}

// NewState constructs an empty State.
func NewState() *State {
	return &State{
		Stack: stack.New(),
		Lets:  stack.New(),
		Stash: stash.New(),
	}
}

func (s *State) reset() {
	s.Stack = stack.New()
	s.Lets = stack.New()
	s.PC = 0
	s.IfCount = 0
	s.Stash.Clear()
}

func (s *State) pop() object.Value {
	v, err := s.Stack.Pop()
	if err != nil {
		fault("pop from an empty operand stack at pc=%d", s.PC)
	}
	return v
}

func (s *State) popLet() object.Value {
	v, err := s.Lets.Pop()
	if err != nil {
		fault("pop from an empty let-binding stack at pc=%d", s.PC)
	}
	return v
}

// Run executes instr against constants and dimNames using engine for
// tensor reductions, resetting and then driving state. It always
// returns a non-nil result: a well-formed program returns its scalar
// or tensor value, and a malformed one (terminal stack size != 1)
// returns an *object.Error rather than failing the call. The error
// return is reserved for Faults.
func Run(instr code.Instructions, constants []object.Value, dimNames []string, engine tensor.Engine, state *State) (result object.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*Fault); ok {
				err = f
				return
			}
			panic(r)
		}
	}()

	state.reset()

	for state.PC < len(instr) {
		ins := instr[state.PC]
		state.PC++

		switch ins.Op {
		case code.OpConstant:
			if ins.Param < 0 || ins.Param >= len(constants) {
				fault("constant index %d out of range", ins.Param)
			}
			state.Stack.Push(constants[ins.Param])

		case code.OpParam:
			if ins.Param < 0 || ins.Param >= len(state.Params) {
				fault("parameter index %d out of range", ins.Param)
			}
			state.Stack.Push(state.Params[ins.Param])

		case code.OpLoadLet:
			v, perr := state.Lets.Peek(state.Lets.Size() - 1 - ins.Param)
			if perr != nil {
				fault("let offset %d out of range", ins.Param)
			}
			state.Stack.Push(v)

		case code.OpStoreLet:
			state.Lets.Push(state.pop())

		case code.OpEvictLet:
			state.popLet()

		case code.OpSkip:
			if ins.Param < 0 || ins.Param > len(instr) {
				fault("skip target %d out of range", ins.Param)
			}
			state.PC = ins.Param

		case code.OpSkipIfFalse:
			state.IfCount++
			cond := state.pop()
			if !object.Truthy(cond) {
				if ins.Param < 0 || ins.Param > len(instr) {
					fault("skip target %d out of range", ins.Param)
				}
				state.PC = ins.Param
			}

		case code.OpCheckMember:
			top := state.pop()
			lhsVal, perr := state.Stack.Peek(0)
			if perr != nil {
				fault("check_member requires an lhs below the candidate")
			}
			if object.Equal(lhsVal, top) {
				state.pop()
				state.Stack.Push(state.Stash.Double(1))
				if ins.Param < 0 || ins.Param > len(instr) {
					fault("skip target %d out of range", ins.Param)
				}
				state.PC = ins.Param
			}

		case code.OpNotMember:
			state.pop()
			state.Stack.Push(state.Stash.Double(0))

		case code.OpTensorSum:
			v := state.pop()
			t, ok := v.(*object.Tensor)
			if !ok {
				state.Stack.Push(state.Stash.Error("sum() requires a tensor operand"))
				continue
			}
			reduced, rerr := engine.Reduce(t.Handle, tensor.Add, nil, state.Stash)
			if rerr != nil {
				state.Stack.Push(state.Stash.Error(rerr.Error()))
				continue
			}
			state.Stack.Push(reduced)

		case code.OpTensorSumDim:
			if ins.Param < 0 || ins.Param >= len(dimNames) {
				fault("dimension-name index %d out of range", ins.Param)
			}
			v := state.pop()
			t, ok := v.(*object.Tensor)
			if !ok {
				state.Stack.Push(state.Stash.Error("sum() requires a tensor operand"))
				continue
			}
			reduced, rerr := engine.Reduce(t.Handle, tensor.Add, []string{dimNames[ins.Param]}, state.Stash)
			if rerr != nil {
				state.Stack.Push(state.Stash.Error(rerr.Error()))
				continue
			}
			state.Stack.Push(reduced)

		default:
			dispatchOpcode(state, ins.Op)
		}
	}

	if state.Stack.Size() != 1 {
		return state.Stash.Error(fmt.Sprintf("malformed program: terminal stack size %d, want 1", state.Stack.Size())), nil
	}

	return state.pop(), nil
}

// dispatchOpcode handles every plain unary/binary arithmetic,
// comparison, and logical opcode via the ops tables, shared by every
// such opcode so Run's main switch stays focused on control flow.
func dispatchOpcode(state *State, op code.Opcode) {
	if fn, ok := ops.UnaryTable[op]; ok {
		v := state.pop()
		state.Stack.Push(fn(state.Stash, v))
		return
	}
	if fn, ok := ops.BinaryTable[op]; ok {
		rhs := state.pop()
		lhs := state.pop()
		state.Stack.Push(fn(state.Stash, lhs, rhs))
		return
	}
	fault("unknown opcode %s", code.String(op))
}
