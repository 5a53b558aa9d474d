// Package code contains definitions of the bytecode instruction.
//
// The instructions are produced by the compiler as it walks a parsed
// expression tree, and consumed by the virtual machine that executes
// them. Each Instruction is a fixed-size (Opcode, Param) pair rather
// than a packed byte stream with address-sized immediates: a compiled
// expression is short-lived and small, so there is nothing to gain
// from the source's function-pointer-and-raw-offset encoding, and a
// great deal of safety to gain from a plain tagged enum instead.
package code

import "fmt"

// Opcode is a type-alias.
type Opcode byte

// Opcodes we support.
const (
	// OpConstant pushes the constant at index Param onto the stack.
	OpConstant Opcode = iota

	// OpParam pushes the parameter vector entry at index Param onto
	// the stack.
	OpParam

	// OpLoadLet pushes the let-binding at offset Param (counted from
	// the bottom of the let stack) onto the stack.
	OpLoadLet

	// OpSkip jumps unconditionally to the instruction at index Param.
	OpSkip

	// OpSkipIfFalse pops a value; if it is not truthy, jumps to the
	// instruction at index Param, otherwise falls through.
	OpSkipIfFalse

	// OpStoreLet pops a value off the operand stack and pushes it
	// onto the let-binding stack.
	OpStoreLet

	// OpEvictLet pops the top binding off the let-binding stack.
	OpEvictLet

	// OpTensorSumDim reduces the tensor on top of the stack over the
	// single dimension named by the interned dimension name at index
	// Param (the program's dimension-name table, not its constants),
	// leaving a tensor over whatever dimensions remain.
	OpTensorSumDim

	// OpCheckMember tests the second-from-top stack value for
	// equality against the top value; on a match it leaves a true
	// Double and jumps to the instruction at Param, otherwise it
	// discards the top value alone and falls through.
	OpCheckMember

	//
	// Everything above this line except OpStoreLet and OpEvictLet
	// takes an operand; everything below it is a plain 0-operand
	// opcode.
	//
	opWithOperandBoundary

	// OpNotMember ends an "in" chain in which no candidate matched:
	// it pops the left-hand side the failed checks left behind and
	// pushes Double(0). A match jumps past it.
	OpNotMember

	// OpTensorSum reduces the tensor on top of the stack over every
	// dimension, leaving a scalar Double.
	OpTensorSum

	// Unary numeric.
	OpNeg
	OpNot
	OpCos
	OpSin
	OpTan
	OpCosh
	OpSinh
	OpTanh
	OpAcos
	OpAsin
	OpAtan
	OpExp
	OpLog
	OpLog10
	OpSqrt
	OpCeil
	OpFloor
	OpFabs
	OpIsNan
	OpRelu

	// Binary numeric.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpPow2
	OpAtan2
	OpLdexp
	OpFmod
	OpMin
	OpMax

	// Comparisons.
	OpEqual
	OpNotEqual
	OpApprox
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual

	// Logical (strict - both operands are always evaluated by virtue
	// of the stack machine compiling both subtrees before the opcode).
	OpAnd
	OpOr

	// OpFinal is a sentinel, one past the last real opcode.
	OpFinal
)

// names holds the diagnostic name of every opcode, indexed by value;
// built once from the same ordering as the const block above.
var names = map[Opcode]string{
	OpConstant:     "OpConstant",
	OpParam:        "OpParam",
	OpLoadLet:      "OpLoadLet",
	OpSkip:         "OpSkip",
	OpSkipIfFalse:  "OpSkipIfFalse",
	OpStoreLet:     "OpStoreLet",
	OpEvictLet:     "OpEvictLet",
	OpTensorSumDim: "OpTensorSumDim",
	OpCheckMember:  "OpCheckMember",
	OpNotMember:    "OpNotMember",
	OpTensorSum:    "OpTensorSum",
	OpNeg:          "OpNeg",
	OpNot:          "OpNot",
	OpCos:          "OpCos",
	OpSin:          "OpSin",
	OpTan:          "OpTan",
	OpCosh:         "OpCosh",
	OpSinh:         "OpSinh",
	OpTanh:         "OpTanh",
	OpAcos:         "OpAcos",
	OpAsin:         "OpAsin",
	OpAtan:         "OpAtan",
	OpExp:          "OpExp",
	OpLog:          "OpLog",
	OpLog10:        "OpLog10",
	OpSqrt:         "OpSqrt",
	OpCeil:         "OpCeil",
	OpFloor:        "OpFloor",
	OpFabs:         "OpFabs",
	OpIsNan:        "OpIsNan",
	OpRelu:         "OpRelu",
	OpAdd:          "OpAdd",
	OpSub:          "OpSub",
	OpMul:          "OpMul",
	OpDiv:          "OpDiv",
	OpPow:          "OpPow",
	OpPow2:         "OpPow2",
	OpAtan2:        "OpAtan2",
	OpLdexp:        "OpLdexp",
	OpFmod:         "OpFmod",
	OpMin:          "OpMin",
	OpMax:          "OpMax",
	OpEqual:        "OpEqual",
	OpNotEqual:     "OpNotEqual",
	OpApprox:       "OpApprox",
	OpLess:         "OpLess",
	OpLessEqual:    "OpLessEqual",
	OpGreater:      "OpGreater",
	OpGreaterEqual: "OpGreaterEqual",
	OpAnd:          "OpAnd",
	OpOr:           "OpOr",
}

// HasOperand reports whether op carries a Param that the VM must
// consult, as opposed to a plain 0-operand opcode.
func HasOperand(op Opcode) bool {
	return op < opWithOperandBoundary && op != OpStoreLet && op != OpEvictLet
}

// Instruction is one compiled step: an operation and, for opcodes
// where HasOperand is true, the operand that goes with it.
type Instruction struct {
	Op    Opcode
	Param int
}

// Instructions is a straight-line compiled program.
type Instructions []Instruction

// String converts the given opcode to a string. This is useful for
// diagnostics and for Disassemble below.
func String(op Opcode) string {
	if s, ok := names[op]; ok {
		return s
	}
	return "OpUnknown"
}

// Disassemble renders instr as a human-readable listing, one line per
// instruction, prefixed with its index so jump targets are easy to
// cross-reference by eye.
func Disassemble(instr Instructions) string {
	out := ""
	for i, ins := range instr {
		if HasOperand(ins.Op) {
			out += fmt.Sprintf("%04d %-16s %d\n", i, String(ins.Op), ins.Param)
		} else {
			out += fmt.Sprintf("%04d %-16s\n", i, String(ins.Op))
		}
	}
	return out
}
