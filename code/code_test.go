package code

import (
	"strings"
	"testing"
)

func TestOpcodes(t *testing.T) {
	var i Opcode

	for i <= OpFinal {
		x := String(i)
		if !strings.HasPrefix(x, "Op") {
			t.Fatalf("opcode doesn't have a good prefix:%s", x)
		}
		i++
	}
}

func TestHasOperand(t *testing.T) {
	if !HasOperand(OpConstant) {
		t.Fatalf("OpConstant must carry an operand")
	}
	if !HasOperand(OpCheckMember) {
		t.Fatalf("OpCheckMember must carry an operand")
	}
	if HasOperand(OpNotMember) {
		t.Fatalf("OpNotMember must not carry an operand")
	}
	if HasOperand(OpAdd) {
		t.Fatalf("OpAdd must not carry an operand")
	}
	if HasOperand(OpNot) {
		t.Fatalf("OpNot must not carry an operand")
	}
}

func TestDisassemble(t *testing.T) {
	instr := Instructions{
		{Op: OpConstant, Param: 0},
		{Op: OpParam, Param: 1},
		{Op: OpAdd},
	}

	out := Disassemble(instr)

	for _, want := range []string{"0000", "OpConstant", "0", "0001", "OpParam", "1", "0002", "OpAdd"} {
		if !strings.Contains(out, want) {
			t.Fatalf("disassembly %q missing %q", out, want)
		}
	}
}
