package rankexpr

import (
	"strings"
	"testing"

	"github.com/skx/rankexpr/ast"
	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/tensor"
)

func TestCompileAndEval(t *testing.T) {
	root := &ast.Binary{
		Left:     &ast.Number{Value: 2},
		Operator: "Add",
		Right: &ast.Binary{
			Left:     &ast.Number{Value: 3},
			Operator: "Mul",
			Right:    &ast.Number{Value: 4},
		},
	}

	fn, err := Compile(tensor.NewEngine(), root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ctx := NewContext()
	got, err := fn.Eval(ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	d, ok := got.(*object.Double)
	if !ok || d.Value != 14 {
		t.Fatalf("2 + 3 * 4 = %v, want Double(14)", got)
	}
}

func TestEvalRejectsWrongParamCount(t *testing.T) {
	fn, err := Compile(tensor.NewEngine(), &ast.Symbol{ID: 0}, 1)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ctx := NewContext()
	// deliberately leave params empty, though the function wants 1
	if _, err := fn.Eval(ctx); err == nil {
		t.Fatalf("expected an error for a parameter-count mismatch")
	}
}

func TestContextReusableAcrossEvaluations(t *testing.T) {
	fn, err := Compile(tensor.NewEngine(), &ast.Binary{
		Left: &ast.Symbol{ID: 0}, Operator: "Mul", Right: &ast.Symbol{ID: 0},
	}, 1)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ctx := NewContext()
	ctx.SetParams([]object.Value{&object.Double{Value: 3}})
	first, err := fn.Eval(ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if first.(*object.Double).Value != 9 {
		t.Fatalf("3*3 = %v, want 9", first)
	}

	ctx.SetParams([]object.Value{&object.Double{Value: 5}})
	second, err := fn.Eval(ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if second.(*object.Double).Value != 25 {
		t.Fatalf("5*5 = %v, want 25", second)
	}
}

func TestTwoContextsAgreeOnTheSameFunction(t *testing.T) {
	fn, err := Compile(tensor.NewEngine(), &ast.Binary{
		Left: &ast.Symbol{ID: 0}, Operator: "Add", Right: &ast.Number{Value: 1},
	}, 1)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	params := []object.Value{&object.Double{Value: 41}}

	a := NewContext()
	a.SetParams(params)
	ra, err := fn.Eval(a)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	b := NewContext()
	b.SetParams(params)
	rb, err := fn.Eval(b)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	if ra.(*object.Double).Value != rb.(*object.Double).Value {
		t.Fatalf("two contexts against the same function diverged: %v vs %v", ra, rb)
	}
}

func TestDisassembleListsConstantsAndInstructions(t *testing.T) {
	fn, err := Compile(tensor.NewEngine(), &ast.Number{Value: 42}, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	out := fn.Disassemble()
	if !strings.Contains(out, "OpConstant") {
		t.Fatalf("disassembly missing instruction listing: %s", out)
	}
	if !strings.Contains(out, "Constant Pool") {
		t.Fatalf("disassembly missing constant pool: %s", out)
	}
}
