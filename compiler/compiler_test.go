package compiler

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/skx/rankexpr/ast"
	"github.com/skx/rankexpr/code"
	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/tensor"
	"github.com/skx/rankexpr/tensor/tensormock"
	"github.com/skx/rankexpr/vm"
)

func eval(t *testing.T, prog *Program, params []object.Value) object.Value {
	t.Helper()
	return evalWithEngine(t, prog, params, tensor.NewEngine())
}

func evalWithEngine(t *testing.T, prog *Program, params []object.Value, engine tensor.Engine) object.Value {
	t.Helper()
	state := vm.NewState()
	state.Params = params
	got, err := vm.Run(prog.Instructions, prog.Constants, prog.DimNames, engine, state)
	if err != nil {
		t.Fatalf("Run returned an unexpected Fault: %v", err)
	}
	return got
}

func wantDouble(t *testing.T, v object.Value, want float64) {
	t.Helper()
	d, ok := v.(*object.Double)
	require.True(t, ok, "got %#v, want a Double", v)
	require.Equal(t, want, d.Value)
}

// 2 + 3 * 4 -> 14.
func TestCompileArithmetic(t *testing.T) {
	root := &ast.Binary{
		Left:     &ast.Number{Value: 2},
		Operator: "Add",
		Right: &ast.Binary{
			Left:     &ast.Number{Value: 3},
			Operator: "Mul",
			Right:    &ast.Number{Value: 4},
		},
	}

	prog, err := Compile(tensor.NewEngine(), root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	wantDouble(t, eval(t, prog, nil), 14)
}

// if (a > 0) 1/a else -1, with a = 0 -> -1, no division-by-zero error
// surfaces.
func TestCompileIfLazyBranchAvoidsDivByZero(t *testing.T) {
	root := &ast.If{
		Condition: &ast.Binary{
			Left:     &ast.Symbol{ID: 0},
			Operator: "Greater",
			Right:    &ast.Number{Value: 0},
		},
		Consequence: &ast.Binary{
			Left:     &ast.Number{Value: 1},
			Operator: "Div",
			Right:    &ast.Symbol{ID: 0},
		},
		Alternative: &ast.Number{Value: -1},
	}

	prog, err := Compile(tensor.NewEngine(), root, 1)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got := eval(t, prog, []object.Value{&object.Double{Value: 0}})
	wantDouble(t, got, -1)
}

// let x = 5 in x * x + x -> 30.
func TestCompileLet(t *testing.T) {
	root := &ast.Let{
		Value: &ast.Number{Value: 5},
		Body: &ast.Binary{
			Left: &ast.Binary{
				Left:     &ast.Symbol{ID: -1},
				Operator: "Mul",
				Right:    &ast.Symbol{ID: -1},
			},
			Operator: "Add",
			Right:    &ast.Symbol{ID: -1},
		},
	}

	prog, err := Compile(tensor.NewEngine(), root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	wantDouble(t, eval(t, prog, nil), 30)
}

// Nested let bindings must resolve by absolute let-stack position, and
// the outer binding must still resolve correctly once the inner one is
// evicted: let a = 1 in (let b = 2 in b) + a. a is bound first (stack
// position 0, Symbol{ID: -1}); b is bound second while a is still in
// scope (position 1, Symbol{ID: -2}).
func TestCompileNestedLetHygiene(t *testing.T) {
	root := &ast.Let{
		Value: &ast.Number{Value: 1},
		Body: &ast.Binary{
			Left: &ast.Let{
				Value: &ast.Number{Value: 2},
				Body:  &ast.Symbol{ID: -2},
			},
			Operator: "Add",
			Right:    &ast.Symbol{ID: -1},
		},
	}

	prog, err := Compile(tensor.NewEngine(), root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	wantDouble(t, eval(t, prog, nil), 3)
}

// "red" in ["red", "green", "blue"] -> 1; "yellow" in [...] -> 0.
func TestCompileInMembership(t *testing.T) {
	colors := func(lhs string) *ast.In {
		return &ast.In{
			LHS: &ast.String{Value: lhs},
			RHS: &ast.Array{Elements: []ast.Expression{
				&ast.String{Value: "red"},
				&ast.String{Value: "green"},
				&ast.String{Value: "blue"},
			}},
		}
	}

	prog, err := Compile(tensor.NewEngine(), colors("red"), 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !object.Truthy(eval(t, prog, nil)) {
		t.Fatalf("\"red\" in [...] should be truthy")
	}

	prog, err = Compile(tensor.NewEngine(), colors("yellow"), 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if object.Truthy(eval(t, prog, nil)) {
		t.Fatalf("\"yellow\" in [...] should not be truthy")
	}
}

func tensorLiteral() *ast.Tensor {
	return &ast.Tensor{Cells: []ast.TensorCell{
		{Coords: map[string]string{"x": "a"}, Value: 1},
		{Coords: map[string]string{"x": "b"}, Value: 2},
		{Coords: map[string]string{"x": "c"}, Value: 4},
	}}
}

// sum(t) where t is {x:a}:1, {x:b}:2, {x:c}:4 -> Double(7).
func TestCompileTensorSumToScalar(t *testing.T) {
	root := &ast.TensorSum{Operand: tensorLiteral()}

	prog, err := Compile(tensor.NewEngine(), root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	wantDouble(t, eval(t, prog, nil), 7)
}

// sum(t, x) on a 2-d tensor over x and y leaves a tensor over y alone.
func TestCompileTensorSumDimLeavesTensor(t *testing.T) {
	root := &ast.TensorSum{
		Operand: &ast.Tensor{Cells: []ast.TensorCell{
			{Coords: map[string]string{"x": "a", "y": "p"}, Value: 1},
			{Coords: map[string]string{"x": "b", "y": "p"}, Value: 2},
		}},
		Dim: "x",
	}

	prog, err := Compile(tensor.NewEngine(), root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got := eval(t, prog, nil)
	if _, ok := got.(*object.Tensor); !ok {
		t.Fatalf("sum(t, x) should leave a Tensor, got %T", got)
	}
}

func TestCompileTensorMatchLowersToMul(t *testing.T) {
	root := &ast.TensorMatch{Left: tensorLiteral(), Right: tensorLiteral()}

	prog, err := Compile(tensor.NewEngine(), root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	foundMul := false
	for _, ins := range prog.Instructions {
		if ins.Op == code.OpMul {
			foundMul = true
		}
	}
	if !foundMul {
		t.Fatalf("TensorMatch must lower to binary<Mul>")
	}

	got := eval(t, prog, nil)
	tv, ok := got.(*object.Tensor)
	if !ok {
		t.Fatalf("expected a Tensor result, got %T", got)
	}
	_ = tv
}

// A malformed program - here, one with a trailing unconsumed constant -
// must yield an Error, not fail Compile or Run.
func TestMalformedProgramYieldsError(t *testing.T) {
	prog := &Program{
		Instructions: code.Instructions{
			{Op: code.OpConstant, Param: 0},
			{Op: code.OpConstant, Param: 1},
		},
		Constants: []object.Value{&object.Double{Value: 1}, &object.Double{Value: 2}},
	}

	got := eval(t, prog, nil)
	if !object.IsError(got) {
		t.Fatalf("malformed program should yield an Error value, got %T", got)
	}
}

func TestCompileDeterminism(t *testing.T) {
	root := &ast.Binary{Left: &ast.Number{Value: 3}, Operator: "Add", Right: &ast.Number{Value: 4}}

	first, err := Compile(tensor.NewEngine(), root, 0)
	require.NoError(t, err)
	second, err := Compile(tensor.NewEngine(), root, 0)
	require.NoError(t, err)

	require.Equal(t, first.Instructions, second.Instructions,
		"two compiles of the same tree must produce identical instruction sequences")
}

func TestAddConstantDedupesDoubles(t *testing.T) {
	root := &ast.Binary{
		Left:     &ast.Number{Value: 9},
		Operator: "Add",
		Right:    &ast.Number{Value: 9},
	}

	prog, err := Compile(tensor.NewEngine(), root, 0)
	require.NoError(t, err)
	require.Len(t, prog.Constants, 1, "expected a single deduped constant")
}

func TestUnknownOperatorIsRejected(t *testing.T) {
	cases := []struct {
		name string
		root ast.Expression
	}{
		{"unary", &ast.Unary{Operator: "Bogus", Operand: &ast.Number{Value: 1}}},
		{"binary", &ast.Binary{Operator: "Bogus", Left: &ast.Number{Value: 1}, Right: &ast.Number{Value: 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tensor.NewEngine(), tc.root, 0)
			require.Error(t, err, "expected an error for an unknown %s operator", tc.name)
		})
	}
}

func TestCompileBareArrayIsItsLength(t *testing.T) {
	root := &ast.Array{Elements: []ast.Expression{
		&ast.Number{Value: 1}, &ast.Number{Value: 2}, &ast.Number{Value: 3},
	}}

	prog, err := Compile(tensor.NewEngine(), root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	wantDouble(t, eval(t, prog, nil), 3)
}

// A tensor literal that the engine refuses to materialize must fail
// Compile, not panic or silently produce a malformed program.
func TestCompileTensorLiteralPropagatesEngineFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := tensormock.NewMockEngine(ctrl)
	engine.EXPECT().
		Create(gomock.Any()).
		Return(nil, errors.New("backend unavailable"))

	root := tensorLiteral()
	if _, err := Compile(engine, root, 0); err == nil {
		t.Fatalf("expected Compile to surface the engine's Create error")
	}
}

// tensor_sum on a handle the engine can't reduce must surface as an
// Error value at eval time, not a Go error or a panic.
func TestEvalTensorSumPropagatesEngineFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := tensormock.NewMockEngine(ctrl)
	handle := struct{ object.TensorHandle }{}
	engine.EXPECT().Create(gomock.Any()).Return(handle, nil)
	engine.EXPECT().
		Reduce(gomock.Any(), tensor.Add, nil, gomock.Any()).
		Return(nil, errors.New("reduce: unsupported handle"))

	root := &ast.TensorSum{Operand: tensorLiteral()}
	prog, err := Compile(engine, root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got := evalWithEngine(t, prog, nil, engine)
	if !object.IsError(got) {
		t.Fatalf("expected an Error value when the engine's Reduce fails, got %T", got)
	}
}

func TestCompileErrorNode(t *testing.T) {
	root := &ast.ErrorNode{Message: "undefined"}

	prog, err := Compile(tensor.NewEngine(), root, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !object.IsError(eval(t, prog, nil)) {
		t.Fatalf("an ErrorNode must compile to an Error value")
	}
}
