// Package compiler lowers a parsed expression tree into a linear
// program of instructions the vm package can execute.
//
// The builder visits the tree in post-order, with an explicit
// override for the control-flow nodes (If, Let, In, and bare Array
// literals) that must control their own descent to interleave child
// instructions with skip/backpatch instructions in the right order.
// It is a single recursive function rather than a generic visitor -
// shorter, and clearer to follow, than a traverser object with
// open/close callbacks.
package compiler

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/skx/rankexpr/ast"
	"github.com/skx/rankexpr/code"
	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/stash"
	"github.com/skx/rankexpr/tensor"
)

// Program is the output of a successful Compile: an instruction
// stream, the constant pool its OpConstant instructions index into,
// the interned dimension names its OpTensorSumDim instructions index
// into, and the parameter count callers must supply to Eval.
type Program struct {
	Instructions code.Instructions
	Constants    []object.Value
	DimNames     []string
	NumParams    int

	// Stash owns every constant value above - the compile-time arena
	// a Function keeps alive for as long as it exists.
	Stash *stash.Stash
}

// unaryOpcodes maps the AST catalog's unary operator names to their
// opcode.
var unaryOpcodes = map[string]code.Opcode{
	"Neg":   code.OpNeg,
	"Not":   code.OpNot,
	"Cos":   code.OpCos,
	"Sin":   code.OpSin,
	"Tan":   code.OpTan,
	"Cosh":  code.OpCosh,
	"Sinh":  code.OpSinh,
	"Tanh":  code.OpTanh,
	"Acos":  code.OpAcos,
	"Asin":  code.OpAsin,
	"Atan":  code.OpAtan,
	"Exp":   code.OpExp,
	"Log":   code.OpLog,
	"Log10": code.OpLog10,
	"Sqrt":  code.OpSqrt,
	"Ceil":  code.OpCeil,
	"Floor": code.OpFloor,
	"Fabs":  code.OpFabs,
	"IsNan": code.OpIsNan,
	"Relu":  code.OpRelu,
}

// binaryOpcodes maps the AST catalog's binary operator names to their
// opcode.
var binaryOpcodes = map[string]code.Opcode{
	"Add":          code.OpAdd,
	"Sub":          code.OpSub,
	"Mul":          code.OpMul,
	"Div":          code.OpDiv,
	"Pow":          code.OpPow,
	"Pow2":         code.OpPow2,
	"Atan2":        code.OpAtan2,
	"Ldexp":        code.OpLdexp,
	"Fmod":         code.OpFmod,
	"Min":          code.OpMin,
	"Max":          code.OpMax,
	"Equal":        code.OpEqual,
	"NotEqual":     code.OpNotEqual,
	"Approx":       code.OpApprox,
	"Less":         code.OpLess,
	"LessEqual":    code.OpLessEqual,
	"Greater":      code.OpGreater,
	"GreaterEqual": code.OpGreaterEqual,
	"And":          code.OpAnd,
	"Or":           code.OpOr,
}

// builder holds the in-progress state of a single Compile call.
type builder struct {
	engine   tensor.Engine
	stash    *stash.Stash
	instr    code.Instructions
	consts   []object.Value
	dims     []string
	dimIndex map[string]int
}

// Compile walks root and produces a Program. It is deterministic:
// two calls on structurally identical trees produce identical
// instruction sequences, because the only two sources of
// non-determinism a naive builder could have - constant-pool order
// and dimension-name order - are both assigned in first-encountered
// order during a single depth-first walk.
func Compile(engine tensor.Engine, root ast.Node, numParams int) (*Program, error) {
	expr, ok := root.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("compiler: root node %T is not an expression", root)
	}

	b := &builder{
		engine:   engine,
		stash:    stash.New(),
		dimIndex: map[string]int{},
	}

	if err := b.compile(expr); err != nil {
		return nil, err
	}

	return &Program{
		Instructions: b.instr,
		Constants:    b.consts,
		DimNames:     b.dims,
		NumParams:    numParams,
		Stash:        b.stash,
	}, nil
}

func (b *builder) emit(op code.Opcode, param ...int) int {
	p := 0
	if len(param) == 1 {
		p = param[0]
	}
	pos := len(b.instr)
	b.instr = append(b.instr, code.Instruction{Op: op, Param: p})
	return pos
}

func (b *builder) changeOperand(pos, param int) {
	b.instr[pos].Param = param
}

// addConstant interns v, reusing an existing slot for a Double or
// String whose value already matches (the compiler's only dedup
// opportunity - tensors and errors are not compared, mirroring the
// cost/benefit tradeoff a production addConstant makes).
func (b *builder) addConstant(v object.Value) int {
	switch v := v.(type) {
	case *object.Double:
		for i, c := range b.consts {
			if d, ok := c.(*object.Double); ok && d.Value == v.Value {
				return i
			}
		}
	case *object.String:
		for i, c := range b.consts {
			if s, ok := c.(*object.String); ok && s.Hash == v.Hash {
				return i
			}
		}
	}
	b.consts = append(b.consts, v)
	return len(b.consts) - 1
}

func (b *builder) dimNameIndex(name string) int {
	if i, ok := b.dimIndex[name]; ok {
		return i
	}
	i := len(b.dims)
	b.dims = append(b.dims, name)
	b.dimIndex[name] = i
	return i
}

// hashString is the interning policy for String literals: FNV-1a over
// the UTF-8 bytes, widened to float64. Any reimplementation of this
// compiler must document its hash function and collision policy, since
// String equality is defined in terms of this hash.
func hashString(s string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return float64(h.Sum64())
}

func (b *builder) compile(node ast.Expression) error {
	switch n := node.(type) {

	case *ast.Number:
		b.emit(code.OpConstant, b.addConstant(b.stash.Double(n.Value)))

	case *ast.String:
		b.emit(code.OpConstant, b.addConstant(b.stash.String(hashString(n.Value))))

	case *ast.Symbol:
		if n.ID >= 0 {
			b.emit(code.OpParam, n.ID)
		} else {
			b.emit(code.OpLoadLet, -n.ID-1)
		}

	case *ast.ErrorNode:
		b.emit(code.OpConstant, b.addConstant(b.stash.Error(n.Message)))

	case *ast.Array:
		// A bare array's value is its length; inside an In's
		// right-hand side, compileIn handles Array specially and
		// never reaches this case for it.
		b.emit(code.OpConstant, b.addConstant(b.stash.Double(float64(len(n.Elements)))))

	case *ast.Tensor:
		handle, err := b.buildTensor(n)
		if err != nil {
			return err
		}
		b.emit(code.OpConstant, b.addConstant(b.stash.Tensor(handle)))

	case *ast.Unary:
		if err := b.compile(n.Operand); err != nil {
			return err
		}
		op, ok := unaryOpcodes[n.Operator]
		if !ok {
			return fmt.Errorf("compiler: unknown unary operator %q", n.Operator)
		}
		b.emit(op)

	case *ast.Binary:
		if err := b.compile(n.Left); err != nil {
			return err
		}
		if err := b.compile(n.Right); err != nil {
			return err
		}
		op, ok := binaryOpcodes[n.Operator]
		if !ok {
			return fmt.Errorf("compiler: unknown binary operator %q", n.Operator)
		}
		b.emit(op)

	case *ast.If:
		return b.compileIf(n)

	case *ast.Let:
		return b.compileLet(n)

	case *ast.In:
		return b.compileIn(n)

	case *ast.TensorSum:
		if err := b.compile(n.Operand); err != nil {
			return err
		}
		if n.Dim == "" {
			b.emit(code.OpTensorSum)
		} else {
			b.emit(code.OpTensorSumDim, b.dimNameIndex(n.Dim))
		}

	case *ast.TensorMatch:
		if err := b.compile(n.Left); err != nil {
			return err
		}
		if err := b.compile(n.Right); err != nil {
			return err
		}
		b.emit(code.OpMul)

	default:
		return fmt.Errorf("compiler: unsupported node type %T", node)
	}

	return nil
}

// compileIf lowers the two-armed conditional to a skip_if_false /
// skip pair: exactly one branch runs per evaluation.
func (b *builder) compileIf(n *ast.If) error {
	if err := b.compile(n.Condition); err != nil {
		return err
	}

	posA := b.emit(code.OpSkipIfFalse)

	if err := b.compile(n.Consequence); err != nil {
		return err
	}

	posB := b.emit(code.OpSkip)
	falseStart := len(b.instr)

	if err := b.compile(n.Alternative); err != nil {
		return err
	}

	end := len(b.instr)
	b.changeOperand(posA, falseStart)
	b.changeOperand(posB, end)
	return nil
}

// compileLet emits the value, binds it, compiles the body, then
// evicts the binding - the body's Symbol references resolve the
// binding by depth.
func (b *builder) compileLet(n *ast.Let) error {
	if err := b.compile(n.Value); err != nil {
		return err
	}
	b.emit(code.OpStoreLet)
	if err := b.compile(n.Body); err != nil {
		return err
	}
	b.emit(code.OpEvictLet)
	return nil
}

// compileIn lowers set membership to a chain of check_member tests,
// each backpatched to jump past every remaining check and the final
// not_member once a match is found.
func (b *builder) compileIn(n *ast.In) error {
	if err := b.compile(n.LHS); err != nil {
		return err
	}

	var candidates []ast.Expression
	if arr, ok := n.RHS.(*ast.Array); ok {
		candidates = arr.Elements
	} else {
		candidates = []ast.Expression{n.RHS}
	}

	checks := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if err := b.compile(c); err != nil {
			return err
		}
		checks = append(checks, b.emit(code.OpCheckMember))
	}

	b.emit(code.OpNotMember)

	end := len(b.instr)
	for _, pos := range checks {
		b.changeOperand(pos, end)
	}
	return nil
}

// buildTensor collects the union of dimension names across n's cells,
// sorted by name (so distinct compiles of an equivalent literal agree),
// and asks the engine to materialize the handle.
func (b *builder) buildTensor(n *ast.Tensor) (object.TensorHandle, error) {
	dimSet := map[string]bool{}
	var dims []string
	for _, cell := range n.Cells {
		for dim := range cell.Coords {
			if !dimSet[dim] {
				dimSet[dim] = true
				dims = append(dims, dim)
			}
		}
	}
	sort.Strings(dims)

	cells := make([]tensor.Cell, 0, len(n.Cells))
	for _, cell := range n.Cells {
		coords := make(map[string]string, len(cell.Coords))
		for k, v := range cell.Coords {
			coords[k] = v
		}
		cells = append(cells, tensor.Cell{Coords: coords, Value: cell.Value})
	}

	return b.engine.Create(tensor.Spec{Dims: dims, Cells: cells})
}
