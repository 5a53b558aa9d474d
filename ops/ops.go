// Package ops implements the numeric and logical primitives the
// virtual machine dispatches to for each unary and binary opcode.
//
// Every function here is total: given well-typed operands it returns
// a result, and given operands it cannot handle it returns an
// *object.Error value rather than panicking or returning a Go error.
// Only a genuinely broken program (wrong operand count, unknown
// opcode) is a VM-level fault; a type mismatch between two ranking
// values is business-as-usual and flows onward as a value, exactly
// like any other result.
package ops

import (
	"math"

	"github.com/skx/rankexpr/code"
	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/stash"
)

// approxEpsilon is the fixed tolerance "approximately equal" uses.
const approxEpsilon = 1e-9

// Unary is a one-operand primitive.
type Unary func(s *stash.Stash, v object.Value) object.Value

// Binary is a two-operand primitive. lhs and rhs arrive in source
// order (lhs was pushed first).
type Binary func(s *stash.Stash, lhs, rhs object.Value) object.Value

// UnaryTable maps each unary opcode to its implementation.
var UnaryTable = map[code.Opcode]Unary{
	code.OpNeg:   Neg,
	code.OpNot:   Not,
	code.OpCos:   unaryMath("cos", math.Cos),
	code.OpSin:   unaryMath("sin", math.Sin),
	code.OpTan:   unaryMath("tan", math.Tan),
	code.OpCosh:  unaryMath("cosh", math.Cosh),
	code.OpSinh:  unaryMath("sinh", math.Sinh),
	code.OpTanh:  unaryMath("tanh", math.Tanh),
	code.OpAcos:  unaryMath("acos", math.Acos),
	code.OpAsin:  unaryMath("asin", math.Asin),
	code.OpAtan:  unaryMath("atan", math.Atan),
	code.OpExp:   unaryMath("exp", math.Exp),
	code.OpLog:   unaryMath("log", math.Log),
	code.OpLog10: unaryMath("log10", math.Log10),
	code.OpSqrt:  unaryMath("sqrt", math.Sqrt),
	code.OpCeil:  unaryMath("ceil", math.Ceil),
	code.OpFloor: unaryMath("floor", math.Floor),
	code.OpFabs:  unaryMath("fabs", math.Abs),
	code.OpIsNan: IsNan,
	code.OpRelu:  Relu,
}

// BinaryTable maps each binary opcode to its implementation.
var BinaryTable = map[code.Opcode]Binary{
	code.OpAdd:          Add,
	code.OpSub:          Sub,
	code.OpMul:          Mul,
	code.OpDiv:          Div,
	code.OpPow:          binaryMath("pow", math.Pow),
	code.OpPow2:         binaryMath("pow2", func(a, _ float64) float64 { return a * a }),
	code.OpAtan2:        binaryMath("atan2", math.Atan2),
	code.OpLdexp:        binaryMath("ldexp", func(a, b float64) float64 { return math.Ldexp(a, int(b)) }),
	code.OpFmod:         binaryMath("fmod", math.Mod),
	code.OpMin:          binaryMath("min", math.Min),
	code.OpMax:          binaryMath("max", math.Max),
	code.OpLess:         Less,
	code.OpLessEqual:    LessEqual,
	code.OpGreater:      Greater,
	code.OpGreaterEqual: GreaterEqual,
	code.OpEqual:        Equal,
	code.OpNotEqual:     NotEqual,
	code.OpApprox:       Approx,
	code.OpAnd:          And,
	code.OpOr:           Or,
}

func typeError(s *stash.Stash, op string, vals ...object.Value) object.Value {
	msg := "wrong type for " + op + ":"
	for _, v := range vals {
		msg += " " + string(v.Type())
	}
	return s.Error(msg)
}

func asDouble(v object.Value) (*object.Double, bool) {
	d, ok := v.(*object.Double)
	return d, ok
}

// unaryMath builds a Unary out of a plain float64 -> float64 function,
// the shape every transcendental in the catalog shares.
func unaryMath(name string, fn func(float64) float64) Unary {
	return func(s *stash.Stash, v object.Value) object.Value {
		if object.IsError(v) {
			return v
		}
		d, ok := asDouble(v)
		if !ok {
			return typeError(s, name, v)
		}
		return s.Double(fn(d.Value))
	}
}

// binaryMath builds a Binary out of a plain (float64, float64) ->
// float64 function.
func binaryMath(name string, fn func(a, b float64) float64) Binary {
	return func(s *stash.Stash, lhs, rhs object.Value) object.Value {
		return binaryDouble(s, name, lhs, rhs, fn)
	}
}

// Neg negates a Double.
func Neg(s *stash.Stash, v object.Value) object.Value {
	if object.IsError(v) {
		return v
	}
	d, ok := asDouble(v)
	if !ok {
		return typeError(s, "neg", v)
	}
	return s.Double(-d.Value)
}

// Not returns the logical negation of v's truthiness, as a Double.
func Not(s *stash.Stash, v object.Value) object.Value {
	if object.IsError(v) {
		return v
	}
	if object.Truthy(v) {
		return s.Double(0)
	}
	return s.Double(1)
}

// IsNan reports whether a Double holds NaN.
func IsNan(s *stash.Stash, v object.Value) object.Value {
	if object.IsError(v) {
		return v
	}
	d, ok := asDouble(v)
	if !ok {
		return typeError(s, "is_nan", v)
	}
	if math.IsNaN(d.Value) {
		return s.Double(1)
	}
	return s.Double(0)
}

// Relu is the rectified-linear unit: max(0, x).
func Relu(s *stash.Stash, v object.Value) object.Value {
	if object.IsError(v) {
		return v
	}
	d, ok := asDouble(v)
	if !ok {
		return typeError(s, "relu", v)
	}
	if d.Value < 0 {
		return s.Double(0)
	}
	return s.Double(d.Value)
}

func binaryDouble(s *stash.Stash, op string, lhs, rhs object.Value, fn func(a, b float64) float64) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	l, lok := asDouble(lhs)
	r, rok := asDouble(rhs)
	if !lok || !rok {
		return typeError(s, op, lhs, rhs)
	}
	return s.Double(fn(l.Value, r.Value))
}

// Add sums two Doubles.
func Add(s *stash.Stash, lhs, rhs object.Value) object.Value {
	return binaryDouble(s, "+", lhs, rhs, func(a, b float64) float64 { return a + b })
}

// Sub subtracts two Doubles.
func Sub(s *stash.Stash, lhs, rhs object.Value) object.Value {
	return binaryDouble(s, "-", lhs, rhs, func(a, b float64) float64 { return a - b })
}

// Mul multiplies two Doubles, or - when either operand is a Tensor -
// performs the tensor-match primitive (element-wise multiplication)
// by delegating to the operands' engine-owned handles.
func Mul(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}

	lt, lIsTensor := lhs.(*object.Tensor)
	rt, rIsTensor := rhs.(*object.Tensor)

	if lIsTensor || rIsTensor {
		if !lIsTensor || !rIsTensor {
			return typeError(s, "*", lhs, rhs)
		}
		handle, err := lt.Handle.Multiply(rt.Handle)
		if err != nil {
			return s.Error(err.Error())
		}
		return s.Tensor(handle)
	}

	return binaryDouble(s, "*", lhs, rhs, func(a, b float64) float64 { return a * b })
}

// Div divides two Doubles.
func Div(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	l, lok := asDouble(lhs)
	r, rok := asDouble(rhs)
	if !lok || !rok {
		return typeError(s, "/", lhs, rhs)
	}
	if r.Value == 0 {
		return s.Error("division by zero")
	}
	return s.Double(l.Value / r.Value)
}

func boolDouble(s *stash.Stash, b bool) object.Value {
	if b {
		return s.Double(1)
	}
	return s.Double(0)
}

// Less reports whether lhs < rhs, restricted to Double operands.
func Less(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	l, lok := asDouble(lhs)
	r, rok := asDouble(rhs)
	if !lok || !rok {
		return typeError(s, "<", lhs, rhs)
	}
	return boolDouble(s, l.Value < r.Value)
}

// LessEqual reports whether lhs <= rhs.
func LessEqual(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	l, lok := asDouble(lhs)
	r, rok := asDouble(rhs)
	if !lok || !rok {
		return typeError(s, "<=", lhs, rhs)
	}
	return boolDouble(s, l.Value <= r.Value)
}

// Greater reports whether lhs > rhs.
func Greater(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	l, lok := asDouble(lhs)
	r, rok := asDouble(rhs)
	if !lok || !rok {
		return typeError(s, ">", lhs, rhs)
	}
	return boolDouble(s, l.Value > r.Value)
}

// GreaterEqual reports whether lhs >= rhs.
func GreaterEqual(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	l, lok := asDouble(lhs)
	r, rok := asDouble(rhs)
	if !lok || !rok {
		return typeError(s, ">=", lhs, rhs)
	}
	return boolDouble(s, l.Value >= r.Value)
}

// Equal reports variant-aware equality: Doubles compare by IEEE
// value, Strings compare by hash, every other pairing is false.
func Equal(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	return boolDouble(s, object.Equal(lhs, rhs))
}

// NotEqual is the negation of Equal.
func NotEqual(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	return boolDouble(s, !object.Equal(lhs, rhs))
}

// Approx reports whether two Doubles are within a fixed tolerance of
// one another - useful for ranking expressions comparing derived
// scores where exact equality would be too brittle.
func Approx(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	l, lok := asDouble(lhs)
	r, rok := asDouble(rhs)
	if !lok || !rok {
		return typeError(s, "~=", lhs, rhs)
	}
	return boolDouble(s, math.Abs(l.Value-r.Value) <= approxEpsilon)
}

// And is strict logical conjunction - by the time it runs, the VM has
// already evaluated both operand subtrees. Unlike "if" and "in", "and"
// and "or" are not lowered to lazy skips.
func And(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	return boolDouble(s, object.Truthy(lhs) && object.Truthy(rhs))
}

// Or is strict logical disjunction.
func Or(s *stash.Stash, lhs, rhs object.Value) object.Value {
	if e, ok := object.FirstError(lhs, rhs); ok {
		return e
	}
	return boolDouble(s, object.Truthy(lhs) || object.Truthy(rhs))
}
