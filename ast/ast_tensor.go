package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// TensorCell is one addressed element of a Tensor literal.
type TensorCell struct {
	// Coords maps dimension name to coordinate label for this cell.
	Coords map[string]string

	// Value is the scalar stored at this address.
	Value float64
}

// Tensor holds a tensor literal. The builder collects the union of
// dimension names across all cells and asks the engine to materialize
// the handle at compile time.
type Tensor struct {
	Cells []TensorCell
}

func (t *Tensor) expressionNode() {}

// String returns this object as a string.
func (t *Tensor) String() string {
	var out bytes.Buffer
	out.WriteString("tensor{")
	for i, c := range t.Cells {
		if i > 0 {
			out.WriteString(", ")
		}
		parts := make([]string, 0, len(c.Coords))
		for k, v := range c.Coords {
			parts = append(parts, k+":"+v)
		}
		fmt.Fprintf(&out, "{%s}:%v", strings.Join(parts, ","), c.Value)
	}
	out.WriteString("}")
	return out.String()
}

// TensorSum reduces Operand along Dim, or along every dimension when
// Dim is empty.
type TensorSum struct {
	Operand Expression
	Dim     string
}

func (t *TensorSum) expressionNode() {}

// String returns this object as a string.
func (t *TensorSum) String() string {
	if t.Dim == "" {
		return "sum(" + t.Operand.String() + ")"
	}
	return "sum(" + t.Operand.String() + ", " + t.Dim + ")"
}

// TensorMatch performs element-wise multiplication of two tensors,
// matching on shared coordinates. It lowers to the same binary<Mul>
// instruction an ordinary numeric "*" does.
type TensorMatch struct {
	Left  Expression
	Right Expression
}

func (t *TensorMatch) expressionNode() {}

// String returns this object as a string.
func (t *TensorMatch) String() string {
	return "(" + t.Left.String() + " tensor* " + t.Right.String() + ")"
}
