package ast

import (
	"encoding/json"
	"fmt"
)

// wireNode is the JSON envelope every node is decoded through. Only
// the fields relevant to wireNode.Node are populated by the caller;
// everything else decodes to its zero value and is ignored.
type wireNode struct {
	Node string `json:"node"`

	Value json.RawMessage `json:"value,omitempty"`

	ID int `json:"id,omitempty"`

	Message string `json:"message,omitempty"`

	Elements []json.RawMessage `json:"elements,omitempty"`

	Cells []wireTensorCell `json:"cells,omitempty"`

	Operator string `json:"operator,omitempty"`

	Operand json.RawMessage `json:"operand,omitempty"`

	Left  json.RawMessage `json:"left,omitempty"`
	Right json.RawMessage `json:"right,omitempty"`

	Condition   json.RawMessage `json:"condition,omitempty"`
	Consequence json.RawMessage `json:"consequence,omitempty"`
	Alternative json.RawMessage `json:"alternative,omitempty"`

	Binding json.RawMessage `json:"binding,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"`

	LHS json.RawMessage `json:"lhs,omitempty"`
	RHS json.RawMessage `json:"rhs,omitempty"`

	Dim string `json:"dim,omitempty"`
}

type wireTensorCell struct {
	Coords map[string]string `json:"coords"`
	Value  float64           `json:"value"`
}

// DecodeNode decodes a single JSON-encoded expression tree, the wire
// format the "dump" and "eval" subcommands accept in place of a real
// parser. The envelope is wireNode above: a "node" field naming the
// kind, plus the fields that kind uses (see decodeWire).
func DecodeNode(data []byte) (Expression, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding ast node: %w", err)
	}
	return decodeWire(&w)
}

func decodeWire(w *wireNode) (Expression, error) {
	switch w.Node {
	case "Number":
		var v float64
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, fmt.Errorf("Number.value: %w", err)
		}
		return &Number{Value: v}, nil

	case "String":
		var v string
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, fmt.Errorf("String.value: %w", err)
		}
		return &String{Value: v}, nil

	case "Symbol":
		return &Symbol{ID: w.ID}, nil

	case "Error":
		return &ErrorNode{Message: w.Message}, nil

	case "Array":
		elems := make([]Expression, 0, len(w.Elements))
		for _, raw := range w.Elements {
			e, err := DecodeNode(raw)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return &Array{Elements: elems}, nil

	case "Tensor":
		cells := make([]TensorCell, 0, len(w.Cells))
		for _, c := range w.Cells {
			cells = append(cells, TensorCell{Coords: c.Coords, Value: c.Value})
		}
		return &Tensor{Cells: cells}, nil

	case "Unary":
		operand, err := DecodeNode(w.Operand)
		if err != nil {
			return nil, err
		}
		return &Unary{Operator: w.Operator, Operand: operand}, nil

	case "Binary":
		left, err := DecodeNode(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeNode(w.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Left: left, Operator: w.Operator, Right: right}, nil

	case "If":
		cond, err := DecodeNode(w.Condition)
		if err != nil {
			return nil, err
		}
		cons, err := DecodeNode(w.Consequence)
		if err != nil {
			return nil, err
		}
		alt, err := DecodeNode(w.Alternative)
		if err != nil {
			return nil, err
		}
		return &If{Condition: cond, Consequence: cons, Alternative: alt}, nil

	case "Let":
		value, err := DecodeNode(w.Binding)
		if err != nil {
			return nil, err
		}
		body, err := DecodeNode(w.Body)
		if err != nil {
			return nil, err
		}
		return &Let{Value: value, Body: body}, nil

	case "In":
		lhs, err := DecodeNode(w.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := DecodeNode(w.RHS)
		if err != nil {
			return nil, err
		}
		return &In{LHS: lhs, RHS: rhs}, nil

	case "TensorSum":
		operand, err := DecodeNode(w.Operand)
		if err != nil {
			return nil, err
		}
		return &TensorSum{Operand: operand, Dim: w.Dim}, nil

	case "TensorMatch":
		left, err := DecodeNode(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeNode(w.Right)
		if err != nil {
			return nil, err
		}
		return &TensorMatch{Left: left, Right: right}, nil

	default:
		return nil, fmt.Errorf("unknown ast node kind %q", w.Node)
	}
}
