package ast

// In tests whether LHS equals any candidate on the right: a single
// expression, or - when RHS is an Array - each of its elements in
// turn, short-circuiting on the first match.
type In struct {
	LHS Expression
	RHS Expression
}

func (i *In) expressionNode() {}

// String returns this object as a string.
func (i *In) String() string {
	return "(" + i.LHS.String() + " in " + i.RHS.String() + ")"
}
