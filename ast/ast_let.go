package ast

// Let binds Value for the duration of Body, addressed inside Body by
// a negative Symbol id. The parser is responsible for assigning the
// right depth to Symbol references inside Body; this node only
// carries the two subexpressions.
type Let struct {
	Value Expression
	Body  Expression
}

func (l *Let) expressionNode() {}

// String returns this object as a string.
func (l *Let) String() string {
	return "let " + l.Value.String() + " in " + l.Body.String()
}
