package object

import (
	"math"
	"strconv"
)

// Double wraps float64 and implements the Value interface. It is the
// only variant with a notion of truthiness.
type Double struct {
	// Value holds the numeric value this object wraps.
	Value float64
}

// Inspect returns a string-representation of the given value.
func (d *Double) Inspect() string {
	return strconv.FormatFloat(d.Value, 'f', -1, 64)
}

// Type returns the variant of this value.
func (d *Double) Type() Type {
	return DOUBLE
}

// True reports whether this value is true-like: strictly positive and
// finite. Used whenever a Double is evaluated as the condition of an
// `if`, the left/right of `and`/`or`, or the membership test result.
func (d *Double) True() bool {
	return d.Value > 0 && !math.IsInf(d.Value, 0) && !math.IsNaN(d.Value)
}
