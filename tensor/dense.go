package tensor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/stash"
)

// denseHandle is the reference engine's concrete object.TensorHandle:
// every cell kept explicitly, indexed by its full coordinate tuple.
type denseHandle struct {
	dims  []string
	cells []Cell
}

// Dims reports the dimension names this handle is addressed over,
// sorted by name.
func (h *denseHandle) Dims() []string {
	return h.dims
}

// Inspect renders every stored cell; used for dump output and test
// failure messages, never for anything the core's arithmetic depends
// on.
func (h *denseHandle) Inspect() string {
	var b strings.Builder
	b.WriteString("tensor(")
	b.WriteString(strings.Join(h.dims, ","))
	b.WriteString(")[")
	for i, c := range h.cells {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v:%v", coordKey(h.dims, c.Coords), c.Value)
	}
	b.WriteString("]")
	return b.String()
}

// Multiply implements the element-wise "tensor match" primitive: a
// cell survives in the product only if both operands carry a cell at
// the same coordinates on every dimension they share. Dimensions
// present in only one operand pass through unconstrained.
func (h *denseHandle) Multiply(other object.TensorHandle) (object.TensorHandle, error) {
	rhs, ok := other.(*denseHandle)
	if !ok {
		return nil, fmt.Errorf("tensor match requires two tensors produced by the same engine")
	}

	shared := sharedDims(h.dims, rhs.dims)
	outDims := unionDims(h.dims, rhs.dims)

	var cells []Cell
	for _, lc := range h.cells {
		for _, rc := range rhs.cells {
			if !agree(lc.Coords, rc.Coords, shared) {
				continue
			}
			coords := mergeCoords(lc.Coords, rc.Coords)
			cells = append(cells, Cell{Coords: coords, Value: lc.Value * rc.Value})
		}
	}

	return &denseHandle{dims: outDims, cells: cells}, nil
}

func sharedDims(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, d := range a {
		set[d] = true
	}
	var out []string
	for _, d := range b {
		if set[d] {
			out = append(out, d)
		}
	}
	return out
}

func unionDims(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, d := range append(append([]string{}, a...), b...) {
		if !set[d] {
			set[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

func agree(a, b map[string]string, dims []string) bool {
	for _, d := range dims {
		if a[d] != b[d] {
			return false
		}
	}
	return true
}

func mergeCoords(a, b map[string]string) map[string]string {
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func coordKey(dims []string, coords map[string]string) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = coords[d]
	}
	return strings.Join(parts, ",")
}

// DenseEngine is the in-memory reference tensor backend. It keeps no
// state of its own - every handle it returns owns its cells outright -
// so a single DenseEngine may be shared freely across compiled
// Functions and concurrent evaluations.
type DenseEngine struct{}

// NewEngine constructs the reference DenseEngine.
func NewEngine() *DenseEngine {
	return &DenseEngine{}
}

// Create materializes spec as a denseHandle, copying its cells so the
// caller's Spec may be discarded or mutated afterwards.
func (e *DenseEngine) Create(spec Spec) (object.TensorHandle, error) {
	dims := append([]string{}, spec.Dims...)
	sort.Strings(dims)

	cells := make([]Cell, len(spec.Cells))
	for i, c := range spec.Cells {
		coords := make(map[string]string, len(c.Coords))
		for k, v := range c.Coords {
			coords[k] = v
		}
		cells[i] = Cell{Coords: coords, Value: c.Value}
	}

	return &denseHandle{dims: dims, cells: cells}, nil
}

// Reduce sums h's cells, grouping by whatever coordinates remain once
// dims has been dropped. An empty dims drops every dimension and so
// collapses to a single scalar, as does a dims naming every dimension
// of h.
func (e *DenseEngine) Reduce(h object.TensorHandle, op ReduceOp, dims []string, s *stash.Stash) (object.Value, error) {
	if op != Add {
		return nil, fmt.Errorf("tensor engine: unsupported reduction %d", op)
	}

	dh, ok := h.(*denseHandle)
	if !ok {
		return nil, fmt.Errorf("tensor engine: reduce requires a handle produced by this engine")
	}

	if len(dims) == 0 {
		dims = dh.dims
	}

	drop := make(map[string]bool, len(dims))
	for _, d := range dims {
		drop[d] = true
	}

	var remaining []string
	for _, d := range dh.dims {
		if !drop[d] {
			remaining = append(remaining, d)
		}
	}

	if len(remaining) == 0 {
		var total float64
		for _, c := range dh.cells {
			total += c.Value
		}
		return s.Double(total), nil
	}

	sums := make(map[string]float64)
	coordsByKey := make(map[string]map[string]string)
	for _, c := range dh.cells {
		key := coordKey(remaining, c.Coords)
		sums[key] += c.Value
		if _, seen := coordsByKey[key]; !seen {
			kept := make(map[string]string, len(remaining))
			for _, d := range remaining {
				kept[d] = c.Coords[d]
			}
			coordsByKey[key] = kept
		}
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cells := make([]Cell, 0, len(keys))
	for _, k := range keys {
		cells = append(cells, Cell{Coords: coordsByKey[k], Value: sums[k]})
	}

	out := &denseHandle{dims: remaining, cells: cells}
	return s.Tensor(out), nil
}
