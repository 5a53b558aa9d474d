// Package rankexpr compiles a ranking expression tree to bytecode and
// evaluates it against a parameter vector.
//
// A caller builds or decodes an ast.Node, compiles it once into a
// Function with Compile, then drives as many evaluations as it likes
// through one or more Contexts - one per concurrent worker, since a
// Context is not safe for concurrent use but a Function is immutable
// and may be shared freely.
package rankexpr

import (
	"github.com/pkg/errors"

	"github.com/skx/rankexpr/ast"
	"github.com/skx/rankexpr/compiler"
	"github.com/skx/rankexpr/internal/rlog"
	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/tensor"
	"github.com/skx/rankexpr/vm"
)

var log = rlog.Get("rankexpr")

// Function is a compiled program: an instruction stream, its constant
// pool, and the parameter count every Context evaluating it must
// match. It is immutable once returned by Compile and safe to share
// across goroutines.
type Function struct {
	program *compiler.Program
	engine  tensor.Engine
}

// Compile walks root and produces a Function that expects numParams
// parameters. engine materializes and reduces any tensor literals and
// tensor operators root contains; pass tensor.NewEngine() for the
// bundled reference backend when the caller has no engine of its own.
func Compile(engine tensor.Engine, root ast.Node, numParams int) (*Function, error) {
	program, err := compiler.Compile(engine, root, numParams)
	if err != nil {
		return nil, errors.Wrap(err, "compiling expression")
	}

	log.Debugf("compiled function: %d instructions, %d constants, %d params",
		len(program.Instructions), len(program.Constants), numParams)

	return &Function{program: program, engine: engine}, nil
}

// NumParams reports how many parameter slots f expects a Context to
// populate before Eval.
func (f *Function) NumParams() int {
	return f.program.NumParams
}

// Disassemble renders f's instruction stream as a human-readable
// listing, as cmd/rankexpr's dump subcommand does.
func (f *Function) Disassemble() string {
	return disassembleWithConstants(f.program)
}

// Context is per-evaluation scratch state: the operand and let-binding
// stacks, the eval-time stash, and the parameter vector. It is cheap
// to construct and meant to be reused across many calls to Eval on
// the same or different Functions compiled against the same engine.
//
// A Context must not be used by more than one goroutine at a time.
type Context struct {
	state  *vm.State
	Trace  bool
	params []object.Value
}

// NewContext constructs an empty, reusable Context.
func NewContext() *Context {
	return &Context{state: vm.NewState()}
}

// SetParams populates the parameter vector for the next Eval call. len
// must equal the target Function's NumParams.
func (c *Context) SetParams(params []object.Value) {
	c.params = params
}

// Eval runs f against c's current parameter vector, resetting c's
// stacks and eval stash first. The returned value is valid until the
// next Eval call on c.
//
// A malformed program (one whose terminal stack size is not 1)
// surfaces as an *object.Error result, not a Go error - the Go error
// return is reserved for fatal preconditions: a parameter-count
// mismatch, checked here, and the *vm.Fault conditions the vm package
// reports, such as an empty-stack pop or a jump outside the
// instruction stream.
func (f *Function) Eval(c *Context) (object.Value, error) {
	if len(c.params) != f.program.NumParams {
		return nil, errors.Errorf("rankexpr: got %d params, function wants %d", len(c.params), f.program.NumParams)
	}

	c.state.Params = c.params
	if c.Trace {
		log.Debugf("eval starting: pc reset, %d params bound", len(c.params))
	}

	result, err := vm.Run(f.program.Instructions, f.program.Constants, f.program.DimNames, f.engine, c.state)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating compiled expression")
	}

	if c.Trace {
		log.Debugf("eval finished: result = %s", result.Inspect())
	}

	return result, nil
}
