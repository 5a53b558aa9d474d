package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/subcommands"

	"github.com/skx/rankexpr"
	"github.com/skx/rankexpr/ast"
	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/tensor"
)

// evalCmd compiles a JSON-encoded expression tree and evaluates it
// against a JSON array of numeric parameters - the JSON-AST
// equivalent of the teacher's runCmd.
type evalCmd struct {
	paramsFile string
	trace      bool
}

func (*evalCmd) Name() string     { return "eval" }
func (*evalCmd) Synopsis() string { return "Compile and evaluate a JSON expression tree." }
func (*evalCmd) Usage() string {
	return `eval -params params.json expr.json:
  Compile expr.json and evaluate it against the parameter vector in
  params.json (a JSON array of numbers), printing the result.
`
}

func (e *evalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&e.paramsFile, "params", "", "Path to a JSON array of numeric parameters.")
	f.BoolVar(&e.trace, "trace", false, "Log a debug line when evaluation starts and one with its result.")
}

func (e *evalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Println("usage: eval -params params.json expr.json")
		return subcommands.ExitUsageError
	}

	exprDat, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("error reading %s: %s\n", args[0], err)
		return subcommands.ExitFailure
	}

	root, err := ast.DecodeNode(exprDat)
	if err != nil {
		fmt.Printf("error decoding %s: %s\n", args[0], err)
		return subcommands.ExitFailure
	}

	var rawParams []float64
	if e.paramsFile != "" {
		paramsDat, rerr := os.ReadFile(e.paramsFile)
		if rerr != nil {
			fmt.Printf("error reading %s: %s\n", e.paramsFile, rerr)
			return subcommands.ExitFailure
		}
		if rerr = json.Unmarshal(paramsDat, &rawParams); rerr != nil {
			fmt.Printf("error decoding %s: %s\n", e.paramsFile, rerr)
			return subcommands.ExitFailure
		}
	}

	fn, err := rankexpr.Compile(tensor.NewEngine(), root, len(rawParams))
	if err != nil {
		fmt.Printf("error compiling %s: %s\n", args[0], err)
		return subcommands.ExitFailure
	}

	params := make([]object.Value, len(rawParams))
	for i, v := range rawParams {
		params[i] = &object.Double{Value: v}
	}

	ctx := rankexpr.NewContext()
	ctx.Trace = e.trace
	ctx.SetParams(params)

	result, err := fn.Eval(ctx)
	if err != nil {
		fmt.Printf("error evaluating %s: %s\n", args[0], err)
		return subcommands.ExitFailure
	}

	valueColor := color.New(color.FgGreen, color.Bold)
	fmt.Printf("Result type:%s value:", result.Type())
	valueColor.Println(result.Inspect())

	return subcommands.ExitSuccess
}
