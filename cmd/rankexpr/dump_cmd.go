package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/subcommands"

	"github.com/skx/rankexpr"
	"github.com/skx/rankexpr/ast"
	"github.com/skx/rankexpr/tensor"
)

// dumpCmd compiles a JSON-encoded expression tree and prints its
// instruction listing and constant pool - the JSON-AST equivalent of
// the teacher's bytecodeCmd, since this module has no lexer/parser of
// its own; expression trees arrive pre-parsed.
type dumpCmd struct {
	numParams int
}

func (*dumpCmd) Name() string     { return "dump" }
func (*dumpCmd) Synopsis() string { return "Compile a JSON expression tree and show its bytecode." }
func (*dumpCmd) Usage() string {
	return `dump expr1.json [expr2.json ...]:
  Compile each file's JSON-encoded expression tree and print the
  resulting instruction listing and constant pool.
`
}

func (p *dumpCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.numParams, "params", 0, "Number of parameters the expression expects.")
}

func (p *dumpCmd) dump(file string) {
	dat, err := os.ReadFile(file)
	if err != nil {
		fmt.Printf("error reading %s: %s\n", file, err)
		return
	}

	root, err := ast.DecodeNode(dat)
	if err != nil {
		fmt.Printf("error decoding %s: %s\n", file, err)
		return
	}

	fn, err := rankexpr.Compile(tensor.NewEngine(), root, p.numParams)
	if err != nil {
		fmt.Printf("error compiling %s: %s\n", file, err)
		return
	}

	heading := color.New(color.FgCyan, color.Bold)
	heading.Printf("\n%s\n", file)
	fmt.Println(fn.Disassemble())
}

func (p *dumpCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for _, file := range f.Args() {
		p.dump(file)
	}
	return subcommands.ExitSuccess
}
