// Command rankexpr is a small CLI around the rankexpr compiler and
// virtual machine: it dumps compiled bytecode for inspection, or
// evaluates a compiled expression against a JSON parameter vector.
//
// Grounded on the teacher's cmd/evalfilter/main.go: the same
// subcommands.Register dance, the same top-level panic/recover, which
// prints the recovered stack and exits with status 1.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/google/subcommands"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("rankexpr: panic recovered:\n" + string(debug.Stack()))
			os.Exit(1)
		}
	}()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&dumpCmd{}, "")
	subcommands.Register(&evalCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
