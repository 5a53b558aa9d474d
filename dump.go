package rankexpr

import (
	"fmt"
	"strings"

	"github.com/skx/rankexpr/code"
	"github.com/skx/rankexpr/compiler"
)

// disassembleWithConstants renders a compiled program's instruction
// listing followed by its constant pool, directly grounded on the
// teacher's Eval.Dump/dumper (evalfilter.go): an instruction listing,
// a blank line, then one line per constant.
func disassembleWithConstants(p *compiler.Program) string {
	var out strings.Builder

	out.WriteString("Bytecode:\n")
	out.WriteString(code.Disassemble(p.Instructions))

	if len(p.Constants) > 0 {
		out.WriteString("\nConstant Pool:\n")
		for i, c := range p.Constants {
			s := strings.ReplaceAll(c.Inspect(), "\n", "\\n")
			fmt.Fprintf(&out, "  %04d Type:%s Value:%q\n", i, c.Type(), s)
		}
	}

	if len(p.DimNames) > 0 {
		out.WriteString("\nDimension Names:\n")
		for i, d := range p.DimNames {
			fmt.Fprintf(&out, "  %04d %s\n", i, d)
		}
	}

	return out.String()
}
