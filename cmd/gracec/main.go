// Command gracec compiles a .gr file and disassembles it: the function
// table, the linked constant pool, and the linked op stream, folded
// into one inspector binary.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lgtm-migrator/grace/pkg/compiler"
	"github.com/lgtm-migrator/grace/pkg/vm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: gracec <file.gr>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gracec: %s\n", err)
		os.Exit(1)
	}

	c := compiler.Acquire(path, string(source))
	defer compiler.Release(c)

	prog, diags := c.Compile()
	if diags.HasErrors() {
		lines := strings.Split(string(source), "\n")
		fmt.Fprint(os.Stderr, diags.FormatAll(lines))
		os.Exit(1)
	}

	linked, err := vm.Link(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gracec:", err)
		os.Exit(1)
	}

	fmt.Printf("Functions (%d):\n", len(linked.Functions))
	for hash, fn := range linked.Functions {
		marker := ""
		if hash == linked.MainHash {
			marker = " (entry)"
		}
		fmt.Printf("  %-16s arity=%d ops=[%d,%d) consts=[%d,%d)%s\n",
			fn.Name, fn.Arity,
			fn.OpOffset, fn.OpOffset+len(fn.Ops),
			fn.ConstOffset, fn.ConstOffset+len(fn.Consts),
			marker)
	}
	fmt.Println()

	fmt.Printf("Constants (%d):\n", len(linked.Consts))
	for i, v := range linked.Consts {
		fmt.Printf("  [%04d] %-8s %s\n", i, v.Kind(), v.Inspect())
	}
	fmt.Println()

	fmt.Printf("Ops (%d):\n", len(linked.Ops))
	for i, op := range linked.Ops {
		fmt.Printf("  %04d line=%-4d %s\n", i, op.Line, op.Op)
	}
}
