package benchmarks

import (
	"os"
	"testing"

	"github.com/lgtm-migrator/grace/pkg/compiler"
	"github.com/lgtm-migrator/grace/pkg/vm"
)

const additionSource = `
func main():
	var s = 0;
	s = 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5;
end
`

const comparisonSource = `
func main():
	var s = 1 < 2;
end
`

func compileOrFatal(b *testing.B, source string) *compiler.Program {
	c := compiler.Acquire("bench.gr", source)
	defer compiler.Release(c)
	prog, diags := c.Compile()
	if diags.HasErrors() {
		b.Fatalf("compile error: %v", diags.Items())
	}
	return prog
}

// BenchmarkGoAddition is the native-Go baseline the VM benchmarks below are
// measured against.
func BenchmarkGoAddition(b *testing.B) {
	var result int64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result = 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5
	}
	_ = result
}

func BenchmarkGoComparison(b *testing.B) {
	var result bool
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result = 1 < 2
	}
	_ = result
}

// BenchmarkVMAddition compiles once and re-runs the linked program on a
// fresh VM per iteration, since compiler.Program's Function records carry
// their link offsets in place and cannot be safely re-linked concurrently.
func BenchmarkVMAddition(b *testing.B) {
	prog := compileOrFatal(b, additionSource)
	null, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	defer null.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		machine := vm.New(null)
		if err := machine.Run(prog); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkVMComparison(b *testing.B) {
	prog := compileOrFatal(b, comparisonSource)
	null, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	defer null.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		machine := vm.New(null)
		if err := machine.Run(prog); err != nil {
			b.Fatal(err)
		}
	}
}
