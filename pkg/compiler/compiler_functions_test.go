package compiler

import (
	"testing"

	"github.com/lgtm-migrator/grace/pkg/opcode"
)

func TestFunctionCallCompilesArgsThenCall(t *testing.T) {
	prog := mustCompile(t, `
func add(a, b): return a + b; end
func main(): print(add(1, 2)); end
`)
	add := findFunction(t, prog, "add")
	if add.Arity != 2 {
		t.Fatalf("expected arity 2, got %d", add.Arity)
	}

	ops := opsOf(t, prog, "add")
	assertOpsContainSequence(t, ops, []opcode.Op{opcode.LoadLocal, opcode.LoadLocal, opcode.Add, opcode.Return})
}

func TestDuplicateParameterNameIsAnError(t *testing.T) {
	c := New("test.gr", `func f(a, a): return a; end`)
	_, diags := c.Compile()
	if !diags.HasErrors() {
		t.Fatalf("expected duplicate parameter name to be a compile error")
	}
}

func TestFinalParameterCannotBeReassigned(t *testing.T) {
	c := New("test.gr", `func f(final a): a = 2; return a; end`)
	_, diags := c.Compile()
	if !diags.HasErrors() {
		t.Fatalf("expected reassigning a final parameter to be a compile error")
	}
}

func TestFunctionLocalsClearBetweenFunctions(t *testing.T) {
	prog := mustCompile(t, `
func first(x): return x; end
func second(y): return y; end
func main(): first(1); second(2); end
`)
	first := findFunction(t, prog, "first")
	second := findFunction(t, prog, "second")
	if first.Arity != 1 || second.Arity != 1 {
		t.Fatalf("expected both functions to have arity 1")
	}
}

func TestCallToUnknownFunctionStillCompiles(t *testing.T) {
	// The compiler does not resolve call targets eagerly (calls are
	// resolved by name hash when the Call op runs), so an undefined
	// function is not itself a compile error.
	prog := mustCompile(t, `func main(): missing(); end`)
	ops := opsOf(t, prog, "main")
	assertOpsContainSequence(t, ops, []opcode.Op{opcode.Call})
}
