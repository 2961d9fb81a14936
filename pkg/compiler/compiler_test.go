package compiler

import (
	"testing"

	"github.com/lgtm-migrator/grace/pkg/opcode"
	"github.com/lgtm-migrator/grace/pkg/value"
)

func mustCompile(t *testing.T, source string) *Program {
	t.Helper()
	c := New("test.gr", source)
	prog, diags := c.Compile()
	if diags.HasErrors() {
		t.Fatalf("unexpected compile errors:\n%s", diags.FormatAll(splitLines(source)))
	}
	return prog
}

func opsOf(t *testing.T, prog *Program, name string) []opcode.Op {
	t.Helper()
	fn := findFunction(t, prog, name)
	ops := make([]opcode.Op, len(fn.Ops))
	for i, ol := range fn.Ops {
		ops[i] = ol.Op
	}
	return ops
}

func findFunction(t *testing.T, prog *Program, name string) *Function {
	t.Helper()
	for _, hash := range prog.Order {
		if fn := prog.Functions[hash]; fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no function named %q in program", name)
	return nil
}

func TestIntegerArithmeticEmitsAddAndPop(t *testing.T) {
	prog := mustCompile(t, "func main(): print(1 + 2); end")
	ops := opsOf(t, prog, "main")

	wantContains := []opcode.Op{opcode.LoadConstant, opcode.LoadConstant, opcode.Add, opcode.Print, opcode.Pop}
	assertOpsContainSequence(t, ops, wantContains)
}

func TestBooleanLiteralsCompileAsConstants(t *testing.T) {
	prog := mustCompile(t, "func main(): var x = true; end")
	fn := findFunction(t, prog, "main")

	foundTrue := false
	for _, c := range fn.Consts {
		if c.IsBool() && c.AsBool() {
			foundTrue = true
		}
	}
	if !foundTrue {
		t.Fatalf("expected a true constant in %v", fn.Consts)
	}
}

func TestComparisonEmitsGreater(t *testing.T) {
	prog := mustCompile(t, "func main(): print(1 > 2); end")
	ops := opsOf(t, prog, "main")
	assertOpsContainSequence(t, ops, []opcode.Op{opcode.Greater})
}

func TestExpressionStatementEmitsExactlyOnePop(t *testing.T) {
	prog := mustCompile(t, "func main(): 1 + 2 + 3; end")
	ops := opsOf(t, prog, "main")

	pops := 0
	for _, op := range ops {
		if op == opcode.Pop {
			pops++
		}
	}
	// one corrective pop for the bare expression statement, plus the
	// implicit-return LoadConstant/Return does not add a Pop.
	if pops != 1 {
		t.Fatalf("expected exactly 1 Pop for a bare expression statement chain, got %d (%v)", pops, ops)
	}
}

func TestCallEmitsCallOpWithoutIntermediateLoadConstantPush(t *testing.T) {
	prog := mustCompile(t, `
func add(a, b): return a + b; end
func main(): print(add(1, 2)); end
`)
	ops := opsOf(t, prog, "main")
	assertOpsContainSequence(t, ops, []opcode.Op{opcode.LoadConstant, opcode.LoadConstant, opcode.Call, opcode.Print})
}

func TestDuplicateFunctionDefinitionIsAnError(t *testing.T) {
	c := New("test.gr", `
func f(): return 1; end
func f(): return 2; end
func main(): return; end
`)
	_, diags := c.Compile()
	if !diags.HasErrors() {
		t.Fatalf("expected duplicate function definition to be a compile error")
	}
}

func TestFinalReassignmentIsAnError(t *testing.T) {
	c := New("test.gr", `func main(): final x = 1; x = 2; end`)
	_, diags := c.Compile()
	if !diags.HasErrors() {
		t.Fatalf("expected reassigning a final to be a compile error")
	}
}

func TestReturnInsideMainIsAnError(t *testing.T) {
	c := New("test.gr", `func main(): return 1; end`)
	_, diags := c.Compile()
	if !diags.HasErrors() {
		t.Fatalf("expected 'return' inside main to be a compile error")
	}
}

func TestNonMainFunctionGetsImplicitReturn(t *testing.T) {
	prog := mustCompile(t, `
func noop(): var x = 1; end
func main(): noop(); end
`)
	fn := findFunction(t, prog, "noop")
	last := fn.Ops[len(fn.Ops)-1]
	if last.Op != opcode.Return {
		t.Fatalf("expected implicit Return as last op, got %s", last.Op)
	}
}

func assertOpsContainSequence(t *testing.T, ops []opcode.Op, want []opcode.Op) {
	t.Helper()
	if len(want) == 0 {
		return
	}
	for start := 0; start+len(want) <= len(ops); start++ {
		match := true
		for i, w := range want {
			if ops[start+i] != w {
				match = false
				break
			}
		}
		if match {
			return
		}
	}
	t.Fatalf("expected ops to contain sequence %v, got %v", want, ops)
}

func TestSplitLinesPreservesEmptyTrailingLine(t *testing.T) {
	lines := splitLines("a\nb\n")
	if len(lines) != 3 || lines[0] != "a" || lines[1] != "b" || lines[2] != "" {
		t.Fatalf("unexpected split: %v", lines)
	}
}

func TestNameHashUsedConsistentlyForCallSite(t *testing.T) {
	h1 := value.NameHash("add")
	h2 := value.NameHash("add")
	if h1 != h2 {
		t.Fatalf("NameHash must be stable across calls")
	}
}
