package compiler

import (
	"testing"

	"github.com/lgtm-migrator/grace/pkg/opcode"
)

func TestVarDeclarationWithInitializerAssigns(t *testing.T) {
	prog := mustCompile(t, `func main(): var x = 1; print(x); end`)
	ops := opsOf(t, prog, "main")
	assertOpsContainSequence(t, ops, []opcode.Op{opcode.DeclareLocal, opcode.LoadConstant, opcode.AssignLocal, opcode.Pop, opcode.LoadLocal})
}

func TestVarDeclarationWithoutInitializerStillDeclares(t *testing.T) {
	prog := mustCompile(t, `func main(): var x; end`)
	ops := opsOf(t, prog, "main")
	assertOpsContainSequence(t, ops, []opcode.Op{opcode.DeclareLocal})
}

func TestFinalRequiresInitializer(t *testing.T) {
	c := New("test.gr", `func main(): final x; end`)
	_, diags := c.Compile()
	if !diags.HasErrors() {
		t.Fatalf("expected 'final' without an initializer to be a compile error")
	}
}

func TestReassignmentReusesSameSlot(t *testing.T) {
	prog := mustCompile(t, `func main(): var x = 1; x = 2; print(x); end`)
	fn := findFunction(t, prog, "main")

	assignSlots := []int64{}
	for _, c := range fn.Consts {
		if c.IsInt() {
			assignSlots = append(assignSlots, c.AsInt())
		}
	}
	// slot 0 appears at least twice: once per AssignLocal, once per LoadLocal.
	zeroCount := 0
	for _, s := range assignSlots {
		if s == 0 {
			zeroCount++
		}
	}
	if zeroCount < 2 {
		t.Fatalf("expected slot 0 referenced by both assignments and the load, got consts %v", fn.Consts)
	}
}

func TestBlockScopedLocalsPopOnScopeExit(t *testing.T) {
	prog := mustCompile(t, `
func main():
    if true:
        var x = 1;
        print(x);
    end
end
`)
	ops := opsOf(t, prog, "main")
	found := false
	for _, op := range ops {
		if op == opcode.PopLocal {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected PopLocal when a block-scoped local goes out of scope")
	}
}

func TestDuplicateLocalNameInSameScopeIsAnError(t *testing.T) {
	c := New("test.gr", `func main(): var x = 1; var x = 2; end`)
	_, diags := c.Compile()
	if !diags.HasErrors() {
		t.Fatalf("expected redeclaring a local in the same scope to be a compile error")
	}
}
