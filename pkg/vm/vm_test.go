package vm

import (
	"os"
	"strings"
	"testing"

	"github.com/lgtm-migrator/grace/pkg/compiler"
)

func compileForTest(t *testing.T, source string) *compiler.Program {
	t.Helper()
	c := compiler.Acquire("test.gr", source)
	defer compiler.Release(c)
	prog, diags := c.Compile()
	if diags.HasErrors() {
		t.Fatalf("unexpected compile errors:\n%s", diags.FormatAll(strings.Split(source, "\n")))
	}
	return prog
}

// runAndCapture compiles and runs source, returning stdout and any runtime
// error.
func runAndCapture(t *testing.T, source string) (string, error) {
	t.Helper()
	prog := compileForTest(t, source)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("could not create pipe: %s", err)
	}

	machine := New(w)
	runErr := machine.Run(prog)
	w.Close()

	var out strings.Builder
	buf := make([]byte, 4096)
	for {
		n, readErr := r.Read(buf)
		out.Write(buf[:n])
		if readErr != nil {
			break
		}
	}
	return out.String(), runErr
}

func TestArithmeticAndPrint(t *testing.T) {
	out, err := runAndCapture(t, "func main(): println(1 + 2 * 3); end")
	if err != nil {
		t.Fatalf("unexpected runtime error: %s", err)
	}
	if out != "7\n" {
		t.Fatalf("expected %q, got %q", "7\n", out)
	}
}

func TestLocalsAndReassignment(t *testing.T) {
	_, err := runAndCapture(t, `
func main():
	var x = 10;
	x = x + 5;
	assert(x == 15);
end
`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %s", err)
	}
}

func TestFinalImmutabilityIsACompileError(t *testing.T) {
	c := compiler.Acquire("test.gr", "func main(): final x = 1; x = 2; end")
	defer compiler.Release(c)
	_, diags := c.Compile()
	if !diags.HasErrors() {
		t.Fatalf("expected reassigning a final to be a compile error")
	}
}

func TestForLoopSumsToFiftyFive(t *testing.T) {
	out, err := runAndCapture(t, `
func main():
	var s = 0;
	for i in 1..11:
		s = s + i;
	end
	println(s);
end
`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %s", err)
	}
	if out != "55\n" {
		t.Fatalf("expected %q, got %q", "55\n", out)
	}
}

func TestFunctionCallReturnsSum(t *testing.T) {
	out, err := runAndCapture(t, `
func add(a, b): return a + b; end
func main(): println(add(2, 3)); end
`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %s", err)
	}
	if out != "5\n" {
		t.Fatalf("expected %q, got %q", "5\n", out)
	}
}

func TestAddingIntAndStringIsARuntimeInvalidOperandError(t *testing.T) {
	_, err := runAndCapture(t, `func main(): println(1 + "x"); end`)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if re.Kind != InvalidOperand {
		t.Fatalf("expected InvalidOperand, got %s", re.Kind)
	}
	if re.Line != 1 {
		t.Fatalf("expected line 1, got %d", re.Line)
	}
}

func TestBreakExitsInnermostLoopOnly(t *testing.T) {
	out, err := runAndCapture(t, `
func main():
	var i = 0;
	while true:
		i = i + 1;
		if i == 3:
			break;
		end
	end
	println(i);
end
`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %s", err)
	}
	if out != "3\n" {
		t.Fatalf("expected %q, got %q", "3\n", out)
	}
}

func TestDivisionByZeroIsARuntimeError(t *testing.T) {
	_, err := runAndCapture(t, `func main(): println(1 / 0); end`)
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %v", err)
	}
	if re.Kind != InvalidOperand {
		t.Fatalf("expected InvalidOperand, got %s", re.Kind)
	}
}

func TestAssertionFailureRaisesAssertionFailed(t *testing.T) {
	_, err := runAndCapture(t, `func main(): assert(false, "boom"); end`)
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %v", err)
	}
	if re.Kind != AssertionFailed {
		t.Fatalf("expected AssertionFailed, got %s", re.Kind)
	}
	if re.Message != "boom" {
		t.Fatalf("expected message %q, got %q", "boom", re.Message)
	}
}

func TestUnknownFunctionCallIsFunctionNotFound(t *testing.T) {
	_, err := runAndCapture(t, `func main(): missing(); end`)
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %v", err)
	}
	if re.Kind != FunctionNotFound {
		t.Fatalf("expected FunctionNotFound, got %s", re.Kind)
	}
}

func TestInstanceOfAndCastRoundTrip(t *testing.T) {
	out, err := runAndCapture(t, `
func main():
	var x = 5;
	println(instanceof(x, int));
	println(string(x));
end
`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %s", err)
	}
	if out != "true\n5\n" {
		t.Fatalf("expected %q, got %q", "true\n5\n", out)
	}
}
