// Command grace is the Grace language interpreter: it compiles a .gr file
// and runs it, scanning its own flags by hand rather than through the flag
// package.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/lgtm-migrator/grace/pkg/compiler"
	"github.com/lgtm-migrator/grace/pkg/diagnostics"
	"github.com/lgtm-migrator/grace/pkg/vm"
)

const version = "0.1.0"

const (
	exitSuccess         = 0
	exitCLIOrCompileErr = 1
	exitRuntimeError    = 2
	exitAssertionFailed = 3
)

func main() {
	// A missing .env is not an error: most scripts have none.
	_ = godotenv.Load()

	verbose := false
	warningsAsErrors := false
	var scriptPath string
	var scriptArgs []string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if scriptPath != "" {
			scriptArgs = append(scriptArgs, arg)
			continue
		}
		switch arg {
		case "-h", "--help":
			printUsage()
			os.Exit(exitSuccess)
		case "-V", "--version":
			fmt.Println("grace " + version)
			os.Exit(exitSuccess)
		case "-v", "--verbose":
			verbose = true
		case "-we", "--warnings-error":
			warningsAsErrors = true
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "unknown flag: %s\n", arg)
				os.Exit(exitCLIOrCompileErr)
			}
			scriptPath = arg
		}
	}

	if scriptPath == "" {
		printUsage()
		os.Exit(exitCLIOrCompileErr)
	}

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "grace: %s\n", err)
		os.Exit(exitCLIOrCompileErr)
	}

	c := compiler.Acquire(scriptPath, string(source))
	defer compiler.Release(c)

	prog, diags := c.Compile()
	if warningsAsErrors {
		diags.PromoteWarnings()
	}
	if verbose || len(diags.Items()) > 0 {
		lines := strings.Split(string(source), "\n")
		fmt.Fprint(os.Stderr, diags.FormatAll(lines))
	}
	if diags.HasErrors() {
		os.Exit(exitCLIOrCompileErr)
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "grace: running", scriptPath, "with args", scriptArgs)
	}

	machine := vm.New(os.Stdout)
	if err := machine.Run(prog); err != nil {
		re, ok := err.(*vm.RuntimeError)
		if !ok {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitRuntimeError)
		}
		fmt.Fprintf(os.Stderr, "[line %d] %s: %s\n", re.Line, re.Kind, re.Message)
		fmt.Fprint(os.Stderr, diagnostics.FormatCallStack(re.CallStack, verbose))
		if re.Kind == vm.AssertionFailed {
			os.Exit(exitAssertionFailed)
		}
		os.Exit(exitRuntimeError)
	}
}

func printUsage() {
	fmt.Println("Grace " + version)
	fmt.Println("\nUsage:")
	fmt.Println("  grace [flags] file.gr [script-args...]")
	fmt.Println("\nFlags:")
	fmt.Println("  -h, --help              Show this help message")
	fmt.Println("  -V, --version           Show version information")
	fmt.Println("  -v, --verbose           Enable compile-time and run-time telemetry")
	fmt.Println("  -we, --warnings-error   Promote warnings to errors")
}
