// Package compiler implements Grace's single-pass recursive-descent
// compiler: it consumes tokens directly from pkg/lexer and emits opcodes
// and constants straight into the current function's op list and constant
// list. There is no intermediate AST between parsing and emission.
package compiler

import (
	"github.com/lgtm-migrator/grace/pkg/diagnostics"
	"github.com/lgtm-migrator/grace/pkg/lexer"
	"github.com/lgtm-migrator/grace/pkg/opcode"
	"github.com/lgtm-migrator/grace/pkg/token"
	"github.com/lgtm-migrator/grace/pkg/value"
)

// context distinguishes top-level (only class/func declarations legal)
// from inside-a-function (statements legal). Modeled as an explicit field
// rather than an ad-hoc boolean latch, per the redesign this compiler
// follows for its other mode flags.
type context int

const (
	contextTopLevel context = iota
	contextFunction
)

// local records one entry in the compile-time local slot table: an
// identifier's finality and its slot index within the current function
// frame.
type local struct {
	isFinal bool
	slot    int
}

// patch is a jump-patch site: the indices, within the current function's
// constant list, of the placeholder constant-index and op-index values
// written when the jump was emitted, and rewritten once the target is
// known. This replaces the "emit zero, remember index, overwrite later"
// idiom with a typed operation.
type patch struct {
	constIdx int
	opIdx    int
}

// loopContext tracks one loop's break-patch list, so `break` is legal only
// inside a loop and every break in the innermost loop gets patched to that
// loop's exit point once it is known.
type loopContext struct {
	breaks []patch
}

// Compiler is Grace's single-pass compiler. It keeps two tokens of
// lookahead (previous, current) and emits directly into the function
// currently being compiled.
type Compiler struct {
	scanner  *lexer.Lexer
	previous token.Token
	current  token.Token

	fileName string
	source   []string

	program *Program
	fnStack []*Function

	locals     map[string]local
	localOrder []string

	loopStack []*loopContext

	ctx               context
	functionHadReturn bool

	panicMode bool
	diags     diagnostics.Bag
}

// New constructs a Compiler over source, reporting diagnostics against
// fileName. source is also split into lines for diagnostic excerpts.
func New(fileName, source string) *Compiler {
	return &Compiler{
		scanner:  lexer.New(source),
		fileName: fileName,
		source:   splitLines(source),
		program:  newProgram(),
		locals:   make(map[string]local),
		ctx:      contextTopLevel,
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

// Compile runs the compiler to completion and returns the finished program.
// If any compile error occurred, the returned *Program is nil and the
// caller should format and print the returned diagnostic bag instead.
func (c *Compiler) Compile() (*Program, *diagnostics.Bag) {
	c.advance()
	for !c.check(token.EOF) {
		c.declaration()
		if c.diags.HasErrors() {
			break
		}
	}
	if c.diags.HasErrors() {
		return nil, &c.diags
	}
	return c.program, &c.diags
}

func (c *Compiler) currentFn() *Function {
	return c.fnStack[len(c.fnStack)-1]
}

func (c *Compiler) advance() {
	c.previous = c.current
	c.current = c.scanner.NextToken()
	if c.current.Type == token.ILLEGAL {
		c.errorAtCurrent(c.current.ErrMsg)
	}
}

func (c *Compiler) check(t token.Type) bool {
	return c.current.Type == t
}

func (c *Compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t token.Type, message string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// synchronize implements panic-mode recovery: skip tokens until a statement
// boundary (a semicolon already consumed, or an upcoming declaration
// keyword), then clear panic mode.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for !c.check(token.EOF) {
		if c.previous.Type == token.SEMICOLON {
			return
		}
		if token.IsDeclarationBoundary(c.current.Type) {
			return
		}
		c.advance()
	}
}

func (c *Compiler) emitOp(op opcode.Op, line int) {
	fn := c.currentFn()
	fn.Ops = append(fn.Ops, opcode.OpLine{Op: op, Line: line})
}

// addConstant appends v to the current function's constant pool and
// returns its index.
func (c *Compiler) addConstant(v value.Value) int {
	fn := c.currentFn()
	fn.Consts = append(fn.Consts, v)
	return len(fn.Consts) - 1
}

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) errorAtPrevious(message string) {
	c.errorAt(c.previous, message)
}

func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.diags.Add(diagnostics.Diagnostic{
		Severity: diagnostics.SeverityError,
		Line:     tok.Line,
		Column:   tok.Column,
		Length:   maxInt(tok.Length, 1),
		Message:  message,
		File:     c.fileName,
	})
}

func (c *Compiler) warnAt(tok token.Token, message string) {
	c.diags.Add(diagnostics.Diagnostic{
		Severity: diagnostics.SeverityWarning,
		Line:     tok.Line,
		Column:   tok.Column,
		Length:   maxInt(tok.Length, 1),
		Message:  message,
		File:     c.fileName,
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (c *Compiler) declaration() {
	switch {
	case c.match(token.CLASS):
		c.classDeclaration()
	case c.match(token.FUNC):
		c.funcDeclaration()
	case c.match(token.VAR):
		c.varDeclaration()
	case c.match(token.FINAL):
		c.finalDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	if c.ctx == contextTopLevel {
		c.errorAtCurrent("only functions and classes are allowed at top level")
		c.advance()
		return
	}

	switch {
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.PRINTLN):
		c.printlnStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.BREAK):
		c.breakStatement()
	case c.match(token.ASSERT):
		c.assertStatement()
	default:
		c.expressionStatement()
	}
}

// classDeclaration parses (and discards) a class body. Container object
// types are explicitly out of scope for the core interpreter; classes are
// accepted syntactically at top level but declare no runtime members.
func (c *Compiler) classDeclaration() {
	c.consume(token.IDENT, "expected class name")
	c.consume(token.COLON, "expected ':' after class name")
	for !c.match(token.END) {
		if c.check(token.EOF) {
			c.errorAtCurrent("expected 'end' after class body")
			return
		}
		c.advance()
	}
}
