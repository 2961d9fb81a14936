package compiler

import (
	"github.com/lgtm-migrator/grace/pkg/opcode"
	"github.com/lgtm-migrator/grace/pkg/token"
	"github.com/lgtm-migrator/grace/pkg/value"
)

// varDeclaration parses `var name [= expr];`. The local is declared before
// the initializer is compiled so the declaration itself always emits
// DeclareLocal, matching the runtime's push-a-Null-then-maybe-overwrite
// discipline.
func (c *Compiler) varDeclaration() {
	if c.ctx == contextTopLevel {
		c.errorAtPrevious("only functions and classes are allowed at top level")
		return
	}
	c.consume(token.IDENT, "expected identifier after 'var'")
	name := c.previous.Text
	line := c.previous.Line

	slot, ok := c.declareLocal(name, false, line)
	if !ok {
		return
	}
	c.emitOp(opcode.DeclareLocal, line)

	if c.match(token.ASSIGN) {
		c.expression(ctxValue)
		line = c.previous.Line
		c.emitAssignLocal(slot, line)
		c.emitOp(opcode.Pop, line)
	}
	c.consume(token.SEMICOLON, "expected ';' after 'var' declaration")
}

// finalDeclaration parses `final name = expr;`. Unlike `var`, an
// initializer is mandatory.
func (c *Compiler) finalDeclaration() {
	if c.ctx == contextTopLevel {
		c.errorAtPrevious("only functions and classes are allowed at top level")
		return
	}
	c.consume(token.IDENT, "expected identifier after 'final'")
	name := c.previous.Text
	line := c.previous.Line

	slot, ok := c.declareLocal(name, true, line)
	if !ok {
		return
	}
	c.emitOp(opcode.DeclareLocal, line)

	c.consume(token.ASSIGN, "must assign to 'final' upon declaration")
	c.expression(ctxValue)
	line = c.previous.Line
	c.emitAssignLocal(slot, line)
	c.emitOp(opcode.Pop, line)
	c.consume(token.SEMICOLON, "expected ';' after 'final' declaration")
}

func (c *Compiler) emitAssignLocal(slot, line int) {
	c.addConstant(value.Int(int64(slot)))
	c.emitOp(opcode.AssignLocal, line)
}

func (c *Compiler) emitLoadLocal(slot, line int) {
	c.addConstant(value.Int(int64(slot)))
	c.emitOp(opcode.LoadLocal, line)
}

// expressionStatement compiles a bare expression followed by ';'. Every
// expression, whatever shape it took, leaves exactly one value on the
// operand stack; a statement is the only place nobody else will consume
// that value, so it alone emits the corrective Pop. Every other consumer
// (call arguments, assignment right-hand sides, conditions, print/println
// operands, return values) is a distinct nested call to expression() that
// consumes the value itself, so it never reaches this generic pop.
func (c *Compiler) expressionStatement() {
	c.expression(ctxDiscard)
	line := c.previous.Line
	c.emitOp(opcode.Pop, line)
	c.consume(token.SEMICOLON, "expected ';' after expression")
}

// ifStatement compiles `if cond: body [else: body] end` using the
// jump-patch idiom: two placeholder constants track the target
// constant-index and op-index, rewritten once the jump target is known.
func (c *Compiler) ifStatement() {
	c.expression(ctxValue)
	c.consume(token.COLON, "expected ':' after condition")
	line := c.previous.Line

	skipThen := c.emitJump(opcode.JumpIfFalse, line)
	c.compileBlockUntil(token.END, token.ELSE)

	if c.check(token.ELSE) {
		endLine := c.previous.Line
		skipElse := c.emitJump(opcode.Jump, endLine)
		c.patchJumpHere(skipThen)

		c.advance() // consume 'else'
		if c.match(token.IF) {
			c.ifStatement()
		} else {
			c.consume(token.COLON, "expected ':' after 'else'")
			c.compileBlockUntil(token.END)
			c.consume(token.END, "expected 'end' after 'if' statement")
		}
		c.patchJumpHere(skipElse)
		return
	}

	c.consume(token.END, "expected 'end' after 'if' statement")
	c.patchJumpHere(skipThen)
}

// compileBlockUntil compiles declarations until the current token is one of
// stop (which is NOT consumed), emitting scope-exit PopLocal ops for any
// locals declared inside the block.
func (c *Compiler) compileBlockUntil(stop ...token.Type) {
	snapshot := c.enterScope()
	for !c.atAny(stop...) {
		if c.check(token.EOF) {
			c.errorAtCurrent("unterminated block")
			return
		}
		c.declaration()
	}
	line := c.previous.Line
	c.exitScope(snapshot, line)
}

func (c *Compiler) atAny(types ...token.Type) bool {
	for _, t := range types {
		if c.check(t) {
			return true
		}
	}
	return false
}

// whileStatement compiles `while cond: body end`.
func (c *Compiler) whileStatement() {
	loopTop := patchTarget{constIdx: len(c.currentFn().Consts), opIdx: len(c.currentFn().Ops)}

	c.expression(ctxValue)
	c.consume(token.COLON, "expected ':' after condition")
	line := c.previous.Line

	exitPatch := c.emitJump(opcode.JumpIfFalse, line)

	c.loopStack = append(c.loopStack, &loopContext{})
	c.compileBlockUntil(token.END)
	c.consume(token.END, "expected 'end' after 'while' statement")

	c.emitJumpTo(opcode.Jump, loopTop, c.previous.Line)
	c.patchJumpHere(exitPatch)
	c.patchBreaksHere()
}

// forStatement compiles `for x in lo..hi [by step]: body end`. The
// iterator is declared as a plain (non-final) local scoped to the loop.
func (c *Compiler) forStatement() {
	c.consume(token.IDENT, "expected identifier after 'for'")
	iterName := c.previous.Text
	line := c.previous.Line

	snapshot := c.enterScope()
	slot, ok := c.declareLocal(iterName, false, line)
	if !ok {
		return
	}
	c.emitOp(opcode.DeclareLocal, line)

	c.consume(token.IN, "expected 'in' after for-loop variable")
	c.expression(ctxValue) // lo
	c.emitAssignLocal(slot, line)
	c.emitOp(opcode.Pop, line)

	c.consume(token.DOTDOT, "expected '..' in for-loop range")
	c.expression(ctxValue) // hi is evaluated once; stash it in a hidden local
	hiSlot, ok := c.declareLocal("$for_hi", false, line)
	if !ok {
		return
	}
	c.emitOp(opcode.DeclareLocal, line)
	c.emitAssignLocal(hiSlot, line)
	c.emitOp(opcode.Pop, line)

	stepValue := int64(1)
	if c.match(token.BY) {
		c.consume(token.INT, "expected integer literal after 'by'")
		var err error
		stepValue, err = parseInt(c.previous.Text)
		if err != nil {
			c.errorAtPrevious("expected integer literal after 'by'")
			return
		}
	}

	c.consume(token.COLON, "expected ':' after for-loop range")

	loopTop := patchTarget{constIdx: len(c.currentFn().Consts), opIdx: len(c.currentFn().Ops)}

	c.emitLoadLocal(slot, line)
	c.emitLoadLocal(hiSlot, line)
	c.emitOp(opcode.Less, line)
	exitPatch := c.emitJump(opcode.JumpIfFalse, line)

	c.loopStack = append(c.loopStack, &loopContext{})
	c.compileBlockUntil(token.END)
	c.consume(token.END, "expected 'end' after 'for' statement")
	endLine := c.previous.Line

	c.emitLoadLocal(slot, endLine)
	c.addConstant(value.Int(stepValue))
	c.emitOp(opcode.LoadConstant, endLine)
	c.emitOp(opcode.Add, endLine)
	c.emitAssignLocal(slot, endLine)
	c.emitOp(opcode.Pop, endLine)

	c.emitJumpTo(opcode.Jump, loopTop, endLine)
	c.patchJumpHere(exitPatch)
	c.patchBreaksHere()

	c.exitScope(snapshot, endLine)
}

func parseInt(text string) (int64, error) {
	var n int64
	for _, r := range text {
		n = n*10 + int64(r-'0')
	}
	return n, nil
}

func (c *Compiler) breakStatement() {
	if len(c.loopStack) == 0 {
		c.errorAtPrevious("'break' only allowed inside a loop")
		return
	}
	line := c.previous.Line
	p := c.emitJump(opcode.Jump, line)
	top := c.loopStack[len(c.loopStack)-1]
	top.breaks = append(top.breaks, p)
	c.consume(token.SEMICOLON, "expected ';' after 'break'")
}

func (c *Compiler) patchBreaksHere() {
	top := c.loopStack[len(c.loopStack)-1]
	for _, p := range top.breaks {
		c.patchJumpHere(p)
	}
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
}

// assertStatement compiles `assert(expr[, msg]);`.
func (c *Compiler) assertStatement() {
	c.consume(token.LPAREN, "expected '(' after 'assert'")
	c.expression(ctxValue)
	line := c.previous.Line
	if c.match(token.COMMA) {
		c.expression(ctxValue)
		line = c.previous.Line
		c.emitOp(opcode.AssertWithMessage, line)
	} else {
		c.emitOp(opcode.Assert, line)
	}
	c.consume(token.RPAREN, "expected ')' after assert arguments")
	c.consume(token.SEMICOLON, "expected ';' after assert statement")
}

func (c *Compiler) printStatement() {
	c.consume(token.LPAREN, "expected '(' after 'print'")
	if c.match(token.RPAREN) {
		c.emitOp(opcode.PrintTab, c.previous.Line)
	} else {
		c.expression(ctxValue)
		c.emitOp(opcode.Print, c.previous.Line)
		c.emitOp(opcode.Pop, c.previous.Line)
		c.consume(token.RPAREN, "expected ')' after expression")
	}
	c.consume(token.SEMICOLON, "expected ';' after expression")
}

func (c *Compiler) printlnStatement() {
	c.consume(token.LPAREN, "expected '(' after 'println'")
	if c.match(token.RPAREN) {
		c.emitOp(opcode.PrintEmptyLine, c.previous.Line)
	} else {
		c.expression(ctxValue)
		c.emitOp(opcode.PrintLn, c.previous.Line)
		c.emitOp(opcode.Pop, c.previous.Line)
		c.consume(token.RPAREN, "expected ')' after expression")
	}
	c.consume(token.SEMICOLON, "expected ';' after expression")
}

func (c *Compiler) returnStatement() {
	if c.ctx != contextFunction {
		c.errorAtPrevious("'return' only allowed inside functions")
		return
	}
	if c.currentFn().Name == "main" {
		c.errorAtPrevious("cannot return from main function")
		return
	}

	if c.match(token.SEMICOLON) {
		c.emitImplicitReturn(c.previous.Line)
		return
	}

	c.expression(ctxValue)
	c.emitOp(opcode.Return, c.previous.Line)
	c.consume(token.SEMICOLON, "expected ';' after expression")
	c.functionHadReturn = true
}
