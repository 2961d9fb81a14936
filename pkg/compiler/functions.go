package compiler

import (
	"github.com/lgtm-migrator/grace/pkg/opcode"
	"github.com/lgtm-migrator/grace/pkg/token"
	"github.com/lgtm-migrator/grace/pkg/value"
)

// funcDeclaration parses `func name(params...) : body end`. Parameters are
// written as `identifier` or `final identifier`; duplicate parameter names
// are a compile error. Declaring the function registers its 64-bit name
// hash; a hash collision with an already-declared function is a compile
// error.
func (c *Compiler) funcDeclaration() {
	previousCtx := c.ctx
	c.ctx = contextFunction

	c.consume(token.IDENT, "expected function name")
	name := c.previous.Text
	nameLine := c.previous.Line

	c.consume(token.LPAREN, "expected '(' after function name")

	var params []string
	for {
		if c.match(token.FINAL) {
			c.consume(token.IDENT, "expected identifier after 'final'")
			p := c.previous.Text
			if containsString(params, p) {
				c.errorAtPrevious("function parameters with the same name already defined")
				return
			}
			c.locals[p] = local{isFinal: true, slot: len(params)}
			c.localOrder = append(c.localOrder, p)
			params = append(params, p)
		} else if c.match(token.IDENT) {
			p := c.previous.Text
			if containsString(params, p) {
				c.errorAtPrevious("function parameters with the same name already defined")
				return
			}
			c.locals[p] = local{isFinal: false, slot: len(params)}
			c.localOrder = append(c.localOrder, p)
			params = append(params, p)
		} else if c.match(token.RPAREN) {
			break
		} else {
			c.consume(token.COMMA, "expected ',' after function parameter")
		}
	}

	c.consume(token.COLON, "expected ':' after function signature")

	hash := value.NameHash(name)
	if _, exists := c.program.Functions[hash]; exists {
		c.errorAtPrevious("duplicate function definitions")
		return
	}

	fn := &Function{Name: name, Hash: hash, Arity: len(params), Line: nameLine}
	c.program.Functions[hash] = fn
	c.program.Order = append(c.program.Order, hash)
	c.fnStack = append(c.fnStack, fn)

	c.functionHadReturn = false
	for !c.match(token.END) {
		c.declaration()
		if c.check(token.EOF) {
			c.errorAtCurrent("expected 'end' after function")
			return
		}
	}

	// main may not contain an explicit `return`, so it always falls
	// through to here; every other function gets one only if it omitted
	// its own.
	if !c.functionHadReturn {
		c.emitImplicitReturn(c.previous.Line)
	}

	c.locals = make(map[string]local)
	c.localOrder = nil
	c.fnStack = c.fnStack[:len(c.fnStack)-1]
	c.ctx = previousCtx
}

func (c *Compiler) emitImplicitReturn(line int) {
	c.addConstant(value.Null)
	c.emitOp(opcode.LoadConstant, line)
	c.emitOp(opcode.Return, line)
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// enterScope records the current local-declaration boundary so exitScope
// can pop everything declared since.
func (c *Compiler) enterScope() int {
	return len(c.localOrder)
}

// exitScope emits one PopLocal per local declared since snapshot (in
// reverse declaration order, matching the locals stack discipline) and
// removes them from the slot table.
func (c *Compiler) exitScope(snapshot int, line int) {
	for i := len(c.localOrder) - 1; i >= snapshot; i-- {
		name := c.localOrder[i]
		delete(c.locals, name)
		c.emitOp(opcode.PopLocal, line)
	}
	c.localOrder = c.localOrder[:snapshot]
}

func (c *Compiler) declareLocal(name string, isFinal bool, line int) (slot int, ok bool) {
	if _, exists := c.locals[name]; exists {
		c.errorAtPrevious("a local variable with the same name already exists")
		return 0, false
	}
	slot = len(c.localOrder)
	c.locals[name] = local{isFinal: isFinal, slot: slot}
	c.localOrder = append(c.localOrder, name)
	return slot, true
}
