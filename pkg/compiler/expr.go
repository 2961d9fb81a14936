package compiler

import (
	"fmt"
	"strconv"

	"github.com/lgtm-migrator/grace/pkg/natives"
	"github.com/lgtm-migrator/grace/pkg/opcode"
	"github.com/lgtm-migrator/grace/pkg/token"
	"github.com/lgtm-migrator/grace/pkg/value"
)

// exprContext records whether the expression about to be compiled sits at
// statement position (ctxDiscard — nobody else will consume its value, so
// the caller must emit a corrective Pop) or feeds directly into another
// construct that already consumes it (ctxValue — call argument,
// assignment right-hand side, condition, print/println operand, return
// value). Only ctxDiscard permits a top-level assignment.
type exprContext int

const (
	ctxValue exprContext = iota
	ctxDiscard
)

var operatorStart = map[token.Type]bool{
	token.COLON: true, token.SEMICOLON: true, token.RPAREN: true,
	token.COMMA: true, token.DOT: true, token.PLUS: true, token.SLASH: true,
	token.STAR: true, token.STARSTAR: true, token.NOT_EQ: true,
	token.ASSIGN: true, token.EQ: true, token.LT: true, token.GT: true,
	token.LTE: true, token.GTE: true,
}

var keywordText = map[token.Type]string{
	token.AND: "and", token.CLASS: "class", token.END: "end",
	token.FINAL: "final", token.FOR: "for", token.FUNC: "func",
	token.IF: "if", token.OR: "or", token.PRINT: "print",
	token.PRINTLN: "println", token.RETURN: "return", token.VAR: "var",
	token.WHILE: "while",
}

// expression compiles one full expression, leaving exactly one value on the
// operand stack. See exprContext for the discard/value distinction and
// expressionStatement for who is responsible for popping it.
func (c *Compiler) expression(ctx exprContext) {
	if operatorStart[c.current.Type] {
		c.errorAtCurrent("expected identifier or literal at start of expression")
		c.advance()
		return
	}
	if kw, ok := keywordText[c.current.Type]; ok {
		c.errorAtCurrent(fmt.Sprintf("'%s' is a keyword and not valid in this context", kw))
		c.advance()
		return
	}

	canAssign := ctx == ctxDiscard

	if c.check(token.IDENT) {
		c.callExpr()
		if c.check(token.ASSIGN) {
			c.finishAssignment(canAssign)
			return
		}
		c.continueBinaryChain()
		return
	}
	c.or(false)
}

// finishAssignment compiles `= rhs` once callExpr has left previous
// pointing at the assignment target identifier.
func (c *Compiler) finishAssignment(canAssign bool) {
	if c.previous.Type != token.IDENT {
		c.errorAtCurrent("only identifiers can be assigned to")
		return
	}
	name := c.previous.Text
	l, ok := c.locals[name]
	if !ok {
		c.errorAtPrevious(fmt.Sprintf("cannot find variable '%s' in this scope", name))
		return
	}
	if l.isFinal {
		c.errorAtPrevious(fmt.Sprintf("cannot reassign to final '%s'", name))
		return
	}
	c.advance() // consume '='
	if !canAssign {
		c.errorAtCurrent("assignment is not valid in the current context")
		return
	}
	c.expression(ctxValue) // disallow chained assignment: x = y = z
	line := c.previous.Line
	c.emitAssignLocal(l.slot, line)
}

// continueBinaryChain handles the case where callExpr already consumed the
// leftmost operand of a binary expression (e.g. after resolving `x` as a
// local load) and an operator now follows.
func (c *Compiler) continueBinaryChain() {
	for {
		switch c.current.Type {
		case token.AND:
			c.andTail()
		case token.OR:
			c.orTail()
		case token.EQ, token.NOT_EQ:
			c.equalityTail()
		case token.GT, token.GTE, token.LT, token.LTE:
			c.comparisonTail()
		case token.PLUS, token.MINUS:
			c.termTail()
		case token.STAR, token.STARSTAR, token.SLASH, token.PERCENT:
			c.factorTail()
		case token.SEMICOLON, token.RPAREN, token.COMMA, token.COLON, token.DOTDOT:
			return
		default:
			c.errorAtCurrent("invalid token found in expression")
			c.advance()
			return
		}
	}
}

func (c *Compiler) or(skipFirst bool) {
	if !skipFirst {
		c.and(false)
	}
	for c.match(token.OR) {
		line := c.previous.Line
		c.and(false)
		c.emitOp(opcode.Or, line)
	}
}

func (c *Compiler) orTail() { c.andTail(); c.or(true) }

func (c *Compiler) and(skipFirst bool) {
	if !skipFirst {
		c.equality(false)
	}
	for c.match(token.AND) {
		line := c.previous.Line
		c.equality(false)
		c.emitOp(opcode.And, line)
	}
}

func (c *Compiler) andTail() { c.equalityTail(); c.and(true) }

func (c *Compiler) equality(skipFirst bool) {
	if !skipFirst {
		c.comparison(false)
	}
	switch {
	case c.match(token.EQ):
		line := c.previous.Line
		c.comparison(false)
		c.emitOp(opcode.Equal, line)
	case c.match(token.NOT_EQ):
		line := c.previous.Line
		c.comparison(false)
		c.emitOp(opcode.NotEqual, line)
	}
}

func (c *Compiler) equalityTail() { c.comparisonTail(); c.equality(true) }

func (c *Compiler) comparison(skipFirst bool) {
	if !skipFirst {
		c.term(false)
	}
	switch {
	case c.match(token.GT):
		line := c.previous.Line
		c.term(false)
		c.emitOp(opcode.Greater, line)
	case c.match(token.GTE):
		line := c.previous.Line
		c.term(false)
		c.emitOp(opcode.GreaterEqual, line)
	case c.match(token.LT):
		line := c.previous.Line
		c.term(false)
		c.emitOp(opcode.Less, line)
	case c.match(token.LTE):
		line := c.previous.Line
		c.term(false)
		c.emitOp(opcode.LessEqual, line)
	}
}

func (c *Compiler) comparisonTail() { c.termTail(); c.comparison(true) }

func (c *Compiler) term(skipFirst bool) {
	if !skipFirst {
		c.factor(false)
	}
	for {
		switch {
		case c.match(token.MINUS):
			line := c.previous.Line
			c.factor(false)
			c.emitOp(opcode.Subtract, line)
		case c.match(token.PLUS):
			line := c.previous.Line
			c.factor(false)
			c.emitOp(opcode.Add, line)
		default:
			return
		}
	}
}

func (c *Compiler) termTail() { c.factorTail(); c.term(true) }

func (c *Compiler) factor(skipFirst bool) {
	if !skipFirst {
		c.unary()
	}
	for {
		switch {
		case c.match(token.STARSTAR):
			line := c.previous.Line
			c.unary()
			c.emitOp(opcode.Pow, line)
		case c.match(token.STAR):
			line := c.previous.Line
			c.unary()
			c.emitOp(opcode.Multiply, line)
		case c.match(token.SLASH):
			line := c.previous.Line
			c.unary()
			c.emitOp(opcode.Divide, line)
		case c.match(token.PERCENT):
			line := c.previous.Line
			c.unary()
			c.emitOp(opcode.Modulo, line)
		default:
			return
		}
	}
}

func (c *Compiler) factorTail() { c.factor(true) }

func (c *Compiler) unary() {
	switch {
	case c.match(token.BANG):
		line := c.previous.Line
		c.unary()
		c.emitOp(opcode.Not, line)
	case c.match(token.MINUS):
		line := c.previous.Line
		c.unary()
		c.emitOp(opcode.Negate, line)
	default:
		c.callExpr()
		if c.check(token.LPAREN) && c.previous.Type != token.IDENT {
			c.errorAtCurrent("'(' only allowed after functions and classes")
		}
	}
}

// callExpr compiles a primary expression and, if it turned out to be a bare
// identifier, decides whether it is a function call, a local load, or the
// left-hand side of an assignment (left for the caller to finish).
func (c *Compiler) callExpr() {
	c.primary()

	if c.previous.Type != token.IDENT {
		return
	}
	name := c.previous.Text
	nameLine := c.previous.Line

	if c.match(token.LPAREN) {
		var argCount int64
		if !c.match(token.RPAREN) {
			for {
				c.expression(ctxValue)
				argCount++
				if c.match(token.RPAREN) {
					break
				}
				c.consume(token.COMMA, "expected ',' after function call argument")
			}
		}
		if index, arity, ok := natives.Lookup(name); ok {
			if int64(arity) != argCount {
				c.errorAtPrevious(fmt.Sprintf("'%s' expects %d argument(s), got %d", name, arity, argCount))
				return
			}
			c.addConstant(value.Int(int64(index)))
			c.addConstant(value.Int(argCount))
			c.emitOp(opcode.NativeCall, nameLine)
			return
		}

		hash := value.NameHash(name)
		c.addConstant(value.Int(int64(hash)))
		c.addConstant(value.Int(argCount))
		c.emitOp(opcode.Call, nameLine)
		return
	}

	if c.match(token.DOT) {
		// Reserved for future member access; currently a no-op.
		return
	}

	l, ok := c.locals[name]
	if !ok {
		c.errorAtPrevious(fmt.Sprintf("cannot find variable '%s' in this scope", name))
		return
	}
	if !c.check(token.ASSIGN) {
		c.emitLoadLocal(l.slot, nameLine)
	}
}

var castOps = map[token.Type]opcode.Op{
	token.INT_IDENT:    opcode.CastAsInt,
	token.FLOAT_IDENT:  opcode.CastAsFloat,
	token.BOOL_IDENT:   opcode.CastAsBool,
	token.STRING_IDENT: opcode.CastAsString,
	token.CHAR_IDENT:   opcode.CastAsChar,
}

var instanceOfTags = map[token.Type]int64{
	token.BOOL_IDENT:   0,
	token.CHAR_IDENT:   1,
	token.FLOAT_IDENT:  2,
	token.INT_IDENT:    3,
	token.NULL:         4,
	token.STRING_IDENT: 5,
}

func (c *Compiler) primary() {
	switch {
	case c.match(token.TRUE):
		c.addConstant(value.True)
		c.emitOp(opcode.LoadConstant, c.previous.Line)
	case c.match(token.FALSE):
		c.addConstant(value.False)
		c.emitOp(opcode.LoadConstant, c.previous.Line)
	case c.match(token.INT):
		n, err := strconv.ParseInt(c.previous.Text, 10, 64)
		if err != nil {
			c.errorAtPrevious("integer literal out of range")
			return
		}
		c.addConstant(value.Int(n))
		c.emitOp(opcode.LoadConstant, c.previous.Line)
	case c.match(token.FLOAT):
		f, err := strconv.ParseFloat(c.previous.Text, 64)
		if err != nil {
			c.errorAtPrevious("float literal out of range")
			return
		}
		c.addConstant(value.Float(f))
		c.emitOp(opcode.LoadConstant, c.previous.Line)
	case c.match(token.STRING):
		c.addConstant(value.String(c.previous.Text))
		c.emitOp(opcode.LoadConstant, c.previous.Line)
	case c.match(token.CHAR):
		r := []rune(c.previous.Text)
		if len(r) != 1 {
			c.errorAtPrevious("'char' must contain a single character or escape character")
			return
		}
		c.addConstant(value.Char(r[0]))
		c.emitOp(opcode.LoadConstant, c.previous.Line)
	case c.match(token.IDENT):
		// resolved by callExpr, which sees c.previous == IDENT
	case c.match(token.NULL):
		c.addConstant(value.Null)
		c.emitOp(opcode.LoadConstant, c.previous.Line)
	case c.match(token.LPAREN):
		c.expression(ctxValue)
		c.consume(token.RPAREN, "expected ')'")
	case c.match(token.INSTANCEOF):
		c.instanceOf()
	case token.IsTypeIdent(c.current.Type):
		c.cast()
	default:
		c.errorAtCurrent("expected expression")
		c.advance()
	}
}

func (c *Compiler) instanceOf() {
	c.consume(token.LPAREN, "expected '(' after 'instanceof'")
	c.expression(ctxValue)
	c.consume(token.COMMA, "expected ',' after expression")

	tag, ok := instanceOfTags[c.current.Type]
	if !ok {
		c.errorAtCurrent("expected type as second argument for 'instanceof'")
		return
	}
	line := c.current.Line
	c.addConstant(value.Int(tag))
	c.emitOp(opcode.CheckType, line)
	c.advance() // consume the type ident
	c.consume(token.RPAREN, "expected ')'")
}

func (c *Compiler) cast() {
	op := castOps[c.current.Type]
	c.advance()
	c.consume(token.LPAREN, "expected '(' after type ident")
	c.expression(ctxValue)
	c.emitOp(op, c.previous.Line)
	c.consume(token.RPAREN, "expected ')' after expression")
}
