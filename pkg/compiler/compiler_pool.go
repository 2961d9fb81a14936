package compiler

import (
	"sync"

	"github.com/lgtm-migrator/grace/pkg/diagnostics"
	"github.com/lgtm-migrator/grace/pkg/lexer"
	"github.com/lgtm-migrator/grace/pkg/token"
)

// compilerPool amortizes the map/slice allocations a Compiler accumulates
// across repeated one-shot compiles, e.g. a test suite or REPL-style tool
// that compiles many small snippets in a loop.
var compilerPool = sync.Pool{
	New: func() interface{} {
		return &Compiler{locals: make(map[string]local)}
	},
}

// Acquire returns a Compiler from the pool, reset and ready to compile
// source under fileName.
func Acquire(fileName, source string) *Compiler {
	c := compilerPool.Get().(*Compiler)
	c.reset(fileName, source)
	return c
}

// Release returns c to the pool. c must not be used again by the caller
// afterwards.
func Release(c *Compiler) {
	compilerPool.Put(c)
}

func (c *Compiler) reset(fileName, source string) {
	c.scanner = lexer.New(source)
	c.previous = token.Token{}
	c.current = token.Token{}
	c.fileName = fileName
	c.source = splitLines(source)
	c.program = newProgram()
	c.fnStack = c.fnStack[:0]

	for k := range c.locals {
		delete(c.locals, k)
	}
	c.localOrder = c.localOrder[:0]
	c.loopStack = c.loopStack[:0]

	c.ctx = contextTopLevel
	c.functionHadReturn = false
	c.panicMode = false
	c.diags = diagnostics.Bag{}
}
