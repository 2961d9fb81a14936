package compiler

import (
	"github.com/lgtm-migrator/grace/pkg/opcode"
	"github.com/lgtm-migrator/grace/pkg/value"
)

// patchTarget names an absolute (constant-index, op-index) position within
// the current function's pools — either a placeholder waiting to be
// patched, or a concrete jump-back target already known at emission time.
type patchTarget struct {
	constIdx int
	opIdx    int
}

// emitJump appends two placeholder constants (target constant-index,
// target op-index) and the jump op itself, which pulls them directly from
// the constant cursor at runtime. It returns the patch site so the caller
// can rewrite the placeholders once the real target is known.
func (c *Compiler) emitJump(op opcode.Op, line int) patch {
	constIdx := c.addConstant(value.Int(0))
	opIdx := c.addConstant(value.Int(0))
	c.emitOp(op, line)
	return patch{constIdx: constIdx, opIdx: opIdx}
}

// emitJumpTo emits a jump whose target is already known (a backward jump
// to a loop's top), so no later patching is required.
func (c *Compiler) emitJumpTo(op opcode.Op, target patchTarget, line int) {
	c.addConstant(value.Int(int64(target.constIdx)))
	c.addConstant(value.Int(int64(target.opIdx)))
	c.emitOp(op, line)
}

// patchJumpHere rewrites p's placeholder constants to the current
// (constant-count, op-count) of the function being compiled — i.e. "jump
// to right after this point".
func (c *Compiler) patchJumpHere(p patch) {
	fn := c.currentFn()
	fn.Consts[p.constIdx] = value.Int(int64(len(fn.Consts)))
	fn.Consts[p.opIdx] = value.Int(int64(len(fn.Ops)))
}
