package compiler

import (
	"github.com/lgtm-migrator/grace/pkg/opcode"
	"github.com/lgtm-migrator/grace/pkg/value"
)

// Function is a single function's private op list and constant list, plus
// the dispatch metadata the VM needs. Function records are created during
// compilation and finalized once; after linking they also carry their
// offsets into the global program image.
type Function struct {
	Name  string
	Hash  uint64
	Arity int
	Line  int

	Ops    []opcode.OpLine
	Consts []value.Value

	OpOffset    int
	ConstOffset int
}

// Program is everything the compiler produced for one source file: every
// declared function keyed by its name hash, plus declaration order (used
// only for disassembly — linking always starts from "main").
type Program struct {
	Functions map[uint64]*Function
	Order     []uint64
}

func newProgram() *Program {
	return &Program{Functions: make(map[uint64]*Function)}
}
