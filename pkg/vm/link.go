package vm

import (
	"fmt"

	"github.com/lgtm-migrator/grace/pkg/compiler"
	"github.com/lgtm-migrator/grace/pkg/opcode"
	"github.com/lgtm-migrator/grace/pkg/value"
)

// linkedProgram is the flattened form the VM actually executes: every
// function's op list and constant list concatenated into two global
// vectors, main first, with each function record carrying the base
// offsets the VM adds when resolving an intra-function jump.
type linkedProgram struct {
	ops       []opcode.OpLine
	consts    []value.Value
	functions map[uint64]*compiler.Function
	mainHash  uint64
}

// Linked is the disassembler-facing view of a linked program: the flat op
// and constant vectors plus the function table, exported so cmd/gracec can
// print exactly what the VM is about to execute without duplicating the
// linking logic.
type Linked struct {
	Ops       []opcode.OpLine
	Consts    []value.Value
	Functions map[uint64]*compiler.Function
	MainHash  uint64
}

// Link runs the linker and returns its disassembler-facing view.
func Link(prog *compiler.Program) (*Linked, error) {
	lp, err := link(prog)
	if err != nil {
		return nil, err
	}
	return &Linked{Ops: lp.ops, Consts: lp.consts, Functions: lp.functions, MainHash: lp.mainHash}, nil
}

// link concatenates every function's pools into the two global vectors
// this package's VM executes over, starting with main. Linking fails if
// main is not present.
func link(prog *compiler.Program) (*linkedProgram, error) {
	var mainHash uint64
	var mainFn *compiler.Function
	for _, hash := range prog.Order {
		fn := prog.Functions[hash]
		if fn.Name == "main" {
			mainHash = hash
			mainFn = fn
			break
		}
	}
	if mainFn == nil {
		return nil, fmt.Errorf("no 'main' function defined")
	}

	lp := &linkedProgram{functions: prog.Functions, mainHash: mainHash}

	order := make([]uint64, 0, len(prog.Order))
	order = append(order, mainHash)
	for _, hash := range prog.Order {
		if hash != mainHash {
			order = append(order, hash)
		}
	}

	for _, hash := range order {
		fn := prog.Functions[hash]
		fn.OpOffset = len(lp.ops)
		fn.ConstOffset = len(lp.consts)
		lp.ops = append(lp.ops, fn.Ops...)
		lp.consts = append(lp.consts, fn.Consts...)
	}

	return lp, nil
}
