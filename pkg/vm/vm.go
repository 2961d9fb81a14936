// Package vm links a compiled *compiler.Program into one flat instruction
// image and executes it: a stack-based fetch-decode-execute loop over
// opcode.Op, a flat locals vector shared across call frames, and a
// dedicated call-frame stack that carries return addresses and diagnostics
// context rather than encoding them as extra values on the operand stack.
package vm

import (
	"fmt"
	"os"

	"github.com/lgtm-migrator/grace/pkg/compiler"
	"github.com/lgtm-migrator/grace/pkg/diagnostics"
	"github.com/lgtm-migrator/grace/pkg/natives"
	"github.com/lgtm-migrator/grace/pkg/opcode"
	"github.com/lgtm-migrator/grace/pkg/value"
)

// MaxCallDepth bounds recursion against a fixed call-stack size; exceeded
// depth is reported the same way any other fatal runtime error is.
const MaxCallDepth = 1024

// frame is one call's bookkeeping: where to resume the caller (both the
// op and constant cursors, since the two pools advance independently) and
// where this call's locals begin in the shared locals vector.
//
// A more literal calling convention would encode the return address as two
// Int values pushed onto the operand stack; this VM instead carries it in
// a dedicated frame struct, so the operand stack stays pure value storage
// and Return never has to guess which two stack slots are its bookkeeping.
type frame struct {
	fn          *compiler.Function
	returnOp    int
	returnConst int
	localsBase  int
	callerLine  int
	callerName  string
}

// VM executes a linked program image.
type VM struct {
	prog *linkedProgram

	valueStack []value.Value
	locals     []value.Value

	frames []frame

	opCursor    int
	constCursor int

	out *os.File
}

// New constructs a VM that writes print/println output to out (typically
// os.Stdout).
func New(out *os.File) *VM {
	return &VM{out: out}
}

// Run links prog and executes it starting from main, returning a
// RuntimeError if execution faults. A nil error means the program ran to
// completion.
func (vm *VM) Run(prog *compiler.Program) error {
	lp, err := link(prog)
	if err != nil {
		return err
	}
	vm.prog = lp
	vm.valueStack = vm.valueStack[:0]
	vm.locals = vm.locals[:0]
	vm.frames = vm.frames[:0]

	main := lp.functions[lp.mainHash]
	vm.frames = append(vm.frames, frame{fn: main, localsBase: 0, callerName: "<script>"})
	vm.opCursor = main.OpOffset
	vm.constCursor = main.ConstOffset

	return vm.loop()
}

func (vm *VM) currentFrame() *frame {
	return &vm.frames[len(vm.frames)-1]
}

func (vm *VM) push(v value.Value) {
	vm.valueStack = append(vm.valueStack, v)
}

func (vm *VM) pop() value.Value {
	n := len(vm.valueStack) - 1
	v := vm.valueStack[n]
	vm.valueStack = vm.valueStack[:n]
	return v
}

func (vm *VM) peek() value.Value {
	return vm.valueStack[len(vm.valueStack)-1]
}

// nextConstant returns the constant under the running constant cursor and
// advances it by one. Every opcode with operands reads them this way,
// rather than the compiler emitting a LoadConstant for each one.
func (vm *VM) nextConstant() value.Value {
	v := vm.prog.consts[vm.constCursor]
	vm.constCursor++
	return v
}

func (vm *VM) callStack() []diagnostics.CallStackEntry {
	entries := make([]diagnostics.CallStackEntry, 0, len(vm.frames))
	for i := 1; i < len(vm.frames); i++ {
		entries = append(entries, diagnostics.CallStackEntry{
			CallerName: vm.frames[i-1].fn.Name,
			CalleeName: vm.frames[i].fn.Name,
			CallLine:   vm.frames[i].callerLine,
		})
	}
	return entries
}

// loop is the fetch-decode-execute cycle. It runs until the outermost
// frame (main) returns or a runtime error is raised.
func (vm *VM) loop() error {
	for {
		fn := vm.currentFrame().fn
		line := vm.prog.ops[vm.opCursor].Line
		op := vm.prog.ops[vm.opCursor].Op
		vm.opCursor++

		switch op {
		case opcode.LoadConstant:
			vm.push(vm.nextConstant())

		case opcode.Pop:
			vm.pop()

		case opcode.DeclareLocal:
			vm.locals = append(vm.locals, value.Null)

		case opcode.PopLocal:
			vm.locals = vm.locals[:len(vm.locals)-1]

		case opcode.LoadLocal:
			slot := int(vm.nextConstant().AsInt())
			vm.push(vm.locals[vm.currentFrame().localsBase+slot])

		case opcode.AssignLocal:
			slot := int(vm.nextConstant().AsInt())
			vm.locals[vm.currentFrame().localsBase+slot] = vm.peek()

		case opcode.Add, opcode.Subtract, opcode.Multiply, opcode.Divide, opcode.Modulo, opcode.Pow:
			b := vm.pop()
			a := vm.pop()
			v, err := vm.binaryArith(op, a, b, line)
			if err != nil {
				return vm.fault(err)
			}
			vm.push(v)

		case opcode.Negate:
			v, err := negate(vm.pop(), line)
			if err != nil {
				return vm.fault(err)
			}
			vm.push(v)

		case opcode.Not:
			vm.push(value.Bool(!vm.pop().Truthy()))

		case opcode.And:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(a.Truthy() && b.Truthy()))

		case opcode.Or:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(a.Truthy() || b.Truthy()))

		case opcode.Equal:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(a.Equal(b)))

		case opcode.NotEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(!a.Equal(b)))

		case opcode.Greater, opcode.GreaterEqual, opcode.Less, opcode.LessEqual:
			b := vm.pop()
			a := vm.pop()
			cmp, err := compare(a, b, line)
			if err != nil {
				return vm.fault(err)
			}
			vm.push(value.Bool(vm.compareHolds(op, cmp)))

		case opcode.Jump:
			targetConst := int(vm.nextConstant().AsInt())
			targetOp := int(vm.nextConstant().AsInt())
			vm.constCursor = fn.ConstOffset + targetConst
			vm.opCursor = fn.OpOffset + targetOp

		case opcode.JumpIfFalse:
			cond := vm.pop()
			targetConst := int(vm.nextConstant().AsInt())
			targetOp := int(vm.nextConstant().AsInt())
			if !cond.Truthy() {
				vm.constCursor = fn.ConstOffset + targetConst
				vm.opCursor = fn.OpOffset + targetOp
			}

		case opcode.Call:
			hash := uint64(vm.nextConstant().AsInt())
			argCount := int(vm.nextConstant().AsInt())
			if err := vm.call(hash, argCount, line); err != nil {
				return vm.fault(err)
			}

		case opcode.Return:
			done, err := vm.doReturn()
			if err != nil {
				return vm.fault(err)
			}
			if done {
				return nil
			}

		case opcode.NativeCall:
			index := int(vm.nextConstant().AsInt())
			argCount := int(vm.nextConstant().AsInt())
			if err := vm.nativeCall(index, argCount, line); err != nil {
				return vm.fault(err)
			}

		case opcode.CastAsInt, opcode.CastAsFloat, opcode.CastAsBool, opcode.CastAsString, opcode.CastAsChar:
			v, err := vm.cast(op, vm.pop(), line)
			if err != nil {
				return vm.fault(err)
			}
			vm.push(v)

		case opcode.CheckType:
			tag := int(vm.nextConstant().AsInt())
			v := vm.pop()
			vm.push(value.Bool(v.TypeTag() == tag))

		case opcode.Assert:
			cond := vm.pop()
			if !cond.Truthy() {
				return vm.fault(newError(AssertionFailed, line, "assertion failed"))
			}

		case opcode.AssertWithMessage:
			msg := vm.pop()
			cond := vm.pop()
			if !cond.Truthy() {
				return vm.fault(newError(AssertionFailed, line, "%s", msg.Inspect()))
			}

		case opcode.Print:
			fmt.Fprint(vm.out, vm.peek().Inspect())

		case opcode.PrintLn:
			fmt.Fprintln(vm.out, vm.peek().Inspect())

		case opcode.PrintEmptyLine:
			fmt.Fprintln(vm.out)

		case opcode.PrintTab:
			fmt.Fprint(vm.out, "\t")

		default:
			return vm.fault(newError(InvalidOperand, line, "unknown opcode %s", op))
		}
	}
}

func (vm *VM) compareHolds(op opcode.Op, cmp int) bool {
	switch op {
	case opcode.Greater:
		return cmp > 0
	case opcode.GreaterEqual:
		return cmp >= 0
	case opcode.Less:
		return cmp < 0
	case opcode.LessEqual:
		return cmp <= 0
	}
	return false
}

func (vm *VM) binaryArith(op opcode.Op, a, b value.Value, line int) (value.Value, error) {
	switch op {
	case opcode.Add:
		return add(a, b, line)
	case opcode.Subtract:
		return subtract(a, b, line)
	case opcode.Multiply:
		return multiply(a, b, line)
	case opcode.Divide:
		return divide(a, b, line)
	case opcode.Modulo:
		return modulo(a, b, line)
	case opcode.Pow:
		return pow(a, b, line)
	}
	return value.Null, newError(InvalidOperand, line, "unreachable arithmetic op %s", op)
}

// call dispatches a user-defined function by name hash: pop its arguments
// off the value stack into a fresh locals segment, push a frame recording
// where to resume the caller, and jump the cursors to the callee's start.
func (vm *VM) call(hash uint64, argCount int, line int) error {
	callee, ok := vm.prog.functions[hash]
	if !ok {
		return newError(FunctionNotFound, line, "no function with the given name is defined")
	}
	if callee.Arity != argCount {
		return newError(IncorrectArgCount, line, "%s expects %d argument(s), got %d", callee.Name, callee.Arity, argCount)
	}
	if len(vm.frames) >= MaxCallDepth {
		return newError(InvalidOperand, line, "maximum call depth exceeded")
	}

	args := make([]value.Value, argCount)
	for i := argCount - 1; i >= 0; i-- {
		args[i] = vm.pop()
	}
	base := len(vm.locals)
	vm.locals = append(vm.locals, args...)
	callerName := vm.currentFrame().fn.Name

	vm.frames = append(vm.frames, frame{
		fn:          callee,
		returnOp:    vm.opCursor,
		returnConst: vm.constCursor,
		localsBase:  base,
		callerLine:  line,
		callerName:  callerName,
	})

	vm.opCursor = callee.OpOffset
	vm.constCursor = callee.ConstOffset
	return nil
}

// doReturn pops the return value, tears down the current frame's locals,
// and resumes the caller at its saved cursors. Returning from the
// outermost frame (main) reports done=true, which loop treats as a clean
// halt.
func (vm *VM) doReturn() (done bool, err error) {
	retVal := vm.pop()
	f := vm.currentFrame()
	vm.locals = vm.locals[:f.localsBase]
	vm.frames = vm.frames[:len(vm.frames)-1]

	if len(vm.frames) == 0 {
		return true, nil
	}

	vm.opCursor = f.returnOp
	vm.constCursor = f.returnConst
	vm.push(retVal)
	return false, nil
}

// nativeCall pops argCount values off the operand stack (already in call
// order) and dispatches them through pkg/natives, translating a native
// failure into this package's own RuntimeError taxonomy.
func (vm *VM) nativeCall(index int, argCount int, line int) error {
	if index < 0 || index >= natives.Count() {
		return newError(FunctionNotFound, line, "no native function at index %d", index)
	}
	args := make([]value.Value, argCount)
	for i := argCount - 1; i >= 0; i-- {
		args[i] = vm.pop()
	}
	result, err := natives.Call(index, args)
	if err != nil {
		if nerr, ok := err.(*natives.Error); ok {
			return newError(ErrorKind(nerr.Kind), line, "%s", nerr.Message)
		}
		return newError(InvalidArgument, line, "%s", err.Error())
	}
	vm.push(result)
	return nil
}

func (vm *VM) cast(op opcode.Op, v value.Value, line int) (value.Value, error) {
	switch op {
	case opcode.CastAsInt:
		return castAsInt(v, line)
	case opcode.CastAsFloat:
		return castAsFloat(v, line)
	case opcode.CastAsBool:
		return value.Bool(v.Truthy()), nil
	case opcode.CastAsString:
		return value.String(v.Inspect()), nil
	case opcode.CastAsChar:
		return castAsChar(v, line)
	}
	return value.Null, newError(InvalidCast, line, "unreachable cast op %s", op)
}

// fault attaches the current call stack to a runtime error so the CLI can
// print a full trace; it does no further unwinding, that is Run's caller's
// job.
func (vm *VM) fault(err error) error {
	re, ok := err.(*RuntimeError)
	if !ok {
		return err
	}
	re.CallStack = vm.callStack()
	return re
}
