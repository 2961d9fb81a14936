package vm

import (
	"fmt"

	"github.com/lgtm-migrator/grace/pkg/diagnostics"
)

// ErrorKind taxonomizes runtime errors per the ten-kind fatal error model.
// Every runtime error is fatal: there is no user-level exception handling
// in the core, so the VM's job on encountering one is to unwind, print,
// and stop.
type ErrorKind string

const (
	AssertionFailed   ErrorKind = "AssertionFailed"
	FunctionNotFound  ErrorKind = "FunctionNotFound"
	IncorrectArgCount ErrorKind = "IncorrectArgCount"
	IndexOutOfRange   ErrorKind = "IndexOutOfRange"
	InvalidArgument   ErrorKind = "InvalidArgument"
	InvalidIterator   ErrorKind = "InvalidIterator"
	InvalidCast       ErrorKind = "InvalidCast"
	InvalidOperand    ErrorKind = "InvalidOperand"
	InvalidType       ErrorKind = "InvalidType"
	ThrownException   ErrorKind = "ThrownException"
)

// RuntimeError is a fatal error raised during execution. Line identifies
// the instruction that raised it; CallStack is captured at the moment of
// the fault for the error reporter to print.
type RuntimeError struct {
	Kind      ErrorKind
	Message   string
	Line      int
	CallStack []diagnostics.CallStackEntry
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, line int, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}
