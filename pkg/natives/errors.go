package natives

import "fmt"

// Error is a native function's structured failure. pkg/vm maps Kind back
// onto its own ErrorKind taxonomy when a NativeCall fails, so a native's
// argument error surfaces to the user exactly like a bytecode-level one.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func errInvalidArgument(format string, args ...interface{}) error {
	return &Error{Kind: "InvalidArgument", Message: fmt.Sprintf(format, args...)}
}

func errInvalidType(format string, args ...interface{}) error {
	return &Error{Kind: "InvalidType", Message: fmt.Sprintf(format, args...)}
}
