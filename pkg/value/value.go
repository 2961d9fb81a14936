// Package value implements Grace's runtime Value: the sole datum that
// lives on the VM's operand stack, in a function's constant pool, and in
// the locals array. It is a tagged union rather than an interface so that
// the common cases (Null, Bool, Int, Float, Char) never allocate.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind tags which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindChar
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Object is the capability set every heap-resident value must implement:
// printable, string-convertible, truthiness, equality, and optionally
// iteration. Heap values are ordinary Go values managed by the garbage
// collector; the shared-ownership semantics a reference type needs are
// exactly what Go's GC already gives every value passed around as an
// interface.
type Object interface {
	// ObjectKind names the object's specific type. CheckType/instanceof
	// does not consult it: every Object has type tag 6.
	ObjectKind() string
	// Inspect returns the printable representation used by print/println.
	Inspect() string
	// Truthy is the AsBool rule for this object.
	Truthy() bool
	// Equal reports structural equality against another Object of the
	// same dynamic type. Cross-type object equality is always false.
	Equal(other Object) bool
}

// Iterable is implemented by container objects that can be stepped through
// element by element. It is optional: most Objects do not implement it. The
// compiler's `for` loop iterates integer ranges only and does not use it.
type Iterable interface {
	Object
	// Next returns the next element and true, or a zero Value and false
	// once exhausted.
	Next() (Value, bool)
}

// Value is Grace's tagged-union runtime datum:
// Null | Bool | Int | Float | Char | String | Object.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	c    rune
	s    string
	obj  Object
}

// Null is the sentinel absent-value.
var Null = Value{kind: KindNull}

// True and False are the two Bool values.
var (
	True  = Value{kind: KindBool, b: true}
	False = Value{kind: KindBool, b: false}
)

// Bool returns True or False for b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Int wraps an int64 as a Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float64 as a Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Char wraps a rune as a Value.
func Char(c rune) Value { return Value{kind: KindChar, c: c} }

// String wraps a Go string as a Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// FromObject wraps a heap Object as a Value.
func FromObject(o Object) Value { return Value{kind: KindObject, obj: o} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsInt() bool    { return v.kind == KindInt }
func (v Value) IsFloat() bool  { return v.kind == KindFloat }
func (v Value) IsChar() bool   { return v.kind == KindChar }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsBool returns the raw bool payload; caller must have checked IsBool.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the raw int64 payload; caller must have checked IsInt.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the raw float64 payload; caller must have checked IsFloat.
func (v Value) AsFloat() float64 { return v.f }

// AsChar returns the raw rune payload; caller must have checked IsChar.
func (v Value) AsChar() rune { return v.c }

// AsString returns the raw string payload; caller must have checked IsString.
func (v Value) AsString() string { return v.s }

// AsObject returns the Object payload; caller must have checked IsObject.
func (v Value) AsObject() Object { return v.obj }

// Truthy implements the §4.5 AsBool rule: Null→false; Bool→itself;
// Int/Float→nonzero; Char→non-NUL; String→nonempty; Object→container-defined.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindChar:
		return v.c != 0
	case KindString:
		return v.s != ""
	case KindObject:
		return v.obj.Truthy()
	default:
		return false
	}
}

// Equal implements total equality: structural within a variant, numeric
// cross-promotion between Int and Float, false for every other cross-type
// pair. It never errors, matching the comparison-totality invariant.
func (v Value) Equal(other Value) bool {
	if v.kind == other.kind {
		switch v.kind {
		case KindNull:
			return true
		case KindBool:
			return v.b == other.b
		case KindInt:
			return v.i == other.i
		case KindFloat:
			return v.f == other.f
		case KindChar:
			return v.c == other.c
		case KindString:
			return v.s == other.s
		case KindObject:
			if v.obj == nil || other.obj == nil {
				return v.obj == other.obj
			}
			return v.obj.Equal(other.obj)
		}
	}
	// Numeric cross-promotion: int <-> float.
	if v.kind == KindInt && other.kind == KindFloat {
		return float64(v.i) == other.f
	}
	if v.kind == KindFloat && other.kind == KindInt {
		return v.f == float64(other.i)
	}
	return false
}

// Inspect returns the printable representation used by print/println.
func (v Value) Inspect() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindChar:
		return string(v.c)
	case KindString:
		return v.s
	case KindObject:
		if v.obj == nil {
			return "null"
		}
		return v.obj.Inspect()
	default:
		return "<unknown>"
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// TypeTag returns the numeric type tag used by CheckType/instanceof:
// 0=Bool,1=Char,2=Float,3=Int,4=Null,5=String, 6+ reserved for object kinds.
func (v Value) TypeTag() int {
	switch v.kind {
	case KindBool:
		return 0
	case KindChar:
		return 1
	case KindFloat:
		return 2
	case KindInt:
		return 3
	case KindNull:
		return 4
	case KindString:
		return 5
	default:
		return 6
	}
}

// GoString supports %#v-style debug printing in panics and test failures.
func (v Value) GoString() string {
	return fmt.Sprintf("Value{%s: %s}", v.kind, v.Inspect())
}
