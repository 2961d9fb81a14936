package value

import (
	"fmt"
)

// ToNative converts a Value into a plain Go value suitable for handing to a
// third-party library's own API (JWT claims, JSON bodies, SMTP headers).
// This is the inverse of FromNative and is used throughout pkg/natives
// wherever a wrapped library expects map[string]interface{} or similar.
func ToNative(v Value) interface{} {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.AsBool()
	case KindInt:
		return v.AsInt()
	case KindFloat:
		return v.AsFloat()
	case KindChar:
		return string(v.AsChar())
	case KindString:
		return v.AsString()
	case KindObject:
		if arr, ok := v.AsObject().(interface{ Elements() []Value }); ok {
			out := make([]interface{}, 0, len(arr.Elements()))
			for _, e := range arr.Elements() {
				out = append(out, ToNative(e))
			}
			return out
		}
		return v.AsObject().Inspect()
	default:
		return nil
	}
}

// FromNative converts a plain Go value (typically the result of unmarshaling
// a third-party API's response) back into a Value.
func FromNative(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float64:
		return Float(x)
	case string:
		return String(x)
	case []interface{}:
		vals := make([]Value, 0, len(x))
		for _, e := range x {
			vals = append(vals, FromNative(e))
		}
		return FromObject(NewSlice(vals))
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// Slice is a minimal Object implementing the container protocol for native
// functions that need to return a list of Values (e.g. a JSON array result).
// It is not a general list/dictionary module; it only satisfies the uniform
// Object/Iterable protocol those containers must present.
type Slice struct {
	elems []Value
	pos   int
}

// NewSlice wraps vals as a Slice object.
func NewSlice(vals []Value) *Slice { return &Slice{elems: vals} }

func (s *Slice) Elements() []Value { return s.elems }

func (s *Slice) ObjectKind() string { return "Slice" }

func (s *Slice) Inspect() string {
	out := "["
	for i, e := range s.elems {
		if i > 0 {
			out += ", "
		}
		out += e.Inspect()
	}
	return out + "]"
}

func (s *Slice) Truthy() bool { return len(s.elems) > 0 }

func (s *Slice) Equal(other Object) bool {
	o, ok := other.(*Slice)
	if !ok || len(o.elems) != len(s.elems) {
		return false
	}
	for i := range s.elems {
		if !s.elems[i].Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

func (s *Slice) Next() (Value, bool) {
	if s.pos >= len(s.elems) {
		return Value{}, false
	}
	v := s.elems[s.pos]
	s.pos++
	return v, true
}

// Len reports the number of elements in the slice.
func (s *Slice) Len() int { return len(s.elems) }

// Append adds v to the end of the slice.
func (s *Slice) Append(v Value) { s.elems = append(s.elems, v) }

// Get returns the element at index, or an error if index is out of range.
func (s *Slice) Get(index int) (Value, error) {
	if index < 0 || index >= len(s.elems) {
		return Null, fmt.Errorf("index %d out of range for list of length %d", index, len(s.elems))
	}
	return s.elems[index], nil
}

// Set overwrites the element at index, or returns an error if out of range.
func (s *Slice) Set(index int, v Value) error {
	if index < 0 || index >= len(s.elems) {
		return fmt.Errorf("index %d out of range for list of length %d", index, len(s.elems))
	}
	s.elems[index] = v
	return nil
}
