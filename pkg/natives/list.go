package natives

import "github.com/lgtm-migrator/grace/pkg/value"

func init() {
	register(Native{Name: "list_append", Arity: 2, Fn: listAppend})
	register(Native{Name: "list_set", Arity: 3, Fn: listSet})
	register(Native{Name: "list_get", Arity: 2, Fn: listGet})
	register(Native{Name: "list_length", Arity: 1, Fn: listLength})
}

func asSlice(v value.Value) (*value.Slice, error) {
	if !v.IsObject() {
		return nil, errInvalidType("expected a list")
	}
	s, ok := v.AsObject().(*value.Slice)
	if !ok {
		return nil, errInvalidType("expected a list")
	}
	return s, nil
}

func listAppend(args []value.Value) (value.Value, error) {
	s, err := asSlice(args[0])
	if err != nil {
		return value.Null, err
	}
	s.Append(args[1])
	return value.Null, nil
}

func listSet(args []value.Value) (value.Value, error) {
	s, err := asSlice(args[0])
	if err != nil {
		return value.Null, err
	}
	if !args[1].IsInt() {
		return value.Null, errInvalidArgument("list index must be an int")
	}
	if err := s.Set(int(args[1].AsInt()), args[2]); err != nil {
		return value.Null, &Error{Kind: "IndexOutOfRange", Message: err.Error()}
	}
	return value.Null, nil
}

func listGet(args []value.Value) (value.Value, error) {
	s, err := asSlice(args[0])
	if err != nil {
		return value.Null, err
	}
	if !args[1].IsInt() {
		return value.Null, errInvalidArgument("list index must be an int")
	}
	v, err := s.Get(int(args[1].AsInt()))
	if err != nil {
		return value.Null, &Error{Kind: "IndexOutOfRange", Message: err.Error()}
	}
	return v, nil
}

func listLength(args []value.Value) (value.Value, error) {
	s, err := asSlice(args[0])
	if err != nil {
		return value.Null, err
	}
	return value.Int(int64(s.Len())), nil
}
