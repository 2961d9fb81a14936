package vm

import (
	"strconv"

	"github.com/lgtm-migrator/grace/pkg/value"
)

// castAsInt implements the (int) cast: numeric and Bool values convert
// directly, Char converts by code point, String parses as a base-10
// integer literal, Null is never convertible.
func castAsInt(v value.Value, line int) (value.Value, error) {
	switch {
	case v.IsInt():
		return v, nil
	case v.IsFloat():
		return value.Int(int64(v.AsFloat())), nil
	case v.IsBool():
		if v.AsBool() {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case v.IsChar():
		return value.Int(int64(v.AsChar())), nil
	case v.IsString():
		n, err := strconv.ParseInt(v.AsString(), 10, 64)
		if err != nil {
			return value.Null, newError(InvalidCast, line, "could not convert %q to int", v.AsString())
		}
		return value.Int(n), nil
	}
	return value.Null, newError(InvalidCast, line, "cannot convert %s to int", v.Kind())
}

// castAsFloat implements the (float) cast, mirroring castAsInt's coercion
// rules but producing a Float.
func castAsFloat(v value.Value, line int) (value.Value, error) {
	switch {
	case v.IsFloat():
		return v, nil
	case v.IsInt():
		return value.Float(float64(v.AsInt())), nil
	case v.IsBool():
		if v.AsBool() {
			return value.Float(1), nil
		}
		return value.Float(0), nil
	case v.IsChar():
		return value.Float(float64(v.AsChar())), nil
	case v.IsString():
		f, err := strconv.ParseFloat(v.AsString(), 64)
		if err != nil {
			return value.Null, newError(InvalidCast, line, "could not convert %q to float", v.AsString())
		}
		return value.Float(f), nil
	}
	return value.Null, newError(InvalidCast, line, "cannot convert %s to float", v.Kind())
}

// castAsChar implements the (char) cast. A String only converts when it is
// exactly one rune long.
func castAsChar(v value.Value, line int) (value.Value, error) {
	switch {
	case v.IsChar():
		return v, nil
	case v.IsInt():
		return value.Char(rune(v.AsInt())), nil
	case v.IsFloat():
		return value.Char(rune(int64(v.AsFloat()))), nil
	case v.IsBool():
		if v.AsBool() {
			return value.Char(1), nil
		}
		return value.Char(0), nil
	case v.IsString():
		r := []rune(v.AsString())
		if len(r) != 1 {
			return value.Null, newError(InvalidCast, line, "cannot convert %q to char, string must be 1 character long", v.AsString())
		}
		return value.Char(r[0]), nil
	}
	return value.Null, newError(InvalidCast, line, "cannot convert %s to char", v.Kind())
}
