package vm

import (
	"math"

	"github.com/lgtm-migrator/grace/pkg/value"
)

// binaryNumeric applies the Int/Float coercion rule shared by +, -, *: two
// ints stay Int, any Float operand promotes the whole operation to Float.
func binaryNumeric(a, b value.Value, ints func(int64, int64) int64, floats func(float64, float64) float64) (value.Value, bool) {
	switch {
	case a.IsInt() && b.IsInt():
		return value.Int(ints(a.AsInt(), b.AsInt())), true
	case a.IsInt() && b.IsFloat():
		return value.Float(floats(float64(a.AsInt()), b.AsFloat())), true
	case a.IsFloat() && b.IsInt():
		return value.Float(floats(a.AsFloat(), float64(b.AsInt()))), true
	case a.IsFloat() && b.IsFloat():
		return value.Float(floats(a.AsFloat(), b.AsFloat())), true
	default:
		return value.Null, false
	}
}

func add(a, b value.Value, line int) (value.Value, error) {
	if v, ok := binaryNumeric(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y }); ok {
		return v, nil
	}
	switch {
	case a.IsChar() && b.IsChar():
		return value.String(string(a.AsChar()) + string(b.AsChar())), nil
	case a.IsString() && b.IsString():
		return value.String(a.AsString() + b.AsString()), nil
	case a.IsString() && b.IsChar():
		return value.String(a.AsString() + string(b.AsChar())), nil
	case a.IsString():
		return value.String(a.AsString() + b.Inspect()), nil
	}
	return value.Null, newError(InvalidOperand, line, "cannot add %s and %s", a.Kind(), b.Kind())
}

func subtract(a, b value.Value, line int) (value.Value, error) {
	if v, ok := binaryNumeric(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y }); ok {
		return v, nil
	}
	return value.Null, newError(InvalidOperand, line, "cannot subtract %s from %s", b.Kind(), a.Kind())
}

func multiply(a, b value.Value, line int) (value.Value, error) {
	if v, ok := binaryNumeric(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y }); ok {
		return v, nil
	}
	switch {
	case a.IsChar() && b.IsInt():
		return repeatChar(a.AsChar(), b.AsInt()), nil
	case a.IsString() && b.IsInt():
		return repeatString(a.AsString(), b.AsInt()), nil
	}
	return value.Null, newError(InvalidOperand, line, "cannot multiply %s and %s", a.Kind(), b.Kind())
}

func repeatChar(c rune, n int64) value.Value {
	if n <= 0 {
		return value.String("")
	}
	buf := make([]rune, n)
	for i := range buf {
		buf[i] = c
	}
	return value.String(string(buf))
}

func repeatString(s string, n int64) value.Value {
	if n <= 0 {
		return value.String("")
	}
	out := make([]byte, 0, len(s)*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, s...)
	}
	return value.String(string(out))
}

func divide(a, b value.Value, line int) (value.Value, error) {
	switch {
	case a.IsInt() && b.IsInt():
		if b.AsInt() == 0 {
			return value.Null, newError(InvalidOperand, line, "division by zero")
		}
		return value.Int(a.AsInt() / b.AsInt()), nil
	case a.IsInt() && b.IsFloat():
		return value.Float(float64(a.AsInt()) / b.AsFloat()), nil
	case a.IsFloat() && b.IsInt():
		return value.Float(a.AsFloat() / float64(b.AsInt())), nil
	case a.IsFloat() && b.IsFloat():
		return value.Float(a.AsFloat() / b.AsFloat()), nil
	}
	return value.Null, newError(InvalidOperand, line, "cannot divide %s by %s", a.Kind(), b.Kind())
}

func modulo(a, b value.Value, line int) (value.Value, error) {
	switch {
	case a.IsInt() && b.IsInt():
		if b.AsInt() == 0 {
			return value.Null, newError(InvalidOperand, line, "modulo by zero")
		}
		return value.Int(a.AsInt() % b.AsInt()), nil
	case a.IsInt() && b.IsFloat():
		return value.Float(math.Mod(float64(a.AsInt()), b.AsFloat())), nil
	case a.IsFloat() && b.IsInt():
		return value.Float(math.Mod(a.AsFloat(), float64(b.AsInt()))), nil
	case a.IsFloat() && b.IsFloat():
		return value.Float(math.Mod(a.AsFloat(), b.AsFloat())), nil
	}
	return value.Null, newError(InvalidOperand, line, "cannot compute %s %% %s", a.Kind(), b.Kind())
}

// pow always produces a Float: exponentiation promotes integral arguments
// to floating point regardless of operand kind.
func pow(a, b value.Value, line int) (value.Value, error) {
	switch {
	case a.IsInt() && b.IsInt():
		return value.Float(math.Pow(float64(a.AsInt()), float64(b.AsInt()))), nil
	case a.IsInt() && b.IsFloat():
		return value.Float(math.Pow(float64(a.AsInt()), b.AsFloat())), nil
	case a.IsFloat() && b.IsInt():
		return value.Float(math.Pow(a.AsFloat(), float64(b.AsInt()))), nil
	case a.IsFloat() && b.IsFloat():
		return value.Float(math.Pow(a.AsFloat(), b.AsFloat())), nil
	}
	return value.Null, newError(InvalidOperand, line, "cannot raise %s to the power of %s", a.Kind(), b.Kind())
}

func negate(v value.Value, line int) (value.Value, error) {
	switch {
	case v.IsInt():
		return value.Int(-v.AsInt()), nil
	case v.IsFloat():
		return value.Float(-v.AsFloat()), nil
	}
	return value.Null, newError(InvalidOperand, line, "cannot negate %s", v.Kind())
}

// compare implements the ordered comparisons (<, <=, >, >=). Unlike
// equality, ordering errors on operand combinations it can't order.
func compare(a, b value.Value, line int) (int, error) {
	switch {
	case a.IsInt() && b.IsInt():
		return cmpInt64(a.AsInt(), b.AsInt()), nil
	case a.IsInt() && b.IsFloat():
		return cmpFloat64(float64(a.AsInt()), b.AsFloat()), nil
	case a.IsFloat() && b.IsInt():
		return cmpFloat64(a.AsFloat(), float64(b.AsInt())), nil
	case a.IsFloat() && b.IsFloat():
		return cmpFloat64(a.AsFloat(), b.AsFloat()), nil
	case a.IsChar() && b.IsChar():
		return cmpInt64(int64(a.AsChar()), int64(b.AsChar())), nil
	case a.IsString() && b.IsString():
		switch {
		case a.AsString() < b.AsString():
			return -1, nil
		case a.AsString() > b.AsString():
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, newError(InvalidOperand, line, "cannot compare %s and %s", a.Kind(), b.Kind())
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
