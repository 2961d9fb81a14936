package natives

import (
	"math"
	"time"

	"github.com/lgtm-migrator/grace/pkg/value"
)

func init() {
	register(Native{Name: "sqrt", Arity: 1, Fn: sqrtNative})
	register(Native{Name: "time_s", Arity: 0, Fn: timeSeconds})
	register(Native{Name: "time_ms", Arity: 0, Fn: timeMillis})
	register(Native{Name: "time_ns", Arity: 0, Fn: timeNanos})
}

func sqrtNative(args []value.Value) (value.Value, error) {
	switch {
	case args[0].IsInt():
		return value.Float(math.Sqrt(float64(args[0].AsInt()))), nil
	case args[0].IsFloat():
		return value.Float(math.Sqrt(args[0].AsFloat())), nil
	}
	return value.Null, errInvalidArgument("sqrt expects a numeric argument")
}

func timeSeconds(args []value.Value) (value.Value, error) {
	return value.Int(time.Now().Unix()), nil
}

func timeMillis(args []value.Value) (value.Value, error) {
	return value.Int(time.Now().UnixMilli()), nil
}

func timeNanos(args []value.Value) (value.Value, error) {
	return value.Int(time.Now().UnixNano()), nil
}
