package natives

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/lgtm-migrator/grace/pkg/value"
)

func init() {
	register(Native{Name: "env_get", Arity: 1, Fn: envGet})
	register(Native{Name: "env_load", Arity: 1, Fn: envLoad})
}

func envGet(args []value.Value) (value.Value, error) {
	if !args[0].IsString() {
		return value.Null, errInvalidArgument("env_get expects a string key")
	}
	v, ok := os.LookupEnv(args[0].AsString())
	if !ok {
		return value.Null, nil
	}
	return value.String(v), nil
}

// env_load(path) merges a .env-style file into the process environment
// without overwriting variables already set, matching godotenv.Load's
// convention. Grace scripts call this explicitly; cmd/grace also calls
// godotenv.Load unconditionally at startup for the CLI's own config.
func envLoad(args []value.Value) (value.Value, error) {
	if !args[0].IsString() {
		return value.Null, errInvalidArgument("env_load expects a string path")
	}
	if err := godotenv.Load(args[0].AsString()); err != nil {
		return value.Null, &Error{Kind: "InvalidArgument", Message: err.Error()}
	}
	return value.Null, nil
}
