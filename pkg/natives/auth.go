package natives

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lgtm-migrator/grace/pkg/value"
)

func init() {
	register(Native{Name: "hash_password", Arity: 1, Fn: hashPassword})
	register(Native{Name: "verify_password", Arity: 2, Fn: verifyPassword})
	register(Native{Name: "jwt_sign", Arity: 3, Fn: jwtSign})
	register(Native{Name: "jwt_verify", Arity: 2, Fn: jwtVerify})
}

func hashPassword(args []value.Value) (value.Value, error) {
	if !args[0].IsString() {
		return value.Null, errInvalidArgument("hash_password expects a string")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(args[0].AsString()), bcrypt.DefaultCost)
	if err != nil {
		return value.Null, &Error{Kind: "InvalidArgument", Message: err.Error()}
	}
	return value.String(string(hashed)), nil
}

func verifyPassword(args []value.Value) (value.Value, error) {
	if !args[0].IsString() || !args[1].IsString() {
		return value.Null, errInvalidArgument("verify_password expects (hash, password) strings")
	}
	err := bcrypt.CompareHashAndPassword([]byte(args[0].AsString()), []byte(args[1].AsString()))
	return value.Bool(err == nil), nil
}

// jwtSign(claims, secret, ttl) — claims is a list of alternating key/value
// Strings (Grace has no map literal), ttl is a Go duration string like "1h".
func jwtSign(args []value.Value) (value.Value, error) {
	claimsList, err := asSlice(args[0])
	if err != nil {
		return value.Null, err
	}
	if !args[1].IsString() || !args[2].IsString() {
		return value.Null, errInvalidArgument("jwt_sign expects (claims, secret, ttl)")
	}

	claims := jwt.MapClaims{}
	elems := claimsList.Elements()
	for i := 0; i+1 < len(elems); i += 2 {
		if !elems[i].IsString() {
			return value.Null, errInvalidArgument("jwt_sign claim keys must be strings")
		}
		claims[elems[i].AsString()] = value.ToNative(elems[i+1])
	}

	duration, err := time.ParseDuration(args[2].AsString())
	if err != nil {
		return value.Null, errInvalidArgument("invalid ttl: %s", err)
	}
	claims["exp"] = time.Now().Add(duration).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(args[1].AsString()))
	if err != nil {
		return value.Null, &Error{Kind: "InvalidArgument", Message: err.Error()}
	}
	return value.String(signed), nil
}

// jwtVerify(token, secret) returns a list of alternating key/value pairs
// from the verified claims, or raises InvalidArgument on a bad token.
func jwtVerify(args []value.Value) (value.Value, error) {
	if !args[0].IsString() || !args[1].IsString() {
		return value.Null, errInvalidArgument("jwt_verify expects (token, secret) strings")
	}
	secret := args[1].AsString()
	token, err := jwt.Parse(args[0].AsString(), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return value.Null, &Error{Kind: "InvalidArgument", Message: err.Error()}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return value.Null, &Error{Kind: "InvalidArgument", Message: "invalid token"}
	}

	out := make([]value.Value, 0, len(claims)*2)
	for k, v := range claims {
		out = append(out, value.String(k), value.FromNative(v))
	}
	return value.FromObject(value.NewSlice(out)), nil
}
