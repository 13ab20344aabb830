package tokenizer

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/sui-direct/node/core"
)

// sessionTokenClaims wraps the session payload under a "data" key alongside
// the registered claims, matching the wire contract clients expect.
type sessionTokenClaims struct {
	jwt.RegisteredClaims
	Data core.SessionClaims `json:"data"`
}
