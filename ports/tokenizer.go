package ports

import "github.com/sui-direct/node/core"

// Tokenizer issues and verifies stateless session tokens. Verify returns
// core.ErrTokenExpired for an expired token and core.ErrInvalidToken for any
// other invalidity.
type Tokenizer interface {
	Issue(claims core.SessionClaims) (string, error)
	Verify(token string) (*core.SessionClaims, error)
}
