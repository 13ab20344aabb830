package core

import "errors"

var (
	// ErrInvalidPeer is returned when a peer is unknown or the claimed peer
	// identity does not match the transport-reported one.
	ErrInvalidPeer = errors.New("invalid peer")

	// ErrInvalidNonce is returned when no live challenge exists for a peer.
	ErrInvalidNonce = errors.New("invalid nonce")

	// ErrSignatureInvalid covers every signature verification failure. It is
	// deliberately generic so callers cannot probe which check failed.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrTokenExpired is returned when a session token has expired.
	ErrTokenExpired = errors.New("token has expired")

	// ErrInvalidToken is returned when a session token is malformed or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized is returned when a peer attempts an authenticated
	// operation without a temporary authorization.
	ErrUnauthorized = errors.New("peer is not authorized")

	// ErrNotFound is returned when a credential, wallet or repository row
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSizeExceeded is returned the moment an inbound payload crosses its
	// size ceiling.
	ErrSizeExceeded = errors.New("payload size exceeds limit")

	// ErrInsufficientFunds is returned when the deposit balance cannot cover
	// the storage cost, either at pre-check or at submission time.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBlobUnavailable is returned when the storage network cannot serve a
	// blob's content.
	ErrBlobUnavailable = errors.New("blob content unavailable")

	// ErrNameRequired is returned when a rename request omits the name.
	ErrNameRequired = errors.New("repository name is required")

	// ErrNameLength is returned when a repository name is outside [3, 64].
	ErrNameLength = errors.New("repository name length out of bounds")

	// ErrNotOwner is returned when a rename caller does not own the record.
	ErrNotOwner = errors.New("caller does not own this repository")
)
