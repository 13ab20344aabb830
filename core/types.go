package core

import "time"

// PeerRecord tracks a transport peer that has completed the handshake step.
type PeerRecord struct {
	PeerID    string    // transport-layer peer identity
	FirstSeen time.Time // when the peer registered
}

// NonceEntry is the outstanding challenge for a peer. At most one entry is
// live per peer; issuing a new challenge overwrites the previous one.
type NonceEntry struct {
	PeerID   string
	Value    uint64 // 48-bit unsigned challenge value
	IssuedAt time.Time
}

// TemporaryAuthorization is a short-lived capability cache entry granting a
// peer access to authenticated operations without re-verifying a signature.
type TemporaryAuthorization struct {
	PeerID    string
	GrantedAt time.Time
}

// AccountCredential binds a blockchain account to the peer that last
// authenticated as it. Account is the immutable key; PeerID and Nonce are
// updated on every successful re-authentication.
type AccountCredential struct {
	Account      string // blockchain address
	PeerID       string
	Nonce        uint64 // last consumed challenge value
	RegisteredAt time.Time
}

// DepositWallet is the custodial keypair held on behalf of an account to pay
// for storage operations. Immutable after creation: the deposit address for
// an account never changes.
type DepositWallet struct {
	Account    string // owning blockchain address
	PublicKey  string // deposit address
	PrivateKey string // hex-encoded secret key material
	CreatedAt  time.Time
}

// RepositoryRecord is a catalog row for a pushed blob. BlobID is derived
// from content and immutable; Name is the human-readable handle and may be
// changed by the owner.
type RepositoryRecord struct {
	BlobID      string
	Owner       string // account address of the pusher
	Name        string
	Description string
	CreatedAt   time.Time
}

// SessionClaims is the payload carried by a session token. The token is
// stateless: these claims plus the signature and expiry are the whole
// credential.
type SessionClaims struct {
	PeerID    string `json:"peerID"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
	Deposit   string `json:"deposit"`
}
