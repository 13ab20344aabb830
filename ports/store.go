package ports

import (
	"context"

	"github.com/sui-direct/node/core"
)

// CredentialStore persists account credentials and their deposit wallets.
// Register must apply the credential and wallet inserts atomically: a
// credential without a wallet (or vice versa) is an invariant violation.
type CredentialStore interface {
	// Credential returns the credential row for an account, or
	// core.ErrNotFound.
	Credential(ctx context.Context, account string) (*core.AccountCredential, error)

	// AccountByPeer resolves the account that last authenticated as peerID,
	// or core.ErrNotFound.
	AccountByPeer(ctx context.Context, peerID string) (string, error)

	// Register inserts a new credential together with its deposit wallet in
	// a single transaction.
	Register(ctx context.Context, cred core.AccountCredential, wallet core.DepositWallet) error

	// UpdateAuth refreshes the mutable credential fields after a successful
	// re-authentication.
	UpdateAuth(ctx context.Context, account, peerID string, nonce uint64) error

	// Wallet returns the deposit wallet for an account, or core.ErrNotFound.
	Wallet(ctx context.Context, account string) (*core.DepositWallet, error)
}

// CatalogStore persists repository records.
type CatalogStore interface {
	// Insert adds a catalog row. Re-inserting the same blob identifier is a
	// no-op: same content maps to the same record.
	Insert(ctx context.Context, rec core.RepositoryRecord) error

	// Lookup resolves a record by display name or blob identifier, or
	// core.ErrNotFound.
	Lookup(ctx context.Context, key string) (*core.RepositoryRecord, error)

	// ListByOwner returns all records owned by an account.
	ListByOwner(ctx context.Context, owner string) ([]core.RepositoryRecord, error)

	// Rename updates the display name of a record.
	Rename(ctx context.Context, blobID, name string) error
}
