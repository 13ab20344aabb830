package service

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
)

const (
	// MaxPushBytes is the hard ceiling on a pushed blob.
	MaxPushBytes = 6 << 30 // 6 GiB

	// StorageEpochs is the fixed redundancy parameter for blob writes.
	StorageEpochs = 2

	// PaymentCurrency is the coin that pays for storage.
	PaymentCurrency = "WAL"

	minNameLen = 3
	maxNameLen = 64
)

// Authorizer is the slice of the auth engine the transfer engine depends on.
type Authorizer interface {
	IsAuthorized(ctx context.Context, peerID string) bool
}

// TransferService is the repository transfer engine: payment-gated push,
// public pull and owner-scoped rename.
type TransferService struct {
	auth    Authorizer
	creds   ports.CredentialStore
	catalog ports.CatalogStore
	blobs   ports.BlobStore
	ledger  ports.Ledger
	events  ports.EventPublisher
}

// NewTransferService creates the transfer engine. events may be nil.
func NewTransferService(
	auth Authorizer,
	creds ports.CredentialStore,
	catalog ports.CatalogStore,
	blobs ports.BlobStore,
	ledger ports.Ledger,
	events ports.EventPublisher,
) *TransferService {
	return &TransferService{
		auth:    auth,
		creds:   creds,
		catalog: catalog,
		blobs:   blobs,
		ledger:  ledger,
		events:  events,
	}
}

// Authorize rejects peers without a live temporary authorization. Transport
// handlers call this before reading a push payload so unauthorized peers
// cost no buffering.
func (s *TransferService) Authorize(ctx context.Context, peerID string) error {
	if !s.auth.IsAuthorized(ctx, peerID) {
		return core.ErrUnauthorized
	}
	return nil
}

// Push stores data on the blob network, paid from the deposit wallet of the
// account owning peerID, and catalogs the result. The funds pre-check is
// advisory: a concurrent spend can still make the write itself fail with
// core.ErrInsufficientFunds.
func (s *TransferService) Push(ctx context.Context, peerID string, data []byte) (*core.RepositoryRecord, error) {
	account, err := s.creds.AccountByPeer(ctx, peerID)
	if err != nil {
		return nil, fmt.Errorf("resolving account for peer: %w", err)
	}

	wallet, err := s.creds.Wallet(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("loading deposit wallet: %w", err)
	}
	signer, err := depositSigner(wallet)
	if err != nil {
		return nil, fmt.Errorf("materializing deposit signer: %w", err)
	}

	cost, err := s.blobs.StorageCost(ctx, int64(len(data)), StorageEpochs)
	if err != nil {
		return nil, fmt.Errorf("querying storage cost: %w", err)
	}
	balance, err := s.ledger.Balance(ctx, wallet.PublicKey, PaymentCurrency)
	if err != nil {
		return nil, fmt.Errorf("querying deposit balance: %w", err)
	}
	if cost.GreaterThan(balance) {
		return nil, core.ErrInsufficientFunds
	}

	blobID, err := s.blobs.WriteBlob(ctx, data, signer, ports.WriteOptions{
		Deletable: true,
		Epochs:    StorageEpochs,
	})
	if err != nil {
		if errors.Is(err, core.ErrInsufficientFunds) {
			return nil, core.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("writing blob: %w", err)
	}

	rec := core.RepositoryRecord{
		BlobID:    blobID,
		Owner:     account,
		Name:      NameFromBlobID(blobID),
		CreatedAt: time.Now(),
	}
	if err := s.catalog.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("cataloging repository: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishPushed(ctx, rec); err != nil {
			log.Printf("transfer: failed to publish push event: %v", err)
		}
	}

	return &rec, nil
}

// Resolve looks up a repository by display name or blob identifier.
func (s *TransferService) Resolve(ctx context.Context, key string) (*core.RepositoryRecord, error) {
	return s.catalog.Lookup(ctx, key)
}

// Fetch resolves a repository and reads its content from the blob network.
// Read access is public: no authorization is required.
func (s *TransferService) Fetch(ctx context.Context, key string) (*core.RepositoryRecord, []byte, error) {
	rec, err := s.catalog.Lookup(ctx, key)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.blobs.ReadBlob(ctx, rec.BlobID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrBlobUnavailable, err)
	}
	return rec, data, nil
}

// List returns the catalog rows owned by an account.
func (s *TransferService) List(ctx context.Context, owner string) ([]core.RepositoryRecord, error) {
	return s.catalog.ListByOwner(ctx, owner)
}

// Rename changes a repository's display name. Validation order is fixed:
// authorization, name presence, name length, record existence, ownership.
// Each failure short-circuits with its own error and no mutation.
func (s *TransferService) Rename(ctx context.Context, peerID, key string, name *string) error {
	if err := s.Authorize(ctx, peerID); err != nil {
		return err
	}
	if name == nil {
		return core.ErrNameRequired
	}
	trimmed := strings.TrimSpace(*name)
	if len(trimmed) < minNameLen || len(trimmed) > maxNameLen {
		return core.ErrNameLength
	}

	rec, err := s.catalog.Lookup(ctx, key)
	if err != nil {
		return err
	}

	account, err := s.creds.AccountByPeer(ctx, peerID)
	if err != nil || rec.Owner != account {
		return core.ErrNotOwner
	}

	if err := s.catalog.Rename(ctx, rec.BlobID, trimmed); err != nil {
		return fmt.Errorf("renaming repository: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishRenamed(ctx, rec.BlobID, trimmed); err != nil {
			log.Printf("transfer: failed to publish rename event: %v", err)
		}
	}
	return nil
}

// depositSigner decodes the stored secret key into a signer for a single
// payment-bearing operation.
func depositSigner(wallet *core.DepositWallet) (*ecdsa.PrivateKey, error) {
	return gethcrypto.HexToECDSA(strings.TrimPrefix(wallet.PrivateKey, "0x"))
}
