package ports

import (
	"context"
	"crypto/ecdsa"

	"github.com/shopspring/decimal"
)

// WriteOptions control how a blob is stored on the network.
type WriteOptions struct {
	Deletable bool
	Epochs    int
}

// BlobStore is the decentralized blob-storage network client. WriteBlob may
// fail with core.ErrInsufficientFunds when the signer's deposit cannot cover
// the storage payment at submission time.
type BlobStore interface {
	WriteBlob(ctx context.Context, data []byte, signer *ecdsa.PrivateKey, opts WriteOptions) (string, error)
	ReadBlob(ctx context.Context, blobID string) ([]byte, error)
	StorageCost(ctx context.Context, size int64, epochs int) (decimal.Decimal, error)
}
