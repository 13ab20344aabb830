// Package blob talks to the decentralized blob-storage network through its
// HTTP publisher and aggregator endpoints. Writes are signed with the
// deposit key that pays for the storage.
package blob

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
)

// storageUnit is the size granularity the network prices storage in.
const storageUnit = 1 << 20 // 1 MiB

// Client implements ports.BlobStore over the network's HTTP API.
type Client struct {
	publisherURL  string
	aggregatorURL string
	httpc         *http.Client

	// unitPrice is the network's price per storage unit per epoch, in the
	// payment currency's smallest denomination.
	unitPrice decimal.Decimal
}

func NewClient(publisherURL, aggregatorURL string, unitPrice decimal.Decimal) *Client {
	return &Client{
		publisherURL:  strings.TrimRight(publisherURL, "/"),
		aggregatorURL: strings.TrimRight(aggregatorURL, "/"),
		httpc:         &http.Client{Timeout: 5 * time.Minute},
		unitPrice:     unitPrice,
	}
}

var _ ports.BlobStore = (*Client)(nil)

type writeResponse struct {
	NewlyCreated *struct {
		BlobObject struct {
			BlobID string `json:"blobId"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobID string `json:"blobId"`
	} `json:"alreadyCertified"`
}

// WriteBlob uploads data and returns its content-derived identifier. The
// request carries the signer's address and a signature over the content
// digest so the network can charge the right deposit account.
func (c *Client) WriteBlob(ctx context.Context, data []byte, signer *ecdsa.PrivateKey, opts ports.WriteOptions) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/blobs?%s", c.publisherURL, url.Values{
		"epochs":    {fmt.Sprint(opts.Epochs)},
		"deletable": {fmt.Sprint(opts.Deletable)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("building write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	digest := sha256.Sum256(data)
	sig, err := gethcrypto.Sign(digest[:], signer)
	if err != nil {
		return "", fmt.Errorf("signing content digest: %w", err)
	}
	req.Header.Set("X-Direct-Signer", gethcrypto.PubkeyToAddress(signer.PublicKey).Hex())
	req.Header.Set("X-Direct-Signature", hexutil.Encode(sig))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("writing blob: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading write response: %w", err)
	}

	if resp.StatusCode == http.StatusPaymentRequired ||
		strings.Contains(strings.ToLower(string(body)), "not enough coins") {
		return "", core.ErrInsufficientFunds
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("blob write failed with status %d: %s", resp.StatusCode, body)
	}

	var wr writeResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return "", fmt.Errorf("decoding write response: %w", err)
	}
	switch {
	case wr.NewlyCreated != nil:
		return wr.NewlyCreated.BlobObject.BlobID, nil
	case wr.AlreadyCertified != nil:
		return wr.AlreadyCertified.BlobID, nil
	default:
		return "", fmt.Errorf("write response carries no blob identifier")
	}
}

// ReadBlob downloads a blob's content from the aggregator.
func (c *Client) ReadBlob(ctx context.Context, blobID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1/blobs/%s", c.aggregatorURL, url.PathEscape(blobID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building read request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, core.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("blob read failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// StorageCost estimates the write cost for size bytes over epochs. The
// network bills per started storage unit per epoch.
func (c *Client) StorageCost(ctx context.Context, size int64, epochs int) (decimal.Decimal, error) {
	if size < 0 {
		return decimal.Zero, fmt.Errorf("negative size")
	}
	units := (size + storageUnit - 1) / storageUnit
	if units == 0 {
		units = 1
	}
	return c.unitPrice.
		Mul(decimal.NewFromInt(units)).
		Mul(decimal.NewFromInt(int64(epochs))), nil
}
