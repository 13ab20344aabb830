// Package ledger reads deposit balances from the chain over JSON-RPC.
package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"

	"github.com/sui-direct/node/ports"
)

// balanceOfSelector is the 4-byte selector of balanceOf(address).
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// Client implements ports.Ledger against a JSON-RPC endpoint. Token
// currencies resolve through a configured symbol-to-contract map; anything
// else falls back to the native coin balance.
type Client struct {
	rpc    *rpc.Client
	tokens map[string]common.Address
}

// Dial connects to the RPC endpoint. tokens maps currency symbols (e.g.
// "WAL") to their contract addresses.
func Dial(ctx context.Context, rawurl string, tokens map[string]common.Address) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("dialing ledger rpc: %w", err)
	}
	return &Client{rpc: c, tokens: tokens}, nil
}

var _ ports.Ledger = (*Client)(nil)

// Balance returns the spendable amount of currency held by address, in the
// currency's smallest denomination.
func (c *Client) Balance(ctx context.Context, address, currency string) (decimal.Decimal, error) {
	owner := common.HexToAddress(address)

	token, ok := c.tokens[currency]
	if !ok {
		return c.nativeBalance(ctx, owner)
	}
	return c.tokenBalance(ctx, owner, token)
}

func (c *Client) nativeBalance(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	var result hexutil.Big
	err := c.rpc.CallContext(ctx, &result, "eth_getBalance", owner, "latest")
	if err != nil {
		return decimal.Zero, fmt.Errorf("querying native balance: %w", err)
	}
	return decimal.NewFromBigInt((*big.Int)(&result), 0), nil
}

func (c *Client) tokenBalance(ctx context.Context, owner, token common.Address) (decimal.Decimal, error) {
	data := make([]byte, 0, 4+32)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(owner.Bytes(), 32)...)

	var result hexutil.Bytes
	err := c.rpc.CallContext(ctx, &result, "eth_call", map[string]any{
		"to":   token,
		"data": hexutil.Bytes(data),
	}, "latest")
	if err != nil {
		return decimal.Zero, fmt.Errorf("querying token balance: %w", err)
	}
	if len(result) == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromBigInt(new(big.Int).SetBytes(result), 0), nil
}

// Close tears down the RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}
