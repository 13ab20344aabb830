package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger reads on-chain balances.
type Ledger interface {
	// Balance returns the spendable amount of currency held by address.
	Balance(ctx context.Context, address, currency string) (decimal.Decimal, error)
}
