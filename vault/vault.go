// Package vault abstracts a yield-bearing share venue. The ledger parks a
// configurable portion of custody funds here and reconciles yield by
// comparing per-share price snapshots across settlements.
package vault

import (
	"context"

	"github.com/xraph/streamledger/types"
)

// Adapter is the venue surface the ledger depends on. Price must be
// monotone with respect to underlying value: shares bought at price p
// redeem for at least their purchase value while price stays at or above p.
type Adapter interface {
	// Deposit places amount of the underlying and returns the shares minted.
	Deposit(ctx context.Context, amount uint64) (shares uint64, err error)

	// Withdraw redeems shares and returns the underlying amount released.
	Withdraw(ctx context.Context, shares uint64) (amount uint64, err error)

	// PricePerShare reports the current redemption price, scaled by
	// types.PriceScale.
	PricePerShare(ctx context.Context) (types.Price, error)
}
