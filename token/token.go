// Package token abstracts movement of the underlying asset between external
// owner balances and ledger custody.
package token

import "context"

// Transferor moves token units between identities. The ledger calls it on
// deposit (payer to custody) and on every withdrawal (custody to recipient).
// Implementations must be atomic per call: a returned error means no value
// moved.
type Transferor interface {
	// Transfer moves amount from one identity's balance to another's.
	Transfer(ctx context.Context, from, to string, amount uint64) error

	// BalanceOf reports the current balance of an identity.
	BalanceOf(ctx context.Context, owner string) (uint64, error)
}
