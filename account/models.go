// Package account defines the per-payer ledger account model.
//
// An account materializes on a payer's first deposit and carries everything
// the accrual engine needs to settle lazily: the committed aggregate rate,
// the last settlement timestamp, the unstreamed principal, and — for
// yield-backed ledgers — the vault share position and price snapshot.
package account

import (
	"github.com/xraph/streamledger/types"
)

// Account is the per-payer record set. All balances are integer token units
// in the smallest denomination; shares are fixed-point claims on the vault.
type Account struct {
	types.Entity

	// Owner is the payer identity this account belongs to.
	Owner string `json:"owner"`

	// Principal is deposited, not-yet-streamed value. It is an accounting
	// figure: the funds themselves sit in DirectBalance or the vault.
	Principal uint64 `json:"principal"`

	// DirectBalance is the idle portion of ledger custody for this account,
	// covering both unstreamed principal and streamed-but-uncollected pay.
	DirectBalance uint64 `json:"direct_balance"`

	// VaultShares is the account's claim on the vault. The underlying value
	// is VaultShares × pricePerShare / PriceScale, recomputed on read —
	// never stored, because price moves independently of any local write.
	VaultShares uint64 `json:"vault_shares"`

	// RatePerSecond is the sum of rates over all active outgoing streams.
	RatePerSecond uint64 `json:"rate_per_second"`

	// LastUpdate is the unix-second timestamp of the last settlement.
	// Zero is the "never initialized" sentinel.
	LastUpdate int64 `json:"last_update"`

	// PaidBalance is value already moved out of principal by accrual:
	// earned by payees, not yet collected.
	PaidBalance uint64 `json:"paid_balance"`

	// LastPrice is the per-share price snapshot taken at the last
	// settlement (yield ledgers only; zero until first sampled).
	LastPrice types.Price `json:"last_price"`

	// YieldEarnedPerUnit is the cumulative per-unit yield credited to the
	// paid balance (yield ledgers only).
	YieldEarnedPerUnit uint64 `json:"yield_earned_per_unit"`
}

// New creates an empty account for a payer.
func New(owner string) *Account {
	return &Account{
		Entity: types.NewEntity(),
		Owner:  owner,
	}
}

// EffectiveBalance is the payer's total claim: idle funds plus the current
// redemption value of vault shares. Pass a zero price for ledgers without
// a vault, in which case the claim is simply the principal.
func (a *Account) EffectiveBalance(price types.Price) (uint64, error) {
	if price.IsZero() {
		return a.Principal, nil
	}

	vaultValue, err := price.Underlying(a.VaultShares)
	if err != nil {
		return 0, err
	}
	return types.CheckedAdd(a.DirectBalance, vaultValue)
}

// Clone returns a deep copy, so operations can stage mutations and discard
// them wholesale when a precondition fails.
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}
