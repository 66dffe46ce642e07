package token

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xraph/streamledger/types"
)

// ErrInsufficientBalance is returned when a transfer exceeds the sender's
// balance.
var ErrInsufficientBalance = errors.New("token: insufficient balance")

// Bank is an in-memory Transferor backed by a balance map. It serves tests
// and embedded deployments where the asset ledger lives in-process.
type Bank struct {
	mu       sync.RWMutex
	balances map[string]uint64
}

// NewBank creates an empty bank.
func NewBank() *Bank {
	return &Bank{balances: make(map[string]uint64)}
}

// Mint credits freshly created units to an owner.
func (b *Bank) Mint(owner string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, err := types.CheckedAdd(b.balances[owner], amount)
	if err != nil {
		return fmt.Errorf("mint %q: %w", owner, err)
	}
	b.balances[owner] = next
	return nil
}

// Transfer moves amount between owners. Zero-amount transfers succeed
// without touching the map.
func (b *Bank) Transfer(_ context.Context, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balances[from] < amount {
		return fmt.Errorf("transfer %q -> %q: %w", from, to, ErrInsufficientBalance)
	}

	next, err := types.CheckedAdd(b.balances[to], amount)
	if err != nil {
		return fmt.Errorf("transfer %q -> %q: %w", from, to, err)
	}

	b.balances[from] -= amount
	b.balances[to] = next
	return nil
}

// BalanceOf reports the current balance of an owner. Unknown owners have a
// zero balance.
func (b *Bank) BalanceOf(_ context.Context, owner string) (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[owner], nil
}
