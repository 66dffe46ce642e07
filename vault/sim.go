package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xraph/streamledger/types"
)

// Sim errors.
var (
	ErrInsufficientShares = errors.New("vault: insufficient shares outstanding")
	ErrZeroPrice          = errors.New("vault: price per share is zero")
)

// Minter mints new token units. It backs injected yield with real tokens so
// that appreciation redeemed from the vault can actually be paid out.
// token.Bank satisfies it.
type Minter interface {
	Mint(owner string, amount uint64) error
}

// Sim is an in-memory vault with an adjustable price. Tests drive yield by
// calling SetPrice or InjectYield between ledger operations.
type Sim struct {
	mu     sync.Mutex
	price  types.Price
	shares uint64 // shares outstanding
	assets uint64 // underlying held

	minter      Minter
	beneficiary string
}

// NewSim creates a vault priced at 1.0. Yield injected into a plain Sim has
// no token backing; use NewBackedSim when the yield must be withdrawable.
func NewSim() *Sim {
	return &Sim{price: types.InitialPrice}
}

// NewBackedSim creates a vault priced at 1.0 whose injected yield is minted
// into beneficiary, typically the ledger's custody account. Deposited
// principal already sits with the beneficiary, so only the appreciation
// needs fresh tokens behind it.
func NewBackedSim(m Minter, beneficiary string) *Sim {
	return &Sim{price: types.InitialPrice, minter: m, beneficiary: beneficiary}
}

// Deposit mints shares for amount at the current price.
func (s *Sim) Deposit(_ context.Context, amount uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.price.IsZero() {
		return 0, ErrZeroPrice
	}

	minted, err := s.price.SharesFor(amount)
	if err != nil {
		return 0, fmt.Errorf("vault deposit: %w", err)
	}

	shares, err := types.CheckedAdd(s.shares, minted)
	if err != nil {
		return 0, fmt.Errorf("vault deposit: %w", err)
	}
	assets, err := types.CheckedAdd(s.assets, amount)
	if err != nil {
		return 0, fmt.Errorf("vault deposit: %w", err)
	}

	s.shares = shares
	s.assets = assets
	return minted, nil
}

// Withdraw redeems shares at the current price.
func (s *Sim) Withdraw(_ context.Context, shares uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if shares > s.shares {
		return 0, ErrInsufficientShares
	}

	amount, err := s.price.Underlying(shares)
	if err != nil {
		return 0, fmt.Errorf("vault withdraw: %w", err)
	}
	if amount > s.assets {
		// Rounding drift on redemption; cap at what the vault holds.
		amount = s.assets
	}

	s.shares -= shares
	s.assets -= amount
	return amount, nil
}

// PricePerShare reports the current price.
func (s *Sim) PricePerShare(_ context.Context) (types.Price, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.price, nil
}

// SetPrice overrides the per-share price. It is a raw knob for share-math
// tests; the new valuation gets no token backing even on a backed Sim.
func (s *Sim) SetPrice(p types.Price) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.price = p
}

// InjectYield adds underlying value without minting shares, lifting the
// price proportionally. On a backed Sim the amount is also minted to the
// beneficiary so the appreciation has tokens behind it. A no-op on an empty
// vault.
func (s *Sim) InjectYield(amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shares == 0 {
		return nil
	}

	assets, err := types.CheckedAdd(s.assets, amount)
	if err != nil {
		return fmt.Errorf("inject yield: %w", err)
	}
	if s.minter != nil {
		if err := s.minter.Mint(s.beneficiary, amount); err != nil {
			return fmt.Errorf("inject yield: %w", err)
		}
	}
	s.assets = assets

	p, err := types.MulDiv(s.assets, types.PriceScale, s.shares)
	if err != nil {
		return fmt.Errorf("inject yield: %w", err)
	}
	s.price = types.Price(p)
	return nil
}
