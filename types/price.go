package types

import "fmt"

// PriceScale is the fixed-point denominator for per-share prices.
// A Price of PriceScale means one share redeems for exactly one token unit.
const PriceScale uint64 = 1_000_000_000

// Price is a vault's redemption value per share, fixed-point scaled by
// PriceScale. A zero Price is the "never sampled" sentinel and is never a
// valid quote.
type Price uint64

// InitialPrice is the canonical 1:1 share price.
const InitialPrice = Price(PriceScale)

// IsZero reports whether the price is the unset sentinel.
func (p Price) IsZero() bool { return p == 0 }

// Underlying converts a share count to its current redemption value in
// token units, rounding down.
func (p Price) Underlying(shares uint64) (uint64, error) {
	v, err := MulDiv(shares, uint64(p), PriceScale)
	if err != nil {
		return 0, fmt.Errorf("price: underlying value of %d shares: %w", shares, err)
	}
	return v, nil
}

// SharesFor converts a token amount to the share count it buys (or the
// shares needed to redeem it), rounding down.
func (p Price) SharesFor(amount uint64) (uint64, error) {
	if p == 0 {
		return 0, ErrDivideByZero
	}
	s, err := MulDiv(amount, PriceScale, uint64(p))
	if err != nil {
		return 0, fmt.Errorf("price: shares for %d units: %w", amount, err)
	}
	return s, nil
}

// Rescale grows amount by the ratio p1/p0, used when propagating a price
// movement into a balance. Rounds down.
func Rescale(amount uint64, p0, p1 Price) (uint64, error) {
	if p0 == 0 {
		return 0, ErrDivideByZero
	}
	v, err := MulDiv(amount, uint64(p1), uint64(p0))
	if err != nil {
		return 0, fmt.Errorf("price: rescale %d by %d/%d: %w", amount, p1, p0, err)
	}
	return v, nil
}

// String renders the price as a decimal ratio, e.g. "1.050000000".
func (p Price) String() string {
	return fmt.Sprintf("%d.%09d", uint64(p)/PriceScale, uint64(p)%PriceScale)
}
