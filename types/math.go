// Package types provides common types used across StreamLedger.
package types

import (
	"errors"
	"math/bits"
)

// ErrOverflow is returned when a checked arithmetic operation would wrap.
var ErrOverflow = errors.New("types: integer overflow")

// ErrUnderflow is returned when a checked subtraction would go negative.
var ErrUnderflow = errors.New("types: integer underflow")

// ErrDivideByZero is returned when a checked division has a zero divisor.
var ErrDivideByZero = errors.New("types: division by zero")

// All balance arithmetic is integer-only — no floating point. Amounts are
// uint64 values in the smallest token unit, and every operation that can
// wrap goes through one of the checked helpers below so that a residual
// overflow is a hard failure rather than silent wraparound.

// CheckedAdd returns a + b, or ErrOverflow if the sum wraps.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// CheckedSub returns a - b, or ErrUnderflow if b > a.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

// CheckedMul returns a * b, or ErrOverflow if the product exceeds 64 bits.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// MulDiv returns a * b / den with a full 128-bit intermediate product,
// truncating toward zero. It returns ErrDivideByZero for den == 0 and
// ErrOverflow when the quotient does not fit in 64 bits.
func MulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		return 0, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, den)
	return quo, nil
}
