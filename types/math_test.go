package types

import (
	"errors"
	"math"
	"testing"
)

func TestCheckedAdd(t *testing.T) {
	tests := []struct {
		name    string
		a, b    uint64
		want    uint64
		wantErr error
	}{
		{"Simple", 1, 2, 3, nil},
		{"Zero", 0, 0, 0, nil},
		{"MaxPlusZero", math.MaxUint64, 0, math.MaxUint64, nil},
		{"Overflow", math.MaxUint64, 1, 0, ErrOverflow},
		{"OverflowBoth", math.MaxUint64, math.MaxUint64, 0, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckedAdd(tt.a, tt.b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckedSub(t *testing.T) {
	tests := []struct {
		name    string
		a, b    uint64
		want    uint64
		wantErr error
	}{
		{"Simple", 5, 3, 2, nil},
		{"ToZero", 7, 7, 0, nil},
		{"Underflow", 3, 5, 0, ErrUnderflow},
		{"UnderflowFromZero", 0, 1, 0, ErrUnderflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckedSub(tt.a, tt.b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckedMul(t *testing.T) {
	tests := []struct {
		name    string
		a, b    uint64
		want    uint64
		wantErr error
	}{
		{"Simple", 6, 7, 42, nil},
		{"ByZero", math.MaxUint64, 0, 0, nil},
		{"MaxByOne", math.MaxUint64, 1, math.MaxUint64, nil},
		{"Overflow", math.MaxUint64, 2, 0, ErrOverflow},
		{"OverflowLarge", 1 << 40, 1 << 40, 0, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckedMul(tt.a, tt.b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name        string
		a, b, den   uint64
		want        uint64
		wantErr     error
		wantAnyZero bool
	}{
		{name: "Identity", a: 100, b: 7, den: 7, want: 100},
		{name: "TruncatesDown", a: 10, b: 3, den: 4, want: 7},
		{name: "WideIntermediate", a: math.MaxUint64, b: 2, den: 4, want: math.MaxUint64 / 2},
		{name: "ScaleRoundTrip", a: 12345, b: PriceScale, den: PriceScale, want: 12345},
		{name: "DivideByZero", a: 1, b: 1, den: 0, wantErr: ErrDivideByZero},
		{name: "QuotientOverflow", a: math.MaxUint64, b: 3, den: 1, wantErr: ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDiv(tt.a, tt.b, tt.den)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
