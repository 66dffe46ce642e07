package types

import (
	"errors"
	"testing"
)

func TestPriceUnderlying(t *testing.T) {
	tests := []struct {
		name   string
		price  Price
		shares uint64
		want   uint64
	}{
		{"ParPrice", InitialPrice, 1000, 1000},
		{"FivePercent", Price(PriceScale + PriceScale/20), 1000, 1050},
		{"DoubledPrice", Price(2 * PriceScale), 700, 1400},
		{"RoundsDown", Price(PriceScale + 1), 3, 3},
		{"ZeroShares", InitialPrice, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.price.Underlying(tt.shares)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPriceSharesFor(t *testing.T) {
	tests := []struct {
		name   string
		price  Price
		amount uint64
		want   uint64
	}{
		{"ParPrice", InitialPrice, 1000, 1000},
		{"DoubledPrice", Price(2 * PriceScale), 1000, 500},
		{"RoundsDown", Price(3 * PriceScale), 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.price.SharesFor(tt.amount)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPriceSharesForZeroPrice(t *testing.T) {
	if _, err := Price(0).SharesFor(100); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("expected ErrDivideByZero, got %v", err)
	}
}

func TestRescale(t *testing.T) {
	tests := []struct {
		name   string
		amount uint64
		p0, p1 Price
		want   uint64
	}{
		{"NoChange", 1000, InitialPrice, InitialPrice, 1000},
		{"Gain", 1000, InitialPrice, Price(PriceScale * 11 / 10), 1100},
		{"Double", 333, InitialPrice, Price(2 * PriceScale), 666},
		{"Loss", 1000, Price(2 * PriceScale), InitialPrice, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rescale(tt.amount, tt.p0, tt.p1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRescaleZeroBase(t *testing.T) {
	if _, err := Rescale(100, 0, InitialPrice); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("expected ErrDivideByZero, got %v", err)
	}
}

func TestPriceString(t *testing.T) {
	tests := []struct {
		price Price
		want  string
	}{
		{InitialPrice, "1.000000000"},
		{Price(PriceScale + PriceScale/2), "1.500000000"},
		{Price(PriceScale / 100), "0.010000000"},
	}

	for _, tt := range tests {
		if got := tt.price.String(); got != tt.want {
			t.Errorf("Price(%d).String(): got %q, want %q", tt.price, got, tt.want)
		}
	}
}
