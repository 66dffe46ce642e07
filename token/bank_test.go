package token

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestBankMintAndBalance(t *testing.T) {
	b := NewBank()
	ctx := context.Background()

	if err := b.Mint("alice", 1000); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	bal, err := b.BalanceOf(ctx, "alice")
	if err != nil {
		t.Fatalf("BalanceOf: %v", err)
	}
	if bal != 1000 {
		t.Errorf("balance = %d, want 1000", bal)
	}
}

func TestBankTransfer(t *testing.T) {
	b := NewBank()
	ctx := context.Background()
	if err := b.Mint("alice", 100); err != nil {
		t.Fatal(err)
	}

	if err := b.Transfer(ctx, "alice", "bob", 60); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	aliceBal, _ := b.BalanceOf(ctx, "alice")
	bobBal, _ := b.BalanceOf(ctx, "bob")
	if aliceBal != 40 || bobBal != 60 {
		t.Errorf("balances = %d/%d, want 40/60", aliceBal, bobBal)
	}
}

func TestBankTransferInsufficient(t *testing.T) {
	b := NewBank()
	ctx := context.Background()
	if err := b.Mint("alice", 10); err != nil {
		t.Fatal(err)
	}

	err := b.Transfer(ctx, "alice", "bob", 11)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("err = %v, want ErrInsufficientBalance", err)
	}

	// Nothing moved.
	aliceBal, _ := b.BalanceOf(ctx, "alice")
	if aliceBal != 10 {
		t.Errorf("sender balance changed on failed transfer: %d", aliceBal)
	}
}

func TestBankTransferZero(t *testing.T) {
	b := NewBank()
	if err := b.Transfer(context.Background(), "nobody", "noone", 0); err != nil {
		t.Errorf("zero transfer should succeed, got %v", err)
	}
}

func TestBankMintOverflow(t *testing.T) {
	b := NewBank()
	if err := b.Mint("alice", math.MaxUint64); err != nil {
		t.Fatal(err)
	}
	if err := b.Mint("alice", 1); err == nil {
		t.Error("expected overflow error")
	}
}
