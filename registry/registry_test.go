package registry_test

import (
	"context"
	"errors"
	"testing"

	streamledger "github.com/xraph/streamledger"
	"github.com/xraph/streamledger/registry"
	"github.com/xraph/streamledger/store/memory"
	"github.com/xraph/streamledger/token"
	"github.com/xraph/streamledger/vault"
)

func newLedger() *streamledger.Ledger {
	return streamledger.New(memory.New(), token.NewBank())
}

func TestCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	r := registry.New()
	defer r.CloseAll()

	key := registry.Key{Token: "usdx"}
	l := newLedger()

	if err := r.Create(ctx, key, l); err != nil {
		t.Fatal(err)
	}

	got, err := r.Lookup(key)
	if err != nil {
		t.Fatal(err)
	}
	if got != l {
		t.Error("lookup returned a different ledger instance")
	}
}

func TestCreateDuplicateKey(t *testing.T) {
	ctx := context.Background()
	r := registry.New()
	defer r.CloseAll()

	key := registry.Key{Token: "usdx", Vault: "aave"}
	first := newLedger()
	if err := r.Create(ctx, key, first); err != nil {
		t.Fatal(err)
	}

	if err := r.Create(ctx, key, newLedger()); !errors.Is(err, registry.ErrLedgerExists) {
		t.Fatalf("err = %v, want ErrLedgerExists", err)
	}

	// The original instance survives the rejected create.
	got, err := r.Lookup(key)
	if err != nil {
		t.Fatal(err)
	}
	if got != first {
		t.Error("duplicate create displaced the original ledger")
	}
}

func TestLookupMissing(t *testing.T) {
	r := registry.New()

	if _, err := r.Lookup(registry.Key{Token: "nope"}); !errors.Is(err, registry.ErrLedgerNotFound) {
		t.Errorf("err = %v, want ErrLedgerNotFound", err)
	}
}

func TestSamePairDistinctVaults(t *testing.T) {
	ctx := context.Background()
	r := registry.New()
	defer r.CloseAll()

	plain := registry.Key{Token: "usdx"}
	yield := registry.Key{Token: "usdx", Vault: "aave"}

	if err := r.Create(ctx, plain, newLedger()); err != nil {
		t.Fatal(err)
	}

	yl := streamledger.New(memory.New(), token.NewBank(),
		streamledger.WithVault(vault.NewSim(), 50),
	)
	if err := r.Create(ctx, yield, yl); err != nil {
		t.Fatal(err)
	}

	keys := r.List()
	if len(keys) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(keys))
	}
	if keys[0] != plain || keys[1] != yield {
		t.Errorf("List() = %v, want sorted [%v %v]", keys, plain, yield)
	}
}

func TestCloseAll(t *testing.T) {
	ctx := context.Background()
	r := registry.New()

	key := registry.Key{Token: "usdx"}
	if err := r.Create(ctx, key, newLedger()); err != nil {
		t.Fatal(err)
	}

	if err := r.CloseAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Lookup(key); !errors.Is(err, registry.ErrLedgerNotFound) {
		t.Errorf("err = %v after CloseAll, want ErrLedgerNotFound", err)
	}
}
