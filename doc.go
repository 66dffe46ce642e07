// Package streamledger provides a continuous payment streaming engine for Go
// applications.
//
// StreamLedger is designed as a library, not a service. Import it directly
// into your Go application and drive it from your own transport. It provides:
//
//   - Per-second payment streams with lazy, on-touch settlement
//   - Deterministic stream identity over the (payer, payee, rate) triple
//   - Graceful handling of underfunded payers (streams starve, never fault)
//   - Optional yield-bearing vault placement with gains-only accounting
//   - Batched journal of every balance-affecting operation
//   - Pluggable storage (memory, Postgres, SQLite, MongoDB via Grove)
//
// # Quick Start
//
// Create a ledger instance with your preferred store and a token backend:
//
//	import (
//	    "github.com/xraph/streamledger"
//	    "github.com/xraph/streamledger/store/memory"
//	    "github.com/xraph/streamledger/token"
//	)
//
//	bank := token.NewBank()
//	l := streamledger.New(memory.New(), bank)
//
//	// Start the ledger (runs migrations, begins background workers)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Payers deposit funds into ledger custody, then open streams that pay a
// fixed number of token units per second:
//
//	if err := l.Deposit(ctx, "alice", 10_000); err != nil { ... }
//	sid, err := l.CreateStream(ctx, "alice", "bob", 2)
//
// Nothing moves in real time. Accrual is computed lazily whenever an account
// is touched; the payee realizes earnings by withdrawing:
//
//	paid, err := l.Withdraw(ctx, sid) // everything accrued since last withdrawal
//
// A payer whose principal runs out does not fault: the account accrues up to
// the covered second and then starves until the next deposit.
//
// # Yield
//
// With a vault configured, a share of each deposit is placed in a
// yield-bearing position. Appreciation benefits the payer's remaining
// principal and already-accrued balances; depreciation is never written
// down, so books only move on gains:
//
//	l := streamledger.New(store, bank,
//	    streamledger.WithVault(vaultAdapter, 70), // 70% of deposits to vault
//	)
//
// All amounts are integer token units; prices are fixed-point with a 1e9
// scale. There is no floating point anywhere in the accounting path.
//
// # TypeID
//
// Infrastructure entities use TypeID for globally unique, type-safe
// identifiers:
//
//	ldgr_01h2xcejqtf2nbrexx3vqjhp41 // Ledger custody identity
//	jrnl_01h455vb4pex5vsknk084sn02q // Journal entry
//
// Stream identity is deliberately NOT a TypeID: it is a SHA3-256 digest of
// the (payer, payee, rate) triple, so any party can derive it offline.
package streamledger
