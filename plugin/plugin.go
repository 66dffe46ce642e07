// Package plugin provides an extensible plugin system for StreamLedger.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Funding hooks
// ──────────────────────────────────────────────────

// OnDeposit is called when a payer funds their account.
type OnDeposit interface {
	Plugin
	OnDeposit(ctx context.Context, payer string, amount uint64) error
}

// OnPayerWithdraw is called when a payer pulls unstreamed funds back out.
type OnPayerWithdraw interface {
	Plugin
	OnPayerWithdraw(ctx context.Context, payer string, amount uint64) error
}

// ──────────────────────────────────────────────────
// Stream lifecycle hooks
// ──────────────────────────────────────────────────

// OnStreamCreated is called when a new stream is opened.
type OnStreamCreated interface {
	Plugin
	OnStreamCreated(ctx context.Context, stream interface{}) error
}

// OnStreamCanceled is called when a stream is canceled.
type OnStreamCanceled interface {
	Plugin
	OnStreamCanceled(ctx context.Context, stream interface{}, settled uint64) error
}

// OnStreamModified is called when a stream's rate changes.
type OnStreamModified interface {
	Plugin
	OnStreamModified(ctx context.Context, stream interface{}, oldRate, newRate uint64) error
}

// OnWithdraw is called when a payee collects earned funds.
type OnWithdraw interface {
	Plugin
	OnWithdraw(ctx context.Context, payer, payee string, amount uint64) error
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnSettled is called after an account's accrual is brought current.
type OnSettled interface {
	Plugin
	OnSettled(ctx context.Context, payer string, streamed uint64, upTo int64) error
}

// OnStarved is called when a settlement exhausts the account's principal
// before covering the full elapsed window.
type OnStarved interface {
	Plugin
	OnStarved(ctx context.Context, payer string, coveredUntil int64) error
}

// ──────────────────────────────────────────────────
// Vault hooks
// ──────────────────────────────────────────────────

// OnYieldAccrued is called when vault appreciation is credited to an account.
type OnYieldAccrued interface {
	Plugin
	OnYieldAccrued(ctx context.Context, payer string, amount uint64) error
}

// OnRebalanced is called after funds move between direct custody and the vault.
type OnRebalanced interface {
	Plugin
	OnRebalanced(ctx context.Context, payer string, toVault, toDirect uint64) error
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnJournalFlushed is called when buffered journal entries are flushed to the store.
type OnJournalFlushed interface {
	Plugin
	OnJournalFlushed(ctx context.Context, count int, elapsed time.Duration) error
}
