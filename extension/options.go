package extension

import (
	"time"

	streamledger "github.com/xraph/streamledger"
	"github.com/xraph/streamledger/plugin"
	"github.com/xraph/streamledger/store"
	"github.com/xraph/streamledger/token"
	"github.com/xraph/streamledger/vault"
)

// Option configures the StreamLedger Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithToken sets the token backend the ledger moves funds through.
func WithToken(t token.Transferor) Option {
	return func(e *Extension) {
		e.token = t
	}
}

// WithVault injects a vault adapter, enabling the yield variant.
func WithVault(v vault.Adapter) Option {
	return func(e *Extension) {
		e.vault = v
	}
}

// WithLedgerOption passes a streamledger.Option through to the underlying engine.
func WithLedgerOption(opt streamledger.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, streamledger.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithCustody overrides the generated custody identity.
func WithCustody(custody string) Option {
	return func(e *Extension) { e.config.Custody = custody }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithJournalBatchSize sets the number of journal entries to buffer before flushing.
func WithJournalBatchSize(size int) Option {
	return func(e *Extension) { e.config.JournalBatchSize = size }
}

// WithJournalFlushInterval sets how frequently the journal buffer is flushed.
func WithJournalFlushInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.JournalFlushInterval = d }
}

// WithVaultSplitPercent sets the default share of each deposit placed in the vault.
func WithVaultSplitPercent(percent uint64) Option {
	return func(e *Extension) { e.config.VaultSplitPercent = percent }
}
