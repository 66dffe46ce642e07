package extension

import "time"

// Config holds the StreamLedger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.streamledger" or
// "streamledger" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Custody overrides the generated custody identity holding deposited
	// funds on the token side.
	Custody string `json:"custody" mapstructure:"custody" yaml:"custody"`

	// JournalBatchSize is the number of journal entries to buffer before
	// flushing to the store (default: 100).
	JournalBatchSize int `json:"journal_batch_size" mapstructure:"journal_batch_size" yaml:"journal_batch_size"`

	// JournalFlushInterval is how frequently the journal buffer is flushed
	// even if the batch size has not been reached (default: 5s).
	JournalFlushInterval time.Duration `json:"journal_flush_interval" mapstructure:"journal_flush_interval" yaml:"journal_flush_interval"`

	// VaultSplitPercent is the default share of each deposit placed in the
	// vault, 0..100. Only meaningful when a vault adapter is injected.
	VaultSplitPercent uint64 `json:"vault_split_percent" mapstructure:"vault_split_percent" yaml:"vault_split_percent"`

	// GroveDatabase is the name of a grove.DB registered in the DI container.
	// Recorded for operators wiring a SQL or Mongo store; the concrete store
	// is injected via WithStore.
	GroveDatabase string `json:"grove_database" mapstructure:"grove_database" yaml:"grove_database"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		JournalBatchSize:     100,
		JournalFlushInterval: 5 * time.Second,
	}
}
