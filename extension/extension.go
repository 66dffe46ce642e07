// Package extension provides the Forge extension adapter for StreamLedger.
//
// It implements the forge.Extension interface to integrate StreamLedger
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.streamledger" or
// "streamledger" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	streamledger "github.com/xraph/streamledger"
	"github.com/xraph/streamledger/store"
	"github.com/xraph/streamledger/store/memory"
	"github.com/xraph/streamledger/token"
	"github.com/xraph/streamledger/vault"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "streamledger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Continuous per-second payment streaming engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts StreamLedger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *streamledger.Ledger
	store      store.Store
	token      token.Transferor
	vault      vault.Adapter
	ledgerOpts []streamledger.Option
}

// New creates a new StreamLedger Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *streamledger.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory backends if nothing was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}
	if e.token == nil {
		e.token = token.NewBank()
	}

	// Build ledger options from resolved config.
	opts := e.buildLedgerOpts()

	eng := streamledger.New(e.store, e.token, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*streamledger.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("streamledger: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("streamledger: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedgerOpts constructs streamledger.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []streamledger.Option {
	opts := make([]streamledger.Option, 0, len(e.ledgerOpts)+3)

	// Apply config-derived options.
	if e.config.JournalBatchSize > 0 || e.config.JournalFlushInterval > 0 {
		batchSize := e.config.JournalBatchSize
		flushInterval := e.config.JournalFlushInterval
		defaults := DefaultConfig()
		if batchSize == 0 {
			batchSize = defaults.JournalBatchSize
		}
		if flushInterval == 0 {
			flushInterval = defaults.JournalFlushInterval
		}
		opts = append(opts, streamledger.WithJournalConfig(batchSize, flushInterval))
	}

	if e.config.Custody != "" {
		opts = append(opts, streamledger.WithCustody(e.config.Custody))
	}

	if e.vault != nil {
		opts = append(opts, streamledger.WithVault(e.vault, e.config.VaultSplitPercent))
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("streamledger: configuration is required but not found in config files; " +
				"ensure 'extensions.streamledger' or 'streamledger' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("streamledger: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("custody", e.config.Custody),
		forge.F("journal_batch_size", e.config.JournalBatchSize),
		forge.F("journal_flush_interval", e.config.JournalFlushInterval),
		forge.F("vault_split_percent", e.config.VaultSplitPercent),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.streamledger" first (namespaced pattern).
	if cm.IsSet("extensions.streamledger") {
		if err := cm.Bind("extensions.streamledger", &cfg); err == nil {
			e.Logger().Debug("streamledger: loaded config from file",
				forge.F("key", "extensions.streamledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("streamledger: failed to bind extensions.streamledger config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "streamledger" key.
	if cm.IsSet("streamledger") {
		if err := cm.Bind("streamledger", &cfg); err == nil {
			e.Logger().Debug("streamledger: loaded config from file",
				forge.F("key", "streamledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("streamledger: failed to bind streamledger config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.JournalBatchSize == 0 {
		cfg.JournalBatchSize = defaults.JournalBatchSize
	}
	if cfg.JournalFlushInterval == 0 {
		cfg.JournalFlushInterval = defaults.JournalFlushInterval
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Custody == "" && programmaticConfig.Custody != "" {
		yamlConfig.Custody = programmaticConfig.Custody
	}
	if yamlConfig.GroveDatabase == "" && programmaticConfig.GroveDatabase != "" {
		yamlConfig.GroveDatabase = programmaticConfig.GroveDatabase
	}

	// Duration/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.JournalBatchSize == 0 && programmaticConfig.JournalBatchSize != 0 {
		yamlConfig.JournalBatchSize = programmaticConfig.JournalBatchSize
	}
	if yamlConfig.JournalFlushInterval == 0 && programmaticConfig.JournalFlushInterval != 0 {
		yamlConfig.JournalFlushInterval = programmaticConfig.JournalFlushInterval
	}
	if yamlConfig.VaultSplitPercent == 0 && programmaticConfig.VaultSplitPercent != 0 {
		yamlConfig.VaultSplitPercent = programmaticConfig.VaultSplitPercent
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
