package streamledger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xraph/streamledger/id"
	"github.com/xraph/streamledger/journal"
	"github.com/xraph/streamledger/plugin"
	"github.com/xraph/streamledger/store"
	"github.com/xraph/streamledger/token"
	"github.com/xraph/streamledger/vault"
)

// Ledger is the payment streaming engine. One instance manages the accounts
// and streams of a single (token, vault) pairing; the registry package hands
// out instances per key.
type Ledger struct {
	store   store.Store
	token   token.Transferor
	vault   vault.Adapter // nil for the baseline variant
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   Clock

	// custody is the identity holding all deposited funds on the token side.
	custody string

	// splitPercent is the default share of each deposit placed in the vault.
	splitPercent uint64

	// busy serializes mutating operations. The engine assumes the runtime
	// delivers operations one at a time; a concurrent or nested call is a
	// caller bug and is rejected rather than queued.
	busy atomic.Bool

	// Background workers
	journalBuffer chan *journal.Entry
	stopChan      chan struct{}
	wg            sync.WaitGroup

	// Configuration
	journalBatchSize     int
	journalFlushInterval time.Duration
}

// New creates a new Ledger instance.
func New(s store.Store, t token.Transferor, opts ...Option) *Ledger {
	l := &Ledger{
		store:                s,
		token:                t,
		plugins:              plugin.NewRegistry(),
		logger:               slog.Default(),
		clock:                wallClock{},
		custody:              id.NewLedgerID().String(),
		journalBuffer:        make(chan *journal.Entry, 10000),
		stopChan:             make(chan struct{}),
		journalBatchSize:     100,
		journalFlushInterval: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(l *Ledger) {
		l.clock = c
	}
}

// WithVault enables the yield variant: splitPercent of every deposit is
// placed in the vault (overridable per deposit via DepositSplit).
func WithVault(v vault.Adapter, splitPercent uint64) Option {
	return func(l *Ledger) {
		l.vault = v
		l.splitPercent = splitPercent
	}
}

// WithCustody overrides the generated custody identity.
func WithCustody(custody string) Option {
	return func(l *Ledger) {
		l.custody = custody
	}
}

// WithJournalConfig configures journal batching parameters.
func WithJournalConfig(batchSize int, flushInterval time.Duration) Option {
	return func(l *Ledger) {
		l.journalBatchSize = batchSize
		l.journalFlushInterval = flushInterval
	}
}

// Custody returns the identity holding deposited funds on the token side.
func (l *Ledger) Custody() string { return l.custody }

// Plugins returns the plugin registry.
func (l *Ledger) Plugins() *plugin.Registry { return l.plugins }

// Start begins background workers.
func (l *Ledger) Start(ctx context.Context) error {
	// Migrate database
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	// Initialize plugins
	l.plugins.EmitInit(ctx, l)

	// Start journal flush worker
	l.wg.Add(1)
	go l.journalFlushWorker(ctx)

	l.logger.Info("streamledger started",
		"custody", l.custody,
		"vault", l.vault != nil,
		"split_percent", l.splitPercent,
		"journal_batch_size", l.journalBatchSize,
		"journal_flush_interval", l.journalFlushInterval,
	)

	return nil
}

// Stop shuts down the Ledger.
func (l *Ledger) Stop() error {
	close(l.stopChan)
	l.wg.Wait()

	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Operation serialization
// ──────────────────────────────────────────────────

// begin claims the mutation guard. Read-only queries bypass it.
func (l *Ledger) begin() error {
	if !l.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

func (l *Ledger) end() {
	l.busy.Store(false)
}

// ──────────────────────────────────────────────────
// Journal
// ──────────────────────────────────────────────────

// record enqueues a journal entry (non-blocking). A full buffer drops the
// entry with a warning rather than stalling settlement.
func (l *Ledger) record(account, op string, amount uint64, streamID string) {
	entry := &journal.Entry{
		ID:        id.NewJournalID(),
		Account:   account,
		Op:        op,
		Amount:    amount,
		StreamID:  streamID,
		Timestamp: time.Unix(l.clock.Now(), 0).UTC(),
	}

	select {
	case l.journalBuffer <- entry:
	default:
		l.logger.Warn("journal buffer full, dropping entry",
			"account", account,
			"op", op,
		)
	}
}

// journalFlushWorker flushes journal entries to the store.
func (l *Ledger) journalFlushWorker(ctx context.Context) {
	defer l.wg.Done()

	batch := make([]*journal.Entry, 0, l.journalBatchSize)
	ticker := time.NewTicker(l.journalFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			// Drain anything still buffered, then final flush
			for {
				select {
				case entry := <-l.journalBuffer:
					batch = append(batch, entry)
					continue
				default:
				}
				break
			}
			if len(batch) > 0 {
				l.flushJournalBatch(ctx, batch)
			}
			return

		case entry := <-l.journalBuffer:
			batch = append(batch, entry)
			if len(batch) >= l.journalBatchSize {
				l.flushJournalBatch(ctx, batch)
				batch = make([]*journal.Entry, 0, l.journalBatchSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				l.flushJournalBatch(ctx, batch)
				batch = make([]*journal.Entry, 0, l.journalBatchSize)
			}
		}
	}
}

func (l *Ledger) flushJournalBatch(ctx context.Context, batch []*journal.Entry) {
	start := time.Now()

	if err := l.store.AppendJournal(ctx, batch); err != nil {
		l.logger.Error("failed to flush journal batch",
			"error", err,
			"batch_size", len(batch),
		)
		return
	}

	elapsed := time.Since(start)
	l.plugins.EmitJournalFlushed(ctx, len(batch), elapsed)

	l.logger.Debug("flushed journal batch",
		"batch_size", len(batch),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}
