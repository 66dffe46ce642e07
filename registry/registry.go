// Package registry manages a set of Ledger instances, one per
// (token, vault) pairing. A process that serves several token or vault
// backends creates each ledger once and looks it up by key thereafter.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	streamledger "github.com/xraph/streamledger"
)

// Registry errors.
var (
	ErrLedgerExists   = errors.New("registry: ledger already exists for key")
	ErrLedgerNotFound = errors.New("registry: ledger not found for key")
)

// Key identifies a ledger by its backing pair. Vault is empty for ledgers
// without yield placement.
type Key struct {
	Token string
	Vault string
}

// String renders the key in "token/vault" form.
func (k Key) String() string {
	if k.Vault == "" {
		return k.Token
	}
	return k.Token + "/" + k.Vault
}

// Registry holds started ledger instances keyed by backing pair.
type Registry struct {
	mu      sync.RWMutex
	ledgers map[Key]*streamledger.Ledger
	logger  *slog.Logger
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		ledgers: make(map[Key]*streamledger.Ledger),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// Create starts the ledger and registers it under the key. A second create
// for the same key fails; the first instance stays registered.
func (r *Registry) Create(ctx context.Context, key Key, l *streamledger.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ledgers[key]; ok {
		return fmt.Errorf("%w: %s", ErrLedgerExists, key)
	}

	if err := l.Start(ctx); err != nil {
		return fmt.Errorf("registry: start ledger %s: %w", key, err)
	}

	r.ledgers[key] = l
	r.logger.Info("ledger registered", "key", key.String())
	return nil
}

// Lookup returns the ledger registered under the key.
func (r *Registry) Lookup(key Key) (*streamledger.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.ledgers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLedgerNotFound, key)
	}
	return l, nil
}

// List returns the registered keys in stable order.
func (r *Registry) List() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]Key, 0, len(r.ledgers))
	for k := range r.ledgers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// CloseAll stops every registered ledger and empties the registry,
// returning the joined stop errors.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for key, l := range r.ledgers {
		if err := l.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("registry: stop ledger %s: %w", key, err))
		}
		delete(r.ledgers, key)
	}
	return errors.Join(errs...)
}
