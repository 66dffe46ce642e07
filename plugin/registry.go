package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit           []OnInit
	onShutdown       []OnShutdown
	onDeposit        []OnDeposit
	onPayerWithdraw  []OnPayerWithdraw
	onStreamCreated  []OnStreamCreated
	onStreamCanceled []OnStreamCanceled
	onStreamModified []OnStreamModified
	onWithdraw       []OnWithdraw
	onSettled        []OnSettled
	onStarved        []OnStarved
	onYieldAccrued   []OnYieldAccrued
	onRebalanced     []OnRebalanced
	onJournalFlushed []OnJournalFlushed
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnDeposit); ok {
		r.onDeposit = append(r.onDeposit, v)
	}
	if v, ok := p.(OnPayerWithdraw); ok {
		r.onPayerWithdraw = append(r.onPayerWithdraw, v)
	}
	if v, ok := p.(OnStreamCreated); ok {
		r.onStreamCreated = append(r.onStreamCreated, v)
	}
	if v, ok := p.(OnStreamCanceled); ok {
		r.onStreamCanceled = append(r.onStreamCanceled, v)
	}
	if v, ok := p.(OnStreamModified); ok {
		r.onStreamModified = append(r.onStreamModified, v)
	}
	if v, ok := p.(OnWithdraw); ok {
		r.onWithdraw = append(r.onWithdraw, v)
	}
	if v, ok := p.(OnSettled); ok {
		r.onSettled = append(r.onSettled, v)
	}
	if v, ok := p.(OnStarved); ok {
		r.onStarved = append(r.onStarved, v)
	}
	if v, ok := p.(OnYieldAccrued); ok {
		r.onYieldAccrued = append(r.onYieldAccrued, v)
	}
	if v, ok := p.(OnRebalanced); ok {
		r.onRebalanced = append(r.onRebalanced, v)
	}
	if v, ok := p.(OnJournalFlushed); ok {
		r.onJournalFlushed = append(r.onJournalFlushed, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnDeposit)(nil)).Elem(), "OnDeposit")
	checkInterface(reflect.TypeOf((*OnPayerWithdraw)(nil)).Elem(), "OnPayerWithdraw")
	checkInterface(reflect.TypeOf((*OnStreamCreated)(nil)).Elem(), "OnStreamCreated")
	checkInterface(reflect.TypeOf((*OnStreamCanceled)(nil)).Elem(), "OnStreamCanceled")
	checkInterface(reflect.TypeOf((*OnStreamModified)(nil)).Elem(), "OnStreamModified")
	checkInterface(reflect.TypeOf((*OnWithdraw)(nil)).Elem(), "OnWithdraw")
	checkInterface(reflect.TypeOf((*OnSettled)(nil)).Elem(), "OnSettled")
	checkInterface(reflect.TypeOf((*OnStarved)(nil)).Elem(), "OnStarved")
	checkInterface(reflect.TypeOf((*OnYieldAccrued)(nil)).Elem(), "OnYieldAccrued")
	checkInterface(reflect.TypeOf((*OnRebalanced)(nil)).Elem(), "OnRebalanced")
	checkInterface(reflect.TypeOf((*OnJournalFlushed)(nil)).Elem(), "OnJournalFlushed")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, ledger)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitDeposit emits a deposit event.
func (r *Registry) EmitDeposit(ctx context.Context, payer string, amount uint64) {
	r.mu.RLock()
	plugins := r.onDeposit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnDeposit(ctx, payer, amount)
		}); err != nil {
			r.logger.Warn("plugin OnDeposit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPayerWithdraw emits a payer withdrawal event.
func (r *Registry) EmitPayerWithdraw(ctx context.Context, payer string, amount uint64) {
	r.mu.RLock()
	plugins := r.onPayerWithdraw
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPayerWithdraw(ctx, payer, amount)
		}); err != nil {
			r.logger.Warn("plugin OnPayerWithdraw failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStreamCreated emits a stream created event.
func (r *Registry) EmitStreamCreated(ctx context.Context, stream interface{}) {
	r.mu.RLock()
	plugins := r.onStreamCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStreamCreated(ctx, stream)
		}); err != nil {
			r.logger.Warn("plugin OnStreamCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStreamCanceled emits a stream canceled event.
func (r *Registry) EmitStreamCanceled(ctx context.Context, stream interface{}, settled uint64) {
	r.mu.RLock()
	plugins := r.onStreamCanceled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStreamCanceled(ctx, stream, settled)
		}); err != nil {
			r.logger.Warn("plugin OnStreamCanceled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStreamModified emits a stream modified event.
func (r *Registry) EmitStreamModified(ctx context.Context, stream interface{}, oldRate, newRate uint64) {
	r.mu.RLock()
	plugins := r.onStreamModified
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStreamModified(ctx, stream, oldRate, newRate)
		}); err != nil {
			r.logger.Warn("plugin OnStreamModified failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitWithdraw emits a payee withdrawal event.
func (r *Registry) EmitWithdraw(ctx context.Context, payer, payee string, amount uint64) {
	r.mu.RLock()
	plugins := r.onWithdraw
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnWithdraw(ctx, payer, payee, amount)
		}); err != nil {
			r.logger.Warn("plugin OnWithdraw failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSettled emits a settlement event.
func (r *Registry) EmitSettled(ctx context.Context, payer string, streamed uint64, upTo int64) {
	r.mu.RLock()
	plugins := r.onSettled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSettled(ctx, payer, streamed, upTo)
		}); err != nil {
			r.logger.Warn("plugin OnSettled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStarved emits a settlement starvation event.
func (r *Registry) EmitStarved(ctx context.Context, payer string, coveredUntil int64) {
	r.mu.RLock()
	plugins := r.onStarved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStarved(ctx, payer, coveredUntil)
		}); err != nil {
			r.logger.Warn("plugin OnStarved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitYieldAccrued emits a yield accrual event.
func (r *Registry) EmitYieldAccrued(ctx context.Context, payer string, amount uint64) {
	r.mu.RLock()
	plugins := r.onYieldAccrued
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnYieldAccrued(ctx, payer, amount)
		}); err != nil {
			r.logger.Warn("plugin OnYieldAccrued failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRebalanced emits a rebalance event.
func (r *Registry) EmitRebalanced(ctx context.Context, payer string, toVault, toDirect uint64) {
	r.mu.RLock()
	plugins := r.onRebalanced
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRebalanced(ctx, payer, toVault, toDirect)
		}); err != nil {
			r.logger.Warn("plugin OnRebalanced failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitJournalFlushed emits a journal flushed event.
func (r *Registry) EmitJournalFlushed(ctx context.Context, count int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onJournalFlushed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnJournalFlushed(ctx, count, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnJournalFlushed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the settlement pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
