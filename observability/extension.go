// Package observability provides a metrics extension for StreamLedger that
// records lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/streamledger/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin           = (*MetricsExtension)(nil)
	_ plugin.OnInit           = (*MetricsExtension)(nil)
	_ plugin.OnDeposit        = (*MetricsExtension)(nil)
	_ plugin.OnPayerWithdraw  = (*MetricsExtension)(nil)
	_ plugin.OnStreamCreated  = (*MetricsExtension)(nil)
	_ plugin.OnStreamCanceled = (*MetricsExtension)(nil)
	_ plugin.OnStreamModified = (*MetricsExtension)(nil)
	_ plugin.OnWithdraw       = (*MetricsExtension)(nil)
	_ plugin.OnSettled        = (*MetricsExtension)(nil)
	_ plugin.OnStarved        = (*MetricsExtension)(nil)
	_ plugin.OnYieldAccrued   = (*MetricsExtension)(nil)
	_ plugin.OnRebalanced     = (*MetricsExtension)(nil)
	_ plugin.OnJournalFlushed = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Ledger plugin to automatically track streaming metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Funding metrics
	Deposits         Counter
	DepositVolume    Histogram
	PayerWithdrawals Counter

	// Stream metrics
	StreamsCreated  Counter
	StreamsCanceled Counter
	StreamsModified Counter
	Withdrawals     Counter
	WithdrawVolume  Histogram

	// Settlement metrics
	SettledVolume  Histogram
	StarvedEvents  Counter
	YieldAccrued   Counter
	YieldVolume    Histogram
	RebalanceMoves Counter

	// Journal metrics
	JournalBatchSize    Histogram
	JournalFlushLatency Histogram
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Funding metrics
		Deposits:         factory.Counter("streamledger.deposit.count"),
		DepositVolume:    factory.Histogram("streamledger.deposit.amount"),
		PayerWithdrawals: factory.Counter("streamledger.payer_withdrawal.count"),

		// Stream metrics
		StreamsCreated:  factory.Counter("streamledger.stream.created"),
		StreamsCanceled: factory.Counter("streamledger.stream.canceled"),
		StreamsModified: factory.Counter("streamledger.stream.modified"),
		Withdrawals:     factory.Counter("streamledger.withdrawal.count"),
		WithdrawVolume:  factory.Histogram("streamledger.withdrawal.amount"),

		// Settlement metrics
		SettledVolume:  factory.Histogram("streamledger.settlement.streamed"),
		StarvedEvents:  factory.Counter("streamledger.settlement.starved"),
		YieldAccrued:   factory.Counter("streamledger.yield.count"),
		YieldVolume:    factory.Histogram("streamledger.yield.amount"),
		RebalanceMoves: factory.Counter("streamledger.rebalance.count"),

		// Journal metrics
		JournalBatchSize:    factory.Histogram("streamledger.journal.batch.size"),
		JournalFlushLatency: factory.Histogram("streamledger.journal.flush.latency_ms"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Funding hooks
// ──────────────────────────────────────────────────

// OnDeposit implements plugin.OnDeposit.
func (m *MetricsExtension) OnDeposit(_ context.Context, _ string, amount uint64) error {
	m.Deposits.Inc()
	m.DepositVolume.Observe(float64(amount))
	return nil
}

// OnPayerWithdraw implements plugin.OnPayerWithdraw.
func (m *MetricsExtension) OnPayerWithdraw(_ context.Context, _ string, _ uint64) error {
	m.PayerWithdrawals.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Stream lifecycle hooks
// ──────────────────────────────────────────────────

// OnStreamCreated implements plugin.OnStreamCreated.
func (m *MetricsExtension) OnStreamCreated(_ context.Context, _ interface{}) error {
	m.StreamsCreated.Inc()
	return nil
}

// OnStreamCanceled implements plugin.OnStreamCanceled.
func (m *MetricsExtension) OnStreamCanceled(_ context.Context, _ interface{}, _ uint64) error {
	m.StreamsCanceled.Inc()
	return nil
}

// OnStreamModified implements plugin.OnStreamModified.
func (m *MetricsExtension) OnStreamModified(_ context.Context, _ interface{}, _, _ uint64) error {
	m.StreamsModified.Inc()
	return nil
}

// OnWithdraw implements plugin.OnWithdraw.
func (m *MetricsExtension) OnWithdraw(_ context.Context, _, _ string, amount uint64) error {
	m.Withdrawals.Inc()
	m.WithdrawVolume.Observe(float64(amount))
	return nil
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnSettled implements plugin.OnSettled.
func (m *MetricsExtension) OnSettled(_ context.Context, _ string, streamed uint64, _ int64) error {
	m.SettledVolume.Observe(float64(streamed))
	return nil
}

// OnStarved implements plugin.OnStarved.
func (m *MetricsExtension) OnStarved(_ context.Context, _ string, _ int64) error {
	m.StarvedEvents.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Vault hooks
// ──────────────────────────────────────────────────

// OnYieldAccrued implements plugin.OnYieldAccrued.
func (m *MetricsExtension) OnYieldAccrued(_ context.Context, _ string, amount uint64) error {
	m.YieldAccrued.Inc()
	m.YieldVolume.Observe(float64(amount))
	return nil
}

// OnRebalanced implements plugin.OnRebalanced.
func (m *MetricsExtension) OnRebalanced(_ context.Context, _ string, _, _ uint64) error {
	m.RebalanceMoves.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnJournalFlushed implements plugin.OnJournalFlushed.
func (m *MetricsExtension) OnJournalFlushed(_ context.Context, count int, elapsed time.Duration) error {
	m.JournalBatchSize.Observe(float64(count))
	m.JournalFlushLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}
