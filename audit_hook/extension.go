// Package audithook bridges StreamLedger lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/streamledger/plugin"
	"github.com/xraph/streamledger/stream"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin           = (*Extension)(nil)
	_ plugin.OnDeposit        = (*Extension)(nil)
	_ plugin.OnPayerWithdraw  = (*Extension)(nil)
	_ plugin.OnStreamCreated  = (*Extension)(nil)
	_ plugin.OnStreamCanceled = (*Extension)(nil)
	_ plugin.OnStreamModified = (*Extension)(nil)
	_ plugin.OnWithdraw       = (*Extension)(nil)
	_ plugin.OnStarved        = (*Extension)(nil)
	_ plugin.OnYieldAccrued   = (*Extension)(nil)
	_ plugin.OnRebalanced     = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges StreamLedger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Funding hooks
// ──────────────────────────────────────────────────

// OnDeposit implements plugin.OnDeposit.
func (e *Extension) OnDeposit(ctx context.Context, payer string, amount uint64) error {
	return e.record(ctx, ActionDeposit, SeverityInfo, OutcomeSuccess,
		ResourceAccount, payer, CategoryFunding, nil,
		"payer", payer,
		"amount", amount,
	)
}

// OnPayerWithdraw implements plugin.OnPayerWithdraw.
func (e *Extension) OnPayerWithdraw(ctx context.Context, payer string, amount uint64) error {
	return e.record(ctx, ActionPayerWithdrawal, SeverityInfo, OutcomeSuccess,
		ResourceAccount, payer, CategoryFunding, nil,
		"payer", payer,
		"amount", amount,
	)
}

// ──────────────────────────────────────────────────
// Stream lifecycle hooks
// ──────────────────────────────────────────────────

// OnStreamCreated implements plugin.OnStreamCreated.
func (e *Extension) OnStreamCreated(ctx context.Context, s interface{}) error {
	id, kvs := streamFields(s)
	return e.record(ctx, ActionStreamCreated, SeverityInfo, OutcomeSuccess,
		ResourceStream, id, CategoryStreaming, nil, kvs...)
}

// OnStreamCanceled implements plugin.OnStreamCanceled.
func (e *Extension) OnStreamCanceled(ctx context.Context, s interface{}, settled uint64) error {
	id, kvs := streamFields(s)
	kvs = append(kvs, "settled", settled)
	return e.record(ctx, ActionStreamCanceled, SeverityInfo, OutcomeSuccess,
		ResourceStream, id, CategoryStreaming, nil, kvs...)
}

// OnStreamModified implements plugin.OnStreamModified.
func (e *Extension) OnStreamModified(ctx context.Context, s interface{}, oldRate, newRate uint64) error {
	id, kvs := streamFields(s)
	kvs = append(kvs, "old_rate", oldRate, "new_rate", newRate)
	return e.record(ctx, ActionStreamModified, SeverityInfo, OutcomeSuccess,
		ResourceStream, id, CategoryStreaming, nil, kvs...)
}

// OnWithdraw implements plugin.OnWithdraw.
func (e *Extension) OnWithdraw(ctx context.Context, payer, payee string, amount uint64) error {
	return e.record(ctx, ActionWithdrawal, SeverityInfo, OutcomeSuccess,
		ResourceStream, "", CategoryStreaming, nil,
		"payer", payer,
		"payee", payee,
		"amount", amount,
	)
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnStarved implements plugin.OnStarved.
func (e *Extension) OnStarved(ctx context.Context, payer string, coveredUntil int64) error {
	return e.record(ctx, ActionStarved, SeverityWarning, OutcomePartial,
		ResourceAccount, payer, CategoryStreaming, nil,
		"payer", payer,
		"covered_until", coveredUntil,
	)
}

// ──────────────────────────────────────────────────
// Vault hooks
// ──────────────────────────────────────────────────

// OnYieldAccrued implements plugin.OnYieldAccrued.
func (e *Extension) OnYieldAccrued(ctx context.Context, payer string, amount uint64) error {
	return e.record(ctx, ActionYieldAccrued, SeverityInfo, OutcomeSuccess,
		ResourceVault, payer, CategoryYield, nil,
		"payer", payer,
		"amount", amount,
	)
}

// OnRebalanced implements plugin.OnRebalanced.
func (e *Extension) OnRebalanced(ctx context.Context, payer string, toVault, toDirect uint64) error {
	return e.record(ctx, ActionRebalance, SeverityInfo, OutcomeSuccess,
		ResourceVault, payer, CategoryYield, nil,
		"payer", payer,
		"to_vault", toVault,
		"to_direct", toDirect,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// streamFields extracts identifying metadata from the opaque stream value
// handed through the plugin hooks.
func streamFields(s interface{}) (string, []any) {
	st, ok := s.(*stream.Stream)
	if !ok {
		return "", nil
	}
	return st.ID.String(), []any{
		"payer", st.Payer,
		"payee", st.Payee,
		"rate", st.Rate,
	}
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
