package streamledger

import (
	"context"
	"fmt"

	"github.com/xraph/streamledger/account"
	"github.com/xraph/streamledger/journal"
	"github.com/xraph/streamledger/stream"
	"github.com/xraph/streamledger/types"
)

// ──────────────────────────────────────────────────
// Deposits
// ──────────────────────────────────────────────────

// Deposit moves amount from the payer to ledger custody and credits the
// payer's principal, splitting between direct balance and the vault per the
// ledger's configured split. Creates the account on first deposit.
func (l *Ledger) Deposit(ctx context.Context, payer string, amount uint64) error {
	return l.DepositSplit(ctx, payer, amount, l.splitPercent)
}

// DepositSplit is Deposit with an explicit vault split for this call:
// percentToVault of the amount is placed in the vault, the rest stays
// directly held. Values outside 0..100 are rejected.
func (l *Ledger) DepositSplit(ctx context.Context, payer string, amount, percentToVault uint64) error {
	if err := l.begin(); err != nil {
		return err
	}
	defer l.end()

	if payer == "" {
		return fmt.Errorf("%w: payer is required", ErrInvalidInput)
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if percentToVault > 100 {
		return ErrInvalidRatio
	}
	if percentToVault > 0 && l.vault == nil {
		return ErrVaultNotConfigured
	}

	acc, err := l.loadOrCreateAccount(ctx, payer)
	if err != nil {
		return err
	}

	price, err := l.samplePrice(ctx)
	if err != nil {
		return err
	}

	res, err := l.settle(acc, l.clock.Now(), price)
	if err != nil {
		return err
	}

	principal, err := types.CheckedAdd(acc.Principal, amount)
	if err != nil {
		return fmt.Errorf("deposit for %q: %w", payer, ErrAmountOverflow)
	}

	// Move the tokens before touching state; a failed transfer leaves the
	// account exactly as it was.
	if err := l.token.Transfer(ctx, payer, l.custody, amount); err != nil {
		return fmt.Errorf("%w: deposit transfer: %w", ErrTransferFailed, err)
	}

	acc.Principal = principal

	vaultPortion, err := types.MulDiv(amount, percentToVault, 100)
	if err != nil {
		return fmt.Errorf("deposit for %q: %w", payer, ErrAmountOverflow)
	}
	if vaultPortion > 0 {
		shares, err := l.vault.Deposit(ctx, vaultPortion)
		if err != nil {
			return fmt.Errorf("%w: vault deposit: %w", ErrTransferFailed, err)
		}
		vs, err := types.CheckedAdd(acc.VaultShares, shares)
		if err != nil {
			return fmt.Errorf("deposit for %q: %w", payer, ErrAmountOverflow)
		}
		acc.VaultShares = vs
	}
	direct, err := types.CheckedAdd(acc.DirectBalance, amount-vaultPortion)
	if err != nil {
		return fmt.Errorf("deposit for %q: %w", payer, ErrAmountOverflow)
	}
	acc.DirectBalance = direct

	if err := l.store.UpsertAccount(ctx, acc); err != nil {
		return err
	}

	l.record(payer, journal.OpDeposit, amount, "")
	l.emitSettled(ctx, acc, res)
	l.plugins.EmitDeposit(ctx, payer, amount)

	l.logger.Debug("deposit accepted",
		"payer", payer,
		"amount", amount,
		"to_vault", vaultPortion,
	)
	return nil
}

// ──────────────────────────────────────────────────
// Streams
// ──────────────────────────────────────────────────

// CreateStream opens a continuous payment from payer to payee at rate token
// units per second, returning the stream's deterministic identity. The
// payer's account must already exist; the stream starts accruing at the
// payer's post-settlement clock.
func (l *Ledger) CreateStream(ctx context.Context, payer, payee string, rate uint64) (stream.ID, error) {
	var zero stream.ID

	if err := l.begin(); err != nil {
		return zero, err
	}
	defer l.end()

	if payee == "" || payee == payer {
		return zero, fmt.Errorf("%w: payee must be a distinct identity", ErrInvalidInput)
	}
	if !stream.ValidRate(rate) {
		return zero, ErrInvalidRate
	}

	acc, err := l.loadAccount(ctx, payer)
	if err != nil {
		return zero, err
	}

	price, err := l.samplePrice(ctx)
	if err != nil {
		return zero, err
	}

	res, err := l.settle(acc, l.clock.Now(), price)
	if err != nil {
		return zero, err
	}

	sid := stream.DeriveID(payer, payee, rate)
	if existing, err := l.store.GetStream(ctx, sid); err == nil && existing.Active() {
		return zero, ErrStreamAlreadyExists
	} else if err != nil && !IsNotFound(err) {
		return zero, err
	}

	aggregate, err := types.CheckedAdd(acc.RatePerSecond, rate)
	if err != nil || aggregate > stream.MaxRate {
		return zero, ErrInvalidRate
	}
	acc.RatePerSecond = aggregate

	// The stream anchors to the payer's settled clock, not wall time. On a
	// starved account that clock is parked in the past, so a later top-up
	// retroactively accrues to this payee for seconds before the stream was
	// opened, the same way existing streams catch up.
	st := stream.New(payer, payee, rate, acc.LastUpdate)

	if err := l.store.UpsertAccount(ctx, acc); err != nil {
		return zero, err
	}
	if err := l.store.UpsertStream(ctx, st); err != nil {
		return zero, err
	}

	l.record(payer, journal.OpStreamCreated, rate, sid.String())
	l.emitSettled(ctx, acc, res)
	l.plugins.EmitStreamCreated(ctx, st)

	l.logger.Info("stream created",
		"payer", payer,
		"payee", payee,
		"rate", rate,
		"stream_id", sid.String(),
	)
	return sid, nil
}

// Withdraw settles the stream's payer and pays the payee everything accrued
// on the stream since its start (or last withdrawal). Returns the amount
// released to the payee, which may be zero when nothing has accrued yet.
func (l *Ledger) Withdraw(ctx context.Context, sid stream.ID) (uint64, error) {
	if err := l.begin(); err != nil {
		return 0, err
	}
	defer l.end()

	st, acc, price, res, err := l.settleStream(ctx, sid)
	if err != nil {
		return 0, err
	}

	released, err := l.payoutStream(ctx, st, acc, price)
	if err != nil {
		return 0, err
	}

	next := st.Clone()
	next.StartTime = acc.LastUpdate
	next.Touch()

	if err := l.store.UpsertAccount(ctx, acc); err != nil {
		return 0, err
	}
	if err := l.store.UpsertStream(ctx, next); err != nil {
		return 0, err
	}

	l.record(st.Payer, journal.OpWithdraw, released, sid.String())
	l.emitSettled(ctx, acc, res)
	l.plugins.EmitWithdraw(ctx, st.Payer, st.Payee, released)

	l.logger.Debug("stream withdrawal",
		"payer", st.Payer,
		"payee", st.Payee,
		"amount", released,
		"stream_id", sid.String(),
	)
	return released, nil
}

// CancelStream pays out everything accrued on the stream, then deactivates
// it and removes its rate from the payer's aggregate. The same
// (payer, payee, rate) triple can be opened again afterwards. Returns the
// final payout.
func (l *Ledger) CancelStream(ctx context.Context, sid stream.ID) (uint64, error) {
	if err := l.begin(); err != nil {
		return 0, err
	}
	defer l.end()

	st, acc, price, res, err := l.settleStream(ctx, sid)
	if err != nil {
		return 0, err
	}

	released, err := l.payoutStream(ctx, st, acc, price)
	if err != nil {
		return 0, err
	}

	closed := st.Clone()
	closed.StartTime = 0
	closed.Touch()
	acc.RatePerSecond = subtractRate(acc.RatePerSecond, st.Rate)

	if err := l.store.UpsertAccount(ctx, acc); err != nil {
		return 0, err
	}
	if err := l.store.UpsertStream(ctx, closed); err != nil {
		return 0, err
	}

	l.record(st.Payer, journal.OpStreamCanceled, released, sid.String())
	l.emitSettled(ctx, acc, res)
	l.plugins.EmitStreamCanceled(ctx, closed, released)

	l.logger.Info("stream canceled",
		"payer", st.Payer,
		"payee", st.Payee,
		"settled", released,
		"stream_id", sid.String(),
	)
	return released, nil
}

// ModifyStream atomically replaces the stream's payee and rate: the old
// stream is settled, paid out, and closed, and a new stream to newPayee at
// newRate opens in the same breath. Either both legs land or neither does.
// Returns the identity of the replacement stream (payee and rate are part
// of stream identity, so it differs from the old one).
func (l *Ledger) ModifyStream(ctx context.Context, sid stream.ID, newPayee string, newRate uint64) (stream.ID, error) {
	var zero stream.ID

	if err := l.begin(); err != nil {
		return zero, err
	}
	defer l.end()

	if !stream.ValidRate(newRate) {
		return zero, ErrInvalidRate
	}

	st, acc, price, res, err := l.settleStream(ctx, sid)
	if err != nil {
		return zero, err
	}

	if newPayee == "" || newPayee == st.Payer {
		return zero, fmt.Errorf("%w: payee must be a distinct identity", ErrInvalidInput)
	}

	// Validate the create leg before the cancel leg moves any tokens, so a
	// rejected replacement leaves the old stream fully intact.
	newSid := stream.DeriveID(st.Payer, newPayee, newRate)
	if newSid != sid {
		if existing, err := l.store.GetStream(ctx, newSid); err == nil && existing.Active() {
			return zero, ErrStreamAlreadyExists
		} else if err != nil && !IsNotFound(err) {
			return zero, err
		}
	}

	remaining := subtractRate(acc.RatePerSecond, st.Rate)
	aggregate, err := types.CheckedAdd(remaining, newRate)
	if err != nil || aggregate > stream.MaxRate {
		return zero, ErrInvalidRate
	}

	released, err := l.payoutStream(ctx, st, acc, price)
	if err != nil {
		return zero, err
	}

	closed := st.Clone()
	closed.StartTime = 0
	closed.Touch()
	acc.RatePerSecond = aggregate

	next := stream.New(st.Payer, newPayee, newRate, acc.LastUpdate)

	if err := l.store.UpsertAccount(ctx, acc); err != nil {
		return zero, err
	}
	if err := l.store.UpsertStream(ctx, closed); err != nil {
		return zero, err
	}
	if err := l.store.UpsertStream(ctx, next); err != nil {
		return zero, err
	}

	l.record(st.Payer, journal.OpStreamModified, newRate, newSid.String())
	l.emitSettled(ctx, acc, res)
	l.plugins.EmitStreamModified(ctx, next, st.Rate, newRate)

	l.logger.Info("stream modified",
		"payer", st.Payer,
		"old_payee", st.Payee,
		"new_payee", newPayee,
		"old_rate", st.Rate,
		"new_rate", newRate,
		"settled", released,
		"stream_id", newSid.String(),
	)
	return newSid, nil
}

// ──────────────────────────────────────────────────
// Payer withdrawals and rebalancing
// ──────────────────────────────────────────────────

// WithdrawPayer returns amount of the payer's unstreamed principal to the
// payer. The account is settled first, so everything already owed to open
// streams stays committed; only principal beyond that is reclaimable.
func (l *Ledger) WithdrawPayer(ctx context.Context, payer string, amount uint64) error {
	if err := l.begin(); err != nil {
		return err
	}
	defer l.end()

	if amount == 0 {
		return ErrInvalidAmount
	}

	acc, err := l.loadAccount(ctx, payer)
	if err != nil {
		return err
	}

	price, err := l.samplePrice(ctx)
	if err != nil {
		return err
	}

	res, err := l.settle(acc, l.clock.Now(), price)
	if err != nil {
		return err
	}

	effective, err := acc.EffectiveBalance(price)
	if err != nil {
		return fmt.Errorf("withdraw for %q: %w", payer, ErrAmountOverflow)
	}
	if amount > effective || amount > acc.Principal {
		return ErrInsufficientFunds
	}

	acc.Principal -= amount

	fromVault, err := l.withdrawCombined(ctx, acc, amount, price)
	if err != nil {
		return err
	}

	if err := l.token.Transfer(ctx, l.custody, payer, amount); err != nil {
		l.restoreVault(ctx, fromVault)
		return fmt.Errorf("%w: payer withdrawal transfer: %w", ErrTransferFailed, err)
	}

	if err := l.store.UpsertAccount(ctx, acc); err != nil {
		return err
	}

	l.record(payer, journal.OpPayerWithdraw, amount, "")
	l.emitSettled(ctx, acc, res)
	l.plugins.EmitPayerWithdraw(ctx, payer, amount)

	l.logger.Info("payer withdrawal",
		"payer", payer,
		"amount", amount,
	)
	return nil
}

// Rebalance shifts the payer's custody between direct balance and the vault
// until the vault holds targetRatioPercent of the account's total value.
// The account is settled first at the fresh price.
func (l *Ledger) Rebalance(ctx context.Context, payer string, targetRatioPercent uint64) error {
	if err := l.begin(); err != nil {
		return err
	}
	defer l.end()

	if targetRatioPercent > 100 {
		return ErrInvalidRatio
	}
	if l.vault == nil {
		return ErrVaultNotConfigured
	}

	acc, err := l.loadAccount(ctx, payer)
	if err != nil {
		return err
	}

	price, err := l.samplePrice(ctx)
	if err != nil {
		return err
	}

	res, err := l.settle(acc, l.clock.Now(), price)
	if err != nil {
		return err
	}

	vaultValue, err := price.Underlying(acc.VaultShares)
	if err != nil {
		return fmt.Errorf("rebalance for %q: %w", payer, ErrAmountOverflow)
	}
	total, err := types.CheckedAdd(acc.DirectBalance, vaultValue)
	if err != nil {
		return fmt.Errorf("rebalance for %q: %w", payer, ErrAmountOverflow)
	}

	var toVault, toDirect uint64
	if total > 0 {
		targetVault, err := types.MulDiv(total, targetRatioPercent, 100)
		if err != nil {
			return fmt.Errorf("rebalance for %q: %w", payer, ErrAmountOverflow)
		}

		switch {
		case targetVault > vaultValue:
			toVault = targetVault - vaultValue
			if toVault > acc.DirectBalance {
				toVault = acc.DirectBalance
			}
			if toVault > 0 {
				shares, err := l.vault.Deposit(ctx, toVault)
				if err != nil {
					return fmt.Errorf("%w: vault deposit: %w", ErrTransferFailed, err)
				}
				vs, err := types.CheckedAdd(acc.VaultShares, shares)
				if err != nil {
					return fmt.Errorf("rebalance for %q: %w", payer, ErrAmountOverflow)
				}
				acc.DirectBalance -= toVault
				acc.VaultShares = vs
			}
		case vaultValue > targetVault:
			want := vaultValue - targetVault
			redeemed, err := l.redeemFromVault(ctx, acc, want, price)
			if err != nil {
				return err
			}
			direct, err := types.CheckedAdd(acc.DirectBalance, redeemed)
			if err != nil {
				return fmt.Errorf("rebalance for %q: %w", payer, ErrAmountOverflow)
			}
			acc.DirectBalance = direct
			toDirect = redeemed
		}
	}

	if err := l.store.UpsertAccount(ctx, acc); err != nil {
		return err
	}

	l.record(payer, journal.OpRebalance, toVault+toDirect, "")
	l.emitSettled(ctx, acc, res)
	l.plugins.EmitRebalanced(ctx, payer, toVault, toDirect)

	l.logger.Debug("rebalanced",
		"payer", payer,
		"to_vault", toVault,
		"to_direct", toDirect,
		"target_percent", targetRatioPercent,
	)
	return nil
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

// EffectiveBalance reports the payer's current withdrawable value as of now,
// after a read-only settlement pass. Nothing is persisted; the stored
// account is untouched.
func (l *Ledger) EffectiveBalance(ctx context.Context, payer string) (uint64, error) {
	acc, err := l.loadAccount(ctx, payer)
	if err != nil {
		return 0, err
	}

	price, err := l.samplePrice(ctx)
	if err != nil {
		return 0, err
	}

	if _, err := l.settle(acc, l.clock.Now(), price); err != nil {
		return 0, err
	}

	return acc.EffectiveBalance(price)
}

// StreamID derives the deterministic identity of the (payer, payee, rate)
// triple without touching storage.
func (l *Ledger) StreamID(payer, payee string, rate uint64) stream.ID {
	return stream.DeriveID(payer, payee, rate)
}

// Account returns the stored account for an owner.
func (l *Ledger) Account(ctx context.Context, owner string) (*account.Account, error) {
	return l.loadAccount(ctx, owner)
}

// Stream returns the stored stream for an identity.
func (l *Ledger) Stream(ctx context.Context, sid stream.ID) (*stream.Stream, error) {
	return l.store.GetStream(ctx, sid)
}

// Streams lists a payer's streams.
func (l *Ledger) Streams(ctx context.Context, payer string, opts stream.ListOpts) ([]*stream.Stream, error) {
	return l.store.ListStreams(ctx, payer, opts)
}

// Journal queries the operation log for an account.
func (l *Ledger) Journal(ctx context.Context, acct string, opts journal.QueryOpts) ([]*journal.Entry, error) {
	return l.store.QueryJournal(ctx, acct, opts)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

func (l *Ledger) loadAccount(ctx context.Context, owner string) (*account.Account, error) {
	acc, err := l.store.GetAccount(ctx, owner)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (l *Ledger) loadOrCreateAccount(ctx context.Context, owner string) (*account.Account, error) {
	acc, err := l.store.GetAccount(ctx, owner)
	if err == nil {
		return acc, nil
	}
	if IsNotFound(err) {
		return account.New(owner), nil
	}
	return nil, err
}

// settleStream resolves an active stream, loads its payer, and runs a
// settlement pass at the fresh price. Shared by the stream mutations.
func (l *Ledger) settleStream(ctx context.Context, sid stream.ID) (*stream.Stream, *account.Account, types.Price, *settleResult, error) {
	st, err := l.store.GetStream(ctx, sid)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil, 0, nil, ErrStreamNotFound
		}
		return nil, nil, 0, nil, err
	}
	if !st.Active() {
		return nil, nil, 0, nil, ErrStreamNotFound
	}

	acc, err := l.loadAccount(ctx, st.Payer)
	if err != nil {
		return nil, nil, 0, nil, err
	}

	price, err := l.samplePrice(ctx)
	if err != nil {
		return nil, nil, 0, nil, err
	}

	res, err := l.settle(acc, l.clock.Now(), price)
	if err != nil {
		return nil, nil, 0, nil, err
	}

	return st, acc, price, res, nil
}

// payoutStream pays the stream's payee everything accrued between the
// stream's start and the payer's settled clock, drawing custody and moving
// tokens. Mutates acc; the caller persists.
func (l *Ledger) payoutStream(ctx context.Context, st *stream.Stream, acc *account.Account, price types.Price) (uint64, error) {
	elapsed := acc.LastUpdate - st.StartTime
	if elapsed <= 0 {
		return 0, nil
	}

	owed, err := types.CheckedMul(uint64(elapsed), st.Rate)
	if err != nil {
		return 0, fmt.Errorf("payout %q: %w", st.ID.String(), ErrAmountOverflow)
	}
	if owed == 0 {
		return 0, nil
	}

	// Settlement already moved this into paidBalance; anything less means
	// the books are inconsistent.
	if owed > acc.PaidBalance {
		return 0, fmt.Errorf("%w: paid balance %d short of accrued %d", ErrInsufficientFunds, acc.PaidBalance, owed)
	}
	acc.PaidBalance -= owed

	fromVault, err := l.withdrawCombined(ctx, acc, owed, price)
	if err != nil {
		return 0, err
	}

	if err := l.token.Transfer(ctx, l.custody, st.Payee, owed); err != nil {
		l.restoreVault(ctx, fromVault)
		return 0, fmt.Errorf("%w: payee transfer: %w", ErrTransferFailed, err)
	}

	return owed, nil
}

// subtractRate removes a stream's rate from the aggregate, clamping at zero
// rather than wrapping if the books ever disagree.
func subtractRate(aggregate, rate uint64) uint64 {
	if rate >= aggregate {
		return 0
	}
	return aggregate - rate
}
