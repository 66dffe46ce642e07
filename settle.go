package streamledger

import (
	"context"
	"fmt"

	"github.com/xraph/streamledger/account"
	"github.com/xraph/streamledger/journal"
	"github.com/xraph/streamledger/types"
)

// settleResult summarizes one settlement pass over an account.
type settleResult struct {
	// streamed is the amount moved from principal into paidBalance.
	streamed uint64

	// yield is vault appreciation credited to paidBalance.
	yield uint64

	// starved reports that principal ran out before covering the full
	// elapsed window; coveredUntil is how far lastUpdate advanced.
	starved      bool
	coveredUntil int64
}

// settle brings the account's accrual current as of now. It mutates acc in
// place; callers work on a clone and persist only on success.
//
// With a vault configured, price is the freshly sampled per-share price and
// yield reconciliation runs after the baseline accrual. Appreciation since
// the last snapshot rescales the remaining principal and credits paid
// balances; depreciation is deliberately not written down — the snapshot
// stays at the high-water mark and the gap closes only if price recovers.
func (l *Ledger) settle(acc *account.Account, now int64, price types.Price) (*settleResult, error) {
	res := &settleResult{}

	if acc.LastUpdate == 0 {
		// First touch: anchor the clock, sample the price, accrue nothing.
		acc.LastUpdate = now
		if !price.IsZero() {
			acc.LastPrice = price
		}
		return res, nil
	}

	elapsed := now - acc.LastUpdate
	if elapsed < 0 {
		elapsed = 0
	}

	owed, err := types.CheckedMul(uint64(elapsed), acc.RatePerSecond)
	if err != nil {
		return nil, fmt.Errorf("settle %q: %w", acc.Owner, ErrAmountOverflow)
	}

	if owed > acc.Principal {
		// Principal covers only part of the window: advance lastUpdate by
		// the covered seconds and leave the sub-rate remainder unconsumed.
		// The account starves (accrues nothing further) until topped up.
		timeCovered := int64(acc.Principal / acc.RatePerSecond)
		owed = uint64(timeCovered) * acc.RatePerSecond
		acc.LastUpdate += timeCovered
		res.starved = true
		res.coveredUntil = acc.LastUpdate
	} else {
		acc.LastUpdate = now
	}

	acc.Principal -= owed
	res.streamed = owed

	if price.IsZero() {
		return res, creditPaid(acc, owed)
	}

	p0 := acc.LastPrice
	if p0.IsZero() {
		// Price was never sampled (account predates the vault); take the
		// snapshot now and treat this window as yield-free.
		acc.LastPrice = price
		return res, creditPaid(acc, owed)
	}

	if price <= p0 {
		// Flat or falling price: plain accrual, snapshot untouched.
		return res, creditPaid(acc, owed)
	}

	// Price rose. Remaining principal keeps its full claim on the gain.
	rescaled, err := types.Rescale(acc.Principal, p0, price)
	if err != nil {
		return nil, fmt.Errorf("settle %q: rescale principal: %w", acc.Owner, err)
	}
	acc.Principal = rescaled

	// The just-streamed slice left the yield position mid-window; half of
	// its paper gain follows it into paidBalance, half is forfeited.
	grown, err := types.Rescale(owed, p0, price)
	if err != nil {
		return nil, fmt.Errorf("settle %q: rescale owed: %w", acc.Owner, err)
	}
	profitJustStreamed := (grown - owed) / 2

	heldGrown, err := types.Rescale(acc.PaidBalance, p0, price)
	if err != nil {
		return nil, fmt.Errorf("settle %q: rescale paid: %w", acc.Owner, err)
	}
	yieldOnHeldPaid := heldGrown - acc.PaidBalance

	totalYield, err := types.CheckedAdd(profitJustStreamed, yieldOnHeldPaid)
	if err != nil {
		return nil, fmt.Errorf("settle %q: %w", acc.Owner, ErrAmountOverflow)
	}

	if acc.PaidBalance > 0 {
		perUnit, err := types.CheckedAdd(acc.YieldEarnedPerUnit, totalYield/acc.PaidBalance)
		if err != nil {
			return nil, fmt.Errorf("settle %q: yield per unit: %w", acc.Owner, ErrAmountOverflow)
		}
		acc.YieldEarnedPerUnit = perUnit
	}

	if err := creditPaid(acc, owed); err != nil {
		return nil, err
	}
	if err := creditPaid(acc, totalYield); err != nil {
		return nil, err
	}
	acc.LastPrice = price
	res.yield = totalYield

	return res, nil
}

func creditPaid(acc *account.Account, amount uint64) error {
	next, err := types.CheckedAdd(acc.PaidBalance, amount)
	if err != nil {
		return fmt.Errorf("credit paid balance %q: %w", acc.Owner, ErrAmountOverflow)
	}
	acc.PaidBalance = next
	return nil
}

// samplePrice reads the vault price, or zero when no vault is configured.
func (l *Ledger) samplePrice(ctx context.Context) (types.Price, error) {
	if l.vault == nil {
		return 0, nil
	}
	p, err := l.vault.PricePerShare(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: price query: %w", ErrTransferFailed, err)
	}
	return p, nil
}

// emitSettled publishes the outcome of a settlement pass.
func (l *Ledger) emitSettled(ctx context.Context, acc *account.Account, res *settleResult) {
	if res.streamed > 0 {
		l.record(acc.Owner, journal.OpSettled, res.streamed, "")
		l.plugins.EmitSettled(ctx, acc.Owner, res.streamed, acc.LastUpdate)
	}
	if res.yield > 0 {
		l.record(acc.Owner, journal.OpYieldAccrued, res.yield, "")
		l.plugins.EmitYieldAccrued(ctx, acc.Owner, res.yield)
	}
	if res.starved {
		l.record(acc.Owner, journal.OpStarved, 0, "")
		l.plugins.EmitStarved(ctx, acc.Owner, res.coveredUntil)
		l.logger.Warn("account starved",
			"payer", acc.Owner,
			"covered_until", res.coveredUntil,
			"rate", acc.RatePerSecond,
		)
	}
}

// ──────────────────────────────────────────────────
// Vault accounting
// ──────────────────────────────────────────────────

// redeemFromVault redeems enough shares from the account's claim to release
// at least underlying (subject to rounding), returning the amount actually
// released. Callers must use the returned value, never the requested one.
func (l *Ledger) redeemFromVault(ctx context.Context, acc *account.Account, underlying uint64, price types.Price) (uint64, error) {
	sharesNeeded, err := price.SharesFor(underlying)
	if err != nil {
		return 0, fmt.Errorf("redeem for %q: %w", acc.Owner, ErrAmountOverflow)
	}
	// SharesFor rounds down; one extra share covers the truncated tail.
	if v, err := price.Underlying(sharesNeeded); err == nil && v < underlying {
		sharesNeeded++
	}

	if sharesNeeded > acc.VaultShares {
		return 0, ErrInsufficientShares
	}

	redeemed, err := l.vault.Withdraw(ctx, sharesNeeded)
	if err != nil {
		return 0, fmt.Errorf("%w: vault withdraw: %w", ErrTransferFailed, err)
	}

	acc.VaultShares -= sharesNeeded
	return redeemed, nil
}

// withdrawCombined satisfies amount from directBalance first, then redeems
// the shortfall from the vault. Redemption rounds up to whole shares; the
// excess over the shortfall stays in direct custody, so exactly amount is
// released. Returns the vault-redeemed portion so callers can restore it if
// the follow-up token transfer fails.
func (l *Ledger) withdrawCombined(ctx context.Context, acc *account.Account, amount uint64, price types.Price) (uint64, error) {
	if amount <= acc.DirectBalance {
		acc.DirectBalance -= amount
		return 0, nil
	}

	if l.vault == nil {
		return 0, ErrInsufficientFunds
	}

	shortfall := amount - acc.DirectBalance

	redeemed, err := l.redeemFromVault(ctx, acc, shortfall, price)
	if err != nil {
		return 0, err
	}
	if redeemed < shortfall {
		// The venue released less than the share math promised. Put the
		// redemption back and fail the operation whole.
		l.restoreVault(ctx, redeemed)
		return 0, fmt.Errorf("withdraw for %q: vault under-redeemed: %w", acc.Owner, ErrInsufficientFunds)
	}

	acc.DirectBalance = redeemed - shortfall
	return redeemed, nil
}

// restoreVault re-deposits a redemption whose follow-up transfer failed.
// The caller's account clone is discarded on that path, so the stored share
// count still reflects the pre-redemption claim; the deposit brings the
// vault's outstanding shares back in line with it (modulo share rounding).
func (l *Ledger) restoreVault(ctx context.Context, amount uint64) {
	if amount == 0 || l.vault == nil {
		return
	}
	if _, err := l.vault.Deposit(ctx, amount); err != nil {
		l.logger.Error("failed to restore vault redemption",
			"amount", amount,
			"error", err,
		)
	}
}
