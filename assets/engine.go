// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	smath "github.com/ava-labs/avalanchego/utils/math"
	"go.uber.org/zap"

	"github.com/yalhawaj/substrate/consts"
	"github.com/yalhawaj/substrate/state"
)

// canIncrease checks deposit admissibility without mutating anything. The
// returned error is a storage failure, not an admissibility verdict.
func (l *Ledger) canIncrease(
	ctx context.Context,
	im state.Immutable,
	asset ids.ID,
	holder ids.ShortID,
	amount uint64,
) (DepositConsequence, error) {
	record, exists, err := GetAsset(ctx, im, asset)
	if err != nil {
		return DepositUnknownAsset, err
	}
	if !exists {
		return DepositUnknownAsset, nil
	}
	if _, err := smath.Add64(record.Supply, amount); err != nil {
		return DepositOverflow, nil
	}
	account, _, err := GetAccount(ctx, im, asset, holder)
	if err != nil {
		return DepositUnknownAsset, err
	}
	if _, err := smath.Add64(account.Balance, amount); err != nil {
		return DepositOverflow, nil
	}
	if account.Balance == 0 {
		if amount < record.MinBalance {
			return DepositBelowMinimum, nil
		}
		if !record.IsSufficient && l.refs.Providers(holder) == 0 {
			return DepositCannotCreate, nil
		}
		if record.IsSufficient && record.Sufficients == consts.MaxUint32 {
			return DepositOverflow, nil
		}
	}
	return DepositSuccess, nil
}

// canDecrease checks withdraw admissibility. The second return is the
// argument for the freezer's melt notification, if one must be sent.
//
// When an unrespected external freeze and a keep-alive requirement both
// apply, the melt amount is computed first and then discarded if the
// keep-alive check fails: WouldDie never carries a melt.
func (l *Ledger) canDecrease(
	ctx context.Context,
	im state.Immutable,
	asset ids.ID,
	holder ids.ShortID,
	amount uint64,
	keepAlive bool,
	respectFrozen bool,
) (WithdrawConsequence, *uint64, error) {
	record, exists, err := GetAsset(ctx, im, asset)
	if err != nil {
		return WithdrawConsequence{Kind: WithdrawUnknownAsset}, nil, err
	}
	if !exists {
		return WithdrawConsequence{Kind: WithdrawUnknownAsset}, nil, nil
	}
	if _, err := smath.Sub(record.Supply, amount); err != nil {
		return WithdrawConsequence{Kind: WithdrawUnderflow}, nil, nil
	}
	if record.IsFrozen {
		return WithdrawConsequence{Kind: WithdrawFrozen}, nil, nil
	}
	account, _, err := GetAccount(ctx, im, asset, holder)
	if err != nil {
		return WithdrawConsequence{Kind: WithdrawUnknownAsset}, nil, err
	}
	if account.IsFrozen {
		return WithdrawConsequence{Kind: WithdrawFrozen}, nil, nil
	}
	rest, err := smath.Sub(account.Balance, amount)
	if err != nil {
		return WithdrawConsequence{Kind: WithdrawNoFunds}, nil, nil
	}

	var melt *uint64
	if frozen, ok := l.freezer.FrozenBalance(ctx, asset, holder); ok {
		required, err := smath.Add64(frozen, record.MinBalance)
		if err != nil {
			return WithdrawConsequence{Kind: WithdrawOverflow}, nil, nil
		}
		if rest < required {
			if respectFrozen {
				return WithdrawConsequence{Kind: WithdrawFrozen}, nil, nil
			}
			left := uint64(0)
			if rest > record.MinBalance {
				left = rest - record.MinBalance
			}
			melt = &left
		}
	}

	if rest < record.MinBalance {
		if keepAlive {
			return WithdrawConsequence{Kind: WithdrawWouldDie}, nil, nil
		}
		return WithdrawConsequence{Kind: WithdrawReducedToZero, Dust: rest}, melt, nil
	}
	return WithdrawConsequence{Kind: WithdrawSuccess}, melt, nil
}

// decreasableBalance is the maximum amount canDecrease would accept with a
// Success or ReducedToZero consequence, clamped to the supply.
func (l *Ledger) decreasableBalance(
	ctx context.Context,
	im state.Immutable,
	asset ids.ID,
	holder ids.ShortID,
	keepAlive bool,
	respectFrozen bool,
) (uint64, error) {
	record, exists, err := GetAsset(ctx, im, asset)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrUnknownAsset
	}
	if record.IsFrozen {
		return 0, ErrFrozen
	}
	account, _, err := GetAccount(ctx, im, asset, holder)
	if err != nil {
		return 0, err
	}
	if account.IsFrozen {
		return 0, ErrFrozen
	}

	frozen, hasFrozen := l.freezer.FrozenBalance(ctx, asset, holder)
	var amount uint64
	switch {
	case respectFrozen && hasFrozen:
		// A respected freeze pins the account above frozen+minimum; it
		// cannot be deleted.
		required, err := smath.Add64(frozen, record.MinBalance)
		if err != nil {
			return 0, ErrOverflow
		}
		if account.Balance > required {
			amount = account.Balance - required
		}
	case keepAlive:
		if account.Balance > record.MinBalance {
			amount = account.Balance - record.MinBalance
		}
	default:
		// No freeze, or one we are ignoring: the whole balance is in play
		// and the account may die. If a freeze was ignored, canDecrease
		// will surface the melt notification.
		amount = account.Balance
	}
	return min(amount, record.Supply), nil
}

// prepDebit fixes the actual amount to debit from [holder]. The cap from
// decreasableBalance and the confirming canDecrease pass are separate
// because the dust sweep is a function of the exact debit amount, which is
// itself a function of the cap.
//
// The returned amount is at least [amount] unless [bestEffort], and may
// exceed it by up to MinBalance-1 swept dust.
func (l *Ledger) prepDebit(
	ctx context.Context,
	im state.Immutable,
	asset ids.ID,
	holder ids.ShortID,
	amount uint64,
	keepAlive bool,
	respectFrozen bool,
	bestEffort bool,
) (uint64, *uint64, error) {
	limit, err := l.decreasableBalance(ctx, im, asset, holder, keepAlive, respectFrozen)
	if err != nil {
		return 0, nil, err
	}
	actual := min(amount, limit)
	if !bestEffort && actual < amount {
		return 0, nil, ErrBalanceLow
	}

	conseq, melt, err := l.canDecrease(ctx, im, asset, holder, actual, keepAlive, respectFrozen)
	if err != nil {
		return 0, nil, err
	}
	if err := conseq.Err(); err != nil {
		// decreasableBalance accepted this amount; the confirming pass must
		// as well.
		l.log.Error("withdraw rejected after being capped",
			zap.Stringer("asset", asset),
			zap.Stringer("holder", holder),
			zap.Uint64("amount", actual),
			zap.Error(err),
		)
		return 0, nil, err
	}
	return actual + conseq.Dust, melt, nil
}

// prepCredit fixes the amount to deliver to [dest] given that [debit] was
// taken from the source. With [burnDust], any excess of debit over amount
// is destroyed instead of delivered.
func (l *Ledger) prepCredit(
	ctx context.Context,
	im state.Immutable,
	asset ids.ID,
	dest ids.ShortID,
	amount uint64,
	debit uint64,
	burnDust bool,
) (credit uint64, burn uint64, err error) {
	if burnDust && debit > amount {
		credit, burn = amount, debit-amount
	} else {
		credit, burn = debit, 0
	}
	conseq, err := l.canIncrease(ctx, im, asset, dest, credit)
	if err != nil {
		return 0, 0, err
	}
	if err := conseq.Err(); err != nil {
		return 0, 0, err
	}
	return credit, burn, nil
}

// newAccount registers a fresh account record against [record], taking the
// reference class dictated by the asset's sufficiency. The counter change
// is queued for reversal should the surrounding commit fail.
func (l *Ledger) newAccount(
	holder ids.ShortID,
	record *AssetRecord,
	n *notices,
) (sufficient bool, err error) {
	if record.Accounts == consts.MaxUint32 {
		return false, ErrOverflow
	}
	if record.IsSufficient {
		l.refs.IncSufficients(holder)
		n.undo = append(n.undo, func() { l.refs.DecSufficients(holder) })
		record.Sufficients++
		sufficient = true
	} else {
		if err := l.refs.IncConsumers(holder); err != nil {
			return false, ErrNoProvider
		}
		n.undo = append(n.undo, func() { l.refs.DecConsumers(holder) })
	}
	record.Accounts++
	l.metrics.accountsCreated.Inc()
	return sufficient, nil
}

// deadAccount releases the reference taken at creation and queues the
// freezer's death notification.
func (l *Ledger) deadAccount(
	asset ids.ID,
	holder ids.ShortID,
	record *AssetRecord,
	sufficient bool,
	n *notices,
) {
	if sufficient {
		if record.Sufficients > 0 {
			record.Sufficients--
		}
		l.refs.DecSufficients(holder)
		n.undo = append(n.undo, func() { l.refs.IncSufficients(holder) })
	} else {
		l.refs.DecConsumers(holder)
		n.undo = append(n.undo, func() { _ = l.refs.IncConsumers(holder) })
	}
	if record.Accounts > 0 {
		record.Accounts--
	}
	n.after = append(n.after, func(ctx context.Context) {
		l.freezer.Died(ctx, asset, holder)
	})
	l.metrics.accountsDestroyed.Inc()
}

// queueMelt schedules the freezer's melt notification for after commit.
func (l *Ledger) queueMelt(asset ids.ID, holder ids.ShortID, melt *uint64, n *notices) {
	if melt == nil {
		return
	}
	left := *melt
	n.after = append(n.after, func(ctx context.Context) {
		l.freezer.Melted(ctx, asset, holder, left)
	})
	l.metrics.melts.Inc()
}
