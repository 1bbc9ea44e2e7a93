// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/yalhawaj/substrate/state"
)

// TransferOptions control how a transfer treats freezes, the source
// account's survival, and dust.
type TransferOptions struct {
	// KeepAlive requires the source account to survive the transfer.
	KeepAlive bool
	// RespectFrozen honors the external frozen-balance hook. When false the
	// hook is overridden and the freezer may receive a melt notification.
	// Asset and account freezes always apply.
	RespectFrozen bool
	// BestEffort permits moving less than the requested amount.
	BestEffort bool
	// BurnDust destroys any swept dust above the requested amount instead
	// of delivering it to the destination.
	BurnDust bool
}

// Transfer moves [amount] from [source] to [dest], respecting freezes. The
// returned amount is what was actually credited; it can exceed [amount]
// when residual dust is swept along.
func (l *Ledger) Transfer(
	ctx context.Context,
	asset ids.ID,
	source ids.ShortID,
	dest ids.ShortID,
	amount uint64,
) (uint64, error) {
	return l.transfer(ctx, asset, source, dest, amount, nil, TransferOptions{RespectFrozen: true})
}

// TransferKeepAlive is [Transfer] with the source required to survive.
func (l *Ledger) TransferKeepAlive(
	ctx context.Context,
	asset ids.ID,
	source ids.ShortID,
	dest ids.ShortID,
	amount uint64,
) (uint64, error) {
	return l.transfer(ctx, asset, source, dest, amount, nil, TransferOptions{
		KeepAlive:     true,
		RespectFrozen: true,
	})
}

// ForceTransfer moves funds between arbitrary accounts, checking that
// [admin] is the asset's admin. The external frozen-balance hook is
// overridden (the freezer is notified of any melt); asset and account
// freezes still apply.
func (l *Ledger) ForceTransfer(
	ctx context.Context,
	asset ids.ID,
	admin ids.ShortID,
	source ids.ShortID,
	dest ids.ShortID,
	amount uint64,
) (uint64, error) {
	return l.transfer(ctx, asset, source, dest, amount, &admin, TransferOptions{})
}

// TransferWithOptions transfers with explicit [TransferOptions].
func (l *Ledger) TransferWithOptions(
	ctx context.Context,
	asset ids.ID,
	source ids.ShortID,
	dest ids.ShortID,
	amount uint64,
	opts TransferOptions,
) (uint64, error) {
	return l.transfer(ctx, asset, source, dest, amount, nil, opts)
}

func (l *Ledger) transfer(
	ctx context.Context,
	asset ids.ID,
	source ids.ShortID,
	dest ids.ShortID,
	amount uint64,
	checkAdmin *ids.ShortID,
	opts TransferOptions,
) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	n := &notices{}
	credit, err := l.doTransfer(ctx, v, asset, source, dest, amount, checkAdmin, opts, n)
	if err != nil {
		return 0, err
	}
	if err := l.commit(ctx, v, n); err != nil {
		return 0, err
	}
	l.metrics.transfers.Inc()
	l.log.Debug("transferred",
		zap.Stringer("asset", asset),
		zap.Stringer("source", source),
		zap.Stringer("dest", dest),
		zap.Uint64("credit", credit),
	)
	return credit, nil
}

// doTransfer stages a transfer. LOW-LEVEL: the caller commits the view.
func (l *Ledger) doTransfer(
	ctx context.Context,
	v *state.View,
	asset ids.ID,
	source ids.ShortID,
	dest ids.ShortID,
	amount uint64,
	checkAdmin *ids.ShortID,
	opts TransferOptions,
	n *notices,
) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}
	// Figure out the debit and credit, together with side effects.
	debit, melt, err := l.prepDebit(
		ctx, v, asset, source, amount, opts.KeepAlive, opts.RespectFrozen, opts.BestEffort,
	)
	if err != nil {
		return 0, err
	}
	credit, burn, err := l.prepCredit(ctx, v, asset, dest, amount, debit, opts.BurnDust)
	if err != nil {
		return 0, err
	}

	record, exists, err := GetAsset(ctx, v, asset)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrUnknownAsset
	}
	if checkAdmin != nil && *checkAdmin != record.Admin {
		return 0, ErrNoPermission
	}

	// An identity transfer is a success that moves nothing; the melt
	// notification still fires if one was computed.
	if source == dest {
		l.queueMelt(asset, source, melt, n)
		return credit, nil
	}
	if debit == 0 && credit == 0 {
		// Best-effort with nothing decreasable.
		return 0, nil
	}

	sourceAccount, sourceExisted, err := GetAccount(ctx, v, asset, source)
	if err != nil {
		return 0, err
	}
	if !sourceExisted {
		return 0, ErrBalanceZero
	}

	// Burn any dust if needed. Bounds checked in prep.
	record.Supply -= burn
	sourceAccount.Balance -= debit

	destAccount, _, err := GetAccount(ctx, v, asset, dest)
	if err != nil {
		return 0, err
	}
	if destAccount.Balance == 0 {
		destAccount.Sufficient, err = l.newAccount(dest, record, n)
		if err != nil {
			return 0, err
		}
	}
	destAccount.Balance += credit
	if err := SetAccount(ctx, v, asset, dest, destAccount); err != nil {
		return 0, err
	}

	// Remove the source account if it is now dead.
	if sourceAccount.Balance < record.MinBalance {
		// Guaranteed zero by the dust sweep in prepDebit.
		l.deadAccount(asset, source, record, sourceAccount.Sufficient, n)
		if err := RemoveAccount(ctx, v, asset, source); err != nil {
			return 0, err
		}
	} else {
		if err := SetAccount(ctx, v, asset, source, sourceAccount); err != nil {
			return 0, err
		}
	}
	if err := SetAsset(ctx, v, asset, record); err != nil {
		return 0, err
	}
	l.queueMelt(asset, source, melt, n)
	return credit, nil
}
