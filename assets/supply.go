// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/yalhawaj/substrate/state"
)

// BurnOptions control how a burn treats freezes and the target account's
// survival.
type BurnOptions struct {
	// KeepAlive requires the target account to survive the burn.
	KeepAlive bool
	// RespectFrozen honors the external frozen-balance hook. When false the
	// hook is overridden and the freezer may receive a melt notification.
	// Asset and account freezes always apply.
	RespectFrozen bool
	// BestEffort permits burning less than the requested amount.
	BestEffort bool
}

// Mint credits [amount] new units to [beneficiary], checking that [issuer]
// is the asset's issuer. Minting zero is a no-op.
func (l *Ledger) Mint(
	ctx context.Context,
	asset ids.ID,
	issuer ids.ShortID,
	beneficiary ids.ShortID,
	amount uint64,
) error {
	return l.mint(ctx, asset, beneficiary, amount, &issuer)
}

// MintInto is [Mint] without the issuer check.
func (l *Ledger) MintInto(
	ctx context.Context,
	asset ids.ID,
	beneficiary ids.ShortID,
	amount uint64,
) error {
	return l.mint(ctx, asset, beneficiary, amount, nil)
}

func (l *Ledger) mint(
	ctx context.Context,
	asset ids.ID,
	beneficiary ids.ShortID,
	amount uint64,
	checkIssuer *ids.ShortID,
) error {
	if amount == 0 {
		return nil
	}
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	n := &notices{}
	if err := l.increaseBalance(ctx, v, asset, beneficiary, amount, checkIssuer, n); err != nil {
		return err
	}
	if err := l.commit(ctx, v, n); err != nil {
		return err
	}
	l.metrics.mints.Inc()
	l.log.Debug("minted",
		zap.Stringer("asset", asset),
		zap.Stringer("beneficiary", beneficiary),
		zap.Uint64("amount", amount),
	)
	return nil
}

// increaseBalance stages a supply increase and matching credit. LOW-LEVEL:
// the caller commits the view.
func (l *Ledger) increaseBalance(
	ctx context.Context,
	v *state.View,
	asset ids.ID,
	beneficiary ids.ShortID,
	amount uint64,
	checkIssuer *ids.ShortID,
	n *notices,
) error {
	conseq, err := l.canIncrease(ctx, v, asset, beneficiary, amount)
	if err != nil {
		return err
	}
	if err := conseq.Err(); err != nil {
		return err
	}
	record, exists, err := GetAsset(ctx, v, asset)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAsset
	}
	if checkIssuer != nil && *checkIssuer != record.Issuer {
		return ErrNoPermission
	}
	record.Supply += amount // bounds checked in canIncrease

	account, _, err := GetAccount(ctx, v, asset, beneficiary)
	if err != nil {
		return err
	}
	if account.Balance == 0 {
		account.Sufficient, err = l.newAccount(beneficiary, record, n)
		if err != nil {
			return err
		}
	}
	account.Balance += amount
	if err := SetAccount(ctx, v, asset, beneficiary, account); err != nil {
		return err
	}
	return SetAsset(ctx, v, asset, record)
}

// Burn reduces [target]'s balance by as much as possible up to [amount],
// checking that [admin] is the asset's admin. The external frozen-balance
// hook is overridden (the freezer is notified of any melt) and the burn is
// best-effort. Returns the amount actually burned, which includes any swept
// dust.
func (l *Ledger) Burn(
	ctx context.Context,
	asset ids.ID,
	admin ids.ShortID,
	target ids.ShortID,
	amount uint64,
) (uint64, error) {
	return l.burn(ctx, asset, target, amount, &admin, BurnOptions{BestEffort: true})
}

// BurnFrom burns exactly [amount] from [target], respecting freezes.
func (l *Ledger) BurnFrom(
	ctx context.Context,
	asset ids.ID,
	target ids.ShortID,
	amount uint64,
) (uint64, error) {
	return l.burn(ctx, asset, target, amount, nil, BurnOptions{RespectFrozen: true})
}

// Slash burns up to [amount] from [target], respecting freezes.
func (l *Ledger) Slash(
	ctx context.Context,
	asset ids.ID,
	target ids.ShortID,
	amount uint64,
) (uint64, error) {
	return l.burn(ctx, asset, target, amount, nil, BurnOptions{RespectFrozen: true, BestEffort: true})
}

// BurnWithOptions burns with explicit [BurnOptions].
func (l *Ledger) BurnWithOptions(
	ctx context.Context,
	asset ids.ID,
	target ids.ShortID,
	amount uint64,
	opts BurnOptions,
) (uint64, error) {
	return l.burn(ctx, asset, target, amount, nil, opts)
}

func (l *Ledger) burn(
	ctx context.Context,
	asset ids.ID,
	target ids.ShortID,
	amount uint64,
	checkAdmin *ids.ShortID,
	opts BurnOptions,
) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	n := &notices{}
	actual, err := l.decreaseBalance(ctx, v, asset, target, amount, checkAdmin, opts, n)
	if err != nil {
		return 0, err
	}
	if actual == 0 {
		// Nothing could be burned (best-effort with no decreasable
		// balance); leave the store untouched.
		return 0, nil
	}
	if err := l.commit(ctx, v, n); err != nil {
		return 0, err
	}
	l.metrics.burns.Inc()
	l.log.Debug("burned",
		zap.Stringer("asset", asset),
		zap.Stringer("target", target),
		zap.Uint64("amount", actual),
	)
	return actual, nil
}

// decreaseBalance stages a supply decrease and matching debit, deleting the
// target account when it is reduced to zero. LOW-LEVEL: the caller commits
// the view.
func (l *Ledger) decreaseBalance(
	ctx context.Context,
	v *state.View,
	asset ids.ID,
	target ids.ShortID,
	amount uint64,
	checkAdmin *ids.ShortID,
	opts BurnOptions,
	n *notices,
) (uint64, error) {
	actual, melt, err := l.prepDebit(
		ctx, v, asset, target, amount, opts.KeepAlive, opts.RespectFrozen, opts.BestEffort,
	)
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
	if actual == 0 {
		return 0, nil
	}
	record.Supply -= actual // bounds checked in prep

	account, existed, err := GetAccount(ctx, v, asset, target)
	if err != nil {
		return 0, err
	}
	if !existed {
		// prepDebit only returns a nonzero amount for a live account.
		return 0, ErrBalanceZero
	}
	account.Balance -= actual // bounds checked in prep
	if account.Balance < record.MinBalance {
		// Guaranteed zero by the dust sweep in prepDebit.
		l.deadAccount(asset, target, record, account.Sufficient, n)
		if err := RemoveAccount(ctx, v, asset, target); err != nil {
			return 0, err
		}
	} else {
		if err := SetAccount(ctx, v, asset, target, account); err != nil {
			return 0, err
		}
	}
	if err := SetAsset(ctx, v, asset, record); err != nil {
		return 0, err
	}
	l.queueMelt(asset, target, melt, n)
	return actual, nil
}
