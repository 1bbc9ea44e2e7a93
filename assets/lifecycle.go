// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/yalhawaj/substrate/consts"
	"github.com/yalhawaj/substrate/state"
)

// Create registers a new asset class owned and administered by the caller,
// reserving the configured asset deposit from [owner].
func (l *Ledger) Create(
	ctx context.Context,
	asset ids.ID,
	owner ids.ShortID,
	admin ids.ShortID,
	minBalance uint64,
) error {
	return l.create(ctx, asset, &AssetRecord{
		Owner:      owner,
		Issuer:     admin,
		Admin:      admin,
		Freezer:    admin,
		Deposit:    l.cfg.AssetDeposit,
		MinBalance: minBalance,
	}, true)
}

// ForceCreate registers a new asset class without taking a deposit,
// optionally marking it sufficient.
func (l *Ledger) ForceCreate(
	ctx context.Context,
	asset ids.ID,
	owner ids.ShortID,
	isSufficient bool,
	minBalance uint64,
) error {
	return l.create(ctx, asset, &AssetRecord{
		Owner:        owner,
		Issuer:       owner,
		Admin:        owner,
		Freezer:      owner,
		MinBalance:   minBalance,
		IsSufficient: isSufficient,
	}, false)
}

func (l *Ledger) create(
	ctx context.Context,
	asset ids.ID,
	record *AssetRecord,
	takeDeposit bool,
) error {
	if record.MinBalance == 0 {
		return ErrMinBalanceZero
	}
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	n := &notices{}
	if _, exists, err := GetAsset(ctx, v, asset); err != nil {
		return err
	} else if exists {
		return ErrInUse
	}
	if takeDeposit && record.Deposit > 0 {
		if err := l.bank.Reserve(record.Owner, record.Deposit); err != nil {
			return err
		}
		deposit := record.Deposit
		owner := record.Owner
		n.undo = append(n.undo, func() { l.bank.Unreserve(owner, deposit) })
	}
	if err := SetAsset(ctx, v, asset, record); err != nil {
		return err
	}
	if err := l.commit(ctx, v, n); err != nil {
		return err
	}
	l.log.Info("created asset",
		zap.Stringer("asset", asset),
		zap.Stringer("owner", record.Owner),
		zap.Uint64("minBalance", record.MinBalance),
		zap.Bool("sufficient", record.IsSufficient),
	)
	return nil
}

// Destroy removes an asset class entirely: every remaining account is
// drained (releasing its reference and notifying the freezer), every
// approval is removed with its deposit released, and the creation deposit
// is returned to the owner.
//
// [witness] must match the stored counters exactly; any churn since it was
// captured fails with [ErrBadWitness]. [checkOwner], when non-nil, must be
// the asset's owner.
func (l *Ledger) Destroy(
	ctx context.Context,
	asset ids.ID,
	witness DestroyWitness,
	checkOwner *ids.ShortID,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	n := &notices{}

	record, exists, err := GetAsset(ctx, v, asset)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAsset
	}
	if checkOwner != nil && *checkOwner != record.Owner {
		return ErrNoPermission
	}
	if record.Witness() != witness {
		return ErrBadWitness
	}

	// The view is empty at this point, so iterating the backing store sees
	// every live record.
	accounts := l.store.NewIteratorWithPrefix(accountKeyPrefix(asset))
	defer accounts.Release()
	for accounts.Next() {
		holder := holderFromAccountKey(accounts.Key())
		account := decodeAccount(accounts.Value())
		l.deadAccount(asset, holder, record, account.Sufficient, n)
		if err := RemoveAccount(ctx, v, asset, holder); err != nil {
			return err
		}
	}
	if err := accounts.Error(); err != nil {
		n.revert()
		return err
	}

	approvals := l.store.NewIteratorWithPrefix(approvalKeyPrefix(asset))
	defer approvals.Release()
	for approvals.Next() {
		k := approvals.Key()
		var approvalOwner ids.ShortID
		copy(approvalOwner[:], k[1+consts.IDLen:])
		deposit := decodeApproval(approvals.Value()).Deposit
		if err := v.Remove(ctx, k); err != nil {
			return err
		}
		if deposit > 0 {
			releaseTo := approvalOwner
			n.after = append(n.after, func(context.Context) { l.bank.Unreserve(releaseTo, deposit) })
		}
	}
	if err := approvals.Error(); err != nil {
		n.revert()
		return err
	}

	if err := RemoveAsset(ctx, v, asset); err != nil {
		return err
	}
	if deposit := record.Deposit; deposit > 0 {
		releaseTo := record.Owner
		n.after = append(n.after, func(context.Context) { l.bank.Unreserve(releaseTo, deposit) })
	}
	if err := l.commit(ctx, v, n); err != nil {
		return err
	}
	l.log.Info("destroyed asset", zap.Stringer("asset", asset))
	return nil
}

// Freeze disallows further unprivileged transfers from [who]. [freezer]
// must be the asset's freezer.
func (l *Ledger) Freeze(
	ctx context.Context,
	asset ids.ID,
	freezer ids.ShortID,
	who ids.ShortID,
) error {
	return l.setAccountFrozen(ctx, asset, who, freezer, true)
}

// Thaw allows transfers from [who] again. [admin] must be the asset's
// admin.
func (l *Ledger) Thaw(
	ctx context.Context,
	asset ids.ID,
	admin ids.ShortID,
	who ids.ShortID,
) error {
	return l.setAccountFrozen(ctx, asset, who, admin, false)
}

func (l *Ledger) setAccountFrozen(
	ctx context.Context,
	asset ids.ID,
	who ids.ShortID,
	actor ids.ShortID,
	frozen bool,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	record, exists, err := GetAsset(ctx, v, asset)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAsset
	}
	if frozen && actor != record.Freezer {
		return ErrNoPermission
	}
	if !frozen && actor != record.Admin {
		return ErrNoPermission
	}
	account, existed, err := GetAccount(ctx, v, asset, who)
	if err != nil {
		return err
	}
	if !existed {
		return ErrBalanceZero
	}
	account.IsFrozen = frozen
	if err := SetAccount(ctx, v, asset, who, account); err != nil {
		return err
	}
	return l.commit(ctx, v, &notices{})
}

// FreezeAsset disallows unprivileged transfers for the whole asset class.
// [freezer] must be the asset's freezer.
func (l *Ledger) FreezeAsset(ctx context.Context, asset ids.ID, freezer ids.ShortID) error {
	return l.setAssetFrozen(ctx, asset, freezer, true)
}

// ThawAsset allows transfers for the asset class again. [admin] must be
// the asset's admin.
func (l *Ledger) ThawAsset(ctx context.Context, asset ids.ID, admin ids.ShortID) error {
	return l.setAssetFrozen(ctx, asset, admin, false)
}

func (l *Ledger) setAssetFrozen(
	ctx context.Context,
	asset ids.ID,
	actor ids.ShortID,
	frozen bool,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	record, exists, err := GetAsset(ctx, v, asset)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAsset
	}
	if frozen && actor != record.Freezer {
		return ErrNoPermission
	}
	if !frozen && actor != record.Admin {
		return ErrNoPermission
	}
	record.IsFrozen = frozen
	if err := SetAsset(ctx, v, asset, record); err != nil {
		return err
	}
	return l.commit(ctx, v, &notices{})
}

// TransferOwnership moves the asset class (and its reserved deposit) to
// [newOwner]. [actor] must be the current owner.
func (l *Ledger) TransferOwnership(
	ctx context.Context,
	asset ids.ID,
	actor ids.ShortID,
	newOwner ids.ShortID,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	n := &notices{}
	record, exists, err := GetAsset(ctx, v, asset)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAsset
	}
	if actor != record.Owner {
		return ErrNoPermission
	}
	if record.Owner == newOwner {
		return nil
	}
	if deposit := record.Deposit; deposit > 0 {
		// Move the deposit to the new owner.
		if err := l.bank.Reserve(newOwner, deposit); err != nil {
			return err
		}
		n.undo = append(n.undo, func() { l.bank.Unreserve(newOwner, deposit) })
		oldOwner := record.Owner
		n.after = append(n.after, func(context.Context) { l.bank.Unreserve(oldOwner, deposit) })
	}
	record.Owner = newOwner
	if err := SetAsset(ctx, v, asset, record); err != nil {
		return err
	}
	return l.commit(ctx, v, n)
}

// SetTeam changes the issuer, admin and freezer of an asset. [actor] must
// be the owner.
func (l *Ledger) SetTeam(
	ctx context.Context,
	asset ids.ID,
	actor ids.ShortID,
	issuer ids.ShortID,
	admin ids.ShortID,
	freezer ids.ShortID,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	record, exists, err := GetAsset(ctx, v, asset)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAsset
	}
	if actor != record.Owner {
		return ErrNoPermission
	}
	record.Issuer = issuer
	record.Admin = admin
	record.Freezer = freezer
	if err := SetAsset(ctx, v, asset, record); err != nil {
		return err
	}
	return l.commit(ctx, v, &notices{})
}

// ForceAssetStatus rewrites the privileged attributes of an asset. No
// permission check is applied; callers gate this themselves.
func (l *Ledger) ForceAssetStatus(
	ctx context.Context,
	asset ids.ID,
	owner ids.ShortID,
	issuer ids.ShortID,
	admin ids.ShortID,
	freezer ids.ShortID,
	minBalance uint64,
	isSufficient bool,
	isFrozen bool,
) error {
	if minBalance == 0 {
		return ErrMinBalanceZero
	}
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	record, exists, err := GetAsset(ctx, v, asset)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAsset
	}
	record.Owner = owner
	record.Issuer = issuer
	record.Admin = admin
	record.Freezer = freezer
	record.MinBalance = minBalance
	record.IsSufficient = isSufficient
	record.IsFrozen = isFrozen
	if err := SetAsset(ctx, v, asset, record); err != nil {
		return err
	}
	return l.commit(ctx, v, &notices{})
}
