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

// ApproveTransfer creates or tops up the allowance delegated by [owner] to
// [delegate]. Repeated approvals are additive. The first approval reserves
// the configured approval deposit from the owner; the owner does not need
// to hold [amount] at approval time.
func (l *Ledger) ApproveTransfer(
	ctx context.Context,
	asset ids.ID,
	owner ids.ShortID,
	delegate ids.ShortID,
	amount uint64,
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
	// A zero allowance is never persisted, so there is nothing to do.
	if amount == 0 {
		return nil
	}
	approval, existed, err := GetApproval(ctx, v, asset, owner, delegate)
	if err != nil {
		return err
	}
	if approval.Deposit < l.cfg.ApprovalDeposit {
		diff := l.cfg.ApprovalDeposit - approval.Deposit
		if err := l.bank.Reserve(owner, diff); err != nil {
			return err
		}
		n.undo = append(n.undo, func() { l.bank.Unreserve(owner, diff) })
		approval.Deposit = l.cfg.ApprovalDeposit
	}
	// Saturating: an absurd cumulative allowance caps out rather than
	// failing the approval.
	if approval.Amount+amount < approval.Amount {
		approval.Amount = consts.MaxUint64
	} else {
		approval.Amount += amount
	}
	if err := SetApproval(ctx, v, asset, owner, delegate, approval); err != nil {
		return err
	}
	if !existed {
		record.Approvals++
		if err := SetAsset(ctx, v, asset, record); err != nil {
			return err
		}
	}
	if err := l.commit(ctx, v, n); err != nil {
		return err
	}
	l.metrics.approvals.Inc()
	l.log.Debug("approved transfer",
		zap.Stringer("asset", asset),
		zap.Stringer("owner", owner),
		zap.Stringer("delegate", delegate),
		zap.Uint64("amount", amount),
	)
	return nil
}

// CancelApproval rescinds the approval from [owner] to [delegate],
// releasing its deposit.
func (l *Ledger) CancelApproval(
	ctx context.Context,
	asset ids.ID,
	owner ids.ShortID,
	delegate ids.ShortID,
) error {
	return l.cancelApproval(ctx, asset, owner, delegate, nil)
}

// ForceCancelApproval is [CancelApproval] invoked by the asset's admin.
func (l *Ledger) ForceCancelApproval(
	ctx context.Context,
	asset ids.ID,
	admin ids.ShortID,
	owner ids.ShortID,
	delegate ids.ShortID,
) error {
	return l.cancelApproval(ctx, asset, owner, delegate, &admin)
}

func (l *Ledger) cancelApproval(
	ctx context.Context,
	asset ids.ID,
	owner ids.ShortID,
	delegate ids.ShortID,
	checkAdmin *ids.ShortID,
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
	if checkAdmin != nil && *checkAdmin != record.Admin {
		return ErrNoPermission
	}
	approval, existed, err := GetApproval(ctx, v, asset, owner, delegate)
	if err != nil {
		return err
	}
	if !existed {
		return ErrUnknownApproval
	}
	if err := RemoveApproval(ctx, v, asset, owner, delegate); err != nil {
		return err
	}
	if record.Approvals > 0 {
		record.Approvals--
	}
	if err := SetAsset(ctx, v, asset, record); err != nil {
		return err
	}
	if deposit := approval.Deposit; deposit > 0 {
		n.after = append(n.after, func(context.Context) { l.bank.Unreserve(owner, deposit) })
	}
	if err := l.commit(ctx, v, n); err != nil {
		return err
	}
	l.log.Debug("cancelled approval",
		zap.Stringer("asset", asset),
		zap.Stringer("owner", owner),
		zap.Stringer("delegate", delegate),
	)
	return nil
}

// TransferApproved spends part of the allowance delegated by [owner] to
// [delegate]: a full transfer from [owner] to [dest] followed by the
// allowance reduction, in one atomic step. If the transfer cannot proceed
// the approval is left untouched. Spending the entire allowance removes the
// approval and releases its deposit.
func (l *Ledger) TransferApproved(
	ctx context.Context,
	asset ids.ID,
	owner ids.ShortID,
	delegate ids.ShortID,
	dest ids.ShortID,
	amount uint64,
) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	v := state.NewView(l.store)
	n := &notices{}

	approval, existed, err := GetApproval(ctx, v, asset, owner, delegate)
	if err != nil {
		return 0, err
	}
	if !existed || approval.Amount < amount {
		return 0, ErrUnapproved
	}
	remaining := approval.Amount - amount

	credit, err := l.doTransfer(
		ctx, v, asset, owner, dest, amount, nil, TransferOptions{RespectFrozen: true}, n,
	)
	if err != nil {
		return 0, err
	}

	if remaining == 0 {
		if err := RemoveApproval(ctx, v, asset, owner, delegate); err != nil {
			return 0, err
		}
		// Re-read: the transfer may have changed the account counters.
		record, exists, err := GetAsset(ctx, v, asset)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, ErrUnknownAsset
		}
		if record.Approvals > 0 {
			record.Approvals--
		}
		if err := SetAsset(ctx, v, asset, record); err != nil {
			return 0, err
		}
		if deposit := approval.Deposit; deposit > 0 {
			n.after = append(n.after, func(context.Context) { l.bank.Unreserve(owner, deposit) })
		}
	} else {
		approval.Amount = remaining
		if err := SetApproval(ctx, v, asset, owner, delegate, approval); err != nil {
			return 0, err
		}
	}
	if err := l.commit(ctx, v, n); err != nil {
		return 0, err
	}
	l.metrics.transfers.Inc()
	l.log.Debug("transferred approved",
		zap.Stringer("asset", asset),
		zap.Stringer("owner", owner),
		zap.Stringer("delegate", delegate),
		zap.Stringer("dest", dest),
		zap.Uint64("credit", credit),
	)
	return credit, nil
}
