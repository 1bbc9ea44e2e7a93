// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package assets implements a multi-asset fungible-balance ledger with
// existential (minimum-balance) enforcement, per-account and asset-wide
// freezing, delegated transfer approvals, and account lifecycle tied to
// external reference counts.
package assets

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/yalhawaj/substrate/state"
)

// Config carries the deposit economics of the ledger. Deposits are passed
// through to the [Depository] untouched.
type Config struct {
	// AssetDeposit is reserved from the creator by [Ledger.Create].
	AssetDeposit uint64
	// ApprovalDeposit is reserved from the owner on the first approval to a
	// delegate and released when the approval is spent or cancelled.
	ApprovalDeposit uint64
}

// DefaultConfig requires no deposits.
func DefaultConfig() Config {
	return Config{}
}

// Ledger is the balance-transition engine. All mutating operations stage
// their writes in a [state.View] and either commit the whole view in one
// batch or leave the store untouched.
type Ledger struct {
	store   Store
	freezer Freezer
	refs    ReferenceCounter
	bank    Depository
	cfg     Config

	log     *zap.Logger
	metrics *metrics

	// Mutating operations are serialized: the engine assumes a single
	// writer per storage transaction.
	lock sync.Mutex
}

// New creates a ledger over [store]. [gatherer] may be nil to disable
// metrics; [log] may be nil to disable logging.
func New(
	store Store,
	freezer Freezer,
	refs ReferenceCounter,
	bank Depository,
	cfg Config,
	log *zap.Logger,
	gatherer prometheus.Registerer,
) (*Ledger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m, err := newMetrics(gatherer)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		store:   store,
		freezer: freezer,
		refs:    refs,
		bank:    bank,
		cfg:     cfg,
		log:     log,
		metrics: m,
	}, nil
}

// reader adapts the backing store to [state.Immutable] for queries.
type reader struct {
	s Store
}

func (r reader) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.s.Get(key)
}

// notices accumulates the side effects of a staged mutation: freezer
// notifications to fire once the batch has been written, and
// reference-counter reversals to apply if it cannot be.
type notices struct {
	after []func(context.Context)
	undo  []func()
}

func (n *notices) revert() {
	for i := len(n.undo) - 1; i >= 0; i-- {
		n.undo[i]()
	}
}

// commit writes the staged view in one batch. On failure every
// reference-counter change made while staging is reverted and the store is
// left untouched. On success the queued freezer notifications fire; they
// are not allowed to fail the operation.
func (l *Ledger) commit(ctx context.Context, v *state.View, n *notices) error {
	b := l.store.NewBatch()
	if err := v.Commit(ctx, b); err != nil {
		n.revert()
		return err
	}
	if err := b.Write(); err != nil {
		n.revert()
		return err
	}
	for _, fn := range n.after {
		fn(ctx)
	}
	return nil
}

// Balance returns the asset balance of [holder] (zero if no account).
func (l *Ledger) Balance(ctx context.Context, asset ids.ID, holder ids.ShortID) (uint64, error) {
	account, _, err := GetAccount(ctx, reader{l.store}, asset, holder)
	return account.Balance, err
}

// TotalSupply returns the total supply of [asset] (zero if unknown).
func (l *Ledger) TotalSupply(ctx context.Context, asset ids.ID) (uint64, error) {
	record, exists, err := GetAsset(ctx, reader{l.store}, asset)
	if err != nil || !exists {
		return 0, err
	}
	return record.Supply, nil
}

// MinimumBalance returns the existential threshold of [asset] (zero if
// unknown).
func (l *Ledger) MinimumBalance(ctx context.Context, asset ids.ID) (uint64, error) {
	record, exists, err := GetAsset(ctx, reader{l.store}, asset)
	if err != nil || !exists {
		return 0, err
	}
	return record.MinBalance, nil
}

// Asset returns the stored record for [asset].
func (l *Ledger) Asset(ctx context.Context, asset ids.ID) (*AssetRecord, bool, error) {
	return GetAsset(ctx, reader{l.store}, asset)
}

// ApprovalOf returns the remaining allowance delegated by [owner] to
// [delegate].
func (l *Ledger) ApprovalOf(
	ctx context.Context,
	asset ids.ID,
	owner ids.ShortID,
	delegate ids.ShortID,
) (Approval, bool, error) {
	return GetApproval(ctx, reader{l.store}, asset, owner, delegate)
}

// CanDeposit reports whether crediting [amount] to [holder] would be
// admissible.
func (l *Ledger) CanDeposit(
	ctx context.Context,
	asset ids.ID,
	holder ids.ShortID,
	amount uint64,
) (DepositConsequence, error) {
	return l.canIncrease(ctx, reader{l.store}, asset, holder, amount)
}

// CanWithdraw reports the consequence of debiting [amount] from [holder]
// with freezes respected and no keep-alive requirement.
func (l *Ledger) CanWithdraw(
	ctx context.Context,
	asset ids.ID,
	holder ids.ShortID,
	amount uint64,
) (WithdrawConsequence, error) {
	c, _, err := l.canDecrease(ctx, reader{l.store}, asset, holder, amount, false, true)
	return c, err
}

// DecreasableBalance returns the maximum amount that can be withdrawn from
// [holder] under the given keep-alive and freeze rules.
func (l *Ledger) DecreasableBalance(
	ctx context.Context,
	asset ids.ID,
	holder ids.ShortID,
	keepAlive bool,
	respectFrozen bool,
) (uint64, error) {
	return l.decreasableBalance(ctx, reader{l.store}, asset, holder, keepAlive, respectFrozen)
}
