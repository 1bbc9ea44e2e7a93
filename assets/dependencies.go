// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

// Store is the durable key-value layer the ledger runs over. Every top-level
// operation stages its writes in a [state.View] and applies them through a
// single batch, so a [Store] only needs point reads, batches, and prefix
// iteration. Both avalanchego's memdb and the pebble package satisfy this.
type Store interface {
	Get(key []byte) ([]byte, error)
	NewBatch() database.Batch
	NewIteratorWithPrefix(prefix []byte) database.Iterator
}

// Freezer allows an external policy to enforce a per-asset, per-account
// minimum balance beyond the asset's own MinBalance. The frozen amount is
// additive: the account must retain MinBalance plus the frozen amount.
//
// If a privileged operation reduces a balance below that requirement anyway,
// Melted is called with the amount left above MinBalance (possibly zero) so
// the policy can reconcile its own bookkeeping. Died is called whenever an
// account record is deleted. Neither notification may fail; both fire after
// the ledger's own mutation has been committed.
type Freezer interface {
	// FrozenBalance returns the extra frozen amount for [holder], if any.
	FrozenBalance(ctx context.Context, asset ids.ID, holder ids.ShortID) (uint64, bool)

	// Melted is called when a reduction violated the frozen amount.
	// [leftFrozen] is what remains above the asset's minimum balance.
	Melted(ctx context.Context, asset ids.ID, holder ids.ShortID, leftFrozen uint64)

	// Died is called when the account record for [holder] was removed.
	Died(ctx context.Context, asset ids.ID, holder ids.ShortID)
}

// NoopFreezer enforces nothing.
type NoopFreezer struct{}

func (NoopFreezer) FrozenBalance(context.Context, ids.ID, ids.ShortID) (uint64, bool) {
	return 0, false
}
func (NoopFreezer) Melted(context.Context, ids.ID, ids.ShortID, uint64) {}
func (NoopFreezer) Died(context.Context, ids.ID, ids.ShortID)          {}

// ReferenceCounter tracks, per holder, how many subsystems require the
// holder to stay alive. Sufficient references are granted by assets whose
// nonzero balance alone justifies existence; consumer references require the
// holder to already have an outside provider.
type ReferenceCounter interface {
	// Providers reports how many provider references [holder] has. A holder
	// with zero providers cannot take on consumer references.
	Providers(holder ids.ShortID) uint32

	IncSufficients(holder ids.ShortID)
	DecSufficients(holder ids.ShortID)

	// IncConsumers returns [ErrNoProvider] if [holder] has no provider
	// reference to hang the consumer reference on.
	IncConsumers(holder ids.ShortID) error
	DecConsumers(holder ids.ShortID)
}

// Depository reserves funds that pay for ledger storage (asset creation and
// approval records). The ledger treats it as pure pass-through accounting.
type Depository interface {
	Reserve(holder ids.ShortID, amount uint64) error
	Unreserve(holder ids.ShortID, amount uint64)
}

// NoopDepository reserves nothing and always succeeds.
type NoopDepository struct{}

func (NoopDepository) Reserve(ids.ShortID, uint64) error { return nil }
func (NoopDepository) Unreserve(ids.ShortID, uint64)     {}
