// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets_test

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/yalhawaj/substrate/assets"
	"github.com/yalhawaj/substrate/assets/assetstest"
)

func TestTransfer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	moved, err := h.ledger.Transfer(ctx, asset, alice, bob, 40)
	require.NoError(err)
	require.Equal(uint64(40), moved)
	require.Equal(uint64(60), h.balance(t, asset, alice))
	require.Equal(uint64(40), h.balance(t, asset, bob))
	require.Equal(uint64(100), h.supply(t, asset))
	require.Equal(uint32(2), h.record(t, asset).Accounts)
}

func TestTransferSweepsDust(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 12))

	// Moving 5 would leave 7, under the minimum of 10: the whole 12 moves
	// and the source account dies.
	moved, err := h.ledger.Transfer(ctx, asset, alice, bob, 5)
	require.NoError(err)
	require.Equal(uint64(12), moved)
	require.Zero(h.balance(t, asset, alice))
	require.Equal(uint64(12), h.balance(t, asset, bob))
	require.Equal(uint64(12), h.supply(t, asset))
	require.Equal(uint32(1), h.record(t, asset).Accounts)
	require.Zero(h.refs.Sufficients(alice))

	events := h.freezer.Events()
	require.Len(events, 1)
	require.Equal(assetstest.EventDied, events[0].Kind)
	require.Equal(alice, events[0].Holder)
}

func TestTransferBurnDust(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 12))

	// Same sweep, but the 7 units of dust are destroyed instead of moved.
	moved, err := h.ledger.TransferWithOptions(ctx, asset, alice, bob, 5, assets.TransferOptions{
		RespectFrozen: true,
		BurnDust:      true,
	})
	require.ErrorIs(err, assets.ErrBelowMinimum) // 5 is under bob's minimum
	require.Zero(moved)

	moved, err = h.ledger.TransferWithOptions(ctx, asset, alice, bob, 10, assets.TransferOptions{
		RespectFrozen: true,
		BurnDust:      true,
	})
	require.NoError(err)
	require.Equal(uint64(10), moved)
	require.Zero(h.balance(t, asset, alice))
	require.Equal(uint64(10), h.balance(t, asset, bob))
	require.Equal(uint64(10), h.supply(t, asset))
}

func TestTransferKeepAlive(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 22))

	_, err := h.ledger.TransferKeepAlive(ctx, asset, alice, bob, 13)
	require.ErrorIs(err, assets.ErrBalanceLow)
	require.Equal(uint64(22), h.balance(t, asset, alice))

	moved, err := h.ledger.TransferKeepAlive(ctx, asset, alice, bob, 12)
	require.NoError(err)
	require.Equal(uint64(12), moved)
	require.Equal(uint64(10), h.balance(t, asset, alice))
}

func TestTransferDestBelowMinimum(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	_, err := h.ledger.Transfer(ctx, asset, alice, bob, 5)
	require.ErrorIs(err, assets.ErrBelowMinimum)
	require.Equal(uint64(100), h.balance(t, asset, alice))
	require.Zero(h.balance(t, asset, bob))
}

func TestTransferInsufficient(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	_, err := h.ledger.Transfer(ctx, asset, alice, bob, 150)
	require.ErrorIs(err, assets.ErrBalanceLow)

	// Best-effort moves what it can instead.
	moved, err := h.ledger.TransferWithOptions(ctx, asset, alice, bob, 150, assets.TransferOptions{
		RespectFrozen: true,
		BestEffort:    true,
	})
	require.NoError(err)
	require.Equal(uint64(100), moved)
	require.Zero(h.balance(t, asset, alice))
	require.Equal(uint64(100), h.balance(t, asset, bob))
}

func TestTransferZero(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, _ := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()

	moved, err := h.ledger.Transfer(ctx, asset, alice, bob, 0)
	require.NoError(err)
	require.Zero(moved)
	require.Zero(h.record(t, asset).Accounts)
}

func TestTransferToSelf(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 50))

	moved, err := h.ledger.Transfer(ctx, asset, alice, alice, 20)
	require.NoError(err)
	require.Equal(uint64(20), moved)
	require.Equal(uint64(50), h.balance(t, asset, alice))
	require.Equal(uint32(1), h.record(t, asset).Accounts)
}

func TestTransferFrozenAccount(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	require.NoError(h.ledger.Freeze(ctx, asset, owner, alice))
	_, err := h.ledger.Transfer(ctx, asset, alice, bob, 40)
	require.ErrorIs(err, assets.ErrFrozen)

	require.NoError(h.ledger.Thaw(ctx, asset, owner, alice))
	_, err = h.ledger.Transfer(ctx, asset, alice, bob, 40)
	require.NoError(err)
}

func TestTransferFrozenAsset(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	require.NoError(h.ledger.FreezeAsset(ctx, asset, owner))
	_, err := h.ledger.Transfer(ctx, asset, alice, bob, 40)
	require.ErrorIs(err, assets.ErrFrozen)

	require.NoError(h.ledger.ThawAsset(ctx, asset, owner))
	_, err = h.ledger.Transfer(ctx, asset, alice, bob, 40)
	require.NoError(err)
}

func TestTransferRespectsExternalFreeze(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))
	h.freezer.SetFrozen(asset, alice, 30)

	// frozen(30) + minimum(10) must remain: only 60 is movable.
	_, err := h.ledger.Transfer(ctx, asset, alice, bob, 61)
	require.ErrorIs(err, assets.ErrBalanceLow)

	moved, err := h.ledger.Transfer(ctx, asset, alice, bob, 60)
	require.NoError(err)
	require.Equal(uint64(60), moved)
	require.Equal(uint64(40), h.balance(t, asset, alice))
}

func TestForceTransferOverridesExternalFreeze(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))
	h.freezer.SetFrozen(asset, alice, 30)

	_, err := h.ledger.ForceTransfer(ctx, asset, ids.GenerateTestShortID(), alice, bob, 80)
	require.ErrorIs(err, assets.ErrNoPermission)

	moved, err := h.ledger.ForceTransfer(ctx, asset, owner, alice, bob, 80)
	require.NoError(err)
	require.Equal(uint64(80), moved)
	require.Equal(uint64(20), h.balance(t, asset, alice))

	events := h.freezer.Events()
	require.Len(events, 1)
	require.Equal(assetstest.EventMelted, events[0].Kind)
	require.Equal(uint64(10), events[0].LeftFrozen)
}
