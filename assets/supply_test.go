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
	"github.com/yalhawaj/substrate/refcount"
)

func TestMint(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()

	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))
	require.Equal(uint64(100), h.balance(t, asset, alice))
	require.Equal(uint64(100), h.supply(t, asset))

	record := h.record(t, asset)
	require.Equal(uint32(1), record.Accounts)
	require.Equal(uint32(1), record.Sufficients)
	require.Equal(uint32(1), h.refs.Sufficients(alice))

	// Further mints top up the same account without a new reference.
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 50))
	require.Equal(uint64(150), h.balance(t, asset, alice))
	require.Equal(uint32(1), h.refs.Sufficients(alice))
}

func TestMintChecksIssuer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, _ := h.newAsset(t, 1)
	alice := ids.GenerateTestShortID()

	err := h.ledger.Mint(ctx, asset, ids.GenerateTestShortID(), alice, 100)
	require.ErrorIs(err, assets.ErrNoPermission)
	require.Zero(h.balance(t, asset, alice))
}

func TestMintBelowMinimum(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()

	err := h.ledger.Mint(ctx, asset, owner, alice, 9)
	require.ErrorIs(err, assets.ErrBelowMinimum)

	// Once the account exists, small top-ups are fine.
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 10))
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 1))
	require.Equal(uint64(11), h.balance(t, asset, alice))
}

func TestMintRequiresProvider(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset := ids.GenerateTestID()
	owner := ids.GenerateTestShortID()
	require.NoError(h.ledger.ForceCreate(ctx, asset, owner, false, 1))
	alice := ids.GenerateTestShortID()

	err := h.ledger.Mint(ctx, asset, owner, alice, 100)
	require.ErrorIs(err, assets.ErrCannotCreate)

	h.refs.AddProvider(alice)
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))
	require.Equal(uint32(1), h.refs.Consumers(alice))
	require.Zero(h.refs.Sufficients(alice))

	// The consumer reference pins the holder.
	require.ErrorIs(h.refs.RemoveProvider(alice), refcount.ErrConsumerRemaining)
}

func TestBurnBestEffort(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	// Burning more than held caps at the balance and deletes the account.
	burned, err := h.ledger.Burn(ctx, asset, owner, alice, 500)
	require.NoError(err)
	require.Equal(uint64(100), burned)
	require.Zero(h.balance(t, asset, alice))
	require.Zero(h.supply(t, asset))
	require.Zero(h.record(t, asset).Accounts)
	require.Zero(h.refs.Sufficients(alice))

	// Nothing left to burn: a no-op, not an error.
	burned, err = h.ledger.Burn(ctx, asset, owner, alice, 10)
	require.NoError(err)
	require.Zero(burned)
}

func TestBurnSweepsDust(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	// Burning 95 would leave 5, under the minimum: the dust goes with it.
	burned, err := h.ledger.Burn(ctx, asset, owner, alice, 95)
	require.NoError(err)
	require.Equal(uint64(100), burned)
	require.Zero(h.balance(t, asset, alice))
	require.Zero(h.supply(t, asset))
}

func TestBurnFromExact(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	_, err := h.ledger.BurnFrom(ctx, asset, alice, 200)
	require.ErrorIs(err, assets.ErrBalanceLow)
	require.Equal(uint64(100), h.balance(t, asset, alice))

	burned, err := h.ledger.BurnFrom(ctx, asset, alice, 40)
	require.NoError(err)
	require.Equal(uint64(40), burned)
	require.Equal(uint64(60), h.balance(t, asset, alice))
}

func TestSlashRespectsFrozen(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))
	h.freezer.SetFrozen(asset, alice, 30)

	// frozen(30) + minimum(10) must remain.
	burned, err := h.ledger.Slash(ctx, asset, alice, 100)
	require.NoError(err)
	require.Equal(uint64(60), burned)
	require.Equal(uint64(40), h.balance(t, asset, alice))
	require.Empty(h.freezer.Events())
}

func TestBurnOverridesFrozenAndMelts(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))
	h.freezer.SetFrozen(asset, alice, 30)

	// The privileged burn takes everything; the freezer hears the account
	// died and that nothing frozen remains.
	burned, err := h.ledger.Burn(ctx, asset, owner, alice, 100)
	require.NoError(err)
	require.Equal(uint64(100), burned)

	events := h.freezer.Events()
	require.Len(events, 2)
	require.Equal(assetstest.EventDied, events[0].Kind)
	require.Equal(assetstest.EventMelted, events[1].Kind)
	require.Zero(events[1].LeftFrozen)
}

func TestBurnPartialMelt(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))
	h.freezer.SetFrozen(asset, alice, 30)

	// Burning 80 leaves 20: above the minimum, so the account survives, but
	// only 10 of the 30 frozen remain above it.
	burned, err := h.ledger.Burn(ctx, asset, owner, alice, 80)
	require.NoError(err)
	require.Equal(uint64(80), burned)
	require.Equal(uint64(20), h.balance(t, asset, alice))

	events := h.freezer.Events()
	require.Len(events, 1)
	require.Equal(assetstest.EventMelted, events[0].Kind)
	require.Equal(uint64(10), events[0].LeftFrozen)
}

func TestZeroAmountNoOps(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()

	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 0))
	burned, err := h.ledger.Burn(ctx, asset, owner, alice, 0)
	require.NoError(err)
	require.Zero(burned)
	require.Zero(h.record(t, asset).Accounts)
}
