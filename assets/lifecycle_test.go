// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/yalhawaj/substrate/assets"
	"github.com/yalhawaj/substrate/assets/assetstest"
)

func TestCreate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.Config{AssetDeposit: 5})
	asset := ids.GenerateTestID()
	owner := ids.GenerateTestShortID()
	admin := ids.GenerateTestShortID()

	require.ErrorIs(
		h.ledger.Create(ctx, asset, owner, admin, 0),
		assets.ErrMinBalanceZero,
	)

	require.NoError(h.ledger.Create(ctx, asset, owner, admin, 10))
	require.Equal(uint64(5), h.bank.Reserved(owner))

	record := h.record(t, asset)
	require.Equal(owner, record.Owner)
	require.Equal(admin, record.Issuer)
	require.Equal(admin, record.Admin)
	require.Equal(admin, record.Freezer)
	require.Equal(uint64(10), record.MinBalance)
	require.False(record.IsSufficient)

	require.ErrorIs(
		h.ledger.Create(ctx, asset, owner, admin, 10),
		assets.ErrInUse,
	)
}

func TestCreateDepositFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.Config{AssetDeposit: 5})
	errReserve := errors.New("reserve failed")
	h.bank.ReserveErr = errReserve

	asset := ids.GenerateTestID()
	owner := ids.GenerateTestShortID()
	err := h.ledger.Create(ctx, asset, owner, owner, 10)
	require.ErrorIs(err, errReserve)

	_, exists, err := h.ledger.Asset(ctx, asset)
	require.NoError(err)
	require.False(exists)
}

func TestDestroy(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.Config{ApprovalDeposit: 3})
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))
	require.NoError(h.ledger.Mint(ctx, asset, owner, bob, 50))
	require.NoError(h.ledger.ApproveTransfer(ctx, asset, alice, bob, 10))

	// A witness captured before the last approval no longer matches.
	stale := assets.DestroyWitness{Accounts: 2, Sufficients: 2}
	require.ErrorIs(h.ledger.Destroy(ctx, asset, stale, &owner), assets.ErrBadWitness)

	wrongOwner := ids.GenerateTestShortID()
	witness := h.record(t, asset).Witness()
	require.ErrorIs(h.ledger.Destroy(ctx, asset, witness, &wrongOwner), assets.ErrNoPermission)

	require.NoError(h.ledger.Destroy(ctx, asset, witness, &owner))
	_, exists, err := h.ledger.Asset(ctx, asset)
	require.NoError(err)
	require.False(exists)
	require.Zero(h.balance(t, asset, alice))
	require.Zero(h.balance(t, asset, bob))
	require.Zero(h.refs.Sufficients(alice))
	require.Zero(h.refs.Sufficients(bob))
	require.Zero(h.bank.Reserved(alice))

	died := 0
	for _, event := range h.freezer.Events() {
		if event.Kind == assetstest.EventDied {
			died++
		}
	}
	require.Equal(2, died)
}

func TestFreezeUnknownAccount(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)

	err := h.ledger.Freeze(ctx, asset, owner, ids.GenerateTestShortID())
	require.ErrorIs(err, assets.ErrBalanceZero)
}

func TestFreezePermissions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	stranger := ids.GenerateTestShortID()
	require.ErrorIs(h.ledger.Freeze(ctx, asset, stranger, alice), assets.ErrNoPermission)
	require.NoError(h.ledger.Freeze(ctx, asset, owner, alice))
	require.ErrorIs(h.ledger.Thaw(ctx, asset, stranger, alice), assets.ErrNoPermission)
	require.NoError(h.ledger.Thaw(ctx, asset, owner, alice))

	require.ErrorIs(h.ledger.FreezeAsset(ctx, asset, stranger), assets.ErrNoPermission)
	require.NoError(h.ledger.FreezeAsset(ctx, asset, owner))
	require.ErrorIs(h.ledger.ThawAsset(ctx, asset, stranger), assets.ErrNoPermission)
	require.NoError(h.ledger.ThawAsset(ctx, asset, owner))
}

func TestTransferOwnership(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.Config{AssetDeposit: 5})
	asset := ids.GenerateTestID()
	owner := ids.GenerateTestShortID()
	require.NoError(h.ledger.Create(ctx, asset, owner, owner, 10))

	newOwner := ids.GenerateTestShortID()
	require.ErrorIs(
		h.ledger.TransferOwnership(ctx, asset, newOwner, newOwner),
		assets.ErrNoPermission,
	)

	require.NoError(h.ledger.TransferOwnership(ctx, asset, owner, newOwner))
	require.Equal(newOwner, h.record(t, asset).Owner)

	// The deposit moved with the ownership.
	require.Zero(h.bank.Reserved(owner))
	require.Equal(uint64(5), h.bank.Reserved(newOwner))
}

func TestSetTeam(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()

	issuer := ids.GenerateTestShortID()
	admin := ids.GenerateTestShortID()
	freezer := ids.GenerateTestShortID()
	require.ErrorIs(
		h.ledger.SetTeam(ctx, asset, alice, issuer, admin, freezer),
		assets.ErrNoPermission,
	)
	require.NoError(h.ledger.SetTeam(ctx, asset, owner, issuer, admin, freezer))

	// The old issuer lost the right to mint; the new one gained it.
	require.ErrorIs(h.ledger.Mint(ctx, asset, owner, alice, 100), assets.ErrNoPermission)
	require.NoError(h.ledger.Mint(ctx, asset, issuer, alice, 100))
}

func TestForceAssetStatus(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, assets.DefaultConfig())
	asset, owner := h.newAsset(t, 10)
	alice := ids.GenerateTestShortID()
	require.NoError(h.ledger.Mint(ctx, asset, owner, alice, 100))

	newOwner := ids.GenerateTestShortID()
	require.NoError(h.ledger.ForceAssetStatus(
		ctx, asset, newOwner, newOwner, newOwner, newOwner, 5, true, false,
	))

	record := h.record(t, asset)
	require.Equal(newOwner, record.Owner)
	require.Equal(uint64(5), record.MinBalance)
	require.Equal(uint64(100), record.Supply)
}
