// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/yalhawaj/substrate/consts"
	"github.com/yalhawaj/substrate/state"
)

// State layout:
// 0x0/ (assets)
//   -> [asset] => owner|issuer|admin|freezer|supply|deposit|minBalance|accounts|sufficients|approvals|sufficient|frozen
// 0x1/ (accounts)
//   -> [asset|holder] => balance|frozen|sufficient|extraLen|extra
// 0x2/ (approvals)
//   -> [asset|owner|delegate] => amount|deposit

const (
	assetPrefix    = 0x0
	accountPrefix  = 0x1
	approvalPrefix = 0x2
)

const (
	assetValueLen    = 4*consts.ShortIDLen + 3*consts.Uint64Len + 3*consts.Uint32Len + 2*consts.ByteLen
	approvalValueLen = 2 * consts.Uint64Len
)

// [assetPrefix] + [asset]
func AssetKey(asset ids.ID) (k []byte) {
	k = make([]byte, 1+consts.IDLen)
	k[0] = assetPrefix
	copy(k[1:], asset[:])
	return
}

// [accountPrefix] + [asset] + [holder]
func AccountKey(asset ids.ID, holder ids.ShortID) (k []byte) {
	k = make([]byte, 1+consts.IDLen+consts.ShortIDLen)
	k[0] = accountPrefix
	copy(k[1:], asset[:])
	copy(k[1+consts.IDLen:], holder[:])
	return
}

// [accountPrefix] + [asset]
func accountKeyPrefix(asset ids.ID) (k []byte) {
	k = make([]byte, 1+consts.IDLen)
	k[0] = accountPrefix
	copy(k[1:], asset[:])
	return
}

// [approvalPrefix] + [asset] + [owner] + [delegate]
func ApprovalKey(asset ids.ID, owner ids.ShortID, delegate ids.ShortID) (k []byte) {
	k = make([]byte, 1+consts.IDLen+2*consts.ShortIDLen)
	k[0] = approvalPrefix
	copy(k[1:], asset[:])
	copy(k[1+consts.IDLen:], owner[:])
	copy(k[1+consts.IDLen+consts.ShortIDLen:], delegate[:])
	return
}

// [approvalPrefix] + [asset]
func approvalKeyPrefix(asset ids.ID) (k []byte) {
	k = make([]byte, 1+consts.IDLen)
	k[0] = approvalPrefix
	copy(k[1:], asset[:])
	return
}

func boolByte(b bool) byte {
	if b {
		return 0x1
	}
	return 0x0
}

func GetAsset(
	ctx context.Context,
	im state.Immutable,
	asset ids.ID,
) (*AssetRecord, bool, error) {
	v, err := im.GetValue(ctx, AssetKey(asset))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var (
		a AssetRecord
		o = 0
	)
	copy(a.Owner[:], v[o:])
	o += consts.ShortIDLen
	copy(a.Issuer[:], v[o:])
	o += consts.ShortIDLen
	copy(a.Admin[:], v[o:])
	o += consts.ShortIDLen
	copy(a.Freezer[:], v[o:])
	o += consts.ShortIDLen
	a.Supply = binary.BigEndian.Uint64(v[o:])
	o += consts.Uint64Len
	a.Deposit = binary.BigEndian.Uint64(v[o:])
	o += consts.Uint64Len
	a.MinBalance = binary.BigEndian.Uint64(v[o:])
	o += consts.Uint64Len
	a.Accounts = binary.BigEndian.Uint32(v[o:])
	o += consts.Uint32Len
	a.Sufficients = binary.BigEndian.Uint32(v[o:])
	o += consts.Uint32Len
	a.Approvals = binary.BigEndian.Uint32(v[o:])
	o += consts.Uint32Len
	a.IsSufficient = v[o] == 0x1
	a.IsFrozen = v[o+1] == 0x1
	return &a, true, nil
}

func SetAsset(
	ctx context.Context,
	mu state.Mutable,
	asset ids.ID,
	a *AssetRecord,
) error {
	v := make([]byte, assetValueLen)
	o := 0
	copy(v[o:], a.Owner[:])
	o += consts.ShortIDLen
	copy(v[o:], a.Issuer[:])
	o += consts.ShortIDLen
	copy(v[o:], a.Admin[:])
	o += consts.ShortIDLen
	copy(v[o:], a.Freezer[:])
	o += consts.ShortIDLen
	binary.BigEndian.PutUint64(v[o:], a.Supply)
	o += consts.Uint64Len
	binary.BigEndian.PutUint64(v[o:], a.Deposit)
	o += consts.Uint64Len
	binary.BigEndian.PutUint64(v[o:], a.MinBalance)
	o += consts.Uint64Len
	binary.BigEndian.PutUint32(v[o:], a.Accounts)
	o += consts.Uint32Len
	binary.BigEndian.PutUint32(v[o:], a.Sufficients)
	o += consts.Uint32Len
	binary.BigEndian.PutUint32(v[o:], a.Approvals)
	o += consts.Uint32Len
	v[o] = boolByte(a.IsSufficient)
	v[o+1] = boolByte(a.IsFrozen)
	return mu.Insert(ctx, AssetKey(asset), v)
}

func RemoveAsset(ctx context.Context, mu state.Mutable, asset ids.ID) error {
	return mu.Remove(ctx, AssetKey(asset))
}

// GetAccount returns the zero record when no account is persisted; a zero
// balance and a present record are mutually exclusive states.
func GetAccount(
	ctx context.Context,
	im state.Immutable,
	asset ids.ID,
	holder ids.ShortID,
) (AccountBalance, bool, error) {
	v, err := im.GetValue(ctx, AccountKey(asset, holder))
	if errors.Is(err, database.ErrNotFound) {
		return AccountBalance{}, false, nil
	}
	if err != nil {
		return AccountBalance{}, false, err
	}
	return decodeAccount(v), true, nil
}

func decodeAccount(v []byte) AccountBalance {
	var a AccountBalance
	a.Balance = binary.BigEndian.Uint64(v)
	a.IsFrozen = v[consts.Uint64Len] == 0x1
	a.Sufficient = v[consts.Uint64Len+1] == 0x1
	extraLen := binary.BigEndian.Uint16(v[consts.Uint64Len+2:])
	if extraLen > 0 {
		a.Extra = make([]byte, extraLen)
		copy(a.Extra, v[consts.Uint64Len+2+consts.Uint16Len:])
	}
	return a
}

// holderFromAccountKey extracts the holder from an account key produced by
// [AccountKey].
func holderFromAccountKey(k []byte) (holder ids.ShortID) {
	copy(holder[:], k[1+consts.IDLen:])
	return
}

func SetAccount(
	ctx context.Context,
	mu state.Mutable,
	asset ids.ID,
	holder ids.ShortID,
	a AccountBalance,
) error {
	if len(a.Extra) > int(consts.MaxUint16) {
		return ErrExtraTooLong
	}
	v := make([]byte, consts.Uint64Len+2*consts.ByteLen+consts.Uint16Len+len(a.Extra))
	binary.BigEndian.PutUint64(v, a.Balance)
	v[consts.Uint64Len] = boolByte(a.IsFrozen)
	v[consts.Uint64Len+1] = boolByte(a.Sufficient)
	binary.BigEndian.PutUint16(v[consts.Uint64Len+2:], uint16(len(a.Extra)))
	copy(v[consts.Uint64Len+2+consts.Uint16Len:], a.Extra)
	return mu.Insert(ctx, AccountKey(asset, holder), v)
}

func RemoveAccount(
	ctx context.Context,
	mu state.Mutable,
	asset ids.ID,
	holder ids.ShortID,
) error {
	return mu.Remove(ctx, AccountKey(asset, holder))
}

func GetApproval(
	ctx context.Context,
	im state.Immutable,
	asset ids.ID,
	owner ids.ShortID,
	delegate ids.ShortID,
) (Approval, bool, error) {
	v, err := im.GetValue(ctx, ApprovalKey(asset, owner, delegate))
	if errors.Is(err, database.ErrNotFound) {
		return Approval{}, false, nil
	}
	if err != nil {
		return Approval{}, false, err
	}
	return decodeApproval(v), true, nil
}

func decodeApproval(v []byte) Approval {
	return Approval{
		Amount:  binary.BigEndian.Uint64(v),
		Deposit: binary.BigEndian.Uint64(v[consts.Uint64Len:]),
	}
}

func SetApproval(
	ctx context.Context,
	mu state.Mutable,
	asset ids.ID,
	owner ids.ShortID,
	delegate ids.ShortID,
	a Approval,
) error {
	v := make([]byte, approvalValueLen)
	binary.BigEndian.PutUint64(v, a.Amount)
	binary.BigEndian.PutUint64(v[consts.Uint64Len:], a.Deposit)
	return mu.Insert(ctx, ApprovalKey(asset, owner, delegate), v)
}

func RemoveApproval(
	ctx context.Context,
	mu state.Mutable,
	asset ids.ID,
	owner ids.ShortID,
	delegate ids.ShortID,
) error {
	return mu.Remove(ctx, ApprovalKey(asset, owner, delegate))
}
