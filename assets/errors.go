// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

import "errors"

var (
	ErrUnknownAsset    = errors.New("unknown asset")
	ErrInUse           = errors.New("asset id already in use")
	ErrMinBalanceZero  = errors.New("minimum balance must be non-zero")
	ErrBadWitness      = errors.New("invalid destroy witness")
	ErrNoPermission    = errors.New("no permission")
	ErrBalanceZero     = errors.New("account has no balance")
	ErrOverflow        = errors.New("balance overflow")
	ErrUnderflow       = errors.New("supply underflow")
	ErrBalanceLow      = errors.New("balance too low")
	ErrNoFunds         = errors.New("no funds available")
	ErrBelowMinimum    = errors.New("deposit below minimum balance")
	ErrCannotCreate    = errors.New("cannot create account")
	ErrNoProvider      = errors.New("no provider reference for account")
	ErrFrozen          = errors.New("frozen")
	ErrWouldDie        = errors.New("source account would die")
	ErrUnapproved      = errors.New("not approved for transfer")
	ErrUnknownApproval = errors.New("unknown approval")
	ErrExtraTooLong    = errors.New("extra data too long")
)
