// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

// DepositConsequence is the outcome of a deposit admissibility check.
type DepositConsequence uint8

const (
	DepositSuccess DepositConsequence = iota
	DepositBelowMinimum
	DepositCannotCreate
	DepositUnknownAsset
	DepositOverflow
)

// Err maps the consequence to its sentinel error (nil for success).
func (c DepositConsequence) Err() error {
	switch c {
	case DepositSuccess:
		return nil
	case DepositBelowMinimum:
		return ErrBelowMinimum
	case DepositCannotCreate:
		return ErrCannotCreate
	case DepositUnknownAsset:
		return ErrUnknownAsset
	default:
		return ErrOverflow
	}
}

// WithdrawKind enumerates the outcomes of a withdraw admissibility check.
type WithdrawKind uint8

const (
	WithdrawSuccess WithdrawKind = iota
	// WithdrawReducedToZero is a success: the withdrawal leaves the account
	// below the minimum balance, so the residual dust must be swept into it,
	// emptying the account entirely.
	WithdrawReducedToZero
	WithdrawNoFunds
	WithdrawWouldDie
	WithdrawFrozen
	WithdrawUnderflow
	WithdrawOverflow
	WithdrawUnknownAsset
)

// WithdrawConsequence is the outcome of a withdraw admissibility check.
// Dust is only meaningful for [WithdrawReducedToZero].
type WithdrawConsequence struct {
	Kind WithdrawKind
	Dust uint64
}

// Err maps the consequence to its sentinel error. Success and ReducedToZero
// both map to nil; the caller is responsible for sweeping Dust.
func (c WithdrawConsequence) Err() error {
	switch c.Kind {
	case WithdrawSuccess, WithdrawReducedToZero:
		return nil
	case WithdrawNoFunds:
		return ErrNoFunds
	case WithdrawWouldDie:
		return ErrWouldDie
	case WithdrawFrozen:
		return ErrFrozen
	case WithdrawUnderflow:
		return ErrUnderflow
	case WithdrawOverflow:
		return ErrOverflow
	default:
		return ErrUnknownAsset
	}
}
