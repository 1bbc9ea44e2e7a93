// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assets

import "github.com/ava-labs/avalanchego/ids"

// AssetRecord holds everything known about one asset class.
type AssetRecord struct {
	// Owner can change the team, destroy the asset and move its deposit.
	Owner ids.ShortID
	// Issuer can mint.
	Issuer ids.ShortID
	// Admin can thaw accounts, force transfers and burn from any account.
	Admin ids.ShortID
	// Freezer can freeze accounts and the asset itself.
	Freezer ids.ShortID

	// Supply is the total across all accounts.
	Supply uint64
	// Deposit reserved by the creator to pay for this record.
	Deposit uint64
	// MinBalance is the existential threshold: no account of this asset is
	// ever persisted with a balance in (0, MinBalance).
	MinBalance uint64

	// Accounts, Sufficients and Approvals are exact counts of live records,
	// maintained in the same atomic mutation scope as the records they
	// count.
	Accounts    uint32
	Sufficients uint32
	Approvals   uint32

	// IsSufficient marks that a nonzero balance alone justifies account
	// existence. Otherwise a consumer reference is required.
	IsSufficient bool
	// IsFrozen disallows unprivileged transfers of the whole asset.
	IsFrozen bool
}

// Witness captures the live-record counters used to guard destruction.
func (a *AssetRecord) Witness() DestroyWitness {
	return DestroyWitness{
		Accounts:    a.Accounts,
		Sufficients: a.Sufficients,
		Approvals:   a.Approvals,
	}
}

// DestroyWitness must match the stored counters exactly for a destroy to
// proceed; any concurrent account or approval churn invalidates it.
type DestroyWitness struct {
	Accounts    uint32
	Sufficients uint32
	Approvals   uint32
}

// AccountBalance is the per-(asset, holder) record. It exists iff the
// balance is nonzero.
type AccountBalance struct {
	Balance uint64
	// IsFrozen disallows unprivileged transfers from this account.
	IsFrozen bool
	// Sufficient records which reference class was taken at creation so
	// teardown releases the same one.
	Sufficient bool
	// Extra is opaque side-car data owned by collaborators; the ledger
	// stores it untouched.
	Extra []byte
}

// Approval is the remaining delegated allowance for (asset, owner,
// delegate), plus the deposit reserved to pay for the record.
type Approval struct {
	Amount  uint64
	Deposit uint64
}
