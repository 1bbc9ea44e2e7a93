// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

// Database is the durable layer a [View] overlays. A missing key must be
// reported with [database.ErrNotFound].
type Database interface {
	Get(key []byte) (value []byte, err error)
}
