// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	IDLen      = 32
	ShortIDLen = 20
	ByteLen    = 1
	Uint16Len  = 2
	Uint32Len  = 4
	Uint64Len  = 8
	MaxUint16  = ^uint16(0)
	MaxUint32  = ^uint32(0)
	MaxUint64  = ^uint64(0)
)
