// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package freezer implements a balance-freezing policy on top of the
// ledger's freeze hook. Callers freeze a portion of a holder's balance per
// asset; the ledger then refuses unprivileged withdrawals that would dip
// into the frozen portion. When a privileged operation melts frozen funds
// anyway, the policy reconciles its books from the ledger's notification.
package freezer

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"
)

// FreezeData is the per-(asset, holder) bookkeeping.
type FreezeData struct {
	// Frozen is the amount the holder must retain above the asset's
	// minimum balance.
	Frozen uint64

	// Melted accumulates frozen funds lost to privileged operations.
	Melted uint64
}

type key struct {
	asset  ids.ID
	holder ids.ShortID
}

// Manager tracks frozen balances in memory and satisfies the ledger's
// freeze hook.
type Manager struct {
	log *zap.Logger

	lock sync.RWMutex
	data map[key]FreezeData
}

func New(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:  log,
		data: map[key]FreezeData{},
	}
}

// Freeze raises the frozen amount for [holder], saturating at the maximum.
func (m *Manager) Freeze(asset ids.ID, holder ids.ShortID, amount uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()

	k := key{asset, holder}
	d := m.data[k]
	if d.Frozen+amount < d.Frozen {
		d.Frozen = ^uint64(0)
	} else {
		d.Frozen += amount
	}
	m.set(k, d)
}

// Thaw lowers the frozen amount for [holder], clamping at zero.
func (m *Manager) Thaw(asset ids.ID, holder ids.ShortID, amount uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()

	k := key{asset, holder}
	d, ok := m.data[k]
	if !ok {
		return
	}
	if amount >= d.Frozen {
		d.Frozen = 0
	} else {
		d.Frozen -= amount
	}
	m.set(k, d)
}

// Frozen returns the bookkeeping for [holder], if any.
func (m *Manager) Frozen(asset ids.ID, holder ids.ShortID) (FreezeData, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	d, ok := m.data[key{asset, holder}]
	return d, ok
}

func (m *Manager) FrozenBalance(_ context.Context, asset ids.ID, holder ids.ShortID) (uint64, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	d, ok := m.data[key{asset, holder}]
	if !ok || d.Frozen == 0 {
		return 0, false
	}
	return d.Frozen, true
}

// Melted reconciles the frozen amount after a privileged reduction:
// whatever is no longer held is recorded as melted.
func (m *Manager) Melted(_ context.Context, asset ids.ID, holder ids.ShortID, leftFrozen uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()

	k := key{asset, holder}
	d, ok := m.data[k]
	if !ok {
		return
	}
	if leftFrozen < d.Frozen {
		d.Melted += d.Frozen - leftFrozen
		d.Frozen = leftFrozen
	}
	m.set(k, d)
	m.log.Debug("melted frozen balance",
		zap.Stringer("asset", asset),
		zap.Stringer("holder", holder),
		zap.Uint64("leftFrozen", leftFrozen),
	)
}

// Died drops all bookkeeping for [holder]; a removed account holds nothing.
func (m *Manager) Died(_ context.Context, asset ids.ID, holder ids.ShortID) {
	m.lock.Lock()
	defer m.lock.Unlock()

	delete(m.data, key{asset, holder})
}

func (m *Manager) set(k key, d FreezeData) {
	if d.Frozen == 0 && d.Melted == 0 {
		delete(m.data, k)
		return
	}
	m.data[k] = d
}
