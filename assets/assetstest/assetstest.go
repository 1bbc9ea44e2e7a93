// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package assetstest provides scripted collaborator doubles for exercising
// the ledger.
package assetstest

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
)

type EventKind uint8

const (
	EventMelted EventKind = iota
	EventDied
)

// Event records one freezer notification in arrival order.
type Event struct {
	Kind       EventKind
	Asset      ids.ID
	Holder     ids.ShortID
	LeftFrozen uint64
}

type key struct {
	asset  ids.ID
	holder ids.ShortID
}

// Freezer returns scripted frozen balances and records every notification.
type Freezer struct {
	lock   sync.Mutex
	frozen map[key]uint64
	events []Event
}

func NewFreezer() *Freezer {
	return &Freezer{frozen: map[key]uint64{}}
}

// SetFrozen scripts the frozen amount returned for [holder].
func (f *Freezer) SetFrozen(asset ids.ID, holder ids.ShortID, amount uint64) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if amount == 0 {
		delete(f.frozen, key{asset, holder})
		return
	}
	f.frozen[key{asset, holder}] = amount
}

func (f *Freezer) FrozenBalance(_ context.Context, asset ids.ID, holder ids.ShortID) (uint64, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()

	amount, ok := f.frozen[key{asset, holder}]
	return amount, ok
}

func (f *Freezer) Melted(_ context.Context, asset ids.ID, holder ids.ShortID, leftFrozen uint64) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.events = append(f.events, Event{
		Kind:       EventMelted,
		Asset:      asset,
		Holder:     holder,
		LeftFrozen: leftFrozen,
	})
}

func (f *Freezer) Died(_ context.Context, asset ids.ID, holder ids.ShortID) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.events = append(f.events, Event{
		Kind:   EventDied,
		Asset:  asset,
		Holder: holder,
	})
}

// Events returns a copy of all notifications received so far.
func (f *Freezer) Events() []Event {
	f.lock.Lock()
	defer f.lock.Unlock()

	events := make([]Event, len(f.events))
	copy(events, f.events)
	return events
}

// Depository records reservations per holder and can be scripted to fail.
type Depository struct {
	lock     sync.Mutex
	reserved map[ids.ShortID]uint64

	// ReserveErr, when non-nil, is returned by every Reserve call.
	ReserveErr error
}

func NewDepository() *Depository {
	return &Depository{reserved: map[ids.ShortID]uint64{}}
}

func (d *Depository) Reserve(holder ids.ShortID, amount uint64) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.ReserveErr != nil {
		return d.ReserveErr
	}
	d.reserved[holder] += amount
	return nil
}

func (d *Depository) Unreserve(holder ids.ShortID, amount uint64) {
	d.lock.Lock()
	defer d.lock.Unlock()

	held := d.reserved[holder]
	if amount >= held {
		delete(d.reserved, holder)
		return
	}
	d.reserved[holder] = held - amount
}

// Reserved reports the amount currently reserved from [holder].
func (d *Depository) Reserved(holder ids.ShortID) uint64 {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.reserved[holder]
}
