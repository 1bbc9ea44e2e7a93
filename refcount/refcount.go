// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package refcount tracks account liveness references. A holder stays alive
// while any reference is outstanding: provider references are granted by
// systems that fund the holder's existence, sufficient references by asset
// balances that justify it on their own, and consumer references by state
// that depends on the holder and requires a provider to already exist.
package refcount

import (
	"errors"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
)

var (
	ErrNoProvider        = errors.New("no provider reference")
	ErrConsumerRemaining = errors.New("consumer references remaining")
)

type entry struct {
	providers   uint32
	sufficients uint32
	consumers   uint32
}

func (e entry) empty() bool {
	return e.providers == 0 && e.sufficients == 0 && e.consumers == 0
}

// Counter is an in-memory reference counter safe for concurrent use.
type Counter struct {
	lock    sync.Mutex
	entries map[ids.ShortID]entry
}

func New() *Counter {
	return &Counter{entries: map[ids.ShortID]entry{}}
}

// AddProvider grants [holder] a provider reference.
func (c *Counter) AddProvider(holder ids.ShortID) {
	c.lock.Lock()
	defer c.lock.Unlock()

	e := c.entries[holder]
	e.providers++
	c.entries[holder] = e
}

// RemoveProvider releases a provider reference. Removing the last provider
// while consumer references remain fails with [ErrConsumerRemaining].
func (c *Counter) RemoveProvider(holder ids.ShortID) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	e := c.entries[holder]
	if e.providers == 0 {
		return nil
	}
	if e.providers == 1 && e.consumers > 0 {
		return ErrConsumerRemaining
	}
	e.providers--
	c.set(holder, e)
	return nil
}

func (c *Counter) Providers(holder ids.ShortID) uint32 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.entries[holder].providers
}

func (c *Counter) IncSufficients(holder ids.ShortID) {
	c.lock.Lock()
	defer c.lock.Unlock()

	e := c.entries[holder]
	e.sufficients++
	c.entries[holder] = e
}

func (c *Counter) DecSufficients(holder ids.ShortID) {
	c.lock.Lock()
	defer c.lock.Unlock()

	e := c.entries[holder]
	if e.sufficients == 0 {
		return
	}
	e.sufficients--
	c.set(holder, e)
}

// IncConsumers takes a consumer reference, requiring [holder] to have a
// provider reference already.
func (c *Counter) IncConsumers(holder ids.ShortID) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	e := c.entries[holder]
	if e.providers == 0 {
		return ErrNoProvider
	}
	e.consumers++
	c.entries[holder] = e
	return nil
}

func (c *Counter) DecConsumers(holder ids.ShortID) {
	c.lock.Lock()
	defer c.lock.Unlock()

	e := c.entries[holder]
	if e.consumers == 0 {
		return
	}
	e.consumers--
	c.set(holder, e)
}

// Sufficients reports the outstanding sufficient references for [holder].
func (c *Counter) Sufficients(holder ids.ShortID) uint32 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.entries[holder].sufficients
}

// Consumers reports the outstanding consumer references for [holder].
func (c *Counter) Consumers(holder ids.ShortID) uint32 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.entries[holder].consumers
}

func (c *Counter) set(holder ids.ShortID, e entry) {
	if e.empty() {
		delete(c.entries, holder)
		return
	}
	c.entries[holder] = e
}
