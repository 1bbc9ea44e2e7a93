// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

const defaultOps = 4

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
}

// View is an uncommitted overlay on top of a [Database]. All writes are
// buffered in memory until [Commit] replays them onto a batch; discarding
// the view discards the writes.
type View struct {
	db Database

	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// ops is a record of all operations performed on the view. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op
}

func NewView(db Database) *View {
	return &View{
		db:                 db,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte]),
		ops:                make([]*op, 0, defaultOps),
	}
}

func (v *View) getValue(_ context.Context, key string) ([]byte, bool, bool, error) {
	if mv, ok := v.pendingChangedKeys[key]; ok {
		if mv.IsNothing() {
			return nil, true, false, nil
		}
		return mv.Value(), true, true, nil
	}
	dv, err := v.db.Get([]byte(key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, false, nil
	}
	if err != nil {
		return nil, false, false, err
	}
	return dv, false, true, nil
}

// GetValue returns the pending value for [key], falling through to the
// underlying database. Returns [database.ErrNotFound] if the key is absent.
func (v *View) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	val, _, exists, err := v.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return val, nil
}

// Insert stages a write of [value] to [key].
//
// Any bytes passed into [Insert] are consumed by the view and should not be
// modified/referenced after this call.
func (v *View) Insert(ctx context.Context, key []byte, value []byte) error {
	k := string(key)
	past, changed, exists, err := v.getValue(ctx, k)
	if err != nil {
		return err
	}
	v.pendingChangedKeys[k] = maybe.Some(value)
	v.ops = append(v.ops, &op{
		k: k,

		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// Remove stages a deletion of [key]. Removing an absent key is a no-op.
func (v *View) Remove(ctx context.Context, key []byte) error {
	k := string(key)
	past, changed, exists, err := v.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	v.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	v.ops = append(v.ops, &op{
		k: k,

		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// OpIndex returns the number of operations performed on the view.
func (v *View) OpIndex() int {
	return len(v.ops)
}

// Rollback restores the view to the state it was in when OpIndex returned
// [restorePoint].
func (v *View) Rollback(_ context.Context, restorePoint int) {
	for i := len(v.ops) - 1; i >= restorePoint; i-- {
		op := v.ops[i]
		if !op.pastChanged {
			delete(v.pendingChangedKeys, op.k)
			continue
		}
		if !op.pastExists {
			v.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
			continue
		}
		v.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
	}
	v.ops = v.ops[:restorePoint]
}

func (v *View) PendingChanges() int {
	return len(v.pendingChangedKeys)
}

// Commit replays all pending changes onto [w]. When [w] is a database batch,
// writing that batch applies the entire view atomically.
//
// Once [Commit] is called, the view should not be used again.
func (v *View) Commit(_ context.Context, w database.KeyValueWriterDeleter) error {
	for k, mv := range v.pendingChangedKeys {
		if mv.IsNothing() {
			if err := w.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := w.Put([]byte(k), mv.Value()); err != nil {
			return err
		}
	}
	return nil
}
