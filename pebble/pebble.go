// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pebble wraps cockroachdb/pebble behind avalanchego's database
// interfaces so the ledger can run over it unchanged.
package pebble

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var ErrInvalidOperation = errors.New("invalid operation")

type Config struct {
	CacheSize                   int // bytes
	BytesPerSync                int
	WALBytesPerSync             int // 0 means no background syncing
	MemTableStopWritesThreshold int
	MemTableSize                uint64 // bytes
	MaxOpenFiles                int
	MaxConcurrentCompactions    int
	Sync                        bool
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   512 * 1024 * 1024,
		BytesPerSync:                512 * 1024,
		WALBytesPerSync:             0,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * 1024 * 1024,
		MaxOpenFiles:                4_096,
		MaxConcurrentCompactions:    1,
		Sync:                        false,
	}
}

type Database struct {
	db      *pebble.DB
	metrics *metrics
	sync    bool

	closing   chan struct{}
	closeOnce sync.Once
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	d := &Database{
		sync:    cfg.Sync,
		closing: make(chan struct{}),
	}
	registry, m, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d.metrics = m
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(int64(cfg.CacheSize)),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.MaxConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	// Read sampling drives read-triggered compactions, which we don't want
	// competing with ledger commits.
	opts.Experimental.ReadSamplingMultiplier = -1
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	go d.collectMetrics()
	return d, registry, nil
}

func (db *Database) Close() error {
	db.closeOnce.Do(func() {
		close(db.closing)
	})
	return updateError(db.db.Close())
}

func (db *Database) Has(key []byte) (bool, error) {
	_, closer, err := db.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, updateError(err)
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	start := db.metrics.readStart()
	data, closer, err := db.db.Get(key)
	db.metrics.readEnd(start)
	if err != nil {
		return nil, updateError(err)
	}
	// [data] is only valid until [closer] is released.
	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	return updateError(db.db.Set(key, value, db.writeOptions()))
}

func (db *Database) Delete(key []byte) error {
	return updateError(db.db.Delete(key, db.writeOptions()))
}

func (db *Database) writeOptions() *pebble.WriteOptions {
	if db.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

type batch struct {
	db    *Database
	batch *pebble.Batch
	size  int

	written bool
}

func (db *Database) NewBatch() database.Batch {
	return &batch{
		db:    db,
		batch: db.db.NewBatch(),
	}
}

func (b *batch) Put(key []byte, value []byte) error {
	b.size += len(key) + len(value) + 8 // overhead estimate per operation
	return b.batch.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.size += len(key) + 8
	return b.batch.Delete(key, nil)
}

func (b *batch) Size() int { return b.size }

func (b *batch) Write() error {
	if b.written {
		// pebble batches cannot be re-applied.
		newBatch := b.db.db.NewBatch()
		if err := newBatch.Apply(b.batch, nil); err != nil {
			return err
		}
		b.batch = newBatch
	}
	b.written = true
	return updateError(b.batch.Commit(b.db.writeOptions()))
}

func (b *batch) Reset() {
	b.batch.Reset()
	b.written = false
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	reader := b.batch.Reader()
	for {
		kind, k, v, ok := reader.Next()
		if !ok {
			return nil
		}
		switch kind {
		case pebble.InternalKeyKindSet:
			if err := w.Put(k, v); err != nil {
				return err
			}
		case pebble.InternalKeyKindDelete:
			if err := w.Delete(k); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %v", ErrInvalidOperation, kind)
		}
	}
}

func (b *batch) Inner() database.Batch { return b }

type iterator struct {
	iter *pebble.Iterator

	initialized bool
	closed      bool
	err         error
}

// NewIteratorWithPrefix returns an iterator over every key beginning with
// [prefix], in key order.
func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	iter, err := db.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return &iterator{
			closed: true,
			err:    updateError(err),
		}
	}
	return &iterator{iter: iter}
}

// prefixUpperBound returns the smallest key strictly greater than every key
// with [prefix], or nil if no such key exists.
func prefixUpperBound(prefix []byte) []byte {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xff {
			upper := make([]byte, i+1)
			copy(upper, prefix)
			upper[i]++
			return upper
		}
	}
	return nil
}

func (it *iterator) Next() bool {
	if it.closed {
		return false
	}
	if !it.initialized {
		it.initialized = true
		return it.iter.First()
	}
	return it.iter.Next()
}

func (it *iterator) Error() error {
	if it.err != nil {
		return it.err
	}
	if it.closed {
		return nil
	}
	return updateError(it.iter.Error())
}

func (it *iterator) Key() []byte {
	if it.closed || !it.iter.Valid() {
		return nil
	}
	key := it.iter.Key()
	ret := make([]byte, len(key))
	copy(ret, key)
	return ret
}

func (it *iterator) Value() []byte {
	if it.closed || !it.iter.Valid() {
		return nil
	}
	value := it.iter.Value()
	ret := make([]byte, len(value))
	copy(ret, value)
	return ret
}

func (it *iterator) Release() {
	if it.closed {
		return
	}
	it.closed = true
	it.err = updateError(it.iter.Close())
}

// updateError converts pebble-specific errors to their database equivalents.
func updateError(err error) error {
	switch err {
	case pebble.ErrNotFound:
		return database.ErrNotFound
	case pebble.ErrClosed:
		return database.ErrClosed
	default:
		return err
	}
}
