// Package kv guards pebble handles (databases, batches, iterators and
// snapshots) and provides a small Store on top of them whose every code
// path closes what it opened.
package kv

import (
	"bytes"

	"github.com/cockroachdb/pebble"

	"github.com/wippyai/scope/resource"
)

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = pebble.ErrNotFound

// DB is a guarded database handle.
type DB = resource.Unique[resource.ZeroTraits[*pebble.DB], *pebble.DB, resource.Closer[*pebble.DB]]

// Batch is a guarded write batch. Closing an uncommitted batch discards it.
type Batch = resource.Unique[resource.ZeroTraits[*pebble.Batch], *pebble.Batch, resource.Closer[*pebble.Batch]]

// Iterator is a guarded iterator.
type Iterator = resource.Unique[resource.ZeroTraits[*pebble.Iterator], *pebble.Iterator, resource.Closer[*pebble.Iterator]]

// Snapshot is a guarded point-in-time view.
type Snapshot = resource.Unique[resource.ZeroTraits[*pebble.Snapshot], *pebble.Snapshot, resource.Closer[*pebble.Snapshot]]

// OpenDB opens the database in dir.
func OpenDB(dir string, opts *pebble.Options) (*DB, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	return resource.Wrap[resource.ZeroTraits[*pebble.DB], resource.Closer[*pebble.DB]](db)
}

// NewBatch starts a write batch.
func NewBatch(db *pebble.DB) (*Batch, error) {
	return resource.Wrap[resource.ZeroTraits[*pebble.Batch], resource.Closer[*pebble.Batch]](db.NewBatch())
}

// NewIter opens an iterator over keys starting with prefix.
func NewIter(r pebble.Reader, prefix []byte) (*Iterator, error) {
	it, err := r.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return nil, err
	}
	return resource.Wrap[resource.ZeroTraits[*pebble.Iterator], resource.Closer[*pebble.Iterator]](it)
}

// NewSnapshot takes a snapshot of db.
func NewSnapshot(db *pebble.DB) (*Snapshot, error) {
	return resource.Wrap[resource.ZeroTraits[*pebble.Snapshot], resource.Closer[*pebble.Snapshot]](db.NewSnapshot())
}

// prefixEnd returns the smallest key greater than every key with prefix,
// or nil when no such key exists.
func prefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
