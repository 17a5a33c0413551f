package kv

import (
	"bytes"

	"github.com/cockroachdb/pebble"
	"go.uber.org/multierr"
)

// Store is a key-value store backed by pebble.
type Store struct {
	db *DB
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	db, err := OpenDB(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database. Calling Close more than once is a no-op.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) handle() (*pebble.DB, error) {
	if !s.db.Allocated() {
		return nil, pebble.ErrClosed
	}
	return s.db.Get(), nil
}

// Put stores value under key.
func (s *Store) Put(key, value []byte) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return db.Set(key, value, pebble.Sync)
}

// Delete removes key.
func (s *Store) Delete(key []byte) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return db.Delete(key, pebble.Sync)
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(key []byte) ([]byte, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	val, closer, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return bytes.Clone(val), nil
}

// Scan calls fn for every key with prefix, in key order, until fn returns
// an error. key and value are only valid during the call.
func (s *Store) Scan(prefix []byte, fn func(key, value []byte) error) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return scan(db, prefix, fn)
}

// WriteBatch applies the writes made by fn atomically. If fn fails the
// batch is discarded and nothing is written.
func (s *Store) WriteBatch(fn func(b *pebble.Batch) error) (err error) {
	db, err := s.handle()
	if err != nil {
		return err
	}
	b, err := NewBatch(db)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, b.Close())
	}()

	if err := fn(b.Get()); err != nil {
		return err
	}
	return b.Get().Commit(pebble.Sync)
}

// View calls fn with a consistent snapshot of the store.
func (s *Store) View(fn func(r pebble.Reader) error) (err error) {
	db, err := s.handle()
	if err != nil {
		return err
	}
	snap, err := NewSnapshot(db)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, snap.Close())
	}()
	return fn(snap.Get())
}

// ScanReader is Scan over an arbitrary reader, such as a snapshot.
func ScanReader(r pebble.Reader, prefix []byte, fn func(key, value []byte) error) error {
	return scan(r, prefix, fn)
}

func scan(r pebble.Reader, prefix []byte, fn func(key, value []byte) error) (err error) {
	it, err := NewIter(r, prefix)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, it.Close())
	}()

	iter := it.Get()
	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
