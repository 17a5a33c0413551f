package demo

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"

	"github.com/wippyai/scope/kv"
	"github.com/wippyai/scope/resource"
)

func init() {
	Register("kv", runKV)
}

var errAbortBatch = errors.New("batch aborted")

type removeDir struct{}

func (removeDir) Delete(dir *string) error {
	return os.RemoveAll(*dir)
}

// runKV writes through batches, aborts one and scans the result. A
// temporary directory is pushed first so it is removed after the store
// closes.
func runKV(_ context.Context, sc *Session) error {
	dir := sc.Config.KV.Dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "scope-kv-")
		if err != nil {
			return sc.Fail("mkdir", err)
		}
		g, err := resource.NewGuard(tmp, removeDir{})
		if err != nil {
			return err
		}
		if err := sc.Own("kv.dir", g); err != nil {
			return err
		}
		dir = tmp
	}

	store, err := kv.Open(dir)
	if err != nil {
		return sc.Fail("open", err)
	}
	g, err := resource.Wrap[resource.ZeroTraits[*kv.Store], resource.Closer[*kv.Store]](store)
	if err != nil {
		return err
	}
	if err := sc.Own("kv.store", g); err != nil {
		return err
	}
	sc.Record("open", "%s", dir)

	err = store.WriteBatch(func(b *pebble.Batch) error {
		for i := range 3 {
			key := fmt.Appendf(nil, "guard/%d", i)
			if err := b.Set(key, []byte("live"), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return sc.Fail("commit", err)
	}
	sc.Record("commit", "3 keys")

	err = store.WriteBatch(func(b *pebble.Batch) error {
		if err := b.Set([]byte("guard/9"), []byte("lost"), nil); err != nil {
			return err
		}
		return errAbortBatch
	})
	if !errors.Is(err, errAbortBatch) {
		return sc.Fail("abort", fmt.Errorf("unexpected batch result: %v", err))
	}
	sc.Record("abort", "batch discarded on error")

	var count int
	err = store.Scan([]byte("guard/"), func(_, _ []byte) error {
		count++
		return nil
	})
	if err != nil {
		return sc.Fail("scan", err)
	}
	sc.Record("scan", "%d keys visible", count)
	if count != 3 {
		return sc.Fail("scan", fmt.Errorf("expected 3 keys, found %d", count))
	}
	return nil
}
