package resource

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/scope/errors"
)

func TestUnique_CloseDeletesOnce(t *testing.T) {
	log := &deleteLog{}

	g, err := NewGuard(7, log.intDeleter())
	if err != nil {
		t.Fatalf("NewGuard failed: %v", err)
	}
	if !g.Allocated() {
		t.Fatal("Expected guard to be allocated")
	}
	if g.Get() != 7 {
		t.Fatalf("Expected resource 7, got %d", g.Get())
	}

	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if log.count() != 1 || log.ids[0] != 7 {
		t.Fatalf("Expected one delete of 7, got %v", log.ids)
	}
	if g.Allocated() {
		t.Fatal("Expected guard to be unallocated after Close")
	}
}

func TestUnique_Release(t *testing.T) {
	log := &deleteLog{}

	g, err := NewGuard(3, log.intDeleter())
	if err != nil {
		t.Fatalf("NewGuard failed: %v", err)
	}
	g.Release()

	if g.Allocated() {
		t.Fatal("Expected guard to be unallocated after Release")
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if log.count() != 0 {
		t.Fatalf("Expected no deletes after Release, got %v", log.ids)
	}
}

func TestUnique_ZeroValue(t *testing.T) {
	var g Guard[int, DeleterFunc[int]]

	if g.Allocated() {
		t.Fatal("Zero guard should be unallocated")
	}
	if g.Get() != 0 {
		t.Fatalf("Zero guard should hold the zero resource, got %d", g.Get())
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close of zero guard failed: %v", err)
	}

	// The zero deleter is a nil DeleterFunc, which does nothing.
	if err := g.ResetTo(4); err != nil {
		t.Fatalf("ResetTo failed: %v", err)
	}
	if !g.Allocated() {
		t.Fatal("Expected guard to be allocated after ResetTo")
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestUnique_ZeroValueWithTraits(t *testing.T) {
	var g Unique[intTraits, int, DeleterFunc[int]]

	if g.Allocated() {
		t.Fatal("Zero guard should be unallocated")
	}
	if g.Get() != -1 {
		t.Fatalf("Zero guard should hold the traits default, got %d", g.Get())
	}
}

func TestUnique_ResetTo(t *testing.T) {
	log := &deleteLog{}

	g, err := NewGuard(1, log.intDeleter())
	if err != nil {
		t.Fatalf("NewGuard failed: %v", err)
	}

	if err := g.ResetTo(2); err != nil {
		t.Fatalf("ResetTo failed: %v", err)
	}
	if !g.Allocated() || g.Get() != 2 {
		t.Fatalf("Expected allocated guard holding 2, got %d (allocated=%v)", g.Get(), g.Allocated())
	}
	if log.count() != 1 || log.ids[0] != 1 {
		t.Fatalf("Expected previous resource deleted once, got %v", log.ids)
	}

	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if log.count() != 2 || log.ids[1] != 2 {
		t.Fatalf("Expected new resource deleted on Close, got %v", log.ids)
	}
}

func TestUnique_ResetIdempotent(t *testing.T) {
	log := &deleteLog{}

	g, err := NewGuard(9, log.intDeleter())
	if err != nil {
		t.Fatalf("NewGuard failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := g.Reset(); err != nil {
			t.Fatalf("Reset %d failed: %v", i, err)
		}
	}
	if log.count() != 1 {
		t.Fatalf("Expected one delete, got %d", log.count())
	}
}

func TestUnique_DeleterFailureKeepsAllocated(t *testing.T) {
	fail := true
	calls := 0
	del := DeleterFunc[int](func(*int) error {
		calls++
		if fail {
			return errCopy
		}
		return nil
	})

	g, err := NewGuard(5, del)
	if err != nil {
		t.Fatalf("NewGuard failed: %v", err)
	}

	err = g.Reset()
	if !stderrors.Is(err, errCopy) {
		t.Fatalf("Expected deleter error, got %v", err)
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseReset, Kind: errors.KindDelete}) {
		t.Fatalf("Expected reset/delete error, got %v", err)
	}
	if !g.Allocated() {
		t.Fatal("Guard should stay allocated after a failed delete")
	}

	fail = false
	if err := g.Close(); err != nil {
		t.Fatalf("retry Close failed: %v", err)
	}
	if calls != 2 || g.Allocated() {
		t.Fatalf("Expected retry to succeed, calls=%d allocated=%v", calls, g.Allocated())
	}
}

func TestUnique_Move(t *testing.T) {
	log := &deleteLog{}

	g, err := NewGuard(11, log.intDeleter())
	if err != nil {
		t.Fatalf("NewGuard failed: %v", err)
	}

	h, err := g.Move()
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if g.Allocated() {
		t.Fatal("Move source should be unallocated")
	}
	if !h.Allocated() || h.Get() != 11 {
		t.Fatal("Move target should own the resource")
	}

	g.Close()
	h.Close()
	if log.count() != 1 {
		t.Fatalf("Expected exactly one delete across both guards, got %v", log.ids)
	}
}

func TestUnique_MoveUnallocated(t *testing.T) {
	log := &deleteLog{}

	g, err := NewGuard(11, log.intDeleter())
	if err != nil {
		t.Fatalf("NewGuard failed: %v", err)
	}
	g.Release()

	h, err := g.Move()
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if h.Allocated() || g.Allocated() {
		t.Fatal("Moving an unallocated guard should yield two unallocated guards")
	}
}

func TestUnique_MoveFrom(t *testing.T) {
	log := &deleteLog{}

	a, _ := NewGuard(1, taggedDel{log: log, tag: "a"})
	b, _ := NewGuard(2, taggedDel{log: log, tag: "b"})

	if err := a.MoveFrom(b); err != nil {
		t.Fatalf("MoveFrom failed: %v", err)
	}
	if log.count() != 1 || log.ids[0] != 1 {
		t.Fatalf("Expected target's old resource deleted first, got %v", log.ids)
	}
	if !a.Allocated() || a.Get() != 2 || a.Deleter().tag != "b" {
		t.Fatal("Target should hold the source's resource and deleter")
	}
	if b.Allocated() {
		t.Fatal("Source should be unallocated")
	}

	a.Close()
	b.Close()
	if log.count() != 2 {
		t.Fatalf("Expected two deletes in total, got %v", log.ids)
	}
}

func TestUnique_MoveFromSelf(t *testing.T) {
	log := &deleteLog{}

	a, _ := NewGuard(1, log.intDeleter())
	if err := a.MoveFrom(a); err != nil {
		t.Fatalf("self MoveFrom failed: %v", err)
	}
	if !a.Allocated() || log.count() != 0 {
		t.Fatal("self MoveFrom should be a no-op")
	}
}

func TestUnique_Swap(t *testing.T) {
	log := &deleteLog{}

	g, _ := NewGuard(100, taggedDel{log: log, tag: "DA"})
	h, _ := NewGuard(200, taggedDel{log: log, tag: "DB"})
	h.Release()

	if err := g.Swap(h); err != nil {
		t.Fatalf("Swap failed: %v", err)
	}

	if g.Allocated() || g.Get() != 200 || g.Deleter().tag != "DB" {
		t.Fatal("g should be unallocated holding 200/DB")
	}
	if !h.Allocated() || h.Get() != 100 || h.Deleter().tag != "DA" {
		t.Fatal("h should be allocated holding 100/DA")
	}

	g.Close()
	h.Close()
	if log.count() != 1 || log.ids[0] != 100 || log.tags[0] != "DA" {
		t.Fatalf("Expected only DA on 100, got %v by %v", log.ids, log.tags)
	}
}

func TestUnique_Traits(t *testing.T) {
	log := &deleteLog{}

	invalid, err := New[intTraits](-1, log.intDeleter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if invalid.Allocated() {
		t.Fatal("Traits should classify -1 as unallocated")
	}
	invalid.Close()

	valid, err := New[intTraits](5, log.intDeleter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !valid.Allocated() {
		t.Fatal("Traits should classify 5 as allocated")
	}

	valid.Release()
	if valid.Get() != -1 {
		t.Fatalf("Release should store the traits default, got %d", valid.Get())
	}
	if log.count() != 0 {
		t.Fatalf("Expected no deletes, got %v", log.ids)
	}

	if err := valid.ResetTo(-1); err != nil {
		t.Fatalf("ResetTo failed: %v", err)
	}
	if valid.Allocated() {
		t.Fatal("ResetTo with the default value should leave the guard unallocated")
	}
}

func TestUnique_TraitsMoveAndSwap(t *testing.T) {
	log := &deleteLog{}

	a, _ := New[intTraits](1, log.intDeleter())
	b, err := a.Move()
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if a.Allocated() || a.Get() != -1 {
		t.Fatal("Move source should hold the traits default")
	}

	c, _ := New[intTraits](-1, log.intDeleter())
	if err := c.Swap(b); err != nil {
		t.Fatalf("Swap failed: %v", err)
	}
	if !c.Allocated() || b.Allocated() {
		t.Fatal("Swap should exchange allocation with the values")
	}

	d, _ := New[intTraits](2, log.intDeleter())
	if err := d.MoveFrom(c); err != nil {
		t.Fatalf("MoveFrom failed: %v", err)
	}
	if c.Allocated() || d.Get() != 1 {
		t.Fatal("MoveFrom should take over the source")
	}

	for _, g := range []*Unique[intTraits, int, DeleterFunc[int]]{a, b, c, d} {
		g.Close()
	}
	if log.count() != 2 {
		t.Fatalf("Expected deletes of 2 then 1, got %v", log.ids)
	}
	if log.ids[0] != 2 || log.ids[1] != 1 {
		t.Fatalf("Unexpected delete order %v", log.ids)
	}
}

func TestNewDefault(t *testing.T) {
	log := &deleteLog{}

	g, err := NewDefault[NoTraits[int]](log.intDeleter())
	if err != nil {
		t.Fatalf("NewDefault failed: %v", err)
	}
	if g.Allocated() {
		t.Fatal("NewDefault should produce an unallocated guard")
	}

	if err := g.ResetTo(8); err != nil {
		t.Fatalf("ResetTo failed: %v", err)
	}
	g.Close()
	if log.count() != 1 || log.ids[0] != 8 {
		t.Fatalf("Expected stored deleter to reclaim 8, got %v", log.ids)
	}
}

func TestWrap(t *testing.T) {
	g, err := Wrap[ZeroTraits[int], DeleterFunc[int]](3)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if !g.Allocated() {
		t.Fatal("Expected allocated guard")
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close with zero deleter failed: %v", err)
	}
}

func TestDeref(t *testing.T) {
	type conn struct{ port int }

	closed := 0
	g, err := New[ZeroTraits[*conn]](&conn{port: 8080}, DeleterFunc[*conn](func(c **conn) error {
		closed++
		return nil
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if Deref(g).port != 8080 {
		t.Fatal("Deref should return the pointee")
	}
	g.Close()
	if closed != 1 {
		t.Fatalf("Expected one close, got %d", closed)
	}
}

func TestCloser(t *testing.T) {
	c := &closeCounter{}
	g, err := New[ZeroTraits[*closeCounter]](c, Closer[*closeCounter]{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	g.Close()
	g.Close()
	if c.n != 1 {
		t.Fatalf("Expected one Close, got %d", c.n)
	}
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error {
	c.n++
	return nil
}
