package demo

import (
	"context"
	"fmt"

	"github.com/wippyai/scope/guest"
)

func init() {
	Register("guest", runGuest)
}

// runGuest allocates a block of guest memory, fills it and swaps it with a
// second block before both are freed through cabi_realloc.
func runGuest(ctx context.Context, sc *Session) error {
	rt, err := guest.NewRuntime(ctx)
	if err != nil {
		return sc.Fail("runtime", err)
	}
	if err := sc.Own("guest.runtime", rt); err != nil {
		return err
	}

	arena := guest.NewArena(16, guest.PageSize)
	allocMod, err := arena.Instantiate(ctx, rt.Get(), "alloc")
	if err != nil {
		return sc.Fail("instantiate", err)
	}
	memMod, err := guest.InstantiateMemory(ctx, rt.Get(), "memory")
	if err != nil {
		return sc.Fail("instantiate", err)
	}
	if err := sc.Own("guest.memory", memMod); err != nil {
		return err
	}
	sc.Record("instantiate", "runtime with allocator and one page of memory")

	alloc, err := guest.NewRealloc(allocMod)
	if err != nil {
		return sc.Fail("realloc", err)
	}

	size := sc.Config.Guest.BlockSize
	a, err := guest.Alloc(ctx, alloc, size, 8)
	if err != nil {
		return sc.Fail("alloc", err)
	}
	if err := sc.Own("guest.a", a); err != nil {
		return err
	}
	b, err := guest.Alloc(ctx, alloc, size, 8)
	if err != nil {
		return sc.Fail("alloc", err)
	}
	if err := sc.Own("guest.b", b); err != nil {
		return err
	}
	sc.Record("alloc", "a=%#x b=%#x size=%d", a.Get().Ptr, b.Get().Ptr, size)

	mem := memMod.Get().Memory()
	if err := guest.Write(mem, a, []byte("block a")); err != nil {
		return sc.Fail("write", err)
	}

	if err := a.Swap(b); err != nil {
		return sc.Fail("swap", err)
	}
	data, err := guest.Read(mem, b)
	if err != nil {
		return sc.Fail("read", err)
	}
	sc.Record("swap", "b now holds %q", string(data[:7]))

	if err := b.Reset(); err != nil {
		return sc.Fail("reset", err)
	}
	sc.Record("reset", "live=%d freed=%d", arena.Live(), arena.Freed())
	if arena.Live() != 1 {
		return sc.Fail("reset", fmt.Errorf("expected 1 live block, found %d", arena.Live()))
	}
	return nil
}
