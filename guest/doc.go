// Package guest guards WebAssembly guest resources owned by the host:
// blocks of linear memory allocated through the guest's cabi_realloc
// export, instantiated modules and runtimes.
//
// A block is freed with the same allocator call that created it, so the
// deleter carries the allocator and the context to call it with:
//
//	alloc, err := guest.NewRealloc(mod)
//	...
//	blk, err := guest.Alloc(ctx, alloc, 64, 8)
//	if err != nil {
//	    return err
//	}
//	defer blk.Close()
//	err = guest.Write(mod.Memory(), blk, payload)
package guest
