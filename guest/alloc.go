package guest

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// Canonical ABI allocator exports.
const (
	CabiRealloc = "cabi_realloc"
	CabiFree    = "cabi_free"
)

// Allocator allocates and frees guest linear memory.
type Allocator interface {
	Alloc(ctx context.Context, size, align uint32) (uint32, error)
	Free(ctx context.Context, ptr, size, align uint32) error
}

// Realloc implements Allocator over a module's cabi_realloc export:
// realloc(0, 0, align, size) allocates and realloc(ptr, size, align, 0)
// frees. A cabi_free export, when present, is preferred for freeing.
type Realloc struct {
	reallocFn api.Function
	freeFn    api.Function
	stackBuf  [4]uint64
	mu        sync.Mutex
}

// NewRealloc looks up the allocator exports of mod.
func NewRealloc(mod api.Module) (*Realloc, error) {
	fn := mod.ExportedFunction(CabiRealloc)
	if fn == nil {
		return nil, fmt.Errorf("module %q does not export %s", mod.Name(), CabiRealloc)
	}
	if n := len(fn.Definition().ParamTypes()); n != 4 {
		return nil, fmt.Errorf("%s: expected 4 params, got %d", CabiRealloc, n)
	}
	return &Realloc{
		reallocFn: fn,
		freeFn:    mod.ExportedFunction(CabiFree),
	}, nil
}

// Alloc allocates size bytes aligned to align.
func (a *Realloc) Alloc(ctx context.Context, size, align uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stackBuf[0] = 0
	a.stackBuf[1] = 0
	a.stackBuf[2] = uint64(align)
	a.stackBuf[3] = uint64(size)
	if err := a.reallocFn.CallWithStack(ctx, a.stackBuf[:]); err != nil {
		return 0, err
	}
	ptr := uint32(a.stackBuf[0])
	if ptr == 0 && size != 0 {
		return 0, fmt.Errorf("%s returned null for %d bytes", CabiRealloc, size)
	}
	return ptr, nil
}

// Free returns a block to the guest allocator.
func (a *Realloc) Free(ctx context.Context, ptr, size, align uint32) error {
	if ptr == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	if a.freeFn != nil {
		a.stackBuf[0] = uint64(ptr)
		a.stackBuf[1] = uint64(size)
		a.stackBuf[2] = uint64(align)
		err = a.freeFn.CallWithStack(ctx, a.stackBuf[:3])
	} else {
		a.stackBuf[0] = uint64(ptr)
		a.stackBuf[1] = uint64(size)
		a.stackBuf[2] = uint64(align)
		a.stackBuf[3] = 0
		err = a.reallocFn.CallWithStack(ctx, a.stackBuf[:])
	}
	if err != nil {
		Logger().Warn("freeing guest block failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
	return err
}

var _ Allocator = (*Realloc)(nil)
