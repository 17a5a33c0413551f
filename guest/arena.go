package guest

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// memoryWasm exports one page of linear memory as "memory".
var memoryWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

// PageSize is the size of one page of linear memory.
const PageSize = 65536

// Arena is a cabi_realloc implemented on the host: a bump allocator over
// [base, limit) that tracks live blocks. Paired with InstantiateMemory it
// gives a guest-shaped allocator without compiling guest code.
type Arena struct {
	mu    sync.Mutex
	next  uint32
	limit uint32
	live  map[uint32]uint32
	freed int
}

// NewArena returns an arena handing out addresses in [base, limit).
// base must be non-zero.
func NewArena(base, limit uint32) *Arena {
	return &Arena{next: base, limit: limit, live: make(map[uint32]uint32)}
}

func (a *Arena) realloc(_ context.Context, old, oldSize, align, newSize uint32) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if old != 0 {
		if _, ok := a.live[old]; ok {
			delete(a.live, old)
			a.freed++
		}
	}
	if newSize == 0 {
		return 0
	}
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0
	}
	ptr := (a.next + align - 1) &^ (align - 1)
	if ptr < a.next || ptr+newSize > a.limit || ptr+newSize < ptr {
		return 0
	}
	a.next = ptr + newSize
	a.live[ptr] = newSize
	return ptr
}

// Instantiate exports the arena as cabi_realloc from a host module named
// name in r.
func (a *Arena) Instantiate(ctx context.Context, r wazero.Runtime, name string) (api.Module, error) {
	return r.NewHostModuleBuilder(name).
		NewFunctionBuilder().WithFunc(a.realloc).Export(CabiRealloc).
		Instantiate(ctx)
}

// Live returns the number of blocks allocated and not yet freed.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Freed returns the number of blocks freed so far.
func (a *Arena) Freed() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.freed
}

// InstantiateMemory instantiates a module exporting a single page of linear
// memory, sized for an Arena with limit PageSize.
func InstantiateMemory(ctx context.Context, r wazero.Runtime, name string) (*Module, error) {
	return Instantiate(ctx, r, memoryWasm, wazero.NewModuleConfig().WithName(name))
}
