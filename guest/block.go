package guest

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/scope/resource"
)

// Block is a span of guest linear memory. Ptr 0 is the null block.
type Block struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

// Traits treats the null block as unallocated.
type Traits struct{}

// MakeDefault returns the null block.
func (Traits) MakeDefault() Block { return Block{} }

// IsAllocated reports whether b points into guest memory.
func (Traits) IsAllocated(b Block) bool { return b.Ptr != 0 }

// Freer returns blocks to the allocator that produced them.
type Freer struct {
	ctx   context.Context
	alloc Allocator
}

// NewFreer returns a deleter freeing blocks through alloc with ctx.
func NewFreer(ctx context.Context, alloc Allocator) Freer {
	return Freer{ctx: ctx, alloc: alloc}
}

// Delete frees *b.
func (f Freer) Delete(b *Block) error {
	return f.alloc.Free(orBackground(f.ctx), b.Ptr, b.Size, b.Align)
}

// Memory is a guarded block.
type Memory = resource.Unique[Traits, Block, Freer]

// Alloc allocates a block and returns it under a guard that frees it with
// the same allocator and context.
func Alloc(ctx context.Context, alloc Allocator, size, align uint32) (*Memory, error) {
	ptr, err := alloc.Alloc(ctx, size, align)
	if err != nil {
		return nil, err
	}
	return resource.New[Traits](Block{Ptr: ptr, Size: size, Align: align}, NewFreer(ctx, alloc))
}

// Write copies data into the block. data must fit.
func Write(mem api.Memory, m *Memory, data []byte) error {
	b := m.Get()
	if !m.Allocated() {
		return fmt.Errorf("write to unallocated block")
	}
	if uint32(len(data)) > b.Size {
		return fmt.Errorf("write of %d bytes exceeds block size %d", len(data), b.Size)
	}
	if !mem.Write(b.Ptr, data) {
		return fmt.Errorf("write out of range: ptr=%d len=%d", b.Ptr, len(data))
	}
	return nil
}

// Read returns a copy of the block's contents.
func Read(mem api.Memory, m *Memory) ([]byte, error) {
	b := m.Get()
	if !m.Allocated() {
		return nil, fmt.Errorf("read from unallocated block")
	}
	data, ok := mem.Read(b.Ptr, b.Size)
	if !ok {
		return nil, fmt.Errorf("read out of range: ptr=%d size=%d", b.Ptr, b.Size)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
