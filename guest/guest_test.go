package guest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func setup(t *testing.T) (context.Context, *Runtime, *Arena, api.Module) {
	t.Helper()
	ctx := context.Background()

	rt, err := NewRuntime(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close() })

	arena := NewArena(16, PageSize)
	allocMod, err := arena.Instantiate(ctx, rt.Get(), "alloc")
	require.NoError(t, err)
	return ctx, rt, arena, allocMod
}

func TestAlloc_FreesOnce(t *testing.T) {
	ctx, _, arena, allocMod := setup(t)

	alloc, err := NewRealloc(allocMod)
	require.NoError(t, err)

	blk, err := Alloc(ctx, alloc, 24, 8)
	require.NoError(t, err)
	require.True(t, blk.Allocated())
	b := blk.Get()
	assert.EqualValues(t, 16, b.Ptr)
	assert.EqualValues(t, 24, b.Size)
	assert.Equal(t, 1, arena.Live())

	require.NoError(t, blk.Close())
	require.NoError(t, blk.Close())
	assert.Equal(t, 0, arena.Live())
	assert.Equal(t, 1, arena.Freed())
	assert.Equal(t, Block{}, blk.Get())
}

func TestAlloc_MoveFreesOnlyFromNewOwner(t *testing.T) {
	ctx, _, arena, allocMod := setup(t)

	alloc, err := NewRealloc(allocMod)
	require.NoError(t, err)

	a, err := Alloc(ctx, alloc, 8, 4)
	require.NoError(t, err)
	b, err := Alloc(ctx, alloc, 8, 4)
	require.NoError(t, err)
	aPtr := a.Get().Ptr

	// b reclaims its own block before taking a's.
	require.NoError(t, b.MoveFrom(a))
	assert.Equal(t, 1, arena.Freed())
	assert.Equal(t, aPtr, b.Get().Ptr)

	require.NoError(t, a.Close())
	assert.Equal(t, 1, arena.Freed())

	require.NoError(t, b.Close())
	assert.Equal(t, 2, arena.Freed())
	assert.Equal(t, 0, arena.Live())
}

func TestAlloc_ArenaExhausted(t *testing.T) {
	ctx, _, _, allocMod := setup(t)

	alloc, err := NewRealloc(allocMod)
	require.NoError(t, err)

	_, err = Alloc(ctx, alloc, PageSize, 1)
	assert.Error(t, err)
}

func TestAlloc_RejectsNonPowerOfTwoAlign(t *testing.T) {
	ctx, _, arena, allocMod := setup(t)

	alloc, err := NewRealloc(allocMod)
	require.NoError(t, err)

	_, err = Alloc(ctx, alloc, 8, 3)
	assert.Error(t, err)
	assert.Equal(t, 0, arena.Live())

	blk, err := Alloc(ctx, alloc, 8, 4)
	require.NoError(t, err)
	defer blk.Close()
	assert.Zero(t, blk.Get().Ptr%4)
	assert.Equal(t, 1, arena.Live())
}

func TestInstantiate_UsableAfterCompile(t *testing.T) {
	ctx, rt, _, _ := setup(t)

	// Each instantiation compiles and releases its own compiled module.
	for _, name := range []string{"first", "second"} {
		m, err := Instantiate(ctx, rt.Get(), memoryWasm, wazero.NewModuleConfig().WithName(name))
		require.NoError(t, err)
		mem := m.Get().Memory()
		require.NotNil(t, mem)
		require.True(t, mem.Write(0, []byte(name)))
		got, ok := mem.Read(0, uint32(len(name)))
		require.True(t, ok)
		assert.Equal(t, name, string(got))
		require.NoError(t, m.Close())
	}
}

func TestWriteRead(t *testing.T) {
	ctx, rt, _, allocMod := setup(t)

	memMod, err := InstantiateMemory(ctx, rt.Get(), "mem")
	require.NoError(t, err)
	defer memMod.Close()
	mem := memMod.Get().Memory()
	require.NotNil(t, mem)

	alloc, err := NewRealloc(allocMod)
	require.NoError(t, err)

	blk, err := Alloc(ctx, alloc, 5, 1)
	require.NoError(t, err)
	defer blk.Close()

	require.NoError(t, Write(mem, blk, []byte("hello")))
	got, err := Read(mem, blk)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	assert.Error(t, Write(mem, blk, []byte("too long")))

	blk.Release()
	_, err = Read(mem, blk)
	assert.Error(t, err)
}

func TestNewRealloc_MissingExport(t *testing.T) {
	ctx, rt, _, _ := setup(t)

	memMod, err := InstantiateMemory(ctx, rt.Get(), "mem")
	require.NoError(t, err)
	defer memMod.Close()

	_, err = NewRealloc(memMod.Get())
	assert.Error(t, err)
}

func TestModuleGuard(t *testing.T) {
	ctx, rt, _, _ := setup(t)

	m, err := InstantiateMemory(ctx, rt.Get(), "guarded")
	require.NoError(t, err)
	require.NotNil(t, rt.Get().Module("guarded"))

	require.NoError(t, m.Close())
	assert.False(t, m.Allocated())
	assert.Nil(t, rt.Get().Module("guarded"))
}

func TestInstantiate_InvalidBinary(t *testing.T) {
	ctx, rt, _, _ := setup(t)
	_, err := Instantiate(ctx, rt.Get(), []byte("not wasm"), nil)
	assert.Error(t, err)
}

func TestRuntimeGuard_ClosesModules(t *testing.T) {
	ctx := context.Background()
	rt, err := NewRuntime(ctx)
	require.NoError(t, err)

	m, err := InstantiateMemory(ctx, rt.Get(), "mem")
	require.NoError(t, err)

	require.NoError(t, rt.Close())
	assert.False(t, rt.Allocated())
	assert.True(t, m.Get().IsClosed())
	m.Release()
}

type failingAlloc struct{}

var errFree = errors.New("free failed")

func (failingAlloc) Alloc(context.Context, uint32, uint32) (uint32, error) { return 64, nil }
func (failingAlloc) Free(context.Context, uint32, uint32, uint32) error   { return errFree }

func TestFreeFailureKeepsBlock(t *testing.T) {
	blk, err := Alloc(context.Background(), failingAlloc{}, 4, 4)
	require.NoError(t, err)

	err = blk.Close()
	assert.ErrorIs(t, err, errFree)
	assert.True(t, blk.Allocated())
	blk.Release()
}
