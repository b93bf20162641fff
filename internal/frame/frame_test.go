package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/addr"
)

func newTestAllocator(n uint64) *Allocator {
	return New(Config{Base: addr.PhysPageNum(0x1000), NumPages: n})
}

func TestAllocExhaustion(t *testing.T) {
	a := newTestAllocator(2)
	f1, ok := a.Alloc()
	require.True(t, ok)
	f2, ok := a.Alloc()
	require.True(t, ok)
	_, ok = a.Alloc()
	assert.False(t, ok, "pool of 2 pages should be exhausted after 2 allocations")

	assert.NotEqual(t, f1.PageNum(), f2.PageNum())
}

func TestFreeAndRecycle(t *testing.T) {
	a := newTestAllocator(1)
	f, ok := a.Alloc()
	require.True(t, ok)
	ppn := f.PageNum()
	f.Free()

	f2, ok := a.Alloc()
	require.True(t, ok)
	assert.Equal(t, ppn, f2.PageNum())
}

func TestDoubleFreePanics(t *testing.T) {
	a := newTestAllocator(1)
	f, ok := a.Alloc()
	require.True(t, ok)
	f.Free()
	assert.Panics(t, func() { f.Free() })
}

func TestAllocZeroedIsZero(t *testing.T) {
	a := newTestAllocator(1)
	f, ok := a.Alloc()
	require.True(t, ok)
	b := f.Bytes()
	for i := range b {
		b[i] = 0xff
	}
	f.Free()

	f2, ok := a.AllocZeroed()
	require.True(t, ok)
	for _, v := range f2.Bytes() {
		require.Zero(t, v)
	}
}

func TestAllocContigSucceedsAndFails(t *testing.T) {
	a := newTestAllocator(4)
	frames, ok := a.AllocContig(3)
	require.True(t, ok)
	require.Len(t, frames, 3)
	for i := 1; i < len(frames); i++ {
		assert.Equal(t, frames[i-1].PageNum().Add(1), frames[i].PageNum())
	}

	_, ok = a.AllocContig(2)
	assert.False(t, ok, "only 1 page remains, a run of 2 cannot be satisfied")
}

func TestInRange(t *testing.T) {
	a := newTestAllocator(4)
	assert.True(t, a.InRange(addr.PhysPageNum(0x1000)))
	assert.True(t, a.InRange(addr.PhysPageNum(0x1003)))
	assert.False(t, a.InRange(addr.PhysPageNum(0x1004)))
	assert.False(t, a.InRange(addr.PhysPageNum(0x0fff)))
}

func TestValidAfterFree(t *testing.T) {
	a := newTestAllocator(1)
	f, _ := a.Alloc()
	assert.True(t, f.Valid())
	f.Free()
	assert.False(t, f.Valid())
}
