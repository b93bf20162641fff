package pgtbl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/frame"
)

const dmapBase = addr.VirtAddr(0xffff_ffc0_0000_0000)

func newTestTable(t *testing.T) (*PageTable, *frame.Allocator) {
	t.Helper()
	alloc := frame.New(frame.Config{Base: addr.PhysPageNum(0x1000), NumPages: 64})
	pt, ok := New(alloc, dmapBase)
	require.True(t, ok)
	return pt, alloc
}

func TestMapTranslateUnmap(t *testing.T) {
	pt, alloc := newTestTable(t)
	leaf, ok := alloc.Alloc()
	require.True(t, ok)

	vpn := addr.VirtPageNum(0x41)
	require.True(t, pt.MapSingle(vpn, leaf.PageNum(), Valid|Readable|Writable|User))

	ppn, flags, ok := pt.Translate(vpn)
	require.True(t, ok)
	assert.Equal(t, leaf.PageNum(), ppn)
	assert.True(t, flags.Has(Readable))
	assert.True(t, flags.Has(Writable))
	assert.True(t, flags.Has(User))
	assert.False(t, flags.Has(Executable))

	require.True(t, pt.UnmapSingle(vpn))
	_, _, ok = pt.Translate(vpn)
	assert.False(t, ok)
}

func TestTranslateUnmappedFails(t *testing.T) {
	pt, _ := newTestTable(t)
	_, _, ok := pt.Translate(addr.VirtPageNum(7))
	assert.False(t, ok)
}

func TestUnmapUnmappedFails(t *testing.T) {
	pt, _ := newTestTable(t)
	assert.False(t, pt.UnmapSingle(addr.VirtPageNum(7)))
}

func TestRemapPanics(t *testing.T) {
	pt, alloc := newTestTable(t)
	f1, _ := alloc.Alloc()
	f2, _ := alloc.Alloc()
	vpn := addr.VirtPageNum(3)
	require.True(t, pt.MapSingle(vpn, f1.PageNum(), Valid|Readable))
	assert.Panics(t, func() {
		pt.MapSingle(vpn, f2.PageNum(), Valid|Readable)
	})
}

func TestMapAcrossDistinctLevel2Entries(t *testing.T) {
	// vpn 0 and vpn 1<<18 differ only in the top-level index, exercising a
	// second walk through the same intermediate allocation path.
	pt, alloc := newTestTable(t)
	f1, _ := alloc.Alloc()
	f2, _ := alloc.Alloc()

	require.True(t, pt.MapSingle(addr.VirtPageNum(0), f1.PageNum(), Valid|Readable))
	require.True(t, pt.MapSingle(addr.VirtPageNum(1<<18), f2.PageNum(), Valid|Readable))

	ppn1, _, ok := pt.Translate(addr.VirtPageNum(0))
	require.True(t, ok)
	ppn2, _, ok := pt.Translate(addr.VirtPageNum(1 << 18))
	require.True(t, ok)
	assert.Equal(t, f1.PageNum(), ppn1)
	assert.Equal(t, f2.PageNum(), ppn2)
}

func TestAsHighHalf(t *testing.T) {
	pt, alloc := newTestTable(t)
	leaf, _ := alloc.Alloc()
	vpn := addr.VirtPageNum(5)
	require.True(t, pt.MapSingle(vpn, leaf.PageNum(), Valid|Readable))

	va := vpn.AtOffset(0x20)
	ppn, hi, ok := pt.AsHighHalf(va)
	require.True(t, ok)
	assert.Equal(t, leaf.PageNum(), ppn)
	assert.Equal(t, dmapBase.Add(uint64(leaf.PageNum().StartAddr())+0x20), hi)
}

func TestActivatedCopyDataToOther(t *testing.T) {
	pt, alloc := newTestTable(t)
	dstPT, _ := New(alloc, dmapBase)

	leaf, _ := alloc.Alloc()
	vpn := addr.VirtPageNum(9)
	require.True(t, dstPT.MapSingle(vpn, leaf.PageNum(), Valid|Readable|Writable|User))

	payload := []byte("hello, kernel")
	n := pt.ActivatedCopyDataToOther(dstPT, vpn.StartAddr().Add(4), payload)
	require.Equal(t, len(payload), n)

	got := alloc.BytesAt(leaf.PageNum())[4 : 4+len(payload)]
	assert.Equal(t, payload, got)
}

func TestActivatedCopyStopsAtUnmappedPage(t *testing.T) {
	pt, alloc := newTestTable(t)
	dstPT, _ := New(alloc, dmapBase)
	leaf, _ := alloc.Alloc()
	vpn := addr.VirtPageNum(2)
	require.True(t, dstPT.MapSingle(vpn, leaf.PageNum(), Valid|Readable|Writable))

	// write near the end of the page so the payload would spill into the
	// following, unmapped page.
	payload := make([]byte, 16)
	n := pt.ActivatedCopyDataToOther(dstPT, vpn.StartAddr().Add(addr.PageSize-8), payload)
	assert.Equal(t, 8, n)
}

func TestActivatedCopyValToOtherPanicsOnShortCopy(t *testing.T) {
	pt, alloc := newTestTable(t)
	dstPT, _ := New(alloc, dmapBase)
	leaf, _ := alloc.Alloc()
	vpn := addr.VirtPageNum(2)
	require.True(t, dstPT.MapSingle(vpn, leaf.PageNum(), Valid|Readable|Writable))

	value := make([]byte, 16)
	assert.Panics(t, func() {
		pt.ActivatedCopyValToOther(dstPT, vpn.StartAddr().Add(addr.PageSize-8), value)
	})
}

func TestActivateAndIsActivated(t *testing.T) {
	pt1, _ := newTestTable(t)
	pt2, _ := newTestTable(t)

	pt1.Activate()
	assert.True(t, pt1.IsActivated())
	assert.False(t, pt2.IsActivated())

	pt2.Activate()
	assert.False(t, pt1.IsActivated())
	assert.True(t, pt2.IsActivated())
}

func TestSatpEncodesRootAndMode(t *testing.T) {
	pt, _ := newTestTable(t)
	satp := pt.Satp()
	assert.Equal(t, uint64(satpModeSv39), satp>>60)
	assert.Equal(t, uint64(pt.RootPageNum()), satp&((1<<60)-1))
}

func TestFlagsString(t *testing.T) {
	f := Valid | Readable | User
	assert.Equal(t, "VR--U", f.String())
}

func TestDestroyFreesOwnedFrames(t *testing.T) {
	alloc := frame.New(frame.Config{Base: addr.PhysPageNum(0x2000), NumPages: 3})
	pt, ok := New(alloc, dmapBase)
	require.True(t, ok)
	// root consumes 1 of 3 pages; mapping vpn 0 forces 2 more interior
	// levels, exhausting the pool entirely.
	leaf := addr.PhysPageNum(0xdead)
	require.True(t, pt.MapSingle(addr.VirtPageNum(0), leaf, Valid|Readable))
	_, ok = alloc.Alloc()
	assert.False(t, ok, "pool should be exhausted by root + 2 interior levels")

	pt.Destroy()

	for i := 0; i < 3; i++ {
		_, ok = alloc.Alloc()
		assert.True(t, ok, "destroying the table must return root and interior frames")
	}
}
