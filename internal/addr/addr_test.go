package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhysAddrFloorCeil(t *testing.T) {
	pa := PhysAddr(0x1800)
	require.Equal(t, PhysPageNum(1), pa.Floor())
	require.Equal(t, PhysPageNum(2), pa.Ceil())

	aligned := PhysAddr(0x2000)
	require.Equal(t, PhysPageNum(2), aligned.Floor())
	require.Equal(t, PhysPageNum(2), aligned.Ceil())
}

func TestPhysAddrPageOffset(t *testing.T) {
	pa := PhysAddr(0x1234)
	assert.Equal(t, uint64(0x234), pa.PageOffset())
}

func TestPhysAddrToHighHalf(t *testing.T) {
	pa := PhysAddr(0x8000_0000)
	win := VirtAddr(0xffff_ffc0_0000_0000)
	got := pa.ToHighHalf(win)
	assert.Equal(t, VirtAddr(0xffff_ffc0_8000_0000), got)
}

func TestVirtAddrAlign(t *testing.T) {
	va := VirtAddr(0x1001)
	assert.Equal(t, VirtAddr(0x1000), va.AlignDown(PageSize))
	assert.Equal(t, VirtAddr(0x2000), va.AlignUp(PageSize))
	assert.False(t, va.Aligned(PageSize))
	assert.True(t, VirtAddr(0x2000).Aligned(PageSize))
}

func TestVirtAddrDiff(t *testing.T) {
	a := VirtAddr(0x3000)
	b := VirtAddr(0x1000)
	assert.Equal(t, int64(0x2000), a.Diff(b))
	assert.Equal(t, int64(-0x2000), b.Diff(a))
}

func TestPageNumRoundTrip(t *testing.T) {
	vpn := VirtPageNum(7)
	start := vpn.StartAddr()
	end := vpn.EndAddr()
	require.Equal(t, VirtAddr(7*PageSize), start)
	require.Equal(t, VirtAddr(8*PageSize), end)
	require.Equal(t, vpn, start.Floor())
}

func TestPageNumDiffAndStep(t *testing.T) {
	a := VirtPageNum(10)
	b := VirtPageNum(4)
	assert.Equal(t, int64(6), a.Diff(b))
	assert.Equal(t, VirtPageNum(11), a.Add(1))
	assert.Equal(t, VirtPageNum(3), b.Sub(1))
}

func TestPageNumAtOffset(t *testing.T) {
	vpn := VirtPageNum(2)
	got := vpn.AtOffset(0x10)
	assert.Equal(t, VirtAddr(2*PageSize+0x10), got)
}

func TestPhysPageNumRange(t *testing.T) {
	ppn := PhysPageNum(3)
	assert.Equal(t, PhysAddr(3*PageSize), ppn.StartAddr())
	assert.Equal(t, PhysAddr(4*PageSize), ppn.EndAddr())
	assert.Equal(t, PhysPageNum(5), ppn.Add(2))
}
