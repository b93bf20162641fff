// Package addr implements the kernel's strongly-typed address and page
// number primitives: PhysAddr, VirtAddr, PhysPageNum and VirtPageNum.
//
// All four are newtypes over uint64 so that a physical address can never be
// passed where a virtual one is expected, and so a byte address can never be
// passed where a page number is expected, without an explicit conversion.
package addr

// PageShift is the base-2 exponent of the page size.
const PageShift = 12

// PageSize is the size of a single page in bytes.
const PageSize = 1 << PageShift

// PageOffsetMask masks the in-page offset bits of an address.
const PageOffsetMask = PageSize - 1

// PhysAddr is a byte address in physical memory.
type PhysAddr uint64

// VirtAddr is a byte address in a process's virtual address space.
type VirtAddr uint64

// PhysPageNum identifies one physical page (a physical address >> PageShift).
type PhysPageNum uint64

// VirtPageNum identifies one virtual page (a virtual address >> PageShift).
type VirtPageNum uint64

// PageOffset returns the in-page byte offset of pa.
func (pa PhysAddr) PageOffset() uint64 {
	return uint64(pa) & PageOffsetMask
}

// Floor returns the page number containing pa, rounding down.
func (pa PhysAddr) Floor() PhysPageNum {
	return PhysPageNum(pa >> PageShift)
}

// Ceil returns the page number at or after pa, rounding up.
func (pa PhysAddr) Ceil() PhysPageNum {
	return PhysPageNum((uint64(pa) + PageSize - 1) >> PageShift)
}

// Add returns pa+n.
func (pa PhysAddr) Add(n uint64) PhysAddr {
	return PhysAddr(uint64(pa) + n)
}

// AlignedDown rounds pa down to a multiple of PageSize.
func (pa PhysAddr) AlignedDown() PhysAddr {
	return PhysAddr(uint64(pa) &^ PageOffsetMask)
}

// ToHighHalf maps pa into the kernel's direct-map window, whose base is
// win. The high-half window is process-invariant: every address space sees
// the same physical page at win+pa regardless of which page table is active.
func (pa PhysAddr) ToHighHalf(win VirtAddr) VirtAddr {
	return VirtAddr(uint64(win) + uint64(pa))
}

// PageOffset returns the in-page byte offset of va.
func (va VirtAddr) PageOffset() uint64 {
	return uint64(va) & PageOffsetMask
}

// Floor returns the page number containing va, rounding down.
func (va VirtAddr) Floor() VirtPageNum {
	return VirtPageNum(va >> PageShift)
}

// Ceil returns the page number at or after va, rounding up.
func (va VirtAddr) Ceil() VirtPageNum {
	return VirtPageNum((uint64(va) + PageSize - 1) >> PageShift)
}

// Add returns va+n.
func (va VirtAddr) Add(n uint64) VirtAddr {
	return VirtAddr(uint64(va) + n)
}

// Sub returns va-n.
func (va VirtAddr) Sub(n uint64) VirtAddr {
	return VirtAddr(uint64(va) - n)
}

// Diff returns va-other as a signed byte count.
func (va VirtAddr) Diff(other VirtAddr) int64 {
	return int64(va) - int64(other)
}

// AlignDown rounds va down to a multiple of n. n must be a power of two.
func (va VirtAddr) AlignDown(n uint64) VirtAddr {
	return VirtAddr(uint64(va) &^ (n - 1))
}

// AlignUp rounds va up to a multiple of n. n must be a power of two.
func (va VirtAddr) AlignUp(n uint64) VirtAddr {
	return va.Add(n - 1).AlignDown(n)
}

// Aligned reports whether va is a multiple of n.
func (va VirtAddr) Aligned(n uint64) bool {
	return uint64(va)%n == 0
}

// StartAddr returns the first byte address of physical page ppn.
func (ppn PhysPageNum) StartAddr() PhysAddr {
	return PhysAddr(uint64(ppn) << PageShift)
}

// EndAddr returns the first byte address past physical page ppn.
func (ppn PhysPageNum) EndAddr() PhysAddr {
	return PhysAddr(uint64(ppn+1) << PageShift)
}

// Add returns ppn+n.
func (ppn PhysPageNum) Add(n uint64) PhysPageNum {
	return PhysPageNum(uint64(ppn) + n)
}

// StartAddr returns the first byte address of virtual page vpn.
func (vpn VirtPageNum) StartAddr() VirtAddr {
	return VirtAddr(uint64(vpn) << PageShift)
}

// EndAddr returns the first byte address past virtual page vpn.
func (vpn VirtPageNum) EndAddr() VirtAddr {
	return VirtAddr(uint64(vpn+1) << PageShift)
}

// Add returns vpn+n.
func (vpn VirtPageNum) Add(n uint64) VirtPageNum {
	return VirtPageNum(uint64(vpn) + n)
}

// Sub returns vpn-n.
func (vpn VirtPageNum) Sub(n uint64) VirtPageNum {
	return VirtPageNum(uint64(vpn) - n)
}

// Diff returns vpn-other as a signed page count.
func (vpn VirtPageNum) Diff(other VirtPageNum) int64 {
	return int64(vpn) - int64(other)
}

// AtOffset returns the address offset bytes into vpn's page.
func (vpn VirtPageNum) AtOffset(offset uint64) VirtAddr {
	return VirtAddr(uint64(vpn)<<PageShift + offset)
}
