// Package pgtbl implements an architecture-neutral, three-level page
// table: map, unmap, translate, and the high-half primitives used to copy
// data into a memory space without that space's table being active.
package pgtbl

import (
	"fmt"
	"sync"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/frame"
)

// numLevels is the number of page table levels walked per translation.
// Three levels of 9 bits each cover a 27-bit virtual page number, the same
// shape as Sv39.
const numLevels = 3
const bitsPerLevel = 9
const indexMask = 1<<bitsPerLevel - 1

// satpModeSv39 is the mode field written into the architecture's
// satp-like activation register for a three-level table.
const satpModeSv39 = 8

var activeMu sync.Mutex
var active *PageTable

// PageTable owns a root frame plus the transitive frames of every
// intermediate level it has allocated. It does not own leaf frames — those
// belong to whichever MappingArea installed them.
type PageTable struct {
	alloc    *frame.Allocator
	dmapBase addr.VirtAddr

	root     frame.TrackedFrame
	interior []frame.TrackedFrame
}

// New allocates an empty page table backed by alloc. dmapBase is the base
// of the kernel's direct-map window, used by AsHighHalf.
func New(alloc *frame.Allocator, dmapBase addr.VirtAddr) (*PageTable, bool) {
	root, ok := alloc.AllocZeroed()
	if !ok {
		return nil, false
	}
	return &PageTable{alloc: alloc, dmapBase: dmapBase, root: root}, true
}

// RootPageNum returns the physical page number of the root table page.
func (pt *PageTable) RootPageNum() addr.PhysPageNum {
	return pt.root.PageNum()
}

// Satp returns the architecture-specific activation value for this table.
func (pt *PageTable) Satp() uint64 {
	return uint64(satpModeSv39)<<60 | uint64(pt.root.PageNum())
}

// Activate installs pt as the currently active table.
func (pt *PageTable) Activate() {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = pt
}

// IsActivated reports whether pt is the currently installed table.
func (pt *PageTable) IsActivated() bool {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active == pt
}

func vpnIndices(vpn addr.VirtPageNum) [numLevels]uint64 {
	v := uint64(vpn)
	return [numLevels]uint64{
		(v >> (2 * bitsPerLevel)) & indexMask,
		(v >> bitsPerLevel) & indexMask,
		v & indexMask,
	}
}

// walk returns the table page and index holding vpn's leaf entry. When
// create is true, missing intermediate levels are allocated; otherwise a
// missing level reports ok=false.
func (pt *PageTable) walk(vpn addr.VirtPageNum, create bool) (table []byte, idx uint64, ok bool) {
	idxs := vpnIndices(vpn)
	table = pt.alloc.BytesAt(pt.root.PageNum())
	for level := 0; level < numLevels-1; level++ {
		e := readEntry(table, idxs[level])
		if !e.valid() {
			if !create {
				return nil, 0, false
			}
			nf, ok := pt.alloc.AllocZeroed()
			if !ok {
				return nil, 0, false
			}
			pt.interior = append(pt.interior, nf)
			e = newPointerEntry(nf.PageNum())
			writeEntry(table, idxs[level], e)
		} else if e.isLeaf() {
			panic(fmt.Sprintf("pgtbl: vpn %d walks through a leaf at level %d", vpn, level))
		}
		table = pt.alloc.BytesAt(e.ppn())
	}
	return table, idxs[numLevels-1], true
}

// MapSingle installs a leaf PTE for vpn with exactly the given flags —
// callers that want the entry to actually translate must include Valid
// themselves. A guard page is installed the same way, with flags left at
// zero: the frame is recorded as owned by the caller but the PTE stays
// absent, so any access to it faults. Mapping over an existing valid leaf
// is a programmer error and panics.
func (pt *PageTable) MapSingle(vpn addr.VirtPageNum, ppn addr.PhysPageNum, flags Flags) bool {
	table, idx, ok := pt.walk(vpn, true)
	if !ok {
		return false
	}
	if existing := readEntry(table, idx); existing.valid() {
		panic(fmt.Sprintf("pgtbl: remap of already-valid vpn %d", vpn))
	}
	writeEntry(table, idx, newLeafEntry(ppn, flags))
	return true
}

// UnmapSingle clears vpn's leaf PTE. Intermediate frames are retained.
func (pt *PageTable) UnmapSingle(vpn addr.VirtPageNum) bool {
	table, idx, ok := pt.walk(vpn, false)
	if !ok {
		return false
	}
	writeEntry(table, idx, entry(0))
	return true
}

// Translate performs a read-only lookup of vpn.
func (pt *PageTable) Translate(vpn addr.VirtPageNum) (addr.PhysPageNum, Flags, bool) {
	table, idx, ok := pt.walk(vpn, false)
	if !ok {
		return 0, 0, false
	}
	e := readEntry(table, idx)
	if !e.valid() {
		return 0, 0, false
	}
	return e.ppn(), e.flags(), true
}

// AsHighHalf returns the physical frame backing va in this table, and the
// kernel direct-map address aliasing that same frame — usable to poke into
// this space while some other page table is currently active.
func (pt *PageTable) AsHighHalf(va addr.VirtAddr) (addr.PhysPageNum, addr.VirtAddr, bool) {
	ppn, _, ok := pt.Translate(va.Floor())
	if !ok {
		return 0, 0, false
	}
	highHalf := ppn.StartAddr().ToHighHalf(pt.dmapBase).Add(va.PageOffset())
	return ppn, highHalf, true
}

// ActivatedCopyDataToOther walks other's mappings starting at dstVA and
// writes data through the high-half alias of each destination frame. It
// returns the number of bytes actually copied; copying stops early if a
// destination page is unmapped.
func (pt *PageTable) ActivatedCopyDataToOther(other *PageTable, dstVA addr.VirtAddr, data []byte) int {
	copied := 0
	for copied < len(data) {
		va := dstVA.Add(uint64(copied))
		ppn, _, ok := other.Translate(va.Floor())
		if !ok {
			break
		}
		offset := va.PageOffset()
		n := addr.PageSize - offset
		if remaining := uint64(len(data) - copied); n > remaining {
			n = remaining
		}
		dst := pt.alloc.BytesAt(ppn)
		copy(dst[offset:uint64(offset)+n], data[copied:uint64(copied)+n])
		copied += int(n)
	}
	return copied
}

// ActivatedCopyValToOther copies value into other's space at dstVA, the
// same way ActivatedCopyDataToOther does, but requires the whole value to
// land: a partial copy means the caller built dstVA wrong, which is a
// kernel invariant violation rather than a recoverable condition.
func (pt *PageTable) ActivatedCopyValToOther(other *PageTable, dstVA addr.VirtAddr, value []byte) {
	n := pt.ActivatedCopyDataToOther(other, dstVA, value)
	if n != len(value) {
		panic(fmt.Sprintf("pgtbl: short value copy at %#x: wrote %d of %d bytes", dstVA, n, len(value)))
	}
}

// Destroy releases the root frame and every intermediate frame this table
// allocated. Leaf frames are not touched: they belong to mapping areas and
// must already have been released by the caller.
func (pt *PageTable) Destroy() {
	for i := range pt.interior {
		pt.interior[i].Free()
	}
	pt.interior = nil
	pt.root.Free()
}
