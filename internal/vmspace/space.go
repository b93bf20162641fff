// Package vmspace implements mapping areas and memory spaces: a memory
// space owns a page table plus an ordered collection of mapping areas, and
// knows how to grow/shrink its program break and how to build itself from
// an ELF image with a fully initialized user stack.
package vmspace

import (
	"fmt"
	"math"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/frame"
	"github.com/oichkatzele/minikernel/internal/pgtbl"
)

// KernelRegionStartVPN and KernelRegionPageCount describe the small,
// fixed kernel region every memory space maps identically, bypassing area
// bookkeeping — the same way the teacher pokes three root-table entries
// directly rather than tracking them as a mapping area.
const KernelRegionStartVPN = addr.VirtPageNum(0x100000)
const KernelRegionPageCount = 3

const noAreaIdx = math.MaxInt

// MemorySpace owns a page table plus an ordered collection of mapping
// areas.
type MemorySpace struct {
	alloc    *frame.Allocator
	dmapBase addr.VirtAddr

	PageTable *pgtbl.PageTable
	Areas     []*MappingArea

	brkAreaIdx int
	brkStart   addr.VirtAddr

	ElfRange            AddrRange
	StackGuardLowRange  AddrRange
	StackRange          AddrRange
	StackGuardHighRange AddrRange
}

// AddrRange is a byte-granular [Start, Start+Len) range, used to record
// where the builder placed the ELF image, the stack, and its guards.
type AddrRange struct {
	Start addr.VirtAddr
	Len   uint64
}

// Empty creates an empty memory space backed by alloc, with dmapBase as
// its high-half direct-map window.
func Empty(alloc *frame.Allocator, dmapBase addr.VirtAddr) (*MemorySpace, bool) {
	pt, ok := pgtbl.New(alloc, dmapBase)
	if !ok {
		return nil, false
	}
	return &MemorySpace{
		alloc:      alloc,
		dmapBase:   dmapBase,
		PageTable:  pt,
		brkAreaIdx: noAreaIdx,
	}, true
}

// Allocator returns the frame allocator backing this space, so callers
// outside the package (the syscall layer's page guard, in particular)
// can fetch the raw bytes of a translated physical page without
// threading a second allocator reference through every call site.
func (ms *MemorySpace) Allocator() *frame.Allocator {
	return ms.alloc
}

// RegisterKernelArea installs the fixed kernel region directly against the
// page table, without tracking it as a MappingArea — every memory space
// gets byte-identical entries here, satisfying the invariant that the
// kernel half of every user page table is the same.
func (ms *MemorySpace) RegisterKernelArea() {
	for i := uint64(0); i < KernelRegionPageCount; i++ {
		vpn := KernelRegionStartVPN.Add(i)
		ppn := addr.PhysPageNum(i)
		ms.PageTable.MapSingle(vpn, ppn, pgtbl.Valid|pgtbl.Readable|pgtbl.Writable|pgtbl.Executable)
	}
}

// MapArea eagerly allocates one frame per VPN in area's range, installs
// each leaf PTE, and appends area to the space.
func (ms *MemorySpace) MapArea(area *MappingArea) bool {
	ok := area.applyMapping(ms.alloc, func(vpn addr.VirtPageNum, ppn addr.PhysPageNum, flags pgtbl.Flags) {
		ms.PageTable.MapSingle(vpn, ppn, flags)
	})
	if !ok {
		return false
	}
	ms.Areas = append(ms.Areas, area)
	return true
}

// UnmapFirstAreaThat unmaps and drops the frames of the first area
// matching predicate, removing it from the space. It reports whether an
// area was found.
func (ms *MemorySpace) UnmapFirstAreaThat(predicate func(*MappingArea) bool) bool {
	for i, area := range ms.Areas {
		if !predicate(area) {
			continue
		}
		area.revokeMapping(func(vpn addr.VirtPageNum) {
			ms.PageTable.UnmapSingle(vpn)
		})
		ms.Areas = append(ms.Areas[:i], ms.Areas[i+1:]...)
		if ms.brkAreaIdx == i {
			ms.brkAreaIdx = noAreaIdx
		} else if ms.brkAreaIdx > i && ms.brkAreaIdx != noAreaIdx {
			ms.brkAreaIdx--
		}
		return true
	}
	return false
}

// UnmapAllAreasThat removes every area matching predicate.
func (ms *MemorySpace) UnmapAllAreasThat(predicate func(*MappingArea) bool) {
	for ms.UnmapFirstAreaThat(predicate) {
	}
}

// UnmapAreaStartsWith removes the area whose range begins at vpn.
func (ms *MemorySpace) UnmapAreaStartsWith(vpn addr.VirtPageNum) bool {
	return ms.UnmapFirstAreaThat(func(a *MappingArea) bool { return a.Range.Start == vpn })
}

// BrkStart returns the byte address at which the brk area begins.
func (ms *MemorySpace) BrkStart() addr.VirtAddr {
	return ms.brkStart
}

// BrkPageRange returns the brk area's current VPN range.
func (ms *MemorySpace) BrkPageRange() VPNRange {
	return ms.Areas[ms.brkAreaIdx].Range
}

// IncreaseBrk extends the brk area's range up to newEndVPN, mapping one
// fresh frame per newly covered page. Moving strictly below the area's
// start is an error; a no-op move (newEndVPN == current end) succeeds
// without doing anything.
func (ms *MemorySpace) IncreaseBrk(newEndVPN addr.VirtPageNum) error {
	brk := ms.Areas[ms.brkAreaIdx]
	if newEndVPN < brk.Range.Start {
		return fmt.Errorf("vmspace: new brk end %d is below brk start %d", newEndVPN, brk.Range.Start)
	}
	oldEnd := brk.Range.End
	if newEndVPN == oldEnd {
		return nil
	}
	grown := VPNRangeFromStartEnd(oldEnd, newEndVPN)
	for _, vpn := range grown.Iter() {
		f, ok := ms.alloc.Alloc()
		if !ok {
			return fmt.Errorf("vmspace: out of frames growing brk to %d", newEndVPN)
		}
		brk.applyMappingSingle(vpn, f, func(vpn addr.VirtPageNum, ppn addr.PhysPageNum, flags pgtbl.Flags) {
			ms.PageTable.MapSingle(vpn, ppn, flags)
		})
	}
	brk.Range = VPNRangeFromStartEnd(brk.Range.Start, newEndVPN)
	return nil
}

// ShrinkBrk retracts the brk area's range down to newEndVPN, dropping the
// frames and PTEs of every page beyond it.
func (ms *MemorySpace) ShrinkBrk(newEndVPN addr.VirtPageNum) error {
	brk := ms.Areas[ms.brkAreaIdx]
	if newEndVPN > brk.Range.End {
		return fmt.Errorf("vmspace: new brk end %d is above current end %d", newEndVPN, brk.Range.End)
	}
	if newEndVPN < brk.Range.Start {
		return fmt.Errorf("vmspace: new brk end %d is below brk start %d", newEndVPN, brk.Range.Start)
	}
	oldEnd := brk.Range.End
	if newEndVPN == oldEnd {
		return nil
	}
	shrunk := VPNRangeFromStartEnd(newEndVPN, oldEnd)
	for _, vpn := range shrunk.Iter() {
		ms.PageTable.UnmapSingle(vpn)
		// revokeMapping frees through area.frames; inline the equivalent
		// here since we only want part of the range.
	}
	for _, vpn := range shrunk.Iter() {
		if f, ok := brk.frameAt(vpn); ok {
			f.Free()
			brk.deleteFrame(vpn)
		}
	}
	brk.Range = VPNRangeFromStartEnd(brk.Range.Start, newEndVPN)
	return nil
}

func (a *MappingArea) frameAt(vpn addr.VirtPageNum) (frame.TrackedFrame, bool) {
	f, ok := a.frames[vpn]
	return f, ok
}

func (a *MappingArea) deleteFrame(vpn addr.VirtPageNum) {
	delete(a.frames, vpn)
}

// CloneExisting produces a deep copy of src: a fresh empty space with the
// kernel region registered, a same-shaped area per source area with freshly
// allocated frames, and page contents copied through each table's
// high-half alias — neither space needs to be the currently active one.
func CloneExisting(src *MemorySpace) (*MemorySpace, bool) {
	dst, ok := Empty(src.alloc, src.dmapBase)
	if !ok {
		return nil, false
	}
	dst.RegisterKernelArea()
	dst.brkAreaIdx = src.brkAreaIdx
	dst.brkStart = src.brkStart
	dst.ElfRange = src.ElfRange
	dst.StackGuardLowRange = src.StackGuardLowRange
	dst.StackRange = src.StackRange
	dst.StackGuardHighRange = src.StackGuardHighRange

	for _, area := range src.Areas {
		newArea := area.cloneShape()
		if !dst.MapArea(newArea) {
			return nil, false
		}
		for _, vpn := range area.Range.Iter() {
			srcPPN, _, ok := src.PageTable.Translate(vpn)
			if !ok {
				continue // guard pages carry no valid PTE; nothing to copy
			}
			dstPPN, _, ok := dst.PageTable.Translate(vpn)
			if !ok {
				continue
			}
			copy(src.alloc.BytesAt(dstPPN), src.alloc.BytesAt(srcPPN))
		}
	}
	return dst, true
}

// Destroy releases every area's frames and the page table itself.
func (ms *MemorySpace) Destroy() {
	ms.UnmapAllAreasThat(func(*MappingArea) bool { return true })
	ms.PageTable.Destroy()
}
