package vmspace

import (
	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/frame"
	"github.com/oichkatzele/minikernel/internal/pgtbl"
)

// AreaKind classifies a MappingArea by its role in a user memory space.
type AreaKind int

const (
	AreaELF AreaKind = iota
	AreaStackGuardLow
	AreaStack
	AreaStackGuardHigh
	AreaBrk
	AreaKernel
	// AreaMmap tags an anonymous area installed by the mmap syscall handler
	// rather than the ELF/stack/brk builder (spec.md §4.6).
	AreaMmap
)

func (k AreaKind) String() string {
	switch k {
	case AreaELF:
		return "elf"
	case AreaStackGuardLow:
		return "stack-guard-low"
	case AreaStack:
		return "stack"
	case AreaStackGuardHigh:
		return "stack-guard-high"
	case AreaBrk:
		return "brk"
	case AreaKernel:
		return "kernel"
	case AreaMmap:
		return "mmap"
	default:
		return "unknown"
	}
}

// MapKind selects how an area's pages are backed. Only Framed is ever used
// for user-space areas; Identity/Direct/Linear are part of the data model
// spec.md names but, like the kernel area's raw table pokes, no component
// in this kernel constructs a MappingArea with them — the kernel region is
// installed directly against the page table rather than through an area
// (see MemorySpace.RegisterKernelArea).
type MapKind int

const (
	MapIdentity MapKind = iota
	MapFramed
	MapDirect
	MapLinear
)

// MappingArea is a contiguous half-open VPN range with a fixed permission
// set and, for Framed areas, one owned frame per page.
type MappingArea struct {
	Range       VPNRange
	Kind        AreaKind
	MapKind     MapKind
	Permissions pgtbl.Flags

	frames map[addr.VirtPageNum]frame.TrackedFrame
}

// NewArea builds an empty area over rng; no frames are allocated and no
// PTEs installed until it is passed to MemorySpace.MapArea.
func NewArea(rng VPNRange, kind AreaKind, mapKind MapKind, perms pgtbl.Flags) *MappingArea {
	return &MappingArea{
		Range:       rng,
		Kind:        kind,
		MapKind:     mapKind,
		Permissions: perms,
		frames:      make(map[addr.VirtPageNum]frame.TrackedFrame),
	}
}

// cloneShape returns a new, unmapped area with the same range/kind/
// permissions as a, owning no frames — used by MemorySpace.CloneExisting.
func (a *MappingArea) cloneShape() *MappingArea {
	return NewArea(a.Range, a.Kind, a.MapKind, a.Permissions)
}

// Contains reports whether vpn falls within the area's range.
func (a *MappingArea) Contains(vpn addr.VirtPageNum) bool {
	return a.Range.Contains(vpn)
}

// HasOwnership reports whether the area owns a frame backing vpn.
func (a *MappingArea) HasOwnership(vpn addr.VirtPageNum) bool {
	_, ok := a.frames[vpn]
	return ok
}

// applyMappingSingle adopts the already-allocated frame f for vpn, installs
// its PTE via register, then records ownership. It never allocates.
// Ownership is recorded last: register installing the PTE is itself
// infallible once walk succeeds, so there is no partial-state window where
// the area's own bookkeeping disagrees with the page table.
func (a *MappingArea) applyMappingSingle(vpn addr.VirtPageNum, f frame.TrackedFrame, register func(addr.VirtPageNum, addr.PhysPageNum, pgtbl.Flags)) {
	register(vpn, f.PageNum(), a.Permissions)
	a.frames[vpn] = f
}

// applyMapping allocates one frame per page in the area's range and
// installs each via register.
func (a *MappingArea) applyMapping(alloc *frame.Allocator, register func(addr.VirtPageNum, addr.PhysPageNum, pgtbl.Flags)) bool {
	for _, vpn := range a.Range.Iter() {
		f, ok := alloc.Alloc()
		if !ok {
			return false
		}
		a.applyMappingSingle(vpn, f, register)
	}
	return true
}

// revokeMapping clears every PTE in the area's range via revoke and frees
// every frame the area owns.
func (a *MappingArea) revokeMapping(revoke func(addr.VirtPageNum)) {
	for _, vpn := range a.Range.Iter() {
		revoke(vpn)
		if f, ok := a.frames[vpn]; ok {
			f.Free()
			delete(a.frames, vpn)
		}
	}
}
