package vmspace

import (
	"bytes"
	"debug/elf"
	"fmt"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/frame"
	"github.com/oichkatzele/minikernel/internal/pgtbl"
)

// UserStackSize is the fixed size, in bytes, of a new process's stack.
const UserStackSize = 1 << 20

// elf64PhoffOffset and elf64ProgHeaderSize describe the two ELF64 header
// fields debug/elf parses internally but does not expose on File: the
// program header table's file offset and each entry's size. Every ELF64
// file shares this layout (e_phoff lives at byte 32 of the file header,
// right after the 16-byte identification, e_type, e_machine, e_version and
// e_entry, and a Prog64 entry is always 56 bytes), so reading them directly
// out of the raw bytes is simpler than re-deriving them from debug/elf's
// already-parsed Progs.
const elf64PhoffOffset = 32
const elf64ProgHeaderSize = 56

// Builder accumulates the state needed to start a new process: its memory
// space, its entry point, and the stack layout pushed by InitStack.
type Builder struct {
	Space    *MemorySpace
	EntryPC  addr.VirtAddr
	StackTop addr.VirtAddr
	Argc     int
	ArgvBase addr.VirtAddr
	EnvpBase addr.VirtAddr
	Auxv     []AuxEntry
}

// BuildFromELF lays out a new memory space from an ELF64 image: one Framed
// area per PT_LOAD segment, a stack with its two guard pages, and a
// zero-sized brk area, then records the auxiliary vector entries spec'd
// for the dispatcher to hand to InitStack.
func BuildFromELF(alloc *frame.Allocator, dmapBase addr.VirtAddr, elfData []byte) (*Builder, error) {
	space, ok := Empty(alloc, dmapBase)
	if !ok {
		return nil, fmt.Errorf("vmspace: out of frames allocating root page table")
	}
	space.RegisterKernelArea()

	ef, err := elf.NewFile(bytes.NewReader(elfData))
	if err != nil {
		return nil, fmt.Errorf("vmspace: parsing elf: %w", err)
	}
	defer ef.Close()

	var (
		minStartVPN = addr.VirtPageNum(^uint64(0))
		maxEndVPN   addr.VirtPageNum
		haveHead    bool
		pHead       addr.VirtAddr
	)

	for _, ph := range ef.Progs {
		if ph.Type != elf.PT_LOAD {
			continue
		}

		start := addr.VirtAddr(ph.Vaddr)
		end := start.Add(ph.Memsz)
		if !haveHead {
			pHead = start
			haveHead = true
		}

		startVPN := start.Floor()
		endVPN := end.Ceil()
		if startVPN < minStartVPN {
			minStartVPN = startVPN
		}
		if endVPN > maxEndVPN {
			maxEndVPN = endVPN
		}

		perms := pgtbl.Valid | pgtbl.User
		if ph.Flags&elf.PF_R != 0 {
			perms |= pgtbl.Readable
		}
		if ph.Flags&elf.PF_W != 0 {
			perms |= pgtbl.Writable
		}
		if ph.Flags&elf.PF_X != 0 {
			perms |= pgtbl.Executable
		}

		area := NewArea(VPNRangeFromStartEnd(startVPN, endVPN), AreaELF, MapFramed, perms)
		if !space.MapArea(area) {
			return nil, fmt.Errorf("vmspace: out of frames mapping PT_LOAD segment at %#x", ph.Vaddr)
		}

		fileData := elfData[ph.Off : ph.Off+ph.Filesz]
		copied := space.PageTable.ActivatedCopyDataToOther(space.PageTable, start, fileData)
		if copied != len(fileData) {
			return nil, fmt.Errorf("vmspace: short copy loading segment at %#x: wrote %d of %d bytes", ph.Vaddr, copied, len(fileData))
		}

		// file_size may be less than mem_size (bss): explicitly zero the
		// remainder rather than relying on the allocator having zeroed the
		// frame, since MappingArea frames are deliberately uninitialized.
		if ph.Memsz > ph.Filesz {
			bssStart := start.Add(ph.Filesz)
			zeros := make([]byte, ph.Memsz-ph.Filesz)
			space.PageTable.ActivatedCopyDataToOther(space.PageTable, bssStart, zeros)
		}
	}

	if !haveHead {
		return nil, fmt.Errorf("vmspace: elf image has no PT_LOAD segments")
	}

	space.ElfRange = AddrRange{
		Start: minStartVPN.StartAddr(),
		Len:   uint64(maxEndVPN.StartAddr()) - uint64(minStartVPN.StartAddr()),
	}

	phoff := elfPhoff(elfData, ef.ByteOrder)
	auxv := []AuxEntry{
		{AT_PHDR, uint64(pHead) + phoff},
		{AT_PHENT, elf64ProgHeaderSize},
		{AT_PHNUM, uint64(len(ef.Progs))},
		{AT_PAGESZ, addr.PageSize},
		{AT_BASE, 0},
		{AT_FLAGS, 0},
		{AT_ENTRY, ef.Entry},
		{AT_UID, 0},
		{AT_EUID, 0},
		{AT_GID, 0},
		{AT_EGID, 0},
		{AT_HWCAP, 0},
		{AT_CLKTCK, defaultClockTicksPerSecond},
		{AT_SECURE, 0},
	}

	cursor := maxEndVPN.Add(1)
	guardLow := NewArea(VPNRangeSingle(cursor), AreaStackGuardLow, MapFramed, 0)
	if !space.MapArea(guardLow) {
		return nil, fmt.Errorf("vmspace: out of frames mapping stack guard")
	}
	space.StackGuardLowRange = AddrRange{Start: cursor.StartAddr(), Len: addr.PageSize}

	stackPageCount := uint64(UserStackSize / addr.PageSize)
	cursor = cursor.Add(1)
	stackArea := NewArea(VPNRangeFromStartCount(cursor, stackPageCount), AreaStack, MapFramed,
		pgtbl.Valid|pgtbl.Readable|pgtbl.Writable|pgtbl.User)
	if !space.MapArea(stackArea) {
		return nil, fmt.Errorf("vmspace: out of frames mapping stack")
	}
	space.StackRange = AddrRange{Start: cursor.StartAddr(), Len: UserStackSize}

	cursor = cursor.Add(stackPageCount)
	stackTop := cursor.StartAddr()
	guardHigh := NewArea(VPNRangeSingle(cursor), AreaStackGuardHigh, MapFramed, 0)
	if !space.MapArea(guardHigh) {
		return nil, fmt.Errorf("vmspace: out of frames mapping stack guard")
	}
	space.StackGuardHighRange = AddrRange{Start: cursor.StartAddr(), Len: addr.PageSize}

	cursor = cursor.Add(1)
	brkArea := NewArea(VPNRangeFromStartCount(cursor, 0), AreaBrk, MapFramed,
		pgtbl.Valid|pgtbl.Readable|pgtbl.Writable|pgtbl.User)
	if !space.MapArea(brkArea) {
		return nil, fmt.Errorf("vmspace: out of frames mapping brk")
	}
	space.brkAreaIdx = len(space.Areas) - 1
	space.brkStart = cursor.StartAddr()

	return &Builder{
		Space:    space,
		EntryPC:  addr.VirtAddr(ef.Entry),
		StackTop: stackTop,
		Argc:     0,
		ArgvBase: stackTop,
		EnvpBase: stackTop,
		Auxv:     auxv,
	}, nil
}

func elfPhoff(data []byte, order interface{ Uint64([]byte) uint64 }) uint64 {
	return order.Uint64(data[elf64PhoffOffset : elf64PhoffOffset+8])
}
