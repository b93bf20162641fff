package syscalls

import (
	"sync/atomic"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/pgtbl"
	"github.com/oichkatzele/minikernel/internal/vmspace"
)

// mmap prot bits (Linux ABI): PROT_READ, PROT_WRITE, PROT_EXEC.
const (
	protRead  = 1
	protWrite = 2
	protExec  = 4
)

// mmapBaseVPN is the first VPN a "kernel chooses" mmap (addr == 0) is
// placed at. It sits well clear of the fixed kernel region
// (vmspace.KernelRegionStartVPN = 0x100000) and of the ELF/stack/brk
// area the builder lays out starting near the ELF's own vaddr, so
// anonymous mappings never collide with either (spec.md §4.6: "address
// zero means kernel chooses").
const mmapBaseVPN = addr.VirtPageNum(0x400000)

// mmapCursor hands out monotonically increasing VPN ranges for
// kernel-chosen mmaps. A process-global bump allocator mirrors the frame
// allocator's own singleton shape (spec.md §5); it is never reclaimed on
// munmap, matching the teacher's own bump-style vm region allocation
// rather than implementing a free-list no caller in this kernel needs.
var mmapCursor atomic.Uint64

func init() {
	mmapCursor.Store(uint64(mmapBaseVPN))
}

func protToFlags(prot uint64) pgtbl.Flags {
	flags := pgtbl.Valid | pgtbl.User
	if prot&protRead != 0 {
		flags |= pgtbl.Readable
	}
	if prot&protWrite != 0 {
		flags |= pgtbl.Writable
	}
	if prot&protExec != 0 {
		flags |= pgtbl.Executable
	}
	return flags
}

// SysMmapHandler implements mmap(addr, length, prot, flags, fd, offset):
// adds a framed mapping area of the requested length with permissions
// derived from prot. File-backed mmap is out of scope (spec.md's
// component list only ever builds Framed areas from ELF/stack/brk or bare
// anonymous memory); fd/offset are accepted but ignored, matching
// MAP_ANONYMOUS being the only mode this kernel's builder ever produces.
func SysMmapHandler(ctx *Context) int64 {
	hintVA := addr.VirtAddr(ctx.Arg(0))
	length := ctx.Arg(1)
	prot := ctx.Arg(2)

	if length == 0 {
		return int64(errs.InvalidArgument)
	}
	pageCount := (length + addr.PageSize - 1) / addr.PageSize

	var startVPN addr.VirtPageNum
	if hintVA == 0 {
		startVPN = addr.VirtPageNum(mmapCursor.Add(pageCount) - pageCount)
	} else {
		startVPN = hintVA.Floor()
	}

	area := vmspace.NewArea(
		vmspace.VPNRangeFromStartCount(startVPN, pageCount),
		vmspace.AreaMmap,
		vmspace.MapFramed,
		protToFlags(prot),
	)
	if !ctx.Task.Space.MapArea(area) {
		return int64(errs.InvalidArgument)
	}
	return int64(startVPN.StartAddr())
}

// SysMunmapHandler implements munmap(addr, length): removes the framed
// mapping area starting at addr.
func SysMunmapHandler(ctx *Context) int64 {
	va := addr.VirtAddr(ctx.Arg(0))
	startVPN := va.Floor()
	if !ctx.Task.Space.UnmapAreaStartsWith(startVPN) {
		return int64(errs.InvalidArgument)
	}
	return 0
}

// SysBrkHandler implements brk(addr): 0 or equal returns current;
// smaller than current is an error; larger extends the brk area at page
// granularity and records the byte-granular new value (spec.md §4.3,
// §4.6).
func SysBrkHandler(ctx *Context) int64 {
	requested := addr.VirtAddr(ctx.Arg(0))
	current := ctx.Task.BrkBytes

	if requested == 0 || requested == current {
		return int64(current)
	}
	if requested < current {
		return int64(errs.InvalidArgument)
	}

	newEndVPN := requested.Ceil()
	if err := ctx.Task.Space.IncreaseBrk(newEndVPN); err != nil {
		return int64(errs.InvalidArgument)
	}
	ctx.Task.BrkBytes = requested
	return int64(requested)
}
