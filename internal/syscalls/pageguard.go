package syscalls

import (
	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/pgtbl"
	"github.com/oichkatzele/minikernel/internal/vmspace"
)

// guardRange walks [va, va+length) page by page, requiring every covered
// page to translate and carry need (at minimum User; callers add
// Readable/Writable). It returns the physical bytes backing each page in
// order, matching spec.md §4.6's page guard contract: "confirms the
// referenced range lies entirely within mapped pages with required flags
// ... yields a slice or typed view. A missing or mis-flagged page aborts
// the syscall with BadAddress."
//
// Unlike pgtbl.ActivatedCopyDataToOther (used for cross-space ELF/stack
// construction while a *different* table may be "active"), a syscall
// handler always guards its *own* task's address space, so there is no
// need to go through the high-half alias: translating straight to a
// physical page number and fetching its bytes via the allocator is
// sufficient and avoids manufacturing a fake "currently active" table.
func guardRange(space *vmspace.MemorySpace, va addr.VirtAddr, length uint64, need pgtbl.Flags) ([][]byte, error) {
	if length == 0 {
		return nil, nil
	}
	var pages [][]byte
	alloc := space.Allocator()
	remaining := length
	cursor := va
	for remaining > 0 {
		ppn, flags, ok := space.PageTable.Translate(cursor.Floor())
		if !ok || !flags.Has(need) {
			return nil, errs.BadAddress
		}
		offset := cursor.PageOffset()
		n := addr.PageSize - offset
		if n > remaining {
			n = remaining
		}
		bytes := alloc.BytesAt(ppn)
		pages = append(pages, bytes[offset:offset+n])
		remaining -= n
		cursor = cursor.Add(n)
	}
	return pages, nil
}

// GuardedRead validates [va, va+length) as User+Readable and returns its
// contents as one contiguous slice.
func GuardedRead(space *vmspace.MemorySpace, va addr.VirtAddr, length uint64) ([]byte, error) {
	pages, err := guardRange(space, va, length, pgtbl.User|pgtbl.Readable)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, length)
	for _, p := range pages {
		out = append(out, p...)
	}
	return out, nil
}

// GuardedWrite validates [va, va+len(data)) as User+Writable and copies
// data into it.
func GuardedWrite(space *vmspace.MemorySpace, va addr.VirtAddr, data []byte) error {
	pages, err := guardRange(space, va, uint64(len(data)), pgtbl.User|pgtbl.Writable)
	if err != nil {
		return err
	}
	off := 0
	for _, p := range pages {
		copy(p, data[off:off+len(p)])
		off += len(p)
	}
	return nil
}

// maxCStringLen bounds GuardedCString so a missing NUL terminator can't
// walk off into unmapped memory forever.
const maxCStringLen = 4096

// GuardedCString reads a NUL-terminated string out of user memory one
// guarded byte at a time, stopping at the terminator or maxCStringLen.
func GuardedCString(space *vmspace.MemorySpace, va addr.VirtAddr) (string, error) {
	buf := make([]byte, 0, 64)
	for i := 0; i < maxCStringLen; i++ {
		b, err := GuardedRead(space, va.Add(uint64(i)), 1)
		if err != nil {
			return "", err
		}
		if b[0] == 0 {
			return string(buf), nil
		}
		buf = append(buf, b[0])
	}
	return "", errs.InvalidArgument
}
