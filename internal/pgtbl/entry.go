package pgtbl

import (
	"encoding/binary"

	"github.com/oichkatzele/minikernel/internal/addr"
)

// entry is a single page table entry as stored on a table page: the upper
// bits hold a physical page number, the low 8 bits hold Flags. An entry
// whose flags are Valid but none of Readable/Writable/Executable is a
// pointer to the next table level rather than a leaf.
type entry uint64

const entryFlagsMask = 0xff
const entryPPNShift = 10

func newLeafEntry(ppn addr.PhysPageNum, flags Flags) entry {
	return entry(uint64(ppn)<<entryPPNShift | uint64(flags&entryFlagsMask))
}

func newPointerEntry(ppn addr.PhysPageNum) entry {
	return entry(uint64(ppn)<<entryPPNShift | uint64(Valid))
}

func (e entry) ppn() addr.PhysPageNum {
	return addr.PhysPageNum(uint64(e) >> entryPPNShift)
}

func (e entry) flags() Flags {
	return Flags(uint64(e) & entryFlagsMask)
}

func (e entry) valid() bool {
	return e.flags().Has(Valid)
}

// isLeaf reports whether e is a leaf (maps a user page) rather than a
// pointer to the next table level.
func (e entry) isLeaf() bool {
	return e.valid() && uint64(e.flags()&(Readable|Writable|Executable)) != 0
}

const entrySize = 8
const entriesPerTable = addr.PageSize / entrySize

func readEntry(table []byte, idx uint64) entry {
	off := idx * entrySize
	return entry(binary.LittleEndian.Uint64(table[off : off+entrySize]))
}

func writeEntry(table []byte, idx uint64, e entry) {
	off := idx * entrySize
	binary.LittleEndian.PutUint64(table[off:off+entrySize], uint64(e))
}
