// Package frame implements the kernel's physical frame allocator: a
// singleton pool of page-sized frames handed out as owning TrackedFrame
// handles. Physical memory itself is simulated as a plain byte slice —
// this kernel never touches real hardware, so "physical" here means
// "backed by the allocator's byte slice" rather than an actual DRAM range.
package frame

import (
	"fmt"
	"sync"

	"github.com/oichkatzele/minikernel/internal/addr"
)

// Config configures an Allocator. It is a plain struct literal the caller
// builds, not a value parsed from a config file — this kernel hardcodes its
// sizing the way a bare-metal kernel hardcodes memory layout constants.
type Config struct {
	// Base is the physical page number of the first page in the pool.
	Base addr.PhysPageNum
	// NumPages is the number of pages in the pool.
	NumPages uint64
}

// Allocator is a singleton pool of physical frames backed by a byte slice.
// It is safe for concurrent use.
type Allocator struct {
	mu sync.Mutex

	base     addr.PhysPageNum
	numPages uint64
	memory   []byte

	// free is a LIFO free list of previously allocated-then-freed pages.
	free []addr.PhysPageNum
	// bump is the page number of the next never-yet-allocated page; pages
	// below base+bump have either been handed out or are on free.
	bump uint64
}

// New creates an Allocator over cfg.NumPages pages starting at cfg.Base.
func New(cfg Config) *Allocator {
	return &Allocator{
		base:     cfg.Base,
		numPages: cfg.NumPages,
		memory:   make([]byte, cfg.NumPages*addr.PageSize),
	}
}

// NumPages returns the total capacity of the pool.
func (a *Allocator) NumPages() uint64 {
	return a.numPages
}

// Base returns the page number of the first page in the pool.
func (a *Allocator) Base() addr.PhysPageNum {
	return a.base
}

// AllocatedPages reports how many pages are currently handed out (bumped
// past never touched, minus whatever has been freed back onto the free
// list). Used by /proc/self/status to report live memory usage.
func (a *Allocator) AllocatedPages() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bump - uint64(len(a.free))
}

// InRange reports whether ppn belongs to this pool.
func (a *Allocator) InRange(ppn addr.PhysPageNum) bool {
	if ppn < a.base {
		return false
	}
	off := uint64(ppn - a.base)
	return off < a.numPages
}

func (a *Allocator) pageBytes(ppn addr.PhysPageNum) []byte {
	off := uint64(ppn-a.base) * addr.PageSize
	return a.memory[off : off+addr.PageSize]
}

// BytesAt returns the byte slice backing ppn, regardless of whether the
// caller holds the TrackedFrame that owns it. Page table walkers use this to
// reach interior table pages and to implement cross-space copies through the
// high-half window, where only a physical page number is known.
func (a *Allocator) BytesAt(ppn addr.PhysPageNum) []byte {
	if !a.InRange(ppn) {
		panic(fmt.Sprintf("frame: page %d out of pool range", ppn))
	}
	return a.pageBytes(ppn)
}

// Alloc hands out one frame, uninitialized. It returns ok=false if the pool
// is exhausted; out-of-memory is a recoverable failure, never a panic.
func (a *Allocator) Alloc() (TrackedFrame, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ppn, ok := a.allocLocked()
	if !ok {
		return TrackedFrame{}, false
	}
	return TrackedFrame{ppn: ppn, pool: a}, true
}

// AllocZeroed hands out one frame with its contents zeroed.
func (a *Allocator) AllocZeroed() (TrackedFrame, bool) {
	tf, ok := a.Alloc()
	if !ok {
		return TrackedFrame{}, false
	}
	clear(a.pageBytes(tf.ppn))
	return tf, true
}

// AllocContig hands out n contiguous, uninitialized frames, or fails the
// whole request if no run of n free pages is available. Contiguous runs can
// only be satisfied from never-yet-allocated pages; the recycled free list
// is not compacted to find runs, matching the teacher's own free list
// (no defragmentation).
func (a *Allocator) AllocContig(n uint64) ([]TrackedFrame, bool) {
	if n == 0 {
		return nil, true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.bump+n > a.numPages {
		return nil, false
	}
	out := make([]TrackedFrame, n)
	for i := uint64(0); i < n; i++ {
		out[i] = TrackedFrame{ppn: a.base.Add(a.bump), pool: a}
		a.bump++
	}
	return out, true
}

func (a *Allocator) allocLocked() (addr.PhysPageNum, bool) {
	if l := len(a.free); l > 0 {
		ppn := a.free[l-1]
		a.free = a.free[:l-1]
		return ppn, true
	}
	if a.bump >= a.numPages {
		return 0, false
	}
	ppn := a.base.Add(a.bump)
	a.bump++
	return ppn, true
}

func (a *Allocator) dealloc(ppn addr.PhysPageNum) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.free = append(a.free, ppn)
}

// TrackedFrame is an owning handle to exactly one physical page. Go has no
// destructors, so ownership is enforced by convention rather than the
// compiler: callers must call Free exactly once when the frame is no longer
// referenced by any mapping area or page table. Calling Free twice panics,
// the same "double free" assertion the teacher makes on its refcounts.
type TrackedFrame struct {
	ppn   addr.PhysPageNum
	pool  *Allocator
	freed bool
}

// PageNum returns the physical page number this frame owns.
func (f *TrackedFrame) PageNum() addr.PhysPageNum {
	return f.ppn
}

// Bytes returns the frame's backing storage. The slice is only valid until
// Free is called.
func (f *TrackedFrame) Bytes() []byte {
	if f.freed {
		panic("frame: use after free")
	}
	return f.pool.pageBytes(f.ppn)
}

// Free returns the frame to its allocator's free list.
func (f *TrackedFrame) Free() {
	if f.freed {
		panic(fmt.Sprintf("frame: double free of page %d", f.ppn))
	}
	f.freed = true
	f.pool.dealloc(f.ppn)
}

// Valid reports whether f still owns a live frame (false for the zero value
// and after Free has been called).
func (f *TrackedFrame) Valid() bool {
	return f.pool != nil && !f.freed
}
