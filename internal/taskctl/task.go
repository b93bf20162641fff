// Package taskctl holds the task control block fields the syscall layer
// observes (spec.md §1 non-goals: "we specify only what the syscall
// layer observes", §4.6: "the current task control block (fd table,
// cwd, memory space, timers, exit code, brk position, task status)").
// Scheduling and context switching themselves are out of scope.
package taskctl

import (
	"sync"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/fd"
	"github.com/oichkatzele/minikernel/internal/vmspace"
)

// Status mirrors the handful of task states the syscall layer cares
// about (spec.md §5's "Exited" state plus an implicit running/sleeping
// split for the cooperative nanosleep handler).
type Status int

const (
	Running Status = iota
	Sleeping
	Exited
)

// Tid is a task identifier, grounded on the teacher's defs.Tid_t
// (referenced by tinfo.Tnote_t.Killnaps but left a bare newtype here
// since this module owns no scheduler to allocate them against).
type Tid uint64

// TCB is a task control block: everything the syscall dispatcher reads
// or writes on behalf of one task.
type TCB struct {
	ID Tid

	mu     sync.Mutex
	status Status

	Fds   *fd.Table
	Cwd   *fd.Cwd
	Space *vmspace.MemorySpace

	Accounting Accounting

	// BrkBytes is the byte-granular brk pointer kept outside the brk
	// mapping area, per spec.md §4.3: "the byte-granular brk pointer is
	// kept outside the area (in the task control block), and only
	// page-boundary changes trigger extend/shrink."
	BrkBytes addr.VirtAddr

	exitCode int
}

// New builds a task control block with a fresh fd table, the given cwd
// and memory space, and the brk pointer initialized to the space's brk
// area start.
func New(id Tid, space *vmspace.MemorySpace, cwd *fd.Cwd) *TCB {
	return &TCB{
		ID:       id,
		Fds:      fd.NewTable(),
		Cwd:      cwd,
		Space:    space,
		BrkBytes: space.BrkStart(),
	}
}

// Status returns the task's current status.
func (t *TCB) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// SetStatus updates the task's status.
func (t *TCB) SetStatus(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
}

// Exit marks the task Exited and records its exit code. Per spec.md §5
// ("An exiting task runs its handler to completion; only afterward does
// its status become Exited"), callers invoke this only after the exit
// syscall handler has otherwise finished running.
func (t *TCB) Exit(code int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = Exited
	t.exitCode = code
}

// ExitCode returns the code recorded by Exit.
func (t *TCB) ExitCode() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exitCode
}
