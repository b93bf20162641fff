// Package fd implements the file-descriptor layer: an access-capable
// wrapper around an opened vfs inode (spec.md §3 "File descriptor"),
// plus the per-task indexed table and cwd tracking that the syscall
// surface consumes (§4.6).
package fd

import (
	"sync"

	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/vfs"
)

// Perm mirrors the teacher's FD_READ/FD_WRITE bits (fd/fd.go).
type Perm int

const (
	Readable Perm = 1 << iota
	Writable
)

// Flags are per-descriptor flags independent of the open permissions.
// CloseOnExec mirrors FD_CLOEXEC; dup() never copies it (Linux/POSIX
// dup semantics), dup3 only sets it when O_CLOEXEC is passed explicitly.
type Flags int

const (
	CloseOnExec Flags = 1 << iota
)

// AtFDCWD is the sentinel dirfd meaning "relative to the task's cwd"
// (spec.md §6, "File-descriptor conventions").
const AtFDCWD = -100

// FD is one open file descriptor: an inode reference plus a byte
// cursor, permission bits and flags. VNode is non-nil when the
// descriptor was opened through the directory tree (so it can serve
// as the relativeTo base for a further openat); pipe endpoints and
// other non-tree-backed descriptors leave it nil and only populate
// Backing.
type FD struct {
	mu      sync.Mutex
	Backing vfs.Inode
	VNode   *vfs.Node
	Perm    Perm
	Flags   Flags
	offset  uint64
	direntCursor int
}

// New wraps an opened inode. node may be nil for non-tree-backed
// descriptors (pipes).
func New(backing vfs.Inode, node *vfs.Node, perm Perm) *FD {
	return &FD{Backing: backing, VNode: node, Perm: perm}
}

func (f *FD) Readable() bool { return f.Perm&Readable != 0 }
func (f *FD) Writable() bool { return f.Perm&Writable != 0 }

// Offset returns the current byte cursor.
func (f *FD) Offset() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset
}

// SetOffset overwrites the byte cursor (used by lseek-style handlers).
func (f *FD) SetOffset(off uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offset = off
}

// DirentCursor and SetDirentCursor track getdents64's "next entry to
// emit" index, separate from the byte cursor since directory entries
// have no natural byte offset.
func (f *FD) DirentCursor() int { return f.direntCursor }

func (f *FD) SetDirentCursor(n int) { f.direntCursor = n }

// Read advances the cursor by the number of bytes actually read.
func (f *FD) Read(buf []byte) (int, error) {
	if !f.Readable() {
		return 0, errs.NotAFile
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.Backing.ReadAt(f.offset, buf)
	f.offset += uint64(n)
	return n, err
}

// Write advances the cursor by the number of bytes actually written.
func (f *FD) Write(buf []byte) (int, error) {
	if !f.Writable() {
		return 0, errs.NotAFile
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.Backing.WriteAt(f.offset, buf)
	f.offset += uint64(n)
	return n, err
}

// Dup clones the descriptor (teacher's Copyfd, fd/fd.go), sharing the
// same backing inode and VNode, starting at the original's current
// cursor position and dropping CloseOnExec, matching POSIX dup()/dup2()
// semantics. The clone's cursor is a copy, not shared. The clone
// is a new external reference to VNode, so it must Acquire its own share
// of the refcount: every close (SysCloseHandler, dup3's eviction path)
// calls VNode.Release() unconditionally, and without a matching Acquire
// here the original's reference would be dropped out from under it.
func (f *FD) Dup() *FD {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.VNode != nil {
		f.VNode.Acquire()
	}
	return &FD{
		Backing: f.Backing,
		VNode:   f.VNode,
		Perm:    f.Perm,
		offset:  f.offset,
	}
}
