package vfs

import (
	"fmt"

	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/frame"
)

// procSelfStatusInode is a read-only snapshot of allocator usage, generated
// once at lookup time — the same "content materializes the moment you open
// it" behavior a real /proc file has, as opposed to a ramFileInode's
// persistent, writable buffer.
type procSelfStatusInode struct {
	baseInode
	content []byte
}

func newProcSelfStatusInode(alloc *frame.Allocator) Inode {
	body := fmt.Sprintf("Pid:\t1\nState:\tR (running)\nVmPages:\t%d\nVmPool:\t%d\n",
		alloc.AllocatedPages(), alloc.NumPages())
	return &procSelfStatusInode{content: []byte(body)}
}

func (p *procSelfStatusInode) Metadata() (Metadata, error) {
	return Metadata{Filename: "status", EntryType: EntryFile, Size: uint64(len(p.content))}, nil
}

func (p *procSelfStatusInode) Stat(st *Statistics) error {
	*st = Statistics{Mode: StatModeFile, LinkCount: 1, Size: uint64(len(p.content)), BlockSize: 512}
	return nil
}

func (p *procSelfStatusInode) ReadAt(offset uint64, buf []byte) (int, error) {
	if offset >= uint64(len(p.content)) {
		return 0, nil
	}
	return copy(buf, p.content[offset:]), nil
}

// procSelfInode backs /proc/self. Its one child, "status", is never
// pre-mounted — it only comes into existence the moment something resolves
// the path, through DirectoryTreeNode's lazy-open branch (spec.md §4.5:
// "lazy child opening via weak references"). Every other directory in this
// kernel is an Empty mount-only node, so this is the one concrete backing
// inode that implements Lookup instead of inheriting baseInode's blanket
// NotADirectory, and the one path that actually populates and drains a
// node's `opened` cache.
type procSelfInode struct {
	baseInode
	alloc *frame.Allocator
}

func newProcSelfInode(alloc *frame.Allocator) Inode {
	return &procSelfInode{alloc: alloc}
}

func (p *procSelfInode) Metadata() (Metadata, error) {
	return Metadata{Filename: "self", EntryType: EntryDirectory, ChildrenCount: 1}, nil
}

func (p *procSelfInode) Stat(st *Statistics) error {
	*st = Statistics{Mode: StatModeDir, LinkCount: 1, BlockSize: 512}
	return nil
}

func (p *procSelfInode) Lookup(name string) (Inode, error) {
	if name != "status" {
		return nil, errs.NotFound
	}
	return newProcSelfStatusInode(p.alloc), nil
}

func (p *procSelfInode) ReadDir() ([]DirectoryEntry, error) {
	return []DirectoryEntry{{Filename: "status", EntryType: EntryFile}}, nil
}
