package vfs

import (
	"sync"

	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/frame"
)

// initialMounts is the set of first-level empty directories present right
// after Initialize (spec.md §6, "Root namespace after initialize()").
var initialMounts = []string{
	"boot", "dev", "etc", "home", "root", "opt", "mnt", "proc", "sys", "tmp", "run", "usr", "var",
}

var (
	rootMu sync.Mutex
	root   *Node

	// globalAlloc backs RAM files created by Touch on an Empty node. The
	// frame allocator is a process-global singleton (spec.md §9), so the
	// VFS package keeps its own reference rather than threading one
	// through every Touch call.
	globalAlloc *frame.Allocator
)

// Initialize builds the root namespace: an empty root with the standard
// first-level mount points, plus /dev/console, /dev/null and /dev/zero.
func Initialize(alloc *frame.Allocator) *Node {
	globalAlloc = alloc

	r := NewEmpty(nil, "")
	for _, name := range initialMounts {
		r.MountEmpty(name)
	}

	rootMu.Lock()
	root = r
	rootMu.Unlock()

	dev, err := r.OpenChild("dev")
	if err != nil {
		panic("vfs: /dev vanished during initialize")
	}
	dev.MountAs(NewConsoleInode(), "console")
	dev.MountAs(NewNullInode(), "null")
	dev.MountAs(NewZeroInode(), "zero")

	proc, err := r.OpenChild("proc")
	if err != nil {
		panic("vfs: /proc vanished during initialize")
	}
	proc.MountAs(newProcSelfInode(alloc), "self")

	return r
}

// Root returns the current root node.
func Root() *Node {
	rootMu.Lock()
	defer rootMu.Unlock()
	return root
}

// globalOpen resolves path, starting from root if it is fully qualified
// (leading '/'), otherwise from relativeTo.
func globalOpen(path string, relativeTo *Node) (*Node, error) {
	var current *Node
	if isFullyQualified(path) {
		current = Root()
	} else {
		if relativeTo == nil {
			return nil, errs.InvalidInput
		}
		current = relativeTo
	}

	for _, part := range splitSegments(path) {
		next, err := current.OpenChild(part)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// GlobalOpen resolves path relative to relativeTo (nil meaning "no base",
// valid only for fully-qualified paths).
func GlobalOpen(path string, relativeTo *Node) (*Node, error) {
	return globalOpen(path, relativeTo)
}

// GlobalMount mounts inode at path, resolved relative to relativeTo. A
// fully-qualified path consisting of nothing but separators (e.g. "/")
// replaces the whole root, shadowing the previous one.
func GlobalMount(inode Inode, path string, relativeTo *Node) (*Node, error) {
	if isFullyQualified(path) && len(splitSegments(path)) == 0 {
		rootMu.Lock()
		defer rootMu.Unlock()
		newRoot := NewInode(nil, inode, "")
		newRoot.shadowed = root
		root = newRoot
		return newRoot, nil
	}

	base := Root()
	if relativeTo != nil && !isFullyQualified(path) {
		base = relativeTo
	}

	parentPath := directoryName(path)
	name := baseName(path)
	parent, err := globalOpen(parentPath, base)
	if err != nil {
		return nil, errs.MountFileNotExists
	}
	return parent.MountAs(inode, name), nil
}

// GlobalUmount reverses GlobalMount. A fully-qualified all-separators path
// restores whatever root the most recent full-root mount shadowed.
func GlobalUmount(path string, relativeTo *Node) (*Node, error) {
	if isFullyQualified(path) && len(splitSegments(path)) == 0 {
		rootMu.Lock()
		defer rootMu.Unlock()
		previous := root.shadowed
		if previous == nil {
			previous = NewEmpty(nil, "")
		}
		restored := previous
		root.shadowed = nil
		root = restored
		return restored, nil
	}

	base := Root()
	if relativeTo != nil && !isFullyQualified(path) {
		base = relativeTo
	}

	parentPath := directoryName(path)
	name := baseName(path)
	parent, err := globalOpen(parentPath, base)
	if err != nil {
		return nil, errs.MountFileNotExists
	}
	return parent.UmountAt(name)
}
