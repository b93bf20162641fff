package vfs

import (
	"sync"

	"github.com/oichkatzele/minikernel/internal/errs"
)

type nodeKind int

const (
	kindEmpty nodeKind = iota
	kindInode
)

// openedEntry tracks how many live handles a lazily-opened (not mounted)
// child has outstanding. Rust's original leans on Weak<T>/Arc<T> refcounting
// to know when the last external reference to an opened node disappears;
// Go has no destructors and no built-in strong/weak split, so the entry
// carries an explicit count instead, mutated only while the parent's mutex
// is held. When it reaches zero the entry is dropped from the parent's
// opened map, the same observable effect as the Rust Drop impl calling
// parent.close(name).
type openedEntry struct {
	node *Node
	refs int32
}

// Node is one name in the unified mount tree (spec.md §3, "Directory-tree
// node"). A node either wraps a backing Inode or is Empty, a pure mount
// point. Every field below mu is protected by it.
type Node struct {
	parent *Node
	name   string

	mu      sync.Mutex
	kind    nodeKind
	backing Inode
	mounted map[string]*Node
	opened  map[string]*openedEntry
	shadowed *Node
}

func newNode(parent *Node, kind nodeKind, backing Inode, name string) *Node {
	return &Node{
		parent:  parent,
		name:    name,
		kind:    kind,
		backing: backing,
		mounted: make(map[string]*Node),
		opened:  make(map[string]*openedEntry),
	}
}

// NewEmpty constructs a mount-only virtual directory.
func NewEmpty(parent *Node, name string) *Node {
	return newNode(parent, kindEmpty, nil, name)
}

// NewInode wraps an existing Inode as a tree node.
func NewInode(parent *Node, inode Inode, name string) *Node {
	return newNode(parent, kindInode, inode, name)
}

// Name returns the node's fixed name within its parent.
func (n *Node) Name() string { return n.name }

// Parent returns the strong parent pointer, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// FullPath walks parent pointers to reconstruct the absolute path this node
// was reached at (original_source tree.rs fullpath, a supplemented feature —
// see SPEC_FULL.md §3).
func (n *Node) FullPath() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	if len(parts) == 0 {
		return separator
	}
	var sb []byte
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "" {
			continue
		}
		sb = append(sb, '/')
		sb = append(sb, parts[i]...)
	}
	if len(sb) == 0 {
		return separator
	}
	return string(sb)
}

// Acquire increments the reference count if n is a currently-tracked
// lazily-opened node (a no-op for mounted/root nodes, which aren't
// refcounted). Returns n for chaining.
func (n *Node) Acquire() *Node {
	if n.parent == nil {
		return n
	}
	p := n.parent
	p.mu.Lock()
	if e, ok := p.opened[n.name]; ok && e.node == n {
		e.refs++
	}
	p.mu.Unlock()
	return n
}

// Release drops one reference to a lazily-opened node; at zero it is
// evicted from the parent's opened cache, mirroring the original's
// Drop-triggered parent.close(name). A no-op for mounted/root nodes.
func (n *Node) Release() {
	if n.parent == nil {
		return
	}
	p := n.parent
	p.mu.Lock()
	if e, ok := p.opened[n.name]; ok && e.node == n {
		e.refs--
		if e.refs <= 0 {
			delete(p.opened, n.name)
		}
	}
	p.mu.Unlock()
}

// Close removes name from both the opened cache and the mount table,
// returning which of the two actually held an entry.
func (n *Node) Close(name string) (closed bool, unmounted bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.opened[name]; ok {
		delete(n.opened, name)
		closed = true
	}
	if _, ok := n.mounted[name]; ok {
		delete(n.mounted, name)
		unmounted = true
	}
	return
}

// MountAs wraps inode in a fresh node and installs it at name, shadowing
// any mount already there. Always succeeds — matches the original kernel's
// mount_as, which removes any existing entry before inserting, so the
// "collision" branch spec.md's prose mentions never actually triggers; see
// DESIGN.md.
func (n *Node) MountAs(inode Inode, name string) *Node {
	child := NewInode(n, inode, name)
	n.mu.Lock()
	if old, ok := n.mounted[name]; ok {
		delete(n.mounted, name)
		child.shadowed = old
	}
	n.mounted[name] = child
	n.mu.Unlock()
	return child
}

// MountEmpty is MountAs for a virtual (Empty) directory.
func (n *Node) MountEmpty(name string) *Node {
	child := NewEmpty(n, name)
	n.mu.Lock()
	if old, ok := n.mounted[name]; ok {
		delete(n.mounted, name)
		child.shadowed = old
	}
	n.mounted[name] = child
	n.mu.Unlock()
	return child
}

// UmountAt removes the mounted child at name, restoring whatever it
// shadowed, if anything.
func (n *Node) UmountAt(name string) (*Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	child, ok := n.mounted[name]
	if !ok {
		return nil, errs.MountFileNotExists
	}
	delete(n.mounted, name)
	if shadow := child.shadowed; shadow != nil {
		child.shadowed = nil
		n.mounted[name] = shadow
	}
	return child, nil
}

// OpenChild resolves one path segment from n: mounted children win over
// opened (cached, lazily-instantiated) children, which win over a fresh
// lookup against the backing inode.
func (n *Node) OpenChild(name string) (*Node, error) {
	if name == currentDirectory || name == "" {
		return n, nil
	}
	if name == parentDirectory {
		if n.parent != nil {
			return n.parent, nil
		}
		return n, nil
	}

	n.mu.Lock()
	if child, ok := n.mounted[name]; ok {
		n.mu.Unlock()
		return child, nil
	}
	if e, ok := n.opened[name]; ok {
		e.refs++
		child := e.node
		n.mu.Unlock()
		return child, nil
	}
	n.mu.Unlock()

	// lock released before calling into the backing inode: lookup may
	// itself recurse into the tree (e.g. a mounted filesystem resolving
	// its own children), so holding n's lock here would deadlock.
	inode, err := n.lookupBacking(name)
	if err != nil {
		return nil, err
	}
	meta, err := inode.Metadata()
	if err != nil {
		return nil, err
	}

	fresh := NewInode(n, inode, meta.Filename)

	n.mu.Lock()
	defer n.mu.Unlock()
	if child, ok := n.mounted[name]; ok {
		return child, nil
	}
	if e, ok := n.opened[name]; ok {
		e.refs++
		return e.node, nil
	}
	n.opened[name] = &openedEntry{node: fresh, refs: 1}
	return fresh, nil
}

func (n *Node) lookupBacking(name string) (Inode, error) {
	n.mu.Lock()
	kind, backing := n.kind, n.backing
	n.mu.Unlock()
	if kind == kindEmpty {
		return nil, errs.NotFound
	}
	return backing.Lookup(name)
}

// Open resolves a path relative to n (the node-method form of global_open).
func (n *Node) Open(path string) (*Node, error) {
	return globalOpen(path, n)
}

// --- Inode interface, so a DirectoryTreeNode can be nested as a mount
// target or opened like any other inode. ---

func (n *Node) Metadata() (Metadata, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.kind == kindInode {
		m, err := n.backing.Metadata()
		if err != nil {
			return Metadata{}, err
		}
		m.Filename = n.name
		return m, nil
	}
	return Metadata{
		Filename:      n.name,
		EntryType:     EntryDirectory,
		Size:          0,
		ChildrenCount: len(n.mounted),
	}, nil
}

func (n *Node) Stat(st *Statistics) error {
	n.mu.Lock()
	kind, backing := n.kind, n.backing
	n.mu.Unlock()
	if kind == kindInode {
		return backing.Stat(st)
	}
	*st = Statistics{Mode: StatModeDir, LinkCount: 1, BlockSize: 512}
	return nil
}

func (n *Node) Lookup(name string) (Inode, error) {
	n.mu.Lock()
	kind, backing := n.kind, n.backing
	n.mu.Unlock()
	if kind == kindInode {
		return backing.Lookup(name)
	}
	return nil, errs.NotFound
}

func (n *Node) ReadAt(offset uint64, buf []byte) (int, error) {
	n.mu.Lock()
	kind, backing := n.kind, n.backing
	n.mu.Unlock()
	if kind == kindInode {
		return backing.ReadAt(offset, buf)
	}
	return 0, errs.NotAFile
}

func (n *Node) WriteAt(offset uint64, buf []byte) (int, error) {
	n.mu.Lock()
	kind, backing := n.kind, n.backing
	n.mu.Unlock()
	if kind == kindInode {
		return backing.WriteAt(offset, buf)
	}
	return 0, errs.NotAFile
}

func (n *Node) Mkdir(name string) (Inode, error) {
	n.mu.Lock()
	if _, ok := n.mounted[name]; ok {
		n.mu.Unlock()
		return nil, errs.AlreadyExists
	}
	kind, backing := n.kind, n.backing
	n.mu.Unlock()

	if kind == kindInode {
		return backing.Mkdir(name)
	}
	return n.MountEmpty(name), nil
}

func (n *Node) Touch(name string) (Inode, error) {
	n.mu.Lock()
	if _, ok := n.mounted[name]; ok {
		n.mu.Unlock()
		return nil, errs.AlreadyExists
	}
	kind, backing := n.kind, n.backing
	n.mu.Unlock()

	if kind == kindInode {
		return backing.Touch(name)
	}
	return n.MountAs(newRAMFileInode(name), name), nil
}

// Remove unlinks name: a mounted file is unmounted (restoring any shadow),
// a mounted directory is rejected, and anything else is delegated to the
// backing inode.
func (n *Node) Remove(name string) error {
	n.mu.Lock()
	child, isMounted := n.mounted[name]
	n.mu.Unlock()

	if isMounted {
		meta, err := child.Metadata()
		if err != nil {
			return err
		}
		if meta.EntryType == EntryDirectory {
			return errs.NotAFile
		}
		n.mu.Lock()
		delete(n.opened, name)
		n.mu.Unlock()
		_, err = n.UmountAt(name)
		return err
	}

	n.mu.Lock()
	delete(n.opened, name)
	kind, backing := n.kind, n.backing
	n.mu.Unlock()

	if kind == kindInode {
		return backing.Remove(name)
	}
	return nil
}

// Rmdir unlinks an empty directory. POSIX semantics (fail on non-empty)
// per spec.md §9's Open Question decision, rather than the original's
// indiscriminate removal — see DESIGN.md.
func (n *Node) Rmdir(name string) error {
	n.mu.Lock()
	child, isMounted := n.mounted[name]
	n.mu.Unlock()

	if isMounted {
		meta, err := child.Metadata()
		if err != nil {
			return err
		}
		if meta.EntryType != EntryDirectory {
			return errs.NotADirectory
		}
		entries, err := child.ReadDir()
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			return errs.DirectoryNotEmpty
		}
		n.mu.Lock()
		delete(n.opened, name)
		n.mu.Unlock()
		_, err = n.UmountAt(name)
		return err
	}

	n.mu.Lock()
	kind, backing := n.kind, n.backing
	n.mu.Unlock()
	if kind == kindInode {
		return backing.Rmdir(name)
	}
	return nil
}

// ReadDir merges the backing inode's entries (if any) with mounted
// children, the mount winning on a name collision. The mount map is cloned
// before delegating to the backing inode, matching the lock-ordering rule
// in spec.md §5 ("read_dir clones the mount map before delegating") so a
// backing inode that itself recurses into the tree cannot deadlock against
// this node's own mutex.
func (n *Node) ReadDir() ([]DirectoryEntry, error) {
	n.mu.Lock()
	kind, backing := n.kind, n.backing
	mountedCopy := make(map[string]*Node, len(n.mounted))
	for name, child := range n.mounted {
		mountedCopy[name] = child
	}
	n.mu.Unlock()

	mountEntries := make([]DirectoryEntry, 0, len(mountedCopy))
	for name, child := range mountedCopy {
		meta, err := child.Metadata()
		if err != nil {
			return nil, err
		}
		mountEntries = append(mountEntries, DirectoryEntry{Filename: name, EntryType: meta.EntryType})
	}

	if kind == kindEmpty {
		return mountEntries, nil
	}

	entries, err := backing.ReadDir()
	if err != nil {
		return nil, err
	}
	// mounted wins on name collision: drop backing entries shadowed by a
	// mount before appending the mount entries.
	filtered := entries[:0]
	for _, e := range entries {
		if _, collides := mountedCopy[e.Filename]; !collides {
			filtered = append(filtered, e)
		}
	}
	filtered = append(filtered, mountEntries...)
	return filtered, nil
}

var _ Inode = (*Node)(nil)
