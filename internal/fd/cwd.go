package fd

import (
	"strings"
	"sync"

	"github.com/oichkatzele/minikernel/internal/vfs"
)

// Cwd tracks a task's current working directory: the resolved node plus
// its canonical path string, serialized under a mutex so concurrent
// chdirs on the same task don't race (teacher's Cwd_t, fd/fd.go: "sync.Mutex
// // to serialize chdirs").
type Cwd struct {
	mu   sync.Mutex
	node *vfs.Node
	path string
}

// NewRootCwd builds a Cwd rooted at "/" (teacher's MkRootCwd).
func NewRootCwd(root *vfs.Node) *Cwd {
	return &Cwd{node: root, path: "/"}
}

// Node returns the current directory node.
func (c *Cwd) Node() *vfs.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.node
}

// Path returns the canonical current directory path.
func (c *Cwd) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// Set updates the current directory, used by chdir-style handlers.
func (c *Cwd) Set(node *vfs.Node, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.node = node
	c.path = path
}

// FullPath joins p onto the cwd if p is not already absolute (teacher's
// Cwd_t.Fullpath, fd/fd.go).
func (c *Cwd) FullPath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	c.mu.Lock()
	base := c.path
	c.mu.Unlock()
	if strings.HasSuffix(base, "/") {
		return base + p
	}
	return base + "/" + p
}
