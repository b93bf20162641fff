package fd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/fd"
	"github.com/oichkatzele/minikernel/internal/frame"
	"github.com/oichkatzele/minikernel/internal/vfs"
)

func newTestRoot(t *testing.T) *vfs.Node {
	t.Helper()
	alloc := frame.New(frame.Config{Base: addr.PhysPageNum(0x9000), NumPages: 64})
	return vfs.Initialize(alloc)
}

func openRAMFile(t *testing.T, root *vfs.Node, name string) *vfs.Node {
	t.Helper()
	tmp, err := root.OpenChild("tmp")
	require.NoError(t, err)
	_, err = tmp.Touch(name)
	require.NoError(t, err)
	n, err := tmp.OpenChild(name)
	require.NoError(t, err)
	return n
}

func TestWriteThenReadRoundTripsThroughCursor(t *testing.T) {
	root := newTestRoot(t)
	node := openRAMFile(t, root, "a")

	f := fd.New(node, node, fd.Readable|fd.Writable)
	n, err := f.Write([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, uint64(2), f.Offset())

	f.SetOffset(0)
	buf := make([]byte, 2)
	n, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "hi", string(buf))
	assert.Equal(t, uint64(2), f.Offset())
}

func TestWriteOnReadOnlyDescriptorFails(t *testing.T) {
	root := newTestRoot(t)
	node := openRAMFile(t, root, "b")
	f := fd.New(node, node, fd.Readable)

	_, err := f.Write([]byte("x"))
	assert.Error(t, err)
}

func TestDupSharesBackingButResetsCloseOnExec(t *testing.T) {
	root := newTestRoot(t)
	node := openRAMFile(t, root, "c")
	f := fd.New(node, node, fd.Readable|fd.Writable)
	f.Flags = fd.CloseOnExec
	_, err := f.Write([]byte("xyz"))
	require.NoError(t, err)

	dup := f.Dup()
	assert.Equal(t, f.Offset(), dup.Offset())
	assert.Zero(t, dup.Flags)
	assert.Same(t, f.Backing, dup.Backing)
}
