package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/frame"
)

func TestRAMFileGrowsAcrossPageBoundary(t *testing.T) {
	globalAlloc = frame.New(frame.Config{Base: addr.PhysPageNum(0x9000), NumPages: 8})
	r := newRAMFileInode("big").(*ramFileInode)

	data := make([]byte, addr.PageSize+10)
	for i := range data {
		data[i] = byte(i)
	}

	n, err := r.WriteAt(0, data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Len(t, r.frames, 2)

	out := make([]byte, len(data))
	n, err = r.ReadAt(0, out)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, data, out)
}

func TestRAMFileReadPastEndReturnsZero(t *testing.T) {
	globalAlloc = frame.New(frame.Config{Base: addr.PhysPageNum(0xa000), NumPages: 4})
	r := newRAMFileInode("f").(*ramFileInode)
	_, err := r.WriteAt(0, []byte("abc"))
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := r.ReadAt(100, buf)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRAMFileWriteAtOffsetExtendsSize(t *testing.T) {
	globalAlloc = frame.New(frame.Config{Base: addr.PhysPageNum(0xb000), NumPages: 4})
	r := newRAMFileInode("f").(*ramFileInode)

	_, err := r.WriteAt(10, []byte("xy"))
	require.NoError(t, err)

	meta, err := r.Metadata()
	require.NoError(t, err)
	assert.Equal(t, uint64(12), meta.Size)
}
