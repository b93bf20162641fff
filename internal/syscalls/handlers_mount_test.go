package syscalls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/syscalls"
)

func TestMountThenUmountAtPath(t *testing.T) {
	h := newHarness(t)
	scratch := h.mmapScratch(t, 4096)
	writeCString(t, h, scratch, "/mnt/data")

	mountRet := syscalls.SysMountHandler(h.ctx(syscalls.SysMount, 0, uint64(scratch), 0, 0, 0))
	assert.Equal(t, int64(0), mountRet)

	umountRet := syscalls.SysUmount2Handler(h.ctx(syscalls.SysUmount2, uint64(scratch), 0))
	assert.Equal(t, int64(0), umountRet)
}

func TestMountOnNonexistentParentFails(t *testing.T) {
	h := newHarness(t)
	scratch := h.mmapScratch(t, 4096)
	writeCString(t, h, scratch, "/nope/data")

	ret := syscalls.SysMountHandler(h.ctx(syscalls.SysMount, 0, uint64(scratch), 0, 0, 0))
	require.NotEqual(t, int64(0), ret)
}
