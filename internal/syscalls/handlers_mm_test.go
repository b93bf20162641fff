package syscalls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/syscalls"
)

func TestMmapThenWriteThenMunmap(t *testing.T) {
	h := newHarness(t)

	va := h.mmapScratch(t, 4096)
	assert.NotZero(t, va)

	require.NoError(t, syscalls.GuardedWrite(h.task.Space, va, []byte("mapped")))
	got, err := syscalls.GuardedRead(h.task.Space, va, 6)
	require.NoError(t, err)
	assert.Equal(t, "mapped", string(got))

	unmapRet := syscalls.SysMunmapHandler(h.ctx(syscalls.SysMunmap, uint64(va)))
	assert.Equal(t, int64(0), unmapRet)

	_, err = syscalls.GuardedRead(h.task.Space, va, 6)
	assert.Equal(t, errs.BadAddress, err)
}

func TestMmapRejectsZeroLength(t *testing.T) {
	h := newHarness(t)
	ret := syscalls.SysMmapHandler(h.ctx(syscalls.SysMmap, 0, 0, 3, 0, 0, 0))
	assert.Equal(t, int64(errs.InvalidArgument), ret)
}

func TestMmapSuccessiveKernelChosenMappingsDoNotOverlap(t *testing.T) {
	h := newHarness(t)
	first := h.mmapScratch(t, 4096)
	second := h.mmapScratch(t, 4096)
	assert.NotEqual(t, first, second)
}

func TestBrkGrowsAndRejectsShrink(t *testing.T) {
	h := newHarness(t)
	start := h.task.BrkBytes

	growTo := uint64(start) + 4096
	ret := syscalls.SysBrkHandler(h.ctx(syscalls.SysBrk, growTo))
	assert.Equal(t, int64(growTo), ret)
	assert.Equal(t, growTo, uint64(h.task.BrkBytes))

	shrinkRet := syscalls.SysBrkHandler(h.ctx(syscalls.SysBrk, uint64(start)))
	assert.Equal(t, int64(errs.InvalidArgument), shrinkRet)

	queryRet := syscalls.SysBrkHandler(h.ctx(syscalls.SysBrk, 0))
	assert.Equal(t, int64(growTo), queryRet)
}
