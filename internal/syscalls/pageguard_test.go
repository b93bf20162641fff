package syscalls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/syscalls"
)

func TestGuardedReadWriteRoundTrip(t *testing.T) {
	h := newHarness(t)
	va := h.mmapScratch(t, 4096)

	require.NoError(t, syscalls.GuardedWrite(h.task.Space, va, []byte("roundtrip")))
	got, err := syscalls.GuardedRead(h.task.Space, va, 9)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip", string(got))
}

func TestGuardedReadAcrossPageBoundary(t *testing.T) {
	h := newHarness(t)
	va := h.mmapScratch(t, 2*addr.PageSize)

	crossing := va.Add(addr.PageSize - 4)
	payload := []byte("12345678")
	require.NoError(t, syscalls.GuardedWrite(h.task.Space, crossing, payload))

	got, err := syscalls.GuardedRead(h.task.Space, crossing, uint64(len(payload)))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestGuardedReadUnmappedAddressFails(t *testing.T) {
	h := newHarness(t)
	_, err := syscalls.GuardedRead(h.task.Space, addr.VirtAddr(0xdead0000), 4)
	assert.Equal(t, errs.BadAddress, err)
}

func TestGuardedCStringStopsAtNUL(t *testing.T) {
	h := newHarness(t)
	va := h.mmapScratch(t, 4096)
	require.NoError(t, syscalls.GuardedWrite(h.task.Space, va, []byte("hello\x00garbage")))

	s, err := syscalls.GuardedCString(h.task.Space, va)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}
