package syscalls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/syscalls"
	"github.com/oichkatzele/minikernel/internal/taskctl"
)

func TestExitRecordsCodeAndStatus(t *testing.T) {
	h := newHarness(t)
	ret := syscalls.SysExitHandler(h.ctx(syscalls.SysExit, 7))
	assert.Equal(t, int64(0), ret)
	assert.Equal(t, taskctl.Exited, h.task.Status())
	assert.Equal(t, 7, h.task.ExitCode())
}

func TestTimesWritesAccumulatedMicros(t *testing.T) {
	h := newHarness(t)
	h.task.Accounting.AddUser(1000)
	h.task.Accounting.AddSys(500)

	scratch := h.mmapScratch(t, 4096)
	ret := syscalls.SysTimesHandler(h.ctx(syscalls.SysTimes, uint64(scratch)))
	require.Equal(t, int64(0), ret)

	buf, err := syscalls.GuardedRead(h.task.Space, scratch, 32)
	require.NoError(t, err)
	user := getU64Test(buf[0:8])
	sys := getU64Test(buf[8:16])
	cuser := getU64Test(buf[16:24])
	assert.Equal(t, uint64(1000), user)
	assert.Equal(t, uint64(500), sys)
	assert.Zero(t, cuser)
}

func TestNanosleepYieldsUntilDeadline(t *testing.T) {
	h := newHarness(t)
	scratch := h.mmapScratch(t, 4096)

	buf := make([]byte, 16)
	putU64Test(buf[0:8], 0)
	putU64Test(buf[8:16], 2_000_000) // 2ms, two ticks at 1ms/tick
	require.NoError(t, syscalls.GuardedWrite(h.task.Space, scratch, buf))

	y := &fakeYielder{}
	ret := syscalls.SysNanosleepHandler(h.ctx(syscalls.SysNanosleep, uint64(scratch)), y)
	assert.Equal(t, int64(0), ret)
	assert.GreaterOrEqual(t, y.yields, 2)
	assert.Equal(t, taskctl.Running, h.task.Status())
}

func getU64Test(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func putU64Test(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
