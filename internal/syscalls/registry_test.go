package syscalls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/syscalls"
)

func TestRegistryLookupSyncAndAsync(t *testing.T) {
	reg := syscalls.NewRegistry()
	reg.RegisterSync(1, "one", func(ctx *syscalls.Context) int64 { return 42 })
	reg.RegisterAsync(2, "two", func(ctx *syscalls.Context, y syscalls.Yielder) int64 { return 43 })

	_, ok := reg.Lookup(3)
	assert.False(t, ok)

	entry, ok := reg.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "one", entry.Name())
}

func TestNewStandardRegistryHasAllExhaustiveHandlers(t *testing.T) {
	reg := syscalls.NewStandardRegistry()
	names := []uint64{
		syscalls.SysWrite, syscalls.SysRead, syscalls.SysOpenat, syscalls.SysClose,
		syscalls.SysDup, syscalls.SysDup3, syscalls.SysPipe2, syscalls.SysMkdirat,
		syscalls.SysUnlinkat, syscalls.SysFstatat, syscalls.SysFstat, syscalls.SysGetdents64,
		syscalls.SysMmap, syscalls.SysMunmap, syscalls.SysMount, syscalls.SysUmount2,
		syscalls.SysIoctl, syscalls.SysFcntl, syscalls.SysExit, syscalls.SysTimes,
		syscalls.SysBrk, syscalls.SysNanosleep,
	}
	for _, n := range names {
		_, ok := reg.Lookup(n)
		assert.True(t, ok, "expected syscall number %d to be registered", n)
	}
}
