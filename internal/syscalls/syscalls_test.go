package syscalls_test

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/fd"
	"github.com/oichkatzele/minikernel/internal/frame"
	"github.com/oichkatzele/minikernel/internal/syscalls"
	"github.com/oichkatzele/minikernel/internal/taskctl"
	"github.com/oichkatzele/minikernel/internal/trapframe"
	"github.com/oichkatzele/minikernel/internal/vfs"
	"github.com/oichkatzele/minikernel/internal/vmspace"
)

const testDmapBase = addr.VirtAddr(0xffff_ffc0_0000_0000)

// buildTestELF assembles a minimal, valid ELF64 executable with a single
// PT_LOAD segment, mirroring vmspace's own internal test helper (it is
// unexported there, so the syscall tests need their own copy to build a
// *vmspace.MemorySpace through the real BuildFromELF path).
func buildTestELF(vaddr, entry uint64, code []byte) []byte {
	const ehsize = 64
	const phentsize = 56
	const phoff = ehsize

	var buf bytes.Buffer
	ident := [16]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}
	buf.Write(ident[:])

	write := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }
	write(uint16(elf.ET_EXEC))
	write(uint16(elf.EM_RISCV))
	write(uint32(1))
	write(entry)
	write(uint64(phoff))
	write(uint64(0))
	write(uint32(0))
	write(uint16(ehsize))
	write(uint16(phentsize))
	write(uint16(1))
	write(uint16(0))
	write(uint16(0))
	write(uint16(0))

	dataOff := uint64(ehsize + phentsize)
	write(uint32(elf.PT_LOAD))
	write(uint32(elf.PF_R | elf.PF_X))
	write(dataOff)
	write(vaddr)
	write(vaddr)
	write(uint64(len(code)))
	write(uint64(len(code)))
	write(uint64(0x1000))

	buf.Write(code)
	return buf.Bytes()
}

// testHarness bundles everything a handler needs: a live memory space, a
// task control block wired to a fresh fd table and root-rooted cwd, and a
// trap frame a test can preload with a syscall number and arguments.
type testHarness struct {
	t     *testing.T
	task  *taskctl.TCB
	frame *trapframe.RISCV64TrapFrame
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	alloc := frame.New(frame.Config{Base: addr.PhysPageNum(0x8000), NumPages: 256})
	root := vfs.Initialize(alloc)

	code := make([]byte, 16)
	elfData := buildTestELF(0x1000, 0x1000, code)
	builder, err := vmspace.BuildFromELF(alloc, testDmapBase, elfData)
	require.NoError(t, err)

	cwd := fd.NewRootCwd(root)
	task := taskctl.New(taskctl.Tid(1), builder.Space, cwd)

	return &testHarness{t: t, task: task, frame: &trapframe.RISCV64TrapFrame{}}
}

// ctx builds a *syscalls.Context over the harness's task and frame, having
// first set the syscall number and positional arguments on the frame.
func (h *testHarness) ctx(sysnum uint64, args ...uint64) *syscalls.Context {
	h.frame.Regs.A7 = sysnum
	for i, a := range args {
		switch i {
		case 0:
			h.frame.Regs.A0 = a
		case 1:
			h.frame.Regs.A1 = a
		case 2:
			h.frame.Regs.A2 = a
		case 3:
			h.frame.Regs.A3 = a
		case 4:
			h.frame.Regs.A4 = a
		case 5:
			h.frame.Regs.A5 = a
		}
	}
	return &syscalls.Context{Frame: h.frame, Task: h.task}
}

// mmapScratch asks the handler itself for a writable page, the same way a
// real user program would, rather than poking the page table out of band.
func (h *testHarness) mmapScratch(t *testing.T, length uint64) addr.VirtAddr {
	t.Helper()
	ret := syscalls.SysMmapHandler(h.ctx(syscalls.SysMmap, 0, length, 3, 0, 0, 0))
	require.GreaterOrEqual(t, ret, int64(0))
	return addr.VirtAddr(uint64(ret))
}

func writeCString(t *testing.T, h *testHarness, va addr.VirtAddr, s string) {
	t.Helper()
	err := syscalls.GuardedWrite(h.task.Space, va, append([]byte(s), 0))
	require.NoError(t, err)
}

type fakeYielder struct{ yields int }

func (y *fakeYielder) Yield() { y.yields++ }
