package main

import (
	"context"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/syscalls"
	"github.com/oichkatzele/minikernel/internal/taskctl"
	"github.com/oichkatzele/minikernel/internal/trapframe"
)

// dispatch builds a trap frame around sysnum/args, runs it through the
// registry synchronously, and returns the value left in a0 — a CLI-sized
// stand-in for what a real trap handler would do with a guest ecall.
func (k *kernel) dispatch(task *taskctl.TCB, sysnum uint64, args ...uint64) int64 {
	var regs trapframe.RISCV64Registers
	regs.A7 = sysnum
	slots := []*uint64{&regs.A0, &regs.A1, &regs.A2, &regs.A3, &regs.A4, &regs.A5}
	for i, a := range args {
		*slots[i] = a
	}
	frame := &trapframe.RISCV64TrapFrame{Regs: regs}

	ctx := &syscalls.Context{Frame: frame, Task: task}
	d := syscalls.NewDispatcher(k.reg, k.gate)
	if err := d.Dispatch(context.Background(), ctx, nil); err != nil {
		return int64(errsCanceled)
	}
	return int64(frame.Regs.A0)
}

// errsCanceled is returned in place of a syscall result when the hart gate
// itself reports an error (e.g. a cancelled context); kernelctl never
// cancels its own background context, so this path is unreachable in
// practice but keeps dispatch a total function.
const errsCanceled = -1

// scratch mmaps a guarded-readable-writable page for a one-shot syscall
// argument buffer (a path string, a stat struct, a dirent buffer) and
// returns its base address.
func (k *kernel) scratch(task *taskctl.TCB, length uint64) addr.VirtAddr {
	ret := k.dispatch(task, syscalls.SysMmap, 0, length, 3, 0, 0, 0)
	return addr.VirtAddr(uint64(ret))
}

// writeCString mmaps nothing itself; it writes s plus a NUL terminator
// into guest memory at va, the layout every path-accepting handler expects.
func writeCString(task *taskctl.TCB, va addr.VirtAddr, s string) error {
	return syscalls.GuardedWrite(task.Space, va, append([]byte(s), 0))
}

// argI32 encodes a (possibly negative) int32 syscall argument the way a
// real ecall would leave it in a register: the low 32 bits of a uint64,
// matching the truncate-then-reinterpret every handler performs on Arg(i).
func argI32(v int32) uint64 {
	return uint64(uint32(v))
}
