// Command kernelctl boots a throwaway instance of the simulated kernel and
// drives a handful of syscalls against it, the closest this module has to
// the teacher's own small command-line build tools (kernel/chentry.go,
// mkfs/mkfs.go), scaled up because this module's syscall surface has more
// moving parts to demonstrate than patching one ELF field.
package main

import (
	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/fd"
	"github.com/oichkatzele/minikernel/internal/frame"
	"github.com/oichkatzele/minikernel/internal/syscalls"
	"github.com/oichkatzele/minikernel/internal/taskctl"
	"github.com/oichkatzele/minikernel/internal/vfs"
	"github.com/oichkatzele/minikernel/internal/vmspace"
)

// framePoolPages sizes the physical frame pool each invocation of kernelctl
// allocates. Spec.md §6 records no persisted state between invocations, so
// every subcommand boots a fresh pool rather than a daemon sharing one.
const framePoolPages = 4096

// dmapBase is the direct-map base virtual address handed to every memory
// space this command builds, matching the layout vmspace's own tests use.
const dmapBase = addr.VirtAddr(0xffff_ffc0_0000_0000)

// stdinFd, stdoutFd and stderrFd are the fd numbers stdin/stdout/stderr occupy once
// installed; fd.NewTable leaves all three for the caller to wire up.
const (
	stdinFd  = 0
	stdoutFd = 1
	stderrFd = 2
)

// kernel bundles the pieces a subcommand needs to touch the namespace or
// drive a syscall: the frame pool backing every allocation, the root of
// the mounted tree, and the standard handler registry.
type kernel struct {
	alloc *frame.Allocator
	root  *vfs.Node
	reg   *syscalls.Registry
	gate  *taskctl.HartGate
}

// bootKernel runs vfs.Initialize over a fresh frame pool, the minimal
// "boot" sequence every subcommand needs before it can resolve a path or
// run a syscall.
func bootKernel() *kernel {
	alloc := frame.New(frame.Config{Base: addr.PhysPageNum(0x80000), NumPages: framePoolPages})
	root := vfs.Initialize(alloc)
	return &kernel{
		alloc: alloc,
		root:  root,
		reg:   syscalls.NewStandardRegistry(),
		gate:  taskctl.NewHartGate(),
	}
}

// newTask builds a task control block over a fresh, otherwise-empty memory
// space rooted at k's namespace, with console descriptors installed at the
// standard stdin/stdout/stderr slots (fd/table.go: "left for the caller to
// install explicitly").
func (k *kernel) newTask() (*taskctl.TCB, error) {
	space, ok := vmspace.Empty(k.alloc, dmapBase)
	if !ok {
		return nil, errOutOfFrames
	}
	space.RegisterKernelArea()

	cwd := fd.NewRootCwd(k.root)
	task := taskctl.New(taskctl.Tid(1), space, cwd)
	if err := k.installStdio(task); err != nil {
		return nil, err
	}
	return task, nil
}

// installStdio wires /dev/console into task's fd table at the standard
// stdin/stdout/stderr slots. A write(1, ...) only ever lands in the
// console's in-memory ring (vfs/console.go); nothing in this kernel
// forwards that ring to the host terminal, so any subcommand that wants
// to show the user what a syscall wrote has to read the ring back out
// itself rather than relying on the write to be visible on its own.
func (k *kernel) installStdio(task *taskctl.TCB) error {
	console, err := vfs.GlobalOpen("/dev/console", k.root)
	if err != nil {
		return err
	}
	stdio := fd.New(console, console, fd.Readable|fd.Writable)
	task.Fds.InstallAt(stdinFd, stdio)
	task.Fds.InstallAt(stdoutFd, stdio.Dup())
	task.Fds.InstallAt(stderrFd, stdio.Dup())
	return nil
}
