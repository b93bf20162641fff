package syscalls

import (
	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/vfs"
)

// SysMountHandler implements mount(source, target, fstype, flags, data):
// validated against path resolution, then delegated to vfs.GlobalMount.
// This kernel has no block device or on-disk filesystem (spec.md's
// component list only ever mounts RAM files and the fixed character
// devices), so the only thing worth mounting onto an arbitrary path from
// a syscall is a fresh empty (virtual) directory — the same shape
// Initialize uses for /boot, /dev, etc.
func SysMountHandler(ctx *Context) int64 {
	targetVA := addr.VirtAddr(ctx.Arg(1))

	target, err := GuardedCString(ctx.Task.Space, targetVA)
	if err != nil {
		return errnoOf(err)
	}

	cwd := ctx.Task.Cwd.Node()
	if _, err := vfs.GlobalMount(vfs.NewEmpty(nil, ""), target, cwd); err != nil {
		return errnoOf(err)
	}
	return 0
}

// SysUmount2Handler implements umount2(target, flags): delegates to
// vfs.GlobalUmount.
func SysUmount2Handler(ctx *Context) int64 {
	targetVA := addr.VirtAddr(ctx.Arg(0))

	target, err := GuardedCString(ctx.Task.Space, targetVA)
	if err != nil {
		return errnoOf(err)
	}

	cwd := ctx.Task.Cwd.Node()
	if _, err := vfs.GlobalUmount(target, cwd); err != nil {
		return errnoOf(err)
	}
	return 0
}
