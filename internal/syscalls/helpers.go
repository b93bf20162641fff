package syscalls

import (
	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/fd"
	"github.com/oichkatzele/minikernel/internal/vfs"
)

// errnoOf narrows any error surfacing from the vfs/fd layers down to the
// syscall ABI's signed Errno, the single place spec.md §7's three error
// taxonomies (Errno, FSError, MountError) converge before a return value
// is written back into a trap frame.
func errnoOf(err error) int64 {
	if err == nil {
		return 0
	}
	switch e := err.(type) {
	case errs.Errno:
		return int64(e)
	case errs.FSError:
		return int64(errs.FromFSError(e))
	case errs.MountError:
		return int64(errs.FromMountError(e))
	default:
		return int64(errs.InvalidArgument)
	}
}

// resolveDir resolves the directory a dirfd-relative path argument is
// taken against (spec.md §6, "File-descriptor conventions": dirfd is
// either AT_FDCWD or an already-open descriptor naming a directory).
func resolveDir(ctx *Context, dirfd int32) (*vfs.Node, error) {
	if dirfd == fd.AtFDCWD {
		return ctx.Task.Cwd.Node(), nil
	}
	f, ok := ctx.Task.Fds.Get(int(dirfd))
	if !ok {
		return nil, errs.BadFileDescriptor
	}
	if f.VNode == nil {
		return nil, errs.BadFileDescriptor
	}
	return f.VNode, nil
}

// resolvePath resolves path relative to dirfd, honoring a leading '/' as
// root-relative regardless of dirfd (spec.md §6).
func resolvePath(ctx *Context, dirfd int32, path string) (*vfs.Node, error) {
	base, err := resolveDir(ctx, dirfd)
	if err != nil {
		return nil, err
	}
	return vfs.GlobalOpen(path, base)
}
