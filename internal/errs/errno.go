package errs

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Errno is the syscall-facing error taxonomy (spec.md §7): handlers return
// these as negative int64s, the same ABI shape the teacher's own Err_t
// uses, backed by real errno numbers from golang.org/x/sys/unix rather than
// a hand-rolled table.
type Errno int64

const (
	BadFileDescriptor        = Errno(-unix.EBADF)
	BadAddress               = Errno(-unix.EFAULT)
	NoSuchFileOrDirectory    = Errno(-unix.ENOENT)
	InvalidArgument          = Errno(-unix.EINVAL)
	TooManyOpenFiles         = Errno(-unix.EMFILE)
	OperationNotPermitted    = Errno(-unix.EPERM)
	FileExists               = Errno(-unix.EEXIST)
	DeviceOrResourceBusy     = Errno(-unix.EBUSY)
	PathNotADirectory        = Errno(-unix.ENOTDIR)
	FileDescriptorInBadState = Errno(-unix.EBADF)
	OperationCanceled        = Errno(-unix.ECANCELED)
	NoSuchSyscall            = Errno(-unix.ENOSYS)
)

// Error lets Errno satisfy the standard error interface, so internal
// helpers (the page guard, in particular) can return it through plain
// `error`-typed results instead of a parallel Errno-or-error split; the
// syscall dispatch boundary is still where it finally gets narrowed to
// the signed ABI integer, via int64(e).
func (e Errno) Error() string {
	return fmt.Sprintf("errno %d", int64(e))
}

// FromFSError translates the internal VFS taxonomy into the syscall ABI.
func FromFSError(e FSError) Errno {
	switch e {
	case InvalidInput:
		return InvalidArgument
	case NotFound:
		return NoSuchFileOrDirectory
	case AlreadyExists:
		return FileExists
	case NotADirectory:
		return PathNotADirectory
	case NotAFile:
		return InvalidArgument
	default:
		return InvalidArgument
	}
}

// FromMountError translates a mount error into the syscall ABI, mirroring
// the original kernel's MountError::to_syscall_error.
func FromMountError(e MountError) Errno {
	switch e {
	case MountInvalidInput:
		return InvalidArgument
	case MountNotADirectory:
		return PathNotADirectory
	case MountFileExists:
		return FileExists
	case MountFileNotExists:
		return NoSuchFileOrDirectory
	case MountAlreadyMounted:
		return DeviceOrResourceBusy
	default:
		return InvalidArgument
	}
}
