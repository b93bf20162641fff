package vfs

import "github.com/oichkatzele/minikernel/internal/errs"

// EntryType classifies a directory entry or inode.
type EntryType int

const (
	EntryFile EntryType = iota
	EntryDirectory
	EntryCharDevice
)

// Metadata describes an inode at a point in time.
type Metadata struct {
	Filename      string
	EntryType     EntryType
	Size          uint64
	ChildrenCount int
}

// DirectoryEntry is one row of a read_dir result.
type DirectoryEntry struct {
	Filename  string
	EntryType EntryType
}

// StatMode mirrors the handful of st_mode bits the kernel cares about.
type StatMode uint32

const (
	StatModeFile StatMode = 1 << iota
	StatModeDir
	StatModeChar
)

// Statistics is the subset of struct stat the kernel populates.
type Statistics struct {
	DeviceID   uint64
	InodeID    uint64
	Mode       StatMode
	LinkCount  uint32
	UID, GID   uint32
	Size       uint64
	BlockSize  uint32
	BlockCount uint64
	Rdev       uint64
}

// Inode is the polymorphic backing object a DirectoryTreeNode wraps: a
// plain file, a device, or a disk directory. DirectoryTreeNode itself also
// implements Inode so a mounted subtree can be nested transparently.
type Inode interface {
	Metadata() (Metadata, error)
	Stat(st *Statistics) error
	ReadAt(offset uint64, buf []byte) (int, error)
	WriteAt(offset uint64, buf []byte) (int, error)
	Lookup(name string) (Inode, error)
	Mkdir(name string) (Inode, error)
	Touch(name string) (Inode, error)
	Remove(name string) error
	Rmdir(name string) error
	ReadDir() ([]DirectoryEntry, error)
}

// baseInode gives a concrete inode the "not a directory" / "not a file"
// defaults spec.md's data model calls for, so a leaf inode only has to
// override the handful of methods it actually supports.
type baseInode struct{}

func (baseInode) Lookup(name string) (Inode, error)  { return nil, errs.NotADirectory }
func (baseInode) Mkdir(name string) (Inode, error)   { return nil, errs.NotADirectory }
func (baseInode) Touch(name string) (Inode, error)   { return nil, errs.NotADirectory }
func (baseInode) Remove(name string) error           { return errs.NotADirectory }
func (baseInode) Rmdir(name string) error            { return errs.NotADirectory }
func (baseInode) ReadDir() ([]DirectoryEntry, error) { return nil, errs.NotADirectory }
func (baseInode) ReadAt(offset uint64, buf []byte) (int, error) {
	return 0, errs.NotAFile
}
func (baseInode) WriteAt(offset uint64, buf []byte) (int, error) {
	return 0, errs.NotAFile
}
