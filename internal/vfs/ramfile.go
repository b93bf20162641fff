package vfs

import (
	"sync"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/frame"
)

// ramFileInode is a file backed by frame-granular buffers, grown lazily on
// write. Grounded on original_source tree.rs's RamFileInode.
type ramFileInode struct {
	baseInode

	mu       sync.RWMutex
	frames   []frame.TrackedFrame
	size     uint64
	filename string
}

func newRAMFileInode(name string) Inode {
	return &ramFileInode{filename: name}
}

func (r *ramFileInode) Metadata() (Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Metadata{
		Filename:  r.filename,
		EntryType: EntryFile,
		Size:      r.size,
	}, nil
}

func (r *ramFileInode) Stat(st *Statistics) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	*st = Statistics{
		Mode:       StatModeFile,
		LinkCount:  1,
		Size:       r.size,
		BlockSize:  addr.PageSize,
		BlockCount: uint64(len(r.frames)),
	}
	return nil
}

func (r *ramFileInode) WriteAt(offset uint64, buf []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	endSize := offset + uint64(len(buf))
	if endSize > r.size {
		requiredPages := (endSize + addr.PageSize - 1) / addr.PageSize
		for uint64(len(r.frames)) < requiredPages {
			f, ok := globalAlloc.Alloc()
			if !ok {
				return 0, errs.InvalidInput
			}
			r.frames = append(r.frames, f)
		}
		r.size = endSize
	}

	current := offset
	for current < endSize {
		pageIdx := current / addr.PageSize
		inPageStart := current % addr.PageSize
		inPageLen := min(addr.PageSize, endSize-current)

		page := r.frames[pageIdx].Bytes()
		copy(page[inPageStart:inPageStart+inPageLen], buf[current-offset:current-offset+inPageLen])
		current += inPageLen
	}
	return int(current - offset), nil
}

func (r *ramFileInode) ReadAt(offset uint64, buf []byte) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset >= r.size {
		return 0, nil
	}
	endSize := min(r.size, offset+uint64(len(buf)))

	current := offset
	for current < endSize {
		pageIdx := current / addr.PageSize
		inPageStart := current % addr.PageSize
		inPageLen := min(addr.PageSize, endSize-current)

		page := r.frames[pageIdx].Bytes()
		copy(buf[current-offset:current-offset+inPageLen], page[inPageStart:inPageStart+inPageLen])
		current += inPageLen
	}
	return int(current - offset), nil
}
