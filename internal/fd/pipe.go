package fd

import (
	"sync"

	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/vfs"
)

// pipeRingSize bounds an unnamed pipe's buffer. Nothing in the retrieval
// pack implements a pipe, so this is grounded on the same fixed-size ring
// idiom vfs.consoleInode uses for the kmsg buffer.
const pipeRingSize = 4096

type pipeBuffer struct {
	mu         sync.Mutex
	buf        [pipeRingSize]byte
	head, tail int
	closed     bool
}

func (p *pipeBuffer) write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range data {
		if p.tail-p.head >= pipeRingSize {
			break
		}
		p.buf[p.tail%pipeRingSize] = b
		p.tail++
		n++
	}
	return n, nil
}

func (p *pipeBuffer) read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for n < len(buf) && p.head < p.tail {
		buf[n] = p.buf[p.head%pipeRingSize]
		p.head++
		n++
	}
	return n, nil
}

// pipeEnd is the vfs.Inode each half of a pipe presents to its FD. It
// supports only ReadAt/WriteAt (offsets are ignored: a pipe has no
// addressable position, only the ring's head/tail), matching spec.md's
// "default behavior for unsupported operations is a well-defined
// not-a-directory/not-a-file error".
type pipeEnd struct {
	buf       *pipeBuffer
	readable  bool
}

func (p *pipeEnd) Metadata() (vfs.Metadata, error) {
	return vfs.Metadata{EntryType: vfs.EntryFile}, nil
}

func (p *pipeEnd) Stat(st *vfs.Statistics) error {
	*st = vfs.Statistics{Mode: vfs.StatModeFile}
	return nil
}

func (p *pipeEnd) ReadAt(offset uint64, buf []byte) (int, error) {
	if !p.readable {
		return 0, errs.NotAFile
	}
	return p.buf.read(buf)
}

func (p *pipeEnd) WriteAt(offset uint64, buf []byte) (int, error) {
	if p.readable {
		return 0, errs.NotAFile
	}
	return p.buf.write(buf)
}

func (p *pipeEnd) Lookup(name string) (vfs.Inode, error)  { return nil, errs.NotADirectory }
func (p *pipeEnd) Mkdir(name string) (vfs.Inode, error)   { return nil, errs.NotADirectory }
func (p *pipeEnd) Touch(name string) (vfs.Inode, error)   { return nil, errs.NotADirectory }
func (p *pipeEnd) Remove(name string) error               { return errs.NotADirectory }
func (p *pipeEnd) Rmdir(name string) error                { return errs.NotADirectory }
func (p *pipeEnd) ReadDir() ([]vfs.DirectoryEntry, error) { return nil, errs.NotADirectory }

var _ vfs.Inode = (*pipeEnd)(nil)

// Pipe allocates a read and a write descriptor over a shared ring
// buffer (spec.md §4.6 pipe2 contract and §8 scenario 5). The two ends
// are installed with two Table.Allocate calls; Allocate cannot fail in
// this implementation, so Pipe has no rollback path of its own.
func Pipe(table *Table) (readFD, writeFD int) {
	buf := &pipeBuffer{}
	r := New(&pipeEnd{buf: buf, readable: true}, nil, Readable)
	w := New(&pipeEnd{buf: buf, readable: false}, nil, Writable)
	readFD = table.Allocate(r)
	writeFD = table.Allocate(w)
	return readFD, writeFD
}
