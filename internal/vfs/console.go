package vfs

import "sync"

// kmsgRingSize is the fixed capacity of the kernel message ring, matching
// spec.md §2 item 9 ("Console / kmsg ring... fixed-size ring buffer").
const kmsgRingSize = 4096

// consoleInode is a character device backed by a fixed-size ring buffer of
// kernel log messages (kmsg/dmesg). Writes append to the ring, overwriting
// the oldest bytes once full; reads (ReadDmesg) return everything
// currently buffered. Grounded in the teacher's circbuf.Circbuf_t
// (unbounded head/tail counters modulo the buffer size) rather than
// original_source, which has no console device of its own.
type consoleInode struct {
	baseInode

	mu   sync.Mutex
	buf  [kmsgRingSize]byte
	head int // next write position, unbounded
	tail int // oldest valid byte, unbounded; head-tail <= len(buf)
}

func NewConsoleInode() Inode { return &consoleInode{} }

func (c *consoleInode) Metadata() (Metadata, error) {
	return Metadata{Filename: "console", EntryType: EntryCharDevice}, nil
}

func (c *consoleInode) Stat(st *Statistics) error {
	*st = Statistics{Mode: StatModeChar, LinkCount: 1, BlockSize: 512}
	return nil
}

// ReadAt mirrors the file contract (offset ignored beyond "from the
// start") by returning the current ring contents; PushMessage/ReadDmesg
// are the console's real API for kernel code, ReadAt/WriteAt merely let it
// act as a plain file through the generic Inode interface.
func (c *consoleInode) ReadAt(offset uint64, buf []byte) (int, error) {
	msg := c.ReadDmesg()
	if offset >= uint64(len(msg)) {
		return 0, nil
	}
	n := copy(buf, msg[offset:])
	return n, nil
}

func (c *consoleInode) WriteAt(offset uint64, buf []byte) (int, error) {
	c.PushMessage(buf)
	return len(buf), nil
}

// PushMessage appends data to the ring, evicting the oldest bytes first
// when the ring is full.
func (c *consoleInode) PushMessage(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range data {
		c.buf[c.head%kmsgRingSize] = b
		c.head++
		if c.head-c.tail > kmsgRingSize {
			c.tail = c.head - kmsgRingSize
		}
	}
}

// ReadDmesg returns a copy of everything currently buffered, oldest first.
func (c *consoleInode) ReadDmesg() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.head - c.tail
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = c.buf[(c.tail+i)%kmsgRingSize]
	}
	return out
}
