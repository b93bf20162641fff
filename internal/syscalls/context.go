package syscalls

import (
	"github.com/oichkatzele/minikernel/internal/taskctl"
	"github.com/oichkatzele/minikernel/internal/trapframe"
)

// Context bundles a mutable trap frame with the issuing task's control
// block (spec.md §4.6: "A syscall context bundles: a mutable reference to
// the user trap frame, the current task control block").
type Context struct {
	Frame trapframe.TrapFrame
	Task  *taskctl.TCB
}

// Arg reads positional argument register i, reinterpreted as T by the
// caller (spec.md §4.6: "Argument extraction is positional; each slot is
// read as usize-sized and reinterpreted to the requested small-copy
// type"). Go has no generic reinterpret-cast, so callers narrow the
// uint64 themselves (int32(ctx.Arg(0)), etc.) rather than this helper
// doing unsafe punning.
func (c *Context) Arg(i int) uint64 {
	return c.Frame.Arg(i)
}
