package syscalls

import (
	"context"
	"log"

	"github.com/oichkatzele/minikernel/internal/errs"
	"github.com/oichkatzele/minikernel/internal/taskctl"
)

// Dispatcher reads a syscall number from the trap frame, looks up a
// handler, runs it under the hart gate, and writes the result back
// (spec.md §4.6, steps 1-4).
type Dispatcher struct {
	Registry *Registry
	Gate     *taskctl.HartGate
}

// NewDispatcher builds a dispatcher over reg, gated by gate.
func NewDispatcher(reg *Registry, gate *taskctl.HartGate) *Dispatcher {
	return &Dispatcher{Registry: reg, Gate: gate}
}

// Dispatch runs exactly one syscall for ctx. y is the yielder passed to
// cooperative handlers; pass nil if ctx's handler is known to be
// synchronous (a nil y used by an async handler panics, the same way
// dereferencing a nil scheduler reference would).
func (d *Dispatcher) Dispatch(goCtx context.Context, ctx *Context, y Yielder) error {
	num := ctx.Frame.SyscallNumber()

	if err := d.Gate.Acquire(goCtx); err != nil {
		return err
	}
	defer d.Gate.Release()

	entry, ok := d.Registry.Lookup(num)
	if !ok {
		log.Printf("syscalls: no handler for syscall number %d", num)
		ctx.Frame.SetReturnValue(uint64(errs.NoSuchSyscall))
		ctx.Frame.AdvancePastTrap()
		return nil
	}

	var result int64
	switch {
	case entry.sync != nil:
		result = entry.sync(ctx)
	case entry.async != nil:
		result = entry.async(ctx, y)
	default:
		panic("syscalls: registry entry with neither sync nor async handler")
	}

	ctx.Frame.SetReturnValue(uint64(result))
	ctx.Frame.AdvancePastTrap()
	return nil
}
