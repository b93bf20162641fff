package syscalls

import (
	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/taskctl"
)

// SysExitHandler implements exit(code): sets status Exited, stores code
// (spec.md §4.6, §5 — the handler itself runs to completion before the
// status change becomes visible, so SetStatus/Exit is the very last
// thing it does).
func SysExitHandler(ctx *Context) int64 {
	code := int32(ctx.Arg(0))
	ctx.Task.Exit(int(code))
	return 0
}

// timesBufSize is the byte layout times(&tms) writes: UserMicros,
// SysMicros, CUserMicros, CSysMicros, each a little-endian uint64.
const timesBufSize = 4 * 8

// SysTimesHandler implements times(&tms): writes accumulated user and
// kernel microseconds; child counters are zero since child accounting is
// not implemented (spec.md §4.6).
func SysTimesHandler(ctx *Context) int64 {
	tmsVA := addr.VirtAddr(ctx.Arg(0))

	snap := ctx.Task.Accounting.Snapshot()
	buf := make([]byte, timesBufSize)
	putU64(buf[0:8], uint64(snap.UserMicros))
	putU64(buf[8:16], uint64(snap.SysMicros))
	putU64(buf[16:24], uint64(snap.CUserMicros))
	putU64(buf[24:32], uint64(snap.CSysMicros))

	if err := GuardedWrite(ctx.Task.Space, tmsVA, buf); err != nil {
		return errnoOf(err)
	}
	return 0
}

// nanosPerTick is the nanosecond value charged to the deadline per
// y.Yield() call: the syscall layer owns no wall-clock source of its own
// (spec.md's component list never specifies one), so nanosleep counts
// yields instead of elapsed time. One tick per scheduler round-trip is
// assumed to cost about a millisecond, keeping a one-second sleep a few
// thousand yields rather than a billion; real wall-clock pacing is the
// scheduler's concern, outside this package.
const nanosPerTick = 1_000_000

// SysNanosleepHandler implements nanosleep(&ts) (cooperative): computes
// a deadline, yields repeatedly until reached (spec.md §4.6, §5).
func SysNanosleepHandler(ctx *Context, y Yielder) int64 {
	tsVA := addr.VirtAddr(ctx.Arg(0))

	raw, err := GuardedRead(ctx.Task.Space, tsVA, 16)
	if err != nil {
		return errnoOf(err)
	}
	sec := getU64(raw[0:8])
	nsec := getU64(raw[8:16])
	totalNanos := sec*1_000_000_000 + nsec

	ctx.Task.SetStatus(taskctl.Sleeping)
	defer ctx.Task.SetStatus(taskctl.Running)

	for elapsed := uint64(0); elapsed < totalNanos; elapsed += nanosPerTick {
		y.Yield()
	}
	return 0
}

func getU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
