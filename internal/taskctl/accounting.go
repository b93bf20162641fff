package taskctl

import "sync/atomic"

// Accounting accumulates a task's user/system time in microseconds
// (spec.md §4.6's times() contract: "write accumulated user and kernel
// microseconds"). Grounded on the teacher's Accnt_t
// (_examples/Oichkatzelesfrettschen-biscuit/biscuit/src/accnt/accnt.go), which accumulates nanoseconds under
// a mutex via Utadd/Systadd; ported to atomics since the only operation
// this kernel needs is add-and-read, not the teacher's broader
// Io_time/Sleep_time/Finish bookkeeping (no scheduler to report
// voluntary-wait deductions from — that machinery is this module's
// non-goal).
type Accounting struct {
	userMicros atomic.Int64
	sysMicros  atomic.Int64
}

// AddUser adds delta microseconds of user-mode time.
func (a *Accounting) AddUser(delta int64) { a.userMicros.Add(delta) }

// AddSys adds delta microseconds of kernel-mode time.
func (a *Accounting) AddSys(delta int64) { a.sysMicros.Add(delta) }

// UserMicros returns accumulated user time in microseconds.
func (a *Accounting) UserMicros() int64 { return a.userMicros.Load() }

// SysMicros returns accumulated system time in microseconds.
func (a *Accounting) SysMicros() int64 { return a.sysMicros.Load() }

// Times is the times(2)-shaped snapshot the syscalls layer copies into
// the user-provided struct tms. Child counters are always zero: this
// kernel has no process tree accounting (spec.md's scheduler non-goal),
// matching SPEC_FULL.md §3's note that original_source itself leaves
// tms_cutime/tms_cstime as a TODO.
type Times struct {
	UserMicros  int64
	SysMicros   int64
	CUserMicros int64
	CSysMicros  int64
}

// Snapshot returns the current times(2) view for this task.
func (a *Accounting) Snapshot() Times {
	return Times{
		UserMicros: a.UserMicros(),
		SysMicros:  a.SysMicros(),
	}
}
