package syscalls

// Syscall numbers follow the Linux generic ("asm-generic") syscall ABI
// that both riscv64 and loongarch64 implement — spec.md itself never
// assigns numbers (they're an ABI detail external to the core), but the
// dispatcher needs concrete values to key its registry on, so we borrow
// the real ones rather than inventing a private numbering, the same way
// DESIGN.md's errno section borrows golang.org/x/sys/unix's errno values
// instead of hand-rolling a table.
const (
	SysGetdents64  = 61
	SysRead        = 63
	SysWrite       = 64
	SysDup         = 23
	SysDup3        = 24
	SysFcntl       = 25
	SysIoctl       = 29
	SysMkdirat     = 34
	SysUnlinkat    = 35
	SysUmount2     = 39
	SysMount       = 40
	SysPipe2       = 59
	SysClose       = 57
	SysOpenat      = 56
	SysFstatat     = 79 // newfstatat
	SysFstat       = 80 // newfstat
	SysExit        = 93
	SysNanosleep   = 101
	SysTimes       = 153
	SysBrk         = 214
	SysMunmap      = 215
	SysMmap        = 222
)
