// Package trapframe abstracts the architecture-specific trap frame
// shape behind a small platform interface, per spec.md §1 ("architecture-
// specific trap frame shape and page-table word format are abstracted
// away by a small platform interface") and §6 ("the core requires fields
// for: the syscall number, six argument registers, the return-value
// register, and an instruction pointer. The dispatcher treats these
// abstractly").
//
// Grounded on original_source's platform-specific/src/riscv64/syscalls.rs
// (ISyscallContext/ISyscallContextMut: syscall_id reads regs.a7, arg_i
// reads a0+i, set_return_value writes a0, move_to_next_instruction adds 4
// to sepc) — the same decode shape, expressed as a Go interface instead
// of a Rust trait so the dispatcher (internal/syscalls) can hold a single
// TrapFrame value regardless of which architecture produced it.
package trapframe

// ArgCount is the number of argument registers the dispatcher decodes
// positionally (spec.md §4.6: "Argument extraction is positional").
const ArgCount = 6

// TrapFrame is the architecture-neutral view the dispatcher consumes.
type TrapFrame interface {
	// SyscallNumber reads the syscall-id register (a7 on both riscv64
	// and loongarch64).
	SyscallNumber() uint64
	// Arg reads argument register i (0-indexed, 0 <= i < ArgCount).
	Arg(i int) uint64
	// SetReturnValue writes the handler's result into the return-value
	// register (a0).
	SetReturnValue(v uint64)
	// InstructionPointer returns the current trap PC.
	InstructionPointer() uint64
	// AdvancePastTrap moves the PC past the trapping instruction
	// (ecall/syscall, 4 bytes on both supported architectures).
	AdvancePastTrap()
}
