package trapframe

// trapInstructionSize is the size, in bytes, of the ecall/syscall
// instruction every supported architecture traps on.
const trapInstructionSize = 4

// RISCV64Registers holds the subset of the RISC-V integer register file
// the syscall ABI touches: the eight registers a0-a7, of which a0-a5 carry
// arguments and a7 the syscall id
// (original_source: "offset of a0" + i, syscall_id := regs.a7).
type RISCV64Registers struct {
	A0, A1, A2, A3, A4, A5, A6, A7 uint64
}

// RISCV64TrapFrame is the riscv64 trap frame shape: the argument
// registers plus sepc, the supervisor exception PC (original_source:
// "self.trap_ctx.sepc += 4").
type RISCV64TrapFrame struct {
	Regs RISCV64Registers
	Sepc uint64
}

func (tf *RISCV64TrapFrame) SyscallNumber() uint64 { return tf.Regs.A7 }

func (tf *RISCV64TrapFrame) Arg(i int) uint64 {
	switch i {
	case 0:
		return tf.Regs.A0
	case 1:
		return tf.Regs.A1
	case 2:
		return tf.Regs.A2
	case 3:
		return tf.Regs.A3
	case 4:
		return tf.Regs.A4
	case 5:
		return tf.Regs.A5
	default:
		panic("trapframe: argument index out of range")
	}
}

func (tf *RISCV64TrapFrame) SetReturnValue(v uint64) { tf.Regs.A0 = v }

func (tf *RISCV64TrapFrame) InstructionPointer() uint64 { return tf.Sepc }

func (tf *RISCV64TrapFrame) AdvancePastTrap() { tf.Sepc += trapInstructionSize }

var _ TrapFrame = (*RISCV64TrapFrame)(nil)
