package trapframe

// LoongArch64Registers mirrors the same a0-a7 argument/syscall-id
// convention the Linux syscall ABI shares across riscv64 and
// loongarch64, per original_source's platform-abstractions split having
// one riscv64 context.rs and a loongarch64 boot.rs sharing the same
// kernel/src/syscalls/*.rs handler contract.
type LoongArch64Registers struct {
	A0, A1, A2, A3, A4, A5, A6, A7 uint64
}

// LoongArch64TrapFrame is the loongarch64 trap frame shape: the argument
// registers plus era, the exception return address (LoongArch's analogue
// of riscv64's sepc).
type LoongArch64TrapFrame struct {
	Regs LoongArch64Registers
	Era  uint64
}

func (tf *LoongArch64TrapFrame) SyscallNumber() uint64 { return tf.Regs.A7 }

func (tf *LoongArch64TrapFrame) Arg(i int) uint64 {
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

func (tf *LoongArch64TrapFrame) SetReturnValue(v uint64) { tf.Regs.A0 = v }

func (tf *LoongArch64TrapFrame) InstructionPointer() uint64 { return tf.Era }

func (tf *LoongArch64TrapFrame) AdvancePastTrap() { tf.Era += trapInstructionSize }

var _ TrapFrame = (*LoongArch64TrapFrame)(nil)
