package vmspace

// AuxKey identifies one entry of the ELF auxiliary vector.
type AuxKey uint64

const (
	AT_NULL   AuxKey = 0
	AT_PHDR   AuxKey = 3
	AT_PHENT  AuxKey = 4
	AT_PHNUM  AuxKey = 5
	AT_PAGESZ AuxKey = 6
	AT_BASE   AuxKey = 7
	AT_FLAGS  AuxKey = 8
	AT_ENTRY  AuxKey = 9
	AT_UID    AuxKey = 11
	AT_EUID   AuxKey = 12
	AT_GID    AuxKey = 13
	AT_EGID   AuxKey = 14
	AT_HWCAP  AuxKey = 16
	AT_CLKTCK AuxKey = 17
	AT_SECURE AuxKey = 23
	AT_RANDOM AuxKey = 25
)

// AuxEntry is one (key, value) pair of the auxiliary vector.
type AuxEntry struct {
	Key   AuxKey
	Value uint64
}

// defaultClockTicksPerSecond is the value pushed for AT_CLKTCK: the
// frequency at which times() is documented to increment. There being no
// real timer in this kernel, it is a fixed platform constant rather than a
// measured one, the same way the reference implementation hardcodes it.
const defaultClockTicksPerSecond = 125_000_000

// platformString is pushed onto the stack to identify the CPU, matching
// AT_PLATFORM's purpose even though spec.md's auxv list does not include
// an AT_PLATFORM entry itself — only the raw string is pushed, as the
// original machine-specific stack layout does.
const platformString = "RISC-V64\x00"
