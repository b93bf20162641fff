package vmspace

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

// buildTestELF assembles a minimal, valid ELF64 executable with a single
// PT_LOAD segment: vaddr..vaddr+len(code) readable+executable, holding
// code verbatim, with bssExtra additional zero-fill bytes beyond the file
// image (mem_size > file_size).
func buildTestELF(vaddr, entry uint64, code []byte, bssExtra uint64) []byte {
	const ehsize = 64
	const phentsize = elf64ProgHeaderSize
	const phoff = ehsize

	var buf bytes.Buffer

	ident := [16]byte{0x7f, 'E', 'L', 'F', 2 /* ELFCLASS64 */, 1 /* ELFDATA2LSB */, 1 /* EV_CURRENT */, 0}
	buf.Write(ident[:])

	write := func(v any) {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	write(uint16(elf.ET_EXEC))
	write(uint16(elf.EM_RISCV))
	write(uint32(1)) // e_version
	write(entry)
	write(uint64(phoff))
	write(uint64(0)) // e_shoff
	write(uint32(0)) // e_flags
	write(uint16(ehsize))
	write(uint16(phentsize))
	write(uint16(1)) // e_phnum
	write(uint16(0)) // e_shentsize
	write(uint16(0)) // e_shnum
	write(uint16(0)) // e_shstrndx

	dataOff := uint64(ehsize + phentsize)

	write(uint32(elf.PT_LOAD))
	write(uint32(elf.PF_R | elf.PF_X))
	write(dataOff)
	write(vaddr)
	write(vaddr) // paddr, unused
	write(uint64(len(code)))
	write(uint64(len(code)) + bssExtra)
	write(uint64(0x1000)) // align

	buf.Write(code)

	return buf.Bytes()
}
