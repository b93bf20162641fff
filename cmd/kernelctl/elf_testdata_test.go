package main

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

// buildTestELF assembles a minimal, valid ELF64 executable with a single
// PT_LOAD segment, duplicated from vmspace's own unexported test helper
// (internal/vmspace/elf_testdata_test.go) since that one isn't visible
// outside package vmspace.
func buildTestELF(vaddr, entry uint64, code []byte) []byte {
	const ehsize = 64
	const phentsize = 56
	const phoff = ehsize

	var buf bytes.Buffer

	ident := [16]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}
	buf.Write(ident[:])

	write := func(v any) {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	write(uint16(elf.ET_EXEC))
	write(uint16(elf.EM_RISCV))
	write(uint32(1))
	write(entry)
	write(uint64(phoff))
	write(uint64(0))
	write(uint32(0))
	write(uint16(ehsize))
	write(uint16(phentsize))
	write(uint16(1))
	write(uint16(0))
	write(uint16(0))
	write(uint16(0))

	dataOff := uint64(ehsize + phentsize)

	write(uint32(elf.PT_LOAD))
	write(uint32(elf.PF_R | elf.PF_X | elf.PF_W))
	write(dataOff)
	write(vaddr)
	write(vaddr)
	write(uint64(len(code)))
	write(uint64(len(code)))
	write(uint64(0x1000))

	buf.Write(code)

	return buf.Bytes()
}
