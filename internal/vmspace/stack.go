package vmspace

import "encoding/binary"

// InitStack lays out argv and envp on the stack following the standard
// System V initial-stack convention: environment strings, then argument
// strings, a platform identifier, random bytes, the auxiliary vector,
// then the envp/argv pointer arrays and argc — each pushed so the stack
// pointer ends up exactly where a freshly started process expects it.
func (b *Builder) InitStack(args, envp []string) {
	envps := make([]uint64, 0, len(envp))
	for i := len(envp) - 1; i >= 0; i-- {
		b.pushByte(0)
		s := envp[i]
		for j := len(s) - 1; j >= 0; j-- {
			b.pushByte(s[j])
		}
		envps = append(envps, uint64(b.StackTop))
	}

	argvs := make([]uint64, 0, len(args))
	for i := len(args) - 1; i >= 0; i-- {
		b.pushByte(0)
		s := args[i]
		for j := len(s) - 1; j >= 0; j-- {
			b.pushByte(s[j])
		}
		argvs = append(argvs, uint64(b.StackTop))
	}

	b.StackTop = b.StackTop.AlignDown(8)

	b.StackTop = b.StackTop.Sub(uint64(len(platformString)))
	b.StackTop = b.StackTop.AlignDown(8)
	b.StackTop = b.StackTop.Add(uint64(len(platformString)))
	for i := len(platformString) - 1; i >= 0; i-- {
		b.pushByte(platformString[i])
	}

	b.pushUint64(0xdeadbeef)
	auxRandomBase := uint64(b.StackTop)

	b.StackTop = b.StackTop.AlignDown(16)

	b.pushAuxEntry(AT_NULL, 0)
	b.pushAuxEntry(AT_RANDOM, auxRandomBase)
	for i := len(b.Auxv) - 1; i >= 0; i-- {
		b.pushAuxEntry(b.Auxv[i].Key, b.Auxv[i].Value)
	}
	b.Auxv = nil

	b.pushUint64(0)
	for _, e := range envps {
		b.pushUint64(e)
	}
	b.EnvpBase = b.StackTop

	b.pushUint64(0)
	for _, a := range argvs {
		b.pushUint64(a)
	}
	b.ArgvBase = b.StackTop

	b.Argc = len(args)
	b.pushUint64(uint64(b.Argc))
}

func (b *Builder) pushBytesAligned(data []byte, align uint64) {
	b.StackTop = b.StackTop.Sub(uint64(len(data)))
	b.StackTop = b.StackTop.AlignDown(align)
	pt := b.Space.PageTable
	pt.ActivatedCopyValToOther(pt, b.StackTop, data)
}

func (b *Builder) pushByte(v byte) {
	b.pushBytesAligned([]byte{v}, 1)
}

func (b *Builder) pushUint64(v uint64) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	b.pushBytesAligned(buf, 8)
}

func (b *Builder) pushAuxEntry(key AuxKey, value uint64) {
	b.pushUint64(value)
	b.pushUint64(uint64(key))
}
