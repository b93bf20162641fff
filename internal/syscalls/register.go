package syscalls

// NewStandardRegistry builds a registry with every handler in this
// package's exhaustive contract wired to its Linux-ABI syscall number
// (spec.md §4.6). cmd/kernelctl wires this into a Dispatcher.
func NewStandardRegistry() *Registry {
	reg := NewRegistry()

	reg.RegisterSync(SysWrite, "write", SysWriteHandler)
	reg.RegisterSync(SysRead, "read", SysReadHandler)
	reg.RegisterSync(SysOpenat, "openat", SysOpenatHandler)
	reg.RegisterSync(SysClose, "close", SysCloseHandler)
	reg.RegisterSync(SysDup, "dup", SysDupHandler)
	reg.RegisterSync(SysDup3, "dup3", SysDup3Handler)
	reg.RegisterSync(SysPipe2, "pipe2", SysPipe2Handler)
	reg.RegisterSync(SysMkdirat, "mkdirat", SysMkdiratHandler)
	reg.RegisterSync(SysUnlinkat, "unlinkat", SysUnlinkatHandler)
	reg.RegisterSync(SysFstatat, "newfstatat", SysNewfstatatHandler)
	reg.RegisterSync(SysFstat, "newfstat", SysNewfstatHandler)
	reg.RegisterSync(SysGetdents64, "getdents64", SysGetdents64Handler)
	reg.RegisterSync(SysMmap, "mmap", SysMmapHandler)
	reg.RegisterSync(SysMunmap, "munmap", SysMunmapHandler)
	reg.RegisterSync(SysMount, "mount", SysMountHandler)
	reg.RegisterSync(SysUmount2, "umount2", SysUmount2Handler)
	reg.RegisterSync(SysIoctl, "ioctl", SysIoctlHandler)
	reg.RegisterSync(SysFcntl, "fcntl", SysFcntlHandler)
	reg.RegisterSync(SysExit, "exit", SysExitHandler)
	reg.RegisterSync(SysTimes, "times", SysTimesHandler)
	reg.RegisterSync(SysBrk, "brk", SysBrkHandler)
	reg.RegisterAsync(SysNanosleep, "nanosleep", SysNanosleepHandler)

	return reg
}
