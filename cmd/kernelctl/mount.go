package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oichkatzele/minikernel/internal/addr"
	"github.com/oichkatzele/minikernel/internal/fd"
	"github.com/oichkatzele/minikernel/internal/syscalls"
)

// openCreat mirrors the O_CREAT bit openat's handler checks; duplicated
// here rather than exported from internal/syscalls since it is a fixed
// part of the Linux ABI the CLI speaks, not an implementation detail.
const openCreat = 0o100

var mountCmd = &cobra.Command{
	Use:   "mount TARGET CONTENT",
	Short: "Mount an empty directory at TARGET and write CONTENT into TARGET/data",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, content := args[0], args[1]

		k := bootKernel()
		task, err := k.newTask()
		if err != nil {
			return err
		}

		targetVA := k.scratch(task, addr.PageSize)
		if err := writeCString(task, targetVA, target); err != nil {
			return err
		}
		if ret := k.dispatch(task, syscalls.SysMount, argI32(0), uint64(targetVA)); ret != 0 {
			return fmt.Errorf("mount %s: errno %d", target, ret)
		}

		filePath := target + "/data"
		pathVA := k.scratch(task, addr.PageSize)
		if err := writeCString(task, pathVA, filePath); err != nil {
			return err
		}
		fdRet := k.dispatch(task, syscalls.SysOpenat, argI32(fd.AtFDCWD), uint64(pathVA), uint64(openCreat))
		if fdRet < 0 {
			return fmt.Errorf("openat %s: errno %d", filePath, fdRet)
		}

		contentVA := k.scratch(task, addr.PageSize)
		if err := syscalls.GuardedWrite(task.Space, contentVA, []byte(content)); err != nil {
			return err
		}
		n := k.dispatch(task, syscalls.SysWrite, uint64(fdRet), uint64(contentVA), uint64(len(content)))
		if n < 0 {
			return fmt.Errorf("write %s: errno %d", filePath, n)
		}

		fmt.Printf("mounted %s, wrote %d bytes to %s\n", target, n, filePath)
		return nil
	},
}
