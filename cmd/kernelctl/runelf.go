package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oichkatzele/minikernel/internal/fd"
	"github.com/oichkatzele/minikernel/internal/syscalls"
	"github.com/oichkatzele/minikernel/internal/taskctl"
	"github.com/oichkatzele/minikernel/internal/vmspace"
)

var runELFCmd = &cobra.Command{
	Use:   "run-elf FILE",
	Short: "Load an ELF image into a fresh memory space and drive a few syscalls against it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		k := bootKernel()
		builder, err := vmspace.BuildFromELF(k.alloc, dmapBase, data)
		if err != nil {
			return err
		}
		builder.InitStack([]string{path}, nil)

		cwd := fd.NewRootCwd(k.root)
		task := taskctl.New(taskctl.Tid(1), builder.Space, cwd)
		if err := k.installStdio(task); err != nil {
			return err
		}

		fmt.Printf("loaded %s: entry %#x, stack top %#x\n", path, builder.EntryPC, builder.StackTop)

		greeting := fmt.Sprintf("hello from %s, entry at %#x\n", path, builder.EntryPC)
		msgVA := k.scratch(task, uint64(len(greeting)))
		if err := syscalls.GuardedWrite(task.Space, msgVA, []byte(greeting)); err != nil {
			return err
		}
		if n := k.dispatch(task, syscalls.SysWrite, stdoutFd, uint64(msgVA), uint64(len(greeting))); n < 0 {
			return fmt.Errorf("write: errno %d", n)
		}

		// Nothing forwards the console ring to this process's own stdout
		// (installStdio's doc comment), so read it back explicitly before
		// printing it for the person running the command.
		stdout, ok := task.Fds.Get(stdoutFd)
		if !ok {
			return fmt.Errorf("run-elf: stdout descriptor missing after install")
		}
		stdout.SetOffset(0)
		readBackVA := k.scratch(task, uint64(len(greeting)))
		n := k.dispatch(task, syscalls.SysRead, stdoutFd, uint64(readBackVA), uint64(len(greeting)))
		if n < 0 {
			return fmt.Errorf("read: errno %d", n)
		}
		readBack, err := syscalls.GuardedRead(task.Space, readBackVA, uint64(n))
		if err != nil {
			return err
		}
		fmt.Print(string(readBack))

		k.dispatch(task, syscalls.SysExit, 0)
		fmt.Printf("task exited with status %d\n", task.ExitCode())
		return nil
	},
}
