package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oichkatzele/minikernel/internal/vfs"
)

var catCmd = &cobra.Command{
	Use:   "cat PATH",
	Short: "Print the contents of the file at PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k := bootKernel()
		node, err := vfs.GlobalOpen(args[0], k.root)
		if err != nil {
			return err
		}
		var st vfs.Statistics
		if err := node.Stat(&st); err != nil {
			return err
		}
		buf := make([]byte, st.Size)
		if _, err := node.ReadAt(0, buf); err != nil {
			return err
		}
		_, err = os.Stdout.Write(buf)
		if err == nil {
			fmt.Println()
		}
		return err
	},
}
