package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oichkatzele/minikernel/internal/vfs"
)

var lsCmd = &cobra.Command{
	Use:   "ls PATH",
	Short: "List the entries at PATH in the freshly booted namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k := bootKernel()
		node, err := vfs.GlobalOpen(args[0], k.root)
		if err != nil {
			return err
		}
		entries, err := node.ReadDir()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Println(e.Filename)
		}
		return nil
	},
}
