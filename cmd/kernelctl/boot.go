package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Boot the kernel and print the root namespace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		k := bootKernel()
		entries, err := k.root.ReadDir()
		if err != nil {
			return err
		}
		fmt.Printf("booted: %d pages in pool, %d entries at /\n", framePoolPages, len(entries))
		for _, e := range entries {
			fmt.Printf("  /%s\n", e.Filename)
		}
		return nil
	},
}
