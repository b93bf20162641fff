package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kernelctl",
	Short: "Boot and drive the simulated kernel from the command line",
	Long: `kernelctl boots a fresh, in-memory instance of the simulated kernel
and runs a single operation against it. Nothing persists between
invocations (spec.md §6: "Persisted state: None"), so every subcommand
starts from vfs.Initialize and tears down when it returns.`,
}

// Execute runs the root command, printing any returned error the way the
// teacher's own small tools call log.Fatal on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(bootCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(runELFCmd)
}
