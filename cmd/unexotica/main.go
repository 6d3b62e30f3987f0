// Package main provides the entry point for the unexotica CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "unexotica",
	Short: "UnExoticA game music mirror tool",
	Long: `unexotica maintains a local mirror of the UnExoticA Amiga game music
collection: per-title wiki metadata, module archives, and box scans,
organized into alphabetical buckets.`,
}

func main() {
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(statusCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("unexotica version 1.4.0")
		},
	}
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
