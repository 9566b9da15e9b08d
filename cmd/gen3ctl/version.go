package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gen3kit/export"
	"github.com/joshuapare/gen3kit/rom"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gen3ctl %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		fmt.Printf("  catalog: %d known dumps\n", rom.DefaultCatalog().Len())
		fmt.Printf("  dump format: %d\n", export.FormatVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
