package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gen3kit/export"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <save>",
		Short: "Print the decoded save as stable key=value lines",
		Long: `The dump command prints the trainer, progress and every occupied
party and box slot as one key=value pair per line. Key names and their order
are stable across versions; format_version changes if they ever must.

Example:
  gen3ctl dump emerald.sav --region USA
  gen3ctl dump firered.sav --json
  gen3ctl dump ruby.sav --rom ruby.gba`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

func runDump(path string) error {
	s, res, err := openSave(path, globalGame())
	if err != nil {
		return err
	}
	pairs := export.Dump(s, export.Meta{Title: res.title, Region: res.region})
	if jsonOut {
		return export.WriteJSON(os.Stdout, pairs)
	}
	return export.WriteText(os.Stdout, pairs)
}
