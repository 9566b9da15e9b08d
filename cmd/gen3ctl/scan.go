package main

import (
	"errors"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/rom"
)

func init() {
	rootCmd.AddCommand(newScanCmd())
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "Identify every cartridge image under a directory",
		Long: `The scan command walks a ROM directory (default $GEN3KIT_ROMS_DIR),
identifies every image or archive it finds, and reports which file would be
used for each title. Exact catalog matches win over header matches.

Example:
  gen3ctl scan ~/roms`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.RomsDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("no directory given and GEN3KIT_ROMS_DIR is not set")
			}
			return runScan(cmd, dir)
		},
	}
}

type scanOutput struct {
	Path       string `json:"path"`
	Entry      string `json:"entry"`
	Identity   string `json:"identity,omitempty"`
	Confidence string `json:"confidence"`
	Error      string `json:"error,omitempty"`
}

func runScan(cmd *cobra.Command, dir string) error {
	results, err := rom.DefaultCatalog().Scan(cmd.Context(), dir)
	if err != nil {
		return err
	}

	best := map[string]string{}
	for _, t := range types.Titles() {
		if r, ok := rom.Best(results, t); ok {
			best[t.String()] = r.Path
		}
	}

	if jsonOut {
		out := make([]scanOutput, 0, len(results))
		for _, r := range results {
			o := scanOutput{Path: r.Path, Entry: r.Entry, Confidence: r.Fingerprint.Confidence.String()}
			if r.Err != nil {
				o.Error = r.Err.Error()
			} else if r.Fingerprint.Identified() {
				o.Identity = r.Fingerprint.Identity.String()
			}
			out = append(out, o)
		}
		return printJSON(map[string]any{"results": out, "selected": best})
	}

	printInfo("Scanned %s: %d candidate file(s)\n\n", dir, len(results))
	for _, r := range results {
		rel, rerr := filepath.Rel(dir, r.Path)
		if rerr != nil {
			rel = r.Path
		}
		if r.Err != nil {
			printInfo("  %-40s  error: %v\n", rel, r.Err)
			continue
		}
		printInfo("  %-40s  %-28s  %s\n", rel, r.Fingerprint, humanize.IBytes(uint64(r.Fingerprint.Size)))
	}
	printInfo("\nSelected:\n")
	for _, t := range types.Titles() {
		if p, ok := best[t.String()]; ok {
			printInfo("  %-10s %s\n", t, p)
		} else {
			printInfo("  %-10s (none)\n", t)
		}
	}
	return nil
}
