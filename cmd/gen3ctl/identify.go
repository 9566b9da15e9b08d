package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/gen3kit/rom"
	"github.com/joshuapare/gen3kit/rom/loader"
)

var identifyStrict bool

func init() {
	rootCmd.AddCommand(newIdentifyCmd())
}

func newIdentifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify <rom>...",
		Short: "Fingerprint cartridge images and resolve their title and region",
		Long: `The identify command hashes each image (raw or inside a zip, 7z, gzip,
tar.gz or rar archive), looks the SHA-1 up in the catalog of known dumps and
falls back to the cartridge header's game code.

Example:
  gen3ctl identify "Pokemon - Emerald Version (USA, Europe).gba"
  gen3ctl identify roms/*.zip --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentify(args)
		},
	}
	cmd.Flags().BoolVar(&identifyStrict, "strict", false, "Fail when an image cannot be identified")
	return cmd
}

type identifyOutput struct {
	Path       string `json:"path"`
	Entry      string `json:"entry"`
	Size       int    `json:"size"`
	SHA1       string `json:"sha1"`
	CRC32      string `json:"crc32"`
	GameCode   string `json:"game_code"`
	Header     string `json:"header_title"`
	Title      string `json:"title,omitempty"`
	Region     string `json:"region,omitempty"`
	Revision   uint8  `json:"revision"`
	Confidence string `json:"confidence"`
}

func runIdentify(args []string) error {
	var out []identifyOutput
	var firstErr error
	for _, path := range args {
		printVerbose("Loading %s\n", path)
		img, err := loader.Load(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fp, err := rom.Identify(img.Data)
		img.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if identifyStrict && firstErr == nil && fp.Err() != nil {
			firstErr = fmt.Errorf("%s: %w", path, fp.Err())
		}

		o := identifyOutput{
			Path:       path,
			Entry:      img.Name,
			Size:       fp.Size,
			SHA1:       fp.SHA1,
			CRC32:      fmt.Sprintf("%08X", fp.CRC32),
			GameCode:   fp.Header.GameCode,
			Header:     fp.Header.Title,
			Revision:   fp.Header.Revision,
			Confidence: fp.Confidence.String(),
		}
		if fp.Identified() {
			o.Title, o.Region, o.Revision = fp.Identity.Title.String(), fp.Identity.Region.String(), fp.Identity.Revision
		}
		out = append(out, o)

		if jsonOut {
			continue
		}
		printInfo("\n%s\n", path)
		if img.Name != "" && img.Kind != loader.KindRaw {
			printInfo("  Entry:      %s (%s)\n", img.Name, img.Kind)
		}
		printInfo("  Size:       %s\n", humanize.IBytes(uint64(fp.Size)))
		printInfo("  SHA-1:      %s\n", fp.SHA1)
		printInfo("  CRC32:      %08X\n", fp.CRC32)
		printInfo("  Header:     %q code %s rev %d\n", fp.Header.Title, fp.Header.GameCode, fp.Header.Revision)
		if !fp.Header.ComplementOK {
			printInfo("  Warning:    header complement check failed\n")
		}
		printInfo("  Identity:   %s\n", fp)
	}
	if jsonOut {
		if err := printJSON(out); err != nil {
			return err
		}
	}
	return firstErr
}
