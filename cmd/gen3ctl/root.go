package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gen3kit/internal/config"
	"github.com/joshuapare/gen3kit/internal/logger"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/rom"
	"github.com/joshuapare/gen3kit/rom/loader"
	"github.com/joshuapare/gen3kit/save/layout"
	"github.com/joshuapare/gen3kit/save/section"
)

var (
	// Global flags
	verbose     bool
	quiet       bool
	jsonOut     bool
	titleFlag   string
	romFlag     string
	regionFlag  string
	catalogFlag string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gen3ctl",
	Short: "Identify Generation 3 cartridges and inspect or edit their saves",
	Long: `gen3ctl identifies Ruby, Sapphire, Emerald, FireRed and LeafGreen
cartridge images, validates and dumps their flash saves, and moves creature
records between saves using the game's own double-bank commit scheme.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&titleFlag, "title", "",
		"Game title of the save (Ruby, Sapphire, Emerald, FireRed, LeafGreen); detected when empty")
	rootCmd.PersistentFlags().StringVar(&romFlag, "rom", "",
		"Cartridge image the save belongs to; its identity picks the layout and region")
	rootCmd.PersistentFlags().StringVar(&regionFlag, "region", "",
		"Cartridge region (USA, EUR, JPN, GER, FRA, ITA, SPA or the game-code letter)")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "",
		"Extra YAML catalog of known dumps (default $GEN3KIT_CATALOG)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the environment config, configures logging and merges any
// extra catalog. Flags win over the environment.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(); err != nil {
		return err
	}
	opts := cfg.LoggerOptions(os.Stderr)
	if verbose {
		opts.Level = logger.ParseLevel("debug")
	}
	if err := logger.Init(opts); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	path := catalogFlag
	if path == "" {
		path = cfg.Catalog
	}
	if path != "" {
		if err := rom.DefaultCatalog().LoadFile(path); err != nil {
			return err
		}
		printVerbose("Merged catalog %s (%d entries)\n", path, rom.DefaultCatalog().Len())
	}
	return nil
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// game says how a save's layout is chosen: from a cartridge image, from a
// title, or by probing the save when both are empty.
type game struct {
	title string
	rom   string
}

// globalGame is the game named by the root --title and --rom flags.
func globalGame() game { return game{title: titleFlag, rom: romFlag} }

// or returns fallback when g names neither a title nor a cartridge.
func (g game) or(fallback game) game {
	if g.title == "" && g.rom == "" {
		return fallback
	}
	return g
}

// resolved is the outcome of picking a layout for one save.
type resolved struct {
	layout layout.Layout
	title  types.Title
	region types.Region
}

// parseRegion returns the --region flag, or RegionUnknown when unset.
func parseRegion() (types.Region, error) {
	if regionFlag == "" {
		return types.RegionUnknown, nil
	}
	return types.ParseRegion(regionFlag)
}

// resolveLayout picks the save layout for data. A cartridge image wins over
// a title; with neither, every layout is tried against the save.
func resolveLayout(data []byte, g game) (resolved, error) {
	reg, err := parseRegion()
	if err != nil {
		return resolved{}, err
	}
	if g.rom != "" {
		return fromROM(g.rom)
	}
	if g.title != "" {
		t, err := types.ParseTitle(g.title)
		if err != nil {
			return resolved{}, err
		}
		l, ok := layout.ForFamily(t.Family())
		if !ok {
			return resolved{}, fmt.Errorf("no layout for %s", t)
		}
		return resolved{layout: l, title: t, region: reg}, nil
	}

	cands := section.DetectFamily(data)
	f, ok := section.PreferFamily(cands)
	if !ok {
		return resolved{region: reg},
			types.Errorf(types.ErrKindCorruptSave, nil, "save does not decode under any layout")
	}
	if len(cands) > 1 {
		printVerbose("Layout candidates %v, using %s (pass --title or --rom to override)\n", cands, f)
	}
	l, _ := layout.ForFamily(f)
	return resolved{layout: l, title: types.TitleUnknown, region: reg}, nil
}

// fromROM identifies the cartridge image at path and returns the layout
// of its variant. The cartridge's region replaces --region.
func fromROM(path string) (resolved, error) {
	img, err := loader.Load(path)
	if err != nil {
		return resolved{}, fmt.Errorf("rom %s: %w", path, err)
	}
	defer img.Close()
	fp, err := rom.Identify(img.Data)
	if err != nil {
		return resolved{}, fmt.Errorf("rom %s: %w", path, err)
	}
	if err := fp.Err(); err != nil {
		return resolved{}, err
	}
	l, ok := layout.ForVariant(fp.Identity.Variant())
	if !ok {
		return resolved{}, fmt.Errorf("no layout for %s", fp.Identity.Variant())
	}
	printVerbose("Cartridge %s identified as %s\n", path, fp)
	return resolved{layout: l, title: fp.Identity.Title, region: fp.Identity.Region}, nil
}

// openSave reads path, resolves its layout and opens its sections with
// commits written back to path.
func openSave(path string, g game) (*section.Sections, resolved, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, resolved{}, fmt.Errorf("read save: %w", err)
	}
	res, err := resolveLayout(data, g)
	if err != nil {
		return nil, res, fmt.Errorf("%s: %w", path, err)
	}
	s, err := section.OpenFile(path, res.layout, withBackup())
	if err != nil {
		return nil, res, err
	}
	printVerbose("Opened %s as %s (bank %d, counter %d)\n",
		path, res.layout.Family, s.Image().ActiveIndex(), s.Image().Counter())
	return s, res, nil
}
