package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/save"
	"github.com/joshuapare/gen3kit/transfer"
)

var (
	transferFrom      string
	transferTo        string
	transferCopy      bool
	transferOverwrite bool
	transferNoDex     bool
	noBackup          bool

	srcGame, dstGame game
)

func init() {
	rootCmd.AddCommand(newTransferCmd())
}

func newTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer <src-save> <dst-save>",
		Short: "Move a creature record from one save into another save's PC box",
		Long: `The transfer command moves (or with --copy, duplicates) one record
into a box slot of the destination save, or the first empty one when --to
is omitted. The destination must load cleanly, have the slot free (or
--overwrite), and have storage unlocked in-game. The species is marked seen
and owned in the destination Pokédex unless --no-pokedex is given.

Both saves are committed with the game's double-bank scheme: destination
first, then source. Slots use one-based numbers: party:N or box:B:S.
The same file may be given twice to move a record within one save.

Example:
  gen3ctl transfer ruby.sav emerald.sav --from box:1:1 --to box:3:10
  gen3ctl transfer firered.sav emerald.sav --from party:2 --to box:1:1 --copy
  gen3ctl transfer ruby.sav leafgreen.sav --from box:1:1 --src-rom ruby.gba --dst-title LeafGreen`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&transferFrom, "from", "", "Source slot (party:N or box:B:S)")
	cmd.Flags().StringVar(&transferTo, "to", "", "Destination box slot (box:B:S); the first empty slot when omitted")
	cmd.Flags().BoolVar(&transferCopy, "copy", false, "Leave the source record in place")
	cmd.Flags().BoolVar(&transferOverwrite, "overwrite", false, "Replace an occupied destination slot")
	cmd.Flags().StringVar(&srcGame.title, "src-title", "", "Game title of the source save (overrides --title)")
	cmd.Flags().StringVar(&srcGame.rom, "src-rom", "", "Cartridge image of the source save (overrides --rom)")
	cmd.Flags().StringVar(&dstGame.title, "dst-title", "", "Game title of the destination save (overrides --title)")
	cmd.Flags().StringVar(&dstGame.rom, "dst-rom", "", "Cartridge image of the destination save (overrides --rom)")
	cmd.Flags().BoolVar(&transferNoDex, "no-pokedex", false, "Do not mark the species seen and owned in the destination Pokédex")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the .bak copy taken before the first overwrite")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func withBackup() save.Option {
	return save.WithBackup(cfg.Backup && !noBackup)
}

type transferOutput struct {
	ID           string   `json:"id"`
	State        string   `json:"state"`
	Mode         string   `json:"mode"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	Species      uint16   `json:"species,omitempty"`
	TradeEvolves bool     `json:"trade_evolves,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func runTransfer(cmd *cobra.Command, srcPath, dstPath string) error {
	from, err := types.ParseSlotRef(transferFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to := transfer.AnyBoxSlot
	if transferTo != "" {
		if to, err = types.ParseSlotRef(transferTo); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}

	src, _, err := openSave(srcPath, srcGame.or(globalGame()))
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst := src
	if !samePath(srcPath, dstPath) {
		if dst, _, err = openSave(dstPath, dstGame.or(globalGame())); err != nil {
			return fmt.Errorf("destination: %w", err)
		}
	}

	req := transfer.NewRequest(src, dst, from, to)
	req.Overwrite = transferOverwrite
	req.UpdatePokedex = !transferNoDex
	if transferCopy {
		req.Mode = transfer.Copy
	}
	printVerbose("Request %s\n", req)

	res, err := transfer.NewCoordinator().Execute(cmd.Context(), req)
	out := transferOutput{
		ID:   req.ID.String(),
		Mode: req.Mode.String(),
		From: from.String(),
		To:   to.String(),
	}
	if to == transfer.AnyBoxSlot {
		out.To = "box:any"
	}
	if res != nil {
		out.State = res.State.String()
		out.Species = res.Species
		out.Warnings = res.Warnings
		if res.To.Valid() {
			out.To = res.To.String()
		}
		out.TradeEvolves = res.TradeEvolves
	}
	if err != nil {
		out.Error = err.Error()
	}

	if jsonOut {
		if perr := printJSON(out); perr != nil {
			return perr
		}
		return err
	}
	for _, w := range out.Warnings {
		printInfo("Warning: %s\n", w)
	}
	switch {
	case err == nil:
		printInfo("%s species %d %s -> %s: %s\n", out.Mode, out.Species, out.From, out.To, out.State)
	case errors.Is(err, types.ErrPartialTransfer):
		// Both saves now hold the record; the user must resolve it.
		printInfo("Destination %s was written but %s was not cleared.\n", dstPath, srcPath)
	case errors.Is(err, types.ErrCommitUnverified):
		printInfo("Destination %s was rewritten but did not read back; %s still holds the record.\n", dstPath, srcPath)
	}
	return err
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return filepath.Clean(aa) == filepath.Clean(bb)
}

