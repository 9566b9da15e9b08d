package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/query"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <save>",
		Short: "Validate a save and report trainer and progress information",
		Long: `The info command loads a save, selects its active bank and prints
the trainer card, badges, Pokédex totals and storage usage.

Example:
  gen3ctl info emerald.sav
  gen3ctl info ruby.sav --title Ruby --json
  gen3ctl info emerald.sav --rom "Pokemon - Emerald Version (USA, Europe).zip"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

type infoOutput struct {
	File        string   `json:"file"`
	Size        int64    `json:"size"`
	Family      string   `json:"family"`
	Title       string   `json:"title,omitempty"`
	Region      string   `json:"region,omitempty"`
	ActiveBank  int      `json:"active_bank"`
	SaveCounter uint32   `json:"save_counter"`
	Trainer     string   `json:"trainer"`
	TrainerID   uint16   `json:"trainer_id"`
	SecretID    uint16   `json:"secret_id"`
	PlayTime    string   `json:"play_time"`
	Money       uint32   `json:"money"`
	Badges      [8]bool  `json:"badges"`
	DexSeen     int      `json:"pokedex_seen"`
	DexOwned    int      `json:"pokedex_owned"`
	NationalDex bool     `json:"national_dex"`
	Party       int      `json:"party"`
	Stored      int      `json:"stored"`
	Unlocked    bool     `json:"storage_unlocked"`
	Warnings    []string `json:"warnings,omitempty"`
}

func runInfo(path string) error {
	s, res, err := openSave(path, globalGame())
	if err != nil {
		return err
	}
	v := query.New(s, res.region)

	o := infoOutput{
		File:        path,
		Family:      s.Layout().Family.String(),
		ActiveBank:  s.Image().ActiveIndex(),
		SaveCounter: v.SaveCounter(),
		TrainerID:   v.TrainerID(),
		SecretID:    v.SecretID(),
		PlayTime:    v.PlayTime().Truncate(time.Second).String(),
		Money:       v.Money(),
		Badges:      v.Badges(),
		DexSeen:     v.DexSeen(),
		DexOwned:    v.DexOwned(),
		NationalDex: v.NationalDexUnlocked(),
		Party:       v.PartyCount(),
		Stored:      v.StorageCount(),
		Unlocked:    v.StorageUnlocked(),
	}
	if res.title != types.TitleUnknown {
		o.Title = res.title.String()
	}
	if res.region != types.RegionUnknown {
		o.Region = res.region.String()
	}
	if st, err := os.Stat(path); err == nil {
		o.Size = st.Size()
	}
	if name, err := v.TrainerName(); err != nil {
		o.Warnings = append(o.Warnings, fmt.Sprintf("trainer name: %v", err))
	} else {
		o.Trainer = strings.TrimSpace(name)
	}

	if jsonOut {
		return printJSON(o)
	}

	printInfo("\nSave Information:\n")
	printInfo("  File:        %s (%s)\n", path, humanize.IBytes(uint64(o.Size)))
	printInfo("  Layout:      %s\n", o.Family)
	if o.Title != "" {
		printInfo("  Game:        %s\n", strings.TrimSpace(o.Title+" "+o.Region))
	}
	printInfo("  Active bank: %d (counter %d)\n", o.ActiveBank, o.SaveCounter)
	printInfo("\nTrainer:\n")
	printInfo("  Name:        %s\n", o.Trainer)
	printInfo("  ID:          %05d (secret %05d)\n", o.TrainerID, o.SecretID)
	printInfo("  Play time:   %s\n", o.PlayTime)
	printInfo("  Money:       %s\n", humanize.Comma(int64(o.Money)))
	printInfo("  Badges:      %d/8 %s\n", v.BadgeCount(), badgeString(o.Badges))
	printInfo("  Pokédex:     %d seen, %d owned (%s)\n", o.DexSeen, o.DexOwned, dexString(o.NationalDex))
	printInfo("\nCreatures:\n")
	printInfo("  Party:       %d/6\n", o.Party)
	printInfo("  PC storage:  %d/420 (transfers %s)\n", o.Stored, lockedString(o.Unlocked))
	for _, w := range o.Warnings {
		printInfo("\nWarning: %s\n", w)
	}
	return nil
}

func badgeString(b [8]bool) string {
	var sb strings.Builder
	for _, on := range b {
		if on {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func dexString(national bool) string {
	if national {
		return "national"
	}
	return "regional"
}

func lockedString(unlocked bool) string {
	if unlocked {
		return "unlocked"
	}
	return "locked"
}
