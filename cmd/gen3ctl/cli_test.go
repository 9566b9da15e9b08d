package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/internal/testutil"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/save/layout"
	"github.com/joshuapare/gen3kit/save/section"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()
	w.Close()
	os.Stdout = orig
	return string(<-done), fnErr
}

// runCLI resets global flag state and executes gen3ctl with args.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, quiet, jsonOut = false, false, false
	titleFlag, romFlag, regionFlag, catalogFlag = "", "", "", ""
	transferFrom, transferTo = "", ""
	transferCopy, transferOverwrite, transferNoDex, noBackup = false, false, false, false
	srcGame, dstGame = game{}, game{}
	identifyStrict = false
	validateFormat = "text"
	t.Setenv("GEN3KIT_BACKUP", "false")

	rootCmd.SetArgs(args)
	return captureOutput(t, rootCmd.Execute)
}

func emeraldBlocks(t *testing.T) *testutil.Blocks {
	t.Helper()
	l, ok := layout.ForFamily(types.FamilyE)
	require.True(t, ok)
	b := testutil.NewBlocks(l)
	b.Trainer[0x900] = 1 // past the Ruby/Sapphire trainer size
	return b
}

func writeSave(t *testing.T, dir, name string, b *testutil.Blocks) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, testutil.BuildSave(b, 20), 0o644))
	return path
}

func TestInfoJSON(t *testing.T) {
	path := writeSave(t, t.TempDir(), "emerald.sav",
		emeraldBlocks(t).SetTrainerID(4321, 99).UnlockStorage().PutBox(0, 0, testutil.BoxRecord(t, 1, 1)))

	out, err := runCLI(t, "info", path, "--json")
	require.NoError(t, err)

	var got infoOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "E", got.Family)
	assert.Equal(t, uint16(4321), got.TrainerID)
	assert.Equal(t, uint32(20), got.SaveCounter)
	assert.Equal(t, 1, got.Stored)
	assert.True(t, got.Unlocked)
}

func TestInfoText(t *testing.T) {
	path := writeSave(t, t.TempDir(), "emerald.sav", emeraldBlocks(t))
	out, err := runCLI(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Save Information:")
	assert.Contains(t, out, "Active bank: 0 (counter 20)")
	assert.Contains(t, out, "transfers locked")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeSave(t, dir, "good.sav", emeraldBlocks(t))
	out, err := runCLI(t, "validate", good, "--format", "compact")
	require.NoError(t, err)
	assert.NotContains(t, out, "[CRITICAL]")

	raw := testutil.BuildSave(emeraldBlocks(t), 20)
	testutil.FlipPayloadByte(raw, 0, 3, 10)
	bad := filepath.Join(dir, "bad.sav")
	require.NoError(t, os.WriteFile(bad, raw, 0o644))

	out, err = runCLI(t, "validate", bad, "--json")
	require.ErrorIs(t, err, errValidationFailed)
	var report struct {
		ActiveBank int               `json:"active_bank"`
		Summary    types.DiagSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, -1, report.ActiveBank)
	assert.Positive(t, report.Summary.Critical)
}

func TestDump(t *testing.T) {
	path := writeSave(t, t.TempDir(), "emerald.sav",
		emeraldBlocks(t).SetParty(testutil.PartyRecord(t, 25, 3, 9)))
	out, err := runCLI(t, "dump", path, "--title", "Emerald", "--region", "USA")
	require.NoError(t, err)
	assert.Contains(t, out, "format_version=1\ntitle=Emerald\nregion=USA\nfamily=E\n")
	assert.Contains(t, out, "party.1.species=25\n")
}

func TestTransfer(t *testing.T) {
	dir := t.TempDir()
	rec := testutil.BoxRecord(t, 150, 0xABCD)
	srcPath := writeSave(t, dir, "src.sav", emeraldBlocks(t).PutBox(0, 0, rec))
	fr, ok := layout.ForFamily(types.FamilyFRLG)
	require.True(t, ok)
	dstPath := writeSave(t, dir, "dst.sav", testutil.NewBlocks(fr).UnlockStorage())

	out, err := runCLI(t, "transfer", srcPath, dstPath, "--from", "box:1:1", "--to", "box:2:3", "--json")
	require.NoError(t, err)
	var res transferOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Committed", res.State)
	assert.Equal(t, uint16(150), res.Species)

	dst, err := section.OpenFile(dstPath, fr)
	require.NoError(t, err)
	got, err := dst.BoxRecord(1, 2)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, uint32(21), dst.Image().Counter())

	src, err := section.OpenFile(srcPath, emeraldBlocks(t).Layout)
	require.NoError(t, err)
	got, err = src.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, format.BoxRecordSize), got)

	// The slot is now taken.
	_, err = runCLI(t, "transfer", dstPath, dstPath, "--from", "box:2:3", "--to", "box:2:3")
	require.ErrorIs(t, err, types.ErrDestinationInvalid)
}

func TestTransferRejectedLeavesFilesAlone(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeSave(t, dir, "src.sav", emeraldBlocks(t).PutBox(0, 0, testutil.BoxRecord(t, 1, 1)))
	dstPath := writeSave(t, dir, "dst.sav", emeraldBlocks(t)) // storage locked
	before, err := os.ReadFile(dstPath)
	require.NoError(t, err)

	_, err = runCLI(t, "transfer", srcPath, dstPath, "--from", "box:1:1", "--to", "box:1:1")
	require.ErrorIs(t, err, types.ErrStorageLocked)

	after, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func cartridge(code string) []byte {
	b := make([]byte, 0x200)
	copy(b[format.ROMTitleOffset:], "POKEMON")
	copy(b[format.ROMGameCodeOffset:], code)
	b[format.ROMFixedOffset] = format.ROMFixedValue
	return b
}

func TestIdentifyAndScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leaf.gba")
	require.NoError(t, os.WriteFile(path, cartridge("BPGE"), 0o644))
	junk := filepath.Join(dir, "junk.gba")
	require.NoError(t, os.WriteFile(junk, cartridge("ZZZZ"), 0o644))

	out, err := runCLI(t, "identify", path, "--json")
	require.NoError(t, err)
	var ids []identifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	require.Len(t, ids, 1)
	assert.Equal(t, "LeafGreen", ids[0].Title)
	assert.Equal(t, "header", ids[0].Confidence)

	_, err = runCLI(t, "identify", junk, "--strict")
	require.ErrorIs(t, err, types.ErrUnidentifiedRom)

	out, err = runCLI(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 candidate file(s)")
	assert.Contains(t, out, "LeafGreen  "+path)
}

func writeROM(t *testing.T, dir, name, code string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, cartridge(code), 0o644))
	return path
}

func TestROMPicksLayoutAndRegion(t *testing.T) {
	dir := t.TempDir()
	fr, ok := layout.ForFamily(types.FamilyFRLG)
	require.True(t, ok)
	path := writeSave(t, dir, "fr.sav", testutil.NewBlocks(fr).UnlockNationalDex())
	romPath := writeROM(t, dir, "firered.gba", "BPRD")

	out, err := runCLI(t, "info", path, "--rom", romPath, "--json")
	require.NoError(t, err)
	var got infoOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "FRLG", got.Family)
	assert.Equal(t, "FireRed", got.Title)
	assert.Equal(t, "GER", got.Region)
	assert.True(t, got.NationalDex)

	// The cartridge region wins over --region.
	out, err = runCLI(t, "dump", path, "--rom", romPath, "--region", "USA")
	require.NoError(t, err)
	assert.Contains(t, out, "title=FireRed\nregion=GER\nfamily=FRLG\n")

	out, err = runCLI(t, "validate", path, "--rom", romPath, "--format", "compact")
	require.NoError(t, err)
	assert.NotContains(t, out, "[CRITICAL]")
}

func TestROMErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeSave(t, dir, "emerald.sav", emeraldBlocks(t))

	_, err := runCLI(t, "info", path, "--rom", writeROM(t, dir, "junk.gba", "ZZZZ"))
	require.ErrorIs(t, err, types.ErrUnidentifiedRom)

	_, err = runCLI(t, "info", path, "--rom", filepath.Join(dir, "missing.gba"))
	require.Error(t, err)

	// A LeafGreen cartridge cannot describe an Emerald save.
	_, err = runCLI(t, "info", path, "--rom", writeROM(t, dir, "leaf.gba", "BPGE"))
	require.Error(t, err)
}

func TestTransferPerSaveGame(t *testing.T) {
	dir := t.TempDir()
	rec := testutil.BoxRecord(t, 280, 0x77) // national 255
	srcPath := writeSave(t, dir, "src.sav", emeraldBlocks(t).PutBox(0, 0, rec))
	fr, ok := layout.ForFamily(types.FamilyFRLG)
	require.True(t, ok)
	dstPath := writeSave(t, dir, "dst.sav", testutil.NewBlocks(fr).UnlockStorage().PutBox(0, 0, testutil.BoxRecord(t, 1, 1)))
	romPath := writeROM(t, dir, "leaf.gba", "BPGE")

	// One global title cannot describe both saves.
	_, err := runCLI(t, "transfer", srcPath, dstPath, "--from", "box:1:1", "--title", "Emerald")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination")

	out, err := runCLI(t, "transfer", srcPath, dstPath, "--from", "box:1:1",
		"--title", "Emerald", "--dst-rom", romPath, "--json")
	require.NoError(t, err)
	var res transferOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Committed", res.State)
	assert.Equal(t, "box:1:2", res.To, "first empty slot")

	dst, err := section.OpenFile(dstPath, fr)
	require.NoError(t, err)
	got, err := dst.BoxRecord(0, 1)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.True(t, dst.DexOwned(255))
	assert.True(t, dst.DexSeen(255))
}

func TestTransferNoPokedex(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeSave(t, dir, "src.sav", emeraldBlocks(t).PutBox(0, 0, testutil.BoxRecord(t, 25, 1)))
	dstPath := writeSave(t, dir, "dst.sav", emeraldBlocks(t).UnlockStorage())

	_, err := runCLI(t, "transfer", srcPath, dstPath, "--from", "box:1:1", "--to", "box:1:1",
		"--src-title", "Emerald", "--dst-title", "Emerald", "--no-pokedex")
	require.NoError(t, err)

	dst, err := section.OpenFile(dstPath, emeraldBlocks(t).Layout)
	require.NoError(t, err)
	assert.False(t, dst.DexSeen(25))
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gen3ctl dev")
	assert.Contains(t, out, "catalog: 11 known dumps")
}
