// Package query exposes a read-only projection of a decoded save for
// consumers such as achievement evaluators. A View copies what it needs at
// construction and never writes back, so it is safe to share between
// goroutines and stays valid after the save is edited or committed.
package query

import (
	"time"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/pkm"
	"github.com/joshuapare/gen3kit/pkm/text"
	"github.com/joshuapare/gen3kit/save/section"
)

// View is an immutable snapshot of one save's game state.
type View struct {
	family   types.Family
	region   types.Region
	counter  uint32
	name     []byte
	gender   uint8
	tid, sid uint16
	playTime time.Duration
	money    uint32
	badges   [8]bool
	seen     int
	owned    int
	dexSeen  [format.PokedexSpeciesCount]bool
	dexOwned [format.PokedexSpeciesCount]bool
	party    int
	stored   int
	unlocked bool
	national bool
	flags    []byte
	varBase  int
	vars     []byte
}

// New snapshots s. region selects the charset used for the trainer name;
// RegionUnknown falls back to the international table.
func New(s *section.Sections, region types.Region) *View {
	v := &View{
		family:   s.Layout().Family,
		region:   region,
		counter:  s.Image().Counter(),
		name:     s.TrainerName(),
		gender:   s.TrainerGender(),
		playTime: s.PlayTime(),
		money:    s.Money(),
		badges:   s.Badges(),
		party:    s.PartyCount(),
		unlocked: s.StorageUnlocked(),
		national: s.NationalDexUnlocked(),
		varBase:  section.VarBase,
	}
	v.tid, v.sid = s.TrainerIDs()
	v.seen, v.owned = s.DexCounts()
	for i := range v.dexSeen {
		v.dexSeen[i] = s.DexSeen(i + 1)
		v.dexOwned[i] = s.DexOwned(i + 1)
	}
	for b := 0; b < format.BoxCount; b++ {
		for slot := 0; slot < format.BoxSlots; slot++ {
			if raw, err := s.BoxRecord(b, slot); err == nil && pkm.Occupied(raw) {
				v.stored++
			}
		}
	}
	// Sections always carries both kinds once opened.
	v.flags, _ = s.Section(section.KindFlags)
	v.vars, _ = s.Section(section.KindVars)
	return v
}

func (v *View) Family() types.Family { return v.family }
func (v *View) SaveCounter() uint32  { return v.counter }

// Badges returns the eight gym badge flags in game order.
func (v *View) Badges() [8]bool { return v.badges }

// BadgeCount returns how many badges are held.
func (v *View) BadgeCount() int {
	n := 0
	for _, b := range v.badges {
		if b {
			n++
		}
	}
	return n
}

// DexSeen and DexOwned return Pokédex totals.
func (v *View) DexSeen() int  { return v.seen }
func (v *View) DexOwned() int { return v.owned }

// HasSeen reports whether national dex number species was seen.
func (v *View) HasSeen(species int) bool {
	if species < 1 || species > len(v.dexSeen) {
		return false
	}
	return v.dexSeen[species-1]
}

// HasOwned reports whether national dex number species was caught.
func (v *View) HasOwned(species int) bool {
	if species < 1 || species > len(v.dexOwned) {
		return false
	}
	return v.dexOwned[species-1]
}

func (v *View) TrainerID() uint16 { return v.tid }
func (v *View) SecretID() uint16  { return v.sid }

// TrainerGender is 0 for male, 1 for female.
func (v *View) TrainerGender() uint8 { return v.gender }

// TrainerName decodes the player name. It fails with InvalidCharacterCode
// rather than substituting unknown bytes.
func (v *View) TrainerName() (string, error) {
	return text.ForRegion(v.region).DecodeString(v.name)
}

// PlayTime is the in-game clock.
func (v *View) PlayTime() time.Duration { return v.playTime }

// Money is the decrypted money counter.
func (v *View) Money() uint32 { return v.money }

// PartyCount is the number of party members.
func (v *View) PartyCount() int { return v.party }

// StorageCount is the number of occupied PC box slots.
func (v *View) StorageCount() int { return v.stored }

// StorageUnlocked reports whether records can be deposited into this save.
func (v *View) StorageUnlocked() bool { return v.unlocked }

// NationalDexUnlocked reports whether the National Pokédex is available.
func (v *View) NationalDexUnlocked() bool { return v.national }

// HasFlag reports whether event flag id is set.
func (v *View) HasFlag(id int) bool {
	if id < 0 || id/8 >= len(v.flags) {
		return false
	}
	return v.flags[id/8]&(1<<(id%8)) != 0
}

// Var returns script variable id (0x4000 and up), or 0 when out of range.
func (v *View) Var(id int) uint16 {
	i := (id - v.varBase) * 2
	if i < 0 || i+2 > len(v.vars) {
		return 0
	}
	return format.ReadU16(v.vars, i)
}
