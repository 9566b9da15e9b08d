// Package layout holds the static per-variant save layout table: how large
// each section's checksummed payload is, and where the fields the engine
// reads live inside the reassembled blocks.
//
// Titles in one family share a layout; the table is still keyed by the full
// (title, region) variant so callers never branch on titles themselves.
package layout

import (
	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/pkg/types"
)

// Layout describes one save format family.
type Layout struct {
	Family types.Family

	// SectionSizes is the checksummed payload size of each section id.
	SectionSizes [format.SectorsPerBank]int

	// Offsets inside the world block (sections 1..4 concatenated).
	PartyCountOffset int
	PartyOffset      int
	// DexSeenMirrors are the copies of the seen bitfield in sections 1
	// and 4. The game compares them with the trainer-block copy.
	DexSeenMirrors [2]int
	MoneyOffset      int
	FlagsOffset      int
	FlagsSize        int
	VarsOffset       int
	VarsSize         int

	// SecurityKeyOffset locates the money XOR key inside the trainer block,
	// or is -1 when the family stores money in the clear.
	SecurityKeyOffset int

	// NationalDexOffset locates the National Pokédex unlock marker inside
	// the trainer block. It holds NationalDexMagic, one byte wide when
	// NationalDexWidth is 1 and little-endian u16 when it is 2.
	NationalDexOffset int
	NationalDexMagic  uint16
	NationalDexWidth  int

	// System flag ids.
	BadgeFlagBase   int
	PokedexGetFlag  int
	PokemonGetFlag  int
	ExpectsFRLGCode bool
}

// TrainerSize returns the size of the trainer block (section 0).
func (l Layout) TrainerSize() int { return l.SectionSizes[format.SectionTrainer] }

// WorldSize returns the size of the reassembled world block.
func (l Layout) WorldSize() int {
	n := 0
	for id := format.SectionWorldFirst; id <= format.SectionWorldLast; id++ {
		n += l.SectionSizes[id]
	}
	return n
}

// StorageSize returns the size of the reassembled PC storage block.
func (l Layout) StorageSize() int {
	n := 0
	for id := format.SectionStorageFirst; id <= format.SectionStorageLast; id++ {
		n += l.SectionSizes[id]
	}
	return n
}

const full = format.SectorPayloadSize

// section4 is where section 4 starts inside the world block.
const section4 = 3 * full

func sizes(trainer, lastWorld int) [format.SectorsPerBank]int {
	return [format.SectorsPerBank]int{
		trainer,
		full, full, full, lastWorld,
		full, full, full, full, full, full, full, full,
		format.StorageLastSectionSize,
	}
}

var (
	rubySapphire = Layout{
		Family:            types.FamilyRS,
		SectionSizes:      sizes(0x890, 0xC40),
		PartyCountOffset:  0x234,
		PartyOffset:       0x238,
		DexSeenMirrors:    [2]int{0x938, section4 + 0xC0C},
		MoneyOffset:       0x490,
		FlagsOffset:       0x1220,
		FlagsSize:         0x120,
		VarsOffset:        0x1340,
		VarsSize:          0x200,
		SecurityKeyOffset: -1,
		NationalDexOffset: 0x19,
		NationalDexMagic:  0x01DA,
		NationalDexWidth:  2,
		BadgeFlagBase:     0x807,
		PokedexGetFlag:    0x801,
		PokemonGetFlag:    0x800,
	}

	emerald = Layout{
		Family:            types.FamilyE,
		SectionSizes:      sizes(0xF2C, 0xF08),
		PartyCountOffset:  0x234,
		PartyOffset:       0x238,
		DexSeenMirrors:    [2]int{0x988, section4 + 0xCA4},
		MoneyOffset:       0x490,
		FlagsOffset:       0x1270,
		FlagsSize:         0x12C,
		VarsOffset:        0x139C,
		VarsSize:          0x200,
		SecurityKeyOffset: 0xAC,
		NationalDexOffset: 0x19,
		NationalDexMagic:  0x01DA,
		NationalDexWidth:  2,
		BadgeFlagBase:     0x867,
		PokedexGetFlag:    0x861,
		PokemonGetFlag:    0x860,
	}

	fireRedLeafGreen = Layout{
		Family:            types.FamilyFRLG,
		SectionSizes:      sizes(0xF24, 0xEE8),
		PartyCountOffset:  0x034,
		PartyOffset:       0x038,
		DexSeenMirrors:    [2]int{0x5F8, section4 + 0xB98},
		MoneyOffset:       0x290,
		FlagsOffset:       0x0EE0,
		FlagsSize:         0x120,
		VarsOffset:        0x1000,
		VarsSize:          0x200,
		SecurityKeyOffset: 0xF20,
		NationalDexOffset: 0x1B,
		NationalDexMagic:  0xB9,
		NationalDexWidth:  1,
		BadgeFlagBase:     0x820,
		PokedexGetFlag:    0x829,
		PokemonGetFlag:    0x828,
		ExpectsFRLGCode:   true,
	}
)

var byFamily = map[types.Family]Layout{
	types.FamilyRS:   rubySapphire,
	types.FamilyE:    emerald,
	types.FamilyFRLG: fireRedLeafGreen,
}

// table maps every known variant to its layout.
var table = func() map[types.Variant]Layout {
	m := make(map[types.Variant]Layout)
	for _, t := range types.Titles() {
		for _, r := range types.Regions() {
			m[types.Variant{Title: t, Region: r}] = byFamily[t.Family()]
		}
	}
	return m
}()

// ForVariant returns the layout for v.
func ForVariant(v types.Variant) (Layout, bool) {
	l, ok := table[v]
	return l, ok
}

// ForFamily returns the layout shared by a family.
func ForFamily(f types.Family) (Layout, bool) {
	l, ok := byFamily[f]
	return l, ok
}

// Families lists the families with a layout, in probe order.
func Families() []types.Family {
	return []types.Family{types.FamilyE, types.FamilyFRLG, types.FamilyRS}
}
