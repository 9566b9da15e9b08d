// Package testutil builds synthetic save images for tests. It depends only
// on the format constants and the layout table so every package, including
// save itself, can use it.
package testutil

import (
	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/save/layout"
)

// Blocks holds the three reassembled save blocks for one layout.
type Blocks struct {
	Layout  layout.Layout
	Trainer []byte
	World   []byte
	Storage []byte
}

// NewBlocks returns zeroed blocks sized for l. FireRed/LeafGreen blocks get
// their game code so they read back as that family.
func NewBlocks(l layout.Layout) *Blocks {
	b := &Blocks{
		Layout:  l,
		Trainer: make([]byte, l.TrainerSize()),
		World:   make([]byte, l.WorldSize()),
		Storage: make([]byte, l.StorageSize()),
	}
	if l.ExpectsFRLGCode {
		format.PutU32(b.Trainer, format.GameCodeOffset, format.GameCodeFRLG)
	}
	return b
}

// Clone returns a deep copy.
func (b *Blocks) Clone() *Blocks {
	return &Blocks{
		Layout:  b.Layout,
		Trainer: append([]byte(nil), b.Trainer...),
		World:   append([]byte(nil), b.World...),
		Storage: append([]byte(nil), b.Storage...),
	}
}

// SetFlag sets a world flag by id.
func (b *Blocks) SetFlag(id int) *Blocks {
	b.World[b.Layout.FlagsOffset+id/8] |= 1 << (id % 8)
	return b
}

// UnlockStorage sets the flag that gates PC storage transfers.
func (b *Blocks) UnlockStorage() *Blocks {
	return b.SetFlag(b.Layout.PokedexGetFlag)
}

// UnlockNationalDex writes the National Pokédex marker.
func (b *Blocks) UnlockNationalDex() *Blocks {
	l := b.Layout
	if l.NationalDexWidth == 1 {
		b.Trainer[l.NationalDexOffset] = byte(l.NationalDexMagic)
	} else {
		format.PutU16(b.Trainer, l.NationalDexOffset, l.NationalDexMagic)
	}
	return b
}

// SetTrainerID stores the public and secret trainer ids.
func (b *Blocks) SetTrainerID(tid, sid uint16) *Blocks {
	format.PutU32(b.Trainer, format.TrainerIDOffset, uint32(sid)<<16|uint32(tid))
	return b
}

// PutBox stores an 80-byte record at box/slot (zero-based).
func (b *Blocks) PutBox(box, slot int, rec []byte) *Blocks {
	off := format.StorageBoxesOffset + (box*format.BoxSlots+slot)*format.BoxRecordSize
	copy(b.Storage[off:off+format.BoxRecordSize], rec)
	return b
}

// SetParty replaces the party with recs (100 bytes each).
func (b *Blocks) SetParty(recs ...[]byte) *Blocks {
	l := b.Layout
	b.World[l.PartyCountOffset] = byte(len(recs))
	area := b.World[l.PartyOffset : l.PartyOffset+format.PartySlots*format.PartyRecordLen]
	clear(area)
	for i, r := range recs {
		copy(area[i*format.PartyRecordLen:], r)
	}
	return b
}

// Payloads splits the blocks into per-section payloads.
func (b *Blocks) Payloads() map[int][]byte {
	sizes := b.Layout.SectionSizes
	out := map[int][]byte{format.SectionTrainer: append([]byte(nil), b.Trainer...)}
	split := func(block []byte, first, last int) {
		off := 0
		for id := first; id <= last; id++ {
			out[id] = append([]byte(nil), block[off:off+sizes[id]]...)
			off += sizes[id]
		}
	}
	split(b.World, format.SectionWorldFirst, format.SectionWorldLast)
	split(b.Storage, format.SectionStorageFirst, format.SectionStorageLast)
	return out
}

// WriteBank lays payloads out in bank index of buf with the given counter
// and rotation, computing checksums the way the game does.
func WriteBank(buf []byte, index int, l layout.Layout, payloads map[int][]byte, counter uint32, rotation int) {
	for id := 0; id < format.SectorsPerBank; id++ {
		off := index*format.BankSize + ((id+rotation)%format.SectorsPerBank)*format.SectorSize
		sector := buf[off : off+format.SectorSize]
		clear(sector)
		copy(sector, payloads[id])
		format.PutFooter(sector, format.Footer{
			SectionID: uint16(id),
			Checksum:  format.SectorChecksum(sector, l.SectionSizes[id]),
			Signature: format.SectorSignature,
			Counter:   counter,
		})
	}
}

// BuildSave returns a save whose bank 0 holds b with counter; bank 1 is
// left blank as on a freshly started game.
func BuildSave(b *Blocks, counter uint32) []byte {
	buf := make([]byte, format.SaveSize)
	WriteBank(buf, 0, b.Layout, b.Payloads(), counter, 0)
	return buf
}

// BuildDual returns a save with both banks populated.
func BuildDual(b0 *Blocks, c0 uint32, b1 *Blocks, c1 uint32) []byte {
	buf := make([]byte, format.SaveSize)
	WriteBank(buf, 0, b0.Layout, b0.Payloads(), c0, 0)
	WriteBank(buf, 1, b1.Layout, b1.Payloads(), c1, 3)
	return buf
}

// FlipPayloadByte corrupts one payload byte of physical sector p in bank
// index without touching the footer.
func FlipPayloadByte(buf []byte, index, p, at int) {
	buf[index*format.BankSize+p*format.SectorSize+at] ^= 0xFF
}
