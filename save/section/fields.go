package section

import (
	"time"

	"github.com/joshuapare/gen3kit/internal/format"
)

// VarBase is the id of the first saved script variable.
const VarBase = 0x4000

// Flag reports whether event flag id is set. Ids outside the flag area
// read as unset.
func (s *Sections) Flag(id int) bool {
	if id < 0 || id >= s.layout.FlagsSize*8 {
		return false
	}
	return s.blocks[blockWorld][s.layout.FlagsOffset+id/8]&(1<<(id%8)) != 0
}

// SetFlag sets or clears event flag id. It reports false for ids outside
// the flag area.
func (s *Sections) SetFlag(id int, on bool) bool {
	if id < 0 || id >= s.layout.FlagsSize*8 {
		return false
	}
	p := &s.blocks[blockWorld][s.layout.FlagsOffset+id/8]
	if on {
		*p |= 1 << (id % 8)
	} else {
		*p &^= 1 << (id % 8)
	}
	s.dirty[blockWorld] = true
	return true
}

// Var returns script variable id (VarBase and up), or 0 when out of range.
func (s *Sections) Var(id int) uint16 {
	i := id - VarBase
	if i < 0 || i*2+2 > s.layout.VarsSize {
		return 0
	}
	return format.ReadU16(s.blocks[blockWorld], s.layout.VarsOffset+i*2)
}

// Badges returns the eight gym badge flags.
func (s *Sections) Badges() [8]bool {
	var out [8]bool
	for i := range out {
		out[i] = s.Flag(s.layout.BadgeFlagBase + i)
	}
	return out
}

// StorageUnlocked reports whether the player has received the Pokédex,
// which is when the game lets records be deposited from outside.
func (s *Sections) StorageUnlocked() bool {
	return s.Flag(s.layout.PokedexGetFlag)
}

// TrainerName returns the raw encoded player name.
func (s *Sections) TrainerName() []byte {
	t := s.blocks[blockTrainer]
	return append([]byte(nil), t[format.TrainerNameOffset:format.TrainerNameOffset+format.TrainerNameSize]...)
}

// TrainerGender returns 0 for male, 1 for female.
func (s *Sections) TrainerGender() uint8 {
	return s.blocks[blockTrainer][format.TrainerGenderOffset]
}

// TrainerIDs returns the public and secret trainer ids.
func (s *Sections) TrainerIDs() (tid, sid uint16) {
	v := format.ReadU32(s.blocks[blockTrainer], format.TrainerIDOffset)
	return uint16(v), uint16(v >> 16)
}

// PlayTime returns the in-game clock. Frames are at 60 per second.
func (s *Sections) PlayTime() time.Duration {
	t := s.blocks[blockTrainer]
	h := time.Duration(format.ReadU16(t, format.TrainerPlayHoursOff))
	m := time.Duration(t[format.TrainerPlayMinutesOff])
	sec := time.Duration(t[format.TrainerPlaySecondsOff])
	fr := time.Duration(t[format.TrainerPlayFramesOff])
	return h*time.Hour + m*time.Minute + sec*time.Second + fr*time.Second/60
}

// SecurityKey returns the XOR key for money, or 0 in families without one.
func (s *Sections) SecurityKey() uint32 {
	if s.layout.SecurityKeyOffset < 0 {
		return 0
	}
	return format.ReadU32(s.blocks[blockTrainer], s.layout.SecurityKeyOffset)
}

// Money returns the decoded money counter.
func (s *Sections) Money() uint32 {
	return format.ReadU32(s.blocks[blockWorld], s.layout.MoneyOffset) ^ s.SecurityKey()
}

// DexOwned reports whether species (national number, 1-based) is caught.
func (s *Sections) DexOwned(species int) bool {
	return s.dexBit(format.PokedexOwnedOffset, species)
}

// DexSeen reports whether species (national number, 1-based) was seen.
func (s *Sections) DexSeen(species int) bool {
	return s.dexBit(format.PokedexSeenOffset, species)
}

func (s *Sections) dexBit(base, species int) bool {
	i := species - 1
	if i < 0 || i >= format.PokedexSpeciesCount {
		return false
	}
	return s.blocks[blockTrainer][base+i/8]&(1<<(i%8)) != 0
}

// MarkDex records species (national number, 1-based) as seen and, when
// owned is set, caught. The seen bit is written to the trainer block and to
// both world mirrors so the game does not reset it. It reports false for
// numbers outside the Pokédex.
func (s *Sections) MarkDex(species int, owned bool) bool {
	i := species - 1
	if i < 0 || i >= format.PokedexSpeciesCount {
		return false
	}
	bit := byte(1) << (i % 8)
	set := func(b block, off int) {
		p := &s.blocks[b][off+i/8]
		if *p&bit == 0 {
			*p |= bit
			s.dirty[b] = true
		}
	}
	if owned {
		set(blockTrainer, format.PokedexOwnedOffset)
	}
	set(blockTrainer, format.PokedexSeenOffset)
	for _, m := range s.layout.DexSeenMirrors {
		set(blockWorld, m)
	}
	return true
}

// NationalDexUnlocked reports whether the National Pokédex marker is set.
func (s *Sections) NationalDexUnlocked() bool {
	t := s.blocks[blockTrainer]
	off := s.layout.NationalDexOffset
	if s.layout.NationalDexWidth == 1 {
		return uint16(t[off]) == s.layout.NationalDexMagic
	}
	return format.ReadU16(t, off) == s.layout.NationalDexMagic
}

// DexCounts returns how many species are seen and owned.
func (s *Sections) DexCounts() (seen, owned int) {
	for sp := 1; sp <= format.PokedexSpeciesCount; sp++ {
		if s.DexSeen(sp) {
			seen++
		}
		if s.DexOwned(sp) {
			owned++
		}
	}
	return seen, owned
}
