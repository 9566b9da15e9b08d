package testutil

import (
	"testing"

	"github.com/joshuapare/gen3kit/pkm"
	"github.com/joshuapare/gen3kit/pkm/text"
)

// BoxRecord encodes an 80-byte record for species.
func BoxRecord(t testing.TB, species uint16, pid uint32) []byte {
	t.Helper()
	return encode(t, newRecord(species, pid))
}

// PartyRecord encodes a 100-byte party record for species at level.
func PartyRecord(t testing.TB, species uint16, pid uint32, level uint8) []byte {
	t.Helper()
	r := newRecord(species, pid)
	r.Party = &pkm.PartyStats{Level: level, HP: 20, MaxHP: 20}
	return encode(t, r)
}

// EggRecord encodes an 80-byte egg of species.
func EggRecord(t testing.TB, species uint16, pid uint32) []byte {
	t.Helper()
	r := newRecord(species, pid)
	r.Misc.IVs |= 1 << 30
	return encode(t, r)
}

func newRecord(species uint16, pid uint32) *pkm.Record {
	return &pkm.Record{
		Personality: pid,
		OTID:        0x0001_3039,
		Nickname:    text.Field{Text: "TESTMON"},
		Language:    text.LangEnglish,
		Flags:       pkm.FlagHasSpecies,
		OTName:      text.Field{Text: "TESTER"},
		Growth:      pkm.Growth{Species: species, Experience: 1000, Friendship: 70},
		Attacks:     pkm.Attacks{Moves: [4]uint16{33}, PP: [4]uint8{35}},
	}
}

func encode(t testing.TB, r *pkm.Record) []byte {
	t.Helper()
	b, err := r.Encode()
	if err != nil {
		t.Fatalf("encode record: %v", err)
	}
	return b
}
