// Package pkm decodes and encodes Generation 3 creature records.
//
// A record is 80 bytes in PC storage and 100 bytes in the party, where the
// extra 20 bytes cache battle stats. The 48-byte data area holds four
// 12-byte sub-structures whose order depends on personality % 24; the area
// is XOR-encrypted with personality ^ OT id and guarded by a 16-bit sum.
//
//	Offset  Size  Description
//	------  ----  --------------------------------------
//	 0x00    4    Personality value
//	 0x04    4    OT id (public id low 16, secret id high 16)
//	 0x08   10    Nickname
//	 0x12    1    Language
//	 0x13    1    Flags (bad egg, has species, use egg name)
//	 0x14    7    OT name
//	 0x1B    1    Markings
//	 0x1C    2    Checksum of the decrypted data
//	 0x1E    2    Unused
//	 0x20   48    Encrypted sub-structures
//	 0x50   20    Party stats (party records only)
package pkm

import (
	"fmt"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/pkm/text"
)

// Record sizes.
const (
	BoxSize   = format.BoxRecordSize
	PartySize = format.PartyRecordLen
)

const (
	offPersonality = 0x00
	offOTID        = 0x04
	offNickname    = 0x08
	offLanguage    = 0x12
	offFlags       = 0x13
	offOTName      = 0x14
	offMarkings    = 0x1B
	offChecksum    = 0x1C
	offUnused      = 0x1E
	offData        = 0x20
	offParty       = 0x50

	NicknameSize = 10
	OTNameSize   = 7
	dataSize     = 4 * blockSize
)

// Flag bits at offset 0x13.
const (
	FlagBadEgg     = 1 << 0
	FlagHasSpecies = 1 << 1
	FlagUseEggName = 1 << 2
)

// PartyStats are the battle values cached in party records.
type PartyStats struct {
	Status      uint32
	Level       uint8
	PokerusDays uint8
	HP          uint16
	MaxHP       uint16
	Attack      uint16
	Defense     uint16
	Speed       uint16
	SpAttack    uint16
	SpDefense   uint16
}

// Record is a decoded creature record.
type Record struct {
	Personality uint32
	OTID        uint32
	Nickname    text.Field
	Language    uint8
	Flags       uint8
	OTName      text.Field
	Markings    uint8
	Unused      uint16

	Growth    Growth
	Attacks   Attacks
	Condition Condition
	Misc      Misc

	// Party is nil for records read from PC storage.
	Party *PartyStats
}

// IsZero reports whether raw is an empty slot: every byte zero.
func IsZero(raw []byte) bool {
	for _, b := range raw {
		if b != 0 {
			return false
		}
	}
	return true
}

// Occupied reports whether raw holds a creature. Bytes that do not decode
// count as occupied so they are never silently overwritten.
func Occupied(raw []byte) bool {
	if IsZero(raw) {
		return false
	}
	r, err := Decode(raw)
	if err != nil {
		return true
	}
	return !r.IsEmpty()
}

// Decode parses an 80- or 100-byte record.
func Decode(raw []byte) (*Record, error) {
	if len(raw) != BoxSize && len(raw) != PartySize {
		return nil, types.Errorf(types.ErrKindInvalidRecord, format.ErrTruncated,
			"record is %d bytes, want %d or %d", len(raw), BoxSize, PartySize)
	}

	r := &Record{
		Personality: format.ReadU32(raw, offPersonality),
		OTID:        format.ReadU32(raw, offOTID),
		Language:    raw[offLanguage],
		Flags:       raw[offFlags],
		Markings:    raw[offMarkings],
		Unused:      format.ReadU16(raw, offUnused),
	}

	data := append([]byte(nil), raw[offData:offData+dataSize]...)
	crypt(data, r.Personality^r.OTID)
	if got, want := dataChecksum(data), format.ReadU16(raw, offChecksum); got != want {
		return nil, types.Errorf(types.ErrKindInvalidRecord, format.ErrChecksum,
			"record checksum 0x%04X, computed 0x%04X", want, got)
	}

	pos := positions[r.Personality%24]
	block := func(id int) []byte {
		off := pos[id] * blockSize
		return data[off : off+blockSize]
	}
	r.Growth.read(block(BlockGrowth))
	r.Attacks.read(block(BlockAttacks))
	r.Condition.read(block(BlockCondition))
	r.Misc.read(block(BlockMisc))

	cs := r.Charset()
	var err error
	if r.Nickname, err = cs.DecodeField(raw[offNickname : offNickname+NicknameSize]); err != nil {
		return nil, fmt.Errorf("nickname: %w", err)
	}
	if r.OTName, err = cs.DecodeField(raw[offOTName : offOTName+OTNameSize]); err != nil {
		return nil, fmt.Errorf("OT name: %w", err)
	}

	if len(raw) == PartySize {
		p := raw[offParty:]
		r.Party = &PartyStats{
			Status:      format.ReadU32(p, 0),
			Level:       p[4],
			PokerusDays: p[5],
			HP:          format.ReadU16(p, 6),
			MaxHP:       format.ReadU16(p, 8),
			Attack:      format.ReadU16(p, 10),
			Defense:     format.ReadU16(p, 12),
			Speed:       format.ReadU16(p, 14),
			SpAttack:    format.ReadU16(p, 16),
			SpDefense:   format.ReadU16(p, 18),
		}
	}
	return r, nil
}

// Encode serializes r: 100 bytes when it carries party stats, else 80.
// The checksum is recomputed and the data area re-encrypted.
func (r *Record) Encode() ([]byte, error) {
	size := BoxSize
	if r.Party != nil {
		size = PartySize
	}
	out := make([]byte, size)

	cs := r.Charset()
	nick, err := cs.EncodeField(r.Nickname, NicknameSize)
	if err != nil {
		return nil, fmt.Errorf("nickname: %w", err)
	}
	ot, err := cs.EncodeField(r.OTName, OTNameSize)
	if err != nil {
		return nil, fmt.Errorf("OT name: %w", err)
	}

	format.PutU32(out, offPersonality, r.Personality)
	format.PutU32(out, offOTID, r.OTID)
	copy(out[offNickname:], nick)
	out[offLanguage] = r.Language
	out[offFlags] = r.Flags
	copy(out[offOTName:], ot)
	out[offMarkings] = r.Markings
	format.PutU16(out, offUnused, r.Unused)

	data := out[offData : offData+dataSize]
	pos := positions[r.Personality%24]
	block := func(id int) []byte {
		off := pos[id] * blockSize
		return data[off : off+blockSize]
	}
	r.Growth.write(block(BlockGrowth))
	r.Attacks.write(block(BlockAttacks))
	r.Condition.write(block(BlockCondition))
	r.Misc.write(block(BlockMisc))
	format.PutU16(out, offChecksum, dataChecksum(data))
	crypt(data, r.Personality^r.OTID)

	if p := r.Party; p != nil {
		b := out[offParty:]
		format.PutU32(b, 0, p.Status)
		b[4] = p.Level
		b[5] = p.PokerusDays
		format.PutU16(b, 6, p.HP)
		format.PutU16(b, 8, p.MaxHP)
		format.PutU16(b, 10, p.Attack)
		format.PutU16(b, 12, p.Defense)
		format.PutU16(b, 14, p.Speed)
		format.PutU16(b, 16, p.SpAttack)
		format.PutU16(b, 18, p.SpDefense)
	}
	return out, nil
}

// Boxed returns a copy of r without party stats, as stored in the PC.
func (r *Record) Boxed() *Record {
	c := *r
	c.Party = nil
	return &c
}

// Charset returns the text encoding selected by the record's language tag.
func (r *Record) Charset() *text.Charset {
	return text.ForLanguage(r.Language)
}

// IsEmpty reports whether the record holds no creature.
func (r *Record) IsEmpty() bool {
	return r.Growth.Species == 0
}
