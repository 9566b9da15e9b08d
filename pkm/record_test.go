package pkm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/pkm/text"
)

func sampleRecord(pid uint32) *Record {
	return &Record{
		Personality: pid,
		OTID:        0xBEEF1234,
		Nickname:    text.Field{Text: "PIKACHU"},
		Language:    text.LangEnglish,
		Flags:       FlagHasSpecies,
		OTName:      text.Field{Text: "ASH"},
		Markings:    0x05,
		Growth:      Growth{Species: 25, HeldItem: 13, Experience: 12345, PPBonuses: 3, Friendship: 70},
		Attacks:     Attacks{Moves: [4]uint16{84, 45, 39, 0}, PP: [4]uint8{30, 40, 30, 0}},
		Condition:   Condition{EVs: [6]uint8{1, 2, 3, 4, 5, 6}, Contest: [6]uint8{7, 8, 9, 10, 11, 12}},
		Misc:        Misc{Pokerus: 0, MetLocation: 16, Origins: 0x0A05, IVs: 0x3FFFFFFF, Ribbons: 0x80000000},
	}
}

// pidWithOrder returns a personality value whose order index is i.
func pidWithOrder(i int) uint32 {
	const base = 0x9ABCDE00
	return base - base%24 + uint32(i)
}

func TestRoundTripAllOrders(t *testing.T) {
	for i := 0; i < 24; i++ {
		pid := pidWithOrder(i)
		require.Equal(t, orders[i], Order(pid))

		rec := sampleRecord(pid)
		raw, err := rec.Encode()
		require.NoError(t, err)
		require.Len(t, raw, BoxSize)

		got, err := Decode(raw)
		require.NoError(t, err, orders[i])
		assert.Equal(t, rec, got, orders[i])

		again, err := got.Encode()
		require.NoError(t, err)
		assert.Equal(t, raw, again, orders[i])
	}
}

func TestPartyRoundTrip(t *testing.T) {
	rec := sampleRecord(pidWithOrder(7))
	rec.Party = &PartyStats{Status: 8, Level: 42, HP: 90, MaxHP: 100, Attack: 55, Defense: 40, Speed: 90, SpAttack: 50, SpDefense: 50}
	raw, err := rec.Encode()
	require.NoError(t, err)
	require.Len(t, raw, PartySize)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, 42, got.Level())

	boxed, err := got.Boxed().Encode()
	require.NoError(t, err)
	assert.Equal(t, raw[:BoxSize], boxed)
	assert.NotNil(t, got.Party, "Boxed does not modify the original")
}

func TestSubstructurePlacement(t *testing.T) {
	// Order 18 is MGAE: growth sits second.
	rec := sampleRecord(pidWithOrder(18))
	raw, err := rec.Encode()
	require.NoError(t, err)

	data := append([]byte(nil), raw[offData:offData+dataSize]...)
	crypt(data, rec.Personality^rec.OTID)
	assert.Equal(t, uint16(25), format.ReadU16(data, blockSize), "species at start of position 1")
	assert.Equal(t, uint16(84), format.ReadU16(data, 2*blockSize), "first move at start of position 2")
	assert.Equal(t, uint8(16), data[1], "met location inside position 0")
}

func TestEncryptionHidesPlaintext(t *testing.T) {
	rec := sampleRecord(pidWithOrder(0))
	raw, err := rec.Encode()
	require.NoError(t, err)
	assert.NotEqual(t, uint16(25), format.ReadU16(raw, offData))
}

func TestDecodeChecksumMismatch(t *testing.T) {
	raw, err := sampleRecord(pidWithOrder(3)).Encode()
	require.NoError(t, err)
	raw[offData+5] ^= 0x40

	_, err = Decode(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidRecord)
	assert.ErrorIs(t, err, format.ErrChecksum)
}

func TestDecodeWrongSize(t *testing.T) {
	_, err := Decode(make([]byte, 81))
	require.ErrorIs(t, err, types.ErrInvalidRecord)
}

func TestDecodeInvalidCharacter(t *testing.T) {
	raw, err := sampleRecord(pidWithOrder(3)).Encode()
	require.NoError(t, err)
	raw[offNickname] = 0x0A // no glyph in either table

	_, err = Decode(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidCharacterCode)
	assert.Contains(t, err.Error(), "nickname")
}

func TestJapaneseRecord(t *testing.T) {
	rec := sampleRecord(pidWithOrder(11))
	rec.Language = text.LangJapanese
	rec.Nickname = text.Field{Text: "ピカチュウ", Trailer: []byte{0x00, 0x00, 0x00, 0x00}}
	rec.OTName = text.Field{Text: "サトシ"}

	raw, err := rec.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x9C, 0x56, 0x61, 0x85, 0x53, 0xFF, 0x00, 0x00, 0x00, 0x00}, raw[offNickname:offNickname+NicknameSize])

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	rec.Nickname = text.Field{Text: "PIKA"}
	_, err = rec.Encode()
	require.ErrorIs(t, err, types.ErrInvalidCharacterCode, "ASCII has no Japanese glyph")
}

func TestEmptyDetection(t *testing.T) {
	zero := make([]byte, BoxSize)
	assert.True(t, IsZero(zero))
	assert.False(t, Occupied(zero))

	rec, err := Decode(zero)
	require.NoError(t, err)
	assert.True(t, rec.IsEmpty())

	raw, err := sampleRecord(1).Encode()
	require.NoError(t, err)
	assert.True(t, Occupied(raw))

	garbage := make([]byte, BoxSize)
	garbage[offData] = 1
	assert.True(t, Occupied(garbage), "undecodable bytes are never treated as free")
}

func TestDerivedValues(t *testing.T) {
	rec := sampleRecord(0)
	rec.OTID = 0x0002_0001
	rec.Personality = 0x0003_0000 // 1 ^ 2 ^ 3 ^ 0 == 0
	assert.True(t, rec.Shiny())
	assert.Equal(t, uint16(1), rec.TrainerID())
	assert.Equal(t, uint16(2), rec.SecretID())

	rec.Personality = 0x0003_0008
	assert.False(t, rec.Shiny())
	assert.Equal(t, int(0x00030008%25), rec.Nature())

	rec.Personality = 3
	assert.Equal(t, "Adamant", rec.NatureName())

	rec.Misc.IVs = 31 | 0<<5 | 15<<10 | 1<<15 | 2<<20 | 30<<25 | 1<<30 | 1<<31
	assert.Equal(t, [6]uint8{31, 0, 15, 1, 2, 30}, rec.IVs())
	assert.True(t, rec.IsEgg())
	assert.Equal(t, 1, rec.AbilitySlot())

	rec.Misc.Origins = 1<<15 | 4<<11 | 3<<7 | 5
	assert.Equal(t, 5, rec.MetLevel())
	assert.Equal(t, 3, rec.OriginGame())
	assert.Equal(t, 4, rec.Ball())
	assert.Equal(t, 1, rec.OTGender())
	assert.Equal(t, 0, rec.Level())

	rec.Personality = 0x10
	assert.Equal(t, "female", rec.Gender(0x1F))
	assert.Equal(t, "male", rec.Gender(0x0F))
	assert.Equal(t, "genderless", rec.Gender(255))
}
