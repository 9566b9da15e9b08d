package pkm

import "github.com/joshuapare/gen3kit/internal/format"

// Sub-structure ids.
const (
	BlockGrowth = iota
	BlockAttacks
	BlockCondition
	BlockMisc
)

const blockSize = 12

// orders lists, for each personality % 24, which sub-structure sits at
// each of the four positions.
var orders = [24]string{
	"GAEM", "GAME", "GEAM", "GEMA", "GMAE", "GMEA",
	"AGEM", "AGME", "AEGM", "AEMG", "AMGE", "AMEG",
	"EGAM", "EGMA", "EAGM", "EAMG", "EMGA", "EMAG",
	"MGAE", "MGEA", "MAGE", "MAEG", "MEGA", "MEAG",
}

// positions[p][block] is the position (0..3) of block under order p.
var positions = func() [24][4]int {
	var out [24][4]int
	ids := map[byte]int{'G': BlockGrowth, 'A': BlockAttacks, 'E': BlockCondition, 'M': BlockMisc}
	for p, o := range orders {
		for pos := 0; pos < 4; pos++ {
			out[p][ids[o[pos]]] = pos
		}
	}
	return out
}()

// Order returns the sub-structure order for a personality value, e.g. "GAEM".
func Order(personality uint32) string {
	return orders[personality%24]
}

// Growth is the growth sub-structure.
type Growth struct {
	Species    uint16
	HeldItem   uint16
	Experience uint32
	PPBonuses  uint8
	Friendship uint8
	Unused     uint16
}

// Attacks is the attacks sub-structure.
type Attacks struct {
	Moves [4]uint16
	PP    [4]uint8
}

// Condition is the EV and contest sub-structure.
type Condition struct {
	EVs     [6]uint8 // HP, Attack, Defense, Speed, Sp. Attack, Sp. Defense
	Contest [6]uint8 // Cool, Beauty, Cute, Smart, Tough, Sheen
}

// Misc is the miscellaneous sub-structure.
type Misc struct {
	Pokerus     uint8
	MetLocation uint8
	Origins     uint16 // met level, game, ball, OT gender
	IVs         uint32 // 6x5-bit IVs, egg bit, ability bit
	Ribbons     uint32 // ribbons and the fateful-encounter bit
}

func (g *Growth) read(b []byte) {
	g.Species = format.ReadU16(b, 0)
	g.HeldItem = format.ReadU16(b, 2)
	g.Experience = format.ReadU32(b, 4)
	g.PPBonuses = b[8]
	g.Friendship = b[9]
	g.Unused = format.ReadU16(b, 10)
}

func (g Growth) write(b []byte) {
	format.PutU16(b, 0, g.Species)
	format.PutU16(b, 2, g.HeldItem)
	format.PutU32(b, 4, g.Experience)
	b[8] = g.PPBonuses
	b[9] = g.Friendship
	format.PutU16(b, 10, g.Unused)
}

func (a *Attacks) read(b []byte) {
	for i := range a.Moves {
		a.Moves[i] = format.ReadU16(b, i*2)
	}
	copy(a.PP[:], b[8:12])
}

func (a Attacks) write(b []byte) {
	for i, m := range a.Moves {
		format.PutU16(b, i*2, m)
	}
	copy(b[8:12], a.PP[:])
}

func (c *Condition) read(b []byte) {
	copy(c.EVs[:], b[0:6])
	copy(c.Contest[:], b[6:12])
}

func (c Condition) write(b []byte) {
	copy(b[0:6], c.EVs[:])
	copy(b[6:12], c.Contest[:])
}

func (m *Misc) read(b []byte) {
	m.Pokerus = b[0]
	m.MetLocation = b[1]
	m.Origins = format.ReadU16(b, 2)
	m.IVs = format.ReadU32(b, 4)
	m.Ribbons = format.ReadU32(b, 8)
}

func (m Misc) write(b []byte) {
	b[0] = m.Pokerus
	b[1] = m.MetLocation
	format.PutU16(b, 2, m.Origins)
	format.PutU32(b, 4, m.IVs)
	format.PutU32(b, 8, m.Ribbons)
}

// crypt XORs each 32-bit word of data with key. It is its own inverse.
func crypt(data []byte, key uint32) {
	for i := 0; i+4 <= len(data); i += 4 {
		format.PutU32(data, i, format.ReadU32(data, i)^key)
	}
}

// dataChecksum sums the decrypted data as 16-bit words.
func dataChecksum(data []byte) uint16 {
	var sum uint16
	for i := 0; i+2 <= len(data); i += 2 {
		sum += format.ReadU16(data, i)
	}
	return sum
}
