package rom

import (
	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/pkg/types"
)

// Header holds the fixed-offset cartridge header fields.
type Header struct {
	Title      string // ASCII, trailing NULs trimmed
	GameCode   string // e.g. "BPEE"
	Maker      string // e.g. "01"
	Revision   uint8
	Complement uint8
	// ComplementOK is true when the stored complement byte matches the
	// header bytes. Hacks and bad dumps often fail it.
	ComplementOK bool
	// FixedOK is true when the fixed 0x96 byte is present.
	FixedOK bool
}

// gameCodes maps the first three game-code characters to a title.
var gameCodes = map[string]types.Title{
	"AXV": types.TitleRuby,
	"AXP": types.TitleSapphire,
	"BPE": types.TitleEmerald,
	"BPR": types.TitleFireRed,
	"BPG": types.TitleLeafGreen,
}

// parseHeader reads the header of b, which must hold at least
// format.ROMHeaderSize bytes.
func parseHeader(b []byte) Header {
	raw, err := format.ParseROMHeader(b)
	if err != nil {
		return Header{}
	}
	return Header{
		Title:        raw.Title,
		GameCode:     raw.GameCode,
		Maker:        raw.Maker,
		Revision:     raw.Version,
		Complement:   raw.Complement,
		ComplementOK: format.ROMComplement(b) == raw.Complement,
		FixedOK:      raw.FixedOK,
	}
}

// Identity classifies the header by game code alone. ok is false for codes
// outside the five supported titles or an unknown region letter.
func (h Header) Identity() (types.Identity, bool) {
	if len(h.GameCode) != format.ROMGameCodeSize {
		return types.Identity{}, false
	}
	title, ok := gameCodes[h.GameCode[:3]]
	if !ok {
		return types.Identity{}, false
	}
	region, err := types.ParseRegion(h.GameCode[3:])
	if err != nil {
		return types.Identity{}, false
	}
	return types.Identity{Title: title, Region: region, Revision: h.Revision}, true
}
