// Package format houses low-level constants and decoders for the Generation 3
// flash save and GBA cartridge header formats. The goal is to keep the parsing
// focused, allocation-free where possible, and independent from the public
// API so higher-level packages can orchestrate the data in a more ergonomic
// form.
package format

// ============================================================================
// Flash save image
// ============================================================================
// A save image is two redundant banks of 14 sectors followed by a tail region
// (Hall of Fame, Trainer Hill, recorded battle) that the bank scheme does not
// cover. Everything is little-endian.
//
//	0x00000  bank 0 (14 x 0x1000)
//	0x0E000  bank 1 (14 x 0x1000)
//	0x1C000  tail region, preserved verbatim
const (
	// SaveSize is the size of a 128 KiB flash dump.
	SaveSize = 0x20000

	// SaveSizeRTC is a flash dump with 16 bytes of real-time-clock state
	// appended by some emulators. The extra bytes are kept as opaque tail.
	SaveSizeRTC = SaveSize + 0x10

	// SaveSizeHalf is a 64 KiB dump. It ends inside bank 1, so the
	// backup bank cannot be scanned or written.
	SaveSizeHalf = 0x10000

	// SectorSize is the size of a single sector including its footer.
	SectorSize = 0x1000

	// SectorPayloadSize is the usable data area of a sector (before the footer).
	SectorPayloadSize = 0xF80

	// SectorsPerBank is the number of sectors in each bank. It equals the
	// number of logical section ids (0..13).
	SectorsPerBank = 14

	// BankSize is the size of a whole bank.
	BankSize = SectorSize * SectorsPerBank // 0xE000

	// BankCount is the number of redundant banks.
	BankCount = 2

	// TailOffset is where the region outside the bank scheme starts.
	TailOffset = BankSize * BankCount // 0x1C000
)

// Sector footer field offsets, relative to the start of the sector.
//
//	Offset  Size  Description
//	------  ----  --------------------------------------
//	 0xFF4   2    Section id (0..13)
//	 0xFF6   2    Checksum over the section's payload
//	 0xFF8   4    Signature 0x08012025
//	 0xFFC   4    Save counter (generation)
const (
	SectorIDOffset        = 0xFF4
	SectorChecksumOffset  = 0xFF6
	SectorSignatureOffset = 0xFF8
	SectorCounterOffset   = 0xFFC

	// SectorSignature marks a sector as written by the game's save routine.
	SectorSignature uint32 = 0x08012025
)

// Logical section ids. Sections 1..4 concatenate into the large block of
// world state and 5..13 into PC storage.
const (
	SectionTrainer      = 0
	SectionWorldFirst   = 1
	SectionWorldLast    = 4
	SectionStorageFirst = 5
	SectionStorageLast  = 13

	// StorageSize is the size of the reassembled PC storage block. It is
	// identical for every title: 8 full sectors plus 0x7D0 bytes.
	StorageSize = 0x83D0

	// StorageLastSectionSize is the checksummed size of section 13.
	StorageLastSectionSize = 0x7D0
)

// ============================================================================
// PC storage block
// ============================================================================
const (
	StorageCurrentBoxOffset = 0x0000
	StorageBoxesOffset      = 0x0004
	StorageBoxNamesOffset   = 0x8344
	StorageWallpaperOffset  = 0x83C2

	BoxCount       = 14
	BoxSlots       = 30
	BoxNameSize    = 9
	BoxRecordSize  = 80
	PartyRecordLen = 100
	PartySlots     = 6
)

// ============================================================================
// Trainer block (section 0)
// ============================================================================
const (
	TrainerNameOffset     = 0x00
	TrainerNameSize       = 8 // 7 glyphs + terminator
	TrainerGenderOffset   = 0x08
	TrainerIDOffset       = 0x0A // u32: public id low 16, secret id high 16
	TrainerPlayHoursOff   = 0x0E // u16
	TrainerPlayMinutesOff = 0x10
	TrainerPlaySecondsOff = 0x11
	TrainerPlayFramesOff  = 0x12
	PokedexOwnedOffset    = 0x28
	PokedexSeenOffset     = 0x5C
	PokedexFlagBytes      = 52
	PokedexSpeciesCount   = 386
	GameCodeOffset        = 0xAC

	// GameCodeFRLG is the value FireRed/LeafGreen store at GameCodeOffset.
	GameCodeFRLG uint32 = 1
)

// ============================================================================
// GBA cartridge header
// ============================================================================
//
//	Offset  Size  Description
//	------  ----  --------------------------------------
//	 0x0A0  12    Title (ASCII, zero padded)
//	 0x0AC   4    Game code, e.g. "BPEE"
//	 0x0B0   2    Maker code
//	 0x0B2   1    Fixed value 0x96
//	 0x0BC   1    Software version (revision)
//	 0x0BD   1    Complement check
const (
	ROMTitleOffset      = 0xA0
	ROMTitleSize        = 12
	ROMGameCodeOffset   = 0xAC
	ROMGameCodeSize     = 4
	ROMMakerOffset      = 0xB0
	ROMMakerSize        = 2
	ROMFixedOffset      = 0xB2
	ROMFixedValue       = 0x96
	ROMVersionOffset    = 0xBC
	ROMComplementOffset = 0xBD

	// ROMHeaderSize is the minimum number of bytes needed to read the header.
	ROMHeaderSize = 0xC0

	// ROMMaxSize is the largest cartridge image the GBA can address.
	ROMMaxSize = 32 * 1024 * 1024
)
