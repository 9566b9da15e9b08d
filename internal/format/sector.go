package format

import "fmt"

// Footer captures the trailing metadata of a save sector.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0xFF4   2    Section id
//	 0xFF6   2    Checksum
//	 0xFF8   4    Signature (0x08012025)
//	 0xFFC   4    Save counter
type Footer struct {
	SectionID uint16
	Checksum  uint16
	Signature uint32
	Counter   uint32
}

// ParseFooter extracts the footer of a single sector. It does not validate
// the signature or checksum; callers decide how strict to be.
func ParseFooter(sector []byte) (Footer, error) {
	if len(sector) < SectorSize {
		return Footer{}, fmt.Errorf("sector footer: %w", ErrTruncated)
	}
	return Footer{
		SectionID: ReadU16(sector, SectorIDOffset),
		Checksum:  ReadU16(sector, SectorChecksumOffset),
		Signature: ReadU32(sector, SectorSignatureOffset),
		Counter:   ReadU32(sector, SectorCounterOffset),
	}, nil
}

// PutFooter writes f into the footer area of sector.
func PutFooter(sector []byte, f Footer) {
	PutU16(sector, SectorIDOffset, f.SectionID)
	PutU16(sector, SectorChecksumOffset, f.Checksum)
	PutU32(sector, SectorSignatureOffset, f.Signature)
	PutU32(sector, SectorCounterOffset, f.Counter)
}

// SectorChecksum computes the game's checksum over the first size bytes of
// payload: a 32-bit sum of little-endian words folded to 16 bits.
// size is rounded down to a multiple of four, matching the game's loop.
func SectorChecksum(payload []byte, size int) uint16 {
	if size > len(payload) {
		size = len(payload)
	}
	var sum uint32
	for i := 0; i+4 <= size; i += 4 {
		sum += ReadU32(payload, i)
	}
	return uint16(sum>>16) + uint16(sum)
}

// CounterNewer reports whether save counter a is newer than b, treating the
// counters as serial numbers so that a roll-over from 0xFFFFFFFF to 0 still
// orders correctly.
func CounterNewer(a, b uint32) bool {
	return int32(a-b) > 0
}
