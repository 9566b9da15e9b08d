package save

import (
	"fmt"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/save/layout"
)

// SectorInfo describes one physical sector of a bank.
type SectorInfo struct {
	Physical         int
	Footer           format.Footer
	ComputedChecksum uint16
	SignatureOK      bool
	ChecksumOK       bool
	IDOK             bool
}

// Bank is the scan result for one of the two redundant copies.
type Bank struct {
	Index    int
	Offset   int
	Counter  uint32
	Rotation int // physical position of section 0
	Valid    bool
	Sectors  [format.SectorsPerBank]SectorInfo

	// byID maps a section id to its physical position, -1 when missing.
	byID     [format.SectorsPerBank]int
	problems []string
}

// Problems lists why the bank failed validation.
func (b Bank) Problems() []string {
	return append([]string(nil), b.problems...)
}

// PhysicalFor returns the physical position holding section id.
func (b Bank) PhysicalFor(id int) (int, bool) {
	if id < 0 || id >= format.SectorsPerBank || b.byID[id] < 0 {
		return 0, false
	}
	return b.byID[id], true
}

func (b *Bank) fail(msg string, args ...any) {
	b.Valid = false
	b.problems = append(b.problems, fmt.Sprintf(msg, args...))
}

// ScanBank validates bank index of data against the section sizes of l.
func ScanBank(data []byte, index int, l layout.Layout) Bank {
	b := Bank{Index: index, Offset: index * format.BankSize, Valid: true}
	for i := range b.byID {
		b.byID[i] = -1
	}
	if len(data) < b.Offset+format.BankSize {
		b.fail("bank truncated")
		return b
	}

	for p := 0; p < format.SectorsPerBank; p++ {
		off := b.Offset + p*format.SectorSize
		sector := data[off : off+format.SectorSize]
		f, _ := format.ParseFooter(sector)
		info := SectorInfo{Physical: p, Footer: f}
		info.SignatureOK = f.Signature == format.SectorSignature
		info.IDOK = int(f.SectionID) < format.SectorsPerBank
		if info.IDOK {
			info.ComputedChecksum = format.SectorChecksum(sector, l.SectionSizes[f.SectionID])
			info.ChecksumOK = info.ComputedChecksum == f.Checksum
		}
		b.Sectors[p] = info

		switch {
		case !info.SignatureOK:
			b.fail("sector %d: signature 0x%08X", p, f.Signature)
			continue
		case !info.IDOK:
			b.fail("sector %d: section id %d out of range", p, f.SectionID)
			continue
		case !info.ChecksumOK:
			b.fail("sector %d (section %d): checksum 0x%04X, computed 0x%04X",
				p, f.SectionID, f.Checksum, info.ComputedChecksum)
		}
		if prev := b.byID[f.SectionID]; prev >= 0 {
			b.fail("section %d appears in sectors %d and %d", f.SectionID, prev, p)
			continue
		}
		b.byID[f.SectionID] = p
	}

	for id, p := range b.byID {
		if p < 0 {
			b.fail("section %d missing", id)
		}
	}
	if !b.Valid {
		return b
	}

	b.Counter = b.Sectors[0].Footer.Counter
	for _, s := range b.Sectors[1:] {
		if s.Footer.Counter != b.Counter {
			b.fail("sector %d: counter %d disagrees with %d", s.Physical, s.Footer.Counter, b.Counter)
		}
	}
	b.Rotation = b.byID[format.SectionTrainer]
	return b
}

// selectActive returns the index of the active bank, or -1 when neither is
// valid. Equal counters resolve to bank 0.
func selectActive(banks [format.BankCount]Bank) int {
	switch {
	case banks[0].Valid && banks[1].Valid:
		if format.CounterNewer(banks[1].Counter, banks[0].Counter) {
			return 1
		}
		return 0
	case banks[0].Valid:
		return 0
	case banks[1].Valid:
		return 1
	default:
		return -1
	}
}
