package save

import (
	"fmt"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/save/layout"
)

// Diagnose scans data against l and reports every problem in both banks.
// Unlike Parse it never fails; a save that cannot be loaded yields a report
// with a critical issue.
func Diagnose(data []byte, l layout.Layout) *types.DiagnosticReport {
	r := types.NewDiagnosticReport()
	r.FileSize = len(data)

	if issue := sizeIssue(len(data)); issue != "" {
		r.Add(types.Diagnostic{
			Severity: types.SevCritical, Structure: "file", Offset: -1, Bank: -1, Sector: -1,
			Issue:    issue,
			Expected: fmt.Sprintf("0x%X", format.SaveSize),
			Actual:   fmt.Sprintf("0x%X", len(data)),
		})
		return r
	}
	if len(data) == format.SaveSizeRTC {
		r.Add(types.Diagnostic{
			Severity: types.SevInfo, Structure: "file", Offset: format.SaveSize, Bank: -1, Sector: -1,
			Issue: "16 trailing RTC bytes preserved",
		})
	}

	var banks [format.BankCount]Bank
	for i := range banks {
		banks[i] = ScanBank(data, i, l)
	}
	r.ActiveBank = selectActive(banks)

	sev := types.SevError
	if r.ActiveBank >= 0 {
		sev = types.SevWarning
	}
	for _, b := range banks {
		diagnoseBank(r, b, sev)
	}

	if r.ActiveBank < 0 {
		r.Add(types.Diagnostic{
			Severity: types.SevCritical, Structure: "file", Offset: -1, Bank: -1, Sector: -1,
			Issue: "no bank validates",
		})
	} else if banks[0].Valid && banks[1].Valid && banks[0].Counter == banks[1].Counter {
		r.Add(types.Diagnostic{
			Severity: types.SevInfo, Structure: "bank", Offset: -1, Bank: -1, Sector: -1,
			Issue: fmt.Sprintf("both banks carry counter %d; bank 0 wins the tie", banks[0].Counter),
		})
	}

	r.Finalize()
	return r
}

func diagnoseBank(r *types.DiagnosticReport, b Bank, sev types.Severity) {
	signed := 0
	for _, s := range b.Sectors {
		if s.SignatureOK {
			signed++
		}
	}
	if signed == 0 {
		r.Add(types.Diagnostic{
			Severity: sev, Structure: "bank", Offset: b.Offset, Bank: b.Index, Sector: -1,
			Issue: "no signed sectors (bank never written)",
		})
		return
	}

	seen := make(map[uint16]bool, format.SectorsPerBank)
	counters := make(map[uint32]int)
	for _, s := range b.Sectors {
		off := b.Offset + s.Physical*format.SectorSize
		add := func(field int, issue string, expected, actual any) {
			r.Add(types.Diagnostic{
				Severity: sev, Structure: "sector", Offset: off + field,
				Bank: b.Index, Sector: s.Physical, Issue: issue,
				Expected: expected, Actual: actual,
			})
		}
		switch {
		case !s.SignatureOK:
			add(format.SectorSignatureOffset, "bad signature",
				fmt.Sprintf("0x%08X", format.SectorSignature), fmt.Sprintf("0x%08X", s.Footer.Signature))
			continue
		case !s.IDOK:
			add(format.SectorIDOffset, "section id out of range", "0..13", s.Footer.SectionID)
			continue
		case !s.ChecksumOK:
			add(format.SectorChecksumOffset, fmt.Sprintf("section %d checksum mismatch", s.Footer.SectionID),
				fmt.Sprintf("0x%04X", s.ComputedChecksum), fmt.Sprintf("0x%04X", s.Footer.Checksum))
		}
		if seen[s.Footer.SectionID] {
			add(format.SectorIDOffset, fmt.Sprintf("section %d duplicated", s.Footer.SectionID), nil, nil)
		}
		seen[s.Footer.SectionID] = true
		counters[s.Footer.Counter]++
	}

	for id := 0; id < format.SectorsPerBank; id++ {
		if !seen[uint16(id)] {
			r.Add(types.Diagnostic{
				Severity: sev, Structure: "section", Offset: -1, Bank: b.Index, Sector: -1,
				Issue: fmt.Sprintf("section %d missing", id),
			})
		}
	}
	if len(counters) > 1 {
		r.Add(types.Diagnostic{
			Severity: sev, Structure: "bank", Offset: b.Offset, Bank: b.Index, Sector: -1,
			Issue: fmt.Sprintf("sectors disagree on the save counter (%d distinct values)", len(counters)),
		})
	}
}
