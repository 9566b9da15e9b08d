package section

import (
	"errors"
	"fmt"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/pkg/types"
)

// ErrSlotRange is returned for slot references outside the save's bounds.
var ErrSlotRange = errors.New("section: slot out of range")

func (s *Sections) boxRange(box, slot int) ([]byte, error) {
	if !types.BoxSlot(box, slot).Valid() {
		return nil, fmt.Errorf("box %d slot %d: %w", box, slot, ErrSlotRange)
	}
	off := format.StorageBoxesOffset + (box*format.BoxSlots+slot)*format.BoxRecordSize
	return s.blocks[blockStorage][off : off+format.BoxRecordSize], nil
}

func (s *Sections) partyRange(i int) []byte {
	off := s.layout.PartyOffset + i*format.PartyRecordLen
	return s.blocks[blockWorld][off : off+format.PartyRecordLen]
}

// BoxRecord returns a copy of the 80-byte record at box/slot.
func (s *Sections) BoxRecord(box, slot int) ([]byte, error) {
	b, err := s.boxRange(box, slot)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// SetBoxRecord stores an 80-byte record at box/slot.
func (s *Sections) SetBoxRecord(box, slot int, rec []byte) error {
	if len(rec) != format.BoxRecordSize {
		return types.Errorf(types.ErrKindInvalidRecord, nil, "box record is %d bytes, want %d", len(rec), format.BoxRecordSize)
	}
	b, err := s.boxRange(box, slot)
	if err != nil {
		return err
	}
	copy(b, rec)
	s.dirty[blockStorage] = true
	return nil
}

// ClearBoxRecord zeroes box/slot.
func (s *Sections) ClearBoxRecord(box, slot int) error {
	b, err := s.boxRange(box, slot)
	if err != nil {
		return err
	}
	clear(b)
	s.dirty[blockStorage] = true
	return nil
}

// PartyCount returns the number of occupied party slots. The count is a
// single byte; the three bytes after it are padding.
func (s *Sections) PartyCount() int {
	return min(int(s.blocks[blockWorld][s.layout.PartyCountOffset]), format.PartySlots)
}

// PartyRecord returns a copy of the 100-byte record in party slot i.
// Slots at or beyond PartyCount are reported out of range.
func (s *Sections) PartyRecord(i int) ([]byte, error) {
	if i < 0 || i >= s.PartyCount() {
		return nil, fmt.Errorf("party slot %d of %d: %w", i, s.PartyCount(), ErrSlotRange)
	}
	return append([]byte(nil), s.partyRange(i)...), nil
}

// SetPartyRecord replaces party slot i, or appends when i == PartyCount.
func (s *Sections) SetPartyRecord(i int, rec []byte) error {
	if len(rec) != format.PartyRecordLen {
		return types.Errorf(types.ErrKindInvalidRecord, nil, "party record is %d bytes, want %d", len(rec), format.PartyRecordLen)
	}
	n := s.PartyCount()
	if i < 0 || i > n || i >= format.PartySlots {
		return fmt.Errorf("party slot %d of %d: %w", i, n, ErrSlotRange)
	}
	copy(s.partyRange(i), rec)
	if i == n {
		s.blocks[blockWorld][s.layout.PartyCountOffset] = byte(n + 1)
	}
	s.dirty[blockWorld] = true
	return nil
}

// RemovePartyRecord deletes party slot i and shifts later members up so
// the party stays contiguous.
func (s *Sections) RemovePartyRecord(i int) error {
	n := s.PartyCount()
	if i < 0 || i >= n {
		return fmt.Errorf("party slot %d of %d: %w", i, n, ErrSlotRange)
	}
	for j := i; j < n-1; j++ {
		copy(s.partyRange(j), s.partyRange(j+1))
	}
	clear(s.partyRange(n - 1))
	s.blocks[blockWorld][s.layout.PartyCountOffset] = byte(n - 1)
	s.dirty[blockWorld] = true
	return nil
}

// Record returns a copy of the record addressed by ref: 80 bytes for a box
// slot, 100 for a party slot.
func (s *Sections) Record(ref types.SlotRef) ([]byte, error) {
	switch ref.Area {
	case types.AreaBox:
		return s.BoxRecord(ref.Box, ref.Slot)
	case types.AreaParty:
		return s.PartyRecord(ref.Slot)
	default:
		return nil, fmt.Errorf("%v: %w", ref, ErrSlotRange)
	}
}

// CurrentBox returns the box the PC opens on.
func (s *Sections) CurrentBox() int {
	return int(format.ReadU32(s.blocks[blockStorage], format.StorageCurrentBoxOffset))
}

// BoxName returns the raw encoded name of box b.
func (s *Sections) BoxName(b int) ([]byte, error) {
	if b < 0 || b >= format.BoxCount {
		return nil, fmt.Errorf("box %d: %w", b, ErrSlotRange)
	}
	off := format.StorageBoxNamesOffset + b*format.BoxNameSize
	return append([]byte(nil), s.blocks[blockStorage][off:off+format.BoxNameSize]...), nil
}

// BoxWallpaper returns the wallpaper index of box b.
func (s *Sections) BoxWallpaper(b int) (int, error) {
	if b < 0 || b >= format.BoxCount {
		return 0, fmt.Errorf("box %d: %w", b, ErrSlotRange)
	}
	return int(s.blocks[blockStorage][format.StorageWallpaperOffset+b]), nil
}
