// Package section reassembles the active bank of a save into its logical
// blocks and exposes typed read/write access to the ranges inside them.
//
// Three blocks exist in every family:
//
//	trainer  section 0       name, ids, play time, Pokédex flags
//	world    sections 1..4   party, money, event flags and vars
//	storage  sections 5..13  PC boxes
//
// Offsets inside the blocks come from the static layout table; nothing in
// this package branches on a title.
package section

import (
	"context"
	"fmt"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/save"
	"github.com/joshuapare/gen3kit/save/layout"
)

// Kind names a logical section.
type Kind int

const (
	KindTrainer Kind = iota + 1
	KindTeam
	KindStorage
	KindFlags
	KindVars
	KindPokedex
)

func (k Kind) String() string {
	switch k {
	case KindTrainer:
		return "trainer"
	case KindTeam:
		return "team"
	case KindStorage:
		return "storage"
	case KindFlags:
		return "flags"
	case KindVars:
		return "vars"
	case KindPokedex:
		return "pokedex"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Kinds lists every section kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindTrainer, KindTeam, KindStorage, KindFlags, KindVars, KindPokedex}
}

type block int

const (
	blockTrainer block = iota
	blockWorld
	blockStorage
	blockCount
)

// span locates a kind inside one block.
type span struct {
	block block
	off   int
	size  int
}

func spanFor(k Kind, l layout.Layout) (span, bool) {
	switch k {
	case KindTrainer:
		return span{blockTrainer, 0, l.TrainerSize()}, true
	case KindTeam:
		return span{blockWorld, l.PartyCountOffset, l.PartyOffset - l.PartyCountOffset + format.PartySlots*format.PartyRecordLen}, true
	case KindStorage:
		return span{blockStorage, 0, l.StorageSize()}, true
	case KindFlags:
		return span{blockWorld, l.FlagsOffset, l.FlagsSize}, true
	case KindVars:
		return span{blockWorld, l.VarsOffset, l.VarsSize}, true
	case KindPokedex:
		return span{blockTrainer, format.PokedexOwnedOffset, format.PokedexSeenOffset - format.PokedexOwnedOffset + format.PokedexFlagBytes}, true
	default:
		return span{}, false
	}
}

// Sections is a decoded, editable view of an image's active bank.
// Edits stay in memory until Commit.
type Sections struct {
	img    *save.Image
	layout layout.Layout
	blocks [blockCount][]byte
	dirty  [blockCount]bool

	// counter is the image generation the blocks were read from.
	counter uint32
}

// Open assembles the sections of img's active bank.
func Open(img *save.Image) (*Sections, error) {
	s := &Sections{img: img, layout: img.Layout()}
	if err := s.load(); err != nil {
		return nil, err
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sections) load() error {
	ranges := [blockCount][2]int{
		blockTrainer: {format.SectionTrainer, format.SectionTrainer},
		blockWorld:   {format.SectionWorldFirst, format.SectionWorldLast},
		blockStorage: {format.SectionStorageFirst, format.SectionStorageLast},
	}
	for b, r := range ranges {
		var buf []byte
		for id := r[0]; id <= r[1]; id++ {
			p, err := s.img.Payload(id)
			if err != nil {
				return types.Errorf(types.ErrKindSectionLayoutMismatch, err, "assemble section %d", id)
			}
			buf = append(buf, p...)
		}
		s.blocks[b] = buf
		s.dirty[b] = false
	}
	s.counter = s.img.Counter()
	return nil
}

// check verifies every kind fits its block and that the trainer block
// agrees with the layout's family.
func (s *Sections) check() error {
	for _, k := range Kinds() {
		sp, _ := spanFor(k, s.layout)
		if _, ok := format.Slice(s.blocks[sp.block], sp.off, sp.size); !ok {
			return types.Errorf(types.ErrKindSectionLayoutMismatch, nil,
				"%s section [0x%X+0x%X] outside %d-byte block", k, sp.off, sp.size, len(s.blocks[sp.block]))
		}
	}
	if s.layout.StorageSize() != format.StorageSize {
		return types.Errorf(types.ErrKindSectionLayoutMismatch, nil,
			"storage block is 0x%X bytes, want 0x%X", s.layout.StorageSize(), format.StorageSize)
	}
	code := format.ReadU32(s.blocks[blockTrainer], format.GameCodeOffset)
	if s.layout.ExpectsFRLGCode != (code == format.GameCodeFRLG) {
		return types.Errorf(types.ErrKindSectionLayoutMismatch, nil,
			"game code %d contradicts %s layout", code, s.layout.Family)
	}
	if n := s.blocks[blockWorld][s.layout.PartyCountOffset]; n > format.PartySlots {
		return types.Errorf(types.ErrKindSectionLayoutMismatch, nil, "party count %d exceeds %d", n, format.PartySlots)
	}
	return nil
}

// Verify rescans the image's active bank and re-runs the section checks
// against the current, possibly edited, blocks.
func (s *Sections) Verify() error {
	if b := save.ScanBank(s.img.Bytes(), s.img.ActiveIndex(), s.layout); !b.Valid {
		return types.Errorf(types.ErrKindCorruptSave, nil, "active bank %d no longer validates", b.Index)
	}
	return s.check()
}

// Image returns the image the sections were read from.
func (s *Sections) Image() *save.Image { return s.img }

// Layout returns the layout in use.
func (s *Sections) Layout() layout.Layout { return s.layout }

// Section returns a copy of the bytes of kind k.
func (s *Sections) Section(k Kind) ([]byte, error) {
	_, b, err := s.view(k)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// SetSection replaces the bytes of kind k. data must have the kind's size.
func (s *Sections) SetSection(k Kind, data []byte) error {
	sp, b, err := s.view(k)
	if err != nil {
		return err
	}
	if len(data) != sp.size {
		return types.Errorf(types.ErrKindSectionLayoutMismatch, nil,
			"%s section is %d bytes, got %d", k, sp.size, len(data))
	}
	copy(b, data)
	s.dirty[sp.block] = true
	return nil
}

func (s *Sections) view(k Kind) (span, []byte, error) {
	sp, ok := spanFor(k, s.layout)
	if !ok {
		return span{}, nil, fmt.Errorf("section: unknown kind %d", int(k))
	}
	b, ok := format.Slice(s.blocks[sp.block], sp.off, sp.size)
	if !ok {
		return span{}, nil, types.Errorf(types.ErrKindSectionLayoutMismatch, nil, "%s section out of range", k)
	}
	return sp, b, nil
}

// Dirty reports whether there are uncommitted edits.
func (s *Sections) Dirty() bool {
	return s.dirty[blockTrainer] || s.dirty[blockWorld] || s.dirty[blockStorage]
}

// Payloads splits every edited block back into per-section payloads sized
// for the writer.
func (s *Sections) Payloads() map[int][]byte {
	out := make(map[int][]byte)
	split := func(b block, first, last int) {
		if !s.dirty[b] {
			return
		}
		off := 0
		for id := first; id <= last; id++ {
			n := s.layout.SectionSizes[id]
			out[id] = append([]byte(nil), s.blocks[b][off:off+n]...)
			off += n
		}
	}
	split(blockTrainer, format.SectionTrainer, format.SectionTrainer)
	split(blockWorld, format.SectionWorldFirst, format.SectionWorldLast)
	split(blockStorage, format.SectionStorageFirst, format.SectionStorageLast)
	return out
}

// Stale reports whether the image has committed a newer generation, for
// example through another Sections, since these sections were read.
func (s *Sections) Stale() bool {
	return s.counter != s.img.Counter()
}

// Commit writes pending edits through the image's commit protocol. The
// caller must hold the image via Acquire. On failure the edits are kept so
// the caller can inspect them or Reset. Stale sections are refused with
// ErrKindState: committing them would roll back the newer generation.
func (s *Sections) Commit(ctx context.Context) error {
	if !s.Dirty() {
		return nil
	}
	if s.Stale() {
		return types.Errorf(types.ErrKindState, nil,
			"sections read at counter %d, image is at %d", s.counter, s.img.Counter())
	}
	if err := s.img.Commit(ctx, s.Payloads()); err != nil {
		return err
	}
	return s.load()
}

// Reset discards pending edits and re-reads the active bank.
func (s *Sections) Reset() error {
	return s.load()
}
