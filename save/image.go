package save

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/internal/logger"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/save/layout"
)

// Sink persists a whole save image. Implementations must not leave a
// partially written file behind on failure.
type Sink interface {
	WriteSave(buf []byte) error
}

// ReadBacker is implemented by sinks that can return what they stored, so
// Commit can verify the written bank from the durable copy.
type ReadBacker interface {
	ReadSave() ([]byte, error)
}

var nextImageID atomic.Uint64

// Image owns a save buffer and its bank scan results.
type Image struct {
	id     uint64
	mu     sync.Mutex
	layout layout.Layout
	data   []byte
	banks  [format.BankCount]Bank
	active int
	sink   Sink
	path   string
	backup bool
}

// Option configures Parse.
type Option func(*Image)

// WithSink attaches the sink used by Commit.
func WithSink(s Sink) Option {
	return func(img *Image) { img.sink = s }
}

// sizeIssue describes why a buffer of n bytes cannot hold a save, or
// returns "" when it can.
func sizeIssue(n int) string {
	switch n {
	case format.SaveSize, format.SaveSizeRTC:
		return ""
	case format.SaveSizeHalf:
		return fmt.Sprintf("save is a 64 KiB dump: bank 1 ends at 0x%X of 0x%X, and commits alternate between both banks",
			n, format.TailOffset)
	default:
		return fmt.Sprintf("save size 0x%X, want 0x%X", n, format.SaveSize)
	}
}

// Parse validates a raw save buffer against l and selects the active bank.
// The buffer is copied; the caller may reuse data.
func Parse(data []byte, l layout.Layout, opts ...Option) (*Image, error) {
	if issue := sizeIssue(len(data)); issue != "" {
		return nil, types.Errorf(types.ErrKindCorruptSave, format.ErrTruncated, "%s", issue)
	}
	img := &Image{
		id:     nextImageID.Add(1),
		layout: l,
		data:   append([]byte(nil), data...),
	}
	for _, opt := range opts {
		opt(img)
	}
	if err := img.rescan(); err != nil {
		return nil, err
	}
	logger.L.Debug("save parsed",
		"family", l.Family.String(),
		"active_bank", img.active,
		"counter", img.banks[img.active].Counter)
	return img, nil
}

func (img *Image) rescan() error {
	for i := range img.banks {
		img.banks[i] = ScanBank(img.data, i, img.layout)
	}
	img.active = selectActive(img.banks)
	if img.active < 0 {
		return types.Errorf(types.ErrKindCorruptSave, nil,
			"bank 0: %v; bank 1: %v", firstProblem(img.banks[0]), firstProblem(img.banks[1]))
	}
	return nil
}

func firstProblem(b Bank) string {
	if len(b.problems) == 0 {
		return "ok"
	}
	if len(b.problems) == 1 {
		return b.problems[0]
	}
	return fmt.Sprintf("%s (+%d more)", b.problems[0], len(b.problems)-1)
}

// ID is a process-unique identifier used to order lock acquisition.
func (img *Image) ID() uint64 { return img.id }

// Layout returns the layout the image was parsed with.
func (img *Image) Layout() layout.Layout { return img.layout }

// Acquire takes exclusive mutation rights on the image. The returned
// release function is idempotent.
func (img *Image) Acquire() (release func()) {
	img.mu.Lock()
	return sync.OnceFunc(img.mu.Unlock)
}

// ActiveIndex returns the index of the active bank.
func (img *Image) ActiveIndex() int { return img.active }

// Active returns the scan result of the active bank.
func (img *Image) Active() Bank { return img.banks[img.active] }

// Banks returns the scan results of both banks.
func (img *Image) Banks() [format.BankCount]Bank { return img.banks }

// Counter returns the save counter of the active bank.
func (img *Image) Counter() uint32 { return img.banks[img.active].Counter }

// Bytes returns a copy of the whole image.
func (img *Image) Bytes() []byte {
	return append([]byte(nil), img.data...)
}

// Payload returns a copy of the checksummed payload of section id in the
// active bank.
func (img *Image) Payload(id int) ([]byte, error) {
	bank := img.banks[img.active]
	p, ok := bank.PhysicalFor(id)
	if !ok {
		return nil, fmt.Errorf("section %d: %w", id, format.ErrSectionID)
	}
	off := bank.Offset + p*format.SectorSize
	return append([]byte(nil), img.data[off:off+img.layout.SectionSizes[id]]...), nil
}

// Stage builds a copy of the image whose inactive bank holds the active
// sections with payloads replaced, stamped with the next counter. The image
// itself is not modified. Payloads must match the layout's section sizes.
func (img *Image) Stage(payloads map[int][]byte) ([]byte, error) {
	for id, p := range payloads {
		if id < 0 || id >= format.SectorsPerBank {
			return nil, fmt.Errorf("stage section %d: %w", id, format.ErrSectionID)
		}
		if len(p) != img.layout.SectionSizes[id] {
			return nil, types.Errorf(types.ErrKindSectionLayoutMismatch, nil,
				"section %d payload is %d bytes, layout says %d", id, len(p), img.layout.SectionSizes[id])
		}
	}

	src := img.banks[img.active]
	dst := 1 - img.active
	counter := src.Counter + 1
	rotation := (src.Rotation + 1) % format.SectorsPerBank

	staged := append([]byte(nil), img.data...)
	for id := 0; id < format.SectorsPerBank; id++ {
		from, _ := src.PhysicalFor(id)
		fromOff := src.Offset + from*format.SectorSize
		toOff := dst*format.BankSize + ((id+rotation)%format.SectorsPerBank)*format.SectorSize

		sector := staged[toOff : toOff+format.SectorSize]
		copy(sector, img.data[fromOff:fromOff+format.SectorSize])
		if p, ok := payloads[id]; ok {
			copy(sector, p)
		}
		format.PutFooter(sector, format.Footer{
			SectionID: uint16(id),
			Checksum:  format.SectorChecksum(sector, img.layout.SectionSizes[id]),
			Signature: format.SectorSignature,
			Counter:   counter,
		})
	}

	if err := verifyStaged(staged, dst, counter, img.layout); err != nil {
		return nil, err
	}
	return staged, nil
}

func verifyStaged(buf []byte, index int, counter uint32, l layout.Layout) error {
	b := ScanBank(buf, index, l)
	if !b.Valid {
		return types.Errorf(types.ErrKindCorruptSave, nil, "staged bank %d invalid: %s", index, firstProblem(b))
	}
	if b.Counter != counter {
		return types.Errorf(types.ErrKindCorruptSave, nil, "staged bank %d counter %d, want %d", index, b.Counter, counter)
	}
	return nil
}

// Commit writes payloads into the inactive bank, persists the result, and
// makes that bank active. The caller must hold the image via Acquire.
//
// Errors before the sink accepts the bytes leave the image exactly as it
// was and nothing on disk changed. If the sink accepted the bytes but they
// do not read back valid, Commit returns an ErrKindCommitUnverified error
// and the image is re-scanned from what the sink returned, so it mirrors
// the file. The previously active bank is never touched by a write, so the
// file still loads.
func (img *Image) Commit(ctx context.Context, payloads map[int][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	staged, err := img.Stage(payloads)
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	dst := 1 - img.active
	counter := img.banks[img.active].Counter + 1

	if err := ctx.Err(); err != nil {
		return err
	}
	if img.sink != nil {
		if err := img.sink.WriteSave(staged); err != nil {
			return fmt.Errorf("persist: %w", err)
		}
		if rb, ok := img.sink.(ReadBacker); ok {
			back, err := rb.ReadSave()
			if err == nil {
				err = verifyStaged(back, dst, counter, img.layout)
				img.adopt(back)
			}
			if err != nil {
				logger.L.Warn("save commit not verified", "image", img.id, "counter", counter, "err", err)
				// The cause is flattened so the error carries one kind only.
				return types.Errorf(types.ErrKindCommitUnverified, nil,
					"counter %d written but read back did not verify: %v", counter, err)
			}
		}
	}

	img.data = staged
	if err := img.rescan(); err != nil {
		return err
	}
	logger.L.Debug("save committed", "image", img.id, "bank", img.active, "counter", img.Counter())
	return nil
}

// adopt replaces the image bytes with buf when buf still has a valid bank.
// Otherwise the image keeps its current bytes.
func (img *Image) adopt(buf []byte) {
	if len(buf) != len(img.data) {
		return
	}
	prev, banks, active := img.data, img.banks, img.active
	img.data = append([]byte(nil), buf...)
	if err := img.rescan(); err != nil {
		img.data, img.banks, img.active = prev, banks, active
	}
}
