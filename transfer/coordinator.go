package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/internal/logger"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/pkm"
	"github.com/joshuapare/gen3kit/save/section"
)

// obedienceCaps is the highest level a traded creature obeys at, indexed
// by badge count.
var obedienceCaps = [9]int{10, 20, 30, 40, 50, 60, 70, 80, 100}

// ObedienceCap returns the obedience level cap for a badge count.
func ObedienceCap(badges int) int {
	return obedienceCaps[max(0, min(badges, 8))]
}

// Coordinator executes requests and remembers which ids it has consumed.
// It is safe for concurrent use; requests touching the same image
// serialize on that image's lock.
type Coordinator struct {
	mu       sync.Mutex
	consumed map[uuid.UUID]State
}

// NewCoordinator returns an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{consumed: make(map[uuid.UUID]State)}
}

// plan is what validation hands to the apply step.
type plan struct {
	record   []byte // 80-byte box form
	to       types.SlotRef
	species  uint16
	national uint16 // 0 when the Pokédex is left alone
	evolves  bool
	warnings []string
}

// Execute runs req to completion. A rejected request returns an error
// matching types.ErrRejected and the specific reason sentinel. A
// destination-only commit returns an error matching types.ErrPartialTransfer.
func (c *Coordinator) Execute(ctx context.Context, req *Request) (*Result, error) {
	if err := c.consume(req); err != nil {
		return nil, err
	}
	res := &Result{ID: req.ID}
	finish := func(s State, err error) (*Result, error) {
		req.state, res.State = s, s
		c.mu.Lock()
		c.consumed[req.ID] = s
		c.mu.Unlock()
		logger.L.Debug("transfer finished", "id", req.ID, "state", s.String(), "err", err)
		return res, err
	}

	if req.Src == nil || req.Dst == nil {
		return finish(StateRejected, types.Reject(types.ReasonDestinationInvalid, "request needs both saves"))
	}
	srcImg, dstImg := req.Src.Image(), req.Dst.Image()
	same := srcImg == dstImg
	if same && req.Src != req.Dst {
		return finish(StateRejected, types.Reject(types.ReasonDestinationInvalid, "save %d is open twice", srcImg.ID()))
	}

	first, second := srcImg, dstImg
	if second.ID() < first.ID() {
		first, second = second, first
	}
	release := first.Acquire()
	defer release()
	if !same {
		releaseSecond := second.Acquire()
		defer releaseSecond()
	}

	if err := ctx.Err(); err != nil {
		return finish(StateRejected, err)
	}
	if err := refresh(req.Src, req.Dst); err != nil {
		return finish(StateRejected, err)
	}

	p, err := validate(req)
	if err != nil {
		return finish(StateRejected, err)
	}
	req.state = StateValidated
	res.Species, res.To, res.Warnings, res.TradeEvolves = p.species, p.to, p.warnings, p.evolves

	if err := apply(req, p); err != nil {
		resetBoth(req)
		return finish(StateFailed, err)
	}

	if err := req.Dst.Commit(ctx); err != nil {
		resetBoth(req)
		if errors.Is(err, types.ErrCommitUnverified) {
			return finish(StateUnverified, fmt.Errorf("commit destination: %w", err))
		}
		return finish(StateFailed, fmt.Errorf("commit destination: %w", err))
	}
	if req.Mode == Move && !same {
		if err := req.Src.Commit(ctx); err != nil {
			if rerr := req.Src.Reset(); rerr != nil {
				err = errors.Join(err, rerr)
			}
			return finish(StatePartial, types.Errorf(types.ErrKindPartialTransfer, err,
				"destination committed, source %s not cleared", req.From))
		}
	}
	return finish(StateCommitted, nil)
}

// refresh re-reads views that another Sections on the same image has
// overtaken. Views with uncommitted edits are refused instead.
func refresh(views ...*section.Sections) error {
	for _, s := range views {
		if s.Dirty() {
			return types.Errorf(types.ErrKindState, nil, "save has uncommitted edits")
		}
		if !s.Stale() {
			continue
		}
		logger.L.Debug("transfer: reloading stale sections", "image", s.Image().ID())
		if err := s.Reset(); err != nil {
			return fmt.Errorf("reload save %d: %w", s.Image().ID(), err)
		}
	}
	return nil
}

func (c *Coordinator) consume(req *Request) error {
	if req == nil {
		return types.Errorf(types.ErrKindState, nil, "nil request")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.consumed[req.ID]; ok || req.state != StateRequested {
		if !ok {
			s = req.state
		}
		return types.Errorf(types.ErrKindState, nil, "request %s already consumed (%s)", req.ID, s)
	}
	c.consumed[req.ID] = StateRequested
	return nil
}

// validate runs the checks in their fixed order without mutating anything.
func validate(req *Request) (plan, error) {
	var p plan
	src, dst := req.Src, req.Dst

	if err := dst.Verify(); err != nil {
		return p, &types.Error{Kind: types.ErrKindRejected, Reason: types.ReasonDestinationInvalid,
			Msg: "destination save does not decode", Err: err}
	}
	p.to = req.To
	if p.to == AnyBoxSlot {
		free, ok := firstFreeBoxSlot(dst)
		if !ok {
			return p, types.Reject(types.ReasonSlotOccupied, "every box slot is occupied")
		}
		p.to = free
	}
	if !p.to.Valid() || !req.From.Valid() {
		return p, types.Reject(types.ReasonDestinationInvalid, "slot %s -> %s out of range", req.From, p.to)
	}
	if p.to.Area != types.AreaBox {
		return p, types.Reject(types.ReasonUnsupportedDestination, "destination %s is not a box slot", p.to)
	}
	if src == dst && req.From == p.to {
		return p, types.Reject(types.ReasonDestinationInvalid, "source and destination are both %s", p.to)
	}

	existing, err := dst.BoxRecord(p.to.Box, p.to.Slot)
	if err != nil {
		return p, &types.Error{Kind: types.ErrKindRejected, Reason: types.ReasonDestinationInvalid, Msg: "read destination slot", Err: err}
	}
	occupied := pkm.Occupied(existing)
	if occupied && !req.Overwrite {
		return p, types.Reject(types.ReasonSlotOccupied, "%s is occupied", p.to)
	}

	if !dst.StorageUnlocked() {
		return p, types.Reject(types.ReasonStorageLocked, "destination has not unlocked storage")
	}

	raw, err := src.Record(req.From)
	if errors.Is(err, section.ErrSlotRange) || (err == nil && pkm.IsZero(raw)) {
		return p, types.Reject(types.ReasonEmptySource, "%s is empty", req.From)
	}
	if err != nil {
		return p, err
	}
	rec, err := pkm.Decode(raw)
	if err != nil {
		return p, fmt.Errorf("source %s: %w", req.From, err)
	}
	if rec.IsEmpty() {
		return p, types.Reject(types.ReasonEmptySource, "%s holds no species", req.From)
	}

	if req.Mode == Move && req.From.Area == types.AreaParty && src.PartyCount() <= 1 {
		return p, types.Reject(types.ReasonPartyMinimum, "cannot move the last party member")
	}

	p.record = raw[:format.BoxRecordSize]
	p.species = rec.Growth.Species
	if req.UpdatePokedex && !rec.IsEgg() {
		p.national = rec.National()
	}
	if occupied {
		p.warnings = append(p.warnings, fmt.Sprintf("overwrote the record in %s", p.to))
	}
	if e, ok := rec.TradeEvolution(); ok && src != dst {
		p.evolves = true
		p.warnings = append(p.warnings, fmt.Sprintf(
			"national #%d evolves into #%d when traded; it was stored unevolved", e.From, e.To))
	}
	if lvl := rec.Level(); lvl > 0 && !rec.IsEgg() {
		tid, sid := dst.TrainerIDs()
		badges := 0
		for _, b := range dst.Badges() {
			if b {
				badges++
			}
		}
		if ownTrainer := rec.TrainerID() == tid && rec.SecretID() == sid; !ownTrainer && lvl > ObedienceCap(badges) {
			p.warnings = append(p.warnings, fmt.Sprintf(
				"level %d exceeds the obedience cap of %d for %d badges", lvl, ObedienceCap(badges), badges))
		}
	}
	return p, nil
}

func apply(req *Request, p plan) error {
	if err := req.Dst.SetBoxRecord(p.to.Box, p.to.Slot, p.record); err != nil {
		return err
	}
	if p.national != 0 {
		req.Dst.MarkDex(int(p.national), true)
	}
	if req.Mode == Copy {
		return nil
	}
	switch req.From.Area {
	case types.AreaBox:
		return req.Src.ClearBoxRecord(req.From.Box, req.From.Slot)
	default:
		return req.Src.RemovePartyRecord(req.From.Slot)
	}
}

// firstFreeBoxSlot returns the first box slot that holds no creature.
func firstFreeBoxSlot(s *section.Sections) (types.SlotRef, bool) {
	for b := range types.BoxCount {
		for i := range types.BoxSlots {
			rec, err := s.BoxRecord(b, i)
			if err == nil && !pkm.Occupied(rec) {
				return types.BoxSlot(b, i), true
			}
		}
	}
	return types.SlotRef{}, false
}

func resetBoth(req *Request) {
	if err := req.Dst.Reset(); err != nil {
		logger.L.Warn("transfer: reset destination", "err", err)
	}
	if req.Src != req.Dst {
		if err := req.Src.Reset(); err != nil {
			logger.L.Warn("transfer: reset source", "err", err)
		}
	}
}
