package transfer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/save/section"
)

// Mode selects whether the source slot is cleared.
type Mode int

const (
	// Move clears the source slot after the destination is written.
	Move Mode = iota
	// Copy leaves the source untouched. It is the only way to duplicate a record.
	Copy
)

func (m Mode) String() string {
	if m == Copy {
		return "copy"
	}
	return "move"
}

// State is the position of a request in its lifecycle.
type State int

const (
	StateRequested State = iota
	StateValidated
	StateCommitted
	StateRejected
	// StateFailed means validation passed but the destination commit did
	// not land; neither save changed on disk.
	StateFailed
	// StatePartial means the destination committed and the source did not.
	StatePartial
	// StateUnverified means the destination file was rewritten but did not
	// read back valid. The source was left alone; inspect the destination.
	StateUnverified
)

var stateNames = [...]string{
	StateRequested:  "Requested",
	StateValidated:  "Validated",
	StateCommitted:  "Committed",
	StateRejected:   "Rejected",
	StateFailed:     "Failed",
	StatePartial:    "PartialTransfer",
	StateUnverified: "Unverified",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// AnyBoxSlot as a request's To picks the first empty box slot of the
// destination, scanning box by box.
var AnyBoxSlot = types.SlotRef{Area: types.AreaBox, Box: -1, Slot: -1}

// Request describes one transfer. Src and Dst may be the same Sections for
// a move within one save.
type Request struct {
	ID            uuid.UUID
	Src           *section.Sections
	Dst           *section.Sections
	From          types.SlotRef
	To            types.SlotRef
	Mode          Mode
	Overwrite     bool
	// UpdatePokedex marks the species seen and owned in the destination
	// in the same commit as the record.
	UpdatePokedex bool

	state State
}

// NewRequest returns a move request with a fresh id that updates the
// destination Pokédex.
func NewRequest(src, dst *section.Sections, from, to types.SlotRef) *Request {
	return &Request{ID: uuid.New(), Src: src, Dst: dst, From: from, To: to, UpdatePokedex: true}
}

// State returns where the request is in its lifecycle.
func (r *Request) State() State { return r.state }

func (r *Request) String() string {
	to := r.To.String()
	if r.To == AnyBoxSlot {
		to = "box:any"
	}
	return fmt.Sprintf("%s %s %s -> %s", r.ID, r.Mode, r.From, to)
}

// Result reports a finished request.
type Result struct {
	ID           uuid.UUID
	State        State
	Species      uint16
	// To is the slot the record was placed in, resolved from AnyBoxSlot.
	To           types.SlotRef
	Warnings     []string
	// TradeEvolves is set when the record would evolve if traded in-game.
	// The record itself is stored unchanged.
	TradeEvolves bool
}
