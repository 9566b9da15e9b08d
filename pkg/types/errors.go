package types

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindUnreadableRom         ErrKind = iota + 1 // ROM shorter than its header
	ErrKindUnidentifiedRom                          // neither hash nor header matched (non-fatal)
	ErrKindCorruptSave                              // no bank validates
	ErrKindSectionLayoutMismatch                    // section sizes/ranges disagree with the layout
	ErrKindInvalidCharacterCode                     // byte or rune missing from the charset
	ErrKindInvalidRecord                            // creature record failed its checksum or size check
	ErrKindRejected                                 // transfer rejected before any mutation
	ErrKindPartialTransfer                          // one side of a transfer committed, the other did not
	ErrKindState                                    // operation invalid for the current state
	ErrKindCommitUnverified                         // bytes reached the sink but did not read back valid
)

var kindNames = map[ErrKind]string{
	ErrKindUnreadableRom:         "UnreadableRom",
	ErrKindUnidentifiedRom:       "UnidentifiedRom",
	ErrKindCorruptSave:           "CorruptSave",
	ErrKindSectionLayoutMismatch: "SectionLayoutMismatch",
	ErrKindInvalidCharacterCode:  "InvalidCharacterCode",
	ErrKindInvalidRecord:         "InvalidRecord",
	ErrKindRejected:              "Rejected",
	ErrKindPartialTransfer:       "PartialTransfer",
	ErrKindState:                 "State",
	ErrKindCommitUnverified:      "CommitUnverified",
}

func (k ErrKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrKind(%d)", int(k))
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind   ErrKind
	Msg    string
	Reason RejectReason // set when Kind == ErrKindRejected
	Err    error        // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Kind == ErrKindRejected && e.Reason != ReasonNone {
		msg = msg + " (" + e.Reason.String() + ")"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, and on Reason when the target names one, so a detailed
// error still satisfies errors.Is against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Reason == ReasonNone || t.Reason == e.Reason
}

// Errorf builds a typed error of the given kind wrapping cause.
func Errorf(kind ErrKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Reject builds a transfer rejection for reason.
func Reject(reason RejectReason, format string, args ...any) *Error {
	return &Error{Kind: ErrKindRejected, Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// RejectReason names why a transfer was refused.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonDestinationInvalid
	ReasonSlotOccupied
	ReasonStorageLocked
	ReasonEmptySource
	ReasonPartyMinimum
	ReasonUnsupportedDestination
)

func (r RejectReason) String() string {
	switch r {
	case ReasonDestinationInvalid:
		return "DestinationInvalid"
	case ReasonSlotOccupied:
		return "SlotOccupied"
	case ReasonStorageLocked:
		return "StorageLocked"
	case ReasonEmptySource:
		return "EmptySource"
	case ReasonPartyMinimum:
		return "PartyMinimum"
	case ReasonUnsupportedDestination:
		return "UnsupportedDestination"
	default:
		return "None"
	}
}

// Sentinels commonly returned by implementations. Match them with errors.Is.
var (
	ErrUnreadableRom         = &Error{Kind: ErrKindUnreadableRom, Msg: "rom image is unreadable"}
	ErrUnidentifiedRom       = &Error{Kind: ErrKindUnidentifiedRom, Msg: "rom could not be identified"}
	ErrCorruptSave           = &Error{Kind: ErrKindCorruptSave, Msg: "save has no valid bank"}
	ErrSectionLayoutMismatch = &Error{Kind: ErrKindSectionLayoutMismatch, Msg: "save section layout mismatch"}
	ErrInvalidCharacterCode  = &Error{Kind: ErrKindInvalidCharacterCode, Msg: "invalid character code"}
	ErrInvalidRecord         = &Error{Kind: ErrKindInvalidRecord, Msg: "invalid creature record"}
	ErrRejected              = &Error{Kind: ErrKindRejected, Msg: "transfer rejected"}
	ErrPartialTransfer       = &Error{Kind: ErrKindPartialTransfer, Msg: "transfer partially committed"}
	ErrState                 = &Error{Kind: ErrKindState, Msg: "invalid state"}
	ErrCommitUnverified      = &Error{Kind: ErrKindCommitUnverified, Msg: "commit persisted but not verified"}

	ErrDestinationInvalid     = &Error{Kind: ErrKindRejected, Reason: ReasonDestinationInvalid, Msg: "transfer rejected"}
	ErrSlotOccupied           = &Error{Kind: ErrKindRejected, Reason: ReasonSlotOccupied, Msg: "transfer rejected"}
	ErrStorageLocked          = &Error{Kind: ErrKindRejected, Reason: ReasonStorageLocked, Msg: "transfer rejected"}
	ErrEmptySource            = &Error{Kind: ErrKindRejected, Reason: ReasonEmptySource, Msg: "transfer rejected"}
	ErrPartyMinimum           = &Error{Kind: ErrKindRejected, Reason: ReasonPartyMinimum, Msg: "transfer rejected"}
	ErrUnsupportedDestination = &Error{Kind: ErrKindRejected, Reason: ReasonUnsupportedDestination, Msg: "transfer rejected"}
)
