package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Area names where a creature record lives inside a save.
type Area int

const (
	AreaParty Area = iota + 1
	AreaBox
)

// Party and PC box dimensions.
const (
	PartySlots = 6
	BoxCount   = 14
	BoxSlots   = 30
)

// SlotRef addresses one record slot. Box and Slot are zero-based; Box is
// ignored for party slots.
type SlotRef struct {
	Area Area
	Box  int
	Slot int
}

// PartySlot returns a reference to party slot i.
func PartySlot(i int) SlotRef { return SlotRef{Area: AreaParty, Slot: i} }

// BoxSlot returns a reference to slot s of box b.
func BoxSlot(b, s int) SlotRef { return SlotRef{Area: AreaBox, Box: b, Slot: s} }

// Valid reports whether the reference is inside the save's bounds.
func (r SlotRef) Valid() bool {
	switch r.Area {
	case AreaParty:
		return r.Slot >= 0 && r.Slot < PartySlots
	case AreaBox:
		return r.Box >= 0 && r.Box < BoxCount && r.Slot >= 0 && r.Slot < BoxSlots
	default:
		return false
	}
}

// String prints "party:N" or "box:B:S" using one-based numbers, the way
// the game shows them.
func (r SlotRef) String() string {
	switch r.Area {
	case AreaParty:
		return fmt.Sprintf("party:%d", r.Slot+1)
	case AreaBox:
		return fmt.Sprintf("box:%d:%d", r.Box+1, r.Slot+1)
	default:
		return "invalid"
	}
}

// ParseSlotRef parses the form printed by String.
func ParseSlotRef(s string) (SlotRef, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), ":")
	nums := make([]int, 0, 2)
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return SlotRef{}, fmt.Errorf("slot %q: %w", s, err)
		}
		nums = append(nums, n-1)
	}
	var ref SlotRef
	switch {
	case parts[0] == "party" && len(nums) == 1:
		ref = PartySlot(nums[0])
	case parts[0] == "box" && len(nums) == 2:
		ref = BoxSlot(nums[0], nums[1])
	default:
		return SlotRef{}, fmt.Errorf("slot %q: want party:N or box:B:S", s)
	}
	if !ref.Valid() {
		return SlotRef{}, fmt.Errorf("slot %q: out of range", s)
	}
	return ref, nil
}
