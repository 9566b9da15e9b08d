package types

import (
	"fmt"
	"strings"
)

// Title enumerates the five Generation 3 mainline games.
type Title int

const (
	TitleUnknown Title = iota
	TitleRuby
	TitleSapphire
	TitleEmerald
	TitleFireRed
	TitleLeafGreen
)

var titleNames = [...]string{
	TitleUnknown:   "Unknown",
	TitleRuby:      "Ruby",
	TitleSapphire:  "Sapphire",
	TitleEmerald:   "Emerald",
	TitleFireRed:   "FireRed",
	TitleLeafGreen: "LeafGreen",
}

func (t Title) String() string {
	if t < 0 || int(t) >= len(titleNames) {
		return fmt.Sprintf("Title(%d)", int(t))
	}
	return titleNames[t]
}

// Titles lists the known titles in a stable order.
func Titles() []Title {
	return []Title{TitleRuby, TitleSapphire, TitleEmerald, TitleFireRed, TitleLeafGreen}
}

// ParseTitle accepts the names printed by String, case-insensitively.
func ParseTitle(s string) (Title, error) {
	for _, t := range Titles() {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return TitleUnknown, fmt.Errorf("unknown title %q", s)
}

// Family groups titles that share a save layout.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyRS             // Ruby, Sapphire
	FamilyE              // Emerald
	FamilyFRLG           // FireRed, LeafGreen
)

func (f Family) String() string {
	switch f {
	case FamilyRS:
		return "RS"
	case FamilyE:
		return "E"
	case FamilyFRLG:
		return "FRLG"
	default:
		return "Unknown"
	}
}

// Family returns the save-layout family of t.
func (t Title) Family() Family {
	switch t {
	case TitleRuby, TitleSapphire:
		return FamilyRS
	case TitleEmerald:
		return FamilyE
	case TitleFireRed, TitleLeafGreen:
		return FamilyFRLG
	default:
		return FamilyUnknown
	}
}

// Region is the market a cartridge was released for. The letter is the
// fourth character of the cartridge game code.
type Region byte

const (
	RegionUnknown Region = 0
	RegionJapan   Region = 'J'
	RegionUSA     Region = 'E'
	RegionEurope  Region = 'P'
	RegionGermany Region = 'D'
	RegionFrance  Region = 'F'
	RegionItaly   Region = 'I'
	RegionSpain   Region = 'S'
)

// Regions lists the known regions in a stable order.
func Regions() []Region {
	return []Region{RegionJapan, RegionUSA, RegionEurope, RegionGermany, RegionFrance, RegionItaly, RegionSpain}
}

func (r Region) String() string {
	switch r {
	case RegionJapan:
		return "JPN"
	case RegionUSA:
		return "USA"
	case RegionEurope:
		return "EUR"
	case RegionGermany:
		return "GER"
	case RegionFrance:
		return "FRA"
	case RegionItaly:
		return "ITA"
	case RegionSpain:
		return "SPA"
	default:
		return "Unknown"
	}
}

// ParseRegion accepts the names printed by String or the single game-code letter.
func ParseRegion(s string) (Region, error) {
	for _, r := range Regions() {
		if strings.EqualFold(s, r.String()) || (len(s) == 1 && strings.EqualFold(s, string(rune(r)))) {
			return r, nil
		}
	}
	return RegionUnknown, fmt.Errorf("unknown region %q", s)
}

// Variant is the (title, region) pair that selects a save layout and charset.
type Variant struct {
	Title  Title
	Region Region
}

func (v Variant) String() string {
	return v.Title.String() + "/" + v.Region.String()
}

// Identity is the resolved identity of a ROM image.
type Identity struct {
	Title    Title
	Region   Region
	Revision uint8
}

// Variant drops the revision.
func (id Identity) Variant() Variant {
	return Variant{Title: id.Title, Region: id.Region}
}

func (id Identity) String() string {
	return fmt.Sprintf("%s (%s) rev %d", id.Title, id.Region, id.Revision)
}
