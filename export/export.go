// Package export renders a decoded save as a flat key=value dump for
// third-party tools. Key names and their order are part of the format:
// new keys may be appended to a group, existing keys never move or change
// meaning without bumping FormatVersion.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/pkm"
	"github.com/joshuapare/gen3kit/query"
	"github.com/joshuapare/gen3kit/save/section"
)

// FormatVersion is written as the first key of every dump.
const FormatVersion = 1

const (
	assign    = "="
	newline   = "\n"
	keySep    = "."
	listSep   = ","
	trueText  = "true"
	falseText = "false"
)

// Pair is one line of the dump.
type Pair struct {
	Key   string
	Value string
}

// Meta carries what the save itself cannot tell.
type Meta struct {
	Title  types.Title
	Region types.Region
}

type emitter struct {
	pairs []Pair
}

func (e *emitter) add(key string, v any) {
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case bool:
		s = falseText
		if v {
			s = trueText
		}
	case time.Duration:
		s = playTime(v)
	default:
		s = fmt.Sprint(v)
	}
	e.pairs = append(e.pairs, Pair{Key: key, Value: s})
}

// Dump lists the save's state in the stable order.
func Dump(s *section.Sections, meta Meta) []Pair {
	v := query.New(s, meta.Region)
	img := s.Image()
	e := &emitter{}

	e.add("format_version", FormatVersion)
	e.add("title", meta.Title.String())
	e.add("region", meta.Region.String())
	e.add("family", s.Layout().Family.String())
	e.add("active_bank", img.ActiveIndex())
	e.add("save_counter", img.Counter())

	name, err := v.TrainerName()
	if err != nil {
		e.add("trainer.name_error", err.Error())
	} else {
		e.add("trainer.name", name)
	}
	e.add("trainer.gender", genderName(v.TrainerGender()))
	e.add("trainer.id", v.TrainerID())
	e.add("trainer.secret_id", v.SecretID())
	e.add("trainer.play_time", v.PlayTime())
	e.add("trainer.money", v.Money())

	e.add("badges.count", v.BadgeCount())
	for i, b := range v.Badges() {
		e.add("badges."+strconv.Itoa(i+1), b)
	}
	e.add("pokedex.seen", v.DexSeen())
	e.add("pokedex.owned", v.DexOwned())
	e.add("storage.unlocked", v.StorageUnlocked())
	e.add("storage.count", v.StorageCount())

	e.add("party.count", v.PartyCount())
	for i := 0; i < v.PartyCount(); i++ {
		raw, err := s.PartyRecord(i)
		if err == nil {
			e.record("party."+strconv.Itoa(i+1), raw)
		}
	}
	for b := 0; b < format.BoxCount; b++ {
		for slot := 0; slot < format.BoxSlots; slot++ {
			raw, err := s.BoxRecord(b, slot)
			if err != nil || !pkm.Occupied(raw) {
				continue
			}
			e.record(fmt.Sprintf("box.%d.%d", b+1, slot+1), raw)
		}
	}
	return e.pairs
}

// record emits one slot. A record that fails to decode gets a single
// error key instead of partial fields.
func (e *emitter) record(prefix string, raw []byte) {
	r, err := pkm.Decode(raw)
	if err != nil {
		e.add(prefix+keySep+"error", err.Error())
		return
	}
	k := func(name string) string { return prefix + keySep + name }
	e.add(k("species"), r.Growth.Species)
	e.add(k("personality"), fmt.Sprintf("%08X", r.Personality))
	e.add(k("nature"), r.NatureName())
	e.add(k("nickname"), r.Nickname.Text)
	e.add(k("ot_name"), r.OTName.Text)
	e.add(k("ot_id"), r.TrainerID())
	e.add(k("ot_secret_id"), r.SecretID())
	e.add(k("language"), r.Language)
	if r.Party != nil {
		e.add(k("level"), r.Level())
	}
	e.add(k("experience"), r.Growth.Experience)
	e.add(k("held_item"), r.Growth.HeldItem)
	e.add(k("friendship"), r.Growth.Friendship)
	e.add(k("moves"), joinInts(r.Attacks.Moves[:]))
	ivs := r.IVs()
	e.add(k("ivs"), joinInts(ivs[:]))
	e.add(k("egg"), r.IsEgg())
	e.add(k("shiny"), r.Shiny())
	e.add(k("ability_slot"), r.AbilitySlot())
	e.add(k("ball"), r.Ball())
	e.add(k("met_level"), r.MetLevel())
	e.add(k("markings"), r.Markings)
}

func joinInts[T uint8 | uint16](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, listSep)
}

func genderName(g uint8) string {
	if g == 1 {
		return "female"
	}
	return "male"
}

func playTime(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// WriteText writes one key=value per line. Backslashes and newlines in
// values are escaped so every pair stays on one line.
func WriteText(w io.Writer, pairs []Pair) error {
	var buf bytes.Buffer
	for _, p := range pairs {
		buf.WriteString(p.Key)
		buf.WriteString(assign)
		buf.WriteString(escapeValue(p.Value))
		buf.WriteString(newline)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

var valueEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)

func escapeValue(s string) string { return valueEscaper.Replace(s) }

// WriteJSON writes the pairs as one JSON object whose keys keep dump order.
func WriteJSON(w io.Writer, pairs []Pair) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(newline + "  ")
		k, err := json.Marshal(p.Key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
	}
	buf.WriteString(newline + "}" + newline)
	_, err := w.Write(buf.Bytes())
	return err
}
