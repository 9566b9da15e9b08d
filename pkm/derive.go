package pkm

var natureNames = [25]string{
	"Hardy", "Lonely", "Brave", "Adamant", "Naughty",
	"Bold", "Docile", "Relaxed", "Impish", "Lax",
	"Timid", "Hasty", "Serious", "Jolly", "Naive",
	"Modest", "Mild", "Quiet", "Bashful", "Rash",
	"Calm", "Gentle", "Sassy", "Careful", "Quirky",
}

// Nature returns personality % 25.
func (r *Record) Nature() int { return int(r.Personality % 25) }

// NatureName returns the English name of the nature.
func (r *Record) NatureName() string { return natureNames[r.Nature()] }

// TrainerID returns the OT's public id.
func (r *Record) TrainerID() uint16 { return uint16(r.OTID) }

// SecretID returns the OT's secret id.
func (r *Record) SecretID() uint16 { return uint16(r.OTID >> 16) }

// Shiny reports whether the record is shiny for its own OT.
func (r *Record) Shiny() bool {
	x := uint16(r.OTID) ^ uint16(r.OTID>>16) ^ uint16(r.Personality) ^ uint16(r.Personality>>16)
	return x < 8
}

// GenderValue is the low byte of the personality, compared against a
// species' gender threshold.
func (r *Record) GenderValue() uint8 { return uint8(r.Personality) }

// Gender classifies the record for a species threshold: 0 always male,
// 254 always female, 255 genderless; otherwise values below the threshold
// are female.
func (r *Record) Gender(threshold uint8) string {
	switch threshold {
	case 255:
		return "genderless"
	case 254:
		return "female"
	case 0:
		return "male"
	}
	if r.GenderValue() < threshold {
		return "female"
	}
	return "male"
}

// IVs unpacks HP, Attack, Defense, Speed, Sp. Attack and Sp. Defense.
func (r *Record) IVs() [6]uint8 {
	var out [6]uint8
	for i := range out {
		out[i] = uint8(r.Misc.IVs>>(5*i)) & 0x1F
	}
	return out
}

// IsEgg reports the egg bit of the IV word.
func (r *Record) IsEgg() bool { return r.Misc.IVs&(1<<30) != 0 }

// AbilitySlot returns 0 or 1.
func (r *Record) AbilitySlot() int { return int(r.Misc.IVs >> 31) }

// MetLevel returns the level the record was met at; 0 means hatched.
func (r *Record) MetLevel() int { return int(r.Misc.Origins & 0x7F) }

// OriginGame returns the version id the record was caught in.
func (r *Record) OriginGame() int { return int(r.Misc.Origins>>7) & 0xF }

// Ball returns the ball id the record was caught in.
func (r *Record) Ball() int { return int(r.Misc.Origins>>11) & 0xF }

// OTGender returns 0 for male and 1 for female.
func (r *Record) OTGender() int { return int(r.Misc.Origins >> 15) }

// Level returns the cached party level, or 0 when the record carries no
// party stats.
func (r *Record) Level() int {
	if r.Party == nil {
		return 0
	}
	return int(r.Party.Level)
}
