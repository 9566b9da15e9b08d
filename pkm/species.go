package pkm

// NationalDexSize is the number of species the Pokédex tracks.
const NationalDexSize = 386

// Internal species numbers up to 251 equal the national number. 252-276
// are unused placeholders, and the Hoenn species from 277 on are stored
// in a different order.
const (
	lastKantoJohto = 251
	firstHoenn     = 277
)

// hoennNational maps internal numbers 277 and up to national numbers.
var hoennNational = [...]uint16{
	252, 253, 254, 255, 256, 257, 258, 259, 260, 261,
	262, 263, 264, 265, 266, 267, 268, 269, 270, 271,
	272, 273, 274, 275, 290, 291, 292, 276, 277, 285,
	286, 327, 278, 279, 283, 284, 320, 321, 300, 301,
	352, 343, 344, 299, 324, 302, 339, 340, 370, 341,
	342, 349, 350, 318, 319, 328, 329, 330, 296, 297,
	309, 310, 322, 323, 363, 364, 365, 331, 332, 361,
	362, 337, 338, 298, 325, 326, 311, 312, 303, 307,
	308, 333, 334, 360, 355, 356, 315, 287, 288, 289,
	316, 317, 357, 293, 294, 295, 366, 367, 368, 359,
	353, 354, 336, 335, 369, 304, 305, 306, 351, 313,
	314, 345, 346, 347, 348, 280, 281, 282, 371, 372,
	373, 374, 375, 376, 377, 378, 379, 382, 383, 384,
	380, 381, 385, 386, 358,
}

// NationalNumber converts an internal species number to its national
// Pokédex number. ok is false for 0, the placeholder range and values past
// the last species.
func NationalNumber(internal uint16) (n uint16, ok bool) {
	switch {
	case internal == 0:
		return 0, false
	case internal <= lastKantoJohto:
		return internal, true
	case internal < firstHoenn:
		return 0, false
	case int(internal-firstHoenn) < len(hoennNational):
		return hoennNational[internal-firstHoenn], true
	default:
		return 0, false
	}
}

// InternalNumber is the inverse of NationalNumber.
func InternalNumber(national uint16) (uint16, bool) {
	switch {
	case national == 0 || national > NationalDexSize:
		return 0, false
	case national <= lastKantoJohto:
		return national, true
	}
	for i, n := range hoennNational {
		if n == national {
			return uint16(firstHoenn + i), true
		}
	}
	return 0, false
}

// National returns the record's national Pokédex number, or 0 when the
// species is not a real one.
func (r *Record) National() uint16 {
	n, _ := NationalNumber(r.Growth.Species)
	return n
}
