package pkm

// Held item ids that trade evolutions consume.
const (
	ItemKingsRock    uint16 = 187
	ItemDeepSeaTooth uint16 = 192
	ItemDeepSeaScale uint16 = 193
	ItemMetalCoat    uint16 = 199
	ItemDragonScale  uint16 = 201
	ItemUpGrade      uint16 = 218
)

// TradeEvolution is an evolution that happens when a creature is traded.
// Species numbers are national.
type TradeEvolution struct {
	From uint16
	To   uint16
	// Item is the held item that must be present and is consumed, or 0.
	Item uint16
}

var tradeEvolutions = map[uint16][]TradeEvolution{
	64:  {{From: 64, To: 65}}, // Kadabra
	67:  {{From: 67, To: 68}}, // Machoke
	75:  {{From: 75, To: 76}}, // Graveler
	93:  {{From: 93, To: 94}}, // Haunter
	61:  {{From: 61, To: 186, Item: ItemKingsRock}},
	79:  {{From: 79, To: 199, Item: ItemKingsRock}},
	95:  {{From: 95, To: 208, Item: ItemMetalCoat}},
	123: {{From: 123, To: 212, Item: ItemMetalCoat}},
	117: {{From: 117, To: 230, Item: ItemDragonScale}},
	137: {{From: 137, To: 233, Item: ItemUpGrade}},
	366: { // Clamperl
		{From: 366, To: 367, Item: ItemDeepSeaTooth},
		{From: 366, To: 368, Item: ItemDeepSeaScale},
	},
}

// TradeEvolutionFor returns the evolution a national species holding item
// undergoes when traded.
func TradeEvolutionFor(national, item uint16) (TradeEvolution, bool) {
	for _, e := range tradeEvolutions[national] {
		if e.Item == 0 || e.Item == item {
			return e, true
		}
	}
	return TradeEvolution{}, false
}

// TradeEvolution reports whether trading r would evolve it. Eggs never do.
func (r *Record) TradeEvolution() (TradeEvolution, bool) {
	if r.IsEgg() || r.IsEmpty() {
		return TradeEvolution{}, false
	}
	return TradeEvolutionFor(r.National(), r.Growth.HeldItem)
}
