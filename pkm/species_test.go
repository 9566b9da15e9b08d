package pkm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNationalNumber(t *testing.T) {
	tests := []struct {
		internal uint16
		national uint16
		ok       bool
	}{
		{0, 0, false},
		{1, 1, true},
		{251, 251, true},
		{252, 0, false},
		{276, 0, false},
		{277, 252, true}, // Treecko
		{280, 255, true}, // Torchic
		{304, 276, true}, // Taillow
		{373, 366, true}, // Clamperl
		{392, 280, true}, // Ralts
		{410, 386, true}, // Deoxys
		{411, 358, true}, // Chimecho
		{412, 0, false},
	}
	for _, tt := range tests {
		got, ok := NationalNumber(tt.internal)
		assert.Equal(t, tt.ok, ok, tt.internal)
		assert.Equal(t, tt.national, got, tt.internal)
	}
}

func TestNationalNumberIsABijection(t *testing.T) {
	seen := make(map[uint16]bool)
	for _, n := range hoennNational {
		require.False(t, seen[n], "national %d listed twice", n)
		seen[n] = true
		assert.GreaterOrEqual(t, n, uint16(lastKantoJohto+1))
		assert.LessOrEqual(t, n, uint16(NationalDexSize))
	}
	assert.Len(t, seen, NationalDexSize-lastKantoJohto)

	for n := uint16(1); n <= NationalDexSize; n++ {
		internal, ok := InternalNumber(n)
		require.True(t, ok, n)
		back, ok := NationalNumber(internal)
		require.True(t, ok, n)
		assert.Equal(t, n, back)
	}
	_, ok := InternalNumber(NationalDexSize + 1)
	assert.False(t, ok)
}

func TestTradeEvolution(t *testing.T) {
	tests := []struct {
		name     string
		internal uint16
		item     uint16
		egg      bool
		to       uint16
		ok       bool
	}{
		{"no item needed", 64, 0, false, 65, true},
		{"no item needed with item", 93, 13, false, 94, true},
		{"item missing", 95, 0, false, 0, false},
		{"item present", 95, ItemMetalCoat, false, 208, true},
		{"wrong item", 61, ItemMetalCoat, false, 0, false},
		{"clamperl tooth", 373, ItemDeepSeaTooth, false, 367, true},
		{"clamperl scale", 373, ItemDeepSeaScale, false, 368, true},
		{"clamperl bare", 373, 0, false, 0, false},
		{"egg", 64, 0, true, 0, false},
		{"ordinary", 25, 0, false, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleRecord(pidWithOrder(3))
			r.Growth.Species, r.Growth.HeldItem = tt.internal, tt.item
			if tt.egg {
				r.Misc.IVs |= 1 << 30
			}
			e, ok := r.TradeEvolution()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.to, e.To)
		})
	}
}
