package text

// Glyph tables. Bytes not listed have no printable glyph (control codes,
// multi-tile symbols, unused cells) and fail to decode.

var internationalGlyphs = func() map[byte]rune {
	m := map[byte]rune{
		0x00: ' ',
		0x01: 'À', 0x02: 'Á', 0x03: 'Â', 0x04: 'Ç', 0x05: 'È', 0x06: 'É', 0x07: 'Ê', 0x08: 'Ë',
		0x09: 'Ì', 0x0B: 'Î', 0x0C: 'Ï', 0x0D: 'Ò', 0x0E: 'Ó', 0x0F: 'Ô', 0x10: 'Œ', 0x11: 'Ù',
		0x12: 'Ú', 0x13: 'Û', 0x14: 'Ñ', 0x15: 'ß', 0x16: 'à', 0x17: 'á', 0x19: 'ç', 0x1A: 'è',
		0x1B: 'é', 0x1C: 'ê', 0x1D: 'ë', 0x1E: 'ì', 0x20: 'î', 0x21: 'ï', 0x22: 'ò', 0x23: 'ó',
		0x24: 'ô', 0x25: 'œ', 0x26: 'ù', 0x27: 'ú', 0x28: 'û', 0x29: 'ñ', 0x2A: 'º', 0x2B: 'ª',
		0x2D: '&', 0x2E: '+', 0x35: '=', 0x36: ';',
		0x51: '¿', 0x52: '¡', 0x5A: 'Í', 0x5B: '%', 0x5C: '(', 0x5D: ')',
		0x68: 'â', 0x6F: 'í',
		0x79: '↑', 0x7A: '↓', 0x7B: '←', 0x7C: '→',
		0x85: '<', 0x86: '>',
		0xAB: '!', 0xAC: '?', 0xAD: '.', 0xAE: '-', 0xAF: '·', 0xB0: '…',
		0xB1: '“', 0xB2: '”', 0xB3: '‘', 0xB4: '\'', 0xB5: '♂', 0xB6: '♀', 0xB7: '¥', 0xB8: ',',
		0xB9: '×', 0xBA: '/',
		0xEF: '▶', 0xF0: ':',
		0xF1: 'Ä', 0xF2: 'Ö', 0xF3: 'Ü', 0xF4: 'ä', 0xF5: 'ö', 0xF6: 'ü',
	}
	for d := 0; d < 10; d++ {
		m[byte(0xA1+d)] = '0' + rune(d)
	}
	for c := 0; c < 26; c++ {
		m[byte(0xBB+c)] = 'A' + rune(c)
		m[byte(0xD5+c)] = 'a' + rune(c)
	}
	return m
}()

const (
	hiragana = "あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろわをん" +
		"ぁぃぅぇぉゃゅょがぎぐげござじずぜぞだぢづでどばびぶべぼぱぴぷぺぽっ"
	katakana = "アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワヲン" +
		"ァィゥェォャュョガギグゲゴザジズゼゾダヂヅデドバビブベボパピプペポッ"
)

var japaneseGlyphs = func() map[byte]rune {
	m := map[byte]rune{
		0x00: '　',
		0xAB: '！', 0xAC: '？', 0xAD: '。', 0xAE: 'ー', 0xAF: '・', 0xB0: '‥',
		0xB1: '『', 0xB2: '』', 0xB3: '「', 0xB4: '」', 0xB5: '♂', 0xB6: '♀', 0xB7: '円',
		0xB8: '．', 0xB9: '×', 0xBA: '／',
		0xEF: '▶', 0xF0: '：',
		0xF1: 'Ä', 0xF2: 'Ö', 0xF3: 'Ü', 0xF4: 'ä', 0xF5: 'ö', 0xF6: 'ü',
	}
	i := 0
	for _, r := range hiragana {
		m[byte(0x01+i)] = r
		i++
	}
	i = 0
	for _, r := range katakana {
		m[byte(0x51+i)] = r
		i++
	}
	for d := 0; d < 10; d++ {
		m[byte(0xA1+d)] = '０' + rune(d)
	}
	for c := 0; c < 26; c++ {
		m[byte(0xBB+c)] = 'Ａ' + rune(c)
		m[byte(0xD5+c)] = 'ａ' + rune(c)
	}
	return m
}()
