// Package text implements the fixed-width single-byte text encodings used
// for names in Generation 3 saves.
//
// Each Charset is a golang.org/x/text encoding.Encoding, so it composes with
// transform.Reader and friends the same way charmap.Windows1252 does. Unlike
// the charmap encodings, a byte or rune without a mapping is an error; it is
// never replaced with a substitute glyph.
package text

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/joshuapare/gen3kit/pkg/types"
)

// Terminator ends a string that is shorter than its field.
const Terminator = 0xFF

// Charset is one regional glyph table.
type Charset struct {
	name    string
	toRune  [256]rune // -1 when unmapped
	toByte  map[rune]byte
	defined int
}

var _ encoding.Encoding = (*Charset)(nil)

func newCharset(name string, glyphs map[byte]rune) *Charset {
	c := &Charset{name: name, toByte: make(map[rune]byte, len(glyphs))}
	for i := range c.toRune {
		c.toRune[i] = -1
	}
	for b, r := range glyphs {
		if _, dup := c.toByte[r]; dup {
			panic(fmt.Sprintf("text: %s maps %q twice", name, r))
		}
		c.toRune[b] = r
		c.toByte[r] = b
		c.defined++
	}
	return c
}

var (
	// International is used by every non-Japanese release.
	International = newCharset("International", internationalGlyphs)
	// Japanese is used by Japanese releases and records tagged Japanese.
	Japanese = newCharset("Japanese", japaneseGlyphs)
)

// Language tags stored in creature records.
const (
	LangJapanese uint8 = 1
	LangEnglish  uint8 = 2
	LangFrench   uint8 = 3
	LangItalian  uint8 = 4
	LangGerman   uint8 = 5
	LangSpanish  uint8 = 7
)

// ForLanguage selects the charset for a record's language tag.
func ForLanguage(lang uint8) *Charset {
	if lang == LangJapanese {
		return Japanese
	}
	return International
}

// ForRegion selects the charset a release uses for its own strings.
func ForRegion(r types.Region) *Charset {
	if r == types.RegionJapan {
		return Japanese
	}
	return International
}

func (c *Charset) String() string { return c.name }

// Len returns how many byte values have a glyph.
func (c *Charset) Len() int { return c.defined }

// DecodeByte returns the glyph for b.
func (c *Charset) DecodeByte(b byte) (rune, bool) {
	r := c.toRune[b]
	return r, r >= 0
}

// EncodeRune returns the byte for r. r should already be NFC-normalized.
func (c *Charset) EncodeRune(r rune) (byte, bool) {
	b, ok := c.toByte[r]
	return b, ok
}

// NewDecoder returns a decoder from this charset to UTF-8.
func (c *Charset) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: decoder{c: c}}
}

// NewEncoder returns an encoder from UTF-8 to this charset. Input is
// normalized to NFC first, so decomposed accents and dakuten still map.
func (c *Charset) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: transform.Chain(norm.NFC, encoder{c: c})}
}

func (c *Charset) badByte(b byte) error {
	return types.Errorf(types.ErrKindInvalidCharacterCode, nil, "byte 0x%02X has no %s glyph", b, c.name)
}

func (c *Charset) badRune(r rune) error {
	return types.Errorf(types.ErrKindInvalidCharacterCode, nil, "%q (U+%04X) has no %s byte", r, r, c.name)
}

type decoder struct {
	transform.NopResetter
	c *Charset
}

func (d decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r := d.c.toRune[src[nSrc]]
		if r < 0 {
			return nDst, nSrc, d.c.badByte(src[nSrc])
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return nDst, nSrc, nil
}

type encoder struct {
	transform.NopResetter
	c *Charset
}

func (e encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size <= 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, types.Errorf(types.ErrKindInvalidCharacterCode, nil, "invalid UTF-8 at byte %d", nSrc)
		}
		b, ok := e.c.toByte[r]
		if !ok {
			return nDst, nSrc, e.c.badRune(r)
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc += size
	}
	return nDst, nSrc, nil
}
