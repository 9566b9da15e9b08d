package format

import (
	"bytes"
	"fmt"
)

// ROMHeader holds the identification fields of a GBA cartridge header.
type ROMHeader struct {
	Title      string
	GameCode   string
	Maker      string
	Version    uint8
	Complement uint8
	FixedOK    bool
}

// ParseROMHeader reads the header fields from the start of a ROM image.
func ParseROMHeader(b []byte) (ROMHeader, error) {
	if len(b) < ROMHeaderSize {
		return ROMHeader{}, fmt.Errorf("rom header: %w", ErrTruncated)
	}
	return ROMHeader{
		Title:      asciiField(b[ROMTitleOffset : ROMTitleOffset+ROMTitleSize]),
		GameCode:   asciiField(b[ROMGameCodeOffset : ROMGameCodeOffset+ROMGameCodeSize]),
		Maker:      asciiField(b[ROMMakerOffset : ROMMakerOffset+ROMMakerSize]),
		Version:    b[ROMVersionOffset],
		Complement: b[ROMComplementOffset],
		FixedOK:    b[ROMFixedOffset] == ROMFixedValue,
	}, nil
}

// ROMComplement computes the header complement check over 0xA0..0xBC.
func ROMComplement(b []byte) uint8 {
	var sum uint8
	for _, c := range b[ROMTitleOffset:ROMComplementOffset] {
		sum += c
	}
	return -sum - 0x19
}

// asciiField trims zero padding and trailing spaces from a fixed-width field.
func asciiField(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimRight(b, " "))
}
