// Package rom fingerprints cartridge images and resolves them to a
// (title, region, revision) identity.
//
// Identification is a pure function over the image bytes. A content hash
// is looked up in a Catalog of known-good dumps first; on a miss the
// cartridge header's game code and revision are used with lower
// confidence. Anything else is reported as unidentified rather than
// guessed.
package rom

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash/crc32"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/internal/logger"
	"github.com/joshuapare/gen3kit/pkg/types"
)

// Confidence grades how an identity was reached.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // unidentified
	ConfidenceHeader                   // game code and revision only
	ConfidenceExact                    // byte-exact catalog hit
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceExact:
		return "exact"
	case ConfidenceHeader:
		return "header"
	default:
		return "none"
	}
}

// MarshalText lets Confidence print by name in JSON output.
func (c Confidence) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Fingerprint is the immutable result of identifying one image.
type Fingerprint struct {
	SHA1       string // lowercase hex
	CRC32      uint32
	Size       int
	Header     Header
	Identity   types.Identity
	Confidence Confidence
}

// Identified reports whether either lookup matched.
func (f Fingerprint) Identified() bool { return f.Confidence != ConfidenceNone }

// Err returns ErrUnidentifiedRom for an unidentified fingerprint and nil
// otherwise. Callers that can proceed without an identity may ignore it.
func (f Fingerprint) Err() error {
	if f.Identified() {
		return nil
	}
	return types.Errorf(types.ErrKindUnidentifiedRom, nil,
		"rom %s (code %q) is not in the catalog", f.SHA1, f.Header.GameCode)
}

// Identify fingerprints data against the default catalog.
func Identify(data []byte) (Fingerprint, error) {
	return DefaultCatalog().Identify(data)
}

// Identify fingerprints data. It fails only with UnreadableRom; an
// unrecognised image returns a fingerprint with ConfidenceNone.
func (c *Catalog) Identify(data []byte) (Fingerprint, error) {
	if len(data) < format.ROMHeaderSize {
		return Fingerprint{}, types.Errorf(types.ErrKindUnreadableRom, nil,
			"rom is %d bytes, header needs %d", len(data), format.ROMHeaderSize)
	}
	sum := sha1.Sum(data)
	fp := Fingerprint{
		SHA1:   hex.EncodeToString(sum[:]),
		CRC32:  crc32.ChecksumIEEE(data),
		Size:   len(data),
		Header: parseHeader(data),
	}

	if id, ok := c.Lookup(fp.SHA1); ok {
		fp.Identity, fp.Confidence = id, ConfidenceExact
	} else if id, ok := fp.Header.Identity(); ok {
		fp.Identity, fp.Confidence = id, ConfidenceHeader
	}

	logger.L.Debug("rom identified",
		"sha1", fp.SHA1,
		"code", fp.Header.GameCode,
		"identity", fp.Identity.String(),
		"confidence", fp.Confidence.String())
	return fp, nil
}

func (f Fingerprint) String() string {
	if !f.Identified() {
		return fmt.Sprintf("unidentified (%s)", f.SHA1)
	}
	return fmt.Sprintf("%s [%s]", f.Identity, f.Confidence)
}
