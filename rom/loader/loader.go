// Package loader extracts cartridge images from files on disk, including
// compressed archives (ZIP, 7z, gzip, tar.gz, RAR). Raw images are
// memory-mapped read-only.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/internal/mmfile"
)

// signatures are checked in order against the first bytes of a file.
var signatures = []struct {
	magic []byte
	kind  Kind
}{
	{[]byte{0x50, 0x4B, 0x03, 0x04}, KindZIP},
	{[]byte{0x50, 0x4B, 0x05, 0x06}, KindZIP}, // empty zip
	{[]byte("Rar!"), KindRAR},
	{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, Kind7z},
	{[]byte{0x1F, 0x8B}, KindGzip},
}

// archiveExts is the extension fallback when no signature matches.
var archiveExts = map[string]Kind{
	".zip": KindZIP,
	".7z":  Kind7z,
	".gz":  KindGzip,
	".tgz": KindGzip,
	".rar": KindRAR,
}

// MaxROMSize is the largest cartridge image accepted.
const MaxROMSize = format.ROMMaxSize

// Extensions are the file names treated as cartridge images.
var Extensions = []string{".gba", ".agb", ".bin"}

// ErrNoROMFile is returned when no ROM file is found in an archive
var ErrNoROMFile = errors.New("no ROM file found in archive")

// ErrUnsupportedFormat is returned for unrecognized file formats
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when extracted content exceeds size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// Kind is the detected container format.
type Kind int

const (
	KindUnknown Kind = iota
	KindRaw
	KindZIP
	Kind7z
	KindGzip
	KindRAR
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindZIP:
		return "zip"
	case Kind7z:
		return "7z"
	case KindGzip:
		return "gzip"
	case KindRAR:
		return "rar"
	default:
		return "unknown"
	}
}

// ROM is a loaded cartridge image. Call Close to release a mapped file.
type ROM struct {
	Data []byte
	Name string // basename of the image, inside the archive if any
	Kind Kind

	release func() error
}

// Close releases the image's memory mapping, if any. Data must not be used
// afterwards.
func (r *ROM) Close() error {
	if r.release == nil {
		return nil
	}
	err := r.release()
	r.release = nil
	return err
}

// Load reads a cartridge image from path, detecting archives by magic
// bytes first and by extension second.
func Load(path string) (*ROM, error) {
	return LoadWith(path, Extensions)
}

// LoadWith is Load with a custom list of image extensions.
func LoadWith(path string, extensions []string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	header := make([]byte, 16)
	n, err := f.Read(header)
	f.Close()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}

	kind := detectFormat(header[:n], path, extensions)
	var (
		data []byte
		name string
	)
	switch kind {
	case KindRaw:
		data, release, err := mmfile.Map(path, MaxROMSize)
		if errors.Is(err, mmfile.ErrTooLarge) {
			return nil, fmt.Errorf("%s: %w", path, ErrFileTooLarge)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ROM: %w", err)
		}
		return &ROM{Data: data, Name: filepath.Base(path), Kind: kind, release: release}, nil
	case KindZIP:
		data, name, err = extractFromZIP(path, extensions)
	case Kind7z:
		data, name, err = extractFrom7z(path, extensions)
	case KindGzip:
		data, name, err = extractFromGzip(path, extensions)
	case KindRAR:
		data, name, err = extractFromRAR(path, extensions)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}
	return &ROM{Data: data, Name: name, Kind: kind}, nil
}

// IsCandidate reports whether a directory entry could hold a cartridge
// image: a known image extension or a supported archive extension.
func IsCandidate(name string) bool {
	if isROMFile(name, Extensions) {
		return true
	}
	switch detectFormat(nil, name, nil) {
	case KindZIP, Kind7z, KindGzip, KindRAR:
		return true
	}
	return false
}

// detectFormat classifies a file by its leading bytes, then by extension.
func detectFormat(header []byte, path string, extensions []string) Kind {
	for _, sig := range signatures {
		if bytes.HasPrefix(header, sig.magic) {
			return sig.kind
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if k, ok := archiveExts[ext]; ok {
		return k
	}
	if slices.ContainsFunc(extensions, func(e string) bool { return strings.EqualFold(e, ext) }) {
		return KindRaw
	}
	return KindUnknown
}

// isROMFile reports whether name ends in one of extensions, ignoring case.
func isROMFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.HasSuffix(lower, strings.ToLower(e))
	})
}

// limitedRead reads from r up to MaxROMSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, MaxROMSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
