//go:build !unix

// Package mmfile maps read-only input files, such as cartridge images,
// into memory.
package mmfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrTooLarge is returned when the file exceeds the caller's limit.
var ErrTooLarge = errors.New("mmfile: file exceeds size limit")

// Map reads the entire file when mmap is not available.
func Map(path string, limit int64) ([]byte, func() error, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.Size() > limit {
		return nil, nil, fmt.Errorf("%s (%d bytes): %w", path, info.Size(), ErrTooLarge)
	}
	return readAll(path, limit)
}
