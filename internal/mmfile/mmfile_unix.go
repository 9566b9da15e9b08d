//go:build unix

// Package mmfile maps read-only input files, such as cartridge images,
// into memory.
package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrTooLarge is returned when the file exceeds the caller's limit.
var ErrTooLarge = errors.New("mmfile: file exceeds size limit")

// Map maps the file at path read-only and returns its contents with a
// release function. Files larger than limit are refused before mapping.
func Map(path string, limit int64) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size > limit {
		return nil, nil, fmt.Errorf("%s (%d bytes): %w", path, size, ErrTooLarge)
	}
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		// Some filesystems (FUSE, procfs) refuse mmap; fall back to a read.
		return readAll(path, limit)
	}
	done := false
	release := func() error {
		if done {
			return nil
		}
		done = true
		return unix.Munmap(data)
	}
	return data, release, nil
}
