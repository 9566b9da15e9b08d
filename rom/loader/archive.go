package loader

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
)

// member is one file inside an archive. open is only valid until the walk
// moves past the member.
type member struct {
	name string
	dir  bool
	open func() (io.ReadCloser, error)
}

// pickImage reads the first member whose name carries an image extension.
func pickImage(members iter.Seq2[member, error], extensions []string) ([]byte, string, error) {
	for m, err := range members {
		if err != nil {
			return nil, "", err
		}
		if m.dir || !isROMFile(m.name, extensions) {
			continue
		}
		rc, err := m.open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", m.name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", m.name, err)
		}
		return data, filepath.Base(m.name), nil
	}
	return nil, "", ErrNoROMFile
}

// listed walks an archive with a central directory (zip, 7z).
func listed[F any](files []F, describe func(F) member) iter.Seq2[member, error] {
	return func(yield func(member, error) bool) {
		for _, f := range files {
			if !yield(describe(f), nil) {
				return
			}
		}
	}
}

// streamed walks a sequential archive (tar, rar). next returns io.EOF,
// possibly wrapped, after the last member.
func streamed(next func() (member, error)) iter.Seq2[member, error] {
	return func(yield func(member, error) bool) {
		for {
			m, err := next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(m, err) || err != nil {
				return
			}
		}
	}
}

// current exposes the stream position of a sequential reader as a member body.
func current(r io.Reader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) { return io.NopCloser(r), nil }
}
