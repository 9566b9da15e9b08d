package mmfile

import (
	"fmt"
	"os"
)

func readAll(path string, limit int64) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if int64(len(data)) > limit {
		return nil, nil, fmt.Errorf("%s (%d bytes): %w", path, len(data), ErrTooLarge)
	}
	return data, func() error { return nil }, nil
}
