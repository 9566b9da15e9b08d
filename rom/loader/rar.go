package loader

import (
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the first ROM file from a RAR archive. RAR has
// no usable central directory, so members are read in stream order.
func extractFromRAR(path string, extensions []string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()
	return pickImage(streamed(func() (member, error) {
		h, err := r.Next()
		if err == io.EOF {
			return member{}, err
		}
		if err != nil {
			return member{}, fmt.Errorf("failed to read rar entry: %w", err)
		}
		return member{name: h.Name, dir: h.IsDir, open: current(r)}, nil
	}), extensions)
}
