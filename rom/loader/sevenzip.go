package loader

import (
	"fmt"

	"github.com/bodgit/sevenzip"
)

// extractFrom7z extracts the first ROM file from a 7z archive
func extractFrom7z(path string, extensions []string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()
	return pickImage(listed(r.File, func(f *sevenzip.File) member {
		return member{name: f.Name, dir: f.FileInfo().IsDir(), open: f.Open}
	}), extensions)
}
