package loader

import (
	"archive/zip"
	"fmt"
)

// extractFromZIP extracts the first ROM file from a ZIP archive
func extractFromZIP(path string, extensions []string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()
	return pickImage(listed(r.File, func(f *zip.File) member {
		return member{name: f.Name, dir: f.FileInfo().IsDir(), open: f.Open}
	}), extensions)
}
