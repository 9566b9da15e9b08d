package rom

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/joshuapare/gen3kit/internal/logger"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/rom/loader"
)

// ScanResult is one candidate file found by Scan.
type ScanResult struct {
	Path        string
	Entry       string // image name inside an archive, or the file name
	Fingerprint Fingerprint
	Err         error // load or identify failure; Fingerprint is zero when set
}

// Scan walks dir recursively, loads every image or archive it finds and
// identifies it against c. Per-file failures are recorded in the result
// rather than aborting the walk. Results are sorted by path.
func (c *Catalog) Scan(ctx context.Context, dir string) ([]ScanResult, error) {
	var results []ScanResult
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !loader.IsCandidate(d.Name()) {
			return nil
		}
		results = append(results, c.scanFile(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

func (c *Catalog) scanFile(path string) ScanResult {
	res := ScanResult{Path: path, Entry: filepath.Base(path)}
	img, err := loader.Load(path)
	if err != nil {
		logger.L.Debug("rom scan: skip", "path", path, "err", err)
		res.Err = err
		return res
	}
	defer img.Close()
	res.Entry = img.Name
	res.Fingerprint, res.Err = c.Identify(img.Data)
	return res
}

// Best returns the result that should be used for title: exact catalog
// hits win over header matches, ties go to the first path.
func Best(results []ScanResult, title types.Title) (ScanResult, bool) {
	var (
		best  ScanResult
		found bool
	)
	for _, r := range results {
		if r.Err != nil || !r.Fingerprint.Identified() || r.Fingerprint.Identity.Title != title {
			continue
		}
		if !found || r.Fingerprint.Confidence > best.Fingerprint.Confidence {
			best, found = r, true
		}
	}
	return best, found
}
