package section

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/joshuapare/gen3kit/internal/logger"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/save"
	"github.com/joshuapare/gen3kit/save/layout"
)

// DetectFamily returns the families whose layout decodes data cleanly, in
// layout.Families order. Zero padding past a section's size makes Ruby and
// Sapphire saves checksum identically under the Emerald layout, so more than
// one family may match; callers that know the cartridge should prefer it.
func DetectFamily(data []byte) []types.Family {
	var out []types.Family
	for _, f := range layout.Families() {
		l, _ := layout.ForFamily(f)
		img, err := save.Parse(data, l)
		if err != nil {
			continue
		}
		if _, err := Open(img); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

// PreferFamily picks one family from DetectFamily's result. A genuine
// Emerald save carries data past the Ruby/Sapphire section sizes and so
// fails the RS layout; when both match, the save is Ruby or Sapphire.
func PreferFamily(candidates []types.Family) (types.Family, bool) {
	switch {
	case len(candidates) == 0:
		return types.FamilyUnknown, false
	case slices.Contains(candidates, types.FamilyRS):
		return types.FamilyRS, true
	default:
		return candidates[0], true
	}
}

// OpenBytes parses data with l and opens its sections. A save that only
// decodes under another family's layout fails with
// types.ErrSectionLayoutMismatch rather than ErrCorruptSave, so callers can
// tell a wrong title from a damaged file.
func OpenBytes(data []byte, l layout.Layout, opts ...save.Option) (*Sections, error) {
	img, err := save.Parse(data, l, opts...)
	if err != nil {
		return nil, reclassify(data, l, err)
	}
	return Open(img)
}

// OpenFile is OpenBytes for a save on disk; commits are written back to path.
func OpenFile(path string, l layout.Layout, opts ...save.Option) (*Sections, error) {
	img, err := save.Load(path, l, opts...)
	if err != nil {
		if errors.Is(err, types.ErrCorruptSave) {
			if raw, rerr := os.ReadFile(path); rerr == nil {
				return nil, reclassify(raw, l, err)
			}
		}
		return nil, err
	}
	s, err := Open(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func reclassify(data []byte, l layout.Layout, err error) error {
	if !errors.Is(err, types.ErrCorruptSave) {
		return err
	}
	others := DetectFamily(data)
	if len(others) == 0 {
		return err
	}
	logger.L.Debug("save decodes under another layout", "want", l.Family.String(), "got", fmt.Sprint(others))
	return types.Errorf(types.ErrKindSectionLayoutMismatch, err,
		"save does not match the %s layout but decodes as %v", l.Family, others)
}
