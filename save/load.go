package save

import (
	"fmt"
	"os"

	"github.com/joshuapare/gen3kit/internal/format"
	"github.com/joshuapare/gen3kit/internal/writer"
	"github.com/joshuapare/gen3kit/pkg/types"
	"github.com/joshuapare/gen3kit/save/layout"
)

// WithBackup makes Load keep a timestamped copy of the file before the
// first commit overwrites it.
func WithBackup(enabled bool) Option {
	return func(img *Image) { img.backup = enabled }
}

// Load reads the save at path and parses it with l. Unless another sink is
// supplied, commits are written back to path atomically.
func Load(path string, l layout.Layout, opts ...Option) (*Image, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open save: %w", err)
	}
	if st.Size() > format.SaveSizeRTC {
		return nil, types.Errorf(types.ErrKindCorruptSave, format.ErrTruncated,
			"%s: save size 0x%X exceeds 0x%X", path, st.Size(), format.SaveSizeRTC)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}

	var probe Image
	for _, opt := range opts {
		opt(&probe)
	}
	if probe.sink == nil {
		opts = append(opts, WithSink(&writer.FileWriter{Path: path, Backup: probe.backup}))
	}
	opts = append(opts, func(img *Image) { img.path = path })

	img, err := Parse(data, l, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Path returns the file the image was loaded from, or "" for in-memory images.
func (img *Image) Path() string { return img.path }
