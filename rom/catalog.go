package rom

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/gen3kit/pkg/types"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// ErrCatalogConflict is returned when a hash is re-added with a different identity.
var ErrCatalogConflict = errors.New("rom: catalog entry conflicts with existing hash")

// Entry is one catalog row as stored in YAML.
type Entry struct {
	SHA1     string `yaml:"sha1"`
	Title    string `yaml:"title"`
	Region   string `yaml:"region"`
	Revision uint8  `yaml:"revision"`
}

type catalogFile struct {
	Entries []Entry `yaml:"entries"`
}

// Catalog maps content hashes to identities. Entries can be added but
// never replaced or removed. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]types.Identity
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]types.Identity)}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the process-wide catalog seeded from the bundled
// table. Extra entries added to it are visible to later Identify calls.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = NewCatalog()
		if err := defaultCatalog.Decode(bytes.NewReader(builtinCatalog)); err != nil {
			panic(fmt.Sprintf("rom: bundled catalog: %v", err))
		}
	})
	return defaultCatalog
}

// Add records hash -> id. Re-adding an identical entry is a no-op.
func (c *Catalog) Add(sha1Hex string, id types.Identity) error {
	key := strings.ToLower(strings.TrimSpace(sha1Hex))
	if len(key) != 40 {
		return fmt.Errorf("rom: sha1 %q: want 40 hex digits", sha1Hex)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.entries[key]; ok {
		if prev != id {
			return fmt.Errorf("%w: %s is %s, not %s", ErrCatalogConflict, key, prev, id)
		}
		return nil
	}
	c.entries[key] = id
	return nil
}

// Lookup returns the identity recorded for a hex SHA-1.
func (c *Catalog) Lookup(sha1Hex string) (types.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.entries[strings.ToLower(sha1Hex)]
	return id, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns the catalog sorted by title, region, then revision.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	out := make([]Entry, 0, len(c.entries))
	for h, id := range c.entries {
		out = append(out, Entry{SHA1: h, Title: id.Title.String(), Region: id.Region.String(), Revision: id.Revision})
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Revision != b.Revision {
			return a.Revision < b.Revision
		}
		return a.SHA1 < b.SHA1
	})
	return out
}

// Decode adds every entry of a YAML catalog document. Entries before a
// failing one stay added.
func (c *Catalog) Decode(r io.Reader) error {
	var doc catalogFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("rom: decode catalog: %w", err)
	}
	for i, e := range doc.Entries {
		title, err := types.ParseTitle(e.Title)
		if err != nil {
			return fmt.Errorf("rom: catalog entry %d: %w", i, err)
		}
		region, err := types.ParseRegion(e.Region)
		if err != nil {
			return fmt.Errorf("rom: catalog entry %d: %w", i, err)
		}
		if err := c.Add(e.SHA1, types.Identity{Title: title, Region: region, Revision: e.Revision}); err != nil {
			return fmt.Errorf("rom: catalog entry %d: %w", i, err)
		}
	}
	return nil
}

// LoadFile merges a YAML catalog file into c.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("rom: open catalog: %w", err)
	}
	defer f.Close()
	return c.Decode(f)
}

// Encode writes c as a YAML catalog document.
func (c *Catalog) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Entries: c.Entries()}); err != nil {
		return err
	}
	return enc.Close()
}
