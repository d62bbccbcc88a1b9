package catalog

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"patchwork/internal/domain"
)

//go:embed patches.schema.json
var schemaJSON []byte

const schemaURL = "patches.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

var ErrInvalidCatalog = errors.New("invalid patch catalog")

// Entry is one patch as written in the catalog file.
type Entry struct {
	ID     int      `json:"id"`
	Cost   int      `json:"cost"`
	Time   int      `json:"time"`
	Income int      `json:"income"`
	Shape  []string `json:"shape"`
	Asset  string   `json:"asset,omitempty"`
	Base   bool     `json:"base,omitempty"`
}

type document struct {
	Version int     `json:"version"`
	Patches []Entry `json:"patches"`
}

// Catalog is a parsed, validated patch set.
type Catalog struct {
	Version int
	Patches []domain.Patch
	Digest  string // sha256 of the raw file

	base map[int]bool
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Load reads and parses a catalog file.
func Load(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read patch catalog: %w", err)
	}
	return Parse(raw)
}

// Parse validates raw against the catalog schema and builds the patches.
// Any bad entry aborts the whole catalog.
func Parse(raw []byte) (Catalog, error) {
	s, err := compiledSchema()
	if err != nil {
		return Catalog{}, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := s.Validate(generic); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	cat := Catalog{
		Version: doc.Version,
		Patches: make([]domain.Patch, 0, len(doc.Patches)),
		base:    make(map[int]bool, len(doc.Patches)),
	}
	for i, e := range doc.Patches {
		shape, err := domain.ParseShape(e.Shape)
		if err != nil {
			return Catalog{}, fmt.Errorf("%w: entry %d: %w", ErrInvalidCatalog, i, err)
		}
		if shape.Area() == 0 {
			return Catalog{}, fmt.Errorf("%w: entry %d: %w: no occupied cell", ErrInvalidCatalog, i, domain.ErrMalformedPatch)
		}
		p, err := domain.NewPatch(e.ID, shape, e.Cost, e.Time, e.Income, e.Asset)
		if err != nil {
			return Catalog{}, fmt.Errorf("%w: entry %d: %w", ErrInvalidCatalog, i, err)
		}
		cat.Patches = append(cat.Patches, p)
		if e.Base {
			cat.base[p.ID] = true
		}
	}
	if err := domain.ValidateCatalog(cat.Patches); err != nil {
		return Catalog{}, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	sum := sha256.Sum256(raw)
	cat.Digest = hex.EncodeToString(sum[:])
	return cat, nil
}

// Select returns every patch, or only those flagged base.
func (c Catalog) Select(baseOnly bool) []domain.Patch {
	if !baseOnly {
		return append([]domain.Patch(nil), c.Patches...)
	}
	out := make([]domain.Patch, 0, len(c.base))
	for _, p := range c.Patches {
		if c.base[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
