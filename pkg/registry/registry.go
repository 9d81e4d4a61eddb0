// pkg/registry/registry.go
package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/ulikunitz/xz"
)

// UnknownName is the name reported for extensions missing from the table
const UnknownName = "unknown type"

var (
	// ErrUnknownID is returned when no record carries the requested id
	ErrUnknownID = errors.New("extension id not found in registry")
	// ErrEmptyRegistry is returned when a table declares no extensions
	ErrEmptyRegistry = errors.New("registry has no extensions")
)

//go:embed extensions.toml
var embeddedTable []byte

// Extension describes one known file extension
type Extension struct {
	ID             string   `toml:"id" json:"id"`
	Extension      string   `toml:"extension" json:"extension"`
	Name           string   `toml:"name" json:"name"`
	Category       Category `toml:"category" json:"category"`
	Description    string   `toml:"description" json:"description,omitempty"`
	FurtherReading string   `toml:"further_reading" json:"further_reading,omitempty"`
	PreferredMIME  string   `toml:"preferred_mime" json:"preferred_mime,omitempty"`
	MIME           []string `toml:"mime" json:"mime,omitempty"`
}

// AlternateMIMEs returns the MIME types other than the preferred one
func (e Extension) AlternateMIMEs() []string {
	var out []string
	for _, m := range e.MIME {
		if m != e.PreferredMIME {
			out = append(out, m)
		}
	}
	return out
}

type table struct {
	Extensions []Extension `toml:"extensions"`
}

// Registry is an immutable extension table, safe for concurrent reads
type Registry struct {
	records []Extension
	byExt   map[string]int
	byID    map[string]int
}

// Parse builds a registry from TOML text
func Parse(data []byte) (*Registry, error) {
	var t table
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&t); err != nil {
		return nil, fmt.Errorf("parse extensions table: %w", err)
	}
	if len(t.Extensions) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		records: t.Extensions,
		byExt:   make(map[string]int, len(t.Extensions)),
		byID:    make(map[string]int, len(t.Extensions)),
	}
	// first record wins for duplicate keys
	for i, e := range r.records {
		if key := normalize(e.Extension); key != "" {
			if _, dup := r.byExt[key]; !dup {
				r.byExt[key] = i
			}
		}
		if e.ID != "" {
			if _, dup := r.byID[e.ID]; !dup {
				r.byID[e.ID] = i
			}
		}
	}
	return r, nil
}

// Load reads a registry file. Files ending in .xz are decompressed first.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extensions file: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz extensions file: %w", err)
		}
		src = xr
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read extensions file: %w", err)
	}
	return Parse(data)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry compiled into the binary
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(embeddedTable)
		if err != nil {
			panic(fmt.Sprintf("embedded extensions table: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Len returns the number of records
func (r *Registry) Len() int {
	return len(r.records)
}

// Find returns the record for ext, ignoring case and a leading dot
func (r *Registry) Find(ext string) (Extension, bool) {
	i, ok := r.byExt[normalize(ext)]
	if !ok {
		return Extension{}, false
	}
	return r.records[i], true
}

// Lookup is Find with a fallback: unknown extensions yield a record named
// UnknownName in CategoryOther.
func (r *Registry) Lookup(ext string) Extension {
	if e, ok := r.Find(ext); ok {
		return e
	}
	return Extension{
		Extension: normalize(ext),
		Name:      UnknownName,
		Category:  CategoryOther,
	}
}

// NameFor returns the display name of ext
func (r *Registry) NameFor(ext string) string {
	return r.Lookup(ext).Name
}

// ExtensionFor returns the extension registered under id
func (r *Registry) ExtensionFor(id string) (string, error) {
	i, ok := r.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	return r.records[i].Extension, nil
}

func normalize(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
