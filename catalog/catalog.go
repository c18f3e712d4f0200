// Package catalog holds the static tables of the Arturo standard library:
// builtin functions with their signatures, type names, units and named colors.
package catalog

import (
	"cmp"
	_ "embed"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed builtins.yaml
var builtinsYAML []byte

// ErrSignatureName is returned when a signature names a different builtin.
var ErrSignatureName = errors.New("catalog: signature name does not match builtin")

// Builtin describes one standard library function.
type Builtin struct {
	Name        string `yaml:"name"`
	Module      string `yaml:"module"`
	Signature   string `yaml:"signature"`
	Description string `yaml:"description"`
	Example     string `yaml:"example,omitempty"`

	// Parsed holds the parsed Signature.
	Parsed *Signature `yaml:"-"`
}

// Params returns the positional parameters of the builtin.
func (b *Builtin) Params() []Param {
	if b.Parsed == nil {
		return nil
	}

	return b.Parsed.Params
}

// Returns returns the possible result types of the builtin.
func (b *Builtin) Returns() []string {
	if b.Parsed == nil {
		return nil
	}

	return b.Parsed.Returns
}

type catalogFile struct {
	Builtins []*Builtin `yaml:"builtins"`
	Types    []string   `yaml:"types"`
	Units    []string   `yaml:"units"`
	Colors   []string   `yaml:"colors"`
}

// Catalog is a read-only lookup table. It is safe for concurrent use.
type Catalog struct {
	builtins map[string]*Builtin
	types    map[string]struct{}
	units    map[string]struct{}
	colors   map[string]struct{}
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}

	return c
})

// Default returns the catalog built from the embedded tables.
func Default() *Catalog {
	return defaultCatalog()
}

// Load builds a catalog from the embedded tables, then overlays each extra
// YAML file in order. Later definitions of a builtin replace earlier ones.
func Load(extra ...string) (*Catalog, error) {
	c := &Catalog{
		builtins: make(map[string]*Builtin),
		types:    make(map[string]struct{}),
		units:    make(map[string]struct{}),
		colors:   make(map[string]struct{}),
	}

	if err := c.merge(builtinsYAML); err != nil {
		return nil, errors.Wrap(err, "embedded catalog")
	}

	for _, path := range extra {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, errors.Wrapf(err, "read catalog %s", path)
		}

		if err := c.merge(data); err != nil {
			return nil, errors.Wrapf(err, "catalog %s", path)
		}
	}

	return c, nil
}

func (c *Catalog) merge(data []byte) error {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return errors.Wrap(err, "decode")
	}

	for _, b := range f.Builtins {
		if b.Signature != "" {
			sig, err := ParseSignature(b.Signature)
			if err != nil {
				return errors.Wrapf(err, "builtin %s", b.Name)
			}

			if sig.Name != b.Name {
				return errors.Wrapf(ErrSignatureName, "builtin %s: signature names %s", b.Name, sig.Name)
			}

			b.Parsed = sig
		}

		c.builtins[b.Name] = b
	}

	for _, t := range f.Types {
		c.types[t] = struct{}{}
	}

	for _, u := range f.Units {
		c.units[u] = struct{}{}
	}

	for _, col := range f.Colors {
		c.colors[col] = struct{}{}
	}

	return nil
}

// Builtin looks up a builtin by name.
func (c *Catalog) Builtin(name string) (*Builtin, bool) {
	b, ok := c.builtins[name]

	return b, ok
}

// IsBuiltin reports whether name is a builtin function.
func (c *Catalog) IsBuiltin(name string) bool {
	_, ok := c.builtins[name]

	return ok
}

// IsType reports whether name is a builtin type name (without the leading colon).
func (c *Catalog) IsType(name string) bool {
	_, ok := c.types[name]

	return ok
}

// IsUnit reports whether name is a physical unit.
func (c *Catalog) IsUnit(name string) bool {
	_, ok := c.units[name]

	return ok
}

// IsColor reports whether name is a named color.
func (c *Catalog) IsColor(name string) bool {
	_, ok := c.colors[name]

	return ok
}

// Builtins returns every builtin sorted by name.
func (c *Catalog) Builtins() []*Builtin {
	out := make([]*Builtin, 0, len(c.builtins))
	for _, b := range c.builtins {
		out = append(out, b)
	}

	slices.SortFunc(out, func(a, b *Builtin) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return out
}

// Types returns the builtin type names, sorted.
func (c *Catalog) Types() []string {
	return sortedKeys(c.types)
}

// Colors returns the named colors, sorted.
func (c *Catalog) Colors() []string {
	return sortedKeys(c.colors)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	slices.Sort(out)

	return out
}
