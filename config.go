package arturo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the .arturo-ls configuration file.
//
// The same structure is accepted as YAML, TOML, or as the JSON "settings"
// object an editor forwards in initializationOptions.
type Config struct {
	Diagnostics DiagnosticsConfig `yaml:"diagnostics" toml:"diagnostics" json:"diagnostics"`
	InlayHints  InlayHintsConfig  `yaml:"inlayHints" toml:"inlayHints" json:"inlayHints"`
	Format      FormatConfig      `yaml:"format" toml:"format" json:"format"`
	Lexical     LexicalConfig     `yaml:"lexical" toml:"lexical" json:"lexical"`
	Features    FeaturesConfig    `yaml:"features" toml:"features" json:"features"`

	// Catalog is an optional YAML file with extra builtin definitions.
	Catalog string `yaml:"catalog,omitempty" toml:"catalog,omitempty" json:"catalog,omitempty"`

	// Exclude lists doublestar globs skipped by the check command.
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty"`
}

// DiagnosticsConfig toggles the diagnostic rules.
type DiagnosticsConfig struct {
	Undefined    bool `yaml:"undefined" toml:"undefined" json:"undefined"`
	TypeMismatch bool `yaml:"typeMismatch" toml:"typeMismatch" json:"typeMismatch"`
	Brackets     bool `yaml:"brackets" toml:"brackets" json:"brackets"`

	// CheckInsideBlocks resolves identifiers inside [...] blocks as well.
	CheckInsideBlocks bool `yaml:"checkInsideBlocks" toml:"checkInsideBlocks" json:"checkInsideBlocks"`

	// Suggestions appends "did you mean" hints to undefined-identifier warnings.
	Suggestions bool `yaml:"suggestions" toml:"suggestions" json:"suggestions"`

	// Suppress holds expr predicates; a diagnostic matching any of them is dropped.
	Suppress []string `yaml:"suppress,omitempty" toml:"suppress,omitempty" json:"suppress,omitempty"`
}

// InlayHintsConfig toggles the inlay hint kinds.
type InlayHintsConfig struct {
	Parameters bool `yaml:"parameters" toml:"parameters" json:"parameters"`
	Types      bool `yaml:"types" toml:"types" json:"types"`
}

// FormatConfig controls the source formatter.
type FormatConfig struct {
	UseTabs       bool `yaml:"useTabs" toml:"useTabs" json:"useTabs"`
	IndentSize    int  `yaml:"indentSize" toml:"indentSize" json:"indentSize"`
	MaxBlankLines int  `yaml:"maxBlankLines" toml:"maxBlankLines" json:"maxBlankLines"`
}

// LexicalConfig controls string recognition.
type LexicalConfig struct {
	// SingleGuillemetStrings makes a lone « open a string running to end of line.
	SingleGuillemetStrings bool `yaml:"singleGuillemetStrings" toml:"singleGuillemetStrings" json:"singleGuillemetStrings"`
}

// FeaturesConfig switches whole request kinds on or off.
type FeaturesConfig struct {
	Hover      bool `yaml:"hover" toml:"hover" json:"hover"`
	Definition bool `yaml:"definition" toml:"definition" json:"definition"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Diagnostics: DiagnosticsConfig{
			Undefined:    true,
			TypeMismatch: true,
			Brackets:     true,
			Suggestions:  true,
		},
		InlayHints: InlayHintsConfig{
			Parameters: true,
			Types:      true,
		},
		Format: FormatConfig{
			IndentSize:    4,
			MaxBlankLines: 1,
		},
		Features: FeaturesConfig{
			Hover:      true,
			Definition: true,
		},
	}
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	out := *c
	out.Diagnostics.Suppress = append([]string(nil), c.Diagnostics.Suppress...)
	out.Exclude = append([]string(nil), c.Exclude...)

	return &out
}

// MergeJSON overlays a JSON settings object onto the config.
// Fields absent from data keep their current values.
func (c *Config) MergeJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if err := json.Unmarshal(data, c); err != nil {
		return errors.Wrap(err, "decode settings")
	}

	return nil
}

// DefaultConfigNames are the filenames we search for, in order of preference.
var DefaultConfigNames = []string{".arturo-ls.yaml", ".arturo-ls.yml", ".arturo-ls.toml"}

// IsConfigFile reports whether path names an arturo-ls config file.
func IsConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range DefaultConfigNames {
		if base == name {
			return true
		}
	}

	return false
}

// LoadConfig finds and loads the nearest config walking up from dir.
func LoadConfig(dir string) (*Config, string, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, "", err
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, "", err
	}

	return cfg, path, nil
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", dir)
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path, on top of the defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	cfg := DefaultConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		return nil, errors.Wrapf(ErrUnsupportedConfig, "%s", path)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	return cfg, nil
}
