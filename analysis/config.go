package analysis

import (
	"path/filepath"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/catalog"
)

// CatalogPath resolves the configured catalog file against baseDir, usually
// the directory holding the config file. It returns "" when none is set.
func CatalogPath(cfg *arturo.Config, baseDir string) string {
	if cfg == nil || cfg.Catalog == "" {
		return ""
	}

	if filepath.IsAbs(cfg.Catalog) {
		return cfg.Catalog
	}

	return filepath.Join(baseDir, cfg.Catalog)
}

// NewAnalyzerForConfig loads the catalog cfg names and builds an analyzer
// with its options.
func NewAnalyzerForConfig(cfg *arturo.Config, baseDir string) (*Analyzer, error) {
	if cfg == nil {
		cfg = arturo.DefaultConfig()
	}

	cat, err := catalog.Load(CatalogPath(cfg, baseDir))
	if err != nil {
		return nil, err
	}

	return NewAnalyzer(cat, OptionsFromConfig(cfg))
}
