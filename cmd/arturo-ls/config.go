package main

import (
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
)

// loadConfig finds the config file at or above dir and returns it with the
// directory relative settings resolve against. Without a config file the
// defaults apply and dir is the base.
func loadConfig(dir string) (*arturo.Config, string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", errors.Wrapf(err, "resolve %s", dir)
	}

	cfg, path, err := arturo.LoadConfig(absDir)

	switch {
	case err == nil:
		return cfg, filepath.Dir(path), nil
	case errors.Is(err, arturo.ErrConfigNotFound):
		return arturo.DefaultConfig(), absDir, nil
	default:
		return nil, "", err
	}
}

// loadAnalyzer builds an analyzer from the config governing dir.
func loadAnalyzer(dir string) (*analysis.Analyzer, *arturo.Config, string, error) {
	cfg, base, err := loadConfig(dir)
	if err != nil {
		return nil, nil, "", err
	}

	a, err := analysis.NewAnalyzerForConfig(cfg, base)
	if err != nil {
		return nil, nil, "", err
	}

	return a, cfg, base, nil
}
