package arturo

import "github.com/cockroachdb/errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .arturo-ls config file is found.
	ErrConfigNotFound = errors.New("arturo: no .arturo-ls config found")

	// ErrUnsupportedConfig is returned for config files with an unknown extension.
	ErrUnsupportedConfig = errors.New("arturo: unsupported config format")
)
