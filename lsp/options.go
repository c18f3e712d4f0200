package lsp

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/rlch/arturo"
)

// initializationOptions is what the editor extension forwards on initialize.
// Settings holds a Config object; the boolean flags are the older switches
// that predate it.
type initializationOptions struct {
	Settings json.RawMessage `json:"settings,omitempty"`

	TypeChecking *bool `json:"typeChecking,omitempty"`
	Definitions  *bool `json:"definitions,omitempty"`
	Hover        *bool `json:"hover,omitempty"`
}

// parseInitializationOptions decodes the loosely typed options value.
func parseInitializationOptions(raw any) (*initializationOptions, error) {
	opts := &initializationOptions{}
	if raw == nil {
		return opts, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "encode initializationOptions")
	}

	if err := json.Unmarshal(data, opts); err != nil {
		return nil, errors.Wrap(err, "decode initializationOptions")
	}

	return opts, nil
}

// apply overlays the options onto cfg.
func (o *initializationOptions) apply(cfg *arturo.Config) error {
	if o == nil {
		return nil
	}

	if err := cfg.MergeJSON(o.Settings); err != nil {
		return err
	}

	if o.TypeChecking != nil && !*o.TypeChecking {
		cfg.Diagnostics.TypeMismatch = false
	}

	if o.Definitions != nil && !*o.Definitions {
		cfg.Features.Definition = false
	}

	if o.Hover != nil && !*o.Hover {
		cfg.Features.Hover = false
	}

	return nil
}
