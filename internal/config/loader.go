// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lexnet/label"
)

// Load reads the YAML configuration file at path and returns a validated
// Config with defaults applied.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, rejecting unknown keys. An
// empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if cfg.Lexicon.ClosedSet && !label.IsClosedSet(cfg.Labels.Input) {
		errs = append(errs, fmt.Errorf("lexicon.closed_set requires labels.input to name a closed set; %q is not one of %s",
			cfg.Labels.Input, strings.Join(label.ClosedSets(), ", ")))
	}
	if cfg.Labels.Output != "" && label.IsClosedSet(cfg.Labels.Output) {
		errs = append(errs, fmt.Errorf("labels.output %q names a closed phone set; words need a dynamic table", cfg.Labels.Output))
	}

	if cfg.Merge.Push != "" && !cfg.Merge.Push.IsValid() {
		errs = append(errs, fmt.Errorf("merge.push %q is invalid; valid values: sum, max", cfg.Merge.Push))
	}
	if tol := cfg.Merge.Tolerance; tol != nil && (math.IsNaN(*tol) || math.IsInf(*tol, 0) || *tol < 0) {
		errs = append(errs, fmt.Errorf("merge.tolerance %v must be a finite non-negative number", *tol))
	}

	return errors.Join(errs...)
}
