// SPDX-License-Identifier: MIT

// Package config holds the YAML configuration of the lexnet tool.
package config

import (
	"log/slog"

	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/merge"
	"github.com/katalvlaran/lexnet/semiring"
)

// LogLevel is the minimum level of the CLI log handler.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level maps l onto slog; unknown or empty levels are Info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// PushMode names the composition push semiring.
type PushMode string

const (
	PushSum PushMode = "sum"
	PushMax PushMode = "max"
)

// IsValid reports whether p is a recognised push mode.
func (p PushMode) IsValid() bool { return p == PushSum || p == PushMax }

// Push converts p; an empty mode is semiring.PushUnset.
func (p PushMode) Push() semiring.Push {
	v, err := semiring.ParsePush(string(p))
	if err != nil {
		return semiring.PushUnset
	}
	return v
}

// Config is the root configuration.
type Config struct {
	LogLevel LogLevel      `yaml:"log_level"`
	Labels   LabelsConfig  `yaml:"labels"`
	Lexicon  LexiconConfig `yaml:"lexicon"`
	Merge    MergeConfig   `yaml:"merge"`
}

// LabelsConfig names the tables that new networks are built over.
type LabelsConfig struct {
	// Input is the phone table: a registered closed set such as "cmu39", or
	// the name of a fresh dynamic table.
	Input string `yaml:"input"`
	// Output names the dynamic word table.
	Output string `yaml:"output"`
}

// LexiconConfig controls dictionary reading.
type LexiconConfig struct {
	StripStress bool `yaml:"strip_stress"`
	// ClosedSet requires labels.input to be a registered closed set.
	ClosedSet bool `yaml:"closed_set"`
}

// MergeConfig controls composition.
type MergeConfig struct {
	// Push has no default; composition refuses to run without one.
	Push      PushMode `yaml:"push"`
	Tolerance *float64 `yaml:"tolerance"`
	Verify    *bool    `yaml:"verify"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = LogInfo
	}
	if c.Labels.Input == "" {
		c.Labels.Input = "phones"
	}
	if c.Labels.Output == "" {
		c.Labels.Output = "words"
	}
	if c.Merge.Tolerance == nil {
		tol := merge.DefaultTolerance
		c.Merge.Tolerance = &tol
	}
	if c.Merge.Verify == nil {
		v := true
		c.Merge.Verify = &v
	}
}

// PhoneTable builds the input table described by labels.input.
func (c *Config) PhoneTable() (*label.Table, error) {
	if label.IsClosedSet(c.Labels.Input) {
		return label.Closed(c.Labels.Input)
	}
	return label.NewTable(c.Labels.Input), nil
}

// WordTable builds a fresh output table named labels.output.
func (c *Config) WordTable() *label.Table { return label.NewTable(c.Labels.Output) }

// MergeOptions translates the merge section.
func (c *Config) MergeOptions() []merge.Option {
	var opts []merge.Option
	if c.Merge.Tolerance != nil {
		opts = append(opts, merge.WithTolerance(*c.Merge.Tolerance))
	}
	if c.Merge.Verify != nil && !*c.Merge.Verify {
		opts = append(opts, merge.WithoutVerification())
	}
	return opts
}
