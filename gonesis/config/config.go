// Package config loads the optional YAML settings file used by the CLI.
// Command line flags are layered on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/valerio/gonesis/gonesis"
)

// Limiter names accepted in the limiter field.
const (
	LimiterAdaptive = "adaptive"
	LimiterTicker   = "ticker"
	LimiterNone     = "none"
)

const maxScale = 16

// File is the on-disk configuration.
type File struct {
	Seed       int64  `yaml:"seed"`
	SampleRate int    `yaml:"sample_rate"`
	LogLevel   string `yaml:"log_level"`
	Scale      int    `yaml:"scale"`
	Limiter    string `yaml:"limiter"`
}

// Default returns the settings used for fields the file leaves out.
func Default() File {
	return File{
		Seed:       gonesis.DefaultConfig().Seed,
		SampleRate: 44100,
		LogLevel:   "info",
		Scale:      1,
		Limiter:    LimiterAdaptive,
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode parses a config document over the defaults and validates it.
func Decode(r io.Reader) (File, error) {
	f := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate reports every invalid field at once.
func (f File) Validate() error {
	var result *multierror.Error

	if f.SampleRate < 8000 || f.SampleRate > 192000 {
		result = multierror.Append(result, fmt.Errorf("sample_rate %d out of range [8000, 192000]", f.SampleRate))
	}
	if _, err := ParseLevel(f.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if f.Scale < 1 || f.Scale > maxScale {
		result = multierror.Append(result, fmt.Errorf("scale %d out of range [1, %d]", f.Scale, maxScale))
	}
	switch f.Limiter {
	case LimiterAdaptive, LimiterTicker, LimiterNone:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown limiter %q", f.Limiter))
	}

	return result.ErrorOrNil()
}

// Console returns the machine settings.
func (f File) Console() gonesis.Config {
	return gonesis.Config{Seed: f.Seed}
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog
// level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}
