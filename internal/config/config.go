// Package config loads .autoctx.yaml.
package config

import (
	"bytes"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/sirkon/autoctx/internal/markers"
)

// FileName is the name of the configuration file looked up at the module root.
const FileName = ".autoctx.yaml"

// ErrInvalidConfig marks configuration errors.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the host configuration.
type Config struct {
	// All instruments every function instead of directive-marked ones only.
	All bool `yaml:"all"`

	// Include and Exclude are doublestar globs over module relative paths.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// Jobs limits files processed in parallel, 0 means GOMAXPROCS.
	Jobs int `yaml:"jobs"`

	LogLevel string `yaml:"log_level"`

	// Markers extend the predefined set.
	Markers []Marker `yaml:"markers"`
}

// Marker registers a custom marker function and its helper living in the
// same package.
type Marker struct {
	Func   Reference    `yaml:"func"`
	Helper string       `yaml:"helper"`
	Kind   markers.Kind `yaml:"kind"`
}

// Default returns configuration used when no file is present.
func Default() *Config {
	return &Config{
		Include:  []string{"**/*.go"},
		Exclude:  []string{"**/*_test.go"},
		LogLevel: "info",
	}
}

// Load reads configuration from path. A missing file is not an error when
// optional is set, defaults are returned instead.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, errors.Wrap(err, "read config")
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filepath.Base(path))
	}

	return cfg, nil
}

// Parse decodes configuration over defaults and validates it. Unknown
// fields are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Mark(errors.Wrap(err, "decode"), ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks globs, jobs and markers.
func (c *Config) Validate() error {
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Mark(errors.Newf("invalid glob %q", pattern), ErrInvalidConfig)
		}
	}

	if c.Jobs < 0 {
		return errors.Mark(errors.Newf("jobs must not be negative, got %d", c.Jobs), ErrInvalidConfig)
	}

	for i, m := range c.Markers {
		if m.Func.Package == "" || m.Func.Name == "" {
			return errors.Mark(errors.Newf("markers[%d]: missing func", i), ErrInvalidConfig)
		}
		if !token.IsIdentifier(m.Helper) {
			return errors.WithHint(
				errors.Mark(errors.Newf("markers[%d]: invalid helper name %q", i, m.Helper), ErrInvalidConfig),
				"helper must be a function declared in the same package as the marker",
			)
		}
		if m.Kind == markers.KindInvalid {
			return errors.Mark(errors.Newf("markers[%d]: missing kind", i), ErrInvalidConfig)
		}
	}

	return nil
}

// Match checks if a module relative slash separated path is to be processed.
func (c *Config) Match(rel string) bool {
	if !matchAny(c.Include, rel) {
		return false
	}

	return !matchAny(c.Exclude, rel)
}

// Workers returns the effective number of parallel workers.
func (c *Config) Workers() int {
	if c.Jobs > 0 {
		return c.Jobs
	}

	return runtime.GOMAXPROCS(0)
}

// Registry builds the marker registry including custom markers.
func (c *Config) Registry() *markers.Registry {
	custom := make(map[markers.Func]markers.Spec, len(c.Markers))
	for _, m := range c.Markers {
		custom[markers.Func{PkgPath: m.Func.Package, Name: m.Func.Name}] = markers.Spec{
			Kind:   m.Kind,
			Helper: m.Helper,
		}
	}

	return markers.NewRegistry(custom)
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}

	return false
}
