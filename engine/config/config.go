// Package config loads engine settings from TOML files.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/matrix"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/state"
)

// Config is the file form of the engine options.
type Config struct {
	Context  Context  `toml:"context"`
	Matrices Matrices `toml:"matrices"`

	// Attributes overrides entries of resource.DefaultAttributeLocations by name.
	Attributes map[string]uint32 `toml:"attributes"`

	Logging   Logging   `toml:"logging"`
	Profiling Profiling `toml:"profiling"`
}

// Context holds the version policy and debug checks.
type Context struct {
	RequiredMajor int  `toml:"required_major"`
	AllowFallback bool `toml:"allow_fallback"`
	Assertions    bool `toml:"assertions"`
}

// Matrix configures one matrix kind.
type Matrix struct {
	Uniform    string `toml:"uniform"`
	AutoUpload bool   `toml:"auto_upload"`
}

// Matrices configures every matrix kind.
type Matrices struct {
	Projection  Matrix `toml:"projection"`
	View        Matrix `toml:"view"`
	Model       Matrix `toml:"model"`
	Normal      Matrix `toml:"normal"`
	InverseView Matrix `toml:"inverse_view"`
}

// Logging selects the engine log output. A disabled section keeps the engine silent.
type Logging struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
	Format  string `toml:"format"`
}

// Profiling enables the periodic frame statistics log.
type Profiling struct {
	Enabled    bool `toml:"enabled"`
	IntervalMS int  `toml:"interval_ms"`
}

// Default returns the settings the engine uses without a config file.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Context: Context{
			RequiredMajor: 3,
			AllowFallback: true,
		},
		Matrices: Matrices{
			Projection:  Matrix{Uniform: matrix.DefaultProjectionUniform, AutoUpload: true},
			View:        Matrix{Uniform: matrix.DefaultViewUniform, AutoUpload: true},
			Model:       Matrix{Uniform: matrix.DefaultModelUniform, AutoUpload: true},
			Normal:      Matrix{Uniform: matrix.DefaultNormalUniform, AutoUpload: true},
			InverseView: Matrix{Uniform: matrix.DefaultInverseViewUniform, AutoUpload: true},
		},
		Attributes: map[string]uint32{},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Profiling: Profiling{IntervalMS: 1000},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep their default value.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the settings
//   - error: a read, syntax or validation error
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := finish(md, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the settings
//   - error: a syntax or validation error
func Decode(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := finish(md, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Write encodes cfg as TOML to path.
//
// Parameters:
//   - path: the file path
//   - cfg: the settings
//
// Returns:
//   - error: an encode or write error
func Write(path string, cfg Config) error {
	var buffer bytes.Buffer
	if err := Encode(&buffer, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// Encode writes cfg as TOML to w.
func Encode(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}

func finish(md toml.MetaData, cfg *Config) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys %s: %w", strings.Join(keys, ", "), common.ErrUnsupported)
	}
	return cfg.Validate()
}

// Validate checks values the TOML types cannot express.
//
// Returns:
//   - error: wraps common.ErrArgumentShape, common.ErrDuplicateBinding or common.ErrUnsupported
func (c Config) Validate() error {
	if c.Context.RequiredMajor < 0 {
		return fmt.Errorf("context.required_major %d: %w", c.Context.RequiredMajor, common.ErrArgumentShape)
	}
	for k, m := range c.Matrices.byKind() {
		if m.Uniform == "" {
			return fmt.Errorf("matrices.%s.uniform is empty: %w", k, common.ErrArgumentShape)
		}
	}
	owners := make(map[uint32]string, len(c.Attributes))
	for name, loc := range c.AttributeLocations() {
		if other, ok := owners[loc]; ok {
			a, b := min(name, other), max(name, other)
			return fmt.Errorf("attributes %s and %s share location %d: %w", a, b, loc, common.ErrDuplicateBinding)
		}
		owners[loc] = name
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format %q: %w", c.Logging.Format, common.ErrUnsupported)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level %q: %w", c.Logging.Level, common.ErrUnsupported)
	}
	if c.Profiling.IntervalMS < 0 {
		return fmt.Errorf("profiling.interval_ms %d: %w", c.Profiling.IntervalMS, common.ErrArgumentShape)
	}
	return nil
}

func (m Matrices) byKind() map[matrix.Kind]Matrix {
	return map[matrix.Kind]Matrix{
		matrix.Projection:  m.Projection,
		matrix.View:        m.View,
		matrix.Model:       m.Model,
		matrix.Normal:      m.Normal,
		matrix.InverseView: m.InverseView,
	}
}

// AttributeLocations returns the default attribute table with the configured entries applied.
func (c Config) AttributeLocations() map[string]uint32 {
	out := maps.Clone(resource.DefaultAttributeLocations)
	maps.Copy(out, c.Attributes)
	return out
}

// DetectorOptions returns the capability options for the context section.
func (c Config) DetectorOptions() []capability.DetectorOption {
	return []capability.DetectorOption{
		capability.WithRequiredVersion(c.Context.RequiredMajor),
		capability.WithVersionFallback(c.Context.AllowFallback),
	}
}

// RegistryOptions returns the registry options for the attributes section.
func (c Config) RegistryOptions() []resource.RegistryBuilderOption {
	return []resource.RegistryBuilderOption{resource.WithAttributeLocations(c.AttributeLocations())}
}

// MatrixOptions returns the matrix engine options for the matrices section.
func (c Config) MatrixOptions() []matrix.EngineBuilderOption {
	var opts []matrix.EngineBuilderOption
	for k, m := range c.Matrices.byKind() {
		opts = append(opts, matrix.WithUniformName(k, m.Uniform), matrix.WithAutoUpload(k, m.AutoUpload))
	}
	return opts
}

// ShadowOptions returns the state shadow options for the context and matrices sections.
func (c Config) ShadowOptions() []state.ShadowBuilderOption {
	return []state.ShadowBuilderOption{
		state.WithAssertions(c.Context.Assertions),
		state.WithMatrixOptions(c.MatrixOptions()...),
	}
}

// NewLogger builds a logger for the logging section writing to w, or nil when logging is disabled.
//
// Parameters:
//   - w: the log destination
//
// Returns:
//   - *slog.Logger: the logger, or nil
func (l Logging) NewLogger(w io.Writer) *slog.Logger {
	if !l.Enabled {
		return nil
	}
	opts := &slog.HandlerOptions{Level: logging.ParseLevel(l.Level)}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
