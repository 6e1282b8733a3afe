// Package config loads runtime settings from YAML.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ember/core-go/pkg/locale"
	"ember/core-go/pkg/runtime"
)

// Config models ember.yml.
type Config struct {
	Path              string
	Locale            string
	LocaleFiles       []string
	MaxCollectionSize int
	MaxDepth          int
	InternCapacity    int
	HashSeed          uint32
	LogLevel          string
}

// Default returns the stock settings.
func Default() *Config {
	def := runtime.DefaultOptions()
	return &Config{
		MaxCollectionSize: def.Limits.MaxCollectionSize,
		MaxDepth:          def.Limits.MaxDepth,
		InternCapacity:    def.InternCapacity,
		LogLevel:          "info",
	}
}

// Load parses a config file. Unset fields keep their defaults; unknown
// fields are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	dir := filepath.Dir(abs)
	for i, f := range cfg.LocaleFiles {
		if !filepath.IsAbs(f) {
			cfg.LocaleFiles[i] = filepath.Join(dir, f)
		}
	}
	return cfg, nil
}

// Decode reads a config document from r.
func Decode(r io.Reader) (*Config, error) {
	raw := Default().toDisk()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && err != io.EOF {
		return nil, err
	}
	cfg := raw.toConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and the log level.
func (c *Config) Validate() error {
	if c.MaxCollectionSize <= 0 {
		return fmt.Errorf("max_collection_size must be positive, got %d", c.MaxCollectionSize)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.InternCapacity < 0 {
		return fmt.Errorf("intern_capacity must not be negative, got %d", c.InternCapacity)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	name := strings.TrimSpace(c.LogLevel)
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Options resolves the locale and builds runtime options logging to w.
func (c *Config) Options(w io.Writer) (runtime.Options, error) {
	opts := runtime.DefaultOptions()
	catalog := locale.NewCatalog(0)
	if err := catalog.LoadFiles(c.LocaleFiles...); err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}
	loc, err := catalog.Lookup(c.Locale)
	if err != nil {
		return opts, fmt.Errorf("config: locale %q: %w", c.Locale, err)
	}
	level, err := c.Level()
	if err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}
	if w == nil {
		w = io.Discard
	}
	opts.Locale = loc
	opts.Limits.MaxCollectionSize = c.MaxCollectionSize
	opts.Limits.MaxDepth = c.MaxDepth
	opts.InternCapacity = c.InternCapacity
	opts.HashSeed = c.HashSeed
	opts.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return opts, nil
}

// Write serialises c to path, or to c.Path when path is empty.
func Write(c *Config, path string) error {
	if c == nil {
		return fmt.Errorf("config: nil config")
	}
	if path == "" {
		if c.Path == "" {
			return fmt.Errorf("config: missing path")
		}
		path = c.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: resolve %s: %w", path, err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.toDisk()); err != nil {
		return fmt.Errorf("config: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", abs, err)
	}
	c.Path = abs
	return nil
}

type configDisk struct {
	Locale            string   `yaml:"locale,omitempty"`
	LocaleFiles       []string `yaml:"locale_files,omitempty"`
	MaxCollectionSize int      `yaml:"max_collection_size"`
	MaxDepth          int      `yaml:"max_depth"`
	InternCapacity    int      `yaml:"intern_capacity"`
	HashSeed          uint32   `yaml:"hash_seed"`
	LogLevel          string   `yaml:"log_level"`
}

func (c *Config) toDisk() configDisk {
	return configDisk{
		Locale:            c.Locale,
		LocaleFiles:       append([]string(nil), c.LocaleFiles...),
		MaxCollectionSize: c.MaxCollectionSize,
		MaxDepth:          c.MaxDepth,
		InternCapacity:    c.InternCapacity,
		HashSeed:          c.HashSeed,
		LogLevel:          c.LogLevel,
	}
}

func (d configDisk) toConfig() *Config {
	return &Config{
		Locale:            strings.TrimSpace(d.Locale),
		LocaleFiles:       d.LocaleFiles,
		MaxCollectionSize: d.MaxCollectionSize,
		MaxDepth:          d.MaxDepth,
		InternCapacity:    d.InternCapacity,
		HashSeed:          d.HashSeed,
		LogLevel:          strings.TrimSpace(d.LogLevel),
	}
}
