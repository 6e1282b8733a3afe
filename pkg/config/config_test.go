package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "ember.yml")
	if err := os.WriteFile(path, []byte(strings.TrimLeft(contents, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	pack := "name: xx\ndecimal: \"'\"\ngroup: \"_\"\ngroup_size: 4\n"
	if err := os.WriteFile(filepath.Join(dir, "xx.yml"), []byte(pack), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	path := writeConfig(t, dir, `
locale: xx
locale_files: [xx.yml]
max_depth: 64
hash_seed: 9
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxDepth != 64 || cfg.HashSeed != 9 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.MaxCollectionSize != Default().MaxCollectionSize {
		t.Fatalf("MaxCollectionSize = %d, want default", cfg.MaxCollectionSize)
	}
	if got, want := cfg.LocaleFiles[0], filepath.Join(dir, "xx.yml"); got != want {
		t.Fatalf("LocaleFiles[0] = %q, want %q", got, want)
	}

	var logs bytes.Buffer
	opts, err := cfg.Options(&logs)
	if err != nil {
		t.Fatalf("Options returned error: %v", err)
	}
	if opts.Locale.Decimal != "'" || opts.Locale.GroupSize != 4 {
		t.Fatalf("locale pack not applied: %+v", opts.Locale)
	}
	if opts.Limits.MaxDepth != 64 || opts.HashSeed != 9 {
		t.Fatalf("options not applied: %+v", opts.Limits)
	}
	opts.Logger.Debug("probe")
	if !strings.Contains(logs.String(), "probe") {
		t.Fatalf("debug level not honoured: %q", logs.String())
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	cases := map[string]string{
		"unknown field": "colour: blue\n",
		"bad level":     "log_level: chatty\n",
		"bad depth":     "max_depth: 0\n",
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), contents)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error for %q", contents)
			}
		})
	}
}

func TestEmptyConfigUsesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	def := Default()
	if cfg.MaxDepth != def.MaxDepth || cfg.InternCapacity != def.InternCapacity || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	opts, err := cfg.Options(nil)
	if err != nil {
		t.Fatalf("Options returned error: %v", err)
	}
	if opts.Locale.Name != "en" {
		t.Fatalf("locale = %+v", opts.Locale)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Locale = "de"
	cfg.MaxCollectionSize = 1000
	path := filepath.Join(dir, "out.yml")
	if err := Write(cfg, path); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Locale != "de" || loaded.MaxCollectionSize != 1000 || loaded.Path != cfg.Path {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
	if err := Write(&Config{}, ""); err == nil {
		t.Fatalf("expected missing path error")
	}
}
