package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[verify]
jobs = 4
fail_fast = true

[output]
format = "json"

[cache]
dir = ".bril-cache"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Verify.Jobs != 4 || !cfg.Verify.FailFast {
		t.Errorf("verify section not applied: %+v", cfg.Verify)
	}
	if cfg.Verify.MaxDiagnostics != 100 {
		t.Errorf("unset key must keep default, got %d", cfg.Verify.MaxDiagnostics)
	}
	if cfg.Output.Format != "json" || cfg.Output.Color != "auto" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if !cfg.Cache.Enabled {
		t.Errorf("cache must stay enabled by default")
	}
	if cfg.Cache.Dir != filepath.Join(dir, ".bril-cache") {
		t.Errorf("relative cache dir must resolve against the config file, got %q", cfg.Cache.Dir)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[verify\njobs = 1", "failed to parse TOML"},
		{"unknown key", "[verify]\nthreads = 2\n", "unknown key(s): verify.threads"},
		{"bad format", "[output]\nformat = \"xml\"\n", "[output].format"},
		{"bad color", "[output]\ncolor = \"always\"\n", "[output].color"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"negative jobs", "[verify]\njobs = -1\n", "[verify].jobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) || !strings.Contains(err.Error(), path) {
				t.Fatalf("error %q must mention %q and the file", err, tt.want)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[verify]\njobs = 2\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: %v %v", ok, err)
	}
	if got != path {
		t.Fatalf("Find = %q, want %q", got, path)
	}

	cfg, err := LoadNearest(nested)
	if err != nil || cfg.Verify.Jobs != 2 {
		t.Fatalf("LoadNearest: %+v %v", cfg.Verify, err)
	}
}

func TestLoadNearestWithoutFile(t *testing.T) {
	// a fresh temp dir normally has no bril.toml above it
	dir := t.TempDir()
	if _, ok, _ := Find(dir); ok {
		t.Skip("a bril.toml exists above the temp dir")
	}
	cfg, err := LoadNearest(dir)
	if err != nil {
		t.Fatalf("LoadNearest: %v", err)
	}
	if cfg.Path != "" || cfg.Output.Format != "pretty" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}
