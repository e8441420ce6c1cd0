package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"bril/internal/trace"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "bril.toml"

type Config struct {
	Verify VerifyConfig `toml:"verify"`
	Output OutputConfig `toml:"output"`
	Trace  TraceConfig  `toml:"trace"`
	Cache  CacheConfig  `toml:"cache"`

	// Path of the file the values came from, empty for defaults.
	Path string `toml:"-"`
}

type VerifyConfig struct {
	Jobs           int  `toml:"jobs"` // 0 = GOMAXPROCS
	MaxDiagnostics int  `toml:"max_diagnostics"`
	FailFast       bool `toml:"fail_fast"`
}

type OutputConfig struct {
	Format string `toml:"format"` // pretty|short|json|sarif
	Color  string `toml:"color"`  // auto|on|off
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"` // "-" = stderr
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // пусто = $XDG_CACHE_HOME/bril
}

// Default returns the configuration used when no bril.toml exists.
func Default() Config {
	return Config{
		Verify: VerifyConfig{MaxDiagnostics: 100},
		Output: OutputConfig{Format: "pretty", Color: "auto"},
		Trace:  TraceConfig{Level: "off", Output: "-"},
		Cache:  CacheConfig{Enabled: true},
	}
}

// Find walks up from startDir looking for bril.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults. Keys the file leaves out keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown key(s): %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadNearest loads the closest bril.toml above startDir, or the defaults
// when there is none.
func LoadNearest(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerated and numeric values.
func (c Config) Validate() error {
	if c.Verify.Jobs < 0 {
		return fmt.Errorf("[verify].jobs must be >= 0, got %d", c.Verify.Jobs)
	}
	if c.Verify.MaxDiagnostics < 0 {
		return fmt.Errorf("[verify].max_diagnostics must be >= 0, got %d", c.Verify.MaxDiagnostics)
	}
	switch c.Output.Format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("[output].format must be pretty, short, json or sarif, got %q", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	return nil
}
