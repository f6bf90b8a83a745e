// Package config loads the CLI configuration file and defines the default
// option values for every command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"akcli/pkg/logging"

	"github.com/pelletier/go-toml/v2"
)

const appName = "akcli"

// Request timeout bounds in seconds, enforced at the CLI flag level.
const (
	MinRequestTimeout = 0
	MaxRequestTimeout = 120
)

// Option defaults.
const (
	DefaultEdgercSection  = "default"
	DefaultCacheTTL       = 300.0
	DefaultUseCache       = true
	DefaultRequestTimeout = 15
	DefaultValidateCerts  = true
	DefaultDigQueryType   = "A"
)

// Main holds the options of the root command.
type Main struct {
	EdgercPath     string  `toml:"edgerc_path"`
	EdgercSection  string  `toml:"edgerc_section"`
	CacheDir       string  `toml:"cache_dir"`
	CacheTTL       float64 `toml:"cache_ttl"`
	UseCache       bool    `toml:"use_cache"`
	RequestTimeout int     `toml:"request_timeout"`
	ValidateCerts  bool    `toml:"validate_certs"`
	Proxy          string  `toml:"proxy,omitempty"`
}

// Dig holds the options of the dig command.
type Dig struct {
	QueryType   string `toml:"query_type"`
	ShortOutput bool   `toml:"short_output"`
}

// Translate holds the options of the translate command.
type Translate struct {
	Trace bool `toml:"trace"`
}

// Config is the full CLI configuration: one section per command.
type Config struct {
	Main      Main      `toml:"main"`
	Dig       Dig       `toml:"dig"`
	Translate Translate `toml:"translate"`
}

// knownOptions maps section names to their valid option keys; unknown
// sections and options in the config file are warned about and ignored.
var knownOptions = map[string]map[string]bool{
	"main": {
		"edgerc_path": true, "edgerc_section": true, "cache_dir": true,
		"cache_ttl": true, "use_cache": true, "request_timeout": true,
		"validate_certs": true, "proxy": true,
	},
	"dig":       {"query_type": true, "short_output": true},
	"translate": {"trace": true},
}

// Default returns the configuration with every option at its default.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = filepath.Join(home, ".cache")
	}

	return Config{
		Main: Main{
			EdgercPath:     filepath.Join(home, ".edgerc"),
			EdgercSection:  DefaultEdgercSection,
			CacheDir:       filepath.Join(cacheDir, appName),
			CacheTTL:       DefaultCacheTTL,
			UseCache:       DefaultUseCache,
			RequestTimeout: DefaultRequestTimeout,
			ValidateCerts:  DefaultValidateCerts,
		},
		Dig: Dig{
			QueryType:   DefaultDigQueryType,
			ShortOutput: false,
		},
		Translate: Translate{
			Trace: false,
		},
	}
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads the configuration file at the default path. A missing file
// yields the defaults; an unparsable file yields the defaults with a
// warning. Unknown sections and options are warned about and ignored.
func Load() Config {
	path, err := Path()
	if err != nil {
		logger := logging.NewLogger("config")
		logger.Warn().Err(err).Msg("Cannot resolve config file path, using defaults")
		return Default()
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration file at path.
func LoadFrom(path string) Config {
	logger := logging.NewLogger("config")
	cfg := Default()

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Cannot read config file, using defaults")
		return cfg
	}

	// First pass: untyped document, to detect unknown sections/options.
	var doc map[string]map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Cannot parse config file, using defaults")
		return cfg
	}

	for section, options := range doc {
		known, ok := knownOptions[section]
		if !ok {
			logger.Warn().Str("section", section).Msg("Ignoring invalid config section")
			delete(doc, section)
			continue
		}
		for option := range options {
			if !known[option] {
				logger.Warn().
					Str("section", section).
					Str("option", option).
					Msg("Ignoring invalid config option")
				delete(options, option)
			}
		}
	}

	// Second pass: decode the filtered document over the defaults.
	filtered, err := toml.Marshal(doc)
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot process config file, using defaults")
		return Default()
	}
	if err := toml.Unmarshal(filtered, &cfg); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Config option has wrong type, using defaults")
		return Default()
	}

	cfg.Main.EdgercPath = expandHome(cfg.Main.EdgercPath)
	cfg.Main.CacheDir = expandHome(cfg.Main.CacheDir)

	return cfg
}

// Init writes a configuration file with default values at the default
// path and returns its location.
func Init() (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, InitAt(path)
}

// InitAt writes a default configuration file at path.
func InitAt(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// expandHome expands a leading tilde to the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
