package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Main.EdgercSection != "default" {
		t.Errorf("EdgercSection mismatch: %s", cfg.Main.EdgercSection)
	}
	if !strings.HasSuffix(cfg.Main.EdgercPath, ".edgerc") {
		t.Errorf("EdgercPath mismatch: %s", cfg.Main.EdgercPath)
	}
	if cfg.Main.CacheTTL != 300 {
		t.Errorf("CacheTTL mismatch: %f", cfg.Main.CacheTTL)
	}
	if !cfg.Main.UseCache {
		t.Error("UseCache should default to true")
	}
	if cfg.Main.RequestTimeout != 15 {
		t.Errorf("RequestTimeout mismatch: %d", cfg.Main.RequestTimeout)
	}
	if !cfg.Main.ValidateCerts {
		t.Error("ValidateCerts should default to true")
	}
	if cfg.Dig.QueryType != "A" {
		t.Errorf("QueryType mismatch: %s", cfg.Dig.QueryType)
	}
	if cfg.Translate.Trace {
		t.Error("Trace should default to false")
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg := LoadFrom(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if cfg != Default() {
		t.Error("Missing file should yield defaults")
	}
}

func TestLoadFrom_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[main]
edgerc_section = "production"
cache_ttl = 600.0
use_cache = false
request_timeout = 30

[dig]
query_type = "AAAA"
short_output = true

[translate]
trace = true
`)

	cfg := LoadFrom(path)
	if cfg.Main.EdgercSection != "production" {
		t.Errorf("EdgercSection mismatch: %s", cfg.Main.EdgercSection)
	}
	if cfg.Main.CacheTTL != 600 {
		t.Errorf("CacheTTL mismatch: %f", cfg.Main.CacheTTL)
	}
	if cfg.Main.UseCache {
		t.Error("UseCache should be overridden to false")
	}
	if cfg.Main.RequestTimeout != 30 {
		t.Errorf("RequestTimeout mismatch: %d", cfg.Main.RequestTimeout)
	}
	if cfg.Dig.QueryType != "AAAA" {
		t.Errorf("QueryType mismatch: %s", cfg.Dig.QueryType)
	}
	if !cfg.Dig.ShortOutput {
		t.Error("ShortOutput should be overridden to true")
	}
	if !cfg.Translate.Trace {
		t.Error("Trace should be overridden to true")
	}
}

func TestLoadFrom_PartialOverride(t *testing.T) {
	path := writeConfig(t, `
[main]
edgerc_section = "staging"
`)

	cfg := LoadFrom(path)
	if cfg.Main.EdgercSection != "staging" {
		t.Errorf("EdgercSection mismatch: %s", cfg.Main.EdgercSection)
	}

	// Untouched options keep their defaults.
	if cfg.Main.CacheTTL != 300 {
		t.Errorf("CacheTTL default lost: %f", cfg.Main.CacheTTL)
	}
	if cfg.Dig.QueryType != "A" {
		t.Errorf("QueryType default lost: %s", cfg.Dig.QueryType)
	}
}

func TestLoadFrom_UnknownSectionIgnored(t *testing.T) {
	path := writeConfig(t, `
[main]
edgerc_section = "production"

[bogus]
whatever = true
`)

	cfg := LoadFrom(path)
	if cfg.Main.EdgercSection != "production" {
		t.Error("Valid sections should survive an unknown sibling section")
	}
}

func TestLoadFrom_UnknownOptionIgnored(t *testing.T) {
	path := writeConfig(t, `
[main]
edgerc_section = "production"
not_an_option = "x"
`)

	cfg := LoadFrom(path)
	if cfg.Main.EdgercSection != "production" {
		t.Error("Valid options should survive an unknown sibling option")
	}
}

func TestLoadFrom_UnparsableFile(t *testing.T) {
	path := writeConfig(t, `this is [not toml`)

	cfg := LoadFrom(path)
	if cfg != Default() {
		t.Error("Unparsable file should yield defaults")
	}
}

func TestLoadFrom_ExpandsTilde(t *testing.T) {
	path := writeConfig(t, `
[main]
edgerc_path = "~/.edgerc-custom"
`)

	cfg := LoadFrom(path)
	if strings.HasPrefix(cfg.Main.EdgercPath, "~") {
		t.Errorf("Tilde not expanded: %s", cfg.Main.EdgercPath)
	}
	if !strings.HasSuffix(cfg.Main.EdgercPath, ".edgerc-custom") {
		t.Errorf("Path mangled by expansion: %s", cfg.Main.EdgercPath)
	}
}

func TestInitAt_WritesLoadableDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := InitAt(path); err != nil {
		t.Fatalf("InitAt failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Config file not written: %v", err)
	}

	var doc map[string]map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Generated file is not valid TOML: %v", err)
	}
	for _, section := range []string{"main", "dig", "translate"} {
		if _, ok := doc[section]; !ok {
			t.Errorf("Section %q missing from generated file", section)
		}
	}

	if cfg := LoadFrom(path); cfg.Main.EdgercSection != Default().Main.EdgercSection {
		t.Error("Generated file should round-trip to defaults")
	}
}
