package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/michaelblawrence/xpress-calc/internal/prettyprinter"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %s", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "seed: 42\nformat: minified\nprompt: \"calc> \"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %s", err)
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Errorf("Seed = %v, want 42", cfg.Seed)
	}
	if cfg.Format != "minified" {
		t.Errorf("Format = %q, want minified", cfg.Format)
	}
	if cfg.Prompt != "calc> " {
		t.Errorf("Prompt = %q, want \"calc> \"", cfg.Prompt)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	if err != nil {
		t.Fatalf("Load error: %s", err)
	}
	if cfg.Seed != nil {
		t.Error("default Seed should be nil")
	}
	if cfg.Prompt != DefaultPrompt {
		t.Errorf("Prompt = %q, want %q", cfg.Prompt, DefaultPrompt)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "seed: [not a number\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDiscoverWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "format: indented\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %s", err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover error: %s", err)
	}
	if cfg.Format != "indented" {
		t.Errorf("Format = %q, want indented", cfg.Format)
	}
}

func TestDiscoverWithoutConfig(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover error: %s", err)
	}
	if cfg.Format != "" || cfg.Seed != nil {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestFormatMode(t *testing.T) {
	tests := []struct {
		format   string
		expected prettyprinter.Mode
	}{
		{"minified", prettyprinter.Minified},
		{"indented", prettyprinter.Indented},
		{"spaced", prettyprinter.Spaced},
		{"", prettyprinter.Spaced},
	}
	for _, tt := range tests {
		cfg := &Config{Format: tt.format}
		if got := cfg.FormatMode(); got != tt.expected {
			t.Errorf("FormatMode(%q) = %d, want %d", tt.format, got, tt.expected)
		}
	}
}
