package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRedraftToml(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".redraft.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestTomlConfigLoader(t *testing.T) {
	loader := NewTomlConfigLoader()

	t.Run("NoConfigFileReturnsDefaults", func(t *testing.T) {
		config, err := loader.LoadConfig(t.TempDir())
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Output.Format != "html" {
			t.Errorf("Expected default format 'html', got %s", config.Output.Format)
		}
	})

	t.Run("MergesFileValuesOverDefaults", func(t *testing.T) {
		dir := t.TempDir()
		writeRedraftToml(t, dir, `
[review]
min_confidence = 0.7
default_filters = ["critical", "error"]

[output]
show_details = true
`)

		config, err := loader.LoadConfig(dir)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Review.MinConfidence != 0.7 {
			t.Errorf("Expected min confidence 0.7, got %g", config.Review.MinConfidence)
		}
		if len(config.Review.DefaultFilters) != 2 {
			t.Errorf("Expected 2 default filters, got %v", config.Review.DefaultFilters)
		}
		if !config.Output.ShowDetails {
			t.Error("Expected show_details true from file")
		}
		// Untouched sections keep their defaults.
		if config.Server.ListenAddr != DefaultListenAddr {
			t.Errorf("Expected default listen addr, got %s", config.Server.ListenAddr)
		}
	})

	t.Run("PointerFieldsDistinguishZeroFromUnset", func(t *testing.T) {
		dir := t.TempDir()
		writeRedraftToml(t, dir, `
[review]
min_confidence = 0.0

[output]
show_details = false

[input]
recursive = false
`)

		config, err := loader.LoadConfig(dir)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Review.MinConfidence != 0.0 {
			t.Errorf("Expected explicit 0.0 min confidence, got %g", config.Review.MinConfidence)
		}
		if config.Input.Recursive {
			t.Error("Expected explicit recursive=false to override the default")
		}
	})

	t.Run("WalksUpTheDirectoryTree", func(t *testing.T) {
		root := t.TempDir()
		writeRedraftToml(t, root, `
[output]
format = "text"
`)
		nested := filepath.Join(root, "docs", "drafts")
		if err := os.MkdirAll(nested, 0755); err != nil {
			t.Fatal(err)
		}

		config, err := loader.LoadConfig(nested)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Output.Format != "text" {
			t.Errorf("Expected format from ancestor config, got %s", config.Output.Format)
		}
	})

	t.Run("MalformedFileFails", func(t *testing.T) {
		dir := t.TempDir()
		writeRedraftToml(t, dir, "not [valid toml")
		if _, err := loader.LoadConfig(dir); err == nil {
			t.Error("Expected error for malformed TOML")
		}
	})

	t.Run("InvalidMergedConfigFails", func(t *testing.T) {
		dir := t.TempDir()
		writeRedraftToml(t, dir, `
[review]
critical_threshold = 0.5
error_threshold = 0.7
`)
		if _, err := loader.LoadConfig(dir); err == nil {
			t.Error("Expected validation error for non-descending thresholds")
		}
	})
}

func TestCreateConfigTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".redraft.toml")
	if err := CreateConfigTemplate(path); err != nil {
		t.Fatalf("CreateConfigTemplate failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, section := range []string{"[server]", "[review]", "[output]", "[input]"} {
		if !strings.Contains(content, section) {
			t.Errorf("Template missing section %s", section)
		}
	}
}
