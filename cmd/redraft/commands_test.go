package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redraft-ai/redraft/domain"
)

// TestRenderCommandInterface tests the render command interface
func TestRenderCommandInterface(t *testing.T) {
	renderCmd := NewRenderCommand()
	if renderCmd == nil {
		t.Fatal("NewRenderCommand should return a valid command instance")
	}

	cobraCmd := renderCmd.CreateCobraCommand()
	if cobraCmd == nil {
		t.Fatal("CreateCobraCommand should return a valid cobra command")
	}

	if cobraCmd.Use != "render [analysis files...]" {
		t.Errorf("Expected command use 'render [analysis files...]', got '%s'", cobraCmd.Use)
	}

	if cobraCmd.Short == "" {
		t.Error("Command should have a short description")
	}

	// Test that essential flags are present
	flags := cobraCmd.Flags()
	expectedFlags := []string{"html", "json", "yaml", "no-open", "min-confidence", "filters", "sort", "details", "config", "recursive", "include", "exclude"}
	for _, flagName := range expectedFlags {
		if flags.Lookup(flagName) == nil {
			t.Errorf("Expected flag '%s' to be defined", flagName)
		}
	}
}

func TestRenderCommandParseSortCriteria(t *testing.T) {
	c := NewRenderCommand()

	tests := []struct {
		input       string
		expected    domain.SortCriteria
		expectError bool
	}{
		{"confidence", domain.SortByConfidence, false},
		{"LOCATION", domain.SortByLocation, false},
		{"rule", domain.SortByRule, false},
		{"severity", "", true},
	}
	for _, tt := range tests {
		got, err := c.parseSortCriteria(tt.input)
		if tt.expectError {
			if err == nil {
				t.Errorf("parseSortCriteria(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSortCriteria(%q) failed: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("parseSortCriteria(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestRenderCommandParseFilters(t *testing.T) {
	c := NewRenderCommand()

	c.filters = []string{"Critical", "warning"}
	filters, err := c.parseFilters()
	if err != nil {
		t.Fatalf("parseFilters failed: %v", err)
	}
	if len(filters) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(filters))
	}
	if filters[0] != domain.SeverityCritical || filters[1] != domain.SeverityWarning {
		t.Errorf("unexpected filters: %v", filters)
	}

	c.filters = []string{"blocker"}
	if _, err := c.parseFilters(); err == nil {
		t.Error("parseFilters should reject unknown severities")
	}
}

func TestRenderCommandRejectsMissingPath(t *testing.T) {
	c := NewRenderCommand()
	cobraCmd := c.CreateCobraCommand()

	var output bytes.Buffer
	cobraCmd.SetOut(&output)
	cobraCmd.SetErr(&output)
	cobraCmd.SetArgs([]string{"/definitely/not/a/real/path.json"})

	err := cobraCmd.Execute()
	if err == nil {
		t.Fatal("render should fail for a nonexistent path")
	}
	if !strings.Contains(err.Error(), "path does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestServeCommandInterface tests the serve command interface
func TestServeCommandInterface(t *testing.T) {
	serveCmd := NewServeCommand()
	if serveCmd == nil {
		t.Fatal("NewServeCommand should return a valid command instance")
	}

	cobraCmd := serveCmd.CreateCobraCommand()
	if cobraCmd == nil {
		t.Fatal("CreateCobraCommand should return a valid cobra command")
	}

	if cobraCmd.Use != "serve" {
		t.Errorf("Expected command use 'serve', got '%s'", cobraCmd.Use)
	}

	flags := cobraCmd.Flags()
	for _, flagName := range []string{"addr", "backend", "storage", "config", "file"} {
		if flags.Lookup(flagName) == nil {
			t.Errorf("Expected flag '%s' to be defined", flagName)
		}
	}
}

// TestVersionCommandInterface tests the version command interface
func TestVersionCommandInterface(t *testing.T) {
	versionCmd := NewVersionCommand()
	if versionCmd == nil {
		t.Fatal("NewVersionCommand should return a valid command instance")
	}

	cobraCmd := versionCmd.CreateCobraCommand()
	if cobraCmd == nil {
		t.Fatal("CreateCobraCommand should return a valid cobra command")
	}

	if cobraCmd.Use != "version" {
		t.Errorf("Expected command use 'version', got '%s'", cobraCmd.Use)
	}

	// Test version command execution
	var output bytes.Buffer
	cobraCmd.SetOut(&output)
	cobraCmd.SetErr(&output)

	err := cobraCmd.Execute()
	if err != nil {
		t.Fatalf("Version command should not fail: %v", err)
	}

	if output.String() == "" {
		t.Error("Version command should produce output")
	}
}

// TestInitCommandInterface tests the init command interface
func TestInitCommandInterface(t *testing.T) {
	initCmd := NewInitCommand()
	if initCmd == nil {
		t.Fatal("NewInitCommand should return a valid command instance")
	}

	cobraCmd := initCmd.CreateCobraCommand()
	if cobraCmd == nil {
		t.Fatal("CreateCobraCommand should return a valid cobra command")
	}

	if cobraCmd.Use != "init" {
		t.Errorf("Expected command use 'init', got '%s'", cobraCmd.Use)
	}

	flags := cobraCmd.Flags()
	for _, flagName := range []string{"force", "config"} {
		if flags.Lookup(flagName) == nil {
			t.Errorf("Expected flag '%s' to be defined", flagName)
		}
	}
}

func TestInitCommandCreatesConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".redraft.toml")

	initCmd := NewInitCommand()
	cobraCmd := initCmd.CreateCobraCommand()

	var output bytes.Buffer
	cobraCmd.SetOut(&output)
	cobraCmd.SetErr(&output)
	cobraCmd.SetArgs([]string{"--config", configPath})

	if err := cobraCmd.Execute(); err != nil {
		t.Fatalf("init should succeed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config file should exist: %v", err)
	}
	if !strings.Contains(string(data), "[server]") {
		t.Error("generated config should contain a [server] section")
	}

	// Running again without --force must refuse to overwrite
	secondCmd := NewInitCommand().CreateCobraCommand()
	secondCmd.SetOut(&output)
	secondCmd.SetErr(&output)
	secondCmd.SetArgs([]string{"--config", configPath})
	if err := secondCmd.Execute(); err == nil {
		t.Error("init should refuse to overwrite an existing config without --force")
	}

	// --force overwrites
	thirdCmd := NewInitCommand().CreateCobraCommand()
	thirdCmd.SetOut(&output)
	thirdCmd.SetErr(&output)
	thirdCmd.SetArgs([]string{"--config", configPath, "--force"})
	if err := thirdCmd.Execute(); err != nil {
		t.Errorf("init --force should succeed: %v", err)
	}
}

func TestGenerateTimestampedFileName(t *testing.T) {
	name := generateTimestampedFileName("review", "html")
	if !strings.HasPrefix(name, "review_") {
		t.Errorf("expected prefix 'review_', got %s", name)
	}
	if !strings.HasSuffix(name, ".html") {
		t.Errorf("expected suffix '.html', got %s", name)
	}
}

func TestResolveOutputDirectory(t *testing.T) {
	dir := resolveOutputDirectory()
	if !strings.Contains(dir, filepath.Join(".redraft", "reviews")) {
		t.Errorf("expected reviews directory under .redraft, got %s", dir)
	}
}
