package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Server defaults
	if config.Server.ListenAddr != DefaultListenAddr {
		t.Errorf("Expected listen addr %s, got %s", DefaultListenAddr, config.Server.ListenAddr)
	}
	if config.Server.BackendURL != DefaultBackendURL {
		t.Errorf("Expected backend URL %s, got %s", DefaultBackendURL, config.Server.BackendURL)
	}
	if config.Server.StoragePath != DefaultStoragePath {
		t.Errorf("Expected storage path %s, got %s", DefaultStoragePath, config.Server.StoragePath)
	}

	// Review defaults
	if config.Review.MinConfidence != 0.0 {
		t.Errorf("Expected min confidence 0.0, got %g", config.Review.MinConfidence)
	}
	if config.Review.CriticalThreshold != 0.85 {
		t.Errorf("Expected critical threshold 0.85, got %g", config.Review.CriticalThreshold)
	}
	if config.Review.ErrorThreshold != 0.70 {
		t.Errorf("Expected error threshold 0.70, got %g", config.Review.ErrorThreshold)
	}
	if config.Review.WarningThreshold != 0.50 {
		t.Errorf("Expected warning threshold 0.50, got %g", config.Review.WarningThreshold)
	}
	if len(config.Review.DefaultFilters) != 0 {
		t.Errorf("Expected no default filters, got %v", config.Review.DefaultFilters)
	}

	// Output defaults
	if config.Output.Format != "html" {
		t.Errorf("Expected format 'html', got %s", config.Output.Format)
	}
	if config.Output.ShowDetails {
		t.Error("Expected show_details to be false by default")
	}
	if config.Output.SortBy != "confidence" {
		t.Errorf("Expected sort_by 'confidence', got %s", config.Output.SortBy)
	}

	// Input defaults
	if len(config.Input.IncludePatterns) != 1 || config.Input.IncludePatterns[0] != "*.json" {
		t.Errorf("Expected include patterns ['*.json'], got %v", config.Input.IncludePatterns)
	}
	if !config.Input.Recursive {
		t.Error("Expected recursive to be true by default")
	}
}

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name          string
		modifyConfig  func(*Config)
		expectError   bool
		errorContains string
	}{
		{
			name:         "ValidConfig",
			modifyConfig: func(c *Config) {},
			expectError:  false,
		},
		{
			name: "EmptyListenAddr",
			modifyConfig: func(c *Config) {
				c.Server.ListenAddr = ""
			},
			expectError:   true,
			errorContains: "listen_addr",
		},
		{
			name: "MinConfidenceOutOfRange",
			modifyConfig: func(c *Config) {
				c.Review.MinConfidence = 1.5
			},
			expectError:   true,
			errorContains: "min_confidence",
		},
		{
			name: "ThresholdOutOfRange",
			modifyConfig: func(c *Config) {
				c.Review.WarningThreshold = 0
			},
			expectError:   true,
			errorContains: "warning_threshold",
		},
		{
			name: "ThresholdsNotDescending",
			modifyConfig: func(c *Config) {
				c.Review.CriticalThreshold = 0.6
				c.Review.ErrorThreshold = 0.7
			},
			expectError:   true,
			errorContains: "critical_threshold",
		},
		{
			name: "ErrorBelowWarning",
			modifyConfig: func(c *Config) {
				c.Review.ErrorThreshold = 0.4
			},
			expectError:   true,
			errorContains: "error_threshold",
		},
		{
			name: "InvalidFormat",
			modifyConfig: func(c *Config) {
				c.Output.Format = "xml"
			},
			expectError:   true,
			errorContains: "invalid output.format",
		},
		{
			name: "InvalidSortBy",
			modifyConfig: func(c *Config) {
				c.Output.SortBy = "severity"
			},
			expectError:   true,
			errorContains: "invalid output.sort_by",
		},
		{
			name: "InvalidDefaultFilter",
			modifyConfig: func(c *Config) {
				c.Review.DefaultFilters = []string{"critical", "blocker"}
			},
			expectError:   true,
			errorContains: "default_filters",
		},
		{
			name: "EmptyIncludePatterns",
			modifyConfig: func(c *Config) {
				c.Input.IncludePatterns = nil
			},
			expectError:   true,
			errorContains: "include_patterns",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.modifyConfig(config)

			err := config.Validate()
			if tc.expectError {
				if err == nil {
					t.Fatal("Expected validation error, got nil")
				}
				if tc.errorContains != "" && !strings.Contains(err.Error(), tc.errorContains) {
					t.Errorf("Expected error containing %q, got %q", tc.errorContains, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("ExplicitFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "custom.toml")
		content := `
[server]
listen_addr = "127.0.0.1:9000"

[review]
min_confidence = 0.6

[output]
format = "json"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Server.ListenAddr != "127.0.0.1:9000" {
			t.Errorf("Expected listen addr from file, got %s", config.Server.ListenAddr)
		}
		if config.Review.MinConfidence != 0.6 {
			t.Errorf("Expected min confidence 0.6, got %g", config.Review.MinConfidence)
		}
		if config.Output.Format != "json" {
			t.Errorf("Expected format 'json', got %s", config.Output.Format)
		}
		// Unset values keep their defaults.
		if config.Review.CriticalThreshold != 0.85 {
			t.Errorf("Expected default critical threshold, got %g", config.Review.CriticalThreshold)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if err == nil {
			t.Error("Expected error for missing config file")
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.toml")
		content := `
[output]
format = "xml"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("Expected validation error for invalid format")
		}
	})
}
