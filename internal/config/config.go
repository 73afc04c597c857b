package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default confidence thresholds for severity classification
const (
	// DefaultCriticalThreshold is the lower bound for critical issues
	DefaultCriticalThreshold = 0.85

	// DefaultErrorThreshold is the lower bound for error issues
	DefaultErrorThreshold = 0.70

	// DefaultWarningThreshold is the lower bound for warning issues;
	// anything below renders as a suggestion
	DefaultWarningThreshold = 0.50

	// DefaultMinConfidence reports every issue regardless of confidence
	DefaultMinConfidence = 0.0
)

// Default server settings
const (
	DefaultListenAddr = "127.0.0.1:8317"

	// DefaultBackendURL is where rewrite and feedback requests go
	DefaultBackendURL = "http://127.0.0.1:5000"

	DefaultStoragePath = ".redraft/session.db"
)

// Config represents the main configuration structure
type Config struct {
	// Server holds the review server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Review holds rendering and filtering configuration
	Review ReviewConfig `mapstructure:"review" yaml:"review"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Input holds analysis file discovery configuration
	Input InputConfig `mapstructure:"input" yaml:"input"`
}

// ServerConfig holds the review server settings
type ServerConfig struct {
	// ListenAddr is the address the review server binds to
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// BackendURL is the base URL of the analysis backend used for
	// rewrites and feedback submission
	BackendURL string `mapstructure:"backend_url" yaml:"backend_url"`

	// StoragePath is the SQLite file backing session state. Empty
	// selects the in-memory store.
	StoragePath string `mapstructure:"storage_path" yaml:"storage_path"`
}

// ReviewConfig holds rendering and filtering settings
type ReviewConfig struct {
	// MinConfidence filters out issues below this confidence
	MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"`

	// DefaultFilters lists the severity levels active on first load.
	// Empty means all levels are active.
	DefaultFilters []string `mapstructure:"default_filters" yaml:"default_filters"`

	// CriticalThreshold is the lower confidence bound for critical issues
	CriticalThreshold float64 `mapstructure:"critical_threshold" yaml:"critical_threshold"`

	// ErrorThreshold is the lower confidence bound for error issues
	ErrorThreshold float64 `mapstructure:"error_threshold" yaml:"error_threshold"`

	// WarningThreshold is the lower confidence bound for warning issues
	WarningThreshold float64 `mapstructure:"warning_threshold" yaml:"warning_threshold"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, html
	Format string `mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether issue cards include the full
	// confidence breakdown
	ShowDetails bool `mapstructure:"show_details" yaml:"show_details"`

	// SortBy specifies how to sort flat issue lists: confidence, location, rule
	SortBy string `mapstructure:"sort_by" yaml:"sort_by"`
}

// InputConfig holds analysis file discovery configuration
type InputConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to scan directories recursively
	Recursive bool `mapstructure:"recursive" yaml:"recursive"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:  DefaultListenAddr,
			BackendURL:  DefaultBackendURL,
			StoragePath: DefaultStoragePath,
		},
		Review: ReviewConfig{
			MinConfidence:     DefaultMinConfidence,
			DefaultFilters:    []string{},
			CriticalThreshold: DefaultCriticalThreshold,
			ErrorThreshold:    DefaultErrorThreshold,
			WarningThreshold:  DefaultWarningThreshold,
		},
		Output: OutputConfig{
			Format:      "html",
			ShowDetails: false,
			SortBy:      "confidence",
		},
		Input: InputConfig{
			IncludePatterns: []string{"*.json"},
			ExcludePatterns: []string{},
			Recursive:       true,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config path specified, try to find default config files
	if configPath == "" {
		configPath = findDefaultConfig()
	}

	// If still no config found, return default
	if configPath == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findDefaultConfig looks for default configuration files in common locations
func findDefaultConfig() string {
	candidates := []string{
		".redraft.toml",
		"redraft.toml",
		".redraft.yaml",
		".redraft.yml",
	}

	// Check current directory first
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	// Check home directory
	if home, err := os.UserHomeDir(); err == nil {
		for _, candidate := range candidates {
			path := filepath.Join(home, candidate)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr cannot be empty")
	}

	if c.Review.MinConfidence < 0 || c.Review.MinConfidence > 1 {
		return fmt.Errorf("review.min_confidence must be in [0, 1], got %g", c.Review.MinConfidence)
	}

	// Thresholds must be descending and inside (0, 1]
	thresholds := []struct {
		name  string
		value float64
	}{
		{"review.critical_threshold", c.Review.CriticalThreshold},
		{"review.error_threshold", c.Review.ErrorThreshold},
		{"review.warning_threshold", c.Review.WarningThreshold},
	}
	for _, t := range thresholds {
		if t.value <= 0 || t.value > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %g", t.name, t.value)
		}
	}
	if c.Review.CriticalThreshold <= c.Review.ErrorThreshold {
		return fmt.Errorf("review.critical_threshold (%g) must be > error_threshold (%g)",
			c.Review.CriticalThreshold, c.Review.ErrorThreshold)
	}
	if c.Review.ErrorThreshold <= c.Review.WarningThreshold {
		return fmt.Errorf("review.error_threshold (%g) must be > warning_threshold (%g)",
			c.Review.ErrorThreshold, c.Review.WarningThreshold)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"html": true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, html", c.Output.Format)
	}

	validSortBy := map[string]bool{
		"confidence": true,
		"location":   true,
		"rule":       true,
	}
	if !validSortBy[c.Output.SortBy] {
		return fmt.Errorf("invalid output.sort_by '%s', must be one of: confidence, location, rule", c.Output.SortBy)
	}

	validSeverities := map[string]bool{
		"critical":   true,
		"error":      true,
		"warning":    true,
		"suggestion": true,
	}
	for _, level := range c.Review.DefaultFilters {
		if !validSeverities[level] {
			return fmt.Errorf("invalid review.default_filters entry '%s'", level)
		}
	}

	if len(c.Input.IncludePatterns) == 0 {
		return fmt.Errorf("input.include_patterns cannot be empty")
	}

	return nil
}
