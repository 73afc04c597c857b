package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// RedraftTomlConfig represents the structure of .redraft.toml
type RedraftTomlConfig struct {
	Server TomlServerConfig `toml:"server"`
	Review TomlReviewConfig `toml:"review"`
	Output TomlOutputConfig `toml:"output"`
	Input  TomlInputConfig  `toml:"input"`
}

type TomlServerConfig struct {
	ListenAddr  string `toml:"listen_addr"`
	BackendURL  string `toml:"backend_url"`
	StoragePath string `toml:"storage_path"`
}

type TomlReviewConfig struct {
	MinConfidence     *float64 `toml:"min_confidence"` // pointer to detect unset
	DefaultFilters    []string `toml:"default_filters"`
	CriticalThreshold float64  `toml:"critical_threshold"`
	ErrorThreshold    float64  `toml:"error_threshold"`
	WarningThreshold  float64  `toml:"warning_threshold"`
}

type TomlOutputConfig struct {
	Format      string `toml:"format"`
	ShowDetails *bool  `toml:"show_details"` // pointer to detect unset
	SortBy      string `toml:"sort_by"`
}

type TomlInputConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"` // pointer to detect unset
}

// TomlConfigLoader handles TOML-only configuration loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration with the following priority:
// 1. .redraft.toml found walking up from startDir
// 2. defaults
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := l.findRedraftToml(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var fileConfig RedraftTomlConfig
	if err := toml.Unmarshal(data, &fileConfig); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	l.mergeTomlConfig(defaults, &fileConfig)

	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return defaults, nil
}

// findRedraftToml walks up the directory tree to find .redraft.toml
func (l *TomlConfigLoader) findRedraftToml(startDir string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".redraft.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// mergeTomlConfig merges .redraft.toml values into defaults, using
// pointer fields to detect unset values
func (l *TomlConfigLoader) mergeTomlConfig(defaults *Config, fileConfig *RedraftTomlConfig) {
	// Server
	if fileConfig.Server.ListenAddr != "" {
		defaults.Server.ListenAddr = fileConfig.Server.ListenAddr
	}
	if fileConfig.Server.BackendURL != "" {
		defaults.Server.BackendURL = fileConfig.Server.BackendURL
	}
	if fileConfig.Server.StoragePath != "" {
		defaults.Server.StoragePath = fileConfig.Server.StoragePath
	}

	// Review
	if fileConfig.Review.MinConfidence != nil {
		defaults.Review.MinConfidence = *fileConfig.Review.MinConfidence
	}
	if len(fileConfig.Review.DefaultFilters) > 0 {
		defaults.Review.DefaultFilters = fileConfig.Review.DefaultFilters
	}
	if fileConfig.Review.CriticalThreshold > 0 {
		defaults.Review.CriticalThreshold = fileConfig.Review.CriticalThreshold
	}
	if fileConfig.Review.ErrorThreshold > 0 {
		defaults.Review.ErrorThreshold = fileConfig.Review.ErrorThreshold
	}
	if fileConfig.Review.WarningThreshold > 0 {
		defaults.Review.WarningThreshold = fileConfig.Review.WarningThreshold
	}

	// Output
	if fileConfig.Output.Format != "" {
		defaults.Output.Format = fileConfig.Output.Format
	}
	if fileConfig.Output.ShowDetails != nil {
		defaults.Output.ShowDetails = *fileConfig.Output.ShowDetails
	}
	if fileConfig.Output.SortBy != "" {
		defaults.Output.SortBy = fileConfig.Output.SortBy
	}

	// Input
	if len(fileConfig.Input.IncludePatterns) > 0 {
		defaults.Input.IncludePatterns = fileConfig.Input.IncludePatterns
	}
	if len(fileConfig.Input.ExcludePatterns) > 0 {
		defaults.Input.ExcludePatterns = fileConfig.Input.ExcludePatterns
	}
	if fileConfig.Input.Recursive != nil {
		defaults.Input.Recursive = *fileConfig.Input.Recursive
	}
}

// CreateConfigTemplate writes a commented starter .redraft.toml to path
func CreateConfigTemplate(path string) error {
	return os.WriteFile(path, []byte(configTemplate), 0644)
}

const configTemplate = `# redraft configuration

[server]
# listen_addr = "127.0.0.1:8317"
# backend_url = "http://127.0.0.1:5000"
# storage_path = ".redraft/session.db"

[review]
# min_confidence = 0.0
# default_filters = ["critical", "error", "warning", "suggestion"]
# critical_threshold = 0.85
# error_threshold = 0.70
# warning_threshold = 0.50

[output]
# format = "html"
# show_details = false
# sort_by = "confidence"

[input]
# include_patterns = ["*.json"]
# exclude_patterns = []
# recursive = true
`
