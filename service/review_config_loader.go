package service

import (
	"os"

	"github.com/redraft-ai/redraft/domain"
	"github.com/redraft-ai/redraft/internal/config"
)

// ReviewConfigLoader loads review configuration and merges it with CLI
// flags, honoring only flags the user explicitly set.
type ReviewConfigLoader struct {
	flagTracker *config.FlagTracker
}

// NewReviewConfigLoader creates a new configuration loader service
func NewReviewConfigLoader(explicitFlags map[string]bool) *ReviewConfigLoader {
	return &ReviewConfigLoader{
		flagTracker: config.NewFlagTrackerWithFlags(explicitFlags),
	}
}

// LoadConfig loads configuration from the specified path
func (c *ReviewConfigLoader) LoadConfig(path string) (*domain.ReviewRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToReviewRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration, first checking for
// a .redraft.toml in the working directory tree
func (c *ReviewConfigLoader) LoadDefaultConfig() *domain.ReviewRequest {
	cwd, err := os.Getwd()
	if err == nil {
		if cfg, err := config.NewTomlConfigLoader().LoadConfig(cwd); err == nil {
			return c.convertToReviewRequest(cfg)
		}
	}

	return c.convertToReviewRequest(config.DefaultConfig())
}

// MergeConfig merges CLI flags with configuration file, respecting
// explicit flags
func (c *ReviewConfigLoader) MergeConfig(base *domain.ReviewRequest, override *domain.ReviewRequest) *domain.ReviewRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	// Always override paths as they come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	if c.flagTracker.WasSet("format") && override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	// Output path and no-open always follow the command line
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	merged.NoOpen = override.NoOpen

	merged.ShowDetails = c.flagTracker.MergeBool(merged.ShowDetails, override.ShowDetails, "details")
	merged.MinConfidence = c.flagTracker.MergeFloat64(merged.MinConfidence, override.MinConfidence, "min-confidence")

	if c.flagTracker.WasSet("sort") {
		merged.SortBy = override.SortBy
	}

	if c.flagTracker.WasSet("filters") && len(override.ActiveFilters) > 0 {
		merged.ActiveFilters = override.ActiveFilters
	}

	// Config path is always from override if provided
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	merged.Recursive = c.flagTracker.MergeBool(merged.Recursive, override.Recursive, "recursive")
	merged.IncludePatterns = c.flagTracker.MergeStringSlice(merged.IncludePatterns, override.IncludePatterns, "include")
	merged.ExcludePatterns = c.flagTracker.MergeStringSlice(merged.ExcludePatterns, override.ExcludePatterns, "exclude")

	merged.ExplicitFlags = c.flagTracker.GetAll()

	return &merged
}

// convertToReviewRequest converts internal config to a domain request
func (c *ReviewConfigLoader) convertToReviewRequest(cfg *config.Config) *domain.ReviewRequest {
	var outputFormat domain.OutputFormat
	switch cfg.Output.Format {
	case "json":
		outputFormat = domain.OutputFormatJSON
	case "yaml":
		outputFormat = domain.OutputFormatYAML
	case "text":
		outputFormat = domain.OutputFormatText
	default:
		outputFormat = domain.OutputFormatHTML
	}

	var sortBy domain.SortCriteria
	switch cfg.Output.SortBy {
	case "location":
		sortBy = domain.SortByLocation
	case "rule":
		sortBy = domain.SortByRule
	default:
		sortBy = domain.SortByConfidence
	}

	var filters []domain.Severity
	for _, level := range cfg.Review.DefaultFilters {
		severity := domain.Severity(level)
		if severity.IsValid() {
			filters = append(filters, severity)
		}
	}
	if len(filters) == 0 {
		filters = append(filters, domain.AllSeverities...)
	}

	return &domain.ReviewRequest{
		OutputFormat:    outputFormat,
		OutputWriter:    os.Stdout,
		ShowDetails:     cfg.Output.ShowDetails,
		MinConfidence:   cfg.Review.MinConfidence,
		ActiveFilters:   filters,
		SortBy:          sortBy,
		Recursive:       cfg.Input.Recursive,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,
	}
}

// ValidateConfig validates a configuration request
func (c *ReviewConfigLoader) ValidateConfig(req *domain.ReviewRequest) error {
	if req.MinConfidence < 0 || req.MinConfidence > 1 {
		return domain.NewConfigError("minimum confidence must be between 0 and 1", nil)
	}

	for _, severity := range req.ActiveFilters {
		if !severity.IsValid() {
			return domain.NewConfigError("invalid severity filter: "+string(severity), nil)
		}
	}

	switch req.OutputFormat {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatHTML:
	default:
		return domain.NewConfigError("unsupported output format: "+string(req.OutputFormat), nil)
	}

	return nil
}

// CreateConfigTemplate creates a template configuration file
func (c *ReviewConfigLoader) CreateConfigTemplate(path string) error {
	return config.CreateConfigTemplate(path)
}

// FindDefaultConfigFile looks for a redraft config file in the current directory
func (c *ReviewConfigLoader) FindDefaultConfigFile() string {
	configFiles := []string{".redraft.toml", "redraft.toml", ".redraft.yaml"}

	for _, filename := range configFiles {
		if _, err := os.Stat(filename); err == nil {
			return filename
		}
	}

	return ""
}
