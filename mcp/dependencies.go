package mcp

import (
	"github.com/redraft-ai/redraft/domain"
	"github.com/redraft-ai/redraft/internal/config"
	"github.com/redraft-ai/redraft/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	loader     domain.AnalysisLoader
	feedback   *service.FeedbackService
	config     *config.Config
	configPath string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		loader:     service.NewAnalysisLoader(),
		feedback:   service.NewFeedbackService(service.NewMemoryStore(), nil, ""),
		config:     cfg,
		configPath: configPath,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// Loader exposes the analysis document loader.
func (d *Dependencies) Loader() domain.AnalysisLoader {
	return d.loader
}

// Feedback exposes the session feedback tracker shared across tool calls.
func (d *Dependencies) Feedback() *service.FeedbackService {
	return d.feedback
}

// BuildReviewService assembles a fresh ReviewService for one render call.
func (d *Dependencies) BuildReviewService() domain.ReviewService {
	return buildReviewService(d.feedback)
}
