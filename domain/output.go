package domain

import (
	"context"
	"io"
	"time"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatHTML OutputFormat = "html"
)

// SortCriteria represents the criteria for sorting rendered issues
type SortCriteria string

const (
	SortByConfidence SortCriteria = "confidence"
	SortByLocation   SortCriteria = "location"
	SortByRule       SortCriteria = "rule"
)

// ReviewRequest represents a request to render one or more analysis
// documents into a review surface.
type ReviewRequest struct {
	// Input analysis JSON files
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string // Path to save output file (for HTML format)
	NoOpen       bool   // Don't auto-open HTML in browser
	ShowDetails  bool

	// Filtering and sorting
	MinConfidence float64
	ActiveFilters []Severity
	SortBy        SortCriteria

	// Configuration
	ConfigPath string

	// Input discovery
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Tracks which flags were explicitly set on the command line so the
	// config merge only overrides what the user asked for.
	ExplicitFlags map[string]bool
}

// ReviewSummary aggregates what was rendered.
type ReviewSummary struct {
	TotalBlocks    int              `json:"total_blocks"`
	RenderedCards  int              `json:"rendered_cards"`
	SkippedBlocks  int              `json:"skipped_blocks"`
	TotalIssues    int              `json:"total_issues"`
	BySeverity     map[Severity]int `json:"by_severity"`
	FallbackBlocks int              `json:"fallback_blocks"`
}

// ReviewResponse is the result of rendering one analysis document.
type ReviewResponse struct {
	HTML        string        `json:"html,omitempty"`
	Summary     ReviewSummary `json:"summary"`
	ContentType string        `json:"content_type,omitempty"`
	GeneratedAt string        `json:"generated_at"`
	Version     string        `json:"version"`
}

// AnalysisLoader reads analyzer output documents.
//
// Implementations live in the service layer.
type AnalysisLoader interface {
	// Load parses one analysis JSON document from the given path.
	Load(path string) (*AnalysisResult, error)

	// CollectFiles expands paths, directories and glob patterns into the
	// set of analysis files to render.
	CollectFiles(paths []string, recursive bool, include, exclude []string) ([]string, error)
}

// ReviewService renders analysis results into review responses
type ReviewService interface {
	// Render renders one analysis result according to the request
	Render(ctx context.Context, result *AnalysisResult, req ReviewRequest) (*ReviewResponse, error)
}

// OutputFormatter formats review responses for output
type OutputFormatter interface {
	// Format formats the response according to the specified format
	Format(response *ReviewResponse, format OutputFormat) (string, error)

	// Write writes the formatted response to the writer
	Write(response *ReviewResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader loads review configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*ReviewRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *ReviewRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *ReviewRequest, override *ReviewRequest) *ReviewRequest
}

// ReportWriter abstracts writing rendered output to a destination and
// side-effects like opening HTML reports in a browser.
type ReportWriter interface {
	Write(writer io.Writer, outputPath string, format OutputFormat, noOpen bool, writeFunc func(io.Writer) error) error
}

// ProgressManager manages progress tracking for multi-file rendering
type ProgressManager interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Start starts the progress bar
	Start()

	// Complete marks the progress as completed
	Complete(success bool)

	// Update updates the progress
	Update(processed, total int)

	// SetWriter sets the output writer for progress bars
	SetWriter(writer io.Writer)

	// IsInteractive returns true if progress bars should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}

// ParallelExecutor manages parallel execution of tasks
type ParallelExecutor interface {
	// Execute runs tasks in parallel with the given configuration
	Execute(ctx context.Context, tasks []ExecutableTask) error

	// SetMaxConcurrency sets the maximum number of concurrent tasks
	SetMaxConcurrency(max int)

	// SetTimeout sets the timeout for all tasks
	SetTimeout(timeout time.Duration)
}

// ExecutableTask represents a task that can be executed in parallel
type ExecutableTask interface {
	// Name returns the name of the task
	Name() string

	// Execute runs the task and returns the result
	Execute(ctx context.Context) (interface{}, error)

	// IsEnabled returns whether the task should be executed
	IsEnabled() bool
}

// StringStore is a session-scoped string key/value store. Reads tolerate
// malformed content and writes are best-effort; neither ever panics.
type StringStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// RewriteBackend performs the AI rewrite for one block.
type RewriteBackend interface {
	Rewrite(ctx context.Context, req *RewriteRequest) (*RewriteResult, error)
}

// FeedbackBackend receives feedback submissions. The response is advisory;
// local state remains authoritative for the UI.
type FeedbackBackend interface {
	SubmitFeedback(ctx context.Context, submission *FeedbackSubmission) error
}
