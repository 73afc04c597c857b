package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redraft-ai/redraft/app"
	"github.com/redraft-ai/redraft/domain"
	"github.com/redraft-ai/redraft/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RenderCommand represents the render command
type RenderCommand struct {
	// Output format flags (only one should be true)
	html   bool
	json   bool
	yaml   bool
	noOpen bool

	// Filtering and sorting
	minConfidence float64
	filters       []string
	sortBy        string
	showDetails   bool

	// Configuration and discovery
	configFile      string
	recursive       bool
	includePatterns []string
	excludePatterns []string
	verbose         bool
}

// NewRenderCommand creates a new render command
func NewRenderCommand() *RenderCommand {
	return &RenderCommand{
		minConfidence:   0,
		sortBy:          "confidence",
		recursive:       true,
		includePatterns: []string{"*.json"},
	}
}

// CreateCobraCommand creates the cobra command for rendering reviews
func (c *RenderCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [analysis files...]",
		Short: "Render analysis output into a review",
		Long: `Render writing-analysis JSON into a review surface.

Every structural block of the analyzed document becomes a card showing its
content and any issues, each with a confidence badge. Severity derives
from confidence:
  • Critical:   0.85 and above
  • Error:      0.70 to 0.84
  • Warning:    0.50 to 0.69
  • Suggestion: below 0.50

Examples:
  # Render to HTML and open it
  redraft render analysis.json --html

  # Render a directory of analysis files as text summaries
  redraft render results/

  # Keep only high-confidence issues
  redraft render analysis.json --min-confidence 0.7 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runRender,
	}

	cmd.Flags().BoolVar(&c.html, "html", false, "Generate HTML review and open in browser")
	cmd.Flags().BoolVar(&c.json, "json", false, "Output summary as JSON")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output summary as YAML")
	cmd.Flags().BoolVar(&c.noOpen, "no-open", false, "Don't auto-open HTML in browser")
	cmd.Flags().Float64Var(&c.minConfidence, "min-confidence", 0, "Minimum issue confidence to render")
	cmd.Flags().StringSliceVar(&c.filters, "filters", nil, "Active severity filters (critical, error, warning, suggestion)")
	cmd.Flags().StringVar(&c.sortBy, "sort", "confidence", "Sort issues by (confidence, location, rule)")
	cmd.Flags().BoolVar(&c.showDetails, "details", false, "Show full confidence breakdown on issue cards")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().BoolVar(&c.recursive, "recursive", true, "Scan directories recursively")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil, "File patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil, "File patterns to exclude")

	return cmd
}

// runRender executes the render command
func (c *RenderCommand) runRender(cmd *cobra.Command, args []string) error {
	if cmd.Parent() != nil {
		c.verbose, _ = cmd.Parent().Flags().GetBool("verbose")
	}

	request, err := c.buildReviewRequest(cmd, args)
	if err != nil {
		return fmt.Errorf("invalid command arguments: %w", err)
	}

	useCase, err := c.createReviewUseCase(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := useCase.Execute(ctx, request); err != nil {
		return c.handleRenderError(err)
	}

	return nil
}

// buildReviewRequest creates a domain request from CLI flags
func (c *RenderCommand) buildReviewRequest(cmd *cobra.Command, args []string) (domain.ReviewRequest, error) {
	outputFormat, outputExt, err := service.NewOutputFormatResolver().Determine(c.html, c.json, c.yaml)
	if err != nil {
		return domain.ReviewRequest{}, err
	}

	sortBy, err := c.parseSortCriteria(c.sortBy)
	if err != nil {
		return domain.ReviewRequest{}, err
	}

	filters, err := c.parseFilters()
	if err != nil {
		return domain.ReviewRequest{}, err
	}

	if c.minConfidence < 0 || c.minConfidence > 1 {
		return domain.ReviewRequest{}, fmt.Errorf("min-confidence must be between 0 and 1")
	}

	paths, err := c.expandAndValidatePaths(args)
	if err != nil {
		return domain.ReviewRequest{}, err
	}

	req := domain.ReviewRequest{
		Paths:           paths,
		OutputFormat:    outputFormat,
		OutputWriter:    cmd.OutOrStdout(),
		NoOpen:          c.noOpen,
		ShowDetails:     c.showDetails,
		MinConfidence:   c.minConfidence,
		ActiveFilters:   filters,
		SortBy:          sortBy,
		ConfigPath:      c.configFile,
		Recursive:       c.recursive,
		IncludePatterns: c.includePatterns,
		ExcludePatterns: c.excludePatterns,
	}

	// HTML goes to a timestamped report file unless stdout was redirected
	if outputFormat == domain.OutputFormatHTML {
		outputPath, err := generateOutputFilePath("review", outputExt)
		if err != nil {
			return domain.ReviewRequest{}, err
		}
		req.OutputPath = outputPath
		if !isInteractiveEnvironment() {
			req.NoOpen = true
		}
	}

	return req, nil
}

// createReviewUseCase creates the use case with all dependencies
func (c *RenderCommand) createReviewUseCase(cmd *cobra.Command) (*app.ReviewUseCase, error) {
	// Track which flags were explicitly set by the user
	explicitFlags := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		explicitFlags[f.Name] = true
	})

	loader := service.NewAnalysisLoader()
	formatter := service.NewOutputFormatter()
	configLoader := service.NewReviewConfigLoader(explicitFlags)
	reviewService := service.NewReviewService(service.NewRegistry(), nil, "")
	reportWriter := service.NewFileOutputWriter(cmd.ErrOrStderr())
	progress := service.NewProgressManager()
	executor := service.NewParallelExecutor()

	useCase, err := app.NewReviewUseCaseBuilder().
		WithService(reviewService).
		WithLoader(loader).
		WithFormatter(formatter).
		WithConfigLoader(configLoader).
		WithReportWriter(reportWriter).
		WithProgress(progress).
		WithExecutor(executor).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build use case: %w", err)
	}

	return useCase, nil
}

func (c *RenderCommand) parseSortCriteria(sort string) (domain.SortCriteria, error) {
	switch strings.ToLower(sort) {
	case "confidence":
		return domain.SortByConfidence, nil
	case "location":
		return domain.SortByLocation, nil
	case "rule":
		return domain.SortByRule, nil
	default:
		return "", fmt.Errorf("unsupported sort criteria: %s (supported: confidence, location, rule)", sort)
	}
}

func (c *RenderCommand) parseFilters() ([]domain.Severity, error) {
	var filters []domain.Severity
	for _, raw := range c.filters {
		severity := domain.Severity(strings.ToLower(raw))
		if !severity.IsValid() {
			return nil, fmt.Errorf("unknown severity filter: %s (supported: critical, error, warning, suggestion)", raw)
		}
		filters = append(filters, severity)
	}
	return filters, nil
}

func (c *RenderCommand) expandAndValidatePaths(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		expanded, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}

		if _, err := os.Stat(expanded); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path does not exist: %s", arg)
			}
			return nil, fmt.Errorf("cannot access path %s: %w", arg, err)
		}

		paths = append(paths, expanded)
	}

	return paths, nil
}

func (c *RenderCommand) handleRenderError(err error) error {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)
	if categorized == nil {
		return err
	}

	if c.verbose {
		var sb strings.Builder
		sb.WriteString(categorized.Message)
		sb.WriteString("\n  cause: ")
		sb.WriteString(err.Error())
		for _, suggestion := range categorizer.GetRecoverySuggestions(categorized.Category) {
			sb.WriteString("\n  hint: ")
			sb.WriteString(suggestion)
		}
		return fmt.Errorf("%s", sb.String())
	}

	return fmt.Errorf("%s: %v", categorized.Message, err)
}

// NewRenderCmd creates and returns the render cobra command
func NewRenderCmd() *cobra.Command {
	renderCommand := NewRenderCommand()
	return renderCommand.CreateCobraCommand()
}
