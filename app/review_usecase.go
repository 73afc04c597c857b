package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/redraft-ai/redraft/domain"
	"github.com/redraft-ai/redraft/service"
)

// ReviewUseCase orchestrates the review rendering workflow
type ReviewUseCase struct {
	service      domain.ReviewService
	loader       domain.AnalysisLoader
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
	reportWriter domain.ReportWriter
	progress     domain.ProgressManager
	executor     domain.ParallelExecutor
}

// NewReviewUseCase creates a new review use case
func NewReviewUseCase(
	service domain.ReviewService,
	loader domain.AnalysisLoader,
	formatter domain.OutputFormatter,
	configLoader domain.ConfigurationLoader,
	reportWriter domain.ReportWriter,
	progress domain.ProgressManager,
	executor domain.ParallelExecutor,
) *ReviewUseCase {
	return &ReviewUseCase{
		service:      service,
		loader:       loader,
		formatter:    formatter,
		configLoader: configLoader,
		reportWriter: reportWriter,
		progress:     progress,
		executor:     executor,
	}
}

// Execute performs the complete review workflow: discover analysis
// files, render each one, and write the formatted output.
func (uc *ReviewUseCase) Execute(ctx context.Context, req domain.ReviewRequest) error {
	if err := uc.validateRequest(req); err != nil {
		return domain.NewInvalidInputError("invalid request", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return domain.NewConfigError("failed to load configuration", err)
	}

	files, err := uc.loader.CollectFiles(
		finalReq.Paths,
		finalReq.Recursive,
		finalReq.IncludePatterns,
		finalReq.ExcludePatterns,
	)
	if err != nil {
		return domain.NewFileNotFoundError("failed to collect files", err)
	}

	if len(files) == 0 {
		return domain.NewInvalidInputError("no analysis files found in the specified paths", nil)
	}

	if uc.progress != nil && len(files) > 1 {
		uc.progress.Initialize(len(files))
		uc.progress.Start()
		defer uc.progress.Close()
	}

	responses, err := uc.renderAll(ctx, files, finalReq)
	if err != nil {
		if uc.progress != nil && len(files) > 1 {
			uc.progress.Complete(false)
		}
		return err
	}

	for _, response := range responses {
		if err := uc.writeResponse(response, finalReq); err != nil {
			if uc.progress != nil && len(files) > 1 {
				uc.progress.Complete(false)
			}
			return err
		}
	}

	if uc.progress != nil && len(files) > 1 {
		uc.progress.Complete(true)
	}
	return nil
}

// renderAll loads and renders every file, in parallel when an executor is
// configured. Responses come back in input order; writes stay sequential.
func (uc *ReviewUseCase) renderAll(ctx context.Context, files []string, req domain.ReviewRequest) ([]*domain.ReviewResponse, error) {
	responses := make([]*domain.ReviewResponse, len(files))

	if uc.executor != nil && len(files) > 1 {
		var mu sync.Mutex
		completed := 0
		tasks := make([]domain.ExecutableTask, len(files))
		for i, file := range files {
			i, file := i, file
			tasks[i] = service.NewSimpleTask(file, true, func(taskCtx context.Context) (interface{}, error) {
				response, err := uc.loadAndRender(taskCtx, file, req)
				if err != nil {
					return nil, err
				}
				mu.Lock()
				responses[i] = response
				completed++
				if uc.progress != nil {
					uc.progress.Update(completed, len(files))
				}
				mu.Unlock()
				return response, nil
			})
		}
		if err := uc.executor.Execute(ctx, tasks); err != nil {
			return nil, err
		}
		return responses, nil
	}

	for i, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		response, err := uc.loadAndRender(ctx, file, req)
		if err != nil {
			return nil, err
		}
		responses[i] = response

		if uc.progress != nil && len(files) > 1 {
			uc.progress.Update(i+1, len(files))
		}
	}
	return responses, nil
}

// RenderFile renders a single analysis file
func (uc *ReviewUseCase) RenderFile(ctx context.Context, filePath string, req domain.ReviewRequest) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return domain.NewFileNotFoundError(filePath, err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return domain.NewConfigError("failed to load configuration", err)
	}

	return uc.renderFile(ctx, filePath, finalReq)
}

func (uc *ReviewUseCase) renderFile(ctx context.Context, filePath string, req domain.ReviewRequest) error {
	response, err := uc.loadAndRender(ctx, filePath, req)
	if err != nil {
		return err
	}
	return uc.writeResponse(response, req)
}

func (uc *ReviewUseCase) loadAndRender(ctx context.Context, filePath string, req domain.ReviewRequest) (*domain.ReviewResponse, error) {
	result, err := uc.loader.Load(filePath)
	if err != nil {
		return nil, err
	}

	response, err := uc.service.Render(ctx, result, req)
	if err != nil {
		return nil, domain.NewRenderError(domain.BlockKindDocument, err)
	}
	return response, nil
}

func (uc *ReviewUseCase) writeResponse(response *domain.ReviewResponse, req domain.ReviewRequest) error {
	writeFunc := func(w io.Writer) error {
		return uc.formatter.Write(response, req.OutputFormat, w)
	}

	if uc.reportWriter != nil {
		return uc.reportWriter.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, req.NoOpen, writeFunc)
	}
	return writeFunc(req.OutputWriter)
}

// validateRequest validates the review request
func (uc *ReviewUseCase) validateRequest(req domain.ReviewRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.OutputWriter == nil && req.OutputPath == "" {
		return fmt.Errorf("output writer is required")
	}

	if req.MinConfidence < 0 || req.MinConfidence > 1 {
		return fmt.Errorf("minimum confidence must be between 0 and 1")
	}

	switch req.OutputFormat {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatHTML:
	default:
		return fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}

	switch req.SortBy {
	case domain.SortByConfidence, domain.SortByLocation, domain.SortByRule, "":
	default:
		return fmt.Errorf("unsupported sort criteria: %s", req.SortBy)
	}

	return nil
}

// loadAndMergeConfig loads configuration from file and merges with request
func (uc *ReviewUseCase) loadAndMergeConfig(req domain.ReviewRequest) (domain.ReviewRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	var configReq *domain.ReviewRequest
	var err error

	if req.ConfigPath != "" {
		configReq, err = uc.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return req, fmt.Errorf("failed to load config from %s: %w", req.ConfigPath, err)
		}
	} else {
		configReq = uc.configLoader.LoadDefaultConfig()
	}

	if configReq != nil {
		merged := uc.configLoader.MergeConfig(configReq, &req)
		return *merged, nil
	}

	return req, nil
}

// ReviewUseCaseBuilder provides a builder for assembling a ReviewUseCase
type ReviewUseCaseBuilder struct {
	service      domain.ReviewService
	loader       domain.AnalysisLoader
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
	reportWriter domain.ReportWriter
	progress     domain.ProgressManager
	executor     domain.ParallelExecutor
}

// NewReviewUseCaseBuilder creates a new builder
func NewReviewUseCaseBuilder() *ReviewUseCaseBuilder {
	return &ReviewUseCaseBuilder{}
}

// WithService sets the review rendering service
func (b *ReviewUseCaseBuilder) WithService(service domain.ReviewService) *ReviewUseCaseBuilder {
	b.service = service
	return b
}

// WithLoader sets the analysis loader
func (b *ReviewUseCaseBuilder) WithLoader(loader domain.AnalysisLoader) *ReviewUseCaseBuilder {
	b.loader = loader
	return b
}

// WithFormatter sets the output formatter
func (b *ReviewUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *ReviewUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *ReviewUseCaseBuilder) WithConfigLoader(configLoader domain.ConfigurationLoader) *ReviewUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithReportWriter sets the report writer
func (b *ReviewUseCaseBuilder) WithReportWriter(reportWriter domain.ReportWriter) *ReviewUseCaseBuilder {
	b.reportWriter = reportWriter
	return b
}

// WithProgress sets the progress manager
func (b *ReviewUseCaseBuilder) WithProgress(progress domain.ProgressManager) *ReviewUseCaseBuilder {
	b.progress = progress
	return b
}

// WithExecutor sets the parallel executor for multi-file rendering
func (b *ReviewUseCaseBuilder) WithExecutor(executor domain.ParallelExecutor) *ReviewUseCaseBuilder {
	b.executor = executor
	return b
}

// Build creates the ReviewUseCase with the configured dependencies
func (b *ReviewUseCaseBuilder) Build() (*ReviewUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("review service is required")
	}
	if b.loader == nil {
		return nil, fmt.Errorf("analysis loader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	return NewReviewUseCase(
		b.service,
		b.loader,
		b.formatter,
		b.configLoader,
		b.reportWriter,
		b.progress,
		b.executor,
	), nil
}
