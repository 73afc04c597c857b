package app

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/redraft-ai/redraft/domain"
)

// Mock implementations
type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) Render(ctx context.Context, result *domain.AnalysisResult, req domain.ReviewRequest) (*domain.ReviewResponse, error) {
	args := m.Called(ctx, result, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewResponse), args.Error(1)
}

type mockAnalysisLoader struct {
	mock.Mock
}

func (m *mockAnalysisLoader) Load(path string) (*domain.AnalysisResult, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

func (m *mockAnalysisLoader) CollectFiles(paths []string, recursive bool, include, exclude []string) ([]string, error) {
	args := m.Called(paths, recursive, include, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockOutputFormatter struct {
	mock.Mock
}

func (m *mockOutputFormatter) Format(response *domain.ReviewResponse, format domain.OutputFormat) (string, error) {
	args := m.Called(response, format)
	return args.String(0), args.Error(1)
}

func (m *mockOutputFormatter) Write(response *domain.ReviewResponse, format domain.OutputFormat, writer io.Writer) error {
	args := m.Called(response, format, writer)
	return args.Error(0)
}

type mockConfigurationLoader struct {
	mock.Mock
}

func (m *mockConfigurationLoader) LoadConfig(path string) (*domain.ReviewRequest, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewRequest), args.Error(1)
}

func (m *mockConfigurationLoader) LoadDefaultConfig() *domain.ReviewRequest {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.ReviewRequest)
}

func (m *mockConfigurationLoader) MergeConfig(base *domain.ReviewRequest, override *domain.ReviewRequest) *domain.ReviewRequest {
	args := m.Called(base, override)
	return args.Get(0).(*domain.ReviewRequest)
}

// Helper functions
func setupReviewUseCaseMocks() (*ReviewUseCase, *mockReviewService, *mockAnalysisLoader, *mockOutputFormatter) {
	service := &mockReviewService{}
	loader := &mockAnalysisLoader{}
	formatter := &mockOutputFormatter{}

	useCase := NewReviewUseCase(service, loader, formatter, nil, nil, nil, nil)
	return useCase, service, loader, formatter
}

func createValidReviewRequest() domain.ReviewRequest {
	return domain.ReviewRequest{
		Paths:           []string{"/test/analysis.json"},
		OutputWriter:    os.Stdout,
		OutputFormat:    domain.OutputFormatText,
		SortBy:          domain.SortByConfidence,
		MinConfidence:   0.0,
		Recursive:       true,
		IncludePatterns: []string{"*.json"},
		ExcludePatterns: []string{},
	}
}

func createMockReviewResponse() *domain.ReviewResponse {
	return &domain.ReviewResponse{
		HTML: "<!DOCTYPE html><html></html>",
		Summary: domain.ReviewSummary{
			TotalBlocks:   2,
			RenderedCards: 2,
			TotalIssues:   3,
			BySeverity: map[domain.Severity]int{
				domain.SeverityCritical: 1,
				domain.SeverityWarning:  2,
			},
		},
		GeneratedAt: "2026-01-01T00:00:00Z",
		Version:     "1.0.0",
	}
}

func TestReviewUseCaseExecute(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(*mockReviewService, *mockAnalysisLoader, *mockOutputFormatter)
		request     domain.ReviewRequest
		expectError bool
		errorMsg    string
	}{
		{
			name: "successful execution with valid request",
			setupMocks: func(service *mockReviewService, loader *mockAnalysisLoader, formatter *mockOutputFormatter) {
				loader.On("CollectFiles", []string{"/test/analysis.json"}, true, []string{"*.json"}, []string{}).
					Return([]string{"/test/analysis.json"}, nil)
				loader.On("Load", "/test/analysis.json").
					Return(&domain.AnalysisResult{Success: true}, nil)
				service.On("Render", mock.Anything, mock.Anything, mock.AnythingOfType("domain.ReviewRequest")).
					Return(createMockReviewResponse(), nil)
				formatter.On("Write", mock.Anything, domain.OutputFormatText, mock.Anything).Return(nil)
			},
			request:     createValidReviewRequest(),
			expectError: false,
		},
		{
			name:       "validation error - empty paths",
			setupMocks: func(*mockReviewService, *mockAnalysisLoader, *mockOutputFormatter) {},
			request: domain.ReviewRequest{
				Paths:        []string{},
				OutputWriter: os.Stdout,
			},
			expectError: true,
			errorMsg:    "no input paths specified",
		},
		{
			name:       "validation error - nil output writer",
			setupMocks: func(*mockReviewService, *mockAnalysisLoader, *mockOutputFormatter) {},
			request: domain.ReviewRequest{
				Paths: []string{"/test/analysis.json"},
			},
			expectError: true,
			errorMsg:    "output writer is required",
		},
		{
			name:       "validation error - confidence out of range",
			setupMocks: func(*mockReviewService, *mockAnalysisLoader, *mockOutputFormatter) {},
			request: domain.ReviewRequest{
				Paths:         []string{"/test/analysis.json"},
				OutputWriter:  os.Stdout,
				OutputFormat:  domain.OutputFormatText,
				MinConfidence: 1.5,
			},
			expectError: true,
			errorMsg:    "minimum confidence must be between 0 and 1",
		},
		{
			name:       "validation error - invalid output format",
			setupMocks: func(*mockReviewService, *mockAnalysisLoader, *mockOutputFormatter) {},
			request: domain.ReviewRequest{
				Paths:        []string{"/test/analysis.json"},
				OutputWriter: os.Stdout,
				OutputFormat: domain.OutputFormat("pdf"),
			},
			expectError: true,
			errorMsg:    "unsupported output format: pdf",
		},
		{
			name: "no files found",
			setupMocks: func(service *mockReviewService, loader *mockAnalysisLoader, formatter *mockOutputFormatter) {
				loader.On("CollectFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return([]string{}, nil)
			},
			request:     createValidReviewRequest(),
			expectError: true,
			errorMsg:    "no analysis files found",
		},
		{
			name: "load failure",
			setupMocks: func(service *mockReviewService, loader *mockAnalysisLoader, formatter *mockOutputFormatter) {
				loader.On("CollectFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return([]string{"/test/analysis.json"}, nil)
				loader.On("Load", "/test/analysis.json").
					Return(nil, errors.New("corrupt document"))
			},
			request:     createValidReviewRequest(),
			expectError: true,
			errorMsg:    "corrupt document",
		},
		{
			name: "render failure",
			setupMocks: func(service *mockReviewService, loader *mockAnalysisLoader, formatter *mockOutputFormatter) {
				loader.On("CollectFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return([]string{"/test/analysis.json"}, nil)
				loader.On("Load", "/test/analysis.json").
					Return(&domain.AnalysisResult{}, nil)
				service.On("Render", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("renderer exploded"))
			},
			request:     createValidReviewRequest(),
			expectError: true,
			errorMsg:    "renderer exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase, service, loader, formatter := setupReviewUseCaseMocks()
			tt.setupMocks(service, loader, formatter)

			err := useCase.Execute(context.Background(), tt.request)
			if tt.expectError {
				require.Error(t, err)
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
			} else {
				assert.NoError(t, err)
			}

			service.AssertExpectations(t)
			loader.AssertExpectations(t)
			formatter.AssertExpectations(t)
		})
	}
}

func TestReviewUseCaseExecuteMergesConfig(t *testing.T) {
	service := &mockReviewService{}
	loader := &mockAnalysisLoader{}
	formatter := &mockOutputFormatter{}
	configLoader := &mockConfigurationLoader{}

	useCase := NewReviewUseCase(service, loader, formatter, configLoader, nil, nil, nil)

	request := createValidReviewRequest()
	fromConfig := createValidReviewRequest()
	fromConfig.MinConfidence = 0.7

	merged := fromConfig
	configLoader.On("LoadDefaultConfig").Return(&fromConfig)
	configLoader.On("MergeConfig", &fromConfig, mock.Anything).Return(&merged)

	loader.On("CollectFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]string{"/test/analysis.json"}, nil)
	loader.On("Load", "/test/analysis.json").Return(&domain.AnalysisResult{}, nil)
	service.On("Render", mock.Anything, mock.Anything, mock.MatchedBy(func(req domain.ReviewRequest) bool {
		return req.MinConfidence == 0.7
	})).Return(createMockReviewResponse(), nil)
	formatter.On("Write", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, useCase.Execute(context.Background(), request))
	configLoader.AssertExpectations(t)
}

func TestReviewUseCaseExecuteParallel(t *testing.T) {
	service := &mockReviewService{}
	loader := &mockAnalysisLoader{}
	formatter := &mockOutputFormatter{}
	executor := serviceExecutor{}

	useCase := NewReviewUseCase(service, loader, formatter, nil, nil, nil, executor)

	files := []string{"/test/a.json", "/test/b.json", "/test/c.json"}
	loader.On("CollectFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(files, nil)
	for _, file := range files {
		loader.On("Load", file).Return(&domain.AnalysisResult{}, nil)
	}
	service.On("Render", mock.Anything, mock.Anything, mock.Anything).
		Return(createMockReviewResponse(), nil)
	formatter.On("Write", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(len(files))

	require.NoError(t, useCase.Execute(context.Background(), createValidReviewRequest()))
	formatter.AssertExpectations(t)
}

// serviceExecutor runs tasks inline; ordering assertions stay deterministic.
type serviceExecutor struct{}

func (serviceExecutor) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	for _, task := range tasks {
		if !task.IsEnabled() {
			continue
		}
		if _, err := task.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (serviceExecutor) SetMaxConcurrency(int)    {}
func (serviceExecutor) SetTimeout(time.Duration) {}

func TestReviewUseCaseRenderFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		useCase, _, _, _ := setupReviewUseCaseMocks()
		err := useCase.RenderFile(context.Background(), "/nonexistent/analysis.json", createValidReviewRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file not found")
	})

	t.Run("renders an existing file", func(t *testing.T) {
		tmp, err := os.CreateTemp(t.TempDir(), "analysis-*.json")
		require.NoError(t, err)
		_, err = tmp.WriteString("{}")
		require.NoError(t, err)
		require.NoError(t, tmp.Close())

		useCase, service, loader, formatter := setupReviewUseCaseMocks()
		loader.On("Load", tmp.Name()).Return(&domain.AnalysisResult{}, nil)
		service.On("Render", mock.Anything, mock.Anything, mock.Anything).
			Return(createMockReviewResponse(), nil)
		formatter.On("Write", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		var sb strings.Builder
		req := createValidReviewRequest()
		req.OutputWriter = &sb
		assert.NoError(t, useCase.RenderFile(context.Background(), tmp.Name(), req))
	})
}

func TestReviewUseCaseBuilder(t *testing.T) {
	service := &mockReviewService{}
	loader := &mockAnalysisLoader{}
	formatter := &mockOutputFormatter{}

	t.Run("builds with required dependencies", func(t *testing.T) {
		useCase, err := NewReviewUseCaseBuilder().
			WithService(service).
			WithLoader(loader).
			WithFormatter(formatter).
			Build()
		require.NoError(t, err)
		assert.NotNil(t, useCase)
	})

	t.Run("missing service", func(t *testing.T) {
		_, err := NewReviewUseCaseBuilder().WithLoader(loader).WithFormatter(formatter).Build()
		assert.Error(t, err)
	})

	t.Run("missing loader", func(t *testing.T) {
		_, err := NewReviewUseCaseBuilder().WithService(service).WithFormatter(formatter).Build()
		assert.Error(t, err)
	})

	t.Run("missing formatter", func(t *testing.T) {
		_, err := NewReviewUseCaseBuilder().WithService(service).WithLoader(loader).Build()
		assert.Error(t, err)
	})
}
