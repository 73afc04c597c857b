package service

import (
	"context"
	"sort"
	"time"

	"github.com/redraft-ai/redraft/domain"
	"github.com/redraft-ai/redraft/internal/version"
)

// ReviewServiceImpl renders analysis results into review responses
type ReviewServiceImpl struct {
	registry  *Registry
	feedback  *FeedbackService
	page      *PageRenderer
	sessionID string
}

// NewReviewService creates a new review rendering service. The feedback
// service may be nil when rendering static reports.
func NewReviewService(registry *Registry, feedback *FeedbackService, sessionID string) *ReviewServiceImpl {
	if registry == nil {
		registry = NewRegistry()
	}
	return &ReviewServiceImpl{
		registry:  registry,
		feedback:  feedback,
		page:      NewPageRenderer(),
		sessionID: sessionID,
	}
}

// Render renders one analysis result according to the request
func (s *ReviewServiceImpl) Render(ctx context.Context, result *domain.AnalysisResult, req domain.ReviewRequest) (*domain.ReviewResponse, error) {
	if result == nil {
		return nil, domain.NewInvalidInputError("analysis result is required", nil)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	prepared := s.prepare(result, req)

	filters := make(map[domain.Severity]bool, len(req.ActiveFilters))
	for _, severity := range req.ActiveFilters {
		filters[severity] = true
	}
	if len(filters) == 0 {
		filters = domain.DefaultActiveSet()
	}

	tree := NewTreeRenderer(s.registry)
	renderCtx := &RenderContext{
		Registry:  s.registry,
		Tree:      tree,
		Filters:   filters,
		Feedback:  s.feedback,
		SessionID: s.sessionID,
	}

	statsBefore := s.registry.Stats()
	html, err := s.page.RenderPage(prepared, tree, renderCtx, nil, s.sessionID)
	if err != nil {
		return nil, err
	}
	statsAfter := s.registry.Stats()

	summary := s.summarize(prepared)
	summary.FallbackBlocks = statsAfter.FallbackCount - statsBefore.FallbackCount

	return &domain.ReviewResponse{
		HTML:        html,
		Summary:     summary,
		ContentType: prepared.ContentType,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Short(),
	}, nil
}

// prepare applies the confidence floor and issue ordering, leaving the
// caller's result untouched.
func (s *ReviewServiceImpl) prepare(result *domain.AnalysisResult, req domain.ReviewRequest) *domain.AnalysisResult {
	prepared := *result
	prepared.Errors = s.orderIssues(FilterByConfidence(result.Errors, req.MinConfidence), req.SortBy)

	if len(result.StructuralBlocks) > 0 {
		prepared.StructuralBlocks = make([]domain.Block, len(result.StructuralBlocks))
		for i := range result.StructuralBlocks {
			prepared.StructuralBlocks[i] = s.prepareBlock(&result.StructuralBlocks[i], req)
		}
	}
	return &prepared
}

func (s *ReviewServiceImpl) prepareBlock(block *domain.Block, req domain.ReviewRequest) domain.Block {
	prepared := *block
	prepared.Errors = s.orderIssues(FilterByConfidence(block.Errors, req.MinConfidence), req.SortBy)

	if len(block.Children) > 0 {
		prepared.Children = make([]domain.Block, len(block.Children))
		for i := range block.Children {
			prepared.Children[i] = s.prepareBlock(&block.Children[i], req)
		}
	}
	return prepared
}

func (s *ReviewServiceImpl) orderIssues(issues []domain.Issue, criteria domain.SortCriteria) []domain.Issue {
	switch criteria {
	case domain.SortByLocation:
		sorted := append([]domain.Issue(nil), issues...)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].LineNumber != sorted[j].LineNumber {
				return sorted[i].LineNumber < sorted[j].LineNumber
			}
			return sorted[i].SentenceIndex < sorted[j].SentenceIndex
		})
		return sorted
	case domain.SortByRule:
		sorted := append([]domain.Issue(nil), issues...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].RuleKind < sorted[j].RuleKind
		})
		return sorted
	default:
		return SortByConfidence(issues)
	}
}

// summarize walks the prepared result and aggregates counts for the
// structured output formats.
func (s *ReviewServiceImpl) summarize(result *domain.AnalysisResult) domain.ReviewSummary {
	summary := domain.ReviewSummary{
		BySeverity: make(map[domain.Severity]int),
	}

	var walk func(blocks []domain.Block)
	walk = func(blocks []domain.Block) {
		for i := range blocks {
			block := &blocks[i]
			summary.TotalBlocks++
			if !block.Kind.IsContainerOwned() {
				summary.RenderedCards++
			}
			if block.ShouldSkipAnalysis {
				summary.SkippedBlocks++
			} else {
				for j := range block.Errors {
					summary.TotalIssues++
					summary.BySeverity[domain.SeverityFor(block.Errors[j].Confidence())]++
				}
			}
			walk(block.Children)
		}
	}
	walk(result.StructuralBlocks)

	if len(result.StructuralBlocks) == 0 {
		for i := range result.Errors {
			summary.TotalIssues++
			summary.BySeverity[domain.SeverityFor(result.Errors[i].Confidence())]++
		}
	}

	return summary
}
