package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redraft-ai/redraft/domain"
)

func reviewResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Success:     true,
		ContentType: "asciidoc",
		StructuralBlocks: []domain.Block{
			{
				Kind:    domain.BlockKindParagraph,
				Content: "The report was written by the team.",
				Errors: []domain.Issue{
					issueWithConfidence("passive_voice", 0.9),
					issueWithConfidence("tone", 0.55),
				},
			},
			{
				Kind:               domain.BlockKindListing,
				Content:            "print('hi')",
				Language:           "python",
				ShouldSkipAnalysis: true,
				Errors: []domain.Issue{
					issueWithConfidence("spelling", 0.95),
				},
			},
		},
	}
}

func TestReviewServiceRender(t *testing.T) {
	svc := NewReviewService(NewRegistry(), nil, "")

	t.Run("renders a full page", func(t *testing.T) {
		response, err := svc.Render(context.Background(), reviewResult(), domain.ReviewRequest{})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(response.HTML, "<!DOCTYPE html"))
		assert.Contains(t, response.HTML, "The report was written by the team.")
		assert.Equal(t, "asciidoc", response.ContentType)
		assert.NotEmpty(t, response.GeneratedAt)
		assert.NotEmpty(t, response.Version)
	})

	t.Run("summary counts", func(t *testing.T) {
		response, err := svc.Render(context.Background(), reviewResult(), domain.ReviewRequest{})
		require.NoError(t, err)

		summary := response.Summary
		assert.Equal(t, 2, summary.TotalBlocks)
		assert.Equal(t, 2, summary.RenderedCards)
		assert.Equal(t, 1, summary.SkippedBlocks)
		// The suppressed listing issue never counts.
		assert.Equal(t, 2, summary.TotalIssues)
		assert.Equal(t, 1, summary.BySeverity[domain.SeverityCritical])
		assert.Equal(t, 1, summary.BySeverity[domain.SeverityWarning])
		assert.Zero(t, summary.FallbackBlocks)
	})

	t.Run("confidence floor trims low issues", func(t *testing.T) {
		response, err := svc.Render(context.Background(), reviewResult(), domain.ReviewRequest{MinConfidence: 0.7})
		require.NoError(t, err)
		assert.Equal(t, 1, response.Summary.TotalIssues)
		assert.NotContains(t, response.HTML, "tone")
	})

	t.Run("caller result is untouched", func(t *testing.T) {
		result := reviewResult()
		_, err := svc.Render(context.Background(), result, domain.ReviewRequest{MinConfidence: 0.99})
		require.NoError(t, err)
		assert.Len(t, result.StructuralBlocks[0].Errors, 2)
	})

	t.Run("nil result", func(t *testing.T) {
		_, err := svc.Render(context.Background(), nil, domain.ReviewRequest{})
		require.Error(t, err)
		var derr domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.ErrCodeInvalidInput, derr.Code)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Render(ctx, reviewResult(), domain.ReviewRequest{})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unknown kinds count as fallbacks", func(t *testing.T) {
		result := reviewResult()
		result.StructuralBlocks = append(result.StructuralBlocks, domain.Block{
			Kind:    domain.BlockKind("future_widget"),
			Content: "mystery",
		})

		response, err := NewReviewService(NewRegistry(), nil, "").
			Render(context.Background(), result, domain.ReviewRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, response.Summary.FallbackBlocks)
		assert.Contains(t, response.HTML, "Unknown Block")
	})
}

func TestReviewServiceIssueOrdering(t *testing.T) {
	svc := NewReviewService(NewRegistry(), nil, "")

	result := &domain.AnalysisResult{
		Errors: []domain.Issue{
			{RuleKind: "b_rule", LineNumber: 9, ConfidenceValue: ptrFloat(0.6)},
			{RuleKind: "a_rule", LineNumber: 2, ConfidenceValue: ptrFloat(0.9)},
		},
	}

	t.Run("flat issues render without a tree", func(t *testing.T) {
		response, err := svc.Render(context.Background(), result, domain.ReviewRequest{})
		require.NoError(t, err)
		assert.Equal(t, 2, response.Summary.TotalIssues)
		assert.Zero(t, response.Summary.TotalBlocks)
	})

	t.Run("sort by location", func(t *testing.T) {
		response, err := svc.Render(context.Background(), result, domain.ReviewRequest{SortBy: domain.SortByLocation})
		require.NoError(t, err)
		first := strings.Index(response.HTML, "a_rule")
		second := strings.Index(response.HTML, "b_rule")
		require.GreaterOrEqual(t, first, 0)
		require.GreaterOrEqual(t, second, 0)
		assert.Less(t, first, second)
	})

	t.Run("sort by rule", func(t *testing.T) {
		response, err := svc.Render(context.Background(), result, domain.ReviewRequest{SortBy: domain.SortByRule})
		require.NoError(t, err)
		assert.Less(t, strings.Index(response.HTML, "a_rule"), strings.Index(response.HTML, "b_rule"))
	})
}

func ptrFloat(f float64) *float64 { return &f }
