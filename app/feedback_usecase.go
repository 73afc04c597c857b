package app

import (
	"context"
	"fmt"

	"github.com/redraft-ai/redraft/domain"
)

// FeedbackTracker records and reports per-issue feedback. The service
// layer provides the implementation.
type FeedbackTracker interface {
	Record(issue *domain.Issue, decision domain.FeedbackDecision, reason *domain.FeedbackReason) string
	Get(issue *domain.Issue) *domain.FeedbackRecord
	Change(fingerprint string) bool
	Stats() domain.FeedbackStats
	Submit(ctx context.Context, issue *domain.Issue, decision domain.FeedbackDecision, reason *domain.FeedbackReason) (string, error)
}

// FeedbackUseCase orchestrates the feedback workflow
type FeedbackUseCase struct {
	tracker FeedbackTracker
}

// NewFeedbackUseCase creates a new feedback use case
func NewFeedbackUseCase(tracker FeedbackTracker) *FeedbackUseCase {
	return &FeedbackUseCase{tracker: tracker}
}

// Submit records a feedback decision locally and forwards it to the
// backend. The local record stands even when the backend call fails.
func (uc *FeedbackUseCase) Submit(ctx context.Context, issue *domain.Issue, decision domain.FeedbackDecision, reason *domain.FeedbackReason) (string, error) {
	if issue == nil {
		return "", domain.NewInvalidInputError("issue is required", nil)
	}
	if !decision.IsValid() {
		return "", domain.NewInvalidInputError(fmt.Sprintf("invalid feedback decision: %s", decision), nil)
	}

	return uc.tracker.Submit(ctx, issue, decision, reason)
}

// Lookup returns the recorded feedback for an issue, or nil
func (uc *FeedbackUseCase) Lookup(issue *domain.Issue) *domain.FeedbackRecord {
	if issue == nil {
		return nil
	}
	return uc.tracker.Get(issue)
}

// Reopen clears the recorded decision so the user can choose again
func (uc *FeedbackUseCase) Reopen(fingerprint string) error {
	if fingerprint == "" {
		return domain.NewInvalidInputError("fingerprint is required", nil)
	}
	if !uc.tracker.Change(fingerprint) {
		return domain.NewInvalidInputError("no feedback recorded for fingerprint", nil)
	}
	return nil
}

// Stats aggregates recorded feedback
func (uc *FeedbackUseCase) Stats() domain.FeedbackStats {
	return uc.tracker.Stats()
}
