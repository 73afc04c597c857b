package app

import (
	"context"

	"github.com/redraft-ai/redraft/domain"
)

// RewriteCoordinator drives per-block rewrite state. The service layer
// provides the implementation.
type RewriteCoordinator interface {
	State(blockID string) domain.RewriteState
	Rewrite(ctx context.Context, block *domain.Block, blockID string) domain.RewriteState
	Retry(ctx context.Context, block *domain.Block, blockID string) domain.RewriteState
	ApplyProgress(event domain.ProgressEvent)
	Reset()
}

// RewriteUseCase orchestrates block rewrites against the AI backend
type RewriteUseCase struct {
	coordinator RewriteCoordinator
}

// NewRewriteUseCase creates a new rewrite use case
func NewRewriteUseCase(coordinator RewriteCoordinator) *RewriteUseCase {
	return &RewriteUseCase{coordinator: coordinator}
}

// Rewrite starts or joins a rewrite for the given block. Duplicate
// requests while a rewrite is in flight return the current state.
func (uc *RewriteUseCase) Rewrite(ctx context.Context, block *domain.Block, blockID string) (domain.RewriteState, error) {
	if block == nil {
		return domain.RewriteState{}, domain.NewInvalidInputError("block is required", nil)
	}
	if blockID == "" {
		return domain.RewriteState{}, domain.NewInvalidInputError("block id is required", nil)
	}
	return uc.coordinator.Rewrite(ctx, block, blockID), nil
}

// Retry restarts a rewrite that previously failed. Retrying a block
// that is not in the error state returns its current state unchanged.
func (uc *RewriteUseCase) Retry(ctx context.Context, block *domain.Block, blockID string) (domain.RewriteState, error) {
	if block == nil {
		return domain.RewriteState{}, domain.NewInvalidInputError("block is required", nil)
	}
	if blockID == "" {
		return domain.RewriteState{}, domain.NewInvalidInputError("block id is required", nil)
	}
	return uc.coordinator.Retry(ctx, block, blockID), nil
}

// State returns the rewrite state for one block
func (uc *RewriteUseCase) State(blockID string) domain.RewriteState {
	return uc.coordinator.State(blockID)
}

// HandleProgress feeds a backend progress event into the state machine
func (uc *RewriteUseCase) HandleProgress(event domain.ProgressEvent) {
	uc.coordinator.ApplyProgress(event)
}

// Reset clears all rewrite state, used when a session restarts
func (uc *RewriteUseCase) Reset() {
	uc.coordinator.Reset()
}
