package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/redraft-ai/redraft/domain"
)

// DisconnectedMessage is the error text applied to in-flight blocks when
// the progress transport drops.
const DisconnectedMessage = "disconnected"

// StateListener observes per-block state changes, typically to push the
// refreshed strip or card to connected clients.
type StateListener func(blockID string, state domain.RewriteState)

// RewriteOrchestrator drives the per-block rewrite state machine:
//
//	idle -> processing -> complete
//	                 \--> error -> (retry) -> processing
//
// State is keyed by block display-id and cleared when a new analysis
// replaces the tree. Transitions are serial per block; a second rewrite
// while processing is a no-op. There is no user-facing cancellation.
type RewriteOrchestrator struct {
	mu        sync.Mutex
	states    map[string]*domain.RewriteState
	backend   domain.RewriteBackend
	listener  StateListener
	sessionID string
}

// NewRewriteOrchestrator creates an orchestrator over the given backend.
func NewRewriteOrchestrator(backend domain.RewriteBackend, sessionID string) *RewriteOrchestrator {
	return &RewriteOrchestrator{
		states:    make(map[string]*domain.RewriteState),
		backend:   backend,
		sessionID: sessionID,
	}
}

// SetListener registers the state-change observer. Intended for the
// bootstrap phase; later changes race with running rewrites.
func (o *RewriteOrchestrator) SetListener(listener StateListener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listener = listener
}

// State returns the current state for a block, defaulting to idle.
func (o *RewriteOrchestrator) State(blockID string) domain.RewriteState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if state, ok := o.states[blockID]; ok {
		return *state
	}
	return domain.RewriteState{Status: domain.RewriteIdle}
}

// Reset clears all per-block state. Called when a new analysis replaces
// the block tree.
func (o *RewriteOrchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = make(map[string]*domain.RewriteState)
}

// Rewrite runs the state machine for one block. A call while the block is
// already processing returns immediately without effect. The method
// blocks until the backend answers; drive it from its own goroutine when
// serving interactive traffic.
func (o *RewriteOrchestrator) Rewrite(ctx context.Context, block *domain.Block, blockID string) domain.RewriteState {
	stations := domain.StationsFor(block.Errors)

	o.mu.Lock()
	if existing, ok := o.states[blockID]; ok && existing.Status == domain.RewriteProcessing {
		snapshot := *existing
		o.mu.Unlock()
		return snapshot
	}
	state := &domain.RewriteState{
		Status:       domain.RewriteProcessing,
		Stations:     stations,
		StationState: make(map[domain.Station]domain.StationStatus, len(stations)),
	}
	for _, station := range stations {
		state.StationState[station] = domain.StationWaiting
	}
	o.states[blockID] = state
	snapshot := *state
	o.mu.Unlock()
	o.notify(blockID, snapshot)

	result, err := o.backend.Rewrite(ctx, &domain.RewriteRequest{
		BlockContent: block.Content,
		BlockErrors:  block.Errors,
		BlockType:    string(block.Kind),
		BlockID:      blockID,
		SessionID:    o.sessionID,
	})

	o.mu.Lock()
	state, ok := o.states[blockID]
	if !ok || state.Status != domain.RewriteProcessing {
		// A disconnect finished this block while the request was in
		// flight; keep that outcome.
		var snapshot domain.RewriteState
		if ok {
			snapshot = *state
		} else {
			snapshot = domain.RewriteState{Status: domain.RewriteIdle}
		}
		o.mu.Unlock()
		return snapshot
	}
	if err != nil {
		state.Status = domain.RewriteError
		state.ErrorMessage = err.Error()
		log.Printf("rewrite: block %s failed: %v", blockID, err)
	} else {
		state.Status = domain.RewriteComplete
		state.Result = result
		for _, station := range state.Stations {
			state.StationState[station] = domain.StationCompleteStatus
		}
	}
	snapshot = *state
	o.mu.Unlock()
	o.notify(blockID, snapshot)
	return snapshot
}

// Retry moves an errored block back through the state machine with a
// fresh attempt. Blocks in any other state are left alone.
func (o *RewriteOrchestrator) Retry(ctx context.Context, block *domain.Block, blockID string) domain.RewriteState {
	o.mu.Lock()
	state, ok := o.states[blockID]
	if !ok || state.Status != domain.RewriteError {
		var snapshot domain.RewriteState
		if ok {
			snapshot = *state
		} else {
			snapshot = domain.RewriteState{Status: domain.RewriteIdle}
		}
		o.mu.Unlock()
		return snapshot
	}
	delete(o.states, blockID)
	o.mu.Unlock()
	return o.Rewrite(ctx, block, blockID)
}

// ApplyProgress folds one transport event into station state. Station
// transitions are monotone within a run; out-of-order events for the same
// station are dropped.
func (o *RewriteOrchestrator) ApplyProgress(event domain.ProgressEvent) {
	switch event.Kind {
	case domain.EventProgressUpdate:
		o.applyStationUpdate(event)
	case domain.EventProcessComplete:
		o.finalize(event.BlockID)
	case domain.EventDisconnect:
		o.disconnect()
	}
}

func (o *RewriteOrchestrator) applyStationUpdate(event domain.ProgressEvent) {
	o.mu.Lock()
	state, ok := o.states[event.BlockID]
	if !ok || state.Status != domain.RewriteProcessing {
		o.mu.Unlock()
		return
	}
	current, tracked := state.StationState[event.Station]
	if !tracked || !domain.StationStatusAdvances(current, event.Status) {
		o.mu.Unlock()
		return
	}
	state.StationState[event.Station] = event.Status
	snapshot := *state
	o.mu.Unlock()
	o.notify(event.BlockID, snapshot)
}

// finalize marks every station complete for the block. The terminal
// status itself arrives through the rewrite response.
func (o *RewriteOrchestrator) finalize(blockID string) {
	o.mu.Lock()
	state, ok := o.states[blockID]
	if !ok || state.Status != domain.RewriteProcessing {
		o.mu.Unlock()
		return
	}
	for _, station := range state.Stations {
		state.StationState[station] = domain.StationCompleteStatus
	}
	snapshot := *state
	o.mu.Unlock()
	o.notify(blockID, snapshot)
}

// disconnect transitions every in-flight block to error.
func (o *RewriteOrchestrator) disconnect() {
	o.mu.Lock()
	var changed []string
	for blockID, state := range o.states {
		if state.Status == domain.RewriteProcessing {
			state.Status = domain.RewriteError
			state.ErrorMessage = DisconnectedMessage
			changed = append(changed, blockID)
		}
	}
	snapshots := make(map[string]domain.RewriteState, len(changed))
	for _, blockID := range changed {
		snapshots[blockID] = *o.states[blockID]
	}
	o.mu.Unlock()
	for blockID, snapshot := range snapshots {
		o.notify(blockID, snapshot)
	}
}

func (o *RewriteOrchestrator) notify(blockID string, state domain.RewriteState) {
	o.mu.Lock()
	listener := o.listener
	o.mu.Unlock()
	if listener != nil {
		listener(blockID, state)
	}
}

// StationStripHTML renders the assembly-line strip shown while a block is
// processing, one station per selected priority.
func StationStripHTML(blockID string, state domain.RewriteState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="station-strip" data-block-id=%q>`, EscapeAttr(blockID))
	complete := 0
	for _, station := range state.Stations {
		status := state.StationState[station]
		if status == domain.StationCompleteStatus {
			complete++
		}
		fmt.Fprintf(&sb, `<div class="station station-%s" data-station=%q data-status=%q>`,
			station, station, status)
		fmt.Fprintf(&sb, `<span class="station-name">%s</span><span class="station-status">%s</span></div>`,
			strings.ToUpper(string(station)[:1])+string(station)[1:], stationStatusLabel(status))
	}
	percent := 0
	if len(state.Stations) > 0 {
		percent = complete * 100 / len(state.Stations)
	}
	fmt.Fprintf(&sb, `<div class="station-progress"><div class="station-progress-fill" style="width: %d%%"></div></div>`, percent)
	sb.WriteString(`</div>`)
	return sb.String()
}

func stationStatusLabel(status domain.StationStatus) string {
	switch status {
	case domain.StationProcessingStatus:
		return "Processing"
	case domain.StationCompleteStatus:
		return "Complete"
	default:
		return "Waiting"
	}
}

// RewriteResultHTML renders the results card that replaces the station
// strip on success: rewritten text, issues fixed, confidence and a copy
// button. The copy button falls back to a selectable text modal when the
// clipboard interface rejects.
func RewriteResultHTML(blockID string, result *domain.RewriteResult) string {
	if result == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="rewrite-result" data-block-id=%q>`, EscapeAttr(blockID))
	fmt.Fprintf(&sb, `<div class="rewrite-text">%s</div>`, EscapeText(result.RewrittenText))
	fmt.Fprintf(&sb, `<div class="rewrite-meta"><span>%d issues fixed</span><span>%d%% confidence</span></div>`,
		result.IssuesFixed, int(result.Confidence*100+0.5))
	fmt.Fprintf(&sb, `<button type="button" class="rewrite-copy" data-block-id=%q>Copy</button>`, EscapeAttr(blockID))
	fmt.Fprintf(&sb, `<div class="copy-fallback-modal" hidden><textarea readonly>%s</textarea></div>`,
		EscapeText(result.RewrittenText))
	sb.WriteString(`</div>`)
	return sb.String()
}

// RewriteErrorHTML renders the error card with its Retry affordance.
func RewriteErrorHTML(blockID, message string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="rewrite-error" data-block-id=%q>`, EscapeAttr(blockID))
	fmt.Fprintf(&sb, `<div class="rewrite-error-message">%s</div>`, EscapeText(message))
	fmt.Fprintf(&sb, `<button type="button" class="rewrite-retry" data-block-id=%q>Retry</button>`, EscapeAttr(blockID))
	sb.WriteString(`</div>`)
	return sb.String()
}
