package service

import (
	"log"
	"sync"

	"github.com/redraft-ai/redraft/domain"
)

// ProgressAdapter receives typed events from the rewrite transport and
// routes them to the orchestrator. Delivery is at-least-once from the
// transport's view; duplicates are harmless because station transitions
// are monotone and terminal events are idempotent.
type ProgressAdapter struct {
	mu           sync.Mutex
	orchestrator *RewriteOrchestrator
	sessionID    string
}

// NewProgressAdapter wires a transport onto the orchestrator.
func NewProgressAdapter(orchestrator *RewriteOrchestrator) *ProgressAdapter {
	return &ProgressAdapter{orchestrator: orchestrator}
}

// SessionID returns the session announced by the transport, empty until
// the session_id event arrives.
func (a *ProgressAdapter) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

// Handle folds one event into the station UI state. Unknown event kinds
// are logged and dropped.
func (a *ProgressAdapter) Handle(event domain.ProgressEvent) {
	switch event.Kind {
	case domain.EventSessionID:
		a.mu.Lock()
		a.sessionID = event.SessionID
		a.mu.Unlock()
	case domain.EventProgressUpdate, domain.EventProcessComplete, domain.EventDisconnect:
		a.orchestrator.ApplyProgress(event)
	default:
		log.Printf("progress: dropping unknown event kind %q", event.Kind)
	}
}
