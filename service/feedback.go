package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redraft-ai/redraft/domain"
)

// Fingerprint derives the stable identity of an issue: rule kind, the
// first 50 runes of the message, the line number and the first 20 runes of
// the text segment, base64 encoded and truncated to 16 alphanumerics.
// The result is deterministic across sessions.
func Fingerprint(issue *domain.Issue) string {
	if issue == nil {
		return ""
	}
	identity := fmt.Sprintf("%s|%s|%d|%s",
		issue.RuleKind,
		truncateRunes(issue.Message, domain.FingerprintMessageLen),
		issue.LineNumber,
		truncateRunes(issue.TextSegment, domain.FingerprintSegmentLen))

	encoded := base64.StdEncoding.EncodeToString([]byte(identity))

	fingerprint := make([]byte, 0, domain.FingerprintLength)
	for i := 0; i < len(encoded) && len(fingerprint) < domain.FingerprintLength; i++ {
		c := encoded[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			fingerprint = append(fingerprint, c)
		}
	}
	return string(fingerprint)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// FeedbackService owns the per-session feedback map. Records live in
// memory and mirror to the session store under the fixed feedback key;
// load-time parse failures reset the map to empty without failing.
type FeedbackService struct {
	mu         sync.Mutex
	records    map[string]domain.FeedbackRecord
	processing map[string]bool
	store      domain.StringStore
	backend    domain.FeedbackBackend
	sessionID  string
	now        func() time.Time
}

// NewFeedbackService builds a service over the given store and backend.
// Either collaborator may be nil: a nil store skips mirroring, a nil
// backend makes Submit record-only.
func NewFeedbackService(store domain.StringStore, backend domain.FeedbackBackend, sessionID string) *FeedbackService {
	s := &FeedbackService{
		records:    make(map[string]domain.FeedbackRecord),
		processing: make(map[string]bool),
		store:      store,
		backend:    backend,
		sessionID:  sessionID,
		now:        time.Now,
	}
	s.load()
	return s
}

// load restores the mirrored map. Malformed snapshots reset to empty.
func (s *FeedbackService) load() {
	if s.store == nil {
		return
	}
	raw, ok := s.store.Get(domain.FeedbackStorageKey)
	if !ok || raw == "" {
		return
	}
	var restored map[string]domain.FeedbackRecord
	if err := json.Unmarshal([]byte(raw), &restored); err != nil {
		log.Printf("feedback: discarding malformed snapshot: %v", err)
		s.records = make(map[string]domain.FeedbackRecord)
		return
	}
	s.records = restored
}

// persist mirrors the in-memory map to the store. Best effort: storage
// failures are logged, never surfaced.
func (s *FeedbackService) persist() {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(s.records)
	if err != nil {
		log.Printf("feedback: snapshot marshal failed: %v", err)
		return
	}
	if err := s.store.Set(domain.FeedbackStorageKey, string(data)); err != nil {
		log.Printf("feedback: snapshot write failed: %v", err)
	}
}

// Record captures a decision for the issue, overwriting any prior record
// for the same fingerprint, and returns the fingerprint. Overwrite is
// intentional: users change their minds.
func (s *FeedbackService) Record(issue *domain.Issue, decision domain.FeedbackDecision, reason *domain.FeedbackReason) string {
	fingerprint := Fingerprint(issue)
	if fingerprint == "" || !decision.IsValid() {
		return fingerprint
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[fingerprint] = domain.FeedbackRecord{
		Decision:   decision,
		Reason:     reason,
		Timestamp:  s.now(),
		RuleKind:   issue.RuleKind,
		Confidence: issue.Confidence(),
	}
	s.persist()
	return fingerprint
}

// Get returns the record for the issue, or nil when none exists.
func (s *FeedbackService) Get(issue *domain.Issue) *domain.FeedbackRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[Fingerprint(issue)]; ok {
		return &record
	}
	return nil
}

// Change removes the record for the fingerprint so the UI re-renders the
// affordance set. Reports whether a record existed.
func (s *FeedbackService) Change(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[fingerprint]; !ok {
		return false
	}
	delete(s.records, fingerprint)
	s.persist()
	return true
}

// Stats summarizes the captured feedback with a per-rule breakdown.
func (s *FeedbackService) Stats() domain.FeedbackStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.FeedbackStats{
		ByRule: make(map[string]map[string]int),
	}
	for _, record := range s.records {
		stats.Total++
		if record.Decision == domain.FeedbackHelpful {
			stats.Helpful++
		} else {
			stats.NotHelpful++
		}
		if stats.ByRule[record.RuleKind] == nil {
			stats.ByRule[record.RuleKind] = make(map[string]int)
		}
		stats.ByRule[record.RuleKind][string(record.Decision)]++
	}
	return stats
}

// Submit records the decision locally, then forwards it to the backend.
// A submission already in flight for the same fingerprint is a no-op.
// A network failure re-enables the controls and reports the error, but
// the recorded decision is never removed: local state is authoritative.
func (s *FeedbackService) Submit(ctx context.Context, issue *domain.Issue, decision domain.FeedbackDecision, reason *domain.FeedbackReason) (string, error) {
	fingerprint := Fingerprint(issue)
	if fingerprint == "" {
		return "", domain.NewInvalidInputError("issue has no identity", nil)
	}

	s.mu.Lock()
	if s.processing[fingerprint] {
		s.mu.Unlock()
		return fingerprint, nil
	}
	s.processing[fingerprint] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.processing, fingerprint)
		s.mu.Unlock()
	}()

	s.Record(issue, decision, reason)

	if s.backend == nil {
		return fingerprint, nil
	}
	submission := &domain.FeedbackSubmission{
		Fingerprint:   fingerprint,
		Decision:      decision,
		Reason:        reason,
		SessionID:     s.sessionID,
		IssueSnapshot: issue,
	}
	if err := s.backend.SubmitFeedback(ctx, submission); err != nil {
		// Local record stays; the caller shows a transient alert.
		return fingerprint, domain.NewNetworkError("feedback submission failed", err)
	}
	return fingerprint, nil
}
