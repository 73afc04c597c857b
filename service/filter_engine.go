package service

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redraft-ai/redraft/domain"
)

// FilterCallback observes filter changes. Each invocation sees a
// consistent triple: the filtered list, the per-severity counts and the
// active set in effect when Apply ran.
type FilterCallback func(filtered []domain.Issue, counts map[domain.Severity]int, active map[domain.Severity]bool)

// SmartFilterEngine maintains the multi-level active set over an issue
// list, with persistence, subscriber fan-out and performance tracking.
type SmartFilterEngine struct {
	mu        sync.Mutex
	active    map[domain.Severity]bool
	counts    map[domain.Severity]int
	original  []domain.Issue
	filtered  []domain.Issue
	callbacks map[int]FilterCallback
	nextCbID  int
	store     domain.StringStore
	now       func() time.Time

	// Performance tracking
	operations    int64
	lastDuration  time.Duration
	totalDuration time.Duration
}

// NewSmartFilterEngine builds an engine with the default active set,
// restoring any persisted state from the store. A nil store disables
// persistence.
func NewSmartFilterEngine(store domain.StringStore) *SmartFilterEngine {
	e := &SmartFilterEngine{
		active:    domain.DefaultActiveSet(),
		counts:    make(map[domain.Severity]int),
		callbacks: make(map[int]FilterCallback),
		store:     store,
		now:       time.Now,
	}
	e.restore()
	return e
}

// restore loads persisted filter state. Unknown levels are dropped; parse
// failures fall back to the default set. Never fails the constructor.
func (e *SmartFilterEngine) restore() {
	if e.store == nil {
		return
	}
	raw, ok := e.store.Get(domain.FilterStorageKey)
	if !ok || raw == "" {
		return
	}
	var state domain.FilterState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("filter: discarding malformed state: %v", err)
		return
	}
	restored := map[domain.Severity]bool{}
	for _, severity := range state.Active {
		if severity.IsValid() {
			restored[severity] = true
		}
	}
	if len(restored) == 0 {
		return
	}
	active := map[domain.Severity]bool{}
	for _, severity := range domain.AllSeverities {
		active[severity] = restored[severity]
	}
	e.active = active
}

// persist writes the active set through to the store. Best effort: quota
// exhaustion and other write failures are logged, never propagated.
func (e *SmartFilterEngine) persist() {
	if e.store == nil {
		return
	}
	state := domain.FilterState{SavedAt: e.now()}
	for _, severity := range domain.AllSeverities {
		if e.active[severity] {
			state.Active = append(state.Active, severity)
		}
	}
	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("filter: state marshal failed: %v", err)
		return
	}
	if err := e.store.Set(domain.FilterStorageKey, string(data)); err != nil {
		log.Printf("filter: state write failed: %v", err)
	}
}

// Apply recomputes counts and returns the subset of issues whose severity
// is active. The input is never mutated; nil input yields an empty list.
// Subscribers are notified with a consistent snapshot; a panicking
// callback is logged and does not break the others.
func (e *SmartFilterEngine) Apply(issues []domain.Issue) []domain.Issue {
	start := time.Now()

	e.mu.Lock()
	e.original = issues

	counts := domain.CountBySeverity(issues)
	filtered := make([]domain.Issue, 0, len(issues))
	for i := range issues {
		if e.active[issues[i].Severity()] {
			filtered = append(filtered, issues[i])
		}
	}
	e.counts = counts
	e.filtered = filtered

	e.operations++
	e.lastDuration = time.Since(start)
	e.totalDuration += e.lastDuration

	activeSnapshot := e.activeCopyLocked()
	countsSnapshot := copyCounts(counts)
	callbacks := make([]FilterCallback, 0, len(e.callbacks))
	for _, cb := range e.callbacks {
		callbacks = append(callbacks, cb)
	}
	e.mu.Unlock()

	result := make([]domain.Issue, len(filtered))
	copy(result, filtered)

	for _, cb := range callbacks {
		e.invoke(cb, result, countsSnapshot, activeSnapshot)
	}
	return result
}

// invoke runs one callback with panic isolation.
func (e *SmartFilterEngine) invoke(cb FilterCallback, filtered []domain.Issue, counts map[domain.Severity]int, active map[domain.Severity]bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("filter: subscriber panicked: %v", rec)
		}
	}()
	cb(filtered, counts, active)
}

// Toggle flips membership for a recognized severity and reapplies the
// current list. Unrecognized levels are a no-op.
func (e *SmartFilterEngine) Toggle(severity domain.Severity) {
	if !severity.IsValid() {
		return
	}
	e.mu.Lock()
	e.active[severity] = !e.active[severity]
	e.persist()
	original := e.original
	e.mu.Unlock()
	e.Apply(original)
}

// Reset restores the default active set and reapplies.
func (e *SmartFilterEngine) Reset() {
	e.mu.Lock()
	e.active = domain.DefaultActiveSet()
	e.persist()
	original := e.original
	e.mu.Unlock()
	e.Apply(original)
}

// ApplyPreset switches to a named preset's active set. Unknown presets
// are a no-op.
func (e *SmartFilterEngine) ApplyPreset(name domain.FilterPreset) {
	preset := domain.PresetActiveSet(name)
	if preset == nil {
		return
	}
	e.mu.Lock()
	active := map[domain.Severity]bool{}
	for _, severity := range domain.AllSeverities {
		active[severity] = preset[severity]
	}
	e.active = active
	e.persist()
	original := e.original
	e.mu.Unlock()
	e.Apply(original)
}

// Subscribe registers a callback and returns an id for Unsubscribe.
func (e *SmartFilterEngine) Subscribe(cb FilterCallback) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextCbID
	e.nextCbID++
	e.callbacks[id] = cb
	return id
}

// Unsubscribe removes a previously registered callback.
func (e *SmartFilterEngine) Unsubscribe(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.callbacks, id)
}

// State returns a read-only snapshot of the active set and counts.
func (e *SmartFilterEngine) State() (active map[domain.Severity]bool, counts map[domain.Severity]int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeCopyLocked(), copyCounts(e.counts)
}

// Metrics returns a read-only snapshot of performance counters.
func (e *SmartFilterEngine) Metrics() domain.FilterMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	metrics := domain.FilterMetrics{
		Operations:   e.operations,
		LastDuration: e.lastDuration,
	}
	if e.operations > 0 {
		metrics.AverageDuration = e.totalDuration / time.Duration(e.operations)
	}
	return metrics
}

func (e *SmartFilterEngine) activeCopyLocked() map[domain.Severity]bool {
	active := make(map[domain.Severity]bool, len(e.active))
	for k, v := range e.active {
		active[k] = v
	}
	return active
}

func copyCounts(counts map[domain.Severity]int) map[domain.Severity]int {
	copied := make(map[domain.Severity]int, len(counts))
	for k, v := range counts {
		copied[k] = v
	}
	return copied
}
