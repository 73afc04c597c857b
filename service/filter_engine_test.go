package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redraft-ai/redraft/domain"
)

func filterIssues() []domain.Issue {
	return []domain.Issue{
		issueWithConfidence("legal_claim", 0.92),
		issueWithConfidence("passive_voice", 0.75),
		issueWithConfidence("tone", 0.55),
		issueWithConfidence("word_usage", 0.30),
	}
}

func TestSmartFilterEngineApply(t *testing.T) {
	t.Run("default set keeps everything", func(t *testing.T) {
		engine := NewSmartFilterEngine(nil)
		filtered := engine.Apply(filterIssues())
		assert.Len(t, filtered, 4)

		_, counts := engine.State()
		assert.Equal(t, 1, counts[domain.SeverityCritical])
		assert.Equal(t, 1, counts[domain.SeverityError])
		assert.Equal(t, 1, counts[domain.SeverityWarning])
		assert.Equal(t, 1, counts[domain.SeveritySuggestion])
	})

	t.Run("nil input yields empty list", func(t *testing.T) {
		engine := NewSmartFilterEngine(nil)
		filtered := engine.Apply(nil)
		require.NotNil(t, filtered)
		assert.Empty(t, filtered)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		engine := NewSmartFilterEngine(nil)
		engine.Toggle(domain.SeveritySuggestion)
		issues := filterIssues()
		engine.Apply(issues)
		assert.Len(t, issues, 4)
		assert.Equal(t, "legal_claim", issues[0].RuleKind)
	})
}

func TestSmartFilterEngineToggle(t *testing.T) {
	engine := NewSmartFilterEngine(nil)
	engine.Apply(filterIssues())

	engine.Toggle(domain.SeverityWarning)
	active, _ := engine.State()
	assert.False(t, active[domain.SeverityWarning])

	filtered := engine.Apply(filterIssues())
	assert.Len(t, filtered, 3)
	for i := range filtered {
		assert.NotEqual(t, domain.SeverityWarning, filtered[i].Severity())
	}

	// Toggling back restores the level.
	engine.Toggle(domain.SeverityWarning)
	active, _ = engine.State()
	assert.True(t, active[domain.SeverityWarning])

	// Unknown levels are ignored.
	engine.Toggle(domain.Severity("bogus"))
	active, _ = engine.State()
	assert.Len(t, active, 4)
}

func TestSmartFilterEngineReset(t *testing.T) {
	engine := NewSmartFilterEngine(nil)
	engine.Toggle(domain.SeverityCritical)
	engine.Toggle(domain.SeveritySuggestion)

	engine.Reset()
	active, _ := engine.State()
	for _, severity := range domain.AllSeverities {
		assert.True(t, active[severity], "severity %s should be active after reset", severity)
	}
}

func TestSmartFilterEnginePresets(t *testing.T) {
	tests := []struct {
		name    string
		preset  domain.FilterPreset
		wantLen int
	}{
		{"focus mode keeps critical and error", domain.PresetFocusMode, 2},
		{"review mode adds warning", domain.PresetReviewMode, 3},
		{"complete audit keeps everything", domain.PresetCompleteAudit, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewSmartFilterEngine(nil)
			engine.Apply(filterIssues())
			engine.ApplyPreset(tt.preset)
			assert.Len(t, engine.Apply(filterIssues()), tt.wantLen)
		})
	}

	t.Run("unknown preset is a no-op", func(t *testing.T) {
		engine := NewSmartFilterEngine(nil)
		engine.ApplyPreset(domain.FilterPreset("turbo"))
		active, _ := engine.State()
		for _, severity := range domain.AllSeverities {
			assert.True(t, active[severity])
		}
	})
}

func TestSmartFilterEngineSubscribers(t *testing.T) {
	t.Run("callbacks see a consistent snapshot", func(t *testing.T) {
		engine := NewSmartFilterEngine(nil)
		engine.Toggle(domain.SeveritySuggestion)

		var gotFiltered []domain.Issue
		var gotCounts map[domain.Severity]int
		var gotActive map[domain.Severity]bool
		engine.Subscribe(func(filtered []domain.Issue, counts map[domain.Severity]int, active map[domain.Severity]bool) {
			gotFiltered = filtered
			gotCounts = counts
			gotActive = active
		})

		engine.Apply(filterIssues())
		require.Len(t, gotFiltered, 3)
		assert.Equal(t, 1, gotCounts[domain.SeveritySuggestion])
		assert.False(t, gotActive[domain.SeveritySuggestion])
	})

	t.Run("panicking subscriber does not break the others", func(t *testing.T) {
		engine := NewSmartFilterEngine(nil)
		engine.Subscribe(func([]domain.Issue, map[domain.Severity]int, map[domain.Severity]bool) {
			panic("subscriber bug")
		})
		called := false
		engine.Subscribe(func([]domain.Issue, map[domain.Severity]int, map[domain.Severity]bool) {
			called = true
		})

		require.NotPanics(t, func() { engine.Apply(filterIssues()) })
		assert.True(t, called)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		engine := NewSmartFilterEngine(nil)
		calls := 0
		id := engine.Subscribe(func([]domain.Issue, map[domain.Severity]int, map[domain.Severity]bool) {
			calls++
		})
		engine.Apply(filterIssues())
		engine.Unsubscribe(id)
		engine.Apply(filterIssues())
		assert.Equal(t, 1, calls)
	})
}

func TestSmartFilterEnginePersistence(t *testing.T) {
	t.Run("toggle writes state through the store", func(t *testing.T) {
		store := NewMemoryStore()
		engine := NewSmartFilterEngine(store)
		engine.Toggle(domain.SeverityWarning)

		raw, ok := store.Get(domain.FilterStorageKey)
		require.True(t, ok)

		var state domain.FilterState
		require.NoError(t, json.Unmarshal([]byte(raw), &state))
		assert.ElementsMatch(t, []domain.Severity{
			domain.SeverityCritical,
			domain.SeverityError,
			domain.SeveritySuggestion,
		}, state.Active)
		assert.False(t, state.SavedAt.IsZero())
	})

	t.Run("new engine restores persisted state", func(t *testing.T) {
		store := NewMemoryStore()
		first := NewSmartFilterEngine(store)
		first.ApplyPreset(domain.PresetFocusMode)

		second := NewSmartFilterEngine(store)
		active, _ := second.State()
		assert.True(t, active[domain.SeverityCritical])
		assert.True(t, active[domain.SeverityError])
		assert.False(t, active[domain.SeverityWarning])
		assert.False(t, active[domain.SeveritySuggestion])
	})

	t.Run("malformed state falls back to defaults", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(domain.FilterStorageKey, "{not json"))

		engine := NewSmartFilterEngine(store)
		active, _ := engine.State()
		for _, severity := range domain.AllSeverities {
			assert.True(t, active[severity])
		}
	})

	t.Run("unknown persisted levels are dropped", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(domain.FilterStorageKey,
			`{"active":["critical","blocker"],"savedAt":"2026-01-15T10:00:00Z"}`))

		engine := NewSmartFilterEngine(store)
		active, _ := engine.State()
		assert.True(t, active[domain.SeverityCritical])
		assert.False(t, active[domain.SeverityError])
		assert.False(t, active[domain.SeverityWarning])
		assert.False(t, active[domain.SeveritySuggestion])
	})
}

func TestSmartFilterEngineMetrics(t *testing.T) {
	engine := NewSmartFilterEngine(nil)
	assert.Zero(t, engine.Metrics().Operations)

	engine.Apply(filterIssues())
	engine.Apply(filterIssues())

	metrics := engine.Metrics()
	assert.Equal(t, int64(2), metrics.Operations)
	assert.GreaterOrEqual(t, metrics.AverageDuration, metrics.LastDuration/2)
}

func benchmarkIssues(n int) []domain.Issue {
	rules := []string{"legal_claim", "passive_voice", "tone", "word_usage"}
	scores := []float64{0.92, 0.75, 0.55, 0.30}
	issues := make([]domain.Issue, n)
	for i := range issues {
		issues[i] = issueWithConfidence(rules[i%len(rules)], scores[i%len(scores)])
	}
	return issues
}

func BenchmarkFilterApply100(b *testing.B) {
	engine := NewSmartFilterEngine(nil)
	issues := benchmarkIssues(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Apply(issues)
	}
}

func BenchmarkFilterApply1000(b *testing.B) {
	engine := NewSmartFilterEngine(nil)
	issues := benchmarkIssues(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Apply(issues)
	}
}

func BenchmarkFilterToggle(b *testing.B) {
	engine := NewSmartFilterEngine(nil)
	engine.Apply(benchmarkIssues(100))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Toggle(domain.SeverityWarning)
	}
}
