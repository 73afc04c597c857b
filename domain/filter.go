package domain

import "time"

// FilterStorageKey is the fixed session-store key for filter state.
const FilterStorageKey = "style-guide-ai-filters"

// FilterPreset names a predefined active set.
type FilterPreset string

const (
	PresetFocusMode     FilterPreset = "focus-mode"
	PresetReviewMode    FilterPreset = "review-mode"
	PresetCompleteAudit FilterPreset = "complete-audit"
)

// FilterState is the persisted shape of the smart filter's active set.
type FilterState struct {
	Active  []Severity `json:"active"`
	SavedAt time.Time  `json:"savedAt"`
}

// DefaultActiveSet returns the default filter state: all four severities.
func DefaultActiveSet() map[Severity]bool {
	return map[Severity]bool{
		SeverityCritical:   true,
		SeverityError:      true,
		SeverityWarning:    true,
		SeveritySuggestion: true,
	}
}

// PresetActiveSet resolves a preset name to its active set. Unknown names
// return nil.
func PresetActiveSet(name FilterPreset) map[Severity]bool {
	switch name {
	case PresetFocusMode:
		return map[Severity]bool{
			SeverityCritical: true,
			SeverityError:    true,
		}
	case PresetReviewMode:
		return map[Severity]bool{
			SeverityCritical: true,
			SeverityError:    true,
			SeverityWarning:  true,
		}
	case PresetCompleteAudit:
		return DefaultActiveSet()
	}
	return nil
}

// FilterMetrics is a read-only snapshot of filter engine performance.
type FilterMetrics struct {
	Operations      int64         `json:"operations"`
	LastDuration    time.Duration `json:"last_duration"`
	AverageDuration time.Duration `json:"average_duration"`
}
