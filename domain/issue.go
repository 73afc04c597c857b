package domain

// Severity classifies an issue for display and filtering. It is derived
// from confidence, not carried by the analyzer.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// AllSeverities lists every severity in descending order of weight.
var AllSeverities = []Severity{SeverityCritical, SeverityError, SeverityWarning, SeveritySuggestion}

// IsValid reports whether s is one of the four recognized severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityError, SeverityWarning, SeveritySuggestion:
		return true
	}
	return false
}

// ConfidenceLevel is the presentation bucket for a confidence score
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// ValidationDecision is the analyzer's multi-pass validation verdict
type ValidationDecision string

const (
	ValidationAccept    ValidationDecision = "accept"
	ValidationReview    ValidationDecision = "review"
	ValidationUncertain ValidationDecision = "uncertain"
)

// ConfidenceCalculation carries the optional breakdown of how the analyzer
// arrived at a confidence score.
type ConfidenceCalculation struct {
	Method               string  `json:"method,omitempty"`
	WeightedAverage      float64 `json:"weighted_average,omitempty"`
	PrimaryConfidence    float64 `json:"primary_confidence,omitempty"`
	ConsolidationPenalty float64 `json:"consolidation_penalty,omitempty"`
}

// IssueValidation carries the optional consensus validation details.
type IssueValidation struct {
	Decision        ValidationDecision `json:"decision,omitempty"`
	ConsensusScore  float64            `json:"consensus_score,omitempty"`
	PassesCount     int                `json:"passes_count,omitempty"`
	ConfidenceScore *float64           `json:"confidence_score,omitempty"`
}

// StructuralContext locates an issue within a composite block, such as the
// term half of a description-list item.
type StructuralContext struct {
	IsDlistTerm bool `json:"is_dlist_term,omitempty"`
}

// Issue is a detected style concern attached to a block. Issues are owned
// by the analysis result and are read-only to the rendering core.
type Issue struct {
	RuleKind     string   `json:"rule_kind"`
	SeverityHint string   `json:"severity_hint,omitempty"`
	Message      string   `json:"message"`
	Suggestions  []string `json:"suggestions,omitempty"`
	TextSegment  string   `json:"text_segment,omitempty"`

	LineNumber    int `json:"line_number,omitempty"`
	SentenceIndex int `json:"sentence_index,omitempty"`
	ErrorPosition int `json:"error_position,omitempty"`

	// Confidence may appear under either top-level name, or nested in the
	// validation details. Extraction order is fixed; see Confidence().
	ConfidenceValue *float64 `json:"confidence,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`

	Calculation       *ConfidenceCalculation `json:"confidence_calculation,omitempty"`
	Validation        *IssueValidation       `json:"validation,omitempty"`
	ConsolidatedFrom  []Issue                `json:"consolidated_from,omitempty"`
	StructuralContext *StructuralContext     `json:"structural_context,omitempty"`
}

// DefaultConfidence applies when an issue carries no usable score.
const DefaultConfidence = 0.5

// Confidence severity thresholds. Boundaries are closed on the lower end:
// a score exactly at a threshold resolves to the higher classification.
const (
	CriticalThreshold = 0.85
	ErrorThreshold    = 0.70
	WarningThreshold  = 0.50
)

// Confidence resolves the issue's score through the documented fallback
// chain: confidence, confidence_score, validation.confidence_score, 0.5.
func (i *Issue) Confidence() float64 {
	if i == nil {
		return DefaultConfidence
	}
	if i.ConfidenceValue != nil {
		return clampConfidence(*i.ConfidenceValue)
	}
	if i.ConfidenceScore != nil {
		return clampConfidence(*i.ConfidenceScore)
	}
	if i.Validation != nil && i.Validation.ConfidenceScore != nil {
		return clampConfidence(*i.Validation.ConfidenceScore)
	}
	return DefaultConfidence
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// SeverityFor maps a confidence score to its display severity.
func SeverityFor(confidence float64) Severity {
	switch {
	case confidence >= CriticalThreshold:
		return SeverityCritical
	case confidence >= ErrorThreshold:
		return SeverityError
	case confidence >= WarningThreshold:
		return SeverityWarning
	default:
		return SeveritySuggestion
	}
}

// LevelFor maps a confidence score to its presentation bucket.
func LevelFor(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= ErrorThreshold:
		return ConfidenceHigh
	case confidence >= WarningThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Severity returns the derived severity for this issue.
func (i *Issue) Severity() Severity {
	return SeverityFor(i.Confidence())
}

// Level returns the derived confidence level for this issue.
func (i *Issue) Level() ConfidenceLevel {
	return LevelFor(i.Confidence())
}

// CountBySeverity tallies issues into the four severity buckets.
func CountBySeverity(issues []Issue) map[Severity]int {
	counts := map[Severity]int{
		SeverityCritical:   0,
		SeverityError:      0,
		SeverityWarning:    0,
		SeveritySuggestion: 0,
	}
	for i := range issues {
		counts[issues[i].Severity()]++
	}
	return counts
}
