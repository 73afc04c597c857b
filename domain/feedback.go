package domain

import "time"

// FeedbackStorageKey is the fixed session-store key for the feedback map.
const FeedbackStorageKey = "error_feedback"

// Fingerprint construction limits. The fingerprint hashes the first 50
// runes of the message and the first 20 of the text segment.
const (
	FingerprintMessageLen = 50
	FingerprintSegmentLen = 20
	FingerprintLength     = 16
)

// FeedbackDecision is the user's verdict on an issue.
type FeedbackDecision string

const (
	FeedbackHelpful    FeedbackDecision = "helpful"
	FeedbackNotHelpful FeedbackDecision = "not_helpful"
)

// IsValid reports whether d is a recognized decision.
func (d FeedbackDecision) IsValid() bool {
	return d == FeedbackHelpful || d == FeedbackNotHelpful
}

// FeedbackReasonCategory classifies why an issue was unhelpful.
type FeedbackReasonCategory string

const (
	ReasonIncorrect FeedbackReasonCategory = "incorrect"
	ReasonUnclear   FeedbackReasonCategory = "unclear"
	ReasonContext   FeedbackReasonCategory = "context"
	ReasonStyle     FeedbackReasonCategory = "style"
	ReasonOther     FeedbackReasonCategory = "other"
)

// FeedbackReason is the optional structured explanation for a decision.
type FeedbackReason struct {
	Category FeedbackReasonCategory `json:"category"`
	Comment  string                 `json:"comment,omitempty"`
}

// FeedbackRecord is one captured decision, keyed by issue fingerprint.
// A later Record for the same fingerprint overwrites it; users change
// their minds.
type FeedbackRecord struct {
	Decision   FeedbackDecision `json:"decision"`
	Reason     *FeedbackReason  `json:"reason,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
	RuleKind   string           `json:"rule_kind"`
	Confidence float64          `json:"confidence"`
}

// FeedbackStats summarizes the session's captured feedback.
type FeedbackStats struct {
	Total      int                       `json:"total"`
	Helpful    int                       `json:"helpful"`
	NotHelpful int                       `json:"not_helpful"`
	ByRule     map[string]map[string]int `json:"by_rule"`
}

// FeedbackSubmission is the payload POSTed to the feedback backend. The
// response is advisory; local state stays authoritative for the UI.
type FeedbackSubmission struct {
	Fingerprint   string           `json:"fingerprint"`
	Decision      FeedbackDecision `json:"decision"`
	Reason        *FeedbackReason  `json:"reason,omitempty"`
	SessionID     string           `json:"session_id"`
	IssueSnapshot *Issue           `json:"issue_snapshot,omitempty"`
}
