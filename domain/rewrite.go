package domain

import "strings"

// RewriteStatus is the per-block state machine position.
//
//	idle -> processing -> complete
//	                \--> error -> (retry) -> processing
type RewriteStatus string

const (
	RewriteIdle       RewriteStatus = "idle"
	RewriteProcessing RewriteStatus = "processing"
	RewriteComplete   RewriteStatus = "complete"
	RewriteError      RewriteStatus = "error"
)

// Station is a priority-labeled stage of the rewrite assembly line.
type Station string

const (
	StationUrgent Station = "urgent"
	StationHigh   Station = "high"
	StationMedium Station = "medium"
	StationLow    Station = "low"
)

// StationPriority lists stations in descending priority. StationsFor
// returns its subset in this order.
var StationPriority = []Station{StationUrgent, StationHigh, StationMedium, StationLow}

// StationStatus tracks one station's progress through a rewrite run.
type StationStatus string

const (
	StationWaiting          StationStatus = "waiting"
	StationProcessingStatus StationStatus = "processing"
	StationCompleteStatus   StationStatus = "complete"
)

// stationStatusRank orders statuses for the monotonicity check; a station
// never moves backwards within one run.
var stationStatusRank = map[StationStatus]int{
	StationWaiting:          0,
	StationProcessingStatus: 1,
	StationCompleteStatus:   2,
}

// StationStatusAdvances reports whether moving from to next is a forward
// transition. Equal or backward transitions are dropped by the adapter.
func StationStatusAdvances(from, to StationStatus) bool {
	return stationStatusRank[to] > stationStatusRank[from]
}

// StationForRule classifies a single rule kind. Legal and inclusivity
// concerns outrank everything; structural prose problems come next, then
// mechanical word-level rules, with tone and citations last.
func StationForRule(ruleKind string) Station {
	rule := strings.ToLower(ruleKind)
	switch {
	case strings.Contains(rule, "legal"),
		strings.Contains(rule, "compliance"),
		strings.Contains(rule, "inclusive"):
		return StationUrgent
	case strings.Contains(rule, "passive"),
		strings.Contains(rule, "sentence_length"),
		strings.Contains(rule, "structure"):
		return StationHigh
	case strings.Contains(rule, "tone"),
		strings.Contains(rule, "citation"):
		return StationLow
	default:
		// Terminology, spelling, word usage, contractions and the long
		// tail of mechanical rules.
		return StationMedium
	}
}

// StationsFor derives the distinct set of applicable stations from a
// block's issues, ordered by priority.
func StationsFor(issues []Issue) []Station {
	seen := map[Station]bool{}
	for i := range issues {
		seen[StationForRule(issues[i].RuleKind)] = true
	}
	stations := make([]Station, 0, len(seen))
	for _, s := range StationPriority {
		if seen[s] {
			stations = append(stations, s)
		}
	}
	return stations
}

// RewriteRequest is the payload POSTed to the rewrite backend.
type RewriteRequest struct {
	BlockContent string  `json:"block_content"`
	BlockErrors  []Issue `json:"block_errors"`
	BlockType    string  `json:"block_type"`
	BlockID      string  `json:"block_id"`
	SessionID    string  `json:"session_id"`
}

// RewriteResult is the successful backend response.
type RewriteResult struct {
	RewrittenText  string  `json:"rewritten_text"`
	IssuesFixed    int     `json:"errors_fixed"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime float64 `json:"processing_time"`
}

// RewriteResponse is the raw backend envelope.
type RewriteResponse struct {
	Success        bool    `json:"success"`
	RewrittenText  string  `json:"rewritten_text,omitempty"`
	ErrorsFixed    int     `json:"errors_fixed,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	ProcessingTime float64 `json:"processing_time,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// RewriteState is the orchestrator's view of one block. It is keyed by
// block display-id and cleared when a new analysis replaces the tree.
type RewriteState struct {
	Status       RewriteStatus             `json:"status"`
	Stations     []Station                 `json:"applicable_stations,omitempty"`
	StationState map[Station]StationStatus `json:"station_state,omitempty"`
	Result       *RewriteResult            `json:"result,omitempty"`
	ErrorMessage string                    `json:"error_message,omitempty"`
}
