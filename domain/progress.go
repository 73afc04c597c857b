package domain

// ProgressEventKind identifies a typed message on the progress stream.
type ProgressEventKind string

const (
	EventSessionID       ProgressEventKind = "session_id"
	EventProgressUpdate  ProgressEventKind = "progress_update"
	EventProcessComplete ProgressEventKind = "process_complete"
	EventDisconnect      ProgressEventKind = "disconnect"
)

// ProgressEvent is one message received from the rewrite transport.
// Delivery is at-least-once; duplicates and out-of-order events are
// tolerated by the adapter.
type ProgressEvent struct {
	Kind      ProgressEventKind      `json:"kind"`
	SessionID string                 `json:"session_id,omitempty"`
	BlockID   string                 `json:"block_id,omitempty"`
	Station   Station                `json:"station,omitempty"`
	Status    StationStatus          `json:"status,omitempty"`
	Progress  int                    `json:"progress,omitempty"`
	Detail    string                 `json:"detail,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}
