// Package audit emits complaint lifecycle events to an external stream for
// operational visibility. The stream is best-effort: the ledger inside the
// database is the authoritative record, so publish failures never fail the
// business operation.
package audit

import "time"

// Action names for lifecycle events.
const (
	ActionComplaintSubmitted = "complaint_submitted"
	ActionStatusChanged      = "complaint_status_changed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
	ComplaintID int64     `json:"complaint_id"`
	ActorID     int64     `json:"actor_id,omitempty"`
	OldStatus   string    `json:"old_status,omitempty"`
	NewStatus   string    `json:"new_status,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// Publisher is the sink contract. A nil *KafkaPublisher is a valid no-op
// publisher, so callers never need nil checks.
type Publisher interface {
	Publish(event Event)
}
