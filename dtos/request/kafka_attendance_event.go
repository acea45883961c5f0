package request

import "time"

// AttendanceRecordedEvent is published to Kafka after an attendance event
// commits, for downstream reporting consumers.
type AttendanceRecordedEvent struct {
	WorkerID        string    `json:"worker_id"`
	EventType       string    `json:"event_type"`
	EstablishmentID string    `json:"establishment_id,omitempty"`
	Region          string    `json:"region,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
