package events

import "time"

const AttendanceRecordedTopic = "attendance.record.v1"

// AttendanceRecordedEvent announces a check-in write, first or repeat. Version
// lets consumers order repeat writes for the same (user, session) pair.
type AttendanceRecordedEvent struct {
	EventType      string    `json:"event_type"`
	RecordID       string    `json:"record_id"`
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Status         string    `json:"status"`
	Version        int       `json:"version"`
	OccurredAt     time.Time `json:"occurred_at"`
}
