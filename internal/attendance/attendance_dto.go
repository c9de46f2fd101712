package attendance

import (
	"time"

	"github.com/google/uuid"
)

// RecordAttendanceRequest submits one member's status for one session.
// Status accepts the canonical values and the Indonesian client labels.
type RecordAttendanceRequest struct {
	UserID    string   `json:"user_id" binding:"required,uuid"`
	SessionID string   `json:"session_id" binding:"required,uuid"`
	Status    string   `json:"status" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
}

// ScanRequest is a member's self check-in via the session QR payload.
type ScanRequest struct {
	Token     string   `json:"token" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
}

type ListRecordsQuery struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

type RecordResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
	SessionID      uuid.UUID `json:"session_id"`
	Status         Status    `json:"status"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Version        int       `json:"version"`
}

// RosterEntry is one row of the derived per-session roster: every member of
// the organization appears exactly once, with the stored record if one exists
// and a synthesized Absent otherwise.
type RosterEntry struct {
	UserID    uuid.UUID  `json:"user_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	Status    Status     `json:"status"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Recorded  bool       `json:"recorded"`
}

func toRecordResponse(r *AttendanceRecord) RecordResponse {
	return RecordResponse{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		UserID:         r.UserID,
		SessionID:      r.SessionID,
		Status:         r.Status,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Timestamp:      r.Timestamp,
		Version:        r.Version,
	}
}
