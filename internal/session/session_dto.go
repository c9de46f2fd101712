package session

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=150"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     string  `json:"address" binding:"required"`
	Latitude    float64 `json:"latitude" binding:"required,latitude"`
	Longitude   float64 `json:"longitude" binding:"required,longitude"`
	StartTime   string  `json:"start_time" binding:"required"`
	EndTime     string  `json:"end_time" binding:"required"`
}

// UpdateSessionRequest patches a session in place. Pointer fields distinguish
// "leave alone" from "set to zero value".
type UpdateSessionRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=3,max=150"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Address     *string  `json:"address" binding:"omitempty"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,longitude"`
	StartTime   *string  `json:"start_time" binding:"omitempty"`
	EndTime     *string  `json:"end_time" binding:"omitempty"`
}

type ListSessionsQuery struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=6" binding:"omitempty,min=1,max=100"`
}

type SessionResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CreatedBy      uuid.UUID `json:"created_by"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Address        string    `json:"address"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	QRCode         string    `json:"qr_code"`
	Phase          Phase     `json:"phase"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toResponse(s *AttendanceSession, now time.Time) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		OrganizationID: s.OrganizationID,
		CreatedBy:      s.CreatedBy,
		Name:           s.Name,
		Description:    s.Description,
		Address:        s.Location.Address,
		Latitude:       s.Location.Latitude,
		Longitude:      s.Location.Longitude,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		QRCode:         s.QRCode,
		Phase:          Classify(s.StartTime, s.EndTime, now),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
