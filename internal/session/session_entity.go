package session

import (
	"time"

	"github.com/google/uuid"
)

// MeetingLocation is where the session physically takes place.
type MeetingLocation struct {
	Address   string  `gorm:"column:location_address;type:text;not null"`
	Latitude  float64 `gorm:"column:location_latitude;not null"`
	Longitude float64 `gorm:"column:location_longitude;not null"`
}

// AttendanceSession is one scheduled attendance-taking event. QRCode holds the
// signed check-in payload derived from the session's own id; rows are only
// ever visible with it populated because creation finalizes the token inside
// the same transaction.
type AttendanceSession struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID       `gorm:"column:organization_id;type:uuid;not null;index"`
	CreatedBy      uuid.UUID       `gorm:"column:created_by;type:uuid;not null;index"`
	Name           string          `gorm:"column:name;type:varchar(150);not null"`
	Description    *string         `gorm:"column:description;type:text"`
	Location       MeetingLocation `gorm:"embedded"`
	StartTime      time.Time       `gorm:"column:start_time;type:timestamptz;not null;index"`
	EndTime        time.Time       `gorm:"column:end_time;type:timestamptz;not null"`
	QRCode         string          `gorm:"column:qr_code;type:text;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}
