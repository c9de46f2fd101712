package attendance

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord is one member's check-in state for one session. The
// (user_id, session_id) pair is unique: writes for an existing pair update the
// row in place, so a member has at most one record per session. Version counts
// how many writes the row has absorbed.
type AttendanceRecord struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_attendance_user_session"`
	SessionID      uuid.UUID `gorm:"column:session_id;type:uuid;not null;uniqueIndex:uq_attendance_user_session"`
	Status         Status    `gorm:"column:status;type:varchar(10);not null"`
	Latitude       *float64  `gorm:"column:latitude"`
	Longitude      *float64  `gorm:"column:longitude"`
	Timestamp      time.Time `gorm:"column:timestamp;type:timestamptz;not null"`
	Version        int       `gorm:"column:version;not null;default:1"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
