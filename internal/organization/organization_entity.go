package organization

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Organization is the tenant root. Rows are removed only by an explicit
// superadmin delete, so there is no soft-delete column.
type Organization struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string    `gorm:"column:name;type:varchar(150);not null"`
	Description       string    `gorm:"column:description;type:text"`
	LogoURL           string    `gorm:"column:logo_url;type:text"`
	ResponsiblePerson string    `gorm:"column:responsible_person;type:varchar(150)"`
	AdminEmail        string    `gorm:"column:admin_email;type:varchar(255);index"`
	Origin            string    `gorm:"column:origin;type:varchar(150)"`
	Status            string    `gorm:"column:status;type:varchar(20);not null;default:pending"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`

	// MemberCount is computed from the users table on reads, never stored.
	MemberCount int64 `gorm:"column:member_count;->;-:migration"`
}

func (Organization) TableName() string {
	return "organizations"
}
