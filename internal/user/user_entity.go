package user

import (
	"time"

	"github.com/google/uuid"
)

// User is one organization member. Identity lives in the external provider;
// ExternalID is the provider's id and the two stay in sync through webhook
// events. Every user belongs to exactly one organization.
type User struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ExternalID     string    `gorm:"column:external_id;type:varchar(100);not null;uniqueIndex:uq_users_external_id"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index"`
	Email          string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_users_email"`
	FirstName      string    `gorm:"column:first_name;type:varchar(100)"`
	LastName       string    `gorm:"column:last_name;type:varchar(100)"`
	PhotoURL       string    `gorm:"column:photo_url;type:text"`
	Role           string    `gorm:"column:role;type:varchar(20);not null;default:user"`
	Approved       bool      `gorm:"column:approved;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
