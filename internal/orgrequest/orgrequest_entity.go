package orgrequest

import (
	"time"

	"github.com/google/uuid"
)

// OrganizationRequest is a signup application awaiting superadmin review.
// Approved and OrganizationCreated move together when approval is finalized;
// once both are set the request is terminal. Rejection removes the row so the
// email can apply again.
type OrganizationRequest struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email               string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_organization_requests_email"`
	Subject             string    `gorm:"column:subject;type:varchar(200);not null"`
	OrganizationName    string    `gorm:"column:organization_name;type:varchar(150);not null"`
	ResponsiblePerson   string    `gorm:"column:responsible_person;type:varchar(150);not null"`
	LogoURL             string    `gorm:"column:logo_url;type:text"`
	Origin              string    `gorm:"column:origin;type:varchar(100)"`
	Description         string    `gorm:"column:description;type:text"`
	Approved            bool      `gorm:"column:approved;not null;default:false"`
	OrganizationCreated bool      `gorm:"column:organization_created;not null;default:false"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (OrganizationRequest) TableName() string {
	return "organization_requests"
}

// Terminal reports whether the request has finished the workflow.
func (r *OrganizationRequest) Terminal() bool {
	return r.Approved && r.OrganizationCreated
}
