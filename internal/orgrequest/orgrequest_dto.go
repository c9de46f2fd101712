package orgrequest

import (
	"time"

	"github.com/google/uuid"
)

// CreateOrgRequestRequest is the public intake form.
type CreateOrgRequestRequest struct {
	Email             string `json:"email" binding:"required,email"`
	Subject           string `json:"subject" binding:"required,min=3,max=200"`
	OrganizationName  string `json:"organization_name" binding:"required,min=3,max=150"`
	ResponsiblePerson string `json:"responsible_person" binding:"required,min=3,max=150"`
	LogoURL           string `json:"logo_url" binding:"omitempty,url"`
	Origin            string `json:"origin" binding:"omitempty,max=100"`
	Description       string `json:"description" binding:"omitempty,max=2000"`
}

// FinalizeApprovalRequest closes the workflow after the organization was
// created from the draft.
type FinalizeApprovalRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
}

type ListOrgRequestsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved"`
	Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int    `form:"limit,default=6" binding:"omitempty,min=1,max=100"`
}

type OrgRequestResponse struct {
	ID                  uuid.UUID `json:"id"`
	Email               string    `json:"email"`
	Subject             string    `json:"subject"`
	OrganizationName    string    `json:"organization_name"`
	ResponsiblePerson   string    `json:"responsible_person"`
	LogoURL             string    `json:"logo_url,omitempty"`
	Origin              string    `json:"origin,omitempty"`
	Description         string    `json:"description,omitempty"`
	Approved            bool      `json:"approved"`
	OrganizationCreated bool      `json:"organization_created"`
	CreatedAt           time.Time `json:"created_at"`
}

// OrganizationDraft is the prefill returned by the approval preview. Nothing
// is persisted until the superadmin finalizes.
type OrganizationDraft struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	LogoURL           string `json:"logo_url,omitempty"`
	ResponsiblePerson string `json:"responsible_person"`
	AdminEmail        string `json:"admin_email"`
	Origin            string `json:"origin,omitempty"`
}

func toResponse(r *OrganizationRequest) OrgRequestResponse {
	return OrgRequestResponse{
		ID:                  r.ID,
		Email:               r.Email,
		Subject:             r.Subject,
		OrganizationName:    r.OrganizationName,
		ResponsiblePerson:   r.ResponsiblePerson,
		LogoURL:             r.LogoURL,
		Origin:              r.Origin,
		Description:         r.Description,
		Approved:            r.Approved,
		OrganizationCreated: r.OrganizationCreated,
		CreatedAt:           r.CreatedAt,
	}
}
