package user

// CreateFromProviderParams carries the fields of a provider "user created"
// event after boundary validation.
type CreateFromProviderParams struct {
	ExternalID     string
	Email          string
	FirstName      string
	LastName       string
	PhotoURL       string
	Role           string
	Approved       bool
	OrganizationID string
}

// UpdateFromProviderParams is the patch applied on a "user updated" event.
// Nil fields are left untouched.
type UpdateFromProviderParams struct {
	FirstName *string
	LastName  *string
	PhotoURL  *string
	Approved  *bool
	Role      *string
}

type UpdateMemberRequest struct {
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
	Approved *bool   `json:"approved"`
}

type UserResponse struct {
	ID             string `json:"id"`
	ExternalID     string `json:"external_id"`
	OrganizationID string `json:"organization_id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PhotoURL       string `json:"photo_url,omitempty"`
	Role           string `json:"role"`
	Approved       bool   `json:"approved"`
	CreatedAt      string `json:"created_at"`
}
