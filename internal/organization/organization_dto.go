package organization

type CreateOrganizationRequest struct {
	Name              string `json:"name" binding:"required,min=3"`
	Description       string `json:"description" binding:"required,min=3,max=500"`
	LogoURL           string `json:"logo_url"`
	ResponsiblePerson string `json:"responsible_person" binding:"required"`
	AdminEmail        string `json:"admin_email" binding:"required,email"`
	Origin            string `json:"origin"`
}

type UpdateOrganizationRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	LogoURL           string `json:"logo_url"`
	ResponsiblePerson string `json:"responsible_person"`
	AdminEmail        string `json:"admin_email" binding:"omitempty,email"`
	Origin            string `json:"origin"`
}

type UpdateOrganizationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending active inactive"`
}

type ListOrganizationsQuery struct {
	Query  string
	Status string
	Page   int
	Limit  int
}

type OrganizationResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	LogoURL           string `json:"logo_url,omitempty"`
	ResponsiblePerson string `json:"responsible_person,omitempty"`
	AdminEmail        string `json:"admin_email,omitempty"`
	Origin            string `json:"origin,omitempty"`
	Status            string `json:"status"`
	MemberCount       int64  `json:"member_count"`
	CreatedAt         string `json:"created_at"`
}
