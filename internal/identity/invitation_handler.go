package identity

import (
	"net/http"

	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
	"github.com/mujabaralno/qr-absence/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InviteMemberRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Role        string `json:"role" binding:"omitempty,oneof=user admin"`
	RedirectURL string `json:"redirect_url" binding:"omitempty,url"`
}

type InvitationHandler struct {
	provider *ProviderClient
	logger   *zap.Logger
}

func NewInvitationHandler(provider *ProviderClient) *InvitationHandler {
	return &InvitationHandler{
		provider: provider,
		logger:   zap.L().Named("identity.invitation"),
	}
}

// Invite sends a provider invitation scoped to the admin's own organization.
// Provider rejections surface to the caller as upstream errors.
func (h *InvitationHandler) Invite(c *gin.Context) {
	var req InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	err := h.provider.Invite(c.Request.Context(), InvitationParams{
		Email:          req.Email,
		OrganizationID: c.GetString("organization_id"),
		Role:           role,
		RedirectURL:    req.RedirectURL,
	})
	if err != nil {
		h.logger.Error("invitation failed", zap.String("email", req.Email), zap.Error(err))
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"email": req.Email}, nil)
}
