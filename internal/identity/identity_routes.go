package identity

import (
	"github.com/mujabaralno/qr-absence/internal/middleware"
	"github.com/mujabaralno/qr-absence/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the provider-facing surface. The webhook endpoint
// authenticates by signature, not by bearer token, so it stays outside the
// auth middleware.
func RegisterRoutes(r *gin.RouterGroup, webhook *WebhookHandler, invitations *InvitationHandler, rbacService rbac.Service) {
	r.POST("/webhooks/identity", middleware.RateLimitByIP(10, 30), webhook.Handle)

	invites := r.Group("/invitations")
	invites.Use(middleware.AuthMiddleware())
	{
		invites.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.Authorize(rbacService, "invitation", "send"),
			invitations.Invite,
		)
	}
}
